// Package tui provides an interactive refund estimator form.
package tui

import (
	"fmt"

	"github.com/Veraticus/taxflow/internal/model"
	"github.com/Veraticus/taxflow/internal/tax"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
)

// Estimator computes a refund estimate. *tax.Calculator satisfies it.
type Estimator interface {
	EstimateRefund(in model.TaxInput) (model.TaxResult, error)
}

// Form field indexes. Field 0 is the filing status selector; the rest are
// text inputs.
const (
	fieldStatus = iota
	fieldIncome
	fieldDeductions
	fieldCredits
	fieldWithheld
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldStatus:     "Filing status",
	fieldIncome:     "Income",
	fieldDeductions: "Deductions",
	fieldCredits:    "Credits",
	fieldWithheld:   "Withheld",
}

// Model is the bubbletea model for the estimator form.
type Model struct {
	estimator Estimator
	err       error
	result    *model.TaxResult
	help      help.Model
	keys      KeyMap
	inputs    [fieldCount]textinput.Model
	submitted model.TaxInput
	statuses  []model.FilingStatus
	status    int
	focus     int
	taxYear   int
	quitting  bool
}

// New creates the form for taxYear.
func New(estimator Estimator, taxYear int) Model {
	m := Model{
		estimator: estimator,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		statuses:  model.FilingStatuses(),
		taxYear:   taxYear,
	}

	for i := fieldIncome; i < fieldCount; i++ {
		in := textinput.New()
		in.Placeholder = "0.00"
		in.Prompt = "$ "
		in.CharLimit = 16
		in.Width = 16
		m.inputs[i] = in
	}

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Next):
		cmd := m.setFocus((m.focus + 1) % fieldCount)
		return m, cmd
	case key.Matches(msg, m.keys.Prev):
		cmd := m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, cmd
	case key.Matches(msg, m.keys.Submit):
		m.submit()
		return m, nil
	case key.Matches(msg, m.keys.Reset):
		for i := fieldIncome; i < fieldCount; i++ {
			m.inputs[i].Reset()
		}
		m.result, m.err = nil, nil
		return m, nil
	}

	if m.focus == fieldStatus {
		switch {
		case key.Matches(msg, m.keys.Left):
			m.status = (m.status + len(m.statuses) - 1) % len(m.statuses)
		case key.Matches(msg, m.keys.Right):
			m.status = (m.status + 1) % len(m.statuses)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(field int) tea.Cmd {
	m.focus = field
	var cmd tea.Cmd
	for i := fieldIncome; i < fieldCount; i++ {
		if i == field {
			cmd = m.inputs[i].Focus()
			continue
		}
		m.inputs[i].Blur()
	}
	return cmd
}

func (m *Model) submit() {
	m.result, m.err = nil, nil

	in := model.TaxInput{
		FilingStatus: m.statuses[m.status],
		TaxYear:      m.taxYear,
	}
	targets := [fieldCount]*decimal.Decimal{
		fieldIncome:     &in.Income,
		fieldDeductions: &in.Deductions,
		fieldCredits:    &in.Credits,
		fieldWithheld:   &in.Withheld,
	}
	for i := fieldIncome; i < fieldCount; i++ {
		amount, err := tax.ParseAmount(m.inputs[i].Value())
		if err != nil {
			m.err = fmt.Errorf("%s: %w", fieldLabels[i], err)
			return
		}
		*targets[i] = amount
	}

	result, err := m.estimator.EstimateRefund(in)
	if err != nil {
		m.err = err
		return
	}
	m.submitted = in
	m.result = &result
}

// Result returns the last successful estimate and its input, if any.
func (m Model) Result() (model.TaxInput, *model.TaxResult) {
	return m.submitted, m.result
}

// Err returns the error from the last submission.
func (m Model) Err() error {
	return m.err
}
