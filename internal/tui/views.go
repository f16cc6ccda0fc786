package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/taxflow/internal/cli"
	"github.com/Veraticus/taxflow/internal/common"
	"github.com/charmbracelet/lipgloss"
)

var (
	focusedLabel = lipgloss.NewStyle().Bold(true).Foreground(cli.PrimaryColor).Width(16)
	blurredLabel = lipgloss.NewStyle().Foreground(cli.SubtleColor).Width(16)
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(cli.FormatTitle(fmt.Sprintf("%d refund estimator", m.taxYear)))
	b.WriteString("\n")

	for i := 0; i < fieldCount; i++ {
		label := blurredLabel
		if i == m.focus {
			label = focusedLabel
		}
		b.WriteString(label.Render(fieldLabels[i]))

		if i == fieldStatus {
			b.WriteString("‹ " + m.statuses[m.status].Label() + " ›")
		} else {
			b.WriteString(m.inputs[i].View())
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(cli.FormatError(common.Describe(m.err)))
		b.WriteString("\n")
	case m.result != nil:
		b.WriteString(cli.RenderRefund(m.submitted, *m.result))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
