package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Veraticus/taxflow/internal/cli"
	"github.com/Veraticus/taxflow/internal/common"
	"github.com/Veraticus/taxflow/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	version  = "dev"
	settings config.Settings
	rootCmd  = newRootCmd()
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taxflow",
		Short: "🧾 Federal income tax estimator",
		Long: `taxflow estimates federal income tax from annual totals: refund or
amount owed, self-employment tax with quarterly payments, and per-paycheck
withholding. Estimates can be saved locally and reviewed later.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/taxflow/config.yaml)")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	cmd.PersistentFlags().String("tables-dir", "", "directory of YAML tax tables overriding the built-in years")
	cmd.PersistentFlags().String("db", "", "estimate history database (default: "+config.DefaultDatabasePath+")")

	_ = viper.BindPFlag(config.KeyLogLevel, cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyLogFormat, cmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag(config.KeyTablesDir, cmd.PersistentFlags().Lookup("tables-dir"))
	_ = viper.BindPFlag(config.KeyDatabasePath, cmd.PersistentFlags().Lookup("db"))

	cmd.AddCommand(refundCmd())
	cmd.AddCommand(selfEmploymentCmd())
	cmd.AddCommand(withholdingCmd())
	cmd.AddCommand(bracketsCmd())
	cmd.AddCommand(batchCmd())
	cmd.AddCommand(historyCmd())
	cmd.AddCommand(interactiveCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(common.Describe(err)))
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		viper.AddConfigPath(fmt.Sprintf("%s/.config/taxflow", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("TAXFLOW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	loaded, err := config.FromViper(viper.GetViper())
	if err != nil {
		return err
	}
	settings = loaded

	level, err := common.ParseLevel(settings.LogLevel)
	if err != nil {
		return err
	}
	if err := common.SetupLogger(level, settings.LogFormat); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	slog.Debug("Configuration loaded",
		"config_file", viper.ConfigFileUsed(),
		"database", settings.DatabasePath,
		"tables_dir", settings.TablesDir,
		"tax_year", settings.TaxYear)

	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taxflow %s\n", version)
		},
	}
}
