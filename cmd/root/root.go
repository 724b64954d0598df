// Package root contains the root command and the shared application wiring
// every subcommand reaches through GetContainer.
package root

import (
	"fmt"

	"spendwise/internal/config"
	"spendwise/internal/container"
	"spendwise/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var appContainer *container.Container

// Cmd is the root command.
var Cmd = &cobra.Command{
	Use:   "spendwise",
	Short: "Ingest bank statements, classify spending with AI, and browse it by period",
	Long: `spendwise turns raw bank and credit card CSV exports into categorized
spending reports. Transactions are classified with Gemini, stored locally,
and can be aggregated across calendar or mid-month accounting periods.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadEnv(logrus.StandardLogger())

		cfg, err := config.Initialize()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}

		appContainer, err = container.NewContainer(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("initialize application: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appContainer != nil {
			if err := appContainer.Close(); err != nil {
				appContainer.Logger().WithError(err).Warn("Failed to close application cleanly")
			}
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// GetContainer returns the wired application container. It is only valid
// inside a command Run, after PersistentPreRunE has executed.
func GetContainer() *container.Container {
	return appContainer
}

// SetContainer replaces the container, for tests that want to run commands
// against mocks without going through configuration loading.
func SetContainer(c *container.Container) {
	appContainer = c
}

// Logger returns the application logger, falling back to a quiet default
// before initialization.
func Logger() logging.Logger {
	if appContainer != nil {
		return appContainer.Logger()
	}
	return logging.NewLogrusAdapter("info", "text")
}
