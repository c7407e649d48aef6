package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quorum",
		Short: "Quorum - multi-evaluator content scoring",
		Long: `Quorum scores long-form content with a panel of LLM evaluators.

Each enabled provider is paired with each reviewer persona; the panel runs
concurrently, individual failures are tolerated, and the surviving scores
are combined with a configurable statistical method into a single verdict
and a publish/reject decision.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newEvaluateCommand())
	cmd.AddCommand(newPersonasCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
