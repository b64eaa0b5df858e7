package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/harrison/notebundle/internal/history"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent collect and bundle runs",
		Long: `History lists recent runs recorded in the local run-history database,
newest first: when each run happened, what it read and wrote, and how many
files it selected, skipped or failed.

Recording is controlled by the history section of .notebundle/config.yaml.`,
		Args: cobra.NoArgs,
		RunE: historyCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .notebundle/config.yaml)")
	cmd.Flags().Int("limit", 20, "Maximum number of runs to show")
	cmd.Flags().String("mode", "", "Filter by run mode (collect or bundle)")

	return cmd
}

// historyCommand implements the history command logic
func historyCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	mode, _ := cmd.Flags().GetString("mode")
	if mode != "" && mode != "collect" && mode != "bundle" {
		return fmt.Errorf("invalid mode %q, must be collect or bundle", mode)
	}

	if !cfg.History.Enabled {
		fmt.Fprintln(cmd.OutOrStdout(), "Run history is disabled (see history.enabled in .notebundle/config.yaml).")
		return nil
	}

	store, err := history.NewStore(cfg.History.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer store.Close()

	runs, err := store.Recent(mode, limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs.")
		return nil
	}

	// Color headers only when attached to a terminal
	colorOutput := isatty.IsTerminal(os.Stdout.Fd())
	header := fmt.Sprintf("%-20s %-8s %-9s %-9s %-8s %s", "WHEN", "MODE", "SELECTED", "SKIPPED", "FAILED", "OUTPUT")
	if colorOutput {
		header = color.New(color.FgCyan).Sprint(header)
	}
	fmt.Fprintln(cmd.OutOrStdout(), header)

	for _, run := range runs {
		line := fmt.Sprintf("%-20s %-8s %-9d %-9d %-8d %s",
			run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			run.Mode,
			run.Selected,
			run.Skipped,
			run.Failed,
			run.OutputDir,
		)
		if colorOutput && run.Failed > 0 {
			line = color.New(color.FgRed).Sprint(line)
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}

	return nil
}
