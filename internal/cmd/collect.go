package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/notebundle/internal/collector"
	"github.com/harrison/notebundle/internal/config"
	"github.com/harrison/notebundle/internal/fileutil"
	"github.com/harrison/notebundle/internal/history"
	"github.com/harrison/notebundle/internal/logger"
)

// NewCollectCommand creates the collect command
func NewCollectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect <source-dir>",
		Short: "Copy documentation files into a flat upload directory",
		Long: `Collect walks a source directory for documentation files and copies
them into a single flat output directory.

Output names encode each file's original location (path separators become
hyphens) so same-named files from different directories never collide.
MDX files are renamed to .md on output; their content is copied unchanged.

Existing destination files are skipped unless --overwrite is given; skips
are reported in the final summary. Per-file copy errors do not abort the
run, but any failure makes the command exit non-zero.

Configuration is loaded from .notebundle/config.yaml if present.
CLI flags override configuration file settings.

Examples:
  # Collect all Markdown under docs/ into ./notebook-upload
  notebundle collect docs/

  # Include MDX, use a custom prefix and output directory
  notebundle collect docs/ --ext md,mdx --prefix proj --out ./upload

  # Replace previously collected files
  notebundle collect docs/ --overwrite

  # Only direct children, streaming per-file decisions
  notebundle collect docs/ --recursive=false --verbose`,
		Args: cobra.ExactArgs(1),
		RunE: collectCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .notebundle/config.yaml)")
	cmd.Flags().String("out", "", "Output directory (default: ./notebook-upload)")
	cmd.Flags().String("ext", "", "Comma-separated extensions to include (default: md)")
	cmd.Flags().String("prefix", "", "Output filename prefix (default: source directory base name)")
	cmd.Flags().Bool("recursive", true, "Recurse into subdirectories")
	cmd.Flags().Bool("overwrite", false, "Replace existing destination files instead of skipping")
	cmd.Flags().Bool("verbose", false, "Stream per-file decisions as they occur")

	return cmd
}

// collectCommand implements the collect command logic
func collectCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sourceDir := args[0]
	outDir, _ := cmd.Flags().GetString("out")
	if outDir == "" {
		outDir = cfg.OutputDir
	}
	extList, _ := cmd.Flags().GetString("ext")
	if extList == "" {
		extList = cfg.CollectExtensions
	}
	prefix, _ := cmd.Flags().GetString("prefix")
	recursive, _ := cmd.Flags().GetBool("recursive")
	overwrite, _ := cmd.Flags().GetBool("overwrite")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logLevel := cfg.LogLevel
	if verbose {
		logLevel = "debug"
	}
	log := logger.NewConsoleLogger(cmd.OutOrStdout(), logLevel)

	summary, err := collector.Run(collector.Options{
		SourceDir:  sourceDir,
		OutputDir:  outDir,
		Extensions: fileutil.ParseExtensions(extList),
		Prefix:     prefix,
		Recursive:  recursive,
		Overwrite:  overwrite,
		Logger:     log,
	})
	if err != nil {
		return err
	}

	log.LogCollectSummary(summary)

	recordRun(cfg, log, &history.Run{
		Mode:      "collect",
		SourceDir: sourceDir,
		OutputDir: summary.OutputDir,
		Selected:  len(summary.Collected),
		Skipped:   len(summary.Skipped),
		Failed:    len(summary.Failed),
	})

	if summary.HasFailures() {
		return fmt.Errorf("%d file(s) failed to copy", len(summary.Failed))
	}

	return nil
}

// loadConfig loads configuration from --config or the default location.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath != "" {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
		return cfg, nil
	}
	cfg, err := config.LoadConfigFromDir(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// recordRun appends a row to the history store when enabled. History is
// best-effort: failures are logged and otherwise ignored.
func recordRun(cfg *config.Config, log *logger.ConsoleLogger, run *history.Run) {
	if !cfg.History.Enabled {
		return
	}
	store, err := history.NewStore(cfg.History.DBPath)
	if err != nil {
		log.LogWarn(fmt.Sprintf("history disabled for this run: %v", err))
		return
	}
	defer store.Close()

	if err := store.Record(run); err != nil {
		log.LogWarn(fmt.Sprintf("failed to record run history: %v", err))
	}
}
