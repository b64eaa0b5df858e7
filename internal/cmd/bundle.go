package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/harrison/notebundle/internal/bundle"
	"github.com/harrison/notebundle/internal/fileutil"
	"github.com/harrison/notebundle/internal/history"
	"github.com/harrison/notebundle/internal/logger"
	"github.com/harrison/notebundle/internal/models"
	"github.com/harrison/notebundle/internal/naming"
	"github.com/harrison/notebundle/internal/scoring"
)

// NewBundleCommand creates the bundle command
func NewBundleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle <source-dir>",
		Short: "Select top-matching documents into a ranked bundle",
		Long: `Bundle scores every matching document by keyword relevance and
recency, ranks them, and copies the top matches into a fresh directory
under the bundle root, together with a machine-readable manifest.json and
a human-readable index.md.

Relevance is lexical: literal queries count case-insensitive occurrences
of each term, --regex treats the query as a single pattern applied per
line. Without a query, documents are ranked purely by recency. The --days
window excludes anything modified longer ago.

Each run writes a new directory named <timestamp>__<slug>, so repeated
runs never overwrite earlier bundles.

Configuration is loaded from .notebundle/config.yaml if present.
CLI flags override configuration file settings.

Examples:
  # Top 25 matches for a query from the last 180 days
  notebundle bundle research/ --query "irsa s3" --days 180 --limit 25

  # Everything touched in the last 14 days (no query)
  notebundle bundle research/ --days 14 --limit 200

  # Regex query with a custom bundle name
  notebundle bundle research/ --query 'kube(rnetes)?' --regex --name kube-docs`,
		Args: cobra.ExactArgs(1),
		RunE: bundleCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .notebundle/config.yaml)")
	cmd.Flags().String("query", "", "Search terms (space-separated), or a pattern with --regex")
	cmd.Flags().Bool("regex", false, "Treat --query as a single regex pattern")
	cmd.Flags().Int("days", 0, "Only include files modified within N days (default: 365)")
	cmd.Flags().Int("limit", 0, "Maximum number of files to include (default: 50)")
	cmd.Flags().String("out", "", "Bundle root directory (default: ./notebook-bundles)")
	cmd.Flags().String("name", "", "Bundle name (default: derived from the query)")
	cmd.Flags().String("ext", "", "Comma-separated extensions to include (default: md,mdx)")
	cmd.Flags().Float64("keyword-weight", 0, "Weight applied to keyword hits")
	cmd.Flags().Float64("recency-weight", 0, "Weight applied to the recency score")
	cmd.Flags().Bool("verbose", false, "Stream per-file decisions as they occur")

	return cmd
}

// bundleCommand implements the bundle command logic
func bundleCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Build flag pointers for merge (only explicitly set values)
	var daysPtr, limitPtr *int
	if cmd.Flags().Changed("days") {
		v, _ := cmd.Flags().GetInt("days")
		daysPtr = &v
	}
	if cmd.Flags().Changed("limit") {
		v, _ := cmd.Flags().GetInt("limit")
		limitPtr = &v
	}
	var kwPtr, rwPtr *float64
	if cmd.Flags().Changed("keyword-weight") {
		v, _ := cmd.Flags().GetFloat64("keyword-weight")
		kwPtr = &v
	}
	if cmd.Flags().Changed("recency-weight") {
		v, _ := cmd.Flags().GetFloat64("recency-weight")
		rwPtr = &v
	}
	cfg.MergeWithFlags(daysPtr, limitPtr, kwPtr, rwPtr, nil)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	sourceDir := args[0]
	queryText, _ := cmd.Flags().GetString("query")
	regexMode, _ := cmd.Flags().GetBool("regex")
	outRoot, _ := cmd.Flags().GetString("out")
	if outRoot == "" {
		outRoot = cfg.BundleRoot
	}
	name, _ := cmd.Flags().GetString("name")
	extList, _ := cmd.Flags().GetString("ext")
	if extList == "" {
		extList = cfg.BundleExtensions
	}
	verbose, _ := cmd.Flags().GetBool("verbose")

	// A malformed regex is a configuration error: fail before any work
	query, err := scoring.ParseQuery(queryText, regexMode)
	if err != nil {
		return err
	}

	logLevel := cfg.LogLevel
	if verbose {
		logLevel = "debug"
	}
	log := logger.NewConsoleLogger(cmd.OutOrStdout(), logLevel)

	scan, err := fileutil.Scan(sourceDir, fileutil.ScanOptions{
		Extensions: fileutil.ParseExtensions(extList),
		Recursive:  true,
	})
	if err != nil {
		return err
	}
	for _, e := range scan.Errors {
		log.LogWarn(e.Error())
	}

	now := time.Now()
	scorer := scoring.Scorer{
		Query:         query,
		Now:           now,
		WindowDays:    cfg.Days,
		KeywordWeight: cfg.KeywordWeight,
		RecencyWeight: cfg.RecencyWeight,
	}

	candidates := make([]models.ScoredCandidate, 0, len(scan.Docs))
	for _, doc := range scan.Docs {
		cand := scorer.ScoreFile(doc)
		candidates = append(candidates, cand)
		log.LogFileDecision("scored", doc.RelPath,
			fmt.Sprintf("hits=%d score=%.2f", cand.Hits, cand.Combined))
	}

	selected, err := bundle.Select(candidates, bundle.SelectOptions{
		Limit:       cfg.Limit,
		Days:        cfg.Days,
		HardWindow:  cfg.HardWindow,
		RequireHits: !query.IsZero(),
	})
	if err != nil {
		return err
	}

	absSource, err := filepath.Abs(sourceDir)
	if err != nil {
		return fmt.Errorf("failed to resolve source directory: %w", err)
	}

	b := &models.Bundle{
		ID:         uuid.NewString(),
		Selected:   selected,
		CreatedAt:  now,
		Slug:       naming.Slug(queryText, name),
		Query:      queryText,
		Regex:      regexMode,
		Days:       cfg.Days,
		Limit:      cfg.Limit,
		SourceDir:  absSource,
		Considered: len(candidates),
	}

	result, err := bundle.Write(b, outRoot, filepath.Base(absSource), log)
	if err != nil {
		return err
	}

	log.LogBundleSummary(b, result.Dir)
	fmt.Fprintln(cmd.OutOrStdout(), result.Dir)

	recordRun(cfg, log, &history.Run{
		ID:         b.ID,
		Mode:       "bundle",
		SourceDir:  absSource,
		OutputDir:  result.Dir,
		Query:      queryText,
		Regex:      regexMode,
		Days:       cfg.Days,
		Limit:      cfg.Limit,
		Selected:   result.Written,
		Considered: len(candidates),
		Failed:     len(result.Failed),
	})

	if len(result.Failed) > 0 {
		return fmt.Errorf("%d selected file(s) failed to copy", len(result.Failed))
	}

	return nil
}
