package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for notebundle
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notebundle",
		Short: "Collect and bundle documentation for notebook upload",
		Long: `Notebundle gathers scattered documentation files from a source tree
into flat, upload-ready directories.

The collect command copies every matching file into one directory with
collision-safe names derived from each file's path. The bundle command
ranks documents by keyword relevance and recency, then exports the top
matches together with a JSON manifest and a Markdown index.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	// Add subcommands
	cmd.AddCommand(NewCollectCommand())
	cmd.AddCommand(NewBundleCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
