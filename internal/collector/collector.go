// Package collector implements the flat-copy collection pipeline:
// discover documents, normalize their format, flatten their names, and
// copy them into a single upload-ready directory.
package collector

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/harrison/notebundle/internal/filelock"
	"github.com/harrison/notebundle/internal/fileutil"
	"github.com/harrison/notebundle/internal/models"
	"github.com/harrison/notebundle/internal/naming"
)

// lockFileName serializes concurrent collectors targeting one output
// directory, so collision decisions cannot interleave.
const lockFileName = ".notebundle.lock"

// Logger receives per-file decisions and warnings as they occur.
type Logger interface {
	LogFileDecision(action, relPath, detail string)
	LogWarn(message string)
}

// Options configures a collection run.
type Options struct {
	// SourceDir is the directory to collect from (required)
	SourceDir string
	// OutputDir receives the flattened copies
	OutputDir string
	// Extensions filters discovery (e.g. ["md", "mdx"])
	Extensions []string
	// Prefix is the output filename prefix; empty means "derive from the
	// source directory's base name" (resolved once by Resolve)
	Prefix string
	// Recursive enables recursive discovery
	Recursive bool
	// Overwrite replaces existing destination files instead of skipping
	Overwrite bool
	// Logger receives progress events; nil disables them
	Logger Logger
}

// Resolve fills in derived option values. The implicit prefix is resolved
// here, once, rather than falling back inside the naming calls.
func (o *Options) Resolve() error {
	if o.SourceDir == "" {
		return fmt.Errorf("source directory is required")
	}
	if o.Prefix == "" {
		abs, err := filepath.Abs(o.SourceDir)
		if err != nil {
			return fmt.Errorf("failed to resolve source directory: %w", err)
		}
		o.Prefix = filepath.Base(abs)
	}
	return nil
}

// Run executes the collection pipeline and returns a summary of collected,
// skipped and failed files.
//
// Per-file copy errors do not abort the run: they are recorded and the
// remaining files are still processed. Collisions under overwrite=false
// are skips, reported separately from failures. The source tree is never
// mutated.
func Run(opts Options) (*models.CollectSummary, error) {
	if err := opts.Resolve(); err != nil {
		return nil, err
	}

	scan, err := fileutil.Scan(opts.SourceDir, fileutil.ScanOptions{
		Extensions: opts.Extensions,
		Recursive:  opts.Recursive,
	})
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", opts.OutputDir, err)
	}

	lock := filelock.NewFileLock(filepath.Join(opts.OutputDir, lockFileName))
	if err := lock.Lock(); err != nil {
		return nil, err
	}
	defer lock.Unlock()

	summary := &models.CollectSummary{OutputDir: opts.OutputDir}

	for _, e := range scan.Errors {
		if opts.Logger != nil {
			opts.Logger.LogWarn(e.Error())
		}
		summary.Failed = append(summary.Failed, models.FileFailure{RelPath: "(discovery)", Err: e})
	}

	for _, doc := range scan.Docs {
		outName := naming.NormalizeExt(naming.FlatName(opts.Prefix, doc.RelPath))
		dest := filepath.Join(opts.OutputDir, outName)

		existed := false
		if _, err := os.Stat(dest); err == nil {
			existed = true
		}

		if existed && !opts.Overwrite {
			summary.Skipped = append(summary.Skipped, doc.RelPath)
			if opts.Logger != nil {
				opts.Logger.LogFileDecision("skipped", doc.RelPath, outName+" already exists")
			}
			continue
		}

		if err := fileutil.CopyFile(doc.AbsPath, dest); err != nil {
			summary.Failed = append(summary.Failed, models.FileFailure{RelPath: doc.RelPath, Err: err})
			if opts.Logger != nil {
				opts.Logger.LogWarn(fmt.Sprintf("failed to copy %s: %v", doc.RelPath, err))
			}
			continue
		}

		summary.Collected = append(summary.Collected, models.CollectedFile{
			OutName:   outName,
			RelPath:   doc.RelPath,
			Prefix:    opts.Prefix,
			Overwrote: existed,
		})
		if opts.Logger != nil {
			opts.Logger.LogFileDecision("collected", doc.RelPath, outName)
		}
	}

	return summary, nil
}
