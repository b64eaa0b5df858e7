package models

// CollectedFile records the outcome for a single document processed by the
// collector. Within one run, OutName values of collected files are unique.
type CollectedFile struct {
	// OutName is the generated flat output filename (no path separators)
	OutName string

	// RelPath is the source path relative to the source root
	RelPath string

	// Prefix is the filename prefix that was applied
	Prefix string

	// Overwrote is true when an existing destination file was replaced
	Overwrote bool
}

// FileFailure pairs a source document with the error that prevented it
// from being copied.
type FileFailure struct {
	RelPath string
	Err     error
}

// CollectSummary aggregates the results of one collection run.
type CollectSummary struct {
	// Collected lists files successfully copied to the output directory
	Collected []CollectedFile

	// Skipped lists relative paths skipped due to naming collisions
	// under overwrite=false (reported distinctly from failures)
	Skipped []string

	// Failed lists per-file I/O errors encountered during the run
	Failed []FileFailure

	// OutputDir is the directory the run wrote into
	OutputDir string
}

// HasFailures reports whether any file failed to copy. Skips do not count.
func (s *CollectSummary) HasFailures() bool {
	return len(s.Failed) > 0
}
