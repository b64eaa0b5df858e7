// Package fileutil discovers source documents under a root directory.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/harrison/notebundle/internal/models"
)

// ScanOptions configures the directory scanning behavior
type ScanOptions struct {
	// Extensions is a list of file extensions to include (e.g., ".md", "mdx").
	// Matching is case-insensitive on the final dot-segment. An empty list
	// matches every file.
	Extensions []string
	// Recursive enables recursive directory scanning; when false only
	// direct children of the root are considered
	Recursive bool
	// ExcludeDirs is a list of directory names to exclude (e.g., ".git", "node_modules")
	ExcludeDirs []string
}

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Docs contains all matched documents, sorted lexicographically by
	// relative path for deterministic output across runs
	Docs []models.SourceDocument
	// Errors contains per-entry errors encountered during scanning
	Errors []error
}

// ParseExtensions turns a comma-separated extension list ("md,mdx") into
// the slice form ScanOptions expects. Empty segments are dropped.
func ParseExtensions(list string) []string {
	var exts []string
	for _, e := range strings.Split(list, ",") {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		exts = append(exts, e)
	}
	return exts
}

// Scan walks root for files matching the provided options.
//
// A nonexistent or unreadable root is a hard error: silently returning an
// empty result would make a misconfigured source directory look like an
// empty one. Errors on individual entries below the root are collected in
// ScanResult.Errors and do not abort the walk.
func Scan(root string, opts ScanOptions) (*ScanResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	extMap := make(map[string]bool)
	for _, ext := range opts.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extMap[strings.ToLower(ext)] = true
	}

	excludeMap := make(map[string]bool)
	for _, dir := range opts.ExcludeDirs {
		excludeMap[dir] = true
	}

	result := &ScanResult{
		Docs:   make([]models.SourceDocument, 0),
		Errors: make([]error, 0),
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			// An error on the root itself means the whole source directory
			// is unreadable; failing hard keeps a misconfigured source from
			// looking like an empty one
			if path == root {
				return err
			}
			result.Errors = append(result.Errors, fmt.Errorf("error accessing %s: %w", path, err))
			return nil // Continue walking
		}

		// Skip the root directory itself
		if path == root {
			return nil
		}

		if d.IsDir() {
			if excludeMap[d.Name()] || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if !opts.Recursive {
				return filepath.SkipDir
			}
			return nil
		}

		if len(extMap) > 0 {
			ext := strings.ToLower(filepath.Ext(d.Name()))
			if !extMap[ext] {
				return nil
			}
		}

		fi, err := d.Info()
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("failed to stat %s: %w", path, err))
			return nil
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("failed to resolve path %s: %w", path, err))
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("failed to relativize %s: %w", path, err))
			return nil
		}

		result.Docs = append(result.Docs, models.SourceDocument{
			AbsPath: absPath,
			RelPath: models.NormalizeRelPath(rel),
			Ext:     strings.ToLower(filepath.Ext(d.Name())),
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	// Sort for consistent output
	sort.Slice(result.Docs, func(i, j int) bool {
		return result.Docs[i].RelPath < result.Docs[j].RelPath
	})

	return result, nil
}
