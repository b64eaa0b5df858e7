package bundle

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harrison/notebundle/internal/filelock"
	"github.com/harrison/notebundle/internal/fileutil"
	"github.com/harrison/notebundle/internal/models"
	"github.com/harrison/notebundle/internal/naming"
)

// Logger receives per-entry progress events from the writer.
type Logger interface {
	LogFileDecision(action, relPath, detail string)
	LogWarn(message string)
}

// Manifest is the machine-readable bundle listing, parseable without any
// knowledge of this tool.
type Manifest struct {
	ID         string          `json:"id"`
	CreatedAt  time.Time       `json:"createdAt"`
	Query      string          `json:"query"`
	Regex      bool            `json:"regex"`
	Days       int             `json:"days"`
	Limit      int             `json:"limit"`
	SourceDir  string          `json:"sourceDir"`
	Considered int             `json:"considered"`
	Selected   []ManifestEntry `json:"selected"`
}

// ManifestEntry describes one selected document.
type ManifestEntry struct {
	Rank     int       `json:"rank"`
	Relative string    `json:"relative"`
	Out      string    `json:"out"`
	Modified time.Time `json:"modified"`
	AgeDays  float64   `json:"ageDays"`
	Hits     int       `json:"hits"`
	Score    float64   `json:"score"`
}

// WriteResult summarizes what the writer materialized.
type WriteResult struct {
	// Dir is the bundle directory that was created
	Dir string
	// Written is the number of documents copied (always equals the
	// manifest entry count)
	Written int
	// Failed lists entries whose copies failed; they are excluded from
	// the manifest so listing and filesystem never disagree
	Failed []models.FileFailure
}

// Write materializes a bundle under outRoot.
//
// The bundle directory is keyed by timestamp and slug
// (<YYYYMMDD-HHMMSS>__<slug>) so repeated invocations never overwrite
// prior bundles. Inside it: flattened copies of every selected document
// (named by the same sanitizer collection uses, under prefix), a
// manifest.json, and a human-readable index.md. Manifest and index are
// written atomically.
func Write(b *models.Bundle, outRoot, prefix string, log Logger) (*WriteResult, error) {
	dirName := b.CreatedAt.Format("20060102-150405") + "__" + b.Slug
	bundleDir := filepath.Join(outRoot, dirName)
	if err := os.MkdirAll(bundleDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create bundle directory %s: %w", bundleDir, err)
	}

	result := &WriteResult{Dir: bundleDir}
	entries := make([]ManifestEntry, 0, len(b.Selected))
	titles := make(map[string]string, len(b.Selected))
	used := make(map[string]bool, len(b.Selected))

	for i, cand := range b.Selected {
		outName := naming.NormalizeExt(naming.FlatName(prefix, cand.Doc.RelPath))
		// Distinct paths can share a plain flat name (hyphenated segments,
		// mdx normalization); the second writer must not overwrite the first
		if used[outName] {
			outName = naming.Disambiguate(outName, cand.Doc.RelPath)
		}
		used[outName] = true

		content, readErr := os.ReadFile(cand.Doc.AbsPath)
		if readErr == nil {
			titles[outName] = documentTitle(cand.Doc.RelPath, content)
		} else {
			titles[outName] = documentTitle(cand.Doc.RelPath, nil)
		}

		if err := fileutil.CopyFile(cand.Doc.AbsPath, filepath.Join(bundleDir, outName)); err != nil {
			result.Failed = append(result.Failed, models.FileFailure{RelPath: cand.Doc.RelPath, Err: err})
			if log != nil {
				log.LogWarn(fmt.Sprintf("failed to copy %s: %v", cand.Doc.RelPath, err))
			}
			continue
		}

		entries = append(entries, ManifestEntry{
			Rank:     i + 1,
			Relative: cand.Doc.RelPath,
			Out:      outName,
			Modified: cand.Doc.ModTime.UTC(),
			AgeDays:  round(cand.AgeDays, 2),
			Hits:     cand.Hits,
			Score:    round(cand.Combined, 3),
		})
		result.Written++
		if log != nil {
			log.LogFileDecision("bundled", cand.Doc.RelPath, outName)
		}
	}

	manifest := Manifest{
		ID:         b.ID,
		CreatedAt:  b.CreatedAt.UTC(),
		Query:      b.Query,
		Regex:      b.Regex,
		Days:       b.Days,
		Limit:      b.Limit,
		SourceDir:  b.SourceDir,
		Considered: b.Considered,
		Selected:   entries,
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := filelock.AtomicWrite(filepath.Join(bundleDir, "manifest.json"), data); err != nil {
		return nil, err
	}

	index := renderIndex(b, entries, titles)
	if err := filelock.AtomicWrite(filepath.Join(bundleDir, "index.md"), []byte(index)); err != nil {
		return nil, err
	}

	return result, nil
}

// renderIndex produces the plain-Markdown index intended for visual
// scanning before upload.
func renderIndex(b *models.Bundle, entries []ManifestEntry, titles map[string]string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Bundle: %s\n\n", b.Slug)
	fmt.Fprintf(&sb, "- Created: %s\n", b.CreatedAt.UTC().Format(time.RFC3339))
	if b.Query != "" {
		fmt.Fprintf(&sb, "- Query: `%s` (regex: %v)\n", b.Query, b.Regex)
	} else {
		fmt.Fprintf(&sb, "- Query: (none)\n")
	}
	fmt.Fprintf(&sb, "- Window: last %d days\n", b.Days)
	fmt.Fprintf(&sb, "- Files: %d\n", len(entries))
	sb.WriteString("\n## Files\n\n")

	for _, e := range entries {
		title := titles[e.Out]
		fmt.Fprintf(&sb, "%d. `%s` (from `%s`): %s [hits=%d, ageDays=%.1f]\n",
			e.Rank, e.Out, e.Relative, title, e.Hits, e.AgeDays)
	}

	return sb.String()
}

func round(v float64, places int) float64 {
	scale := math.Pow10(places)
	return math.Round(v*scale) / scale
}
