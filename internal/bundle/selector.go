// Package bundle ranks scored candidates and materializes the selected
// subset as a flat, upload-ready directory with a manifest and index.
package bundle

import (
	"fmt"
	"sort"

	"github.com/harrison/notebundle/internal/models"
)

// SelectOptions configures ranking and truncation.
type SelectOptions struct {
	// Limit is the maximum number of candidates to keep; must be positive
	Limit int
	// Days is the recency window in days
	Days int
	// HardWindow discards candidates older than Days outright, instead of
	// merely giving them recency score 0
	HardWindow bool
	// RequireHits drops candidates with zero query matches; only
	// meaningful when a query was supplied
	RequireHits bool
}

// Select orders candidates and truncates to the requested maximum.
//
// Ordering is combined score descending, then age ascending (more recent
// wins ties), then relative path ascending. The final path tie-break makes
// repeated runs over unchanged input produce identical orderings.
//
// Zero surviving candidates is not an error; it yields an empty selection.
func Select(cands []models.ScoredCandidate, opts SelectOptions) ([]models.ScoredCandidate, error) {
	if opts.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", opts.Limit)
	}

	kept := make([]models.ScoredCandidate, 0, len(cands))
	for _, c := range cands {
		if opts.HardWindow && opts.Days > 0 && c.AgeDays > float64(opts.Days) {
			continue
		}
		if opts.RequireHits && c.Hits == 0 {
			continue
		}
		kept = append(kept, c)
	}

	sort.Slice(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.Combined != b.Combined {
			return a.Combined > b.Combined
		}
		if a.AgeDays != b.AgeDays {
			return a.AgeDays < b.AgeDays
		}
		return a.Doc.RelPath < b.Doc.RelPath
	})

	if len(kept) > opts.Limit {
		kept = kept[:opts.Limit]
	}

	return kept, nil
}
