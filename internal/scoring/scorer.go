package scoring

import (
	"os"
	"time"

	"github.com/harrison/notebundle/internal/models"
)

// Default weights carried from the original bundling tool: keyword hits
// dominate, recency breaks ties and rewards freshness. Both are tunable
// via configuration.
const (
	DefaultKeywordWeight = 100.0
	DefaultRecencyWeight = 10.0
)

// Scorer turns SourceDocuments into ScoredCandidates. The reference time
// is fixed at construction so scoring is a pure function of its inputs and
// does not drift over a long run.
type Scorer struct {
	Query Query
	// Now is the reference timestamp for age calculations
	Now time.Time
	// WindowDays is the recency window; documents older than the window
	// get recency 0 (exclusion is the Selector's call, not the Scorer's)
	WindowDays int
	// KeywordWeight scales the hit count
	KeywordWeight float64
	// RecencyWeight scales the recency score
	RecencyWeight float64
}

// NewScorer builds a Scorer with the default weights.
func NewScorer(q Query, now time.Time, windowDays int) Scorer {
	return Scorer{
		Query:         q,
		Now:           now,
		WindowDays:    windowDays,
		KeywordWeight: DefaultKeywordWeight,
		RecencyWeight: DefaultRecencyWeight,
	}
}

// Score computes the ScoredCandidate for a document given its content.
//
// recency = max(0, 1 - ageDays/windowDays)
// combined = keywordWeight*hits + recencyWeight*recency
//
// With no query, combined is the recency score alone, producing a pure
// recency-ordered ranking.
func (s Scorer) Score(doc models.SourceDocument, content string) models.ScoredCandidate {
	age := doc.AgeDays(s.Now)

	window := s.WindowDays
	if window < 1 {
		window = 1
	}
	recency := 1.0 - age/float64(window)
	if recency < 0 {
		recency = 0
	}

	cand := models.ScoredCandidate{
		Doc:     doc,
		AgeDays: age,
		Recency: recency,
	}

	if s.Query.IsZero() {
		cand.Combined = recency
		return cand
	}

	cand.Hits = s.Query.CountHits(content)
	cand.Combined = s.KeywordWeight*float64(cand.Hits) + s.RecencyWeight*recency
	return cand
}

// ScoreFile reads the document from disk and scores it. An unreadable file
// scores zero hits rather than failing the run; it can still rank on
// recency.
func (s Scorer) ScoreFile(doc models.SourceDocument) models.ScoredCandidate {
	content := ""
	if !s.Query.IsZero() {
		if data, err := os.ReadFile(doc.AbsPath); err == nil {
			content = string(data)
		}
	}
	return s.Score(doc, content)
}
