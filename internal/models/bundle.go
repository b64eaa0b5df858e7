package models

import "time"

// ScoredCandidate is a SourceDocument augmented with ranking inputs.
// Combined is a pure function of Hits and AgeDays; nothing outside the
// scorer's explicit inputs affects it.
type ScoredCandidate struct {
	Doc SourceDocument

	// Hits is the number of non-overlapping query matches in the content
	Hits int

	// AgeDays is the document age at scoring time, in fractional days
	AgeDays float64

	// Recency is the linear in-window recency score in [0, 1]
	Recency float64

	// Combined is the final ranking score
	Combined float64
}

// Bundle is the output of one ranking run: the ordered selection plus the
// parameters that produced it.
type Bundle struct {
	// ID uniquely identifies this bundle run
	ID string

	// Selected holds the chosen candidates in rank order (rank 1 first)
	Selected []ScoredCandidate

	// CreatedAt is the generation timestamp
	CreatedAt time.Time

	// Slug is the human-readable identifier used in the directory name
	Slug string

	// Query is the query text as supplied ("" when none)
	Query string

	// Regex is true when the query was interpreted as a regular expression
	Regex bool

	// Days is the recency window applied
	Days int

	// Limit is the maximum entry count that was requested
	Limit int

	// SourceDir is the source root the candidates came from
	SourceDir string

	// Considered is the number of candidates examined before selection
	Considered int
}
