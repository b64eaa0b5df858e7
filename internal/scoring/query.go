// Package scoring computes relevance scores for candidate documents from
// lexical query matches and file recency. Scoring is deliberately not
// semantic: a hit count and a modification timestamp are the only signals.
package scoring

import (
	"fmt"
	"regexp"
	"strings"
)

// QueryKind discriminates the query variants a scorer can consume.
type QueryKind int

const (
	// NoQuery ranks on recency alone
	NoQuery QueryKind = iota
	// LiteralQuery counts case-insensitive occurrences of each
	// whitespace-separated term
	LiteralQuery
	// RegexQuery counts matches of a caller-supplied pattern, applied
	// per line
	RegexQuery
)

// Query is the tagged literal/regex/none variant consumed by the Scorer.
// Build one with ParseQuery; the zero value is NoQuery.
type Query struct {
	kind     QueryKind
	text     string
	patterns []*regexp.Regexp
}

// ParseQuery validates and compiles the query once, before any pipeline
// work begins. A malformed regex is a configuration error.
func ParseQuery(text string, regex bool) (Query, error) {
	if strings.TrimSpace(text) == "" {
		return Query{}, nil
	}

	if regex {
		pat, err := regexp.Compile("(?i)" + text)
		if err != nil {
			return Query{}, fmt.Errorf("invalid regex query %q: %w", text, err)
		}
		return Query{kind: RegexQuery, text: text, patterns: []*regexp.Regexp{pat}}, nil
	}

	var patterns []*regexp.Regexp
	for _, term := range strings.Fields(text) {
		patterns = append(patterns, regexp.MustCompile("(?i)"+regexp.QuoteMeta(term)))
	}
	return Query{kind: LiteralQuery, text: text, patterns: patterns}, nil
}

// Kind returns the query variant.
func (q Query) Kind() QueryKind { return q.kind }

// Text returns the query as originally supplied.
func (q Query) Text() string { return q.text }

// IsZero reports whether no query was supplied.
func (q Query) IsZero() bool { return q.kind == NoQuery }

// CountHits returns the number of non-overlapping matches in content.
//
// Literal terms are counted over the whole text; regex patterns are applied
// per line and summed, so ^ and $ anchor within lines rather than across
// the whole document.
func (q Query) CountHits(content string) int {
	switch q.kind {
	case NoQuery:
		return 0
	case LiteralQuery:
		hits := 0
		for _, pat := range q.patterns {
			hits += len(pat.FindAllStringIndex(content, -1))
		}
		return hits
	case RegexQuery:
		hits := 0
		pat := q.patterns[0]
		for _, line := range strings.Split(content, "\n") {
			hits += len(pat.FindAllStringIndex(line, -1))
		}
		return hits
	default:
		return 0
	}
}
