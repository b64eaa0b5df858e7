package models

import (
	"path"
	"strings"
	"time"
)

// SourceDocument represents a file found under the source root.
// Instances are built fresh on every run and never mutated afterwards.
type SourceDocument struct {
	// AbsPath is the absolute path of the file on the host filesystem
	AbsPath string

	// RelPath is the path relative to the source root, always with
	// forward-slash separators regardless of host platform
	RelPath string

	// Ext is the file extension, lowercased, including the leading dot
	// (empty when the filename has no extension)
	Ext string

	// Size is the file size in bytes
	Size int64

	// ModTime is the last-modified timestamp
	ModTime time.Time
}

// Base returns the final path element of the relative path.
func (d SourceDocument) Base() string {
	return path.Base(d.RelPath)
}

// AgeDays returns the document age in fractional days relative to now.
// Never negative: files with timestamps in the future count as age 0.
func (d SourceDocument) AgeDays(now time.Time) float64 {
	age := now.Sub(d.ModTime).Hours() / 24.0
	if age < 0 {
		return 0
	}
	return age
}

// NormalizeRelPath converts a host-native relative path to the canonical
// forward-slash form stored on SourceDocument.
func NormalizeRelPath(rel string) string {
	return strings.ReplaceAll(rel, "\\", "/")
}
