// Package naming produces collision-safe flat filenames and bundle slugs.
//
// Flattened names encode the document's directory structure, so two files
// with the same base name in different directories never collide in the
// flat output directory.
package naming

import (
	"crypto/sha1"
	"encoding/hex"
	"path"
	"regexp"
	"strings"
)

// maxFlatNameLen bounds generated filenames; longer names collapse to a
// truncated stem plus a content-independent hash of the relative path.
const maxFlatNameLen = 180

var (
	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)
	slugRuns    = regexp.MustCompile(`[^a-z0-9._-]+`)
	nameRuns    = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

// FlatName converts a forward-slash relative path into a single flat
// filename with no path separators.
//
// Directory segments are joined with hyphens, characters outside
// [A-Za-z0-9._-] become underscores, and the original extension is kept
// verbatim:
//
//	FlatName("proj", "api/guides/setup.md") == "proj-api-guides-setup.md"
//	FlatName("proj", "overview.md")         == "proj-overview.md"
//
// Distinct relative paths always produce distinct names under the same
// prefix: the separator-to-hyphen encoding preserves path structure, and
// the long-name fallback keys on a hash of the full relative path.
func FlatName(prefix, relPath string) string {
	dir, file := path.Split(relPath)
	dir = strings.Trim(dir, "/")

	ext := path.Ext(file)
	stem := strings.TrimSuffix(file, ext)
	stem = unsafeChars.ReplaceAllString(stem, "_")

	var name string
	if dir == "" {
		name = prefix + "-" + stem + ext
	} else {
		dir = strings.ReplaceAll(dir, "/", "-")
		dir = unsafeChars.ReplaceAllString(dir, "_")
		name = prefix + "-" + dir + "-" + stem + ext
	}

	if len(name) > maxFlatNameLen {
		sum := sha1.Sum([]byte(relPath))
		digest := hex.EncodeToString(sum[:])[:10]
		base := strings.TrimSuffix(name, ext)
		if len(base) > 80 {
			base = base[:80]
		}
		name = base + "-" + digest + ext
	}

	return name
}

// Disambiguate rewrites a flat name that collided with another document's
// by inserting the relative-path hash before the extension. Hyphens are
// legal inside path segments as well as being the separator encoding, so
// distinct paths like "a/b.md" and "a-b.md" share a plain flat name.
func Disambiguate(name, relPath string) string {
	ext := path.Ext(name)
	sum := sha1.Sum([]byte(relPath))
	digest := hex.EncodeToString(sum[:])[:10]
	return strings.TrimSuffix(name, ext) + "-" + digest + ext
}

// NormalizeExt rewrites an .mdx output filename to .md. The rewrite is a
// renaming operation only: downstream ingestion treats MDX import/JSX
// syntax as contextual text, so file content is never parsed or altered.
// Any other extension passes through unchanged, including files with no
// extension at all.
func NormalizeExt(name string) string {
	if strings.EqualFold(path.Ext(name), ".mdx") {
		return name[:len(name)-len(".mdx")] + ".md"
	}
	return name
}

// Slug derives the human-readable bundle identifier. An explicit name wins
// over the query and keeps its case, with unsafe runs collapsed to
// hyphens; a query is lowercased the same way and capped at 60 bytes; with
// neither, bundles are slugged "recency-only" since recency is then the
// sole ranking signal.
func Slug(query, name string) string {
	if name != "" {
		s := nameRuns.ReplaceAllString(name, "-")
		if s = strings.Trim(s, "-"); s != "" {
			return s
		}
	}
	if query != "" {
		if s := slugify(strings.ToLower(query), 60); s != "" {
			return s
		}
	}
	return "recency-only"
}

func slugify(s string, max int) string {
	s = slugRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if max > 0 && len(s) > max {
		s = strings.Trim(s[:max], "-")
	}
	return s
}
