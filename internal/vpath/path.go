// Copyright (c) 2025 Thorium
//
// Package vpath implements a case-insensitive, case-preserving path type
// for resolving logical mod-tree and game-tree paths against a real,
// possibly case-sensitive filesystem.
package vpath

import (
	"os"
	"path/filepath"
	"strings"
)

// Path wraps a logical, case-preserved path string. Equality and hashing
// are case-insensitive; the original case supplied by the caller is kept
// for display and for on-disk creation.
type Path struct {
	raw string
}

// New wraps a raw string as a Path without touching the filesystem.
func New(raw string) Path {
	return Path{raw: filepath.Clean(raw)}
}

// String returns the path as originally cased.
func (p Path) String() string {
	return p.raw
}

// Key returns the case-folded form used for equality and map keys.
func (p Path) Key() string {
	return strings.ToLower(p.raw)
}

// Equal compares two paths case-insensitively.
func (p Path) Equal(other Path) bool {
	return p.Key() == other.Key()
}

// Join appends components using case-insensitive path arithmetic; it does
// not touch the filesystem.
func (p Path) Join(elem ...string) Path {
	parts := append([]string{p.raw}, elem...)
	return New(filepath.Join(parts...))
}

// Parent returns the path one level up.
func (p Path) Parent() Path {
	return New(filepath.Dir(p.raw))
}

// Name returns the final path component.
func (p Path) Name() string {
	return filepath.Base(p.raw)
}

// Suffix returns the extension of the final component, including the dot.
func (p Path) Suffix() string {
	return filepath.Ext(p.raw)
}

// Stem returns the final component with its extension removed.
func (p Path) Stem() string {
	name := p.Name()
	if ext := filepath.Ext(name); ext != "" {
		return strings.TrimSuffix(name, ext)
	}
	return name
}

// WithSuffix returns a copy of this path with the final component's
// extension replaced. Pass an empty string to strip the extension.
func (p Path) WithSuffix(suffix string) Path {
	dir := filepath.Dir(p.raw)
	stem := p.Stem()
	if suffix == "" {
		return New(filepath.Join(dir, stem))
	}
	if !strings.HasPrefix(suffix, ".") {
		suffix = "." + suffix
	}
	return New(filepath.Join(dir, stem+suffix))
}

// RelativeTo returns p expressed relative to base, case-insensitively.
// When p lies under base the result keeps p's own casing.
func (p Path) RelativeTo(base Path) (string, error) {
	rel, err := filepath.Rel(base.Key(), p.Key())
	if err != nil {
		return "", err
	}
	if len(p.Key()) == len(p.raw) && rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return p.raw[len(p.raw)-len(rel):], nil
	}
	return rel, nil
}

// IsRelativeTo reports whether p lies under base.
func (p Path) IsRelativeTo(base Path) bool {
	rel, err := p.RelativeTo(base)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// SplitFilename splits the final path component around the dots-th dot,
// counted from the left when dots > 0 or from the right when dots < 0.
// dots == 0 is a programming error.
func SplitFilename(name string, dots int) (string, string) {
	if dots == 0 {
		panic("vpath: SplitFilename called with dots == 0")
	}
	parts := strings.Split(name, ".")
	if len(parts) < 2 {
		return name, ""
	}
	n := dots
	if n < 0 {
		n = len(parts) + n
	}
	if n <= 0 {
		n = 1
	}
	if n >= len(parts) {
		n = len(parts) - 1
	}
	return strings.Join(parts[:n], "."), strings.Join(parts[n:], ".")
}

// Resolve walks p's components against the real filesystem rooted at root,
// matching each existing child case-insensitively. The first component
// with no on-disk match, and everything after it, is appended verbatim.
// Resolve never returns an error for "not found" — it returns its best
// effort, logged internally by the caller if desired.
func Resolve(root string, logical string) string {
	rel := logical
	if filepath.IsAbs(logical) {
		r, err := filepath.Rel(root, logical)
		if err == nil {
			rel = r
		}
	}
	components := splitComponents(rel)
	current := root
	fellThrough := false
	for _, comp := range components {
		if fellThrough {
			current = filepath.Join(current, comp)
			continue
		}
		match, ok := bestChildMatch(current, comp)
		if !ok {
			fellThrough = true
			current = filepath.Join(current, comp)
			continue
		}
		current = filepath.Join(current, match)
	}
	return current
}

func splitComponents(p string) []string {
	p = filepath.ToSlash(filepath.Clean(p))
	p = strings.TrimPrefix(p, "./")
	if p == "." || p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// bestChildMatch finds the child of dir that equals name case-insensitively.
// Ties are broken by longest case-exact prefix, then lexicographically.
func bestChildMatch(dir, name string) (string, bool) {
	entries, err := safeReadDirNames(dir)
	if err != nil || entries == nil {
		return "", false
	}
	lowerName := strings.ToLower(name)
	var best string
	bestPrefix := -1
	found := false
	for _, entry := range entries {
		if strings.ToLower(entry) != lowerName {
			continue
		}
		prefix := caseExactPrefixLen(entry, name)
		if !found {
			best, bestPrefix, found = entry, prefix, true
			continue
		}
		if prefix > bestPrefix || (prefix == bestPrefix && entry < best) {
			best, bestPrefix = entry, prefix
		}
	}
	return best, found
}

func caseExactPrefixLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

func safeReadDirNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// SafeExists reports whether path exists, returning false (rather than
// propagating) on permission errors.
func SafeExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// SafeIsFile reports whether path is a regular file, tolerating permission
// errors by returning false.
func SafeIsFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// SafeIsDir reports whether path is a directory, tolerating permission
// errors by returning false.
func SafeIsDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
