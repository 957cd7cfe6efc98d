package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// entryKind classifies a candidate entry for the directory/file-only pattern lists.
type entryKind int

const (
	kindOther entryKind = iota
	kindDir
	kindFile
)

// isExcluded reports whether path is excluded by filters. The entry is
// stat'ed to decide whether the directory-only or file-only lists apply.
func isExcluded(path string, filters Filters) bool {
	kind := kindOther
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			kind = kindDir
		} else if info.Mode().IsRegular() {
			kind = kindFile
		}
	}
	return isExcludedKind(path, kind, filters)
}

// isExcludedKind is isExcluded for callers that already know the entry kind.
func isExcludedKind(path string, kind entryKind, filters Filters) bool {
	if matchesAnyPattern(path, filters.Exclude) {
		return true
	}
	if kind == kindDir && matchesAnyPattern(path, filters.ExcludeDir) {
		return true
	}
	return kind == kindFile && matchesAnyPattern(path, filters.ExcludeFile)
}

// matchesAnyPattern checks if the given path matches any of the provided
// glob patterns. Empty patterns never match.
func matchesAnyPattern(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if matchPattern(pattern, path) {
			return true
		}
	}
	return false
}

// matchPattern matches pattern against path from the right, segment by segment.
// A relative pattern of N segments is compared with the last N segments of the
// path, so "*" never crosses a separator: "src/*.pyc" matches "/r/src/a.pyc" but
// not "/r/src/util/a.pyc". Absolute patterns must match the whole path, and
// patterns with "**" are tried against every suffix. Patterns are cleaned first,
// so "./src" and "src/" behave like "src". Matching is case-sensitive.
func matchPattern(pattern, path string) bool {
	pattern = filepath.ToSlash(filepath.Clean(pattern))
	path = filepath.ToSlash(path)

	if strings.HasPrefix(pattern, "/") {
		ok, err := doublestar.Match(pattern, path)
		return err == nil && ok
	}

	segments := splitSegments(path)
	if len(segments) == 0 {
		return false
	}

	if strings.Contains(pattern, "**") {
		for i := range segments {
			if ok, err := doublestar.Match(pattern, strings.Join(segments[i:], "/")); err == nil && ok {
				return true
			}
		}
		return false
	}

	n := strings.Count(pattern, "/") + 1
	if n > len(segments) {
		return false
	}
	ok, err := doublestar.Match(pattern, strings.Join(segments[len(segments)-n:], "/"))
	return err == nil && ok
}

func splitSegments(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" && s != "." {
			segments = append(segments, s)
		}
	}
	return segments
}

// validateFilters rejects malformed glob patterns before a walk starts.
func validateFilters(filters Filters) error {
	lists := []struct {
		name     string
		patterns []string
	}{
		{"exclude", filters.Exclude},
		{"exclude-dir", filters.ExcludeDir},
		{"exclude-file", filters.ExcludeFile},
	}
	for _, l := range lists {
		for _, p := range l.patterns {
			if p != "" && !doublestar.ValidatePattern(filepath.ToSlash(p)) {
				return fmt.Errorf("invalid %s pattern '%s'", l.name, p)
			}
		}
	}
	return nil
}
