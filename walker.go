package main

import (
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sort"

	gitignore "github.com/monochromegane/go-gitignore"
)

// walkTree returns a lazy, single-pass, pre-order sequence of directory records
// rooted at root. Excluded subdirectories are pruned before descent and never
// read. A subdirectory that cannot be read is skipped silently; the sequence
// for an unreadable root is empty.
func walkTree(root string, opts WalkOptions) iter.Seq[DirRecord] {
	return func(yield func(DirRecord) bool) {
		stack := []string{filepath.Clean(root)}

		for len(stack) > 0 {
			dir := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			record, err := readRecord(dir, opts)
			if err != nil {
				logger.Debugf("skipping %s: %v", dir, err)
				continue
			}

			if !yield(record) {
				return
			}

			// Push in reverse so the lexicographically first child is visited next.
			for i := len(record.Dirs) - 1; i >= 0; i-- {
				child := filepath.Join(dir, record.Dirs[i])
				if isSymlink(child) {
					continue
				}
				stack = append(stack, child)
			}
		}
	}
}

// readRecord enumerates dir once and builds its filtered record.
func readRecord(dir string, opts WalkOptions) (DirRecord, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return DirRecord{}, fmt.Errorf("error reading directory %s: %w", dir, err)
	}

	record := DirRecord{Path: dir, Dirs: []string{}, Files: []string{}}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		kind := classifyEntry(path, entry)

		if isExcludedKind(path, kind, opts.Filters) {
			continue
		}
		if opts.Ignore != nil && opts.Ignore.Match(path, kind == kindDir) {
			continue
		}

		if kind == kindDir {
			record.Dirs = append(record.Dirs, entry.Name())
		} else {
			record.Files = append(record.Files, entry.Name())
		}
	}

	sort.Strings(record.Dirs)
	sort.Strings(record.Files)

	if opts.CollectMetadata {
		record.Metadata = collectMetadata(dir, record.Files)
	}
	return record, nil
}

// classifyEntry resolves symlinks to their target kind, mirroring how the
// entry would be listed by a stat-following directory walk.
func classifyEntry(path string, entry fs.DirEntry) entryKind {
	mode := entry.Type()
	if mode&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		if err != nil {
			return kindOther
		}
		mode = info.Mode()
	}
	switch {
	case mode.IsDir():
		return kindDir
	case mode.IsRegular():
		return kindFile
	default:
		return kindOther
	}
}

func isSymlink(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&fs.ModeSymlink != 0
}

// loadGitIgnore loads <root>/.gitignore. A missing file yields a nil matcher.
func loadGitIgnore(root string) (gitignore.IgnoreMatcher, error) {
	gitIgnorePath := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(gitIgnorePath); err != nil {
		return nil, nil
	}
	matcher, err := gitignore.NewGitIgnore(gitIgnorePath, root)
	if err != nil {
		return nil, fmt.Errorf("could not parse .gitignore file %s: %w", gitIgnorePath, err)
	}
	return matcher, nil
}
