package main

import (
	"errors"
	"fmt"
	"strings"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
)

// rootCandidate is one directory offered by the interactive picker.
type rootCandidate struct {
	path   string
	record DirRecord
}

// collectRootCandidates lists base and every directory below it that survives
// filters, in walk order.
func collectRootCandidates(base string, opts WalkOptions) []rootCandidate {
	var candidates []rootCandidate
	for record := range walkTree(base, opts) {
		candidates = append(candidates, rootCandidate{
			path:   relativePath(base, record.Path),
			record: record,
		})
	}
	return candidates
}

// previewCandidate summarises the immediate contents of a candidate.
func previewCandidate(c rootCandidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Path: %s\n", c.path)
	fmt.Fprintf(&b, "Directories: %d\nFiles: %d\n\n", len(c.record.Dirs), len(c.record.Files))
	for _, d := range c.record.Dirs {
		fmt.Fprintf(&b, "%s %s/\n", dirIcon, d)
	}
	for _, f := range c.record.Files {
		fmt.Fprintf(&b, "%s %s\n", defaultIcons.fileIcon(f), f)
	}
	return b.String()
}

// runInteractiveFinder lets the user pick the listing root among the
// directories under base. An aborted selection returns "" and no error.
func runInteractiveFinder(base string, opts WalkOptions) (string, error) {
	candidates := collectRootCandidates(base, opts)
	if len(candidates) == 0 {
		return "", fmt.Errorf("no directories found to select from")
	}

	idx, err := fuzzyfinder.Find(
		candidates,
		func(i int) string {
			return candidates[i].path
		},
		fuzzyfinder.WithPromptString("root> "),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return "Select the directory to list. Enter to confirm, Esc to abort."
			}
			return previewCandidate(candidates[i])
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			logger.Infof("interactive selection aborted")
			return "", nil
		}
		return "", fmt.Errorf("fuzzy finder error: %w", err)
	}
	return candidates[idx].record.Path, nil
}
