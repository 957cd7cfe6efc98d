package main

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"path/filepath"
	"strings"
)

// Format selects one of the fixed output renderers.
type Format int

const (
	FormatTree Format = iota
	FormatASCII
	FormatFlat
	FormatCSV
	FormatJSON
	FormatYAML
)

var formatNames = map[Format]string{
	FormatTree:  "tree",
	FormatASCII: "ascii",
	FormatFlat:  "flat",
	FormatCSV:   "csv",
	FormatJSON:  "json",
	FormatYAML:  "yaml",
}

// formatOrder is the order formats are listed in help text and errors.
var formatOrder = []Format{FormatTree, FormatASCII, FormatFlat, FormatCSV, FormatJSON, FormatYAML}

var errUnknownFormat = errors.New("unknown output format")

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

func formatList() string {
	names := make([]string, len(formatOrder))
	for i, f := range formatOrder {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}

// parseFormat maps a format name to its Format. Unknown names are an error,
// never a silent default.
func parseFormat(name string) (Format, error) {
	for _, f := range formatOrder {
		if formatNames[f] == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w '%s' (expected one of: %s)", errUnknownFormat, name, formatList())
}

// RenderOptions are shared by every renderer.
type RenderOptions struct {
	Root         string // absolute root the display paths are relative to
	ShowMetadata bool
	UseEmoji     bool
	Color        bool
	Icons        *iconSet
}

// Renderer consumes a record sequence exactly once and writes the formatted
// listing to w. The set of implementations is closed.
type Renderer interface {
	Render(w io.Writer, records iter.Seq[DirRecord]) error
	format() Format
}

// newRenderer returns the renderer for format.
func newRenderer(format Format, opts RenderOptions) (Renderer, error) {
	if opts.Icons == nil {
		opts.Icons = defaultIcons
	}
	switch format {
	case FormatTree:
		return &treeRenderer{opts: opts, kind: FormatTree}, nil
	case FormatASCII:
		opts.UseEmoji = false
		return &treeRenderer{opts: opts, kind: FormatASCII}, nil
	case FormatFlat:
		return &flatRenderer{opts: opts}, nil
	case FormatCSV:
		return &csvRenderer{opts: opts}, nil
	case FormatJSON:
		return &jsonRenderer{opts: opts}, nil
	case FormatYAML:
		return &yamlRenderer{opts: opts}, nil
	default:
		return nil, fmt.Errorf("%w: %s", errUnknownFormat, format)
	}
}

// relativePath returns path relative to root using forward slashes, or the
// absolute path when path is not under root.
func relativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}

// errWriter remembers the first write error so renderers can print freely
// and check once at the end.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	ew.printf("%s\n", s)
}
