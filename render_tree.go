package main

import (
	"fmt"
	"io"
	"iter"
	"path/filepath"

	"github.com/fatih/color"
)

// treeNode is one entry of the arena built from the record stream.
type treeNode struct {
	name     string
	path     string
	parent   string
	isDir    bool
	children []string // child paths, subdirectories first, in record order
}

// renderTree is the arena reconstruction of a walk: nodes keyed by absolute
// path, plus the directory metadata side-table.
type renderTree struct {
	root  string
	nodes map[string]*treeNode
	meta  map[string]*Metadata
}

// buildRenderTree drains records into an arena. A record whose directory was
// never announced by its parent is not connected to the root and is dropped.
func buildRenderTree(root string, records iter.Seq[DirRecord]) *renderTree {
	root = filepath.Clean(root)
	t := &renderTree{
		root:  root,
		nodes: map[string]*treeNode{root: {name: filepath.Base(root), path: root, isDir: true}},
		meta:  make(map[string]*Metadata),
	}

	for record := range records {
		dir := filepath.Clean(record.Path)
		node, ok := t.nodes[dir]
		if !ok || !node.isDir {
			logger.Debugf("record %s is not attached to %s", dir, root)
			continue
		}
		if record.Metadata != nil {
			t.meta[dir] = record.Metadata
		}
		for _, name := range record.Dirs {
			t.addChild(node, name, true)
		}
		for _, name := range record.Files {
			t.addChild(node, name, false)
		}
	}
	return t
}

func (t *renderTree) addChild(parent *treeNode, name string, isDir bool) {
	path := filepath.Join(parent.path, name)
	t.nodes[path] = &treeNode{name: name, path: path, parent: parent.path, isDir: isDir}
	parent.children = append(parent.children, path)
}

// fileMetadata looks up a file's stat snapshot through its parent directory.
func (t *renderTree) fileMetadata(n *treeNode) (FileMetadata, bool) {
	m, ok := t.meta[n.parent]
	if !ok {
		return FileMetadata{}, false
	}
	fm, ok := m.Files[n.name]
	return fm, ok
}

func (t *renderTree) dirMetadata(n *treeNode) (DirectoryMetadata, bool) {
	m, ok := t.meta[n.path]
	if !ok {
		return DirectoryMetadata{}, false
	}
	return m.Directory, true
}

// treeRenderer draws the connector tree. The ascii variant only differs in
// its icons.
type treeRenderer struct {
	opts RenderOptions
	kind Format
}

func (r *treeRenderer) format() Format { return r.kind }

func (r *treeRenderer) Render(w io.Writer, records iter.Seq[DirRecord]) error {
	t := buildRenderTree(r.opts.Root, records)
	p := &treePrinter{
		ew:     &errWriter{w: w},
		tree:   t,
		opts:   r.opts,
		colors: newPalette(r.opts.Color),
	}
	p.printChildren(t.nodes[t.root], "")
	return p.ew.err
}

type treePrinter struct {
	ew     *errWriter
	tree   *renderTree
	opts   RenderOptions
	colors *palette
}

func (p *treePrinter) printChildren(dir *treeNode, prefix string) {
	for i, childPath := range dir.children {
		child := p.tree.nodes[childPath]
		last := i == len(dir.children)-1

		connector, extension := "├── ", "│   "
		if last {
			connector, extension = "└── ", "    "
		}

		p.ew.printf("%s%s%s%s\n", prefix, connector, p.icon(child), p.label(child))
		if child.isDir {
			p.printChildren(child, prefix+extension)
		}
	}
}

func (p *treePrinter) icon(n *treeNode) string {
	switch {
	case n.isDir && p.opts.UseEmoji:
		return dirIcon + " "
	case n.isDir:
		return asciiDirMarker + " "
	case p.opts.UseEmoji:
		return p.opts.Icons.fileIcon(n.name) + " "
	default:
		return asciiFileMarker + " "
	}
}

func (p *treePrinter) label(n *treeNode) string {
	name := p.colors.name(n)
	if !p.opts.ShowMetadata {
		return name
	}
	if n.isDir {
		if dm, ok := p.tree.dirMetadata(n); ok {
			return fmt.Sprintf("%s [%d files, %s, %s]", name, dm.FileCount, formatSize(dm.TotalSize), formatDisplayTime(dm.Modified))
		}
		return name
	}
	if fm, ok := p.tree.fileMetadata(n); ok {
		return fmt.Sprintf("%s [%s, %s]", name, formatSize(fm.Size), formatDisplayTime(fm.Modified))
	}
	return name
}

// palette colours entry names by kind. A disabled palette returns names as is.
type palette struct {
	enabled    bool
	dir        *color.Color
	categories map[string]*color.Color
}

func newPalette(enabled bool) *palette {
	p := &palette{
		enabled: enabled,
		dir:     color.New(color.FgBlue, color.Bold),
		categories: map[string]*color.Color{
			"code":       color.New(color.FgGreen),
			"image":      color.New(color.FgMagenta),
			"video":      color.New(color.FgMagenta),
			"audio":      color.New(color.FgMagenta),
			"archive":    color.New(color.FgRed),
			"executable": color.New(color.FgRed, color.Bold),
			"data":       color.New(color.FgYellow),
			"config":     color.New(color.FgCyan),
		},
	}
	// Per-instance switches so the global NoColor detection does not apply.
	all := []*color.Color{p.dir}
	for _, c := range p.categories {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *palette) name(n *treeNode) string {
	if !p.enabled {
		return n.name
	}
	if n.isDir {
		return p.dir.Sprint(n.name)
	}
	if c, ok := p.categories[fileCategory(n.name)]; ok {
		return c.Sprint(n.name)
	}
	return n.name
}
