package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)

// metadataRecords is a two-level listing with fixed stat values:
// root/a.txt (1536 bytes), root/docs/b.md (unreadable).
func metadataRecords(root string) []DirRecord {
	return []DirRecord{
		{
			Path:  root,
			Dirs:  []string{"docs"},
			Files: []string{"a.txt"},
			Metadata: &Metadata{
				Files:     map[string]FileMetadata{"a.txt": {Size: 1536, Modified: fixedTime}},
				Directory: DirectoryMetadata{FileCount: 1, TotalSize: 1536, Modified: fixedTime},
			},
		},
		{
			Path:  filepath.Join(root, "docs"),
			Dirs:  []string{},
			Files: []string{"b.md"},
			Metadata: &Metadata{
				Files:     map[string]FileMetadata{"b.md": {Size: 0, Modified: sentinelTime}},
				Directory: DirectoryMetadata{FileCount: 1, TotalSize: 0, Modified: fixedTime},
			},
		},
	}
}

func stripMetadata(records []DirRecord) []DirRecord {
	out := make([]DirRecord, len(records))
	for i, r := range records {
		r.Metadata = nil
		out[i] = r
	}
	return out
}

func seqOf(records []DirRecord) func(func(DirRecord) bool) {
	return func(yield func(DirRecord) bool) {
		for _, r := range records {
			if !yield(r) {
				return
			}
		}
	}
}

func render(t *testing.T, format Format, opts RenderOptions, records []DirRecord) string {
	t.Helper()
	r, err := newRenderer(format, opts)
	require.NoError(t, err)
	assert.Equal(t, format, r.format())

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, seqOf(records)))
	return buf.String()
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"tree", "ascii", "flat", "csv", "json", "yaml"} {
		f, err := parseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, name, f.String())
	}

	_, err := parseFormat("xml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errUnknownFormat))
	assert.Contains(t, err.Error(), "'xml'")
}

func TestNewRenderer_UnknownFormat(t *testing.T) {
	_, err := newRenderer(Format(42), RenderOptions{})
	assert.ErrorIs(t, err, errUnknownFormat)
}

func TestRelativePath(t *testing.T) {
	root := filepath.FromSlash("/r/project")
	assert.Equal(t, ".", relativePath(root, root))
	assert.Equal(t, "src/main.py", relativePath(root, filepath.Join(root, "src", "main.py")))
	assert.Equal(t, "..hidden", relativePath(root, filepath.Join(root, "..hidden")))

	outside := filepath.FromSlash("/elsewhere/x")
	assert.Equal(t, outside, relativePath(root, outside))
}

func TestTreeRenderer_ASCII(t *testing.T) {
	root := sampleTree(t)
	var records []DirRecord
	for r := range walkTree(root, WalkOptions{}) {
		records = append(records, r)
	}

	got := render(t, FormatASCII, RenderOptions{Root: root, UseEmoji: true}, records)
	want := `├── [d] .git
│   └── [f] config
├── [d] docs
│   └── [f] manual.pdf
├── [d] node_modules
│   └── [d] package
│       └── [f] index.js
├── [d] src
│   ├── [d] __pycache__
│   │   └── [f] main.pyc
│   ├── [d] components
│   │   ├── [f] Button.py
│   │   └── [f] Header.py
│   ├── [d] utils
│   │   └── [f] helpers.py
│   ├── [f] main.py
│   └── [f] main.pyc
└── [f] README.md
`
	assert.Equal(t, want, got)
}

func TestTreeRenderer_EmojiAndMetadata(t *testing.T) {
	root := t.TempDir()
	got := render(t, FormatTree, RenderOptions{Root: root, UseEmoji: true, ShowMetadata: true}, metadataRecords(root))
	want := `├── 📁 docs [1 files, 0 B, 2024-01-02 03:04]
│   └── 📝 b.md [0 B, 0001-01-01 00:00]
└── 📄 a.txt [1.5 KB, 2024-01-02 03:04]
`
	assert.Equal(t, want, got)
}

func TestTreeRenderer_NoEmoji(t *testing.T) {
	root := t.TempDir()
	got := render(t, FormatTree, RenderOptions{Root: root}, stripMetadata(metadataRecords(root)))
	assert.Equal(t, "├── [d] docs\n│   └── [f] b.md\n└── [f] a.txt\n", got)
}

func TestTreeRenderer_EmptyRoot(t *testing.T) {
	root := t.TempDir()
	got := render(t, FormatTree, RenderOptions{Root: root, UseEmoji: true},
		[]DirRecord{{Path: root, Dirs: []string{}, Files: []string{}}})
	assert.Empty(t, got)
}

func TestTreeRenderer_Color(t *testing.T) {
	root := t.TempDir()
	got := render(t, FormatTree, RenderOptions{Root: root, Color: true}, stripMetadata(metadataRecords(root)))
	assert.Contains(t, got, "\x1b[")
	assert.Contains(t, got, "docs")

	plain := render(t, FormatTree, RenderOptions{Root: root}, stripMetadata(metadataRecords(root)))
	assert.NotContains(t, plain, "\x1b[")
}

func TestBuildRenderTree_DropsDetachedRecords(t *testing.T) {
	root := t.TempDir()
	records := append(stripMetadata(metadataRecords(root)), DirRecord{
		Path:  filepath.Join(root, "ghost"),
		Files: []string{"x.txt"},
	})
	tree := buildRenderTree(root, seqOf(records))

	assert.NotContains(t, tree.nodes, filepath.Join(root, "ghost", "x.txt"))
	assert.Equal(t, []string{filepath.Join(root, "docs"), filepath.Join(root, "a.txt")}, tree.nodes[root].children)
	assert.Equal(t, filepath.Join(root, "docs"), tree.nodes[filepath.Join(root, "docs", "b.md")].parent)
}

func TestFlatRenderer(t *testing.T) {
	root := t.TempDir()

	plain := render(t, FormatFlat, RenderOptions{Root: root}, stripMetadata(metadataRecords(root)))
	assert.Equal(t, "a.txt\ndocs\ndocs/b.md\n", plain)

	withMeta := render(t, FormatFlat, RenderOptions{Root: root, ShowMetadata: true}, metadataRecords(root))
	assert.Equal(t, "a.txt [1.5 KB, 2024-01-02 03:04]\ndocs [1 files, 0 B]\ndocs/b.md [0 B, 0001-01-01 00:00]\n", withMeta)
}

func TestFlatRenderer_OutsideRootUsesAbsolutePath(t *testing.T) {
	root := t.TempDir()
	other := t.TempDir()
	got := render(t, FormatFlat, RenderOptions{Root: root},
		[]DirRecord{{Path: other, Files: []string{"x.txt"}}})
	assert.Equal(t, other+"\n"+filepath.Join(other, "x.txt")+"\n", got)
}

func TestFlatRenderer_SampleScenario(t *testing.T) {
	root := sampleTree(t)
	opts := WalkOptions{Filters: Filters{ExcludeDir: []string{"__pycache__"}}}

	var buf bytes.Buffer
	r, err := newRenderer(FormatFlat, RenderOptions{Root: root})
	require.NoError(t, err)
	require.NoError(t, r.Render(&buf, walkTree(root, opts)))

	out := buf.String()
	assert.Contains(t, out, "src/main.py\n")
	assert.Contains(t, out, "docs/manual.pdf\n")
	assert.NotContains(t, out, "__pycache__")
}

func TestCSVRenderer(t *testing.T) {
	root := t.TempDir()
	base := filepath.Base(root)

	plain := render(t, FormatCSV, RenderOptions{Root: root}, stripMetadata(metadataRecords(root)))
	assert.Equal(t, "type,path,name,extension\n"+
		"directory,.,"+base+",\n"+
		"file,a.txt,a.txt,.txt\n"+
		"directory,docs,docs,\n"+
		"file,docs/b.md,b.md,.md\n", plain)

	withMeta := render(t, FormatCSV, RenderOptions{Root: root, ShowMetadata: true}, metadataRecords(root))
	assert.Equal(t, "type,path,name,extension,size,modified,file_count,total_size\n"+
		"directory,.,"+base+",,0,2024-01-02T03:04:05,1,1536\n"+
		"file,a.txt,a.txt,.txt,1536,2024-01-02T03:04:05,,\n"+
		"directory,docs,docs,,0,2024-01-02T03:04:05,1,0\n"+
		"file,docs/b.md,b.md,.md,0,0001-01-01T00:00:00,,\n", withMeta)
}

func TestCSVRenderer_QuotesSeparators(t *testing.T) {
	root := t.TempDir()
	got := render(t, FormatCSV, RenderOptions{Root: root},
		[]DirRecord{{Path: root, Files: []string{"a,b.txt"}}})
	assert.Contains(t, got, `file,"a,b.txt","a,b.txt",.txt`)
}

func TestRenderers_Idempotent(t *testing.T) {
	root := sampleTree(t)
	opts := WalkOptions{Filters: Filters{Exclude: []string{"*.pyc"}}, CollectMetadata: true}

	for _, format := range formatOrder {
		t.Run(format.String(), func(t *testing.T) {
			var first, second bytes.Buffer
			r, err := newRenderer(format, RenderOptions{Root: root, ShowMetadata: true, UseEmoji: true})
			require.NoError(t, err)
			require.NoError(t, r.Render(&first, walkTree(root, opts)))
			require.NoError(t, r.Render(&second, walkTree(root, opts)))
			assert.Equal(t, first.String(), second.String())
		})
	}
}
