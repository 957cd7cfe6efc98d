package main

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleTree lays out a small project with the usual noise directories.
func sampleTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"README.md":                     "# Project",
		"src/main.py":                   "print('hi')",
		"src/main.pyc":                  "bytecode",
		"src/components/Button.py":      "class Button: pass",
		"src/components/Header.py":      "class Header: pass",
		"src/utils/helpers.py":          "def help(): pass",
		"src/__pycache__/main.pyc":      "bytecode",
		"docs/manual.pdf":               "%PDF-1.4",
		"node_modules/package/index.js": "module.exports = {}",
		".git/config":                   "[core]",
	}
	for rel, content := range files {
		writeFile(t, filepath.Join(root, rel), content)
	}
	return root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func collect(root string, opts WalkOptions) []DirRecord {
	var records []DirRecord
	for r := range walkTree(root, opts) {
		records = append(records, r)
	}
	return records
}

func recordPaths(root string, records []DirRecord) []string {
	paths := make([]string, len(records))
	for i, r := range records {
		paths[i] = relativePath(root, r.Path)
	}
	return paths
}

func TestWalkTree_PreOrder(t *testing.T) {
	root := sampleTree(t)
	records := collect(root, WalkOptions{})

	assert.Equal(t, []string{
		".",
		".git",
		"docs",
		"node_modules",
		"node_modules/package",
		"src",
		"src/__pycache__",
		"src/components",
		"src/utils",
	}, recordPaths(root, records))

	first := records[0]
	assert.Equal(t, []string{".git", "docs", "node_modules", "src"}, first.Dirs)
	assert.Equal(t, []string{"README.md"}, first.Files)
	assert.Nil(t, first.Metadata)
}

func TestWalkTree_ExcludeDirPrunes(t *testing.T) {
	root := sampleTree(t)
	records := collect(root, WalkOptions{Filters: Filters{ExcludeDir: []string{"__pycache__"}}})

	for _, r := range records {
		assert.NotContains(t, r.Path, "__pycache__")
		assert.NotContains(t, r.Dirs, "__pycache__")
	}

	var src *DirRecord
	for i := range records {
		if records[i].Path == filepath.Join(root, "src") {
			src = &records[i]
		}
	}
	require.NotNil(t, src)
	assert.Equal(t, []string{"components", "utils"}, src.Dirs)
	assert.Equal(t, []string{"main.py", "main.pyc"}, src.Files)
}

func TestWalkTree_GeneralExclude(t *testing.T) {
	root := sampleTree(t)
	records := collect(root, WalkOptions{Filters: Filters{
		Exclude: []string{"*.pyc", "node_modules", ".git"},
	}})

	assert.Equal(t, []string{
		".",
		"docs",
		"src",
		"src/__pycache__",
		"src/components",
		"src/utils",
	}, recordPaths(root, records))

	for _, r := range records {
		for _, f := range r.Files {
			assert.NotEqual(t, ".pyc", filepath.Ext(f), "file %s in %s", f, r.Path)
		}
	}
}

func TestWalkTree_ExcludeFileOnlyAppliesToFiles(t *testing.T) {
	root := sampleTree(t)
	// A file-only pattern naming a directory must leave the directory alone.
	records := collect(root, WalkOptions{Filters: Filters{ExcludeFile: []string{"docs", "*.md"}}})

	assert.Contains(t, records[0].Dirs, "docs")
	assert.Empty(t, records[0].Files)
}

func TestWalkTree_EmptyRoot(t *testing.T) {
	root := t.TempDir()
	records := collect(root, WalkOptions{})

	require.Len(t, records, 1)
	assert.Equal(t, root, records[0].Path)
	assert.Empty(t, records[0].Dirs)
	assert.Empty(t, records[0].Files)
	assert.Nil(t, records[0].Metadata)
}

func TestWalkTree_CollectMetadata(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "file1.txt"), "content1")
	writeFile(t, filepath.Join(root, "file2.txt"), "content2")

	records := collect(root, WalkOptions{CollectMetadata: true})
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Metadata)

	dm := records[0].Metadata.Directory
	assert.Equal(t, 2, dm.FileCount)
	assert.Equal(t, int64(16), dm.TotalSize)
	assert.Len(t, records[0].Metadata.Files, 2)
}

func TestWalkTree_StopEarly(t *testing.T) {
	root := sampleTree(t)
	count := 0
	for range walkTree(root, WalkOptions{}) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestWalkTree_Deterministic(t *testing.T) {
	root := sampleTree(t)
	opts := WalkOptions{Filters: Filters{ExcludeDir: []string{"node_modules"}}}
	assert.Equal(t, collect(root, opts), collect(root, opts))
}

func TestWalkTree_UnreadableRoot(t *testing.T) {
	records := collect(filepath.Join(t.TempDir(), "missing"), WalkOptions{})
	assert.Empty(t, records)
}

func TestWalkTree_UnreadableSubdirectorySkipped(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := sampleTree(t)
	locked := filepath.Join(root, "docs")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	records := collect(root, WalkOptions{})
	paths := recordPaths(root, records)
	assert.NotContains(t, paths, "docs")
	assert.Contains(t, paths, "src/utils")
	assert.Contains(t, records[0].Dirs, "docs")
}

func TestWalkTree_SymlinkedDirectoryNotDescended(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := sampleTree(t)
	require.NoError(t, os.Symlink(filepath.Join(root, "src"), filepath.Join(root, "link")))

	records := collect(root, WalkOptions{})
	assert.Contains(t, records[0].Dirs, "link")
	assert.NotContains(t, recordPaths(root, records), "link")
}

func TestWalkTree_GitIgnore(t *testing.T) {
	root := sampleTree(t)
	writeFile(t, filepath.Join(root, ".gitignore"), "*.md\nnode_modules/\n")

	ignore, err := loadGitIgnore(root)
	require.NoError(t, err)
	require.NotNil(t, ignore)

	records := collect(root, WalkOptions{Ignore: ignore})
	assert.NotContains(t, records[0].Files, "README.md")
	assert.Contains(t, records[0].Files, ".gitignore")
	assert.NotContains(t, records[0].Dirs, "node_modules")
	assert.NotContains(t, recordPaths(root, records), "node_modules/package")
}

func TestLoadGitIgnore_Missing(t *testing.T) {
	ignore, err := loadGitIgnore(t.TempDir())
	assert.NoError(t, err)
	assert.Nil(t, ignore)
}

func TestWalkTree_DanglingSymlinkOnlySeesGeneralList(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	require.NoError(t, os.Symlink(filepath.Join(root, "gone.txt"), filepath.Join(root, "dangling.lnk")))

	records := collect(root, WalkOptions{Filters: Filters{ExcludeFile: []string{"*.lnk"}, ExcludeDir: []string{"*.lnk"}}})
	require.Len(t, records, 1)
	assert.Equal(t, []string{"dangling.lnk"}, records[0].Files)
	assert.Empty(t, records[0].Dirs)

	records = collect(root, WalkOptions{Filters: Filters{Exclude: []string{"*.lnk"}}})
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Files)
}
