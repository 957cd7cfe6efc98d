package main

import (
	"time"

	gitignore "github.com/monochromegane/go-gitignore"
)

// FileMetadata holds the stat snapshot of a listed file.
type FileMetadata struct {
	Size     int64
	Modified time.Time
}

// DirectoryMetadata summarises the files listed directly in a directory.
// TotalSize is not recursive: subdirectory contents are excluded.
type DirectoryMetadata struct {
	FileCount int
	TotalSize int64
	Modified  time.Time
}

// Metadata is attached to a DirRecord when metadata collection is enabled.
type Metadata struct {
	Files     map[string]FileMetadata
	Directory DirectoryMetadata
}

// DirRecord is produced once per visited directory, parent before children.
// Dirs and Files are already filtered and sorted.
type DirRecord struct {
	Path     string
	Dirs     []string
	Files    []string
	Metadata *Metadata // nil unless metadata collection is enabled
}

// Filters holds the three independent exclusion pattern lists.
type Filters struct {
	Exclude     []string // files and directories
	ExcludeDir  []string // directories only
	ExcludeFile []string // files only
}

// WalkOptions configures a single walk.
type WalkOptions struct {
	Filters         Filters
	CollectMetadata bool
	// Ignore, when set, prunes entries matched by a .gitignore loaded from the root.
	Ignore gitignore.IgnoreMatcher
}

// sentinelTime stands in for a modification time that could not be read.
var sentinelTime = time.Time{}
