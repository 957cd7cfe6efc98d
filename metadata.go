package main

import (
	"os"
	"path/filepath"
)

// collectMetadata stats every listed file of dir and the directory itself.
// It never fails: an entry that cannot be stat'ed contributes size 0 and the
// sentinel timestamp, and is still counted.
func collectMetadata(dir string, fileNames []string) *Metadata {
	files := make(map[string]FileMetadata, len(fileNames))
	var total int64

	for _, name := range fileNames {
		meta := FileMetadata{Modified: sentinelTime}
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			logger.Debugf("stat %s: %v", filepath.Join(dir, name), err)
		} else {
			meta.Size = info.Size()
			meta.Modified = info.ModTime()
		}
		files[name] = meta
		total += meta.Size
	}

	dirModified := sentinelTime
	if info, err := os.Stat(dir); err != nil {
		logger.Debugf("stat %s: %v", dir, err)
	} else {
		dirModified = info.ModTime()
	}

	return &Metadata{
		Files: files,
		Directory: DirectoryMetadata{
			FileCount: len(fileNames),
			TotalSize: total,
			Modified:  dirModified,
		},
	}
}
