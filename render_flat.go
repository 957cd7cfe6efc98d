package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"iter"
	"path/filepath"
	"strconv"
	"strings"
)

// flatRenderer prints one path per line as records arrive.
type flatRenderer struct {
	opts RenderOptions
}

func (r *flatRenderer) format() Format { return FormatFlat }

func (r *flatRenderer) Render(w io.Writer, records iter.Seq[DirRecord]) error {
	ew := &errWriter{w: w}
	for record := range records {
		if rel := relativePath(r.opts.Root, record.Path); rel != "." {
			if r.opts.ShowMetadata && record.Metadata != nil {
				dm := record.Metadata.Directory
				ew.printf("%s [%d files, %s]\n", rel, dm.FileCount, formatSize(dm.TotalSize))
			} else {
				ew.println(rel)
			}
		}

		for _, name := range record.Files {
			rel := relativePath(r.opts.Root, filepath.Join(record.Path, name))
			if fm, ok := recordFileMetadata(record, name); ok && r.opts.ShowMetadata {
				ew.printf("%s [%s, %s]\n", rel, formatSize(fm.Size), formatDisplayTime(fm.Modified))
			} else {
				ew.println(rel)
			}
		}
		if ew.err != nil {
			return ew.err
		}
	}
	return ew.err
}

func recordFileMetadata(record DirRecord, name string) (FileMetadata, bool) {
	if record.Metadata == nil {
		return FileMetadata{}, false
	}
	fm, ok := record.Metadata.Files[name]
	return fm, ok
}

// csvRenderer writes one row per directory and one per file.
type csvRenderer struct {
	opts RenderOptions
}

func (r *csvRenderer) format() Format { return FormatCSV }

func (r *csvRenderer) header() []string {
	h := []string{"type", "path", "name", "extension"}
	if r.opts.ShowMetadata {
		h = append(h, "size", "modified", "file_count", "total_size")
	}
	return h
}

func (r *csvRenderer) Render(w io.Writer, records iter.Seq[DirRecord]) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(r.header()); err != nil {
		return fmt.Errorf("error writing csv header: %w", err)
	}

	for record := range records {
		if err := cw.Write(r.directoryRow(record)); err != nil {
			return fmt.Errorf("error writing csv row: %w", err)
		}
		for _, name := range record.Files {
			if err := cw.Write(r.fileRow(record, name)); err != nil {
				return fmt.Errorf("error writing csv row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func (r *csvRenderer) directoryRow(record DirRecord) []string {
	row := []string{"directory", relativePath(r.opts.Root, record.Path), filepath.Base(record.Path), ""}
	if !r.opts.ShowMetadata {
		return row
	}
	if record.Metadata == nil {
		return append(row, "0", "", "", "")
	}
	dm := record.Metadata.Directory
	return append(row,
		"0",
		dm.Modified.Format(csvTimeLayout),
		strconv.Itoa(dm.FileCount),
		strconv.FormatInt(dm.TotalSize, 10),
	)
}

func (r *csvRenderer) fileRow(record DirRecord, name string) []string {
	path := filepath.Join(record.Path, name)
	row := []string{"file", relativePath(r.opts.Root, path), name, strings.ToLower(fileSuffix(name))}
	if !r.opts.ShowMetadata {
		return row
	}
	fm, ok := recordFileMetadata(record, name)
	if !ok {
		return append(row, "", "", "", "")
	}
	return append(row, strconv.FormatInt(fm.Size, 10), fm.Modified.Format(csvTimeLayout), "", "")
}
