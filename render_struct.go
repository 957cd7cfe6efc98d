package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const rootMetadataKey = "_metadata"

// orderedMap is a string-keyed mapping that serialises in insertion order
// for both JSON and YAML. Re-setting a key keeps its original position.
type orderedMap struct {
	keys   []string
	values map[string]any
}

func newOrderedMap() *orderedMap {
	return &orderedMap{values: make(map[string]any)}
}

func (m *orderedMap) set(key string, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *orderedMap) get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *orderedMap) len() int { return len(m.keys) }

func (m *orderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeJSONValue(&buf, key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encodeJSONValue(&buf, m.values[key]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeJSONValue(buf *bytes.Buffer, v any) error {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(b.Bytes(), "\n"))
	return nil
}

func (m *orderedMap) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range m.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(m.values[key]); err != nil {
			return nil, fmt.Errorf("error encoding %q: %w", key, err)
		}
		node.Content = append(node.Content, keyNode, valueNode)
	}
	return node, nil
}

// buildStructure reconstructs the nested mapping for the structured formats.
// Directories are nested mappings and files are nil leaves. With metadata,
// files become {type, size, modified} objects and every non-root directory is
// rewrapped in its parent as {type, file_count, total_size, modified, contents};
// the root's summary goes under _metadata.
func buildStructure(opts RenderOptions, records iter.Seq[DirRecord]) *orderedMap {
	root := filepath.Clean(opts.Root)
	top := newOrderedMap()
	dirs := map[string]*orderedMap{root: top}
	parents := make(map[string]string)

	type dirSummary struct {
		path string
		meta DirectoryMetadata
	}
	var summaries []dirSummary

	for record := range records {
		dir := filepath.Clean(record.Path)
		current, ok := dirs[dir]
		if !ok {
			logger.Debugf("record %s is not attached to %s", dir, root)
			continue
		}

		for _, name := range record.Dirs {
			child := newOrderedMap()
			path := filepath.Join(dir, name)
			current.set(name, child)
			dirs[path] = child
			parents[path] = dir
		}

		for _, name := range record.Files {
			if !opts.ShowMetadata {
				current.set(name, nil)
				continue
			}
			entry := newOrderedMap()
			entry.set("type", "file")
			if fm, ok := recordFileMetadata(record, name); ok {
				entry.set("size", fm.Size)
				entry.set("modified", formatISOTime(fm.Modified))
			}
			current.set(name, entry)
		}

		if opts.ShowMetadata && record.Metadata != nil {
			summaries = append(summaries, dirSummary{path: dir, meta: record.Metadata.Directory})
		}
	}

	for _, s := range summaries {
		if s.path == root {
			meta := newOrderedMap()
			meta.set("file_count", s.meta.FileCount)
			meta.set("total_size", s.meta.TotalSize)
			meta.set("modified", formatISOTime(s.meta.Modified))
			top.set(rootMetadataKey, meta)
			continue
		}

		parent := dirs[parents[s.path]]
		wrapped := newOrderedMap()
		wrapped.set("type", "directory")
		wrapped.set("file_count", s.meta.FileCount)
		wrapped.set("total_size", s.meta.TotalSize)
		wrapped.set("modified", formatISOTime(s.meta.Modified))
		wrapped.set("contents", dirs[s.path])
		parent.set(filepath.Base(s.path), wrapped)
	}

	return top
}

type jsonRenderer struct {
	opts RenderOptions
}

func (r *jsonRenderer) format() Format { return FormatJSON }

func (r *jsonRenderer) Render(w io.Writer, records iter.Seq[DirRecord]) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(buildStructure(r.opts, records)); err != nil {
		return fmt.Errorf("error encoding json: %w", err)
	}
	return nil
}

type yamlRenderer struct {
	opts RenderOptions
}

func (r *yamlRenderer) format() Format { return FormatYAML }

func (r *yamlRenderer) Render(w io.Writer, records iter.Seq[DirRecord]) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(buildStructure(r.opts, records)); err != nil {
		return fmt.Errorf("error encoding yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("error encoding yaml: %w", err)
	}
	return nil
}
