// Package store persists named JSON documents on local disk.
//
// All durable state of the assistant lives in two such documents (the farmer
// profile and the activity log). Documents are UTF-8 JSON, human-inspectable,
// and written atomically so a failed save never truncates prior state.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xeipuuv/gojsonschema"
)

// ErrCorrupt marks a document that exists but cannot be decoded or fails its
// registered schema. Callers distinguish this from absence, which is not an
// error.
var ErrCorrupt = errors.New("corrupt document")

// Store reads and writes JSON documents under a single data directory.
type Store struct {
	dir     string
	schemas map[string]*gojsonschema.Schema
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir, schemas: map[string]*gojsonschema.Schema{}}, nil
}

// Dir returns the data directory path.
func (s *Store) Dir() string { return s.dir }

// RegisterSchema attaches a JSON Schema to a document name. Subsequent loads
// of that document validate against it; violations are reported as corrupt.
func (s *Store) RegisterSchema(name, schemaJSON string) error {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return fmt.Errorf("compile schema for %s: %w", name, err)
	}
	s.schemas[name] = schema
	return nil
}

// Load decodes the named document into out. It returns (false, nil) when the
// document does not exist, leaving out untouched so the caller's default
// stands. A present but unreadable document returns an error wrapping
// ErrCorrupt.
func (s *Store) Load(name string, out any) (bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", name, err)
	}

	if schema, ok := s.schemas[name]; ok {
		result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
		if err != nil {
			return false, fmt.Errorf("%s: %w: %v", name, ErrCorrupt, err)
		}
		if !result.Valid() {
			return false, fmt.Errorf("%s: %w: %s", name, ErrCorrupt, formatErrors(result))
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("%s: %w: %v", name, ErrCorrupt, err)
	}
	return true, nil
}

// Save serializes v and replaces the named document. The write goes to a
// temporary file in the same directory followed by a rename, so a failure
// mid-write leaves the previous document intact.
func (s *Store) Save(name string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	// Keep Malayalam and other non-ASCII text readable on disk.
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

func formatErrors(result *gojsonschema.Result) string {
	var sb bytes.Buffer
	for i, desc := range result.Errors() {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(desc.String())
	}
	return sb.String()
}
