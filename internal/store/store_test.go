package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAbsentReturnsFalse(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	out := map[string]string{"name": "default"}
	found, err := s.Load("missing.json", &out)

	assert.NoError(t, err)
	assert.False(t, found)
	// Caller's default untouched.
	assert.Equal(t, "default", out["name"])
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	in := map[string]string{"name": "Ravi", "crop": "Rice"}
	require.NoError(t, s.Save("doc.json", in))

	var out map[string]string
	found, err := s.Load("doc.json", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestSavePreservesNonASCII(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save("doc.json", map[string]string{"q": "നെല്ല് എപ്പോൾ നടാം?"}))

	data, err := os.ReadFile(filepath.Join(dir, "doc.json"))
	require.NoError(t, err)
	// Script stays human-readable, not \u-escaped.
	assert.Contains(t, string(data), "നെല്ല്")
}

func TestLoadCorruptDistinctFromAbsent(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.json"), []byte("{broken"), 0644))

	var out map[string]string
	_, err = s.Load("doc.json", &out)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestSchemaViolationIsCorrupt(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, s.RegisterSchema("doc.json", `{
		"type": "object",
		"properties": {"name": {"type": "string"}},
		"required": ["name"]
	}`))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.json"), []byte(`{"name": 42}`), 0644))

	var out map[string]any
	_, err = s.Load("doc.json", &out)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestSaveFailureKeepsPriorDocument(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save("doc.json", map[string]string{"name": "Ravi"}))

	// Channels cannot be encoded as JSON.
	assert.Error(t, s.Save("doc.json", map[string]any{"bad": make(chan int)}))

	var out map[string]string
	found, err := s.Load("doc.json", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Ravi", out["name"])

	// No stray temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveOverwritesWholeDocument(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save("doc.json", map[string]string{"name": "Ravi", "soil": "Clay"}))
	require.NoError(t, s.Save("doc.json", map[string]string{"name": "Lakshmi"}))

	var out map[string]string
	_, err = s.Load("doc.json", &out)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "Lakshmi"}, out)
}
