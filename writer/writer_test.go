package writer

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/apimprep/oaserrors"
)

func TestMarshal(t *testing.T) {
	doc := map[string]any{
		"openapi": "3.1.0",
		"info":    map[string]any{"title": "test", "version": "1.0.0"},
	}

	data, err := Marshal(doc)
	require.NoError(t, err)

	var roundTrip map[string]any
	require.NoError(t, json.Unmarshal(data, &roundTrip))
	assert.Equal(t, doc, roundTrip)
	assert.Contains(t, string(data), "\n  \"info\"", "output must be two-space indented")
}

func TestMarshal_UnserializableValue(t *testing.T) {
	_, err := Marshal(map[string]any{"bad": func() {}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrWrite))
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(map[string]any{"openapi": "3.1.0"}, &buf))
	assert.JSONEq(t, `{"openapi":"3.1.0"}`, buf.String())
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	doc := map[string]any{"openapi": "3.1.0"}

	require.NoError(t, WriteFile(doc, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"openapi":"3.1.0"}`, string(data))
}

func TestWriteFile_OverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, os.WriteFile(path, []byte("old content"), 0o600))

	require.NoError(t, WriteFile(map[string]any{"replaced": true}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"replaced":true}`, string(data))
}

func TestWriteFile_RejectsSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.json")
	require.NoError(t, os.WriteFile(target, []byte("{}"), 0o600))
	link := filepath.Join(dir, "link.json")
	require.NoError(t, os.Symlink(target, link))

	err := WriteFile(map[string]any{"openapi": "3.1.0"}, link)
	require.Error(t, err)

	var writeErr *oaserrors.WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Contains(t, writeErr.Message, "symlink")
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "out.json")
	err := WriteFile(map[string]any{}, path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrWrite))
}

func TestWriteBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.json")
	require.NoError(t, WriteBytes([]byte(`{"raw":true}`), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"raw":true}`, string(data))
}
