package prep

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/apimprep/fetcher"
	"github.com/erraggy/apimprep/normalizer"
	"github.com/erraggy/apimprep/oaserrors"
)

func writeSpec(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func readOutput(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestPrepare_LocalFile(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, dir, "common.yaml", `
components:
  schemas:
    Error:
      type: object
`)
	source := writeSpec(t, dir, "spec.yaml", `
openapi: "3.1.0"
info:
  title: test
  version: "1.0.0"
"$recursiveAnchor": true
components:
  schemas:
    Pet:
      discriminator:
        propertyName: petType
      properties:
        petType:
          type: string
    Error:
      $ref: "./common.yaml#/components/schemas/Error"
`)
	output := filepath.Join(dir, "prepared.json")

	result, err := PrepareWithOptions(context.Background(),
		WithSource(source),
		WithOutput(output),
	)
	require.NoError(t, err)

	assert.Equal(t, source, result.Source)
	assert.Equal(t, fetcher.SourceFormatYAML, result.SourceFormat)
	assert.Equal(t, output, result.OutputPath)
	assert.Empty(t, result.RawPath, "file sources leave no raw artifact")
	assert.Equal(t, 1, result.ResolvedRefs)
	assert.Equal(t, 2, result.RewriteCount)
	assert.Positive(t, result.OutputSize)

	doc := readOutput(t, output)
	assert.Equal(t, "3.1.0", doc["openapi"])
	_, has := doc["$recursiveAnchor"]
	assert.False(t, has)

	pet := doc["components"].(map[string]any)["schemas"].(map[string]any)["Pet"].(map[string]any)
	assert.Equal(t, []any{"petType"}, pet["required"])

	errSchema := doc["components"].(map[string]any)["schemas"].(map[string]any)["Error"].(map[string]any)
	assert.Equal(t, "object", errSchema["type"])
}

func TestPrepare_URLSource(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/specs/inference.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"openapi": "3.1.0",
			"info": {"title": "test", "version": "1.0.0"},
			"paths": {},
			"components": {"schemas": {"Error": {"$ref": "./common.json#/Error"}}}
		}`))
	})
	mux.HandleFunc("/specs/common.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Error": {"type": "object"}}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	dir := t.TempDir()
	output := filepath.Join(dir, "prepared.json")
	rawPath := filepath.Join(dir, "raw.json")

	result, err := PrepareWithOptions(context.Background(),
		WithSource(server.URL+"/specs/inference.json"),
		WithOutput(output),
		WithRawPath(rawPath),
		WithCheckOutput(true),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ResolvedRefs)
	assert.Empty(t, result.RawPath)

	_, statErr := os.Stat(rawPath)
	assert.True(t, os.IsNotExist(statErr), "raw artifact must be removed on success")

	doc := readOutput(t, output)
	errSchema := doc["components"].(map[string]any)["schemas"].(map[string]any)["Error"].(map[string]any)
	assert.Equal(t, "object", errSchema["type"])
}

func TestPrepare_KeepRaw(t *testing.T) {
	spec := `{"openapi":"3.1.0","info":{"title":"t","version":"1"},"paths":{}}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(spec))
	}))
	defer server.Close()

	dir := t.TempDir()
	rawPath := filepath.Join(dir, "raw.json")

	result, err := PrepareWithOptions(context.Background(),
		WithSource(server.URL+"/spec.json"),
		WithOutput(filepath.Join(dir, "prepared.json")),
		WithRawPath(rawPath),
		WithKeepRaw(true),
	)
	require.NoError(t, err)
	assert.Equal(t, rawPath, result.RawPath)

	data, err := os.ReadFile(rawPath)
	require.NoError(t, err)
	assert.Equal(t, spec, string(data), "raw artifact must hold the unmodified download")
}

func TestPrepare_FetchFailure(t *testing.T) {
	_, err := PrepareWithOptions(context.Background(),
		WithSource(filepath.Join(t.TempDir(), "missing.yaml")),
		WithOutput(filepath.Join(t.TempDir(), "out.json")),
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrFetch))
}

func TestPrepare_MalformedSource(t *testing.T) {
	dir := t.TempDir()
	source := writeSpec(t, dir, "bad.json", "{\"unterminated\": [")

	_, err := PrepareWithOptions(context.Background(),
		WithSource(source),
		WithOutput(filepath.Join(dir, "out.json")),
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrParse))
}

func TestPrepare_ScalarRootRejected(t *testing.T) {
	dir := t.TempDir()
	source := writeSpec(t, dir, "scalar.yaml", "just a string\n")

	_, err := PrepareWithOptions(context.Background(),
		WithSource(source),
		WithOutput(filepath.Join(dir, "out.json")),
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrParse))
}

func TestPrepare_EnabledRewritesFilter(t *testing.T) {
	dir := t.TempDir()
	source := writeSpec(t, dir, "spec.yaml", `
openapi: "3.1.0"
"$recursiveAnchor": true
components:
  schemas:
    Pet:
      discriminator:
        propertyName: petType
`)
	output := filepath.Join(dir, "out.json")

	result, err := PrepareWithOptions(context.Background(),
		WithSource(source),
		WithOutput(output),
		WithEnabledRewrites(normalizer.RewriteTypeRemovedKeyword),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, result.RewriteCount)

	pet := readOutput(t, output)["components"].(map[string]any)["schemas"].(map[string]any)["Pet"].(map[string]any)
	_, has := pet["required"]
	assert.False(t, has)
}

func TestOptions_Validation(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"empty source", []Option{WithSource("")}},
		{"empty output", []Option{WithOutput("")}},
		{"empty raw path", []Option{WithRawPath("")}},
		{"output overwrites source", []Option{WithSource("spec.json"), WithOutput("spec.json")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PrepareWithOptions(context.Background(), tt.opts...)
			require.Error(t, err)

			var cfgErr *oaserrors.ConfigError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := applyOptions()
	require.NoError(t, err)
	assert.Equal(t, DefaultSourceURL, cfg.source)
	assert.Equal(t, DefaultOutputPath, cfg.output)
	assert.Equal(t, DefaultRawPath, cfg.rawPath)
	assert.False(t, cfg.keepRaw)
	assert.False(t, cfg.checkOutput)
}
