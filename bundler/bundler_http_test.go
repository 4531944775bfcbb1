package bundler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/apimprep/oaserrors"
)

// testHTTPFetcher returns an HTTPFetcher backed by the default client, the
// same shape the prep pipeline wires in for URL sources.
func testHTTPFetcher(t *testing.T) HTTPFetcher {
	t.Helper()
	return func(url string) ([]byte, string, error) {
		resp, err := http.Get(url)
		if err != nil {
			return nil, "", err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			return nil, "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, "", err
		}
		return data, resp.Header.Get("Content-Type"), nil
	}
}

func TestBundle_HTTPRelativeRefs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/specs/common.yaml", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`
components:
  schemas:
    Error:
      type: object
      properties:
        detail:
          $ref: "./detail.yaml#/Detail"
`))
	})
	mux.HandleFunc("/specs/detail.yaml", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Detail:\n  type: string\n"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	doc := parseDoc(t, `
openapi: "3.1.0"
components:
  schemas:
    Error:
      $ref: "./common.yaml#/components/schemas/Error"
`)

	r := NewWithHTTP(server.URL+"/specs/root.yaml", testHTTPFetcher(t))
	result, err := r.Bundle(doc)
	require.NoError(t, err)

	// common.yaml resolves relative to root.yaml, detail.yaml relative to common.yaml.
	errSchema := dig(t, doc, "components", "schemas", "Error")
	assert.Equal(t, "object", errSchema["type"])
	assert.Equal(t, "string", dig(t, errSchema, "properties", "detail")["type"])
	assert.Equal(t, 2, result.ResolvedRefs)
	assert.Equal(t, []string{server.URL + "/specs/common.yaml", server.URL + "/specs/detail.yaml"}, result.Documents)
}

func TestBundle_HTTPAbsoluteRef(t *testing.T) {
	var requested string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		_, _ = w.Write([]byte("type: object\n"))
	}))
	defer server.Close()

	doc := parseDoc(t, `
components:
  schemas:
    Pet:
      $ref: "` + server.URL + `/shared/pet.yaml"
`)

	r := NewWithHTTP(server.URL+"/root.yaml", testHTTPFetcher(t))
	_, err := r.Bundle(doc)
	require.NoError(t, err)

	assert.Equal(t, "/shared/pet.yaml", requested)
	assert.Equal(t, "object", dig(t, doc, "components", "schemas", "Pet")["type"])
}

func TestBundle_HTTPFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	doc := parseDoc(t, `
components:
  schemas:
    Pet:
      $ref: "./missing.yaml"
`)

	r := NewWithHTTP(server.URL+"/root.yaml", testHTTPFetcher(t))
	_, err := r.Bundle(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrUnresolvedReference))
}

func TestBundle_URLRefWithoutFetcher(t *testing.T) {
	doc := parseDoc(t, `
components:
  schemas:
    Pet:
      $ref: "https://example.com/pet.yaml"
`)

	r := New(t.TempDir())
	_, err := r.Bundle(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrFetch))
}
