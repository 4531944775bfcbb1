package bundler

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/apimprep/fetcher"
	"github.com/erraggy/apimprep/oaserrors"
)

const (
	// MaxRefDepth is the maximum depth allowed for nested $ref resolution
	// This prevents stack overflow from deeply nested (but non-circular) references
	MaxRefDepth = 100

	// MaxCachedDocuments is the maximum number of external documents to cache
	// This prevents memory exhaustion from documents with many external references
	MaxCachedDocuments = 100

	// MaxFileSize is the maximum size (in bytes) allowed for external reference files
	// Set to 10MB which should be sufficient for most OpenAPI documents
	MaxFileSize = 10 * 1024 * 1024 // 10MB
)

// HTTPFetcher is a function type for fetching content from HTTP/HTTPS URLs
// Returns the response body, content-type header, and any error
type HTTPFetcher func(url string) ([]byte, string, error)

// Resolver is the per-run context for external reference resolution.
// It is not safe for concurrent use; create one Resolver per document.
type Resolver struct {
	// baseDir is the base directory for resolving relative file references
	baseDir string
	// baseURL is the URL the primary document was fetched from.
	// When set, relative references resolve against this URL.
	baseURL string
	// httpFetch is the function used to fetch HTTP/HTTPS reference targets.
	// If nil, URL references fail.
	httpFetch HTTPFetcher
	// documents caches parsed external documents by canonical target
	documents map[string]any
	// processed tracks targets whose own external references are already resolved
	processed map[string]bool
	// resolving tracks targets currently on the resolution stack (cycle detection)
	resolving map[string]bool
	// inlining tracks target#fragment pairs currently being inlined, to catch
	// self-recursive fragments inside external documents
	inlining map[string]bool
	// stack holds the resolution order, for cycle error reporting
	stack []string
	// resolved memoizes extracted values per target#fragment pair
	resolved map[string]any
	// spliced counts reference nodes replaced during this run
	spliced int

	// Logger is the structured logger for debug output
	// If nil, logging is disabled (default)
	Logger fetcher.Logger
}

// New creates a new Resolver for documents read from the local filesystem.
// Relative references resolve against baseDir, and file references outside
// baseDir are rejected.
func New(baseDir string) *Resolver {
	return &Resolver{
		baseDir:   baseDir,
		documents: make(map[string]any),
		processed: make(map[string]bool),
		resolving: make(map[string]bool),
		inlining:  make(map[string]bool),
		resolved:  make(map[string]any),
	}
}

// NewWithHTTP creates a Resolver for documents fetched over HTTP/HTTPS.
// baseURL is the URL of the primary document; relative references resolve
// against it. The fetch function retrieves reference targets.
func NewWithHTTP(baseURL string, fetch HTTPFetcher) *Resolver {
	return &Resolver{
		baseURL:   baseURL,
		httpFetch: fetch,
		documents: make(map[string]any),
		processed: make(map[string]bool),
		resolving: make(map[string]bool),
		inlining:  make(map[string]bool),
		resolved:  make(map[string]any),
	}
}

// log returns the configured logger, or a no-op logger if none is set.
func (r *Resolver) log() fetcher.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return fetcher.NopLogger{}
}

// Result describes what a Bundle run resolved.
type Result struct {
	// ResolvedRefs is the number of reference nodes spliced, counting both
	// external references and references inlined from external documents
	ResolvedRefs int
	// Documents lists the canonical targets of all external documents loaded
	Documents []string
}

// Bundle resolves every external $ref in doc, splicing the referenced
// content in place. References internal to doc itself are preserved;
// references internal to an external document are inlined along with it,
// since their targets are not copied over. After a successful Bundle the
// document is self-contained.
func (r *Resolver) Bundle(doc map[string]any) (*Result, error) {
	base := r.baseDir
	if r.baseURL != "" {
		base = r.baseURL
	}
	r.spliced = 0

	if err := r.walk(doc, base, "", 0); err != nil {
		return nil, err
	}

	targets := make([]string, 0, len(r.documents))
	for target := range r.documents {
		targets = append(targets, target)
	}
	sort.Strings(targets)

	r.log().Debug("bundled document", "resolvedRefs", r.spliced, "documents", len(targets))
	return &Result{ResolvedRefs: r.spliced, Documents: targets}, nil
}

// walk traverses the tree depth-first. Replacement of reference nodes
// happens at the parent so that spliced values of any shape (mappings,
// sequences, scalars) can take the place of the {"$ref": ...} node.
// owner is the canonical target of the document being walked, or "" for
// the primary document.
func (r *Resolver) walk(node any, base, owner string, depth int) error {
	if depth > MaxRefDepth {
		return &oaserrors.ResourceLimitError{
			ResourceType: "ref_depth",
			Limit:        MaxRefDepth,
			Message:      "structure exceeds maximum nesting depth",
		}
	}

	switch v := node.(type) {
	case map[string]any:
		for key, val := range v {
			replaced, ok, err := r.replacement(val, base, owner, depth)
			if err != nil {
				return err
			}
			if ok {
				v[key] = replaced
				continue
			}
			if err := r.walk(val, base, owner, depth+1); err != nil {
				return err
			}
		}

	case []any:
		for i, item := range v {
			replaced, ok, err := r.replacement(item, base, owner, depth)
			if err != nil {
				return err
			}
			if ok {
				v[i] = replaced
				continue
			}
			if err := r.walk(item, base, owner, depth+1); err != nil {
				return err
			}
		}
	}

	return nil
}

// replacement resolves node if it is a reference that must be inlined,
// returning the value to splice in its place. References internal to the
// primary document report ok=false and are left for the caller to keep
// as-is.
func (r *Resolver) replacement(node any, base, owner string, depth int) (any, bool, error) {
	m, isMap := node.(map[string]any)
	if !isMap {
		return nil, false, nil
	}
	ref, isString := m["$ref"].(string)
	if !isString || ref == "" {
		return nil, false, nil
	}

	var resolved any
	var err error
	if strings.HasPrefix(ref, "#") {
		// A "#/..." pointer inside an external document would dangle once
		// the content is spliced into the primary document, so it is
		// inlined against the document that declares it.
		if owner == "" {
			return nil, false, nil
		}
		resolved, err = r.inlineFragment(ref, strings.TrimPrefix(ref, "#"), owner, depth)
	} else {
		resolved, err = r.resolveExternal(ref, base, owner, depth)
	}
	if err != nil {
		return nil, false, err
	}
	r.spliced++
	return resolved, true, nil
}

// resolveExternal loads the target document of an external reference,
// resolves that document's own references, extracts the fragment, and
// returns a deep copy safe to splice. Results are memoized per
// target#fragment pair, which also terminates diamond reference graphs.
func (r *Resolver) resolveExternal(ref, base, owner string, depth int) (any, error) {
	file, fragment, _ := strings.Cut(ref, "#")

	target, err := r.resolveTarget(base, file)
	if err != nil {
		return nil, err
	}

	// A document naming itself in a reference is not a cycle; the ref is
	// internal to the document being walked.
	if target == owner {
		return r.inlineFragment(ref, fragment, owner, depth)
	}

	memoKey := target + "#" + fragment
	if v, ok := r.resolved[memoKey]; ok {
		return deepCopyValue(v), nil
	}

	// A target already on the resolution stack means the external reference
	// graph loops through distinct files.
	if r.resolving[target] {
		return nil, &oaserrors.ReferenceCycleError{
			Ref:   ref,
			Chain: append(append([]string(nil), r.stack...), target),
		}
	}

	doc, err := r.loadDocument(ref, target)
	if err != nil {
		return nil, err
	}

	// Resolve the target document's own external references before the
	// fragment is extracted, so spliced content is final.
	if !r.processed[target] {
		r.resolving[target] = true
		r.stack = append(r.stack, target)

		nextBase := target
		if !fetcher.IsURL(target) {
			nextBase = filepath.Dir(target)
		}
		walkErr := r.walk(doc, nextBase, target, depth+1)

		r.stack = r.stack[:len(r.stack)-1]
		delete(r.resolving, target)
		if walkErr != nil {
			return nil, walkErr
		}
		r.processed[target] = true
	}

	value := doc
	if fragment != "" {
		value, err = resolveFragment(doc, fragment, ref, target)
		if err != nil {
			return nil, err
		}
	}

	r.resolved[memoKey] = value
	r.log().Debug("resolved external reference", "ref", ref, "target", target)
	return deepCopyValue(value), nil
}

// inlineFragment resolves a fragment against the external document that
// declares the reference and returns a deep copy with the fragment's own
// references resolved. A fragment reached again while it is still being
// inlined is a self-recursive schema, which cannot be expanded into a
// finite tree.
func (r *Resolver) inlineFragment(ref, fragment, owner string, depth int) (any, error) {
	memoKey := owner + "#" + fragment
	if v, ok := r.resolved[memoKey]; ok {
		return deepCopyValue(v), nil
	}
	if r.inlining[memoKey] {
		return nil, &oaserrors.ReferenceCycleError{
			Ref:   ref,
			Chain: append(append([]string(nil), r.stack...), memoKey),
		}
	}

	doc, ok := r.documents[owner]
	if !ok {
		return nil, &oaserrors.UnresolvedReferenceError{
			Ref:      ref,
			Target:   owner,
			Fragment: fragment,
			Message:  "referencing document is not loaded",
		}
	}

	value := doc
	if fragment != "" {
		var err error
		value, err = resolveFragment(doc, fragment, ref, owner)
		if err != nil {
			return nil, err
		}
	}

	r.inlining[memoKey] = true
	r.stack = append(r.stack, memoKey)

	nextBase := owner
	if !fetcher.IsURL(owner) {
		nextBase = filepath.Dir(owner)
	}
	walkErr := r.walk(value, nextBase, owner, depth+1)

	r.stack = r.stack[:len(r.stack)-1]
	delete(r.inlining, memoKey)
	if walkErr != nil {
		return nil, walkErr
	}

	r.resolved[memoKey] = value
	r.log().Debug("inlined internal reference", "ref", ref, "document", owner)
	return deepCopyValue(value), nil
}

// resolveTarget canonicalizes a reference's file component against the base
// of the referencing document. base is either a directory (file mode) or the
// referencing document's URL (HTTP mode).
func (r *Resolver) resolveTarget(base, file string) (string, error) {
	if fetcher.IsURL(file) {
		return file, nil
	}

	if fetcher.IsURL(base) {
		u, err := url.Parse(base)
		if err != nil {
			return "", fmt.Errorf("bundler: invalid base URL %s: %w", base, err)
		}
		u.Path = path.Join(path.Dir(u.Path), file)
		u.Fragment = ""
		return u.String(), nil
	}

	target := file
	if !filepath.IsAbs(target) {
		target = filepath.Join(base, target)
	}
	target = filepath.Clean(target)

	// Keep file references inside the primary document's directory.
	absBase, err := filepath.Abs(r.baseDir)
	if err != nil {
		return "", fmt.Errorf("bundler: resolving base directory: %w", err)
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("bundler: resolving file path: %w", err)
	}
	relPath, err := filepath.Rel(absBase, absTarget)
	if err != nil || strings.HasPrefix(relPath, "..") {
		return "", &oaserrors.UnresolvedReferenceError{
			Ref:     file,
			Target:  target,
			Message: "reference escapes the specification directory",
		}
	}

	return target, nil
}

// loadDocument reads and parses an external reference target, caching the
// parsed document per canonical target.
func (r *Resolver) loadDocument(ref, target string) (any, error) {
	if doc, ok := r.documents[target]; ok {
		return doc, nil
	}

	if len(r.documents) >= MaxCachedDocuments {
		return nil, &oaserrors.ResourceLimitError{
			ResourceType: "cached_documents",
			Limit:        MaxCachedDocuments,
			Actual:       int64(len(r.documents)),
			Message:      "too many external reference documents",
		}
	}

	var data []byte
	if fetcher.IsURL(target) {
		if r.httpFetch == nil {
			return nil, &oaserrors.FetchError{
				Source:  target,
				Message: "URL references require an HTTP fetcher to be configured",
			}
		}
		body, _, err := r.httpFetch(target)
		if err != nil {
			return nil, &oaserrors.UnresolvedReferenceError{Ref: ref, Target: target, Cause: err}
		}
		data = body
	} else {
		body, err := os.ReadFile(target)
		if err != nil {
			return nil, &oaserrors.UnresolvedReferenceError{Ref: ref, Target: target, Cause: err}
		}
		data = body
	}

	if int64(len(data)) > MaxFileSize {
		return nil, &oaserrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        MaxFileSize,
			Actual:       int64(len(data)),
			Message:      "external document " + target + " exceeds maximum size",
		}
	}

	// The YAML parser handles both YAML and JSON content.
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &oaserrors.ParseError{Path: target, Message: "parsing external document", Cause: err}
	}

	r.documents[target] = doc
	return doc, nil
}
