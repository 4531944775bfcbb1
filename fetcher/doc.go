// Package fetcher retrieves raw specification bytes from a URL or local path.
//
// The fetcher is the first stage of the apimprep pipeline. Given an HTTP(S)
// URL it performs a GET with a configurable User-Agent and timeout; given a
// local path it reads the file from disk. Either way it returns the raw
// bytes together with the detected source format (JSON or YAML), size, and
// load time. Failures are reported as [oaserrors.FetchError].
//
// The package also defines the [Logger] interface used across apimprep for
// optional structured debug logging, with a [NopLogger] default and a
// [SlogAdapter] for the standard library's log/slog.
package fetcher
