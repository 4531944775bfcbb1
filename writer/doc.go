// Package writer serializes a normalized document tree to JSON.
//
// Output is always UTF-8 JSON with two-space indentation, matching the form
// gateway importers consume. WriteFile refuses to follow a symlink at the
// target path and otherwise overwrites whatever is there.
package writer
