package writer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/erraggy/apimprep/oaserrors"
)

// Marshal serializes a document tree to indented JSON.
func Marshal(doc any) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, &oaserrors.WriteError{
			Message: "failed to serialize document to JSON",
			Cause:   err,
		}
	}
	return data, nil
}

// Write serializes doc and writes it to w.
func Write(doc any, w io.Writer) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return &oaserrors.WriteError{
			Message: "failed to write document",
			Cause:   err,
		}
	}
	return nil
}

// WriteFile serializes doc and writes it to path, overwriting any existing
// regular file there. Symlinks at path are rejected so output cannot be
// redirected to an unintended location.
func WriteFile(doc any, path string) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	return writeBytes(data, path)
}

// WriteBytes writes already-serialized output to path with the same symlink
// protection as WriteFile.
func WriteBytes(data []byte, path string) error {
	return writeBytes(data, path)
}

func writeBytes(data []byte, path string) error {
	cleaned := filepath.Clean(path)
	if err := rejectSymlink(cleaned); err != nil {
		return err
	}
	if err := os.WriteFile(cleaned, data, 0o600); err != nil {
		return &oaserrors.WriteError{
			Path:    path,
			Message: "failed to write output file",
			Cause:   err,
		}
	}
	return nil
}

// rejectSymlink returns an error if the output path is a symlink.
func rejectSymlink(cleanedPath string) error {
	info, err := os.Lstat(cleanedPath)
	if os.IsNotExist(err) {
		// File doesn't exist yet, safe to write.
		return nil
	}
	if err != nil {
		return &oaserrors.WriteError{
			Path:    cleanedPath,
			Message: "failed to check output path",
			Cause:   err,
		}
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return &oaserrors.WriteError{
			Path:    cleanedPath,
			Message: fmt.Sprintf("refusing to write to symlink: %s", cleanedPath),
		}
	}
	return nil
}
