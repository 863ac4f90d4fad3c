package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// JSON-backed file storage. Single file, human-readable, portable.
// No locking; fine for a local single-user CLI.

// Read decodes the JSON file at path into v. A missing file is returned
// as an error matching os.ErrNotExist so callers can treat it as empty.
func Read(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("json unmarshal: %w", err)
	}
	return nil
}

// Write stores v as indented JSON, creating the parent directory with
// owner-only permissions when it does not exist yet.
func Write(path string, v any, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.WriteFile(path, b, perm); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
