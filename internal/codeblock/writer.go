// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package codeblock

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteOutcome records the result of writing a single extracted file.
type WriteOutcome struct {
	// Path is the full path the file was written to (or would have been).
	Path string

	// Err is nil on success.
	Err error
}

// WriteAll writes every file in fs relative to baseDir, creating parent
// directories as needed and overwriting existing files. A failure on one
// file does not stop the remaining writes; each outcome is reported
// independently, in discovery order.
func WriteAll(fs *FileSet, baseDir string) []WriteOutcome {
	outcomes := make([]WriteOutcome, 0, fs.Len())

	for _, name := range fs.names {
		path := filepath.Join(baseDir, name)
		outcomes = append(outcomes, WriteOutcome{Path: path, Err: writeOne(path, fs.bodies[name])})
	}

	return outcomes
}

func writeOne(path, body string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
