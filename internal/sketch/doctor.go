// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sketch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

// DefaultMaxFileSize is the per-file byte cap for codebase scans.
const DefaultMaxFileSize = 100_000

// LargeCodebaseChars is the total-size threshold above which doctor warns
// that the analysis may be truncated.
const LargeCodebaseChars = 50_000

// includeExtensions lists the file extensions doctor sends for analysis.
var includeExtensions = map[string]bool{
	".py": true, ".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".css": true, ".scss": true, ".sass": true, ".less": true,
	".html": true, ".htm": true, ".vue": true, ".svelte": true,
	".json": true, ".yaml": true, ".yml": true, ".toml": true,
	".md": true, ".mdx": true, ".txt": true, ".env": true,
	".gitignore": true, ".dockerignore": true,
	".sql": true, ".graphql": true, ".gql": true, ".xml": true, ".svg": true,
	".go": true, ".mod": true, ".sum": true,
}

// excludeDirs lists directory names skipped entirely during the scan.
var excludeDirs = map[string]bool{
	"node_modules": true, ".git": true, ".svn": true, ".hg": true,
	"__pycache__": true, ".pytest_cache": true, ".mypy_cache": true,
	".ruff_cache": true, "dist": true, "build": true, ".next": true,
	".nuxt": true, "coverage": true, "htmlcov": true,
	".venv": true, "venv": true, "env": true,
	".idea": true, ".vscode": true, "bin": true, "vendor": true,
}

// fenceLanguages maps extensions to fence language tags for the analysis
// bundle.
var fenceLanguages = map[string]string{
	".py": "python", ".js": "javascript", ".jsx": "jsx",
	".ts": "typescript", ".tsx": "tsx", ".css": "css",
	".html": "html", ".json": "json", ".md": "markdown",
	".yml": "yaml", ".yaml": "yaml", ".toml": "toml",
	".sql": "sql", ".graphql": "graphql", ".go": "go",
}

// ReadCodebase walks baseDir and returns relative path → contents for every
// file worth analyzing. Files over maxFileSize bytes, unreadable files, and
// non-text content are skipped silently; excluded directories are not
// descended into.
func ReadCodebase(baseDir string, maxFileSize int64) (map[string]string, error) {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}

	codebase := make(map[string]string)

	err := filepath.WalkDir(baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != baseDir && excludeDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !includeExtensions[filepath.Ext(d.Name())] {
			return nil
		}
		info, err := d.Info()
		if err != nil || info.Size() > maxFileSize {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil || !utf8.Valid(data) {
			return nil
		}

		rel, err := filepath.Rel(baseDir, path)
		if err != nil {
			return nil
		}
		codebase[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading codebase %s: %w", baseDir, err)
	}

	return codebase, nil
}

// FormatForAnalysis renders the codebase as a single markdown bundle: a
// file-structure overview followed by each file's contents in a fenced
// block, sorted by path.
func FormatForAnalysis(codebase map[string]string) string {
	paths := make([]string, 0, len(codebase))
	for p := range codebase {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var b strings.Builder
	b.WriteString("# Codebase Analysis\n\n")
	b.WriteString("Please analyze this codebase and offer improvements, suggestions, and best practices.\n\n")

	b.WriteString("## File Structure\n\n")
	for _, p := range paths {
		fmt.Fprintf(&b, "- %s\n", p)
	}

	b.WriteString("\n## File Contents\n\n")
	for _, p := range paths {
		lang := fenceLanguages[filepath.Ext(p)]
		if lang == "" {
			lang = "text"
		}
		fmt.Fprintf(&b, "### %s\n\n```%s\n%s\n```\n\n", p, lang, codebase[p])
	}

	return b.String()
}

// TotalChars returns the combined size of all file contents.
func TotalChars(codebase map[string]string) int {
	total := 0
	for _, content := range codebase {
		total += len(content)
	}
	return total
}
