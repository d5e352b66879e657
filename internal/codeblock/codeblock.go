// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package codeblock extracts files from fenced code blocks in markdown text.
//
// Generation APIs emit files in three fence conventions: an attributed form
// (`tsx file="app/page.tsx"`), a colon form (`py:main.py`), and a direct
// filename form (`components/square.tsx`). A bare language token falls back
// to a default filename when the language is recognized. Blocks that match
// none of these are dropped without error.
package codeblock

import (
	"regexp"
	"strings"
)

// fenceRe matches a complete fenced block: the opening fence line, the body,
// and the closing fence. The body match is non-greedy so an unterminated
// fence at end of document never matches.
var fenceRe = regexp.MustCompile("(?s)```([^\n]*)\n(.*?)```")

// attributedRe matches the attributed header form: `tsx file="app/page.tsx"`.
var attributedRe = regexp.MustCompile(`^(\w+)\s+file="([^"]+)"$`)

// colonRe matches the colon header form: `tsx:app/page.tsx`.
var colonRe = regexp.MustCompile(`^(\w+):(.+)$`)

// recognizedExtensions is the extension set accepted for the colon and
// direct filename forms. Matching is case-sensitive: `.TSX` does not match.
var recognizedExtensions = map[string]bool{
	"ts": true, "tsx": true, "js": true, "jsx": true,
	"py": true, "css": true, "html": true, "json": true,
	"md": true, "yml": true, "yaml": true, "toml": true,
	"sh": true, "txt": true,
}

// defaultFilenames maps a bare language token to the filename used when a
// block carries no explicit filename. Languages outside this table are
// dropped.
var defaultFilenames = map[string]string{
	"typescript": "index.ts",
	"ts":         "index.ts",
	"tsx":        "index.ts",
	"javascript": "index.js",
	"js":         "index.js",
	"jsx":        "index.js",
	"python":     "main.py",
	"py":         "main.py",
	"css":        "styles.css",
	"html":       "index.html",
	"json":       "config.json",
	"markdown":   "README.md",
	"md":         "README.md",
}

// headerKind tags the fence header variant a block was classified as.
type headerKind int

const (
	kindUnknown headerKind = iota
	kindAttributed
	kindColon
	kindDirect
	kindLanguage
)

// header is the parsed opening fence line.
type header struct {
	kind     headerKind
	language string
	filename string
}

// parseHeader classifies an opening fence line into one of the four header
// variants. Precedence when a line is ambiguous: attributed, colon, direct
// filename, bare language.
func parseHeader(line string) header {
	line = strings.TrimRight(line, " \t")

	if m := attributedRe.FindStringSubmatch(line); m != nil {
		return header{kind: kindAttributed, language: m[1], filename: m[2]}
	}

	if m := colonRe.FindStringSubmatch(line); m != nil && hasRecognizedExtension(m[2]) {
		return header{kind: kindColon, language: m[1], filename: m[2]}
	}

	if line != "" && hasRecognizedExtension(line) {
		return header{kind: kindDirect, filename: line}
	}

	if isLanguageToken(line) {
		return header{kind: kindLanguage, language: line}
	}

	return header{kind: kindUnknown}
}

// hasRecognizedExtension reports whether path ends in one of the recognized
// extensions.
func hasRecognizedExtension(path string) bool {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 || idx == len(path)-1 {
		return false
	}
	return recognizedExtensions[path[idx+1:]]
}

// isLanguageToken reports whether line is a single bare word.
func isLanguageToken(line string) bool {
	if line == "" {
		return false
	}
	for _, r := range line {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// Extract parses markdown content and returns the files found in fenced code
// blocks. When two blocks resolve to the same filename the later block's
// body wins. Bodies are trimmed of leading and trailing whitespace; interior
// whitespace is preserved exactly. Extract is a pure function: the same
// input always yields the same result.
func Extract(content string) *FileSet {
	files := NewFileSet()

	for _, m := range fenceRe.FindAllStringSubmatch(content, -1) {
		h := parseHeader(m[1])
		body := strings.TrimSpace(m[2])

		switch h.kind {
		case kindAttributed, kindColon, kindDirect:
			files.Add(h.filename, body)
		case kindLanguage:
			// Language-only blocks with empty bodies produce no entry.
			if body == "" {
				continue
			}
			if name, ok := defaultFilenames[h.language]; ok {
				files.Add(name, body)
			}
		}
	}

	return files
}
