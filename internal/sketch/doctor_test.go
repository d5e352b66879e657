// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sketch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestReadCodebase(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"app/page.tsx":            "export default function Home(){}",
		"styles.css":              "body {}",
		"README.md":               "# demo",
		"binary.png":              "\x89PNG",
		"node_modules/lib/pkg.js": "module.exports = {}",
		".git/config":             "[core]",
	})

	got, err := ReadCodebase(dir, 0)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"app/page.tsx": "export default function Home(){}",
		"styles.css":   "body {}",
		"README.md":    "# demo",
	}, got)
}

func TestReadCodebaseSkipsLargeFiles(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"small.ts": "const x = 1",
		"big.ts":   strings.Repeat("x", 200),
	})

	got, err := ReadCodebase(dir, 100)
	require.NoError(t, err)

	_, hasBig := got["big.ts"]
	assert.False(t, hasBig)
	assert.Contains(t, got, "small.ts")
}

func TestFormatForAnalysis(t *testing.T) {
	codebase := map[string]string{
		"main.py":    "print(1)",
		"styles.css": "body {}",
	}

	out := FormatForAnalysis(codebase)

	assert.Contains(t, out, "# Codebase Analysis")
	assert.Contains(t, out, "- main.py\n- styles.css")
	assert.Contains(t, out, "```python\nprint(1)\n```")
	assert.Contains(t, out, "```css\nbody {}\n```")
	// Structure overview precedes contents.
	assert.Less(t, strings.Index(out, "## File Structure"), strings.Index(out, "## File Contents"))
}

func TestTotalChars(t *testing.T) {
	assert.Equal(t, 0, TotalChars(nil))
	assert.Equal(t, 5, TotalChars(map[string]string{"a.ts": "12345"}))
}
