// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package codeblock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    map[string]string
	}{
		{
			name:    "attributed form",
			content: "Here you go:\n```tsx file=\"app/page.tsx\"\nexport default function Home(){}\n```\n",
			want: map[string]string{
				"app/page.tsx": "export default function Home(){}",
			},
		},
		{
			name:    "colon form",
			content: "```py:main.py\nprint(1)\n```",
			want: map[string]string{
				"main.py": "print(1)",
			},
		},
		{
			name:    "direct filename form",
			content: "```components/square.tsx\nexport function Square() {}\n```",
			want: map[string]string{
				"components/square.tsx": "export function Square() {}",
			},
		},
		{
			name:    "language-only fallback",
			content: "```typescript\nconst x = 1\n```",
			want: map[string]string{
				"index.ts": "const x = 1",
			},
		},
		{
			name: "later block wins on filename collision",
			content: "```typescript\nconst first = 1\n```\n\nsome prose\n\n" +
				"```ts\nconst second = 2\n```\n",
			want: map[string]string{
				"index.ts": "const second = 2",
			},
		},
		{
			name:    "no fenced blocks",
			content: "just prose, no code here",
			want:    map[string]string{},
		},
		{
			name:    "unterminated fence is excluded",
			content: "```tsx file=\"app/page.tsx\"\nexport default function Home(){}\n",
			want:    map[string]string{},
		},
		{
			name:    "unknown language without filename is dropped",
			content: "```rust\nfn main() {}\n```",
			want:    map[string]string{},
		},
		{
			name:    "language-only block with empty body is dropped",
			content: "```python\n\n```",
			want:    map[string]string{},
		},
		{
			name: "multiple files in one document",
			content: "```tsx file=\"app/page.tsx\"\nexport default function Home(){}\n```\n" +
				"Styles:\n```css\nbody { margin: 0; }\n```\n" +
				"```json:package.json\n{\"name\": \"demo\"}\n```\n",
			want: map[string]string{
				"app/page.tsx": "export default function Home(){}",
				"styles.css":   "body { margin: 0; }",
				"package.json": "{\"name\": \"demo\"}",
			},
		},
		{
			name:    "uppercase extension does not match",
			content: "```components/square.TSX\nexport function Square() {}\n```",
			want:    map[string]string{},
		},
		{
			name:    "interior whitespace preserved",
			content: "```py:main.py\n\ndef f():\n    return 1\n\n\ndef g():\n    return 2\n\n```",
			want: map[string]string{
				"main.py": "def f():\n    return 1\n\n\ndef g():\n    return 2",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.content)
			require.Equal(t, len(tt.want), got.Len())
			for name, body := range tt.want {
				gotBody, ok := got.Body(name)
				require.True(t, ok, "missing file %s", name)
				assert.Equal(t, body, gotBody)
			}
		})
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	content := "```tsx file=\"app/page.tsx\"\nexport default function Home(){}\n```\n" +
		"```python\nprint(1)\n```\n"

	first := Extract(content)
	second := Extract(content)

	assert.Equal(t, first.Names(), second.Names())
	for _, name := range first.Names() {
		a, _ := first.Body(name)
		b, _ := second.Body(name)
		assert.Equal(t, a, b)
	}
}

func TestExtractDiscoveryOrder(t *testing.T) {
	content := "```json:b.json\n{}\n```\n" +
		"```json:a.json\n{}\n```\n" +
		"```json:b.json\n{\"v\": 2}\n```\n"

	got := Extract(content)

	// Overwriting keeps the original position.
	assert.Equal(t, []string{"b.json", "a.json"}, got.Names())
	body, _ := got.Body("b.json")
	assert.Equal(t, "{\"v\": 2}", body)
}

func TestParseHeader(t *testing.T) {
	tests := []struct {
		line string
		want header
	}{
		{`tsx file="app/page.tsx"`, header{kind: kindAttributed, language: "tsx", filename: "app/page.tsx"}},
		{`py:main.py`, header{kind: kindColon, language: "py", filename: "main.py"}},
		{`tsx:components/board.tsx`, header{kind: kindColon, language: "tsx", filename: "components/board.tsx"}},
		{`components/square.tsx`, header{kind: kindDirect, filename: "components/square.tsx"}},
		{`typescript`, header{kind: kindLanguage, language: "typescript"}},
		{`rust`, header{kind: kindLanguage, language: "rust"}},
		{``, header{kind: kindUnknown}},
		{`py:main.exe`, header{kind: kindUnknown}},
		{`notes about code`, header{kind: kindUnknown}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, parseHeader(tt.line))
		})
	}
}
