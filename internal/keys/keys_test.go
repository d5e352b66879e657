// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package keys

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResolver(t *testing.T, env map[string]string) (*Resolver, string) {
	t.Helper()
	dir := t.TempDir()
	return &Resolver{
		LocalEnv:  filepath.Join(dir, ".env"),
		GlobalEnv: filepath.Join(dir, "global", ".env"),
		getenv: func(name string) string {
			return env[name]
		},
	}, dir
}

func TestResolverLookup(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		local      string
		global     string
		want       string
		wantSource Source
	}{
		{
			name:       "environment wins over files",
			env:        map[string]string{V0APIKey: "from-env"},
			local:      "V0_API_KEY=from-local\n",
			global:     "V0_API_KEY=from-global\n",
			want:       "from-env",
			wantSource: SourceEnvironment,
		},
		{
			name:       "local .env wins over global",
			local:      "V0_API_KEY=from-local\n",
			global:     "V0_API_KEY=from-global\n",
			want:       "from-local",
			wantSource: SourceLocalEnv,
		},
		{
			name:       "global .env as last resort",
			global:     "V0_API_KEY=from-global\n",
			want:       "from-global",
			wantSource: SourceGlobalEnv,
		},
		{
			name:       "not set anywhere",
			want:       "",
			wantSource: SourceNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := testResolver(t, tt.env)
			if tt.local != "" {
				require.NoError(t, os.WriteFile(r.LocalEnv, []byte(tt.local), 0o644))
			}
			if tt.global != "" {
				require.NoError(t, os.MkdirAll(filepath.Dir(r.GlobalEnv), 0o755))
				require.NoError(t, os.WriteFile(r.GlobalEnv, []byte(tt.global), 0o644))
			}

			got, source := r.Find(V0APIKey)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}

func TestSaveCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".anvil", ".env")

	require.NoError(t, Save(path, V0APIKey, "v0_abc123"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "V0_API_KEY=v0_abc123\n", string(data))
}

func TestSaveReplacesExistingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("OTHER=1\nV0_API_KEY=old\n"), 0o644))

	require.NoError(t, Save(path, V0APIKey, "new"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "OTHER=1\nV0_API_KEY=new\n", string(data))
}

func TestSavePreservesUnrelatedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("A=1\nB=2\n"), 0o644))

	require.NoError(t, Save(path, AnthropicAPIKey, "sk-ant-xyz"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A=1\nB=2\nANTHROPIC_API_KEY=sk-ant-xyz\n", string(data))
}

func TestMask(t *testing.T) {
	assert.Equal(t, "v0_abcde...wxyz", Mask("v0_abcdefghijklmnopqrstuvwxyz"))
	assert.Equal(t, "***", Mask("short"))
	assert.Equal(t, "***", Mask(""))
}
