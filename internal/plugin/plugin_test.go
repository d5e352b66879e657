// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plugin

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePlugin(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("plugin scripts require a POSIX shell")
	}
	path := filepath.Join(dir, namePrefix+name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestDiscoverFindsPluginsInDir(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "hello", "echo hi")
	writePlugin(t, dir, "deploy", "echo deploying")

	plugins, err := Discover(dir, "")
	require.NoError(t, err)

	require.Len(t, plugins, 2)
	assert.Equal(t, "deploy", plugins[0].Name)
	assert.Equal(t, "hello", plugins[1].Name)
}

func TestDiscoverReadsManifest(t *testing.T) {
	dir := t.TempDir()
	path := writePlugin(t, dir, "greet", "echo hi")
	require.NoError(t, os.WriteFile(path+".yaml", []byte("description: Greets the user\n"), 0o644))

	plugins, err := Discover(dir, "")
	require.NoError(t, err)

	require.Len(t, plugins, 1)
	assert.Equal(t, "Greets the user", plugins[0].Description)
}

func TestDiscoverSkipsNonPlugins(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "real", "echo ok")
	// Not executable.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "anvil-script"), []byte("#!/bin/sh\n"), 0o644))
	// Wrong prefix.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other-tool"), []byte("#!/bin/sh\n"), 0o755))
	// Manifest files are not plugins.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "anvil-real.yaml"), []byte("description: x\n"), 0o644))

	plugins, err := Discover(dir, "")
	require.NoError(t, err)

	require.Len(t, plugins, 1)
	assert.Equal(t, "real", plugins[0].Name)
}

func TestDiscoverPluginDirWinsOverPath(t *testing.T) {
	pluginDir := t.TempDir()
	pathDir := t.TempDir()
	fromPluginDir := writePlugin(t, pluginDir, "dup", "echo plugin dir")
	writePlugin(t, pathDir, "dup", "echo path")
	writePlugin(t, pathDir, "path-only", "echo path only")

	plugins, err := Discover(pluginDir, pathDir)
	require.NoError(t, err)

	require.Len(t, plugins, 2)
	assert.Equal(t, "dup", plugins[0].Name)
	assert.Equal(t, fromPluginDir, plugins[0].Path)
	assert.Equal(t, "path-only", plugins[1].Name)
}

func TestDiscoverMissingDir(t *testing.T) {
	plugins, err := Discover(filepath.Join(t.TempDir(), "absent"), "")
	require.NoError(t, err)
	assert.Empty(t, plugins)
}

func TestRunPassesArgsAndStdio(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "echoargs", `echo "args: $@"`)

	plugins, err := Discover(dir, "")
	require.NoError(t, err)
	require.Len(t, plugins, 1)

	var out bytes.Buffer
	err = plugins[0].Run(context.Background(), []string{"one", "two"}, nil, &out, &out)
	require.NoError(t, err)
	assert.Equal(t, "args: one two\n", out.String())
}

func TestRunReportsFailure(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "fails", "exit 2")

	plugins, err := Discover(dir, "")
	require.NoError(t, err)
	require.Len(t, plugins, 1)

	err = plugins[0].Run(context.Background(), nil, nil, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plugin fails")
}
