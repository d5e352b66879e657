// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plugin discovers external anvil subcommands.
//
// A plugin is an executable named anvil-<name>, found either in the user's
// plugin directory (~/.anvil/plugins) or on PATH. An optional YAML manifest
// (anvil-<name>.yaml beside the executable) supplies help text. Plugins are
// invoked as pass-through subprocesses; the plugin directory wins when the
// same name appears in both places.
package plugin

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"
)

const namePrefix = "anvil-"

// Plugin is a discovered external subcommand.
type Plugin struct {
	// Name is the subcommand name (executable name without the prefix).
	Name string

	// Path is the executable path.
	Path string

	// Description comes from the manifest, when present.
	Description string
}

// Manifest is the optional YAML file describing a plugin.
type Manifest struct {
	Description string `yaml:"description"`
	Usage       string `yaml:"usage"`
}

// DefaultDir returns the user plugin directory (~/.anvil/plugins).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".anvil", "plugins"), nil
}

// Discover finds plugins in pluginsDir and in each entry of pathList (a
// PATH-style list). A missing plugin directory is not an error. Results are
// sorted by name.
func Discover(pluginsDir, pathList string) ([]Plugin, error) {
	seen := make(map[string]Plugin)

	if pluginsDir != "" {
		found, err := scanDir(pluginsDir)
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			seen[p.Name] = p
		}
	}

	for _, dir := range filepath.SplitList(pathList) {
		if dir == "" {
			continue
		}
		found, err := scanDir(dir)
		if err != nil {
			continue
		}
		for _, p := range found {
			if _, ok := seen[p.Name]; !ok {
				seen[p.Name] = p
			}
		}
	}

	plugins := make([]Plugin, 0, len(seen))
	for _, p := range seen {
		plugins = append(plugins, p)
	}
	sort.Slice(plugins, func(i, j int) bool { return plugins[i].Name < plugins[j].Name })
	return plugins, nil
}

// scanDir returns the plugins found in a single directory. A missing
// directory yields no plugins and no error.
func scanDir(dir string) ([]Plugin, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading plugin directory %s: %w", dir, err)
	}

	var plugins []Plugin
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, namePrefix) || strings.Contains(name, ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.IsDir() || info.Mode()&0o111 == 0 {
			continue
		}

		path := filepath.Join(dir, name)
		plugins = append(plugins, Plugin{
			Name:        strings.TrimPrefix(name, namePrefix),
			Path:        path,
			Description: readManifest(path).Description,
		})
	}
	return plugins, nil
}

// readManifest loads the YAML manifest beside execPath, returning a zero
// Manifest when it is missing or malformed.
func readManifest(execPath string) Manifest {
	data, err := os.ReadFile(execPath + ".yaml")
	if err != nil {
		return Manifest{}
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}
	}
	return m
}

// Run executes the plugin with args, wiring the given stdio streams.
func (p Plugin) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, p.Path, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("plugin %s: %w", p.Name, err)
	}
	return nil
}
