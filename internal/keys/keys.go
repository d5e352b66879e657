// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package keys resolves and persists API keys for the generation backends.
//
// Resolution order: the process environment, then .env in the working
// directory, then the global ~/.anvil/.env. Earlier sources win. Missing
// files are not errors.
package keys

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Key names used by the anvil commands.
const (
	V0APIKey        = "V0_API_KEY"
	AnthropicAPIKey = "ANTHROPIC_API_KEY"
)

// Source identifies where a key value was found.
type Source string

const (
	SourceEnvironment Source = "environment"
	SourceLocalEnv    Source = "local .env"
	SourceGlobalEnv   Source = "global .env"
	SourceNone        Source = ""
)

// Resolver looks up key values across the environment and .env files.
type Resolver struct {
	// LocalEnv is the project .env path, normally "./.env".
	LocalEnv string

	// GlobalEnv is the global config path, normally "~/.anvil/.env".
	GlobalEnv string

	getenv func(string) string
}

// NewResolver returns a Resolver over the standard locations.
func NewResolver() (*Resolver, error) {
	global, err := GlobalEnvPath()
	if err != nil {
		return nil, err
	}
	return &Resolver{
		LocalEnv:  ".env",
		GlobalEnv: global,
		getenv:    os.Getenv,
	}, nil
}

// GlobalEnvPath returns the path of the global .env file (~/.anvil/.env).
func GlobalEnvPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".anvil", ".env"), nil
}

// Lookup returns the value for name, or "" when it is not set anywhere.
func (r *Resolver) Lookup(name string) string {
	v, _ := r.lookup(name)
	return v
}

// Find returns the value for name and the source it came from.
func (r *Resolver) Find(name string) (string, Source) {
	return r.lookup(name)
}

func (r *Resolver) lookup(name string) (string, Source) {
	getenv := r.getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(name); v != "" {
		return v, SourceEnvironment
	}
	if v := readEnvFile(r.LocalEnv, name); v != "" {
		return v, SourceLocalEnv
	}
	if v := readEnvFile(r.GlobalEnv, name); v != "" {
		return v, SourceGlobalEnv
	}
	return "", SourceNone
}

// readEnvFile returns the value of name in the .env file at path, or ""
// when the file is missing, unreadable, or does not define name.
func readEnvFile(path, name string) string {
	if path == "" {
		return ""
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return ""
	}
	return values[name]
}

// Save writes name=value into the .env file at path, replacing any existing
// line for name and preserving every other line. The parent directory is
// created if needed.
func Save(path, name, value string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	var kept []string
	if data, err := os.ReadFile(path); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), name+"=") {
				continue
			}
			kept = append(kept, line)
		}
		// Drop trailing blank lines so the new entry lands cleanly.
		for len(kept) > 0 && strings.TrimSpace(kept[len(kept)-1]) == "" {
			kept = kept[:len(kept)-1]
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	kept = append(kept, fmt.Sprintf("%s=%s", name, value))
	out := strings.Join(kept, "\n") + "\n"

	if err := os.WriteFile(path, []byte(out), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Mask renders a key for display, keeping only the first 8 and last 4
// characters of long keys.
func Mask(key string) string {
	if len(key) <= 12 {
		return "***"
	}
	return key[:8] + "..." + key[len(key)-4:]
}
