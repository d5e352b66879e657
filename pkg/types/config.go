// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the configuration structs shared between the anvil
// commands and the stage packages.
package types

import "time"

// HTTPConfig holds shared HTTP settings for commands that call an API.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "anvil/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SketchConfig holds settings for the sketch commands (v0 API).
type SketchConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the v0 API base (default "https://api.v0.dev/v1").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Model is the v0 model identifier (default "v0-1.0-md").
	Model string `json:"model" yaml:"model"`

	// APIKey is the bearer token for the v0 API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxFileSize is the per-file byte cap for doctor's codebase scan
	// (default 100000).
	MaxFileSize int64 `json:"max_file_size" yaml:"max_file_size"`
}

// BuildConfig holds settings for the build commands (Claude Code CLI).
type BuildConfig struct {
	// Binary is the Claude Code CLI executable name (default "claude").
	Binary string `json:"binary" yaml:"binary"`

	// Model is an optional model override passed to the CLI.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// MaxTurns bounds the number of agent turns (default 10).
	MaxTurns int `json:"max_turns" yaml:"max_turns"`

	// AllowedTools lists the tools the agent may use
	// (default Read, Write, Bash, Edit).
	AllowedTools []string `json:"allowed_tools" yaml:"allowed_tools"`

	// AutoApprove accepts file edits without prompting.
	AutoApprove bool `json:"auto_approve" yaml:"auto_approve"`

	// WorkDir is the working directory for the agent (default ".").
	WorkDir string `json:"work_dir" yaml:"work_dir"`
}

// CacheConfig holds settings for the response cache.
type CacheConfig struct {
	// Dir is the cache directory (default ~/.cache/anvil).
	Dir string `json:"dir" yaml:"dir"`

	// Disabled turns off response caching entirely.
	Disabled bool `json:"disabled" yaml:"disabled"`
}

// PaletteConfig holds settings for palette extraction.
type PaletteConfig struct {
	// Colors is the palette size (default 5).
	Colors int `json:"colors" yaml:"colors"`

	// ThumbnailSize is the bounding box images are scaled into before
	// quantization (default 150).
	ThumbnailSize int `json:"thumbnail_size" yaml:"thumbnail_size"`
}
