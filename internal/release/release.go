// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package release checks for and installs newer anvil versions.
package release

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/exec"

	"github.com/pdiddy/anvil/internal/httputil"
)

// LatestReleaseURL is the GitHub endpoint describing the newest release.
const LatestReleaseURL = "https://api.github.com/repos/pdiddy/anvil/releases/latest"

// InstallTarget is the package path passed to go install.
const InstallTarget = "github.com/pdiddy/anvil/cmd/anvil@latest"

// goBinary is overridable in tests.
var goBinary = "go"

// Latest returns the tag name of the newest release. Rate-limited responses
// are retried; other non-200 statuses are errors.
func Latest(ctx context.Context, client *http.Client, url string) (string, error) {
	if url == "" {
		url = LatestReleaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building release request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return "", fmt.Errorf("checking latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("checking latest release: unexpected status %s", resp.Status)
	}

	var payload struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding release response: %w", err)
	}
	if payload.TagName == "" {
		return "", fmt.Errorf("release response missing tag name")
	}
	return payload.TagName, nil
}

// Install runs `go install` for the latest anvil, streaming tool output
// to w.
func Install(ctx context.Context, w io.Writer) error {
	cmd := exec.CommandContext(ctx, goBinary, "install", InstallTarget)
	cmd.Stdout = w
	cmd.Stderr = w
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go install: %w", err)
	}
	return nil
}
