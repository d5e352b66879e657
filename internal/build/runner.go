// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package build

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pdiddy/anvil/pkg/types"
)

// DefaultSystemPrompt is sent with every build run.
const DefaultSystemPrompt = "You are a helpful coding assistant. Use the available tools to help build, " +
	"modify, and improve code projects. Be thorough and explain your actions."

// DefaultAllowedTools is the tool set used when none is configured.
var DefaultAllowedTools = []string{"Read", "Write", "Bash", "Edit"}

const (
	defaultBinary   = "claude"
	defaultMaxTurns = 10
)

// scanBufferSize bounds a single stream-json line; assistant messages can
// carry whole files.
const scanBufferSize = 4 * 1024 * 1024

// Runner executes build prompts through the Claude Code CLI.
type Runner struct {
	cfg types.BuildConfig
}

// NewRunner returns a Runner with defaults applied to zero-value fields.
func NewRunner(cfg types.BuildConfig) *Runner {
	if cfg.Binary == "" {
		cfg.Binary = defaultBinary
	}
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = defaultMaxTurns
	}
	if len(cfg.AllowedTools) == 0 {
		cfg.AllowedTools = DefaultAllowedTools
	}
	return &Runner{cfg: cfg}
}

// AllowedTools returns the effective tool list.
func (r *Runner) AllowedTools() []string {
	return r.cfg.AllowedTools
}

// Available reports whether the Claude Code CLI is installed.
func (r *Runner) Available() bool {
	_, err := exec.LookPath(r.cfg.Binary)
	return err == nil
}

func (r *Runner) args(prompt string) []string {
	args := []string{
		"-p", prompt,
		"--output-format", "stream-json",
		"--verbose",
		"--max-turns", strconv.Itoa(r.cfg.MaxTurns),
		"--allowedTools", strings.Join(r.cfg.AllowedTools, ","),
		"--system-prompt", DefaultSystemPrompt,
	}
	if r.cfg.Model != "" {
		args = append(args, "--model", r.cfg.Model)
	}
	if r.cfg.AutoApprove {
		args = append(args, "--permission-mode", "acceptEdits")
	}
	return args
}

// Run executes prompt through the CLI, invoking handler for every decoded
// event as it arrives, and returns a summary of the run. Malformed stream
// lines are skipped. Cancellation happens only through ctx.
func (r *Runner) Run(ctx context.Context, prompt string, handler func(Event)) (Summary, error) {
	cmd := exec.CommandContext(ctx, r.cfg.Binary, r.args(prompt)...)
	if r.cfg.WorkDir != "" {
		cmd.Dir = r.cfg.WorkDir
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Summary{}, fmt.Errorf("attaching to %s: %w", r.cfg.Binary, err)
	}
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return Summary{}, fmt.Errorf("starting %s: %w", r.cfg.Binary, err)
	}

	var summary Summary

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), scanBufferSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var ev Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			continue
		}

		summary.observe(ev)
		if handler != nil {
			handler(ev)
		}
	}
	scanErr := scanner.Err()

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return summary, fmt.Errorf("%s failed: %s: %w", r.cfg.Binary, msg, err)
		}
		return summary, fmt.Errorf("%s failed: %w", r.cfg.Binary, err)
	}
	if scanErr != nil {
		return summary, fmt.Errorf("reading %s output: %w", r.cfg.Binary, scanErr)
	}

	return summary, nil
}

// observe folds an event into the summary.
func (s *Summary) observe(ev Event) {
	switch ev.Type {
	case EventAssistant:
		if ev.Message == nil {
			return
		}
		for _, block := range ev.Message.Content {
			if block.Type == BlockToolUse {
				s.ToolUses = append(s.ToolUses, ToolUse{
					Name:  block.Name,
					Input: string(block.Input),
				})
			}
		}
	case EventResult:
		s.Result = ev.Result
		s.IsError = ev.IsError
		s.NumTurns = ev.NumTurns
		s.TotalCostUSD = ev.TotalCostUSD
	}
}
