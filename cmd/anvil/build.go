// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/anvil/internal/build"
	"github.com/pdiddy/anvil/internal/keys"
	"github.com/pdiddy/anvil/pkg/types"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build projects with the Claude Code CLI",
	Long: `Build hands a prompt to the Claude Code CLI (claude) for agentic,
multi-turn project work: the agent reads and writes files, runs commands,
and reports a final result. Requires the claude binary on PATH.`,
}

// --- create subcommand ---

var buildCreateCmd = &cobra.Command{
	Use:   "create [prompt]",
	Short: "Run an agentic build for a prompt",
	Long: `Create wraps the prompt with build instructions and streams the agent's
progress: assistant text, tool activity, and a final summary with turn
count and cost. Interrupt with Ctrl-C to cancel.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBuildCreate,
}

func runBuildCreate(cmd *cobra.Command, args []string) error {
	prompt := strings.Join(args, " ")

	cfg := viperBuildConfig()
	if tools, _ := cmd.Flags().GetString("tools"); tools != "" {
		cfg.AllowedTools = strings.Split(tools, ",")
	}
	if maxTurns, _ := cmd.Flags().GetInt("max-turns"); maxTurns > 0 {
		cfg.MaxTurns = maxTurns
	}
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		cfg.WorkDir = dir
	}
	if auto, _ := cmd.Flags().GetBool("auto-approve"); auto {
		cfg.AutoApprove = true
	}
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.Model = model
	}

	runner, err := newRunner(cfg)
	if err != nil {
		return err
	}

	ctx, stop := commandContext()
	defer stop()

	workDir := cfg.WorkDir
	if workDir == "" {
		workDir, _ = os.Getwd()
	}
	console.Dimf("Working directory: %s", workDir)
	console.Dimf("Allowed tools: %s", strings.Join(runner.AllowedTools(), ", "))
	console.Println()

	return runBuild(ctx, runner, buildPrompt(prompt, workDir))
}

// newRunner builds a runner for cfg after checking the CLI is installed
// and warning when no Anthropic key is visible.
func newRunner(cfg types.BuildConfig) (*build.Runner, error) {
	runner := build.NewRunner(cfg)
	if !runner.Available() {
		console.Errorf("The Claude Code CLI was not found on PATH")
		console.Dimf("Install it with: npm install -g @anthropic-ai/claude-code")
		return nil, fmt.Errorf("claude CLI not installed")
	}

	if resolver, err := keys.NewResolver(); err == nil {
		if resolver.Lookup(keys.AnthropicAPIKey) == "" {
			console.Warnf("%s is not set; the CLI will use its own login if available", keys.AnthropicAPIKey)
		}
	}
	return runner, nil
}

// buildPrompt wraps the user's request with the build instructions sent to
// the agent.
func buildPrompt(prompt, workDir string) string {
	return fmt.Sprintf(`I want you to help me build: %s

Please use the available tools to:
1. Analyze the current directory structure if relevant
2. Create or modify files as needed
3. Run any necessary commands to set up the project
4. Test that everything works correctly

Working directory: %s`, prompt, workDir)
}

// runBuild executes one prompt through the runner, rendering events as
// they arrive and a summary at the end.
func runBuild(ctx context.Context, runner *build.Runner, prompt string) error {
	summary, err := runner.Run(ctx, prompt, renderBuildEvent)
	if err != nil {
		return err
	}

	console.Println()
	console.Rule()
	if summary.IsError {
		console.Errorf("Build finished with errors (%d turns)", summary.NumTurns)
	} else {
		console.Successf("Build complete (%d turns, $%.4f)", summary.NumTurns, summary.TotalCostUSD)
	}
	if len(summary.ToolUses) > 0 {
		console.Dimf("Tools used: %d invocations", len(summary.ToolUses))
	}
	if summary.Result != "" {
		console.Println(console.Markdown(summary.Result))
	}
	return nil
}

// renderBuildEvent prints one stream event.
func renderBuildEvent(ev build.Event) {
	switch ev.Type {
	case build.EventSystem:
		if ev.Subtype == "init" {
			console.Dimf("Session started")
		}
	case build.EventAssistant:
		if ev.Message == nil {
			return
		}
		for _, block := range ev.Message.Content {
			switch block.Type {
			case build.BlockText:
				console.Printf("%s", block.Text)
			case build.BlockToolUse:
				console.Println()
				console.Accentf("-> %s", block.Name)
			}
		}
	}
}

// --- chat subcommand ---

var buildChatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive build session",
	Long: `Chat reads prompts line by line and runs each through the build agent.
Type exit or quit to leave.`,
	RunE: runBuildChat,
}

func runBuildChat(cmd *cobra.Command, args []string) error {
	runner, err := newRunner(viperBuildConfig())
	if err != nil {
		return err
	}

	console.Panel("anvil build chat", "Each line runs a build turn through the Claude Code CLI.\nType exit or quit to leave.")

	reader := bufio.NewReader(os.Stdin)
	for {
		console.Printf("build> ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			break
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		ctx, stop := commandContext()
		if err := runBuild(ctx, runner, input); err != nil {
			console.Errorf("Build failed: %v", err)
		}
		stop()
		console.Println()
	}

	console.Dimf("Leaving build chat")
	return nil
}

// --- config subcommand ---

var buildConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or set the Anthropic API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configureKey(cmd, keys.AnthropicAPIKey)
	},
}

func init() {
	buildCreateCmd.Flags().String("tools", "", "comma-separated tool allowlist (default Read,Write,Bash,Edit)")
	buildCreateCmd.Flags().Int("max-turns", 0, "maximum agent turns (0 = default)")
	buildCreateCmd.Flags().String("dir", "", "working directory for the agent")
	buildCreateCmd.Flags().Bool("auto-approve", false, "accept file edits without prompting")
	buildCreateCmd.Flags().String("model", "", "model override passed to the CLI")

	addKeyConfigFlags(buildConfigCmd)

	buildCmd.AddCommand(buildCreateCmd)
	buildCmd.AddCommand(buildChatCmd)
	buildCmd.AddCommand(buildConfigCmd)

	rootCmd.AddCommand(buildCmd)
}
