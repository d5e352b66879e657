// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/anvil/internal/plugin"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List installed anvil plugins",
	Long: `Plugins lists external subcommands: executables named anvil-<name> found
in ~/.anvil/plugins or on PATH. Discovered plugins run as regular anvil
subcommands.`,
	RunE: runPlugins,
}

func runPlugins(cmd *cobra.Command, args []string) error {
	found, err := discoverPlugins()
	if err != nil {
		return err
	}
	if len(found) == 0 {
		console.Println("No plugins installed.")
		dir, err := plugin.DefaultDir()
		if err == nil {
			console.Dimf("Install one by placing an executable named anvil-<name> in %s", dir)
		}
		return nil
	}

	console.Boldf("Installed plugins:")
	for _, p := range found {
		desc := p.Description
		if desc == "" {
			desc = "(no description)"
		}
		console.Printf("  %-15s %s\n", p.Name, desc)
		console.Dimf("    %s", p.Path)
	}
	return nil
}

func discoverPlugins() ([]plugin.Plugin, error) {
	dir, err := plugin.DefaultDir()
	if err != nil {
		dir = ""
	}
	return plugin.Discover(dir, os.Getenv("PATH"))
}

// pluginCommand wraps a discovered plugin as a pass-through subcommand.
// Flag parsing is disabled so everything after the name reaches the
// plugin untouched.
func pluginCommand(p plugin.Plugin) *cobra.Command {
	short := p.Description
	if short == "" {
		short = "External plugin (" + p.Path + ")"
	}
	return &cobra.Command{
		Use:                p.Name,
		Short:              short,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := commandContext()
			defer stop()
			return p.Run(ctx, args, os.Stdin, os.Stdout, os.Stderr)
		},
	}
}

// registerPlugins adds discovered plugins as subcommands. Built-in command
// names win; discovery failures are ignored at startup (the plugins
// command reports them).
func registerPlugins() {
	found, err := discoverPlugins()
	if err != nil {
		return
	}
	builtin := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		builtin[c.Name()] = true
	}
	for _, p := range found {
		if builtin[p.Name] {
			continue
		}
		rootCmd.AddCommand(pluginCommand(p))
	}
}

func init() {
	rootCmd.AddCommand(pluginsCmd)
}
