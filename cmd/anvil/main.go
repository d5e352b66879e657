// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the anvil CLI.
//
// anvil wraps two generation backends behind one command surface: the v0
// API for UI sketches and the Claude Code CLI for agentic builds. Local
// helpers (palette extraction, the response cache, plugins) round out the
// tool. Running anvil with no subcommand starts the interactive shell.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/anvil/internal/cache"
	"github.com/pdiddy/anvil/internal/keys"
	"github.com/pdiddy/anvil/internal/logging"
	"github.com/pdiddy/anvil/internal/repl"
	"github.com/pdiddy/anvil/internal/sketch"
	"github.com/pdiddy/anvil/internal/ui"
	"github.com/pdiddy/anvil/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// console and logger are built in PersistentPreRunE once the global flags
// are parsed. Every command writes through these.
var (
	console *ui.Console
	logger  zerolog.Logger
)

// rootCmd is the base command for the anvil CLI.
var rootCmd = &cobra.Command{
	Use:   "anvil",
	Short: "Forge projects from prompts: sketch with v0, build with Claude Code",
	Long: `anvil is a creative development tool. Sketch generates UI code from a text
prompt through the v0 API and extracts the fenced code blocks into files.
Build hands a prompt to the Claude Code CLI for agentic, multi-turn project
work. Palette pulls dominant colors out of an image.

Run anvil with no arguments to start the interactive shell.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		noColor, _ := cmd.Flags().GetBool("no-color")
		verbose, _ := cmd.Flags().GetBool("verbose")
		console = ui.NewConsole(os.Stdout, os.Stderr, !noColor)
		logger = logging.New(os.Stderr, verbose)
		return nil
	},
}

func init() {
	// Assigned here rather than in the composite literal to avoid an
	// initialization cycle: replDispatch refers back to rootCmd.
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		shell := repl.New(console, os.Stdin, replDispatch, version)
		return shell.Run()
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./anvil.yaml or ~/.config/anvil/anvil.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable styled output")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("anvil")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "anvil"))
		}
	}

	viper.SetEnvPrefix("ANVIL")
	viper.AutomaticEnv()

	viper.SetDefault("sketch.base_url", sketch.DefaultBaseURL)
	viper.SetDefault("sketch.model", sketch.DefaultModel)
	viper.SetDefault("sketch.timeout", 5*time.Minute)
	viper.SetDefault("sketch.max_file_size", sketch.DefaultMaxFileSize)

	// The build runner applies its own defaults to zero-value fields.
	viper.SetDefault("build.binary", "")
	viper.SetDefault("build.max_turns", 0)

	viper.SetDefault("cache.dir", "")
	viper.SetDefault("cache.disabled", false)

	// Zero values fall back to the palette package defaults.
	viper.SetDefault("palette.colors", 0)
	viper.SetDefault("palette.thumbnail_size", 0)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// replDispatch runs one shell line as if it were a fresh anvil invocation.
// Flag state is reset first so values from a previous line do not leak.
func replDispatch(args []string) error {
	if len(args) == 0 {
		return nil
	}
	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func resetFlags(cmd *cobra.Command) {
	cmd.Flags().Visit(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// commandContext returns a context cancelled on Ctrl-C. Interrupt is the
// only way to stop a running generation.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func viperSketchConfig() types.SketchConfig {
	return types.SketchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("sketch.timeout"),
			UserAgent: "anvil/" + version,
		},
		BaseURL:     viper.GetString("sketch.base_url"),
		Model:       viper.GetString("sketch.model"),
		MaxFileSize: viper.GetInt64("sketch.max_file_size"),
	}
}

func viperBuildConfig() types.BuildConfig {
	return types.BuildConfig{
		Binary:       viper.GetString("build.binary"),
		Model:        viper.GetString("build.model"),
		MaxTurns:     viper.GetInt("build.max_turns"),
		AllowedTools: viper.GetStringSlice("build.allowed_tools"),
		AutoApprove:  viper.GetBool("build.auto_approve"),
		WorkDir:      viper.GetString("build.work_dir"),
	}
}

func viperCacheConfig() types.CacheConfig {
	return types.CacheConfig{
		Dir:      viper.GetString("cache.dir"),
		Disabled: viper.GetBool("cache.disabled"),
	}
}

func viperPaletteConfig() types.PaletteConfig {
	return types.PaletteConfig{
		Colors:        viper.GetInt("palette.colors"),
		ThumbnailSize: viper.GetInt("palette.thumbnail_size"),
	}
}

// openCache opens the configured cache store. Returns nil when caching is
// disabled or the store cannot be opened; a broken cache never blocks a
// generation.
func openCache() *cache.Store {
	cfg := viperCacheConfig()
	if cfg.Disabled {
		return nil
	}
	dir := cfg.Dir
	if dir == "" {
		d, err := cache.DefaultDir()
		if err != nil {
			logger.Warn().Err(err).Msg("cache unavailable")
			return nil
		}
		dir = d
	}
	store, err := cache.Open(dir)
	if err != nil {
		logger.Warn().Err(err).Msg("cache unavailable")
		return nil
	}
	return store
}

// configureKey implements the shared config subcommand behavior for a key
// name: --set-key writes it, --show reveals it, the default displays it
// masked with its source.
func configureKey(cmd *cobra.Command, keyName string) error {
	setKey, _ := cmd.Flags().GetString("set-key")
	show, _ := cmd.Flags().GetBool("show")
	global, _ := cmd.Flags().GetBool("global")

	resolver, err := keys.NewResolver()
	if err != nil {
		return err
	}

	if setKey != "" {
		path := resolver.LocalEnv
		if global {
			path = resolver.GlobalEnv
		}
		if err := keys.Save(path, keyName, setKey); err != nil {
			return err
		}
		console.Successf("Saved %s to %s", keyName, path)
		return nil
	}

	value, source := resolver.Find(keyName)
	if value == "" {
		console.Warnf("%s is not set", keyName)
		console.Dimf("Set it with: anvil %s config --set-key <key>", cmd.Parent().Name())
		return nil
	}

	display := keys.Mask(value)
	if show {
		display = value
	}
	console.Printf("%s = %s (from %s)\n", keyName, display, source)
	return nil
}

func addKeyConfigFlags(cmd *cobra.Command) {
	cmd.Flags().String("set-key", "", "save the API key to a .env file")
	cmd.Flags().Bool("show", false, "print the key unmasked")
	cmd.Flags().Bool("global", false, "use the global ~/.anvil/.env instead of ./.env")
}

func main() {
	registerPlugins()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
