// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/anvil/internal/cache"
	"github.com/pdiddy/anvil/internal/codeblock"
	"github.com/pdiddy/anvil/internal/keys"
	"github.com/pdiddy/anvil/internal/sketch"
)

var sketchCmd = &cobra.Command{
	Use:   "sketch",
	Short: "Generate UI code from a prompt via the v0 API",
	Long: `Sketch sends a text prompt to the v0 API, streams the response to the
terminal, and extracts fenced code blocks into files in the current
directory. Requires V0_API_KEY (environment, ./.env, or ~/.anvil/.env).`,
}

// --- create subcommand ---

var sketchCreateCmd = &cobra.Command{
	Use:   "create [prompt]",
	Short: "Generate code from a prompt and write the extracted files",
	Long: `Create streams a v0 generation for the prompt and writes every code block
the response declares a filename for. Responses are cached by prompt;
repeating a prompt replays the cached response without calling the API.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSketchCreate,
}

func runSketchCreate(cmd *cobra.Command, args []string) error {
	prompt := strings.Join(args, " ")
	noFiles, _ := cmd.Flags().GetBool("no-files")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	outDir, _ := cmd.Flags().GetString("dir")

	ctx, stop := commandContext()
	defer stop()

	var store *cache.Store
	if !noCache {
		store = openCache()
	}
	if store != nil {
		defer store.Close()
	}

	response := ""
	if store != nil {
		cached, ok, err := store.Get(ctx, prompt)
		if err != nil {
			logger.Warn().Err(err).Msg("cache read failed")
		}
		if ok {
			console.Dimf("Using cached response (pass --no-cache to regenerate)")
			console.Println(console.Markdown(cached))
			response = cached
		}
	}

	if response == "" {
		generated, err := generateSketch(ctx, prompt, "Generating with v0...")
		if err != nil {
			return err
		}
		response = generated

		if store != nil {
			if err := store.Set(ctx, prompt, response); err != nil {
				logger.Warn().Err(err).Msg("cache write failed")
			}
		}
	}

	files := codeblock.Extract(response)
	if files.Len() == 0 {
		console.Warnf("No files found in the response")
		return nil
	}

	if noFiles {
		console.Boldf("Files in response (not written, --no-files):")
		for _, name := range files.Names() {
			console.Println("  " + name)
		}
		return nil
	}

	failed := 0
	for _, outcome := range codeblock.WriteAll(files, outDir) {
		if outcome.Err != nil {
			console.Errorf("Failed: %v", outcome.Err)
			failed++
			continue
		}
		console.Successf("Created %s", outcome.Path)
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed to write", failed)
	}
	return nil
}

// --- doctor subcommand ---

var sketchDoctorCmd = &cobra.Command{
	Use:   "doctor [path]",
	Short: "Analyze a codebase and stream improvement suggestions",
	Long: `Doctor reads the codebase under path (default "."), bundles it into a
single analysis prompt, and streams v0's review. Large files and common
build/dependency directories are skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSketchDoctor,
}

func runSketchDoctor(cmd *cobra.Command, args []string) error {
	baseDir := "."
	if len(args) > 0 {
		baseDir = args[0]
	}

	cfg := viperSketchConfig()
	codebase, err := sketch.ReadCodebase(baseDir, cfg.MaxFileSize)
	if err != nil {
		return err
	}
	if len(codebase) == 0 {
		console.Warnf("No analyzable files found under %s", baseDir)
		return nil
	}

	console.Dimf("Analyzing %d files...", len(codebase))
	if total := sketch.TotalChars(codebase); total > sketch.LargeCodebaseChars {
		console.Warnf("Large codebase (%d chars); the analysis may be truncated", total)
	}

	ctx, stop := commandContext()
	defer stop()

	_, err = generateSketch(ctx, sketch.FormatForAnalysis(codebase), "Codebase analysis")
	return err
}

// generateSketch resolves the API key, streams a generation under a titled
// region, and returns the full response.
func generateSketch(ctx context.Context, prompt, title string) (string, error) {
	resolver, err := keys.NewResolver()
	if err != nil {
		return "", err
	}
	cfg := viperSketchConfig()
	cfg.APIKey = resolver.Lookup(keys.V0APIKey)
	if cfg.APIKey == "" {
		console.Errorf("%s is not set", keys.V0APIKey)
		console.Dimf("Set it with: anvil sketch config --set-key <key>")
		console.Dimf("Or export %s / add it to ./.env or ~/.anvil/.env", keys.V0APIKey)
		return "", fmt.Errorf("missing %s", keys.V0APIKey)
	}

	client := sketch.NewClient(cfg)
	stream := console.StartStream(title)
	response, err := client.Generate(ctx, prompt, stream)
	stream.Done()
	if err != nil {
		return "", err
	}
	return response, nil
}

// --- config subcommand ---

var sketchConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or set the v0 API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configureKey(cmd, keys.V0APIKey)
	},
}

func init() {
	sketchCreateCmd.Flags().Bool("no-files", false, "show extracted filenames without writing them")
	sketchCreateCmd.Flags().Bool("no-cache", false, "bypass the response cache")
	sketchCreateCmd.Flags().String("dir", ".", "base directory for extracted files")

	addKeyConfigFlags(sketchConfigCmd)

	sketchCmd.AddCommand(sketchCreateCmd)
	sketchCmd.AddCommand(sketchDoctorCmd)
	sketchCmd.AddCommand(sketchConfigCmd)

	rootCmd.AddCommand(sketchCmd)
}
