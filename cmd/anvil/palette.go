// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/anvil/internal/palette"
)

var paletteCmd = &cobra.Command{
	Use:   "palette [image]",
	Short: "Extract a color palette from an image",
	Long: `Palette extracts the dominant colors of a png, jpeg, or gif image and
writes them as <stem>_palette.json next to the image.`,
	Args: cobra.ExactArgs(1),
	RunE: runPalette,
}

func runPalette(cmd *cobra.Command, args []string) error {
	imagePath := args[0]

	cfg := viperPaletteConfig()
	if colors, _ := cmd.Flags().GetInt("colors"); colors > 0 {
		cfg.Colors = colors
	}

	hex, err := palette.Extract(imagePath, cfg)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(hex); err != nil {
			return fmt.Errorf("encoding palette: %w", err)
		}
	} else {
		console.Boldf("Palette for %s:", imagePath)
		for _, color := range hex {
			console.Println("  " + color)
		}
	}

	out, err := palette.Save(imagePath, hex)
	if err != nil {
		return err
	}
	console.Successf("Saved %s", out)
	return nil
}

func init() {
	paletteCmd.Flags().Int("colors", 0, "palette size (0 = default 5)")
	paletteCmd.Flags().Bool("json", false, "print the palette as JSON")

	rootCmd.AddCommand(paletteCmd)
}
