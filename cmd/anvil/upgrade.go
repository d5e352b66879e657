// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/anvil/internal/release"
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade anvil to the latest release",
	Long: `Upgrade looks up the newest release on GitHub and installs it with
go install. Use --check to only report the latest version.`,
	RunE: runUpgrade,
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	checkOnly, _ := cmd.Flags().GetBool("check")

	ctx, stop := commandContext()
	defer stop()

	latest, err := release.Latest(ctx, http.DefaultClient, "")
	if err != nil {
		return err
	}

	console.Printf("Current version: %s\n", version)
	console.Printf("Latest release:  %s\n", latest)

	if latest == version {
		console.Successf("anvil is up to date")
		return nil
	}
	if checkOnly {
		console.Dimf("Run anvil upgrade to install %s", latest)
		return nil
	}

	console.Dimf("Installing %s...", latest)
	if err := release.Install(ctx, os.Stdout); err != nil {
		return err
	}
	console.Successf("Upgraded to %s", latest)
	return nil
}

func init() {
	upgradeCmd.Flags().Bool("check", false, "report the latest release without installing")

	rootCmd.AddCommand(upgradeCmd)
}
