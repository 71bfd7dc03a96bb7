package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "obscura",
	Short: "Hide encrypted messages and watermarks inside images",
	Long: `Obscura: hide text, files and ownership watermarks inside the
least-significant bits of an image, optionally sealed with AES-GCM under a
password-derived key.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func GetRootCmd() *cobra.Command {
	return rootCmd
}
