package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "imagify",
	Short: "Imagify API server",
	Long: `Imagify turns text prompts into images and bills one credit per image.
Credits are bought through Razorpay checkout.

Configuration comes from CONFIG_FILE (TOML) and environment variables.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
