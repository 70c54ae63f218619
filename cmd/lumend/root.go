package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:           "lumend",
	Short:         "lumend coordinates surface state for a compositor session",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default ~/.config/lumen/config.yaml)")
	rootCmd.AddCommand(runCmd, checkConfigCmd, versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the lumend version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("lumend %s\n", Version)
	},
}
