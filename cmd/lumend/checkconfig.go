package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumenwm/lumen/internal/config"
)

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Validate the configuration file and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			var err error
			if path, err = config.DefaultConfigPath(); err != nil {
				return err
			}
		}
		if _, err := config.LoadFromPath(path); err != nil {
			return err
		}
		fmt.Printf("%s: ok\n", path)
		return nil
	},
}
