package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"parley-hq/parley/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Validate a configuration file without starting the server.

Examples:
  # Validate the default config
  parley validate --config config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile == "" {
			return fmt.Errorf("no config file specified, use --config")
		}

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Configuration valid: %s\n", cfgFile)
		fmt.Printf("  listen address: %s\n", cfg.Server.ListenAddress)
		fmt.Printf("  provider:       %s (%s)\n", cfg.Provider.Name, cfg.Provider.Model)
		fmt.Printf("  max context:    %d messages\n", cfg.Chat.MaxContextMessages)
		if cfg.Limits.Enabled {
			fmt.Printf("  rate limit:     %d calls per %s\n", cfg.Limits.MaxCalls, cfg.Limits.Period)
		} else {
			fmt.Println("  rate limit:     disabled")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
