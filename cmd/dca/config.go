package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configOut string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after applying defaults, the config file,
.env files and DCA_ environment variables, as YAML.

Examples:
  # Show the configuration
  dca config

  # Write it as a starting point for a batch file
  dca config --out dca.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configOut != "" {
			if err := cfg.Save(configOut); err != nil {
				return err
			}
			logger.WithField("file", configOut).Info("saved configuration")
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), cfg.String())
		return nil
	},
}

func init() {
	configCmd.Flags().StringVarP(&configOut, "out", "o", "", "write the configuration to this file")
}
