package main

import (
	"fmt"

	"github.com/mikey/bayes-spam-filter/internal/config"
	"github.com/mikey/bayes-spam-filter/internal/di"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(flags *di.CLIFlags) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return invokeCLI(flags, func(cfg *config.Config) error {
				data, err := yaml.Marshal(cfg.AllSettings())
				if err != nil {
					return fmt.Errorf("failed to encode configuration: %w", err)
				}
				if used := cfg.ConfigFileUsed(); used != "" {
					fmt.Fprintf(out, "# %s\n", used)
				}
				_, err = out.Write(data)
				return err
			})
		},
	})

	return configCmd
}
