package cli

import (
	"fmt"

	"periscope-sol/internal/config"

	"github.com/spf13/cobra"
)

func (a *app) newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the saved configuration",
	}
	cmd.AddCommand(a.newConfigShowCommand())
	cmd.AddCommand(a.newConfigSetCommand())
	return cmd
}

func (a *app) newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			state := "not found, using defaults"
			if config.CLIConfigExists(a.env.ConfigPath) {
				state = "loaded"
			}
			fmt.Fprintf(out, "config file: %s (%s)\n", a.env.ConfigPath, state)
			fmt.Fprintf(out, "rpc_url: %s\n", a.cfg.RpcURL)
			return nil
		},
	}
}

func (a *app) newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set",
		Short: "Save settings to the config file (e.g. config set --url <rpc>)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("url") {
				return fmt.Errorf("nothing to set, pass --url")
			}
			cfg := &config.CLIConfig{RpcURL: a.flags.url}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.Save(a.env.ConfigPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved rpc_url=%s to %s\n", cfg.RpcURL, a.env.ConfigPath)
			return nil
		},
	}
}
