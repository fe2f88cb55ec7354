package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openalpha/hedge-vault/app"
)

// ConfigCmd returns the config subcommands
func ConfigCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the vaultd configuration",
		RunE:  client.ValidateCmd,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Write the default config file under --home",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				path, err := app.WriteDefaultConfig(v.GetString("home"))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the resolved configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := app.LoadConfig(v)
				if err != nil {
					return err
				}
				output, _ := json.MarshalIndent(cfg, "", "  ")
				fmt.Fprintln(cmd.OutOrStdout(), string(output))
				return nil
			},
		},
	)

	return cmd
}
