package cmd

import (
	"fmt"
	"os"

	"cosmossdk.io/log"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openalpha/hedge-vault/app"
)

// Version is set at build time
var Version = "v0.1.0"

// NewRootCmd creates a new root command for vaultd
func NewRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   app.Name,
		Short: "Hedge vault ledger",
		Long: `vaultd runs the pooled-investment vault ledger: operators open vaults,
investors buy shares inside the weekly deposit window, and each epoch advance
marks the pool to its observed value and accrues the performance fee.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Set the default command outputs
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			for _, key := range []string{flags.FlagHome, flags.FlagLogLevel, flags.FlagLogFormat} {
				if err := v.BindPFlag(key, cmd.Flags().Lookup(key)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String(flags.FlagHome, app.DefaultNodeHome, "directory for config and data")
	rootCmd.PersistentFlags().String(flags.FlagLogLevel, zerolog.InfoLevel.String(), "the logging level (trace|debug|info|warn|error|fatal|panic|disabled)")
	rootCmd.PersistentFlags().String(flags.FlagLogFormat, "plain", "the logging format (json|plain)")

	rootCmd.AddCommand(
		SimulateCmd(v),
		QueryCmd(v),
		ConfigCmd(v),
		VersionCmd(),
	)

	return rootCmd
}

// loadConfig resolves the config and builds the logger
func loadConfig(v *viper.Viper) (app.Config, log.Logger, error) {
	cfg, err := app.LoadConfig(v)
	if err != nil {
		return app.Config{}, nil, err
	}
	logger, err := app.NewLogger(cfg, os.Stderr)
	if err != nil {
		return app.Config{}, nil, err
	}
	return cfg, logger, nil
}

// VersionCmd returns a command to print the version
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", app.Name, Version)
		},
	}
}
