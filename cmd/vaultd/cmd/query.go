package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openalpha/hedge-vault/app"
	"github.com/openalpha/hedge-vault/x/vault/client/cli"
)

// FlagAt sets the clock reading for time-dependent queries
const FlagAt = "at"

// QueryCmd returns the query commands, reading the ledger under --home
func QueryCmd(v *viper.Viper) *cobra.Command {
	cmd := cli.GetQueryCmd(func(cmd *cobra.Command) (context.Context, cli.Querier, func(), error) {
		now := time.Now()
		if at, _ := cmd.Flags().GetString(FlagAt); at != "" {
			parsed, err := time.Parse(time.RFC3339, at)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("invalid --%s: %w", FlagAt, err)
			}
			now = parsed
		}

		cfg, logger, err := loadConfig(v)
		if err != nil {
			return nil, nil, nil, err
		}
		vaultApp, err := app.NewVaultApp(cfg, logger, nil)
		if err != nil {
			return nil, nil, nil, err
		}
		return vaultApp.QueryContext(now), vaultApp.Queries(), func() { _ = vaultApp.Close() }, nil
	})

	cmd.Use = "query"
	cmd.Aliases = []string{"q"}
	cmd.Short = "Querying subcommands"
	cmd.PersistentFlags().String(FlagAt, "", "clock reading for phase queries (RFC3339, default now)")
	return cmd
}
