package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/spf13/cobra"

	"github.com/openalpha/hedge-vault/x/vault/types"
)

// Querier is the read side of the vault ledger
type Querier interface {
	Vault(ctx context.Context, vaultID string) (*types.Vault, error)
	VaultByOperator(ctx context.Context, operator string) (*types.Vault, error)
	Vaults(ctx context.Context, offset, limit uint64) ([]*types.Vault, uint64, error)
	PositionValue(ctx context.Context, vaultID, investor string) (*types.PositionValue, error)
	InvestorPositions(ctx context.Context, investor string) ([]*types.InvestorPosition, error)
	SharePrice(ctx context.Context, vaultID string) (math.LegacyDec, error)
	EpochStatus(ctx context.Context, vaultID string) (*types.EpochStatus, error)
	EpochHistory(ctx context.Context, vaultID string) ([]*types.EpochRecord, error)
	SwapHistory(ctx context.Context, vaultID string) ([]*types.SwapRecord, error)
}

// QueryOpener opens the ledger for one command. The returned func releases it.
type QueryOpener func(cmd *cobra.Command) (context.Context, Querier, func(), error)

// VaultsPage is the output of the vaults query
type VaultsPage struct {
	Vaults []*types.Vault `json:"vaults"`
	Total  uint64         `json:"total"`
}

// GetQueryCmd returns the cli query commands for the vault module
func GetQueryCmd(open QueryOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the vault module",
		DisableFlagParsing:         false,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdQueryVault(open),
		CmdQueryVaults(open),
		CmdQueryPosition(open),
		CmdQueryPositions(open),
		CmdQuerySharePrice(open),
		CmdQueryEpochStatus(open),
		CmdQueryEpochs(open),
		CmdQuerySwaps(open),
	)

	return cmd
}

// runQuery opens the ledger, runs fn and prints its result as JSON
func runQuery(cmd *cobra.Command, open QueryOpener, fn func(ctx context.Context, q Querier) (interface{}, error)) error {
	ctx, q, closeFn, err := open(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := fn(ctx, q)
	if err != nil {
		return err
	}
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(output))
	return nil
}

// CmdQueryVault returns the command to query a vault by id or operator
func CmdQueryVault(open QueryOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vault [vault-id]",
		Short: "Query a vault by id, or by operator with --operator",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			operator, _ := cmd.Flags().GetString(FlagOperator)
			if (len(args) == 1) == (operator != "") {
				return fmt.Errorf("provide exactly one of [vault-id] or --%s", FlagOperator)
			}
			return runQuery(cmd, open, func(ctx context.Context, q Querier) (interface{}, error) {
				if operator != "" {
					return q.VaultByOperator(ctx, operator)
				}
				return q.Vault(ctx, args[0])
			})
		},
	}

	cmd.Flags().String(FlagOperator, "", "operator identity to look the vault up by")
	return cmd
}

// CmdQueryVaults returns the command to list vaults
func CmdQueryVaults(open QueryOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vaults",
		Short: "Query all vaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			offset, _ := cmd.Flags().GetUint64(flags.FlagOffset)
			limit, _ := cmd.Flags().GetUint64(flags.FlagLimit)
			return runQuery(cmd, open, func(ctx context.Context, q Querier) (interface{}, error) {
				vaults, total, err := q.Vaults(ctx, offset, limit)
				if err != nil {
					return nil, err
				}
				return VaultsPage{Vaults: vaults, Total: total}, nil
			})
		},
	}

	cmd.Flags().Uint64(flags.FlagOffset, 0, "pagination offset")
	cmd.Flags().Uint64(flags.FlagLimit, 100, "pagination limit, 0 for all")
	return cmd
}

// CmdQueryPosition returns the command to query an investor position and its value
func CmdQueryPosition(open QueryOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "position [vault-id] [investor]",
		Short: "Query an investor position priced at the recorded totals",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, open, func(ctx context.Context, q Querier) (interface{}, error) {
				return q.PositionValue(ctx, args[0], args[1])
			})
		},
	}
}

// CmdQueryPositions returns the command to query all positions of an investor
func CmdQueryPositions(open QueryOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "positions [investor]",
		Short: "Query all positions held by an investor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, open, func(ctx context.Context, q Querier) (interface{}, error) {
				return q.InvestorPositions(ctx, args[0])
			})
		},
	}
}

// CmdQuerySharePrice returns the command to query the share price of a vault
func CmdQuerySharePrice(open QueryOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "share-price [vault-id]",
		Short: "Query assets per share",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, open, func(ctx context.Context, q Querier) (interface{}, error) {
				price, err := q.SharePrice(ctx, args[0])
				if err != nil {
					return nil, err
				}
				return map[string]string{"vault_id": args[0], "share_price": price.String()}, nil
			})
		},
	}
}

// CmdQueryEpochStatus returns the command to query the epoch phase of a vault
func CmdQueryEpochStatus(open QueryOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "epoch-status [vault-id]",
		Short: "Query the current epoch and admission phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, open, func(ctx context.Context, q Querier) (interface{}, error) {
				return q.EpochStatus(ctx, args[0])
			})
		},
	}
}

// CmdQueryEpochs returns the command to query closed epochs
func CmdQueryEpochs(open QueryOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "epochs [vault-id]",
		Short: "Query the closed epochs of a vault",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, open, func(ctx context.Context, q Querier) (interface{}, error) {
				return q.EpochHistory(ctx, args[0])
			})
		},
	}
}

// CmdQuerySwaps returns the command to query recorded swaps
func CmdQuerySwaps(open QueryOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "swaps [vault-id]",
		Short: "Query the swaps recorded by a vault",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, open, func(ctx context.Context, q Querier) (interface{}, error) {
				return q.SwapHistory(ctx, args[0])
			})
		},
	}
}
