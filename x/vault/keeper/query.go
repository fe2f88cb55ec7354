package keeper

import (
	"context"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/hedge-vault/x/vault/types"
)

// QueryServer defines the vault QueryServer
type QueryServer struct {
	keeper *Keeper
}

// NewQueryServerImpl creates a new QueryServer instance
func NewQueryServerImpl(keeper *Keeper) *QueryServer {
	return &QueryServer{keeper: keeper}
}

// Vault returns a vault by ID
func (q *QueryServer) Vault(ctx context.Context, vaultID string) (*types.Vault, error) {
	return q.keeper.mustGetVault(sdk.UnwrapSDKContext(ctx), vaultID)
}

// VaultByOperator returns the vault owned by operator
func (q *QueryServer) VaultByOperator(ctx context.Context, operator string) (*types.Vault, error) {
	vault := q.keeper.GetVaultByOperator(sdk.UnwrapSDKContext(ctx), operator)
	if vault == nil {
		return nil, errors.Wrapf(types.ErrVaultNotFound, "operator %s", operator)
	}
	return vault, nil
}

// Vaults returns a page of vaults and the total count
func (q *QueryServer) Vaults(ctx context.Context, offset, limit uint64) ([]*types.Vault, uint64, error) {
	all := q.keeper.GetAllVaults(sdk.UnwrapSDKContext(ctx))
	page, total := paginate(all, offset, limit)
	return page, total, nil
}

// Position returns an investor's position in a vault
func (q *QueryServer) Position(ctx context.Context, vaultID, investor string) (*types.InvestorPosition, error) {
	position := q.keeper.GetPosition(sdk.UnwrapSDKContext(ctx), vaultID, investor)
	if position == nil {
		return nil, errors.Wrapf(types.ErrPositionNotFound, "%s in %s", investor, vaultID)
	}
	return position, nil
}

// VaultPositions returns a page of a vault's positions
func (q *QueryServer) VaultPositions(ctx context.Context, vaultID string, offset, limit uint64) ([]*types.InvestorPosition, uint64, error) {
	all := q.keeper.GetVaultPositions(sdk.UnwrapSDKContext(ctx), vaultID)
	page, total := paginate(all, offset, limit)
	return page, total, nil
}

// InvestorPositions returns every position held by investor
func (q *QueryServer) InvestorPositions(ctx context.Context, investor string) ([]*types.InvestorPosition, error) {
	return q.keeper.GetInvestorPositions(sdk.UnwrapSDKContext(ctx), investor), nil
}

// PositionValue prices a position at the recorded totals, rounding down
func (q *QueryServer) PositionValue(ctx context.Context, vaultID, investor string) (*types.PositionValue, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	vault, err := q.keeper.mustGetVault(sdkCtx, vaultID)
	if err != nil {
		return nil, err
	}
	position, err := q.Position(ctx, vaultID, investor)
	if err != nil {
		return nil, err
	}
	assets, err := types.AssetsForShares(position.Shares, vault.TotalShares, vault.TotalAssets)
	if err != nil {
		return nil, err
	}
	return &types.PositionValue{
		VaultID:  vaultID,
		Investor: investor,
		Shares:   position.Shares,
		Assets:   assets,
	}, nil
}

// SharePrice returns assets per share
func (q *QueryServer) SharePrice(ctx context.Context, vaultID string) (math.LegacyDec, error) {
	vault, err := q.keeper.mustGetVault(sdk.UnwrapSDKContext(ctx), vaultID)
	if err != nil {
		return math.LegacyDec{}, err
	}
	return vault.SharePrice(), nil
}

// EpochStatus reports the vault's phase at the current clock reading
func (q *QueryServer) EpochStatus(ctx context.Context, vaultID string) (*types.EpochStatus, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	vault, err := q.keeper.mustGetVault(sdkCtx, vaultID)
	if err != nil {
		return nil, err
	}
	now := q.keeper.now(sdkCtx)
	return &types.EpochStatus{
		VaultID:         vaultID,
		Epoch:           vault.CurrentEpoch,
		Phase:           types.PhaseAt(vault.LastEpochUpdate, now).String(),
		Now:             now,
		LastEpochUpdate: vault.LastEpochUpdate,
		ElapsedSeconds:  types.Elapsed(vault.LastEpochUpdate, now),
		NextTransition:  types.NextTransition(vault.LastEpochUpdate, now),
	}, nil
}

// PreviewDeposit returns the shares a deposit of amount would mint now.
// It does not check the deposit window; Phase reports it.
func (q *QueryServer) PreviewDeposit(ctx context.Context, vaultID string, amount uint64) (*types.Preview, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	vault, err := q.keeper.mustGetVault(sdkCtx, vaultID)
	if err != nil {
		return nil, err
	}
	shares, err := types.PriceForDeposit(amount, vault.TotalShares, vault.TotalAssets)
	if err != nil {
		return nil, err
	}
	return &types.Preview{
		VaultID: vaultID,
		Amount:  amount,
		Shares:  shares,
		Phase:   types.PhaseAt(vault.LastEpochUpdate, q.keeper.now(sdkCtx)).String(),
	}, nil
}

// PreviewWithdraw returns the shares a withdrawal of amount would burn now
func (q *QueryServer) PreviewWithdraw(ctx context.Context, vaultID string, amount uint64) (*types.Preview, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	vault, err := q.keeper.mustGetVault(sdkCtx, vaultID)
	if err != nil {
		return nil, err
	}
	shares, err := types.SharesToBurn(amount, vault.TotalShares, vault.TotalAssets)
	if err != nil {
		return nil, err
	}
	return &types.Preview{
		VaultID: vaultID,
		Amount:  amount,
		Shares:  shares,
		Phase:   types.PhaseAt(vault.LastEpochUpdate, q.keeper.now(sdkCtx)).String(),
	}, nil
}

// EpochHistory returns the closed epochs of a vault, oldest first
func (q *QueryServer) EpochHistory(ctx context.Context, vaultID string) ([]*types.EpochRecord, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if _, err := q.keeper.mustGetVault(sdkCtx, vaultID); err != nil {
		return nil, err
	}
	return q.keeper.GetEpochRecords(sdkCtx, vaultID), nil
}

// SwapHistory returns the recorded swaps of a vault, oldest first
func (q *QueryServer) SwapHistory(ctx context.Context, vaultID string) ([]*types.SwapRecord, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if _, err := q.keeper.mustGetVault(sdkCtx, vaultID); err != nil {
		return nil, err
	}
	return q.keeper.GetSwapRecords(sdkCtx, vaultID), nil
}

func paginate[T any](all []T, offset, limit uint64) ([]T, uint64) {
	total := uint64(len(all))
	if offset >= total {
		return []T{}, total
	}
	end := total
	if limit != 0 && limit < total-offset {
		end = offset + limit
	}
	return all[offset:end], total
}
