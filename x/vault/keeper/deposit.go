package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/hedge-vault/metrics"
	"github.com/openalpha/hedge-vault/x/vault/types"
)

// Deposit moves amount from the investor into vault custody and mints shares
// priced against the pre-deposit totals.
func (k *Keeper) Deposit(ctx context.Context, vaultID, investor string, amount uint64) (result *types.DepositResult, err error) {
	timer := metrics.NewTimer()
	defer func() { k.metrics.RecordOperation(types.TypeMsgDeposit, err, timer.ElapsedMs()) }()

	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if investor == "" {
		return nil, errors.Wrap(types.ErrUnauthorized, "investor required")
	}
	if amount == 0 {
		return nil, errors.Wrap(types.ErrInvalidAmount, "deposit amount must be positive")
	}

	vault, err := k.mustGetVault(sdkCtx, vaultID)
	if err != nil {
		return nil, err
	}
	if investor == vault.CustodyAccount {
		return nil, errors.Wrapf(types.ErrUnauthorized, "custody account %s cannot hold a position", investor)
	}
	now := k.now(sdkCtx)
	if err := vault.AdmitDeposit(now); err != nil {
		return nil, err
	}

	shares, err := types.PriceForDeposit(amount, vault.TotalShares, vault.TotalAssets)
	if err != nil {
		k.logInconsistency(vault, err)
		return nil, err
	}
	if shares == 0 {
		return nil, errors.Wrapf(types.ErrAmountBelowSharePrice, "deposit of %d at %s", amount, vault.SharePrice())
	}

	totalAssets, err := types.SafeAdd(vault.TotalAssets, amount)
	if err != nil {
		return nil, err
	}
	totalShares, err := types.SafeAdd(vault.TotalShares, shares)
	if err != nil {
		return nil, err
	}
	position := k.GetPosition(sdkCtx, vaultID, investor)
	if position == nil {
		position = &types.InvestorPosition{
			VaultID:     vaultID,
			Investor:    investor,
			DepositedAt: now,
		}
	}
	positionShares, err := types.SafeAdd(position.Shares, shares)
	if err != nil {
		return nil, err
	}

	cacheCtx, write := sdkCtx.CacheContext()
	if err := k.transfer.Move(cacheCtx, investor, vault.CustodyAccount, amount); err != nil {
		return nil, errors.Wrapf(types.ErrTransferFailed, "%s -> %s: %s", investor, vault.CustodyAccount, err)
	}

	vault.TotalAssets = totalAssets
	vault.TotalShares = totalShares
	position.Shares = positionShares
	k.SetVault(cacheCtx, vault)
	k.SetPosition(cacheCtx, position)

	cacheCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeDeposit,
			sdk.NewAttribute(types.AttributeKeyVaultID, vaultID),
			sdk.NewAttribute(types.AttributeKeyInvestor, investor),
			sdk.NewAttribute(types.AttributeKeyAmount, strconv.FormatUint(amount, 10)),
			sdk.NewAttribute(types.AttributeKeyShares, strconv.FormatUint(shares, 10)),
			sdk.NewAttribute(types.AttributeKeyTotalShares, strconv.FormatUint(totalShares, 10)),
			sdk.NewAttribute(types.AttributeKeyTotalAssets, strconv.FormatUint(totalAssets, 10)),
		),
	)
	write()

	k.logger.Info("Deposit processed",
		"vault_id", vaultID,
		"investor", investor,
		"amount", amount,
		"shares", shares,
	)

	k.metrics.RecordDeposit(vaultID, amount, shares)
	k.recordVaultState(vault)

	return &types.DepositResult{
		VaultID:      vaultID,
		Investor:     investor,
		Amount:       amount,
		SharesMinted: shares,
		TotalShares:  totalShares,
		TotalAssets:  totalAssets,
	}, nil
}

// logInconsistency reports detected corruption. The vault needs manual intervention.
func (k *Keeper) logInconsistency(vault *types.Vault, err error) {
	if errors.IsOf(err, types.ErrPoolInconsistent) {
		k.logger.Error("Vault state inconsistent",
			"vault_id", vault.ID,
			"total_shares", vault.TotalShares,
			"total_assets", vault.TotalAssets,
			"error", err,
		)
	}
}
