package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/hedge-vault/metrics"
	"github.com/openalpha/hedge-vault/x/vault/types"
)

// Withdraw pays amount of the pooled asset out to the investor, burning the
// shares it is worth at the pre-withdrawal price.
func (k *Keeper) Withdraw(ctx context.Context, vaultID, investor string, amount uint64) (result *types.WithdrawResult, err error) {
	timer := metrics.NewTimer()
	defer func() { k.metrics.RecordOperation(types.TypeMsgWithdraw, err, timer.ElapsedMs()) }()

	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if investor == "" {
		return nil, errors.Wrap(types.ErrUnauthorized, "investor required")
	}
	if amount == 0 {
		return nil, errors.Wrap(types.ErrInvalidAmount, "withdrawal amount must be positive")
	}

	vault, err := k.mustGetVault(sdkCtx, vaultID)
	if err != nil {
		return nil, err
	}
	if investor == vault.CustodyAccount {
		return nil, errors.Wrapf(types.ErrUnauthorized, "custody account %s cannot hold a position", investor)
	}
	if err := vault.AdmitWithdraw(k.now(sdkCtx)); err != nil {
		return nil, err
	}
	if vault.TotalShares == 0 {
		return nil, errors.Wrapf(types.ErrInsufficientShares, "vault %s has no outstanding shares", vaultID)
	}

	burn, err := types.SharesToBurn(amount, vault.TotalShares, vault.TotalAssets)
	if err != nil {
		k.logInconsistency(vault, err)
		return nil, err
	}
	if burn == 0 {
		return nil, errors.Wrapf(types.ErrAmountBelowSharePrice, "withdrawal of %d at %s", amount, vault.SharePrice())
	}

	position := k.GetPosition(sdkCtx, vaultID, investor)
	if position == nil || position.Shares < burn {
		held := uint64(0)
		if position != nil {
			held = position.Shares
		}
		return nil, errors.Wrapf(types.ErrInsufficientShares, "need %d shares, hold %d", burn, held)
	}

	totalAssets, err := types.SafeSub(vault.TotalAssets, amount)
	if err != nil {
		return nil, err
	}
	totalShares, err := types.SafeSub(vault.TotalShares, burn)
	if err != nil {
		k.logInconsistency(vault, errors.Wrap(types.ErrPoolInconsistent, err.Error()))
		return nil, err
	}
	positionShares := position.Shares - burn

	cacheCtx, write := sdkCtx.CacheContext()
	if err := k.transfer.Move(cacheCtx, vault.CustodyAccount, investor, amount); err != nil {
		return nil, errors.Wrapf(types.ErrTransferFailed, "%s -> %s: %s", vault.CustodyAccount, investor, err)
	}

	vault.TotalAssets = totalAssets
	vault.TotalShares = totalShares
	position.Shares = positionShares
	k.SetVault(cacheCtx, vault)
	k.SetPosition(cacheCtx, position)

	cacheCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeWithdraw,
			sdk.NewAttribute(types.AttributeKeyVaultID, vaultID),
			sdk.NewAttribute(types.AttributeKeyInvestor, investor),
			sdk.NewAttribute(types.AttributeKeyAmount, strconv.FormatUint(amount, 10)),
			sdk.NewAttribute(types.AttributeKeyShares, strconv.FormatUint(burn, 10)),
			sdk.NewAttribute(types.AttributeKeyTotalShares, strconv.FormatUint(totalShares, 10)),
			sdk.NewAttribute(types.AttributeKeyTotalAssets, strconv.FormatUint(totalAssets, 10)),
		),
	)
	write()

	k.logger.Info("Withdrawal processed",
		"vault_id", vaultID,
		"investor", investor,
		"amount", amount,
		"shares_burned", burn,
	)

	k.metrics.RecordWithdrawal(vaultID, amount, burn)
	k.recordVaultState(vault)

	return &types.WithdrawResult{
		VaultID:         vaultID,
		Investor:        investor,
		Amount:          amount,
		SharesBurned:    burn,
		RemainingShares: positionShares,
		TotalShares:     totalShares,
		TotalAssets:     totalAssets,
	}, nil
}
