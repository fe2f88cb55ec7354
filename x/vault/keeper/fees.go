package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/hedge-vault/metrics"
	"github.com/openalpha/hedge-vault/x/vault/types"
)

// ClaimFees pays the whole accrued fee balance to the operator. Claiming a zero
// balance succeeds without moving funds.
func (k *Keeper) ClaimFees(ctx context.Context, vaultID, caller string) (claimed uint64, err error) {
	timer := metrics.NewTimer()
	defer func() { k.metrics.RecordOperation(types.TypeMsgClaimFees, err, timer.ElapsedMs()) }()

	sdkCtx := sdk.UnwrapSDKContext(ctx)

	vault, err := k.mustGetVault(sdkCtx, vaultID)
	if err != nil {
		return 0, err
	}
	if !vault.IsOperator(caller) {
		return 0, errors.Wrapf(types.ErrUnauthorized, "%s is not the operator of %s", caller, vaultID)
	}

	amount, remaining := types.ClaimFees(vault.AccruedFees)
	if amount == 0 {
		return 0, nil
	}

	cacheCtx, write := sdkCtx.CacheContext()
	if err := k.transfer.Move(cacheCtx, vault.CustodyAccount, vault.Operator, amount); err != nil {
		return 0, errors.Wrapf(types.ErrTransferFailed, "%s -> %s: %s", vault.CustodyAccount, vault.Operator, err)
	}

	vault.AccruedFees = remaining
	k.SetVault(cacheCtx, vault)

	cacheCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeClaimFees,
			sdk.NewAttribute(types.AttributeKeyVaultID, vaultID),
			sdk.NewAttribute(types.AttributeKeyOperator, vault.Operator),
			sdk.NewAttribute(types.AttributeKeyAmount, strconv.FormatUint(amount, 10)),
		),
	)
	write()

	k.logger.Info("Fees claimed",
		"vault_id", vaultID,
		"operator", vault.Operator,
		"amount", amount,
	)

	k.metrics.RecordFeeClaim(vaultID, amount)
	k.recordVaultState(vault)
	return amount, nil
}
