package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/google/uuid"

	"github.com/openalpha/hedge-vault/metrics"
	"github.com/openalpha/hedge-vault/x/vault/types"
)

// RecordSwap executes an operator trade through the swap router and records it.
// Vault totals are untouched; the trade's effect reaches the ledger through the
// observed value at the next epoch advance.
func (k *Keeper) RecordSwap(ctx context.Context, vaultID, caller string, inputAmount, minOutputAmount uint64) (record *types.SwapRecord, err error) {
	timer := metrics.NewTimer()
	defer func() { k.metrics.RecordOperation(types.TypeMsgRecordSwap, err, timer.ElapsedMs()) }()

	sdkCtx := sdk.UnwrapSDKContext(ctx)

	vault, err := k.mustGetVault(sdkCtx, vaultID)
	if err != nil {
		return nil, err
	}
	if !vault.IsOperator(caller) {
		return nil, errors.Wrapf(types.ErrUnauthorized, "%s is not the operator of %s", caller, vaultID)
	}
	if inputAmount == 0 {
		return nil, errors.Wrap(types.ErrInvalidAmount, "swap input must be positive")
	}

	cacheCtx, write := sdkCtx.CacheContext()
	output, err := k.router.Execute(cacheCtx, inputAmount, minOutputAmount)
	if err != nil {
		return nil, errors.Wrapf(types.ErrSwapFailed, "input %d: %s", inputAmount, err)
	}
	if output < minOutputAmount {
		return nil, errors.Wrapf(types.ErrSlippageExceeded, "output %d below minimum %d", output, minOutputAmount)
	}

	record = &types.SwapRecord{
		ID:              uuid.NewString(),
		VaultID:         vaultID,
		Epoch:           vault.CurrentEpoch,
		InputAmount:     inputAmount,
		MinOutputAmount: minOutputAmount,
		OutputAmount:    output,
		ExecutedAt:      k.now(sdkCtx),
	}
	k.SetSwapRecord(cacheCtx, record)

	cacheCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRecordSwap,
			sdk.NewAttribute(types.AttributeKeyVaultID, vaultID),
			sdk.NewAttribute(types.AttributeKeySwapID, record.ID),
			sdk.NewAttribute(types.AttributeKeyAmount, strconv.FormatUint(inputAmount, 10)),
			sdk.NewAttribute(types.AttributeKeyMinOutput, strconv.FormatUint(minOutputAmount, 10)),
			sdk.NewAttribute(types.AttributeKeyOutput, strconv.FormatUint(output, 10)),
		),
	)
	write()

	k.logger.Info("Swap recorded",
		"vault_id", vaultID,
		"swap_id", record.ID,
		"input", inputAmount,
		"output", output,
	)

	k.metrics.RecordSwap(vaultID, inputAmount, output)
	return record, nil
}
