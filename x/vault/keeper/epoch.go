package keeper

import (
	"context"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/hedge-vault/metrics"
	"github.com/openalpha/hedge-vault/x/vault/types"
)

// AdvanceEpoch closes the current epoch once it is advance-ready. The caller supplies
// the externally observed pool value; any gain over the recorded total accrues the
// performance fee, and the observed value becomes the new recorded total.
func (k *Keeper) AdvanceEpoch(ctx context.Context, vaultID string, observedTotalAssets uint64) (record *types.EpochRecord, err error) {
	timer := metrics.NewTimer()
	defer func() { k.metrics.RecordOperation(types.TypeMsgAdvanceEpoch, err, timer.ElapsedMs()) }()

	sdkCtx := sdk.UnwrapSDKContext(ctx)

	vault, err := k.mustGetVault(sdkCtx, vaultID)
	if err != nil {
		return nil, err
	}
	now := k.now(sdkCtx)
	if err := vault.AdmitAdvance(now); err != nil {
		return nil, err
	}

	fee, newTotal, err := types.AccrueOnAdvance(vault.TotalAssets, observedTotalAssets, vault.PerformanceFeeBps)
	if err != nil {
		return nil, err
	}
	accrued, err := types.SafeAdd(vault.AccruedFees, fee)
	if err != nil {
		return nil, err
	}

	record = &types.EpochRecord{
		VaultID:        vaultID,
		Epoch:          vault.CurrentEpoch,
		OpenedAt:       vault.LastEpochUpdate,
		ClosedAt:       now,
		OpeningAssets:  vault.TotalAssets,
		ObservedAssets: observedTotalAssets,
		FeeAccrued:     fee,
		TotalShares:    vault.TotalShares,
	}
	if observedTotalAssets > vault.TotalAssets {
		record.Profit = observedTotalAssets - vault.TotalAssets
	}

	vault.AccruedFees = accrued
	vault.TotalAssets = newTotal
	if err := vault.Advance(now); err != nil {
		return nil, err
	}
	record.SharePrice = vault.SharePrice().String()

	k.SetVault(sdkCtx, vault)
	k.SetEpochRecord(sdkCtx, record)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAdvanceEpoch,
			sdk.NewAttribute(types.AttributeKeyVaultID, vaultID),
			sdk.NewAttribute(types.AttributeKeyEpoch, strconv.FormatUint(vault.CurrentEpoch, 10)),
			sdk.NewAttribute(types.AttributeKeyTotalAssets, strconv.FormatUint(newTotal, 10)),
			sdk.NewAttribute(types.AttributeKeyFee, strconv.FormatUint(fee, 10)),
			sdk.NewAttribute(types.AttributeKeyAccrued, strconv.FormatUint(accrued, 10)),
		),
	)

	k.logger.Info("Epoch advanced",
		"vault_id", vaultID,
		"epoch", vault.CurrentEpoch,
		"observed_assets", observedTotalAssets,
		"fee", fee,
		"accrued_fees", accrued,
	)

	k.metrics.RecordFeeAccrual(vaultID, fee)
	k.recordVaultState(vault)
	return record, nil
}
