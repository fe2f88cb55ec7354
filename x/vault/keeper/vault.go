package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/hedge-vault/metrics"
	"github.com/openalpha/hedge-vault/x/vault/types"
)

// CreateVault registers the operator's vault after checking the fee rate and the
// operator's handle binding. Counters start at zero and the first epoch opens now.
func (k *Keeper) CreateVault(
	ctx context.Context,
	operator, name, handle, proof string,
	feeBps uint32,
	assetID string,
) (vault *types.Vault, err error) {
	timer := metrics.NewTimer()
	defer func() { k.metrics.RecordOperation(types.TypeMsgCreateVault, err, timer.ElapsedMs()) }()

	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if operator == "" {
		return nil, errors.Wrap(types.ErrUnauthorized, "operator required")
	}
	if err := types.ValidatePerformanceFee(feeBps); err != nil {
		return nil, err
	}
	if len(handle) > types.MaxHandleLength || !k.identity.ValidateFormat(handle) {
		return nil, errors.Wrapf(types.ErrInvalidHandleFormat, "%q", handle)
	}
	if len(proof) > types.MaxHandleProofLength {
		return nil, errors.Wrapf(types.ErrInvalidProof, "proof length %d exceeds %d", len(proof), types.MaxHandleProofLength)
	}
	bound, verr := k.identity.Verify(handle, proof, operator)
	if verr != nil {
		return nil, errors.Wrapf(types.ErrInvalidProof, "handle %s: %s", handle, verr)
	}
	if !bound {
		return nil, errors.Wrapf(types.ErrInvalidProof, "handle %s is not bound to %s", handle, operator)
	}
	if err := types.ValidateVaultName(name); err != nil {
		return nil, err
	}
	if err := types.ValidateAssetID(assetID); err != nil {
		return nil, err
	}
	if existing := k.GetVaultByOperator(sdkCtx, operator); existing != nil {
		return nil, errors.Wrapf(types.ErrVaultExists, "operator %s owns %s", operator, existing.ID)
	}

	vault = types.NewVault(operator, name, handle, proof, feeBps, assetID, k.now(sdkCtx))
	k.SetVault(sdkCtx, vault)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCreateVault,
			sdk.NewAttribute(types.AttributeKeyVaultID, vault.ID),
			sdk.NewAttribute(types.AttributeKeyOperator, operator),
			sdk.NewAttribute(types.AttributeKeyHandle, handle),
			sdk.NewAttribute(types.AttributeKeyFeeBps, strconv.FormatUint(uint64(feeBps), 10)),
		),
	)

	k.logger.Info("Vault created",
		"vault_id", vault.ID,
		"operator", operator,
		"asset_id", assetID,
		"performance_fee_bps", feeBps,
	)

	k.recordVaultState(vault)
	k.metrics.SetVaultCount(len(k.GetAllVaults(sdkCtx)))
	return vault, nil
}
