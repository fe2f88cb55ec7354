package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/hedge-vault/x/vault/types"
)

// InitGenesis loads a validated genesis state into the store
func (k *Keeper) InitGenesis(ctx sdk.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	for i := range gs.Vaults {
		k.SetVault(ctx, &gs.Vaults[i])
		k.recordVaultState(&gs.Vaults[i])
	}
	for i := range gs.Positions {
		k.SetPosition(ctx, &gs.Positions[i])
	}
	for i := range gs.EpochRecords {
		k.SetEpochRecord(ctx, &gs.EpochRecords[i])
	}
	for i := range gs.SwapRecords {
		k.SetSwapRecord(ctx, &gs.SwapRecords[i])
	}
	k.metrics.SetVaultCount(len(gs.Vaults))

	k.logger.Info("Genesis loaded",
		"vaults", len(gs.Vaults),
		"positions", len(gs.Positions),
	)
	return nil
}

// ExportGenesis exports the full ledger state
func (k *Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	gs := types.DefaultGenesis()
	for _, v := range k.GetAllVaults(ctx) {
		gs.Vaults = append(gs.Vaults, *v)
		for _, r := range k.GetEpochRecords(ctx, v.ID) {
			gs.EpochRecords = append(gs.EpochRecords, *r)
		}
		for _, r := range k.GetSwapRecords(ctx, v.ID) {
			gs.SwapRecords = append(gs.SwapRecords, *r)
		}
	}
	for _, p := range k.GetAllPositions(ctx) {
		gs.Positions = append(gs.Positions, *p)
	}
	return gs
}
