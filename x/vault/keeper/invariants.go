package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/hedge-vault/x/vault/types"
)

// RegisterInvariants registers the vault ledger invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k *Keeper) {
	ir.RegisterRoute(types.ModuleName, "position-shares", PositionSharesInvariant(k))
	ir.RegisterRoute(types.ModuleName, "pool-consistency", PoolConsistencyInvariant(k))
}

// PositionSharesInvariant checks that positions never hold more than the vault's shares
func PositionSharesInvariant(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var msg string
		broken := false
		for _, vault := range k.GetAllVaults(ctx) {
			held := uint64(0)
			overflow := false
			for _, p := range k.GetVaultPositions(ctx, vault.ID) {
				sum, err := types.SafeAdd(held, p.Shares)
				if err != nil {
					overflow = true
					break
				}
				held = sum
			}
			if overflow || held > vault.TotalShares {
				broken = true
				msg += fmt.Sprintf("\tvault %s: positions hold %d of %d shares\n", vault.ID, held, vault.TotalShares)
			}
		}
		return sdk.FormatInvariant(types.ModuleName, "position-shares", msg), broken
	}
}

// PoolConsistencyInvariant checks that no vault has shares outstanding against zero assets
func PoolConsistencyInvariant(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var msg string
		broken := false
		for _, vault := range k.GetAllVaults(ctx) {
			if vault.TotalShares > 0 && vault.TotalAssets == 0 {
				broken = true
				msg += fmt.Sprintf("\tvault %s: %d shares against zero assets\n", vault.ID, vault.TotalShares)
			}
		}
		return sdk.FormatInvariant(types.ModuleName, "pool-consistency", msg), broken
	}
}

// AssertInvariants runs every invariant and returns the first broken one
func (k *Keeper) AssertInvariants(ctx sdk.Context) error {
	for _, inv := range []sdk.Invariant{PositionSharesInvariant(k), PoolConsistencyInvariant(k)} {
		if msg, broken := inv(ctx); broken {
			return fmt.Errorf("invariant broken: %s", msg)
		}
	}
	return nil
}
