package keeper

import (
	"encoding/json"
	"time"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/hedge-vault/metrics"
	"github.com/openalpha/hedge-vault/x/vault/types"
)

// HeaderClock reads the time carried in the context header.
type HeaderClock struct{}

// Now implements types.Clock
func (HeaderClock) Now(ctx sdk.Context) time.Time {
	return ctx.HeaderInfo().Time
}

// Keeper owns all vault and position state. It is the only writer of that state.
type Keeper struct {
	storeKey storetypes.StoreKey
	transfer types.AssetTransfer
	identity types.IdentityBinding
	router   types.SwapRouter
	clock    types.Clock
	metrics  *metrics.Collector
	logger   log.Logger
}

// NewKeeper creates a new vault keeper. A nil clock reads the block header time;
// a nil collector disables metrics.
func NewKeeper(
	storeKey storetypes.StoreKey,
	transfer types.AssetTransfer,
	identity types.IdentityBinding,
	router types.SwapRouter,
	clock types.Clock,
	collector *metrics.Collector,
	logger log.Logger,
) *Keeper {
	if clock == nil {
		clock = HeaderClock{}
	}
	return &Keeper{
		storeKey: storeKey,
		transfer: transfer,
		identity: identity,
		router:   router,
		clock:    clock,
		metrics:  collector,
		logger:   logger.With("module", "x/"+types.ModuleName),
	}
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

func (k *Keeper) now(ctx sdk.Context) int64 {
	return k.clock.Now(ctx).Unix()
}

// ============ Vault Operations ============

// SetVault saves a vault and its operator index
func (k *Keeper) SetVault(ctx sdk.Context, vault *types.Vault) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(vault)
	store.Set(types.VaultKey(vault.ID), bz)
	store.Set(types.OperatorIndexKey(vault.Operator), []byte(vault.ID))
}

// GetVault retrieves a vault, or nil if absent
func (k *Keeper) GetVault(ctx sdk.Context, vaultID string) *types.Vault {
	bz := k.GetStore(ctx).Get(types.VaultKey(vaultID))
	if bz == nil {
		return nil
	}
	var vault types.Vault
	if err := json.Unmarshal(bz, &vault); err != nil {
		return nil
	}
	return &vault
}

// GetVaultByOperator returns the operator's vault, or nil
func (k *Keeper) GetVaultByOperator(ctx sdk.Context, operator string) *types.Vault {
	id := k.GetStore(ctx).Get(types.OperatorIndexKey(operator))
	if id == nil {
		return nil
	}
	return k.GetVault(ctx, string(id))
}

// GetAllVaults returns all vaults in id order
func (k *Keeper) GetAllVaults(ctx sdk.Context) []*types.Vault {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), types.VaultKeyPrefix)
	defer iterator.Close()

	var vaults []*types.Vault
	for ; iterator.Valid(); iterator.Next() {
		var vault types.Vault
		if err := json.Unmarshal(iterator.Value(), &vault); err != nil {
			continue
		}
		vaults = append(vaults, &vault)
	}
	return vaults
}

// mustGetVault loads a vault or returns ErrVaultNotFound
func (k *Keeper) mustGetVault(ctx sdk.Context, vaultID string) (*types.Vault, error) {
	vault := k.GetVault(ctx, vaultID)
	if vault == nil {
		return nil, types.ErrVaultNotFound.Wrapf("vault %s", vaultID)
	}
	return vault, nil
}

// ============ Position Operations ============

// SetPosition saves a position and its investor index
func (k *Keeper) SetPosition(ctx sdk.Context, position *types.InvestorPosition) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(position)
	store.Set(types.PositionKey(position.VaultID, position.Investor), bz)
	store.Set(types.InvestorIndexKey(position.Investor, position.VaultID), []byte(position.VaultID))
}

// GetPosition retrieves a position, or nil if the investor never deposited
func (k *Keeper) GetPosition(ctx sdk.Context, vaultID, investor string) *types.InvestorPosition {
	bz := k.GetStore(ctx).Get(types.PositionKey(vaultID, investor))
	if bz == nil {
		return nil
	}
	var position types.InvestorPosition
	if err := json.Unmarshal(bz, &position); err != nil {
		return nil
	}
	return &position
}

// GetVaultPositions returns all positions of a vault
func (k *Keeper) GetVaultPositions(ctx sdk.Context, vaultID string) []*types.InvestorPosition {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), types.PositionsByVaultPrefix(vaultID))
	defer iterator.Close()

	var positions []*types.InvestorPosition
	for ; iterator.Valid(); iterator.Next() {
		var position types.InvestorPosition
		if err := json.Unmarshal(iterator.Value(), &position); err != nil {
			continue
		}
		positions = append(positions, &position)
	}
	return positions
}

// GetInvestorPositions returns all positions held by an investor
func (k *Keeper) GetInvestorPositions(ctx sdk.Context, investor string) []*types.InvestorPosition {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), types.InvestorIndexPrefix(investor))
	defer iterator.Close()

	var positions []*types.InvestorPosition
	for ; iterator.Valid(); iterator.Next() {
		if position := k.GetPosition(ctx, string(iterator.Value()), investor); position != nil {
			positions = append(positions, position)
		}
	}
	return positions
}

// GetAllPositions returns every position
func (k *Keeper) GetAllPositions(ctx sdk.Context) []*types.InvestorPosition {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), types.PositionKeyPrefix)
	defer iterator.Close()

	var positions []*types.InvestorPosition
	for ; iterator.Valid(); iterator.Next() {
		var position types.InvestorPosition
		if err := json.Unmarshal(iterator.Value(), &position); err != nil {
			continue
		}
		positions = append(positions, &position)
	}
	return positions
}

// ============ Record Operations ============

// SetEpochRecord saves a closed-epoch record
func (k *Keeper) SetEpochRecord(ctx sdk.Context, record *types.EpochRecord) {
	bz, _ := json.Marshal(record)
	k.GetStore(ctx).Set(types.EpochRecordKey(record.VaultID, record.Epoch), bz)
}

// GetEpochRecords returns a vault's epoch history, oldest first
func (k *Keeper) GetEpochRecords(ctx sdk.Context, vaultID string) []*types.EpochRecord {
	return getRecords[types.EpochRecord](k.GetStore(ctx), types.EpochRecordsByVaultPrefix(vaultID))
}

// SetSwapRecord saves a swap record
func (k *Keeper) SetSwapRecord(ctx sdk.Context, record *types.SwapRecord) {
	bz, _ := json.Marshal(record)
	k.GetStore(ctx).Set(types.SwapRecordKey(record.VaultID, record.ExecutedAt, record.ID), bz)
}

// GetSwapRecords returns a vault's swaps, oldest first
func (k *Keeper) GetSwapRecords(ctx sdk.Context, vaultID string) []*types.SwapRecord {
	return getRecords[types.SwapRecord](k.GetStore(ctx), types.SwapRecordsByVaultPrefix(vaultID))
}

func getRecords[T any](store storetypes.KVStore, prefix []byte) []*T {
	iterator := storetypes.KVStorePrefixIterator(store, prefix)
	defer iterator.Close()

	var records []*T
	for ; iterator.Valid(); iterator.Next() {
		var record T
		if err := json.Unmarshal(iterator.Value(), &record); err != nil {
			continue
		}
		records = append(records, &record)
	}
	return records
}

// recordVaultState refreshes the state gauges after a commit
func (k *Keeper) recordVaultState(vault *types.Vault) {
	k.metrics.UpdateVault(vault.ID, vault.TotalAssets, vault.TotalShares, vault.AccruedFees, vault.CurrentEpoch)
}
