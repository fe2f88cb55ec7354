package app

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"cosmossdk.io/core/header"
	"cosmossdk.io/log"
	"cosmossdk.io/store"
	storemetrics "cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/hedge-vault/metrics"
	"github.com/openalpha/hedge-vault/x/vault"
	"github.com/openalpha/hedge-vault/x/vault/keeper"
	"github.com/openalpha/hedge-vault/x/vault/types"
)

// VaultApp hosts the vault ledger: it owns the stores, wires the keeper to the
// custody book, identity binding and swap venue, and serializes every mutation.
type VaultApp struct {
	mu sync.Mutex

	logger log.Logger
	db     dbm.DB
	cms    storetypes.CommitMultiStore
	keys   map[string]*storetypes.KVStoreKey

	// Keepers
	Custody     CustodyKeeper
	VaultKeeper *keeper.Keeper
	Router      *FixedRateRouter

	module     vault.AppModule
	queries    *keeper.QueryServer
	invariants *invariantRegistry
	collector  *metrics.Collector
	scheduler  *AdvanceScheduler
}

// NewVaultApp opens the ledger database described by cfg and loads the latest
// committed version. A nil collector disables metrics.
func NewVaultApp(cfg Config, logger log.Logger, collector *metrics.Collector) (*VaultApp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	db, err := dbm.NewDB(Name, dbm.BackendType(cfg.DBBackend), cfg.DataDir())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.DBBackend, err)
	}
	app, err := newVaultApp(db, logger, collector, cfg.Simulation)
	if err != nil {
		db.Close()
		return nil, err
	}
	return app, nil
}

// NewMemVaultApp creates an in-memory app, for simulations and tests
func NewMemVaultApp(logger log.Logger, collector *metrics.Collector) *VaultApp {
	app, err := newVaultApp(dbm.NewMemDB(), logger, collector, DefaultConfig().Simulation)
	if err != nil {
		panic(err)
	}
	return app
}

func newVaultApp(db dbm.DB, logger log.Logger, collector *metrics.Collector, sim SimulationConfig) (*VaultApp, error) {
	keys := storetypes.NewKVStoreKeys(types.StoreKey, CustodyStoreKey)

	cms := store.NewCommitMultiStore(db, logger, storemetrics.NewNoOpMetrics())
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("failed to load latest version: %w", err)
	}

	app := &VaultApp{
		logger:     logger,
		db:         db,
		cms:        cms,
		keys:       keys,
		Custody:    NewCustodyKeeper(keys[CustodyStoreKey]),
		Router:     NewFixedRateRouter(sim.SwapRateBps, sim.SwapLiquidity),
		invariants: newInvariantRegistry(),
		collector:  collector,
		scheduler:  NewAdvanceScheduler(),
	}
	app.VaultKeeper = keeper.NewKeeper(
		keys[types.StoreKey],
		app.Custody,
		HandleProofBinding{},
		app.Router,
		nil,
		collector,
		logger,
	)
	app.module = vault.NewAppModule(app.VaultKeeper)
	app.module.RegisterInvariants(app.invariants)
	app.queries = keeper.NewQueryServerImpl(app.VaultKeeper)

	app.rebuildSchedule(app.newContext(time.Now()))
	return app, nil
}

// Logger returns the app logger
func (app *VaultApp) Logger() log.Logger {
	return app.logger
}

// GetKey returns the KVStoreKey for the provided store key
func (app *VaultApp) GetKey(storeKey string) *storetypes.KVStoreKey {
	return app.keys[storeKey]
}

// Scheduler returns the advance scheduler
func (app *VaultApp) Scheduler() *AdvanceScheduler {
	return app.scheduler
}

// LastHeight returns the last committed version
func (app *VaultApp) LastHeight() int64 {
	return app.cms.LastCommitID().Version
}

func (app *VaultApp) newContext(now time.Time) sdk.Context {
	height := app.cms.LastCommitID().Version + 1
	return sdk.NewContext(app.cms, cmtproto.Header{Height: height, Time: now}, false, app.logger).
		WithHeaderInfo(header.Info{Height: height, Time: now})
}

// QueryContext returns a context for read-only queries at now
func (app *VaultApp) QueryContext(now time.Time) sdk.Context {
	return app.newContext(now)
}

// Queries returns the ledger query server
func (app *VaultApp) Queries() *keeper.QueryServer {
	return app.queries
}

// ============ Ledger Operations ============

// Fund credits an external account with newly issued asset
func (app *VaultApp) Fund(now time.Time, account string, amount uint64) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	return app.Custody.Mint(app.newContext(now), account, amount)
}

// ApplyPnL changes the custody balance of a vault to simulate trading results.
// The ledger only sees it at the next epoch advance.
func (app *VaultApp) ApplyPnL(now time.Time, vaultID string, delta int64) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	ctx := app.newContext(now)
	v := app.VaultKeeper.GetVault(ctx, vaultID)
	if v == nil {
		return types.ErrVaultNotFound.Wrapf("vault %s", vaultID)
	}
	if delta >= 0 {
		return app.Custody.Mint(ctx, v.CustodyAccount, uint64(delta))
	}
	return app.Custody.Burn(ctx, v.CustodyAccount, uint64(-delta))
}

// CreateVault creates a vault and schedules its first advance
func (app *VaultApp) CreateVault(now time.Time, operator, name, handle, proof string, feeBps uint32, assetID string) (*types.Vault, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	v, err := app.VaultKeeper.CreateVault(app.newContext(now), operator, name, handle, proof, feeBps, assetID)
	if err != nil {
		return nil, err
	}
	app.schedule(v)
	return v, nil
}

// Deposit moves investor funds into a vault
func (app *VaultApp) Deposit(now time.Time, vaultID, investor string, amount uint64) (*types.DepositResult, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	return app.VaultKeeper.Deposit(app.newContext(now), vaultID, investor, amount)
}

// Withdraw returns funds to an investor
func (app *VaultApp) Withdraw(now time.Time, vaultID, investor string, amount uint64) (*types.WithdrawResult, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	return app.VaultKeeper.Withdraw(app.newContext(now), vaultID, investor, amount)
}

// AdvanceEpoch advances a vault with an explicit observed total
func (app *VaultApp) AdvanceEpoch(now time.Time, vaultID string, observedTotalAssets uint64) (*types.EpochRecord, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	return app.advance(app.newContext(now), vaultID, observedTotalAssets)
}

func (app *VaultApp) advance(ctx sdk.Context, vaultID string, observedTotalAssets uint64) (*types.EpochRecord, error) {
	record, err := app.VaultKeeper.AdvanceEpoch(ctx, vaultID, observedTotalAssets)
	if err != nil {
		return nil, err
	}
	if v := app.VaultKeeper.GetVault(ctx, vaultID); v != nil {
		app.schedule(v)
	}
	return record, nil
}

// AdvanceDue advances every vault whose epoch is advance-ready at now, taking
// the vault's custody balance as the observed total. Vaults that fail stay
// scheduled and are reported in the returned error.
func (app *VaultApp) AdvanceDue(now time.Time) ([]*types.EpochRecord, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	ctx := app.newContext(now)
	var (
		records []*types.EpochRecord
		failed  []string
	)
	for _, vaultID := range app.scheduler.Due(now.Unix()) {
		v := app.VaultKeeper.GetVault(ctx, vaultID)
		if v == nil {
			app.scheduler.Remove(vaultID)
			continue
		}
		observed := app.Custody.Balance(ctx, v.CustodyAccount)
		record, err := app.advance(ctx, vaultID, observed)
		if err != nil {
			app.logger.Error("scheduled advance failed", "vault_id", vaultID, "error", err)
			failed = append(failed, vaultID)
			continue
		}
		records = append(records, record)
	}
	if len(failed) > 0 {
		return records, fmt.Errorf("advance failed for %d vault(s): %v", len(failed), failed)
	}
	return records, nil
}

// ClaimFees pays accrued fees to the operator
func (app *VaultApp) ClaimFees(now time.Time, vaultID, caller string) (uint64, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	return app.VaultKeeper.ClaimFees(app.newContext(now), vaultID, caller)
}

// RecordSwap executes and records an operator swap
func (app *VaultApp) RecordSwap(now time.Time, vaultID, caller string, input, minOutput uint64) (*types.SwapRecord, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	return app.VaultKeeper.RecordSwap(app.newContext(now), vaultID, caller, input, minOutput)
}

// ============ Lifecycle ============

// AssertInvariants runs every registered invariant at now
func (app *VaultApp) AssertInvariants(now time.Time) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	return app.invariants.assert(app.newContext(now))
}

// Commit persists the working state as a new version
func (app *VaultApp) Commit() storetypes.CommitID {
	app.mu.Lock()
	defer app.mu.Unlock()

	id := app.cms.Commit()
	app.logger.Debug("committed", "version", id.Version)
	return id
}

// ExportGenesis exports the ledger state as JSON
func (app *VaultApp) ExportGenesis(now time.Time) json.RawMessage {
	app.mu.Lock()
	defer app.mu.Unlock()

	return app.module.ExportGenesis(app.newContext(now), nil)
}

// ImportGenesis validates and loads a ledger state exported by ExportGenesis
func (app *VaultApp) ImportGenesis(now time.Time, bz json.RawMessage) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if err := app.module.ValidateGenesis(nil, nil, bz); err != nil {
		return fmt.Errorf("invalid genesis: %w", err)
	}
	ctx := app.newContext(now)
	app.module.InitGenesis(ctx, nil, bz)
	app.rebuildSchedule(ctx)
	return nil
}

// Close releases the database
func (app *VaultApp) Close() error {
	return app.db.Close()
}

func (app *VaultApp) schedule(v *types.Vault) {
	app.scheduler.Upsert(v.ID, v.LastEpochUpdate+types.EpochLength)
}

func (app *VaultApp) rebuildSchedule(ctx sdk.Context) {
	vaults := app.VaultKeeper.GetAllVaults(ctx)
	for _, v := range vaults {
		app.schedule(v)
	}
	app.collector.SetVaultCount(len(vaults))
}

// invariantRegistry collects module invariants for the host
type invariantRegistry struct {
	routes map[string]sdk.Invariant
}

var _ sdk.InvariantRegistry = (*invariantRegistry)(nil)

func newInvariantRegistry() *invariantRegistry {
	return &invariantRegistry{routes: make(map[string]sdk.Invariant)}
}

// RegisterRoute implements sdk.InvariantRegistry
func (r *invariantRegistry) RegisterRoute(moduleName, route string, invar sdk.Invariant) {
	r.routes[moduleName+"/"+route] = invar
}

func (r *invariantRegistry) assert(ctx sdk.Context) error {
	names := make([]string, 0, len(r.routes))
	for name := range r.routes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if msg, broken := r.routes[name](ctx); broken {
			return fmt.Errorf("invariant %s broken: %s", name, msg)
		}
	}
	return nil
}
