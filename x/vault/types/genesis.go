package types

import (
	"cosmossdk.io/errors"
)

// GenesisState is the exported ledger state.
type GenesisState struct {
	Vaults       []Vault            `json:"vaults"`
	Positions    []InvestorPosition `json:"positions"`
	EpochRecords []EpochRecord      `json:"epoch_records"`
	SwapRecords  []SwapRecord       `json:"swap_records"`
}

// DefaultGenesis returns an empty ledger.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Vaults:       []Vault{},
		Positions:    []InvestorPosition{},
		EpochRecords: []EpochRecord{},
		SwapRecords:  []SwapRecord{},
	}
}

// Validate checks referential integrity and that positions never exceed vault shares.
func (gs GenesisState) Validate() error {
	vaults := make(map[string]Vault, len(gs.Vaults))
	for _, v := range gs.Vaults {
		if _, dup := vaults[v.ID]; dup {
			return errors.Wrapf(ErrInvalidGenesis, "duplicate vault %s", v.ID)
		}
		if err := v.Validate(); err != nil {
			return errors.Wrapf(ErrInvalidGenesis, "vault %s: %s", v.ID, err)
		}
		vaults[v.ID] = v
	}

	held := make(map[string]uint64, len(gs.Vaults))
	seen := make(map[string]struct{}, len(gs.Positions))
	for _, p := range gs.Positions {
		if _, ok := vaults[p.VaultID]; !ok {
			return errors.Wrapf(ErrInvalidGenesis, "position for unknown vault %s", p.VaultID)
		}
		if p.Investor == "" {
			return errors.Wrapf(ErrInvalidGenesis, "position in vault %s has no investor", p.VaultID)
		}
		key := string(PositionKey(p.VaultID, p.Investor))
		if _, dup := seen[key]; dup {
			return errors.Wrapf(ErrInvalidGenesis, "duplicate position %s/%s", p.VaultID, p.Investor)
		}
		seen[key] = struct{}{}

		sum, err := SafeAdd(held[p.VaultID], p.Shares)
		if err != nil {
			return errors.Wrapf(ErrInvalidGenesis, "vault %s: %s", p.VaultID, err)
		}
		held[p.VaultID] = sum
	}
	for id, sum := range held {
		if sum > vaults[id].TotalShares {
			return errors.Wrapf(ErrInvalidGenesis, "vault %s positions hold %d of %d shares", id, sum, vaults[id].TotalShares)
		}
	}

	for _, r := range gs.EpochRecords {
		v, ok := vaults[r.VaultID]
		if !ok {
			return errors.Wrapf(ErrInvalidGenesis, "epoch record for unknown vault %s", r.VaultID)
		}
		if r.Epoch >= v.CurrentEpoch {
			return errors.Wrapf(ErrInvalidGenesis, "epoch record %d of vault %s is not closed", r.Epoch, r.VaultID)
		}
	}
	for _, r := range gs.SwapRecords {
		if _, ok := vaults[r.VaultID]; !ok {
			return errors.Wrapf(ErrInvalidGenesis, "swap record for unknown vault %s", r.VaultID)
		}
		if r.ID == "" {
			return errors.Wrapf(ErrInvalidGenesis, "swap record in vault %s has no id", r.VaultID)
		}
	}
	return nil
}
