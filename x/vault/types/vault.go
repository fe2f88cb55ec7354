package types

import (
	"fmt"
	"strings"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
)

// Field limits
const (
	MaxVaultNameLength   = 64
	MaxHandleLength      = 32
	MaxHandleProofLength = 128
	MaxAssetIDLength     = 128
)

// Vault is the aggregate root of one operator's pooled fund.
type Vault struct {
	ID                string `json:"id"`
	Operator          string `json:"operator"`
	Name              string `json:"name"`
	BoundHandle       string `json:"bound_handle"`
	HandleProof       string `json:"handle_proof"`
	AssetID           string `json:"asset_id"`
	CustodyAccount    string `json:"custody_account"`
	PerformanceFeeBps uint32 `json:"performance_fee_bps"`
	TotalShares       uint64 `json:"total_shares"`
	TotalAssets       uint64 `json:"total_assets"`
	CurrentEpoch      uint64 `json:"current_epoch"`
	LastEpochUpdate   int64  `json:"last_epoch_update"`
	CreatedAt         int64  `json:"created_at"`
	AccruedFees       uint64 `json:"accrued_fees"`
}

// NewVault creates a vault with zeroed counters and its epoch clock started at now.
func NewVault(operator, name, handle, proof string, feeBps uint32, assetID string, now int64) *Vault {
	id := VaultIDForOperator(operator)
	return &Vault{
		ID:                id,
		Operator:          operator,
		Name:              name,
		BoundHandle:       handle,
		HandleProof:       proof,
		AssetID:           assetID,
		CustodyAccount:    CustodyAccountForVault(id),
		PerformanceFeeBps: feeBps,
		LastEpochUpdate:   now,
		CreatedAt:         now,
	}
}

// IsOperator reports whether caller is the recorded operator.
func (v *Vault) IsOperator(caller string) bool {
	return caller != "" && caller == v.Operator
}

// SharePrice returns assets per share, or zero for an empty pool.
func (v *Vault) SharePrice() math.LegacyDec {
	if v.TotalShares == 0 {
		return math.LegacyZeroDec()
	}
	return math.LegacyNewDecFromInt(math.NewIntFromUint64(v.TotalAssets)).
		QuoInt(math.NewIntFromUint64(v.TotalShares))
}

// Validate checks the static fields. Pool consistency is left to the
// pool-consistency invariant so any reachable state can be exported.
func (v *Vault) Validate() error {
	if v.ID == "" || v.ID != VaultIDForOperator(v.Operator) {
		return fmt.Errorf("vault id %q does not match operator %q", v.ID, v.Operator)
	}
	if err := ValidateVaultName(v.Name); err != nil {
		return err
	}
	if err := ValidateAssetID(v.AssetID); err != nil {
		return err
	}
	if err := ValidatePerformanceFee(v.PerformanceFeeBps); err != nil {
		return err
	}
	if len(v.BoundHandle) > MaxHandleLength || len(v.HandleProof) > MaxHandleProofLength {
		return ErrInvalidHandleFormat
	}
	return nil
}

// ValidateVaultName requires 1..64 bytes of non-blank text.
func ValidateVaultName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidVaultName
	}
	if len(name) > MaxVaultNameLength {
		return errors.Wrapf(ErrInvalidVaultName, "name length %d exceeds %d", len(name), MaxVaultNameLength)
	}
	return nil
}

func ValidateAssetID(assetID string) error {
	if strings.TrimSpace(assetID) == "" || len(assetID) > MaxAssetIDLength {
		return ErrInvalidAsset
	}
	return nil
}

// InvestorPosition is one investor's holding in one vault.
type InvestorPosition struct {
	VaultID     string `json:"vault_id"`
	Investor    string `json:"investor"`
	Shares      uint64 `json:"shares"`
	DepositedAt int64  `json:"deposited_at"`
}

// EpochRecord is the audit entry written when an epoch closes.
type EpochRecord struct {
	VaultID        string `json:"vault_id"`
	Epoch          uint64 `json:"epoch"`
	OpenedAt       int64  `json:"opened_at"`
	ClosedAt       int64  `json:"closed_at"`
	OpeningAssets  uint64 `json:"opening_assets"`
	ObservedAssets uint64 `json:"observed_assets"`
	Profit         uint64 `json:"profit"`
	FeeAccrued     uint64 `json:"fee_accrued"`
	TotalShares    uint64 `json:"total_shares"`
	SharePrice     string `json:"share_price"`
}

// SwapRecord is the audit entry for an operator swap.
type SwapRecord struct {
	ID              string `json:"id"`
	VaultID         string `json:"vault_id"`
	Epoch           uint64 `json:"epoch"`
	InputAmount     uint64 `json:"input_amount"`
	MinOutputAmount uint64 `json:"min_output_amount"`
	OutputAmount    uint64 `json:"output_amount"`
	ExecutedAt      int64  `json:"executed_at"`
}

// DepositResult reports the outcome of a deposit.
type DepositResult struct {
	VaultID      string `json:"vault_id"`
	Investor     string `json:"investor"`
	Amount       uint64 `json:"amount"`
	SharesMinted uint64 `json:"shares_minted"`
	TotalShares  uint64 `json:"total_shares"`
	TotalAssets  uint64 `json:"total_assets"`
}

// WithdrawResult reports the outcome of a withdrawal.
type WithdrawResult struct {
	VaultID         string `json:"vault_id"`
	Investor        string `json:"investor"`
	Amount          uint64 `json:"amount"`
	SharesBurned    uint64 `json:"shares_burned"`
	RemainingShares uint64 `json:"remaining_shares"`
	TotalShares     uint64 `json:"total_shares"`
	TotalAssets     uint64 `json:"total_assets"`
}
