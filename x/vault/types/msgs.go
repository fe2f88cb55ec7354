package types

import (
	"fmt"
	"strconv"

	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// Message types
const (
	TypeMsgCreateVault  = "create_vault"
	TypeMsgDeposit      = "deposit"
	TypeMsgWithdraw     = "withdraw"
	TypeMsgAdvanceEpoch = "advance_epoch"
	TypeMsgClaimFees    = "claim_fees"
	TypeMsgRecordSwap   = "record_swap"
)

// ParseAmount parses a base-10 asset or share amount.
func ParseAmount(s string) (uint64, error) {
	amount, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidAmount, "%q", s)
	}
	return amount, nil
}

func validateAddress(addr string) error {
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return errors.Wrapf(sdkerrors.ErrInvalidAddress, "%q: %s", addr, err)
	}
	return nil
}

func parsePositiveAmount(s string) (uint64, error) {
	amount, err := ParseAmount(s)
	if err != nil {
		return 0, err
	}
	if amount == 0 {
		return 0, errors.Wrap(ErrInvalidAmount, "amount must be positive")
	}
	return amount, nil
}

func mustSigner(addr string) []sdk.AccAddress {
	acc, _ := sdk.AccAddressFromBech32(addr)
	return []sdk.AccAddress{acc}
}

// MsgCreateVault defines the CreateVault message
type MsgCreateVault struct {
	Operator          string `json:"operator"`
	Name              string `json:"name"`
	Handle            string `json:"handle"`
	HandleProof       string `json:"handle_proof"`
	PerformanceFeeBps uint32 `json:"performance_fee_bps"`
	AssetID           string `json:"asset_id"`
}

// Route implements sdk.Msg
func (msg MsgCreateVault) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgCreateVault) Type() string { return TypeMsgCreateVault }

// ValidateBasic implements sdk.Msg
func (msg MsgCreateVault) ValidateBasic() error {
	if err := validateAddress(msg.Operator); err != nil {
		return err
	}
	if err := ValidateVaultName(msg.Name); err != nil {
		return err
	}
	if err := ValidatePerformanceFee(msg.PerformanceFeeBps); err != nil {
		return err
	}
	if msg.Handle == "" || len(msg.Handle) > MaxHandleLength {
		return errors.Wrapf(ErrInvalidHandleFormat, "handle length %d", len(msg.Handle))
	}
	if msg.HandleProof == "" || len(msg.HandleProof) > MaxHandleProofLength {
		return errors.Wrapf(ErrInvalidProof, "proof length %d", len(msg.HandleProof))
	}
	return ValidateAssetID(msg.AssetID)
}

// GetSigners implements sdk.Msg
func (msg MsgCreateVault) GetSigners() []sdk.AccAddress { return mustSigner(msg.Operator) }

// ProtoMessage implements proto.Message
func (*MsgCreateVault) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgCreateVault) Reset() { *msg = MsgCreateVault{} }

// String implements proto.Message
func (msg MsgCreateVault) String() string {
	return fmt.Sprintf("MsgCreateVault{Operator: %s, Name: %s, Handle: %s, FeeBps: %d, AssetID: %s}",
		msg.Operator, msg.Name, msg.Handle, msg.PerformanceFeeBps, msg.AssetID)
}

// MsgCreateVaultResponse defines the CreateVault response
type MsgCreateVaultResponse struct {
	VaultID        string `json:"vault_id"`
	CustodyAccount string `json:"custody_account"`
	CreatedAt      int64  `json:"created_at"`
}

// MsgDeposit defines the Deposit message
type MsgDeposit struct {
	Investor string `json:"investor"`
	VaultID  string `json:"vault_id"`
	Amount   string `json:"amount"`
}

// Route implements sdk.Msg
func (msg MsgDeposit) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgDeposit) Type() string { return TypeMsgDeposit }

// ValidateBasic implements sdk.Msg
func (msg MsgDeposit) ValidateBasic() error {
	if err := validateAddress(msg.Investor); err != nil {
		return err
	}
	if msg.VaultID == "" {
		return ErrVaultNotFound
	}
	_, err := parsePositiveAmount(msg.Amount)
	return err
}

// GetSigners implements sdk.Msg
func (msg MsgDeposit) GetSigners() []sdk.AccAddress { return mustSigner(msg.Investor) }

// ProtoMessage implements proto.Message
func (*MsgDeposit) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgDeposit) Reset() { *msg = MsgDeposit{} }

// String implements proto.Message
func (msg MsgDeposit) String() string {
	return fmt.Sprintf("MsgDeposit{Investor: %s, VaultID: %s, Amount: %s}", msg.Investor, msg.VaultID, msg.Amount)
}

// MsgDepositResponse defines the Deposit response
type MsgDepositResponse struct {
	SharesMinted string `json:"shares_minted"`
	TotalShares  string `json:"total_shares"`
	TotalAssets  string `json:"total_assets"`
}

// MsgWithdraw defines the Withdraw message
type MsgWithdraw struct {
	Investor string `json:"investor"`
	VaultID  string `json:"vault_id"`
	Amount   string `json:"amount"`
}

// Route implements sdk.Msg
func (msg MsgWithdraw) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgWithdraw) Type() string { return TypeMsgWithdraw }

// ValidateBasic implements sdk.Msg
func (msg MsgWithdraw) ValidateBasic() error {
	if err := validateAddress(msg.Investor); err != nil {
		return err
	}
	if msg.VaultID == "" {
		return ErrVaultNotFound
	}
	_, err := parsePositiveAmount(msg.Amount)
	return err
}

// GetSigners implements sdk.Msg
func (msg MsgWithdraw) GetSigners() []sdk.AccAddress { return mustSigner(msg.Investor) }

// ProtoMessage implements proto.Message
func (*MsgWithdraw) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgWithdraw) Reset() { *msg = MsgWithdraw{} }

// String implements proto.Message
func (msg MsgWithdraw) String() string {
	return fmt.Sprintf("MsgWithdraw{Investor: %s, VaultID: %s, Amount: %s}", msg.Investor, msg.VaultID, msg.Amount)
}

// MsgWithdrawResponse defines the Withdraw response
type MsgWithdrawResponse struct {
	SharesBurned    string `json:"shares_burned"`
	RemainingShares string `json:"remaining_shares"`
}

// MsgAdvanceEpoch defines the AdvanceEpoch message. Any account may submit it.
type MsgAdvanceEpoch struct {
	Sender              string `json:"sender"`
	VaultID             string `json:"vault_id"`
	ObservedTotalAssets string `json:"observed_total_assets"`
}

// Route implements sdk.Msg
func (msg MsgAdvanceEpoch) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgAdvanceEpoch) Type() string { return TypeMsgAdvanceEpoch }

// ValidateBasic implements sdk.Msg
func (msg MsgAdvanceEpoch) ValidateBasic() error {
	if err := validateAddress(msg.Sender); err != nil {
		return err
	}
	if msg.VaultID == "" {
		return ErrVaultNotFound
	}
	_, err := ParseAmount(msg.ObservedTotalAssets)
	return err
}

// GetSigners implements sdk.Msg
func (msg MsgAdvanceEpoch) GetSigners() []sdk.AccAddress { return mustSigner(msg.Sender) }

// ProtoMessage implements proto.Message
func (*MsgAdvanceEpoch) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgAdvanceEpoch) Reset() { *msg = MsgAdvanceEpoch{} }

// String implements proto.Message
func (msg MsgAdvanceEpoch) String() string {
	return fmt.Sprintf("MsgAdvanceEpoch{Sender: %s, VaultID: %s, Observed: %s}", msg.Sender, msg.VaultID, msg.ObservedTotalAssets)
}

// MsgAdvanceEpochResponse defines the AdvanceEpoch response
type MsgAdvanceEpochResponse struct {
	Epoch       uint64 `json:"epoch"`
	FeeAccrued  string `json:"fee_accrued"`
	AccruedFees string `json:"accrued_fees"`
	SharePrice  string `json:"share_price"`
}

// MsgClaimFees defines the ClaimFees message
type MsgClaimFees struct {
	Operator string `json:"operator"`
	VaultID  string `json:"vault_id"`
}

// Route implements sdk.Msg
func (msg MsgClaimFees) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgClaimFees) Type() string { return TypeMsgClaimFees }

// ValidateBasic implements sdk.Msg
func (msg MsgClaimFees) ValidateBasic() error {
	if err := validateAddress(msg.Operator); err != nil {
		return err
	}
	if msg.VaultID == "" {
		return ErrVaultNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgClaimFees) GetSigners() []sdk.AccAddress { return mustSigner(msg.Operator) }

// ProtoMessage implements proto.Message
func (*MsgClaimFees) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgClaimFees) Reset() { *msg = MsgClaimFees{} }

// String implements proto.Message
func (msg MsgClaimFees) String() string {
	return fmt.Sprintf("MsgClaimFees{Operator: %s, VaultID: %s}", msg.Operator, msg.VaultID)
}

// MsgClaimFeesResponse defines the ClaimFees response
type MsgClaimFeesResponse struct {
	Claimed string `json:"claimed"`
}

// MsgRecordSwap defines the RecordSwap message
type MsgRecordSwap struct {
	Operator        string `json:"operator"`
	VaultID         string `json:"vault_id"`
	InputAmount     string `json:"input_amount"`
	MinOutputAmount string `json:"min_output_amount"`
}

// Route implements sdk.Msg
func (msg MsgRecordSwap) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgRecordSwap) Type() string { return TypeMsgRecordSwap }

// ValidateBasic implements sdk.Msg
func (msg MsgRecordSwap) ValidateBasic() error {
	if err := validateAddress(msg.Operator); err != nil {
		return err
	}
	if msg.VaultID == "" {
		return ErrVaultNotFound
	}
	if _, err := parsePositiveAmount(msg.InputAmount); err != nil {
		return err
	}
	_, err := ParseAmount(msg.MinOutputAmount)
	return err
}

// GetSigners implements sdk.Msg
func (msg MsgRecordSwap) GetSigners() []sdk.AccAddress { return mustSigner(msg.Operator) }

// ProtoMessage implements proto.Message
func (*MsgRecordSwap) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgRecordSwap) Reset() { *msg = MsgRecordSwap{} }

// String implements proto.Message
func (msg MsgRecordSwap) String() string {
	return fmt.Sprintf("MsgRecordSwap{Operator: %s, VaultID: %s, Input: %s, MinOutput: %s}",
		msg.Operator, msg.VaultID, msg.InputAmount, msg.MinOutputAmount)
}

// MsgRecordSwapResponse defines the RecordSwap response
type MsgRecordSwapResponse struct {
	SwapID       string `json:"swap_id"`
	OutputAmount string `json:"output_amount"`
}
