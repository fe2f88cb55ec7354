package types

// Event types
const (
	EventTypeCreateVault  = "vault_create"
	EventTypeDeposit      = "vault_deposit"
	EventTypeWithdraw     = "vault_withdraw"
	EventTypeAdvanceEpoch = "vault_advance_epoch"
	EventTypeClaimFees    = "vault_claim_fees"
	EventTypeRecordSwap   = "vault_record_swap"
)

// Event attribute keys
const (
	AttributeKeyVaultID     = "vault_id"
	AttributeKeyOperator    = "operator"
	AttributeKeyInvestor    = "investor"
	AttributeKeyAmount      = "amount"
	AttributeKeyShares      = "shares"
	AttributeKeyTotalShares = "total_shares"
	AttributeKeyTotalAssets = "total_assets"
	AttributeKeyEpoch       = "epoch"
	AttributeKeyFee         = "fee"
	AttributeKeyAccrued     = "accrued_fees"
	AttributeKeyHandle      = "handle"
	AttributeKeyFeeBps      = "performance_fee_bps"
	AttributeKeySwapID      = "swap_id"
	AttributeKeyOutput      = "output_amount"
	AttributeKeyMinOutput   = "min_output_amount"
)
