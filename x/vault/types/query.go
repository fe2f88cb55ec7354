package types

// EpochStatus describes where a vault sits in its epoch cycle.
type EpochStatus struct {
	VaultID         string `json:"vault_id"`
	Epoch           uint64 `json:"epoch"`
	Phase           string `json:"phase"`
	Now             int64  `json:"now"`
	LastEpochUpdate int64  `json:"last_epoch_update"`
	ElapsedSeconds  int64  `json:"elapsed_seconds"`
	NextTransition  int64  `json:"next_transition"`
}

// PositionValue is a position priced at the recorded totals.
type PositionValue struct {
	VaultID  string `json:"vault_id"`
	Investor string `json:"investor"`
	Shares   uint64 `json:"shares"`
	Assets   uint64 `json:"assets"`
}

// Preview is the share amount an operation would mint or burn right now.
type Preview struct {
	VaultID string `json:"vault_id"`
	Amount  uint64 `json:"amount"`
	Shares  uint64 `json:"shares"`
	Phase   string `json:"phase"`
}
