package cli

const (
	FlagOperator = "operator"
)
