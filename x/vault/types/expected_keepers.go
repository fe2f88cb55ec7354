package types

import (
	"context"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// AssetTransfer moves the pooled asset between custody accounts. A move is
// atomic: it either moves the full amount or fails without effect.
type AssetTransfer interface {
	Move(ctx context.Context, from, to string, amount uint64) error
}

// IdentityBinding checks that an external handle belongs to an operator.
type IdentityBinding interface {
	ValidateFormat(handle string) bool
	Verify(handle, proof, claimedOwner string) (bool, error)
}

// SwapRouter executes a trade and reports the realized output.
type SwapRouter interface {
	Execute(ctx context.Context, inputAmount, minOutputAmount uint64) (uint64, error)
}

// Clock supplies the current time. Readings must be non-decreasing.
type Clock interface {
	Now(ctx sdk.Context) time.Time
}
