package app

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/openalpha/hedge-vault/x/vault/types"
)

// MaxBoundHandleLength is the longest social handle the binding accepts
const MaxBoundHandleLength = 15

// HandleProofBinding binds a social handle to an owner with a hash commitment.
// The proof is hex(sha256(handle + ":" + owner)).
type HandleProofBinding struct{}

var _ types.IdentityBinding = HandleProofBinding{}

// ProofFor returns the proof that binds handle to owner
func ProofFor(handle, owner string) string {
	sum := sha256.Sum256([]byte(handle + ":" + owner))
	return hex.EncodeToString(sum[:])
}

// ValidateFormat accepts 1..15 bytes of Unicode letters, numbers and underscore
func (HandleProofBinding) ValidateFormat(handle string) bool {
	if len(handle) == 0 || len(handle) > MaxBoundHandleLength || !utf8.ValidString(handle) {
		return false
	}
	for _, c := range handle {
		if !unicode.IsLetter(c) && !unicode.IsNumber(c) && c != '_' {
			return false
		}
	}
	return true
}

// Verify checks the proof against the handle and claimed owner. A proof that is
// not 32 bytes of hex is an error; a well-formed proof for someone else is false.
func (HandleProofBinding) Verify(handle, proof, claimedOwner string) (bool, error) {
	bz, err := hex.DecodeString(proof)
	if err != nil {
		return false, fmt.Errorf("proof is not hex: %w", err)
	}
	if len(bz) != sha256.Size {
		return false, fmt.Errorf("proof is %d bytes, want %d", len(bz), sha256.Size)
	}
	want := sha256.Sum256([]byte(handle + ":" + claimedOwner))
	return bytes.Equal(bz, want[:]), nil
}

// FixedRateRouter is a simulated venue that fills at a fixed rate
type FixedRateRouter struct {
	// RateBps is the output per unit of input, in basis points
	RateBps uint64
	// Liquidity caps a single input; zero is unlimited
	Liquidity uint64
	// Fail makes every execution fail
	Fail error
}

var _ types.SwapRouter = (*FixedRateRouter)(nil)

// NewFixedRateRouter creates a router with the given rate and liquidity
func NewFixedRateRouter(rateBps, liquidity uint64) *FixedRateRouter {
	return &FixedRateRouter{RateBps: rateBps, Liquidity: liquidity}
}

// Execute implements types.SwapRouter
func (r *FixedRateRouter) Execute(_ context.Context, input, _ uint64) (uint64, error) {
	if r.Fail != nil {
		return 0, r.Fail
	}
	if r.Liquidity > 0 && input > r.Liquidity {
		return 0, fmt.Errorf("input %d exceeds liquidity %d", input, r.Liquidity)
	}
	return types.MulDiv(input, r.RateBps, types.BpsDenominator)
}
