package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrInvalidPerformanceFee  = errors.Register(ModuleName, 1, "performance fee exceeds maximum")
	ErrInvalidHandleFormat    = errors.Register(ModuleName, 2, "invalid handle format")
	ErrInvalidProof           = errors.Register(ModuleName, 3, "handle proof verification failed")
	ErrArithmeticOverflow     = errors.Register(ModuleName, 4, "arithmetic overflow")
	ErrArithmeticUnderflow    = errors.Register(ModuleName, 5, "arithmetic underflow")
	ErrPoolInconsistent       = errors.Register(ModuleName, 6, "pool state inconsistent")
	ErrDepositWindowClosed    = errors.Register(ModuleName, 7, "deposit window closed")
	ErrWithdrawalWindowClosed = errors.Register(ModuleName, 8, "withdrawal window closed")
	ErrEpochNotReady          = errors.Register(ModuleName, 9, "epoch not ready to advance")
	ErrInsufficientShares     = errors.Register(ModuleName, 10, "insufficient shares")
	ErrUnauthorized           = errors.Register(ModuleName, 11, "unauthorized")
	ErrTransferFailed         = errors.Register(ModuleName, 12, "asset transfer failed")
	ErrSwapFailed             = errors.Register(ModuleName, 13, "swap execution failed")
	ErrSlippageExceeded       = errors.Register(ModuleName, 14, "slippage tolerance exceeded")

	// Ledger errors
	ErrVaultNotFound         = errors.Register(ModuleName, 20, "vault not found")
	ErrVaultExists           = errors.Register(ModuleName, 21, "vault already exists for operator")
	ErrInvalidAmount         = errors.Register(ModuleName, 22, "invalid amount")
	ErrInvalidVaultName      = errors.Register(ModuleName, 23, "invalid vault name")
	ErrInvalidAsset          = errors.Register(ModuleName, 24, "invalid asset id")
	ErrAmountBelowSharePrice = errors.Register(ModuleName, 25, "amount below the price of one share")
	ErrInvalidGenesis        = errors.Register(ModuleName, 26, "invalid genesis state")
	ErrPositionNotFound      = errors.Register(ModuleName, 27, "position not found")
)
