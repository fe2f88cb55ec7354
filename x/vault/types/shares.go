package types

import (
	"cosmossdk.io/errors"
)

// PriceForDeposit returns the shares minted for a deposit of amount against the
// pre-deposit totals. An empty pool prices 1:1.
func PriceForDeposit(amount, totalShares, totalAssets uint64) (uint64, error) {
	if totalShares == 0 {
		return amount, nil
	}
	if totalAssets == 0 {
		return 0, errors.Wrapf(ErrPoolInconsistent, "%d shares outstanding against zero assets", totalShares)
	}
	return MulDiv(amount, totalShares, totalAssets)
}

// SharesToBurn returns the shares redeemed by withdrawing amount against the
// pre-withdrawal totals.
func SharesToBurn(amount, totalShares, totalAssets uint64) (uint64, error) {
	if amount == 0 {
		return 0, nil
	}
	if totalAssets == 0 {
		return 0, errors.Wrapf(ErrPoolInconsistent, "withdrawal of %d from a pool with zero assets", amount)
	}
	return MulDiv(amount, totalShares, totalAssets)
}

// AssetsForShares values shares at the current price, rounding down.
func AssetsForShares(shares, totalShares, totalAssets uint64) (uint64, error) {
	if totalShares == 0 {
		return 0, nil
	}
	return MulDiv(shares, totalAssets, totalShares)
}
