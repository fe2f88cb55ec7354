package types

import (
	"cosmossdk.io/errors"
)

// Fee limits, in basis points
const (
	BpsDenominator       = uint64(10000)
	MaxPerformanceFeeBps = uint32(5000)
)

// ValidatePerformanceFee rejects rates above 50%.
func ValidatePerformanceFee(feeBps uint32) error {
	if feeBps > MaxPerformanceFeeBps {
		return errors.Wrapf(ErrInvalidPerformanceFee, "%d bps exceeds %d bps", feeBps, MaxPerformanceFeeBps)
	}
	return nil
}

// AccrueOnAdvance computes the performance fee owed on the move from oldTotalAssets
// to newTotalAssets. The fee stays inside the effective total; it is tracked
// separately in the vault's accrued fee balance until claimed.
func AccrueOnAdvance(oldTotalAssets, newTotalAssets uint64, feeBps uint32) (fee, effectiveNewTotalAssets uint64, err error) {
	if newTotalAssets <= oldTotalAssets {
		return 0, newTotalAssets, nil
	}
	profit := newTotalAssets - oldTotalAssets
	fee, err = MulDiv(profit, uint64(feeBps), BpsDenominator)
	if err != nil {
		return 0, 0, err
	}
	return fee, newTotalAssets, nil
}

// ClaimFees pays out the whole accrued balance. A zero balance pays zero.
func ClaimFees(accruedFees uint64) (amountToPay, newAccruedFees uint64) {
	return accruedFees, 0
}
