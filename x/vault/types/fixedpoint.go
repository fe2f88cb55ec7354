package types

import (
	"cosmossdk.io/errors"
	"cosmossdk.io/math"
)

// MulDiv returns floor(a*b/c) computed over a 256-bit intermediate.
// It fails with ErrArithmeticOverflow when c is zero or the quotient does not fit in a uint64.
func MulDiv(a, b, c uint64) (uint64, error) {
	return MulDivInt(math.NewIntFromUint64(a), math.NewIntFromUint64(b), math.NewIntFromUint64(c))
}

// MulDivInt is MulDiv over wide operands. Operands must be non-negative.
func MulDivInt(a, b, c math.Int) (uint64, error) {
	if a.IsNegative() || b.IsNegative() || c.IsNegative() {
		return 0, errors.Wrap(ErrArithmeticOverflow, "negative operand")
	}
	if c.IsZero() {
		return 0, errors.Wrap(ErrArithmeticOverflow, "division by zero")
	}

	product, err := a.SafeMul(b)
	if err != nil {
		return 0, errors.Wrapf(ErrArithmeticOverflow, "multiply %s by %s", a, b)
	}
	quotient, err := product.SafeQuo(c)
	if err != nil {
		return 0, errors.Wrap(ErrArithmeticOverflow, err.Error())
	}
	if !quotient.IsUint64() {
		return 0, errors.Wrapf(ErrArithmeticOverflow, "result %s exceeds 64 bits", quotient)
	}
	return quotient.Uint64(), nil
}

// SafeAdd returns a+b or ErrArithmeticOverflow.
func SafeAdd(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, errors.Wrapf(ErrArithmeticOverflow, "%d + %d", a, b)
	}
	return sum, nil
}

// SafeSub returns a-b or ErrArithmeticUnderflow.
func SafeSub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, errors.Wrapf(ErrArithmeticUnderflow, "%d - %d", a, b)
	}
	return a - b, nil
}
