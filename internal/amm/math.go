package amm

import (
	"fmt"
	"math/big"
)

// maxAmount bounds every stored amount and truncated result. Intermediate
// products are computed at full width and only checked after division.
var maxAmount = new(big.Int).Lsh(big.NewInt(1), 256)

func checkAmount(value *big.Int) error {
	if value.Cmp(maxAmount) >= 0 {
		return fmt.Errorf("%w: %s exceeds maximum amount", ErrArithmeticOverflow, value)
	}
	return nil
}

// checkedAdd returns a+b, failing when the sum exceeds the amount bound.
func checkedAdd(a, b *big.Int) (*big.Int, error) {
	sum := new(big.Int).Add(a, b)
	if err := checkAmount(sum); err != nil {
		return nil, err
	}
	return sum, nil
}

// checkedSub returns a-b, failing on underflow.
func checkedSub(a, b *big.Int) (*big.Int, error) {
	if a.Cmp(b) < 0 {
		return nil, fmt.Errorf("%w: cannot subtract %s from %s", ErrArithmeticOverflow, b, a)
	}
	return new(big.Int).Sub(a, b), nil
}

// mulDiv returns floor(a*b/den) with a full-width intermediate product.
func mulDiv(a, b, den *big.Int) (*big.Int, error) {
	if den.Sign() == 0 {
		return nil, fmt.Errorf("%w: division by zero", ErrArithmeticOverflow)
	}
	product := new(big.Int).Mul(a, b)
	quotient := product.Div(product, den)
	if err := checkAmount(quotient); err != nil {
		return nil, err
	}
	return quotient, nil
}

// sqrtFloor returns the floor integer square root of x.
func sqrtFloor(x *big.Int) *big.Int {
	return new(big.Int).Sqrt(x)
}

func minInt(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}
