package amm

import (
	"errors"
	"math/big"
	"testing"
)

func TestSqrtFloor(t *testing.T) {
	cases := []struct {
		in   int64
		want int64
	}{
		{0, 0},
		{1, 1},
		{3, 1},
		{4, 2},
		{8, 2},
		{9, 3},
		{4_000_000, 2000},
		{4_000_001, 2000},
		{3_999_999, 1999},
	}
	for _, tc := range cases {
		got := sqrtFloor(big.NewInt(tc.in))
		if got.Int64() != tc.want {
			t.Fatalf("sqrtFloor(%d) = %s, want %d", tc.in, got, tc.want)
		}
	}
}

func TestMulDivFloors(t *testing.T) {
	got, err := mulDiv(big.NewInt(7), big.NewInt(3), big.NewInt(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Int64() != 10 {
		t.Fatalf("mulDiv(7,3,2) = %s, want 10", got)
	}
}

func TestMulDivWideIntermediate(t *testing.T) {
	// a*b overflows 256 bits but the quotient fits; the full-width
	// intermediate must keep this exact.
	a := new(big.Int).Sub(maxAmount, big.NewInt(1))
	got, err := mulDiv(a, a, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Cmp(a) != 0 {
		t.Fatalf("mulDiv(a,a,a) = %s, want %s", got, a)
	}
}

func TestMulDivDivisionByZero(t *testing.T) {
	if _, err := mulDiv(big.NewInt(1), big.NewInt(1), big.NewInt(0)); !errors.Is(err, ErrArithmeticOverflow) {
		t.Fatalf("expected ErrArithmeticOverflow, got %v", err)
	}
}

func TestCheckedAddOverflow(t *testing.T) {
	almost := new(big.Int).Sub(maxAmount, big.NewInt(1))

	sum, err := checkedAdd(almost, big.NewInt(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Cmp(almost) != 0 {
		t.Fatalf("sum mismatch: %s", sum)
	}

	if _, err := checkedAdd(almost, big.NewInt(1)); !errors.Is(err, ErrArithmeticOverflow) {
		t.Fatalf("expected ErrArithmeticOverflow, got %v", err)
	}
}

func TestCheckedSubUnderflow(t *testing.T) {
	if _, err := checkedSub(big.NewInt(1), big.NewInt(2)); !errors.Is(err, ErrArithmeticOverflow) {
		t.Fatalf("expected ErrArithmeticOverflow, got %v", err)
	}
}
