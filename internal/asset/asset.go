package asset

import (
	"fmt"
	"math/big"
)

// Asset is a fungible value held by exactly one owner at a time. Custody
// moves via Merge and Extract; the contained amount is never shared.
type Asset struct {
	amount *big.Int
}

// New creates an asset holding amount. The amount is copied.
func New(amount *big.Int) (*Asset, error) {
	if amount == nil {
		return nil, fmt.Errorf("amount is nil")
	}
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("amount is negative: %s", amount)
	}
	return &Asset{amount: new(big.Int).Set(amount)}, nil
}

// Zero creates an empty asset.
func Zero() *Asset {
	return &Asset{amount: big.NewInt(0)}
}

// Amount returns a copy of the held amount.
func (a *Asset) Amount() *big.Int {
	if a == nil || a.amount == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(a.amount)
}

// Merge moves the full value of from into a, leaving from empty.
func (a *Asset) Merge(from *Asset) {
	if from == nil || from.amount == nil {
		return
	}
	if a.amount == nil {
		a.amount = big.NewInt(0)
	}
	a.amount.Add(a.amount, from.amount)
	from.amount = big.NewInt(0)
}

// Extract splits amount out of a into a new asset. It fails without
// modifying a when a holds less than amount.
func (a *Asset) Extract(amount *big.Int) (*Asset, error) {
	if amount == nil || amount.Sign() < 0 {
		return nil, fmt.Errorf("extract amount is invalid")
	}
	if a == nil || a.amount == nil || a.amount.Cmp(amount) < 0 {
		return nil, fmt.Errorf("extract %s exceeds held amount", amount)
	}
	a.amount.Sub(a.amount, amount)
	return &Asset{amount: new(big.Int).Set(amount)}, nil
}
