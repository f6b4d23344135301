package amm

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"liquidityCore/internal/asset"
	"liquidityCore/internal/model"
)

// Side selects which reserve a swap feeds.
type Side int

const (
	SideX Side = iota
	SideY
)

func (s Side) String() string {
	if s == SideX {
		return "x"
	}
	return "y"
}

// ParseSide converts "x" or "y" into a Side.
func ParseSide(input string) (Side, error) {
	switch input {
	case "x":
		return SideX, nil
	case "y":
		return SideY, nil
	default:
		return 0, fmt.Errorf("invalid side: %q", input)
	}
}

// Swap trades amountIn of the side reserve for the opposite asset along
// the constant-product curve. The fee is taken from the input side and
// stays in the pool, so reserveX*reserveY never decreases across a swap.
// The output is computed as
//
//	out = inAfterFee*reserveOut / (reserveIn*10000 + inAfterFee)
//
// with inAfterFee = amountIn*(10000-feeBps), dividing by the basis-point
// denominator only at the final step. Fails with ErrSlippageExceeded when
// out < minAmountOut and with ErrInsufficientLiquidity when the swap
// would drain the output reserve entirely.
func (r *Registry) Swap(trader common.Address, key PoolKey, side Side, amountIn *asset.Asset, minAmountOut *big.Int) (*asset.Asset, error) {
	in := amountIn.Amount()
	if in.Sign() == 0 {
		return nil, fmt.Errorf("%w: swap input must be positive", ErrZeroAmount)
	}
	if err := checkAmount(in); err != nil {
		return nil, err
	}
	if minAmountOut == nil {
		minAmountOut = big.NewInt(0)
	}

	p, err := r.getPool(key)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	reserveIn, reserveOut := p.reserveX, p.reserveY
	if side == SideY {
		reserveIn, reserveOut = p.reserveY, p.reserveX
	}
	rIn := reserveIn.Amount()
	rOut := reserveOut.Amount()

	inAfterFee := new(big.Int).Mul(in, big.NewInt(feeDenom-p.feeBps))
	numerator := new(big.Int).Mul(inAfterFee, rOut)
	denominator := new(big.Int).Mul(rIn, big.NewInt(feeDenom))
	denominator.Add(denominator, inAfterFee)
	out := numerator.Div(numerator, denominator)

	if out.Cmp(minAmountOut) < 0 {
		return nil, fmt.Errorf("%w: computed %s, minimum %s", ErrSlippageExceeded, out, minAmountOut)
	}
	if out.Cmp(rOut) >= 0 {
		return nil, fmt.Errorf("%w: output %s would drain reserve %s", ErrInsufficientLiquidity, out, rOut)
	}
	if _, err := checkedAdd(rIn, in); err != nil {
		return nil, err
	}

	reserveIn.Merge(amountIn)
	assetOut, err := reserveOut.Extract(out)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("swap executed",
		zap.String("trader", trader.Hex()),
		zap.String("pair", key.Pair),
		zap.String("direction", side.String()),
		zap.String("amount_in", in.String()),
		zap.String("amount_out", out.String()),
	)

	r.emit(key, model.EventSwap, model.SwapEventData{
		Trader:    trader.Hex(),
		Direction: side.String(),
		AmountIn:  in.String(),
		AmountOut: out.String(),
		FeeBps:    p.feeBps,
	})

	return assetOut, nil
}
