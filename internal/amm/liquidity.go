package amm

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"liquidityCore/internal/asset"
	"liquidityCore/internal/model"
)

// AddLiquidity deposits amountX/amountY into the pool at key and mints
// shares to provider. The first deposit into an empty pool mints the
// geometric mean floor(sqrt(x*y)); later deposits mint
// min(x*S/reserveX, y*S/reserveY), rewarding the scarcer side so a
// deposit cannot skew the pool's price in the depositor's favor.
// Returns the minted share count.
func (r *Registry) AddLiquidity(provider common.Address, key PoolKey, amountX, amountY *asset.Asset) (*big.Int, error) {
	x := amountX.Amount()
	y := amountY.Amount()
	if x.Sign() == 0 || y.Sign() == 0 {
		return nil, fmt.Errorf("%w: deposit amounts must be positive", ErrZeroAmount)
	}
	if err := checkAmount(x); err != nil {
		return nil, err
	}
	if err := checkAmount(y); err != nil {
		return nil, err
	}

	p, err := r.getPool(key)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var minted *big.Int
	if p.totalShares.Sign() == 0 {
		minted = sqrtFloor(new(big.Int).Mul(x, y))
	} else {
		reserveX := p.reserveX.Amount()
		reserveY := p.reserveY.Amount()
		sharesX, err := mulDiv(x, p.totalShares, reserveX)
		if err != nil {
			return nil, err
		}
		sharesY, err := mulDiv(y, p.totalShares, reserveY)
		if err != nil {
			return nil, err
		}
		minted = minInt(sharesX, sharesY)
	}

	if minted.Sign() == 0 {
		return nil, fmt.Errorf("%w: deposit too small for current reserves", ErrZeroAmount)
	}

	newShares, err := checkedAdd(p.totalShares, minted)
	if err != nil {
		return nil, err
	}
	if _, err := checkedAdd(p.reserveX.Amount(), x); err != nil {
		return nil, err
	}
	if _, err := checkedAdd(p.reserveY.Amount(), y); err != nil {
		return nil, err
	}

	p.reserveX.Merge(amountX)
	p.reserveY.Merge(amountY)
	p.totalShares = newShares
	held, ok := p.positions[provider]
	if !ok {
		held = big.NewInt(0)
		p.positions[provider] = held
	}
	held.Add(held, minted)

	r.logger.Debug("liquidity added",
		zap.String("provider", provider.Hex()),
		zap.String("pair", key.Pair),
		zap.String("minted", minted.String()),
	)

	r.emit(key, model.EventMint, model.MintEventData{
		Provider: provider.Hex(),
		AmountX:  x.String(),
		AmountY:  y.String(),
		Shares:   minted.String(),
	})

	return new(big.Int).Set(minted), nil
}

// RemoveLiquidity burns shares held by provider and returns the
// proportional part of each reserve, floor(shares*reserve/totalShares)
// per side. A partial burn can never empty a reserve; only burning the
// entire supply drains the pool.
func (r *Registry) RemoveLiquidity(provider common.Address, key PoolKey, shares *big.Int) (*asset.Asset, *asset.Asset, error) {
	if shares == nil || shares.Sign() == 0 {
		return nil, nil, fmt.Errorf("%w: shares to burn must be positive", ErrZeroAmount)
	}

	p, err := r.getPool(key)
	if err != nil {
		return nil, nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	held, ok := p.positions[provider]
	if !ok || held.Cmp(shares) < 0 {
		return nil, nil, fmt.Errorf("%w: provider %s", ErrInsufficientShares, provider.Hex())
	}

	xOut, err := mulDiv(shares, p.reserveX.Amount(), p.totalShares)
	if err != nil {
		return nil, nil, err
	}
	yOut, err := mulDiv(shares, p.reserveY.Amount(), p.totalShares)
	if err != nil {
		return nil, nil, err
	}
	if xOut.Sign() == 0 || yOut.Sign() == 0 {
		return nil, nil, fmt.Errorf("%w: burn pays out zero on one side", ErrZeroAmount)
	}

	assetX, err := p.reserveX.Extract(xOut)
	if err != nil {
		return nil, nil, err
	}
	assetY, err := p.reserveY.Extract(yOut)
	if err != nil {
		// Roll the first extraction back so failure leaves no partial effect.
		p.reserveX.Merge(assetX)
		return nil, nil, err
	}

	held.Sub(held, shares)
	if held.Sign() == 0 {
		delete(p.positions, provider)
	}
	p.totalShares.Sub(p.totalShares, shares)

	r.emit(key, model.EventBurn, model.BurnEventData{
		Provider: provider.Hex(),
		Shares:   shares.String(),
		AmountX:  xOut.String(),
		AmountY:  yOut.String(),
	})

	return assetX, assetY, nil
}
