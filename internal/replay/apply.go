package replay

import (
	"fmt"

	"liquidityCore/internal/amm"
	"liquidityCore/internal/asset"
	"liquidityCore/internal/model"
)

// applyOp parses one operation record and applies it to the engine. Any
// returned error means the record was rejected and the engine untouched.
func applyOp(registry *amm.Registry, op model.OpRecord) error {
	account, err := ParseAddress(op.Account)
	if err != nil {
		return fmt.Errorf("account: %w", err)
	}

	pair, err := ParsePair(op.Pair)
	if err != nil {
		return err
	}

	owner := account
	if op.Owner != "" {
		owner, err = ParseAddress(op.Owner)
		if err != nil {
			return fmt.Errorf("owner: %w", err)
		}
	}
	key := amm.PoolKey{Owner: owner, Pair: pair}

	switch op.Op {
	case model.OpCreatePool:
		x, y, err := parseAmountPair(op.AmountX, op.AmountY)
		if err != nil {
			return err
		}
		return registry.CreatePool(account, pair, x, y, op.FeeBps)

	case model.OpAddLiquidity:
		x, y, err := parseAmountPair(op.AmountX, op.AmountY)
		if err != nil {
			return err
		}
		_, err = registry.AddLiquidity(account, key, x, y)
		return err

	case model.OpRemoveLiquidity:
		shares, err := ParseAmount(op.Shares)
		if err != nil {
			return fmt.Errorf("shares: %w", err)
		}
		_, _, err = registry.RemoveLiquidity(account, key, shares)
		return err

	case model.OpSwap:
		side, err := amm.ParseSide(op.Side)
		if err != nil {
			return err
		}
		amountIn, err := ParseAmount(op.AmountIn)
		if err != nil {
			return fmt.Errorf("amount_in: %w", err)
		}
		minOut, err := ParseAmount(op.MinAmountOut)
		if err != nil {
			return fmt.Errorf("min_amount_out: %w", err)
		}
		in, err := asset.New(amountIn)
		if err != nil {
			return err
		}
		_, err = registry.Swap(account, key, side, in, minOut)
		return err

	default:
		return fmt.Errorf("unknown op: %q", op.Op)
	}
}

func parseAmountPair(rawX, rawY string) (*asset.Asset, *asset.Asset, error) {
	amountX, err := ParseAmount(rawX)
	if err != nil {
		return nil, nil, fmt.Errorf("amount_x: %w", err)
	}
	amountY, err := ParseAmount(rawY)
	if err != nil {
		return nil, nil, fmt.Errorf("amount_y: %w", err)
	}
	x, err := asset.New(amountX)
	if err != nil {
		return nil, nil, err
	}
	y, err := asset.New(amountY)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}
