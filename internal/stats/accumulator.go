package stats

import (
	"encoding/json"
	"fmt"
	"math/big"

	"liquidityCore/internal/model"
)

// Accumulator holds aggregate totals for one pool.
type Accumulator struct {
	Owner     string
	Pair      string
	SwapCount uint64
	MintCount uint64
	BurnCount uint64
	VolumeX   *big.Int
	VolumeY   *big.Int
	FeeX      *big.Int
	FeeY      *big.Int
	LastSeq   uint64
}

func NewAccumulator(record model.EventRecord) *Accumulator {
	return &Accumulator{
		Owner:   record.Owner,
		Pair:    record.Pair,
		VolumeX: big.NewInt(0),
		VolumeY: big.NewInt(0),
		FeeX:    big.NewInt(0),
		FeeY:    big.NewInt(0),
	}
}

// AddEvent folds one event into the totals. Swap volume counts both
// sides; the fee is attributed to the input side, computed from the
// event's own fee rate.
func (a *Accumulator) AddEvent(record model.EventRecord) error {
	if record.Seq > a.LastSeq {
		a.LastSeq = record.Seq
	}

	switch record.EventName {
	case model.EventSwap:
		var swap model.SwapEventData
		if err := json.Unmarshal(record.Decoded, &swap); err != nil {
			return fmt.Errorf("decode swap: %w", err)
		}
		return a.applySwap(swap)
	case model.EventMint:
		a.MintCount++
		return nil
	case model.EventBurn:
		a.BurnCount++
		return nil
	default:
		return nil
	}
}

func (a *Accumulator) applySwap(swap model.SwapEventData) error {
	amountIn, err := parseBigInt(swap.AmountIn)
	if err != nil {
		return err
	}
	amountOut, err := parseBigInt(swap.AmountOut)
	if err != nil {
		return err
	}

	fee := feeFromAmount(amountIn, swap.FeeBps)
	switch swap.Direction {
	case "x":
		a.VolumeX.Add(a.VolumeX, amountIn)
		a.VolumeY.Add(a.VolumeY, amountOut)
		a.FeeX.Add(a.FeeX, fee)
	case "y":
		a.VolumeY.Add(a.VolumeY, amountIn)
		a.VolumeX.Add(a.VolumeX, amountOut)
		a.FeeY.Add(a.FeeY, fee)
	default:
		return fmt.Errorf("invalid direction: %q", swap.Direction)
	}

	a.SwapCount++
	return nil
}

// Stats converts the accumulated totals into a storage record.
func (a *Accumulator) Stats() model.PoolStats {
	return model.PoolStats{
		Owner:     a.Owner,
		Pair:      a.Pair,
		SwapCount: a.SwapCount,
		MintCount: a.MintCount,
		BurnCount: a.BurnCount,
		VolumeX:   a.VolumeX.String(),
		VolumeY:   a.VolumeY.String(),
		FeeX:      a.FeeX.String(),
		FeeY:      a.FeeY.String(),
		LastSeq:   a.LastSeq,
	}
}

func parseBigInt(value string) (*big.Int, error) {
	if value == "" {
		return big.NewInt(0), nil
	}
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid int: %s", value)
	}
	return parsed, nil
}

func feeFromAmount(amountIn *big.Int, feeBps int64) *big.Int {
	if amountIn == nil || feeBps <= 0 {
		return big.NewInt(0)
	}
	fee := new(big.Int).Set(amountIn)
	fee.Mul(fee, big.NewInt(feeBps))
	fee.Div(fee, big.NewInt(10_000))
	return fee
}
