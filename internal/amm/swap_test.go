package amm

import (
	"errors"
	"math/big"
	"sync"
	"testing"

	"liquidityCore/internal/model"
)

func poolK(t *testing.T, registry *Registry, key PoolKey) *big.Int {
	t.Helper()
	info, err := registry.PoolInfo(key)
	if err != nil {
		t.Fatalf("pool info: %v", err)
	}
	x, ok := new(big.Int).SetString(info.ReserveX, 10)
	if !ok {
		t.Fatalf("invalid reserve: %s", info.ReserveX)
	}
	y, ok := new(big.Int).SetString(info.ReserveY, 10)
	if !ok {
		t.Fatalf("invalid reserve: %s", info.ReserveY)
	}
	return x.Mul(x, y)
}

func TestSwapConstantProduct(t *testing.T) {
	registry := NewRegistry(nil, nil)
	key := newTestPool(t, registry)

	// Bring the pool to reserves 1100/4400 as in the deposit scenario.
	if _, err := registry.AddLiquidity(bob, key, mustAsset(t, 100), mustAsset(t, 400)); err != nil {
		t.Fatalf("add liquidity: %v", err)
	}

	// in_after_fee = 110*9970 = 1,096,700
	// out = floor(1,096,700*4400 / (1100*10000 + 1,096,700)) = 398
	out, err := registry.Swap(carol, key, SideX, mustAsset(t, 110), big.NewInt(0))
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	if out.Amount().Int64() != 398 {
		t.Fatalf("amount out = %s, want 398", out.Amount())
	}

	info, err := registry.PoolInfo(key)
	if err != nil {
		t.Fatalf("pool info: %v", err)
	}
	if info.ReserveX != "1210" || info.ReserveY != "4002" {
		t.Fatalf("reserves mismatch: %+v", info)
	}
	if info.TotalShares != "2200" {
		t.Fatalf("swap changed total shares: %s", info.TotalShares)
	}
}

func TestSwapKStrictlyIncreasesWithFee(t *testing.T) {
	registry := NewRegistry(nil, nil)
	key := newTestPool(t, registry)

	before := poolK(t, registry, key)
	if _, err := registry.Swap(bob, key, SideX, mustAsset(t, 100), big.NewInt(0)); err != nil {
		t.Fatalf("swap: %v", err)
	}
	after := poolK(t, registry, key)

	if after.Cmp(before) <= 0 {
		t.Fatalf("k did not strictly increase: %s -> %s", before, after)
	}
}

func TestSwapKNonDecreasingZeroFee(t *testing.T) {
	registry := NewRegistry(nil, nil)
	if err := registry.CreatePool(alice, "TKA/TKB", mustAsset(t, 1000), mustAsset(t, 1000), 0); err != nil {
		t.Fatalf("create pool: %v", err)
	}
	key := PoolKey{Owner: alice, Pair: "TKA/TKB"}

	for i := 0; i < 10; i++ {
		before := poolK(t, registry, key)
		if _, err := registry.Swap(bob, key, SideY, mustAsset(t, 37), big.NewInt(0)); err != nil {
			t.Fatalf("swap %d: %v", i, err)
		}
		after := poolK(t, registry, key)
		if after.Cmp(before) < 0 {
			t.Fatalf("k decreased on swap %d: %s -> %s", i, before, after)
		}
	}
}

func TestSwapSlippageGuard(t *testing.T) {
	registry := NewRegistry(nil, nil)
	key := newTestPool(t, registry)

	in := mustAsset(t, 110)
	_, err := registry.Swap(bob, key, SideX, in, big.NewInt(1_000_000))
	if !errors.Is(err, ErrSlippageExceeded) {
		t.Fatalf("expected ErrSlippageExceeded, got %v", err)
	}
	if in.Amount().Int64() != 110 {
		t.Fatalf("failed swap moved custody: %s", in.Amount())
	}

	info, err := registry.PoolInfo(key)
	if err != nil {
		t.Fatalf("pool info: %v", err)
	}
	if info.ReserveX != "1000" || info.ReserveY != "4000" {
		t.Fatalf("failed swap mutated reserves: %+v", info)
	}
}

func TestSwapDrainGuard(t *testing.T) {
	registry := NewRegistry(nil, nil)
	if err := registry.CreatePool(alice, "TKA/TKB", mustAsset(t, 10), mustAsset(t, 10), 0); err != nil {
		t.Fatalf("create pool: %v", err)
	}
	key := PoolKey{Owner: alice, Pair: "TKA/TKB"}

	// No sequence of swaps may zero the output reserve.
	for i := 0; i < 64; i++ {
		if _, err := registry.Swap(bob, key, SideX, mustAsset(t, 1_000_000), big.NewInt(0)); err != nil {
			if !errors.Is(err, ErrInsufficientLiquidity) && !errors.Is(err, ErrSlippageExceeded) {
				t.Fatalf("unexpected error: %v", err)
			}
			break
		}
		info, err := registry.PoolInfo(key)
		if err != nil {
			t.Fatalf("pool info: %v", err)
		}
		if info.ReserveX == "0" || info.ReserveY == "0" {
			t.Fatalf("reserve drained to zero: %+v", info)
		}
	}

	info, err := registry.PoolInfo(key)
	if err != nil {
		t.Fatalf("pool info: %v", err)
	}
	if info.ReserveX == "0" || info.ReserveY == "0" {
		t.Fatalf("reserve drained to zero: %+v", info)
	}
}

func TestSwapErrors(t *testing.T) {
	registry := NewRegistry(nil, nil)
	key := newTestPool(t, registry)

	if _, err := registry.Swap(bob, key, SideX, mustAsset(t, 0), big.NewInt(0)); !errors.Is(err, ErrZeroAmount) {
		t.Fatalf("expected ErrZeroAmount, got %v", err)
	}
	if _, err := registry.Swap(bob, PoolKey{Owner: bob, Pair: "NO/PE"}, SideX, mustAsset(t, 1), big.NewInt(0)); !errors.Is(err, ErrPoolNotFound) {
		t.Fatalf("expected ErrPoolNotFound, got %v", err)
	}
}

func TestSwapEmitsEvent(t *testing.T) {
	sink := &memorySink{}
	registry := NewRegistry(sink, nil)
	key := newTestPool(t, registry)

	if _, err := registry.Swap(bob, key, SideY, mustAsset(t, 400), big.NewInt(0)); err != nil {
		t.Fatalf("swap: %v", err)
	}

	events := sink.all()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	swap, ok := events[1].Decoded.(model.SwapEventData)
	if !ok {
		t.Fatalf("unexpected payload type %T", events[1].Decoded)
	}
	if swap.Direction != "y" || swap.AmountIn != "400" || swap.FeeBps != 30 {
		t.Fatalf("swap payload mismatch: %+v", swap)
	}
}

func TestConcurrentSwapsKeepInvariants(t *testing.T) {
	registry := NewRegistry(nil, nil)
	keyA := newTestPool(t, registry)
	if err := registry.CreatePool(bob, "TKC/TKD", mustAsset(t, 500_000), mustAsset(t, 500_000), 10); err != nil {
		t.Fatalf("create second pool: %v", err)
	}
	keyB := PoolKey{Owner: bob, Pair: "TKC/TKD"}

	// Deepen pool A so concurrent trades cannot exhaust it.
	if _, err := registry.AddLiquidity(alice, keyA, mustAsset(t, 999_000), mustAsset(t, 3_996_000)); err != nil {
		t.Fatalf("deepen pool: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		side := SideX
		if i%2 == 1 {
			side = SideY
		}
		wg.Add(1)
		go func(side Side) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				registry.Swap(carol, keyA, side, mustAsset(t, 10), big.NewInt(0))
				registry.Swap(carol, keyB, side, mustAsset(t, 10), big.NewInt(0))
			}
		}(side)
	}
	wg.Wait()

	for _, key := range []PoolKey{keyA, keyB} {
		info, err := registry.PoolInfo(key)
		if err != nil {
			t.Fatalf("pool info: %v", err)
		}
		if info.ReserveX == "0" || info.ReserveY == "0" {
			t.Fatalf("reserve drained under concurrency: %+v", info)
		}
		assertShareConservation(t, registry, key)
	}
}
