package amm

import (
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"liquidityCore/internal/asset"
	"liquidityCore/internal/model"
)

var (
	alice = common.HexToAddress("0x1111111111111111111111111111111111111111")
	bob   = common.HexToAddress("0x2222222222222222222222222222222222222222")
	carol = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

// memorySink collects emitted events for assertions.
type memorySink struct {
	mu     sync.Mutex
	events []model.Event
}

func (s *memorySink) PutEventBatch(events []model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
	return nil
}

func (s *memorySink) all() []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Event, len(s.events))
	copy(out, s.events)
	return out
}

func mustAsset(t *testing.T, amount int64) *asset.Asset {
	t.Helper()
	a, err := asset.New(big.NewInt(amount))
	if err != nil {
		t.Fatalf("asset: %v", err)
	}
	return a
}

// newTestPool creates a pool with reserves 1000/4000 at 30 bps.
func newTestPool(t *testing.T, registry *Registry) PoolKey {
	t.Helper()
	if err := registry.CreatePool(alice, "TKA/TKB", mustAsset(t, 1000), mustAsset(t, 4000), 30); err != nil {
		t.Fatalf("create pool: %v", err)
	}
	return PoolKey{Owner: alice, Pair: "TKA/TKB"}
}

func TestCreatePoolMintsGeometricMean(t *testing.T) {
	registry := NewRegistry(nil, nil)
	key := newTestPool(t, registry)

	info, err := registry.PoolInfo(key)
	if err != nil {
		t.Fatalf("pool info: %v", err)
	}
	if info.ReserveX != "1000" || info.ReserveY != "4000" {
		t.Fatalf("reserves mismatch: %+v", info)
	}
	if info.TotalShares != "2000" {
		t.Fatalf("total shares = %s, want 2000", info.TotalShares)
	}
	if info.FeeBps != 30 {
		t.Fatalf("fee = %d, want 30", info.FeeBps)
	}

	held, err := registry.Position(alice, key)
	if err != nil {
		t.Fatalf("position: %v", err)
	}
	if held.Int64() != 2000 {
		t.Fatalf("creator position = %s, want 2000", held)
	}
}

func TestCreatePoolTransfersCustody(t *testing.T) {
	registry := NewRegistry(nil, nil)
	x := mustAsset(t, 1000)
	y := mustAsset(t, 4000)

	if err := registry.CreatePool(alice, "TKA/TKB", x, y, 30); err != nil {
		t.Fatalf("create pool: %v", err)
	}
	if x.Amount().Sign() != 0 || y.Amount().Sign() != 0 {
		t.Fatalf("caller retained custody after create: %s / %s", x.Amount(), y.Amount())
	}
}

func TestCreatePoolDuplicateKey(t *testing.T) {
	registry := NewRegistry(nil, nil)
	newTestPool(t, registry)

	x := mustAsset(t, 10)
	y := mustAsset(t, 10)
	err := registry.CreatePool(alice, "TKA/TKB", x, y, 30)
	if !errors.Is(err, ErrPoolAlreadyExists) {
		t.Fatalf("expected ErrPoolAlreadyExists, got %v", err)
	}
	if x.Amount().Int64() != 10 || y.Amount().Int64() != 10 {
		t.Fatalf("failed create moved custody: %s / %s", x.Amount(), y.Amount())
	}

	// Same pair under a different owner is a distinct pool.
	if err := registry.CreatePool(bob, "TKA/TKB", mustAsset(t, 10), mustAsset(t, 10), 0); err != nil {
		t.Fatalf("create under second owner: %v", err)
	}
}

func TestCreatePoolValidation(t *testing.T) {
	registry := NewRegistry(nil, nil)

	if err := registry.CreatePool(alice, "TKA/TKB", mustAsset(t, 0), mustAsset(t, 10), 30); !errors.Is(err, ErrZeroAmount) {
		t.Fatalf("expected ErrZeroAmount for zero x, got %v", err)
	}
	if err := registry.CreatePool(alice, "TKA/TKB", mustAsset(t, 10), mustAsset(t, 0), 30); !errors.Is(err, ErrZeroAmount) {
		t.Fatalf("expected ErrZeroAmount for zero y, got %v", err)
	}
	if err := registry.CreatePool(alice, "TKA/TKB", mustAsset(t, 10), mustAsset(t, 10), 10_000); !errors.Is(err, ErrInvalidFeeRate) {
		t.Fatalf("expected ErrInvalidFeeRate for 10000 bps, got %v", err)
	}
	if err := registry.CreatePool(alice, "TKA/TKB", mustAsset(t, 10), mustAsset(t, 10), -1); !errors.Is(err, ErrInvalidFeeRate) {
		t.Fatalf("expected ErrInvalidFeeRate for negative bps, got %v", err)
	}
}

func TestPoolInfoNotFound(t *testing.T) {
	registry := NewRegistry(nil, nil)

	_, err := registry.PoolInfo(PoolKey{Owner: alice, Pair: "TKA/TKB"})
	if !errors.Is(err, ErrPoolNotFound) {
		t.Fatalf("expected ErrPoolNotFound, got %v", err)
	}
}

func TestPoolInfoIdempotent(t *testing.T) {
	registry := NewRegistry(nil, nil)
	key := newTestPool(t, registry)

	first, err := registry.PoolInfo(key)
	if err != nil {
		t.Fatalf("pool info: %v", err)
	}
	second, err := registry.PoolInfo(key)
	if err != nil {
		t.Fatalf("pool info: %v", err)
	}
	if first != second {
		t.Fatalf("queries without mutation differ: %+v != %+v", first, second)
	}
}

func TestCreatePoolEmitsMint(t *testing.T) {
	sink := &memorySink{}
	registry := NewRegistry(sink, nil)
	newTestPool(t, registry)

	events := sink.all()
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	if events[0].EventName != model.EventMint || events[0].Seq != 1 {
		t.Fatalf("unexpected event: %+v", events[0])
	}
	mint, ok := events[0].Decoded.(model.MintEventData)
	if !ok {
		t.Fatalf("unexpected payload type %T", events[0].Decoded)
	}
	if mint.Shares != "2000" || mint.AmountX != "1000" || mint.AmountY != "4000" {
		t.Fatalf("mint payload mismatch: %+v", mint)
	}
}
