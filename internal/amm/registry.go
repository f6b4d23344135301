package amm

import (
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"liquidityCore/internal/asset"
	"liquidityCore/internal/model"
	"liquidityCore/internal/storage"
)

// feeDenom is the basis-point denominator for swap fees.
const feeDenom = 10_000

// PoolKey identifies one pool: the creating owner plus the asset pair.
type PoolKey struct {
	Owner common.Address
	Pair  string
}

// pool is the custodial record of two reserves, the aggregate share
// supply, and each provider's position. All mutation happens under mu,
// so reserves and shares are always observed as a consistent snapshot.
type pool struct {
	mu          sync.Mutex
	key         PoolKey
	feeBps      int64
	reserveX    *asset.Asset
	reserveY    *asset.Asset
	totalShares *big.Int
	positions   map[common.Address]*big.Int
}

// Registry creates and locates pools. Operations on different pool keys
// run in parallel; operations on one pool serialize on its lock.
type Registry struct {
	mu     sync.RWMutex
	pools  map[PoolKey]*pool
	sink   storage.EventSink
	logger *zap.Logger
	seq    atomic.Uint64
}

// NewRegistry builds a Registry. Sink and logger may be nil.
func NewRegistry(sink storage.EventSink, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		pools:  make(map[PoolKey]*pool),
		sink:   sink,
		logger: logger,
	}
}

// CreatePool creates the pool for (creator, pair), seeding its reserves
// with initialX/initialY and minting floor(sqrt(x*y)) shares to the
// creator. Custody of both assets transfers only when every precondition
// holds; on failure the caller retains both.
func (r *Registry) CreatePool(creator common.Address, pair string, initialX, initialY *asset.Asset, feeBps int64) error {
	if feeBps < 0 || feeBps >= feeDenom {
		return fmt.Errorf("%w: %d bps", ErrInvalidFeeRate, feeBps)
	}

	x := initialX.Amount()
	y := initialY.Amount()
	if x.Sign() == 0 || y.Sign() == 0 {
		return fmt.Errorf("%w: initial reserves must be positive", ErrZeroAmount)
	}
	if err := checkAmount(x); err != nil {
		return err
	}
	if err := checkAmount(y); err != nil {
		return err
	}

	shares := sqrtFloor(new(big.Int).Mul(x, y))
	key := PoolKey{Owner: creator, Pair: pair}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pools[key]; exists {
		return fmt.Errorf("%w: %s %s", ErrPoolAlreadyExists, creator.Hex(), pair)
	}

	created := &pool{
		key:         key,
		feeBps:      feeBps,
		reserveX:    asset.Zero(),
		reserveY:    asset.Zero(),
		totalShares: shares,
		positions:   map[common.Address]*big.Int{creator: new(big.Int).Set(shares)},
	}
	created.reserveX.Merge(initialX)
	created.reserveY.Merge(initialY)
	r.pools[key] = created

	r.logger.Info("pool created",
		zap.String("owner", creator.Hex()),
		zap.String("pair", pair),
		zap.String("reserve_x", x.String()),
		zap.String("reserve_y", y.String()),
		zap.String("shares", shares.String()),
		zap.Int64("fee_bps", feeBps),
	)

	r.emit(key, model.EventMint, model.MintEventData{
		Provider: creator.Hex(),
		AmountX:  x.String(),
		AmountY:  y.String(),
		Shares:   shares.String(),
	})

	return nil
}

func (r *Registry) getPool(key PoolKey) (*pool, error) {
	r.mu.RLock()
	found, ok := r.pools[key]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrPoolNotFound, key.Owner.Hex(), key.Pair)
	}
	return found, nil
}

// emit hands an event to the sink. Events are observability only, so a
// sink failure is logged and never fails the operation that produced it.
func (r *Registry) emit(key PoolKey, name string, payload interface{}) {
	if r.sink == nil {
		return
	}
	event := model.Event{
		Seq:       r.seq.Add(1),
		EventName: name,
		Owner:     key.Owner.Hex(),
		Pair:      key.Pair,
		EmittedAt: time.Now().UTC().Format(time.RFC3339Nano),
		Decoded:   payload,
	}
	if err := r.sink.PutEventBatch([]model.Event{event}); err != nil {
		r.logger.Warn("event sink write failed", zap.String("event", name), zap.Error(err))
	}
}
