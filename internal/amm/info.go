package amm

import (
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"liquidityCore/internal/model"
)

// PoolInfo returns a read-only snapshot of the pool at key.
func (r *Registry) PoolInfo(key PoolKey) (model.PoolSnapshot, error) {
	p, err := r.getPool(key)
	if err != nil {
		return model.PoolSnapshot{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return snapshotLocked(p), nil
}

// Position returns provider's share balance in the pool at key. A pool
// the provider never deposited into reports zero shares.
func (r *Registry) Position(provider common.Address, key PoolKey) (*big.Int, error) {
	p, err := r.getPool(key)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	held, ok := p.positions[provider]
	if !ok {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(held), nil
}

// Snapshots returns every pool's state, ordered by owner then pair.
func (r *Registry) Snapshots() []model.PoolSnapshot {
	r.mu.RLock()
	pools := make([]*pool, 0, len(r.pools))
	for _, p := range r.pools {
		pools = append(pools, p)
	}
	r.mu.RUnlock()

	snapshots := make([]model.PoolSnapshot, 0, len(pools))
	for _, p := range pools {
		p.mu.Lock()
		snapshots = append(snapshots, snapshotLocked(p))
		p.mu.Unlock()
	}
	sort.Slice(snapshots, func(i, j int) bool {
		if snapshots[i].Owner != snapshots[j].Owner {
			return snapshots[i].Owner < snapshots[j].Owner
		}
		return snapshots[i].Pair < snapshots[j].Pair
	})
	return snapshots
}

// Positions returns every provider position, ordered by owner, pair,
// then provider.
func (r *Registry) Positions() []model.Position {
	r.mu.RLock()
	pools := make([]*pool, 0, len(r.pools))
	for _, p := range r.pools {
		pools = append(pools, p)
	}
	r.mu.RUnlock()

	positions := make([]model.Position, 0, len(pools))
	for _, p := range pools {
		p.mu.Lock()
		for provider, held := range p.positions {
			positions = append(positions, model.Position{
				Provider: provider.Hex(),
				Owner:    p.key.Owner.Hex(),
				Pair:     p.key.Pair,
				Shares:   held.String(),
			})
		}
		p.mu.Unlock()
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Owner != positions[j].Owner {
			return positions[i].Owner < positions[j].Owner
		}
		if positions[i].Pair != positions[j].Pair {
			return positions[i].Pair < positions[j].Pair
		}
		return positions[i].Provider < positions[j].Provider
	})
	return positions
}

func snapshotLocked(p *pool) model.PoolSnapshot {
	return model.PoolSnapshot{
		Owner:       p.key.Owner.Hex(),
		Pair:        p.key.Pair,
		ReserveX:    p.reserveX.Amount().String(),
		ReserveY:    p.reserveY.Amount().String(),
		TotalShares: p.totalShares.String(),
		FeeBps:      p.feeBps,
	}
}
