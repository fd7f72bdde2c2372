// Package registry is the key-addressed store of per-pool state and the
// administrative surface around it. All state is reached through an
// explicit Registry value; there is no ambient global map.
package registry

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/itskillian/hookathon-hooks/internal/types"
	"go.uber.org/zap"
)

// ConfigChange is emitted once per successful Configure call.
type ConfigChange struct {
	Pool          types.PoolID
	Reference     types.PoolKey
	QuoteIsToken1 bool
}

type Registry struct {
	mu        sync.RWMutex
	owner     common.Address
	maxFeeBps float64
	pools     map[types.PoolID]*PoolState
	creators  map[types.PoolID]common.Address
	log       *zap.Logger

	// OnConfigured, when set, receives the configuration-changed
	// notification. Set before first use; not guarded.
	OnConfigured func(ConfigChange)
}

func New(owner common.Address, maxFeeBps float64, log *zap.Logger) *Registry {
	return &Registry{
		owner:     owner,
		maxFeeBps: maxFeeBps,
		pools:     make(map[types.PoolID]*PoolState, 16),
		creators:  make(map[types.PoolID]common.Address, 16),
		log:       log,
	}
}

// Register creates the PoolState record for a pool. The creator becomes
// the initial pool owner and is the only identity allowed to configure.
func (r *Registry) Register(key types.PoolKey, creator common.Address, minFeeBps float64, decimalsDelta int) (types.PoolID, error) {
	if creator == (common.Address{}) {
		return types.PoolID{}, ErrZeroAddress
	}
	if minFeeBps < 0 || (r.maxFeeBps > 0 && minFeeBps > r.maxFeeBps) {
		return types.PoolID{}, ErrFeeOutOfBounds
	}
	id := key.ID()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pools[id]; ok {
		return types.PoolID{}, ErrPoolExists
	}
	r.pools[id] = &PoolState{
		Key:           key,
		Owner:         creator,
		MinFeeBps:     minFeeBps,
		DecimalsDelta: decimalsDelta,
	}
	r.creators[id] = creator
	r.log.Info("pool registered",
		zap.String("pool", id.Hex()),
		zap.Float64("min_fee_bps", minFeeBps),
	)
	return id, nil
}

// Configure binds a pool to its reference pool. Creator-only and
// one-time: a second call fails, as does a reference pool that does not
// hold the same asset pair.
func (r *Registry) Configure(caller common.Address, poolID types.PoolID, quoteIsToken1 bool, primary, reference types.PoolKey) error {
	r.mu.Lock()
	p, ok := r.pools[poolID]
	if !ok {
		r.mu.Unlock()
		return ErrUnknownPool
	}
	if r.creators[poolID] != caller {
		r.mu.Unlock()
		return ErrNotCreator
	}
	if p.Configured {
		r.mu.Unlock()
		return ErrAlreadyConfigured
	}
	if primary.ID() != poolID {
		r.mu.Unlock()
		return ErrKeyMismatch
	}
	if !primary.SamePair(reference) {
		r.mu.Unlock()
		return ErrPairMismatch
	}
	p.Configured = true
	p.QuoteIsToken1 = quoteIsToken1
	p.RefKey = reference
	hook := r.OnConfigured
	r.mu.Unlock()

	r.log.Info("pool configured",
		zap.String("pool", poolID.Hex()),
		zap.String("reference", reference.ID().Hex()),
	)
	if hook != nil {
		hook(ConfigChange{Pool: poolID, Reference: reference, QuoteIsToken1: quoteIsToken1})
	}
	return nil
}

// UpdateMinFee changes a pool's minimum fee. Pool-owner-only and bounds
// checked against the protocol maximum.
func (r *Registry) UpdateMinFee(caller common.Address, poolID types.PoolID, newMinFeeBps float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pools[poolID]
	if !ok {
		return ErrUnknownPool
	}
	if p.Owner != caller {
		return ErrNotOwner
	}
	if newMinFeeBps < 0 || (r.maxFeeBps > 0 && newMinFeeBps > r.maxFeeBps) {
		return ErrFeeOutOfBounds
	}
	p.MinFeeBps = newMinFeeBps
	return nil
}

// TransferPoolOwner hands a single pool to a new owner.
func (r *Registry) TransferPoolOwner(caller common.Address, poolID types.PoolID, newOwner common.Address) error {
	if newOwner == (common.Address{}) {
		return ErrZeroAddress
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pools[poolID]
	if !ok {
		return ErrUnknownPool
	}
	if p.Owner != caller {
		return ErrNotOwner
	}
	p.Owner = newOwner
	return nil
}

// TransferOwner hands the registry itself to a new owner.
func (r *Registry) TransferOwner(caller, newOwner common.Address) error {
	if newOwner == (common.Address{}) {
		return ErrZeroAddress
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.owner != caller {
		return ErrNotOwner
	}
	r.owner = newOwner
	return nil
}

// Get returns the pool's state record. The registry lock guards the map
// only: callers mutate the returned record directly, which is safe
// because a pool's record is exclusively owned by its processing
// pipeline — trades, arbitrage reconciliation and liquidity changes are
// serialized, never concurrent.
func (r *Registry) Get(poolID types.PoolID) (*PoolState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pools[poolID]
	if !ok {
		return nil, ErrUnknownPool
	}
	return p, nil
}

// AddLiquidity credits both inventories.
func (r *Registry) AddLiquidity(poolID types.PoolID, amount0, amount1 float64) error {
	p, err := r.Get(poolID)
	if err != nil {
		return err
	}
	return p.ApplyDeltas(amount0, amount1)
}

// RemoveLiquidity debits both inventories; fails rather than going
// negative.
func (r *Registry) RemoveLiquidity(poolID types.PoolID, amount0, amount1 float64) error {
	p, err := r.Get(poolID)
	if err != nil {
		return err
	}
	return p.ApplyDeltas(-amount0, -amount1)
}

// Pools lists registered pool ids, for status surfaces.
func (r *Registry) Pools() []types.PoolID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.PoolID, 0, len(r.pools))
	for id := range r.pools {
		out = append(out, id)
	}
	return out
}
