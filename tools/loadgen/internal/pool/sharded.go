package pool

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"
)

// shard holds the buffers for the semantic types that hash into it,
// plus its slice of the counters.
type shard struct {
	mu      sync.RWMutex
	buffers map[SemanticType]*RingBuffer

	hitCount    atomic.Int64
	missCount   atomic.Int64
	addCount    atomic.Int64
	expireCount atomic.Int64
}

// ShardedParameterPool spreads semantic types over multiple shards so
// concurrent workers contend on different locks.
type ShardedParameterPool struct {
	shards    []*shard
	shardMask uint64

	config  PoolConfig
	startAt time.Time

	evictionCount atomic.Int64

	cleanupTicker *time.Ticker
	cleanupDone   chan struct{}
	closed        atomic.Bool
}

// NewShardedParameterPool creates a pool with the configured shard
// count, rounded up to a power of two so shard selection is a mask.
func NewShardedParameterPool(config PoolConfig) *ShardedParameterPool {
	shardCount := nextPowerOfTwo(config.ShardCount)
	if config.ShardCount <= 0 {
		shardCount = 16
	}

	p := &ShardedParameterPool{
		shards:      make([]*shard, shardCount),
		shardMask:   uint64(shardCount - 1),
		config:      config,
		startAt:     time.Now(),
		cleanupDone: make(chan struct{}),
	}
	for i := range p.shards {
		p.shards[i] = &shard{buffers: make(map[SemanticType]*RingBuffer)}
	}

	if config.CleanupInterval > 0 {
		p.cleanupTicker = time.NewTicker(config.CleanupInterval)
		go p.cleanupLoop()
	}

	return p
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	return n + 1
}

func (p *ShardedParameterPool) shardFor(semanticType SemanticType) *shard {
	h := fnv.New64a()
	h.Write([]byte(semanticType))
	return p.shards[h.Sum64()&p.shardMask]
}

// lookup returns the buffer for a semantic type if one exists.
func (p *ShardedParameterPool) lookup(semanticType SemanticType) (*shard, *RingBuffer, bool) {
	s := p.shardFor(semanticType)
	s.mu.RLock()
	rb, ok := s.buffers[semanticType]
	s.mu.RUnlock()
	return s, rb, ok
}

// Add stores a value, creating the type's buffer on first use.
func (p *ShardedParameterPool) Add(ctx context.Context, value *ParameterValue) (int, error) {
	if p.closed.Load() {
		return 0, ErrPoolClosed
	}

	s := p.shardFor(value.SemanticType)

	s.mu.Lock()
	rb, ok := s.buffers[value.SemanticType]
	if !ok {
		capacity := p.config.MaxValuesPerType
		if capacity <= 0 {
			capacity = defaultBufferCapacity
		}
		rb = NewRingBuffer(capacity, p.config.EvictionPolicy)
		s.buffers[value.SemanticType] = rb
	}
	evicted := rb.Add(value)
	s.addCount.Add(1)
	s.mu.Unlock()

	if evicted > 0 {
		p.evictionCount.Add(int64(evicted))
	}
	return evicted, nil
}

// Get returns the oldest live value for the type, nil on miss.
func (p *ShardedParameterPool) Get(ctx context.Context, semanticType SemanticType) (*ParameterValue, error) {
	return p.fetch(semanticType, (*RingBuffer).Get)
}

// GetRandom returns a random live value for the type, nil on miss.
func (p *ShardedParameterPool) GetRandom(ctx context.Context, semanticType SemanticType) (*ParameterValue, error) {
	return p.fetch(semanticType, (*RingBuffer).GetRandom)
}

// fetch runs one buffer read and keeps the hit/miss counters straight.
// An expired value counts as a miss.
func (p *ShardedParameterPool) fetch(semanticType SemanticType, read func(*RingBuffer) *ParameterValue) (*ParameterValue, error) {
	if p.closed.Load() {
		return nil, ErrPoolClosed
	}

	s, rb, ok := p.lookup(semanticType)
	if !ok {
		s.missCount.Add(1)
		return nil, nil
	}

	value := read(rb)
	if value == nil || value.IsExpired() {
		s.missCount.Add(1)
		return nil, nil
	}

	s.hitCount.Add(1)
	return value, nil
}

// GetAll returns every live value for the type.
func (p *ShardedParameterPool) GetAll(ctx context.Context, semanticType SemanticType) ([]*ParameterValue, error) {
	if p.closed.Load() {
		return nil, ErrPoolClosed
	}

	_, rb, ok := p.lookup(semanticType)
	if !ok {
		return nil, nil
	}

	values := rb.GetAll()
	live := make([]*ParameterValue, 0, len(values))
	for _, v := range values {
		if !v.IsExpired() {
			live = append(live, v)
		}
	}
	return live, nil
}

// Count returns the number of stored values for the type.
func (p *ShardedParameterPool) Count(ctx context.Context, semanticType SemanticType) (int, error) {
	if p.closed.Load() {
		return 0, ErrPoolClosed
	}

	_, rb, ok := p.lookup(semanticType)
	if !ok {
		return 0, nil
	}
	return rb.Count(), nil
}

// Remove deletes one specific value from its type's buffer.
func (p *ShardedParameterPool) Remove(ctx context.Context, value *ParameterValue) (bool, error) {
	if p.closed.Load() {
		return false, ErrPoolClosed
	}

	s := p.shardFor(value.SemanticType)

	s.mu.Lock()
	defer s.mu.Unlock()
	rb, ok := s.buffers[value.SemanticType]
	if !ok {
		return false, nil
	}
	return rb.Remove(value), nil
}

// Clear drops all values of one type and forgets its buffer.
func (p *ShardedParameterPool) Clear(ctx context.Context, semanticType SemanticType) (int, error) {
	if p.closed.Load() {
		return 0, ErrPoolClosed
	}

	s := p.shardFor(semanticType)

	s.mu.Lock()
	defer s.mu.Unlock()
	rb, ok := s.buffers[semanticType]
	if !ok {
		return 0, nil
	}
	cleared := rb.Clear()
	delete(s.buffers, semanticType)
	return cleared, nil
}

// ClearAll empties every shard.
func (p *ShardedParameterPool) ClearAll(ctx context.Context) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}

	for _, s := range p.shards {
		s.mu.Lock()
		for st, rb := range s.buffers {
			rb.Clear()
			delete(s.buffers, st)
		}
		s.mu.Unlock()
	}
	return nil
}

// Cleanup sweeps expired values out of every buffer.
func (p *ShardedParameterPool) Cleanup(ctx context.Context) (int, error) {
	if p.closed.Load() {
		return 0, ErrPoolClosed
	}

	total := 0
	for _, s := range p.shards {
		s.mu.Lock()
		for _, rb := range s.buffers {
			removed := rb.RemoveExpired()
			total += removed
			s.expireCount.Add(int64(removed))
		}
		s.mu.Unlock()
	}
	return total, nil
}

func (p *ShardedParameterPool) cleanupLoop() {
	for {
		select {
		case <-p.cleanupTicker.C:
			_, _ = p.Cleanup(context.Background())
		case <-p.cleanupDone:
			return
		}
	}
}

// Stats aggregates the per-shard counters into one snapshot.
func (p *ShardedParameterPool) Stats(ctx context.Context) (Stats, error) {
	if p.closed.Load() {
		return Stats{}, ErrPoolClosed
	}

	stats := Stats{
		ValuesByType:  make(map[SemanticType]int64),
		EvictionCount: p.evictionCount.Load(),
		Uptime:        time.Since(p.startAt),
	}

	for _, s := range p.shards {
		s.mu.RLock()
		stats.HitCount += s.hitCount.Load()
		stats.MissCount += s.missCount.Load()
		stats.AddCount += s.addCount.Load()
		stats.ExpiredCount += s.expireCount.Load()
		for st, rb := range s.buffers {
			n := int64(rb.Count())
			stats.TotalValues += n
			stats.ValuesByType[st] += n
		}
		s.mu.RUnlock()
	}

	return stats, nil
}

// Types lists the semantic types that currently hold values.
func (p *ShardedParameterPool) Types(ctx context.Context) ([]SemanticType, error) {
	if p.closed.Load() {
		return nil, ErrPoolClosed
	}

	types := make([]SemanticType, 0)
	for _, s := range p.shards {
		s.mu.RLock()
		for st, rb := range s.buffers {
			if rb.Count() > 0 {
				types = append(types, st)
			}
		}
		s.mu.RUnlock()
	}
	return types, nil
}

// Close stops the cleanup goroutine. Further calls return ErrPoolClosed.
func (p *ShardedParameterPool) Close() error {
	if p.closed.Swap(true) {
		return ErrPoolClosed
	}

	if p.cleanupTicker != nil {
		p.cleanupTicker.Stop()
		close(p.cleanupDone)
	}
	return nil
}

// ShardCount returns the effective number of shards.
func (p *ShardedParameterPool) ShardCount() int {
	return len(p.shards)
}

// EvictionCount returns the total values evicted since creation.
func (p *ShardedParameterPool) EvictionCount() int64 {
	return p.evictionCount.Load()
}
