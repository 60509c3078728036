package pool

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
)

const defaultBufferCapacity = 1000

// RingBuffer is a bounded, thread-safe store of ParameterValues kept in
// insertion order. When full, Add evicts one value according to the
// configured policy before appending.
type RingBuffer struct {
	mu       sync.RWMutex
	values   []*ParameterValue
	capacity int

	policy        EvictionPolicy
	evictionCount atomic.Int64

	rng *rand.Rand
}

// NewRingBuffer creates a buffer with the given capacity and eviction
// policy. Non-positive capacities fall back to the default.
func NewRingBuffer(capacity int, policy EvictionPolicy) *RingBuffer {
	if capacity <= 0 {
		capacity = defaultBufferCapacity
	}
	return &RingBuffer{
		values:   make([]*ParameterValue, 0, capacity),
		capacity: capacity,
		policy:   policy,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Add stores a value, evicting one first if the buffer is full.
// Returns the number of values evicted.
func (rb *RingBuffer) Add(value *ParameterValue) int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	evicted := 0
	if len(rb.values) >= rb.capacity {
		evicted = rb.evictOne()
	}
	rb.values = append(rb.values, value)
	return evicted
}

// evictOne drops a single value per the eviction policy. Caller holds
// the write lock; the buffer must be non-empty.
func (rb *RingBuffer) evictOne() int {
	if len(rb.values) == 0 {
		return 0
	}

	idx := 0
	switch rb.policy {
	case EvictionLRU:
		// Oldest access time loses. Values never read keep their
		// creation time, so untouched values go first.
		oldest := rb.values[0].LastAccessedAt()
		for i, v := range rb.values[1:] {
			if at := v.LastAccessedAt(); at.Before(oldest) {
				oldest = at
				idx = i + 1
			}
		}
	case EvictionRandom:
		idx = rb.rng.Intn(len(rb.values))
	default:
		// FIFO: insertion order is slice order.
	}

	rb.values = append(rb.values[:idx], rb.values[idx+1:]...)
	rb.evictionCount.Add(1)
	return 1
}

// Get returns the oldest value without removing it, or nil when empty.
func (rb *RingBuffer) Get() *ParameterValue {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if len(rb.values) == 0 {
		return nil
	}
	v := rb.values[0]
	v.Touch()
	return v
}

// GetRandom returns a uniformly random value without removing it, or
// nil when empty.
func (rb *RingBuffer) GetRandom() *ParameterValue {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if len(rb.values) == 0 {
		return nil
	}
	v := rb.values[rb.rng.Intn(len(rb.values))]
	v.Touch()
	return v
}

// GetAll returns a snapshot of the buffered values.
func (rb *RingBuffer) GetAll() []*ParameterValue {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	out := make([]*ParameterValue, len(rb.values))
	copy(out, rb.values)
	return out
}

// Count returns the number of buffered values.
func (rb *RingBuffer) Count() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return len(rb.values)
}

// Capacity returns the maximum number of values the buffer holds.
func (rb *RingBuffer) Capacity() int {
	return rb.capacity
}

// EvictionCount returns how many values have been evicted so far.
func (rb *RingBuffer) EvictionCount() int64 {
	return rb.evictionCount.Load()
}

// Remove deletes a specific value. Returns false when it is not present.
func (rb *RingBuffer) Remove(value *ParameterValue) bool {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for i, v := range rb.values {
		if v == value {
			rb.values = append(rb.values[:i], rb.values[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the buffer and returns how many values were dropped.
func (rb *RingBuffer) Clear() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	removed := len(rb.values)
	rb.values = rb.values[:0]
	return removed
}

// RemoveExpired drops every expired value and returns the count.
func (rb *RingBuffer) RemoveExpired() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	kept := rb.values[:0]
	removed := 0
	for _, v := range rb.values {
		if v.IsExpired() {
			removed++
			continue
		}
		kept = append(kept, v)
	}
	rb.values = kept
	return removed
}

// IsFull reports whether the buffer is at capacity.
func (rb *RingBuffer) IsFull() bool {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return len(rb.values) >= rb.capacity
}

// IsEmpty reports whether the buffer holds no values.
func (rb *RingBuffer) IsEmpty() bool {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return len(rb.values) == 0
}
