package pool

import (
	"context"
	"errors"
	"time"
)

// ErrPoolClosed is returned by every operation after Close.
var ErrPoolClosed = errors.New("parameter pool is closed")

// EvictionPolicy selects which value is dropped when a buffer is full.
type EvictionPolicy int

const (
	// EvictionFIFO drops the oldest insertion first.
	EvictionFIFO EvictionPolicy = iota
	// EvictionLRU drops the least recently read value first.
	EvictionLRU
	// EvictionRandom drops a uniformly random value.
	EvictionRandom
)

func (e EvictionPolicy) String() string {
	switch e {
	case EvictionFIFO:
		return "FIFO"
	case EvictionLRU:
		return "LRU"
	case EvictionRandom:
		return "Random"
	default:
		return "Unknown"
	}
}

// ParseEvictionPolicy maps a config string to a policy, defaulting to
// FIFO for anything unrecognized.
func ParseEvictionPolicy(s string) EvictionPolicy {
	switch s {
	case "LRU", "lru":
		return EvictionLRU
	case "Random", "random", "RANDOM":
		return EvictionRandom
	default:
		return EvictionFIFO
	}
}

// Stats is a point-in-time snapshot of pool activity.
type Stats struct {
	TotalValues   int64
	ValuesByType  map[SemanticType]int64
	HitCount      int64
	MissCount     int64
	EvictionCount int64
	ExpiredCount  int64
	AddCount      int64
	Uptime        time.Duration
}

// HitRate returns the Get hit rate as a percentage.
func (s Stats) HitRate() float64 {
	total := s.HitCount + s.MissCount
	if total == 0 {
		return 0
	}
	return float64(s.HitCount) / float64(total) * 100
}

// ParameterPool stores values harvested from API responses, keyed by
// semantic type, for reuse in later requests.
type ParameterPool interface {
	// Add stores a value and reports how many values were evicted to
	// make room.
	Add(ctx context.Context, value *ParameterValue) (evicted int, err error)

	// Get returns the oldest live value for the type, or nil.
	Get(ctx context.Context, semanticType SemanticType) (*ParameterValue, error)

	// GetRandom returns a random live value for the type, or nil.
	GetRandom(ctx context.Context, semanticType SemanticType) (*ParameterValue, error)

	// GetAll returns every live value for the type.
	GetAll(ctx context.Context, semanticType SemanticType) ([]*ParameterValue, error)

	// Count returns the number of values stored for the type.
	Count(ctx context.Context, semanticType SemanticType) (int, error)

	// Remove deletes one specific value, reporting whether it existed.
	Remove(ctx context.Context, value *ParameterValue) (bool, error)

	// Clear drops all values of one type and returns how many.
	Clear(ctx context.Context, semanticType SemanticType) (int, error)

	// ClearAll empties the pool.
	ClearAll(ctx context.Context) error

	// Cleanup drops expired values and returns how many.
	Cleanup(ctx context.Context) (int, error)

	// Stats returns a snapshot of pool activity.
	Stats(ctx context.Context) (Stats, error)

	// Types lists the semantic types currently holding values.
	Types(ctx context.Context) ([]SemanticType, error)

	// Close stops background cleanup and rejects further operations.
	Close() error
}

// PoolConfig configures a parameter pool.
type PoolConfig struct {
	// DefaultTTL applies to values added without their own TTL; zero
	// disables expiration.
	DefaultTTL time.Duration

	// MaxValuesPerType bounds each type's buffer; zero means the
	// built-in default.
	MaxValuesPerType int

	// EvictionPolicy picks the victim when a buffer is full.
	EvictionPolicy EvictionPolicy

	// CleanupInterval is the period of the expired-value sweep; zero
	// disables the background sweep.
	CleanupInterval time.Duration

	// ShardCount is rounded up to a power of two.
	ShardCount int
}

// DefaultPoolConfig returns the defaults used by the load generator.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		DefaultTTL:       5 * time.Minute,
		MaxValuesPerType: 1000,
		EvictionPolicy:   EvictionFIFO,
		CleanupInterval:  1 * time.Minute,
		ShardCount:       16,
	}
}
