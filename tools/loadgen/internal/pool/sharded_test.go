package pool

import (
	"context"
	"sync"
	"testing"
	"time"
)

func newTestPool(t *testing.T, mutate func(*PoolConfig)) *ShardedParameterPool {
	t.Helper()
	config := DefaultPoolConfig()
	config.CleanupInterval = 0 // sweeps run manually in tests
	if mutate != nil {
		mutate(&config)
	}
	p := NewShardedParameterPool(config)
	t.Cleanup(func() { p.Close() })
	return p
}

func TestShardedPool_AddGetCount(t *testing.T) {
	p := newTestPool(t, nil)
	ctx := context.Background()

	evicted, err := p.Add(ctx, NewParameterValue("member-123", SemanticTypeMemberID, 0))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if evicted != 0 {
		t.Errorf("Evicted = %d, want 0", evicted)
	}

	got, err := p.Get(ctx, SemanticTypeMemberID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil || got.Value != "member-123" {
		t.Fatalf("Get = %v, want member-123", got)
	}

	count, err := p.Count(ctx, SemanticTypeMemberID)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Count = %d, want 1", count)
	}
}

func TestShardedPool_MultipleTypes(t *testing.T) {
	p := newTestPool(t, nil)
	ctx := context.Background()

	types := []SemanticType{
		SemanticTypeMemberID,
		SemanticTypeAccountID,
		SemanticTypeTransactionID,
		SemanticTypeResidentID,
	}
	for _, st := range types {
		if _, err := p.Add(ctx, NewParameterValue("value-"+string(st), st, 0)); err != nil {
			t.Fatalf("Add failed for %s: %v", st, err)
		}
	}

	for _, st := range types {
		if count, _ := p.Count(ctx, st); count != 1 {
			t.Errorf("Count for %s = %d, want 1", st, count)
		}
	}

	gotTypes, err := p.Types(ctx)
	if err != nil {
		t.Fatalf("Types failed: %v", err)
	}
	if len(gotTypes) != len(types) {
		t.Errorf("Types count = %d, want %d", len(gotTypes), len(types))
	}
}

func TestShardedPool_Reads(t *testing.T) {
	t.Run("random never misses a populated type", func(t *testing.T) {
		p := newTestPool(t, nil)
		ctx := context.Background()
		for i := range 10 {
			p.Add(ctx, NewParameterValue(i, SemanticTypeMemberID, 0))
		}

		for range 20 {
			got, err := p.GetRandom(ctx, SemanticTypeMemberID)
			if err != nil {
				t.Fatalf("GetRandom failed: %v", err)
			}
			if got == nil {
				t.Error("GetRandom returned nil")
			}
		}
	})

	t.Run("get all returns every value", func(t *testing.T) {
		p := newTestPool(t, nil)
		ctx := context.Background()
		for i := range 5 {
			p.Add(ctx, NewParameterValue(i, SemanticTypeMemberID, 0))
		}

		all, err := p.GetAll(ctx, SemanticTypeMemberID)
		if err != nil {
			t.Fatalf("GetAll failed: %v", err)
		}
		if len(all) != 5 {
			t.Errorf("GetAll returned %d values, want 5", len(all))
		}
	})

	t.Run("miss on empty pool is counted", func(t *testing.T) {
		p := newTestPool(t, nil)
		ctx := context.Background()

		got, err := p.Get(ctx, SemanticTypeMemberID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got != nil {
			t.Error("Get from empty pool should return nil")
		}

		stats, _ := p.Stats(ctx)
		if stats.MissCount != 1 {
			t.Errorf("MissCount = %d, want 1", stats.MissCount)
		}
	})

	t.Run("expired value reads as miss", func(t *testing.T) {
		p := newTestPool(t, nil)
		ctx := context.Background()
		p.Add(ctx, NewParameterValue("expired", SemanticTypeMemberID, time.Nanosecond))
		time.Sleep(time.Millisecond)

		got, err := p.Get(ctx, SemanticTypeMemberID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got != nil {
			t.Error("Get should return nil for expired value")
		}
	})
}

func TestShardedPool_RemoveAndClear(t *testing.T) {
	t.Run("remove one value", func(t *testing.T) {
		p := newTestPool(t, nil)
		ctx := context.Background()
		v := NewParameterValue("to-remove", SemanticTypeMemberID, 0)
		p.Add(ctx, v)

		removed, err := p.Remove(ctx, v)
		if err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		if !removed {
			t.Error("Remove should return true")
		}
		if count, _ := p.Count(ctx, SemanticTypeMemberID); count != 0 {
			t.Errorf("Count = %d, want 0", count)
		}
	})

	t.Run("clear one type", func(t *testing.T) {
		p := newTestPool(t, nil)
		ctx := context.Background()
		for i := range 10 {
			p.Add(ctx, NewParameterValue(i, SemanticTypeMemberID, 0))
		}

		cleared, err := p.Clear(ctx, SemanticTypeMemberID)
		if err != nil {
			t.Fatalf("Clear failed: %v", err)
		}
		if cleared != 10 {
			t.Errorf("Cleared = %d, want 10", cleared)
		}
		if count, _ := p.Count(ctx, SemanticTypeMemberID); count != 0 {
			t.Errorf("Count after clear = %d, want 0", count)
		}
	})

	t.Run("clear all types", func(t *testing.T) {
		p := newTestPool(t, nil)
		ctx := context.Background()
		p.Add(ctx, NewParameterValue("m1", SemanticTypeMemberID, 0))
		p.Add(ctx, NewParameterValue("a1", SemanticTypeAccountID, 0))

		if err := p.ClearAll(ctx); err != nil {
			t.Fatalf("ClearAll failed: %v", err)
		}
		c1, _ := p.Count(ctx, SemanticTypeMemberID)
		c2, _ := p.Count(ctx, SemanticTypeAccountID)
		if c1+c2 != 0 {
			t.Errorf("Total count = %d, want 0", c1+c2)
		}
	})
}

func TestShardedPool_Cleanup(t *testing.T) {
	p := newTestPool(t, nil)
	ctx := context.Background()

	p.Add(ctx, NewParameterValue("expired", SemanticTypeMemberID, time.Millisecond))
	p.Add(ctx, NewParameterValue("valid", SemanticTypeMemberID, time.Hour))
	time.Sleep(10 * time.Millisecond)

	cleaned, err := p.Cleanup(ctx)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if cleaned != 1 {
		t.Errorf("Cleaned = %d, want 1", cleaned)
	}
	if count, _ := p.Count(ctx, SemanticTypeMemberID); count != 1 {
		t.Errorf("Count = %d, want 1", count)
	}
}

func TestShardedPool_Stats(t *testing.T) {
	p := newTestPool(t, nil)
	ctx := context.Background()

	for i := range 5 {
		p.Add(ctx, NewParameterValue(i, SemanticTypeMemberID, 0))
	}
	for range 3 {
		p.Get(ctx, SemanticTypeMemberID)
	}
	p.Get(ctx, SemanticTypeAccountID) // miss

	stats, err := p.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalValues != 5 {
		t.Errorf("TotalValues = %d, want 5", stats.TotalValues)
	}
	if stats.AddCount != 5 {
		t.Errorf("AddCount = %d, want 5", stats.AddCount)
	}
	if stats.HitCount != 3 {
		t.Errorf("HitCount = %d, want 3", stats.HitCount)
	}
	if stats.MissCount != 1 {
		t.Errorf("MissCount = %d, want 1", stats.MissCount)
	}
}

func TestShardedPool_Eviction(t *testing.T) {
	p := newTestPool(t, func(c *PoolConfig) {
		c.MaxValuesPerType = 3
		c.EvictionPolicy = EvictionFIFO
	})
	ctx := context.Background()

	for i := range 5 {
		p.Add(ctx, NewParameterValue(i, SemanticTypeMemberID, 0))
	}

	if count, _ := p.Count(ctx, SemanticTypeMemberID); count != 3 {
		t.Errorf("Count = %d, want 3", count)
	}
	if p.EvictionCount() != 2 {
		t.Errorf("EvictionCount = %d, want 2", p.EvictionCount())
	}
}

func TestShardedPool_Close(t *testing.T) {
	config := DefaultPoolConfig()
	config.CleanupInterval = 10 * time.Millisecond
	p := NewShardedParameterPool(config)
	ctx := context.Background()

	p.Add(ctx, NewParameterValue("test", SemanticTypeMemberID, 0))

	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := p.Get(ctx, SemanticTypeMemberID); err != ErrPoolClosed {
		t.Errorf("Expected ErrPoolClosed, got %v", err)
	}
	if err := p.Close(); err != ErrPoolClosed {
		t.Errorf("Double close should return ErrPoolClosed, got %v", err)
	}
}

func TestShardedPool_Concurrency(t *testing.T) {
	p := newTestPool(t, func(c *PoolConfig) {
		c.ShardCount = 16
		c.MaxValuesPerType = 100
	})
	ctx := context.Background()

	var wg sync.WaitGroup
	const workers, ops = 100, 100

	for i := range workers {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := range ops {
				p.Add(ctx, NewParameterValue(id*1000+j, SemanticTypeMemberID, 0))
			}
		}(i)
	}
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range ops {
				p.Get(ctx, SemanticTypeMemberID)
				p.GetRandom(ctx, SemanticTypeMemberID)
				p.Count(ctx, SemanticTypeMemberID)
			}
		}()
	}
	wg.Wait()

	stats, _ := p.Stats(ctx)
	if stats.TotalValues <= 0 {
		t.Error("Pool should have values after concurrent operations")
	}
}

func TestShardedPool_ShardCountRounding(t *testing.T) {
	tests := []struct {
		configShards   int
		expectedShards int
	}{
		{0, 16},
		{1, 1},
		{8, 8},
		{10, 16},
		{17, 32},
	}

	for _, tt := range tests {
		config := DefaultPoolConfig()
		config.ShardCount = tt.configShards
		config.CleanupInterval = 0
		p := NewShardedParameterPool(config)

		if p.ShardCount() != tt.expectedShards {
			t.Errorf("ShardCount(%d) = %d, want %d", tt.configShards, p.ShardCount(), tt.expectedShards)
		}
		p.Close()
	}
}

func TestEvictionPolicy(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		tests := []struct {
			policy EvictionPolicy
			want   string
		}{
			{EvictionFIFO, "FIFO"},
			{EvictionLRU, "LRU"},
			{EvictionRandom, "Random"},
			{EvictionPolicy(99), "Unknown"},
		}
		for _, tt := range tests {
			if got := tt.policy.String(); got != tt.want {
				t.Errorf("EvictionPolicy(%d).String() = %s, want %s", tt.policy, got, tt.want)
			}
		}
	})

	t.Run("parse", func(t *testing.T) {
		tests := []struct {
			input string
			want  EvictionPolicy
		}{
			{"LRU", EvictionLRU},
			{"lru", EvictionLRU},
			{"Random", EvictionRandom},
			{"random", EvictionRandom},
			{"RANDOM", EvictionRandom},
			{"FIFO", EvictionFIFO},
			{"fifo", EvictionFIFO},
			{"unknown", EvictionFIFO},
			{"", EvictionFIFO},
		}
		for _, tt := range tests {
			if got := ParseEvictionPolicy(tt.input); got != tt.want {
				t.Errorf("ParseEvictionPolicy(%s) = %v, want %v", tt.input, got, tt.want)
			}
		}
	})
}

func TestStatsHitRate(t *testing.T) {
	tests := []struct {
		hits   int64
		misses int64
		want   float64
	}{
		{0, 0, 0},
		{10, 0, 100},
		{0, 10, 0},
		{50, 50, 50},
		{3, 1, 75},
	}

	for _, tt := range tests {
		stats := Stats{HitCount: tt.hits, MissCount: tt.misses}
		if got := stats.HitRate(); got != tt.want {
			t.Errorf("HitRate(hits=%d, misses=%d) = %f, want %f", tt.hits, tt.misses, got, tt.want)
		}
	}
}
