package pool

import (
	"sync"
	"testing"
	"time"
)

func TestRingBuffer_AddGet(t *testing.T) {
	rb := NewRingBuffer(5, EvictionFIFO)

	if !rb.IsEmpty() {
		t.Error("New buffer should be empty")
	}
	if rb.IsFull() {
		t.Error("New buffer should not be full")
	}

	v1 := NewParameterValue("value1", SemanticTypeMemberID, 0)
	if evicted := rb.Add(v1); evicted != 0 {
		t.Errorf("Evicted = %d, want 0", evicted)
	}
	if rb.Count() != 1 {
		t.Errorf("Count = %d, want 1", rb.Count())
	}
	if got := rb.Get(); got != v1 {
		t.Error("Get should return the added value")
	}
}

func TestRingBuffer_Eviction(t *testing.T) {
	fill := func(rb *RingBuffer) (v1 *ParameterValue) {
		v1 = NewParameterValue("value1", SemanticTypeMemberID, 0)
		rb.Add(v1)
		rb.Add(NewParameterValue("value2", SemanticTypeMemberID, 0))
		rb.Add(NewParameterValue("value3", SemanticTypeMemberID, 0))
		return v1
	}

	t.Run("fifo drops the oldest insertion", func(t *testing.T) {
		rb := NewRingBuffer(3, EvictionFIFO)
		v1 := fill(rb)

		evicted := rb.Add(NewParameterValue("value4", SemanticTypeMemberID, 0))
		if evicted != 1 {
			t.Errorf("Evicted = %d, want 1", evicted)
		}
		if rb.Count() != 3 {
			t.Errorf("Count after eviction = %d, want 3", rb.Count())
		}
		if rb.EvictionCount() != 1 {
			t.Errorf("EvictionCount = %d, want 1", rb.EvictionCount())
		}
		for _, v := range rb.GetAll() {
			if v == v1 {
				t.Error("value1 should have been evicted")
			}
		}
	})

	t.Run("lru spares the most recently read", func(t *testing.T) {
		rb := NewRingBuffer(3, EvictionLRU)
		v1 := fill(rb)

		// Reading value1 makes value2 the LRU victim.
		time.Sleep(time.Millisecond)
		if got := rb.Get(); got != v1 {
			t.Fatal("Get should return the oldest value")
		}

		if evicted := rb.Add(NewParameterValue("value4", SemanticTypeMemberID, 0)); evicted != 1 {
			t.Errorf("Evicted = %d, want 1", evicted)
		}
		if rb.Count() != 3 {
			t.Errorf("Count after eviction = %d, want 3", rb.Count())
		}
		for _, v := range rb.GetAll() {
			if v == v1 {
				return
			}
		}
		t.Error("recently read value1 should have survived LRU eviction")
	})

	t.Run("random drops exactly one", func(t *testing.T) {
		rb := NewRingBuffer(3, EvictionRandom)
		fill(rb)

		if evicted := rb.Add(NewParameterValue("value4", SemanticTypeMemberID, 0)); evicted != 1 {
			t.Errorf("Evicted = %d, want 1", evicted)
		}
		if rb.Count() != 3 {
			t.Errorf("Count after eviction = %d, want 3", rb.Count())
		}
		if rb.EvictionCount() != 1 {
			t.Errorf("EvictionCount = %d, want 1", rb.EvictionCount())
		}
	})
}

func TestRingBuffer_GetRandom(t *testing.T) {
	rb := NewRingBuffer(10, EvictionFIFO)

	if rb.GetRandom() != nil {
		t.Error("GetRandom on empty buffer should return nil")
	}

	for i := range 5 {
		rb.Add(NewParameterValue(i, SemanticTypeMemberID, 0))
	}

	got := rb.GetRandom()
	if got == nil {
		t.Fatal("GetRandom should return a value")
	}

	initial := got.AccessCount()
	for range 10 {
		rb.GetRandom()
	}

	total := int64(0)
	for _, v := range rb.GetAll() {
		total += v.AccessCount()
	}
	if total <= initial {
		t.Error("GetRandom should update access counts")
	}
}

func TestRingBuffer_Remove(t *testing.T) {
	rb := NewRingBuffer(5, EvictionFIFO)
	v1 := NewParameterValue("value1", SemanticTypeMemberID, 0)
	rb.Add(v1)
	rb.Add(NewParameterValue("value2", SemanticTypeMemberID, 0))

	if !rb.Remove(v1) {
		t.Error("Remove should return true for existing value")
	}
	if rb.Count() != 1 {
		t.Errorf("Count = %d, want 1", rb.Count())
	}
	if rb.Remove(v1) {
		t.Error("Remove should return false for non-existing value")
	}
}

func TestRingBuffer_Clear(t *testing.T) {
	rb := NewRingBuffer(5, EvictionFIFO)
	for i := range 5 {
		rb.Add(NewParameterValue(i, SemanticTypeMemberID, 0))
	}

	if cleared := rb.Clear(); cleared != 5 {
		t.Errorf("Cleared = %d, want 5", cleared)
	}
	if !rb.IsEmpty() {
		t.Error("Buffer should be empty after clear")
	}
}

func TestRingBuffer_RemoveExpired(t *testing.T) {
	rb := NewRingBuffer(5, EvictionFIFO)
	rb.Add(NewParameterValue("value1", SemanticTypeMemberID, time.Millisecond))
	rb.Add(NewParameterValue("value2", SemanticTypeMemberID, time.Hour))
	rb.Add(NewParameterValue("value3", SemanticTypeMemberID, time.Millisecond))

	time.Sleep(10 * time.Millisecond)

	if removed := rb.RemoveExpired(); removed != 2 {
		t.Errorf("RemoveExpired = %d, want 2", removed)
	}
	if rb.Count() != 1 {
		t.Errorf("Count = %d, want 1", rb.Count())
	}
}

func TestRingBuffer_Concurrency(t *testing.T) {
	rb := NewRingBuffer(100, EvictionFIFO)

	var wg sync.WaitGroup
	const workers, ops = 10, 100

	for i := range workers {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := range ops {
				rb.Add(NewParameterValue(id*1000+j, SemanticTypeMemberID, 0))
			}
		}(i)
	}
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range ops {
				rb.Get()
				rb.GetRandom()
				rb.Count()
			}
		}()
	}
	wg.Wait()

	if rb.Count() > rb.Capacity() {
		t.Errorf("Count (%d) exceeds capacity (%d)", rb.Count(), rb.Capacity())
	}
}

func TestRingBuffer_Capacity(t *testing.T) {
	if rb := NewRingBuffer(10, EvictionFIFO); rb.Capacity() != 10 {
		t.Errorf("Capacity = %d, want 10", rb.Capacity())
	}

	// Non-positive capacities fall back to the default.
	for _, capacity := range []int{0, -5} {
		if rb := NewRingBuffer(capacity, EvictionFIFO); rb.Capacity() != defaultBufferCapacity {
			t.Errorf("Capacity(%d) = %d, want %d", capacity, rb.Capacity(), defaultBufferCapacity)
		}
	}
}
