package httputil

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSemaphoreTryAcquireAtCapacity(t *testing.T) {
	sem := NewSemaphore(2)

	if !sem.TryAcquire() || !sem.TryAcquire() {
		t.Fatal("acquiring up to capacity should succeed")
	}
	if sem.TryAcquire() {
		t.Error("TryAcquire beyond capacity should refuse")
	}
	if got := sem.Dropped(); got != 1 {
		t.Errorf("Dropped = %d, want 1", got)
	}

	sem.Release()
	if !sem.TryAcquire() {
		t.Error("TryAcquire should succeed after Release")
	}
}

func TestSemaphoreAcquireHonorsContext(t *testing.T) {
	sem := NewSemaphore(1)

	if err := sem.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire with free slot: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := sem.Acquire(ctx); err != context.DeadlineExceeded {
		t.Errorf("Acquire at capacity = %v, want DeadlineExceeded", err)
	}
}

func TestSemaphoreConcurrentReleasesAll(t *testing.T) {
	sem := NewSemaphore(10)
	var held atomic.Int32
	var wg sync.WaitGroup

	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if sem.TryAcquire() {
				held.Add(1)
				time.Sleep(10 * time.Millisecond)
				sem.Release()
			}
		}()
	}
	wg.Wait()

	stats := sem.Stats()
	if stats.InUse != 0 {
		t.Errorf("InUse after completion = %d, want 0", stats.InUse)
	}
	if held.Load() == 0 {
		t.Error("expected at least one successful acquire")
	}
}

func TestSemaphoreStats(t *testing.T) {
	sem := NewSemaphore(5)
	sem.TryAcquire()
	sem.TryAcquire()

	stats := sem.Stats()
	if stats.Capacity != 5 || stats.InUse != 2 || stats.Available != 3 {
		t.Errorf("Stats = %+v, want capacity 5, in use 2, available 3", stats)
	}
}

func TestSemaphoreDefaultCapacity(t *testing.T) {
	for _, capacity := range []int{0, -5} {
		sem := NewSemaphore(capacity)
		if cap(sem.sem) != 64 {
			t.Errorf("NewSemaphore(%d) capacity = %d, want 64", capacity, cap(sem.sem))
		}
	}
}
