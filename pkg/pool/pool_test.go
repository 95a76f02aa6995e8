package pool

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewRejectsBadSize(t *testing.T) {
	before := runtime.NumGoroutine()

	for _, size := range []int{0, -1, -100} {
		p, err := New(size)
		if err == nil {
			t.Fatalf("Expected error for size %d, got nil", size)
		}
		if !errors.Is(err, ErrPoolSize) {
			t.Errorf("Expected ErrPoolSize for size %d, got: %v", size, err)
		}
		if p != nil {
			t.Errorf("Expected nil pool for size %d", size)
		}
	}

	// No workers may have been started for the failed constructions
	time.Sleep(20 * time.Millisecond)
	after := runtime.NumGoroutine()
	if after > before {
		t.Errorf("Expected no goroutines started on failed construction, went from %d to %d", before, after)
	}
}

func TestAllJobsRunExactlyOnce(t *testing.T) {
	p, err := New(3)
	if err != nil {
		t.Fatalf("Failed to create pool: %v", err)
	}

	const jobs = 50
	var executed int64

	for i := 0; i < jobs; i++ {
		p.Submit(func() {
			atomic.AddInt64(&executed, 1)
		})
	}

	p.Shutdown()

	if got := atomic.LoadInt64(&executed); got != jobs {
		t.Errorf("Expected %d jobs executed, got %d", jobs, got)
	}
}

func TestConcurrencyNeverExceedsPoolSize(t *testing.T) {
	const size = 4
	const jobs = 40

	p, err := New(size)
	if err != nil {
		t.Fatalf("Failed to create pool: %v", err)
	}

	var running int64
	var peak int64
	var done int64

	for i := 0; i < jobs; i++ {
		p.Submit(func() {
			now := atomic.AddInt64(&running, 1)
			// Track the highest concurrency observed
			for {
				old := atomic.LoadInt64(&peak)
				if now <= old || atomic.CompareAndSwapInt64(&peak, old, now) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt64(&running, -1)
			atomic.AddInt64(&done, 1)
		})
	}

	p.Shutdown()

	if got := atomic.LoadInt64(&peak); got > size {
		t.Errorf("Expected at most %d jobs running concurrently, observed %d", size, got)
	}
	if got := atomic.LoadInt64(&done); got != jobs {
		t.Errorf("Expected all %d jobs to complete before Shutdown returned, got %d", jobs, got)
	}
}

func TestWorkerSurvivesPanickingJob(t *testing.T) {
	p, err := New(1)
	if err != nil {
		t.Fatalf("Failed to create pool: %v", err)
	}

	var served int64

	p.Submit(func() {
		panic("bad connection")
	})
	// The single worker must still be alive to run these
	for i := 0; i < 5; i++ {
		p.Submit(func() {
			atomic.AddInt64(&served, 1)
		})
	}

	p.Shutdown()

	if got := atomic.LoadInt64(&served); got != 5 {
		t.Errorf("Expected worker to serve 5 jobs after a panic, got %d", got)
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	p, err := New(2)
	if err != nil {
		t.Fatalf("Failed to create pool: %v", err)
	}

	p.Submit(func() {})
	p.Shutdown()
	// A second Shutdown must not panic or hang
	p.Shutdown()
}

func TestShutdownDrainsQueuedJobs(t *testing.T) {
	p, err := NewWithQueueDepth(1, 32)
	if err != nil {
		t.Fatalf("Failed to create pool: %v", err)
	}

	var mu sync.Mutex
	order := make([]int, 0, 10)
	for i := 0; i < 10; i++ {
		i := i
		p.Submit(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}

	p.Shutdown()

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 10 {
		t.Fatalf("Expected 10 jobs drained, got %d", len(order))
	}
	// Single worker consumes from one channel, so FIFO order holds
	for i, v := range order {
		if v != i {
			t.Errorf("Expected job %d at position %d, got %d", i, i, v)
		}
	}
}
