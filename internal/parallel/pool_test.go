package parallel

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewPool_Workers(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{"explicit", 4, 4},
		{"zero", 0, runtime.GOMAXPROCS(0)},
		{"negative", -3, runtime.GOMAXPROCS(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPool(tt.workers)
			defer p.Close()
			if got := p.Workers(); got != tt.want {
				t.Errorf("Workers() = %d, want %d", got, tt.want)
			}
			if !p.Running() {
				t.Error("pool not running after creation")
			}
		})
	}
}

func TestPool_Map(t *testing.T) {
	p := NewPool(4)
	defer p.Close()

	const n = 100
	out := make([]int, n)
	err := p.Map(n, func(i int) error {
		out[i] = i * i
		return nil
	})
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	for i, v := range out {
		if v != i*i {
			t.Fatalf("out[%d] = %d, want %d", i, v, i*i)
		}
	}
}

func TestPool_MapLowestError(t *testing.T) {
	p := NewPool(3)
	defer p.Close()

	var calls atomic.Int64
	err := p.Map(20, func(i int) error {
		calls.Add(1)
		if i == 7 || i == 15 {
			return fmt.Errorf("job %d", i)
		}
		return nil
	})
	if err == nil || err.Error() != "job 7" {
		t.Errorf("err = %v, want job 7", err)
	}
	if calls.Load() != 20 {
		t.Errorf("calls = %d, want 20", calls.Load())
	}
}

func TestPool_MapEmpty(t *testing.T) {
	p := NewPool(2)
	defer p.Close()
	if err := p.Map(0, func(int) error { return errors.New("called") }); err != nil {
		t.Errorf("Map(0) = %v", err)
	}
}

func TestPool_MapAfterClose(t *testing.T) {
	p := NewPool(2)
	p.Close()

	var calls int
	if err := p.Map(5, func(int) error { calls++; return nil }); err != nil {
		t.Fatalf("Map: %v", err)
	}
	if calls != 5 {
		t.Errorf("calls = %d, want 5 on the caller goroutine", calls)
	}
}

func TestPool_MapSteals(t *testing.T) {
	p := NewPool(2)
	defer p.Close()

	// Job 0 blocks worker 0; the other even jobs queued behind it must be
	// stolen by worker 1 for Map to finish.
	release := make(chan struct{})
	var done atomic.Int64
	go func() {
		deadline := time.After(5 * time.Second)
		for done.Load() < 9 {
			select {
			case <-deadline:
				close(release)
				return
			default:
				runtime.Gosched()
			}
		}
		close(release)
	}()

	err := p.Map(10, func(i int) error {
		if i == 0 {
			<-release
		}
		done.Add(1)
		return nil
	})
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if done.Load() != 10 {
		t.Errorf("done = %d, want 10", done.Load())
	}
}

func TestPool_Go(t *testing.T) {
	p := NewPool(4)

	var wg sync.WaitGroup
	var count atomic.Int64
	for range 50 {
		wg.Add(1)
		if !p.Go(func() { defer wg.Done(); count.Add(1) }) {
			t.Fatal("Go refused work on a running pool")
		}
	}
	wg.Wait()
	if count.Load() != 50 {
		t.Errorf("count = %d, want 50", count.Load())
	}

	if p.Go(nil) {
		t.Error("Go(nil) reported queued")
	}
	p.Close()
	if p.Go(func() {}) {
		t.Error("Go on closed pool reported queued")
	}
}

func TestPool_CloseRunsQueued(t *testing.T) {
	p := NewPool(1)

	var count atomic.Int64
	for range 5 {
		p.Go(func() { count.Add(1) })
	}
	p.Close()
	if count.Load() != 5 {
		t.Errorf("count = %d, want 5 after Close", count.Load())
	}
	p.Close()
	if p.Running() {
		t.Error("pool still running after Close")
	}
}
