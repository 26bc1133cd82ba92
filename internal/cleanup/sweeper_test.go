package cleanup

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeLifecycle struct {
	mu      sync.Mutex
	expired int
	swept   int
}

func (f *fakeLifecycle) ExpireDue(ctx context.Context, now time.Time) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expired++
	return 1
}

func (f *fakeLifecycle) SweepTerminal(now time.Time, retention time.Duration) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.swept++
	return 0
}

func (f *fakeLifecycle) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.expired, f.swept
}

func TestSweeperRunsImmediatelyAndPeriodically(t *testing.T) {
	fake := &fakeLifecycle{}
	sweeper := NewSweeper(fake, 20*time.Millisecond, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper.Start(ctx)

	deadline := time.After(2 * time.Second)
	for {
		expired, swept := fake.counts()
		if expired >= 2 && swept >= 2 {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("expected at least 2 sweep cycles, got expired=%d swept=%d", expired, swept)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestSweeperStopsOnCancel(t *testing.T) {
	fake := &fakeLifecycle{}
	sweeper := NewSweeper(fake, 10*time.Millisecond, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	sweeper.Start(ctx)

	time.Sleep(30 * time.Millisecond)
	cancel()
	time.Sleep(30 * time.Millisecond)

	expired, _ := fake.counts()
	time.Sleep(50 * time.Millisecond)
	after, _ := fake.counts()
	if after > expired+1 {
		t.Errorf("sweeper kept running after cancel: %d -> %d", expired, after)
	}
}

func TestNewSweeperDefaults(t *testing.T) {
	sweeper := NewSweeper(&fakeLifecycle{}, 0, 0)
	if sweeper.interval != time.Hour {
		t.Errorf("expected default interval 1h, got %v", sweeper.interval)
	}
	if sweeper.retention != 24*time.Hour {
		t.Errorf("expected default retention 24h, got %v", sweeper.retention)
	}
}
