package security

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultSweepInterval is how often idle local buckets are swept.
const DefaultSweepInterval = time.Minute

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
	idle     time.Duration
}

// LocalBuckets is a keyed set of in-process token buckets. A bucket idle
// for longer than its refill period is full again, so dropping it loses no
// state.
type LocalBuckets struct {
	mu      sync.Mutex
	entries map[string]*bucket

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewLocalBuckets creates the set and, when sweepEvery > 0, starts a
// background sweep that runs until Close.
func NewLocalBuckets(sweepEvery time.Duration) *LocalBuckets {
	b := &LocalBuckets{
		entries: make(map[string]*bucket),
		stopCh:  make(chan struct{}),
	}
	if sweepEvery > 0 {
		go b.sweepLoop(sweepEvery)
	}
	return b
}

// Get returns the bucket for key, creating it with burst tokens refilled
// one per every.
func (b *LocalBuckets) Get(key string, every time.Duration, burst int, now time.Time) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[key]
	if !ok {
		e = &bucket{
			lim:  rate.NewLimiter(rate.Every(every), burst),
			idle: every * time.Duration(burst),
		}
		b.entries[key] = e
	}
	e.lastSeen = now
	return e.lim
}

// Sweep drops buckets idle past their refill period and returns how many
// were removed.
func (b *LocalBuckets) Sweep(now time.Time) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	removed := 0
	for key, e := range b.entries {
		if now.Sub(e.lastSeen) > e.idle {
			delete(b.entries, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of live buckets.
func (b *LocalBuckets) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Close stops the background sweep.
func (b *LocalBuckets) Close() {
	b.stopOnce.Do(func() { close(b.stopCh) })
}

func (b *LocalBuckets) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopCh:
			return
		case now := <-ticker.C:
			b.Sweep(now)
		}
	}
}
