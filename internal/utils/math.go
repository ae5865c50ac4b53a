package utils

import (
	"math/rand"
	"sync"
	"time"
)

// Rand is a goroutine-safe, seedable source of game randomness.
// Sweeps and user actions share one instance, so every draw takes the lock.
type Rand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand creates a Rand with a fixed seed (deterministic tests)
func NewRand(seed int64) *Rand {
	return &Rand{r: rand.New(rand.NewSource(seed))} //nolint:gosec // Game logic randomness, not security critical
}

// NewTimeSeededRand creates a Rand seeded from the wall clock
func NewTimeSeededRand() *Rand {
	return NewRand(time.Now().UnixNano())
}

// Float64 returns a random float64 in [0.0, 1.0)
func (r *Rand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.Float64()
}

// Int63n returns a random int64 in [0, n). n must be positive.
func (r *Rand) Int63n(n int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.Int63n(n)
}

// Intn returns a random int in [0, n). n must be positive.
func (r *Rand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.Intn(n)
}

// IntRange returns a random integer between min and max (inclusive)
func (r *Rand) IntRange(min, max int) int {
	if min >= max {
		return min
	}
	return r.Intn(max-min+1) + min
}

// Int64Range returns a random int64 between min and max (inclusive)
func (r *Rand) Int64Range(min, max int64) int64 {
	if min >= max {
		return min
	}
	return r.Int63n(max-min+1) + min
}

// DurationRange returns a random duration between min and max (inclusive),
// drawn in whole steps of unit
func (r *Rand) DurationRange(min, max, unit time.Duration) time.Duration {
	if unit <= 0 {
		unit = time.Nanosecond
	}
	steps := r.Int64Range(int64(min/unit), int64(max/unit))
	return time.Duration(steps) * unit
}
