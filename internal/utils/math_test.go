package utils

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRand_IntRangeInclusive(t *testing.T) {
	r := NewRand(42)
	seen := map[int]bool{}
	for i := 0; i < 2000; i++ {
		v := r.IntRange(2, 4)
		assert.GreaterOrEqual(t, v, 2)
		assert.LessOrEqual(t, v, 4)
		seen[v] = true
	}
	assert.Len(t, seen, 3, "every value in the range should be drawn eventually")
}

func TestRand_DegenerateRanges(t *testing.T) {
	r := NewRand(1)
	assert.Equal(t, 7, r.IntRange(7, 7))
	assert.Equal(t, 7, r.IntRange(7, 3), "min > max returns min")
	assert.Equal(t, int64(9), r.Int64Range(9, 9))
}

func TestRand_DurationRangeWholeSteps(t *testing.T) {
	r := NewRand(7)
	for i := 0; i < 500; i++ {
		d := r.DurationRange(time.Minute, 5*time.Minute, time.Minute)
		assert.GreaterOrEqual(t, d, time.Minute)
		assert.LessOrEqual(t, d, 5*time.Minute)
		assert.Zero(t, d%time.Minute)
	}
}

func TestRand_SameSeedSameSequence(t *testing.T) {
	a, b := NewRand(99), NewRand(99)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestRand_ConcurrentUse(t *testing.T) {
	r := NewRand(3)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				_ = r.Intn(10)
			}
		}()
	}
	wg.Wait()
}
