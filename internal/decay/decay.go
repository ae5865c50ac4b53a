// Package decay holds the time curves of the economy. Every value is recomputed
// from timestamps and the like discount, so polling is idempotent.
package decay

import (
	"math"
	"time"
)

// LinearValue interpolates from start down to floor over window.
// Elapsed time past the window holds the floor; negative elapsed holds the start.
func LinearValue(start, floor float64, window, elapsed time.Duration) float64 {
	if window <= 0 || elapsed >= window {
		return floor
	}
	if elapsed <= 0 {
		return start
	}
	v := start - (start-floor)*(float64(elapsed)/float64(window))
	return math.Max(floor, v)
}

// Remaining is the countdown left on a maturation window after elapsed time and
// accumulated discount, floored at zero.
func Remaining(window, elapsed, discount time.Duration) time.Duration {
	if elapsed < 0 {
		elapsed = 0
	}
	if discount < 0 {
		discount = 0
	}
	left := window - elapsed - discount
	if left < 0 {
		return 0
	}
	return left
}

// Matured reports whether the countdown reached zero
func Matured(window, elapsed, discount time.Duration) bool {
	return Remaining(window, elapsed, discount) == 0
}

// Accrue pays whole minutes since lastPayoutAt at ratePerHour. The anchor moves by
// exactly the minutes paid, so fractional minutes carry over to the next call.
func Accrue(ratePerHour float64, lastPayoutAt, now time.Time) (credited int64, newAnchor time.Time) {
	elapsed := now.Sub(lastPayoutAt)
	if elapsed < time.Minute {
		return 0, lastPayoutAt
	}
	minutes := int64(elapsed / time.Minute)
	newAnchor = lastPayoutAt.Add(time.Duration(minutes) * time.Minute)
	if ratePerHour <= 0 {
		return 0, newAnchor
	}
	credited = int64(math.Floor(ratePerHour * float64(minutes) / 60))
	return credited, newAnchor
}
