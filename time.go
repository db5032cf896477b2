package jwtlite

import (
	"math"
	"time"
)

// NeverExpires is the expireDate sentinel for tokens without expiry.
const NeverExpires int64 = -1

// Clock supplies the current time to Verify and to relative expiry helpers.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// FixedClock always returns t. Useful in tests.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// ExpireAt converts t into an expireDate value. The zero time maps to NeverExpires.
func ExpireAt(t time.Time) int64 {
	if t.IsZero() {
		return NeverExpires
	}
	return t.UnixMilli()
}

// ExpiresIn returns the expireDate d after the clock's current time.
// A non-positive d maps to NeverExpires.
func ExpiresIn(clock Clock, d time.Duration) int64 {
	if d <= 0 {
		return NeverExpires
	}
	if clock == nil {
		clock = SystemClock
	}
	return clock.Now().Add(d).UnixMilli()
}

// notExpired is the acceptance predicate: NeverExpires, or expireDate + maxAge >= now.
func notExpired(expireDate int64, maxAge time.Duration, now time.Time) bool {
	if expireDate == NeverExpires {
		return true
	}
	return saturatingAdd(expireDate, maxAge.Milliseconds()) >= now.UnixMilli()
}

func saturatingAdd(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	if b < 0 && a < math.MinInt64-b {
		return math.MinInt64
	}
	return a + b
}
