// Copyright (C) 2025 Jan Wrobel <jan@wwwhisper.io>
// This program is freely distributable under the terms of the
// Simplified BSD License. See COPYING.

package timer

import "time"

// Clock is a source of the current time.
//
// Timers compute elapsed time with time.Time.Sub, which uses the
// monotonic clock reading when both values carry one. time.Now
// values do, so SystemClock is not affected by wall clock changes.
type Clock interface {
	Now() time.Time
}

// ClockFunc allows to use an ordinary function as a Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads the current time with time.Now.
var SystemClock Clock = ClockFunc(time.Now)
