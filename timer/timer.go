// Copyright (C) 2025 Jan Wrobel <jan@wwwhisper.io>
// This program is freely distributable under the terms of the
// Simplified BSD License. See COPYING.

// Package timer provides a simple timer for tracking when the
// specific time duration has elapsed.
//
// There are no callbacks and no goroutines. The caller polls Expired
// in its own loop and calls Reset to start a new interval:
//
//	tick := timer.New(100 * time.Millisecond)
//	end := timer.New(time.Second)
//	for !end.Expired() {
//		if tick.Expired() {
//			fmt.Println("tick")
//			tick.Reset()
//		}
//	}
//	fmt.Println("total time:", timer.MsString(end.Elapsed()))
package timer

import (
	"fmt"
	"time"
)

// Timer measures time elapsed since it was created or last reset and
// compares it with a fixed duration.
//
// A Timer is not safe for concurrent use. Callers that share a Timer
// between goroutines must synchronize access themselves.
type Timer struct {
	clock    Clock
	duration time.Duration
	started  time.Time
}

// New creates a timer with the specified duration and starts it.
// A negative duration is treated as zero, such timer is expired
// right away.
func New(duration time.Duration) *Timer {
	return NewWithClock(duration, SystemClock)
}

// NewWithClock is like New, but reads the current time from clock.
// A nil clock means SystemClock.
func NewWithClock(duration time.Duration, clock Clock) *Timer {
	if clock == nil {
		clock = SystemClock
	}
	if duration < 0 {
		duration = 0
	}
	return &Timer{
		clock:    clock,
		duration: duration,
		started:  clock.Now(),
	}
}

// NewStopwatch creates a zero duration timer. Such timer is always
// expired and is only useful for reading Elapsed.
func NewStopwatch() *Timer {
	return New(0)
}

// Elapsed returns the time elapsed since the timer was created or
// last reset. The result is never negative.
func (t *Timer) Elapsed() time.Duration {
	elapsed := t.clock.Now().Sub(t.started)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Expired returns true if the timer's duration has elapsed since it
// was started. Expired does not rearm the timer, it keeps returning
// true until Reset is called.
func (t *Timer) Expired() bool {
	return t.Elapsed() >= t.duration
}

// Remaining returns how long until the timer expires, 0 if it
// already has.
func (t *Timer) Remaining() time.Duration {
	remaining := t.duration - t.Elapsed()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Reset sets the timer's start time to the current time.
func (t *Timer) Reset() {
	t.started = t.clock.Now()
}

func (t *Timer) Duration() time.Duration {
	return t.duration
}

func MsString(duration time.Duration) string {
	return fmt.Sprintf("%.2fms", float64(duration.Nanoseconds())/1e6)
}
