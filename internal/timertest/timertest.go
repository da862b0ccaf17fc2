// Copyright (C) 2025 Jan Wrobel <jan@wwwhisper.io>
// This program is freely distributable under the terms of the
// Simplified BSD License. See COPYING.

// Package timertest provides fakes for tests of code that polls timers.
package timertest

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Epoch is the time at which a new Clock starts.
var Epoch = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// Clock is a fake clock that only moves when told to.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock() *Clock {
	return &Clock{now: Epoch}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d. Negative d moves it back,
// which allows to test handling of misbehaving clocks.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Sleep advances the clock by d instead of blocking. It does nothing
// if ctx is already done.
func (c *Clock) Sleep(ctx context.Context, d time.Duration) {
	if ctx.Err() != nil {
		return
	}
	c.Advance(d)
}

// SinceEpoch returns how much the clock advanced since Epoch.
func (c *Clock) SinceEpoch() time.Duration {
	return c.Now().Sub(Epoch)
}

func NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
