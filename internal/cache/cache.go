// Copyright (C) 2025 Jan Wrobel <jan@wwwhisper.io>
// This program is freely distributable under the terms of the
// Simplified BSD License. See COPYING.

// Package cache keeps a bounded number of loaded values and reloads
// them once their validity timer expires.
package cache

import (
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/wrr/polltimer/timer"
)

type Timer interface {
	Expired() bool
	Reset()
}

type TimerFactory func(time.Duration) Timer

// ClockTimers returns a TimerFactory which creates timers reading the
// time from clock.
func ClockTimers(clock timer.Clock) TimerFactory {
	return func(duration time.Duration) Timer {
		return timer.NewWithClock(duration, clock)
	}
}

// Loader obtains a fresh value for a key.
type Loader[K comparable, V any] func(K) (V, error)

type entry[V any] struct {
	timer   Timer
	value   V
	stalled bool
}

func (e *entry[V]) Get() (V, bool) {
	stalled := e.stalled || e.timer.Expired()
	return e.value, stalled
}

func (e *entry[V]) Set(v V) {
	e.value = v
	e.stalled = false
	e.timer.Reset()
}

// Cache is not safe for concurrent use.
type Cache[K comparable, V any] struct {
	entries  *lru.Cache[K, *entry[V]]
	load     Loader[K, V]
	validity time.Duration
	newTimer TimerFactory
	log      *slog.Logger
}

// New creates a cache holding at most size values. A value is served
// from the cache for validity after it was loaded, then it is loaded
// again.
func New[K comparable, V any](size int, validity time.Duration, load Loader[K, V],
	newTimer TimerFactory, log *slog.Logger) (*Cache[K, V], error) {
	entries, err := lru.New[K, *entry[V]](size)
	if err != nil {
		return nil, fmt.Errorf("invalid cache size %d: %w", size, err)
	}
	return &Cache[K, V]{
		entries:  entries,
		load:     load,
		validity: validity,
		newTimer: newTimer,
		log:      log,
	}, nil
}

// Get returns the cached value for key, loading it if it is missing or
// stalled. If loading fails but a stalled value exists, the stalled
// value is returned and the error is only logged.
func (c *Cache[K, V]) Get(key K) (V, error) {
	e, ok := c.entries.Get(key)
	var cached V
	if ok {
		var stalled bool
		cached, stalled = e.Get()
		if !stalled {
			return cached, nil
		}
	}
	fresh, err := c.load(key)
	if err != nil {
		if ok {
			c.log.Warn("serving stalled value", slog.Any("key", key), slog.Any("err", err))
			return cached, nil
		}
		var zero V
		return zero, err
	}
	if !ok {
		e = &entry[V]{timer: c.newTimer(c.validity)}
		c.entries.Add(key, e)
	}
	e.Set(fresh)
	return fresh, nil
}

// MarkStalled forces the next Get for key to reload the value.
func (c *Cache[K, V]) MarkStalled(key K) {
	if e, ok := c.entries.Peek(key); ok {
		e.stalled = true
	}
}

func (c *Cache[K, V]) Len() int {
	return c.entries.Len()
}
