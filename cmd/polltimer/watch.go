// Copyright (C) 2025 Jan Wrobel <jan@wwwhisper.io>
// This program is freely distributable under the terms of the
// Simplified BSD License. See COPYING.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"github.com/wrr/polltimer/internal/cache"
	"github.com/wrr/polltimer/timer"
)

type fileState struct {
	exists  bool
	size    int64
	modTime time.Time
}

type statFunc func(string) (fs.FileInfo, error)

// sleepFunc blocks for d or until ctx is done, whichever comes first.
type sleepFunc func(ctx context.Context, d time.Duration)

func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// change describes how state moved from prev to cur, "" if the file
// did not change.
func change(prev, cur fileState) string {
	switch {
	case !prev.exists && cur.exists:
		return "created"
	case prev.exists && !cur.exists:
		return "removed"
	case prev.exists && (prev.size != cur.size || !prev.modTime.Equal(cur.modTime)):
		return "modified"
	}
	return ""
}

type watcher struct {
	cfg    Config
	clock  timer.Clock
	sleep  sleepFunc
	out    io.Writer
	log    *slog.Logger
	states *cache.Cache[string, fileState]
	last   map[string]fileState
}

func newWatcher(cfg Config, clock timer.Clock, sleep sleepFunc, stat statFunc,
	out io.Writer, log *slog.Logger) (*watcher, error) {
	load := func(path string) (fileState, error) {
		info, err := stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return fileState{}, nil
		}
		if err != nil {
			return fileState{}, err
		}
		return fileState{exists: true, size: info.Size(), modTime: info.ModTime()}, nil
	}
	states, err := cache.New[string, fileState](len(cfg.Paths), cfg.Restat, load,
		cache.ClockTimers(clock), log)
	if err != nil {
		return nil, err
	}
	return &watcher{
		cfg:    cfg,
		clock:  clock,
		sleep:  sleep,
		out:    out,
		log:    log,
		states: states,
		last:   make(map[string]fileState),
	}, nil
}

func (w *watcher) poll(elapsed time.Duration) {
	for _, path := range w.cfg.Paths {
		cur, err := w.states.Get(path)
		if err != nil {
			w.log.Warn("stat failed", slog.String("path", path), slog.Any("err", err))
			continue
		}
		prev, seen := w.last[path]
		w.last[path] = cur
		if !seen {
			w.log.Debug("watching", slog.String("path", path), slog.Bool("exists", cur.exists))
			continue
		}
		if event := change(prev, cur); event != "" {
			w.log.Info("change", slog.String("path", path), slog.String("event", event),
				slog.String("elapsed", timer.MsString(elapsed)))
			fmt.Fprintf(w.out, "%s %s\n", event, path)
		}
	}
}

// run polls the watched files every cfg.Tick until cfg.RunFor expires
// or ctx is done. Returns the total run time.
func (w *watcher) run(ctx context.Context) time.Duration {
	tick := timer.NewWithClock(w.cfg.Tick, w.clock)
	end := timer.NewWithClock(w.cfg.RunFor, w.clock)
	w.poll(0)
	for ctx.Err() == nil {
		if w.cfg.RunFor > 0 && end.Expired() {
			break
		}
		if tick.Expired() {
			tick.Reset()
			w.poll(end.Elapsed())
		}
		wait := tick.Remaining()
		if w.cfg.RunFor > 0 {
			wait = min(wait, end.Remaining())
		}
		w.sleep(ctx, wait)
	}
	return end.Elapsed()
}
