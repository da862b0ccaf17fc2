// Copyright (C) 2025 Jan Wrobel <jan@wwwhisper.io>
// This program is freely distributable under the terms of the
// Simplified BSD License. See COPYING.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/wrr/polltimer/timer"
)

const Version = "0.1.0"

type Config struct {
	Paths    []string
	Tick     time.Duration
	RunFor   time.Duration
	Restat   time.Duration
	LogLevel slog.Level
}

func parseLogLevel(logLevelStr string) slog.Level {
	switch strings.ToLower(logLevelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "":
		// default if POLLTIMER_LOG is not set
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "off":
		return slog.LevelError + 1
	default:
		// Use Info if logLevelStr is set to any other string
		return slog.LevelInfo
	}
}

func newConfig(paths []string, tick, runFor, restat time.Duration) (Config, error) {
	if len(paths) == 0 {
		return Config{}, errors.New("no files to watch")
	}
	if tick <= 0 {
		return Config{}, fmt.Errorf("-tick must be positive, got %v", tick)
	}
	if runFor < 0 {
		return Config{}, fmt.Errorf("-for can not be negative, got %v", runFor)
	}
	if restat < 0 {
		return Config{}, fmt.Errorf("-restat can not be negative, got %v", restat)
	}
	return Config{
		Paths:    paths,
		Tick:     tick,
		RunFor:   runFor,
		Restat:   restat,
		LogLevel: parseLogLevel(os.Getenv("POLLTIMER_LOG")),
	}, nil
}

func die(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}

func main() {
	tickFlag := flag.Duration("tick", 100*time.Millisecond,
		"How often the watched files are checked.")

	forFlag := flag.Duration("for", 0,
		`For how long to watch the files.
0 means watch until interrupted.`)

	restatFlag := flag.Duration("restat", 500*time.Millisecond,
		`Minimum time between two stat calls for the same file.
Changes can be reported with up to this delay.`)

	versionFlag := flag.Bool("version", false, "Print the program version")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: polltimer [options] file...\nReports changes to files by polling them.\nOptions:\n")
		flag.PrintDefaults()
	}
	err := flag.CommandLine.Parse(os.Args[1:])
	if err != nil {
		die(err)
	}

	if *versionFlag {
		fmt.Println(Version)
		return
	}

	cfg, err := newConfig(flag.Args(), *tickFlag, *forFlag, *restatFlag)
	if err != nil {
		die(err)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})
	log := slog.New(handler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	w, err := newWatcher(cfg, timer.SystemClock, sleepContext, os.Stat, os.Stdout, log)
	if err != nil {
		die(err)
	}
	total := w.run(ctx)
	fmt.Printf("total time: %s\n", timer.MsString(total))
}
