package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wrr/polltimer/internal/timertest"
)

func TestTimer(t *testing.T) {
	clock := timertest.NewClock()
	tmr := NewWithClock(100*time.Millisecond, clock)
	require.False(t, tmr.Expired(), "Timer incorrectly expired")
	require.Equal(t, time.Duration(0), tmr.Elapsed())

	clock.Advance(50 * time.Millisecond)
	require.False(t, tmr.Expired())
	require.Equal(t, 50*time.Millisecond, tmr.Elapsed())
	require.Equal(t, 50*time.Millisecond, tmr.Remaining())

	clock.Advance(60 * time.Millisecond)
	require.True(t, tmr.Expired())
	require.Equal(t, 110*time.Millisecond, tmr.Elapsed())
	require.Equal(t, time.Duration(0), tmr.Remaining())

	tmr.Reset()
	require.False(t, tmr.Expired(), "Reset timer should not be expired")
	require.Equal(t, time.Duration(0), tmr.Elapsed())
	require.Equal(t, 100*time.Millisecond, tmr.Remaining())
}

func TestExpiresExactlyAtDuration(t *testing.T) {
	clock := timertest.NewClock()
	tmr := NewWithClock(time.Second, clock)
	clock.Advance(time.Second - time.Nanosecond)
	require.False(t, tmr.Expired())
	clock.Advance(time.Nanosecond)
	require.True(t, tmr.Expired())
}

func TestExpiredDoesNotRearm(t *testing.T) {
	clock := timertest.NewClock()
	tmr := NewWithClock(time.Second, clock)
	clock.Advance(2 * time.Second)
	for i := 0; i < 5; i++ {
		require.True(t, tmr.Expired())
	}
	require.Equal(t, 2*time.Second, tmr.Elapsed())

	tmr.Reset()
	for i := 0; i < 5; i++ {
		require.False(t, tmr.Expired())
	}
}

func TestZeroDuration(t *testing.T) {
	clock := timertest.NewClock()
	tmr := NewWithClock(0, clock)
	require.True(t, tmr.Expired(), "Zero duration timer should be expired")
	tmr.Reset()
	require.True(t, tmr.Expired())

	require.True(t, New(0).Expired())
}

func TestNegativeDurationIsClampedToZero(t *testing.T) {
	clock := timertest.NewClock()
	tmr := NewWithClock(-time.Minute, clock)
	require.Equal(t, time.Duration(0), tmr.Duration())
	require.True(t, tmr.Expired())
	require.Equal(t, time.Duration(0), tmr.Remaining())
}

func TestDurationIsFixed(t *testing.T) {
	clock := timertest.NewClock()
	tmr := NewWithClock(3*time.Second, clock)
	clock.Advance(5 * time.Second)
	tmr.Reset()
	require.Equal(t, 3*time.Second, tmr.Duration())
}

func TestElapsedNeverNegative(t *testing.T) {
	clock := timertest.NewClock()
	tmr := NewWithClock(time.Second, clock)
	// A misbehaving injected clock goes back in time.
	clock.Advance(-time.Hour)
	require.Equal(t, time.Duration(0), tmr.Elapsed())
	require.False(t, tmr.Expired())
	require.Equal(t, time.Second, tmr.Remaining())
}

func TestNilClockUsesSystemClock(t *testing.T) {
	tmr := NewWithClock(time.Hour, nil)
	require.False(t, tmr.Expired())
	require.GreaterOrEqual(t, tmr.Elapsed(), time.Duration(0))
}

func TestClockFunc(t *testing.T) {
	now := timertest.Epoch
	tmr := NewWithClock(time.Minute, ClockFunc(func() time.Time { return now }))
	now = now.Add(time.Minute)
	require.True(t, tmr.Expired())
}

func TestStopwatch(t *testing.T) {
	sw := NewStopwatch()
	require.True(t, sw.Expired())
	require.Equal(t, time.Duration(0), sw.Duration())
	require.GreaterOrEqual(t, sw.Elapsed(), time.Duration(0))
}

func TestElapsedIsMonotonic(t *testing.T) {
	tmr := New(time.Hour)
	prev := tmr.Elapsed()
	for i := 0; i < 10000; i++ {
		cur := tmr.Elapsed()
		require.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestRealClock(t *testing.T) {
	tmr := New(100 * time.Millisecond)
	require.False(t, tmr.Expired())

	time.Sleep(50 * time.Millisecond)
	require.False(t, tmr.Expired())

	time.Sleep(60 * time.Millisecond)
	require.True(t, tmr.Expired())
	require.GreaterOrEqual(t, tmr.Elapsed(), 110*time.Millisecond)

	tmr.Reset()
	require.False(t, tmr.Expired())
	require.Less(t, tmr.Elapsed(), 50*time.Millisecond)
}

func TestPollingLoop(t *testing.T) {
	if testing.Short() {
		t.Skip("polls for two seconds")
	}
	end := New(2 * time.Second)
	started := time.Now()
	for !end.Expired() {
	}
	require.GreaterOrEqual(t, time.Since(started), 2*time.Second)
	require.GreaterOrEqual(t, end.Elapsed(), 2*time.Second)
}

func TestMsString(t *testing.T) {
	require.Equal(t, "0.00ms", MsString(0))
	require.Equal(t, "1.50ms", MsString(1500*time.Microsecond))
	require.Equal(t, "2000.00ms", MsString(2*time.Second))
}
