package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStopwatchNotStarted(t *testing.T) {
	stopwatch := NewStopwatch(time.Hour)

	stopped, _ := stopwatch.Stopped()
	assert.True(t, stopped)
}

func TestStopwatchRunning(t *testing.T) {
	stopwatch := NewStopwatch(time.Hour)
	stopwatch.Start()

	stopped, elapsed := stopwatch.Stopped()
	assert.False(t, stopped)
	assert.Negative(t, elapsed)
}

func TestStopwatchTimeoutReached(t *testing.T) {
	stopwatch := NewStopwatch(0)
	stopwatch.Start()

	stopped, elapsed := stopwatch.Stopped()
	assert.True(t, stopped)
	assert.GreaterOrEqual(t, elapsed, time.Duration(0))
}

func TestStopwatchStop(t *testing.T) {
	stopwatch := NewStopwatch(time.Hour)
	stopwatch.Start()
	stopwatch.Stop()

	stopped, _ := stopwatch.Stopped()
	assert.True(t, stopped)
}
