// Package clock advances cycle count and wall-clock pacing for the
// engine, in either Generator mode (no sleeping, used for deterministic
// batch runs) or Realtime mode (paced to cycle_time).
package clock

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"
)

const executionTimeWarningThreshold = 0.6

// Mode selects whether the clock paces itself against real time.
type Mode int

const (
	Realtime Mode = iota
	Generator
)

func (m Mode) String() string {
	switch m {
	case Realtime:
		return "REALTIME"
	case Generator:
		return "GENERATOR"
	default:
		return "UNKNOWN"
	}
}

// ParseMode parses the YAML-level mode string ("REALTIME" or
// "GENERATOR"), case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(s) {
	case "REALTIME", "":
		return Realtime, nil
	case "GENERATOR":
		return Generator, nil
	default:
		return 0, fmt.Errorf("clock: unknown mode %q", s)
	}
}

// Config holds everything a Clock needs, already typed.
type Config struct {
	CycleTime      float64
	Mode           Mode
	SampleInterval *float64
	TimeFormat     string
	StartTime      time.Time
}

// Clock tracks cycle_count and wall-clock pacing. Not safe for concurrent
// use: it is driven by the engine's single executor.
type Clock struct {
	cycleCount int
	startTime  time.Time
	cycleTime  float64
	mode       Mode
	sampleInterval *float64
	timeFormat     string

	sampleCycles int // 0 means every cycle is sampled

	currentCycleStart time.Time

	// now and sleep are overridden in tests to avoid real wall-clock waits.
	now   func() time.Time
	sleep func(time.Duration)
}

func New(cfg Config) *Clock {
	startTime := cfg.StartTime
	if startTime.IsZero() {
		startTime = time.Now()
	}
	sampleCycles := 0
	if cfg.SampleInterval != nil && cfg.CycleTime > 0 {
		sampleCycles = int(math.Round(*cfg.SampleInterval / cfg.CycleTime))
	}
	return &Clock{
		startTime:      startTime,
		cycleTime:      cfg.CycleTime,
		mode:           cfg.Mode,
		sampleInterval: cfg.SampleInterval,
		sampleCycles:   sampleCycles,
		timeFormat:     cfg.TimeFormat,
		now:            time.Now,
		sleep:          time.Sleep,
	}
}

// SimTime returns start_time + cycle_count * cycle_time for the current
// cycle_count.
func (c *Clock) SimTime() time.Time {
	elapsed := time.Duration(float64(c.cycleCount) * c.cycleTime * float64(time.Second))
	return c.startTime.Add(elapsed)
}

// Tick advances cycle_count by one, records the wall-clock start of this
// cycle for SleepRemaining, and reports whether this cycle should be
// sampled and the formatted simulation time.
//
// need_sample follows the strict equal-multiples rule on whole cycles:
// true on the first cycle and every sample_interval/cycle_time cycles
// after it (see needSample), rather than the modulo-threshold formula —
// see the module's documentation for why.
func (c *Clock) Tick() (cycleCount int, needSample bool, timeString string) {
	c.cycleCount++
	c.currentCycleStart = c.now()

	simTime := c.SimTime()
	needSample = c.needSample()
	return c.cycleCount, needSample, c.formatTime(simTime)
}

// needSample uses the strict equal-multiples rule, counting cycles
// zero-based so the run's first cycle always samples:
// (cycle_count-1) % sampleCycles == 0, where sampleCycles is
// sample_interval/cycle_time rounded to the nearest whole cycle.
func (c *Clock) needSample() bool {
	if c.sampleInterval == nil || c.sampleCycles <= 0 {
		return true
	}
	return (c.cycleCount-1)%c.sampleCycles == 0
}

func (c *Clock) formatTime(t time.Time) string {
	if c.timeFormat == "" {
		return t.UTC().Format(time.RFC3339)
	}
	return t.UTC().Format(c.timeFormat)
}

// ExecRatio reports this cycle's execution time as a fraction of
// cycle_time, capped at 1.0. It is always 0 in Generator mode, where
// wall-clock time is not part of the model. The engine reads this after
// all nodes have stepped, to fold into the snapshot's advisory
// exec_ratio key.
func (c *Clock) ExecRatio() float64 {
	if c.mode != Realtime {
		return 0
	}
	ratio := c.now().Sub(c.currentCycleStart).Seconds() / c.cycleTime
	return math.Min(ratio, 1.0)
}

// SleepRemaining paces Realtime mode: it computes how much of cycle_time
// remains after this cycle's work and sleeps that long, warning when the
// budget ran short or out. It is a no-op in Generator mode.
func (c *Clock) SleepRemaining(logger *slog.Logger) {
	if c.mode != Realtime {
		return
	}
	elapsed := c.now().Sub(c.currentCycleStart).Seconds()
	budget := c.cycleTime

	if elapsed > executionTimeWarningThreshold*budget {
		logger.Warn("cycle execution time exceeded warning threshold",
			"cycle_count", c.cycleCount,
			"elapsed_seconds", elapsed,
			"cycle_time", budget,
			"exec_ratio", elapsed/budget,
		)
	}
	if elapsed >= budget {
		logger.Warn("cycle has no remaining sleep budget",
			"cycle_count", c.cycleCount,
			"elapsed_seconds", elapsed,
			"cycle_time", budget,
		)
		return
	}
	c.sleep(time.Duration((budget - elapsed) * float64(time.Second)))
}

// Reset rewinds cycle_count, as if the clock had just started from that
// point.
func (c *Clock) Reset(cycleCount int) {
	c.cycleCount = cycleCount
}

// CycleCount returns the current cycle count without advancing it.
func (c *Clock) CycleCount() int {
	return c.cycleCount
}

// Mode returns the clock's current mode.
func (c *Clock) Mode() Mode {
	return c.mode
}

// SetMode switches the clock's pacing mode, used when the engine's
// RunGenerator / RunRealtime entry points take over an existing clock.
func (c *Clock) SetMode(mode Mode) {
	c.mode = mode
}

// ParseStartTime accepts either an ISO-8601 timestamp or a bare epoch
// seconds value, per the configuration schema's start_time field.
func ParseStartTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if seconds, err := strconv.ParseFloat(s, 64); err == nil {
		whole := int64(seconds)
		nanos := int64((seconds - float64(whole)) * float64(time.Second))
		return time.Unix(whole, nanos).UTC(), nil
	}
	return time.Parse(time.RFC3339, s)
}
