package reel

import "time"

// Clock supplies tick timestamps to a Stage.
type Clock interface {
	// Now returns the time since the clock's origin.
	Now() time.Duration
}

// SystemClock reads the monotonic wall clock. Its origin is the first call
// to Now, so the first reading is always zero.
type SystemClock struct {
	origin  time.Time
	started bool
}

// NewSystemClock creates a wall clock.
func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

// Now implements Clock.
func (c *SystemClock) Now() time.Duration {
	if !c.started {
		c.started = true
		c.origin = time.Now()
		return 0
	}
	return time.Since(c.origin)
}

// StepClock advances by a fixed step on every read after the first. It
// makes headless runs reproducible.
type StepClock struct {
	Step time.Duration

	now     time.Duration
	started bool
}

// NewStepClock creates a clock that moves step per reading.
func NewStepClock(step time.Duration) *StepClock {
	return &StepClock{Step: step}
}

// NewStepClockHz creates a StepClock ticking hz times per second.
func NewStepClockHz(hz int) *StepClock {
	if hz <= 0 {
		hz = 60
	}
	return NewStepClock(time.Second / time.Duration(hz))
}

// Now implements Clock.
func (c *StepClock) Now() time.Duration {
	if !c.started {
		c.started = true
		return 0
	}
	c.now += c.Step
	return c.now
}
