package reel

import (
	"testing"
	"time"
)

func TestStepClock(t *testing.T) {
	c := NewStepClock(10 * time.Millisecond)
	want := []time.Duration{0, 10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond}
	for i, w := range want {
		if got := c.Now(); got != w {
			t.Errorf("read %d = %v, want %v", i, got, w)
		}
	}
}

func TestStepClockHz(t *testing.T) {
	c := NewStepClockHz(50)
	if c.Step != 20*time.Millisecond {
		t.Errorf("Step = %v, want 20ms", c.Step)
	}
	if NewStepClockHz(0).Step != time.Second/60 {
		t.Error("non-positive hz should fall back to 60")
	}
}

func TestSystemClockStartsAtZero(t *testing.T) {
	c := NewSystemClock()
	if got := c.Now(); got != 0 {
		t.Errorf("first read = %v, want 0", got)
	}
	if got := c.Now(); got < 0 {
		t.Errorf("second read = %v, want >= 0", got)
	}
}
