package reel

import "time"

// SchedulerStats is a snapshot of scheduler counters.
type SchedulerStats struct {
	Active     int    // timelines currently registered
	Registered uint64 // timelines ever registered
	Completed  uint64 // timelines that played to the end
	Killed     uint64 // timelines removed by Kill
	Callbacks  uint64 // callbacks fired
	Ticks      uint64 // calls to Tick or Advance
}

// Scheduler advances every registered timeline once per tick, in the order
// the timelines were registered. A timeline leaves the scheduler on the
// tick its playhead reaches its total duration, after that tick's writes.
//
// Each Stage owns one Scheduler; there is no package-level instance.
type Scheduler struct {
	timelines []*Timeline

	lastTick time.Duration
	ticked   bool

	stats SchedulerStats
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// NewTimeline creates a timeline that is already registered. Entries may be
// appended until the next tick advances it.
func (s *Scheduler) NewTimeline(opts TimelineOpts) *Timeline {
	tl := NewTimeline(opts)
	s.Register(tl)
	return tl
}

// Register adds a built timeline to the end of the play order. Panics if
// the timeline is already registered, nested or has been played.
func (s *Scheduler) Register(tl *Timeline) {
	if tl == nil {
		panic("reel: cannot register nil timeline")
	}
	if tl.sched != nil || tl.nested || tl.started {
		panic("reel: timeline is already playing or nested")
	}
	tl.sched = s
	s.timelines = append(s.timelines, tl)
	s.stats.Registered++
}

// DelayedCall registers a timeline that calls fn once, delay seconds from
// now.
func (s *Scheduler) DelayedCall(delay float64, fn func()) *Timeline {
	tl := NewTimeline(TimelineOpts{Delay: delay, Name: "delayedCall"})
	tl.Call(fn)
	s.Register(tl)
	return tl
}

// Tween plays a single tween on its own timeline.
func (s *Scheduler) Tween(tw *Tween) *Timeline {
	tl := NewTimeline(TimelineOpts{Name: "tween"})
	tl.Add(tw)
	s.Register(tl)
	return tl
}

// Tick advances all timelines to now. The first tick only records now and
// advances by zero, so a clock that starts late does not cause a jump.
func (s *Scheduler) Tick(now time.Duration) {
	var dt time.Duration
	if s.ticked {
		dt = now - s.lastTick
	}
	s.ticked = true
	s.lastTick = now
	s.Advance(dt.Seconds())
}

// Advance moves every registered timeline forward by dt seconds. Negative
// or non-finite steps are treated as zero. Timelines registered while
// advancing (from a callback) first move on the following tick.
func (s *Scheduler) Advance(dt float64) {
	if dt < 0 || !isFinite(dt) {
		dt = 0
	}
	s.stats.Ticks++

	n := len(s.timelines)
	for i := 0; i < n; i++ {
		tl := s.timelines[i]
		if tl.killed || tl.done {
			continue
		}
		s.stats.Callbacks += uint64(tl.advance(dt))
	}

	kept := s.timelines[:0]
	for _, tl := range s.timelines {
		switch {
		case tl.killed:
			s.stats.Killed++
			tl.sched = nil
		case tl.done:
			s.stats.Completed++
			tl.sched = nil
		default:
			kept = append(kept, tl)
		}
	}
	for i := len(kept); i < len(s.timelines); i++ {
		s.timelines[i] = nil
	}
	s.timelines = kept
}

// Len returns the number of registered timelines.
func (s *Scheduler) Len() int { return len(s.timelines) }

// Timelines returns the registered timelines in play order. The returned
// slice MUST NOT be mutated by the caller.
func (s *Scheduler) Timelines() []*Timeline { return s.timelines }

// Stats returns the current counters.
func (s *Scheduler) Stats() SchedulerStats {
	st := s.stats
	st.Active = len(s.timelines)
	return st
}
