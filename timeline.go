package reel

import (
	"cmp"
	"math"
	"slices"
)

type entryKind uint8

const (
	entryTween entryKind = iota
	entryTimeline
	entryCall
)

// entry is one scheduled item of a timeline. start is resolved when the
// entry is appended and never changes afterwards.
type entry struct {
	kind  entryKind
	start float64
	span  float64

	tween *Tween
	child *Timeline
	fn    func()

	done bool
}

func (e *entry) end() float64 { return e.start + e.span }

// TimelineOpts configures a new Timeline.
type TimelineOpts struct {
	// Delay shifts the whole timeline later by this many seconds.
	Delay float64
	// Name labels the timeline in logs and traces.
	Name string
	// OnComplete fires once, on the tick where the playhead reaches the end.
	OnComplete func()
}

// Timeline is a statically laid out sequence of tweens, nested timelines and
// zero-duration callbacks. Each entry's start time is resolved from its
// Position when it is appended. Once the timeline has been advanced (or
// nested into another timeline) the layout is frozen and appending panics.
//
// Callbacks fire exactly once, on the advance where the playhead crosses
// their time: previous < t <= current. Before the first advance previous
// is -Inf, so a callback at 0 fires on the first advance that reaches the
// timeline's origin.
type Timeline struct {
	name       string
	delay      float64
	onComplete func()

	entries   []*entry
	byStart   []*entry // entries sorted by start, ties in append order
	duration  float64
	lastStart float64
	lastEnd   float64

	elapsed float64
	prev    float64
	started bool
	frozen  bool
	nested  bool
	done    bool
	killed  bool

	sched *Scheduler
}

// NewTimeline creates an unregistered timeline. Hand it to
// Scheduler.Register to play it, or nest it with AddTimeline.
func NewTimeline(opts TimelineOpts) *Timeline {
	if opts.Delay < 0 || !isFinite(opts.Delay) {
		panic("reel: timeline delay must be a finite, non-negative number")
	}
	return &Timeline{
		name:       opts.Name,
		delay:      opts.Delay,
		onComplete: opts.OnComplete,
		prev:       math.Inf(-1),
	}
}

// Name returns the timeline's label.
func (tl *Timeline) Name() string { return tl.name }

// Delay returns the timeline's start delay in seconds.
func (tl *Timeline) Delay() float64 { return tl.delay }

// Duration returns the latest entry end, measured from the timeline's
// origin (the delay is not included).
func (tl *Timeline) Duration() float64 { return tl.duration }

// TotalDuration returns Delay plus Duration.
func (tl *Timeline) TotalDuration() float64 { return tl.delay + tl.duration }

// Elapsed returns the time the timeline has been advanced by, including
// its delay.
func (tl *Timeline) Elapsed() float64 { return tl.elapsed }

// Len returns the number of entries.
func (tl *Timeline) Len() int { return len(tl.entries) }

// StartAt returns the resolved start of the i-th appended entry.
func (tl *Timeline) StartAt(i int) float64 { return tl.entries[i].start }

// Done reports whether the timeline has played to the end.
func (tl *Timeline) Done() bool { return tl.done }

// Killed reports whether Kill has been called.
func (tl *Timeline) Killed() bool { return tl.killed }

// Kill stops the timeline. No further values are written and no further
// callbacks fire; a registered timeline leaves its scheduler on the next
// advance.
func (tl *Timeline) Kill() {
	tl.killed = true
}

// --- Building ---

// Add appends a tween at pos (default: after the previous entry).
func (tl *Timeline) Add(tw *Tween, pos ...Position) *Timeline {
	if tw == nil {
		panic("reel: cannot add nil tween")
	}
	if tw.owned {
		panic("reel: tween already belongs to a timeline")
	}
	tw.owned = true
	tl.append(&entry{kind: entryTween, tween: tw, span: tw.TotalDuration()}, pos)
	return tl
}

// AddTimeline nests child at pos. The child's layout is frozen and it is
// advanced by this timeline from then on.
func (tl *Timeline) AddTimeline(child *Timeline, pos ...Position) *Timeline {
	if child == nil {
		panic("reel: cannot add nil timeline")
	}
	if child == tl {
		panic("reel: timeline cannot contain itself")
	}
	if child.nested || child.sched != nil || child.started {
		panic("reel: timeline is already playing or nested")
	}
	child.nested = true
	child.frozen = true
	tl.append(&entry{kind: entryTimeline, child: child, span: child.TotalDuration()}, pos)
	return tl
}

// Call appends a zero-duration callback at pos.
func (tl *Timeline) Call(fn func(), pos ...Position) *Timeline {
	if fn == nil {
		panic("reel: cannot add nil callback")
	}
	tl.append(&entry{kind: entryCall, fn: fn}, pos)
	return tl
}

// To appends a tween from target's current value of path (read now) to to.
func (tl *Timeline) To(target *Node, path PropertyPath, to Vec3, opts TweenOpts, pos ...Position) *Timeline {
	return tl.Add(TweenTo(target, path, to, opts), pos...)
}

// From appends a tween from from to target's current value of path (read
// now).
func (tl *Timeline) From(target *Node, path PropertyPath, from Vec3, opts TweenOpts, pos ...Position) *Timeline {
	return tl.Add(TweenFrom(target, path, from, opts), pos...)
}

// FromTo appends a tween with explicit endpoints.
func (tl *Timeline) FromTo(target *Node, path PropertyPath, from, to Vec3, opts TweenOpts, pos ...Position) *Timeline {
	return tl.Add(NewTween(target, path, from, to, opts), pos...)
}

func (tl *Timeline) append(e *entry, pos []Position) {
	if tl.frozen {
		panic("reel: cannot append to a timeline that has started playing")
	}
	if len(pos) > 1 {
		panic("reel: at most one position per entry")
	}
	var p Position
	if len(pos) == 1 {
		p = pos[0]
	}
	e.start = p.resolve(tl.lastStart, tl.lastEnd)
	tl.entries = append(tl.entries, e)
	tl.lastStart = e.start
	tl.lastEnd = e.end()
	if tl.lastEnd > tl.duration {
		tl.duration = tl.lastEnd
	}
}

// --- Playback ---

// advance moves the timeline forward by dt and returns the number of
// callbacks fired.
func (tl *Timeline) advance(dt float64) int {
	return tl.seek(tl.elapsed + dt)
}

// seek renders the timeline at elapsed time e (delay included). The
// playhead only moves forward. When one step crosses several callbacks they
// fire in time order, each after the rest of the timeline has been rendered
// at the callback's own time.
func (tl *Timeline) seek(e float64) int {
	if tl.killed || tl.done {
		return 0
	}
	tl.started = true
	tl.frozen = true
	if tl.byStart == nil {
		tl.byStart = slices.Clone(tl.entries)
		slices.SortStableFunc(tl.byStart, func(a, b *entry) int {
			return cmp.Compare(a.start, b.start)
		})
	}
	if e < tl.elapsed {
		e = tl.elapsed
	}
	tl.elapsed = e
	cur := e - tl.delay
	prev := tl.prev
	tl.prev = cur

	fired := 0
	for _, en := range tl.byStart {
		if en.kind != entryCall || en.done || en.start <= prev {
			continue
		}
		if en.start > cur {
			break
		}
		fired += tl.render(en.start)
		if tl.killed {
			return fired
		}
		en.done = true
		fired++
		en.fn()
		if tl.killed {
			return fired
		}
	}
	fired += tl.render(cur)
	if tl.killed {
		return fired
	}

	if cur >= tl.duration {
		tl.done = true
		if tl.onComplete != nil {
			tl.onComplete()
		}
	}
	return fired
}

// render writes every tween and nested timeline that has started by local
// time t, in start order. Callbacks are left to seek.
func (tl *Timeline) render(t float64) int {
	fired := 0
	for _, en := range tl.byStart {
		if en.start > t {
			break
		}
		if tl.killed {
			return fired
		}
		switch en.kind {
		case entryTween:
			if !en.done {
				en.tween.Seek(t - en.start)
				en.done = en.tween.Done()
			}
		case entryTimeline:
			if !en.done {
				fired += en.child.seek(t - en.start)
				en.done = en.child.done
			}
		}
	}
	return fired
}
