package reel

// LoopMode selects what a tween does after reaching its target.
type LoopMode uint8

const (
	// LoopNone plays from -> to once.
	LoopNone LoopMode = iota
	// LoopYoyo plays from -> to and then to -> from once more. Duration
	// covers one direction, so a yoyo tween is active for 2*Duration and the
	// return leg replays the same ease backwards in time, ending exactly at
	// from.
	LoopYoyo
)

// TweenState is the lifecycle state of a Tween.
type TweenState uint8

const (
	TweenPending  TweenState = iota // elapsed < delay, nothing written yet
	TweenActive                     // writing interpolated values
	TweenComplete                   // final value written
)

func (s TweenState) String() string {
	switch s {
	case TweenPending:
		return "pending"
	case TweenActive:
		return "active"
	case TweenComplete:
		return "complete"
	}
	return "unknown"
}

// TweenOpts holds the timing and easing parameters of a tween.
type TweenOpts struct {
	Duration float64 // seconds, one direction
	Delay    float64 // seconds before the first write
	Ease     Ease    // nil means DefaultEase
	Loop     LoopMode

	// Immediate writes the start value to the target at construction, the
	// way a "from" animation hides its target until it plays.
	Immediate bool

	// OnComplete fires once, on the advance that reaches the end.
	OnComplete func()
}

// Tween interpolates one property of one Node. The value it writes at
// elapsed time e depends only on e and the tween's construction parameters,
// so sampling the same e twice always writes the same value.
//
// A tween whose target has been disposed keeps counting time but never
// writes. Components whose from or to value is NaN or infinite are left
// untouched on the target.
type Tween struct {
	target *Node
	path   PropertyPath
	from   Vec3
	to     Vec3
	mask   Axes

	duration float64
	delay    float64
	ease     Ease
	loop     LoopMode

	onComplete func()

	elapsed float64
	state   TweenState
	fired   bool
	owned   bool
}

// NewTween creates a tween of target's path from from to to.
// Panics if Duration or Delay is negative or not finite.
func NewTween(target *Node, path PropertyPath, from, to Vec3, opts TweenOpts) *Tween {
	if opts.Duration < 0 || !isFinite(opts.Duration) {
		panic("reel: tween duration must be a finite, non-negative number")
	}
	if opts.Delay < 0 || !isFinite(opts.Delay) {
		panic("reel: tween delay must be a finite, non-negative number")
	}
	tw := &Tween{
		target:     target,
		path:       path,
		from:       from,
		to:         to,
		duration:   opts.Duration,
		delay:      opts.Delay,
		ease:       opts.Ease,
		loop:       opts.Loop,
		onComplete: opts.OnComplete,
	}
	if tw.ease == nil {
		tw.ease = DefaultEase
	}
	for i := 0; i < 3; i++ {
		if !path.Axes.Has(i) {
			continue
		}
		if isFinite(from.Component(i)) && isFinite(to.Component(i)) {
			tw.mask |= 1 << uint(i)
		}
	}
	if opts.Immediate {
		tw.write(tw.from)
	}
	return tw
}

// TweenTo creates a tween from target's current value of path to to. The
// current value is read now, not when the tween starts playing, so later
// changes to the property do not move the starting point.
func TweenTo(target *Node, path PropertyPath, to Vec3, opts TweenOpts) *Tween {
	return NewTween(target, path, capture(target, path, to), to, opts)
}

// TweenFrom creates a tween from from to target's current value of path.
// The current value is read now, as with TweenTo.
func TweenFrom(target *Node, path PropertyPath, from Vec3, opts TweenOpts) *Tween {
	return NewTween(target, path, from, capture(target, path, from), opts)
}

// capture reads the current value of path on target. With no usable target
// the other endpoint is returned, which makes the tween a constant.
func capture(target *Node, path PropertyPath, fallback Vec3) Vec3 {
	if target == nil || target.IsDisposed() {
		return fallback
	}
	return path.get(target)
}

// Target returns the node the tween writes to.
func (tw *Tween) Target() *Node { return tw.target }

// Path returns the animated property path.
func (tw *Tween) Path() PropertyPath { return tw.path }

// From returns the start value.
func (tw *Tween) From() Vec3 { return tw.from }

// To returns the end value.
func (tw *Tween) To() Vec3 { return tw.to }

// Duration returns the one-direction duration in seconds.
func (tw *Tween) Duration() float64 { return tw.duration }

// Delay returns the delay in seconds.
func (tw *Tween) Delay() float64 { return tw.delay }

// TotalDuration returns delay plus every active leg (two for yoyo).
func (tw *Tween) TotalDuration() float64 {
	return tw.delay + tw.activeSpan()
}

// Elapsed returns the tween's current elapsed time, including the delay.
func (tw *Tween) Elapsed() float64 { return tw.elapsed }

// State returns the tween's lifecycle state.
func (tw *Tween) State() TweenState { return tw.state }

// Done reports whether the tween has completed.
func (tw *Tween) Done() bool { return tw.state == TweenComplete }

func (tw *Tween) activeSpan() float64 {
	if tw.loop == LoopYoyo {
		return 2 * tw.duration
	}
	return tw.duration
}

// Advance moves the tween forward by dt seconds and writes the value for the
// new elapsed time.
func (tw *Tween) Advance(dt float64) {
	if dt < 0 || !isFinite(dt) {
		dt = 0
	}
	tw.Seek(tw.elapsed + dt)
}

// Seek sets the elapsed time to e and writes the value for it. Before the
// delay has passed nothing is written.
func (tw *Tween) Seek(e float64) {
	if !isFinite(e) {
		return
	}
	tw.elapsed = e
	if e < tw.delay {
		if tw.state != TweenComplete {
			tw.state = TweenPending
		}
		return
	}

	tw.write(tw.Sample(e))

	if e >= tw.delay+tw.activeSpan() {
		tw.state = TweenComplete
		if !tw.fired {
			tw.fired = true
			if tw.onComplete != nil {
				tw.onComplete()
			}
		}
		return
	}
	tw.state = TweenActive
}

// Sample returns the value the tween writes at elapsed time e. It has no
// side effects.
func (tw *Tween) Sample(e float64) Vec3 {
	p := tw.progress(e)
	return Vec3{
		X: lerp(tw.from.X, tw.to.X, p),
		Y: lerp(tw.from.Y, tw.to.Y, p),
		Z: lerp(tw.from.Z, tw.to.Z, p),
	}
}

// progress returns the eased progress at elapsed time e. The forward leg ends
// at exactly delay+duration and the yoyo leg at exactly delay+2*duration, so
// the endpoints are hit without depending on float subtraction.
func (tw *Tween) progress(e float64) float64 {
	start := tw.delay
	end := start + tw.duration
	if e <= start {
		if tw.duration == 0 && e == start {
			return tw.endProgress()
		}
		return 0
	}
	if tw.loop == LoopYoyo {
		back := end + tw.duration
		switch {
		case e >= back:
			return 0
		case e == end:
			return 1
		case e > end:
			return tw.ease((back - e) / tw.duration)
		}
		return tw.ease((e - start) / tw.duration)
	}
	if e >= end {
		return 1
	}
	return tw.ease((e - start) / tw.duration)
}

// endProgress is the final progress value for a zero-length tween.
func (tw *Tween) endProgress() float64 {
	if tw.loop == LoopYoyo {
		return 0
	}
	return 1
}

func (tw *Tween) write(v Vec3) {
	if tw.target == nil || tw.target.IsDisposed() || tw.mask == 0 {
		return
	}
	tw.path.set(tw.target, v, tw.mask)
}

// lerp interpolates with the form that returns a exactly at p=0 and b
// exactly at p=1.
func lerp(a, b, p float64) float64 {
	return a*(1-p) + b*p
}
