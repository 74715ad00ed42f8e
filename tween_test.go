package reel

import (
	"math"
	"testing"
)

// --- Endpoints ---

func TestTweenEndpointsExactForEveryEase(t *testing.T) {
	from := V3(1.3, -2.7, 5)
	to := V3(-0.9, 2.2, 1e-3)
	for _, delay := range []float64{0, 0.5, 4.2} {
		for _, dur := range []float64{0.3, 1, 2.5} {
			for name, e := range allEases() {
				n := NewGroup("n")
				tw := NewTween(n, PathPosition, from, to, TweenOpts{Duration: dur, Delay: delay, Ease: e})

				tw.Seek(delay)
				if n.Position != from {
					t.Errorf("%s delay=%v dur=%v: at delay = %+v, want exactly %+v", name, delay, dur, n.Position, from)
				}
				tw.Seek(delay + dur)
				if n.Position != to {
					t.Errorf("%s delay=%v dur=%v: at end = %+v, want exactly %+v", name, delay, dur, n.Position, to)
				}
				if !tw.Done() {
					t.Errorf("%s: tween should be complete at delay+duration", name)
				}
			}
		}
	}
}

func TestTweenInteriorMayOvershoot(t *testing.T) {
	n := NewGroup("n")
	tw := NewTween(n, PathPosition.Only(AxisY), V3(0, 0, 0), V3(0, 1.5, 0), TweenOpts{Duration: 1, Ease: BackOut(3)})
	peak := 0.0
	for i := 1; i < 100; i++ {
		peak = math.Max(peak, tw.Sample(float64(i)/100).Y)
	}
	if peak <= 1.5 {
		t.Errorf("peak = %v, want > 1.5 for back.out(3)", peak)
	}
}

func TestTweenZeroDurationWritesTo(t *testing.T) {
	n := NewGroup("n")
	tw := NewTween(n, PathScale, Splat(0.2), Splat(1), TweenOpts{Duration: 0, Delay: 0.5})
	tw.Advance(0.25)
	if n.Scale != Splat(1) {
		t.Errorf("Scale before delay = %+v, want untouched (1,1,1)", n.Scale)
	}
	n.Scale = Splat(3)
	tw.Advance(0.25)
	if n.Scale != Splat(1) {
		t.Errorf("Scale = %+v, want (1,1,1)", n.Scale)
	}
	if !tw.Done() {
		t.Error("zero-duration tween should complete at its delay")
	}
}

// --- Lifecycle ---

func TestTweenPendingWritesNothing(t *testing.T) {
	n := NewGroup("n")
	n.Position = V3(7, 7, 7)
	tw := NewTween(n, PathPosition, Vec3{}, V3(1, 1, 1), TweenOpts{Duration: 1, Delay: 1})
	tw.Advance(0.5)
	if tw.State() != TweenPending {
		t.Errorf("State = %v, want pending", tw.State())
	}
	if n.Position != V3(7, 7, 7) {
		t.Errorf("Position = %+v, want untouched", n.Position)
	}
	tw.Advance(0.75)
	if tw.State() != TweenActive {
		t.Errorf("State = %v, want active", tw.State())
	}
	if n.Position == V3(7, 7, 7) {
		t.Error("active tween should write")
	}
}

func TestTweenLinearMidpoint(t *testing.T) {
	n := NewGroup("n")
	tw := NewTween(n, PathPosition.Only(AxisX), Vec3{}, V3(10, 0, 0), TweenOpts{Duration: 2, Ease: Linear})
	tw.Advance(1)
	assertNear(t, "X", n.Position.X, 5)
	if tw.Elapsed() != 1 {
		t.Errorf("Elapsed = %v, want 1", tw.Elapsed())
	}
}

func TestTweenOnCompleteOnce(t *testing.T) {
	n := NewGroup("n")
	calls := 0
	tw := NewTween(n, PathOpacity, Vec3{X: 0}, Vec3{X: 1}, TweenOpts{
		Duration:   0.5,
		OnComplete: func() { calls++ },
	})
	for i := 0; i < 10; i++ {
		tw.Advance(0.1)
	}
	tw.Seek(0.5)
	tw.Advance(0)
	if calls != 1 {
		t.Errorf("OnComplete calls = %d, want 1", calls)
	}
	if n.Opacity != 1 {
		t.Errorf("Opacity = %v, want 1", n.Opacity)
	}
}

func TestTweenCompletedAdvanceZeroIsIdempotent(t *testing.T) {
	for name, e := range allEases() {
		n := NewGroup("n")
		tw := NewTween(n, PathRotation, V3(0, 0, -0.5), V3(0, 0, 0.5), TweenOpts{Duration: 0.7, Delay: 0.1, Ease: e})
		tw.Advance(0.3)
		tw.Advance(0.6)
		if !tw.Done() {
			t.Fatalf("%s: should be done", name)
		}
		last := n.Rotation
		for i := 0; i < 3; i++ {
			tw.Advance(0)
			if n.Rotation != last {
				t.Errorf("%s: Advance(0) changed %+v to %+v", name, last, n.Rotation)
			}
		}
	}
}

func TestTweenSampleIsPure(t *testing.T) {
	n := NewGroup("n")
	tw := NewTween(n, PathPosition, V3(1, 2, 3), V3(4, 5, 6), TweenOpts{Duration: 1, Ease: SineInOut})
	a := tw.Sample(0.37)
	b := tw.Sample(0.37)
	if a != b {
		t.Errorf("Sample differs: %+v vs %+v", a, b)
	}
	if n.Position != (Vec3{}) {
		t.Error("Sample should not write")
	}

	tw.Seek(0.37)
	first := n.Position
	tw.Seek(0.9)
	tw.Seek(0.37)
	if n.Position != first {
		t.Errorf("re-seek = %+v, want %+v", n.Position, first)
	}
}

func TestTweenNegativeDurationPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewTween(NewGroup("n"), PathPosition, Vec3{}, Vec3{}, TweenOpts{Duration: -1})
}

func TestTweenNaNDelayPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewTween(NewGroup("n"), PathPosition, Vec3{}, Vec3{}, TweenOpts{Duration: 1, Delay: math.NaN()})
}

func TestTweenDefaultEase(t *testing.T) {
	n := NewGroup("n")
	tw := NewTween(n, PathPosition.Only(AxisX), Vec3{}, V3(1, 0, 0), TweenOpts{Duration: 1})
	got := tw.Sample(0.5).X
	if math.Abs(got-DefaultEase(0.5)) > 1e-12 {
		t.Errorf("Sample(0.5) = %v, want %v", got, DefaultEase(0.5))
	}
}

// --- Yoyo ---

func TestTweenYoyoRoundTrip(t *testing.T) {
	n := NewGroup("n")
	tw := NewTween(n, PathPosition.Only(AxisX), Vec3{}, V3(10, 0, 0), TweenOpts{
		Duration: 1, Delay: 0.5, Ease: Linear, Loop: LoopYoyo,
	})
	if tw.TotalDuration() != 2.5 {
		t.Errorf("TotalDuration = %v, want 2.5", tw.TotalDuration())
	}

	tw.Seek(1.5)
	if n.Position.X != 10 {
		t.Errorf("peak = %v, want exactly 10", n.Position.X)
	}
	if tw.Done() {
		t.Error("yoyo should not complete at the peak")
	}
	tw.Seek(2)
	assertNear(t, "return midpoint", n.Position.X, 5)
	tw.Seek(2.5)
	if n.Position.X != 0 {
		t.Errorf("end = %v, want exactly 0", n.Position.X)
	}
	if !tw.Done() {
		t.Error("yoyo should complete after the return leg")
	}
}

func TestTweenYoyoReturnMirrorsForward(t *testing.T) {
	n := NewGroup("n")
	tw := NewTween(n, PathPosition.Only(AxisY), Vec3{}, V3(0, 4, 0), TweenOpts{
		Duration: 1, Ease: QuartOut, Loop: LoopYoyo,
	})
	for _, x := range []float64{0.1, 0.3, 0.8} {
		fwd := tw.Sample(x).Y
		back := tw.Sample(2 - x).Y
		if math.Abs(fwd-back) > 1e-9 {
			t.Errorf("Sample(%v) = %v, Sample(%v) = %v, want equal", x, fwd, 2-x, back)
		}
	}
}

func TestTweenYoyoPlaysOnce(t *testing.T) {
	n := NewGroup("n")
	tw := NewTween(n, PathPosition.Only(AxisX), Vec3{}, V3(1, 0, 0), TweenOpts{Duration: 1, Loop: LoopYoyo})
	tw.Advance(10)
	if !tw.Done() || n.Position.X != 0 {
		t.Errorf("after long advance: done=%v X=%v, want done at 0", tw.Done(), n.Position.X)
	}
}

// --- Guards ---

func TestTweenSkipsNonFiniteComponents(t *testing.T) {
	n := NewGroup("n")
	n.Position = V3(3, 3, 3)
	tw := NewTween(n, PathPosition, V3(math.NaN(), 0, 0), V3(1, math.Inf(1), 1), TweenOpts{Duration: 1})
	tw.Advance(1)
	if n.Position.X != 3 || n.Position.Y != 3 {
		t.Errorf("Position = %+v, want X and Y untouched", n.Position)
	}
	if n.Position.Z != 1 {
		t.Errorf("Z = %v, want 1", n.Position.Z)
	}
	if !n.Position.IsFinite() {
		t.Error("non-finite value reached the node")
	}
}

func TestTweenDisposedTargetNoop(t *testing.T) {
	root := NewGroup("root")
	n := NewGroup("n")
	root.AddChild(n)
	tw := NewTween(n, PathPosition, Vec3{}, V3(1, 1, 1), TweenOpts{Duration: 1})
	n.Dispose()

	tw.Advance(0.5)
	tw.Advance(0.5)
	if !tw.Done() {
		t.Error("tween should still complete")
	}
	if n.Position != (Vec3{}) {
		t.Errorf("disposed node written: %+v", n.Position)
	}
}

func TestTweenNilTargetNoop(t *testing.T) {
	tw := NewTween(nil, PathPosition, Vec3{}, V3(1, 1, 1), TweenOpts{Duration: 1})
	tw.Advance(2)
	if !tw.Done() {
		t.Error("tween should complete")
	}
}

func TestTweenMaskLeavesOtherAxes(t *testing.T) {
	n := NewGroup("n")
	n.Rotation = V3(1, 2, 3)
	tw := NewTween(n, PathRotation.Only(AxisZ), Vec3{}, V3(9, 9, -0.5), TweenOpts{Duration: 1})
	tw.Advance(1)
	if n.Rotation != V3(1, 2, -0.5) {
		t.Errorf("Rotation = %+v, want (1,2,-0.5)", n.Rotation)
	}
}

// --- Capture ---

func TestTweenToCapturesAtConstruction(t *testing.T) {
	n := NewGroup("n")
	n.Position = V3(1, 0, 0)
	tw := TweenTo(n, PathPosition, V3(5, 0, 0), TweenOpts{Duration: 1, Ease: Linear})

	n.Position = V3(3, 0, 0)
	if tw.From() != V3(1, 0, 0) {
		t.Errorf("From = %+v, want (1,0,0)", tw.From())
	}
	tw.Seek(0)
	if n.Position != V3(1, 0, 0) {
		t.Errorf("Position at start = %+v, want captured (1,0,0)", n.Position)
	}
}

func TestTweenFromCapturesAtConstruction(t *testing.T) {
	n := NewGroup("n")
	n.Scale = Splat(0.65)
	tw := TweenFrom(n, PathScale, Splat(0.2), TweenOpts{Duration: 2, Immediate: true})

	if n.Scale != Splat(0.2) {
		t.Errorf("Immediate should write from, Scale = %+v", n.Scale)
	}
	if tw.To() != Splat(0.65) {
		t.Errorf("To = %+v, want (0.65,...)", tw.To())
	}
	tw.Advance(2)
	if n.Scale != Splat(0.65) {
		t.Errorf("Scale = %+v, want (0.65,...)", n.Scale)
	}
}

func TestTweenToDisposedTargetIsConstant(t *testing.T) {
	n := NewGroup("n")
	n.Dispose()
	tw := TweenTo(n, PathPosition, V3(1, 2, 3), TweenOpts{Duration: 1})
	if tw.From() != tw.To() {
		t.Errorf("From = %+v, want To %+v", tw.From(), tw.To())
	}
}

func TestTweenStateString(t *testing.T) {
	if TweenPending.String() != "pending" || TweenActive.String() != "active" || TweenComplete.String() != "complete" {
		t.Error("unexpected state names")
	}
}
