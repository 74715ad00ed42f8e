package reel

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tanema/gween/ease"
)

// Ease maps normalized time t in [0, 1] to progress. Every Ease satisfies
// f(0) = 0 and f(1) = 1; interior values may leave [0, 1] for overshooting
// curves such as BackOut and ElasticOut.
type Ease func(t float64) float64

// FromGween adapts a gween easing function to an Ease. The endpoints are
// pinned so float32 rounding inside gween can never move f(0) or f(1).
func FromGween(fn ease.TweenFunc) Ease {
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		return float64(fn(float32(t), 0, 1, 1))
	}
}

// Linear is the identity curve.
func Linear(t float64) float64 {
	return clamp01(t)
}

// Named eases.
var (
	QuadIn     = FromGween(ease.InQuad)
	QuadOut    = FromGween(ease.OutQuad)
	QuadInOut  = FromGween(ease.InOutQuad)
	CubicIn    = FromGween(ease.InCubic)
	CubicOut   = FromGween(ease.OutCubic)
	CubicInOut = FromGween(ease.InOutCubic)
	QuartIn    = FromGween(ease.InQuart)
	QuartOut   = FromGween(ease.OutQuart)
	QuartInOut = FromGween(ease.InOutQuart)
	QuintIn    = FromGween(ease.InQuint)
	QuintOut   = FromGween(ease.OutQuint)
	QuintInOut = FromGween(ease.InOutQuint)
	SineIn     = FromGween(ease.InSine)
	SineOut    = FromGween(ease.OutSine)
	SineInOut  = FromGween(ease.InOutSine)
	ElasticOut = FromGween(ease.OutElastic)
	BounceOut  = FromGween(ease.OutBounce)
)

// DefaultEase is used by tweens built without an explicit Ease.
var DefaultEase Ease = QuadOut

// DefaultOvershoot is the back-out overshoot used when none is given.
const DefaultOvershoot = 1.70158

// BackOut returns a curve that passes its target by an amount controlled by
// overshoot and then settles back onto it.
func BackOut(overshoot float64) Ease {
	s := overshoot
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		t--
		return t*t*((s+1)*t+s) + 1
	}
}

// BackIn is the time-mirror of BackOut: it pulls back before moving forward.
func BackIn(overshoot float64) Ease {
	s := overshoot
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		return t * t * ((s+1)*t - s)
	}
}

// powerFamily maps a polynomial degree to its in/out/inOut curves.
var powerFamily = map[int][3]Ease{
	2: {QuadIn, QuadOut, QuadInOut},
	3: {CubicIn, CubicOut, CubicInOut},
	4: {QuartIn, QuartOut, QuartInOut},
	5: {QuintIn, QuintOut, QuintInOut},
}

var namedFamily = map[string][3]Ease{
	"quad":  powerFamily[2],
	"cubic": powerFamily[3],
	"quart": powerFamily[4],
	"quint": powerFamily[5],
	"sine":  {SineIn, SineOut, SineInOut},
}

// EaseByName resolves GSAP-style ease names: "none", "linear",
// "powerN.in|out|inOut" (N is the polynomial degree; power1 is linear),
// "quad.out", "sine.inOut", "back.out(3)", "back.in", "elastic.out",
// "bounce.out". The empty string yields DefaultEase.
func EaseByName(name string) (Ease, error) {
	name = strings.TrimSpace(name)
	switch name {
	case "":
		return DefaultEase, nil
	case "none", "linear", "power0", "power1", "power1.in", "power1.out", "power1.inOut":
		return Linear, nil
	}

	base, arg, hasArg, err := splitEaseArg(name)
	if err != nil {
		return nil, err
	}

	family, dir, ok := strings.Cut(base, ".")
	if !ok {
		// GSAP treats a bare family name as its ".out" variant.
		dir = "out"
	}
	idx, err := easeDirection(dir)
	if err != nil {
		return nil, fmt.Errorf("reel: ease %q: %w", name, err)
	}

	switch {
	case family == "back":
		s := DefaultOvershoot
		if hasArg {
			s = arg
		}
		switch idx {
		case 0:
			return BackIn(s), nil
		case 1:
			return BackOut(s), nil
		}
		return nil, fmt.Errorf("reel: ease %q: back supports in and out only", name)
	case family == "elastic" && idx == 1:
		return ElasticOut, nil
	case family == "bounce" && idx == 1:
		return BounceOut, nil
	case strings.HasPrefix(family, "power"):
		n, err := strconv.Atoi(strings.TrimPrefix(family, "power"))
		if err != nil {
			return nil, fmt.Errorf("reel: ease %q: bad power degree", name)
		}
		fam, ok := powerFamily[n]
		if !ok {
			return nil, fmt.Errorf("reel: ease %q: unsupported power degree %d", name, n)
		}
		return fam[idx], nil
	}
	if fam, ok := namedFamily[family]; ok && !hasArg {
		return fam[idx], nil
	}
	return nil, fmt.Errorf("reel: unknown ease %q", name)
}

// MustEase is like EaseByName but panics on an unknown name. Intended for
// ease names written directly in authoring code.
func MustEase(name string) Ease {
	e, err := EaseByName(name)
	if err != nil {
		panic(err.Error())
	}
	return e
}

func easeDirection(dir string) (int, error) {
	switch dir {
	case "in":
		return 0, nil
	case "out":
		return 1, nil
	case "inOut":
		return 2, nil
	}
	return 0, fmt.Errorf("unknown direction %q", dir)
}

// splitEaseArg separates "back.out(3)" into "back.out" and 3.
func splitEaseArg(name string) (base string, arg float64, hasArg bool, err error) {
	open := strings.IndexByte(name, '(')
	if open < 0 {
		return name, 0, false, nil
	}
	if !strings.HasSuffix(name, ")") {
		return "", 0, false, fmt.Errorf("reel: ease %q: unbalanced parenthesis", name)
	}
	arg, err = strconv.ParseFloat(name[open+1:len(name)-1], 64)
	if err != nil || math.IsNaN(arg) || math.IsInf(arg, 0) {
		return "", 0, false, fmt.Errorf("reel: ease %q: bad argument", name)
	}
	return name[:open], arg, true, nil
}
