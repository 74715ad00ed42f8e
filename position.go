package reel

import (
	"fmt"
	"strconv"
	"strings"
)

type positionKind uint8

const (
	posSequential   positionKind = iota // previous end + offset
	posWithPrevious                     // previous start + offset
	posAbsolute                         // offset from the timeline origin
)

// Position says where a timeline entry starts. The zero value starts the
// entry when the previously appended entry ends.
type Position struct {
	kind   positionKind
	offset float64
}

// Offset starts the entry d seconds after the previous entry ends. A
// negative d overlaps the two.
func Offset(d float64) Position {
	return Position{kind: posSequential, offset: d}
}

// WithPrevious starts the entry together with the previous entry.
func WithPrevious() Position {
	return Position{kind: posWithPrevious}
}

// WithPreviousOffset starts the entry d seconds after the previous entry
// starts.
func WithPreviousOffset(d float64) Position {
	return Position{kind: posWithPrevious, offset: d}
}

// At starts the entry at t seconds from the timeline's origin.
func At(t float64) Position {
	return Position{kind: posAbsolute, offset: t}
}

// resolve returns the absolute start for an entry given the previous
// entry's start and end. Starts never precede the timeline origin.
func (p Position) resolve(prevStart, prevEnd float64) float64 {
	var t float64
	switch p.kind {
	case posWithPrevious:
		t = prevStart + p.offset
	case posAbsolute:
		t = p.offset
	default:
		t = prevEnd + p.offset
	}
	if t < 0 {
		return 0
	}
	return t
}

func (p Position) String() string {
	switch p.kind {
	case posWithPrevious:
		if p.offset == 0 {
			return "<"
		}
		return "<" + signedOffset(p.offset)
	case posAbsolute:
		return strconv.FormatFloat(p.offset, 'g', -1, 64)
	}
	if p.offset == 0 {
		return ">"
	}
	return signedOffset(p.offset)
}

func signedOffset(d float64) string {
	if d < 0 {
		return "-=" + strconv.FormatFloat(-d, 'g', -1, 64)
	}
	return "+=" + strconv.FormatFloat(d, 'g', -1, 64)
}

// ParsePosition parses a textual position:
//
//	""  or ">"   after the previous entry
//	"<"          with the previous entry
//	"+=N" "-=N"  N seconds after / before the previous entry's end
//	"<+=N" "<-=N" N seconds after / before the previous entry's start
//	"N"          N seconds from the timeline origin
func ParsePosition(s string) (Position, error) {
	text := strings.TrimSpace(s)
	switch text {
	case "", ">":
		return Position{}, nil
	case "<":
		return WithPrevious(), nil
	}

	kind := posSequential
	rest := text
	switch rest[0] {
	case '<':
		kind = posWithPrevious
		rest = rest[1:]
	case '>':
		rest = rest[1:]
	}

	if len(rest) >= 2 && rest[1] == '=' && (rest[0] == '+' || rest[0] == '-') {
		num := rest[2:]
		if num != "" && (num[0] == '+' || num[0] == '-') {
			return Position{}, fmt.Errorf("reel: parse position %q: signed offset amount", s)
		}
		d, err := parseSeconds(num)
		if err != nil {
			return Position{}, fmt.Errorf("reel: parse position %q: %w", s, err)
		}
		if rest[0] == '-' {
			d = -d
		}
		return Position{kind: kind, offset: d}, nil
	}
	if rest != text {
		return Position{}, fmt.Errorf("reel: parse position %q: expected += or -= after anchor", s)
	}

	t, err := parseSeconds(rest)
	if err != nil {
		return Position{}, fmt.Errorf("reel: parse position %q: %w", s, err)
	}
	return At(t), nil
}

// P is like ParsePosition but panics on malformed input. Positions written
// directly in authoring code fail when the timeline is built.
func P(s string) Position {
	p, err := ParsePosition(s)
	if err != nil {
		panic(err.Error())
	}
	return p
}

func parseSeconds(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("missing number")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad number %q", s)
	}
	if !isFinite(f) {
		return 0, fmt.Errorf("number %q is not finite", s)
	}
	return f, nil
}
