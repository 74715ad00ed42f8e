package reel

import (
	"strings"
	"testing"
)

func TestPositionResolve(t *testing.T) {
	// Previous entry spans [1, 3].
	tests := []struct {
		name string
		pos  Position
		want float64
	}{
		{"default", Position{}, 3},
		{"offset", Offset(0.5), 3.5},
		{"negative offset", Offset(-1), 2},
		{"with previous", WithPrevious(), 1},
		{"with previous offset", WithPreviousOffset(0.25), 1.25},
		{"absolute", At(7), 7},
		{"clamped", Offset(-10), 0},
		{"clamped previous", WithPreviousOffset(-2), 0},
	}
	for _, tt := range tests {
		if got := tt.pos.resolve(1, 3); got != tt.want {
			t.Errorf("%s: resolve = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in   string
		want Position
	}{
		{"", Position{}},
		{">", Position{}},
		{"  ", Position{}},
		{"<", WithPrevious()},
		{"+=1", Offset(1)},
		{"-=1", Offset(-1)},
		{"-=0.5", Offset(-0.5)},
		{">+=2", Offset(2)},
		{"<+=0.25", WithPreviousOffset(0.25)},
		{"<-=1", WithPreviousOffset(-1)},
		{"3", At(3)},
		{"1.5", At(1.5)},
	}
	for _, tt := range tests {
		got, err := ParsePosition(tt.in)
		if err != nil {
			t.Errorf("ParsePosition(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePosition(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParsePositionErrors(t *testing.T) {
	bad := []string{
		"-=",
		"+=abc",
		"+=-1",
		"-=+1",
		"<1",
		">3",
		"<<",
		"=1",
		"abc",
		"+=NaN",
		"Inf",
		"*=2",
	}
	for _, in := range bad {
		_, err := ParsePosition(in)
		if err == nil {
			t.Errorf("ParsePosition(%q) should fail", in)
			continue
		}
		if !strings.HasPrefix(err.Error(), "reel: parse position") {
			t.Errorf("ParsePosition(%q) error = %q, want reel: parse position prefix", in, err)
		}
	}
}

func TestPPanicsOnMalformed(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	P("-=oops")
}

func TestPositionString(t *testing.T) {
	tests := []struct {
		pos  Position
		want string
	}{
		{Position{}, ">"},
		{WithPrevious(), "<"},
		{Offset(-1), "-=1"},
		{Offset(0.5), "+=0.5"},
		{WithPreviousOffset(2), "<+=2"},
		{At(4.2), "4.2"},
	}
	for _, tt := range tests {
		if got := tt.pos.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
		back, err := ParsePosition(tt.want)
		if err != nil || back != tt.pos {
			t.Errorf("ParsePosition(%q) = %+v, %v; want %+v", tt.want, back, err, tt.pos)
		}
	}
}
