package reel

import (
	"math"
	"testing"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		in   string
		want PropertyPath
	}{
		{"position", PathPosition},
		{"rotation", PathRotation},
		{"scale", PathScale},
		{"opacity", PathOpacity},
		{"position.x", PathPosition.Only(AxisX)},
		{"position.xy", PathPosition.Only(AxesXY)},
		{"rotation.z", PathRotation.Only(AxisZ)},
		{"rotation.xz", PathRotation.Only(AxisX | AxisZ)},
		{" scale.zyx ", PathScale},
	}
	for _, tt := range tests {
		got, err := ParsePath(tt.in)
		if err != nil {
			t.Errorf("ParsePath(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePath(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParsePathErrors(t *testing.T) {
	bad := []string{"", "color", "position.", "position.w", "position.xx", "opacity.x"}
	for _, in := range bad {
		if _, err := ParsePath(in); err == nil {
			t.Errorf("ParsePath(%q) should fail", in)
		}
	}
}

func TestMustPathPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustPath("nope")
}

func TestPathString(t *testing.T) {
	tests := []struct {
		p    PropertyPath
		want string
	}{
		{PathPosition, "position"},
		{PathRotation.Only(AxisZ), "rotation.z"},
		{PathScale.Only(AxisX | AxisY), "scale.xy"},
		{PathOpacity, "opacity"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestOpacityOnlyIgnoresAxes(t *testing.T) {
	if PathOpacity.Only(AxisZ) != PathOpacity {
		t.Error("opacity path should keep its single component")
	}
}

func TestPathGetSet(t *testing.T) {
	n := NewGroup("n")
	PathPosition.set(n, V3(1, 2, 3), AxesXYZ)
	if PathPosition.get(n) != V3(1, 2, 3) {
		t.Errorf("position = %+v", n.Position)
	}
	PathScale.set(n, V3(9, 9, 9), AxisY)
	if n.Scale != V3(1, 9, 1) {
		t.Errorf("Scale = %+v, want (1,9,1)", n.Scale)
	}
	PathOpacity.set(n, Vec3{X: 0.25}, AxisX)
	if n.Opacity != 0.25 || PathOpacity.get(n).X != 0.25 {
		t.Errorf("Opacity = %v, want 0.25", n.Opacity)
	}
	PathRotation.set(n, V3(math.NaN(), 1, math.Inf(-1)), AxesXYZ)
	if n.Rotation != V3(0, 1, 0) {
		t.Errorf("Rotation = %+v, want non-finite components skipped", n.Rotation)
	}
}
