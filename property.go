package reel

import (
	"fmt"
	"strings"
)

// Property identifies an animatable Node field.
type Property uint8

const (
	PropPosition Property = iota // Node.Position
	PropRotation                 // Node.Rotation (Euler radians)
	PropScale                    // Node.Scale
	PropOpacity                  // Node.Opacity (scalar, stored in X)
)

func (p Property) String() string {
	switch p {
	case PropPosition:
		return "position"
	case PropRotation:
		return "rotation"
	case PropScale:
		return "scale"
	case PropOpacity:
		return "opacity"
	}
	return fmt.Sprintf("Property(%d)", uint8(p))
}

// Axes is a bitmask of vector components.
type Axes uint8

const (
	AxisX Axes = 1 << iota
	AxisY
	AxisZ

	AxesXY  = AxisX | AxisY
	AxesXYZ = AxisX | AxisY | AxisZ
)

// Has reports whether component i (0=X, 1=Y, 2=Z) is in the mask.
func (a Axes) Has(i int) bool {
	return a&(1<<uint(i)) != 0
}

// PropertyPath names a property and the components of it a tween writes.
// Components outside Axes are never touched.
type PropertyPath struct {
	Prop Property
	Axes Axes
}

// PathPosition, PathRotation, PathScale and PathOpacity are the full-vector
// paths.
var (
	PathPosition = PropertyPath{PropPosition, AxesXYZ}
	PathRotation = PropertyPath{PropRotation, AxesXYZ}
	PathScale    = PropertyPath{PropScale, AxesXYZ}
	PathOpacity  = PropertyPath{PropOpacity, AxisX}
)

// Only restricts the path to the given components.
func (p PropertyPath) Only(axes Axes) PropertyPath {
	if p.Prop == PropOpacity {
		return p
	}
	p.Axes = axes
	return p
}

func (p PropertyPath) String() string {
	if p.Prop == PropOpacity || p.Axes == AxesXYZ {
		return p.Prop.String()
	}
	var b strings.Builder
	b.WriteString(p.Prop.String())
	b.WriteByte('.')
	for i, c := range "xyz" {
		if p.Axes.Has(i) {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// ParsePath parses "position", "position.x", "rotation.xz", "scale",
// "opacity" and similar.
func ParsePath(s string) (PropertyPath, error) {
	name, comps, hasComps := strings.Cut(strings.TrimSpace(s), ".")
	var p PropertyPath
	switch name {
	case "position":
		p = PathPosition
	case "rotation":
		p = PathRotation
	case "scale":
		p = PathScale
	case "opacity":
		if hasComps {
			return PropertyPath{}, fmt.Errorf("reel: parse path %q: opacity has no components", s)
		}
		return PathOpacity, nil
	default:
		return PropertyPath{}, fmt.Errorf("reel: parse path %q: unknown property", s)
	}
	if !hasComps {
		return p, nil
	}
	if comps == "" {
		return PropertyPath{}, fmt.Errorf("reel: parse path %q: empty component list", s)
	}
	var axes Axes
	for _, c := range comps {
		var bit Axes
		switch c {
		case 'x':
			bit = AxisX
		case 'y':
			bit = AxisY
		case 'z':
			bit = AxisZ
		default:
			return PropertyPath{}, fmt.Errorf("reel: parse path %q: unknown component %q", s, c)
		}
		if axes&bit != 0 {
			return PropertyPath{}, fmt.Errorf("reel: parse path %q: duplicate component %q", s, c)
		}
		axes |= bit
	}
	return p.Only(axes), nil
}

// MustPath is like ParsePath but panics on malformed input.
func MustPath(s string) PropertyPath {
	p, err := ParsePath(s)
	if err != nil {
		panic(err.Error())
	}
	return p
}

// get reads the property's current value. Scalar properties use X.
func (p PropertyPath) get(n *Node) Vec3 {
	switch p.Prop {
	case PropPosition:
		return n.Position
	case PropRotation:
		return n.Rotation
	case PropScale:
		return n.Scale
	case PropOpacity:
		return Vec3{X: n.Opacity}
	}
	return Vec3{}
}

// set writes the masked, finite components of v to the node. Components
// that are outside mask or not finite keep their current value.
func (p PropertyPath) set(n *Node, v Vec3, mask Axes) {
	cur := p.get(n)
	for i := 0; i < 3; i++ {
		if !mask.Has(i) {
			continue
		}
		f := v.Component(i)
		if !isFinite(f) {
			continue
		}
		cur = cur.setComponent(i, f)
	}
	switch p.Prop {
	case PropPosition:
		n.Position = cur
	case PropRotation:
		n.Rotation = cur
	case PropScale:
		n.Scale = cur
	case PropOpacity:
		n.Opacity = cur.X
	}
}
