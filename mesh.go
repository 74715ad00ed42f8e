package reel

import "math"

// Geometry is an indexed triangle list in local space. Triangles wind
// counter-clockwise when seen from outside.
type Geometry struct {
	Positions []Vec3
	Indices   []uint16
}

// NumTriangles returns len(Indices)/3.
func (g *Geometry) NumTriangles() int { return len(g.Indices) / 3 }

// Triangle returns the three corners of the i-th triangle.
func (g *Geometry) Triangle(i int) (a, b, c Vec3) {
	return g.Positions[g.Indices[i*3]], g.Positions[g.Indices[i*3+1]], g.Positions[g.Indices[i*3+2]]
}

// Bounds returns the local-space axis-aligned bounding box.
func (g *Geometry) Bounds() (min, max Vec3) {
	if len(g.Positions) == 0 {
		return Vec3{}, Vec3{}
	}
	min, max = g.Positions[0], g.Positions[0]
	for _, p := range g.Positions[1:] {
		min = Vec3{math.Min(min.X, p.X), math.Min(min.Y, p.Y), math.Min(min.Z, p.Z)}
		max = Vec3{math.Max(max.X, p.X), math.Max(max.Y, p.Y), math.Max(max.Z, p.Z)}
	}
	return min, max
}

// NewBox builds an axis-aligned box centered on the origin.
func NewBox(width, height, depth float64) *Geometry {
	hx, hy, hz := width/2, height/2, depth/2
	// Each face: four corners in CCW order seen from outside.
	faces := [6][4]Vec3{
		{{hx, -hy, hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {hx, hy, hz}},     // +X
		{{-hx, -hy, -hz}, {-hx, -hy, hz}, {-hx, hy, hz}, {-hx, hy, -hz}}, // -X
		{{-hx, hy, hz}, {hx, hy, hz}, {hx, hy, -hz}, {-hx, hy, -hz}},     // +Y
		{{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, -hy, hz}, {-hx, -hy, hz}}, // -Y
		{{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz}},     // +Z
		{{hx, -hy, -hz}, {-hx, -hy, -hz}, {-hx, hy, -hz}, {hx, hy, -hz}}, // -Z
	}
	g := &Geometry{
		Positions: make([]Vec3, 0, 24),
		Indices:   make([]uint16, 0, 36),
	}
	for _, f := range faces {
		base := uint16(len(g.Positions))
		g.Positions = append(g.Positions, f[:]...)
		g.Indices = append(g.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return g
}

// NewPlane builds a width x height rectangle in the XY plane facing +Z.
func NewPlane(width, height float64) *Geometry {
	hx, hy := width/2, height/2
	return &Geometry{
		Positions: []Vec3{{-hx, -hy, 0}, {hx, -hy, 0}, {hx, hy, 0}, {-hx, hy, 0}},
		Indices:   []uint16{0, 1, 2, 0, 2, 3},
	}
}

// NewSphere builds a UV sphere. widthSegments and heightSegments are
// clamped to at least 3 and 2.
func NewSphere(radius float64, widthSegments, heightSegments int) *Geometry {
	if widthSegments < 3 {
		widthSegments = 3
	}
	if heightSegments < 2 {
		heightSegments = 2
	}
	g := &Geometry{}
	for y := 0; y <= heightSegments; y++ {
		v := float64(y) / float64(heightSegments)
		theta := v * math.Pi
		for x := 0; x <= widthSegments; x++ {
			u := float64(x) / float64(widthSegments)
			phi := u * 2 * math.Pi
			g.Positions = append(g.Positions, Vec3{
				X: -radius * math.Cos(phi) * math.Sin(theta),
				Y: radius * math.Cos(theta),
				Z: radius * math.Sin(phi) * math.Sin(theta),
			})
		}
	}
	row := uint16(widthSegments + 1)
	for y := 0; y < heightSegments; y++ {
		for x := 0; x < widthSegments; x++ {
			a := uint16(y)*row + uint16(x) + 1
			b := uint16(y)*row + uint16(x)
			c := uint16(y+1)*row + uint16(x)
			d := uint16(y+1)*row + uint16(x) + 1
			if y != 0 {
				g.Indices = append(g.Indices, a, b, d)
			}
			if y != heightSegments-1 {
				g.Indices = append(g.Indices, b, c, d)
			}
		}
	}
	return g
}

// --- Material ---

// Material controls how a mesh is shaded.
type Material struct {
	Color   Color
	Opacity float64

	// Unlit draws Color as-is, ignoring lights.
	Unlit bool

	// ShadowOnly makes the mesh invisible except for the shadows it
	// receives, which are drawn in Color at Opacity.
	ShadowOnly bool
}

// DefaultMaterial is a lit, opaque white material.
var DefaultMaterial = Material{Color: ColorWhite, Opacity: 1}

// StandardMaterial returns a lit, opaque material of the given color.
func StandardMaterial(c Color) Material {
	return Material{Color: c, Opacity: 1}
}

// ShadowMaterial returns a shadow-catcher material: black shadows at the
// given opacity and nothing else.
func ShadowMaterial(opacity float64) Material {
	return Material{Color: Color{0, 0, 0, 1}, Opacity: opacity, ShadowOnly: true}
}
