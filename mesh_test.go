package reel

import "testing"

// assertOutward checks every triangle of a closed, origin-centered mesh
// winds counter-clockwise seen from outside.
func assertOutward(t *testing.T, name string, g *Geometry) {
	t.Helper()
	for i := 0; i < g.NumTriangles(); i++ {
		a, b, c := g.Triangle(i)
		n := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c).Mul(1.0 / 3)
		if n.Dot(centroid) <= 0 {
			t.Errorf("%s: triangle %d faces inward", name, i)
			return
		}
	}
}

func TestNewBox(t *testing.T) {
	g := NewBox(2, 4, 6)
	if len(g.Positions) != 24 || g.NumTriangles() != 12 {
		t.Errorf("box = %d verts, %d tris, want 24, 12", len(g.Positions), g.NumTriangles())
	}
	lo, hi := g.Bounds()
	assertVec(t, "min", lo, V3(-1, -2, -3))
	assertVec(t, "max", hi, V3(1, 2, 3))
	assertOutward(t, "box", g)
}

func TestNewPlane(t *testing.T) {
	g := NewPlane(2, 1)
	if len(g.Positions) != 4 || g.NumTriangles() != 2 {
		t.Errorf("plane = %d verts, %d tris, want 4, 2", len(g.Positions), g.NumTriangles())
	}
	for i := 0; i < g.NumTriangles(); i++ {
		a, b, c := g.Triangle(i)
		if n := b.Sub(a).Cross(c.Sub(a)); n.Z <= 0 {
			t.Errorf("triangle %d normal %+v, want +Z", i, n)
		}
	}
	lo, hi := g.Bounds()
	if lo.Z != 0 || hi.Z != 0 {
		t.Error("plane should be flat")
	}
}

func TestNewSphere(t *testing.T) {
	g := NewSphere(0.8, 16, 12)
	if len(g.Positions) != 17*13 {
		t.Errorf("verts = %d, want %d", len(g.Positions), 17*13)
	}
	// Pole rows contribute one triangle per segment, the rest two.
	if want := 16 * (2*12 - 2); g.NumTriangles() != want {
		t.Errorf("tris = %d, want %d", g.NumTriangles(), want)
	}
	for i, p := range g.Positions {
		if d := p.Len(); d < 0.8-1e-9 || d > 0.8+1e-9 {
			t.Errorf("vertex %d at distance %v, want 0.8", i, d)
			break
		}
	}
	assertOutward(t, "sphere", g)
}

func TestNewSphereClampsSegments(t *testing.T) {
	g := NewSphere(1, 0, 0)
	if len(g.Positions) != 4*3 {
		t.Errorf("verts = %d, want 12", len(g.Positions))
	}
}

func TestBoundsEmpty(t *testing.T) {
	lo, hi := (&Geometry{}).Bounds()
	if lo != (Vec3{}) || hi != (Vec3{}) {
		t.Error("empty geometry should have zero bounds")
	}
}

func TestMaterials(t *testing.T) {
	if DefaultMaterial.Opacity != 1 || DefaultMaterial.Color != ColorWhite {
		t.Errorf("DefaultMaterial = %+v", DefaultMaterial)
	}
	m := ShadowMaterial(0.25)
	if !m.ShadowOnly || m.Opacity != 0.25 || m.Color.R != 0 {
		t.Errorf("ShadowMaterial = %+v", m)
	}
	if StandardMaterial(Hex(0xFF0000)).Color.R != 1 {
		t.Error("StandardMaterial should keep the color")
	}
}
