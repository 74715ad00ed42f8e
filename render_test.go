package reel

import (
	"fmt"
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	testW = 200
	testH = 100
)

// newTestPass returns a pass with a camera at (0,0,10) looking at the
// origin and full white ambient light.
func newTestPass() (*ScenePass, *Node) {
	root := NewGroup("root")
	cam := NewCamera(45)
	cam.Position = V3(0, 0, 10)
	cam.LookAt(Vec3{})
	p := NewScenePass(root, cam)
	p.AddLight(NewAmbientLight(ColorWhite, 1))
	return p, root
}

func countType(cmds []RenderCommand, typ CommandType) int {
	n := 0
	for _, c := range cmds {
		if c.Type == typ {
			n++
		}
	}
	return n
}

// --- Traversal ---

func TestBuildBoxFrontFaceOnly(t *testing.T) {
	p, root := newTestPass()
	box := NewMesh("box", NewBox(1, 1, 1), StandardMaterial(Hex(0x5D218C)))
	root.AddChild(box)

	p.build(testW, testH)
	cmds := p.Commands()
	if len(cmds) != 2 {
		t.Fatalf("commands = %d, want 2 (the +Z face)", len(cmds))
	}
	for i, c := range cmds {
		if c.Type != CommandTriangle || c.Node != box {
			t.Errorf("cmd[%d] = %+v, want a triangle of box", i, c)
		}
		assertNear(t, "depth", c.Depth, 9.5)
	}
}

func TestBuildMirroredBoxStillFrontFacing(t *testing.T) {
	p, root := newTestPass()
	box := NewMesh("box", NewBox(1, 1, 1), DefaultMaterial)
	box.SetScale(-1, 1, 1)
	root.AddChild(box)

	p.build(testW, testH)
	if got := len(p.Commands()); got != 2 {
		t.Errorf("commands = %d, want 2", got)
	}
}

func TestBuildInvisibleSubtree(t *testing.T) {
	p, root := newTestPass()
	g := NewGroup("g")
	g.Visible = false
	g.AddChild(NewMesh("box", NewBox(1, 1, 1), DefaultMaterial))
	root.AddChild(g)

	p.build(testW, testH)
	if got := len(p.Commands()); got != 0 {
		t.Errorf("commands = %d, want 0", got)
	}
}

func TestBuildTransparentSkipped(t *testing.T) {
	p, root := newTestPass()
	box := NewMesh("box", NewBox(1, 1, 1), DefaultMaterial)
	box.Opacity = 0
	root.AddChild(box)

	p.build(testW, testH)
	if got := len(p.Commands()); got != 0 {
		t.Errorf("commands = %d, want 0", got)
	}
}

func TestBuildBehindCameraSkipped(t *testing.T) {
	p, root := newTestPass()
	box := NewMesh("box", NewBox(1, 1, 1), DefaultMaterial)
	box.SetPosition(0, 0, 20)
	box.SetRotation(0, math.Pi, 0)
	root.AddChild(box)

	p.build(testW, testH)
	if got := len(p.Commands()); got != 0 {
		t.Errorf("commands = %d, want 0", got)
	}
}

func TestBuildOpacityInherited(t *testing.T) {
	p, root := newTestPass()
	g := NewGroup("g")
	g.Opacity = 0.5
	box := NewMesh("box", NewBox(1, 1, 1), DefaultMaterial)
	g.AddChild(box)
	root.AddChild(g)

	p.build(testW, testH)
	for _, c := range p.Commands() {
		assertNear(t, "alpha", c.Color.A, 0.5)
	}
}

func TestBuildSphereCulling(t *testing.T) {
	p, root := newTestPass()
	geom := NewSphere(0.8, 16, 12)
	root.AddChild(NewMesh("head", geom, StandardMaterial(Hex(0x111111))))

	p.build(testW, testH)
	got := len(p.Commands())
	total := geom.NumTriangles()
	if got == 0 || got >= total {
		t.Errorf("commands = %d of %d triangles, want roughly the near half", got, total)
	}
}

// --- Sorting ---

func TestBuildSortsFarToNear(t *testing.T) {
	p, root := newTestPass()
	near := NewMesh("near", NewBox(1, 1, 1), DefaultMaterial)
	far := NewMesh("far", NewBox(1, 1, 1), DefaultMaterial)
	far.SetPosition(0, 0, -5)
	root.AddChild(near)
	root.AddChild(far)

	p.build(testW, testH)
	cmds := p.Commands()
	if len(cmds) != 4 {
		t.Fatalf("commands = %d, want 4", len(cmds))
	}
	if cmds[0].Node != far || cmds[1].Node != far {
		t.Error("far box should draw first")
	}
	for i := 1; i < len(cmds); i++ {
		if cmds[i].Depth > cmds[i-1].Depth {
			t.Errorf("cmd[%d] depth %v > cmd[%d] depth %v", i, cmds[i].Depth, i-1, cmds[i-1].Depth)
		}
	}
}

func TestSortCommandsStable(t *testing.T) {
	p := &ScenePass{}
	depths := []float64{3, 1, 3, 2, 1, 3, 2}
	nodes := make([]*Node, len(depths))
	for i, d := range depths {
		nodes[i] = NewGroup(fmt.Sprint(i))
		p.commands = append(p.commands, RenderCommand{Depth: d, Node: nodes[i]})
	}
	p.sortCommands()

	want := []int{0, 2, 5, 3, 6, 1, 4}
	for i, w := range want {
		if p.commands[i].Node != nodes[w] {
			t.Errorf("commands[%d] = node %s, want %d", i, p.commands[i].Node.Name, w)
		}
	}
}

func TestCommandVertices(t *testing.T) {
	c := RenderCommand{verts: [3]screenPoint{{1, 2}, {3, 4}, {5, 6}}}
	v := c.Vertices()
	if v[0] != [2]float64{1, 2} || v[2] != [2]float64{5, 6} {
		t.Errorf("Vertices = %v", v)
	}
}

// --- Shading ---

func TestBuildUnlitKeepsColor(t *testing.T) {
	p, root := newTestPass()
	p.ClearLights()
	mat := StandardMaterial(Hex(0xF2C12E))
	mat.Unlit = true
	root.AddChild(NewMesh("rect", NewBox(1, 1, 0.1), mat))

	p.build(testW, testH)
	for _, c := range p.Commands() {
		if c.Color.R != mat.Color.R || c.Color.G != mat.Color.G || c.Color.B != mat.Color.B {
			t.Errorf("Color = %+v, want %+v", c.Color, mat.Color)
		}
	}
}

func TestBuildNoLightsIsBlack(t *testing.T) {
	p, root := newTestPass()
	p.ClearLights()
	root.AddChild(NewMesh("box", NewBox(1, 1, 1), DefaultMaterial))

	p.build(testW, testH)
	for _, c := range p.Commands() {
		if c.Color.R != 0 || c.Color.G != 0 || c.Color.B != 0 {
			t.Errorf("Color = %+v, want black", c.Color)
		}
	}
}

// --- Shadows ---

func shadowScene() (*ScenePass, *Node, *Node) {
	p, root := newTestPass()
	sun := NewDirectionalLight(ColorWhite, 1, V3(0, 0, 10))
	sun.CastShadow = true
	p.AddLight(sun)

	floor := NewMesh("floor", NewPlane(20, 20), ShadowMaterial(0.25))
	floor.SetPosition(0, 0, -0.5)
	floor.ReceiveShadow = true
	root.AddChild(floor)

	box := NewMesh("box", NewBox(1, 1, 1), DefaultMaterial)
	box.CastShadow = true
	root.AddChild(box)
	return p, floor, box
}

func TestShadowCommands(t *testing.T) {
	p, floor, _ := shadowScene()
	p.build(testW, testH)
	cmds := p.Commands()

	if got := countType(cmds, CommandShadow); got != 2 {
		t.Fatalf("shadow commands = %d, want 2", got)
	}
	if got := countType(cmds, CommandTriangle); got != 2 {
		t.Errorf("triangle commands = %d, want 2 (floor is shadow-only)", got)
	}
	if cmds[0].Type != CommandShadow {
		t.Error("shadows on the floor should draw before the box")
	}
	for _, c := range cmds {
		if c.Type != CommandShadow {
			continue
		}
		if c.Node != floor {
			t.Error("shadow should belong to the receiver")
		}
		assertNear(t, "shadow alpha", c.Color.A, 0.25)
		assertNear(t, "shadow depth", c.Depth, 10.5-shadowDepthBias)
	}
}

func TestShadowNeedsCastingLight(t *testing.T) {
	p, _, _ := shadowScene()
	for _, l := range p.Lights() {
		l.CastShadow = false
	}
	p.build(testW, testH)
	if got := countType(p.Commands(), CommandShadow); got != 0 {
		t.Errorf("shadow commands = %d, want 0", got)
	}
}

func TestShadowOutsideReceiverDropped(t *testing.T) {
	p, floor, box := shadowScene()
	floor.Mesh = NewPlane(1, 1)
	box.SetPosition(5, 0, 0)
	p.build(testW, testH)
	if got := countType(p.Commands(), CommandShadow); got != 0 {
		t.Errorf("shadow commands = %d, want 0", got)
	}
}

func TestShadowBelowReceiverDropped(t *testing.T) {
	p, _, box := shadowScene()
	box.SetPosition(0, 0, -3)
	p.build(testW, testH)
	if got := countType(p.Commands(), CommandShadow); got != 0 {
		t.Errorf("shadow commands = %d, want 0", got)
	}
}

func TestShadowOnLitReceiver(t *testing.T) {
	p, floor, _ := shadowScene()
	floor.Material = StandardMaterial(ColorWhite)
	p.build(testW, testH)
	for _, c := range p.Commands() {
		if c.Type == CommandShadow {
			assertNear(t, "alpha", c.Color.A, 0.5)
			if c.Color.R != 0 {
				t.Error("shadow on a lit receiver should be black")
			}
		}
	}
}

func TestShadowPoint(t *testing.T) {
	p, floor, _ := shadowScene()
	got, ok := p.ShadowPoint(V3(1, 2, 3), floor)
	if !ok {
		t.Fatal("ShadowPoint should succeed")
	}
	assertVec(t, "straight down", got, V3(1, 2, -0.5))

	p.Lights()[1].Position = V3(-5, 5, 10)
	got, ok = p.ShadowPoint(V3(0, 0, 0.5), floor)
	if !ok {
		t.Fatal("ShadowPoint should succeed")
	}
	assertVec(t, "oblique", got, V3(0.5, -0.5, -0.5))

	if _, ok := p.ShadowPoint(V3(0, 0, -2), floor); ok {
		t.Error("point below the plane should not cast")
	}
}

// --- Submission ---

func TestScenePassDrawSingleCall(t *testing.T) {
	p, root := newTestPass()
	root.AddChild(NewMesh("a", NewBox(1, 1, 1), DefaultMaterial))
	b := NewMesh("b", NewBox(1, 1, 1), DefaultMaterial)
	b.SetPosition(2, 0, -1)
	root.AddChild(b)

	dst := ebiten.NewImage(testW, testH)
	p.Draw(dst, Frame{})
	if p.stats.drawCallCount != 1 {
		t.Errorf("draw calls = %d, want 1", p.stats.drawCallCount)
	}
	if len(p.batchInds) != 3*len(p.Commands()) {
		t.Errorf("indices = %d, want %d", len(p.batchInds), 3*len(p.Commands()))
	}
}

func TestScenePassDrawEmpty(t *testing.T) {
	p, _ := newTestPass()
	p.Draw(ebiten.NewImage(testW, testH), Frame{})
	if p.stats.drawCallCount != 0 {
		t.Errorf("draw calls = %d, want 0", p.stats.drawCallCount)
	}
}
