package reel

import (
	"cmp"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// CommandType identifies the kind of render command.
type CommandType uint8

const (
	CommandTriangle CommandType = iota // lit mesh triangle
	CommandShadow                      // projected shadow on a receiver
)

// screenPoint is a projected vertex in target pixels.
type screenPoint struct {
	X, Y float32
}

// RenderCommand is a single screen-space triangle emitted during scene
// traversal. Commands are drawn far to near.
type RenderCommand struct {
	Type  CommandType
	Node  *Node
	Depth float64 // view distance of the triangle centroid
	Color Color   // shaded, not premultiplied

	verts     [3]screenPoint
}

// Vertices returns the projected corners in target pixels.
func (c *RenderCommand) Vertices() [3][2]float64 {
	var out [3][2]float64
	for i, v := range c.verts {
		out[i] = [2]float64{float64(v.X), float64(v.Y)}
	}
	return out
}

// shadowDepthBias keeps shadows in front of the receiver they land on.
const shadowDepthBias = 1e-3

// ScenePass renders a node graph with a perspective camera, Lambert
// lighting and projected planar shadows. Triangles are sorted back to
// front and drawn in one DrawTriangles32 call.
type ScenePass struct {
	Root   *Node
	Camera *Camera
	Lighting

	commands  []RenderCommand
	receivers []*Node
	casters   []*Node

	batchVerts []ebiten.Vertex
	batchInds  []uint32

	stats debugStats
}

// NewScenePass creates a scene pass drawing root through cam.
func NewScenePass(root *Node, cam *Camera) *ScenePass {
	return &ScenePass{Root: root, Camera: cam}
}

// Name implements Pass.
func (p *ScenePass) Name() string { return "scene" }

// Commands returns the commands built by the most recent Draw or build, in
// draw order. The returned slice MUST NOT be mutated.
func (p *ScenePass) Commands() []RenderCommand {
	return p.commands
}

// Draw implements Pass.
func (p *ScenePass) Draw(dst *ebiten.Image, f Frame) {
	bounds := dst.Bounds()
	p.build(bounds.Dx(), bounds.Dy())

	t0 := time.Now()
	p.submit(dst)
	p.stats.submitTime = time.Since(t0)
}

// build traverses the graph and fills p.commands, sorted far to near.
func (p *ScenePass) build(w, h int) {
	p.commands = p.commands[:0]
	p.receivers = p.receivers[:0]
	p.casters = p.casters[:0]
	if p.Root == nil || p.Camera == nil || w <= 0 || h <= 0 {
		return
	}

	t0 := time.Now()
	updateWorldTransform(p.Root, identityMat4, 1)
	vp := p.Camera.viewProjection(w, h)
	p.traverse(p.Root, vp, w, h)
	t1 := time.Now()
	p.emitShadows(vp, w, h)
	t2 := time.Now()
	p.sortCommands()
	t3 := time.Now()

	p.stats.traverseTime = t1.Sub(t0)
	p.stats.shadowTime = t2.Sub(t1)
	p.stats.sortTime = t3.Sub(t2)
	p.stats.commandCount = len(p.commands)
}

// traverse walks the graph depth-first and emits triangles for visible
// meshes. Invisible nodes hide their whole subtree.
func (p *ScenePass) traverse(n *Node, vp Mat4, w, h int) {
	if !n.Visible {
		return
	}
	if n.Mesh != nil {
		if n.ReceiveShadow {
			p.receivers = append(p.receivers, n)
		}
		if n.CastShadow {
			p.casters = append(p.casters, n)
		}
		if !n.Material.ShadowOnly {
			p.emitMesh(n, vp, w, h)
		}
	}
	for _, child := range n.children {
		p.traverse(child, vp, w, h)
	}
}

// emitMesh emits one command per front-facing triangle of n.
func (p *ScenePass) emitMesh(n *Node, vp Mat4, w, h int) {
	alpha := n.Material.Opacity * n.worldOpacity
	if alpha <= 0 {
		return
	}
	flip := linearDet(n.world) < 0
	eye := p.Camera.Position
	g := n.Mesh
	for i := 0; i < g.NumTriangles(); i++ {
		a, b, c := g.Triangle(i)
		a = n.world.TransformPoint(a)
		b = n.world.TransformPoint(b)
		c = n.world.TransformPoint(c)

		normal := b.Sub(a).Cross(c.Sub(a)).Normalize()
		if flip {
			normal = normal.Mul(-1)
		}
		centroid := a.Add(b).Add(c).Mul(1.0 / 3)
		if normal.Dot(eye.Sub(centroid)) <= 0 {
			continue
		}

		cmd := RenderCommand{Type: CommandTriangle, Node: n}
		if !p.projectTriangle(&cmd, vp, w, h, a, b, c) {
			continue
		}
		if n.Material.Unlit {
			cmd.Color = n.Material.Color
		} else {
			cmd.Color = p.shade(n.Material.Color, centroid, normal)
		}
		cmd.Color.A = n.Material.Color.A * alpha
		p.commands = append(p.commands, cmd)
	}
}

// projectTriangle fills cmd's screen vertices and depth. It returns false
// when any corner is behind the near plane or not finite.
func (p *ScenePass) projectTriangle(cmd *RenderCommand, vp Mat4, w, h int, a, b, c Vec3) bool {
	var depth float64
	for i, v := range [3]Vec3{a, b, c} {
		sx, sy, d, ok := projectPoint(vp, v, w, h)
		if !ok || d < p.Camera.Near || !isFinite(sx) || !isFinite(sy) {
			return false
		}
		cmd.verts[i] = screenPoint{float32(sx), float32(sy)}
		depth += d
	}
	cmd.Depth = depth / 3
	return true
}

// linearDet returns the determinant of m's upper 3x3.
func linearDet(m Mat4) float64 {
	return m[0]*(m[5]*m[10]-m[9]*m[6]) -
		m[4]*(m[1]*m[10]-m[9]*m[2]) +
		m[8]*(m[1]*m[6]-m[5]*m[2])
}

// --- Depth sort ---

// sortCommands orders commands far to near. Equal depths keep emission
// order, so coplanar faces draw the way the tree lists them.
func (p *ScenePass) sortCommands() {
	slices.SortStableFunc(p.commands, func(a, b RenderCommand) int {
		return cmp.Compare(b.Depth, a.Depth)
	})
}

// --- Submission ---

// submit draws every command into target with a single DrawTriangles32 call.
func (p *ScenePass) submit(target *ebiten.Image) {
	p.batchVerts = p.batchVerts[:0]
	p.batchInds = p.batchInds[:0]
	for i := range p.commands {
		cmd := &p.commands[i]
		base := uint32(len(p.batchVerts))
		a := float32(clamp01(cmd.Color.A))
		r := float32(clamp01(cmd.Color.R)) * a
		g := float32(clamp01(cmd.Color.G)) * a
		b := float32(clamp01(cmd.Color.B)) * a
		for _, v := range cmd.verts {
			p.batchVerts = append(p.batchVerts, ebiten.Vertex{
				DstX: v.X, DstY: v.Y,
				SrcX: 0.5, SrcY: 0.5,
				ColorR: r, ColorG: g, ColorB: b, ColorA: a,
			})
		}
		p.batchInds = append(p.batchInds, base, base+1, base+2)
	}
	p.stats.drawCallCount = 0
	if len(p.batchInds) == 0 {
		return
	}

	var triOp ebiten.DrawTrianglesOptions
	triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	target.DrawTriangles32(p.batchVerts, p.batchInds, ensureWhitePixel(), &triOp)
	p.stats.drawCallCount = 1
}

