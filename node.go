package reel

import (
	"slices"
	"sync/atomic"
)

// nodeIDCounter is atomic because asset loaders build nodes off the tick
// goroutine.
var nodeIDCounter atomic.Uint32

// --- Node ---

// Node is the fundamental scene graph element. Groups, meshes and shadow
// catchers all share this one flat struct.
type Node struct {
	ID   uint32 // unique per process; zeroed on Dispose
	Name string

	// Parent is nil for a root. A node owns its children.
	Parent   *Node
	children []*Node

	// Transform (local). Rotation holds Euler angles in radians, XYZ order.
	Position Vec3
	Rotation Vec3
	Scale    Vec3

	// Visibility
	Opacity float64
	Visible bool

	// Rendering (nil Mesh means a pure group)
	Mesh          *Geometry
	Material      Material
	CastShadow    bool
	ReceiveShadow bool

	// UserData is free for authoring code.
	UserData any

	// OnReparent is called after the node moves to a new parent via
	// AddChild or Attach. oldParent may be nil.
	OnReparent func(node, oldParent, newParent *Node)

	// Computed during traversal
	world        Mat4
	worldOpacity float64

	disposed bool
}

func newNode(name string, geom *Geometry, mat Material) *Node {
	return &Node{
		ID:           nodeIDCounter.Add(1),
		Name:         name,
		Scale:        Vec3{1, 1, 1},
		Opacity:      1,
		Visible:      true,
		Mesh:         geom,
		Material:     mat,
		world:        identityMat4,
		worldOpacity: 1,
	}
}

// NewGroup creates a node with no geometry. Groups exist to carry a
// transform for their children.
func NewGroup(name string) *Node {
	return newNode(name, nil, DefaultMaterial)
}

// NewMesh creates a node that renders geometry with the given material.
func NewMesh(name string, geom *Geometry, mat Material) *Node {
	return newNode(name, geom, mat)
}

// --- Hierarchy ---

// AddChild moves child under n, keeping its local transform, so its world
// placement follows n from now on. Panics on a nil child or when child is
// n or one of n's ancestors.
func (n *Node) AddChild(child *Node) {
	n.checkLink(child, "AddChild")
	n.link(child, func() {})
}

// Attach moves child under n while keeping its world transform: the local
// transform becomes inverse(n's world) * child's world, computed before the
// move, so the child does not jump. Shear from non-uniformly scaled
// ancestors is dropped.
func (n *Node) Attach(child *Node) {
	n.checkLink(child, "Attach")
	local := n.WorldMatrix().InverseAffine().Mul(child.WorldMatrix())
	n.link(child, func() {
		child.Position, child.Rotation, child.Scale = local.Decompose()
	})
}

// link detaches child from its old parent, appends it to n, runs apply and
// then notifies OnReparent.
func (n *Node) link(child *Node, apply func()) {
	old := child.Parent
	if old != nil {
		old.unlink(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	apply()
	if globalDebug {
		debugCheckLink(n, child)
	}
	if child.OnReparent != nil {
		child.OnReparent(child, old, n)
	}
}

func (n *Node) checkLink(child *Node, op string) {
	if child == nil {
		panic("reel: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, op+" (parent)")
		debugCheckDisposed(child, op+" (child)")
	}
	for p := n; p != nil; p = p.Parent {
		if p == child {
			panic("reel: adding child would create a cycle")
		}
	}
}

// unlink drops child from n's child list, leaving child.Parent alone.
func (n *Node) unlink(child *Node) {
	if i := slices.Index(n.children, child); i >= 0 {
		n.children = slices.Delete(n.children, i, i+1)
	}
}

// RemoveChild detaches child from n. Panics if n is not child's parent.
func (n *Node) RemoveChild(child *Node) {
	if globalDebug {
		debugCheckDisposed(n, "RemoveChild (parent)")
		debugCheckDisposed(child, "RemoveChild (child)")
	}
	if child.Parent != n {
		panic("reel: child's parent is not this node")
	}
	n.unlink(child)
	child.Parent = nil
}

// RemoveFromParent detaches n from its parent, if it has one.
func (n *Node) RemoveFromParent() {
	if p := n.Parent; p != nil {
		p.RemoveChild(n)
	}
}

// RemoveChildren detaches every child without disposing them.
func (n *Node) RemoveChildren() {
	for _, c := range n.children {
		c.Parent = nil
	}
	clear(n.children)
	n.children = n.children[:0]
}

// Children returns n's children in insertion order. Callers must not
// modify the slice.
func (n *Node) Children() []*Node { return n.children }

// NumChildren returns len(Children()).
func (n *Node) NumChildren() int { return len(n.children) }

// ChildAt returns the i-th child.
func (n *Node) ChildAt(i int) *Node { return n.children[i] }

// Find returns the first node named name in this subtree (depth-first,
// including n itself), or nil.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.walk(func(c *Node) bool {
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}

// Traverse calls fn for n and every descendant, depth-first.
func (n *Node) Traverse(fn func(*Node)) {
	n.walk(func(c *Node) bool {
		fn(c)
		return true
	})
}

// walk visits the subtree depth-first until fn returns false.
func (n *Node) walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.walk(fn) {
			return false
		}
	}
	return true
}

// SetShadows sets CastShadow and ReceiveShadow on every mesh in the subtree.
func (n *Node) SetShadows(cast, receive bool) {
	n.Traverse(func(c *Node) {
		if c.Mesh != nil {
			c.CastShadow, c.ReceiveShadow = cast, receive
		}
	})
}

// --- Disposal ---

// Dispose detaches n and releases it and its whole subtree. Tweens that
// still target a disposed node stop writing to it. Disposing twice is a
// no-op.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.walk(func(c *Node) bool {
		c.disposed = true
		c.ID = 0
		c.Mesh = nil
		c.UserData = nil
		c.OnReparent = nil
		c.Parent = nil
		return true
	})
	n.release()
}

func (n *Node) release() {
	for _, c := range n.children {
		c.release()
	}
	n.children = nil
}

// IsDisposed reports whether Dispose has run on n or an ancestor.
func (n *Node) IsDisposed() bool { return n.disposed }
