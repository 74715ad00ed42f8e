package reel

import "math"

// Mat4 is a column-major 4x4 matrix: m[col*4+row].
type Mat4 [16]float64

// identityMat4 is the identity matrix.
var identityMat4 = Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// Identity returns the identity matrix.
func Identity() Mat4 { return identityMat4 }

// Mul returns a * b.
func (a Mat4) Mul(b Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			out[col*4+row] = a[0*4+row]*b[col*4+0] +
				a[1*4+row]*b[col*4+1] +
				a[2*4+row]*b[col*4+2] +
				a[3*4+row]*b[col*4+3]
		}
	}
	return out
}

// TransformPoint applies m to the point p (w = 1).
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	return Vec3{
		X: m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12],
		Y: m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13],
		Z: m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14],
	}
}

// TransformDir applies the linear part of m to the direction d (w = 0).
func (m Mat4) TransformDir(d Vec3) Vec3 {
	return Vec3{
		X: m[0]*d.X + m[4]*d.Y + m[8]*d.Z,
		Y: m[1]*d.X + m[5]*d.Y + m[9]*d.Z,
		Z: m[2]*d.X + m[6]*d.Y + m[10]*d.Z,
	}
}

// project applies m to p and returns clip-space x, y, z, w.
func (m Mat4) project(p Vec3) (x, y, z, w float64) {
	x = m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12]
	y = m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13]
	z = m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14]
	w = m[3]*p.X + m[7]*p.Y + m[11]*p.Z + m[15]
	return
}

// Translation returns the translation column of m.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// InverseAffine inverts an affine matrix (bottom row 0,0,0,1).
// Returns the identity matrix if the linear part is singular.
func (m Mat4) InverseAffine() Mat4 {
	a, b, c := m[0], m[4], m[8]
	d, e, f := m[1], m[5], m[9]
	g, h, i := m[2], m[6], m[10]

	co00 := e*i - f*h
	co01 := -(d*i - f*g)
	co02 := d*h - e*g
	det := a*co00 + b*co01 + c*co02
	if det > -1e-12 && det < 1e-12 {
		return identityMat4
	}
	inv := 1 / det

	var out Mat4
	// Row-major inverse entries r_ij placed column-major.
	r00 := co00 * inv
	r01 := -(b*i - c*h) * inv
	r02 := (b*f - c*e) * inv
	r10 := co01 * inv
	r11 := (a*i - c*g) * inv
	r12 := -(a*f - c*d) * inv
	r20 := co02 * inv
	r21 := -(a*h - b*g) * inv
	r22 := (a*e - b*d) * inv

	out[0], out[4], out[8] = r00, r01, r02
	out[1], out[5], out[9] = r10, r11, r12
	out[2], out[6], out[10] = r20, r21, r22

	tx, ty, tz := m[12], m[13], m[14]
	out[12] = -(r00*tx + r01*ty + r02*tz)
	out[13] = -(r10*tx + r11*ty + r12*tz)
	out[14] = -(r20*tx + r21*ty + r22*tz)
	out[15] = 1
	return out
}

// ComposeTRS builds T * R * S where R applies Euler angles in XYZ order
// (R = Rx * Ry * Rz).
func ComposeTRS(pos, rot, scale Vec3) Mat4 {
	a, b := math.Cos(rot.X), math.Sin(rot.X)
	c, d := math.Cos(rot.Y), math.Sin(rot.Y)
	e, f := math.Cos(rot.Z), math.Sin(rot.Z)
	ae, af, be, bf := a*e, a*f, b*e, b*f

	var m Mat4
	m[0] = c * e * scale.X
	m[1] = (af + be*d) * scale.X
	m[2] = (bf - ae*d) * scale.X

	m[4] = -c * f * scale.Y
	m[5] = (ae - bf*d) * scale.Y
	m[6] = (be + af*d) * scale.Y

	m[8] = d * scale.Z
	m[9] = -b * c * scale.Z
	m[10] = a * c * scale.Z

	m[12], m[13], m[14], m[15] = pos.X, pos.Y, pos.Z, 1
	return m
}

// Decompose splits an affine matrix into translation, XYZ Euler rotation and
// scale. Shear is discarded.
func (m Mat4) Decompose() (pos, rot, scale Vec3) {
	pos = m.Translation()
	sx := Vec3{m[0], m[1], m[2]}.Len()
	sy := Vec3{m[4], m[5], m[6]}.Len()
	sz := Vec3{m[8], m[9], m[10]}.Len()

	det := m[0]*(m[5]*m[10]-m[9]*m[6]) -
		m[4]*(m[1]*m[10]-m[9]*m[2]) +
		m[8]*(m[1]*m[6]-m[5]*m[2])
	if det < 0 {
		sx = -sx
	}
	scale = Vec3{sx, sy, sz}

	inv := func(s float64) float64 {
		if s == 0 {
			return 0
		}
		return 1 / s
	}
	ix, iy, iz := inv(sx), inv(sy), inv(sz)
	m11, m12, m13 := m[0]*ix, m[4]*iy, m[8]*iz
	m22, m23 := m[5]*iy, m[9]*iz
	m32, m33 := m[6]*iy, m[10]*iz

	rot.Y = math.Asin(math.Max(-1, math.Min(1, m13)))
	if math.Abs(m13) < 0.9999999 {
		rot.X = math.Atan2(-m23, m33)
		rot.Z = math.Atan2(-m12, m11)
	} else {
		rot.X = math.Atan2(m32, m22)
		rot.Z = 0
	}
	return pos, rot, scale
}

// localMatrix returns the node's local transform matrix.
func localMatrix(n *Node) Mat4 {
	return ComposeTRS(n.Position, n.Rotation, n.Scale)
}

// updateWorldTransform recomputes world matrices and opacities for a subtree.
func updateWorldTransform(n *Node, parent Mat4, parentOpacity float64) {
	n.world = parent.Mul(localMatrix(n))
	n.worldOpacity = parentOpacity * n.Opacity
	for _, child := range n.children {
		updateWorldTransform(child, n.world, n.worldOpacity)
	}
}

// --- Transform property setters ---

// SetPosition sets the node's local position.
func (n *Node) SetPosition(x, y, z float64) {
	n.Position = Vec3{x, y, z}
}

// SetRotation sets the node's local Euler rotation in radians (XYZ order).
func (n *Node) SetRotation(x, y, z float64) {
	n.Rotation = Vec3{x, y, z}
}

// SetScale sets the node's local scale.
func (n *Node) SetScale(x, y, z float64) {
	n.Scale = Vec3{x, y, z}
}

// --- Coordinate conversion ---

// WorldMatrix computes the node's current world matrix by walking its
// ancestors. Unlike the cached matrix used during rendering, it always
// reflects the latest local transforms.
func (n *Node) WorldMatrix() Mat4 {
	m := localMatrix(n)
	for p := n.Parent; p != nil; p = p.Parent {
		m = localMatrix(p).Mul(m)
	}
	return m
}

// WorldPosition returns the node's origin in world space.
func (n *Node) WorldPosition() Vec3 {
	return n.WorldMatrix().Translation()
}

// LocalToWorld converts a local-space point to world space.
func (n *Node) LocalToWorld(p Vec3) Vec3 {
	return n.WorldMatrix().TransformPoint(p)
}

// WorldToLocal converts a world-space point to this node's local space.
func (n *Node) WorldToLocal(p Vec3) Vec3 {
	return n.WorldMatrix().InverseAffine().TransformPoint(p)
}
