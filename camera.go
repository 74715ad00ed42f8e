package reel

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// dollyAnim holds active move-to tweens for the camera position.
type dollyAnim struct {
	tweens [3]*gween.Tween
	done   [3]bool
}

// Camera is a perspective camera looking from Position toward Target.
type Camera struct {
	Position Vec3
	Target   Vec3
	Up       Vec3

	// FOV is the vertical field of view in degrees.
	FOV float64
	// Near and Far bound the visible depth range.
	Near, Far float64

	dolly *dollyAnim
}

// NewCamera creates a camera at the origin looking down -Z.
func NewCamera(fov float64) *Camera {
	return &Camera{
		Target: Vec3{0, 0, -1},
		Up:     Vec3{0, 1, 0},
		FOV:    fov,
		Near:   0.1,
		Far:    100,
	}
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target Vec3) {
	c.Target = target
}

// DollyTo moves the camera position to pos over duration seconds. The
// camera keeps looking at Target while it moves.
func (c *Camera) DollyTo(pos Vec3, duration float32, easeFn ease.TweenFunc) {
	c.dolly = &dollyAnim{tweens: [3]*gween.Tween{
		gween.New(float32(c.Position.X), float32(pos.X), duration, easeFn),
		gween.New(float32(c.Position.Y), float32(pos.Y), duration, easeFn),
		gween.New(float32(c.Position.Z), float32(pos.Z), duration, easeFn),
	}}
}

// Moving reports whether a DollyTo is in progress.
func (c *Camera) Moving() bool { return c.dolly != nil }

// update advances the dolly. Called from Stage.Update.
func (c *Camera) update(dt float32) {
	if c.dolly == nil {
		return
	}
	allDone := true
	for i, tw := range c.dolly.tweens {
		if c.dolly.done[i] {
			continue
		}
		val, done := tw.Update(dt)
		c.Position = c.Position.setComponent(i, float64(val))
		c.dolly.done[i] = done
		if !done {
			allDone = false
		}
	}
	if allDone {
		c.dolly = nil
	}
}

// ViewMatrix returns the world-to-camera transform.
func (c *Camera) ViewMatrix() Mat4 {
	up := c.Up
	if up == (Vec3{}) {
		up = Vec3{0, 1, 0}
	}
	f := c.Target.Sub(c.Position).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)

	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(c.Position), -u.Dot(c.Position), f.Dot(c.Position), 1,
	}
}

// ProjectionMatrix returns the perspective projection for the given aspect
// ratio (width / height).
func (c *Camera) ProjectionMatrix(aspect float64) Mat4 {
	if aspect == 0 {
		aspect = 1
	}
	f := 1 / math.Tan(c.FOV*math.Pi/180/2)
	nf := 1 / (c.Near - c.Far)
	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (c.Far + c.Near) * nf, -1,
		0, 0, 2 * c.Far * c.Near * nf, 0,
	}
}

// viewProjection returns projection * view for a w x h target.
func (c *Camera) viewProjection(w, h int) Mat4 {
	return c.ProjectionMatrix(float64(w) / float64(h)).Mul(c.ViewMatrix())
}

// WorldToScreen projects a world-space point onto a w x h target. depth is
// the distance along the view direction; ok is false for points behind
// the near plane.
func (c *Camera) WorldToScreen(p Vec3, w, h int) (sx, sy, depth float64, ok bool) {
	return projectPoint(c.viewProjection(w, h), p, w, h)
}

// projectPoint maps p through vp into pixel coordinates (y down).
func projectPoint(vp Mat4, p Vec3, w, h int) (sx, sy, depth float64, ok bool) {
	x, y, _, cw := vp.project(p)
	if cw <= 1e-6 {
		return 0, 0, cw, false
	}
	nx, ny := x/cw, y/cw
	sx = (nx + 1) * 0.5 * float64(w)
	sy = (1 - ny) * 0.5 * float64(h)
	return sx, sy, cw, true
}
