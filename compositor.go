package reel

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Frame describes the tick being rendered.
type Frame struct {
	Index uint64  // ticks completed so far
	Time  float64 // seconds since the stage started
	Delta float64 // seconds since the previous tick
}

// Pass is one complete render submission into the shared target. Passes
// must not clear the target.
type Pass interface {
	Name() string
	Draw(dst *ebiten.Image, f Frame)
}

// PassFunc adapts a function to the Pass interface.
type PassFunc struct {
	Label string
	Fn    func(dst *ebiten.Image, f Frame)
}

// Name implements Pass.
func (p PassFunc) Name() string { return p.Label }

// Draw implements Pass.
func (p PassFunc) Draw(dst *ebiten.Image, f Frame) { p.Fn(dst, f) }

// Compositor renders a frame as a sequence of passes over one target. The
// target is cleared exactly once, before the first pass; later passes draw
// over earlier ones without clearing.
type Compositor struct {
	// ClearColor fills the target before the first pass. The zero value
	// clears to transparent.
	ClearColor Color

	passes []Pass

	// clear is replaced in tests to count clears without a GPU.
	clear func(dst *ebiten.Image, c Color)
}

// NewCompositor creates a compositor running passes in the given order.
func NewCompositor(passes ...Pass) *Compositor {
	return &Compositor{
		passes: passes,
		clear:  clearTarget,
	}
}

// AddPass appends a pass after the existing ones.
func (c *Compositor) AddPass(p Pass) {
	c.passes = append(c.passes, p)
}

// Passes returns the passes in draw order. The returned slice MUST NOT be mutated.
func (c *Compositor) Passes() []Pass {
	return c.passes
}

// Draw clears dst once and runs every pass in order.
func (c *Compositor) Draw(dst *ebiten.Image, f Frame) {
	if c.clear == nil {
		c.clear = clearTarget
	}
	c.clear(dst, c.ClearColor)
	for _, p := range c.passes {
		p.Draw(dst, f)
	}
}

func clearTarget(dst *ebiten.Image, c Color) {
	if c.A == 0 {
		dst.Clear()
		return
	}
	dst.Fill(c.toRGBA())
}
