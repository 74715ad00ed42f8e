package reel

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// --- Kage shader source ---
// Uses //kage:unit pixels as required by Ebitengine. The perturbation
// texture is wrapped manually so any texture size tiles seamlessly.

const backgroundShaderSrc = `//kage:unit pixels
package main

var Time float
var BottomColor vec3
var TopColor vec3
var Strength float
var Scroll vec2
var HasTexture float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	uv := (dst.xy - imageDstOrigin()) / imageDstSize()
	base := mix(BottomColor, TopColor, 1-uv.y)
	if HasTexture > 0 {
		origin := imageSrc0Origin()
		size := imageSrc0Size()
		p := mod(src-origin+Scroll*Time, size) + origin
		n := imageSrc0UnsafeAt(p).rgb*2 - 1
		base += (n.r + n.g) * Strength
	}
	return vec4(clamp(base, vec3(0), vec3(1)), 1)
}
`

var backgroundShader *ebiten.Shader

func ensureBackgroundShader() *ebiten.Shader {
	if backgroundShader == nil {
		s, err := ebiten.NewShader([]byte(backgroundShaderSrc))
		if err != nil {
			panic("reel: failed to compile background shader: " + err.Error())
		}
		backgroundShader = s
	}
	return backgroundShader
}

// --- BackgroundPass ---

// BackgroundPass fills the target with a vertical two-color gradient
// perturbed by a tiled normal map. It draws a single full-screen quad and
// is meant to run first, so everything drawn after it appears in front.
type BackgroundPass struct {
	// Bottom and Top are the gradient end colors.
	Bottom, Top Color
	// Texture is the repeating perturbation map. Nil draws the bare gradient.
	Texture *ebiten.Image
	// Tiles is how many times the texture repeats across each axis.
	Tiles float64
	// Strength scales the (r + g) perturbation.
	Strength float64
	// Scroll is the texture drift in texels per second.
	Scroll Vec3

	uniforms map[string]any
	verts    [4]ebiten.Vertex
	op       ebiten.DrawTrianglesShaderOptions
}

var quadIndices = []uint16{0, 1, 2, 1, 3, 2}

// NewBackgroundPass creates a background with the default colors.
func NewBackgroundPass(texture *ebiten.Image) *BackgroundPass {
	return &BackgroundPass{
		Bottom:   Color{0, 0.85, 0.5, 1},
		Top:      Color{0.15, 0.45, 0.85, 1},
		Texture:  texture,
		Tiles:    3,
		Strength: 0.15,
		Scroll:   Vec3{4, 2, 0},
		uniforms: make(map[string]any, 6),
	}
}

// Name implements Pass.
func (b *BackgroundPass) Name() string { return "background" }

// Draw implements Pass.
func (b *BackgroundPass) Draw(dst *ebiten.Image, f Frame) {
	bounds := dst.Bounds()
	b.prepare(bounds.Dx(), bounds.Dy(), f.Time)
	dst.DrawTrianglesShader(b.verts[:], quadIndices, ensureBackgroundShader(), &b.op)
}

// prepare fills the quad vertices and uniforms for a w x h target.
func (b *BackgroundPass) prepare(w, h int, t float64) {
	if b.uniforms == nil {
		b.uniforms = make(map[string]any, 6)
	}
	b.uniforms["Time"] = float32(t)
	b.uniforms["BottomColor"] = []float32{float32(b.Bottom.R), float32(b.Bottom.G), float32(b.Bottom.B)}
	b.uniforms["TopColor"] = []float32{float32(b.Top.R), float32(b.Top.G), float32(b.Top.B)}
	b.uniforms["Strength"] = float32(b.Strength)
	b.uniforms["Scroll"] = []float32{float32(b.Scroll.X), float32(b.Scroll.Y)}

	// Source coordinates span Tiles texture widths; the shader wraps them.
	var sw, sh float32
	if b.Texture != nil {
		tb := b.Texture.Bounds()
		sw = float32(float64(tb.Dx()) * b.Tiles)
		sh = float32(float64(tb.Dy()) * b.Tiles)
		b.uniforms["HasTexture"] = float32(1)
		b.op.Images[0] = b.Texture
	} else {
		b.uniforms["HasTexture"] = float32(0)
		b.op.Images[0] = nil
	}
	b.op.Uniforms = b.uniforms

	fw, fh := float32(w), float32(h)
	corners := [4][4]float32{
		{0, 0, 0, 0},
		{fw, 0, sw, 0},
		{0, fh, 0, sh},
		{fw, fh, sw, sh},
	}
	for i, c := range corners {
		b.verts[i] = ebiten.Vertex{
			DstX: c[0], DstY: c[1],
			SrcX: c[2], SrcY: c[3],
			ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
		}
	}
}
