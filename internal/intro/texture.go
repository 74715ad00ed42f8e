package intro

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
)

// NoiseTexture builds a tileable normal-map-like texture for the background
// pass: smooth value noise in R and G around the neutral 0.5.
func NoiseTexture(rng *rand.Rand, size int) *ebiten.Image {
	return ebiten.NewImageFromImage(noiseImage(rng, size))
}

func noiseImage(rng *rand.Rand, size int) *image.RGBA {
	const cells = 8
	var lattice [2][cells][cells]float64
	for c := range lattice {
		for y := range lattice[c] {
			for x := range lattice[c][y] {
				lattice[c][y][x] = rng.Float64()
			}
		}
	}
	sample := func(c int, u, v float64) float64 {
		x0, y0 := int(math.Floor(u)), int(math.Floor(v))
		fx, fy := smooth(u-float64(x0)), smooth(v-float64(y0))
		at := func(x, y int) float64 { return lattice[c][(y%cells+cells)%cells][(x%cells+cells)%cells] }
		top := at(x0, y0)*(1-fx) + at(x0+1, y0)*fx
		bottom := at(x0, y0+1)*(1-fx) + at(x0+1, y0+1)*fx
		return top*(1-fy) + bottom*fy
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	scale := float64(cells) / float64(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			u, v := float64(x)*scale, float64(y)*scale
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(sample(0, u, v) * 255),
				G: uint8(sample(1, u, v) * 255),
				B: 255,
				A: 255,
			})
		}
	}
	return img
}

func smooth(t float64) float64 { return t * t * (3 - 2*t) }
