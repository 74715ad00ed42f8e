package reel

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
}

// game adapts a Stage to ebiten.Game with a fixed logical screen size.
type game struct {
	stage   *Stage
	width   int
	height  int
	showFPS bool

	fpsImage *ebiten.Image
	fpsAge   float64
}

// Run opens a window and drives stage until the window is closed, the
// update function returns an error, or a capture script quits. A capture
// script quit returns nil.
func Run(stage *Stage, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("reel: run: invalid window size %dx%d", cfg.Width, cfg.Height)
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err := ebiten.RunGame(newGame(stage, cfg))
	if errors.Is(err, ErrScriptQuit) {
		return nil
	}
	return err
}

// setScreenClearedEveryFrame is replaced in tests.
var setScreenClearedEveryFrame = ebiten.SetScreenClearedEveryFrame

// newGame wraps stage for ebiten. Ebitengine's own per-frame clear is
// turned off: the stage compositor clears the screen once before its
// passes.
func newGame(stage *Stage, cfg RunConfig) *game {
	setScreenClearedEveryFrame(false)
	return &game{stage: stage, width: cfg.Width, height: cfg.Height, showFPS: cfg.ShowFPS}
}

func (g *game) Update() error {
	if err := g.stage.Update(); err != nil {
		return err
	}
	if g.showFPS {
		g.updateFPS(g.stage.frame.Delta)
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.stage.Draw(screen)
	if g.showFPS && g.fpsImage != nil {
		screen.DrawImage(g.fpsImage, nil)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

// updateFPS redraws the FPS/TPS readout roughly twice a second.
func (g *game) updateFPS(dt float64) {
	if g.fpsImage == nil {
		// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
		g.fpsImage = ebiten.NewImage(100, 32)
		g.fpsAge = 0.5
	}
	g.fpsAge += dt
	if g.fpsAge < 0.5 {
		return
	}
	g.fpsAge = 0

	g.fpsImage.Clear()
	g.fpsImage.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(g.fpsImage, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}
