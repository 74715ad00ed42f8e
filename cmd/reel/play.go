package main

import (
	"bytes"
	"fmt"
	_ "image/png"
	"log/slog"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/spf13/cobra"

	"github.com/phanxgames/reel"
	"github.com/phanxgames/reel/internal/config"
	"github.com/phanxgames/reel/internal/intro"
	"github.com/phanxgames/reel/internal/metrics"
)

const noiseTextureSize = 128

type playOptions struct {
	script        string
	screenshotDir string
	metricsAddr   string
	debug         bool
	showFPS       bool
}

func newPlayCmd() *cobra.Command {
	var o playOptions
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Open a window and play the intro",
		Long: `Play opens a window and runs the intro in real time. A capture script
(--script) can wait, take screenshots, dump node transforms and quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			stage, closeFn, err := newPlayStage(cmd, cfg, logger, o)
			if err != nil {
				return err
			}
			defer closeFn()

			return reel.Run(stage, reel.RunConfig{
				Title:   cfg.Window.Title,
				Width:   cfg.Window.Width,
				Height:  cfg.Window.Height,
				ShowFPS: o.showFPS,
			})
		},
	}
	cmd.Flags().StringVar(&o.script, "script", "", "Capture script (YAML) to drive the run")
	cmd.Flags().StringVar(&o.screenshotDir, "screenshot-dir", "screenshots", "Directory for capture script screenshots")
	cmd.Flags().StringVar(&o.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	cmd.Flags().BoolVar(&o.debug, "debug", false, "Enable scene graph debug checks")
	cmd.Flags().BoolVar(&o.showFPS, "fps", false, "Show an FPS readout")
	return cmd
}

// newPlayStage builds a real-time stage with the intro on it. The returned
// func stops the metrics server, if one was started.
func newPlayStage(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, o playOptions) (*reel.Stage, func(), error) {
	closeFn := func() {}

	tex, err := backgroundTexture(cmd, cfg)
	if err != nil {
		return nil, closeFn, err
	}

	var observer reel.TickObserver
	if o.metricsAddr != "" {
		m := metrics.New()
		srv := m.Serve(o.metricsAddr, logger)
		observer = m
		closeFn = func() { _ = srv.Close() }
	}

	stage := reel.NewStage(reel.StageConfig{
		Clock:             reel.NewSystemClock(),
		Logger:            logger,
		BackgroundTexture: tex,
		FOV:               cfg.Camera.FOV,
		Observer:          observer,
		ScreenshotDir:     o.screenshotDir,
	})
	stage.SetDebugMode(o.debug)

	if o.script != "" {
		cs, err := loadScript(o.script)
		if err != nil {
			closeFn()
			return nil, func() {}, err
		}
		stage.SetCaptureScript(cs)
	}

	intro.Build(stage, intro.Options{Config: cfg})
	logger.Debug("intro built", "seed", cfg.Seed, "grid", fmt.Sprintf("%dx%d", cfg.Grid.Columns, cfg.Grid.Rows))
	return stage, closeFn, nil
}

// backgroundTexture loads the configured texture relative to the config
// file, or generates tileable noise when none is set.
func backgroundTexture(cmd *cobra.Command, cfg *config.Config) (*ebiten.Image, error) {
	if cfg.Background.Texture == "" {
		return intro.NoiseTexture(intro.NewRand(cfg.Seed), noiseTextureSize), nil
	}
	dir := "."
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		dir = filepath.Dir(path)
	}
	data, err := readFile(dir, cfg.Background.Texture)
	if err != nil {
		return nil, err
	}
	img, _, err := ebitenutil.NewImageFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", cfg.Background.Texture, err)
	}
	return img, nil
}

func loadScript(path string) (*reel.CaptureScript, error) {
	data, err := readFile(".", path)
	if err != nil {
		return nil, err
	}
	cs, err := reel.LoadCaptureScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cs, nil
}

// readFile reads path, resolving relative paths against dir.
func readFile(dir, path string) ([]byte, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	return config.NewLoader(filepath.Dir(path)).ReadFile(filepath.Base(path))
}
