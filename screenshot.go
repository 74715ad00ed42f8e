package reel

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Screenshot asks for the next rendered frame to be saved under label.
// Files land in ScreenshotDir, prefixed with the tick index.
func (s *Stage) Screenshot(label string) {
	s.screenshotQueue = append(s.screenshotQueue, label)
}

// flushScreenshots saves the finished frame once per pending label. Draw
// calls it after the compositor has run.
func (s *Stage) flushScreenshots(screen *ebiten.Image) {
	if len(s.screenshotQueue) == 0 {
		return
	}
	defer func() { s.screenshotQueue = s.screenshotQueue[:0] }()

	if err := os.MkdirAll(s.ScreenshotDir, 0o755); err != nil {
		s.logger.Warn("screenshot dir unavailable", "dir", s.ScreenshotDir, "err", err)
		return
	}
	data, err := encodeFrame(screen)
	if err != nil {
		s.logger.Warn("screenshot encode failed", "err", err)
		return
	}
	for _, label := range s.screenshotQueue {
		path := screenshotPath(s.ScreenshotDir, s.frame.Index, label)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			s.logger.Warn("screenshot failed", "path", path, "err", err)
			continue
		}
		s.logger.Info("screenshot written", "path", path)
	}
}

// encodeFrame reads back screen as PNG bytes. Ebitengine pixels are
// premultiplied RGBA, which is exactly image.RGBA's layout.
func encodeFrame(screen *ebiten.Image) ([]byte, error) {
	b := screen.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	screen.ReadPixels(img.Pix)
	return encodePNG(img)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// screenshotPath names a screenshot by tick so captures of one run sort
// in play order.
func screenshotPath(dir string, frame uint64, label string) string {
	return filepath.Join(dir, fmt.Sprintf("%06d_%s.png", frame, sanitizeLabel(label)))
}

// sanitizeLabel keeps ASCII letters, digits, '-' and '.', turning anything
// else into '_'. Blank labels become "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '.' {
			return r
		}
		return '_'
	}, label)
}
