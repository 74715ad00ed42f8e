package config

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 24, cfg.Grid.Columns)
	assert.Equal(t, 7, cfg.Grid.Rows)
	assert.Equal(t, 0.35, cfg.Grid.Size)
	assert.Equal(t, 45.0, cfg.Camera.FOV)
	assert.Equal(t, 10.0, cfg.Camera.Z)
	assert.Equal(t, Hex(0x5D218C), cfg.Colors.Squares)
	assert.Equal(t, Hex(0x111111), cfg.Colors.Head)
	assert.Equal(t, 6.0, cfg.Delays.Videos)
	assert.Equal(t, 0.25, cfg.Floor.ShadowOpacity)
	assert.Equal(t, Range{1, 1.5}, cfg.Grid.Duration)
	require.Len(t, cfg.Lights, 5)
	assert.True(t, cfg.Lights[0].CastShadow)
	assert.Equal(t, [3]float64{-5, 5, 10}, cfg.Lights[0].Position)
}

func TestDefaultReturnsCopies(t *testing.T) {
	a := Default()
	a.Grid.Columns = 1
	assert.Equal(t, 24, Default().Grid.Columns)
}

func TestParseOverlay(t *testing.T) {
	cfg, err := Parse([]byte(`
seed: 42
grid:
  columns: 10
colors:
  squares: "0xFF0000"
`))
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 10, cfg.Grid.Columns)
	assert.Equal(t, 7, cfg.Grid.Rows, "unset keys keep their defaults")
	assert.Equal(t, Hex(0xFF0000), cfg.Colors.Squares)
	assert.Len(t, cfg.Lights, 5)
}

func TestParseLightsReplace(t *testing.T) {
	cfg, err := Parse([]byte(`
lights:
  - kind: ambient
    color: "#808080"
    intensity: 2
`))
	require.NoError(t, err)
	require.Len(t, cfg.Lights, 1)
	assert.Equal(t, "ambient", cfg.Lights[0].Kind)
	assert.Equal(t, Hex(0x808080), cfg.Lights[0].Color)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"syntax":        "grid: [",
		"bad color":     "colors:\n  head: blue\n",
		"short color":   "colors:\n  head: \"#FFF\"\n",
		"color mapping": "colors:\n  head: {r: 1}\n",
		"range length":  "grid:\n  duration: [1, 2, 3]\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(src))
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := map[string]func(*Config){
		"zero width":       func(c *Config) { c.Window.Width = 0 },
		"fov":              func(c *Config) { c.Camera.FOV = 180 },
		"tiles":            func(c *Config) { c.Background.Tiles = 0 },
		"floor":            func(c *Config) { c.Floor.Size = -1 },
		"shadow opacity":   func(c *Config) { c.Floor.ShadowOpacity = 2 },
		"grid":             func(c *Config) { c.Grid.Rows = 0 },
		"grid size":        func(c *Config) { c.Grid.Size = 0 },
		"inverted range":   func(c *Config) { c.Grid.Duration = Range{2, 1} },
		"negative delay":   func(c *Config) { c.Delays.Logo = -1 },
		"light kind":       func(c *Config) { c.Lights[1].Kind = "spot" },
		"light intensity":  func(c *Config) { c.Lights[1].Intensity = -1 },
		"point shadow":     func(c *Config) { c.Lights[3].CastShadow = true },
		"two shadow suns":  func(c *Config) { c.Lights[2].CastShadow = true },
		"negative jitter":  func(c *Config) { c.Grid.DelayJitter = -0.1 },
		"negative seconds": func(c *Config) { c.Grid.SpinDuration = Range{-1, 1} },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
		})
	}
}

func TestParseHex(t *testing.T) {
	for _, s := range []string{"#E5B628", "0xE5B628", " #e5b628 "} {
		h, err := ParseHex(s)
		require.NoError(t, err, s)
		assert.Equal(t, Hex(0xE5B628), h)
	}
	_, err := ParseHex("#GGGGGG")
	assert.Error(t, err)
	assert.Equal(t, "#207F63", Hex(0x207F63).String())
}

func TestHexMarshal(t *testing.T) {
	type doc struct {
		C Hex `yaml:"c"`
	}
	out, err := yaml.Marshal(doc{0x00D980})
	require.NoError(t, err)
	assert.Contains(t, string(out), "#00D980")

	var back doc
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, Hex(0x00D980), back.C)
}

func TestLoader_Load(t *testing.T) {
	fsys := fstest.MapFS{
		"intro.yaml": {Data: []byte("window:\n  title: test\n")},
		"broken.yaml": {Data: []byte("window:\n  width: -5\n")},
	}
	loader := NewFSLoader(fsys, "mem")

	cfg, err := loader.Load("intro.yaml")
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width)

	_, err = loader.Load("broken.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "broken.yaml")

	_, err = loader.Load("missing.yaml")
	assert.Error(t, err)
}

func TestLoader_Disk(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(dir)
	_, err := loader.Load("none.yaml")
	assert.Error(t, err)

	_, err = loader.ReadFile("none.yaml")
	assert.Error(t, err)
}
