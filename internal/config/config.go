// Package config loads the intro scene's layout, colors and timing from
// YAML. Defaults are embedded; a user file only needs the keys it changes.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

//go:embed default.yaml
var defaultYAML []byte

// Config holds everything the intro needs besides assets.
type Config struct {
	// Seed drives the grid's random origins and delays. Zero picks a seed
	// from the wall clock.
	Seed       int64            `yaml:"seed"`
	Window     WindowConfig     `yaml:"window"`
	Camera     CameraConfig     `yaml:"camera"`
	Background BackgroundConfig `yaml:"background"`
	Floor      FloorConfig      `yaml:"floor"`
	Colors     ColorsConfig     `yaml:"colors"`
	Grid       GridConfig       `yaml:"grid"`
	Delays     DelaysConfig     `yaml:"delays"`
	Lights     []LightConfig    `yaml:"lights"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type CameraConfig struct {
	FOV float64 `yaml:"fov"`
	Z   float64 `yaml:"z"`
}

type BackgroundConfig struct {
	Bottom   Hex        `yaml:"bottom"`
	Top      Hex        `yaml:"top"`
	Texture  string     `yaml:"texture"`
	Tiles    float64    `yaml:"tiles"`
	Strength float64    `yaml:"strength"`
	Scroll   [2]float64 `yaml:"scroll"`
}

type FloorConfig struct {
	Z             float64 `yaml:"z"`
	Size          float64 `yaml:"size"`
	ShadowOpacity float64 `yaml:"shadow_opacity"`
}

type ColorsConfig struct {
	Head    Hex `yaml:"head"`
	Squares Hex `yaml:"squares"`
	Yellow  Hex `yaml:"yellow"`
	Green   Hex `yaml:"green"`
}

// GridConfig lays out the square grid and randomizes its entrance.
type GridConfig struct {
	Columns int     `yaml:"columns"`
	Rows    int     `yaml:"rows"`
	Size    float64 `yaml:"size"`
	OffsetY float64 `yaml:"offset_y"`

	// OriginSpread multiplies a square's target X to get its start X.
	OriginSpread Range `yaml:"origin_spread"`
	// OriginLift is added to a square's target Y to get its start Y.
	OriginLift Range `yaml:"origin_lift"`

	// A square's delay is DelayBase + (targetY+5)*DelayPerUnit plus up to
	// DelayJitter seconds.
	DelayBase    float64 `yaml:"delay_base"`
	DelayPerUnit float64 `yaml:"delay_per_unit"`
	DelayJitter  float64 `yaml:"delay_jitter"`

	Duration     Range   `yaml:"duration"`
	SpinDuration Range   `yaml:"spin_duration"`
	SpinTurns    float64 `yaml:"spin_turns"`
}

// DelaysConfig holds the start delay of each timeline, in seconds.
type DelaysConfig struct {
	Head         float64 `yaml:"head"`
	LeftEar      float64 `yaml:"left_ear"`
	RightEar     float64 `yaml:"right_ear"`
	Rects        float64 `yaml:"rects"`
	Logo         float64 `yaml:"logo"`
	LeftEarSpin  float64 `yaml:"left_ear_spin"`
	RightEarSpin float64 `yaml:"right_ear_spin"`
	HeadSettle   float64 `yaml:"head_settle"`
	Videos       float64 `yaml:"videos"`
}

type LightConfig struct {
	Kind       string     `yaml:"kind"`
	Color      Hex        `yaml:"color"`
	Intensity  float64    `yaml:"intensity"`
	Position   [3]float64 `yaml:"position"`
	CastShadow bool       `yaml:"cast_shadow"`
}

// Range is an inclusive [min, max] pair written as a two-element list.
type Range [2]float64

func (r Range) Min() float64 { return r[0] }
func (r Range) Max() float64 { return r[1] }

// Hex is a 0xRRGGBB color written as "#RRGGBB" or "0xRRGGBB".
type Hex uint32

// UnmarshalYAML implements yaml.Unmarshaler.
func (h *Hex) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: color must be a string", value.Line)
	}
	v, err := ParseHex(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*h = v
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (h Hex) MarshalYAML() (any, error) {
	return h.String(), nil
}

func (h Hex) String() string {
	return fmt.Sprintf("#%06X", uint32(h))
}

// ParseHex parses "#RRGGBB" or "0xRRGGBB".
func ParseHex(s string) (Hex, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "#"), "0x")
	if len(digits) != 6 {
		return 0, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return Hex(v), nil
}

// Default returns the embedded defaults.
func Default() *Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		panic("config: embedded default.yaml: " + err.Error())
	}
	return &cfg
}

// Parse layers data over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if len(data) > 0 {
		// A user lights list replaces the default one rather than merging
		// element by element.
		var probe struct {
			Lights *[]LightConfig `yaml:"lights"`
		}
		if err := yaml.Unmarshal(data, &probe); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		if probe.Lights != nil {
			cfg.Lights = nil
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges. Errors wrap ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Window.Width > 0 && c.Window.Height > 0, "window size %dx%d", c.Window.Width, c.Window.Height)
	check(c.Camera.FOV > 0 && c.Camera.FOV < 180, "camera fov %v", c.Camera.FOV)
	check(c.Background.Tiles > 0, "background tiles %v", c.Background.Tiles)
	check(c.Floor.Size > 0, "floor size %v", c.Floor.Size)
	check(c.Floor.ShadowOpacity >= 0 && c.Floor.ShadowOpacity <= 1, "floor shadow_opacity %v", c.Floor.ShadowOpacity)

	g := c.Grid
	check(g.Columns > 0 && g.Rows > 0, "grid %dx%d", g.Columns, g.Rows)
	check(g.Size > 0, "grid size %v", g.Size)
	check(g.DelayBase >= 0 && g.DelayJitter >= 0, "grid delays must not be negative")
	for name, r := range map[string]Range{
		"origin_spread": g.OriginSpread,
		"origin_lift":   g.OriginLift,
		"duration":      g.Duration,
		"spin_duration": g.SpinDuration,
	} {
		check(r.Min() <= r.Max(), "grid %s [%v, %v]", name, r.Min(), r.Max())
	}
	check(g.Duration.Min() >= 0 && g.SpinDuration.Min() >= 0, "grid durations must not be negative")

	d := c.Delays
	for name, v := range map[string]float64{
		"head": d.Head, "left_ear": d.LeftEar, "right_ear": d.RightEar,
		"rects": d.Rects, "logo": d.Logo, "left_ear_spin": d.LeftEarSpin,
		"right_ear_spin": d.RightEarSpin, "head_settle": d.HeadSettle, "videos": d.Videos,
	} {
		check(v >= 0, "delay %s %v", name, v)
	}

	shadowLights := 0
	for i, l := range c.Lights {
		switch l.Kind {
		case "ambient", "directional", "point":
		default:
			check(false, "light %d: unknown kind %q", i, l.Kind)
		}
		check(l.Intensity >= 0, "light %d: intensity %v", i, l.Intensity)
		if l.CastShadow {
			check(l.Kind == "directional", "light %d: only directional lights cast shadows", i)
			shadowLights++
		}
	}
	check(shadowLights <= 1, "%d shadow-casting lights, want at most 1", shadowLights)

	return errors.Join(errs...)
}
