package reel

import "math"

// LightKind selects how a Light contributes to shading.
type LightKind uint8

const (
	LightAmbient     LightKind = iota // uniform, no direction
	LightDirectional                  // parallel rays from Position toward Target
	LightPoint                        // radiates from Position, falls off with distance
)

// Light is a scene light. Lights are not part of the node graph; they are
// owned by a Lighting set.
type Light struct {
	Kind      LightKind
	Color     Color
	Intensity float64

	// Position is the light's location (point) or the point the rays come
	// from (directional).
	Position Vec3
	// Target is where directional rays point at.
	Target Vec3

	// Decay is the distance falloff exponent of point lights. 2 is
	// physically based inverse-square.
	Decay float64

	// CastShadow makes a directional light project shadows of CastShadow
	// meshes onto ReceiveShadow meshes.
	CastShadow bool

	// Enabled toggles the light without removing it.
	Enabled bool
}

// NewAmbientLight creates a light that reaches every surface equally.
func NewAmbientLight(c Color, intensity float64) *Light {
	return &Light{Kind: LightAmbient, Color: c, Intensity: intensity, Enabled: true}
}

// NewDirectionalLight creates a light shining from pos toward the origin.
func NewDirectionalLight(c Color, intensity float64, pos Vec3) *Light {
	return &Light{Kind: LightDirectional, Color: c, Intensity: intensity, Position: pos, Enabled: true}
}

// NewPointLight creates an inverse-square point light at pos.
func NewPointLight(c Color, intensity float64, pos Vec3) *Light {
	return &Light{Kind: LightPoint, Color: c, Intensity: intensity, Position: pos, Decay: 2, Enabled: true}
}

// direction returns the unit vector from a surface toward a directional
// light.
func (l *Light) direction() Vec3 {
	return l.Position.Sub(l.Target).Normalize()
}

// contribution returns the light reaching a surface at p with unit normal n.
func (l *Light) contribution(p, n Vec3) Color {
	var k float64
	switch l.Kind {
	case LightAmbient:
		k = l.Intensity
	case LightDirectional:
		k = l.Intensity * math.Max(0, n.Dot(l.direction()))
	case LightPoint:
		d := l.Position.Sub(p)
		dist := d.Len()
		if dist == 0 {
			return Color{}
		}
		lambert := math.Max(0, n.Dot(d.Mul(1/dist)))
		k = l.Intensity * lambert / math.Pow(math.Max(dist, 0.01), l.Decay)
	}
	return Color{l.Color.R * k, l.Color.G * k, l.Color.B * k, 1}
}

// --- Lighting ---

// Lighting is an ordered set of lights shading the scene pass.
type Lighting struct {
	lights []*Light
}

// AddLight adds a light to the set.
func (lg *Lighting) AddLight(l *Light) {
	lg.lights = append(lg.lights, l)
}

// RemoveLight removes a light from the set.
func (lg *Lighting) RemoveLight(l *Light) {
	for i, existing := range lg.lights {
		if existing == l {
			copy(lg.lights[i:], lg.lights[i+1:])
			lg.lights[len(lg.lights)-1] = nil
			lg.lights = lg.lights[:len(lg.lights)-1]
			return
		}
	}
}

// ClearLights removes all lights.
func (lg *Lighting) ClearLights() {
	for i := range lg.lights {
		lg.lights[i] = nil
	}
	lg.lights = lg.lights[:0]
}

// Lights returns the current light list. The returned slice MUST NOT be mutated.
func (lg *Lighting) Lights() []*Light {
	return lg.lights
}

// shade returns base lit by every enabled light at p with normal n. RGB is
// clamped to [0, 1]; alpha is taken from base.
func (lg *Lighting) shade(base Color, p, n Vec3) Color {
	var sum Color
	for _, l := range lg.lights {
		if !l.Enabled {
			continue
		}
		c := l.contribution(p, n)
		sum.R += c.R
		sum.G += c.G
		sum.B += c.B
	}
	return Color{
		R: clamp01(base.R * sum.R),
		G: clamp01(base.G * sum.G),
		B: clamp01(base.B * sum.B),
		A: base.A,
	}
}

// shadowCaster returns the first enabled directional light that casts
// shadows, or nil.
func (lg *Lighting) shadowCaster() *Light {
	for _, l := range lg.lights {
		if l.Enabled && l.CastShadow && l.Kind == LightDirectional {
			return l
		}
	}
	return nil
}
