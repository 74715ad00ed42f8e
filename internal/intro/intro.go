// Package intro authors the title sequence on a reel Stage: a head with two
// ears drops in and bounces, a grid of squares rains into place, two
// colored cards swing in, a logo flies forward and a strip of video panels
// scrolls across once its clip starts.
package intro

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/phanxgames/reel"
	"github.com/phanxgames/reel/internal/config"
)

const (
	sphereRadius   = 0.8
	sphereSegments = 32
	sphereRings    = 24
	earScale       = 0.6
)

// Options configures Build.
type Options struct {
	Config *config.Config
	// Rand drives the grid. Nil seeds a PCG from Config.Seed, or from the
	// wall clock when the seed is zero.
	Rand *rand.Rand
	// Assets serves the logo and videos bundles. Nil uses Assets().
	Assets reel.AssetLoader
}

// Scene holds the nodes and timelines of a built intro.
type Scene struct {
	Floor    *reel.Node
	Head     *reel.Node
	LeftEar  *reel.Node
	RightEar *reel.Node

	// The ear containers join the head when the right ear lands.
	LeftEarContainer  *reel.Node
	RightEarContainer *reel.Node

	Squares    []*reel.Node
	YellowRect *reel.Node
	GreenRect  *reel.Node

	// Logo and Videos are nil until their bundles are delivered.
	Logo         *reel.Node
	Videos       *reel.Node
	VideosAction *reel.ClipAction

	// EarsAttached is set by the timeline callback that reparents the ears.
	EarsAttached bool
}

// NewRand returns the generator Build uses when Options.Rand is nil.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9E3779B97F4A7C15))
}

// Build adds the intro to stage and starts its timelines and asset loads.
func Build(stage *reel.Stage, opts Options) *Scene {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	rng := opts.Rand
	if rng == nil {
		rng = NewRand(cfg.Seed)
	}
	assets := opts.Assets
	if assets == nil {
		assets = Assets()
	}

	sc := &Scene{}
	setupView(stage, cfg)
	sc.buildActors(stage.Root(), cfg)
	sc.animateHead(stage, cfg)
	sc.buildGrid(stage, cfg, rng)
	sc.animateRects(stage, cfg)
	sc.animateEarSpin(stage, cfg)
	sc.animateHeadSettle(stage, cfg)
	sc.loadLogo(stage, cfg, assets)
	sc.loadVideos(stage, cfg, assets)
	return sc
}

// setupView places the camera, lights and background.
func setupView(stage *reel.Stage, cfg *config.Config) {
	cam := stage.Camera()
	cam.FOV = cfg.Camera.FOV
	cam.Position = reel.V3(0, 0, cfg.Camera.Z)
	cam.LookAt(reel.Vec3{})

	bg := stage.Background()
	bg.Bottom = rgb(cfg.Background.Bottom)
	bg.Top = rgb(cfg.Background.Top)
	bg.Tiles = cfg.Background.Tiles
	bg.Strength = cfg.Background.Strength
	bg.Scroll = reel.V3(cfg.Background.Scroll[0], cfg.Background.Scroll[1], 0)

	lights := stage.Lighting()
	lights.ClearLights()
	for _, lc := range cfg.Lights {
		lights.AddLight(newLight(lc))
	}
}

func newLight(lc config.LightConfig) *reel.Light {
	c := rgb(lc.Color)
	pos := reel.V3(lc.Position[0], lc.Position[1], lc.Position[2])
	var l *reel.Light
	switch lc.Kind {
	case "ambient":
		l = reel.NewAmbientLight(c, lc.Intensity)
	case "point":
		l = reel.NewPointLight(c, lc.Intensity, pos)
	default:
		l = reel.NewDirectionalLight(c, lc.Intensity, pos)
	}
	l.CastShadow = lc.CastShadow
	return l
}

func rgb(h config.Hex) reel.Color { return reel.Hex(uint32(h)) }

// buildActors creates the floor, head, ears and the two cards.
func (sc *Scene) buildActors(root *reel.Node, cfg *config.Config) {
	sc.Floor = reel.NewMesh("floor", reel.NewPlane(cfg.Floor.Size, cfg.Floor.Size), reel.ShadowMaterial(cfg.Floor.ShadowOpacity))
	sc.Floor.SetPosition(0, 0, cfg.Floor.Z)
	sc.Floor.ReceiveShadow = true
	root.AddChild(sc.Floor)

	sphere := reel.NewSphere(sphereRadius, sphereSegments, sphereRings)
	skin := reel.StandardMaterial(rgb(cfg.Colors.Head))

	sc.Head = reel.NewMesh("head", sphere, skin)
	sc.Head.SetPosition(-5, 5, 1)
	sc.LeftEar = reel.NewMesh("left-ear", sphere, skin)
	sc.LeftEar.SetPosition(-5, 6, 1)
	sc.LeftEar.Scale = reel.Splat(earScale)
	sc.RightEar = reel.NewMesh("right-ear", sphere, skin)
	sc.RightEar.SetPosition(5, 6, 1)
	sc.RightEar.Scale = reel.Splat(earScale)
	for _, n := range []*reel.Node{sc.Head, sc.LeftEar, sc.RightEar} {
		n.CastShadow = true
		root.AddChild(n)
	}
	sc.LeftEarContainer = reel.NewGroup("left-ear-container")
	sc.RightEarContainer = reel.NewGroup("right-ear-container")

	sc.YellowRect = reel.NewMesh("yellow-rect", reel.NewBox(5.5, 2.5, 0.2), reel.StandardMaterial(rgb(cfg.Colors.Yellow)))
	sc.YellowRect.SetPosition(-8, 8, 0.5)
	sc.GreenRect = reel.NewMesh("green-rect", reel.NewBox(1.6, 1.6, 0.2), reel.StandardMaterial(rgb(cfg.Colors.Green)))
	sc.GreenRect.SetPosition(5, 8, 1)
	sc.GreenRect.Rotation.Z = 0.2
	for _, n := range []*reel.Node{sc.YellowRect, sc.GreenRect} {
		n.SetShadows(true, true)
		root.AddChild(n)
	}
}

// animateHead drops the head and ears in. The right ear's timeline ends by
// parenting both ears to the head through their containers.
func (sc *Scene) animateHead(stage *reel.Stage, cfg *config.Config) {
	xy := reel.PathPosition.Only(reel.AxesXY)
	powerIn := reel.MustEase("power2.in")
	powerOut := reel.MustEase("power2.out")
	bounce := reel.MustEase("back.out(3)")
	popIn := reel.TweenOpts{Duration: 2, Ease: powerOut, Immediate: true}

	stage.NewTimeline(reel.TimelineOpts{Name: "head", Delay: cfg.Delays.Head}).
		To(sc.Head, xy, reel.V3(-2, -3, 0), reel.TweenOpts{Duration: 1, Ease: powerIn}).
		FromTo(sc.Head, xy, reel.V3(-2, -3, 0), reel.V3(0, 1.5, 0), reel.TweenOpts{Duration: 1, Ease: bounce}).
		From(sc.Head, reel.PathScale, reel.Splat(0.2), popIn, reel.Offset(-1))

	stage.NewTimeline(reel.TimelineOpts{Name: "left-ear", Delay: cfg.Delays.LeftEar}).
		To(sc.LeftEar, xy, reel.V3(-2.3, -3, 0), reel.TweenOpts{Duration: 1, Ease: powerIn}).
		FromTo(sc.LeftEar, xy, reel.V3(-2.3, -3, 0), reel.V3(-0.9, 2.2, 0), reel.TweenOpts{Duration: 1, Ease: bounce}).
		From(sc.LeftEar, reel.PathScale, reel.Splat(0.2), popIn, reel.Offset(-2))

	stage.NewTimeline(reel.TimelineOpts{Name: "right-ear", Delay: cfg.Delays.RightEar}).
		To(sc.RightEar, xy, reel.V3(2.3, -3, 0), reel.TweenOpts{Duration: 1, Ease: powerIn}).
		FromTo(sc.RightEar, xy, reel.V3(2.3, -3, 0), reel.V3(0.9, 2.2, 0), reel.TweenOpts{Duration: 1, Ease: bounce}).
		From(sc.RightEar, reel.PathScale, reel.Splat(0.2), popIn, reel.Offset(-2)).
		Call(sc.attachEars)
}

// attachEars moves the ears under the head so they follow it from now on.
func (sc *Scene) attachEars() {
	sc.Head.AddChild(sc.LeftEarContainer)
	sc.Head.AddChild(sc.RightEarContainer)
	sc.LeftEarContainer.Attach(sc.LeftEar)
	sc.RightEarContainer.Attach(sc.RightEar)
	sc.LeftEar.SetPosition(-0.9, 0.7, 0)
	sc.RightEar.SetPosition(0.9, 0.7, 0)
	sc.EarsAttached = true
}

// GridTarget returns the resting position of the square in column i, row j.
func GridTarget(g config.GridConfig, i, j int) reel.Vec3 {
	left := -float64(g.Columns) * g.Size / 2
	bottom := -float64(g.Rows)*g.Size/2 + g.OffsetY
	return reel.V3(g.Size+left+float64(i)*g.Size, bottom+float64(j)*g.Size, 0)
}

// buildGrid creates the squares, each falling from a random point above its
// target with a random delay that grows with its row.
func (sc *Scene) buildGrid(stage *reel.Stage, cfg *config.Config, rng *rand.Rand) {
	g := cfg.Grid
	between := func(r config.Range) float64 { return r.Min() + rng.Float64()*(r.Max()-r.Min()) }
	spin := g.SpinTurns * 2 * math.Pi
	spinRange := config.Range{-spin, spin}
	box := reel.NewBox(g.Size, g.Size, g.Size)
	mat := reel.StandardMaterial(rgb(cfg.Colors.Squares))
	quartOut := reel.MustEase("power4.out")
	sched := stage.Scheduler()

	for i := 0; i < g.Columns; i++ {
		for j := 0; j < g.Rows; j++ {
			target := GridTarget(g, i, j)
			sq := reel.NewMesh("square", box, mat)
			sq.SetPosition(target.X*between(g.OriginSpread), target.Y+between(g.OriginLift), 0)
			sq.SetShadows(true, true)
			delay := g.DelayBase + (target.Y+5)*g.DelayPerUnit + rng.Float64()*g.DelayJitter
			delay = math.Max(delay, 0)

			sched.Tween(reel.TweenTo(sq, reel.PathPosition.Only(reel.AxesXY), target, reel.TweenOpts{
				Duration: between(g.Duration),
				Delay:    delay,
				Ease:     quartOut,
			}))
			spinDur := between(g.SpinDuration)
			z, x, y := between(spinRange), between(spinRange), between(spinRange)
			sched.Tween(reel.TweenFrom(sq, reel.PathRotation, reel.V3(x, y, z), reel.TweenOpts{
				Duration:  spinDur,
				Delay:     delay,
				Ease:      quartOut,
				Immediate: true,
			}))

			stage.Root().AddChild(sq)
			sc.Squares = append(sc.Squares, sq)
		}
	}
}

// animateRects swings the yellow and green cards into place.
func (sc *Scene) animateRects(stage *reel.Stage, cfg *config.Config) {
	xy := reel.PathPosition.Only(reel.AxesXY)
	rotZ := reel.PathRotation.Only(reel.AxisZ)
	sineIn, sineOut := reel.MustEase("sine.in"), reel.MustEase("sine.out")
	y := sc.YellowRect

	stage.NewTimeline(reel.TimelineOpts{Name: "yellow-rect", Delay: cfg.Delays.Rects}).
		FromTo(y, rotZ, reel.Vec3{}, reel.V3(0, 0, -0.5), reel.TweenOpts{Duration: 1}).
		To(y, xy, reel.V3(-1, -1.5, 0), reel.TweenOpts{Duration: 1, Ease: sineIn}, reel.WithPrevious()).
		FromTo(y, xy, reel.V3(-1, -1.5, 0), reel.V3(0, -1.5, 0), reel.TweenOpts{Duration: 0.5}).
		FromTo(y, rotZ, reel.V3(0, 0, -0.5), reel.V3(0, 0, 0.5), reel.TweenOpts{Duration: 0.5, Ease: sineIn}, reel.WithPrevious()).
		FromTo(y, rotZ, reel.V3(0, 0, 0.5), reel.V3(0, 0, 0.1), reel.TweenOpts{Duration: 0.5}).
		FromTo(y, xy, reel.V3(0, -1.5, 0), reel.V3(0, -0.5, 0), reel.TweenOpts{Duration: 1, Ease: sineOut}, reel.WithPrevious())

	g := sc.GreenRect
	stage.NewTimeline(reel.TimelineOpts{Name: "green-rect", Delay: cfg.Delays.Rects}).
		To(g, reel.PathPosition, reel.V3(0, -2, 1), reel.TweenOpts{Duration: 1, Ease: sineIn}, reel.WithPrevious()).
		To(g, reel.PathRotation.Only(reel.AxisX|reel.AxisZ), reel.V3(-2*math.Pi, 0, -0.1), reel.TweenOpts{Duration: 1, Ease: sineOut}).
		FromTo(g, reel.PathPosition, reel.V3(0, -2, 1), reel.V3(0.7, 0.9, 1), reel.TweenOpts{Duration: 1, Ease: sineOut}, reel.WithPrevious())
}

// animateEarSpin pumps each ear container up, spins it a full turn and
// settles it, with the ear shrinking and regrowing inside.
func (sc *Scene) animateEarSpin(stage *reel.Stage, cfg *config.Config) {
	spin := func(name string, delay float64, container, ear *reel.Node, peak, turn float64) {
		stage.NewTimeline(reel.TimelineOpts{Name: name, Delay: delay}).
			FromTo(container, reel.PathScale, reel.Splat(1), reel.Splat(peak), reel.TweenOpts{Duration: 1}).
			FromTo(ear, reel.PathScale, reel.Splat(earScale), reel.Splat(0.325), reel.TweenOpts{Duration: 1}, reel.WithPrevious()).
			To(container, reel.PathRotation.Only(reel.AxisZ), reel.V3(0, 0, turn), reel.TweenOpts{Duration: 2, Ease: reel.MustEase("sine.inOut")}, reel.WithPrevious()).
			FromTo(container, reel.PathScale, reel.Splat(peak), reel.Splat(1), reel.TweenOpts{Duration: 1}, reel.Offset(-0.5)).
			FromTo(ear, reel.PathScale, reel.Splat(0.325), reel.Splat(0.65), reel.TweenOpts{Duration: 1}, reel.WithPrevious())
	}
	spin("left-ear-spin", cfg.Delays.LeftEarSpin, sc.LeftEarContainer, sc.LeftEar, 1.5, 2*math.Pi)
	spin("right-ear-spin", cfg.Delays.RightEarSpin, sc.RightEarContainer, sc.RightEar, 2, -2*math.Pi)
}

// animateHeadSettle shrinks the head and tilts it into its final pose.
func (sc *Scene) animateHeadSettle(stage *reel.Stage, cfg *config.Config) {
	sineOut, sineInOut := reel.MustEase("sine.out"), reel.MustEase("sine.inOut")
	h := sc.Head
	stage.NewTimeline(reel.TimelineOpts{Name: "head-settle", Delay: cfg.Delays.HeadSettle}).
		FromTo(h, reel.PathPosition, reel.V3(0, 1.5, 1), reel.V3(-1, 2, 1.3), reel.TweenOpts{Duration: 1, Ease: sineOut}).
		FromTo(h, reel.PathScale, reel.Splat(1), reel.Splat(0.5), reel.TweenOpts{Duration: 2, Ease: sineOut}).
		FromTo(h, reel.PathPosition, reel.V3(-1, 2, 1.3), reel.V3(0.6, 0.75, 1.3), reel.TweenOpts{Duration: 2, Ease: sineInOut}, reel.WithPrevious()).
		To(h, reel.PathRotation.Only(reel.AxisZ), reel.V3(0, 0, -0.25), reel.TweenOpts{Duration: 2, Ease: sineInOut}, reel.WithPrevious())
}

// loadLogo adds the logo once loaded and flies it in from behind the
// camera.
func (sc *Scene) loadLogo(stage *reel.Stage, cfg *config.Config, assets reel.AssetLoader) {
	stage.Load(assets, AssetLogo, func(b *reel.Bundle) {
		logo := b.Root
		logo.SetPosition(0, -1, 0.5)
		logo.SetRotation(math.Pi/2, 0.2, 0)
		logo.Scale = reel.Splat(1.6)
		logo.SetShadows(true, true)

		inOut := reel.MustEase("power2.inOut")
		sched := stage.Scheduler()
		sched.Tween(reel.TweenFrom(logo, reel.PathPosition, reel.V3(0, -2, 10), reel.TweenOpts{
			Duration: 2, Delay: cfg.Delays.Logo, Ease: inOut, Immediate: true,
		}))
		sched.Tween(reel.TweenFrom(logo, reel.PathRotation.Only(reel.AxisY), reel.Vec3{}, reel.TweenOpts{
			Duration: 2, Delay: cfg.Delays.Logo, Ease: inOut, Immediate: true,
		}))
		stage.Root().AddChild(logo)
		sc.Logo = logo
	}, nil)
}

// loadVideos prepares the video strip once loaded. After the configured
// delay its clip starts, and the strip joins the scene one tick later.
func (sc *Scene) loadVideos(stage *reel.Stage, cfg *config.Config, assets reel.AssetLoader) {
	stage.Load(assets, AssetVideos, func(b *reel.Bundle) {
		videos := b.Root
		clip := reel.ClipByName(b.Clips, VideosClip)
		if clip == nil {
			stage.Logger().Warn("videos bundle has no clip", "clip", VideosClip)
			return
		}
		mixer := reel.NewMixer(videos)
		stage.AddMixer(mixer)
		action := mixer.ClipAction(clip)
		action.Loop = reel.ClipLoopOnce
		action.ClampWhenFinished = true

		videos.SetPosition(-0.5, -1.8, 1)
		videos.Scale = reel.Splat(0.6)
		videos.SetRotation(math.Pi/2, -0.1, 0)
		videos.SetShadows(true, true)
		sc.VideosAction = action

		sched := stage.Scheduler()
		sched.DelayedCall(cfg.Delays.Videos, func() {
			action.Play()
			sched.DelayedCall(0, func() {
				stage.Root().AddChild(videos)
				sc.Videos = videos
			})
		})
	}, nil)
}
