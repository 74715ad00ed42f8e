package reel

import (
	"io"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// TickObserver receives per-tick scheduler counters and the wall time the
// tick's Update took. Used for metrics.
type TickObserver interface {
	ObserveTick(stats SchedulerStats, updateTime time.Duration)
}

// StageConfig configures a new Stage.
type StageConfig struct {
	// Clock supplies tick times. Nil uses a SystemClock.
	Clock Clock
	// Logger receives load failures and debug stats. Nil discards.
	Logger *slog.Logger
	// BackgroundTexture is the repeating perturbation map of the background
	// pass. Nil draws the bare gradient.
	BackgroundTexture *ebiten.Image
	// FOV is the camera's vertical field of view in degrees. Zero means 45.
	FOV float64
	// Observer, when set, is called at the end of every Update.
	Observer TickObserver
	// ScreenshotDir is where queued screenshots are written. Empty means
	// "screenshots".
	ScreenshotDir string
}

// Stage is the top-level object that owns the node graph, the camera, the
// timeline scheduler, clip mixers and the compositor. It implements the
// Update/Draw half of ebiten.Game.
//
// Update drains finished asset loads, ticks the scheduler, then advances
// clip mixers, so everything a frame shows was computed before Draw runs.
type Stage struct {
	root       *Node
	camera     *Camera
	scheduler  *Scheduler
	compositor *Compositor
	background *BackgroundPass
	scene      *ScenePass
	mixers     []*Mixer

	clock    Clock
	logger   *slog.Logger
	observer TickObserver
	inbox    assetInbox

	frame    Frame
	onUpdate func(dt float64) error
	debug    bool

	// ScreenshotDir is the directory for Screenshot output.
	ScreenshotDir   string
	screenshotQueue []string

	script *CaptureScript
}

// NewStage creates a stage with an empty root group, a camera at the
// origin and a background + scene compositor.
func NewStage(cfg StageConfig) *Stage {
	clock := cfg.Clock
	if clock == nil {
		clock = NewSystemClock()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	fov := cfg.FOV
	if fov == 0 {
		fov = 45
	}
	dir := cfg.ScreenshotDir
	if dir == "" {
		dir = "screenshots"
	}

	root := NewGroup("root")
	cam := NewCamera(fov)
	bg := NewBackgroundPass(cfg.BackgroundTexture)
	scene := NewScenePass(root, cam)
	return &Stage{
		root:          root,
		camera:        cam,
		scheduler:     NewScheduler(),
		compositor:    NewCompositor(bg, scene),
		background:    bg,
		scene:         scene,
		clock:         clock,
		logger:        logger,
		observer:      cfg.Observer,
		ScreenshotDir: dir,
	}
}

// Root returns the stage's root group.
func (s *Stage) Root() *Node { return s.root }

// Camera returns the stage's camera.
func (s *Stage) Camera() *Camera { return s.camera }

// Scheduler returns the stage's timeline scheduler.
func (s *Stage) Scheduler() *Scheduler { return s.scheduler }

// Compositor returns the stage's compositor.
func (s *Stage) Compositor() *Compositor { return s.compositor }

// Background returns the background pass.
func (s *Stage) Background() *BackgroundPass { return s.background }

// ScenePass returns the foreground scene pass.
func (s *Stage) ScenePass() *ScenePass { return s.scene }

// Lighting returns the light set of the scene pass.
func (s *Stage) Lighting() *Lighting { return &s.scene.Lighting }

// Logger returns the stage's logger.
func (s *Stage) Logger() *slog.Logger { return s.logger }

// Frame returns the most recently updated frame.
func (s *Stage) Frame() Frame { return s.frame }

// NewTimeline creates a timeline registered with the stage's scheduler.
func (s *Stage) NewTimeline(opts TimelineOpts) *Timeline {
	return s.scheduler.NewTimeline(opts)
}

// AddMixer registers a clip mixer to be advanced every Update.
func (s *Stage) AddMixer(m *Mixer) {
	s.mixers = append(s.mixers, m)
}

// Mixers returns the registered mixers. The returned slice MUST NOT be mutated.
func (s *Stage) Mixers() []*Mixer { return s.mixers }

// SetUpdateFunc sets a callback run at the end of every Update with the
// tick's delta in seconds. A returned error stops the game loop.
func (s *Stage) SetUpdateFunc(fn func(dt float64) error) {
	s.onUpdate = fn
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, oversized trees are reported through the stage logger and
// per-frame timing stats are logged at debug level.
func (s *Stage) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
	debugLogger = s.logger
}

// SetCaptureScript attaches a capture script. Its steps run from Update.
func (s *Stage) SetCaptureScript(cs *CaptureScript) {
	s.script = cs
}

// Load starts loading name on a separate goroutine. The result is delivered
// on a later Update: onLoad receives the bundle, or onError (if non-nil)
// receives the failure, which is also logged. Either callback may mutate
// the graph and create timelines.
func (s *Stage) Load(loader AssetLoader, name string, onLoad func(*Bundle), onError func(error)) {
	s.inbox.start(loader, name, onLoad, onError)
}

// WaitLoads blocks until every started load has finished. Results are still
// only delivered by the next Update.
func (s *Stage) WaitLoads() {
	s.inbox.wait()
}

// Update advances the stage by one tick.
func (s *Stage) Update() error {
	start := time.Now()

	s.deliverLoads()

	now := s.clock.Now()
	dt := 0.0
	if s.frame.Index > 0 {
		dt = max(now.Seconds()-s.frame.Time, 0)
	}
	s.scheduler.Tick(now)
	s.camera.update(float32(dt))
	for _, m := range s.mixers {
		m.Update(dt)
	}

	s.frame.Time = now.Seconds()
	s.frame.Delta = dt

	if s.script != nil {
		s.script.step(s)
		if s.script.Quit() {
			return ErrScriptQuit
		}
	}

	var err error
	if s.onUpdate != nil {
		err = s.onUpdate(dt)
	}
	s.frame.Index++

	if s.observer != nil {
		s.observer.ObserveTick(s.scheduler.Stats(), time.Since(start))
	}
	return err
}

// deliverLoads runs the callbacks of every load finished since the last
// Update.
func (s *Stage) deliverLoads() {
	for _, r := range s.inbox.drain() {
		if r.err != nil {
			s.logger.Warn("asset load failed", "asset", r.name, "err", r.err)
			if r.onError != nil {
				r.onError(r.err)
			}
			continue
		}
		if r.onLoad != nil {
			r.onLoad(r.bundle)
		}
	}
}

// Draw renders the current frame into screen.
func (s *Stage) Draw(screen *ebiten.Image) {
	s.compositor.Draw(screen, s.frame)
	s.debugLog(s.scene.stats)
	s.flushScreenshots(screen)
}
