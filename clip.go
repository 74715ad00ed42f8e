package reel

import (
	"fmt"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ClipTrack animates one property of one named node through keyframes.
// Values between keyframes are interpolated linearly.
type ClipTrack struct {
	Target string // node name, looked up under the mixer's root
	Path   PropertyPath
	Times  []float64 // seconds, ascending
	Values []Vec3    // one per time
}

// Clip is a pre-authored keyframe animation, independent of timelines.
type Clip struct {
	Name     string
	Duration float64
	Tracks   []ClipTrack
}

// Validate reports malformed tracks.
func (c *Clip) Validate() error {
	for i, tr := range c.Tracks {
		if len(tr.Times) == 0 || len(tr.Times) != len(tr.Values) {
			return fmt.Errorf("reel: clip %q track %d: %d times for %d values", c.Name, i, len(tr.Times), len(tr.Values))
		}
		for k := 1; k < len(tr.Times); k++ {
			if tr.Times[k] < tr.Times[k-1] {
				return fmt.Errorf("reel: clip %q track %d: keyframe times not ascending", c.Name, i)
			}
		}
		if tr.Times[0] < 0 {
			return fmt.Errorf("reel: clip %q track %d: negative keyframe time", c.Name, i)
		}
	}
	return nil
}

// ClipByName returns the clip named name, or nil.
func ClipByName(clips []*Clip, name string) *Clip {
	for _, c := range clips {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ClipLoop selects how a ClipAction repeats.
type ClipLoop uint8

const (
	ClipLoopOnce   ClipLoop = iota // play once and stop
	ClipLoopRepeat                 // restart from the beginning forever
)

// trackBinding connects a track to a resolved node. Each animated component
// is one gween.Sequence of keyframe segments.
type trackBinding struct {
	node *Node
	path PropertyPath
	seqs [3]*gween.Sequence
	rest Vec3
}

// ClipAction plays one clip on a mixer.
type ClipAction struct {
	Clip *Clip
	Loop ClipLoop
	// ClampWhenFinished keeps the last frame after a LoopOnce action ends.
	// Otherwise the animated properties return to their values from before
	// the action played.
	ClampWhenFinished bool
	// OnFinished fires when a LoopOnce action reaches its end.
	OnFinished func()

	mixer    *Mixer
	bindings []trackBinding
	time     float64
	running  bool
	finished bool
}

// Play starts (or restarts) the action from its first frame.
func (a *ClipAction) Play() *ClipAction {
	a.bind()
	a.time = 0
	a.running = true
	a.finished = false
	return a
}

// Stop halts the action and restores the animated properties.
func (a *ClipAction) Stop() {
	a.running = false
	a.restore()
}

// IsRunning reports whether the action is playing.
func (a *ClipAction) IsRunning() bool { return a.running }

// Finished reports whether a LoopOnce action has reached its end.
func (a *ClipAction) Finished() bool { return a.finished }

// Time returns the action's local time in seconds.
func (a *ClipAction) Time() float64 { return a.time }

// bind resolves track targets and builds fresh sequences.
func (a *ClipAction) bind() {
	a.bindings = a.bindings[:0]
	for _, tr := range a.Clip.Tracks {
		node := a.mixer.root.Find(tr.Target)
		if node == nil || len(tr.Times) == 0 || len(tr.Times) != len(tr.Values) {
			continue
		}
		b := trackBinding{node: node, path: tr.Path, rest: tr.Path.get(node)}
		for i := 0; i < 3; i++ {
			if !tr.Path.Axes.Has(i) {
				continue
			}
			b.seqs[i] = keyframeSequence(tr.Times, tr.Values, i)
			// A sequence with no length would wrap forever within one Update.
			if a.Loop == ClipLoopRepeat && tr.Times[len(tr.Times)-1] > 0 {
				b.seqs[i].SetLoop(-1)
			}
		}
		a.bindings = append(a.bindings, b)
	}
}

// keyframeSequence builds a linear segment per keyframe pair for component
// i. A first keyframe after zero holds its value until then.
func keyframeSequence(times []float64, values []Vec3, i int) *gween.Sequence {
	seq := gween.NewSequence()
	first := float32(values[0].Component(i))
	if times[0] > 0 {
		seq.Add(gween.New(first, first, float32(times[0]), ease.Linear))
	}
	for k := 1; k < len(times); k++ {
		from := float32(values[k-1].Component(i))
		to := float32(values[k].Component(i))
		seq.Add(gween.New(from, to, float32(times[k]-times[k-1]), ease.Linear))
	}
	if !seq.HasTweens() {
		seq.Add(gween.New(first, first, 0, ease.Linear))
	}
	return seq
}

// update advances the action by dt and writes its values.
func (a *ClipAction) update(dt float64) {
	if !a.running {
		return
	}
	a.time += dt
	done := true
	for bi := range a.bindings {
		b := &a.bindings[bi]
		if b.node.IsDisposed() {
			continue
		}
		var v Vec3
		for i, seq := range b.seqs {
			if seq == nil {
				continue
			}
			val, _, seqDone := seq.Update(float32(dt))
			v = v.setComponent(i, float64(val))
			if !seqDone {
				done = false
			}
		}
		b.path.set(b.node, v, b.path.Axes)
	}
	end := done
	if a.Clip.Duration > 0 {
		end = a.time >= a.Clip.Duration
	}
	if a.Loop == ClipLoopOnce && end {
		a.running = false
		a.finished = true
		if !a.ClampWhenFinished {
			a.restore()
		}
		if a.OnFinished != nil {
			a.OnFinished()
		}
	}
}

func (a *ClipAction) restore() {
	for _, b := range a.bindings {
		if !b.node.IsDisposed() {
			b.path.set(b.node, b.rest, b.path.Axes)
		}
	}
}

// --- Mixer ---

// Mixer plays clip actions on the subtree under root.
type Mixer struct {
	root    *Node
	actions []*ClipAction
	time    float64
}

// NewMixer creates a mixer for root.
func NewMixer(root *Node) *Mixer {
	return &Mixer{root: root}
}

// Root returns the node tracks are resolved under.
func (m *Mixer) Root() *Node { return m.root }

// ClipAction returns the action for clip, creating it on first use.
func (m *Mixer) ClipAction(clip *Clip) *ClipAction {
	for _, a := range m.actions {
		if a.Clip == clip {
			return a
		}
	}
	a := &ClipAction{Clip: clip, mixer: m}
	m.actions = append(m.actions, a)
	return a
}

// Update advances every running action by dt seconds.
func (m *Mixer) Update(dt float64) {
	if dt < 0 || !isFinite(dt) {
		dt = 0
	}
	m.time += dt
	for _, a := range m.actions {
		a.update(dt)
	}
}

// Time returns the total time the mixer has been updated by.
func (m *Mixer) Time() float64 { return m.time }
