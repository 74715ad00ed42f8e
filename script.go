package reel

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// scriptStep is a single action in a capture script.
type scriptStep struct {
	Action string `yaml:"action"`
	Label  string `yaml:"label,omitempty"`
	Frames int    `yaml:"frames,omitempty"`
	Node   string `yaml:"node,omitempty"`
}

// captureScript is the top-level YAML structure of a capture script.
type captureScript struct {
	Steps []scriptStep `yaml:"steps"`
}

// ErrScriptQuit is returned from Stage.Update after a capture script runs its
// quit step. Run treats it as a clean exit.
var ErrScriptQuit = errors.New("reel: capture script finished")

// CaptureScript sequences waits, screenshots and transform dumps across
// ticks for automated visual checks. Attach to a Stage via SetCaptureScript.
//
// Example:
//
//	steps:
//	  - action: wait
//	    frames: 120
//	  - action: screenshot
//	    label: intro-2s
//	  - action: dump
//	    node: head
//	  - action: quit
type CaptureScript struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	quit      bool
}

// LoadCaptureScript parses a YAML capture script.
func LoadCaptureScript(data []byte) (*CaptureScript, error) {
	var script captureScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse capture script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse capture script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "wait", "screenshot", "dump", "quit":
		default:
			return nil, fmt.Errorf("parse capture script: step %d: unknown action %q", i, st.Action)
		}
		if st.Action == "wait" && st.Frames < 0 {
			return nil, fmt.Errorf("parse capture script: step %d: negative frames", i)
		}
	}
	return &CaptureScript{steps: script.Steps}, nil
}

// Done reports whether all steps have been executed.
func (r *CaptureScript) Done() bool {
	return r.done
}

// Quit reports whether a quit step has run.
func (r *CaptureScript) Quit() bool {
	return r.quit
}

// step advances the script by one tick. Called from Stage.Update.
func (r *CaptureScript) step(s *Stage) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "dump":
		dumpTransforms(s, st.Node)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts as one
		}
	case "quit":
		r.quit = true
		r.done = true
		return
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}

// dumpTransforms logs the local transform of the named node, or of every
// named node when name is empty.
func dumpTransforms(s *Stage, name string) {
	log := func(n *Node) {
		s.logger.Info("transform",
			"frame", s.frame.Index,
			"time", s.frame.Time,
			"node", n.Name,
			"position", n.Position,
			"rotation", n.Rotation,
			"scale", n.Scale,
			"opacity", n.Opacity,
		)
	}
	if name != "" {
		if n := s.root.Find(name); n != nil {
			log(n)
		} else {
			s.logger.Warn("dump: node not found", "node", name)
		}
		return
	}
	s.root.Traverse(func(n *Node) {
		if n.Name != "" {
			log(n)
		}
	})
}
