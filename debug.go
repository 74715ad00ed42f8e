package reel

import (
	"fmt"
	"log/slog"
	"time"
)

// debugStats holds per-frame timing and draw metrics of the scene pass.
// Only logged when Stage debug mode is on.
type debugStats struct {
	traverseTime  time.Duration
	shadowTime    time.Duration
	sortTime      time.Duration
	submitTime    time.Duration
	commandCount  int
	drawCallCount int
}

// debugLog writes the scene pass stats and scheduler counters at debug level.
func (s *Stage) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	total := stats.traverseTime + stats.shadowTime + stats.sortTime + stats.submitTime
	sched := s.scheduler.Stats()
	s.logger.Debug("frame",
		"frame", s.frame.Index,
		"traverse", stats.traverseTime,
		"shadow", stats.shadowTime,
		"sort", stats.sortTime,
		"submit", stats.submitTime,
		"total", total,
		"commands", stats.commandCount,
		"draw_calls", stats.drawCallCount,
		"timelines", sched.Active,
		"callbacks", sched.Callbacks,
	)
}

// debugCheckDisposed panics when op touches a disposed node.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("reel debug: %s on disposed node %q", op, n.Name))
	}
}

// Limits past which debug mode warns about a suspicious scene graph.
const (
	debugMaxTreeDepth  = 32
	debugMaxChildCount = 1000
)

// debugCheckLink warns when linking child under parent made the tree too
// deep or parent too wide.
func debugCheckLink(parent, child *Node) {
	depth := 0
	for p := child; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		debugLogger.Warn("reel debug: deep scene graph", "node", child.Name, "depth", depth, "limit", debugMaxTreeDepth)
	}
	if n := len(parent.children); n > debugMaxChildCount {
		debugLogger.Warn("reel debug: wide node", "node", parent.Name, "children", n, "limit", debugMaxChildCount)
	}
}

// globalDebug and debugLogger mirror the Stage that last called
// SetDebugMode, for node operations that have no Stage to ask.
var (
	globalDebug bool
	debugLogger = slog.Default()
)
