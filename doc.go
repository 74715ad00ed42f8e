// Package reel plays scripted 3D motion-graphics sequences on top of
// [Ebitengine].
//
// A reel is a small scene graph of meshes and lights, a set of timelines
// that tween node properties, and a compositor that paints an animated
// gradient background under the rendered scene every frame.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	stage := reel.NewStage(reel.StageConfig{})
//	// ... add nodes and timelines ...
//	reel.Run(stage, reel.RunConfig{
//		Title: "Intro", Width: 960, Height: 540,
//	})
//
// For full control, implement [ebiten.Game] yourself and call
// [Stage.Update] and [Stage.Draw] directly.
//
// # Scene graph
//
// Every element is a [Node]. Nodes form a tree rooted at [Stage.Root].
// Children inherit their parent's transform and opacity. [Node.AddChild]
// keeps the child's local transform; [Node.Attach] keeps its world transform.
//
//	box := reel.NewMesh("box", reel.NewBox(1, 1, 1), reel.StandardMaterial(reel.Hex(0x5D218C)))
//	box.SetPosition(0, 1, 0)
//	stage.Root().AddChild(box)
//
// # Timelines
//
// A [Timeline] holds tweens, nested timelines and callbacks at resolved
// start times. Placement follows the usual sequencing grammar: appended
// after the previous entry by default, "<" aligned with the previous
// entry's start, "+=N"/"-=N" offset from the previous end.
//
//	tl := stage.NewTimeline(reel.TimelineOpts{Delay: 0.5})
//	tl.To(head, reel.PathPosition.Only(reel.AxesXY), reel.V3(-2, -3, 0), reel.TweenOpts{Duration: 1, Ease: reel.QuadIn}).
//		To(head, reel.PathScale, reel.Splat(1), reel.TweenOpts{Duration: 2}, reel.P("-=1"))
//
// Timelines are ticked by the stage's [Scheduler] in registration order.
// A timeline cannot be changed once it has been ticked.
//
// # Rendering
//
// [Stage.Draw] runs a [Compositor]: the [BackgroundPass] shader fills the
// target, then the [ScenePass] projects, lights, depth-sorts and submits
// every visible triangle, with planar shadows on receiving planes. The
// target is cleared once per frame, before the first pass.
//
// # Assets and clips
//
// [Stage.Load] runs an [AssetLoader] on a separate goroutine and delivers
// the resulting [Bundle] on a later Update. Bundles may carry keyframe
// [Clip] animations, played by a [Mixer].
//
// [Ebitengine]: https://ebitengine.org
package reel
