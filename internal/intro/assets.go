package intro

import (
	"math"

	"github.com/phanxgames/reel"
)

// Asset names served by Assets.
const (
	AssetLogo   = "logo"
	AssetVideos = "videos"

	// VideosClip is the clip carried by the videos bundle.
	VideosClip = "scroll"
)

const (
	videoPanels    = 5
	videoPanelStep = 1.8
)

var panelColors = []uint32{0xD94F4F, 0xF2A541, 0x3FA7D6, 0x59CD90, 0xEE6352}

// Assets returns a loader for the logo and videos bundles. Both models are
// authored Y-up and lie in the XZ plane, so the intro stands them up with a
// quarter turn about X.
func Assets() *reel.BuilderLoader {
	l := reel.NewBuilderLoader()
	l.Register(AssetLogo, buildLogo)
	l.Register(AssetVideos, buildVideos)
	return l
}

// buildLogo lays out a swoosh of thin tiles along an elliptical arc with a
// dot at its end.
func buildLogo() (*reel.Bundle, error) {
	root := reel.NewGroup(AssetLogo)
	mat := reel.StandardMaterial(reel.Hex(0x1B3D8F))
	tile := reel.NewBox(0.22, 0.08, 0.12)

	const arcTiles = 13
	for i := 0; i < arcTiles; i++ {
		a := math.Pi * (0.1 + 0.8*float64(i)/(arcTiles-1))
		n := reel.NewMesh("arc", tile, mat)
		n.SetPosition(-1.1*math.Cos(a), 0, -0.45*math.Sin(a))
		n.SetRotation(0, math.Pi/2-a, 0)
		root.AddChild(n)
	}
	dot := reel.NewMesh("dot", reel.NewBox(0.14, 0.08, 0.14), mat)
	dot.SetPosition(1.15, 0, -0.5)
	root.AddChild(dot)
	return &reel.Bundle{Root: root}, nil
}

// buildVideos builds a strip of panels and a clip that scrolls the strip
// while the panels pop in one after another.
func buildVideos() (*reel.Bundle, error) {
	root := reel.NewGroup(AssetVideos)
	strip := reel.NewGroup("strip")
	root.AddChild(strip)

	panel := reel.NewBox(1.6, 0.05, 0.9)
	clip := &reel.Clip{Name: VideosClip, Duration: 4}
	clip.Tracks = append(clip.Tracks, reel.ClipTrack{
		Target: "strip",
		Path:   reel.PathPosition.Only(reel.AxisX),
		Times:  []float64{0, 2, 4},
		Values: []reel.Vec3{reel.V3(videoPanelStep*2, 0, 0), {}, reel.V3(-videoPanelStep, 0, 0)},
	})
	for i := 0; i < videoPanels; i++ {
		name := panelName(i)
		n := reel.NewMesh(name, panel, reel.StandardMaterial(reel.Hex(panelColors[i%len(panelColors)])))
		n.SetPosition((float64(i)-float64(videoPanels-1)/2)*videoPanelStep, 0, 0)
		strip.AddChild(n)

		start := 0.15 * float64(i)
		clip.Tracks = append(clip.Tracks, reel.ClipTrack{
			Target: name,
			Path:   reel.PathScale,
			Times:  []float64{start, start + 0.4},
			Values: []reel.Vec3{reel.Splat(0.01), reel.Splat(1)},
		})
	}
	return &reel.Bundle{Root: root, Clips: []*reel.Clip{clip}}, nil
}

func panelName(i int) string {
	return "panel-" + string(rune('0'+i))
}
