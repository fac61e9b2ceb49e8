// Package debugdraw draws a skeleton onto an ebiten image for interactive
// inspection. It uses the same orthographic camera as package snapshot but
// maps world units to screen pixels with a fixed scale instead of fitting
// the pose to the frame.
package debugdraw

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/sinew"
	"github.com/phanxgames/sinew/snapshot"
)

// Options controls Draw.
type Options struct {
	// Camera angles in degrees, as for snapshot.ViewMatrix.
	Yaw, Pitch float64
	// Scale is pixels per world unit. Zero means 200.
	Scale float64
	// OriginX and OriginY are the screen position of the world origin.
	OriginX, OriginY float64

	BoneWidth   float32 // 2 when zero
	JointRadius float32 // 3 when zero
	BoneColor   color.Color
	JointColor  color.Color

	// Kinds limits which joint kinds are drawn. Empty draws bones only.
	Kinds []sinew.JointKind
	// Labels prints each drawn joint's name next to it.
	Labels bool
	// Highlight is drawn in HighlightColor with a larger dot.
	Highlight      *sinew.Joint
	HighlightColor color.Color
}

func (o *Options) scale() float64 {
	if o.Scale == 0 {
		return 200
	}
	return o.Scale
}

// ToScreen projects a world point to screen pixels.
func (o *Options) ToScreen(p mgl64.Vec3) (float64, float64) {
	r, u := snapshot.Project(snapshot.ViewMatrix(o.Yaw, o.Pitch), p)
	s := o.scale()
	return o.OriginX + r*s, o.OriginY - u*s
}

// FromScreen returns the world point under screen position (x, y) on the
// camera plane passing through ref.
func (o *Options) FromScreen(x, y float64, ref mgl64.Vec3) mgl64.Vec3 {
	view := snapshot.ViewMatrix(o.Yaw, o.Pitch)
	s := o.scale()
	depth := view.Mul3x1(ref)[1]
	cam := mgl64.Vec3{(x - o.OriginX) / s, depth, (o.OriginY - y) / s}
	return view.Transpose().Mul3x1(cam)
}

func (o *Options) drawn(j *sinew.Joint) bool {
	if len(o.Kinds) == 0 {
		return j.Kind() == sinew.JointKindBone
	}
	for _, k := range o.Kinds {
		if j.Kind() == k {
			return true
		}
	}
	return false
}

func orDefault(c, def color.Color) color.Color {
	if c == nil {
		return def
	}
	return c
}

var (
	defaultBone      = color.RGBA{R: 0xd0, G: 0xd0, B: 0xd0, A: 0xff}
	defaultJoint     = color.RGBA{R: 0xff, G: 0x99, B: 0x33, A: 0xff}
	defaultHighlight = color.RGBA{R: 0x33, G: 0xcc, B: 0xff, A: 0xff}
)

// Draw renders skel's current pose onto screen. World matrices are brought
// up to date first.
func Draw(screen *ebiten.Image, skel *sinew.Skeleton, opts Options) {
	skel.UpdateWorldMatrices()

	width := opts.BoneWidth
	if width == 0 {
		width = 2
	}
	radius := opts.JointRadius
	if radius == 0 {
		radius = 3
	}
	boneColor := orDefault(opts.BoneColor, defaultBone)
	jointColor := orDefault(opts.JointColor, defaultJoint)

	for i := 0; i < skel.NumJoints(); i++ {
		j := skel.JointAt(i)
		p := j.Parent()
		if p == nil || !opts.drawn(j) || !opts.drawn(p) {
			continue
		}
		x0, y0 := opts.ToScreen(p.WorldPosition())
		x1, y1 := opts.ToScreen(j.WorldPosition())
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), width, boneColor, true)
	}

	for i := 0; i < skel.NumJoints(); i++ {
		j := skel.JointAt(i)
		if !opts.drawn(j) {
			continue
		}
		x, y := opts.ToScreen(j.WorldPosition())
		if j == opts.Highlight {
			vector.DrawFilledCircle(screen, float32(x), float32(y), radius*2,
				orDefault(opts.HighlightColor, defaultHighlight), true)
		} else {
			vector.DrawFilledCircle(screen, float32(x), float32(y), radius, jointColor, true)
		}
		if opts.Labels {
			ebitenutil.DebugPrintAt(screen, j.Name, int(x)+int(radius)+2, int(y)-8)
		}
	}
}

// Nearest returns the drawn joint whose screen position is closest to
// (x, y) and within maxDist pixels, or nil.
func Nearest(skel *sinew.Skeleton, opts Options, x, y, maxDist float64) *sinew.Joint {
	var best *sinew.Joint
	bestD := maxDist * maxDist
	for i := 0; i < skel.NumJoints(); i++ {
		j := skel.JointAt(i)
		if !opts.drawn(j) {
			continue
		}
		sx, sy := opts.ToScreen(j.WorldPosition())
		d := (sx-x)*(sx-x) + (sy-y)*(sy-y)
		if d <= bestD {
			best, bestD = j, d
		}
	}
	return best
}
