// Package snapshot rasterizes a skeleton's current pose to an image and
// encodes images as WebP.
package snapshot

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/phanxgames/sinew"
)

// Options controls Render. Zero fields take the defaults listed.
type Options struct {
	Size        int     // output width and height in pixels (256)
	Supersample int     // render scale before downsampling (2)
	Yaw         float64 // camera rotation about +Z in degrees
	Pitch       float64 // camera rotation about the camera's X axis in degrees
	Margin      float64 // fraction of Size kept clear on each side (0.1)
	BoneWidth   float64 // bone stroke width in output pixels (2)
	JointRadius float64 // joint dot radius in output pixels (3)

	Background color.Color // transparent
	BoneColor  color.Color // light grey
	JointColor color.Color // orange

	// Kinds limits which joint kinds are drawn. Empty draws bones only.
	Kinds []sinew.JointKind
}

func (o Options) withDefaults() Options {
	if o.Size <= 0 {
		o.Size = 256
	}
	if o.Supersample <= 0 {
		o.Supersample = 2
	}
	if o.Margin <= 0 {
		o.Margin = 0.1
	}
	if o.BoneWidth <= 0 {
		o.BoneWidth = 2
	}
	if o.JointRadius <= 0 {
		o.JointRadius = 3
	}
	if o.Background == nil {
		o.Background = color.Transparent
	}
	if o.BoneColor == nil {
		o.BoneColor = color.NRGBA{R: 0xd0, G: 0xd0, B: 0xd0, A: 0xff}
	}
	if o.JointColor == nil {
		o.JointColor = color.NRGBA{R: 0xff, G: 0x99, B: 0x33, A: 0xff}
	}
	if len(o.Kinds) == 0 {
		o.Kinds = []sinew.JointKind{sinew.JointKindBone}
	}
	return o
}

// ViewMatrix returns the camera rotation for yaw and pitch in degrees.
// With both zero the image shows +X to the right and +Z up.
func ViewMatrix(yaw, pitch float64) mgl64.Mat3 {
	y := mgl64.Rotate3DZ(mgl64.DegToRad(-yaw))
	p := mgl64.Rotate3DX(mgl64.DegToRad(-pitch))
	return p.Mul3(y)
}

// Project maps a world point to camera-plane coordinates (right, up).
func Project(view mgl64.Mat3, p mgl64.Vec3) (float64, float64) {
	v := view.Mul3x1(p)
	return v[0], v[2]
}

type segment struct {
	from, to mgl64.Vec3
}

// Render draws every selected joint of skel as a dot and every link to a
// selected parent as a stroke, fitted to the image. World matrices are
// brought up to date first.
func Render(skel *sinew.Skeleton, opts Options) *image.NRGBA {
	opts = opts.withDefaults()
	skel.UpdateWorldMatrices()

	var joints []mgl64.Vec3
	var bones []segment
	for i := 0; i < skel.NumJoints(); i++ {
		j := skel.JointAt(i)
		if !drawn(j, opts.Kinds) {
			continue
		}
		joints = append(joints, j.WorldPosition())
		if p := j.Parent(); p != nil && drawn(p, opts.Kinds) {
			bones = append(bones, segment{p.WorldPosition(), j.WorldPosition()})
		}
	}

	ss := opts.Supersample
	big := opts.Size * ss
	canvas := image.NewRGBA(image.Rect(0, 0, big, big))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	view := ViewMatrix(opts.Yaw, opts.Pitch)
	fit := newFitter(view, joints, float64(big), opts.Margin)

	z := vector.NewRasterizer(big, big)
	width := opts.BoneWidth * float64(ss)
	for _, b := range bones {
		x0, y0 := fit.apply(b.from)
		x1, y1 := fit.apply(b.to)
		strokeLine(z, x0, y0, x1, y1, width)
	}
	z.Draw(canvas, canvas.Bounds(), image.NewUniform(opts.BoneColor), image.Point{})

	z.Reset(big, big)
	radius := opts.JointRadius * float64(ss)
	for _, p := range joints {
		x, y := fit.apply(p)
		fillCircle(z, x, y, radius)
	}
	z.Draw(canvas, canvas.Bounds(), image.NewUniform(opts.JointColor), image.Point{})

	out := image.NewNRGBA(image.Rect(0, 0, opts.Size, opts.Size))
	xdraw.CatmullRom.Scale(out, out.Bounds(), canvas, canvas.Bounds(), xdraw.Src, nil)
	return out
}

func drawn(j *sinew.Joint, kinds []sinew.JointKind) bool {
	for _, k := range kinds {
		if j.Kind() == k {
			return true
		}
	}
	return false
}

// fitter scales and centers projected points into a square canvas,
// flipping the vertical axis so +up is toward the top of the image.
type fitter struct {
	view          mgl64.Mat3
	cx, cy, scale float64
	half          float64
}

func newFitter(view mgl64.Mat3, pts []mgl64.Vec3, size, margin float64) fitter {
	f := fitter{view: view, half: size / 2, scale: 1}
	if len(pts) == 0 {
		return f
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		x, y := Project(view, p)
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	f.cx, f.cy = (minX+maxX)/2, (minY+maxY)/2
	extent := math.Max(maxX-minX, maxY-minY)
	if extent > 1e-9 {
		f.scale = size * (1 - 2*margin) / extent
	}
	return f
}

func (f fitter) apply(p mgl64.Vec3) (float32, float32) {
	x, y := Project(f.view, p)
	return float32(f.half + (x-f.cx)*f.scale), float32(f.half - (y-f.cy)*f.scale)
}

// strokeLine adds a quad of the given width around the segment.
func strokeLine(z *vector.Rasterizer, x0, y0, x1, y1 float32, width float64) {
	dx, dy := float64(x1-x0), float64(y1-y0)
	l := math.Hypot(dx, dy)
	if l < 1e-6 {
		return
	}
	nx, ny := float32(-dy/l*width/2), float32(dx/l*width/2)
	z.MoveTo(x0+nx, y0+ny)
	z.LineTo(x1+nx, y1+ny)
	z.LineTo(x1-nx, y1-ny)
	z.LineTo(x0-nx, y0-ny)
	z.ClosePath()
}

// fillCircle adds a circle approximated by four cubic arcs.
func fillCircle(z *vector.Rasterizer, cx, cy float32, r float64) {
	const k = 0.5522847498
	rr := float32(r)
	kr := float32(r * k)
	z.MoveTo(cx+rr, cy)
	z.CubeTo(cx+rr, cy+kr, cx+kr, cy+rr, cx, cy+rr)
	z.CubeTo(cx-kr, cy+rr, cx-rr, cy+kr, cx-rr, cy)
	z.CubeTo(cx-rr, cy-kr, cx-kr, cy-rr, cx, cy-rr)
	z.CubeTo(cx+kr, cy-rr, cx+rr, cy-kr, cx+rr, cy)
	z.ClosePath()
}
