package sinew

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// PoseFade eases the weight of a Pose toward a target. Call Update(dt) each
// frame; the pose weight is written on every call.
type PoseFade struct {
	tween  *gween.Tween
	target *Pose
	to     float64
	Done   bool
}

// FadePose creates a PoseFade from the pose's current weight to the given
// weight over duration seconds using the easing function.
func FadePose(pose *Pose, to float64, duration float32, fn ease.TweenFunc) *PoseFade {
	return &PoseFade{
		tween:  gween.New(float32(pose.Weight()), float32(to), duration, fn),
		target: pose,
		to:     to,
	}
}

// FadeIn fades pose from zero to full weight.
func FadeIn(pose *Pose, duration float32, fn ease.TweenFunc) *PoseFade {
	pose.SetWeight(0)
	return FadePose(pose, 1, duration, fn)
}

// FadeOut fades pose from its current weight to zero.
func FadeOut(pose *Pose, duration float32, fn ease.TweenFunc) *PoseFade {
	return FadePose(pose, 0, duration, fn)
}

// Update advances the fade by dt seconds. The final call writes the exact
// target weight.
func (f *PoseFade) Update(dt float32) {
	if f.Done {
		return
	}
	val, finished := f.tween.Update(dt)
	if finished {
		f.target.SetWeight(f.to)
		f.Done = true
		return
	}
	f.target.SetWeight(float64(val))
}
