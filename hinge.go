package sinew

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// HingeLimit restricts a joint's local rotation to a bend about a single
// pivot axis. Angles are in radians and measured from forward toward
// pivot x forward. Forward is the bone direction at the identity rotation.
//
// A knee limit removes all twist about the bone. An elbow limit keeps twist
// but clamps it to its own range.
type HingeLimit struct {
	forward, pivot, left mgl64.Vec3
	minBend, maxBend     float64

	twistLimited       bool
	minTwist, maxTwist float64
}

// NewKneeLimit returns a hinge that bends about pivot within
// [minBend, maxBend] and allows no twist.
func NewKneeLimit(forward, pivot mgl64.Vec3, minBend, maxBend float64) *HingeLimit {
	h := &HingeLimit{}
	h.setAxes(forward, pivot)
	h.minBend, h.maxBend = angleLimits(minBend, maxBend)
	return h
}

// NewElbowLimit returns a hinge that bends about pivot within
// [minBend, maxBend] and twists about the bone within [minTwist, maxTwist].
func NewElbowLimit(forward, pivot mgl64.Vec3, minBend, maxBend, minTwist, maxTwist float64) *HingeLimit {
	h := NewKneeLimit(forward, pivot, minBend, maxBend)
	h.twistLimited = true
	h.minTwist, h.maxTwist = angleLimits(minTwist, maxTwist)
	return h
}

func (h *HingeLimit) setAxes(forward, pivot mgl64.Vec3) {
	h.forward = normalizeOr(forward, mgl64.Vec3{1, 0, 0})
	// Keep only the part of pivot perpendicular to forward.
	h.pivot = normalizeOr(h.forward.Cross(pivot.Cross(h.forward)), mgl64.Vec3{0, 0, 1})
	h.left = h.pivot.Cross(h.forward)
}

// Forward returns the bone direction at zero bend.
func (h *HingeLimit) Forward() mgl64.Vec3 { return h.forward }

// Pivot returns the hinge axis, perpendicular to Forward.
func (h *HingeLimit) Pivot() mgl64.Vec3 { return h.pivot }

// BendRange returns the bend limits in radians.
func (h *HingeLimit) BendRange() (lo, hi float64) { return h.minBend, h.maxBend }

// Apply returns the rotation nearest to local that satisfies the limit.
func (h *HingeLimit) Apply(local mgl64.Quat) mgl64.Quat {
	q := local.Normalize()
	if h.twistLimited {
		// Swing the bone back into the hinge plane, then clamp its twist.
		fwd := q.Rotate(h.forward)
		inPlane := fwd.Sub(h.pivot.Mul(fwd.Dot(h.pivot)))
		q = shortestArc(fwd, inPlane).Mul(q)

		fwd = q.Rotate(h.forward)
		twist := math.Atan2(q.Rotate(h.left).Dot(h.pivot), q.Rotate(h.pivot).Dot(h.pivot))
		if twist < h.minTwist || twist > h.maxTwist {
			q = axisAngle(clampAngle(twist, h.minTwist, h.maxTwist)-twist, fwd).Mul(q)
		}
	} else {
		q = shortestArc(q.Rotate(h.pivot), h.pivot).Mul(q)
	}

	fwd := q.Rotate(h.forward)
	bend := math.Atan2(fwd.Dot(h.left), fwd.Dot(h.forward))
	if bend < h.minBend || bend > h.maxBend {
		q = axisAngle(clampAngle(bend, h.minBend, h.maxBend)-bend, h.pivot).Mul(q)
	}
	return q.Normalize()
}

// angleLimits wraps both limits into (-pi, pi] and orders them.
func angleLimits(lo, hi float64) (float64, float64) {
	wrap := func(a float64) float64 {
		a = math.Mod(a, 2*math.Pi)
		if a > math.Pi {
			a -= 2 * math.Pi
		} else if a < -math.Pi {
			a += 2 * math.Pi
		}
		return a
	}
	lo, hi = wrap(lo), wrap(hi)
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

// clampAngle moves an angle outside [lo, hi] to whichever limit is nearer
// going round the circle.
func clampAngle(a, lo, hi float64) float64 {
	bisector := hi + 0.5*(2*math.Pi-(hi-lo))
	if (a > hi && a < bisector) || a < bisector-2*math.Pi {
		return hi
	}
	return lo
}
