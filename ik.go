package sinew

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// TwoBoneSolver is a closed-form IK solver for a chain of three joints
// A (root) -> B (mid) -> C (end) reaching toward a goal joint. The pole
// vector, given in A's parent space, picks the side the chain bends toward.
//
// Solve never fails. Unreachable goals are clamped to a fully stretched or
// fully folded chain, and degenerate configurations leave the joints as
// they were before the call.
type TwoBoneSolver struct {
	a, b, c, goal *Joint

	pole     mgl64.Vec3
	bAxis    mgl64.Vec3
	useBAxis bool
	twist    float64
	bLimit   *HingeLimit

	lenAB, lenBC       float64
	baseRotA, baseRotB mgl64.Quat
}

// NewTwoBoneSolver returns a solver with pole vector +X, no bend axis and
// no twist. SetupJoints must be called before Solve.
func NewTwoBoneSolver() *TwoBoneSolver {
	return &TwoBoneSolver{
		pole:     mgl64.Vec3{1, 0, 0},
		baseRotA: mgl64.QuatIdent(),
		baseRotB: mgl64.QuatIdent(),
	}
}

// SetupJoints binds the chain and caches bone lengths and the current local
// rotations of a and b as the rest pose every Solve starts from. Call it
// again whenever the rest pose or bone lengths change.
func (s *TwoBoneSolver) SetupJoints(a, b, c, goal *Joint) {
	s.a, s.b, s.c, s.goal = a, b, c, goal
	s.lenAB = b.Position().Len()
	s.lenBC = c.Position().Len()
	s.baseRotA = a.Rotation()
	s.baseRotB = b.Rotation()
}

// PoleVector returns the bend-plane reference direction.
func (s *TwoBoneSolver) PoleVector() mgl64.Vec3 { return s.pole }

// SetPoleVector sets the bend-plane reference direction in A's parent space.
func (s *TwoBoneSolver) SetPoleVector(v mgl64.Vec3) { s.pole = normalizeOr(v, s.pole) }

// SetBAxis forces the elbow to bend about axis, given in B's local frame.
func (s *TwoBoneSolver) SetBAxis(axis mgl64.Vec3) {
	s.bAxis = normalizeOr(axis, mgl64.Vec3{0, 0, 1})
	s.useBAxis = true
}

// ClearBAxis reverts to deriving the bend axis from the chain and pole.
func (s *TwoBoneSolver) ClearBAxis() { s.useBAxis = false }

// SetBLimit constrains B's local rotation to a hinge. The limit is applied
// to the bend before A is aimed, so an out-of-range goal leaves C short of it.
// A nil limit removes the constraint.
func (s *TwoBoneSolver) SetBLimit(limit *HingeLimit) { s.bLimit = limit }

// BLimit returns B's hinge limit, or nil.
func (s *TwoBoneSolver) BLimit() *HingeLimit { return s.bLimit }

// SetTwist sets an extra rotation in radians of the whole chain about the
// A-to-goal axis.
func (s *TwoBoneSolver) SetTwist(radians float64) { s.twist = radians }

// Twist returns the twist angle in radians.
func (s *TwoBoneSolver) Twist() float64 { return s.twist }

// Solve rotates A and B so that C reaches the goal, or as close to it as
// the bone lengths allow.
func (s *TwoBoneSolver) Solve() {
	if s.a == nil || s.b == nil || s.c == nil || s.goal == nil {
		return
	}
	prevA, prevB := s.a.Rotation(), s.b.Rotation()
	restore := func(reason string) {
		Logger().Debug("sinew: ik solve skipped", "joint", s.a.Name, "reason", reason)
		s.a.SetRotation(prevA)
		s.b.SetRotation(prevB)
	}

	s.a.SetRotation(s.baseRotA)
	s.b.SetRotation(s.baseRotB)

	aPos := s.a.WorldPosition()
	bPos := s.b.WorldPosition()
	cPos := s.c.WorldPosition()
	gPos := s.goal.WorldPosition()

	pole := s.pole
	if p := s.a.Parent(); p != nil {
		pole = rotateDirection(p.WorldMatrix(), pole)
	}

	ab := bPos.Sub(aPos)
	bc := cPos.Sub(bPos)
	ag := gPos.Sub(aPos)
	agLen := ag.Len()

	if s.lenAB < lengthEpsilon || s.lenBC < lengthEpsilon ||
		ab.Len() < lengthEpsilon || bc.Len() < lengthEpsilon || agLen < lengthEpsilon {
		restore("zero length")
		return
	}

	// Elbow angle measured from a straight chain.
	cosTheta := (agLen*agLen - s.lenAB*s.lenAB - s.lenBC*s.lenBC) / (2 * s.lenAB * s.lenBC)
	theta := math.Acos(mgl64.Clamp(cosTheta, -1, 1))

	var n mgl64.Vec3
	switch {
	case s.useBAxis:
		n = s.b.WorldRotation().Rotate(s.bAxis)
	case !areParallel(ab, bc):
		n = ab.Cross(bc)
	case !areParallel(pole, ab):
		n = pole.Cross(ab)
	case areParallel(pole, ag):
		restore("singular bend plane")
		return
	default:
		n = ag.Cross(pole)
	}
	n = n.Normalize()

	bRot := axisAngle(theta-angleBetween(ab, bc), n)
	if s.bLimit != nil {
		bRot = s.limitB(bRot)
	}
	bc = bRot.Rotate(bc)
	ac := ab.Add(bc)

	cgRot := shortestArc(ac, ag)
	ab = cgRot.Rotate(ab)
	bc = cgRot.Rotate(bc)
	n = cgRot.Rotate(n)

	if areParallel(ag, pole) {
		// No plane to align to; keep the bend and aim.
		s.b.SetWorldRotation(bRot.Mul(s.b.WorldRotation()))
		s.a.SetWorldRotation(cgRot.Mul(s.a.WorldRotation()))
		return
	}

	apgNorm := pole.Cross(ag).Normalize()
	if !s.useBAxis {
		n = normalizeOr(ab.Cross(bc), n)
	}

	// Swing the bend plane about the A-to-goal axis onto the pole plane.
	pRot := axisAngle(signedAngle(n, apgNorm, ag), ag)
	twistRot := axisAngle(s.twist, ag)

	q := twistRot.Mul(pRot).Mul(cgRot)
	s.b.SetWorldRotation(bRot.Mul(s.b.WorldRotation()))
	s.a.SetWorldRotation(q.Mul(s.a.WorldRotation()))
}

// limitB clamps the world-space elbow rotation bRot through B's hinge limit
// and returns the clamped world-space rotation.
func (s *TwoBoneSolver) limitB(bRot mgl64.Quat) mgl64.Quat {
	world := s.b.WorldRotation()
	parent := mgl64.QuatIdent()
	if p := s.b.Parent(); p != nil {
		parent = p.WorldRotation()
	}
	local := parent.Inverse().Mul(bRot).Mul(world)
	return parent.Mul(s.bLimit.Apply(local)).Mul(world.Inverse())
}
