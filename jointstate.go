package sinew

import "github.com/go-gl/mathgl/mgl64"

// JointState is one motion's proposed local transform for one joint. Only
// the channels named in Usage take part in blending.
type JointState struct {
	joint    *Joint
	usage    Usage
	weight   float64
	priority Priority

	position mgl64.Vec3
	rotation mgl64.Quat
	scale    mgl64.Vec3
}

// NewJointState returns a state for joint with full weight, no channels in
// use and the owning motion's priority.
func NewJointState(joint *Joint) *JointState {
	return &JointState{
		joint:    joint,
		weight:   1,
		priority: UseMotionPriority,
		rotation: mgl64.QuatIdent(),
		scale:    vecOne,
	}
}

// Joint returns the joint this state drives.
func (s *JointState) Joint() *Joint { return s.joint }

// SetJoint rebinds the state to another joint.
func (s *JointState) SetJoint(j *Joint) { s.joint = j }

// Usage returns the channels this state drives.
func (s *JointState) Usage() Usage { return s.usage }

// SetUsage sets the channels this state drives.
func (s *JointState) SetUsage(u Usage) { s.usage = u }

// Weight returns the blend weight in [0, 1].
func (s *JointState) Weight() float64 { return s.weight }

// SetWeight sets the blend weight.
func (s *JointState) SetWeight(w float64) { s.weight = w }

// Priority returns the state's priority. UseMotionPriority defers to the
// owning motion.
func (s *JointState) Priority() Priority { return s.priority }

// SetPriority sets the state's priority.
func (s *JointState) SetPriority(p Priority) { s.priority = p }

// Position returns the proposed local position.
func (s *JointState) Position() mgl64.Vec3 { return s.position }

// SetPosition sets the proposed local position and marks the position
// channel in use.
func (s *JointState) SetPosition(p mgl64.Vec3) {
	s.position = p
	s.usage |= UsagePos
}

// Rotation returns the proposed local rotation.
func (s *JointState) Rotation() mgl64.Quat { return s.rotation }

// SetRotation sets the proposed local rotation and marks the rotation
// channel in use.
func (s *JointState) SetRotation(q mgl64.Quat) {
	s.rotation = q
	s.usage |= UsageRot
}

// Scale returns the proposed local scale.
func (s *JointState) Scale() mgl64.Vec3 { return s.scale }

// SetScale sets the proposed local scale and marks the scale channel in use.
func (s *JointState) SetScale(v mgl64.Vec3) {
	s.scale = v
	s.usage |= UsageScale
}
