package sinew

import "strings"

// MaxAnimatedJoints is the default arena capacity of a Skeleton: bones,
// collision volumes and attachment points together, rounded up to a
// multiple of 4.
const MaxAnimatedJoints = 216

// MaxJointsPerMesh is the number of joints a single skinned mesh may bind.
const MaxJointsPerMesh = 15

// MaxBlendStates is the number of motions that can contribute to one joint
// in one frame. Further contributions are dropped.
const MaxBlendStates = 4

// JointPosThreshold is the smallest override offset (from the default
// position or scale) considered meaningful.
const JointPosThreshold = 0.0001

// DirtyFlags records which cached world values of a Joint are stale.
type DirtyFlags uint8

const (
	MatrixDirty   DirtyFlags = 1 << iota // world matrix needs recomputation
	RotationDirty                        // world rotation needs recomputation
	PositionDirty                        // world position needs recomputation

	AllDirty = MatrixDirty | RotationDirty | PositionDirty
)

// SupportCategory classifies a joint as part of the base skeleton or an
// extended add-on skeleton.
type SupportCategory uint8

const (
	SupportBase     SupportCategory = iota // base skeleton joints
	SupportExtended                        // add-on joints (hands, face, tail, ...)
)

// ParseSupport converts "base" or "extended" to a SupportCategory.
// Anything other than "extended" is treated as base.
func ParseSupport(s string) SupportCategory {
	if strings.EqualFold(strings.TrimSpace(s), "extended") {
		return SupportExtended
	}
	return SupportBase
}

func (c SupportCategory) String() string {
	if c == SupportExtended {
		return "extended"
	}
	return "base"
}

// JointKind distinguishes the roles a joint can play in a skeleton. A single
// flat Joint struct is used for every kind; capability queries replace
// per-kind behavior.
type JointKind uint8

const (
	JointKindBone            JointKind = iota // animated bone with a skin binding
	JointKindCollisionVolume                  // physics/picking volume parented to a bone
	JointKindAttachmentPoint                  // placement point for attached objects
)

func (k JointKind) String() string {
	switch k {
	case JointKindBone:
		return "bone"
	case JointKindCollisionVolume:
		return "collision_volume"
	case JointKindAttachmentPoint:
		return "attachment_point"
	default:
		return "unknown"
	}
}

// ParseJointKind converts a kind name as written by String back to a
// JointKind. Unknown names report false.
func ParseJointKind(s string) (JointKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bone":
		return JointKindBone, true
	case "collision_volume", "volume":
		return JointKindCollisionVolume, true
	case "attachment_point", "attachment":
		return JointKindAttachmentPoint, true
	}
	return JointKindBone, false
}

// Priority orders competing motions on a joint. Higher wins.
type Priority int

const (
	UseMotionPriority Priority = -1 // take the priority of the owning motion
	LowPriority       Priority = 0
	MediumPriority    Priority = 1
	HighPriority      Priority = 2
	HigherPriority    Priority = 3
	HighestPriority   Priority = 4
	AdditivePriority  Priority = MaxPriority

	MaxPriority Priority = 7
)

// BlendType selects how a motion's joint states combine with others.
type BlendType uint8

const (
	NormalBlend   BlendType = iota // replace/mix with lower priority states
	AdditiveBlend                  // offset on top of the blended result
)

// Usage is a bitmask of the channels a JointState drives.
type Usage uint8

const (
	UsagePos   Usage = 1 << iota // position channel
	UsageRot                     // rotation channel
	UsageScale                   // scale channel
)
