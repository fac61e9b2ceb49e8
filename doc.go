// Package sinew is the transform core of a skeletal animation system.
//
// A [Skeleton] owns a fixed arena of [Joint] values. Each joint carries a
// local position, rotation and scale and lazily caches its world transform;
// setters mark the joint and its descendants dirty and readers recompute
// only what is stale, parents before children.
//
//	skel := sinew.NewSkeleton(sinew.SkeletonConfig{})
//	pelvis, _ := skel.AddJoint("mPelvis", sinew.JointKindBone, nil)
//	hip, _ := skel.AddJoint("mHipLeft", sinew.JointKindBone, pelvis)
//	hip.SetPosition(mgl64.Vec3{0.1, 0, -0.1}, false)
//	world := hip.WorldMatrix()
//
// # Attachment overrides
//
// Attachments may pin a joint's position or scale with
// [Joint.AddAttachmentPosOverride] and [Joint.AddAttachmentScaleOverride].
// When several attachments pin the same joint, the one with the greatest
// mesh id wins. Removing the last override restores the value the joint had
// before the first one was added. Changes of the winning override are
// reported to the [EntityStore] set with [Skeleton.SetEntityStore].
//
// # Blending
//
// Motions expose a [Pose] of [JointState] values. A [PoseBlender] routes
// them to one [JointStateBlender] per joint, which keeps up to
// [MaxBlendStates] contributions ordered by [Priority] and mixes them into
// a single local transform. A [Stepper] samples motions at a fixed rate and
// interpolates in between; [PoseFade] eases pose weights with [gween].
//
// # Inverse kinematics
//
// [TwoBoneSolver] places a three-joint chain so its end reaches a goal
// joint, bending toward a pole vector. It is closed form and never fails.
//
// # Skinning
//
// [SkinnedMesh] flattens the joints a mesh binds into render order and
// produces the skin matrices a vertex shader, or [SkinVertex], consumes.
//
// # Logging
//
// sinew is silent by default. Pass a [log/slog.Logger] to [SetLogger] to
// receive debug and warning records.
//
// [gween]: https://github.com/tanema/gween
package sinew
