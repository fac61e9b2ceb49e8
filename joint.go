package sinew

import "github.com/go-gl/mathgl/mgl64"

// Joint is one node of a skeleton. A single flat struct is used for bones,
// collision volumes and attachment points so the per-frame transform update
// never dispatches on type.
//
// Joints are created by Skeleton.AddJoint and live as long as the skeleton.
type Joint struct {
	// Identity
	Name    string
	index   int
	kind    JointKind
	support SupportCategory
	skel    *Skeleton

	// Hierarchy (arena indices, -1 for none)
	parent   int
	children []int

	// Transform
	xform        Transform
	dirty        DirtyFlags
	defaultPos   mgl64.Vec3
	defaultScale mgl64.Vec3
	skinOffset   mgl64.Vec3
	end          mgl64.Vec3

	// Attachment overrides
	posOverrides         OverrideMap
	posBeforeOverrides   mgl64.Vec3
	scaleOverrides       OverrideMap
	scaleBeforeOverrides mgl64.Vec3
}

func jointDefaults(j *Joint, s *Skeleton, idx int, name string, kind JointKind) {
	j.Name = name
	j.index = idx
	j.kind = kind
	j.skel = s
	j.parent = -1
	j.xform = identityTransform()
	j.defaultScale = vecOne
	j.posBeforeOverrides = vecZero
	j.scaleBeforeOverrides = vecOne
	j.dirty = AllDirty
}

// Index returns the stable arena index of the joint.
func (j *Joint) Index() int { return j.index }

// Kind returns the joint's role.
func (j *Joint) Kind() JointKind { return j.kind }

// Skeleton returns the owning skeleton.
func (j *Joint) Skeleton() *Skeleton { return j.skel }

// Support returns the joint's support category.
func (j *Joint) Support() SupportCategory { return j.support }

// SetSupport sets the joint's support category.
func (j *Joint) SetSupport(c SupportCategory) { j.support = c }

// IsAnimatable reports whether motions may drive this joint. Only bones are
// animated; volumes and attachment points follow their parent.
func (j *Joint) IsAnimatable() bool { return j.kind == JointKindBone }

// HasSkin reports whether the joint carries a skin binding.
func (j *Joint) HasSkin() bool { return j.kind == JointKindBone }

// Dirty returns the joint's current dirty bits.
func (j *Joint) Dirty() DirtyFlags { return j.dirty }

// --- Tree manipulation ---

// Parent returns the parent joint, or nil for a root.
func (j *Joint) Parent() *Joint {
	if j.parent < 0 {
		return nil
	}
	return &j.skel.joints[j.parent]
}

// Children returns the child joints in insertion order.
func (j *Joint) Children() []*Joint {
	out := make([]*Joint, len(j.children))
	for i, c := range j.children {
		out[i] = &j.skel.joints[c]
	}
	return out
}

// NumChildren returns the number of children.
func (j *Joint) NumChildren() int { return len(j.children) }

// ChildAt returns the child at the given position.
func (j *Joint) ChildAt(i int) *Joint { return &j.skel.joints[j.children[i]] }

// AddChild appends child to this joint's children. If child already has a
// parent it is detached from it first. The moved joint is marked dirty.
// Panics if child is nil, belongs to another skeleton, or is an ancestor of
// this joint.
func (j *Joint) AddChild(child *Joint) {
	if child == nil {
		panic("sinew: cannot add nil child")
	}
	if child.skel != j.skel {
		panic("sinew: child belongs to a different skeleton")
	}
	if isAncestor(child, j) {
		panic("sinew: adding child would create a cycle")
	}
	if p := child.Parent(); p != nil {
		p.removeChildIndex(child.index)
	}
	child.parent = j.index
	j.children = append(j.children, child.index)
	child.Touch(AllDirty)
	if j.skel.debug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(j)
	}
}

// RemoveChild detaches child from this joint. The child becomes a root and
// is marked dirty. Panics if child is not a child of this joint.
func (j *Joint) RemoveChild(child *Joint) {
	if child.Parent() != j {
		panic("sinew: child's parent is not this joint")
	}
	j.removeChildIndex(child.index)
	child.parent = -1
	child.Touch(AllDirty)
}

// RemoveAllChildren detaches every child. Children become roots.
func (j *Joint) RemoveAllChildren() {
	for _, c := range j.children {
		child := &j.skel.joints[c]
		child.parent = -1
		child.Touch(AllDirty)
	}
	j.children = j.children[:0]
}

// Root walks up the parent chain and returns the topmost joint.
func (j *Joint) Root() *Joint {
	r := j
	for p := r.Parent(); p != nil; p = r.Parent() {
		r = p
	}
	return r
}

// FindJoint searches this joint and its descendants depth-first for name.
func (j *Joint) FindJoint(name string) *Joint {
	if j.Name == name {
		return j
	}
	for _, c := range j.children {
		if found := j.skel.joints[c].FindJoint(name); found != nil {
			return found
		}
	}
	return nil
}

// isAncestor reports whether candidate is joint or one of its ancestors.
func isAncestor(candidate, joint *Joint) bool {
	for p := joint; p != nil; p = p.Parent() {
		if p == candidate {
			return true
		}
	}
	return false
}

func (j *Joint) removeChildIndex(idx int) {
	for i, c := range j.children {
		if c == idx {
			copy(j.children[i:], j.children[i+1:])
			j.children = j.children[:len(j.children)-1]
			return
		}
	}
}

// --- Dirty tracking ---

// Touch marks flags dirty on this joint and every descendant. A position or
// rotation change always stales the world matrix too, and a rotation change
// moves every descendant, so descendants also become position dirty.
func (j *Joint) Touch(flags DirtyFlags) {
	if flags&(RotationDirty|PositionDirty) != 0 {
		flags |= MatrixDirty
	}
	if j.dirty|flags == j.dirty {
		return
	}
	j.skel.stats.Touches++
	j.dirty |= flags

	childFlags := flags
	if flags&RotationDirty != 0 {
		childFlags |= PositionDirty
	}
	for _, c := range j.children {
		j.skel.joints[c].Touch(childFlags)
	}
}

func (j *Joint) parentTransform() *Transform {
	if j.parent < 0 {
		return nil
	}
	return &j.skel.joints[j.parent].xform
}

// UpdateWorldPRSParent brings world position and rotation up to date,
// resolving ancestors first.
func (j *Joint) UpdateWorldPRSParent() {
	if j.dirty&(RotationDirty|PositionDirty) == 0 {
		return
	}
	if p := j.Parent(); p != nil {
		p.UpdateWorldPRSParent()
	}
	j.xform.updatePRS(j.parentTransform())
	j.dirty &^= RotationDirty | PositionDirty
}

// UpdateWorldMatrixParent brings the world matrix up to date, resolving
// ancestors first.
func (j *Joint) UpdateWorldMatrixParent() {
	if j.dirty&MatrixDirty == 0 {
		return
	}
	if p := j.Parent(); p != nil {
		p.UpdateWorldMatrixParent()
	}
	j.updateWorldMatrix()
}

// UpdateWorldMatrixChildren brings this joint and every descendant up to
// date, parents before children.
func (j *Joint) UpdateWorldMatrixChildren() {
	j.UpdateWorldMatrixParent()
	for _, c := range j.children {
		j.skel.joints[c].updateWorldMatrixChildren()
	}
}

func (j *Joint) updateWorldMatrixChildren() {
	j.updateWorldMatrix()
	for _, c := range j.children {
		j.skel.joints[c].updateWorldMatrixChildren()
	}
}

func (j *Joint) updateWorldMatrix() {
	if j.dirty&MatrixDirty == 0 {
		return
	}
	j.skel.stats.Updates++
	j.xform.updateMatrix(j.parentTransform())
	j.dirty = 0
}

// --- Local transform ---

// Position returns the local position relative to the parent.
func (j *Joint) Position() mgl64.Vec3 { return j.xform.position }

// SetPosition sets the local position. When applyOverrides is true and an
// attachment position override is active, the override value is used
// instead of pos.
func (j *Joint) SetPosition(pos mgl64.Vec3, applyOverrides bool) {
	if applyOverrides {
		if _, active, ok := j.posOverrides.FindActiveOverride(); ok {
			pos = active
		}
	}
	if pos == j.xform.position {
		return
	}
	j.xform.position = pos
	j.Touch(MatrixDirty | PositionDirty)
}

// Rotation returns the local rotation relative to the parent.
func (j *Joint) Rotation() mgl64.Quat { return j.xform.rotation }

// SetRotation sets the local rotation. Non-finite rotations are ignored.
func (j *Joint) SetRotation(rot mgl64.Quat) {
	if !quatFinite(rot) {
		return
	}
	j.xform.rotation = rot
	j.Touch(MatrixDirty | RotationDirty)
}

// Scale returns the local scale.
func (j *Joint) Scale() mgl64.Vec3 { return j.xform.scale }

// SetScale sets the local scale. When applyOverrides is true and an
// attachment scale override is active, the override value is used instead.
// Scale changes move children, so all dirty bits are set.
func (j *Joint) SetScale(scale mgl64.Vec3, applyOverrides bool) {
	if applyOverrides {
		if _, active, ok := j.scaleOverrides.FindActiveOverride(); ok {
			scale = active
		}
	}
	if scale == j.xform.scale {
		return
	}
	j.xform.scale = scale
	j.Touch(AllDirty)
}

// DefaultPosition returns the skeleton-definition position.
func (j *Joint) DefaultPosition() mgl64.Vec3 { return j.defaultPos }

// SetDefaultPosition sets the skeleton-definition position.
func (j *Joint) SetDefaultPosition(p mgl64.Vec3) { j.defaultPos = p }

// DefaultScale returns the skeleton-definition scale.
func (j *Joint) DefaultScale() mgl64.Vec3 { return j.defaultScale }

// SetDefaultScale sets the skeleton-definition scale.
func (j *Joint) SetDefaultScale(s mgl64.Vec3) { j.defaultScale = s }

// SetDefaultFromCurrent records the current local position and scale as the
// defaults.
func (j *Joint) SetDefaultFromCurrent() {
	j.defaultPos = j.xform.position
	j.defaultScale = j.xform.scale
}

// SkinOffset returns the bind-pose offset from the parent's skin origin.
func (j *Joint) SkinOffset() mgl64.Vec3 { return j.skinOffset }

// SetSkinOffset sets the bind-pose skin offset.
func (j *Joint) SetSkinOffset(o mgl64.Vec3) { j.skinOffset = o }

// End returns the bone end point in local space, used for display only.
func (j *Joint) End() mgl64.Vec3 { return j.end }

// SetEnd sets the bone end point.
func (j *Joint) SetEnd(e mgl64.Vec3) { j.end = e }

// --- World transform ---

// WorldMatrix returns the world matrix, recomputing it if stale.
func (j *Joint) WorldMatrix() mgl64.Mat4 {
	j.UpdateWorldMatrixParent()
	return j.xform.worldMatrix
}

// WorldPosition returns the world position, recomputing it if stale.
func (j *Joint) WorldPosition() mgl64.Vec3 {
	j.UpdateWorldPRSParent()
	return j.xform.worldPosition
}

// WorldRotation returns the world rotation, recomputing it if stale.
func (j *Joint) WorldRotation() mgl64.Quat {
	j.UpdateWorldPRSParent()
	return j.xform.worldRotation
}

// SetWorldPosition sets the local position that places the joint at pos in
// world space under its current parent.
func (j *Joint) SetWorldPosition(pos mgl64.Vec3) {
	if p := j.Parent(); p != nil {
		local := p.WorldRotation().Inverse().Rotate(pos.Sub(p.WorldPosition()))
		pos = divVec(local, p.Scale())
	}
	j.SetPosition(pos, false)
}

// SetWorldRotation sets the local rotation that gives the joint rot in
// world space under its current parent.
func (j *Joint) SetWorldRotation(rot mgl64.Quat) {
	if p := j.Parent(); p != nil {
		rot = p.WorldRotation().Inverse().Mul(rot)
	}
	j.SetRotation(rot.Normalize())
}

// SetWorldMatrix decomposes m into a world translation and rotation and
// applies both. Scale in m is ignored.
func (j *Joint) SetWorldMatrix(m mgl64.Mat4) {
	j.SetWorldPosition(mgl64.Vec3{m[12], m[13], m[14]})
	j.SetWorldRotation(decomposeRotation(m))
}
