package sinew

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// SkinJoint binds a mesh to one joint. It caches the negated bind-pose
// offsets from the skeleton root to the joint and to the joint's nearest
// base-skeleton ancestor, so skinning never walks the tree per vertex.
type SkinJoint struct {
	Joint *Joint

	RootToJointSkinOffset       mgl64.Vec3
	RootToParentJointSkinOffset mgl64.Vec3
}

// Setup binds s to j and caches its offsets. A nil joint leaves both
// offsets zero and reports false.
func (s *SkinJoint) Setup(j *Joint) bool {
	s.Joint = j
	s.RootToJointSkinOffset = vecZero
	s.RootToParentJointSkinOffset = vecZero
	if j == nil {
		return false
	}
	s.RootToJointSkinOffset = totalSkinOffset(j).Mul(-1)
	s.RootToParentJointSkinOffset = totalSkinOffset(BaseSkeletonAncestor(j)).Mul(-1)
	return true
}

// BaseSkeletonAncestor returns the closest ancestor of j that belongs to
// the base skeleton, or the topmost ancestor if none does. Roots have no
// ancestor and return nil.
func BaseSkeletonAncestor(j *Joint) *Joint {
	a := j.Parent()
	if a == nil {
		return nil
	}
	for a.Parent() != nil && a.support != SupportBase {
		a = a.Parent()
	}
	return a
}

// totalSkinOffset sums the skin offsets of the base-skeleton joints from j
// up to the root.
func totalSkinOffset(j *Joint) mgl64.Vec3 {
	total := vecZero
	for ; j != nil; j = j.Parent() {
		if j.support == SupportBase {
			total = total.Add(j.skinOffset)
		}
	}
	return total
}

// JointRenderData is one entry of a mesh's flattened joint list. Entries
// with a nil Skin only supply the pivot for the skin entry after them.
type JointRenderData struct {
	Joint *Joint
	Skin  *SkinJoint
}

// SkinnedMesh is a mesh bound to a subset of a skeleton's joints.
type SkinnedMesh struct {
	Name       string
	skel       *Skeleton
	skinJoints []SkinJoint
	renderData []JointRenderData
}

// NewSkinnedMesh binds a mesh to the named joints of skel. Unknown names
// are logged and skipped. More than MaxJointsPerMesh names is an error.
func NewSkinnedMesh(name string, skel *Skeleton, jointNames []string) (*SkinnedMesh, error) {
	if len(jointNames) > MaxJointsPerMesh {
		return nil, fmt.Errorf("mesh %q binds %d joints (max %d): %w",
			name, len(jointNames), MaxJointsPerMesh, ErrTooManyJoints)
	}
	m := &SkinnedMesh{Name: name, skel: skel}
	m.skinJoints = make([]SkinJoint, 0, len(jointNames))
	for _, jn := range jointNames {
		j := skel.Joint(jn)
		if j == nil {
			Logger().Warn("sinew: skin joint not found", "mesh", name, "joint", jn)
			continue
		}
		var sj SkinJoint
		sj.Setup(j)
		m.skinJoints = append(m.skinJoints, sj)
	}
	m.Rebuild()
	return m, nil
}

// SkinJoints returns the mesh's bound joints in binding order.
func (m *SkinnedMesh) SkinJoints() []SkinJoint { return m.skinJoints }

// RenderData returns the flattened joint list.
func (m *SkinnedMesh) RenderData() []JointRenderData { return m.renderData }

// Rebuild re-reads skin offsets and re-flattens the joint list. Call it
// after the skeleton's hierarchy or skin offsets change.
func (m *SkinnedMesh) Rebuild() {
	for i := range m.skinJoints {
		m.skinJoints[i].Setup(m.skinJoints[i].Joint)
	}
	m.renderData = m.renderData[:0]
	for _, r := range m.skel.Roots() {
		m.setupJoint(r)
	}
}

// setupJoint walks the tree depth-first, emitting one entry per skin joint
// and an ancestor entry in front of it unless the previous entry already
// is that ancestor.
func (m *SkinnedMesh) setupJoint(j *Joint) {
	for i := range m.skinJoints {
		sj := &m.skinJoints[i]
		if sj.Joint != j {
			continue
		}
		ancestor := BaseSkeletonAncestor(j)
		n := len(m.renderData)
		if ancestor != nil && (n == 0 || m.renderData[n-1].Joint != ancestor) {
			m.renderData = append(m.renderData, JointRenderData{Joint: ancestor})
		}
		m.renderData = append(m.renderData, JointRenderData{Joint: j, Skin: sj})
	}
	for _, c := range j.children {
		m.setupJoint(&m.skel.joints[c])
	}
}

// SkinMatrices returns one matrix per render entry: the joint's world
// matrix offset by its pivot. Skin entries pivot about their own bind
// position; ancestor entries pivot about the bind position of the parent
// of the skin entry that follows them.
func (m *SkinnedMesh) SkinMatrices() []mgl64.Mat4 {
	out := make([]mgl64.Mat4, len(m.renderData))
	for i, rd := range m.renderData {
		pivot := vecZero
		switch {
		case rd.Skin != nil:
			pivot = rd.Skin.RootToJointSkinOffset
		case i+1 < len(m.renderData) && m.renderData[i+1].Skin != nil:
			pivot = m.renderData[i+1].Skin.RootToParentJointSkinOffset
		}
		out[i] = rd.Joint.WorldMatrix().Mul4(mgl64.Translate3D(pivot[0], pivot[1], pivot[2]))
	}
	return out
}

// SkinVertex transforms a bind-pose vertex. The integer part of weight
// indexes mats; the fractional part blends toward the next matrix.
func SkinVertex(mats []mgl64.Mat4, v mgl64.Vec3, weight float64) mgl64.Vec3 {
	if len(mats) == 0 {
		return v
	}
	i := int(math.Floor(weight))
	i = max(0, min(i, len(mats)-1))
	frac := weight - float64(i)
	m := mats[i]
	if frac > 0 && i+1 < len(mats) {
		m = m.Mul(1 - frac).Add(mats[i+1].Mul(frac))
	}
	return mgl64.TransformCoordinate(v, m)
}
