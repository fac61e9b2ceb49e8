package sinew

import "github.com/go-gl/mathgl/mgl64"

// Transform is the local rigid transform of a joint plus its cached world
// values. The world values are only meaningful when the owning joint's
// dirty flags say so.
//
// Composition (parent P, child C):
//
//	C.worldPosition = P.worldPosition + P.worldRotation * (P.scale ⊙ C.position)
//	C.worldRotation = P.worldRotation * C.rotation
//	C.worldMatrix   = T(C.worldPosition) * R(C.worldRotation) * S(C.scale)
//
// Scale is not inherited: a joint's scale stretches its own geometry and the
// offsets of its children, which keeps the child's world position equal to
// the parent's world matrix applied to the child's local position.
type Transform struct {
	position mgl64.Vec3
	rotation mgl64.Quat
	scale    mgl64.Vec3

	worldPosition mgl64.Vec3
	worldRotation mgl64.Quat
	worldMatrix   mgl64.Mat4
}

// identityTransform is the zero-offset, unrotated, unit-scale transform.
func identityTransform() Transform {
	return Transform{
		rotation:      mgl64.QuatIdent(),
		scale:         vecOne,
		worldRotation: mgl64.QuatIdent(),
		worldMatrix:   mgl64.Ident4(),
	}
}

// Position returns the local position.
func (t *Transform) Position() mgl64.Vec3 { return t.position }

// Rotation returns the local rotation.
func (t *Transform) Rotation() mgl64.Quat { return t.rotation }

// Scale returns the local scale.
func (t *Transform) Scale() mgl64.Vec3 { return t.scale }

// updatePRS recomputes world position and rotation from parent, which must
// already be up to date. A nil parent makes local values world values.
func (t *Transform) updatePRS(parent *Transform) {
	if parent == nil {
		t.worldPosition = t.position
		t.worldRotation = t.rotation
		return
	}
	offset := parent.worldRotation.Rotate(mulVec(parent.scale, t.position))
	t.worldPosition = parent.worldPosition.Add(offset)
	t.worldRotation = parent.worldRotation.Mul(t.rotation).Normalize()
}

// updateMatrix recomputes world position, rotation and matrix.
func (t *Transform) updateMatrix(parent *Transform) {
	t.updatePRS(parent)
	t.worldMatrix = composeMatrix(t.worldPosition, t.worldRotation, t.scale)
}
