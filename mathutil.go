package sinew

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// parallelEpsilon bounds |a x b|^2 / (|a|^2 |b|^2) below which two vectors
// are treated as parallel.
const parallelEpsilon = 1e-6

// lengthEpsilon is the shortest vector treated as non-zero.
const lengthEpsilon = 1e-9

var (
	vecZero = mgl64.Vec3{0, 0, 0}
	vecOne  = mgl64.Vec3{1, 1, 1}
)

// lerpVec returns (1-u)*a + u*b, which is exactly b at u == 1.
func lerpVec(a, b mgl64.Vec3, u float64) mgl64.Vec3 {
	return a.Mul(1 - u).Add(b.Mul(u))
}

func mulVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// divVec divides component-wise, leaving components with a zero divisor as is.
func divVec(a, b mgl64.Vec3) mgl64.Vec3 {
	r := a
	for i := range r {
		if b[i] != 0 {
			r[i] = a[i] / b[i]
		}
	}
	return r
}

func vecFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func quatFinite(q mgl64.Quat) bool {
	return vecFinite(q.V) && !math.IsNaN(q.W) && !math.IsInf(q.W, 0)
}

func quatDot(a, b mgl64.Quat) float64 {
	return a.W*b.W + a.V.Dot(b.V)
}

// normalizeOr returns v normalized, or fallback when v is too short.
func normalizeOr(v, fallback mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < lengthEpsilon {
		return fallback
	}
	return v.Mul(1 / l)
}

func areParallel(a, b mgl64.Vec3) bool {
	la, lb := a.Dot(a), b.Dot(b)
	if la < lengthEpsilon || lb < lengthEpsilon {
		return true
	}
	c := a.Cross(b)
	return c.Dot(c)/(la*lb) < parallelEpsilon
}

// angleBetween returns the unsigned angle between a and b in radians.
func angleBetween(a, b mgl64.Vec3) float64 {
	la, lb := a.Len(), b.Len()
	if la < lengthEpsilon || lb < lengthEpsilon {
		return 0
	}
	return math.Acos(mgl64.Clamp(a.Dot(b)/(la*lb), -1, 1))
}

// signedAngle returns the angle of the rotation about axis taking from onto
// to. Both vectors are assumed perpendicular to axis.
func signedAngle(from, to, axis mgl64.Vec3) float64 {
	k := normalizeOr(axis, vecZero)
	return math.Atan2(k.Dot(from.Cross(to)), from.Dot(to))
}

// axisAngle builds a rotation of angle radians about axis. A degenerate axis
// yields the identity.
func axisAngle(angle float64, axis mgl64.Vec3) mgl64.Quat {
	l := axis.Len()
	if l < lengthEpsilon {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatRotate(angle, axis.Mul(1/l))
}

// shortestArc returns the rotation taking the direction of from onto the
// direction of to. Zero-length inputs yield the identity.
func shortestArc(from, to mgl64.Vec3) mgl64.Quat {
	if from.Len() < lengthEpsilon || to.Len() < lengthEpsilon {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatBetweenVectors(from, to).Normalize()
}

// nlerp blends from p toward q by t. Quaternions in opposite hemispheres
// fall back to slerp so the blend takes the short way round.
func nlerp(t float64, p, q mgl64.Quat) mgl64.Quat {
	if quatDot(p, q) < 0 {
		return mgl64.QuatSlerp(p, q, t)
	}
	return mgl64.QuatNlerp(p, q, t)
}

// nlerpIdent blends from the identity toward q by t.
func nlerpIdent(t float64, q mgl64.Quat) mgl64.Quat {
	return nlerp(t, mgl64.QuatIdent(), q)
}

// rotateDirection applies the linear part of m to v.
func rotateDirection(m mgl64.Mat4, v mgl64.Vec3) mgl64.Vec3 {
	return m.Mat3().Mul3x1(v)
}

// EulerToQuat converts Euler angles in radians, applied X then Y then Z,
// to a quaternion.
func EulerToQuat(x, y, z float64) mgl64.Quat {
	qx := mgl64.QuatRotate(x, mgl64.Vec3{1, 0, 0})
	qy := mgl64.QuatRotate(y, mgl64.Vec3{0, 1, 0})
	qz := mgl64.QuatRotate(z, mgl64.Vec3{0, 0, 1})
	return qz.Mul(qy).Mul(qx).Normalize()
}

// composeMatrix builds T(pos) * R(rot) * S(scale).
func composeMatrix(pos mgl64.Vec3, rot mgl64.Quat, scale mgl64.Vec3) mgl64.Mat4 {
	m := rot.Mat4()
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			m[c*4+r] *= scale[c]
		}
	}
	m[12], m[13], m[14] = pos[0], pos[1], pos[2]
	return m
}

// decomposeRotation extracts the rotation of an affine matrix, discarding
// any per-axis scale.
func decomposeRotation(m mgl64.Mat4) mgl64.Quat {
	x := normalizeOr(mgl64.Vec3{m[0], m[1], m[2]}, mgl64.Vec3{1, 0, 0})
	y := normalizeOr(mgl64.Vec3{m[4], m[5], m[6]}, mgl64.Vec3{0, 1, 0})
	z := normalizeOr(mgl64.Vec3{m[8], m[9], m[10]}, mgl64.Vec3{0, 0, 1})
	r := mgl64.Mat3{
		x[0], x[1], x[2],
		y[0], y[1], y[2],
		z[0], z[1], z[2],
	}
	return mgl64.Mat4ToQuat(r.Mat4()).Normalize()
}
