package sinew

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// newArm builds shoulder -> elbow -> wrist with unit bones along +X.
func newArm(t *testing.T) (*Skeleton, *Joint, *Joint, *Joint) {
	t.Helper()
	s := NewSkeleton(SkeletonConfig{})
	shoulder := mustAdd(t, s, "shoulder", nil)
	elbow := mustAdd(t, s, "elbow", shoulder)
	wrist := mustAdd(t, s, "wrist", elbow)
	elbow.SetPosition(mgl64.Vec3{1, 0, 0}, false)
	wrist.SetPosition(mgl64.Vec3{1, 0, 0}, false)
	return s, shoulder, elbow, wrist
}

func mustAdd(t *testing.T, s *Skeleton, name string, parent *Joint) *Joint {
	t.Helper()
	j, err := s.AddJoint(name, JointKindBone, parent)
	if err != nil {
		t.Fatalf("AddJoint(%q): %v", name, err)
	}
	return j
}

func expectPanic(t *testing.T, what string) {
	t.Helper()
	if r := recover(); r == nil {
		t.Errorf("expected panic for %s, got none", what)
	}
}

// --- Skeleton ---

func TestAddJointDefaults(t *testing.T) {
	s := NewSkeleton(SkeletonConfig{})
	j := mustAdd(t, s, "root", nil)

	if j.Index() != 0 {
		t.Errorf("Index = %d, want 0", j.Index())
	}
	if j.Parent() != nil {
		t.Error("Parent should be nil")
	}
	if j.Dirty() != AllDirty {
		t.Errorf("Dirty = %b, want %b", j.Dirty(), AllDirty)
	}
	assertVec(t, "Position", j.Position(), mgl64.Vec3{})
	assertQuat(t, "Rotation", j.Rotation(), mgl64.QuatIdent())
	assertVec(t, "Scale", j.Scale(), mgl64.Vec3{1, 1, 1})
	assertVec(t, "DefaultScale", j.DefaultScale(), mgl64.Vec3{1, 1, 1})
	if s.MaxJoints() != MaxAnimatedJoints {
		t.Errorf("MaxJoints = %d, want %d", s.MaxJoints(), MaxAnimatedJoints)
	}
}

func TestAddJointDuplicate(t *testing.T) {
	s := NewSkeleton(SkeletonConfig{})
	mustAdd(t, s, "a", nil)
	if _, err := s.AddJoint("a", JointKindBone, nil); !errors.Is(err, ErrDuplicateJoint) {
		t.Errorf("err = %v, want ErrDuplicateJoint", err)
	}
}

func TestAddJointCapacity(t *testing.T) {
	s := NewSkeleton(SkeletonConfig{MaxJoints: 2})
	a := mustAdd(t, s, "a", nil)
	mustAdd(t, s, "b", a)
	if _, err := s.AddJoint("c", JointKindBone, a); !errors.Is(err, ErrTooManyJoints) {
		t.Errorf("err = %v, want ErrTooManyJoints", err)
	}
	// Existing pointers stay valid.
	if s.Joint("a") != a {
		t.Error("joint a moved after overflow")
	}
}

func TestAliasLookup(t *testing.T) {
	s := NewSkeleton(SkeletonConfig{})
	a := mustAdd(t, s, "mPelvis", nil)
	if err := s.AddAlias("hip", "mPelvis"); err != nil {
		t.Fatal(err)
	}
	if s.Joint("hip") != a {
		t.Error("alias should resolve to mPelvis")
	}
	if err := s.AddAlias("x", "missing"); !errors.Is(err, ErrJointNotFound) {
		t.Errorf("err = %v, want ErrJointNotFound", err)
	}
	if err := s.AddAlias("hip", "mPelvis"); !errors.Is(err, ErrDuplicateJoint) {
		t.Errorf("err = %v, want ErrDuplicateJoint", err)
	}
	if s.Joint("nope") != nil {
		t.Error("unknown name should return nil")
	}
}

func TestRoots(t *testing.T) {
	s := NewSkeleton(SkeletonConfig{})
	a := mustAdd(t, s, "a", nil)
	mustAdd(t, s, "b", a)
	c := mustAdd(t, s, "c", nil)
	roots := s.Roots()
	if len(roots) != 2 || roots[0] != a || roots[1] != c {
		t.Errorf("Roots = %v, want [a c]", roots)
	}
}

// --- Tree manipulation ---

func TestAddChildReparent(t *testing.T) {
	s := NewSkeleton(SkeletonConfig{})
	p1 := mustAdd(t, s, "p1", nil)
	p2 := mustAdd(t, s, "p2", nil)
	child := mustAdd(t, s, "child", p1)
	s.UpdateWorldMatrices()

	p2.AddChild(child)
	if p1.NumChildren() != 0 {
		t.Error("p1 should have 0 children after reparent")
	}
	if p2.NumChildren() != 1 || p2.ChildAt(0) != child {
		t.Error("p2 should have child")
	}
	if child.Parent() != p2 {
		t.Error("child.Parent should be p2")
	}
	if child.Dirty() != AllDirty {
		t.Errorf("moved joint Dirty = %b, want %b", child.Dirty(), AllDirty)
	}
}

func TestAddChildCyclePanic(t *testing.T) {
	_, shoulder, _, wrist := newArm(t)
	defer expectPanic(t, "cycle")
	wrist.AddChild(shoulder)
}

func TestAddChildSelfPanic(t *testing.T) {
	_, shoulder, _, _ := newArm(t)
	defer expectPanic(t, "self-add")
	shoulder.AddChild(shoulder)
}

func TestAddChildNilPanic(t *testing.T) {
	_, shoulder, _, _ := newArm(t)
	defer expectPanic(t, "nil child")
	shoulder.AddChild(nil)
}

func TestAddChildOtherSkeletonPanic(t *testing.T) {
	_, shoulder, _, _ := newArm(t)
	other := NewSkeleton(SkeletonConfig{})
	stranger := mustAdd(t, other, "stranger", nil)
	defer expectPanic(t, "foreign joint")
	shoulder.AddChild(stranger)
}

func TestRemoveChild(t *testing.T) {
	s, shoulder, elbow, _ := newArm(t)
	s.UpdateWorldMatrices()
	shoulder.RemoveChild(elbow)
	if shoulder.NumChildren() != 0 {
		t.Errorf("NumChildren = %d, want 0", shoulder.NumChildren())
	}
	if elbow.Parent() != nil {
		t.Error("elbow should be a root")
	}
	if elbow.Dirty() != AllDirty {
		t.Errorf("Dirty = %b, want %b", elbow.Dirty(), AllDirty)
	}
	assertVec(t, "elbow world", elbow.WorldPosition(), mgl64.Vec3{1, 0, 0})
}

func TestRemoveChildWrongParentPanic(t *testing.T) {
	_, shoulder, _, wrist := newArm(t)
	defer expectPanic(t, "wrong parent")
	shoulder.RemoveChild(wrist)
}

func TestRemoveAllChildren(t *testing.T) {
	s := NewSkeleton(SkeletonConfig{})
	p := mustAdd(t, s, "p", nil)
	mustAdd(t, s, "a", p)
	mustAdd(t, s, "b", p)
	p.RemoveAllChildren()
	if p.NumChildren() != 0 {
		t.Errorf("NumChildren = %d, want 0", p.NumChildren())
	}
	if len(s.Roots()) != 3 {
		t.Errorf("Roots = %d, want 3", len(s.Roots()))
	}
}

func TestRootAndFindJoint(t *testing.T) {
	_, shoulder, elbow, wrist := newArm(t)
	if wrist.Root() != shoulder {
		t.Error("Root should be shoulder")
	}
	if shoulder.FindJoint("wrist") != wrist {
		t.Error("FindJoint(wrist) failed")
	}
	if elbow.FindJoint("shoulder") != nil {
		t.Error("FindJoint should only search descendants")
	}
}

// --- Dirty tracking ---

func TestTouchRotationMarksDescendantPosition(t *testing.T) {
	s, shoulder, elbow, wrist := newArm(t)
	s.UpdateWorldMatrices()

	shoulder.Touch(RotationDirty)
	if shoulder.Dirty() != RotationDirty|MatrixDirty {
		t.Errorf("shoulder Dirty = %b, want %b", shoulder.Dirty(), RotationDirty|MatrixDirty)
	}
	for _, j := range []*Joint{elbow, wrist} {
		if j.Dirty()&(PositionDirty|MatrixDirty) != PositionDirty|MatrixDirty {
			t.Errorf("%s Dirty = %b, want position and matrix", j.Name, j.Dirty())
		}
	}
}

func TestTouchPositionDoesNotMarkRotation(t *testing.T) {
	s, shoulder, elbow, _ := newArm(t)
	s.UpdateWorldMatrices()
	shoulder.Touch(PositionDirty)
	if elbow.Dirty()&RotationDirty != 0 {
		t.Errorf("elbow Dirty = %b, want no rotation bit", elbow.Dirty())
	}
}

func TestTouchEarlyExit(t *testing.T) {
	s, shoulder, _, _ := newArm(t)
	s.UpdateWorldMatrices()
	s.ResetStats()

	shoulder.Touch(RotationDirty)
	first := s.Stats().Touches
	if first != 3 {
		t.Errorf("Touches = %d, want 3", first)
	}
	shoulder.Touch(RotationDirty)
	if s.Stats().Touches != first {
		t.Errorf("Touches = %d after repeat, want %d", s.Stats().Touches, first)
	}
}

func TestUpdateWorldMatricesClearsDirty(t *testing.T) {
	s, _, _, _ := newArm(t)
	s.UpdateWorldMatrices()
	for i := 0; i < s.NumJoints(); i++ {
		if d := s.JointAt(i).Dirty(); d != 0 {
			t.Errorf("%s Dirty = %b, want 0", s.JointAt(i).Name, d)
		}
	}
}

func TestWorldMatrixCached(t *testing.T) {
	s, shoulder, _, wrist := newArm(t)
	shoulder.SetRotation(rotZ90)

	m1 := wrist.WorldMatrix()
	s.ResetStats()
	m2 := wrist.WorldMatrix()
	if m1 != m2 {
		t.Errorf("WorldMatrix changed without a touch: %v vs %v", m1, m2)
	}
	if s.Stats().Updates != 0 {
		t.Errorf("Updates = %d, want 0", s.Stats().Updates)
	}
}

func TestWorldPositionFollowsParent(t *testing.T) {
	_, shoulder, elbow, wrist := newArm(t)
	assertVec(t, "wrist", wrist.WorldPosition(), mgl64.Vec3{2, 0, 0})

	shoulder.SetRotation(rotZ90)
	assertVec(t, "elbow", elbow.WorldPosition(), mgl64.Vec3{0, 1, 0})
	assertVec(t, "wrist", wrist.WorldPosition(), mgl64.Vec3{0, 2, 0})
	assertQuat(t, "wrist rot", wrist.WorldRotation(), rotZ90)

	shoulder.SetPosition(mgl64.Vec3{0, 0, 5}, false)
	assertVec(t, "wrist moved", wrist.WorldPosition(), mgl64.Vec3{0, 2, 5})
}

func TestParentScaleStretchesChildOffset(t *testing.T) {
	_, shoulder, _, wrist := newArm(t)
	shoulder.SetScale(mgl64.Vec3{2, 1, 1}, false)
	assertVec(t, "wrist", wrist.WorldPosition(), mgl64.Vec3{3, 0, 0})
}

// --- Local setters ---

func TestSetPositionRoundTrip(t *testing.T) {
	_, _, elbow, _ := newArm(t)
	p := mgl64.Vec3{0.25, -3, 1e-7}
	elbow.SetPosition(p, true)
	if elbow.Position() != p {
		t.Errorf("Position = %v, want %v", elbow.Position(), p)
	}
}

func TestSetPositionUnchangedStaysClean(t *testing.T) {
	s, _, elbow, _ := newArm(t)
	s.UpdateWorldMatrices()
	elbow.SetPosition(mgl64.Vec3{1, 0, 0}, false)
	if elbow.Dirty() != 0 {
		t.Errorf("Dirty = %b, want 0", elbow.Dirty())
	}
}

func TestSetRotationIgnoresNaN(t *testing.T) {
	_, _, elbow, _ := newArm(t)
	elbow.SetRotation(rotZ90)
	elbow.SetRotation(mgl64.Quat{W: math.NaN()})
	assertQuat(t, "Rotation", elbow.Rotation(), rotZ90)
}

func TestSetDefaultFromCurrent(t *testing.T) {
	_, _, elbow, _ := newArm(t)
	elbow.SetScale(mgl64.Vec3{2, 2, 2}, false)
	elbow.SetDefaultFromCurrent()
	assertVec(t, "DefaultPosition", elbow.DefaultPosition(), mgl64.Vec3{1, 0, 0})
	assertVec(t, "DefaultScale", elbow.DefaultScale(), mgl64.Vec3{2, 2, 2})
}

// --- World setters ---

func TestSetWorldPosition(t *testing.T) {
	_, shoulder, elbow, _ := newArm(t)
	shoulder.SetPosition(mgl64.Vec3{1, 1, 0}, false)
	shoulder.SetRotation(rotZ90)
	shoulder.SetScale(mgl64.Vec3{2, 2, 2}, false)

	target := mgl64.Vec3{-3, 2, 4}
	elbow.SetWorldPosition(target)
	assertVec(t, "world", elbow.WorldPosition(), target)
}

func TestSetWorldRotation(t *testing.T) {
	_, shoulder, elbow, _ := newArm(t)
	shoulder.SetRotation(rotZ90)
	want := EulerToQuat(0.5, 0, 0)
	elbow.SetWorldRotation(want)
	assertQuat(t, "world", elbow.WorldRotation(), want)
	assertQuat(t, "local", elbow.Rotation(), rotZ90.Inverse().Mul(want))
}

func TestSetWorldMatrix(t *testing.T) {
	_, shoulder, elbow, _ := newArm(t)
	shoulder.SetRotation(EulerToQuat(0.1, 0.2, 0.3))
	rot := EulerToQuat(-0.4, 0.9, 0)
	m := composeMatrix(mgl64.Vec3{3, 4, 5}, rot, mgl64.Vec3{1, 1, 1})
	elbow.SetWorldMatrix(m)
	assertMat(t, "world matrix", elbow.WorldMatrix(), m)
}

// --- Kinds ---

func TestJointKindCapabilities(t *testing.T) {
	s := NewSkeleton(SkeletonConfig{})
	bone, _ := s.AddJoint("bone", JointKindBone, nil)
	vol, _ := s.AddJoint("vol", JointKindCollisionVolume, bone)
	att, _ := s.AddJoint("att", JointKindAttachmentPoint, bone)

	if !bone.IsAnimatable() || !bone.HasSkin() {
		t.Error("bone should be animatable and skinned")
	}
	for _, j := range []*Joint{vol, att} {
		if j.IsAnimatable() || j.HasSkin() {
			t.Errorf("%s should be neither animatable nor skinned", j.Kind())
		}
	}
	if k, ok := ParseJointKind("collision_volume"); !ok || k != JointKindCollisionVolume {
		t.Errorf("ParseJointKind = %v, %v", k, ok)
	}
	if _, ok := ParseJointKind("wing"); ok {
		t.Error("unknown kind should not parse")
	}
	if ParseSupport("Extended") != SupportExtended || ParseSupport("") != SupportBase {
		t.Error("ParseSupport mismatch")
	}
}
