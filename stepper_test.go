package sinew

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestStepperZeroStepAppliesDirectly(t *testing.T) {
	_, _, elbow, _ := newArm(t)
	pose := NewPose()
	pose.AddJointState(posState(elbow, mgl64.Vec3{3, 0, 0}, 1))
	m := &testMotion{pose: pose, priority: LowPriority}

	st := NewStepper(NewPoseBlender(), StepperConfig{})
	at, sample := st.Advance(0.37)
	if !sample || at != 0.37 {
		t.Errorf("Advance = (%v, %v), want (0.37, true)", at, sample)
	}
	st.Commit(m)
	assertVec(t, "Position", elbow.Position(), mgl64.Vec3{3, 0, 0})
}

func TestStepperInterpolatesWithinQuantum(t *testing.T) {
	_, _, elbow, _ := newArm(t)
	pose := NewPose()
	pose.AddJointState(posState(elbow, mgl64.Vec3{3, 0, 0}, 1))
	m := &testMotion{pose: pose, priority: LowPriority}

	st := NewStepper(NewPoseBlender(), StepperConfig{TimeStep: 0.25})

	at, sample := st.Advance(0)
	if !sample || at != 0.25 {
		t.Fatalf("Advance(0) = (%v, %v), want (0.25, true)", at, sample)
	}
	st.Commit(m)
	assertVec(t, "after commit", elbow.Position(), mgl64.Vec3{1, 0, 0})

	at, sample = st.Advance(0.125)
	if sample || at != 0.25 {
		t.Errorf("Advance(0.125) = (%v, %v), want (0.25, false)", at, sample)
	}
	assertVec(t, "mid quantum", elbow.Position(), mgl64.Vec3{2, 0, 0})

	at, sample = st.Advance(0.25)
	if !sample || at != 0.5 {
		t.Errorf("Advance(0.25) = (%v, %v), want (0.5, true)", at, sample)
	}
	assertVec(t, "landed", elbow.Position(), mgl64.Vec3{3, 0, 0})
}

func TestStepperSamplesAhead(t *testing.T) {
	_, _, elbow, _ := newArm(t)
	pose := NewPose()
	state := posState(elbow, mgl64.Vec3{}, 1)
	pose.AddJointState(state)
	m := &testMotion{pose: pose, priority: LowPriority}

	st := NewStepper(NewPoseBlender(), StepperConfig{TimeStep: 0.125})
	frame := func(now float64) {
		if at, sample := st.Advance(now); sample {
			// The motion moves the elbow along X at one unit per second.
			state.SetPosition(mgl64.Vec3{at, 0, 0})
			st.Commit(m)
		}
	}

	frame(0)
	frame(0.125)
	assertVec(t, "quantum start", elbow.Position(), mgl64.Vec3{0.125, 0, 0})

	frame(0.1875)
	assertVec(t, "mid quantum", elbow.Position(), mgl64.Vec3{0.1875, 0, 0})
}

func TestStepperNegativeStepIsZero(t *testing.T) {
	st := NewStepper(NewPoseBlender(), StepperConfig{TimeStep: -1})
	if st.TimeStep() != 0 {
		t.Errorf("TimeStep = %v, want 0", st.TimeStep())
	}
}
