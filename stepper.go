package sinew

import "math"

// StepperConfig controls motion sampling.
type StepperConfig struct {
	// TimeStep is the sampling quantum in seconds. Zero samples every frame.
	TimeStep float64
}

// Stepper drives a PoseBlender at a fixed sampling rate. Motions are sampled
// once per quantum and blended into the blenders' caches; frames inside a
// quantum only interpolate the joints toward the cached pose. With a zero
// time step every frame samples and blends straight to the joints.
//
// A frame looks like:
//
//	t, sample := st.Advance(now)
//	if sample {
//		// evaluate motions at t
//		st.Commit(motions...)
//	}
type Stepper struct {
	blender    *PoseBlender
	step       float64
	quantum    int
	lastInterp float64
	started    bool
}

// NewStepper returns a stepper feeding blender.
func NewStepper(blender *PoseBlender, cfg StepperConfig) *Stepper {
	return &Stepper{blender: blender, step: max(cfg.TimeStep, 0)}
}

// TimeStep returns the sampling quantum.
func (s *Stepper) TimeStep() float64 { return s.step }

// Advance moves to time now. It returns the time motions should be sampled
// at and whether a new sample is needed this frame. The sample time is the
// end of the quantum containing now, so the cached pose runs one quantum
// ahead and the joints interpolate toward it.
func (s *Stepper) Advance(now float64) (sampleTime float64, sample bool) {
	if s.step == 0 {
		return now, true
	}
	q := int(math.Floor(now / s.step))
	start := float64(q) * s.step
	ahead := float64(q+1) * s.step
	if s.started && q == s.quantum {
		interp := (now - start) / s.step
		s.blender.Interpolate(interp - s.lastInterp)
		s.lastInterp = interp
		return ahead, false
	}

	// Land the previous quantum before sampling the next one.
	s.blender.Interpolate(1)
	s.blender.ClearBlenders()
	s.quantum = q
	s.lastInterp = 0
	s.started = true
	return ahead, true
}

// Commit registers motions with the blender and blends them, into the
// caches when stepping or straight to the joints otherwise.
func (s *Stepper) Commit(motions ...Motion) {
	for _, m := range motions {
		s.blender.AddMotion(m)
	}
	if s.step != 0 {
		s.blender.BlendAndCache(true)
		return
	}
	s.blender.BlendAndApply()
}
