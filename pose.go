package sinew

import "sort"

// Pose is the set of joint states one motion contributes in one frame,
// keyed by joint name.
type Pose struct {
	states map[string]*JointState
	order  []string
	weight float64
}

// NewPose returns an empty pose with full weight.
func NewPose() *Pose {
	return &Pose{states: make(map[string]*JointState), weight: 1}
}

// AddJointState adds s, replacing any state for the same joint. States
// without a joint are rejected.
func (p *Pose) AddJointState(s *JointState) bool {
	if s == nil || s.joint == nil {
		return false
	}
	name := s.joint.Name
	if _, ok := p.states[name]; !ok {
		i := sort.SearchStrings(p.order, name)
		p.order = append(p.order, "")
		copy(p.order[i+1:], p.order[i:])
		p.order[i] = name
	}
	p.states[name] = s
	return true
}

// RemoveJointState removes s and reports whether it was present.
func (p *Pose) RemoveJointState(s *JointState) bool {
	if s == nil || s.joint == nil {
		return false
	}
	name := s.joint.Name
	if p.states[name] != s {
		return false
	}
	delete(p.states, name)
	i := sort.SearchStrings(p.order, name)
	p.order = append(p.order[:i], p.order[i+1:]...)
	return true
}

// RemoveAllJointStates empties the pose.
func (p *Pose) RemoveAllJointStates() {
	clear(p.states)
	p.order = p.order[:0]
}

// FindJointState returns the state for the named joint, or nil.
func (p *Pose) FindJointState(name string) *JointState { return p.states[name] }

// NumJointStates returns the number of states in the pose.
func (p *Pose) NumJointStates() int { return len(p.states) }

// States returns the pose's states ordered by joint name.
func (p *Pose) States() []*JointState {
	out := make([]*JointState, len(p.order))
	for i, name := range p.order {
		out[i] = p.states[name]
	}
	return out
}

// SetWeight sets the weight of the pose and of every state in it.
func (p *Pose) SetWeight(w float64) {
	p.weight = w
	for _, s := range p.states {
		s.weight = w
	}
}

// Weight returns the weight last given to SetWeight.
func (p *Pose) Weight() float64 { return p.weight }
