package sinew

import "fmt"

// SkeletonConfig controls skeleton construction.
type SkeletonConfig struct {
	// MaxJoints is the arena capacity. Zero means MaxAnimatedJoints.
	MaxJoints int
	// Debug enables tree-shape diagnostics on every AddChild.
	Debug bool
}

// Stats counts cache activity since the last ResetStats.
type Stats struct {
	Touches int // joints newly marked dirty
	Updates int // world matrix recomputations
}

// Skeleton owns every joint of one character. Joints live in a fixed-capacity
// arena and are addressed by their stable Index; parent and child links are
// stored as indices into the arena.
//
// A Skeleton is not safe for concurrent use.
type Skeleton struct {
	joints  []Joint
	byName  map[string]int
	aliases map[string]int
	debug   bool
	stats   Stats
	store   EntityStore
}

// NewSkeleton creates an empty skeleton.
func NewSkeleton(cfg SkeletonConfig) *Skeleton {
	n := cfg.MaxJoints
	if n <= 0 {
		n = MaxAnimatedJoints
	}
	return &Skeleton{
		// Capacity is fixed up front: joints are referenced by pointer and
		// the backing array must never move.
		joints:  make([]Joint, 0, n),
		byName:  make(map[string]int, n),
		aliases: make(map[string]int),
		debug:   cfg.Debug,
	}
}

// AddJoint appends a new joint named name under parent (nil for a root).
// The joint starts at the identity transform with all dirty bits set.
func (s *Skeleton) AddJoint(name string, kind JointKind, parent *Joint) (*Joint, error) {
	if _, ok := s.lookup(name); ok {
		return nil, fmt.Errorf("add joint %q: %w", name, ErrDuplicateJoint)
	}
	if len(s.joints) == cap(s.joints) {
		Logger().Warn("sinew: skeleton capacity exceeded", "joint", name, "max", cap(s.joints))
		return nil, fmt.Errorf("add joint %q (max %d): %w", name, cap(s.joints), ErrTooManyJoints)
	}
	if parent != nil && parent.skel != s {
		panic("sinew: parent joint belongs to a different skeleton")
	}

	idx := len(s.joints)
	s.joints = append(s.joints, Joint{})
	j := &s.joints[idx]
	jointDefaults(j, s, idx, name, kind)
	s.byName[name] = idx

	if parent != nil {
		parent.AddChild(j)
	}
	return j, nil
}

// AddAlias registers an alternative name for an existing joint.
func (s *Skeleton) AddAlias(alias, name string) error {
	idx, ok := s.lookup(name)
	if !ok {
		return fmt.Errorf("alias %q -> %q: %w", alias, name, ErrJointNotFound)
	}
	if _, taken := s.lookup(alias); taken {
		return fmt.Errorf("alias %q: %w", alias, ErrDuplicateJoint)
	}
	s.aliases[alias] = idx
	return nil
}

func (s *Skeleton) lookup(name string) (int, bool) {
	if idx, ok := s.byName[name]; ok {
		return idx, true
	}
	idx, ok := s.aliases[name]
	return idx, ok
}

// Joint returns the joint with the given name or alias, or nil.
func (s *Skeleton) Joint(name string) *Joint {
	idx, ok := s.lookup(name)
	if !ok {
		return nil
	}
	return &s.joints[idx]
}

// JointAt returns the joint with the given index, or nil when out of range.
func (s *Skeleton) JointAt(index int) *Joint {
	if index < 0 || index >= len(s.joints) {
		return nil
	}
	return &s.joints[index]
}

// NumJoints returns the number of joints in the arena.
func (s *Skeleton) NumJoints() int { return len(s.joints) }

// MaxJoints returns the arena capacity.
func (s *Skeleton) MaxJoints() int { return cap(s.joints) }

// Roots returns every joint without a parent, in index order.
func (s *Skeleton) Roots() []*Joint {
	var roots []*Joint
	for i := range s.joints {
		if s.joints[i].parent < 0 {
			roots = append(roots, &s.joints[i])
		}
	}
	return roots
}

// UpdateWorldMatrices brings every joint's world matrix up to date in a
// single parent-first pass.
func (s *Skeleton) UpdateWorldMatrices() {
	for _, r := range s.Roots() {
		r.UpdateWorldMatrixChildren()
	}
}

// Stats returns the touch and update counters.
func (s *Skeleton) Stats() Stats { return s.stats }

// ResetStats zeroes the touch and update counters.
func (s *Skeleton) ResetStats() { s.stats = Stats{} }

// SetDebug toggles tree-shape diagnostics.
func (s *Skeleton) SetDebug(on bool) { s.debug = on }
