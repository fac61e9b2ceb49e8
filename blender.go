package sinew

import "github.com/go-gl/mathgl/mgl64"

// Motion is the part of an animation the blender consumes: a pose of joint
// states, a priority for states that defer to it, and a blend type.
type Motion interface {
	Pose() *Pose
	Priority() Priority
	BlendType() BlendType
}

// JointStateBlender collects up to MaxBlendStates contributions to one joint
// for one frame, ordered by descending priority. Equal priorities keep
// insertion order; a contribution that finds the slots full and outranks
// none of them is dropped.
type JointStateBlender struct {
	joint      *Joint
	states     [MaxBlendStates]*JointState
	priorities [MaxBlendStates]Priority
	additive   [MaxBlendStates]bool

	// cache receives deferred blends for later Interpolate calls.
	cache Transform
}

// NewJointStateBlender returns an empty blender for joint.
func NewJointStateBlender(joint *Joint) *JointStateBlender {
	return &JointStateBlender{joint: joint, cache: identityTransform()}
}

// Joint returns the joint the blender writes to.
func (b *JointStateBlender) Joint() *Joint { return b.joint }

// NumStates returns the number of occupied slots.
func (b *JointStateBlender) NumStates() int {
	n := 0
	for n < MaxBlendStates && b.states[n] != nil {
		n++
	}
	return n
}

// StateAt returns the state in slot i with its resolved priority and
// additive flag.
func (b *JointStateBlender) StateAt(i int) (*JointState, Priority, bool) {
	return b.states[i], b.priorities[i], b.additive[i]
}

// Cached returns the deferred blend result.
func (b *JointStateBlender) Cached() *Transform { return &b.cache }

// AddJointState inserts s with the given priority. It reports false when s
// has no joint or when every slot is taken by a state of equal or higher
// priority.
func (b *JointStateBlender) AddJointState(s *JointState, priority Priority, additive bool) bool {
	if s == nil || s.joint == nil {
		return false
	}
	for i := 0; i < MaxBlendStates; i++ {
		if b.states[i] == nil {
			b.states[i], b.priorities[i], b.additive[i] = s, priority, additive
			return true
		}
		if priority > b.priorities[i] {
			copy(b.states[i+1:], b.states[i:MaxBlendStates-1])
			copy(b.priorities[i+1:], b.priorities[i:MaxBlendStates-1])
			copy(b.additive[i+1:], b.additive[i:MaxBlendStates-1])
			b.states[i], b.priorities[i], b.additive[i] = s, priority, additive
			return true
		}
	}
	Logger().Debug("sinew: blend contribution dropped", "joint", s.joint.Name, "priority", priority)
	return false
}

// Clear empties every slot.
func (b *JointStateBlender) Clear() {
	b.states = [MaxBlendStates]*JointState{}
	b.priorities = [MaxBlendStates]Priority{}
	b.additive = [MaxBlendStates]bool{}
}

// ResetCachedJoint copies the live joint's local transform into the cache.
func (b *JointStateBlender) ResetCachedJoint() {
	if b.states[0] == nil {
		return
	}
	b.cache.position = b.joint.Position()
	b.cache.rotation = b.joint.Rotation()
	b.cache.scale = b.joint.Scale()
}

// BlendJointStates combines the slots into one local transform. With
// applyNow the result is written to the joint, overrides winning over the
// blended position and scale, and the slots are cleared. Otherwise the
// result goes to the cache and the slots are kept for Interpolate.
//
// Non-additive states are mixed per channel in priority order: the first
// contributor sets the value, and each later one is mixed in only as far as
// the weight budget of 1 still allows. Additive states are summed (position,
// scale) or composed (rotation) separately, under their own budget, and
// applied on top.
func (b *JointStateBlender) BlendJointStates(applyNow bool) {
	if b.states[0] == nil {
		return
	}

	var pos, scale mgl64.Vec3
	var rot mgl64.Quat
	if applyNow {
		pos, rot, scale = b.joint.Position(), b.joint.Rotation(), b.joint.Scale()
	} else {
		pos, rot, scale = b.cache.position, b.cache.rotation, b.cache.scale
	}

	var sum [3]float64    // pos, rot, scale
	var addSum [3]float64 // additive budget, same order
	var used Usage
	addedPos, addedScale := vecZero, vecZero
	addedRot := mgl64.QuatIdent()

	for i := 0; i < MaxBlendStates && b.states[i] != nil; i++ {
		s := b.states[i]
		w := s.weight
		if w == 0 {
			continue
		}

		if b.additive[i] {
			if s.usage&UsagePos != 0 {
				next := min(1, w+addSum[0])
				addedPos = addedPos.Add(s.position.Mul(next - addSum[0]))
				addSum[0] = next
			}
			if s.usage&UsageRot != 0 {
				next := min(1, w+addSum[1])
				addedRot = addedRot.Mul(nlerpIdent(next-addSum[1], s.rotation))
				addSum[1] = next
			}
			if s.usage&UsageScale != 0 {
				next := min(1, w+addSum[2])
				addedScale = addedScale.Add(s.scale.Mul(next - addSum[2]))
				addSum[2] = next
			}
			continue
		}

		if s.usage&UsagePos != 0 {
			if used&UsagePos != 0 {
				next := min(1, w+sum[0])
				pos = lerpVec(s.position, pos, sum[0]/next)
				sum[0] = next
			} else {
				pos = s.position
				sum[0] = w
			}
		}
		if s.usage&UsageRot != 0 {
			if used&UsageRot != 0 {
				next := min(1, w+sum[1])
				rot = nlerp(sum[1]/next, s.rotation, rot)
				sum[1] = next
			} else {
				rot = s.rotation
				sum[1] = w
			}
		}
		if s.usage&UsageScale != 0 {
			if used&UsageScale != 0 {
				next := min(1, w+sum[2])
				scale = lerpVec(s.scale, scale, sum[2]/next)
				sum[2] = next
			} else {
				scale = s.scale
				sum[2] = w
			}
		}
		used |= s.usage
	}

	if !vecFinite(addedScale) {
		addedScale = vecZero
	}
	if !vecFinite(scale) {
		scale = vecOne
	}

	pos = pos.Add(addedPos)
	scale = scale.Add(addedScale)
	rot = rot.Mul(addedRot)

	if !applyNow {
		b.cache.position, b.cache.rotation, b.cache.scale = pos, rot, scale
		return
	}
	b.joint.SetPosition(pos, true)
	b.joint.SetScale(scale, true)
	b.joint.SetRotation(rot)
	b.Clear()
}

// Interpolate moves the live joint toward the cached result by u in [0, 1].
func (b *JointStateBlender) Interpolate(u float64) {
	if b.states[0] == nil {
		return
	}
	j := b.joint
	j.SetPosition(lerpVec(j.Position(), b.cache.position, u), false)
	j.SetScale(lerpVec(j.Scale(), b.cache.scale, u), false)
	j.SetRotation(nlerp(u, j.Rotation(), b.cache.rotation))
}

// PoseBlender routes the joint states of every playing motion to a blender
// per joint. Blenders are pooled for the life of the PoseBlender; the set
// touched since the last commit is the active list.
type PoseBlender struct {
	pool   map[*Joint]*JointStateBlender
	active []*JointStateBlender
	inList map[*JointStateBlender]bool
}

// NewPoseBlender returns an empty pose blender.
func NewPoseBlender() *PoseBlender {
	return &PoseBlender{
		pool:   make(map[*Joint]*JointStateBlender),
		inList: make(map[*JointStateBlender]bool),
	}
}

// AddMotion registers every joint state of m's pose with its joint's
// blender. States with UseMotionPriority take m's priority.
func (p *PoseBlender) AddMotion(m Motion) {
	pose := m.Pose()
	if pose == nil {
		return
	}
	additive := m.BlendType() == AdditiveBlend
	for _, s := range pose.States() {
		j := s.joint
		b, ok := p.pool[j]
		if !ok {
			b = NewJointStateBlender(j)
			p.pool[j] = b
		}
		prio := s.priority
		if prio == UseMotionPriority {
			prio = m.Priority()
		}
		b.AddJointState(s, prio, additive)
		if !p.inList[b] {
			p.inList[b] = true
			p.active = append(p.active, b)
		}
	}
}

// BlendAndApply writes every active blender's result to its joint and
// empties the active list.
func (p *PoseBlender) BlendAndApply() {
	for _, b := range p.active {
		b.BlendJointStates(true)
	}
	p.resetActive()
}

// BlendAndCache blends every active blender into its cache without touching
// the joints. With reset the caches first take the joints' current values.
func (p *PoseBlender) BlendAndCache(reset bool) {
	for _, b := range p.active {
		if reset {
			b.ResetCachedJoint()
		}
		b.BlendJointStates(false)
	}
}

// Interpolate moves every active joint toward its cached result by u.
func (p *PoseBlender) Interpolate(u float64) {
	for _, b := range p.active {
		b.Interpolate(u)
	}
}

// ClearBlenders drops all pending contributions without writing anything.
// Pooled blenders are kept.
func (p *PoseBlender) ClearBlenders() {
	for _, b := range p.active {
		b.Clear()
	}
	p.resetActive()
}

// NumActive returns the number of blenders touched since the last commit.
func (p *PoseBlender) NumActive() int { return len(p.active) }

// NumPooled returns the number of blenders ever created.
func (p *PoseBlender) NumPooled() int { return len(p.pool) }

// Blender returns the pooled blender for j, or nil.
func (p *PoseBlender) Blender(j *Joint) *JointStateBlender { return p.pool[j] }

func (p *PoseBlender) resetActive() {
	clear(p.inList)
	p.active = p.active[:0]
}
