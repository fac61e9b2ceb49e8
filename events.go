package sinew

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Skeleton, attachment override changes are forwarded to it.
type EntityStore interface {
	EmitEvent(event OverrideEvent)
}

// OverrideChannel identifies which joint channel an override drives.
type OverrideChannel uint8

const (
	OverridePosition OverrideChannel = iota
	OverrideScale
)

func (c OverrideChannel) String() string {
	if c == OverrideScale {
		return "scale"
	}
	return "position"
}

// OverrideEvent reports that the winning attachment override of a joint
// changed.
type OverrideEvent struct {
	Joint   string
	Index   int
	Channel OverrideChannel
	// Mesh is the new winner, or uuid.Nil once no override remains.
	Mesh uuid.UUID
	// Value is the joint's local position or scale after the change.
	Value mgl64.Vec3
}

// SetEntityStore sets the optional ECS bridge. Pass nil to detach it.
func (s *Skeleton) SetEntityStore(store EntityStore) {
	s.store = store
}

func (j *Joint) overrideChanged(ch OverrideChannel, mesh uuid.UUID) {
	Logger().Debug("sinew: override winner changed", "joint", j.Name, "channel", ch.String(), "mesh", mesh)
	store := j.skel.store
	if store == nil {
		return
	}
	v := j.xform.position
	if ch == OverrideScale {
		v = j.xform.scale
	}
	store.EmitEvent(OverrideEvent{Joint: j.Name, Index: j.index, Channel: ch, Mesh: mesh, Value: v})
}
