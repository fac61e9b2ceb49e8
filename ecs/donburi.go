package ecs

import (
	"github.com/phanxgames/sinew"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// OverrideEventType is the Donburi event type for attachment override
// changes. Subscribe to this in your ECS systems to react to meshes
// taking over or releasing joints.
var OverrideEventType = events.NewEventType[sinew.OverrideEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Override events are published to OverrideEventType and can be consumed
// with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) sinew.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event sinew.OverrideEvent) {
	OverrideEventType.Publish(s.world, event)
}

// Rig is the component data for an animated skeleton.
type Rig struct {
	Skeleton *sinew.Skeleton
	Stepper  *sinew.Stepper
	// Sample returns the motions to blend at time t. It is called once per
	// sampling quantum, or every frame when the stepper's time step is zero.
	Sample func(t float64) []sinew.Motion
}

// RigComponent holds a Rig.
var RigComponent = donburi.NewComponentType[Rig]()

var rigQuery = donburi.NewQuery(filter.Contains(RigComponent))

// AddRig creates an entity carrying rig. When store is non-nil it is set
// as the skeleton's entity store.
func AddRig(world donburi.World, rig Rig, store sinew.EntityStore) donburi.Entity {
	e := world.Create(RigComponent)
	RigComponent.SetValue(world.Entry(e), rig)
	if store != nil && rig.Skeleton != nil {
		rig.Skeleton.SetEntityStore(store)
	}
	return e
}

// UpdateRigs advances every rig to time now, sampling motions where the
// stepper asks for them, then brings world matrices up to date.
func UpdateRigs(world donburi.World, now float64) {
	rigQuery.Each(world, func(entry *donburi.Entry) {
		rig := RigComponent.Get(entry)
		if rig.Skeleton == nil {
			return
		}
		if rig.Stepper != nil && rig.Sample != nil {
			if t, sample := rig.Stepper.Advance(now); sample {
				rig.Stepper.Commit(rig.Sample(t)...)
			}
		}
		rig.Skeleton.UpdateWorldMatrices()
	})
}
