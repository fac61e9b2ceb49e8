// Package ecs provides ECS adapters for sinew skeletons.
//
// [NewDonburiStore] bridges attachment override changes into a [Donburi]
// world as typed events. Subscribe to [OverrideEventType] in your ECS
// systems to receive them:
//
//	store := ecs.NewDonburiStore(world)
//	skel.SetEntityStore(store)
//
// [RigComponent] attaches a skeleton and its motion stepper to an entity,
// and [UpdateRigs] advances every rig in the world once per frame.
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
