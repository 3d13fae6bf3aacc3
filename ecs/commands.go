package ecs

import "reflect"

// Commands buffers structural edits made while systems run. The buffer is
// flushed once, after the last system of a frame, which makes the flush the
// single point per frame where entities appear, disappear or change shape.
type Commands struct {
	spawns   []spawnCommand
	deletes  []EntityId
	adds     []addComponentCommand
	removes  []removeComponentCommand
	replaces []replaceComponentCommand
	defers   []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type spawnCommand struct {
	components []any
}

type addComponentCommand struct {
	entity    EntityId
	component any
}

type removeComponentCommand struct {
	entity   EntityId
	compType reflect.Type
}

type replaceComponentCommand struct {
	entity    EntityId
	oldType   reflect.Type
	component any
}

// Defer queues fn to run after every other queued edit has been applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Spawn queues an entity spawn operation with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components})
}

// Delete queues an entity deletion operation.
func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, entity)
}

// AddComponent queues a component addition operation.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.adds = append(c.adds, addComponentCommand{
		entity:    entity,
		component: component,
	})
}

// RemoveComponent queues a component removal operation.
func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.removes = append(c.removes, removeComponentCommand{
		entity:   entity,
		compType: compType,
	})
}

// ReplaceComponent queues a one-step swap of the oldType component for component.
func (c *Commands) ReplaceComponent(entity EntityId, oldType reflect.Type, component any) {
	c.replaces = append(c.replaces, replaceComponentCommand{
		entity:    entity,
		oldType:   oldType,
		component: component,
	})
}

// Pending returns the number of queued operations.
func (c *Commands) Pending() int {
	return len(c.spawns) + len(c.deletes) + len(c.adds) + len(c.removes) + len(c.replaces) + len(c.defers)
}

// Flush applies all queued commands to storage and resets the buffer.
// Order: deletes, removes, replaces, adds, spawns, defers. An entity deleted in
// this flush is skipped by every later edit. Each entity should be the target
// of at most one shape-changing edit per flush, since the edit changes its id.
func (c *Commands) Flush(storage *Storage) {
	deletedEntities := make(map[EntityId]bool)

	for _, id := range c.deletes {
		storage.Delete(id)
		deletedEntities[id] = true
	}

	for _, cmd := range c.removes {
		if !deletedEntities[cmd.entity] {
			storage.RemoveComponent(cmd.entity, cmd.compType)
		}
	}

	for _, cmd := range c.replaces {
		if !deletedEntities[cmd.entity] {
			storage.ReplaceComponent(cmd.entity, cmd.oldType, cmd.component)
		}
	}

	for _, cmd := range c.adds {
		if !deletedEntities[cmd.entity] {
			storage.AddComponent(cmd.entity, cmd.component)
		}
	}

	for _, cmd := range c.spawns {
		storage.Spawn(cmd.components...)
	}

	defers := c.defers
	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.replaces = c.replaces[:0]
	c.defers = nil

	for _, fn := range defers {
		fn()
	}
}
