package ecs_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plus3/towerfall/ecs"
)

func TestCommandsFlush(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	doomed := storage.Spawn(Position{X: 1})
	grows := storage.Spawn(Position{X: 2})
	shrinks := storage.Spawn(Position{X: 3}, Velocity{})
	doomedRef := storage.CreateEntityRef(doomed)

	scheduler.Register(ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		frame.Commands.Delete(doomed)
		frame.Commands.AddComponent(grows, Velocity{DX: 1})
		frame.Commands.RemoveComponent(shrinks, reflect.TypeFor[Velocity]())
		frame.Commands.Spawn(Name{Value: "new"})
		assert.Equal(t, 4, frame.Commands.Pending())

		assert.True(t, storage.Alive(doomed), "edits wait for the flush")
	}))
	scheduler.Once(0)

	assert.False(t, doomedRef.Alive())
	pos := ecs.ReadComponent[Position](storage, doomed)
	if assert.NotNil(t, pos, "freed slot is reused by the entity moving in") {
		assert.Equal(t, float32(3), pos.X)
	}
	assert.Equal(t, 1, storage.GetArchetype(Position{}, Velocity{}).Len())
	assert.Equal(t, 1, storage.GetArchetype(Position{}).Len())
	assert.Equal(t, 1, storage.GetArchetype(Name{}).Len())
}

func TestCommandsDeleteSkipsLaterEdits(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{})

	var commands ecs.Commands
	commands.AddComponent(id, Velocity{})
	commands.ReplaceComponent(id, reflect.TypeFor[Position](), Health{})
	commands.Delete(id)
	commands.Flush(storage)

	assert.False(t, storage.Alive(id))
	assert.Nil(t, storage.GetArchetype(Position{}, Velocity{}))
	assert.Nil(t, storage.GetArchetype(Health{}))
	assert.Equal(t, 0, commands.Pending())
}

func TestCommandsReplace(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Name{Value: "piece"}, Velocity{DX: 1})
	ref := storage.CreateEntityRef(id)

	var commands ecs.Commands
	commands.ReplaceComponent(id, reflect.TypeFor[Velocity](), Frozen{})
	commands.Flush(storage)

	now, ok := storage.ResolveEntityRef(ref)
	assert.True(t, ok)
	assert.True(t, storage.HasComponent(now, reflect.TypeFor[Frozen]()))
	assert.False(t, storage.HasComponent(now, reflect.TypeFor[Velocity]()))
	assert.Equal(t, "piece", ecs.ReadComponent[Name](storage, now).Value)
}

func TestCommandsDeferRunsLast(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{})
	ref := storage.CreateEntityRef(id)

	var commands ecs.Commands
	var order []string
	commands.Defer(func() {
		order = append(order, "defer")
		assert.True(t, storage.HasComponent(ref.Id, reflect.TypeFor[Velocity]()))
		assert.Equal(t, 1, storage.GetArchetype(Name{}).Len())
	})
	commands.AddComponent(id, Velocity{})
	commands.Spawn(Name{})
	commands.Defer(func() { order = append(order, "second") })
	commands.Flush(storage)

	assert.Equal(t, []string{"defer", "second"}, order)
}
