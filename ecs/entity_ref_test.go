package ecs_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plus3/towerfall/ecs"
)

func TestEntityRefFollowsMoves(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 1})
	ref := storage.CreateEntityRef(id)
	if ref == nil {
		t.Fatal("expected ref for live entity")
	}
	assert.Same(t, ref, storage.CreateEntityRef(id), "refs are shared per entity")

	moved := storage.AddComponent(id, Velocity{})
	resolved, ok := storage.ResolveEntityRef(ref)
	assert.True(t, ok)
	assert.Equal(t, moved, resolved)
	assert.Equal(t, moved.ArchetypeId(), ref.Archetype.ID())

	moved = storage.RemoveComponent(moved, reflect.TypeFor[Velocity]())
	resolved, _ = storage.ResolveEntityRef(ref)
	assert.Equal(t, moved, resolved)
}

func TestEntityRefInvalidatedOnDelete(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Health{Current: 3, Max: 3})
	ref := storage.CreateEntityRef(id)
	storage.Delete(id)

	assert.False(t, ref.Alive())
	_, ok := storage.ResolveEntityRef(ref)
	assert.False(t, ok)

	reused := storage.Spawn(Health{})
	assert.Equal(t, id, reused)
	assert.False(t, ref.Alive(), "a reused slot does not revive old refs")
}

func TestEntityRefEdgeCases(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Nil(t, storage.CreateEntityRef(ecs.NewEntityId(12345, 0)))

	var nilRef *ecs.EntityRef
	_, ok := storage.ResolveEntityRef(nilRef)
	assert.False(t, ok)
	assert.False(t, nilRef.Alive())

	id := storage.Spawn(Name{Value: "a"})
	ref := storage.CreateEntityRef(id)
	assert.True(t, storage.InvalidateEntityRef(ref))
	assert.False(t, storage.InvalidateEntityRef(ref))
	assert.True(t, storage.Alive(id), "invalidating a ref keeps the entity")

	fresh := storage.CreateEntityRef(id)
	assert.NotSame(t, ref, fresh)
	assert.True(t, fresh.Alive())
}
