package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plus3/towerfall/ecs"
)

func TestViewGetAndFill(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	view := ecs.NewView[movingEntity](storage)

	id := storage.Spawn(Position{X: 5}, Velocity{DX: 1})
	still := storage.Spawn(Position{X: 7})

	item := view.Get(id)
	if item == nil {
		t.Fatal("expected view for moving entity")
	}
	item.Position.X = 9
	assert.Equal(t, float32(9), ecs.ReadComponent[Position](storage, id).X)

	assert.Nil(t, view.Get(still))

	var out movingEntity
	assert.False(t, view.Fill(still, &out))
	assert.True(t, view.Fill(id, &out))
	assert.Equal(t, float32(1), out.Velocity.DX)

	ref := storage.CreateEntityRef(id)
	assert.NotNil(t, view.GetRef(ref))
	storage.Delete(id)
	assert.Nil(t, view.GetRef(ref))
}

func TestViewIterCoversArchetypes(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Name{Value: "a"})
	storage.Spawn(Name{Value: "b"}, Health{})
	storage.Spawn(Name{Value: "c"}, Health{}, Frozen{})

	names := map[string]bool{}
	for item := range ecs.NewView[namedEntity](storage).Values() {
		names[item.Name.Value] = item.Health != nil
	}
	assert.Equal(t, map[string]bool{"a": false, "b": true, "c": true}, names)
}

func TestViewRejectsBadShapes(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { ecs.NewView[Position](storage) }, "fields must be pointers")
	assert.Panics(t, func() { ecs.NewView[int](storage) })
	assert.Panics(t, func() {
		ecs.NewView[struct {
			P *Position `ecs:"maybe"`
		}](storage)
	})
}
