package ecs_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plus3/towerfall/ecs"
)

type GameClock struct {
	Ticks int
}

func TestSingletonAccess(t *testing.T) {
	storage := ecs.NewStorage(ecs.NewComponentRegistry())

	clock := ecs.NewSingleton(storage, GameClock{Ticks: 5})
	assert.True(t, clock.Exists())
	assert.Equal(t, 5, clock.Get().Ticks)

	again := ecs.NewSingleton(storage, GameClock{Ticks: 99})
	assert.Equal(t, 5, again.Get().Ticks, "initializer ignored once the singleton exists")

	clock.Get().Ticks++
	assert.Equal(t, 6, again.Get().Ticks)

	storage.AddSingleton(GameClock{Ticks: 1})
	assert.Equal(t, 1, clock.Get().Ticks, "AddSingleton replaces in place")

	var read *GameClock
	assert.True(t, storage.ReadSingleton(&read))
	assert.Same(t, clock.Get(), read)

	assert.Panics(t, func() { storage.ReadSingleton(read) })
}

func TestSingletonRemove(t *testing.T) {
	storage := ecs.NewStorage(ecs.NewComponentRegistry())
	storage.AddSingleton(&GameClock{Ticks: 2})

	assert.True(t, storage.RemoveSingleton(reflect.TypeFor[GameClock]()))
	assert.False(t, storage.RemoveSingleton(reflect.TypeFor[GameClock]()))

	var read *GameClock
	assert.False(t, storage.ReadSingleton(&read))

	var lazy ecs.Singleton[GameClock]
	lazy.Init(storage)
	assert.False(t, lazy.Exists())
	assert.Nil(t, lazy.Get())

	storage.AddSingleton(GameClock{Ticks: 8})
	assert.True(t, lazy.Exists())
	assert.Equal(t, 8, lazy.Get().Ticks)
}
