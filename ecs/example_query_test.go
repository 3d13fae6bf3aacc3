package ecs_test

import (
	"fmt"
	"reflect"
	"time"

	"github.com/plus3/towerfall/ecs"
)

func ExampleQuery() {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Position{X: 1, Y: 1}, Velocity{DX: 1})
	storage.Spawn(Position{X: 5, Y: 5})

	query := ecs.NewQuery[movingEntity](storage)
	for _, item := range query.Iter() {
		item.Position.X += item.Velocity.DX
		fmt.Printf("moved to (%.0f, %.0f)\n", item.Position.X, item.Position.Y)
	}
	fmt.Println("moving:", query.Len())
	// Output:
	// moved to (2, 1)
	// moving: 1
}

func ExampleCommands_ReplaceComponent() {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Name{Value: "block"}, Velocity{DY: -1})

	var commands ecs.Commands
	commands.ReplaceComponent(id, reflect.TypeFor[Velocity](), Frozen{})
	commands.Defer(func() {
		for item := range ecs.NewQuery[struct{ *Name }](storage).Values() {
			fmt.Println(item.Name.Value, "settled")
		}
	})
	commands.Flush(storage)
	// Output:
	// block settled
}

func ExampleTimers() {
	timers := ecs.NewTimers()
	timers.After(800*time.Millisecond, func() { fmt.Println("respawn") })
	timers.After(200*time.Millisecond, func() { fmt.Println("flash") })

	for range 5 {
		timers.Advance(250 * time.Millisecond)
	}
	// Output:
	// flash
	// respawn
}
