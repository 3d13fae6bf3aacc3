// Package debugui provides immediate-mode GUI integration for ECS applications using Dear ImGui.
// Windows live as ImguiItem entities in a UI storage of their own; an Inspector
// renders views of a second, inspected storage.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/towerfall/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a singleton component.
// Frontends check it before treating mouse or keyboard input as game input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiVisibility hides every ImguiItem while Hidden is set.
type ImguiVisibility struct {
	Hidden bool
}

// ImguiSystem defers the render function of every ImguiItem to the end of the
// frame and refreshes the ImguiInputState singleton.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
	Visibility ecs.Singleton[ImguiVisibility]
}

func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	state := i.InputState.Get()
	if v := i.Visibility.Get(); v != nil && v.Hidden {
		state.WantCaptureMouse = false
		state.WantCaptureKeyboard = false
		return
	}

	io := imgui.CurrentIO()
	state.WantCaptureMouse = io.WantCaptureMouse()
	state.WantCaptureKeyboard = io.WantCaptureKeyboard()

	for item := range i.Items.Values() {
		frame.Commands.Defer(item.Render)
	}
}

// RegisterComponents registers the components the UI storage needs.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
}

// NewUIStorage builds a storage for debug windows with its singletons in place.
func NewUIStorage() *ecs.Storage {
	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)
	storage := ecs.NewStorage(registry)
	ecs.NewSingleton[ImguiInputState](storage)
	ecs.NewSingleton[ImguiVisibility](storage)
	return storage
}

// SpawnInspector adds one window entity per Inspector view to ui.
func SpawnInspector(ui *ecs.Storage, in *Inspector) {
	ui.Spawn(ImguiItem{Render: in.RenderEntities})
	ui.Spawn(ImguiItem{Render: in.RenderComponents})
	ui.Spawn(ImguiItem{Render: in.RenderArchetypes})
	ui.Spawn(ImguiItem{Render: in.RenderPerformance})
}
