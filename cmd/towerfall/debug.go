package main

import (
	"fmt"
	"maps"
	"slices"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/towerfall/ecs"
	"github.com/plus3/towerfall/ecs/debugui"
	"github.com/plus3/towerfall/tower"
)

// spawnSessionWindow adds the game-specific window: session counters, the
// falling piece, stability odds and recent phase transitions.
func spawnSessionWindow(ui *ecs.Storage, g *tower.Game) {
	ui.Spawn(debugui.ImguiItem{
		Render: func() {
			imgui.SetNextWindowPosV(imgui.NewVec2(10, 110), imgui.CondOnce, imgui.NewVec2(0, 0))
			imgui.SetNextWindowSizeV(imgui.NewVec2(320, 360), imgui.CondOnce)
			if !imgui.BeginV("Session", nil, imgui.WindowFlagsNone) {
				imgui.End()
				return
			}

			ses := g.Session()
			stats := g.Stats()
			imgui.Text(fmt.Sprintf("Session: %s", ses.ID))
			imgui.Text(fmt.Sprintf("Seed: %d", g.Config().Seed))
			imgui.Text(fmt.Sprintf("Phase: %s", g.Phase()))
			imgui.Text(fmt.Sprintf("Score: %d  Landings: %d  Levels: %d", ses.Score, ses.Landings, ses.LevelsCleared))
			imgui.Text(fmt.Sprintf("Height: %.0f  Max: %.0f", ses.TowerHeight, ses.MaxHeight))
			imgui.Text(fmt.Sprintf("Topple chance: %.1f%%", g.CollapseChance()*100))
			imgui.Text(fmt.Sprintf("Rolls: %d  Collapses: %d", stats.Rolls, stats.Collapses))
			imgui.Text(fmt.Sprintf("Pending timers: %d  Frames: %d", stats.PendingTimers, stats.Frames))

			imgui.Separator()
			if p, ok := g.Falling(); ok {
				imgui.Text(fmt.Sprintf("Falling #%d %s %s", p.Info.ID, p.Info.Shape, p.Info.Color))
				imgui.Text(fmt.Sprintf("Origin: (%.2f, %.2f, %.2f) yaw %.2f", p.Pose.Origin.X, p.Pose.Origin.Y, p.Pose.Origin.Z, p.Pose.Yaw))
				if _, cells, ok := g.Ghost(); ok && len(cells) > 0 {
					imgui.Text(fmt.Sprintf("Rests at level %d", lowest(cells)))
				}
				if imgui.Button("Hard drop") {
					g.HardDrop()
				}
			} else {
				imgui.Text("No falling piece")
			}

			imgui.Separator()
			if imgui.TreeNodeStr("Levels") {
				levels := g.Tower().Levels()
				for _, lv := range slices.Backward(slices.Sorted(maps.Keys(levels))) {
					imgui.BulletText(fmt.Sprintf("level %d: %d cells", lv, levels[lv]))
				}
				imgui.TreePop()
			}
			if imgui.TreeNodeStr("Transitions") {
				for _, t := range g.History() {
					imgui.BulletText(fmt.Sprintf("%s -> %s", t.From, t.To))
				}
				imgui.TreePop()
			}

			imgui.End()
		},
	})
}

func lowest(cells []tower.Cell) int {
	low := cells[0].Y
	for _, c := range cells[1:] {
		low = min(low, c.Y)
	}
	return low
}
