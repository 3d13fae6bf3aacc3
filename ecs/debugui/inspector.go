package debugui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/towerfall/ecs"
)

// StatsSource supplies scheduler timings for the performance window.
type StatsSource interface {
	GetStats() *ecs.SchedulerStats
}

// StatsFunc adapts a function to StatsSource.
type StatsFunc func() *ecs.SchedulerStats

func (f StatsFunc) GetStats() *ecs.SchedulerStats { return f() }

type entityRow struct {
	id         ecs.EntityId
	archetype  uint32
	components string
}

type archetypeRow struct {
	id         uint32
	components []string
	entities   int
}

// Inspector renders read-write views of a target storage: an entity browser,
// a component editor for the selected entity, an archetype table with a
// component filter and a performance window.
type Inspector struct {
	target *ecs.Storage
	stats  StatsSource
	fields *fieldCache

	version  uint64
	built    bool
	entities []entityRow
	arches   []archetypeRow
	types    []string

	filter   string
	page     int
	perPage  int
	selected *ecs.EntityRef
	required map[string]bool

	sortColumn    int
	sortAscending bool

	frames    []float32
	frameIdx  int
	lastFrame time.Time
}

// NewInspector creates an inspector over target. stats may be nil.
func NewInspector(target *ecs.Storage, stats StatsSource) *Inspector {
	return &Inspector{
		target:        target,
		stats:         stats,
		fields:        newFieldCache(),
		perPage:       100,
		required:      make(map[string]bool),
		sortColumn:    3,
		frames:        make([]float32, 120),
		sortAscending: false,
	}
}

// Selected returns the entity currently shown in the component window.
func (in *Inspector) Selected() (ecs.EntityId, bool) {
	return in.target.ResolveEntityRef(in.selected)
}

// Select shows id in the component window. The selection follows the entity
// across archetype moves.
func (in *Inspector) Select(id ecs.EntityId) {
	in.selected = in.target.CreateEntityRef(id)
}

func (in *Inspector) refresh() {
	if in.built && in.version == in.target.Version() {
		return
	}
	in.version = in.target.Version()
	in.built = true

	in.entities = in.entities[:0]
	in.arches = in.arches[:0]
	seen := make(map[string]bool)

	for _, archetype := range in.target.Archetypes() {
		names := make([]string, len(archetype.Types()))
		for i, t := range archetype.Types() {
			names[i] = t.String()
			seen[names[i]] = true
		}
		joined := strings.Join(names, ", ")

		count := 0
		for id := range archetype.Iter() {
			in.entities = append(in.entities, entityRow{id: id, archetype: archetype.ID(), components: joined})
			count++
		}
		in.arches = append(in.arches, archetypeRow{id: archetype.ID(), components: names, entities: count})
	}

	in.types = in.types[:0]
	for name := range seen {
		in.types = append(in.types, name)
	}
	sort.Strings(in.types)
	in.sortArchetypes()
}

func (in *Inspector) filteredEntities() []entityRow {
	if in.filter == "" {
		return in.entities
	}
	needle := strings.ToLower(in.filter)
	var out []entityRow
	for _, row := range in.entities {
		if strings.Contains(fmt.Sprintf("%d", row.id), needle) ||
			strings.Contains(fmt.Sprintf("0x%x", row.archetype), needle) ||
			strings.Contains(strings.ToLower(row.components), needle) {
			out = append(out, row)
		}
	}
	return out
}

// RenderEntities draws the paged, filterable entity table.
func (in *Inspector) RenderEntities() {
	if !imgui.BeginV("Entities", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	in.refresh()

	imgui.InputTextWithHint("##search", "Search...", &in.filter, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		in.filter = ""
		in.page = 0
	}

	rows := in.filteredEntities()
	pages := max(1, (len(rows)+in.perPage-1)/in.perPage)
	in.page = min(in.page, pages-1)
	selected, _ := in.Selected()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 3, tableFlags, imgui.NewVec2(0, 300), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Archetype")
		imgui.TableSetupColumn("Components")
		imgui.TableHeadersRow()

		start := in.page * in.perPage
		end := min(start+in.perPage, len(rows))
		for _, row := range rows[start:end] {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			if imgui.SelectableBoolV(fmt.Sprintf("%d", row.id), row.id == selected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				in.Select(row.id)
			}
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("0x%X", row.archetype))
			imgui.TableNextColumn()
			imgui.Text(row.components)
		}
		imgui.EndTable()
	}

	imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", in.page+1, pages, len(rows)))
	if pages > 1 {
		imgui.SameLine()
		if imgui.Button("Prev") && in.page > 0 {
			in.page--
		}
		imgui.SameLine()
		if imgui.Button("Next") && in.page < pages-1 {
			in.page++
		}
	}

	imgui.End()
}

// RenderComponents draws editors for every component of the selected entity.
// Edits write straight into storage.
func (in *Inspector) RenderComponents() {
	if !imgui.BeginV("Components", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	id, ok := in.Selected()
	if !ok {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	archetype := in.target.ArchetypeById(id.ArchetypeId())
	imgui.Text(fmt.Sprintf("Entity ID: %d", id))
	imgui.Text(fmt.Sprintf("Archetype: 0x%X", id.ArchetypeId()))
	imgui.Separator()

	for _, compType := range archetype.Types() {
		component := in.target.GetComponent(id, compType)
		if component == nil {
			continue
		}
		if imgui.TreeNodeStr(compType.String()) {
			val := reflectValue(component)
			for _, f := range in.fields.get(compType) {
				in.fields.editValue(f.Name, val.Field(f.Index))
			}
			if len(in.fields.get(compType)) == 0 {
				in.fields.editValue("value", val)
			}
			imgui.TreePop()
		}
	}

	imgui.End()
}

// RenderArchetypes draws the archetype table. Ticking component names narrows
// it to archetypes a query over those components would visit.
func (in *Inspector) RenderArchetypes() {
	if !imgui.BeginV("Archetypes", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	in.refresh()

	if imgui.TreeNodeStr("Component filter") {
		if imgui.Button("Clear All") {
			clear(in.required)
		}
		for _, name := range in.types {
			on := in.required[name]
			if imgui.Checkbox(name, &on) {
				if on {
					in.required[name] = true
				} else {
					delete(in.required, name)
				}
			}
		}
		imgui.TreePop()
	}

	rows := in.matchingArchetypes()
	total, most := 0, 0
	for _, row := range rows {
		total += row.entities
		most = max(most, row.entities)
	}
	imgui.Text(fmt.Sprintf("Matching archetypes: %d, entities: %d", len(rows), total))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("ArchetypeTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Archetype ID")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Comp Count")
		imgui.TableSetupColumn("Entity Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			in.sortColumn = int(spec.ColumnIndex())
			in.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			in.sortArchetypes()
			rows = in.matchingArchetypes()
			sortSpecs.SetSpecsDirty(false)
		}

		for _, row := range rows {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("0x%X", row.id))
			imgui.TableNextColumn()
			imgui.Text(strings.Join(row.components, ", "))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", len(row.components)))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.entities))

			if most > 0 {
				imgui.SameLine()
				pos := imgui.CursorScreenPos()
				width := float32(row.entities) / float32(most) * 80
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				imgui.WindowDrawList().AddRectFilled(pos, imgui.NewVec2(pos.X+width, pos.Y+10), color)
			}
		}
		imgui.EndTable()
	}

	imgui.End()
}

func (in *Inspector) matchingArchetypes() []archetypeRow {
	if len(in.required) == 0 {
		return in.arches
	}
	var out []archetypeRow
	for _, row := range in.arches {
		matched := 0
		for _, name := range row.components {
			if in.required[name] {
				matched++
			}
		}
		if matched == len(in.required) {
			out = append(out, row)
		}
	}
	return out
}

func (in *Inspector) sortArchetypes() {
	sort.SliceStable(in.arches, func(i, j int) bool {
		a, b := in.arches[i], in.arches[j]
		var less bool
		switch in.sortColumn {
		case 0:
			less = a.id < b.id
		case 1:
			less = strings.Join(a.components, ",") < strings.Join(b.components, ",")
		case 2:
			less = len(a.components) < len(b.components)
		default:
			less = a.entities < b.entities
		}
		if !in.sortAscending {
			return !less
		}
		return less
	})
}

// RenderPerformance draws frame times, storage totals and per-system timings.
func (in *Inspector) RenderPerformance() {
	now := time.Now()
	if !in.lastFrame.IsZero() {
		in.frames[in.frameIdx] = float32(now.Sub(in.lastFrame).Seconds() * 1000)
		in.frameIdx = (in.frameIdx + 1) % len(in.frames)
	}
	in.lastFrame = now

	if !imgui.BeginV("Performance", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := in.target.CollectStats()
	imgui.Text(fmt.Sprintf("Total Entities: %d", stats.TotalEntityCount))
	imgui.Text(fmt.Sprintf("Archetypes: %d", stats.ArchetypeCount))
	imgui.Text(fmt.Sprintf("Singletons: %d", stats.SingletonCount))

	var avg float32
	for _, ft := range in.frames {
		avg += ft
	}
	avg /= float32(len(in.frames))
	if avg > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000/avg))
	}
	imgui.PlotLinesFloatPtr("##frametime", &in.frames[0], int32(len(in.frames)))

	if in.stats != nil && imgui.TreeNodeStr("Systems") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()
			for _, s := range in.stats.GetStats().Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(s.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", s.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(s.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(s.MaxDuration.String())
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Singletons") {
		for _, t := range stats.SingletonTypes {
			imgui.BulletText(t.String())
		}
		imgui.TreePop()
	}

	imgui.End()
}
