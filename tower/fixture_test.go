package tower

import (
	"bufio"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/plus3/towerfall/ecs"
)

// fixtureBaseID keeps fixture piece ids clear of the ids a factory hands out.
const fixtureBaseID PieceID = 1000

// fixture is a tower layout read from testdata. Each "level N" file is a
// grid of rows along z and columns along x; equal letters form one piece.
type fixture struct {
	pieces map[string]PieceID
	expect map[string]string
}

func newTestStorage() *ecs.Storage {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[PieceInfo](registry)
	ecs.RegisterComponent[Pose](registry)
	ecs.RegisterComponent[Falling](registry)
	ecs.RegisterComponent[Landed](registry)
	return ecs.NewStorage(registry)
}

func newTestTower() *Tower {
	return newTower(newTestStorage())
}

func loadFixture(t *testing.T, name string, tower *Tower) fixture {
	t.Helper()

	archive, err := txtar.ParseFile(filepath.Join("testdata", name))
	require.NoError(t, err)

	cells := make(map[string][]Cell)
	fx := fixture{pieces: make(map[string]PieceID), expect: make(map[string]string)}

	for _, f := range archive.Files {
		if f.Name == "expect" {
			scanner := bufio.NewScanner(strings.NewReader(string(f.Data)))
			for scanner.Scan() {
				key, value, ok := strings.Cut(scanner.Text(), ":")
				if ok {
					fx.expect[strings.TrimSpace(key)] = strings.TrimSpace(value)
				}
			}
			continue
		}

		levelText, ok := strings.CutPrefix(f.Name, "level ")
		require.True(t, ok, "unexpected file %q in %s", f.Name, name)
		level, err := strconv.Atoi(levelText)
		require.NoError(t, err)

		for z, row := range strings.Split(strings.TrimRight(string(f.Data), "\n"), "\n") {
			for x, r := range row {
				if r == '.' {
					continue
				}
				label := string(r)
				cells[label] = append(cells[label], Cell{x, level, z})
			}
		}
	}

	labels := make([]string, 0, len(cells))
	for label := range cells {
		labels = append(labels, label)
	}
	slices.Sort(labels)

	for i, label := range labels {
		group := cells[label]
		origin := group[0]
		offsets := make([]Cell, len(group))
		for j, c := range group {
			offsets[j] = Cell{c.X - origin.X, c.Y - origin.Y, c.Z - origin.Z}
		}

		id := fixtureBaseID + PieceID(i)
		info := PieceInfo{ID: id, Shape: ShapeCustom, Color: Palette[i%len(Palette)], Offsets: offsets}
		_, ok := tower.Insert(info, Pose{Origin: origin.Center()})
		require.True(t, ok, "piece %s overlaps in %s", label, name)
		fx.pieces[label] = id
	}
	return fx
}

// ids maps the space separated labels of an expect value to piece ids.
func (fx fixture) ids(t *testing.T, key string) []PieceID {
	t.Helper()
	var ids []PieceID
	for _, label := range strings.Fields(fx.expect[key]) {
		id, ok := fx.pieces[label]
		require.True(t, ok, "unknown piece %s", label)
		ids = append(ids, id)
	}
	return ids
}

func (fx fixture) ints(t *testing.T, key string) []int {
	t.Helper()
	var out []int
	for _, field := range strings.Fields(fx.expect[key]) {
		n, err := strconv.Atoi(field)
		require.NoError(t, err)
		out = append(out, n)
	}
	return out
}

func findPiece(tower *Tower, id PieceID) (LandedPiece, bool) {
	for _, p := range tower.Pieces() {
		if p.Info.ID == id {
			return p, true
		}
	}
	return LandedPiece{}, false
}

// requireConsistent checks that no two pieces share a cell, that the index
// agrees with the pieces and that the height matches the top cell.
func requireConsistent(t *testing.T, tower *Tower) {
	t.Helper()

	seen := make(map[Cell]PieceID)
	top := 0
	for _, p := range tower.Pieces() {
		for _, c := range p.Cells {
			other, dup := seen[c]
			require.False(t, dup, "pieces %d and %d overlap at %v", other, p.Info.ID, c)
			seen[c] = p.Info.ID

			entity, ok := tower.PieceAt(c)
			require.True(t, ok, "cell %v of piece %d is not indexed", c, p.Info.ID)
			require.Equal(t, p.Entity, entity)
			require.GreaterOrEqual(t, c.Y, 0)
			top = max(top, c.Y+1)
		}
	}
	require.Equal(t, float64(top), tower.Height())
}
