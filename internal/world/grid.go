package world

import (
	"math"

	"github.com/bonkgamesio/bonkgames-sub000/internal/model"
)

// CellShift sets the broad-phase cell size to 2^CellShift world units.
// A cell must be larger than the widest agent radius plus projectile radius.
const (
	CellShift = 6
	CellSize  = 1 << CellShift // 64
)

type cellKey struct {
	cx, cy int32
}

// CoordToCell converts a world position to its broad-phase cell.
func CoordToCell(p model.Vec2) (cx, cy int32) {
	return int32(math.Floor(p.X)) >> CellShift, int32(math.Floor(p.Y)) >> CellShift
}

// grid buckets agents by cell. Rebuilt every step; queries scan the 3×3
// window around a point.
type grid struct {
	cells map[cellKey][]*model.Agent
}

func newGrid() *grid {
	return &grid{cells: make(map[cellKey][]*model.Agent)}
}

func (g *grid) reset() {
	for k, v := range g.cells {
		g.cells[k] = v[:0]
	}
}

func (g *grid) insert(a *model.Agent) {
	cx, cy := CoordToCell(a.Position())
	k := cellKey{cx, cy}
	g.cells[k] = append(g.cells[k], a)
}

// near calls fn for every agent in the 3×3 window around p until fn
// returns false.
func (g *grid) near(p model.Vec2, fn func(*model.Agent) bool) {
	cx, cy := CoordToCell(p)
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for _, a := range g.cells[cellKey{cx + dx, cy + dy}] {
				if !fn(a) {
					return
				}
			}
		}
	}
}
