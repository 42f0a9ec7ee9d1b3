// Package systems provides the per-creature rules of the simulation: spatial
// lookup, sensing, feeding and energy.
package systems

import (
	"github.com/mlange-42/ark/ecs"
)

// Neighbor holds a nearby entity with precomputed spatial data.
type Neighbor struct {
	E      ecs.Entity
	DX, DY float32 // toroidal delta from the query origin
	DistSq float32
}

type gridEntry struct {
	e    ecs.Entity
	x, y float32
}

// SpatialGrid buckets entities into square cells on a wrapping world.
// Positions are captured at insert time, so the grid is a snapshot and
// queries never touch the ECS.
type SpatialGrid struct {
	cellSize float32
	cols     int
	rows     int
	width    float32
	height   float32
	cells    [][]gridEntry
	count    int
}

// NewSpatialGrid creates a spatial grid covering the given world size.
func NewSpatialGrid(width, height, cellSize float32) *SpatialGrid {
	cols := int(width / cellSize)
	if float32(cols)*cellSize < width {
		cols++
	}
	rows := int(height / cellSize)
	if float32(rows)*cellSize < height {
		rows++
	}
	cols = max(cols, 1)
	rows = max(rows, 1)

	cells := make([][]gridEntry, cols*rows)
	for i := range cells {
		cells[i] = make([]gridEntry, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		width:    width,
		height:   height,
		cells:    cells,
	}
}

// Clear removes all entities from the grid, keeping cell capacity.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	g.count = 0
}

// Insert adds an entity at the given position.
func (g *SpatialGrid) Insert(e ecs.Entity, x, y float32) {
	idx := g.cellIndex(x, y)
	g.cells[idx] = append(g.cells[idx], gridEntry{e: e, x: x, y: y})
	g.count++
}

// Len returns the number of inserted entities.
func (g *SpatialGrid) Len() int {
	return g.count
}

// MaxQueryResults caps the number of neighbors returned by a query so that
// dense clusters cannot cause unbounded work.
const MaxQueryResults = 128

// QueryRadiusInto appends entities within radius of (x, y) to dst, up to
// MaxQueryResults, and returns the extended slice. Reuse dst across calls.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, x, y, radius float32, exclude ecs.Entity) []Neighbor {
	cellRadius := int(radius/g.cellSize) + 1
	colSpan := min(2*cellRadius+1, g.cols)
	rowSpan := min(2*cellRadius+1, g.rows)

	centerCol, centerRow := g.cellCoords(x, y)
	startCol := centerCol - colSpan/2
	startRow := centerRow - rowSpan/2
	radiusSq := radius * radius

	for dc := 0; dc < colSpan; dc++ {
		col := wrapIndex(startCol+dc, g.cols)
		for dr := 0; dr < rowSpan; dr++ {
			row := wrapIndex(startRow+dr, g.rows)
			for _, entry := range g.cells[row*g.cols+col] {
				if entry.e == exclude {
					continue
				}
				dx, dy := ToroidalDelta(x, y, entry.x, entry.y, g.width, g.height)
				distSq := dx*dx + dy*dy
				if distSq > radiusSq {
					continue
				}
				dst = append(dst, Neighbor{E: entry.e, DX: dx, DY: dy, DistSq: distSq})
				if len(dst) >= MaxQueryResults {
					return dst
				}
			}
		}
	}
	return dst
}

// Nearest returns the closest entity within radius.
func (g *SpatialGrid) Nearest(x, y, radius float32, exclude ecs.Entity) (Neighbor, bool) {
	var buf [MaxQueryResults]Neighbor
	found := g.QueryRadiusInto(buf[:0], x, y, radius, exclude)
	if len(found) == 0 {
		return Neighbor{}, false
	}
	best := found[0]
	for _, n := range found[1:] {
		if n.DistSq < best.DistSq {
			best = n
		}
	}
	return best, true
}

func (g *SpatialGrid) cellCoords(x, y float32) (col, row int) {
	col = wrapIndex(int(floor32(x/g.cellSize)), g.cols)
	row = wrapIndex(int(floor32(y/g.cellSize)), g.rows)
	return col, row
}

func (g *SpatialGrid) cellIndex(x, y float32) int {
	col, row := g.cellCoords(x, y)
	return row*g.cols + col
}

func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// ToroidalDelta returns the shortest path delta from (x1,y1) to (x2,y2).
func ToroidalDelta(x1, y1, x2, y2, w, h float32) (dx, dy float32) {
	dx = x2 - x1
	dy = y2 - y1

	if dx > w/2 {
		dx -= w
	} else if dx < -w/2 {
		dx += w
	}
	if dy > h/2 {
		dy -= h
	} else if dy < -h/2 {
		dy += h
	}
	return dx, dy
}
