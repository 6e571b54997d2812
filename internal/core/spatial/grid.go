// Package spatial provides a uniform-cell spatial hash grid for broad-phase
// proximity queries (nearest enemy, area-of-effect, collectible pickup
// radius) without scanning every entity in the world each tick (§4.8).
package spatial

import (
	"math"

	"nightswarm/internal/core/ecs"
	"nightswarm/internal/core/ecs/storage"
)

// cellKey identifies one grid cell by its integer coordinates.
type cellKey struct {
	X, Y int
}

// Grid buckets entities into fixed-size cells keyed by position, so a
// radius or rectangle query only has to visit the handful of cells the
// query region overlaps instead of every tracked entity.
type Grid struct {
	cellSize  float64
	bounds    ecs.AABB
	cells     map[cellKey]*storage.SparseSet
	positions map[ecs.EntityID]ecs.Vector2
}

// NewGrid creates a grid with the given cell size. bounds is informational
// only — entities outside it are still tracked, just under whatever cell
// their position hashes to.
func NewGrid(cellSize float64, bounds ecs.AABB) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &Grid{
		cellSize:  cellSize,
		bounds:    bounds,
		cells:     make(map[cellKey]*storage.SparseSet),
		positions: make(map[ecs.EntityID]ecs.Vector2),
	}
}

func (g *Grid) keyFor(pos ecs.Vector2) cellKey {
	return cellKey{
		X: int(math.Floor(pos.X / g.cellSize)),
		Y: int(math.Floor(pos.Y / g.cellSize)),
	}
}

func (g *Grid) cellAt(key cellKey) *storage.SparseSet {
	cell, ok := g.cells[key]
	if !ok {
		cell = storage.NewSparseSet()
		g.cells[key] = cell
	}
	return cell
}

// Insert places an entity into the grid at pos. Re-inserting an already
// tracked entity is a no-op; call Update to move it.
func (g *Grid) Insert(id ecs.EntityID, pos ecs.Vector2) {
	if _, tracked := g.positions[id]; tracked {
		return
	}
	g.positions[id] = pos
	_ = g.cellAt(g.keyFor(pos)).Add(id)
}

// Update moves a tracked entity to a new position, migrating it between
// cells only when the cell actually changes.
func (g *Grid) Update(id ecs.EntityID, newPos ecs.Vector2) {
	oldPos, tracked := g.positions[id]
	if !tracked {
		g.Insert(id, newPos)
		return
	}

	oldKey, newKey := g.keyFor(oldPos), g.keyFor(newPos)
	g.positions[id] = newPos
	if oldKey == newKey {
		return
	}

	if cell, ok := g.cells[oldKey]; ok {
		_ = cell.Remove(id)
		if cell.IsEmpty() {
			delete(g.cells, oldKey)
		}
	}
	_ = g.cellAt(newKey).Add(id)
}

// Remove stops tracking an entity entirely.
func (g *Grid) Remove(id ecs.EntityID) {
	pos, tracked := g.positions[id]
	if !tracked {
		return
	}
	delete(g.positions, id)

	key := g.keyFor(pos)
	if cell, ok := g.cells[key]; ok {
		_ = cell.Remove(id)
		if cell.IsEmpty() {
			delete(g.cells, key)
		}
	}
}

// QueryRadius returns every tracked entity within radius of center
// (inclusive), scanning only the cells the circle's bounding box overlaps.
func (g *Grid) QueryRadius(center ecs.Vector2, radius float64) []ecs.EntityID {
	min := ecs.Vector2{X: center.X - radius, Y: center.Y - radius}
	max := ecs.Vector2{X: center.X + radius, Y: center.Y + radius}

	var result []ecs.EntityID
	g.forEachInRect(min, max, func(id ecs.EntityID, pos ecs.Vector2) {
		if pos.Distance(center) <= radius {
			result = append(result, id)
		}
	})
	return result
}

// QueryRect returns every tracked entity whose position falls within the
// axis-aligned rectangle [min, max].
func (g *Grid) QueryRect(min, max ecs.Vector2) []ecs.EntityID {
	var result []ecs.EntityID
	g.forEachInRect(min, max, func(id ecs.EntityID, pos ecs.Vector2) {
		if pos.X >= min.X && pos.X <= max.X && pos.Y >= min.Y && pos.Y <= max.Y {
			result = append(result, id)
		}
	})
	return result
}

func (g *Grid) forEachInRect(min, max ecs.Vector2, visit func(ecs.EntityID, ecs.Vector2)) {
	minKey := g.keyFor(min)
	maxKey := g.keyFor(max)

	for x := minKey.X; x <= maxKey.X; x++ {
		for y := minKey.Y; y <= maxKey.Y; y++ {
			cell, ok := g.cells[cellKey{X: x, Y: y}]
			if !ok {
				continue
			}
			cell.Iterate(func(id ecs.EntityID) bool {
				visit(id, g.positions[id])
				return true
			})
		}
	}
}

// Count returns the number of tracked entities.
func (g *Grid) Count() int {
	return len(g.positions)
}

// Clear empties the grid.
func (g *Grid) Clear() {
	g.cells = make(map[cellKey]*storage.SparseSet)
	g.positions = make(map[ecs.EntityID]ecs.Vector2)
}
