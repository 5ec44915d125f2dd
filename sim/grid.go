package sim

import "math"

// cellKey addresses one cell of the uniform grid by its integer cell
// coordinates (floor(pos/cellSize) per axis).
type cellKey struct {
	X int32
	Y int32
}

// Grid is a uniform spatial hash bucketing agent indices by cell. It is
// rebuilt from scratch at the start of every step and answers "all agents
// within the 3x3 cell block around a point".
//
// Queries are only correct for radii <= the cell size; true neighbors
// beyond the 3x3 block would be missed otherwise. The engine guarantees
// this by sizing cells to max(NeighborRadius, InfectionRadius).
type Grid struct {
	cellSize float32
	buckets  map[cellKey][]int
}

// NewGrid creates a grid with the given cell size (clamped to >= 1).
func NewGrid(cellSize float32) *Grid {
	g := &Grid{buckets: make(map[cellKey][]int)}
	g.SetCellSize(cellSize)
	return g
}

// SetCellSize updates the cell size, clamping to a 1.0 minimum.
func (g *Grid) SetCellSize(size float32) {
	if size < 1.0 {
		size = 1.0
	}
	g.cellSize = size
}

// Clear empties every bucket. Bucket storage is retained so that the
// per-step rebuild does not reallocate.
func (g *Grid) Clear() {
	for k := range g.buckets {
		g.buckets[k] = g.buckets[k][:0]
	}
}

func (g *Grid) keyFor(pos Vec2) cellKey {
	return cellKey{
		X: int32(math.Floor(float64(pos.X / g.cellSize))),
		Y: int32(math.Floor(float64(pos.Y / g.cellSize))),
	}
}

// Insert appends an agent index to the bucket of the cell containing pos.
// Per-bucket insertion order is preserved, which keeps visitation order
// deterministic.
func (g *Grid) Insert(idx int, pos Vec2) {
	key := g.keyFor(pos)
	g.buckets[key] = append(g.buckets[key], idx)
}

// ForEachNeighbor invokes visit once per agent index stored in the 3x3 cell
// block centered on pos's cell. The query agent itself is included when pos
// is its own position; callers filter by index. The nine cells are visited
// in a fixed order (map iteration is never used), so repeated queries are
// deterministic.
//
// visit must not mutate the grid.
func (g *Grid) ForEachNeighbor(pos Vec2, visit func(idx int)) {
	key := g.keyFor(pos)
	for dy := int32(-1); dy <= 1; dy++ {
		for dx := int32(-1); dx <= 1; dx++ {
			bucket := g.buckets[cellKey{X: key.X + dx, Y: key.Y + dy}]
			for _, idx := range bucket {
				visit(idx)
			}
		}
	}
}
