package sim

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrid_SetCellSizeClamps(t *testing.T) {
	g := NewGrid(0)
	assert.Equal(t, float32(1.0), g.cellSize)

	g.SetCellSize(-5)
	assert.Equal(t, float32(1.0), g.cellSize)

	g.SetCellSize(42)
	assert.Equal(t, float32(42.0), g.cellSize)
}

func TestGrid_IncludesQueryAgent(t *testing.T) {
	g := NewGrid(10)
	pos := NewVec2(5, 5)
	g.Insert(3, pos)

	visited := []int{}
	g.ForEachNeighbor(pos, func(idx int) { visited = append(visited, idx) })
	assert.Equal(t, []int{3}, visited, "the query agent itself is included; callers filter")
}

func TestGrid_MatchesBruteForce(t *testing.T) {
	// Grid results at query radius <= cell size, filtered by distance,
	// must match an O(N^2) scan.
	const (
		n        = 250
		cellSize = 50.0
		radius   = 50.0
	)

	rng := NewLCG(99)
	positions := make([]Vec2, n)
	g := NewGrid(cellSize)
	for i := range positions {
		positions[i] = NewVec2(rng.NextFloat32()*300, rng.NextFloat32()*300)
		g.Insert(i, positions[i])
	}

	for q := 0; q < n; q += 17 {
		want := []int{}
		for j := range positions {
			if positions[j].Sub(positions[q]).Length() < radius {
				want = append(want, j)
			}
		}

		got := []int{}
		g.ForEachNeighbor(positions[q], func(idx int) {
			if positions[idx].Sub(positions[q]).Length() < radius {
				got = append(got, idx)
			}
		})

		sort.Ints(got)
		sort.Ints(want)
		require.Equal(t, want, got, "query %d", q)
	}
}

func TestGrid_DeterministicVisitOrder(t *testing.T) {
	rng := NewLCG(5)
	g := NewGrid(20)
	for i := 0; i < 100; i++ {
		g.Insert(i, NewVec2(rng.NextFloat32()*100, rng.NextFloat32()*100))
	}

	query := NewVec2(50, 50)
	first := []int{}
	g.ForEachNeighbor(query, func(idx int) { first = append(first, idx) })
	second := []int{}
	g.ForEachNeighbor(query, func(idx int) { second = append(second, idx) })

	assert.Equal(t, first, second, "repeated queries must visit in the same order")
}

func TestGrid_ClearEmptiesBuckets(t *testing.T) {
	g := NewGrid(10)
	g.Insert(0, NewVec2(1, 1))
	g.Insert(1, NewVec2(2, 2))
	g.Clear()

	visited := 0
	g.ForEachNeighbor(NewVec2(1, 1), func(int) { visited++ })
	assert.Zero(t, visited)
}
