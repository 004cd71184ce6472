/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package fog tracks per-viewer fog-of-war state as two parallel boolean
// grids: "revealed" (currently visible) and "explored" (ever revealed).
// Explored is monotonic; hiding a region clears revealed but never explored.
package fog

import "sync"

// Grid is one viewer's fog state over a scene. The cell size is independent
// of the scene's display grid and recorded explicitly. Mutations are
// idempotent and may safely be retried.
type Grid struct {
	Cols     int     `json:"cols"`
	Rows     int     `json:"rows"`
	CellSize float64 `json:"cellSize"` // pixels per fog cell

	revealed [][]bool
	explored [][]bool
}

// NewGrid allocates a fully hidden fog grid.
func NewGrid(cols, rows int, cellSize float64) *Grid {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	g := &Grid{Cols: cols, Rows: rows, CellSize: cellSize}
	g.revealed = makeCells(cols, rows)
	g.explored = makeCells(cols, rows)
	return g
}

func makeCells(cols, rows int) [][]bool {
	cells := make([][]bool, rows)
	for i := range cells {
		cells[i] = make([]bool, cols)
	}
	return cells
}

// clamp restricts a cell rectangle to the grid bounds. Out-of-bounds input is
// clamped, never an error; a fully outside rectangle becomes empty.
func (g *Grid) clamp(x, y, w, h int) (x0, y0, x1, y1 int) {
	x0, y0 = x, y
	x1, y1 = x+w, y+h
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > g.Cols {
		x1 = g.Cols
	}
	if y1 > g.Rows {
		y1 = g.Rows
	}
	return x0, y0, x1, y1
}

// Reveal marks the cell rectangle as currently visible and, monotonically,
// as explored.
func (g *Grid) Reveal(x, y, w, h int) {
	x0, y0, x1, y1 := g.clamp(x, y, w, h)
	for j := y0; j < y1; j++ {
		for i := x0; i < x1; i++ {
			g.revealed[j][i] = true
			g.explored[j][i] = true
		}
	}
}

// Hide clears current visibility for the cell rectangle. Explored state is
// untouched.
func (g *Grid) Hide(x, y, w, h int) {
	x0, y0, x1, y1 := g.clamp(x, y, w, h)
	for j := y0; j < y1; j++ {
		for i := x0; i < x1; i++ {
			g.revealed[j][i] = false
		}
	}
}

// Revealed reports current visibility of cell (i,j). Out of bounds is false.
func (g *Grid) Revealed(i, j int) bool {
	if i < 0 || j < 0 || i >= g.Cols || j >= g.Rows {
		return false
	}
	return g.revealed[j][i]
}

// Explored reports whether cell (i,j) has ever been revealed.
func (g *Grid) Explored(i, j int) bool {
	if i < 0 || j < 0 || i >= g.Cols || j >= g.Rows {
		return false
	}
	return g.explored[j][i]
}

// Snapshot returns deep copies of both grids for persistence or transfer.
func (g *Grid) Snapshot() (revealed, explored [][]bool) {
	revealed = copyCells(g.revealed)
	explored = copyCells(g.explored)
	return revealed, explored
}

// Restore replaces the grid contents from a snapshot. Rows/cols outside the
// grid's dimensions are ignored.
func (g *Grid) Restore(revealed, explored [][]bool) {
	restoreCells(g.revealed, revealed)
	restoreCells(g.explored, explored)
}

func copyCells(src [][]bool) [][]bool {
	out := make([][]bool, len(src))
	for i, row := range src {
		out[i] = append([]bool(nil), row...)
	}
	return out
}

func restoreCells(dst [][]bool, src [][]bool) {
	for j := 0; j < len(dst) && j < len(src); j++ {
		for i := 0; i < len(dst[j]) && i < len(src[j]); i++ {
			dst[j][i] = src[j][i]
		}
	}
}

// key identifies one viewer's fog over one scene.
type key struct {
	sceneID string
	viewer  string
}

// Store keeps fog grids per (scene, viewer). Safe for concurrent use; each
// viewer has independent state over the same scene.
type Store struct {
	mu       sync.Mutex
	grids    map[key]*Grid
	cols     int
	rows     int
	cellSize float64
}

// NewStore creates a store whose grids share the given dimensions.
func NewStore(cols, rows int, cellSize float64) *Store {
	return &Store{grids: make(map[key]*Grid), cols: cols, rows: rows, cellSize: cellSize}
}

// Get returns the fog grid for (sceneID, viewer), creating a hidden grid on
// first access.
func (s *Store) Get(sceneID, viewer string) *Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{sceneID, viewer}
	g, ok := s.grids[k]
	if !ok {
		g = NewGrid(s.cols, s.rows, s.cellSize)
		s.grids[k] = g
	}
	return g
}

// Drop removes a viewer's fog for a scene (e.g. when a scene is deleted).
func (s *Store) Drop(sceneID, viewer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.grids, key{sceneID, viewer})
}
