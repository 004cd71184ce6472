/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fog

import "testing"

func TestRevealThenHideKeepsExplored(t *testing.T) {
	g := NewGrid(10, 10, 25)
	g.Reveal(2, 2, 3, 3)
	if !g.Revealed(3, 3) || !g.Explored(3, 3) {
		t.Fatalf("cell should be revealed and explored after Reveal")
	}
	g.Hide(2, 2, 3, 3)
	if g.Revealed(3, 3) {
		t.Fatalf("cell should be hidden after Hide")
	}
	if !g.Explored(3, 3) {
		t.Fatalf("explored must stay true after Hide (monotonic)")
	}
}

func TestRevealClampsOutOfBounds(t *testing.T) {
	g := NewGrid(4, 4, 25)
	g.Reveal(-5, -5, 100, 100) // clamped, not an error
	for j := 0; j < 4; j++ {
		for i := 0; i < 4; i++ {
			if !g.Revealed(i, j) {
				t.Fatalf("cell (%d,%d) should be revealed", i, j)
			}
		}
	}
	g.Hide(2, 0, 100, 2)
	if g.Revealed(3, 1) || !g.Revealed(1, 1) {
		t.Fatalf("clamped hide affected wrong cells")
	}
}

func TestRevealIdempotent(t *testing.T) {
	g := NewGrid(4, 4, 25)
	g.Reveal(0, 0, 2, 2)
	g.Reveal(0, 0, 2, 2) // retry is safe
	if !g.Revealed(1, 1) {
		t.Fatalf("repeat reveal lost state")
	}
}

func TestOutOfBoundsQueriesAreFalse(t *testing.T) {
	g := NewGrid(2, 2, 25)
	if g.Revealed(-1, 0) || g.Explored(5, 5) {
		t.Fatalf("out of bounds queries must be false")
	}
}

func TestSnapshotRestore(t *testing.T) {
	g := NewGrid(3, 3, 10)
	g.Reveal(0, 0, 2, 1)
	g.Hide(1, 0, 1, 1)
	rev, exp := g.Snapshot()

	h := NewGrid(3, 3, 10)
	h.Restore(rev, exp)
	if !h.Revealed(0, 0) || h.Revealed(1, 0) || !h.Explored(1, 0) {
		t.Fatalf("restore did not reproduce state")
	}
	// snapshot is a deep copy: mutating the source must not leak
	g.Reveal(2, 2, 1, 1)
	if h.Revealed(2, 2) {
		t.Fatalf("snapshot shares backing storage with source")
	}
}

func TestStorePerViewerIsolation(t *testing.T) {
	s := NewStore(8, 8, 25)
	gm := s.Get("scene-1", "gm")
	player := s.Get("scene-1", "player-1")
	gm.Reveal(0, 0, 8, 8)
	if player.Revealed(0, 0) {
		t.Fatalf("viewers must have independent fog state")
	}
	if s.Get("scene-1", "gm") != gm {
		t.Fatalf("store should return the same grid per key")
	}
	s.Drop("scene-1", "gm")
	if s.Get("scene-1", "gm") == gm {
		t.Fatalf("dropped grid should be recreated fresh")
	}
}
