/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import "testing"

func TestSnapRectEdgeAlignment(t *testing.T) {
	anchor := Anchor{Rect: R(0, 0, 2, 2), Weight: 1}
	moving := R(2.1, 0.08, 1, 1)
	snapped, guides := SnapRect(moving, []Anchor{anchor}, SnapOptions{Threshold: 0.2, SnapToEdges: true})
	if snapped.X != 2 { // abut to the anchor's right edge
		t.Fatalf("expected x snapped to 2, got %v", snapped.X)
	}
	if snapped.Y != 0 {
		t.Fatalf("expected y snapped to 0, got %v", snapped.Y)
	}
	if len(guides) != 2 {
		t.Fatalf("expected 2 guides, got %d", len(guides))
	}
}

func TestSnapRectCenterAlignment(t *testing.T) {
	anchor := Anchor{Rect: R(0, 0, 4, 4), Weight: 1}
	moving := R(1.45, 10, 1, 1) // center x = 1.95, anchor center x = 2
	snapped, guides := SnapRect(moving, []Anchor{anchor}, SnapOptions{Threshold: 0.2, SnapToCenters: true})
	if snapped.X != 1.5 {
		t.Fatalf("expected x snapped to 1.5, got %v", snapped.X)
	}
	if len(guides) != 1 || guides[0].Kind != "center" || guides[0].Orientation != "vertical" {
		t.Fatalf("unexpected guides: %+v", guides)
	}
}

func TestSnapRectGridStep(t *testing.T) {
	moving := R(3.1, 4.93, 1, 1)
	snapped, _ := SnapRect(moving, nil, SnapOptions{Threshold: 0.15, GridStep: 1})
	if snapped.X != 3 || snapped.Y != 5 {
		t.Fatalf("expected grid snap to (3,5), got (%v,%v)", snapped.X, snapped.Y)
	}
}

func TestSnapRectOutsideThresholdUnchanged(t *testing.T) {
	moving := R(3.4, 4.6, 1, 1)
	snapped, guides := SnapRect(moving, nil, SnapOptions{Threshold: 0.1, GridStep: 1})
	if snapped != moving || len(guides) != 0 {
		t.Fatalf("expected no snap, got %+v guides=%d", snapped, len(guides))
	}
}
