/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

// Snapping helpers for drag-placement tools (tokens, tiles, pins). These are
// UI-agnostic and deterministic so that frontends can share them and tests
// can assert exact results.

import "math"

// SnapOptions controls which snap candidates are considered and the threshold.
type SnapOptions struct {
	// Threshold is the maximum distance in grid units at which snapping
	// occurs. Typical values are an eighth to a quarter of a cell.
	Threshold float64
	// Snap to edges of anchor rects (left, right, top, bottom).
	SnapToEdges bool
	// Snap to centers (cx, cy) of anchor rects.
	SnapToCenters bool
	// Snap to grid intersections at the given cell fraction (1 = whole
	// cells, 0.5 = half cells, 0 disables grid snapping).
	GridStep float64
}

// Anchor is a static reference rect (another token, a tile, a room region).
// Weight biases selection when distances tie (higher = preferred).
type Anchor struct {
	Rect   Rect
	Weight float64
}

// GuideLine describes a visual alignment guide generated during a snap.
// Orientation is "vertical" or "horizontal"; Kind is "edge", "center" or
// "grid". Positions are rounded to 3 decimal places for determinism.
type GuideLine struct {
	Orientation string
	Kind        string
	Position    float64
	From        Pt
	To          Pt
}

// SnapRect computes snapping adjustments for a moving rectangle against a set
// of anchors and the grid. It returns the snapped rectangle and any guide
// lines to render. X and Y snap independently; the nearest candidate wins.
func SnapRect(moving Rect, anchors []Anchor, opts SnapOptions) (Rect, []GuideLine) {
	if opts.Threshold <= 0 {
		opts.Threshold = 0.25
	}
	var guides []GuideLine

	bestDX, bestDXDist, bestDXGuide := 0.0, math.Inf(1), GuideLine{}
	bestDY, bestDYDist, bestDYGuide := 0.0, math.Inf(1), GuideLine{}

	mxL, mxR := moving.X, moving.X+moving.W
	myT, myB := moving.Y, moving.Y+moving.H
	mxC, myC := moving.X+moving.W/2, moving.Y+moving.H/2

	for _, a := range anchors {
		axL, axR := a.Rect.X, a.Rect.X+a.Rect.W
		ayT, ayB := a.Rect.Y, a.Rect.Y+a.Rect.H
		axC, ayC := a.Rect.Center().X, a.Rect.Center().Y

		if opts.SnapToEdges {
			considerSnap(&bestDX, &bestDXDist, &bestDXGuide, mxL-axL, opts.Threshold, a.Weight, verticalGuide(axL, moving, a.Rect, "edge"))
			considerSnap(&bestDX, &bestDXDist, &bestDXGuide, mxR-axR, opts.Threshold, a.Weight, verticalGuide(axR, moving, a.Rect, "edge"))
			// abutting: left-to-right and right-to-left
			considerSnap(&bestDX, &bestDXDist, &bestDXGuide, mxL-axR, opts.Threshold, a.Weight, verticalGuide(axR, moving, a.Rect, "edge"))
			considerSnap(&bestDX, &bestDXDist, &bestDXGuide, mxR-axL, opts.Threshold, a.Weight, verticalGuide(axL, moving, a.Rect, "edge"))

			considerSnap(&bestDY, &bestDYDist, &bestDYGuide, myT-ayT, opts.Threshold, a.Weight, horizontalGuide(ayT, moving, a.Rect, "edge"))
			considerSnap(&bestDY, &bestDYDist, &bestDYGuide, myB-ayB, opts.Threshold, a.Weight, horizontalGuide(ayB, moving, a.Rect, "edge"))
			considerSnap(&bestDY, &bestDYDist, &bestDYGuide, myT-ayB, opts.Threshold, a.Weight, horizontalGuide(ayB, moving, a.Rect, "edge"))
			considerSnap(&bestDY, &bestDYDist, &bestDYGuide, myB-ayT, opts.Threshold, a.Weight, horizontalGuide(ayT, moving, a.Rect, "edge"))
		}
		if opts.SnapToCenters {
			considerSnap(&bestDX, &bestDXDist, &bestDXGuide, mxC-axC, opts.Threshold, a.Weight, verticalGuide(axC, moving, a.Rect, "center"))
			considerSnap(&bestDY, &bestDYDist, &bestDYGuide, myC-ayC, opts.Threshold, a.Weight, horizontalGuide(ayC, moving, a.Rect, "center"))
		}
	}

	if opts.GridStep > 0 {
		gx := math.Round(moving.X/opts.GridStep) * opts.GridStep
		gy := math.Round(moving.Y/opts.GridStep) * opts.GridStep
		considerSnap(&bestDX, &bestDXDist, &bestDXGuide, moving.X-gx, opts.Threshold, 1, verticalGuide(gx, moving, moving, "grid"))
		considerSnap(&bestDY, &bestDYDist, &bestDYGuide, moving.Y-gy, opts.Threshold, 1, horizontalGuide(gy, moving, moving, "grid"))
	}

	snapped := moving
	if bestDXDist <= opts.Threshold {
		snapped.X = FloatRound(moving.X-bestDX, 3)
		guides = append(guides, bestDXGuide)
	}
	if bestDYDist <= opts.Threshold {
		snapped.Y = FloatRound(moving.Y-bestDY, 3)
		guides = append(guides, bestDYGuide)
	}
	return snapped, guides
}

func considerSnap(best *float64, bestDist *float64, bestGuide *GuideLine, delta, threshold, weight float64, g GuideLine) {
	dist := math.Abs(delta)
	if dist > threshold {
		return
	}
	score := dist / math.Max(1, weight)
	if score < *bestDist {
		*bestDist = dist
		*best = delta
		*bestGuide = g
	}
}

func verticalGuide(x float64, a, b Rect, kind string) GuideLine {
	minY := math.Min(a.Y, b.Y)
	maxY := math.Max(a.Y+a.H, b.Y+b.H)
	x = FloatRound(x, 3)
	return GuideLine{
		Orientation: "vertical",
		Kind:        kind,
		Position:    x,
		From:        Pt{x, minY},
		To:          Pt{x, maxY},
	}
}

func horizontalGuide(y float64, a, b Rect, kind string) GuideLine {
	minX := math.Min(a.X, b.X)
	maxX := math.Max(a.X+a.W, b.X+b.W)
	y = FloatRound(y, 3)
	return GuideLine{
		Orientation: "horizontal",
		Kind:        kind,
		Position:    y,
		From:        Pt{minX, y},
		To:          Pt{maxX, y},
	}
}
