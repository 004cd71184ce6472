/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package measure computes waypoint-chain distances for the ruler tool in the
// scene's display units.
package measure

import (
	"fmt"
	"math"

	"gridscene/internal/geom"
)

// Result holds per-segment and cumulative distances in display units
// (grid-unit Euclidean distance scaled by the grid's distance-per-cell).
type Result struct {
	Segments []float64
	Total    float64
}

// Measure computes the distance along waypoints. Distances go through pixel
// space first — sqrt((Δx·gridSize)² + (Δy·gridSize)²) — then back to display
// units, matching how on-screen rulers accumulate. Fewer than 2 waypoints
// yields an empty result.
func Measure(waypoints []geom.Pt, g geom.Grid) Result {
	if len(waypoints) < 2 || g.Size <= 0 {
		return Result{}
	}
	res := Result{Segments: make([]float64, 0, len(waypoints)-1)}
	for i := 1; i < len(waypoints); i++ {
		a, b := waypoints[i-1], waypoints[i]
		dxPx := (b.X - a.X) * g.Size
		dyPx := (b.Y - a.Y) * g.Size
		px := math.Hypot(dxPx, dyPx)
		d := px / g.Size * g.Distance
		res.Segments = append(res.Segments, d)
		res.Total += d
	}
	return res
}

// Label formats a distance for on-screen display, one decimal place with the
// scene's unit string appended.
func Label(distance float64, g geom.Grid) string {
	if g.Units == "" {
		return fmt.Sprintf("%.1f", distance)
	}
	return fmt.Sprintf("%.1f %s", distance, g.Units)
}
