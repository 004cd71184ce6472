/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import "math"

// Grid carries the scene's grid metrics. Size is the display size of one grid
// cell in pixels; Distance and Units are the human-facing measurement scale
// ("5 ft per cell"). Distance/Units never influence geometry, only labels.
type Grid struct {
	Size     float64 `json:"gridSize" yaml:"grid_size"`
	Distance float64 `json:"gridDistance" yaml:"grid_distance"`
	Units    string  `json:"gridUnits" yaml:"grid_units"`
}

// DefaultGrid matches the common 5-ft battle map convention.
func DefaultGrid() Grid { return Grid{Size: 50, Distance: 5, Units: "ft"} }

// GridToPixel converts a grid-unit scalar to pixels.
func (g Grid) GridToPixel(u float64) float64 { return u * g.Size }

// PixelToGrid converts a pixel scalar to grid units.
func (g Grid) PixelToGrid(p float64) float64 { return p / g.Size }

// GridToPixelPt converts a grid point to pixel space.
func (g Grid) GridToPixelPt(p Pt) Pt { return Pt{p.X * g.Size, p.Y * g.Size} }

// PixelToGridPt converts a pixel point (e.g. a pointer event) to grid units.
func (g Grid) PixelToGridPt(p Pt) Pt { return Pt{p.X / g.Size, p.Y / g.Size} }

// Angles are stored in degrees, 0° = +X axis, increasing clockwise in screen
// space (screen Y grows downward, so clockwise needs no sign flip here).

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 { return deg * math.Pi / 180 }

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 { return rad * 180 / math.Pi }

// PolarOffset returns origin displaced by dist grid units along direction deg.
func PolarOffset(origin Pt, dist, deg float64) Pt {
	rad := DegToRad(deg)
	return Pt{origin.X + dist*math.Cos(rad), origin.Y + dist*math.Sin(rad)}
}
