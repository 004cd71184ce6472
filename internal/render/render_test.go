/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"image/color"
	"testing"

	"gridscene/internal/fog"
	"gridscene/internal/geom"
	"gridscene/internal/scene"
)

func f(v float64) *float64 { return &v }

func testScene(shapes ...scene.Shape) *scene.Scene {
	return &scene.Scene{
		ID:     "s1",
		Name:   "test",
		Grid:   geom.Grid{Size: 50, Distance: 5, Units: "ft"},
		Width:  200,
		Height: 200,
		Shapes: shapes,
	}
}

func TestRenderBackgroundDefaultsToWhite(t *testing.T) {
	img := New().Render(testScene(), Options{})
	if got := img.RGBAAt(5, 5); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("background = %v, want white", got)
	}
}

func TestRenderFilledRegion(t *testing.T) {
	red := scene.Color{R: 255, A: 255}
	sc := testScene(scene.Shape{
		ID: "r", Kind: scene.KindRegion,
		Style:  scene.Style{FillColor: &red},
		Region: &scene.Region{Shape: scene.RegionRect, X: 1, Y: 1, Width: f(1), Height: f(1)},
	})
	img := New().Render(sc, Options{})
	if got := img.RGBAAt(75, 75); got.R != 255 || got.G != 0 {
		t.Fatalf("rect interior = %v, want red fill", got)
	}
	if got := img.RGBAAt(25, 25); got.R != 255 || got.G != 255 {
		t.Fatalf("outside rect = %v, want untouched background", got)
	}
}

func TestRenderAscendingZOrder(t *testing.T) {
	red := scene.Color{R: 255, A: 255}
	blue := scene.Color{B: 255, A: 255}
	sc := testScene(
		scene.Shape{ID: "top", Z: 2, Kind: scene.KindRegion,
			Style:  scene.Style{FillColor: &blue},
			Region: &scene.Region{Shape: scene.RegionRect, X: 1.5, Y: 1.5, Width: f(1.5), Height: f(1.5)}},
		scene.Shape{ID: "bottom", Z: 1, Kind: scene.KindRegion,
			Style:  scene.Style{FillColor: &red},
			Region: &scene.Region{Shape: scene.RegionRect, X: 1, Y: 1, Width: f(1.5), Height: f(1.5)}},
	)
	img := New().Render(sc, Options{})
	if got := img.RGBAAt(110, 110); got.B != 255 {
		t.Fatalf("overlap = %v, want higher-z blue on top", got)
	}
	if got := img.RGBAAt(60, 60); got.R != 255 || got.B != 0 {
		t.Fatalf("uncovered area = %v, want lower-z red", got)
	}
}

func TestRenderSkipsIncompleteShapes(t *testing.T) {
	sc := testScene(scene.Shape{
		ID: "broken", Kind: scene.KindRegion,
		Region: &scene.Region{Shape: scene.RegionCircle}, // nil radius
	})
	img := New().Render(sc, Options{}) // must not panic
	if got := img.RGBAAt(100, 100); got.R != 255 {
		t.Fatalf("incomplete shape must paint nothing, got %v", got)
	}
}

func TestRenderGridLines(t *testing.T) {
	img := New().Render(testScene(), Options{ShowGrid: true})
	if got := img.RGBAAt(50, 25); got.R == 255 {
		t.Fatalf("expected grid line pixel at x=50, got %v", got)
	}
	if got := img.RGBAAt(30, 25); got.R != 255 {
		t.Fatalf("expected clean background between lines, got %v", got)
	}
}

func TestRenderSelectionOutline(t *testing.T) {
	red := scene.Color{R: 255, A: 255}
	sc := testScene(scene.Shape{
		ID: "r", Kind: scene.KindRegion,
		Style:  scene.Style{FillColor: &red},
		Region: &scene.Region{Shape: scene.RegionRect, X: 1, Y: 1, Width: f(1), Height: f(1)},
	})
	img := New().Render(sc, Options{Selected: "r"})
	if got := img.RGBAAt(50, 75); got != selectionColor {
		t.Fatalf("expected selection outline along the rect edge, got %v", got)
	}
	// unselected render leaves the edge with the shape's own stroke
	img = New().Render(sc, Options{})
	if got := img.RGBAAt(50, 75); got == selectionColor {
		t.Fatalf("outline must only paint when selected")
	}
}

func TestRenderSelectionOutlineFollowsShape(t *testing.T) {
	red := scene.Color{R: 255, A: 255}
	sc := testScene(scene.Shape{
		ID: "c", Kind: scene.KindRegion,
		Style:  scene.Style{FillColor: &red},
		Region: &scene.Region{Shape: scene.RegionCircle, X: 2, Y: 2, Radius: f(1)},
	})
	img := New().Render(sc, Options{Selected: "c"})
	// on the circle's outline
	if got := img.RGBAAt(151, 100); got != selectionColor {
		t.Fatalf("expected selection stroke on the circle outline, got %v", got)
	}
	// the bounding-box corner is far off the circle and must stay untouched
	if got := img.RGBAAt(150, 150); got == selectionColor {
		t.Fatalf("selection must follow the circle, not its bounding box")
	}
}

func TestRenderFogOverlay(t *testing.T) {
	sc := testScene()
	sc.Width, sc.Height = 100, 100
	sc.FogCell = 50

	fg := fog.NewGrid(2, 2, 50)
	fg.Reveal(0, 0, 1, 1)
	fg.Reveal(1, 1, 1, 1)
	fg.Hide(1, 1, 1, 1) // explored but no longer revealed

	img := New().Render(sc, Options{Fog: fg})
	if got := img.RGBAAt(10, 10); got.R != 255 {
		t.Fatalf("revealed cell = %v, want untouched background", got)
	}
	if got := img.RGBAAt(60, 10); got != fogHidden {
		t.Fatalf("unexplored cell = %v, want opaque fog", got)
	}
	if got := img.RGBAAt(60, 60); got.R == 0 || got.R == 255 {
		t.Fatalf("explored cell = %v, want dimmed, not hidden or clear", got)
	}
}

func TestRenderTilePlaceholder(t *testing.T) {
	sc := testScene(scene.Shape{
		ID: "t", Kind: scene.KindTile,
		Tile: &scene.Tile{X: 0, Y: 0, Width: 1, Height: 1, Src: "missing.png"},
	})
	img := New().Render(sc, Options{})
	if got := img.RGBAAt(25, 10); got != placeholderBG {
		t.Fatalf("tile without loaded image = %v, want placeholder", got)
	}
}

func TestRenderTextLabelPaintsGlyphs(t *testing.T) {
	sc := testScene(scene.Shape{
		ID: "t", Kind: scene.KindDrawing,
		Drawing: &scene.Drawing{Type: scene.DrawText, X: 1, Y: 1, Text: "A", FontSize: 13},
	})
	img := New().Render(sc, Options{})
	dark := false
	for y := 50; y <= 64 && !dark; y++ {
		for x := 50; x <= 58; x++ {
			if img.RGBAAt(x, y).R < 100 {
				dark = true
				break
			}
		}
	}
	if !dark {
		t.Fatalf("expected dark glyph pixels near the text origin")
	}
}

func TestRenderRulerPaintsPath(t *testing.T) {
	sc := testScene(scene.Shape{
		ID: "r", Kind: scene.KindRuler,
		Ruler: &scene.Ruler{Waypoints: []geom.Pt{{X: 0.5, Y: 0.5}, {X: 2.5, Y: 0.5}}},
	})
	img := New().Render(sc, Options{})
	if got := img.RGBAAt(75, 25); got.R > 100 {
		t.Fatalf("expected ruler stroke along the path, got %v", got)
	}
}
