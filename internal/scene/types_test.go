/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"encoding/json"
	"testing"

	"gridscene/internal/geom"
)

func f(v float64) *float64 { return &v }

func TestCompletePerVariant(t *testing.T) {
	cases := []struct {
		name string
		sh   Shape
		want bool
	}{
		{"wall ok", Shape{Kind: KindSegment, Segment: &Segment{Kind: SegmentWall, X2: 3}}, true},
		{"segment missing payload", Shape{Kind: KindSegment}, false},
		{"circle region with radius", Shape{Kind: KindRegion, Region: &Region{Shape: RegionCircle, Radius: f(2)}}, true},
		{"circle region nil radius", Shape{Kind: KindRegion, Region: &Region{Shape: RegionCircle}}, false},
		{"rect region needs both sizes", Shape{Kind: KindRegion, Region: &Region{Shape: RegionRect, Width: f(2)}}, false},
		{"polygon region two points", Shape{Kind: KindRegion, Region: &Region{Shape: RegionPolygon, Points: []geom.Pt{{}, {X: 1}}}}, false},
		{"polygon region three points", Shape{Kind: KindRegion, Region: &Region{Shape: RegionPolygon, Points: []geom.Pt{{}, {X: 1}, {Y: 1}}}}, true},
		{"freehand one point", Shape{Kind: KindDrawing, Drawing: &Drawing{Type: DrawFreehand, Points: []geom.Pt{{}}}}, false},
		{"freehand two points", Shape{Kind: KindDrawing, Drawing: &Drawing{Type: DrawFreehand, Points: []geom.Pt{{}, {X: 1}}}}, true},
		{"text without font size", Shape{Kind: KindDrawing, Drawing: &Drawing{Type: DrawText, Text: "Inn"}}, false},
		{"text ok", Shape{Kind: KindDrawing, Drawing: &Drawing{Type: DrawText, Text: "Inn", FontSize: 16}}, true},
		{"template zero distance", Shape{Kind: KindTemplate, Template: &Template{Type: TemplateCircle}}, false},
		{"template ok", Shape{Kind: KindTemplate, Template: &Template{Type: TemplateCone, Distance: 6}}, true},
		{"tile zero size", Shape{Kind: KindTile, Tile: &Tile{Width: 0, Height: 2}}, false},
		{"pin ok", Shape{Kind: KindPin, Pin: &Pin{X: 1, Y: 2}}, true},
		{"ruler single waypoint", Shape{Kind: KindRuler, Ruler: &Ruler{Waypoints: []geom.Pt{{}}}}, false},
	}
	for _, tc := range cases {
		if got := tc.sh.Complete(); got != tc.want {
			t.Errorf("%s: Complete() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestShapeJSONRoundTripKeepsAbsentFields(t *testing.T) {
	sh := Shape{ID: "r1", Kind: KindRegion, Region: &Region{Shape: RegionCircle, X: 2, Y: 3, Radius: f(1.5)}}
	b, err := json.Marshal(sh)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Shape
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Region == nil || got.Region.Radius == nil || *got.Region.Radius != 1.5 {
		t.Fatalf("radius lost in round trip: %+v", got.Region)
	}
	if got.Region.Width != nil || got.Region.Height != nil {
		t.Fatalf("absent fields must stay absent, got %+v", got.Region)
	}
	if got.Segment != nil || got.Drawing != nil {
		t.Fatalf("unrelated payloads must stay nil")
	}
}

func TestPaintAndPickOrder(t *testing.T) {
	shapes := []Shape{
		{ID: "a", Z: 0},
		{ID: "b", Z: 2},
		{ID: "c", Z: 1},
		{ID: "d", Z: 1}, // same z as c, placed later
	}
	paint := PaintOrder(shapes)
	wantPaint := []int{0, 2, 3, 1}
	for i := range wantPaint {
		if paint[i] != wantPaint[i] {
			t.Fatalf("paint order = %v, want %v", paint, wantPaint)
		}
	}
	pick := PickOrder(shapes)
	wantPick := []int{1, 3, 2, 0}
	for i := range wantPick {
		if pick[i] != wantPick[i] {
			t.Fatalf("pick order = %v, want %v", pick, wantPick)
		}
	}
}

func TestSceneShapeByID(t *testing.T) {
	sc := Scene{Shapes: []Shape{{ID: "x"}, {ID: "y"}}}
	if sc.ShapeByID("y") == nil {
		t.Fatalf("expected to find shape y")
	}
	if sc.ShapeByID("zzz") != nil {
		t.Fatalf("expected nil for unknown id")
	}
}
