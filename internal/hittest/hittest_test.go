/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package hittest

import (
	"testing"

	"gridscene/internal/geom"
	"gridscene/internal/scene"
)

func f(v float64) *float64 { return &v }

func tester() Tester { return Tester{Grid: geom.Grid{Size: 50, Distance: 5, Units: "ft"}} }

func TestPickEmptyCollection(t *testing.T) {
	if id, ok := tester().Pick(geom.Pt{X: 1, Y: 1}, nil, 0.1); ok || id != "" {
		t.Fatalf("pick over empty collection must miss, got %q", id)
	}
}

func TestPickMissClearsToNoMatch(t *testing.T) {
	shapes := []scene.Shape{
		{ID: "c", Kind: scene.KindRegion, Region: &scene.Region{Shape: scene.RegionCircle, X: 0, Y: 0, Radius: f(1)}},
	}
	if _, ok := tester().Pick(geom.Pt{X: 50, Y: 50}, shapes, 0.1); ok {
		t.Fatalf("far point must not match")
	}
}

func TestPickPrefersHigherZ(t *testing.T) {
	shapes := []scene.Shape{
		{ID: "low", Z: 1, Kind: scene.KindRegion, Region: &scene.Region{Shape: scene.RegionRect, X: 0, Y: 0, Width: f(4), Height: f(4)}},
		{ID: "high", Z: 2, Kind: scene.KindRegion, Region: &scene.Region{Shape: scene.RegionRect, X: 0, Y: 0, Width: f(4), Height: f(4)}},
	}
	id, ok := tester().Pick(geom.Pt{X: 2, Y: 2}, shapes, 0)
	if !ok || id != "high" {
		t.Fatalf("expected high-z shape, got %q ok=%v", id, ok)
	}
}

func TestPickTieBreaksByInsertionOrder(t *testing.T) {
	shapes := []scene.Shape{
		{ID: "first", Kind: scene.KindRegion, Region: &scene.Region{Shape: scene.RegionRect, X: 0, Y: 0, Width: f(4), Height: f(4)}},
		{ID: "second", Kind: scene.KindRegion, Region: &scene.Region{Shape: scene.RegionRect, X: 0, Y: 0, Width: f(4), Height: f(4)}},
	}
	id, _ := tester().Pick(geom.Pt{X: 2, Y: 2}, shapes, 0)
	if id != "second" {
		t.Fatalf("later-placed shape paints on top and picks first, got %q", id)
	}
}

func TestCircleContainmentBoundary(t *testing.T) {
	shapes := []scene.Shape{
		{ID: "c", Kind: scene.KindRegion, Region: &scene.Region{Shape: scene.RegionCircle, X: 0, Y: 0, Radius: f(2)}},
	}
	ht := tester()
	tol := 0.5
	if _, ok := ht.Pick(geom.Pt{X: 2.5, Y: 0}, shapes, tol); !ok {
		t.Fatalf("point exactly at radius+tolerance must be inside")
	}
	if _, ok := ht.Pick(geom.Pt{X: 2.5 + 1e-9, Y: 0}, shapes, tol); ok {
		t.Fatalf("point just beyond radius+tolerance must be outside")
	}
}

func TestSegmentBoundingBoxWithTolerance(t *testing.T) {
	shapes := []scene.Shape{
		{ID: "w", Kind: scene.KindSegment, Segment: &scene.Segment{Kind: scene.SegmentWall, X1: 0, Y1: 0, X2: 4, Y2: 0}},
	}
	ht := tester()
	if _, ok := ht.Pick(geom.Pt{X: 2, Y: 0.2}, shapes, 0.25); !ok {
		t.Fatalf("thin wall should be pickable within tolerance")
	}
	if _, ok := ht.Pick(geom.Pt{X: 2, Y: 0.5}, shapes, 0.25); ok {
		t.Fatalf("point outside tolerance band must miss")
	}
}

func TestEllipseAdditiveTolerance(t *testing.T) {
	shapes := []scene.Shape{
		{ID: "e", Kind: scene.KindRegion, Region: &scene.Region{Shape: scene.RegionEllipse, X: 0, Y: 0, Width: f(4), Height: f(2)}},
	}
	ht := tester()
	if _, ok := ht.Pick(geom.Pt{X: 2, Y: 1}, shapes, 0); !ok {
		t.Fatalf("ellipse center must hit")
	}
	// (dx/rx)² = 1.2 at x=4.19..; inside with tol=0.25 applied additively
	if _, ok := ht.Pick(geom.Pt{X: 4.19, Y: 1}, shapes, 0.25); !ok {
		t.Fatalf("point within additive tolerance must hit")
	}
	if _, ok := ht.Pick(geom.Pt{X: 4.5, Y: 1}, shapes, 0.1); ok {
		t.Fatalf("point beyond additive tolerance must miss")
	}
}

func TestPolygonUsesBoundingBox(t *testing.T) {
	// L-shaped polygon: the notch is outside the true outline but inside the
	// bbox; the approximation deliberately reports a hit there.
	shapes := []scene.Shape{
		{ID: "p", Kind: scene.KindRegion, Region: &scene.Region{Shape: scene.RegionPolygon, Points: []geom.Pt{
			{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 4}, {X: 0, Y: 4},
		}}},
	}
	if _, ok := tester().Pick(geom.Pt{X: 3, Y: 3}, shapes, 0); !ok {
		t.Fatalf("bbox approximation should hit inside the notch")
	}
}

func TestIncompleteShapesAreSkipped(t *testing.T) {
	shapes := []scene.Shape{
		{ID: "broken", Z: 5, Kind: scene.KindRegion, Region: &scene.Region{Shape: scene.RegionCircle}}, // nil radius
		{ID: "ok", Z: 1, Kind: scene.KindRegion, Region: &scene.Region{Shape: scene.RegionCircle, X: 0, Y: 0, Radius: f(3)}},
	}
	id, ok := tester().Pick(geom.Pt{X: 0, Y: 0}, shapes, 0)
	if !ok || id != "ok" {
		t.Fatalf("incomplete shape must be skipped silently, got %q ok=%v", id, ok)
	}
}

func TestTextApproximateBox(t *testing.T) {
	shapes := []scene.Shape{
		{ID: "t", Kind: scene.KindDrawing, Drawing: &scene.Drawing{Type: scene.DrawText, X: 1, Y: 1, Text: "Tavern", FontSize: 25}},
	}
	ht := tester()
	// width = 6 chars * 25px * 0.6 = 90px = 1.8 grid units; height = 0.5
	if _, ok := ht.Pick(geom.Pt{X: 2.5, Y: 1.25}, shapes, 0); !ok {
		t.Fatalf("point inside approximate text box must hit")
	}
	if _, ok := ht.Pick(geom.Pt{X: 3.2, Y: 1.25}, shapes, 0); ok {
		t.Fatalf("point past the approximate text box must miss")
	}
}

func TestPinCircularContainment(t *testing.T) {
	shapes := []scene.Shape{
		{ID: "pin", Kind: scene.KindPin, Pin: &scene.Pin{X: 5, Y: 5, IconSize: 50}}, // 1 grid unit -> radius 0.5
	}
	ht := tester()
	if _, ok := ht.Pick(geom.Pt{X: 5.4, Y: 5}, shapes, 0); !ok {
		t.Fatalf("point within pin icon radius must hit")
	}
	if _, ok := ht.Pick(geom.Pt{X: 5.8, Y: 5}, shapes, 0.1); ok {
		t.Fatalf("point beyond pin radius+tolerance must miss")
	}
}

func TestConeTemplateFallsBackToCircle(t *testing.T) {
	shapes := []scene.Shape{
		{ID: "cone", Kind: scene.KindTemplate, Template: &scene.Template{Type: scene.TemplateCone, X: 0, Y: 0, Distance: 5, Direction: 0}},
	}
	// directly behind the cone's aperture, but inside the circle approximation
	if _, ok := tester().Pick(geom.Pt{X: -3, Y: 0}, shapes, 0); !ok {
		t.Fatalf("cone picking uses the circle approximation")
	}
}

func TestRulerNeverPicks(t *testing.T) {
	shapes := []scene.Shape{
		{ID: "r", Kind: scene.KindRuler, Ruler: &scene.Ruler{Waypoints: []geom.Pt{{X: 0, Y: 0}, {X: 5, Y: 5}}}},
	}
	if _, ok := tester().Pick(geom.Pt{X: 2.5, Y: 2.5}, shapes, 1); ok {
		t.Fatalf("rulers are ephemeral and must not be pickable")
	}
}
