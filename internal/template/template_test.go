/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package template

import (
	"math"
	"testing"

	"gridscene/internal/geom"
	"gridscene/internal/scene"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestDeriveCircle(t *testing.T) {
	g := Derive(&scene.Template{Type: scene.TemplateCircle, X: 2, Y: 3, Distance: 4})
	if g.Radius != 4 || g.Center != (geom.Pt{X: 2, Y: 3}) {
		t.Fatalf("unexpected circle geometry: %+v", g)
	}
	b := g.Bounds()
	if b.X != -2 || b.Y != -1 || b.W != 8 || b.H != 8 {
		t.Fatalf("unexpected circle bounds: %+v", b)
	}
}

func TestConeRayEndpoints(t *testing.T) {
	left, right := ConeRays(geom.Pt{}, 10, 0, 60)
	// left/right rays at ∓30° from +X at radius 10
	if !approx(left.X, 10*math.Cos(geom.DegToRad(-30))) || !approx(left.Y, 10*math.Sin(geom.DegToRad(-30))) {
		t.Fatalf("unexpected left ray endpoint: %+v", left)
	}
	if !approx(right.X, left.X) || !approx(right.Y, -left.Y) {
		t.Fatalf("expected symmetric endpoints, got %+v / %+v", left, right)
	}
	if !approx(left.Dist(geom.Pt{}), 10) {
		t.Fatalf("endpoint radius = %v, want 10", left.Dist(geom.Pt{}))
	}
}

func TestDeriveConeStartsAtApexAndDefaultsAngle(t *testing.T) {
	g := Derive(&scene.Template{Type: scene.TemplateCone, Distance: 6})
	if len(g.Points) < 3 {
		t.Fatalf("cone outline too small: %d points", len(g.Points))
	}
	if g.Points[0] != (geom.Pt{}) {
		t.Fatalf("first point must be the apex, got %+v", g.Points[0])
	}
	// arc endpoints at ∓DefaultConeAngle/2
	first, last := g.Points[1], g.Points[len(g.Points)-1]
	wantL, wantR := ConeRays(geom.Pt{}, 6, 0, DefaultConeAngle)
	if !approx(first.X, wantL.X) || !approx(first.Y, wantL.Y) {
		t.Fatalf("arc start %+v, want %+v", first, wantL)
	}
	if !approx(last.X, wantR.X) || !approx(last.Y, wantR.Y) {
		t.Fatalf("arc end %+v, want %+v", last, wantR)
	}
	for _, p := range g.Points[1:] {
		if !approx(p.Dist(geom.Pt{}), 6) {
			t.Fatalf("arc point off radius: %+v", p)
		}
	}
}

func TestDeriveRayCorners(t *testing.T) {
	w := 2.0
	g := Derive(&scene.Template{Type: scene.TemplateRay, Distance: 10, Direction: 0, Width: &w})
	if len(g.Points) != 4 {
		t.Fatalf("ray should have 4 corners, got %d", len(g.Points))
	}
	want := []geom.Pt{{X: 0, Y: 1}, {X: 10, Y: 1}, {X: 10, Y: -1}, {X: 0, Y: -1}}
	for i, p := range g.Points {
		if !approx(p.X, want[i].X) || !approx(p.Y, want[i].Y) {
			t.Fatalf("corner %d = %+v, want %+v", i, p, want[i])
		}
	}
}

func TestDeriveRectFallsBackToDistanceWidth(t *testing.T) {
	g := Derive(&scene.Template{Type: scene.TemplateRect, X: 1, Y: 1, Distance: 3})
	b := g.Bounds()
	if b.W != 3 || b.H != 3 || b.X != 1 || b.Y != 1 {
		t.Fatalf("unexpected rect bounds: %+v", b)
	}
}

func TestDeriveDegenerate(t *testing.T) {
	if g := Derive(nil); len(g.Points) != 0 || g.Radius != 0 {
		t.Fatalf("nil template should derive empty geometry")
	}
	if g := Derive(&scene.Template{Type: scene.TemplateCircle}); g.Radius != 0 {
		t.Fatalf("zero distance should derive empty geometry")
	}
}
