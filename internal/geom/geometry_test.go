/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import (
	"math"
	"testing"
)

func TestRectContainsAndExpand(t *testing.T) {
	r := R(10, 20, 100, 50)
	if !r.Contains(Pt{10, 20}) || !r.Contains(Pt{110, 70}) {
		t.Fatalf("expected edge points to be contained")
	}
	ex := r.Expand(5)
	if ex.X != 5 || ex.Y != 15 || ex.W != 110 || ex.H != 60 {
		t.Fatalf("unexpected expand: %+v", ex)
	}
}

func TestAffineBasic(t *testing.T) {
	m := Translate(10, 5).Mul(Scale(2, 3))
	p := m.Apply(Pt{1, 1})
	if p.X != 12 || p.Y != 8 { // (1*2+10, 1*3+5)
		t.Fatalf("unexpected transform result: %+v", p)
	}
}

func TestRotateAboutKeepsCenter(t *testing.T) {
	c := Pt{4, 6}
	m := RotateAbout(DegToRad(90), c)
	got := m.Apply(c)
	if math.Abs(got.X-c.X) > 1e-9 || math.Abs(got.Y-c.Y) > 1e-9 {
		t.Fatalf("center moved under rotation: %+v", got)
	}
	// a point one unit right of center should land one unit below it
	// (clockwise in screen space)
	q := m.Apply(Pt{5, 6})
	if math.Abs(q.X-4) > 1e-9 || math.Abs(q.Y-7) > 1e-9 {
		t.Fatalf("unexpected rotated point: %+v", q)
	}
}

func TestInvertRoundTrip(t *testing.T) {
	m := Translate(3, -2).Mul(Rotate(0.7)).Mul(Scale(2, 2))
	inv := m.Invert()
	p := Pt{1.5, -4.25}
	q := inv.Apply(m.Apply(p))
	if math.Abs(q.X-p.X) > 1e-9 || math.Abs(q.Y-p.Y) > 1e-9 {
		t.Fatalf("inverse round trip drifted: %+v vs %+v", q, p)
	}
}

func TestBoundsOf(t *testing.T) {
	b := BoundsOf([]Pt{{3, 4}, {-1, 2}, {5, -6}})
	if b.X != -1 || b.Y != -6 || b.W != 6 || b.H != 10 {
		t.Fatalf("unexpected bounds: %+v", b)
	}
	if z := BoundsOf(nil); z != (Rect{}) {
		t.Fatalf("expected zero rect for empty input, got %+v", z)
	}
}

func TestGridRoundTrip(t *testing.T) {
	g := Grid{Size: 50, Distance: 5, Units: "ft"}
	for _, u := range []float64{0, 1, 2.5, -3.75, 1234.5} {
		if got := g.PixelToGrid(g.GridToPixel(u)); math.Abs(got-u) > 1e-12 {
			t.Fatalf("round trip %v -> %v", u, got)
		}
	}
	p := g.PixelToGridPt(g.GridToPixelPt(Pt{7.25, -2}))
	if math.Abs(p.X-7.25) > 1e-12 || math.Abs(p.Y+2) > 1e-12 {
		t.Fatalf("point round trip drifted: %+v", p)
	}
}

func TestPolarOffset(t *testing.T) {
	p := PolarOffset(Pt{0, 0}, 10, 0)
	if math.Abs(p.X-10) > 1e-9 || math.Abs(p.Y) > 1e-9 {
		t.Fatalf("0 degrees should be +X: %+v", p)
	}
	p = PolarOffset(Pt{0, 0}, 10, 90)
	if math.Abs(p.X) > 1e-9 || math.Abs(p.Y-10) > 1e-9 {
		t.Fatalf("90 degrees should be +Y (screen down): %+v", p)
	}
}
