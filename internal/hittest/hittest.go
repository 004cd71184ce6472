/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package hittest resolves pointer positions to shapes. Pointer events arrive
// in grid units (callers convert pixels through geom.Grid first); the top-most
// shape whose containment test passes within the tolerance wins.
//
// Containment is deliberately approximate where the rendering geometry is
// expensive: polygons and freehand strokes test their bounding box, and cone
// and ray templates fall back to circle/rectangle approximations of their true
// outlines. Small or thin shapes stay easy to pick that way.
package hittest

import (
	"gridscene/internal/geom"
	"gridscene/internal/scene"
	"gridscene/internal/template"
)

// defaultPinIconPx matches the renderer's default pin icon size in pixels.
const defaultPinIconPx = 40

// Tester picks shapes for one scene's grid metrics.
type Tester struct {
	Grid geom.Grid
}

// Pick returns the id of the top-most shape containing p (grid units) within
// tol (grid units), or ("", false) when nothing matches. Shapes are tried in
// descending z order, insertion order reversed within equal z, so the shape
// painted last is found first. Incomplete shapes are skipped, never an error.
func (t Tester) Pick(p geom.Pt, shapes []scene.Shape, tol float64) (string, bool) {
	for _, i := range scene.PickOrder(shapes) {
		sh := &shapes[i]
		if !sh.Complete() {
			continue
		}
		if t.contains(sh, p, tol) {
			return sh.ID, true
		}
	}
	return "", false
}

func (t Tester) contains(sh *scene.Shape, p geom.Pt, tol float64) bool {
	switch sh.Kind {
	case scene.KindSegment:
		return segmentBounds(sh.Segment).Expand(tol).Contains(p)
	case scene.KindRegion:
		return t.regionContains(sh.Region, p, tol)
	case scene.KindDrawing:
		return t.drawingContains(sh.Drawing, p, tol)
	case scene.KindTemplate:
		return templateContains(sh.Template, p, tol)
	case scene.KindTile:
		tile := sh.Tile
		return geom.R(tile.X, tile.Y, tile.Width, tile.Height).Expand(tol).Contains(p)
	case scene.KindPin:
		pin := sh.Pin
		r := t.Grid.PixelToGrid(pin.IconSize) / 2
		if pin.IconSize <= 0 {
			r = t.Grid.PixelToGrid(defaultPinIconPx) / 2
		}
		return circleContains(geom.Pt{X: pin.X, Y: pin.Y}, r, p, tol)
	case scene.KindRuler:
		// rulers are ephemeral overlays, never pickable
		return false
	}
	return false
}

// segmentBounds covers the endpoints and any curve control points, matching
// the renderer's approximate extent for curved walls.
func segmentBounds(s *scene.Segment) geom.Rect {
	pts := make([]geom.Pt, 0, 2+len(s.Ctrl))
	pts = append(pts, geom.Pt{X: s.X1, Y: s.Y1}, geom.Pt{X: s.X2, Y: s.Y2})
	pts = append(pts, s.Ctrl...)
	return geom.BoundsOf(pts)
}

func (t Tester) regionContains(r *scene.Region, p geom.Pt, tol float64) bool {
	switch r.Shape {
	case scene.RegionRect:
		return geom.R(r.X, r.Y, *r.Width, *r.Height).Expand(tol).Contains(p)
	case scene.RegionCircle:
		return circleContains(geom.Pt{X: r.X, Y: r.Y}, *r.Radius, p, tol)
	case scene.RegionEllipse:
		return ellipseContains(r.X, r.Y, *r.Width, *r.Height, p, tol)
	case scene.RegionPolygon:
		// bounding-box approximation, not true point-in-polygon
		return geom.BoundsOf(r.Points).Expand(tol).Contains(p)
	}
	return false
}

func (t Tester) drawingContains(d *scene.Drawing, p geom.Pt, tol float64) bool {
	switch d.Type {
	case scene.DrawFreehand, scene.DrawPolygon:
		return geom.BoundsOf(d.Points).Expand(tol).Contains(p)
	case scene.DrawRect:
		return geom.R(d.X, d.Y, *d.Width, *d.Height).Expand(tol).Contains(p)
	case scene.DrawCircle:
		return circleContains(geom.Pt{X: d.X, Y: d.Y}, *d.Radius, p, tol)
	case scene.DrawEllipse:
		return ellipseContains(d.X, d.Y, *d.Width, *d.Height, p, tol)
	case scene.DrawText:
		// approximate box from glyph-count heuristics, converted to grid units
		w := t.Grid.PixelToGrid(float64(len(d.Text)) * d.FontSize * 0.6)
		h := t.Grid.PixelToGrid(d.FontSize)
		return geom.R(d.X, d.Y, w, h).Expand(tol).Contains(p)
	}
	return false
}

// templateContains keeps the historical approximations: circle and cone test
// a circle of radius distance, ray and rectangle test the outline's bounding
// box. The renderer draws the true cone/ray outlines; picking stays loose.
func templateContains(tp *scene.Template, p geom.Pt, tol float64) bool {
	switch tp.Type {
	case scene.TemplateCircle, scene.TemplateCone:
		return circleContains(geom.Pt{X: tp.X, Y: tp.Y}, tp.Distance, p, tol)
	case scene.TemplateRay, scene.TemplateRect:
		return template.Derive(tp).Bounds().Expand(tol).Contains(p)
	}
	return false
}

// circleContains: Euclidean distance from center ≤ radius + tol.
func circleContains(c geom.Pt, radius float64, p geom.Pt, tol float64) bool {
	return c.Dist(p) <= radius+tol
}

// ellipseContains applies the tolerance additively to the normalized
// quadratic form: (dx/rx)² + (dy/ry)² ≤ 1 + tol. Not geometrically exact,
// but cheap and stable for picking.
func ellipseContains(x, y, w, h float64, p geom.Pt, tol float64) bool {
	rx, ry := w/2, h/2
	if rx == 0 || ry == 0 {
		return false
	}
	dx := (p.X - (x + rx)) / rx
	dy := (p.Y - (y + ry)) / ry
	return dx*dx+dy*dy <= 1+tol
}
