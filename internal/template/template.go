/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package template derives paintable geometry for area-of-effect templates
// (circle, cone, ray, rectangle) from origin, distance, direction and angle.
// All inputs are grid units and degrees; conversion to radians happens here.
package template

import (
	"math"

	"gridscene/internal/geom"
	"gridscene/internal/scene"
)

// DefaultConeAngle is the standard tabletop 5-foot-cone aperture in degrees.
const DefaultConeAngle = 53.0

// arcStepDeg controls cone arc tessellation.
const arcStepDeg = 5.0

// Geometry is the derived, paintable form of a template. Circles keep their
// analytic center/radius; the other variants are closed polygons.
type Geometry struct {
	Type   scene.TemplateType
	Center geom.Pt
	Radius float64   // circle only
	Points []geom.Pt // cone/ray/rectangle outline, closed implicitly
}

// Derive computes the concrete geometry for t. A nil or zero-distance
// template yields an empty Geometry that callers skip.
func Derive(t *scene.Template) Geometry {
	if t == nil || t.Distance <= 0 {
		return Geometry{}
	}
	origin := geom.Pt{X: t.X, Y: t.Y}
	switch t.Type {
	case scene.TemplateCircle:
		return Geometry{Type: t.Type, Center: origin, Radius: t.Distance}
	case scene.TemplateCone:
		return Geometry{Type: t.Type, Center: origin, Points: conePoints(origin, t.Distance, t.Direction, coneAngle(t))}
	case scene.TemplateRay:
		return Geometry{Type: t.Type, Center: origin, Points: rayCorners(origin, t.Distance, t.Direction, rayWidth(t))}
	case scene.TemplateRect:
		w := t.Distance
		if t.Width != nil && *t.Width > 0 {
			w = *t.Width
		}
		return Geometry{Type: t.Type, Center: origin, Points: []geom.Pt{
			origin,
			{X: origin.X + w, Y: origin.Y},
			{X: origin.X + w, Y: origin.Y + t.Distance},
			{X: origin.X, Y: origin.Y + t.Distance},
		}}
	}
	return Geometry{}
}

// Bounds returns the axis-aligned bounding box of the derived geometry.
func (g Geometry) Bounds() geom.Rect {
	if g.Type == scene.TemplateCircle {
		return geom.R(g.Center.X-g.Radius, g.Center.Y-g.Radius, 2*g.Radius, 2*g.Radius)
	}
	return geom.BoundsOf(g.Points)
}

// ConeRays returns the left and right ray endpoints of a cone template, at
// direction ∓ angle/2 and radius distance. Useful for placement previews.
func ConeRays(origin geom.Pt, distance, direction, angle float64) (left, right geom.Pt) {
	half := angle / 2
	left = geom.PolarOffset(origin, distance, direction-half)
	right = geom.PolarOffset(origin, distance, direction+half)
	return left, right
}

func coneAngle(t *scene.Template) float64 {
	if t.Angle > 0 {
		return t.Angle
	}
	return DefaultConeAngle
}

func rayWidth(t *scene.Template) float64 {
	if t.Width != nil && *t.Width > 0 {
		return *t.Width
	}
	return 1
}

// conePoints builds the filled cone outline: apex, then an arc sweep of
// radius dist from direction-angle/2 to direction+angle/2.
func conePoints(origin geom.Pt, dist, direction, angle float64) []geom.Pt {
	half := angle / 2
	from := direction - half
	to := direction + half
	pts := make([]geom.Pt, 0, int(angle/arcStepDeg)+3)
	pts = append(pts, origin)
	for a := from; a < to; a += arcStepDeg {
		pts = append(pts, geom.PolarOffset(origin, dist, a))
	}
	pts = append(pts, geom.PolarOffset(origin, dist, to))
	return pts
}

// rayCorners builds the four corners of a beam of length dist and width w
// anchored at origin along direction: each corner is offset perpendicular to
// the direction vector by w/2.
func rayCorners(origin geom.Pt, dist, direction, w float64) []geom.Pt {
	rad := geom.DegToRad(direction)
	dx, dy := math.Cos(rad), math.Sin(rad)
	// perpendicular unit vector
	px, py := -dy, dx
	h := w / 2
	end := geom.Pt{X: origin.X + dx*dist, Y: origin.Y + dy*dist}
	return []geom.Pt{
		{X: origin.X + px*h, Y: origin.Y + py*h},
		{X: end.X + px*h, Y: end.Y + py*h},
		{X: end.X - px*h, Y: end.Y - py*h},
		{X: origin.X - px*h, Y: origin.Y - py*h},
	}
}
