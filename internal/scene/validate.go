/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

// Geometry completeness checks. A shape whose required fields for its variant
// are missing is silently skipped by both renderer and hit-tester; degenerate
// input is never an error.

// Complete reports whether the shape carries all geometry its variant needs
// to be rendered or picked. Polygon forms need at least 3 points, freehand
// and ruler chains at least 2.
func (sh *Shape) Complete() bool {
	switch sh.Kind {
	case KindSegment:
		return sh.Segment != nil
	case KindRegion:
		r := sh.Region
		if r == nil {
			return false
		}
		switch r.Shape {
		case RegionRect:
			return r.Width != nil && r.Height != nil
		case RegionCircle:
			return r.Radius != nil
		case RegionEllipse:
			return r.Width != nil && r.Height != nil
		case RegionPolygon:
			return len(r.Points) >= 3
		}
		return false
	case KindDrawing:
		d := sh.Drawing
		if d == nil {
			return false
		}
		switch d.Type {
		case DrawFreehand:
			return len(d.Points) >= 2
		case DrawRect, DrawEllipse:
			return d.Width != nil && d.Height != nil
		case DrawCircle:
			return d.Radius != nil
		case DrawPolygon:
			return len(d.Points) >= 3
		case DrawText:
			return d.Text != "" && d.FontSize > 0
		}
		return false
	case KindTemplate:
		t := sh.Template
		if t == nil || t.Distance <= 0 {
			return false
		}
		switch t.Type {
		case TemplateCircle, TemplateCone, TemplateRay, TemplateRect:
			return true
		}
		return false
	case KindTile:
		return sh.Tile != nil && sh.Tile.Width > 0 && sh.Tile.Height > 0
	case KindPin:
		return sh.Pin != nil
	case KindRuler:
		return sh.Ruler != nil && len(sh.Ruler.Waypoints) >= 2
	}
	return false
}
