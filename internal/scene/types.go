/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package scene defines the data model for a tabletop scene: one tagged-union
// Shape covering every drawable entity, plus the Scene container that owns the
// ordered shape collection and grid metrics.
//
// All persisted coordinates and sizes are grid units, never pixels. Fields
// that a variant does not use are nil/absent; absent means "not applicable",
// not zero. The model serializes to a human-readable JSON manifest.
package scene

import (
	"gridscene/internal/geom"
)

// Kind discriminates the Shape union.
type Kind string

const (
	KindSegment  Kind = "segment" // wall, door or window edge
	KindRegion   Kind = "region"
	KindDrawing  Kind = "drawing"
	KindTemplate Kind = "template" // area-of-effect template
	KindTile     Kind = "tile"
	KindPin      Kind = "pin"
	KindRuler    Kind = "ruler" // ephemeral, not persisted
)

// Color is an 8-bit RGBA paint color.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

var (
	Black = Color{0, 0, 0, 255}
	White = Color{255, 255, 255, 255}
)

// Style carries the paint attributes shared by all variants. Alpha values are
// 0..1 and scale the color's own alpha at paint time.
type Style struct {
	FillColor   *Color  `json:"fillColor,omitempty"`
	StrokeColor *Color  `json:"strokeColor,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"` // pixels
	Alpha       float64 `json:"alpha,omitempty"`       // 0 means unset -> 1
	StrokeAlpha float64 `json:"strokeAlpha,omitempty"`
}

// Shape is the tagged union for every drawable entity. Exactly one payload
// pointer matching Kind is non-nil; the rest stay nil. Z governs paint and
// pick order within the collection (higher paints later / on top, ties break
// by insertion order).
type Shape struct {
	ID    string `json:"id"`
	Kind  Kind   `json:"kind"`
	Z     int    `json:"z,omitempty"`
	Style Style  `json:"style,omitempty"`

	Segment  *Segment  `json:"segment,omitempty"`
	Region   *Region   `json:"region,omitempty"`
	Drawing  *Drawing  `json:"drawing,omitempty"`
	Template *Template `json:"template,omitempty"`
	Tile     *Tile     `json:"tile,omitempty"`
	Pin      *Pin      `json:"pin,omitempty"`
	Ruler    *Ruler    `json:"ruler,omitempty"`
}

// SegmentKind distinguishes wall-layer edge types.
type SegmentKind string

const (
	SegmentWall   SegmentKind = "wall"
	SegmentDoor   SegmentKind = "door"
	SegmentWindow SegmentKind = "window"
)

// Segment is a wall/door/window edge between two endpoints. Curved segments
// carry quadratic control points.
type Segment struct {
	Kind  SegmentKind `json:"segmentKind"`
	X1    float64     `json:"x1"`
	Y1    float64     `json:"y1"`
	X2    float64     `json:"x2"`
	Y2    float64     `json:"y2"`
	Curve string      `json:"curve,omitempty"` // "straight" (default) or "curved"
	Ctrl  []geom.Pt   `json:"ctrl,omitempty"`  // control points when curved
	Open  bool        `json:"open,omitempty"`  // doors/windows only
}

// RegionShape enumerates region geometry forms.
type RegionShape string

const (
	RegionRect    RegionShape = "rectangle"
	RegionCircle  RegionShape = "circle"
	RegionEllipse RegionShape = "ellipse"
	RegionPolygon RegionShape = "polygon"
)

// Region is a named scene area (light zone, trigger, terrain patch).
type Region struct {
	Shape  RegionShape `json:"shape"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Width  *float64    `json:"width,omitempty"`
	Height *float64    `json:"height,omitempty"`
	Radius *float64    `json:"radius,omitempty"`
	Points []geom.Pt   `json:"points,omitempty"` // polygon only, >= 3
	Name   string      `json:"name,omitempty"`
}

// DrawingType enumerates freehand-layer drawing forms.
type DrawingType string

const (
	DrawFreehand DrawingType = "freehand"
	DrawRect     DrawingType = "rectangle"
	DrawCircle   DrawingType = "circle"
	DrawEllipse  DrawingType = "ellipse"
	DrawPolygon  DrawingType = "polygon"
	DrawText     DrawingType = "text"
)

// Drawing is a user sketch or text label on the drawing layer.
type Drawing struct {
	Type     DrawingType `json:"drawingType"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Points   []geom.Pt   `json:"points,omitempty"` // freehand >= 2, polygon >= 3
	Width    *float64    `json:"width,omitempty"`
	Height   *float64    `json:"height,omitempty"`
	Radius   *float64    `json:"radius,omitempty"`
	Text     string      `json:"text,omitempty"`
	FontSize float64     `json:"fontSize,omitempty"` // pixels; text only
}

// TemplateType enumerates area-of-effect template forms.
type TemplateType string

const (
	TemplateCircle TemplateType = "circle"
	TemplateCone   TemplateType = "cone"
	TemplateRay    TemplateType = "ray"
	TemplateRect   TemplateType = "rectangle"
)

// Template is a transient area-of-effect indicator. Distance is the template
// reach in grid units; Direction and Angle are degrees.
type Template struct {
	Type      TemplateType `json:"templateType"`
	X         float64      `json:"x"`
	Y         float64      `json:"y"`
	Distance  float64      `json:"distance"`
	Direction float64      `json:"direction,omitempty"`
	Angle     float64      `json:"angle,omitempty"` // cone only; 0 -> default 53
	Width     *float64     `json:"width,omitempty"` // ray/rectangle
}

// Tile is a placed image (map furniture, overhead roof, prop).
type Tile struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation,omitempty"` // degrees, about tile center
	Src      string  `json:"src,omitempty"`      // image URL, loaded async
	Tint     *Color  `json:"tint,omitempty"`
	Overhead bool    `json:"overhead,omitempty"`
	Roof     bool    `json:"roof,omitempty"`
}

// TextAnchor positions a pin label relative to its icon.
type TextAnchor string

const (
	AnchorTop    TextAnchor = "top"
	AnchorBottom TextAnchor = "bottom"
	AnchorLeft   TextAnchor = "left"
	AnchorRight  TextAnchor = "right"
)

// Pin is a map note marker.
type Pin struct {
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Icon       string     `json:"icon,omitempty"` // image URL
	IconSize   float64    `json:"iconSize,omitempty"`
	Text       string     `json:"text,omitempty"`
	TextAnchor TextAnchor `json:"textAnchor,omitempty"`
}

// Ruler is an ordered waypoint chain used for measurement. Ephemeral: rulers
// are never written to the manifest.
type Ruler struct {
	Waypoints []geom.Pt `json:"waypoints"`
}

// Scene is one map: grid metrics, canvas size in pixels, and the ordered
// shape collection. The engine never mutates Shapes during render/pick; the
// caller owns the collection and re-renders after changes.
type Scene struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Grid       geom.Grid `json:"grid"`
	Width      int       `json:"width"`  // canvas pixels
	Height     int       `json:"height"` // canvas pixels
	Background *Color    `json:"background,omitempty"`
	FogCell    float64   `json:"fogCell,omitempty"` // fog grid cell size, pixels
	Shapes     []Shape   `json:"shapes"`
	Notes      string    `json:"notes,omitempty"`
}

// ShapeByID returns a pointer into the collection, or nil.
func (s *Scene) ShapeByID(id string) *Shape {
	for i := range s.Shapes {
		if s.Shapes[i].ID == id {
			return &s.Shapes[i]
		}
	}
	return nil
}
