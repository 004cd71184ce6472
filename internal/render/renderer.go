/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package render rasterizes a scene into an image.RGBA. Shapes paint in
// ascending z order (insertion order within equal z), then selection and
// hover outlines, then the fog overlay, then roof tiles. The renderer never
// mutates the scene.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"gridscene/internal/geom"
	"gridscene/internal/measure"
	"gridscene/internal/scene"
	"gridscene/internal/template"
	"gridscene/internal/textlayout"
)

// ImageSource resolves a tile or pin icon URL to a decoded image. A miss
// (still loading, failed, or no source configured) paints the placeholder.
type ImageSource interface {
	Image(url string) (image.Image, bool)
}

// Options selects per-frame render state on top of the scene data.
type Options struct {
	Selected string // shape id to outline as selected
	Hovered  string // shape id to outline as hovered
	ShowGrid bool
	Fog      FogState
}

// FogState is the subset of fog-of-war state the renderer reads. A fog.Grid
// satisfies it.
type FogState interface {
	Explored(i, j int) bool
	Revealed(i, j int) bool
}

const (
	defaultStrokeWidth = 2.0
	defaultPinIconPx   = 40.0
	labelPadPx         = 3
)

var (
	gridLineColor  = color.RGBA{0, 0, 0, 40}
	selectionColor = color.RGBA{58, 134, 255, 255}
	hoverColor     = color.RGBA{58, 134, 255, 140}
	templateFill   = scene.Color{R: 255, G: 140, B: 0, A: 90}
	templateStroke = scene.Color{R: 255, G: 140, B: 0, A: 255}
	pinFill        = scene.Color{R: 214, G: 40, B: 40, A: 255}
	placeholderBG  = color.RGBA{203, 203, 203, 255}
	placeholderFG  = color.RGBA{120, 120, 120, 255}
	fogHidden      = color.RGBA{0, 0, 0, 255}
	fogExplored    = color.RGBA{0, 0, 0, 150}
	labelBG        = color.RGBA{255, 255, 255, 210}
	rulerColor     = scene.Color{R: 34, G: 34, B: 34, A: 255}
)

// Renderer rasterizes scenes. The zero value works; Assets and Text are
// optional seams for image loading and label layout.
type Renderer struct {
	Assets ImageSource
	Text   *textlayout.Layouter
}

func New() *Renderer { return &Renderer{Text: textlayout.New(nil)} }

// Render paints the whole scene into a fresh image of the scene's canvas
// size.
func (r *Renderer) Render(sc *scene.Scene, opt Options) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, sc.Width, sc.Height))
	bg := scene.White
	if sc.Background != nil {
		bg = *sc.Background
	}
	draw.Draw(img, img.Bounds(), &image.Uniform{C: rgba(bg, 1)}, image.Point{}, draw.Src)

	if opt.ShowGrid && sc.Grid.Size > 0 {
		r.paintGridLines(img, sc)
	}

	var roofs []*scene.Shape
	for _, i := range scene.PaintOrder(sc.Shapes) {
		sh := &sc.Shapes[i]
		if !sh.Complete() {
			continue
		}
		if sh.Kind == scene.KindTile && sh.Tile.Roof {
			roofs = append(roofs, sh)
			continue
		}
		r.paintShape(img, sc.Grid, sh)
	}

	// decorations paint at full opacity regardless of the shape's alpha
	for i := range sc.Shapes {
		sh := &sc.Shapes[i]
		if sh.ID == opt.Selected && sh.Complete() {
			r.paintOutline(img, sc.Grid, sh, selectionColor, int(strokeWidth(sh))+2)
		} else if sh.ID == opt.Hovered && sh.Complete() {
			r.paintOutline(img, sc.Grid, sh, hoverColor, 1)
		}
	}

	if opt.Fog != nil {
		r.paintFog(img, sc, opt.Fog)
	}
	// roofs cover fog so hidden interiors still show their roof from outside
	for _, sh := range roofs {
		r.paintShape(img, sc.Grid, sh)
	}
	return img
}

func (r *Renderer) paintGridLines(img *image.RGBA, sc *scene.Scene) {
	step := sc.Grid.Size
	for x := 0.0; x <= float64(sc.Width); x += step {
		drawLine(img, int(x), 0, int(x), sc.Height-1, gridLineColor)
	}
	for y := 0.0; y <= float64(sc.Height); y += step {
		drawLine(img, 0, int(y), sc.Width-1, int(y), gridLineColor)
	}
}

func (r *Renderer) paintShape(img *image.RGBA, g geom.Grid, sh *scene.Shape) {
	switch sh.Kind {
	case scene.KindSegment:
		r.paintSegment(img, g, sh)
	case scene.KindRegion:
		r.paintRegion(img, g, sh)
	case scene.KindDrawing:
		r.paintDrawing(img, g, sh)
	case scene.KindTemplate:
		r.paintTemplate(img, g, sh)
	case scene.KindTile:
		r.paintTile(img, g, sh)
	case scene.KindPin:
		r.paintPin(img, g, sh)
	case scene.KindRuler:
		r.paintRuler(img, g, sh)
	}
}

func (r *Renderer) paintSegment(img *image.RGBA, g geom.Grid, sh *scene.Shape) {
	s := sh.Segment
	col := strokeColor(sh, scene.Black)
	alpha := strokeAlpha(sh)
	// open doors and windows paint see-through
	if s.Open || s.Kind == scene.SegmentWindow {
		alpha *= 0.45
	}
	w := strokeWidth(sh)
	x0, y0 := g.GridToPixel(s.X1), g.GridToPixel(s.Y1)
	x1, y1 := g.GridToPixel(s.X2), g.GridToPixel(s.Y2)
	c := rgba(col, alpha)
	if s.Curve == "curved" && len(s.Ctrl) > 0 {
		cp := g.GridToPixelPt(s.Ctrl[0])
		quadBezier(img, x0, y0, cp.X, cp.Y, x1, y1, w, c)
		return
	}
	drawThickLine(img, int(math.Round(x0)), int(math.Round(y0)), int(math.Round(x1)), int(math.Round(y1)), w, c)
}

func (r *Renderer) paintRegion(img *image.RGBA, g geom.Grid, sh *scene.Shape) {
	re := sh.Region
	fill, hasFill := fillColor(sh)
	stroke := strokeColor(sh, scene.Black)
	fa, sa := fillAlpha(sh), strokeAlpha(sh)
	w := strokeWidth(sh)
	switch re.Shape {
	case scene.RegionRect:
		x0, y0 := g.GridToPixel(re.X), g.GridToPixel(re.Y)
		x1, y1 := g.GridToPixel(re.X+*re.Width), g.GridToPixel(re.Y+*re.Height)
		if hasFill {
			fillRect(img, round(x0), round(y0), round(x1), round(y1), rgba(fill, fa))
		}
		strokeRectW(img, round(x0), round(y0), round(x1), round(y1), int(w), rgba(stroke, sa))
	case scene.RegionCircle:
		cx, cy := g.GridToPixel(re.X), g.GridToPixel(re.Y)
		rad := g.GridToPixel(*re.Radius)
		if hasFill {
			fillCircle(img, cx, cy, rad, rgba(fill, fa))
		}
		strokeCircle(img, cx, cy, rad, rgba(stroke, sa))
	case scene.RegionEllipse:
		rx, ry := g.GridToPixel(*re.Width)/2, g.GridToPixel(*re.Height)/2
		cx, cy := g.GridToPixel(re.X)+rx, g.GridToPixel(re.Y)+ry
		if hasFill {
			fillEllipse(img, cx, cy, rx, ry, rgba(fill, fa))
		}
		strokeEllipse(img, cx, cy, rx, ry, rgba(stroke, sa))
	case scene.RegionPolygon:
		pts := toPixelPoly(g, re.Points)
		if hasFill {
			fillPolygon(img, pts, rgba(fill, fa))
		}
		strokePolyline(img, pts, w, true, rgba(stroke, sa))
	}
}

func (r *Renderer) paintDrawing(img *image.RGBA, g geom.Grid, sh *scene.Shape) {
	d := sh.Drawing
	fill, hasFill := fillColor(sh)
	stroke := strokeColor(sh, scene.Black)
	fa, sa := fillAlpha(sh), strokeAlpha(sh)
	w := strokeWidth(sh)
	switch d.Type {
	case scene.DrawFreehand:
		strokePolyline(img, toPixelPoly(g, d.Points), w, false, rgba(stroke, sa))
	case scene.DrawPolygon:
		pts := toPixelPoly(g, d.Points)
		if hasFill {
			fillPolygon(img, pts, rgba(fill, fa))
		}
		strokePolyline(img, pts, w, true, rgba(stroke, sa))
	case scene.DrawRect:
		x0, y0 := g.GridToPixel(d.X), g.GridToPixel(d.Y)
		x1, y1 := g.GridToPixel(d.X+*d.Width), g.GridToPixel(d.Y+*d.Height)
		if hasFill {
			fillRect(img, round(x0), round(y0), round(x1), round(y1), rgba(fill, fa))
		}
		strokeRectW(img, round(x0), round(y0), round(x1), round(y1), int(w), rgba(stroke, sa))
	case scene.DrawCircle:
		cx, cy := g.GridToPixel(d.X), g.GridToPixel(d.Y)
		rad := g.GridToPixel(*d.Radius)
		if hasFill {
			fillCircle(img, cx, cy, rad, rgba(fill, fa))
		}
		strokeCircle(img, cx, cy, rad, rgba(stroke, sa))
	case scene.DrawEllipse:
		rx, ry := g.GridToPixel(*d.Width)/2, g.GridToPixel(*d.Height)/2
		cx, cy := g.GridToPixel(d.X)+rx, g.GridToPixel(d.Y)+ry
		if hasFill {
			fillEllipse(img, cx, cy, rx, ry, rgba(fill, fa))
		}
		strokeEllipse(img, cx, cy, rx, ry, rgba(stroke, sa))
	case scene.DrawText:
		r.paintLabel(img, g.GridToPixel(d.X), g.GridToPixel(d.Y), d.Text, rgba(stroke, sa))
	}
}

func (r *Renderer) paintTemplate(img *image.RGBA, g geom.Grid, sh *scene.Shape) {
	geo := template.Derive(sh.Template)
	fill, hasFill := fillColor(sh)
	if !hasFill {
		fill = templateFill
	}
	stroke := strokeColor(sh, templateStroke)
	fa, sa := fillAlpha(sh), strokeAlpha(sh)
	w := strokeWidth(sh)
	if geo.Type == scene.TemplateCircle {
		cx, cy := g.GridToPixel(geo.Center.X), g.GridToPixel(geo.Center.Y)
		rad := g.GridToPixel(geo.Radius)
		fillCircle(img, cx, cy, rad, rgba(fill, fa))
		strokeCircle(img, cx, cy, rad, rgba(stroke, sa))
		return
	}
	pts := toPixelPoly(g, geo.Points)
	fillPolygon(img, pts, rgba(fill, fa))
	strokePolyline(img, pts, w, true, rgba(stroke, sa))
}

func (r *Renderer) paintTile(img *image.RGBA, g geom.Grid, sh *scene.Shape) {
	t := sh.Tile
	rect := geom.R(g.GridToPixel(t.X), g.GridToPixel(t.Y), g.GridToPixel(t.Width), g.GridToPixel(t.Height))
	var src image.Image
	if r.Assets != nil && t.Src != "" {
		src, _ = r.Assets.Image(t.Src)
	}
	rot := geom.DegToRad(t.Rotation)
	if src == nil {
		r.paintTilePlaceholder(img, rect, rot)
		return
	}
	drawImageInRect(img, src, rect, rot, t.Tint, fillAlpha(sh))
}

// paintTilePlaceholder draws a gray box with a diagonal cross where the tile
// image would go (missing, still loading, or failed).
func (r *Renderer) paintTilePlaceholder(img *image.RGBA, rect geom.Rect, rot float64) {
	corners := rectCorners(rect, rot)
	pts := make([][2]float64, len(corners))
	for i, p := range corners {
		pts[i] = [2]float64{p.X, p.Y}
	}
	fillPolygon(img, pts, placeholderBG)
	strokePolyline(img, pts, 1, true, placeholderFG)
	drawLine(img, round(corners[0].X), round(corners[0].Y), round(corners[2].X), round(corners[2].Y), placeholderFG)
	drawLine(img, round(corners[1].X), round(corners[1].Y), round(corners[3].X), round(corners[3].Y), placeholderFG)
}

func (r *Renderer) paintPin(img *image.RGBA, g geom.Grid, sh *scene.Shape) {
	p := sh.Pin
	cx, cy := g.GridToPixel(p.X), g.GridToPixel(p.Y)
	size := p.IconSize
	if size <= 0 {
		size = defaultPinIconPx
	}
	rad := size / 2

	var icon image.Image
	if r.Assets != nil && p.Icon != "" {
		icon, _ = r.Assets.Image(p.Icon)
	}
	if icon != nil {
		rect := geom.R(cx-rad, cy-rad, size, size)
		drawImageInRect(img, icon, rect, 0, nil, fillAlpha(sh))
	} else {
		fill, hasFill := fillColor(sh)
		if !hasFill {
			fill = pinFill
		}
		fillCircle(img, cx, cy, rad, rgba(fill, fillAlpha(sh)))
		strokeCircle(img, cx, cy, rad, rgba(scene.White, 1))
	}

	if p.Text != "" {
		r.paintAnchoredLabel(img, cx, cy, rad, p.Text, p.TextAnchor)
	}
}

func (r *Renderer) paintRuler(img *image.RGBA, g geom.Grid, sh *scene.Shape) {
	ru := sh.Ruler
	pts := toPixelPoly(g, ru.Waypoints)
	strokePolyline(img, pts, 2, false, rgba(rulerColor, 1))
	for _, p := range pts {
		fillCircle(img, p[0], p[1], 4, rgba(rulerColor, 1))
	}
	res := measure.Measure(ru.Waypoints, g)
	last := pts[len(pts)-1]
	r.paintLabel(img, last[0]+8, last[1]-8, measure.Label(res.Total, g), rgba(scene.Black, 1))
}

// paintOutline re-strokes the shape's own outline as a selection or hover
// decoration, at full opacity and the given width.
func (r *Renderer) paintOutline(img *image.RGBA, g geom.Grid, sh *scene.Shape, col color.RGBA, w int) {
	wf := float64(w)
	switch sh.Kind {
	case scene.KindSegment:
		s := sh.Segment
		x0, y0 := g.GridToPixel(s.X1), g.GridToPixel(s.Y1)
		x1, y1 := g.GridToPixel(s.X2), g.GridToPixel(s.Y2)
		if s.Curve == "curved" && len(s.Ctrl) > 0 {
			cp := g.GridToPixelPt(s.Ctrl[0])
			quadBezier(img, x0, y0, cp.X, cp.Y, x1, y1, wf, col)
			return
		}
		drawThickLine(img, round(x0), round(y0), round(x1), round(y1), wf, col)
	case scene.KindRegion:
		re := sh.Region
		switch re.Shape {
		case scene.RegionRect:
			strokeRectW(img, round(g.GridToPixel(re.X)), round(g.GridToPixel(re.Y)),
				round(g.GridToPixel(re.X+*re.Width)), round(g.GridToPixel(re.Y+*re.Height)), w, col)
		case scene.RegionCircle:
			strokeCircleW(img, g.GridToPixel(re.X), g.GridToPixel(re.Y), g.GridToPixel(*re.Radius), w, col)
		case scene.RegionEllipse:
			rx, ry := g.GridToPixel(*re.Width)/2, g.GridToPixel(*re.Height)/2
			strokeEllipseW(img, g.GridToPixel(re.X)+rx, g.GridToPixel(re.Y)+ry, rx, ry, w, col)
		case scene.RegionPolygon:
			strokePolyline(img, toPixelPoly(g, re.Points), wf, true, col)
		}
	case scene.KindDrawing:
		d := sh.Drawing
		switch d.Type {
		case scene.DrawFreehand:
			strokePolyline(img, toPixelPoly(g, d.Points), wf, false, col)
		case scene.DrawPolygon:
			strokePolyline(img, toPixelPoly(g, d.Points), wf, true, col)
		case scene.DrawRect:
			strokeRectW(img, round(g.GridToPixel(d.X)), round(g.GridToPixel(d.Y)),
				round(g.GridToPixel(d.X+*d.Width)), round(g.GridToPixel(d.Y+*d.Height)), w, col)
		case scene.DrawCircle:
			strokeCircleW(img, g.GridToPixel(d.X), g.GridToPixel(d.Y), g.GridToPixel(*d.Radius), w, col)
		case scene.DrawEllipse:
			rx, ry := g.GridToPixel(*d.Width)/2, g.GridToPixel(*d.Height)/2
			strokeEllipseW(img, g.GridToPixel(d.X)+rx, g.GridToPixel(d.Y)+ry, rx, ry, w, col)
		case scene.DrawText:
			// text has no outline of its own; decorate its approximate box
			b := shapeBounds(g, sh)
			strokeRectW(img, round(b.X), round(b.Y), round(b.X+b.W), round(b.Y+b.H), w, col)
		}
	case scene.KindTemplate:
		geo := template.Derive(sh.Template)
		if geo.Type == scene.TemplateCircle {
			strokeCircleW(img, g.GridToPixel(geo.Center.X), g.GridToPixel(geo.Center.Y), g.GridToPixel(geo.Radius), w, col)
			return
		}
		strokePolyline(img, toPixelPoly(g, geo.Points), wf, true, col)
	case scene.KindTile:
		t := sh.Tile
		rect := geom.R(g.GridToPixel(t.X), g.GridToPixel(t.Y), g.GridToPixel(t.Width), g.GridToPixel(t.Height))
		corners := rectCorners(rect, geom.DegToRad(t.Rotation))
		pts := make([][2]float64, len(corners))
		for i, p := range corners {
			pts[i] = [2]float64{p.X, p.Y}
		}
		strokePolyline(img, pts, wf, true, col)
	case scene.KindPin:
		p := sh.Pin
		size := p.IconSize
		if size <= 0 {
			size = defaultPinIconPx
		}
		strokeCircleW(img, g.GridToPixel(p.X), g.GridToPixel(p.Y), size/2, w, col)
	case scene.KindRuler:
		strokePolyline(img, toPixelPoly(g, sh.Ruler.Waypoints), wf, false, col)
	}
}

func (r *Renderer) paintFog(img *image.RGBA, sc *scene.Scene, f FogState) {
	cell := sc.FogCell
	if cell <= 0 {
		cell = sc.Grid.Size
	}
	if cell <= 0 {
		return
	}
	cols := int(math.Ceil(float64(sc.Width) / cell))
	rows := int(math.Ceil(float64(sc.Height) / cell))
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			var col color.RGBA
			switch {
			case !f.Explored(i, j):
				col = fogHidden
			case !f.Revealed(i, j):
				col = fogExplored
			default:
				continue
			}
			x0 := int(float64(i) * cell)
			y0 := int(float64(j) * cell)
			x1 := int(float64(i+1)*cell) - 1
			y1 := int(float64(j+1)*cell) - 1
			fillRect(img, x0, y0, x1, y1, col)
		}
	}
}

// paintLabel draws text at (x,y) top-left with a translucent backing box.
func (r *Renderer) paintLabel(img *image.RGBA, x, y float64, text string, col color.RGBA) {
	lay := r.text()
	lab := lay.Layout(text, 0)
	x0, y0 := round(x)-labelPadPx, round(y)-labelPadPx
	x1 := round(x+lab.Width) + labelPadPx
	y1 := round(y+lab.Height) + labelPadPx
	fillRect(img, x0, y0, x1, y1, labelBG)

	face, met := resolveFace(lay)
	d := &font.Drawer{Dst: img, Src: image.NewUniform(col), Face: face}
	baseline := y + met.Ascent
	for _, line := range lab.Lines {
		d.Dot = fixed.P(round(x), round(baseline))
		d.DrawString(line)
		baseline += met.LineHeight()
	}
}

func (r *Renderer) paintAnchoredLabel(img *image.RGBA, cx, cy, rad float64, text string, anchor scene.TextAnchor) {
	lay := r.text()
	lab := lay.Layout(text, 0)
	var x, y float64
	switch anchor {
	case scene.AnchorTop:
		x, y = cx-lab.Width/2, cy-rad-lab.Height-2*labelPadPx
	case scene.AnchorLeft:
		x, y = cx-rad-lab.Width-2*labelPadPx, cy-lab.Height/2
	case scene.AnchorRight:
		x, y = cx+rad+2*labelPadPx, cy-lab.Height/2
	default: // bottom
		x, y = cx-lab.Width/2, cy+rad+2*labelPadPx
	}
	r.paintLabel(img, x, y, text, rgba(scene.Black, 1))
}

func (r *Renderer) text() *textlayout.Layouter {
	if r.Text != nil {
		return r.Text
	}
	return textlayout.New(nil)
}

func resolveFace(l *textlayout.Layouter) (font.Face, textlayout.Metrics) {
	p := l.Provider
	if p == nil {
		p = textlayout.BasicProvider{}
	}
	return p.Resolve()
}

// drawImageInRect samples src into the (possibly rotated) destination rect
// with nearest-neighbor inverse mapping.
func drawImageInRect(img *image.RGBA, src image.Image, rect geom.Rect, rot float64, tint *scene.Color, alpha float64) {
	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 || rect.W <= 0 || rect.H <= 0 {
		return
	}
	inv := geom.RotateAbout(rot, rect.Center()).Invert()
	outline := rectCorners(rect, rot)
	bounds := geom.BoundsOf(outline)
	for y := int(math.Floor(bounds.Y)); y <= int(math.Ceil(bounds.Y+bounds.H)); y++ {
		for x := int(math.Floor(bounds.X)); x <= int(math.Ceil(bounds.X+bounds.W)); x++ {
			local := inv.Apply(geom.Pt{X: float64(x), Y: float64(y)})
			u := (local.X - rect.X) / rect.W
			v := (local.Y - rect.Y) / rect.H
			if u < 0 || u >= 1 || v < 0 || v >= 1 {
				continue
			}
			sx := sb.Min.X + int(u*float64(sb.Dx()))
			sy := sb.Min.Y + int(v*float64(sb.Dy()))
			cr, cg, cb, ca := src.At(sx, sy).RGBA()
			col := color.RGBA{uint8(cr >> 8), uint8(cg >> 8), uint8(cb >> 8), uint8(ca >> 8)}
			if tint != nil {
				col.R = uint8(uint32(col.R) * uint32(tint.R) / 255)
				col.G = uint8(uint32(col.G) * uint32(tint.G) / 255)
				col.B = uint8(uint32(col.B) * uint32(tint.B) / 255)
			}
			if alpha < 1 {
				col.A = uint8(float64(col.A) * alpha)
			}
			blendPx(img, x, y, col)
		}
	}
}

// rectCorners returns the rect's corners rotated about its center.
func rectCorners(rect geom.Rect, rot float64) []geom.Pt {
	m := geom.RotateAbout(rot, rect.Center())
	return []geom.Pt{
		m.Apply(rect.Min()),
		m.Apply(geom.Pt{X: rect.X + rect.W, Y: rect.Y}),
		m.Apply(rect.Max()),
		m.Apply(geom.Pt{X: rect.X, Y: rect.Y + rect.H}),
	}
}

// shapeBounds returns the pixel-space bounding box used for decorations.
func shapeBounds(g geom.Grid, sh *scene.Shape) geom.Rect {
	var b geom.Rect
	switch sh.Kind {
	case scene.KindSegment:
		s := sh.Segment
		pts := append([]geom.Pt{{X: s.X1, Y: s.Y1}, {X: s.X2, Y: s.Y2}}, s.Ctrl...)
		b = geom.BoundsOf(pts)
	case scene.KindRegion:
		re := sh.Region
		switch re.Shape {
		case scene.RegionRect:
			b = geom.R(re.X, re.Y, *re.Width, *re.Height)
		case scene.RegionCircle:
			b = geom.R(re.X-*re.Radius, re.Y-*re.Radius, 2*(*re.Radius), 2*(*re.Radius))
		case scene.RegionEllipse:
			b = geom.R(re.X, re.Y, *re.Width, *re.Height)
		case scene.RegionPolygon:
			b = geom.BoundsOf(re.Points)
		}
	case scene.KindDrawing:
		d := sh.Drawing
		switch d.Type {
		case scene.DrawFreehand, scene.DrawPolygon:
			b = geom.BoundsOf(d.Points)
		case scene.DrawRect:
			b = geom.R(d.X, d.Y, *d.Width, *d.Height)
		case scene.DrawCircle:
			b = geom.R(d.X-*d.Radius, d.Y-*d.Radius, 2*(*d.Radius), 2*(*d.Radius))
		case scene.DrawEllipse:
			b = geom.R(d.X, d.Y, *d.Width, *d.Height)
		case scene.DrawText:
			w := g.PixelToGrid(float64(len(d.Text)) * d.FontSize * 0.6)
			h := g.PixelToGrid(d.FontSize)
			b = geom.R(d.X, d.Y, w, h)
		}
	case scene.KindTemplate:
		b = template.Derive(sh.Template).Bounds()
	case scene.KindTile:
		t := sh.Tile
		b = geom.BoundsOf(rectCorners(geom.R(t.X, t.Y, t.Width, t.Height), geom.DegToRad(t.Rotation)))
	case scene.KindPin:
		p := sh.Pin
		size := p.IconSize
		if size <= 0 {
			size = defaultPinIconPx
		}
		rg := g.PixelToGrid(size) / 2
		b = geom.R(p.X-rg, p.Y-rg, 2*rg, 2*rg)
	case scene.KindRuler:
		b = geom.BoundsOf(sh.Ruler.Waypoints)
	}
	return geom.R(g.GridToPixel(b.X), g.GridToPixel(b.Y), g.GridToPixel(b.W), g.GridToPixel(b.H))
}

// style accessors: zero alpha means unset and defaults to fully opaque.

func fillColor(sh *scene.Shape) (scene.Color, bool) {
	if sh.Style.FillColor != nil {
		return *sh.Style.FillColor, true
	}
	return scene.Color{}, false
}

func strokeColor(sh *scene.Shape, def scene.Color) scene.Color {
	if sh.Style.StrokeColor != nil {
		return *sh.Style.StrokeColor
	}
	return def
}

func strokeWidth(sh *scene.Shape) float64 {
	if sh.Style.StrokeWidth > 0 {
		return sh.Style.StrokeWidth
	}
	return defaultStrokeWidth
}

func fillAlpha(sh *scene.Shape) float64 {
	if sh.Style.Alpha > 0 {
		return sh.Style.Alpha
	}
	return 1
}

func strokeAlpha(sh *scene.Shape) float64 {
	if sh.Style.StrokeAlpha > 0 {
		return sh.Style.StrokeAlpha
	}
	return 1
}

// rgba scales the color's own alpha by the style alpha multiplier.
func rgba(c scene.Color, alpha float64) color.RGBA {
	if alpha >= 1 {
		return color.RGBA{c.R, c.G, c.B, c.A}
	}
	if alpha < 0 {
		alpha = 0
	}
	return color.RGBA{c.R, c.G, c.B, uint8(float64(c.A) * alpha)}
}

func toPixelPoly(g geom.Grid, pts []geom.Pt) [][2]float64 {
	out := make([][2]float64, len(pts))
	for i, p := range pts {
		out[i] = [2]float64{g.GridToPixel(p.X), g.GridToPixel(p.Y)}
	}
	return out
}

func round(v float64) int { return int(math.Round(v)) }
