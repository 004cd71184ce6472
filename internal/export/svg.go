/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gridscene/internal/geom"
	"gridscene/internal/measure"
	"gridscene/internal/scene"
	"gridscene/internal/storage"
	"gridscene/internal/template"
)

// SVGOptions controls vector scene export. Coordinates in the output are
// scene pixels; grid-unit geometry is converted through the scene's grid.
//
//nolint:revive // clarity is preferred
type SVGOptions struct {
	ShowGrid bool
	Scenes   []string
}

// ExportSceneSVGs writes each selected scene as scene-<id>.svg under outDir
// (relative paths resolve under the campaign's exports folder).
func ExportSceneSVGs(ch *storage.CampaignHandle, outDir string, opt SVGOptions) error {
	if ch == nil {
		return fmt.Errorf("campaign handle is nil")
	}
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(ch.Root, "exports", outDir)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	for _, sc := range scenesToExport(ch, opt.Scenes) {
		data, err := sceneSVG(sc, opt)
		if err != nil {
			return fmt.Errorf("scene %s: %w", sc.ID, err)
		}
		name := filepath.Join(outDir, fmt.Sprintf("scene-%s.svg", sc.ID))
		if err := os.WriteFile(name, data, 0o644); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
	}
	return nil
}

// sceneSVG builds the SVG document for one scene. Shapes emit in paint order
// so stacking matches the raster renderer.
func sceneSVG(sc *scene.Scene, opt SVGOptions) ([]byte, error) {
	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%dpx\" height=\"%dpx\" viewBox=\"0 0 %d %d\">\n", sc.Width, sc.Height, sc.Width, sc.Height)

	bg := scene.White
	if sc.Background != nil {
		bg = *sc.Background
	}
	wf("  <rect x=\"0\" y=\"0\" width=\"%d\" height=\"%d\" fill=\"%s\"/>\n", sc.Width, sc.Height, svgColor(bg))

	if opt.ShowGrid && sc.Grid.Size > 0 {
		wf("  <g stroke=\"#000\" stroke-opacity=\"0.16\" stroke-width=\"1\">\n")
		for x := 0.0; x <= float64(sc.Width); x += sc.Grid.Size {
			wf("    <line x1=\"%g\" y1=\"0\" x2=\"%g\" y2=\"%d\"/>\n", x, x, sc.Height)
		}
		for y := 0.0; y <= float64(sc.Height); y += sc.Grid.Size {
			wf("    <line x1=\"0\" y1=\"%g\" x2=\"%d\" y2=\"%g\"/>\n", y, sc.Width, y)
		}
		wf("  </g>\n")
	}

	for _, i := range scene.PaintOrder(sc.Shapes) {
		sh := &sc.Shapes[i]
		if !sh.Complete() {
			continue
		}
		writeShapeSVG(wf, sc.Grid, sh)
	}

	wf("</svg>\n")
	if werr != nil {
		return nil, fmt.Errorf("build svg: %w", werr)
	}
	return buf.Bytes(), nil
}

func writeShapeSVG(wf func(string, ...any), g geom.Grid, sh *scene.Shape) {
	switch sh.Kind {
	case scene.KindSegment:
		writeSegmentSVG(wf, g, sh)
	case scene.KindRegion:
		writeRegionSVG(wf, g, sh)
	case scene.KindDrawing:
		writeDrawingSVG(wf, g, sh)
	case scene.KindTemplate:
		writeTemplateSVG(wf, g, sh)
	case scene.KindTile:
		writeTileSVG(wf, g, sh)
	case scene.KindPin:
		writePinSVG(wf, g, sh)
	case scene.KindRuler:
		writeRulerSVG(wf, g, sh)
	}
}

func writeSegmentSVG(wf func(string, ...any), g geom.Grid, sh *scene.Shape) {
	s := sh.Segment
	col := svgStroke(sh, scene.Black)
	op := svgStrokeAlpha(sh)
	if s.Open || s.Kind == scene.SegmentWindow {
		op *= 0.45
	}
	w := svgStrokeWidth(sh)
	x0, y0 := g.GridToPixel(s.X1), g.GridToPixel(s.Y1)
	x1, y1 := g.GridToPixel(s.X2), g.GridToPixel(s.Y2)
	if s.Curve == "curved" && len(s.Ctrl) > 0 {
		cp := g.GridToPixelPt(s.Ctrl[0])
		wf("  <path d=\"M %g %g Q %g %g %g %g\" fill=\"none\" stroke=\"%s\" stroke-opacity=\"%g\" stroke-width=\"%g\"/>\n", x0, y0, cp.X, cp.Y, x1, y1, col, op, w)
		return
	}
	wf("  <line x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" stroke=\"%s\" stroke-opacity=\"%g\" stroke-width=\"%g\"/>\n", x0, y0, x1, y1, col, op, w)
}

func writeRegionSVG(wf func(string, ...any), g geom.Grid, sh *scene.Shape) {
	re := sh.Region
	fill, fop := svgFill(sh)
	stroke := svgStroke(sh, scene.Black)
	sop := svgStrokeAlpha(sh)
	w := svgStrokeWidth(sh)
	switch re.Shape {
	case scene.RegionRect:
		wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\" fill-opacity=\"%g\" stroke=\"%s\" stroke-opacity=\"%g\" stroke-width=\"%g\"/>\n",
			g.GridToPixel(re.X), g.GridToPixel(re.Y), g.GridToPixel(*re.Width), g.GridToPixel(*re.Height), fill, fop, stroke, sop, w)
	case scene.RegionCircle:
		wf("  <circle cx=\"%g\" cy=\"%g\" r=\"%g\" fill=\"%s\" fill-opacity=\"%g\" stroke=\"%s\" stroke-opacity=\"%g\" stroke-width=\"%g\"/>\n",
			g.GridToPixel(re.X), g.GridToPixel(re.Y), g.GridToPixel(*re.Radius), fill, fop, stroke, sop, w)
	case scene.RegionEllipse:
		rx, ry := g.GridToPixel(*re.Width)/2, g.GridToPixel(*re.Height)/2
		wf("  <ellipse cx=\"%g\" cy=\"%g\" rx=\"%g\" ry=\"%g\" fill=\"%s\" fill-opacity=\"%g\" stroke=\"%s\" stroke-opacity=\"%g\" stroke-width=\"%g\"/>\n",
			g.GridToPixel(re.X)+rx, g.GridToPixel(re.Y)+ry, rx, ry, fill, fop, stroke, sop, w)
	case scene.RegionPolygon:
		wf("  <polygon points=\"%s\" fill=\"%s\" fill-opacity=\"%g\" stroke=\"%s\" stroke-opacity=\"%g\" stroke-width=\"%g\"/>\n",
			svgPoints(g, re.Points), fill, fop, stroke, sop, w)
	}
}

func writeDrawingSVG(wf func(string, ...any), g geom.Grid, sh *scene.Shape) {
	d := sh.Drawing
	fill, fop := svgFill(sh)
	stroke := svgStroke(sh, scene.Black)
	sop := svgStrokeAlpha(sh)
	w := svgStrokeWidth(sh)
	switch d.Type {
	case scene.DrawFreehand:
		wf("  <polyline points=\"%s\" fill=\"none\" stroke=\"%s\" stroke-opacity=\"%g\" stroke-width=\"%g\"/>\n", svgPoints(g, d.Points), stroke, sop, w)
	case scene.DrawPolygon:
		wf("  <polygon points=\"%s\" fill=\"%s\" fill-opacity=\"%g\" stroke=\"%s\" stroke-opacity=\"%g\" stroke-width=\"%g\"/>\n", svgPoints(g, d.Points), fill, fop, stroke, sop, w)
	case scene.DrawRect:
		wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\" fill-opacity=\"%g\" stroke=\"%s\" stroke-opacity=\"%g\" stroke-width=\"%g\"/>\n",
			g.GridToPixel(d.X), g.GridToPixel(d.Y), g.GridToPixel(*d.Width), g.GridToPixel(*d.Height), fill, fop, stroke, sop, w)
	case scene.DrawCircle:
		wf("  <circle cx=\"%g\" cy=\"%g\" r=\"%g\" fill=\"%s\" fill-opacity=\"%g\" stroke=\"%s\" stroke-opacity=\"%g\" stroke-width=\"%g\"/>\n",
			g.GridToPixel(d.X), g.GridToPixel(d.Y), g.GridToPixel(*d.Radius), fill, fop, stroke, sop, w)
	case scene.DrawEllipse:
		rx, ry := g.GridToPixel(*d.Width)/2, g.GridToPixel(*d.Height)/2
		wf("  <ellipse cx=\"%g\" cy=\"%g\" rx=\"%g\" ry=\"%g\" fill=\"%s\" fill-opacity=\"%g\" stroke=\"%s\" stroke-opacity=\"%g\" stroke-width=\"%g\"/>\n",
			g.GridToPixel(d.X)+rx, g.GridToPixel(d.Y)+ry, rx, ry, fill, fop, stroke, sop, w)
	case scene.DrawText:
		fsz := d.FontSize
		if fsz <= 0 {
			fsz = 14
		}
		wf("  <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"%g\" fill=\"%s\">%s</text>\n",
			g.GridToPixel(d.X), g.GridToPixel(d.Y)+fsz, fsz, stroke, escText(d.Text))
	}
}

func writeTemplateSVG(wf func(string, ...any), g geom.Grid, sh *scene.Shape) {
	geo := template.Derive(sh.Template)
	fill := "#ff8c00"
	fop := 0.35
	if sh.Style.FillColor != nil {
		fill, fop = svgFill(sh)
	}
	stroke := svgStroke(sh, scene.Color{R: 255, G: 140, B: 0, A: 255})
	w := svgStrokeWidth(sh)
	if geo.Type == scene.TemplateCircle {
		wf("  <circle cx=\"%g\" cy=\"%g\" r=\"%g\" fill=\"%s\" fill-opacity=\"%g\" stroke=\"%s\" stroke-width=\"%g\"/>\n",
			g.GridToPixel(geo.Center.X), g.GridToPixel(geo.Center.Y), g.GridToPixel(geo.Radius), fill, fop, stroke, w)
		return
	}
	wf("  <polygon points=\"%s\" fill=\"%s\" fill-opacity=\"%g\" stroke=\"%s\" stroke-width=\"%g\"/>\n", svgPoints(g, geo.Points), fill, fop, stroke, w)
}

func writeTileSVG(wf func(string, ...any), g geom.Grid, sh *scene.Shape) {
	t := sh.Tile
	x, y := g.GridToPixel(t.X), g.GridToPixel(t.Y)
	w, h := g.GridToPixel(t.Width), g.GridToPixel(t.Height)
	rot := ""
	if t.Rotation != 0 {
		rot = fmt.Sprintf(" transform=\"rotate(%g %g %g)\"", t.Rotation, x+w/2, y+h/2)
	}
	if t.Src != "" {
		wf("  <image x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" href=\"%s\" preserveAspectRatio=\"none\"%s/>\n", x, y, w, h, escAttr(t.Src), rot)
		return
	}
	// placeholder box with a diagonal cross, matching the raster renderer
	wf("  <g%s>\n", rot)
	wf("    <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"#cbcbcb\" stroke=\"#787878\"/>\n", x, y, w, h)
	wf("    <line x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" stroke=\"#787878\"/>\n", x, y, x+w, y+h)
	wf("    <line x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" stroke=\"#787878\"/>\n", x+w, y, x, y+h)
	wf("  </g>\n")
}

func writePinSVG(wf func(string, ...any), g geom.Grid, sh *scene.Shape) {
	p := sh.Pin
	cx, cy := g.GridToPixel(p.X), g.GridToPixel(p.Y)
	size := p.IconSize
	if size <= 0 {
		size = 40
	}
	rad := size / 2
	if p.Icon != "" {
		wf("  <image x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" href=\"%s\"/>\n", cx-rad, cy-rad, size, size, escAttr(p.Icon))
	} else {
		fill := "#d62828"
		if sh.Style.FillColor != nil {
			fill = svgColor(*sh.Style.FillColor)
		}
		wf("  <circle cx=\"%g\" cy=\"%g\" r=\"%g\" fill=\"%s\" stroke=\"#fff\"/>\n", cx, cy, rad, fill)
	}
	if p.Text != "" {
		tx, ty, anchor := cx, cy+rad+14, "middle"
		switch p.TextAnchor {
		case scene.AnchorTop:
			ty = cy - rad - 6
		case scene.AnchorLeft:
			tx, ty, anchor = cx-rad-4, cy+4, "end"
		case scene.AnchorRight:
			tx, ty, anchor = cx+rad+4, cy+4, "start"
		}
		wf("  <text x=\"%g\" y=\"%g\" text-anchor=\"%s\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"12\" fill=\"#000\">%s</text>\n", tx, ty, anchor, escText(p.Text))
	}
}

func writeRulerSVG(wf func(string, ...any), g geom.Grid, sh *scene.Shape) {
	ru := sh.Ruler
	wf("  <polyline points=\"%s\" fill=\"none\" stroke=\"#222\" stroke-width=\"2\"/>\n", svgPoints(g, ru.Waypoints))
	for _, p := range ru.Waypoints {
		wf("  <circle cx=\"%g\" cy=\"%g\" r=\"4\" fill=\"#222\"/>\n", g.GridToPixel(p.X), g.GridToPixel(p.Y))
	}
	res := measure.Measure(ru.Waypoints, g)
	last := g.GridToPixelPt(ru.Waypoints[len(ru.Waypoints)-1])
	wf("  <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"12\" fill=\"#000\">%s</text>\n", last.X+8, last.Y-8, escText(measure.Label(res.Total, g)))
}

func svgPoints(g geom.Grid, pts []geom.Pt) string {
	var sb strings.Builder
	for i, p := range pts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%g,%g", g.GridToPixel(p.X), g.GridToPixel(p.Y))
	}
	return sb.String()
}

func svgColor(c scene.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// style accessors mirror the raster renderer's defaults: zero alpha means
// unset and paints fully opaque.

func svgFill(sh *scene.Shape) (string, float64) {
	if sh.Style.FillColor == nil {
		return "none", 0
	}
	op := 1.0
	if sh.Style.Alpha > 0 {
		op = sh.Style.Alpha
	}
	return svgColor(*sh.Style.FillColor), op * float64(sh.Style.FillColor.A) / 255
}

func svgStroke(sh *scene.Shape, def scene.Color) string {
	if sh.Style.StrokeColor != nil {
		return svgColor(*sh.Style.StrokeColor)
	}
	return svgColor(def)
}

func svgStrokeAlpha(sh *scene.Shape) float64 {
	if sh.Style.StrokeAlpha > 0 {
		return sh.Style.StrokeAlpha
	}
	return 1
}

func svgStrokeWidth(sh *scene.Shape) float64 {
	if sh.Style.StrokeWidth > 0 {
		return sh.Style.StrokeWidth
	}
	return 2
}

func escAttr(s string) string {
	// naive escaping sufficient for our simple usage
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '"':
			out = append(out, '&', 'q', 'u', 'o', 't', ';')
		case '\n':
			out = append(out, ' ')
		case '\r':
			// skip
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '<':
			out = append(out, '&', 'l', 't', ';')
		case '>':
			out = append(out, '&', 'g', 't', ';')
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
