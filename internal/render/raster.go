/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

// Pixel-space raster primitives. All coordinates are pixels; callers convert
// from grid units first. Colors blend src-over so translucent shapes stack.

import (
	"image"
	"image/color"
	"math"
	"sort"
)

// blendPx paints one pixel with src-over compositing. Fully opaque colors
// take the fast path straight into the pixel buffer.
func blendPx(img *image.RGBA, x, y int, col color.RGBA) {
	if !(image.Point{X: x, Y: y}.In(img.Bounds())) {
		return
	}
	if col.A == 0xff {
		img.SetRGBA(x, y, col)
		return
	}
	if col.A == 0 {
		return
	}
	dst := img.RGBAAt(x, y)
	a := uint32(col.A)
	inv := 255 - a
	img.SetRGBA(x, y, color.RGBA{
		R: uint8((uint32(col.R)*a + uint32(dst.R)*inv) / 255),
		G: uint8((uint32(col.G)*a + uint32(dst.G)*inv) / 255),
		B: uint8((uint32(col.B)*a + uint32(dst.B)*inv) / 255),
		A: uint8(a + uint32(dst.A)*inv/255),
	})
}

// drawLine draws a 1px Bresenham line inclusive of both endpoints.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		blendPx(img, x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// drawThickLine stamps a filled disc of diameter w along the Bresenham path.
// Good enough for map strokes; no cap/join styling.
func drawThickLine(img *image.RGBA, x0, y0, x1, y1 int, w float64, col color.RGBA) {
	if w <= 1 {
		drawLine(img, x0, y0, x1, y1, col)
		return
	}
	r := int(math.Ceil(w / 2))
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		stampDisc(img, x0, y0, r, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// stampDisc writes a solid disc straight into the buffer. Writing instead of
// blending keeps translucent thick strokes uniform where stamps overlap.
func stampDisc(img *image.RGBA, cx, cy, r int, col color.RGBA) {
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= r*r {
				if image.Pt(cx+x, cy+y).In(img.Bounds()) {
					img.SetRGBA(cx+x, cy+y, col)
				}
			}
		}
	}
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for x := x0; x <= x1; x++ {
		blendPx(img, x, y0, col)
		blendPx(img, x, y1, col)
	}
	for y := y0 + 1; y < y1; y++ {
		blendPx(img, x0, y, col)
		blendPx(img, x1, y, col)
	}
}

// strokeRectW draws a rectangle border of width w by insetting 1px rings.
func strokeRectW(img *image.RGBA, x0, y0, x1, y1, w int, col color.RGBA) {
	for i := 0; i < w; i++ {
		strokeRect(img, x0+i, y0+i, x1-i, y1-i, col)
	}
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			blendPx(img, x, y, col)
		}
	}
}

func fillEllipse(img *image.RGBA, cx, cy, rx, ry float64, col color.RGBA) {
	if rx <= 0 || ry <= 0 {
		return
	}
	y0 := int(math.Floor(cy - ry))
	y1 := int(math.Ceil(cy + ry))
	for y := y0; y <= y1; y++ {
		dy := (float64(y) - cy) / ry
		rem := 1 - dy*dy
		if rem < 0 {
			continue
		}
		half := rx * math.Sqrt(rem)
		for x := int(math.Ceil(cx - half)); x <= int(math.Floor(cx + half)); x++ {
			blendPx(img, x, y, col)
		}
	}
}

// strokeEllipse walks the parametric outline at sub-pixel steps.
func strokeEllipse(img *image.RGBA, cx, cy, rx, ry float64, col color.RGBA) {
	if rx <= 0 || ry <= 0 {
		return
	}
	steps := int(2 * math.Pi * math.Max(rx, ry))
	if steps < 16 {
		steps = 16
	}
	px, py := math.MinInt32, math.MinInt32
	for i := 0; i <= steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		x := int(math.Round(cx + rx*math.Cos(a)))
		y := int(math.Round(cy + ry*math.Sin(a)))
		if x != px || y != py {
			blendPx(img, x, y, col)
			px, py = x, y
		}
	}
}

// strokeEllipseW thickens the outline with concentric 1px rings centered on
// the nominal radii.
func strokeEllipseW(img *image.RGBA, cx, cy, rx, ry float64, w int, col color.RGBA) {
	if w <= 1 {
		strokeEllipse(img, cx, cy, rx, ry, col)
		return
	}
	off := float64(w-1) / 2
	for k := 0; k < w; k++ {
		d := float64(k) - off
		strokeEllipse(img, cx, cy, rx+d, ry+d, col)
	}
}

func fillCircle(img *image.RGBA, cx, cy, r float64, col color.RGBA) {
	fillEllipse(img, cx, cy, r, r, col)
}

func strokeCircle(img *image.RGBA, cx, cy, r float64, col color.RGBA) {
	strokeEllipse(img, cx, cy, r, r, col)
}

func strokeCircleW(img *image.RGBA, cx, cy, r float64, w int, col color.RGBA) {
	strokeEllipseW(img, cx, cy, r, r, w, col)
}

// fillPolygon scanline-fills a closed polygon (even-odd rule). Points are
// pixel coordinates; the closing edge is implicit.
func fillPolygon(img *image.RGBA, pts [][2]float64, col color.RGBA) {
	if len(pts) < 3 {
		return
	}
	minY, maxY := pts[0][1], pts[0][1]
	for _, p := range pts[1:] {
		minY = math.Min(minY, p[1])
		maxY = math.Max(maxY, p[1])
	}
	for y := int(math.Ceil(minY)); y <= int(math.Floor(maxY)); y++ {
		fy := float64(y) + 0.5
		var xs []float64
		for i := range pts {
			a, b := pts[i], pts[(i+1)%len(pts)]
			if (a[1] <= fy) == (b[1] <= fy) {
				continue
			}
			t := (fy - a[1]) / (b[1] - a[1])
			xs = append(xs, a[0]+t*(b[0]-a[0]))
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := int(math.Ceil(xs[i])); x <= int(math.Floor(xs[i+1])); x++ {
				blendPx(img, x, y, col)
			}
		}
	}
}

// strokePolyline connects consecutive points; close appends the return edge.
func strokePolyline(img *image.RGBA, pts [][2]float64, w float64, close bool, col color.RGBA) {
	if len(pts) < 2 {
		return
	}
	for i := 0; i+1 < len(pts); i++ {
		drawThickLine(img,
			int(math.Round(pts[i][0])), int(math.Round(pts[i][1])),
			int(math.Round(pts[i+1][0])), int(math.Round(pts[i+1][1])), w, col)
	}
	if close {
		last := pts[len(pts)-1]
		drawThickLine(img,
			int(math.Round(last[0])), int(math.Round(last[1])),
			int(math.Round(pts[0][0])), int(math.Round(pts[0][1])), w, col)
	}
}

// quadBezier flattens a quadratic curve into segments drawn at width w.
func quadBezier(img *image.RGBA, x0, y0, cx, cy, x1, y1, w float64, col color.RGBA) {
	const steps = 24
	px, py := x0, y0
	for i := 1; i <= steps; i++ {
		t := float64(i) / steps
		u := 1 - t
		x := u*u*x0 + 2*u*t*cx + t*t*x1
		y := u*u*y0 + 2*u*t*cy + t*t*y1
		drawThickLine(img, int(math.Round(px)), int(math.Round(py)), int(math.Round(x)), int(math.Round(y)), w, col)
		px, py = x, y
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
