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
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"gridscene/internal/render"
	"gridscene/internal/scene"
	"gridscene/internal/storage"
)

// PDFOptions controls the campaign handout PDF: one page per scene with the
// rendered map, the scene name, optional notes, and an optional pin legend.
// Units are points; the map embeds at one point per scene pixel.
// Built-in Helvetica keeps text vector without font embedding.
//
//nolint:revive // keep options grouped and explicit for clarity
type PDFOptions struct {
	ShowGrid      bool
	Viewer        string // apply this viewer's saved fog state to the maps
	IncludeNotes  bool
	IncludeLegend bool // pin legend below the map
	Scenes        []string
	Assets        render.ImageSource
}

const (
	pdfMargin  = 24.0
	pdfTitleSz = 16.0
	pdfBodySz  = 10.0
	pdfLineH   = 14.0
)

// ExportCampaignPDF writes the selected scenes as a multi-page PDF at
// outPath. A relative outPath resolves under the campaign's exports folder.
func ExportCampaignPDF(ch *storage.CampaignHandle, outPath string, opt PDFOptions) error {
	if ch == nil {
		return fmt.Errorf("campaign handle is nil")
	}
	scenes := scenesToExport(ch, opt.Scenes)
	if len(scenes) == 0 {
		return fmt.Errorf("campaign has no scenes to export")
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    pageSizeFor(scenes[0], opt),
		// orientation follows the page size
		OrientationStr: "",
	})
	pdf.SetTitle(fmt.Sprintf("%s — Scene Handout", ch.Campaign.Name), false)
	pdf.SetAuthor("GridScene", false)
	pdf.SetFont("Helvetica", "", pdfBodySz)

	for i, sc := range scenes {
		img, err := renderSceneImage(ch, sc, PNGOptions{ShowGrid: opt.ShowGrid, Viewer: opt.Viewer, Assets: opt.Assets})
		if err != nil {
			return fmt.Errorf("scene %s: %w", sc.ID, err)
		}
		var imgBuf bytes.Buffer
		if err := png.Encode(&imgBuf, img); err != nil {
			return fmt.Errorf("encode scene %s: %w", sc.ID, err)
		}

		pdf.AddPageFormat("", pageSizeFor(sc, opt))

		y := pdfMargin
		pdf.SetFont("Helvetica", "B", pdfTitleSz)
		pdf.Text(pdfMargin, y+pdfTitleSz, sc.Name)
		y += pdfTitleSz + 8

		if opt.IncludeNotes && sc.Notes != "" {
			pdf.SetFont("Helvetica", "", pdfBodySz)
			for _, line := range strings.Split(sc.Notes, "\n") {
				pdf.Text(pdfMargin, y+pdfBodySz, line)
				y += pdfLineH
			}
			y += 4
		}

		imgName := fmt.Sprintf("scene-%d", i)
		pdf.RegisterImageOptionsReader(imgName, gofpdf.ImageOptions{ImageType: "PNG"}, &imgBuf)
		pdf.ImageOptions(imgName, pdfMargin, y, float64(sc.Width), float64(sc.Height), false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		y += float64(sc.Height) + pdfLineH

		if opt.IncludeLegend {
			writePinLegend(pdf, sc, y)
		}
	}

	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(ch.Root, "exports", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// pageSizeFor sizes one page: margins plus title band, the map at 1pt/px,
// then room for notes and the pin legend when requested.
func pageSizeFor(sc *scene.Scene, opt PDFOptions) gofpdf.SizeType {
	w := float64(sc.Width) + 2*pdfMargin
	h := float64(sc.Height) + 2*pdfMargin + pdfTitleSz + 8
	if opt.IncludeNotes && sc.Notes != "" {
		h += float64(len(strings.Split(sc.Notes, "\n")))*pdfLineH + 4
	}
	if opt.IncludeLegend {
		h += float64(len(scenePins(sc))+1)*pdfLineH + 8
	}
	return gofpdf.SizeType{Wd: w, Ht: h}
}

// writePinLegend lists the scene's labeled pins below the map.
func writePinLegend(pdf *gofpdf.Fpdf, sc *scene.Scene, y float64) {
	pins := scenePins(sc)
	if len(pins) == 0 {
		return
	}
	pdf.SetFont("Helvetica", "B", pdfBodySz)
	pdf.Text(pdfMargin, y+pdfBodySz, "Pins")
	y += pdfLineH
	pdf.SetFont("Helvetica", "", pdfBodySz)
	for n, sh := range pins {
		p := sh.Pin
		pdf.Text(pdfMargin, y+pdfBodySz, fmt.Sprintf("%d. (%.1f, %.1f) %s", n+1, p.X, p.Y, p.Text))
		y += pdfLineH
	}
}

func scenePins(sc *scene.Scene) []*scene.Shape {
	var out []*scene.Shape
	for i := range sc.Shapes {
		sh := &sc.Shapes[i]
		if sh.Kind == scene.KindPin && sh.Pin != nil && sh.Pin.Text != "" {
			out = append(out, sh)
		}
	}
	return out
}
