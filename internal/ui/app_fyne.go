//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"gridscene/internal/assets"
	"gridscene/internal/crash"
	"gridscene/internal/export"
	"gridscene/internal/fog"
	"gridscene/internal/geom"
	"gridscene/internal/hittest"
	applog "gridscene/internal/log"
	"gridscene/internal/measure"
	"gridscene/internal/render"
	"gridscene/internal/scene"
	"gridscene/internal/storage"
	"gridscene/internal/textlayout"
	"gridscene/internal/undo"
	"gridscene/internal/version"
)

// fogViewer is the fog plane the desktop canvas edits. The players' plane is
// produced by exports, not edited here.
const fogViewer = "gm"

// Run starts the Fyne-based desktop scene viewer.
// Pass an optional campaign directory to open immediately.
func Run(campaignDir string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	var ch *storage.CampaignHandle
	defer func() { crash.Recover(ch) }()

	fyneApp := app.NewWithID("gridscene")
	w := fyneApp.NewWindow("GridScene")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	sceneCanvas := NewSceneCanvas()
	sceneCanvas.onStatus = func(msg string) { status.SetText(msg) }

	undoMgr := undo.NewManager(undo.Config{
		MaxBytes:    16 * 1024 * 1024,
		MaxPerScene: 20,
		MinInterval: 300 * time.Millisecond,
	})

	captureFogSnapshot := func() {
		sc := sceneCanvas.sc
		fg := sceneCanvas.fogGrid
		if sc == nil || fg == nil {
			return
		}
		rev, exp := fg.Snapshot()
		blob, err := json.Marshal(map[string]any{"revealed": rev, "explored": exp})
		if err != nil {
			return
		}
		undoMgr.PushSnapshot(undo.Snapshot{SceneID: sc.ID, Blob: blob, TS: time.Now()})
	}

	applyFogSnapshot := func(blob []byte) {
		fg := sceneCanvas.fogGrid
		if fg == nil {
			return
		}
		var snap struct {
			Revealed [][]bool `json:"revealed"`
			Explored [][]bool `json:"explored"`
		}
		if err := json.Unmarshal(blob, &snap); err != nil {
			return
		}
		fg.Restore(snap.Revealed, snap.Explored)
		sceneCanvas.Rerender()
	}

	// Scene navigation (left)
	scenesDisplay := []string{}
	scenesList := widget.NewList(
		func() int { return len(scenesDisplay) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= 0 && int(i) < len(scenesDisplay) {
				o.(*widget.Label).SetText(scenesDisplay[i])
			} else {
				o.(*widget.Label).SetText("")
			}
		},
	)
	left := container.NewVBox(widget.NewLabel("Scenes"), widget.NewSeparator(), scenesList)

	// Shape inspector (right)
	shapeDisplay := []string{}
	shapeIDs := []string{}
	shapeList := widget.NewList(
		func() int { return len(shapeDisplay) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) { o.(*widget.Label).SetText(shapeDisplay[i]) },
	)
	shapeList.OnSelected = func(id widget.ListItemID) {
		if int(id) >= 0 && int(id) < len(shapeIDs) {
			sceneCanvas.Select(shapeIDs[id])
			l.Info("shape selected", slog.String("shape_id", shapeIDs[id]))
		}
	}
	right := container.NewVBox(widget.NewLabel("Shapes"), widget.NewSeparator(), shapeList)

	refreshShapeList := func() {
		shapeDisplay = shapeDisplay[:0]
		shapeIDs = shapeIDs[:0]
		if sc := sceneCanvas.sc; sc != nil {
			for i := range sc.Shapes {
				sh := &sc.Shapes[i]
				label := fmt.Sprintf("%s %s", sh.Kind, sh.ID)
				if sh.Pin != nil && sh.Pin.Text != "" {
					label += " — " + sh.Pin.Text
				}
				if sh.Region != nil && sh.Region.Name != "" {
					label += " — " + sh.Region.Name
				}
				shapeDisplay = append(shapeDisplay, label)
				shapeIDs = append(shapeIDs, sh.ID)
			}
		}
		shapeList.Refresh()
	}

	showScene := func(idx int) {
		if ch == nil || idx < 0 || idx >= len(ch.Campaign.Scenes) {
			return
		}
		sc := &ch.Campaign.Scenes[idx]
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		fg, err := storage.LoadFogState(ctx, ch.Root, sc.ID, fogViewer)
		cancel()
		if err != nil {
			l.Warn("load fog state", slog.Any("err", err))
		}
		sceneCanvas.SetScene(sc, fg)
		refreshShapeList()
		status.SetText(fmt.Sprintf("Scene %q (%dx%d px, %s grid)", sc.Name, sc.Width, sc.Height, sc.Grid.Units))
	}

	refreshScenesList := func() {
		scenesDisplay = scenesDisplay[:0]
		if ch != nil {
			for _, sc := range ch.Campaign.Scenes {
				scenesDisplay = append(scenesDisplay, fmt.Sprintf("%s (%s)", sc.Name, sc.ID))
			}
		}
		scenesList.Refresh()
	}
	scenesList.OnSelected = func(id widget.ListItemID) { showScene(int(id)) }

	openAt := func(dir string) {
		if err := openCampaign(dir, &ch, w, l, status); err != nil {
			dialog.ShowError(err, w)
			return
		}
		addRecentCampaign(prefs, dir)
		refreshScenesList()
		idx := 0
		for i, sc := range ch.Campaign.Scenes {
			if sc.ID == ch.Campaign.ActiveSceneID {
				idx = i
				break
			}
		}
		showScene(idx)
	}

	openDialog := func() {
		dialog.ShowFolderOpen(func(list fyne.ListableURI, err error) {
			if err != nil || list == nil {
				return
			}
			openAt(list.Path())
		}, w)
	}

	saveCampaign := func() {
		if ch == nil {
			status.SetText("No campaign open")
			return
		}
		if err := storage.Save(ch); err != nil {
			dialog.ShowError(err, w)
			return
		}
		if sc, fg := sceneCanvas.sc, sceneCanvas.fogGrid; sc != nil && fg != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := storage.SaveFogState(ctx, ch.Root, sc.ID, fogViewer, fg); err != nil {
				l.Warn("save fog state", slog.Any("err", err))
			}
		}
		status.SetText("Saved " + ch.ManifestPath)
	}

	exportPDF := func() {
		if ch == nil {
			status.SetText("No campaign open")
			return
		}
		opt := export.PDFOptions{ShowGrid: sceneCanvas.showGrid, IncludeNotes: true, IncludeLegend: true, Assets: sceneCanvas.renderer.Assets}
		if err := export.ExportCampaignPDF(ch, "campaign.pdf", opt); err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Exported campaign.pdf to exports/")
	}

	exportSVG := func() {
		if ch == nil {
			status.SetText("No campaign open")
			return
		}
		if err := export.ExportSceneSVGs(ch, "svg", export.SVGOptions{ShowGrid: sceneCanvas.showGrid}); err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Exported scene SVGs to exports/svg/")
	}

	fogAll := func(reveal bool) {
		sc, fg := sceneCanvas.sc, sceneCanvas.fogGrid
		if sc == nil {
			return
		}
		if fg == nil {
			cell := sc.FogCell
			if cell <= 0 {
				cell = sc.Grid.Size
			}
			cols := int(float64(sc.Width)/cell + 0.5)
			rows := int(float64(sc.Height)/cell + 0.5)
			fg = fog.NewGrid(cols, rows, cell)
			sceneCanvas.fogGrid = fg
		}
		captureFogSnapshot()
		if reveal {
			fg.Reveal(0, 0, fg.Cols, fg.Rows)
		} else {
			fg.Hide(0, 0, fg.Cols, fg.Rows)
		}
		sceneCanvas.Rerender()
	}

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Campaign…", openDialog),
		fyne.NewMenuItem("Save", saveCampaign),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PDF", exportPDF),
		fyne.NewMenuItem("Export SVG", exportSVG),
	)
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Toggle Grid", func() {
			sceneCanvas.showGrid = !sceneCanvas.showGrid
			prefs.SetBool("view.grid", sceneCanvas.showGrid)
			sceneCanvas.Rerender()
		}),
		fyne.NewMenuItem("Zoom In", func() { sceneCanvas.Zoom(0.25) }),
		fyne.NewMenuItem("Zoom Out", func() { sceneCanvas.Zoom(-0.25) }),
		fyne.NewMenuItem("Reset View", func() { sceneCanvas.ResetView() }),
	)
	fogMenu := fyne.NewMenu("Fog",
		fyne.NewMenuItem("Reveal All", func() { fogAll(true) }),
		fyne.NewMenuItem("Hide All", func() { fogAll(false) }),
		fyne.NewMenuItem("Undo Fog Change", func() {
			if sc := sceneCanvas.sc; sc != nil {
				if snap, ok := undoMgr.Undo(sc.ID); ok {
					applyFogSnapshot(snap.Blob)
				}
			}
		}),
		fyne.NewMenuItem("Redo Fog Change", func() {
			if sc := sceneCanvas.sc; sc != nil {
				if snap, ok := undoMgr.Redo(sc.ID); ok {
					applyFogSnapshot(snap.Blob)
				}
			}
		}),
	)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			dialog.ShowInformation("GridScene", "GridScene "+version.String(), w)
		}),
	)
	w.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, fogMenu, helpMenu))

	sceneCanvas.showGrid = prefs.BoolWithFallback("view.grid", true)

	// Recent campaigns quick-open
	if recents := loadRecentCampaigns(prefs); len(recents) > 0 {
		status.SetText("Recent: " + strings.Join(recents, ", "))
	}

	content := container.NewBorder(nil, status, left, right, sceneCanvas)
	w.SetContent(content)

	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
	})

	if campaignDir != "" {
		openAt(campaignDir)
	}

	w.ShowAndRun()
	return nil
}

// openCampaign loads a campaign from dir and replaces the current handle.
func openCampaign(dir string, ch **storage.CampaignHandle, w fyne.Window, l *slog.Logger, status *widget.Label) error {
	h, err := storage.Open(dir)
	if err != nil {
		return fmt.Errorf("open campaign: %w", err)
	}
	*ch = h
	l.Info("campaign opened", slog.String("root", h.Root), slog.Int("scenes", len(h.Campaign.Scenes)))
	status.SetText(fmt.Sprintf("Opened %q (%d scenes)", h.Campaign.Name, len(h.Campaign.Scenes)))
	w.SetTitle("GridScene — " + h.Campaign.Name)
	return nil
}

// pickTolerancePx is the tap slop around thin shapes, in screen pixels.
const pickTolerancePx = 6

// SceneCanvas rasterizes the current scene through the engine renderer and
// maps pointer events back into grid coordinates for picking.
type SceneCanvas struct {
	widget.BaseWidget

	renderer *render.Renderer
	sc       *scene.Scene
	fogGrid  *fog.Grid
	frame    *image.RGBA

	zoom             float32
	offsetX, offsetY float32
	showGrid         bool
	selected         string
	hovered          string
	panning          bool
	dragShape        string
	dragRect         geom.Rect // unsnapped position while a shape drag is active

	onStatus func(string)
}

func NewSceneCanvas() *SceneCanvas {
	r := render.New()
	r.Assets = assets.New(nil)
	if st, ok := textlayout.NewStyleSheet().Resolve("Pin"); ok {
		r.Text = textlayout.New(textlayout.OTProvider{Lib: textlayout.NewFontLibrary(), Spec: st.Font})
	}
	c := &SceneCanvas{renderer: r, zoom: 1.0, showGrid: true}
	c.ExtendBaseWidget(c)
	return c
}

// SetScene swaps the displayed scene and its fog plane and resets the view.
func (c *SceneCanvas) SetScene(sc *scene.Scene, fg *fog.Grid) {
	c.sc = sc
	c.fogGrid = fg
	c.selected = ""
	c.hovered = ""
	c.ResetView()
}

// Select outlines the shape with the given id.
func (c *SceneCanvas) Select(id string) {
	if c.selected == id {
		return
	}
	c.selected = id
	c.Rerender()
}

// Zoom adjusts the zoom factor by delta, clamped to a usable range.
func (c *SceneCanvas) Zoom(delta float32) {
	z := c.zoom + delta
	if z < 0.1 {
		z = 0.1
	}
	if z > 4 {
		z = 4
	}
	if z != c.zoom {
		c.zoom = z
		c.Refresh()
	}
}

// ResetView restores zoom and pan and re-renders.
func (c *SceneCanvas) ResetView() {
	c.zoom = 1.0
	c.offsetX = 0
	c.offsetY = 0
	c.Rerender()
}

// Rerender rasterizes the scene with the current view state.
func (c *SceneCanvas) Rerender() {
	if c.sc == nil {
		c.frame = nil
		c.Refresh()
		return
	}
	opt := render.Options{Selected: c.selected, Hovered: c.hovered, ShowGrid: c.showGrid}
	if c.fogGrid != nil {
		opt.Fog = c.fogGrid
	}
	c.frame = c.renderer.Render(c.sc, opt)
	c.Refresh()
}

func (c *SceneCanvas) PreferredSize() fyne.Size { return fyne.NewSize(800, 600) }

// toGrid converts a widget-local pointer position to grid units.
func (c *SceneCanvas) toGrid(pos fyne.Position) geom.Pt {
	px := float64((pos.X - c.offsetX) / c.zoom)
	py := float64((pos.Y - c.offsetY) / c.zoom)
	return c.sc.Grid.PixelToGridPt(geom.Pt{X: px, Y: py})
}

func (c *SceneCanvas) pickAt(pos fyne.Position) (string, bool) {
	if c.sc == nil || c.sc.Grid.Size <= 0 {
		return "", false
	}
	pt := c.toGrid(pos)
	tol := float64(pickTolerancePx/c.zoom) / c.sc.Grid.Size
	return hittest.Tester{Grid: c.sc.Grid}.Pick(pt, c.sc.Shapes, tol)
}

// Tapped selects the top-most shape under the pointer, or clears the selection.
func (c *SceneCanvas) Tapped(e *fyne.PointEvent) {
	if c.sc == nil {
		return
	}
	id, ok := c.pickAt(e.Position)
	if !ok {
		id = ""
	}
	c.selected = id
	if c.onStatus != nil {
		if id == "" {
			pt := c.toGrid(e.Position)
			c.onStatus(fmt.Sprintf("(%.1f, %.1f)", pt.X, pt.Y))
		} else if sh := c.sc.ShapeByID(id); sh != nil {
			c.onStatus(describeShape(c.sc, sh))
		}
	}
	c.Rerender()
}

// Dragged moves the selected shape when the drag starts on it; anywhere else
// it pans the view.
func (c *SceneCanvas) Dragged(e *fyne.DragEvent) {
	moving := c.dragShape != ""
	if !moving && !c.panning && c.sc != nil && c.selected != "" {
		start := fyne.NewPos(e.Position.X-e.Dragged.DX, e.Position.Y-e.Dragged.DY)
		if id, ok := c.pickAt(start); ok && id == c.selected {
			if sh := c.sc.ShapeByID(id); sh != nil {
				_, moving = shapeRect(c.sc.Grid, sh)
			}
		}
	}
	if moving {
		dx := float64(e.Dragged.DX/c.zoom) / c.sc.Grid.Size
		dy := float64(e.Dragged.DY/c.zoom) / c.sc.Grid.Size
		c.MoveSelectedBy(dx, dy)
		return
	}
	c.panning = true
	c.offsetX += float32(e.Dragged.DX)
	c.offsetY += float32(e.Dragged.DY)
	c.Refresh()
}

func (c *SceneCanvas) DragEnd() {
	c.panning = false
	c.dragShape = ""
}

// MoveSelectedBy drags the selected shape by (dx, dy) grid units. The raw
// position accumulates across a drag gesture; the applied position snaps
// against nearby shapes and half-cell grid lines so the shape never sticks
// to a stale snap target.
func (c *SceneCanvas) MoveSelectedBy(dx, dy float64) {
	if c.sc == nil || c.selected == "" {
		return
	}
	sh := c.sc.ShapeByID(c.selected)
	if sh == nil {
		return
	}
	r, ok := shapeRect(c.sc.Grid, sh)
	if !ok {
		return
	}
	if c.dragShape != c.selected {
		c.dragShape = c.selected
		c.dragRect = r
	}
	c.dragRect.X += dx
	c.dragRect.Y += dy
	snapped, guides := geom.SnapRect(c.dragRect, c.snapAnchors(sh.ID), geom.SnapOptions{
		Threshold:     0.2,
		SnapToEdges:   true,
		SnapToCenters: true,
		GridStep:      0.5,
	})
	setShapePos(sh, snapped)
	if c.onStatus != nil {
		msg := fmt.Sprintf("%s (%.2f, %.2f)", sh.ID, snapped.X, snapped.Y)
		if len(guides) > 0 {
			msg += " — snapped to " + guides[0].Kind
		}
		c.onStatus(msg)
	}
	c.Rerender()
}

// snapAnchors collects the rects of every other placeable shape. Tiles weigh
// heavier so dungeon tiles prefer aligning to each other.
func (c *SceneCanvas) snapAnchors(exclude string) []geom.Anchor {
	var out []geom.Anchor
	for i := range c.sc.Shapes {
		sh := &c.sc.Shapes[i]
		if sh.ID == exclude {
			continue
		}
		if r, ok := shapeRect(c.sc.Grid, sh); ok {
			w := 1.0
			if sh.Kind == scene.KindTile {
				w = 2.0
			}
			out = append(out, geom.Anchor{Rect: r, Weight: w})
		}
	}
	return out
}

// shapeRect returns a shape's grid-unit bounding rect and whether the kind
// supports drag placement. Walls, drawings and templates stay put.
func shapeRect(g geom.Grid, sh *scene.Shape) (geom.Rect, bool) {
	switch sh.Kind {
	case scene.KindTile:
		t := sh.Tile
		return geom.R(t.X, t.Y, t.Width, t.Height), true
	case scene.KindPin:
		p := sh.Pin
		size := p.IconSize
		if size <= 0 {
			size = 40
		}
		rg := g.PixelToGrid(size) / 2
		return geom.R(p.X-rg, p.Y-rg, 2*rg, 2*rg), true
	case scene.KindRegion:
		re := sh.Region
		switch re.Shape {
		case scene.RegionRect, scene.RegionEllipse:
			if re.Width == nil || re.Height == nil {
				return geom.Rect{}, false
			}
			return geom.R(re.X, re.Y, *re.Width, *re.Height), true
		case scene.RegionCircle:
			if re.Radius == nil {
				return geom.Rect{}, false
			}
			return geom.R(re.X-*re.Radius, re.Y-*re.Radius, 2*(*re.Radius), 2*(*re.Radius)), true
		}
	}
	return geom.Rect{}, false
}

// setShapePos moves a placeable shape so its rect lands at r.
func setShapePos(sh *scene.Shape, r geom.Rect) {
	switch sh.Kind {
	case scene.KindTile:
		sh.Tile.X, sh.Tile.Y = r.X, r.Y
	case scene.KindPin:
		ctr := r.Center()
		sh.Pin.X, sh.Pin.Y = ctr.X, ctr.Y
	case scene.KindRegion:
		re := sh.Region
		if re.Shape == scene.RegionCircle {
			ctr := r.Center()
			re.X, re.Y = ctr.X, ctr.Y
			return
		}
		re.X, re.Y = r.X, r.Y
	}
}

func (c *SceneCanvas) Scrolled(e *fyne.ScrollEvent) {
	c.Zoom(float32(e.Scrolled.DY) * 0.05)
}

func (c *SceneCanvas) MouseIn(*desktop.MouseEvent) {}

func (c *SceneCanvas) MouseMoved(e *desktop.MouseEvent) {
	if c.sc == nil || c.panning {
		return
	}
	id, ok := c.pickAt(e.Position)
	if !ok {
		id = ""
	}
	if id != c.hovered {
		c.hovered = id
		c.Rerender()
	}
}

func (c *SceneCanvas) MouseOut() {
	if c.hovered != "" {
		c.hovered = ""
		c.Rerender()
	}
}

// describeShape builds a one-line status readout for a picked shape.
func describeShape(sc *scene.Scene, sh *scene.Shape) string {
	switch {
	case sh.Segment != nil:
		s := sh.Segment
		res := measure.Measure([]geom.Pt{{X: s.X1, Y: s.Y1}, {X: s.X2, Y: s.Y2}}, sc.Grid)
		return fmt.Sprintf("%s %s: %s", s.Kind, sh.ID, measure.Label(res.Total, sc.Grid))
	case sh.Region != nil && sh.Region.Name != "":
		return fmt.Sprintf("region %s: %s", sh.ID, sh.Region.Name)
	case sh.Pin != nil && sh.Pin.Text != "":
		return fmt.Sprintf("pin %s: %s", sh.ID, sh.Pin.Text)
	case sh.Ruler != nil:
		res := measure.Measure(sh.Ruler.Waypoints, sc.Grid)
		return fmt.Sprintf("ruler %s: %s", sh.ID, measure.Label(res.Total, sc.Grid))
	default:
		return fmt.Sprintf("%s %s", sh.Kind, sh.ID)
	}
}

func (c *SceneCanvas) CreateRenderer() fyne.WidgetRenderer {
	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScalePixels
	bg := canvas.NewRectangle(canvasBackground)
	r := &sceneCanvasRenderer{cv: c, img: img, bg: bg, objects: []fyne.CanvasObject{bg, img}}
	return r
}

var canvasBackground = color.RGBA{R: 48, G: 48, B: 48, A: 255}

type sceneCanvasRenderer struct {
	cv      *SceneCanvas
	img     *canvas.Image
	bg      *canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *sceneCanvasRenderer) Destroy()                     {}
func (r *sceneCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *sceneCanvasRenderer) MinSize() fyne.Size           { return r.cv.PreferredSize() }
func (r *sceneCanvasRenderer) Refresh() {
	r.img.Image = r.cv.frame
	r.Layout(r.cv.Size())
	canvas.Refresh(r.cv)
}

func (r *sceneCanvasRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	if r.cv.frame == nil {
		r.img.Resize(fyne.NewSize(0, 0))
		return
	}
	b := r.cv.frame.Bounds()
	w := float32(b.Dx()) * r.cv.zoom
	h := float32(b.Dy()) * r.cv.zoom
	r.img.Resize(fyne.NewSize(w, h))
	r.img.Move(fyne.NewPos(r.cv.offsetX, r.cv.offsetY))
}

// --- Recent campaigns (preferences-backed) ---

const recentKey = "recent.campaigns"

func loadRecentCampaigns(p fyne.Preferences) []string {
	raw := p.StringWithFallback(recentKey, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(raw, "\n") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func saveRecentCampaigns(p fyne.Preferences, items []string) {
	if len(items) > 5 {
		items = items[:5]
	}
	p.SetString(recentKey, strings.Join(items, "\n"))
}

func addRecentCampaign(p fyne.Preferences, path string) {
	items := loadRecentCampaigns(p)
	out := []string{path}
	for _, it := range items {
		if it != path {
			out = append(out, it)
		}
	}
	saveRecentCampaigns(p, out)
}
