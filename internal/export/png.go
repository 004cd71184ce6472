/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"gridscene/internal/render"
	"gridscene/internal/scene"
	"gridscene/internal/storage"
)

// PNGOptions controls raster scene export.
// - ShowGrid paints grid lines over the background.
// - Viewer, when set, applies that viewer's persisted fog-of-war state; scenes
//   without saved fog state export unfogged.
// - Scenes selects scene IDs; empty means all scenes in the campaign.
// - Assets resolves tile/pin image URLs; nil paints placeholders.
//
//nolint:revive // clarity is preferred
type PNGOptions struct {
	ShowGrid bool
	Viewer   string
	Scenes   []string
	Assets   render.ImageSource
}

// ExportScenePNG renders one scene to a PNG file at outPath. A relative
// outPath resolves under the campaign's exports folder.
func ExportScenePNG(ch *storage.CampaignHandle, sceneID, outPath string, opt PNGOptions) error {
	if ch == nil {
		return fmt.Errorf("campaign handle is nil")
	}
	sc := ch.Campaign.SceneByID(sceneID)
	if sc == nil {
		return fmt.Errorf("scene %q not found", sceneID)
	}
	img, err := renderSceneImage(ch, sc, opt)
	if err != nil {
		return err
	}
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(ch.Root, "exports", outPath)
	}
	if !strings.HasSuffix(strings.ToLower(outPath), ".png") {
		outPath += ".png"
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	return writePNG(outPath, img)
}

// ExportCampaignPNGs renders every selected scene as scene-<id>.png under
// outDir (relative paths resolve under the campaign's exports folder).
func ExportCampaignPNGs(ch *storage.CampaignHandle, outDir string, opt PNGOptions) error {
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
		img, err := renderSceneImage(ch, sc, opt)
		if err != nil {
			return fmt.Errorf("scene %s: %w", sc.ID, err)
		}
		name := filepath.Join(outDir, fmt.Sprintf("scene-%s.png", sc.ID))
		if err := writePNG(name, img); err != nil {
			return fmt.Errorf("scene %s: %w", sc.ID, err)
		}
	}
	return nil
}

// renderSceneImage rasterizes a scene, applying the viewer's saved fog state
// when a viewer is named and state exists in the index.
func renderSceneImage(ch *storage.CampaignHandle, sc *scene.Scene, opt PNGOptions) (*image.RGBA, error) {
	r := render.New()
	r.Assets = opt.Assets
	ro := render.Options{ShowGrid: opt.ShowGrid}
	if opt.Viewer != "" {
		fg, err := storage.LoadFogState(context.Background(), ch.Root, sc.ID, opt.Viewer)
		if err != nil {
			return nil, fmt.Errorf("load fog state: %w", err)
		}
		if fg != nil {
			ro.Fog = fg
		}
	}
	return r.Render(sc, ro), nil
}

func writePNG(path string, img *image.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

// scenesToExport resolves the scene selection; unknown IDs are skipped.
func scenesToExport(ch *storage.CampaignHandle, ids []string) []*scene.Scene {
	if len(ids) == 0 {
		out := make([]*scene.Scene, 0, len(ch.Campaign.Scenes))
		for i := range ch.Campaign.Scenes {
			out = append(out, &ch.Campaign.Scenes[i])
		}
		return out
	}
	var out []*scene.Scene
	for _, id := range ids {
		if sc := ch.Campaign.SceneByID(id); sc != nil {
			out = append(out, sc)
		}
	}
	return out
}
