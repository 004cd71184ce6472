/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"gridscene/internal/render"
	"gridscene/internal/storage"
)

// ArchiveOptions controls the bundled ZIP export: one PNG per scene plus the
// campaign manifest, suitable for handing a whole campaign to another table.
//
//nolint:revive // clarity
type ArchiveOptions struct {
	ShowGrid bool
	Viewer   string
	Scenes   []string
	Assets   render.ImageSource
}

// ExportCampaignArchive packages the selected scene renders and the campaign
// manifest into a ZIP archive at outPath. A relative outPath resolves under
// the campaign's exports folder.
func ExportCampaignArchive(ch *storage.CampaignHandle, outPath string, opt ArchiveOptions) error {
	if ch == nil {
		return fmt.Errorf("campaign handle is nil")
	}
	scenes := scenesToExport(ch, opt.Scenes)
	if len(scenes) == 0 {
		return fmt.Errorf("campaign has no scenes to export")
	}

	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(ch.Root, "exports", outPath)
	}
	if !strings.HasSuffix(strings.ToLower(outPath), ".zip") {
		outPath += ".zip"
	}

	zw, f, err := createZip(outPath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	imgBuf := &bytes.Buffer{}
	for _, sc := range scenes {
		img, err := renderSceneImage(ch, sc, PNGOptions{ShowGrid: opt.ShowGrid, Viewer: opt.Viewer, Assets: opt.Assets})
		if err != nil {
			return fmt.Errorf("scene %s: %w", sc.ID, err)
		}
		imgBuf.Reset()
		if err := png.Encode(imgBuf, img); err != nil {
			return fmt.Errorf("encode png: %w", err)
		}
		if err := addZipFile(zw, fmt.Sprintf("scenes/scene-%s.png", sc.ID), imgBuf.Bytes()); err != nil {
			return fmt.Errorf("zip add scene %s: %w", sc.ID, err)
		}
	}

	manifest, err := json.MarshalIndent(ch.Campaign, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := addZipFile(zw, storage.ManifestFileName, append(manifest, '\n')); err != nil {
		return fmt.Errorf("zip add manifest: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zip: %w", err)
	}
	return nil
}

func createZip(outPath string) (*zip.Writer, *os.File, error) {
	// Ensure directory exists
	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, fmt.Errorf("create archive: %w", err)
	}
	return zip.NewWriter(f), f, nil
}

func addZipFile(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
