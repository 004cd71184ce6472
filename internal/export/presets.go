/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"gridscene/internal/render"
	"gridscene/internal/storage"
)

// PresetName represents a named export preset.
type PresetName string

const (
	// PresetPlayers exports player-facing maps: fog applied, no grid overlay.
	PresetPlayers PresetName = "players"
	// PresetGM exports the full picture: grid shown, no fog, notes and pin legend.
	PresetGM PresetName = "gm"
)

// BatchOptions controls batch export across multiple formats/scenes.
//
// Path semantics:
//   - If OutDir is empty or relative, it will be created under <campaign>/exports/<preset>/.
//   - For PDF/archive single-file outputs, names are campaign.pdf / campaign.zip in OutDir.
//   - For PNG/SVG per-scene outputs, files are scene-<id>.(png|svg) in subfolders png/ or svg/
//     inside OutDir. This keeps outputs grouped by preset and format.
//
//nolint:revive // keep fields explicit for clarity
type BatchOptions struct {
	Preset   PresetName
	Formats  []string // allowed: pdf, png, svg, archive; empty means preset defaults
	Scenes   []string // scene IDs; empty means all scenes
	Viewer   string   // fog viewer for the players preset; defaults to "players"
	ShowGrid *bool    // when set, overrides the preset's grid default
	OutDir   string   // base directory for outputs (created per preset if relative)
	Assets   render.ImageSource
}

// BatchExport runs exports according to the given preset.
func BatchExport(ch *storage.CampaignHandle, opt BatchOptions) error {
	if ch == nil {
		return fmt.Errorf("campaign handle is nil")
	}
	if len(ch.Campaign.Scenes) == 0 {
		return fmt.Errorf("campaign has no scenes")
	}

	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	// normalize format strings
	for i := range formats {
		formats[i] = strings.ToLower(strings.TrimSpace(formats[i]))
	}

	// Resolve output base directory
	baseOut := opt.OutDir
	if baseOut == "" {
		baseOut = string(opt.Preset)
	}
	if !filepath.IsAbs(baseOut) {
		baseOut = filepath.Join(ch.Root, "exports", baseOut)
	}

	grid := presetShowGrid(opt.Preset)
	if opt.ShowGrid != nil {
		grid = *opt.ShowGrid
	}
	viewer := ""
	if opt.Preset == PresetPlayers {
		viewer = opt.Viewer
		if viewer == "" {
			viewer = "players"
		}
	}

	for _, f := range formats {
		switch f {
		case "pdf":
			out := filepath.Join(baseOut, "campaign.pdf")
			po := PDFOptions{
				ShowGrid:      grid,
				Viewer:        viewer,
				IncludeNotes:  opt.Preset == PresetGM,
				IncludeLegend: opt.Preset == PresetGM,
				Scenes:        opt.Scenes,
				Assets:        opt.Assets,
			}
			if err := ExportCampaignPDF(ch, out, po); err != nil {
				return fmt.Errorf("pdf: %w", err)
			}
		case "archive":
			out := filepath.Join(baseOut, "campaign.zip")
			ao := ArchiveOptions{ShowGrid: grid, Viewer: viewer, Scenes: opt.Scenes, Assets: opt.Assets}
			if err := ExportCampaignArchive(ch, out, ao); err != nil {
				return fmt.Errorf("archive: %w", err)
			}
		case "png":
			outDir := filepath.Join(baseOut, "png")
			po := PNGOptions{ShowGrid: grid, Viewer: viewer, Scenes: opt.Scenes, Assets: opt.Assets}
			if err := ExportCampaignPNGs(ch, outDir, po); err != nil {
				return fmt.Errorf("png: %w", err)
			}
		case "svg":
			outDir := filepath.Join(baseOut, "svg")
			so := SVGOptions{ShowGrid: grid, Scenes: opt.Scenes}
			if err := ExportSceneSVGs(ch, outDir, so); err != nil {
				return fmt.Errorf("svg: %w", err)
			}
		default:
			return fmt.Errorf("unknown format: %s", f)
		}
	}
	return nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetPlayers:
		return []string{"png", "archive"}
	case PresetGM:
		return []string{"pdf", "png", "svg"}
	default:
		return []string{"png"}
	}
}

func presetShowGrid(p PresetName) bool {
	switch p {
	case PresetPlayers:
		return false
	case PresetGM:
		return true
	default:
		return false
	}
}
