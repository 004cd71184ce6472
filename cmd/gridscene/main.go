/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gridscene/internal/assetpack"
	"gridscene/internal/backend"
	"gridscene/internal/config"
	"gridscene/internal/crash"
	"gridscene/internal/domain"
	"gridscene/internal/export"
	applog "gridscene/internal/log"
	"gridscene/internal/script"
	"gridscene/internal/storage"
	"gridscene/internal/ui"
	"gridscene/internal/version"
)

func usage() {
	fmt.Println("GridScene — virtual tabletop scene engine")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  gridscene version|-v|--version                  Show version")
	fmt.Println("  gridscene init <dir> <name>                     Create a new campaign at <dir> with name <name>")
	fmt.Println("  gridscene open <dir>                            Open campaign at <dir> and print summary")
	fmt.Println("  gridscene save <dir>                            Save campaign at <dir> (creates backup)")
	fmt.Println("  gridscene render <dir> <sceneID> <out.png>      Rasterize one scene to PNG")
	fmt.Println("  gridscene export-pdf <dir> [out.pdf]            Export all scenes as a PDF handout")
	fmt.Println("  gridscene export-svg <dir> [outDir]             Export all scenes as SVG files")
	fmt.Println("  gridscene export-batch <dir> <players|gm>       Run a preset batch export")
	fmt.Println("  gridscene blockout <dir> <script.txt>           Import scenes from a blockout script")
	fmt.Println("  gridscene search <dir> <text...>                Full-text search over the campaign index")
	fmt.Println("  gridscene assets-pack <dir> <out.zip>           Zip the campaign's assets folder")
	fmt.Println("  gridscene assets-install <dir> <pack.zip>       Install an asset pack into the campaign")
	fmt.Println("  gridscene serve                                 Run the sync/search backend server")
	fmt.Println("  gridscene ui [<dir>]                            Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var ch *storage.CampaignHandle
	defer func() { crash.Recover(ch) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("GridScene — virtual tabletop scene engine")
			fmt.Println(version.String())
			return
		case "init":
			if len(args) < 4 {
				fmt.Println("init requires <dir> and <name>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			name := args[3]
			l.Info("init campaign", slog.String("root", abs), slog.String("name", name))
			c := domain.Campaign{Name: name}
			h, err := storage.InitCampaign(abs, c)
			if err != nil {
				fail(l, "init failed", err)
			}
			ch = h
			fmt.Println("Created campaign at", abs)
			return
		case "open":
			ch = mustOpen(l, args, 3)
			fmt.Printf("Opened campaign: %s\n", ch.Campaign.Name)
			fmt.Printf("Scenes: %d\n", len(ch.Campaign.Scenes))
			fmt.Println("Root:", ch.Root)
			return
		case "save":
			ch = mustOpen(l, args, 3)
			ch.Campaign.Metadata.Notes = fmt.Sprintf("Saved at %s", time.Now().Format(time.RFC3339))
			if err := storage.Save(ch); err != nil {
				fail(l, "save failed", err)
			}
			fmt.Println("Saved campaign and created a backup of previous manifest (if any).")
			return
		case "render":
			if len(args) < 5 {
				fmt.Println("render requires <dir>, <sceneID> and <out.png>")
				usage()
				os.Exit(2)
			}
			ch = mustOpen(l, args, 5)
			cfg, _, _ := config.Load()
			opt := export.PNGOptions{ShowGrid: cfg.Engine.ShowGrid}
			if err := export.ExportScenePNG(ch, args[3], args[4], opt); err != nil {
				fail(l, "render failed", err)
			}
			fmt.Println("Rendered scene", args[3])
			return
		case "export-pdf":
			ch = mustOpen(l, args, 3)
			out := "campaign.pdf"
			if len(args) >= 4 {
				out = args[3]
			}
			cfg, _, _ := config.Load()
			opt := export.PDFOptions{ShowGrid: cfg.Engine.ShowGrid, IncludeNotes: true, IncludeLegend: true}
			if err := export.ExportCampaignPDF(ch, out, opt); err != nil {
				fail(l, "export-pdf failed", err)
			}
			fmt.Println("Exported PDF:", out)
			return
		case "export-svg":
			ch = mustOpen(l, args, 3)
			outDir := "svg"
			if len(args) >= 4 {
				outDir = args[3]
			}
			cfg, _, _ := config.Load()
			if err := export.ExportSceneSVGs(ch, outDir, export.SVGOptions{ShowGrid: cfg.Engine.ShowGrid}); err != nil {
				fail(l, "export-svg failed", err)
			}
			fmt.Println("Exported SVGs to", outDir)
			return
		case "export-batch":
			if len(args) < 4 {
				fmt.Println("export-batch requires <dir> and <players|gm>")
				usage()
				os.Exit(2)
			}
			ch = mustOpen(l, args, 4)
			if err := export.BatchExport(ch, export.BatchOptions{Preset: export.PresetName(args[3])}); err != nil {
				fail(l, "export-batch failed", err)
			}
			fmt.Println("Batch export done for preset", args[3])
			return
		case "blockout":
			if len(args) < 4 {
				fmt.Println("blockout requires <dir> and <script.txt>")
				usage()
				os.Exit(2)
			}
			ch = mustOpen(l, args, 4)
			src, err := os.ReadFile(args[3])
			if err != nil {
				fail(l, "read script failed", err)
			}
			blk, errs := script.Parse(string(src))
			for _, e := range errs {
				fmt.Printf("%s:%d:%d: %s\n", args[3], e.Line, e.Column, e.Message)
			}
			cfg, _, _ := config.Load()
			g := cfg.Engine.Grid()
			scenes := blk.ToScenes(g, 0, 0)
			ch.Campaign.Scenes = append(ch.Campaign.Scenes, scenes...)
			if err := storage.Save(ch); err != nil {
				fail(l, "save after blockout failed", err)
			}
			fmt.Printf("Imported %d scene(s) from %s (%d warning(s))\n", len(scenes), args[3], len(errs))
			return
		case "search":
			if len(args) < 4 {
				fmt.Println("search requires <dir> and <text>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			q := storage.SearchQuery{Text: strings.Join(args[3:], " ")}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			res, err := storage.Search(ctx, abs, q)
			if err != nil {
				fail(l, "search failed", err)
			}
			for _, r := range res {
				line := fmt.Sprintf("%s\t%s", r.Type, r.Path)
				if r.Snippet != "" {
					line += "\t" + r.Snippet
				}
				fmt.Println(line)
			}
			fmt.Printf("%d result(s)\n", len(res))
			return
		case "assets-pack":
			if len(args) < 4 {
				fmt.Println("assets-pack requires <dir> and <out.zip>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			if err := assetpack.ExportCampaignAssets(abs, args[3]); err != nil {
				fail(l, "assets-pack failed", err)
			}
			fmt.Println("Wrote asset pack:", args[3])
			return
		case "assets-install":
			if len(args) < 4 {
				fmt.Println("assets-install requires <dir> and <pack.zip>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			n, err := assetpack.InstallPack(abs, args[3])
			if err != nil {
				fail(l, "assets-install failed", err)
			}
			fmt.Printf("Installed %d asset(s)\n", n)
			return
		case "serve":
			l.Info("starting backend server")
			if err := backend.Start(); err != nil {
				fail(l, "server failed", err)
			}
			return
		case "ui":
			var dir string
			if len(args) >= 3 {
				dir = args[2]
			}
			if err := ui.Run(dir); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}

// mustOpen opens the campaign named by args[2], which must exist when the
// argument count is at least min.
func mustOpen(l *slog.Logger, args []string, min int) *storage.CampaignHandle {
	if len(args) < min {
		fmt.Println(args[1], "requires <dir>")
		usage()
		os.Exit(2)
	}
	abs, _ := filepath.Abs(args[2])
	l.Info("open campaign", slog.String("root", abs))
	h, err := storage.Open(abs)
	if err != nil {
		fail(l, "open failed", err)
	}
	return h
}

func fail(l *slog.Logger, msg string, err error) {
	l.Error(msg, slog.Any("err", err))
	fmt.Println("Error:", err)
	os.Exit(1)
}
