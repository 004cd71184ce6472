/*
 * Copyright (c) 2025
 */
package export

import (
	"archive/zip"
	"path/filepath"
	"testing"
)

func TestExportCampaignArchive(t *testing.T) {
	ch := newTestCampaign(t)
	if err := ExportCampaignArchive(ch, "bundle", ArchiveOptions{}); err != nil {
		t.Fatalf("export: %v", err)
	}
	// .zip extension is enforced
	out := filepath.Join(ch.Root, "exports", "bundle.zip")
	zr, err := zip.OpenReader(out)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer func() { _ = zr.Close() }()

	want := map[string]bool{
		"scenes/scene-s1.png": false,
		"scenes/scene-s2.png": false,
		"campaign.json":       false,
	}
	for _, f := range zr.File {
		if _, ok := want[f.Name]; ok {
			want[f.Name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("archive missing entry %s", name)
		}
	}
}

func TestExportCampaignArchiveSceneSelection(t *testing.T) {
	ch := newTestCampaign(t)
	if err := ExportCampaignArchive(ch, "partial.zip", ArchiveOptions{Scenes: []string{"s2"}}); err != nil {
		t.Fatalf("export: %v", err)
	}
	zr, err := zip.OpenReader(filepath.Join(ch.Root, "exports", "partial.zip"))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer func() { _ = zr.Close() }()
	for _, f := range zr.File {
		if f.Name == "scenes/scene-s1.png" {
			t.Fatalf("scene s1 should not be in the archive")
		}
	}
}
