/*
 * Copyright (c) 2025
 */
package export

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBatchExport_GMPreset(t *testing.T) {
	ch := newTestCampaign(t)
	if err := BatchExport(ch, BatchOptions{Preset: PresetGM}); err != nil {
		t.Fatalf("batch export: %v", err)
	}
	base := filepath.Join(ch.Root, "exports", "gm")
	for _, p := range []string{
		filepath.Join(base, "campaign.pdf"),
		filepath.Join(base, "png", "scene-s1.png"),
		filepath.Join(base, "png", "scene-s2.png"),
		filepath.Join(base, "svg", "scene-s1.svg"),
	} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("missing output %s: %v", p, err)
		}
	}
}

func TestBatchExport_PlayersPreset(t *testing.T) {
	ch := newTestCampaign(t)
	if err := BatchExport(ch, BatchOptions{Preset: PresetPlayers}); err != nil {
		t.Fatalf("batch export: %v", err)
	}
	base := filepath.Join(ch.Root, "exports", "players")
	for _, p := range []string{
		filepath.Join(base, "png", "scene-s1.png"),
		filepath.Join(base, "campaign.zip"),
	} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("missing output %s: %v", p, err)
		}
	}
}

func TestBatchExport_UnknownFormat(t *testing.T) {
	ch := newTestCampaign(t)
	if err := BatchExport(ch, BatchOptions{Preset: PresetGM, Formats: []string{"docx"}}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
