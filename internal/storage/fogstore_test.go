/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package storage

import (
	"context"
	"testing"

	"gridscene/internal/fog"
)

func TestFogStateRoundTrip(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	g := fog.NewGrid(10, 8, 25)
	g.Reveal(2, 3, 4, 2)
	g.Hide(3, 3, 1, 1)

	if err := SaveFogState(ctx, root, "s1", "gm", g); err != nil {
		t.Fatalf("SaveFogState: %v", err)
	}
	got, err := LoadFogState(ctx, root, "s1", "gm")
	if err != nil {
		t.Fatalf("LoadFogState: %v", err)
	}
	if got == nil {
		t.Fatalf("expected stored fog state")
	}
	if got.Cols != 10 || got.Rows != 8 || got.CellSize != 25 {
		t.Fatalf("dimensions mismatch: %+v", got)
	}
	if !got.Revealed(2, 3) || got.Revealed(3, 3) {
		t.Fatalf("revealed plane mismatch")
	}
	if !got.Explored(3, 3) {
		t.Fatalf("explored plane should survive hide")
	}
	if got.Revealed(0, 0) || got.Explored(0, 0) {
		t.Fatalf("untouched cells should stay hidden")
	}
}

func TestFogStateMissingIsNil(t *testing.T) {
	root := t.TempDir()
	got, err := LoadFogState(context.Background(), root, "nope", "gm")
	if err != nil {
		t.Fatalf("LoadFogState: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing fog state")
	}
}

func TestFogStateDelete(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	g := fog.NewGrid(2, 2, 50)
	g.Reveal(0, 0, 2, 2)
	if err := SaveFogState(ctx, root, "s1", "p1", g); err != nil {
		t.Fatalf("SaveFogState: %v", err)
	}
	if err := DeleteFogState(ctx, root, "s1", "p1"); err != nil {
		t.Fatalf("DeleteFogState: %v", err)
	}
	got, err := LoadFogState(ctx, root, "s1", "p1")
	if err != nil || got != nil {
		t.Fatalf("expected deleted fog state, got %+v err %v", got, err)
	}
}
