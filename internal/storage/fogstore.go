/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gridscene/internal/fog"
)

// Fog grids persist in the embedded index, one row per (scene, viewer).
// The revealed/explored planes pack one cell per bit, row-major.

// SaveFogState upserts one viewer's fog grid for a scene.
func SaveFogState(ctx context.Context, campaignRoot, sceneID, viewer string, g *fog.Grid) error {
	if g == nil {
		return errors.New("nil fog grid")
	}
	db, err := InitOrOpenIndex(campaignRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	revealed, explored := g.Snapshot()
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = db.ExecContext(ctx, `INSERT INTO fog_state(scene_id, viewer, cols, rows, cell, revealed, explored, updated_at)
		VALUES(?,?,?,?,?,?,?,?)
		ON CONFLICT(scene_id, viewer) DO UPDATE SET cols=excluded.cols, rows=excluded.rows, cell=excluded.cell,
			revealed=excluded.revealed, explored=excluded.explored, updated_at=excluded.updated_at`,
		sceneID, viewer, g.Cols, g.Rows, g.CellSize, packCells(revealed, g.Cols), packCells(explored, g.Cols), now)
	if err != nil {
		return fmt.Errorf("upsert fog state: %w", err)
	}
	return nil
}

// LoadFogState returns the stored fog grid for (scene, viewer), or nil if none.
func LoadFogState(ctx context.Context, campaignRoot, sceneID, viewer string) (*fog.Grid, error) {
	db, err := InitOrOpenIndex(campaignRoot)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	var cols, rows int
	var cell float64
	var revealed, explored []byte
	err = db.QueryRowContext(ctx, `SELECT cols, rows, cell, revealed, explored FROM fog_state WHERE scene_id=? AND viewer=?`,
		sceneID, viewer).Scan(&cols, &rows, &cell, &revealed, &explored)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query fog state: %w", err)
	}
	g := fog.NewGrid(cols, rows, cell)
	g.Restore(unpackCells(revealed, cols, rows), unpackCells(explored, cols, rows))
	return g, nil
}

// DeleteFogState removes a viewer's stored fog for a scene.
func DeleteFogState(ctx context.Context, campaignRoot, sceneID, viewer string) error {
	db, err := InitOrOpenIndex(campaignRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.ExecContext(ctx, `DELETE FROM fog_state WHERE scene_id=? AND viewer=?`, sceneID, viewer)
	return err
}

func packCells(cells [][]bool, cols int) []byte {
	total := len(cells) * cols
	out := make([]byte, (total+7)/8)
	n := 0
	for _, row := range cells {
		for i := 0; i < cols; i++ {
			if i < len(row) && row[i] {
				out[n/8] |= 1 << uint(n%8)
			}
			n++
		}
	}
	return out
}

func unpackCells(data []byte, cols, rows int) [][]bool {
	out := make([][]bool, rows)
	n := 0
	for j := 0; j < rows; j++ {
		out[j] = make([]bool, cols)
		for i := 0; i < cols; i++ {
			if n/8 < len(data) && data[n/8]&(1<<uint(n%8)) != 0 {
				out[j][i] = true
			}
			n++
		}
	}
	return out
}
