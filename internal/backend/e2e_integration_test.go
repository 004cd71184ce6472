/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package backend

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"gridscene/internal/storage"
)

func TestE2E_SceneAndFogSync(t *testing.T) {
	db := openPGForTest(t)
	defer func() { _ = db.Close() }()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	const secret = "e2e-secret"
	srv := httptest.NewServer(newMux(db, secret))
	defer srv.Close()

	// Seed a campaign row; the server exposes read-only campaign listing.
	var cid int64
	if err := db.QueryRowContext(ctx, `INSERT INTO campaigns(name, description) VALUES($1,$2) RETURNING id`, "E2E Campaign", "demo").Scan(&cid); err != nil {
		t.Fatalf("insert campaign: %v", err)
	}

	c := NewClient(srv.URL, "")
	if err := c.FetchToken(ctx, "gm", time.Hour); err != nil {
		t.Fatalf("fetch token: %v", err)
	}
	if c.Token == "" {
		t.Fatalf("empty token after fetch")
	}

	camps, err := c.ListCampaigns(ctx)
	if err != nil {
		t.Fatalf("list campaigns: %v", err)
	}
	found := false
	for _, cc := range camps {
		if cc.ID == cid {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("campaign %d not in listing", cid)
	}

	// Upload a scene twice; the version must advance (last writer wins).
	payload := map[string]any{"id": "crypt", "name": "Crypt", "shapes": []any{}}
	v1, err := c.PutScene(ctx, cid, "crypt", payload)
	if err != nil {
		t.Fatalf("put scene: %v", err)
	}
	payload["name"] = "Crypt (revised)"
	v2, err := c.PutScene(ctx, cid, "crypt", payload)
	if err != nil {
		t.Fatalf("put scene again: %v", err)
	}
	if v2 <= v1 {
		t.Fatalf("version did not advance: v1=%d v2=%d", v1, v2)
	}

	env, err := c.GetScene(ctx, cid, "crypt")
	if err != nil {
		t.Fatalf("get scene: %v", err)
	}
	if env.Name != "Crypt (revised)" || env.Version != v2 {
		t.Fatalf("unexpected scene envelope: %+v", env)
	}
	if len(env.Payload) == 0 {
		t.Fatalf("empty scene payload")
	}

	scenes, err := c.ListScenes(ctx, cid)
	if err != nil {
		t.Fatalf("list scenes: %v", err)
	}
	if len(scenes) == 0 || scenes[0].SceneID != "crypt" {
		t.Fatalf("unexpected scene listing: %+v", scenes)
	}

	// Fog round-trip for one viewer.
	fogIn := FogEnvelope{
		SceneID:  "crypt",
		Viewer:   "players",
		Cols:     4,
		Rows:     3,
		Cell:     50,
		Revealed: []byte{0x0f, 0x00},
		Explored: []byte{0xff, 0x0f},
	}
	if err := c.PutFog(ctx, cid, fogIn); err != nil {
		t.Fatalf("put fog: %v", err)
	}
	fogOut, err := c.GetFog(ctx, cid, "crypt", "players")
	if err != nil {
		t.Fatalf("get fog: %v", err)
	}
	if fogOut.Cols != 4 || fogOut.Rows != 3 || fogOut.Cell != 50 {
		t.Fatalf("fog dimensions mismatch: %+v", fogOut)
	}
	if len(fogOut.Revealed) != 2 || fogOut.Revealed[0] != 0x0f {
		t.Fatalf("revealed plane mismatch: %v", fogOut.Revealed)
	}
	// Unknown viewer is a 404
	if _, err := c.GetFog(ctx, cid, "crypt", "nobody"); err == nil {
		t.Fatalf("expected error for unknown viewer fog")
	}

	// Seed a document and search it end-to-end through SearchPG
	if _, err := db.ExecContext(ctx, `INSERT INTO documents(id, campaign_id, doc_type, external_ref, scene_ref, shape_ref, raw_text) VALUES($1,$2,$3,$4,$5,$6,$7)`,
		2001, cid, "scene_notes", "scene:crypt:notes", "crypt", nil, "Sunrise over the barrow"); err != nil {
		t.Fatalf("seed doc: %v", err)
	}
	res, err := SearchPG(ctx, db, cid, storage.SearchQuery{Text: "Sunrise"})
	if err != nil {
		t.Fatalf("searchpg: %v", err)
	}
	if len(res) == 0 || res[0].DocID != 2001 || res[0].SceneID != "crypt" {
		t.Fatalf("expected result doc 2001 scoped to crypt, got %+v", res)
	}
}
