/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany..
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// Campaign-level data model. A campaign owns an ordered scene list plus the
// asset registry; it serializes to a human-readable JSON manifest
// (campaign.json) at the campaign root.

import "gridscene/internal/scene"

// Campaign is the top-level persisted container.
type Campaign struct {
	SchemaVersion int           `json:"schemaVersion"`
	Name          string        `json:"name"`
	Metadata      Metadata      `json:"metadata,omitempty"`
	ActiveSceneID string        `json:"activeSceneId,omitempty"`
	Scenes        []scene.Scene `json:"scenes"`
	Assets        []Asset       `json:"assets,omitempty"`
}

// Metadata contains optional descriptive metadata for a campaign.
type Metadata struct {
	GameSystem string `json:"gameSystem,omitempty"`
	GameMaster string `json:"gameMaster,omitempty"`
	Players    string `json:"players,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// Asset describes an external resource referenced by tiles and pins.
type Asset struct {
	Type    string `json:"type"` // image, icon, ref
	Path    string `json:"path"` // campaign-relative or absolute URL
	License string `json:"license,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// CurrentSchemaVersion is written into new manifests; Open migrates older
// versions forward.
const CurrentSchemaVersion = 1

// SceneByID returns a pointer into the campaign's scene list, or nil.
func (c *Campaign) SceneByID(id string) *scene.Scene {
	for i := range c.Scenes {
		if c.Scenes[i].ID == id {
			return &c.Scenes[i]
		}
	}
	return nil
}

// ActiveScene resolves ActiveSceneID, falling back to the first scene.
func (c *Campaign) ActiveScene() *scene.Scene {
	if s := c.SceneByID(c.ActiveSceneID); s != nil {
		return s
	}
	if len(c.Scenes) > 0 {
		return &c.Scenes[0]
	}
	return nil
}
