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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal HTTP client for the thin backend API.
// It covers the read paths plus scene and fog upload used by the desktop app
// under a feature flag.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
}

// NewClient creates a new backend client. baseURL may include a trailing slash; it will be normalized.
func NewClient(baseURL string, token string) *Client {
	b := strings.TrimRight(baseURL, "/")
	return &Client{
		BaseURL: b,
		Token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server %s %s: %s", method, u.Path, resp.Status)
	}
	if dest == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

// Campaign is a minimal projection for listing.
type Campaign struct {
	ID        int64     `json:"id"`
	StableID  string    `json:"stable_id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"version"`
}

// FetchToken requests a bearer token from the server and stores it on the client.
func (c *Client) FetchToken(ctx context.Context, subject string, ttl time.Duration) error {
	var resp struct {
		Token string `json:"token"`
	}
	req := map[string]any{"subject": subject, "ttl_seconds": int64(ttl / time.Second)}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/token", req, &resp); err != nil {
		return err
	}
	c.Token = resp.Token
	return nil
}

// ListCampaigns returns available campaigns (read-only).
func (c *Client) ListCampaigns(ctx context.Context) ([]Campaign, error) {
	var list []Campaign
	if err := c.doJSON(ctx, http.MethodGet, "/api/campaigns", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ListScenes returns scene metadata for a campaign.
func (c *Client) ListScenes(ctx context.Context, campaignID int64) ([]SceneInfo, error) {
	var list []SceneInfo
	path := fmt.Sprintf("/api/campaigns/%d/scenes", campaignID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetScene fetches the stored payload for one scene.
func (c *Client) GetScene(ctx context.Context, campaignID int64, sceneID string) (*SceneEnvelope, error) {
	var env SceneEnvelope
	path := fmt.Sprintf("/api/campaigns/%d/scenes/%s", campaignID, url.PathEscape(sceneID))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// PutScene uploads a scene payload; the server applies last-writer-wins and
// returns the new version.
func (c *Client) PutScene(ctx context.Context, campaignID int64, sceneID string, payload any) (int64, error) {
	var resp struct {
		Version json.Number `json:"version"`
	}
	path := fmt.Sprintf("/api/campaigns/%d/scenes/%s", campaignID, url.PathEscape(sceneID))
	if err := c.doJSON(ctx, http.MethodPut, path, payload, &resp); err != nil {
		return 0, err
	}
	v, _ := resp.Version.Int64()
	return v, nil
}

// GetFog fetches one viewer's fog state for a scene.
func (c *Client) GetFog(ctx context.Context, campaignID int64, sceneID, viewer string) (*FogEnvelope, error) {
	var env FogEnvelope
	path := fmt.Sprintf("/api/campaigns/%d/scenes/%s/fog/%s", campaignID, url.PathEscape(sceneID), url.PathEscape(viewer))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// PutFog uploads one viewer's fog state for a scene.
func (c *Client) PutFog(ctx context.Context, campaignID int64, env FogEnvelope) error {
	path := fmt.Sprintf("/api/campaigns/%d/scenes/%s/fog/%s", campaignID, url.PathEscape(env.SceneID), url.PathEscape(env.Viewer))
	return c.doJSON(ctx, http.MethodPut, path, env, nil)
}
