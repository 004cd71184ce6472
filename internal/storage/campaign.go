/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gridscene/internal/domain"
	applog "gridscene/internal/log"
)

const (
	ManifestFileName = "campaign.json"
	BackupsDirName   = "backups"
)

// Standard subfolders scaffolded under every campaign root.
var standardSubDirs = []string{
	"assets",
	"exports",
	BackupsDirName,
}

// CampaignHandle keeps track of the campaign state loaded/saved from disk.
// Root is the campaign directory containing campaign.json and subfolders.
// Campaign holds the in-memory representation of the manifest.
type CampaignHandle struct {
	Root         string
	ManifestPath string
	Campaign     domain.Campaign
}

// InitCampaign creates a new campaign directory at root (creating it if it
// doesn't exist), scaffolds the standard subfolders, and writes the given
// manifest file transactionally.
func InitCampaign(root string, c domain.Campaign) (*CampaignHandle, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root path is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create campaign root: %w", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return nil, fmt.Errorf("create subdir %s: %w", d, err)
		}
	}
	if c.SchemaVersion == 0 {
		c.SchemaVersion = domain.CurrentSchemaVersion
	}

	ch := &CampaignHandle{
		Root:         root,
		ManifestPath: filepath.Join(root, ManifestFileName),
		Campaign:     c,
	}
	if err := Save(ch); err != nil {
		return nil, err
	}
	return ch, nil
}

// Open loads an existing campaign from the given root directory.
// If the current manifest cannot be read or parsed, it will attempt the
// latest backup.
func Open(root string) (*CampaignHandle, error) {
	mpath := filepath.Join(root, ManifestFileName)
	b, err := os.ReadFile(mpath)
	if err != nil {
		c, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("open manifest: %w; backup attempt: %v", err, berr)
		}
		return &CampaignHandle{Root: root, ManifestPath: mpath, Campaign: *c}, nil
	}
	var c domain.Campaign
	if uerr := json.Unmarshal(b, &c); uerr != nil {
		bc, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("parse manifest: %w; backup attempt: %v", uerr, berr)
		}
		return &CampaignHandle{Root: root, ManifestPath: mpath, Campaign: *bc}, nil
	}
	migrateCampaign(&c)
	return &CampaignHandle{Root: root, ManifestPath: mpath, Campaign: c}, nil
}

// migrateCampaign lifts older manifests to the current schema version.
func migrateCampaign(c *domain.Campaign) {
	if c.SchemaVersion == 0 {
		// pre-versioned manifests are treated as v1
		c.SchemaVersion = 1
	}
}

// Save writes the current CampaignHandle.Campaign to disk with transactional
// semantics and a timestamped backup of the previous manifest (if present).
func Save(ch *CampaignHandle) error {
	if ch == nil {
		return errors.New("nil CampaignHandle")
	}
	if ch.Root == "" || ch.ManifestPath == "" {
		return errors.New("invalid CampaignHandle: missing paths")
	}
	// Marshal in human-readable form
	data, err := json.MarshalIndent(ch.Campaign, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')

	bdir := filepath.Join(ch.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}

	// If a current manifest exists, copy it to a timestamped backup before replacing
	if _, statErr := os.Stat(ch.ManifestPath); statErr == nil {
		stamp := time.Now().Format("20060102-150405")
		bname := fmt.Sprintf("%s.%s.bak", ManifestFileName, stamp)
		bpath := filepath.Join(bdir, bname)
		if cerr := copyFile(ch.ManifestPath, bpath); cerr != nil {
			return fmt.Errorf("backup current manifest: %w", cerr)
		}
	}

	// Transactional write: to temp file in same directory, then rename over target
	dir := filepath.Dir(ch.ManifestPath)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", ManifestFileName, os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return fmt.Errorf("write temp manifest: %w", werr)
	}
	// On Windows, replace by removing destination first if needed
	if _, err := os.Stat(ch.ManifestPath); err == nil {
		_ = os.Remove(ch.ManifestPath)
	}
	if rerr := os.Rename(temp, ch.ManifestPath); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace manifest: %w", rerr)
	}

	// Refresh the embedded index from the saved manifest so search stays in
	// step with scene names, pin labels and drawing text. The index is derived
	// data; a failure here must not fail the save.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := UpdateIndex(ctx, ch.Root, ch.Campaign); err != nil {
		applog.WithComponent("storage").Warn("index refresh after save failed",
			slog.String("root", ch.Root), slog.Any("err", err))
	}
	return nil
}

// SaveAs writes the manifest to a new root folder, scaffolding structure if
// needed, and updates the handle.
func SaveAs(ch *CampaignHandle, newRoot string) error {
	if ch == nil {
		return errors.New("nil CampaignHandle")
	}
	if newRoot == "" {
		return errors.New("new root is empty")
	}
	if err := os.MkdirAll(newRoot, 0o755); err != nil {
		return fmt.Errorf("create new root: %w", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(newRoot, d), 0o755); err != nil {
			return fmt.Errorf("create subdir %s: %w", d, err)
		}
	}
	ch.Root = newRoot
	ch.ManifestPath = filepath.Join(newRoot, ManifestFileName)
	return Save(ch)
}

// writeFileSync writes data to a file, ensures it is flushed to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	return nil
}

// copyFile copies a file from src to dst (overwrites dst if exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	if err := df.Sync(); err != nil {
		return err
	}
	return nil
}

// openFromLatestBackup tries to open the latest timestamped backup.
func openFromLatestBackup(root string) (*domain.Campaign, error) {
	bdir := filepath.Join(root, BackupsDirName)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	var candidates []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, ManifestFileName+".") && strings.HasSuffix(name, ".bak") {
			candidates = append(candidates, filepath.Join(bdir, name))
		}
	}
	if len(candidates) == 0 {
		return nil, errors.New("no backups found")
	}
	sort.Strings(candidates) // timestamp in name yields lexicographic order
	latest := candidates[len(candidates)-1]
	b, err := os.ReadFile(latest)
	if err != nil {
		return nil, fmt.Errorf("read latest backup: %w", err)
	}
	var c domain.Campaign
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse latest backup: %w", err)
	}
	migrateCampaign(&c)
	return &c, nil
}
