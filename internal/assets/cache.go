/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package assets caches decoded tile and pin images by URL. Fetches run
// asynchronously; until an image is loaded the renderer paints a placeholder
// and a Subscribe hook triggers a re-render when the state changes.
package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

// State tracks one asset's lifecycle.
type State int

const (
	StateLoading State = iota
	StateLoaded
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// maxAssetBytes caps a single fetched image.
const maxAssetBytes = 32 << 20

type entry struct {
	state State
	img   image.Image
	err   error
}

// Cache resolves URLs (http(s) or local paths) to decoded images. Safe for
// concurrent use. The zero value is not usable; call New.
type Cache struct {
	client  *http.Client
	timeout time.Duration

	mu      sync.Mutex
	entries map[string]*entry
	subs    []func(url string, state State)
}

// New creates a cache. A nil client uses http.DefaultClient.
func New(client *http.Client) *Cache {
	if client == nil {
		client = http.DefaultClient
	}
	return &Cache{
		client:  client,
		timeout: 30 * time.Second,
		entries: make(map[string]*entry),
	}
}

// Subscribe registers a callback invoked (from the fetch goroutine) whenever
// an asset finishes loading or fails. Typically wired to a re-render request.
func (c *Cache) Subscribe(fn func(url string, state State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// Image returns the decoded image for url if it is loaded. A first request
// for an unknown url starts an asynchronous fetch and reports a miss.
func (c *Cache) Image(url string) (image.Image, bool) {
	c.mu.Lock()
	e, ok := c.entries[url]
	if !ok {
		e = &entry{state: StateLoading}
		c.entries[url] = e
		go c.fetch(url)
	}
	img, loaded := e.img, e.state == StateLoaded
	c.mu.Unlock()
	return img, loaded
}

// StateOf reports the lifecycle state of url without triggering a fetch.
func (c *Cache) StateOf(url string) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[url]
	if !ok {
		return StateLoading, false
	}
	return e.state, true
}

// Put stores an already decoded image, bypassing the fetch path. Used by
// tests and by campaign asset preloading.
func (c *Cache) Put(url string, img image.Image) {
	c.mu.Lock()
	c.entries[url] = &entry{state: StateLoaded, img: img}
	subs := append(c.subs[:0:0], c.subs...)
	c.mu.Unlock()
	for _, fn := range subs {
		fn(url, StateLoaded)
	}
}

// Evict drops an entry so the next Image call re-fetches.
func (c *Cache) Evict(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, url)
}

func (c *Cache) fetch(url string) {
	img, err := c.load(url)
	c.mu.Lock()
	e := c.entries[url]
	if e == nil {
		// evicted while in flight
		c.mu.Unlock()
		return
	}
	state := StateLoaded
	if err != nil {
		state = StateError
	}
	e.state, e.img, e.err = state, img, err
	subs := append(c.subs[:0:0], c.subs...)
	c.mu.Unlock()
	for _, fn := range subs {
		fn(url, state)
	}
}

func (c *Cache) load(url string) (image.Image, error) {
	var rd io.ReadCloser
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("asset request: %w", err)
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("asset fetch: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("asset fetch %s: status %d", url, resp.StatusCode)
		}
		rd = resp.Body
	} else {
		f, err := os.Open(url)
		if err != nil {
			return nil, fmt.Errorf("asset open: %w", err)
		}
		rd = f
		defer func() { _ = f.Close() }()
	}

	data, err := io.ReadAll(io.LimitReader(rd, maxAssetBytes+1))
	if err != nil {
		return nil, fmt.Errorf("asset read: %w", err)
	}
	if len(data) > maxAssetBytes {
		return nil, fmt.Errorf("asset %s exceeds %d bytes", url, maxAssetBytes)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("asset decode %s: %w", url, err)
	}
	return img, nil
}
