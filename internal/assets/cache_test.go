/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.SetRGBA(1, 1, color.RGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func waitFor(t *testing.T, c *Cache, url string, want State) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if st, ok := c.StateOf(url); ok && st == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	st, _ := c.StateOf(url)
	t.Fatalf("asset %s never reached %v, last state %v", url, want, st)
}

func TestFetchAndCache(t *testing.T) {
	data := pngBytes(t)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	c := New(srv.Client())
	if _, ok := c.Image(srv.URL + "/tile.png"); ok {
		t.Fatalf("first access must miss while the fetch is in flight")
	}
	waitFor(t, c, srv.URL+"/tile.png", StateLoaded)
	img, ok := c.Image(srv.URL + "/tile.png")
	if !ok || img == nil {
		t.Fatalf("expected loaded image after fetch")
	}
	if img.Bounds().Dx() != 4 {
		t.Fatalf("decoded bounds = %v", img.Bounds())
	}
	if hits.Load() != 1 {
		t.Fatalf("expected a single fetch, got %d", hits.Load())
	}
}

func TestFetchErrorState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := New(srv.Client())
	url := srv.URL + "/gone.png"
	c.Image(url)
	waitFor(t, c, url, StateError)
	if img, ok := c.Image(url); ok || img != nil {
		t.Fatalf("failed asset must keep reporting a miss")
	}
}

func TestSubscribeNotifies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(pngBytes(t))
	}))
	defer srv.Close()

	c := New(srv.Client())
	done := make(chan State, 1)
	c.Subscribe(func(url string, st State) { done <- st })
	c.Image(srv.URL + "/a.png")
	select {
	case st := <-done:
		if st != StateLoaded {
			t.Fatalf("notified state = %v", st)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("subscriber never notified")
	}
}

func TestPutAndEvict(t *testing.T) {
	c := New(nil)
	notified := make(chan State, 1)
	c.Subscribe(func(url string, st State) { notified <- st })
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	c.Put("local", img)
	if got, ok := c.Image("local"); !ok || got != img {
		t.Fatalf("put image must be served directly")
	}
	select {
	case st := <-notified:
		if st != StateLoaded {
			t.Fatalf("put notification state = %v", st)
		}
	case <-time.After(time.Second):
		t.Fatalf("put must notify subscribers")
	}
	c.Evict("local")
	if st, ok := c.StateOf("local"); ok {
		t.Fatalf("evicted entry still present in state %v", st)
	}
}
