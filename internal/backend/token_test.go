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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSignAndVerifyToken(t *testing.T) {
	secret := "unit-secret"
	tok, err := signToken(secret, "gm", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if !strings.Contains(tok, ".") {
		t.Fatalf("token missing separator: %q", tok)
	}
	sub, err := verifyToken(secret, tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sub != "gm" {
		t.Fatalf("subject = %q, want gm", sub)
	}
	// Wrong secret must fail
	if _, err := verifyToken("other-secret", tok); err == nil {
		t.Fatalf("expected bad signature with wrong secret")
	}
	// Tampered payload must fail
	parts := strings.SplitN(tok, ".", 2)
	if _, err := verifyToken(secret, parts[0]+"x."+parts[1]); err == nil {
		t.Fatalf("expected error for tampered payload")
	}
	// Expired token must fail
	old, err := signToken(secret, "gm", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("sign expired: %v", err)
	}
	if _, err := verifyToken(secret, old); err == nil {
		t.Fatalf("expected expiry error")
	}
	// Malformed tokens
	for _, bad := range []string{"", "abc", "a.b.c", "!!!.???"} {
		if _, err := verifyToken(secret, bad); err == nil {
			t.Fatalf("expected error for malformed token %q", bad)
		}
	}
}

func TestWithAuthMiddleware(t *testing.T) {
	secret := "unit-secret"
	var gotSub string
	h := withAuth(secret, func(w http.ResponseWriter, r *http.Request, subject string) {
		gotSub = subject
		w.WriteHeader(http.StatusOK)
	})

	// Missing header
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/campaigns", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: status = %d, want 401", rec.Code)
	}

	// Garbage token
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/campaigns", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: status = %d, want 401", rec.Code)
	}

	// Valid token passes subject through
	tok, err := signToken(secret, "players", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/campaigns", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token: status = %d, want 200", rec.Code)
	}
	if gotSub != "players" {
		t.Fatalf("subject = %q, want players", gotSub)
	}
}
