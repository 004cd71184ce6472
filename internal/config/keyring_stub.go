/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

//go:build nokeyring

package config

// In-memory token store for builds without OS keychain access (CI, headless
// servers). Tokens do not survive the process.

import (
	"errors"
	"sync"
)

var (
	stubMu     sync.Mutex
	stubTokens = map[string]string{}
)

var errKeyringNotFound = errors.New("keyring: secret not found")

func init() {
	keyringGet = func(service, key string) (string, error) {
		stubMu.Lock()
		defer stubMu.Unlock()
		v, ok := stubTokens[service+"/"+key]
		if !ok {
			return "", errKeyringNotFound
		}
		return v, nil
	}
	keyringSet = func(service, key, value string) error {
		stubMu.Lock()
		defer stubMu.Unlock()
		stubTokens[service+"/"+key] = value
		return nil
	}
	keyringDelete = func(service, key string) error {
		stubMu.Lock()
		defer stubMu.Unlock()
		delete(stubTokens, service+"/"+key)
		return nil
	}
}
