/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import "sort"

// StyleSheet provides hierarchical resolution of LabelStyle presets.
// It supports three scopes:
//   - Global: app defaults or builtins
//   - Campaign: styles defined for the open campaign
//   - Scene: overrides specific to a single scene
//
// Resolution precedence is Scene > Campaign > Global > Builtin.
// Builtins are provided by styles.go (builtinStyles map).
//
// This is an in-memory helper to keep UI and storage decoupled; campaign code
// can populate the Campaign and Scene maps as needed.
type StyleSheet struct {
	Global   map[string]LabelStyle
	Campaign map[string]LabelStyle
	Scene    map[string]LabelStyle
}

// NewStyleSheet creates a stylesheet with empty scopes and builtin styles
// copied into Global for convenience.
func NewStyleSheet() *StyleSheet {
	ss := &StyleSheet{
		Global:   map[string]LabelStyle{},
		Campaign: map[string]LabelStyle{},
		Scene:    map[string]LabelStyle{},
	}
	// Seed with builtins as global defaults
	for _, name := range ListStyles() {
		if st, ok := GetStyle(name); ok {
			ss.Global[name] = st
		}
	}
	return ss
}

// WithCampaign returns a copy of the stylesheet with the campaign scope replaced.
func (ss *StyleSheet) WithCampaign(styles map[string]LabelStyle) *StyleSheet {
	out := &StyleSheet{Global: ss.Global, Campaign: styles, Scene: ss.Scene}
	if out.Campaign == nil {
		out.Campaign = map[string]LabelStyle{}
	}
	return out
}

// WithScene returns a copy of the stylesheet with the scene scope replaced.
func (ss *StyleSheet) WithScene(styles map[string]LabelStyle) *StyleSheet {
	out := &StyleSheet{Global: ss.Global, Campaign: ss.Campaign, Scene: styles}
	if out.Scene == nil {
		out.Scene = map[string]LabelStyle{}
	}
	return out
}

// Resolve finds the style by name using Scene > Campaign > Global > Builtin
// precedence.
func (ss *StyleSheet) Resolve(name string) (LabelStyle, bool) {
	if st, ok := ss.Scene[name]; ok {
		return st, true
	}
	if st, ok := ss.Campaign[name]; ok {
		return st, true
	}
	if st, ok := ss.Global[name]; ok {
		return st, true
	}
	return GetStyle(name)
}

// Names returns all resolvable style names, builtins first in their stable
// order, then custom names sorted alphabetically.
func (ss *StyleSheet) Names() []string {
	builtin := ListStyles()
	seen := map[string]bool{}
	for _, n := range builtin {
		seen[n] = true
	}
	var custom []string
	for _, scope := range []map[string]LabelStyle{ss.Global, ss.Campaign, ss.Scene} {
		for n := range scope {
			if !seen[n] {
				seen[n] = true
				custom = append(custom, n)
			}
		}
	}
	sort.Strings(custom)
	return append(builtin, custom...)
}
