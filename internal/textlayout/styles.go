/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

// FontSpec names a font by family with size, weight and italic flags. The
// library resolves it to a concrete face; unknown families fall back to the
// deterministic basic face.
type FontSpec struct {
	Family string
	SizePt float64
	Weight int
	Italic bool
}

// LabelStyle is a reusable preset for map annotations: the font to resolve
// and the wrap width applied when laying the label out. MaxWidth is in
// pixels; 0 disables wrapping.
type LabelStyle struct {
	Name     string
	Font     FontSpec
	MaxWidth float64
}

var builtinStyles = map[string]LabelStyle{
	// Reasonable defaults for map annotations. Sizes are in points.
	// Users can override per campaign.
	"Pin": {
		Name:     "Pin",
		Font:     FontSpec{Family: "Inter", SizePt: 11, Weight: 400, Italic: false},
		MaxWidth: 160,
	},
	"Note": {
		Name:     "Note",
		Font:     FontSpec{Family: "Inter", SizePt: 10, Weight: 400, Italic: true},
		MaxWidth: 220,
	},
	"Title": {
		Name:     "Title",
		Font:     FontSpec{Family: "Inter", SizePt: 16, Weight: 700, Italic: false},
		MaxWidth: 0,
	},
}

// GetStyle returns a builtin style preset by name. The second return value is false if
// the style is not found.
func GetStyle(name string) (LabelStyle, bool) { s, ok := builtinStyles[name]; return s, ok }

// ListStyles lists the names of the builtin styles in stable order.
func ListStyles() []string {
	// Simple deterministic order
	return []string{"Pin", "Note", "Title"}
}
