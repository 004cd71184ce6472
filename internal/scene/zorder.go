/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import "sort"

// PaintOrder returns indexes into shapes sorted by ascending z; equal z keeps
// insertion order so later-placed shapes paint on top of earlier ones. The
// shape slice itself is never reordered.
func PaintOrder(shapes []Shape) []int {
	idx := make([]int, len(shapes))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return shapes[idx[a]].Z < shapes[idx[b]].Z
	})
	return idx
}

// PickOrder returns indexes sorted top-most first: descending z, insertion
// order reversed within equal z, so the shape painted last is picked first.
func PickOrder(shapes []Shape) []int {
	paint := PaintOrder(shapes)
	pick := make([]int, len(paint))
	for i, v := range paint {
		pick[len(paint)-1-i] = v
	}
	return pick
}
