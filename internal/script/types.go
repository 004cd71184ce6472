/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import "gridscene/internal/scene"

// Blockout represents a parsed map blockout: a plain-text shorthand for
// sketching scenes before detailed editing. Each scene carries the shapes
// its statements produced, in source order.

type Blockout struct {
	Scenes []Scene
}

type Scene struct {
	Title  string
	Notes  []string // ";" author notes, kept for the scene's notes field
	Shapes []scene.Shape
}

// Error represents a parse error with position context.

type Error struct {
	Line    int
	Column  int
	Message string
}
