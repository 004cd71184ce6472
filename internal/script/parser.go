/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gridscene/internal/geom"
	"gridscene/internal/scene"
)

// Parse parses blockout text into scenes of shapes.
// Supported syntax (minimal, one statement per line, coordinates in grid units):
// - Scene headings:
//   - Lines starting with "#" or "Scene:" introduce a new scene. The rest of the line is the title.
//
// - wall x1 y1 x2 y2
// - door x1 y1 x2 y2 [open]
// - window x1 y1 x2 y2
// - region rect x y w h [name...]
// - region circle x y r [name...]
// - region poly x1 y1 x2 y2 x3 y3 ... [name does not apply]
// - pin x y [text...]
// - Notes: lines starting with ';' attach to the current scene's notes.
// Blank lines separate statements but carry no meaning. Malformed statements
// produce positioned errors and are skipped; parsing continues.
func Parse(input string) (Blockout, []Error) {
	b := Blockout{Scenes: []Scene{}}
	var errs []Error

	scanner := bufio.NewScanner(strings.NewReader(input))
	lineNo := 0
	currentScene := Scene{}
	seq := 0

	// Patterns
	reScene := regexp.MustCompile(`^(#+)\s*(.*)$`)
	reSceneAlt := regexp.MustCompile(`^(?i)\s*Scene:\s*(.+)$`)

	nextID := func(prefix string) string {
		seq++
		return fmt.Sprintf("%s%d", prefix, seq)
	}

	flushScene := func() {
		if strings.TrimSpace(currentScene.Title) != "" || len(currentScene.Shapes) > 0 || len(currentScene.Notes) > 0 {
			b.Scenes = append(b.Scenes, currentScene)
		}
	}

	fail := func(col int, format string, args ...any) {
		errs = append(errs, Error{Line: lineNo, Column: col, Message: fmt.Sprintf(format, args...)})
	}

	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		trim := strings.TrimSpace(strings.TrimRight(raw, "\r\n"))
		if trim == "" {
			continue
		}

		// Scene heading
		if m := reScene.FindStringSubmatch(trim); m != nil {
			flushScene()
			currentScene = Scene{Title: strings.TrimSpace(m[2])}
			continue
		}
		if m := reSceneAlt.FindStringSubmatch(trim); m != nil {
			flushScene()
			currentScene = Scene{Title: strings.TrimSpace(m[1])}
			continue
		}

		// Note line
		if strings.HasPrefix(trim, ";") {
			currentScene.Notes = append(currentScene.Notes, strings.TrimSpace(strings.TrimPrefix(trim, ";")))
			continue
		}

		// Statements start with a keyword; anything before the first scene
		// heading opens an implicit scene.
		if len(b.Scenes) == 0 && strings.TrimSpace(currentScene.Title) == "" && len(currentScene.Shapes) == 0 && len(currentScene.Notes) == 0 {
			currentScene.Title = "Untitled"
		}

		fields := strings.Fields(trim)
		keyword := strings.ToLower(fields[0])
		args := fields[1:]

		switch keyword {
		case "wall", "door", "window":
			if len(args) < 4 {
				fail(1, "%s needs 4 coordinates, got %d", keyword, len(args))
				continue
			}
			coords, err := parseFloats(args[:4])
			if err != nil {
				fail(len(keyword)+2, "%s: %v", keyword, err)
				continue
			}
			kind := scene.SegmentWall
			switch keyword {
			case "door":
				kind = scene.SegmentDoor
			case "window":
				kind = scene.SegmentWindow
			}
			seg := &scene.Segment{Kind: kind, X1: coords[0], Y1: coords[1], X2: coords[2], Y2: coords[3]}
			if len(args) > 4 && strings.EqualFold(args[4], "open") {
				if kind == scene.SegmentWall {
					fail(1, "wall cannot be open")
					continue
				}
				seg.Open = true
			}
			currentScene.Shapes = append(currentScene.Shapes, scene.Shape{ID: nextID(keyword[:1]), Kind: scene.KindSegment, Segment: seg})

		case "region":
			if len(args) < 1 {
				fail(1, "region needs a form (rect, circle or poly)")
				continue
			}
			form := strings.ToLower(args[0])
			rest := args[1:]
			switch form {
			case "rect":
				if len(rest) < 4 {
					fail(1, "region rect needs x y w h")
					continue
				}
				coords, err := parseFloats(rest[:4])
				if err != nil {
					fail(1, "region rect: %v", err)
					continue
				}
				w, h := coords[2], coords[3]
				re := &scene.Region{Shape: scene.RegionRect, X: coords[0], Y: coords[1], Width: &w, Height: &h, Name: strings.Join(rest[4:], " ")}
				currentScene.Shapes = append(currentScene.Shapes, scene.Shape{ID: nextID("r"), Kind: scene.KindRegion, Region: re})
			case "circle":
				if len(rest) < 3 {
					fail(1, "region circle needs x y r")
					continue
				}
				coords, err := parseFloats(rest[:3])
				if err != nil {
					fail(1, "region circle: %v", err)
					continue
				}
				rad := coords[2]
				re := &scene.Region{Shape: scene.RegionCircle, X: coords[0], Y: coords[1], Radius: &rad, Name: strings.Join(rest[3:], " ")}
				currentScene.Shapes = append(currentScene.Shapes, scene.Shape{ID: nextID("r"), Kind: scene.KindRegion, Region: re})
			case "poly":
				coords, err := parseFloats(rest)
				if err != nil {
					fail(1, "region poly: %v", err)
					continue
				}
				if len(coords) < 6 || len(coords)%2 != 0 {
					fail(1, "region poly needs at least 3 x y pairs")
					continue
				}
				pts := make([]geom.Pt, 0, len(coords)/2)
				for i := 0; i < len(coords); i += 2 {
					pts = append(pts, geom.Pt{X: coords[i], Y: coords[i+1]})
				}
				re := &scene.Region{Shape: scene.RegionPolygon, X: pts[0].X, Y: pts[0].Y, Points: pts}
				currentScene.Shapes = append(currentScene.Shapes, scene.Shape{ID: nextID("r"), Kind: scene.KindRegion, Region: re})
			default:
				fail(1, "unknown region form %q", form)
			}

		case "pin":
			if len(args) < 2 {
				fail(1, "pin needs x y")
				continue
			}
			coords, err := parseFloats(args[:2])
			if err != nil {
				fail(1, "pin: %v", err)
				continue
			}
			p := &scene.Pin{X: coords[0], Y: coords[1], Text: strings.Join(args[2:], " ")}
			currentScene.Shapes = append(currentScene.Shapes, scene.Shape{ID: nextID("p"), Kind: scene.KindPin, Pin: p})

		default:
			fail(1, "unknown statement %q", keyword)
		}
	}
	// Append last scene
	flushScene()

	if err := scanner.Err(); err != nil {
		errs = append(errs, Error{Line: lineNo, Column: 1, Message: err.Error()})
	}
	return b, errs
}

// ToScenes materializes the blockout into engine scenes with the given grid
// and canvas size. Notes join with newlines; scene IDs derive from titles.
func (b Blockout) ToScenes(g geom.Grid, width, height int) []scene.Scene {
	out := make([]scene.Scene, 0, len(b.Scenes))
	for i, bs := range b.Scenes {
		out = append(out, scene.Scene{
			ID:     sceneID(bs.Title, i),
			Name:   bs.Title,
			Grid:   g,
			Width:  width,
			Height: height,
			Shapes: bs.Shapes,
			Notes:  strings.Join(bs.Notes, "\n"),
		})
	}
	return out
}

// sceneID slugs the title: lower-case, spaces to dashes, plus a position
// suffix to keep IDs unique across same-named scenes.
func sceneID(title string, idx int) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '-'
		default:
			return -1
		}
	}, slug)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "scene"
	}
	return fmt.Sprintf("%s-%d", slug, idx+1)
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", f)
		}
		out[i] = v
	}
	return out, nil
}
