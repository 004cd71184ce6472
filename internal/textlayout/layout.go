/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package textlayout measures and wraps shape labels (pin text, text
// drawings, measurement readouts) behind a deterministic interface so the
// renderer can size background boxes before painting anything.
package textlayout

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Metrics provides face metrics in pixels.
type Metrics struct {
	Ascent  float64
	Descent float64
	LineGap float64
}

// LineHeight is the vertical advance between baselines.
func (m Metrics) LineHeight() float64 { return m.Ascent + m.Descent + m.LineGap }

// Provider resolves a concrete font.Face for label drawing.
type Provider interface {
	Resolve() (font.Face, Metrics)
}

// BasicProvider uses x/image/basicfont Face7x13: fixed metrics, no asset
// loading, deterministic in tests and headless exports.
type BasicProvider struct{}

func (BasicProvider) Resolve() (font.Face, Metrics) {
	f := basicfont.Face7x13
	m := f.Metrics()
	return f, Metrics{
		Ascent:  float64(m.Ascent.Round()),
		Descent: float64(m.Descent.Round()),
		LineGap: float64(m.Height.Round() - m.Ascent.Round() - m.Descent.Round()),
	}
}

// Label is a measured, possibly wrapped, multi-line label.
type Label struct {
	Lines   []string
	Width   float64 // widest line, pixels
	Height  float64 // total height, pixels
	Metrics Metrics
}

// Layouter measures and wraps label text. The zero value falls back to
// BasicProvider.
type Layouter struct {
	Provider Provider
}

func New(provider Provider) *Layouter { return &Layouter{Provider: provider} }

// Measure returns the advance width of s in pixels.
func (l *Layouter) Measure(s string) float64 {
	face, _ := l.resolve()
	d := &font.Drawer{Face: face}
	return float64(d.MeasureString(s).Round())
}

// Layout breaks text on explicit newlines and wraps on spaces so no line
// exceeds maxWidth pixels (0 disables wrapping). A single word wider than
// maxWidth gets its own line rather than being split mid-word.
func (l *Layouter) Layout(text string, maxWidth float64) Label {
	face, met := l.resolve()
	d := &font.Drawer{Face: face}

	lab := Label{Metrics: met}
	push := func(line string) {
		lab.Lines = append(lab.Lines, line)
		if w := float64(d.MeasureString(line).Round()); w > lab.Width {
			lab.Width = w
		}
		lab.Height += met.LineHeight()
	}

	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			push("")
			continue
		}
		cur := words[0]
		for _, w := range words[1:] {
			cand := cur + " " + w
			if maxWidth > 0 && float64(d.MeasureString(cand).Round()) > maxWidth {
				push(cur)
				cur = w
				continue
			}
			cur = cand
		}
		push(cur)
	}
	return lab
}

func (l *Layouter) resolve() (font.Face, Metrics) {
	p := l.Provider
	if p == nil {
		p = BasicProvider{}
	}
	return p.Resolve()
}
