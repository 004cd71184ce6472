/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestExportCampaignPDF(t *testing.T) {
	ch := newTestCampaign(t)
	opt := PDFOptions{ShowGrid: true, IncludeNotes: true, IncludeLegend: true}
	if err := ExportCampaignPDF(ch, "handout.pdf", opt); err != nil {
		t.Fatalf("export: %v", err)
	}
	out := filepath.Join(ch.Root, "exports", "handout.pdf")
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Fatalf("output is not a PDF (starts with %q)", b[:min(8, len(b))])
	}
	if len(b) < 1024 {
		t.Fatalf("pdf suspiciously small: %d bytes", len(b))
	}
}

func TestExportCampaignPDFSceneSelection(t *testing.T) {
	ch := newTestCampaign(t)
	if err := ExportCampaignPDF(ch, "one.pdf", PDFOptions{Scenes: []string{"s2"}}); err != nil {
		t.Fatalf("export: %v", err)
	}
	if _, err := os.Stat(filepath.Join(ch.Root, "exports", "one.pdf")); err != nil {
		t.Fatalf("missing output: %v", err)
	}
}

func TestExportCampaignPDFNilHandle(t *testing.T) {
	if err := ExportCampaignPDF(nil, "x.pdf", PDFOptions{}); err == nil {
		t.Fatalf("expected error for nil handle")
	}
}
