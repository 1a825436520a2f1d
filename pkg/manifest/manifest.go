// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package manifest owns the flat output directory: copied artifact
// files, the metadata.json document, and the sentinel that keeps an
// empty directory trackable.
package manifest

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	// MetadataFilename is the per-run metadata document.
	MetadataFilename = "metadata.json"

	// SentinelFilename keeps an emptied output directory trackable.
	SentinelFilename = ".gitkeep"
)

// 📄 Artifact is the metadata record for one copied file
type Artifact struct {
	Filename     string `json:"filename"`      // Destination name, flattened
	OriginalPath string `json:"original_path"` // Absolute source path
	SizeBytes    int64  `json:"size_bytes"`    // Bytes copied
	Type         string `json:"type"`          // Best-effort MIME type
}

// 📚 Document is the metadata.json shape persisted once per run
type Document struct {
	CreatedAt       time.Time  `json:"created_at"`
	SourceDirectory string     `json:"source_directory"`
	Artifacts       []Artifact `json:"artifacts"`
}

// 🏭 NewDocument creates a document stamped with the current UTC time
func NewDocument(sourceDir string, artifacts []Artifact) *Document {
	if artifacts == nil {
		artifacts = []Artifact{}
	}
	return &Document{
		CreatedAt:       time.Now().UTC(),
		SourceDirectory: sourceDir,
		Artifacts:       artifacts,
	}
}

// 💾 WriteDocument persists the metadata document atomically
func (m *Manager) WriteDocument(ctx context.Context, doc *Document) error {
	zerolog.Ctx(ctx).Debug().
		Int("artifacts", len(doc.Artifacts)).
		Str("dir", m.outDir).
		Msg("writing metadata document")

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Errorf("encoding metadata: %w", err)
	}
	data = append(data, '\n')

	if err := m.writeFileAtomic(MetadataFilename, data); err != nil {
		return errors.Errorf("writing metadata document: %w", err)
	}
	return nil
}

// 📖 ReadDocument loads the metadata document from the output directory
func (m *Manager) ReadDocument(ctx context.Context) (*Document, error) {
	data, err := m.readFile(MetadataFilename)
	if err != nil {
		return nil, errors.Errorf("reading metadata document: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Errorf("decoding metadata document: %w", err)
	}
	return &doc, nil
}
