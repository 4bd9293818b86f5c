// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/meshintel/vertexmd/pkg/types"
)

// ManifestFile is the name of the batch run manifest.
const ManifestFile = "manifest.yaml"

// Manifest records the outcome of one batch conversion run.
type Manifest struct {
	RunAt   string          `yaml:"run_at"`
	Source  string          `yaml:"source"`
	Entries []ManifestEntry `yaml:"entries"`
}

// ManifestEntry records the outcome for one export file.
type ManifestEntry struct {
	Input    string                 `yaml:"input"`
	Output   string                 `yaml:"output"`
	Status   types.ConversionStatus `yaml:"status"`
	Messages int                    `yaml:"messages"`
	Error    string                 `yaml:"error,omitempty"`
}

// NewManifest starts a manifest for a batch run over source.
func NewManifest(source string) *Manifest {
	return &Manifest{
		RunAt:  time.Now().UTC().Format(time.RFC3339),
		Source: source,
	}
}

// Add appends the outcome of one conversion.
func (m *Manifest) Add(inputPath, outputPath string, result Result) {
	entry := ManifestEntry{
		Input:    inputPath,
		Output:   outputPath,
		Status:   result.Status,
		Messages: result.Messages,
	}
	if result.Err != nil {
		entry.Error = result.Err.Error()
	}
	m.Entries = append(m.Entries, entry)
}

// Write serializes the manifest to dir/manifest.yaml.
func (m *Manifest) Write(dir string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, ManifestFile), data, 0o644)
}
