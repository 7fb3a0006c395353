// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// exportLimit caps an export at far more runs than a single account
// accumulates; anything past it is silently left out of the export file.
const exportLimit = 100000

// ExportYAML writes the full run archive, breaks included, to
// dir/export.yaml and returns the path written.
func (s *Store) ExportYAML(ctx context.Context) (string, error) {
	runs, err := s.exportRuns(ctx)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.yaml")
	data, err := yaml.Marshal(runs)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// ExportJSON writes the full run archive, breaks included, to
// dir/export.json and returns the path written.
func (s *Store) ExportJSON(ctx context.Context) (string, error) {
	runs, err := s.exportRuns(ctx)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.json")
	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Store) exportRuns(ctx context.Context) ([]Run, error) {
	runs, err := s.List(ctx, exportLimit)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	// List omits breaks; refetch each run with them. One query pair per
	// run, which is fine at the handful-of-runs scale this archive sees.
	for i := range runs {
		full, err := s.Get(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i] = *full
	}
	return runs, nil
}
