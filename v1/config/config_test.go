package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
logger:
  level: debug
qdrant:
  endpoint: qdrant.internal
  port: 7334
cellstore:
  collection: cells-staging
jobs:
  segmentation_scale: 4
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if f.Logger.Level != "debug" {
		t.Errorf("logger level: got %q", f.Logger.Level)
	}
	if f.Qdrant.Endpoint != "qdrant.internal" || f.Qdrant.Port != 7334 {
		t.Errorf("qdrant: got %+v", f.Qdrant)
	}
	if f.CellStore.Collection != "cells-staging" {
		t.Errorf("cellstore collection: got %q", f.CellStore.Collection)
	}
	if f.Jobs.SegmentationScale != 4 {
		t.Errorf("segmentation scale: got %d", f.Jobs.SegmentationScale)
	}

	// Untouched sections keep their defaults.
	if f.Metrics.Address == "" {
		t.Error("metrics defaults lost")
	}
	if f.CellStore.VectorSize == 0 {
		t.Error("cellstore vector size default lost")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
