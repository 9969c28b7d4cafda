package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cytosearch/cytosearch/v1/cellstore"
	"github.com/cytosearch/cytosearch/v1/embedding"
	"github.com/cytosearch/cytosearch/v1/jobs"
	"github.com/cytosearch/cytosearch/v1/logger"
	"github.com/cytosearch/cytosearch/v1/metrics"
	"github.com/cytosearch/cytosearch/v1/minio"
	"github.com/cytosearch/cytosearch/v1/qdrant"
	"github.com/cytosearch/cytosearch/v1/segmentation"
)

// File aggregates the per-package configurations for one deployment.
// Fields left out of the YAML file keep their env-derived defaults.
type File struct {
	Logger       logger.Config       `yaml:"logger"`
	Metrics      metrics.Config      `yaml:"metrics"`
	Qdrant       qdrant.Config       `yaml:"qdrant"`
	CellStore    cellstore.Config    `yaml:"cellstore"`
	Minio        minio.Config        `yaml:"minio"`
	Embedding    embedding.Config    `yaml:"embedding"`
	Segmentation segmentation.Config `yaml:"segmentation"`
	Jobs         jobs.Config         `yaml:"jobs"`
}

// Load reads a YAML configuration file over the environment-derived
// defaults, so the file only needs to state what differs.
func Load(path string) (*File, error) {
	f := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", path, err)
	}
	return f, nil
}

// Defaults builds the configuration from environment variables alone.
func Defaults() *File {
	return &File{
		Logger:       logger.NewConfig(),
		Metrics:      metrics.NewConfig(),
		Qdrant:       *qdrant.NewConfig(),
		CellStore:    *cellstore.NewConfig(),
		Minio:        *minio.NewConfig(),
		Embedding:    *embedding.NewConfig(),
		Segmentation: *segmentation.NewConfig(),
		Jobs:         jobs.Config{SegmentationScale: 2},
	}
}
