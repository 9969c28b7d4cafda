package pipeline

import (
	"go.uber.org/fx"

	"github.com/cytosearch/cytosearch/v1/cellstore"
	"github.com/cytosearch/cytosearch/v1/embedding"
	"github.com/cytosearch/cytosearch/v1/logger"
	"github.com/cytosearch/cytosearch/v1/metrics"
	"github.com/cytosearch/cytosearch/v1/minio"
)

// FXModule provides the cell processor, the record builder and the read
// path over stored cells.
var FXModule = fx.Module("pipeline",
	fx.Provide(
		NewProcessorWithDI,
		NewBuilderWithDI,
		NewQueryWithDI,
	),
)

// ProcessorParams groups the processor dependencies
type ProcessorParams struct {
	fx.In

	Logger  *logger.Logger
	Metrics *metrics.PipelineMetrics `optional:"true"`
}

// NewProcessorWithDI creates the processor using dependency injection.
func NewProcessorWithDI(params ProcessorParams) *Processor {
	p := NewProcessor(params.Logger)
	if params.Metrics != nil {
		p = p.WithMetrics(params.Metrics)
	}
	return p
}

// BuilderParams groups the builder dependencies
type BuilderParams struct {
	fx.In

	Processor *Processor
	Embedder  *embedding.Client
	Store     *cellstore.Store     `optional:"true"`
	Artifacts *minio.ArtifactStore `optional:"true"`
	Logger    *logger.Logger
	Metrics   *metrics.PipelineMetrics `optional:"true"`
}

// NewBuilderWithDI creates the builder using dependency injection.
func NewBuilderWithDI(params BuilderParams) *Builder {
	b := NewBuilder(params.Processor, params.Embedder, params.Store, params.Artifacts, params.Logger)
	if params.Metrics != nil {
		b = b.WithMetrics(params.Metrics)
	}
	return b
}

// QueryParams groups the read-path dependencies
type QueryParams struct {
	fx.In

	Store     *cellstore.Store     `optional:"true"`
	Artifacts *minio.ArtifactStore `optional:"true"`
	Logger    *logger.Logger
}

// NewQueryWithDI creates the read path using dependency injection.
func NewQueryWithDI(params QueryParams) *Query {
	return NewQuery(params.Store, params.Artifacts, params.Logger)
}
