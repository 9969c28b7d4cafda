package jobs

import (
	"context"

	"go.uber.org/fx"

	"github.com/cytosearch/cytosearch/v1/acquisition"
	"github.com/cytosearch/cytosearch/v1/logger"
	"github.com/cytosearch/cytosearch/v1/metrics"
	"github.com/cytosearch/cytosearch/v1/pipeline"
	"github.com/cytosearch/cytosearch/v1/segmentation"
)

// FXModule provides the job pipeline manager and ties its workers to the
// application lifecycle: started on app start, joined on app stop.
var FXModule = fx.Module("jobs",
	fx.Provide(NewManagerWithDI),
	fx.Invoke(RegisterJobsLifecycle),
)

// ManagerParams groups the manager dependencies
type ManagerParams struct {
	fx.In

	Config    Config
	Scope     acquisition.Service `optional:"true"`
	Segmenter segmentation.Segmenter
	Builder   *pipeline.Builder
	Logger    *logger.Logger
	Metrics   *metrics.PipelineMetrics `optional:"true"`
}

// NewManagerWithDI creates the job manager using dependency injection.
func NewManagerWithDI(params ManagerParams) *Manager {
	m := NewManager(params.Config, params.Scope, params.Segmenter, params.Builder, params.Logger)
	if params.Metrics != nil {
		m = m.WithMetrics(params.Metrics)
	}
	return m
}

// JobsLifecycleParams groups the lifecycle dependencies
type JobsLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Manager   *Manager
}

// RegisterJobsLifecycle starts the stage workers with the application and
// joins them on shutdown. Stop closes intake; already queued jobs drain
// before the workers exit.
func RegisterJobsLifecycle(params JobsLifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			params.Manager.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			params.Manager.Stop()
			return nil
		},
	})
}
