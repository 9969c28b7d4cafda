package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cytosearch/cytosearch/v1/acquisition"
	"github.com/cytosearch/cytosearch/v1/features"
	"github.com/cytosearch/cytosearch/v1/imaging"
	"github.com/cytosearch/cytosearch/v1/logger"
	"github.com/cytosearch/cytosearch/v1/metrics"
	"github.com/cytosearch/cytosearch/v1/pipeline"
	"github.com/cytosearch/cytosearch/v1/segmentation"
)

// SnapJob acquires one field of view: move, optional autofocus, snap every
// configured channel, then hand the image to segmentation.
type SnapJob struct {
	ImageID  string
	Position acquisition.Position
	Channels []acquisition.ChannelSetting
	Options  pipeline.Options
}

// SegmentJob carries an acquired image into the segmentation stage. It is
// exported so pre-acquired images can enter the pipeline mid-chain.
type SegmentJob struct {
	ImageID string
	Image   *imaging.Stack
	Status  *acquisition.MicroscopeStatus
	Options pipeline.Options
}

// BuildJob carries a segmented image into record building.
type BuildJob struct {
	ImageID string
	Image   *imaging.Stack
	Mask    *imaging.LabelMask
	Status  *acquisition.MicroscopeStatus
	Options pipeline.Options
}

// errStopped surfaces as the outcome of any job that arrives after Stop
// has closed its queue.
var errStopped = errors.New("pipeline stopped")

// Outcome is one terminal result in the shared accumulator: either the
// records built for an image or the error that stopped its job.
type Outcome struct {
	ImageID string                 `json:"image_id"`
	Records []*features.CellRecord `json:"records,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// Config holds the job pipeline settings.
type Config struct {
	// SegmentationScale is the integer downsample factor passed to the
	// segmentation service.
	SegmentationScale int `yaml:"segmentation_scale"`
}

// Manager owns the three stage queues and their workers.
type Manager struct {
	cfg Config

	snapQ    *queue[SnapJob]
	segmentQ *queue[SegmentJob]
	buildQ   *queue[BuildJob]

	scope     acquisition.Service
	segmenter segmentation.Segmenter
	builder   *pipeline.Builder

	log *logger.Logger
	pm  *metrics.PipelineMetrics

	// pending counts every job not yet terminal, across all stages.
	// Hand-off increments for the next stage before the current stage
	// decrements, so an observer can never see a false zero between
	// stages.
	mu       sync.Mutex
	idle     *sync.Cond
	pending  int
	outcomes []Outcome

	workers sync.WaitGroup
	started bool
}

// NewManager assembles the job pipeline. The acquisition service may be
// nil when only segment and build jobs will be enqueued.
func NewManager(cfg Config, scope acquisition.Service, segmenter segmentation.Segmenter, builder *pipeline.Builder, log *logger.Logger) *Manager {
	if cfg.SegmentationScale <= 0 {
		cfg.SegmentationScale = 2
	}
	m := &Manager{
		cfg:       cfg,
		snapQ:     newQueue[SnapJob](),
		segmentQ:  newQueue[SegmentJob](),
		buildQ:    newQueue[BuildJob](),
		scope:     scope,
		segmenter: segmenter,
		builder:   builder,
		log:       log,
	}
	m.idle = sync.NewCond(&m.mu)
	return m
}

// WithMetrics attaches pipeline instruments to the manager.
func (m *Manager) WithMetrics(pm *metrics.PipelineMetrics) *Manager {
	m.pm = pm
	return m
}

// Start launches the three stage workers.
func (m *Manager) Start() {
	if m.started {
		return
	}
	m.started = true

	m.workers.Add(3)
	go m.runSnapWorker()
	go m.runSegmentWorker()
	go m.runBuildWorker()
}

// Stop closes intake on all queues and joins the workers. Queued jobs
// still drain to a terminal state before the workers exit.
func (m *Manager) Stop() {
	m.snapQ.Close()
	m.segmentQ.Close()
	m.buildQ.Close()
	m.workers.Wait()
}

// EnqueueSnap adds an acquisition job and returns the snap queue depth.
// Never blocks. After Stop the job is rejected as a failed outcome.
func (m *Manager) EnqueueSnap(job SnapJob) int {
	m.addPending()
	depth, ok := m.snapQ.Put(job)
	if !ok {
		m.fail("snap", job.ImageID, errStopped)
		return 0
	}
	m.reportDepth("snap", depth)
	return depth
}

// EnqueueSegment adds a pre-acquired image and returns the segment queue
// depth. Never blocks. After Stop the job is rejected as a failed outcome.
func (m *Manager) EnqueueSegment(job SegmentJob) int {
	m.addPending()
	depth, ok := m.segmentQ.Put(job)
	if !ok {
		m.fail("segment", job.ImageID, errStopped)
		return 0
	}
	m.reportDepth("segment", depth)
	return depth
}

// EnqueueBuild adds a pre-segmented image and returns the build queue
// depth. Never blocks. After Stop the job is rejected as a failed outcome.
func (m *Manager) EnqueueBuild(job BuildJob) int {
	m.addPending()
	depth, ok := m.buildQ.Put(job)
	if !ok {
		m.fail("build", job.ImageID, errStopped)
		return 0
	}
	m.reportDepth("build", depth)
	return depth
}

// WaitUntilDone blocks until every enqueued job, including work generated
// by earlier stages, has reached a terminal state, then atomically drains
// and returns the accumulated outcomes.
func (m *Manager) WaitUntilDone(ctx context.Context) ([]Outcome, error) {
	// Wake the waiter when the context dies; cond has no ctx support.
	stop := context.AfterFunc(ctx, func() {
		m.mu.Lock()
		m.idle.Broadcast()
		m.mu.Unlock()
	})
	defer stop()

	m.mu.Lock()
	defer m.mu.Unlock()
	for m.pending > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m.idle.Wait()
	}

	drained := m.outcomes
	m.outcomes = nil
	return drained, nil
}

// ── Stage workers ────────────────────────────────────────────────────────

func (m *Manager) runSnapWorker() {
	defer m.workers.Done()
	for {
		job, ok := m.snapQ.Get()
		if !ok {
			return
		}
		m.reportDepth("snap", m.snapQ.Len())

		img, status, err := m.snap(job)
		if err != nil {
			m.fail("snap", job.ImageID, err)
			continue
		}

		// Hand off before going terminal so pending never dips to zero
		// between stages.
		m.addPending()
		depth, handed := m.segmentQ.Put(SegmentJob{
			ImageID: job.ImageID,
			Image:   img,
			Status:  status,
			Options: job.Options,
		})
		if handed {
			m.reportDepth("segment", depth)
		} else {
			m.fail("segment", job.ImageID, errStopped)
		}
		m.complete("snap")
	}
}

func (m *Manager) runSegmentWorker() {
	defer m.workers.Done()
	for {
		job, ok := m.segmentQ.Get()
		if !ok {
			return
		}
		m.reportDepth("segment", m.segmentQ.Len())

		bf := job.Image.Plane(imaging.BrightField)
		if bf == nil {
			m.fail("segment", job.ImageID, fmt.Errorf("image has no brightfield channel"))
			continue
		}

		mask, err := m.segmenter.Segment(context.Background(), bf, m.cfg.SegmentationScale)
		if err != nil {
			m.fail("segment", job.ImageID, err)
			continue
		}

		m.addPending()
		depth, handed := m.buildQ.Put(BuildJob{
			ImageID: job.ImageID,
			Image:   job.Image,
			Mask:    mask,
			Status:  job.Status,
			Options: job.Options,
		})
		if handed {
			m.reportDepth("build", depth)
		} else {
			m.fail("build", job.ImageID, errStopped)
		}
		m.complete("segment")
	}
}

func (m *Manager) runBuildWorker() {
	defer m.workers.Done()
	for {
		job, ok := m.buildQ.Get()
		if !ok {
			return
		}
		m.reportDepth("build", m.buildQ.Len())

		records, err := m.builder.BuildCellRecords(context.Background(), job.Image, job.Mask, job.Status, job.ImageID, job.Options)
		if err != nil {
			m.fail("build", job.ImageID, err)
			continue
		}

		m.mu.Lock()
		m.outcomes = append(m.outcomes, Outcome{ImageID: job.ImageID, Records: records})
		m.mu.Unlock()
		m.complete("build")
	}
}

// snap runs one acquisition: move, optional autofocus, one plane per
// configured channel, and a status snapshot taken at the final position.
func (m *Manager) snap(job SnapJob) (*imaging.Stack, *acquisition.MicroscopeStatus, error) {
	if m.scope == nil {
		return nil, nil, fmt.Errorf("no acquisition service configured")
	}
	ctx := context.Background()

	if err := m.scope.MoveTo(ctx, job.Position); err != nil {
		return nil, nil, fmt.Errorf("stage move failed: %w", err)
	}

	var planes [imaging.NumChannels]*imaging.Plane
	for _, setting := range job.Channels {
		if setting.Channel < 0 || setting.Channel >= imaging.NumChannels {
			return nil, nil, fmt.Errorf("unknown channel %d in snap settings", setting.Channel)
		}
		if setting.AutofocusBeforehand {
			if err := m.scope.Autofocus(ctx); err != nil {
				return nil, nil, fmt.Errorf("autofocus failed: %w", err)
			}
		}
		plane, err := m.scope.Snap(ctx, setting)
		if err != nil {
			return nil, nil, fmt.Errorf("snap of channel %s failed: %w", setting.Channel, err)
		}
		planes[setting.Channel] = plane
	}

	img, err := imaging.NewStack(planes)
	if err != nil {
		return nil, nil, err
	}

	status, err := m.scope.GetStatus(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("status readout failed: %w", err)
	}
	return img, status, nil
}

// ── Bookkeeping ──────────────────────────────────────────────────────────

func (m *Manager) addPending() {
	m.mu.Lock()
	m.pending++
	m.mu.Unlock()
}

// complete marks one job terminal and wakes waiters at zero pending.
func (m *Manager) complete(stage string) {
	if m.pm != nil {
		m.pm.JobCompleted(stage)
	}
	m.mu.Lock()
	m.pending--
	if m.pending == 0 {
		m.idle.Broadcast()
	}
	m.mu.Unlock()
}

// fail records the error in place of the job's expected output and keeps
// the worker loop alive.
func (m *Manager) fail(stage, imageID string, err error) {
	m.log.Error("Job failed", err, map[string]interface{}{
		"stage":    stage,
		"image_id": imageID,
	})
	if m.pm != nil {
		m.pm.JobFailed(stage)
	}

	m.mu.Lock()
	m.outcomes = append(m.outcomes, Outcome{ImageID: imageID, Error: err.Error()})
	m.pending--
	if m.pending == 0 {
		m.idle.Broadcast()
	}
	m.mu.Unlock()
}

func (m *Manager) reportDepth(stage string, depth int) {
	if m.pm != nil {
		m.pm.SetQueueDepth(stage, depth)
	}
}
