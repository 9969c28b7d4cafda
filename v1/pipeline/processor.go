package pipeline

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/cytosearch/cytosearch/v1/acquisition"
	"github.com/cytosearch/cytosearch/v1/features"
	"github.com/cytosearch/cytosearch/v1/imaging"
	"github.com/cytosearch/cytosearch/v1/logger"
	"github.com/cytosearch/cytosearch/v1/metrics"
	"github.com/cytosearch/cytosearch/v1/regions"
)

// CellResult pairs one cell's record with the full-resolution crop bytes
// destined for the embedding service.
type CellResult struct {
	Record  *features.CellRecord
	CropPNG []byte
}

// Processor runs feature extraction and crop compositing concurrently
// across all labeled regions of one image.
type Processor struct {
	compositor *imaging.Compositor
	log        *logger.Logger
	pm         *metrics.PipelineMetrics

	// beforeCell, when set, runs at the start of each cell worker. Tests
	// use it to skew completion order.
	beforeCell func(desc regions.Descriptor)
}

// NewProcessor builds a processor with the default crop spec.
func NewProcessor(log *logger.Logger) *Processor {
	return &Processor{
		compositor: imaging.NewCompositor(imaging.DefaultCropSpec()),
		log:        log,
	}
}

// WithMetrics attaches pipeline instruments to the processor.
func (p *Processor) WithMetrics(pm *metrics.PipelineMetrics) *Processor {
	p.pm = pm
	return p
}

// ProcessCells runs one worker per region over a pool bounded by
// min(region count, GOMAXPROCS) and returns the surviving results in the
// original descriptor order.
//
// Image, mask, and background values are shared read-only across workers;
// nothing is copied and nothing locks. Each worker writes only its own
// slot of the results slice, so reassembly is just a nil-filtering pass in
// index order. A cell that is skipped, fails, or panics drops only itself.
func (p *Processor) ProcessCells(
	ctx context.Context,
	img *imaging.Stack,
	mask *imaging.LabelMask,
	descriptors []regions.Descriptor,
	bg imaging.BackgroundValues,
	status *acquisition.MicroscopeStatus,
	imageID string,
) []CellResult {
	if len(descriptors) == 0 {
		return nil
	}

	slots := make([]*CellResult, len(descriptors))

	workers := len(descriptors)
	if limit := runtime.GOMAXPROCS(0); workers > limit {
		workers = limit
	}

	var g errgroup.Group
	g.SetLimit(workers)

	for i := range descriptors {
		g.Go(func() error {
			// Workers never return errors: a failure must not cancel
			// sibling cells, it only leaves this slot nil.
			defer func() {
				if r := recover(); r != nil {
					p.dropCell(imageID, descriptors[i].Label, "panic")
					p.log.Error("Cell worker panicked", nil, map[string]interface{}{
						"image_id": imageID,
						"label":    descriptors[i].Label,
						"panic":    r,
					})
				}
			}()
			if p.beforeCell != nil {
				p.beforeCell(descriptors[i])
			}
			slots[i] = p.processCell(img, mask, descriptors[i], bg, status, imageID)
			return nil
		})
	}
	g.Wait()

	results := make([]CellResult, 0, len(descriptors))
	for _, slot := range slots {
		if slot != nil {
			results = append(results, *slot)
		}
	}
	return results
}

// processCell runs the full single-cell path: record extraction, then crop
// compositing. Returns nil when the cell produces no output.
func (p *Processor) processCell(
	img *imaging.Stack,
	mask *imaging.LabelMask,
	desc regions.Descriptor,
	bg imaging.BackgroundValues,
	status *acquisition.MicroscopeStatus,
	imageID string,
) *CellResult {
	record, err := features.ExtractRecord(img, mask, desc, bg, status, imageID)
	if err != nil {
		if errors.Is(err, features.ErrEmptyRegion) {
			p.dropCell(imageID, desc.Label, "empty_region")
		} else {
			p.dropCell(imageID, desc.Label, "extract_error")
			p.log.Warn("Cell feature extraction failed", err, map[string]interface{}{
				"image_id": imageID,
				"label":    desc.Label,
			})
		}
		return nil
	}

	crop, err := p.compositor.Compose(img, mask, desc.Label, desc.BBox, bg)
	if err != nil {
		if errors.Is(err, imaging.ErrNoSignal) {
			p.dropCell(imageID, desc.Label, "no_signal")
		} else {
			p.dropCell(imageID, desc.Label, "compose_error")
			p.log.Warn("Cell crop compositing failed", err, map[string]interface{}{
				"image_id": imageID,
				"label":    desc.Label,
			})
		}
		return nil
	}

	record.ThumbnailPNG = crop.Thumbnail
	if p.pm != nil {
		p.pm.CellProcessed(imageID)
	}
	return &CellResult{Record: record, CropPNG: crop.PNG}
}

func (p *Processor) dropCell(imageID string, label int32, reason string) {
	if p.pm != nil {
		p.pm.CellsDropped(reason, 1)
	}
	p.log.Debug("Dropping cell", nil, map[string]interface{}{
		"image_id": imageID,
		"label":    label,
		"reason":   reason,
	})
}
