package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/cytosearch/cytosearch/v1/acquisition"
	"github.com/cytosearch/cytosearch/v1/cellstore"
	"github.com/cytosearch/cytosearch/v1/embedding"
	"github.com/cytosearch/cytosearch/v1/features"
	"github.com/cytosearch/cytosearch/v1/imaging"
	"github.com/cytosearch/cytosearch/v1/logger"
	"github.com/cytosearch/cytosearch/v1/metrics"
	"github.com/cytosearch/cytosearch/v1/minio"
	"github.com/cytosearch/cytosearch/v1/regions"
)

// Builder drives the full single-image path: process all cells, embed the
// crops in one batch, splice vectors back, persist, and trim.
type Builder struct {
	processor *Processor
	embedder  *embedding.Client
	store     *cellstore.Store
	artifacts *minio.ArtifactStore
	log       *logger.Logger
	pm        *metrics.PipelineMetrics
}

// NewBuilder assembles a builder. Store and artifacts may be nil when the
// caller never persists (Options.Storage == StorageNone).
func NewBuilder(processor *Processor, embedder *embedding.Client, store *cellstore.Store, artifacts *minio.ArtifactStore, log *logger.Logger) *Builder {
	return &Builder{
		processor: processor,
		embedder:  embedder,
		store:     store,
		artifacts: artifacts,
		log:       log,
	}
}

// WithMetrics attaches pipeline instruments to the builder.
func (b *Builder) WithMetrics(pm *metrics.PipelineMetrics) *Builder {
	b.pm = pm
	return b
}

// BuildCellRecords analyzes one image and returns its cell records in
// label order.
//
// An empty mask returns an empty list without touching any downstream
// service. A mask that labels every pixel leaves no background to estimate
// and fails the image with regions.ErrNoBackground. All crops of the image
// go to the embedding service in a single
// batch call; a failed or short batch leaves the affected records without
// vectors instead of failing the image. Records without vectors are
// excluded from storage with a warning but still returned. Stored records
// come back trimmed: the vector and full-resolution crop are dropped, the
// UUID remains as the retrieval handle.
//
// Each call mints fresh UUIDs; repeated calls over the same image are not
// idempotent.
func (b *Builder) BuildCellRecords(
	ctx context.Context,
	img *imaging.Stack,
	mask *imaging.LabelMask,
	status *acquisition.MicroscopeStatus,
	imageID string,
	opts Options,
) ([]*features.CellRecord, error) {
	descriptors := regions.ComputeDescriptors(mask)
	if len(descriptors) == 0 {
		return []*features.CellRecord{}, nil
	}

	// A mask without a single background pixel is structurally broken
	// input, not a degraded image, so it fails the whole build.
	bg, err := regions.ComputeBackground(img, mask)
	if err != nil {
		return nil, fmt.Errorf("background estimation failed: %w", err)
	}

	if !opts.IncludePosition {
		status = nil
	}

	results := b.processor.ProcessCells(ctx, img, mask, descriptors, bg, status, imageID)
	if len(results) == 0 {
		return []*features.CellRecord{}, nil
	}

	b.embedResults(ctx, results, imageID, opts)

	records := make([]*features.CellRecord, len(results))
	for i, res := range results {
		records[i] = res.Record
	}

	if opts.Storage == StorageVector {
		if err := b.persist(ctx, results, records, opts); err != nil {
			return records, err
		}
	}

	return records, nil
}

// embedResults sends every crop through one embedding batch call and
// splices the returned vectors onto the records by index. Results and
// records stay index-aligned because ProcessCells preserves order.
func (b *Builder) embedResults(ctx context.Context, results []CellResult, imageID string, opts Options) {
	if len(opts.EmbeddingTypes) == 0 {
		return
	}

	crops := make([][]byte, len(results))
	for i, res := range results {
		crops[i] = res.CropPNG
	}

	start := time.Now()
	embedded, err := b.embedder.EmbedBatch(ctx, crops, opts.EmbeddingTypes)
	if err != nil {
		if b.pm != nil {
			b.pm.ObserveEmbedBatch(start, "error")
		}
		b.log.Warn("Embedding batch failed, records will carry no vectors", err, map[string]interface{}{
			"image_id": imageID,
			"crops":    len(crops),
		})
		return
	}
	if b.pm != nil {
		b.pm.ObserveEmbedBatch(start, "success")
	}

	for i, res := range results {
		if i >= len(embedded) {
			break
		}
		for _, t := range opts.EmbeddingTypes {
			if vec := embedded[i].Vector(t); len(vec) > 0 {
				res.Record.Embedding = vec
				break
			}
		}
	}
}

// persist stores eligible records and their crop artifacts, then trims the
// stored records. Connectivity failures propagate to the caller.
func (b *Builder) persist(ctx context.Context, results []CellResult, records []*features.CellRecord, opts Options) error {
	if b.store == nil {
		return fmt.Errorf("vector storage requested but no store configured")
	}

	stored, skipped, err := b.store.InsertBatch(ctx, opts.ApplicationID, records)
	if err != nil {
		return fmt.Errorf("failed to store cell records: %w", err)
	}
	if skipped > 0 && b.pm != nil {
		b.pm.CellsDropped("no_embedding", skipped)
	}
	b.log.Info("Stored cell records", nil, map[string]interface{}{
		"application_id": opts.ApplicationID,
		"stored":         stored,
		"skipped":        skipped,
	})

	if b.artifacts != nil {
		for _, res := range results {
			if len(res.Record.Embedding) == 0 {
				continue
			}
			if err := b.artifacts.SaveCrop(ctx, opts.ApplicationID, res.Record.UUID, res.CropPNG, res.Record.ThumbnailPNG); err != nil {
				return fmt.Errorf("failed to store crop artifacts: %w", err)
			}
		}
	}

	// Trim only what was actually stored; unstored records keep their
	// transient fields so the caller can retry or inspect them.
	for _, r := range records {
		if len(r.Embedding) > 0 {
			r.Trim()
		}
	}
	return nil
}
