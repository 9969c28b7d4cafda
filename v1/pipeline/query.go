package pipeline

import (
	"context"
	"fmt"

	"github.com/cytosearch/cytosearch/v1/cellstore"
	"github.com/cytosearch/cytosearch/v1/features"
	"github.com/cytosearch/cytosearch/v1/logger"
	"github.com/cytosearch/cytosearch/v1/minio"
	"github.com/cytosearch/cytosearch/v1/vectordb"
)

// Hit is one retrieved cell: the trimmed record, its similarity score when
// it came from a search, and a presigned thumbnail URL when the artifact
// store is configured.
type Hit struct {
	Record       *features.CellRecord
	Score        float32
	ThumbnailURL string
}

// Query is the read path over stored cells. It composes the vector record
// store with the artifact store, so callers get records and their crop
// artifacts through one surface.
type Query struct {
	store     *cellstore.Store
	artifacts *minio.ArtifactStore
	log       *logger.Logger
}

// NewQuery assembles the read path. Artifacts may be nil; hits then carry
// no thumbnail URLs.
func NewQuery(store *cellstore.Store, artifacts *minio.ArtifactStore, log *logger.Logger) *Query {
	return &Query{store: store, artifacts: artifacts, log: log}
}

// SimilaritySearch returns the cells of an application closest to the query
// vector, trimmed and sorted by descending similarity. Extra filter
// conditions are ANDed into the application scope.
//
// A failed presigned-URL generation degrades that hit to an empty URL
// rather than failing the search.
func (q *Query) SimilaritySearch(ctx context.Context, applicationID string, vector []float32, topK int, extra ...vectordb.FilterCondition) ([]Hit, error) {
	if applicationID == "" {
		return nil, fmt.Errorf("application id is required")
	}
	if q.store == nil {
		return nil, fmt.Errorf("no record store configured")
	}

	found, err := q.store.SimilaritySearch(ctx, vector, topK, applicationID, extra...)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(found))
	for _, f := range found {
		f.Record.Trim()
		hits = append(hits, Hit{
			Record:       f.Record,
			Score:        f.Score,
			ThumbnailURL: q.thumbnailURL(ctx, applicationID, f.Record.UUID),
		})
	}
	return hits, nil
}

// FetchCells retrieves cells of one application by UUID. UUIDs that are not
// stored are absent from the result.
func (q *Query) FetchCells(ctx context.Context, applicationID string, ids []string) ([]Hit, error) {
	if q.store == nil {
		return nil, fmt.Errorf("no record store configured")
	}

	records, err := q.store.FetchByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(records))
	for _, r := range records {
		r.Trim()
		hits = append(hits, Hit{
			Record:       r,
			ThumbnailURL: q.thumbnailURL(ctx, applicationID, r.UUID),
		})
	}
	return hits, nil
}

// DeleteApplication purges one application from both stores and reports how
// many records and artifact objects were removed. The record store goes
// first; when it fails, the artifacts stay untouched so the application
// remains consistent.
func (q *Query) DeleteApplication(ctx context.Context, applicationID string) (records uint64, objects int, err error) {
	if q.store == nil {
		return 0, 0, fmt.Errorf("no record store configured")
	}

	records, err = q.store.DeleteApplication(ctx, applicationID)
	if err != nil {
		return 0, 0, err
	}

	if q.artifacts != nil {
		objects, err = q.artifacts.DeleteApplication(ctx, applicationID)
		if err != nil {
			return records, 0, fmt.Errorf("records deleted but artifact cleanup failed: %w", err)
		}
	}

	if q.log != nil {
		q.log.Info("Deleted application", nil, map[string]interface{}{
			"application_id": applicationID,
			"records":        records,
			"objects":        objects,
		})
	}
	return records, objects, nil
}

func (q *Query) thumbnailURL(ctx context.Context, applicationID, cellUUID string) string {
	if q.artifacts == nil {
		return ""
	}
	url, err := q.artifacts.ThumbnailURL(ctx, applicationID, cellUUID)
	if err != nil {
		if q.log != nil {
			q.log.Warn("Failed to presign thumbnail", err, map[string]interface{}{
				"application_id": applicationID,
				"cell_uuid":      cellUUID,
			})
		}
		return ""
	}
	return url
}
