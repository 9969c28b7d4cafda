package cellstore

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/cytosearch/cytosearch/v1/features"
	"github.com/cytosearch/cytosearch/v1/logger"
	"github.com/cytosearch/cytosearch/v1/vectordb"
)

// Config holds the cell store settings.
type Config struct {
	// Collection is the vector collection holding all cell records.
	Collection string `yaml:"collection" env:"CELLSTORE_COLLECTION"`

	// VectorSize is the embedding dimension the collection is created with.
	VectorSize uint64 `yaml:"vector_size" env:"CELLSTORE_VECTOR_SIZE"`
}

// NewConfig reads the cell store configuration from environment variables.
func NewConfig() *Config {
	cfg := &Config{
		Collection: "cells",
		VectorSize: 512,
	}
	if v := os.Getenv("CELLSTORE_COLLECTION"); v != "" {
		cfg.Collection = v
	}
	if v := os.Getenv("CELLSTORE_VECTOR_SIZE"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil && n > 0 {
			cfg.VectorSize = n
		}
	}
	return cfg
}

// SearchHit pairs a reconstructed cell record with its similarity score.
type SearchHit struct {
	Record *features.CellRecord
	Score  float32
}

// Store persists cell records in a vector collection, namespaced per
// application through the application_id payload field.
type Store struct {
	db  vectordb.Service
	cfg Config
	log *logger.Logger
}

// NewStore builds a cell store over a vector database service.
func NewStore(db vectordb.Service, cfg Config) *Store {
	if cfg.Collection == "" {
		cfg.Collection = "cells"
	}
	return &Store{db: db, cfg: cfg}
}

// WithLogger attaches a logger to the store.
func (s *Store) WithLogger(l *logger.Logger) *Store {
	s.log = l
	return s
}

// EnsureCollection creates the backing collection when missing. Safe to
// call on every startup.
func (s *Store) EnsureCollection(ctx context.Context) error {
	return s.db.EnsureCollection(ctx, s.cfg.Collection, s.cfg.VectorSize)
}

// InsertBatch stores the records that carry an embedding vector and
// reports how many were stored and how many were skipped.
//
// A record without a vector cannot participate in similarity search, so
// it is never inserted. Skips are logged per batch, not per record.
func (s *Store) InsertBatch(ctx context.Context, applicationID string, records []*features.CellRecord) (stored, skipped int, err error) {
	if applicationID == "" {
		return 0, 0, fmt.Errorf("application id is required")
	}

	inputs := make([]vectordb.EmbeddingInput, 0, len(records))
	for _, r := range records {
		if r == nil || len(r.Embedding) == 0 {
			skipped++
			continue
		}
		inputs = append(inputs, vectordb.EmbeddingInput{
			ID:      r.UUID,
			Vector:  r.Embedding,
			Payload: recordToPayload(applicationID, r),
		})
	}

	if skipped > 0 && s.log != nil {
		s.log.Warn("Skipping cell records without embeddings", nil, map[string]interface{}{
			"application_id": applicationID,
			"skipped":        skipped,
			"total":          len(records),
		})
	}

	if len(inputs) == 0 {
		return 0, skipped, nil
	}

	if err := s.db.Insert(ctx, s.cfg.Collection, inputs); err != nil {
		return 0, skipped, fmt.Errorf("failed to insert cell records: %w", err)
	}
	return len(inputs), skipped, nil
}

// FetchByIDs retrieves cell records by their UUIDs, embedding vectors
// included. UUIDs that are not stored are absent from the result; order
// follows the database response.
func (s *Store) FetchByIDs(ctx context.Context, ids []string) ([]*features.CellRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	points, err := s.db.Fetch(ctx, s.cfg.Collection, ids, true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cell records: %w", err)
	}

	records := make([]*features.CellRecord, 0, len(points))
	for _, p := range points {
		r, err := recordFromPayload(p.ID, p.Payload, p.Vector)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// SimilaritySearch finds the cells closest to the query vector.
//
// When applicationID is non-empty, results are restricted to that
// application. Extra filter conditions are ANDed in.
func (s *Store) SimilaritySearch(ctx context.Context, query []float32, topK int, applicationID string, extra ...vectordb.FilterCondition) ([]SearchHit, error) {
	var conds []vectordb.FilterCondition
	if applicationID != "" {
		conds = append(conds, vectordb.NewMatch(fieldApplicationID, applicationID))
	}
	conds = append(conds, extra...)

	var filters *vectordb.FilterSet
	if len(conds) > 0 {
		filters = vectordb.NewFilterSet(vectordb.Must(conds...))
	}

	results, err := s.db.Search(ctx, vectordb.SearchRequest{
		CollectionName: s.cfg.Collection,
		Vector:         query,
		TopK:           topK,
		Filters:        filters,
	})
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	hits := make([]SearchHit, 0, len(results[0]))
	for _, p := range results[0] {
		r, err := recordFromPayload(p.ID, p.Payload, p.Vector)
		if err != nil {
			return nil, err
		}
		hits = append(hits, SearchHit{Record: r, Score: p.Score})
	}
	return hits, nil
}

// DeleteApplication removes every cell record of an application and
// reports how many points were deleted.
func (s *Store) DeleteApplication(ctx context.Context, applicationID string) (uint64, error) {
	if applicationID == "" {
		return 0, fmt.Errorf("application id is required")
	}

	filters := vectordb.NewFilterSet(
		vectordb.Must(vectordb.NewMatch(fieldApplicationID, applicationID)),
	)

	removed, err := s.db.DeleteByFilter(ctx, s.cfg.Collection, filters)
	if err != nil {
		return 0, fmt.Errorf("failed to delete application '%s': %w", applicationID, err)
	}

	if s.log != nil {
		s.log.Info("Deleted application cell records", nil, map[string]interface{}{
			"application_id": applicationID,
			"removed":        removed,
		})
	}
	return removed, nil
}
