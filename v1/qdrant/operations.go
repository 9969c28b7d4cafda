package qdrant

import (
	"context"
	"fmt"
	"log"
	"slices"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/cytosearch/cytosearch/v1/vectordb"
)

// Adapter implements vectordb.Service on top of the QdrantClient.
// All conversions between the database-agnostic types and the Qdrant
// SDK protobufs live in converter.go.
type Adapter struct {
	client *QdrantClient
	cfg    *Config
}

// NewAdapter wraps a connected QdrantClient as a vectordb.Service.
func NewAdapter(client *QdrantClient) *Adapter {
	return &Adapter{client: client, cfg: client.cfg}
}

// EnsureCollection verifies if a given collection exists, and creates it
// if missing.
//
// Safe to call multiple times. If the collection already exists the
// function exits early, which simplifies startup logic for services that
// bootstrap their own collections.
func (a *Adapter) EnsureCollection(ctx context.Context, name string, vectorSize uint64) error {
	if name == "" {
		return fmt.Errorf("collection name cannot be empty")
	}
	if vectorSize == 0 {
		vectorSize = a.cfg.VectorSize
	}

	collections, err := a.client.api.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("[Qdrant] failed to list collections: %w", err)
	}

	if slices.Contains(collections, name) {
		log.Printf("[Qdrant] Collection '%s' already exists", name)
		return nil
	}

	log.Printf("[Qdrant] Collection '%s' not found, creating it...", name)

	req := &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	}

	if err := a.client.api.CreateCollection(ctx, req); err != nil {
		return fmt.Errorf("[Qdrant] failed to create collection '%s': %w", name, err)
	}

	log.Printf("[Qdrant] Created collection '%s' successfully", name)
	return nil
}

// Insert adds embeddings to a collection in batches.
//
// Safe to call for large datasets. Inputs are split into chunks of
// defaultBatchSize and upserted sequentially, each with Wait=true so
// data is persisted before the call returns.
func (a *Adapter) Insert(ctx context.Context, collectionName string, inputs []vectordb.EmbeddingInput) error {
	if len(inputs) == 0 {
		return nil
	}
	if collectionName == "" {
		return fmt.Errorf("collection name cannot be empty")
	}

	for start := 0; start < len(inputs); start += defaultBatchSize {
		end := start + defaultBatchSize
		if end > len(inputs) {
			end = len(inputs)
		}

		if err := a.upsertBatch(ctx, collectionName, inputs[start:end]); err != nil {
			return fmt.Errorf("[Qdrant] batch upsert failed at [%d:%d]: %w", start, end, err)
		}
		log.Printf("[Qdrant] Inserted batch [%d:%d] (collection=%s)", start, end, collectionName)
	}

	return nil
}

// upsertBatch sends a single Upsert request for a slice of inputs.
func (a *Adapter) upsertBatch(ctx context.Context, collectionName string, batch []vectordb.EmbeddingInput) error {
	points := make([]*qdrant.PointStruct, 0, len(batch))
	for _, in := range batch {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(in.ID),
			Vectors: qdrant.NewVectors(in.Vector...),
			Payload: qdrant.NewValueMap(in.Payload),
		})
	}

	wait := true
	req := &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         points,
		Wait:           &wait,
	}

	if _, err := a.client.api.Upsert(ctx, req); err != nil {
		return fmt.Errorf("[Qdrant] upsert failed: %w", err)
	}
	return nil
}

// Search performs one similarity search per request and returns result
// slices in request order. Each request can optionally carry filters.
func (a *Adapter) Search(ctx context.Context, requests ...vectordb.SearchRequest) ([][]vectordb.SearchResult, error) {
	if len(requests) == 0 {
		return nil, fmt.Errorf("at least one search request is required")
	}

	results := make([][]vectordb.SearchResult, 0, len(requests))

	for i, searchReq := range requests {
		if err := validateSearchInput(searchReq.CollectionName, searchReq.Vector, searchReq.TopK); err != nil {
			return nil, fmt.Errorf("request [%d]: %w", i, err)
		}

		limit := uint64(searchReq.TopK)
		req := &qdrant.QueryPoints{
			CollectionName: searchReq.CollectionName,
			Query:          qdrant.NewQuery(searchReq.Vector...),
			Limit:          &limit,
			WithPayload:    qdrant.NewWithPayload(true),
			Filter:         convertFilterSet(searchReq.Filters),
		}

		resp, err := a.client.api.Query(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("request [%d] search failed: %w", i, err)
		}

		res, err := parseScoredPoints(searchReq.CollectionName, resp)
		if err != nil {
			return nil, fmt.Errorf("request [%d] parse failed: %w", i, err)
		}

		results = append(results, res)
		log.Printf("[Qdrant] Search request [%d] returned %d results", i, len(res))
	}

	return results, nil
}

// Fetch retrieves points by ID with their payload. Vectors are included
// when withVector is set. IDs not present in the collection are simply
// absent from the result.
func (a *Adapter) Fetch(ctx context.Context, collectionName string, ids []string, withVector bool) ([]vectordb.SearchResult, error) {
	if collectionName == "" {
		return nil, fmt.Errorf("collection name cannot be empty")
	}
	if len(ids) == 0 {
		return nil, nil
	}

	qdrantIDs := make([]*qdrant.PointId, 0, len(ids))
	for _, id := range ids {
		qdrantIDs = append(qdrantIDs, qdrant.NewID(id))
	}

	req := &qdrant.GetPoints{
		CollectionName: collectionName,
		Ids:            qdrantIDs,
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(withVector),
	}

	resp, err := a.client.api.Get(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] fetch failed: %w", err)
	}

	return parseRetrievedPoints(collectionName, resp)
}

// Delete removes points from a collection by their IDs.
//
// It constructs a DeletePoints request containing a list of PointIds and
// waits synchronously for completion.
func (a *Adapter) Delete(ctx context.Context, collectionName string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	qdrantIDs := make([]*qdrant.PointId, 0, len(ids))
	for _, id := range ids {
		qdrantIDs = append(qdrantIDs, qdrant.NewID(id))
	}

	wait := true
	req := &qdrant.DeletePoints{
		CollectionName: collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{Ids: qdrantIDs},
			},
		},
		Wait: &wait,
	}

	resp, err := a.client.api.Delete(ctx, req)
	if err != nil {
		return fmt.Errorf("[Qdrant] delete failed: %w", err)
	}

	log.Printf("[Qdrant] Delete completed (status=%s, collection=%s)",
		resp.Status.String(), collectionName)
	return nil
}

// DeleteByFilter removes every point matching the filter and reports how
// many points matched before deletion.
//
// The count is taken with an exact Count request first so callers can log
// how much data an application purge removed.
func (a *Adapter) DeleteByFilter(ctx context.Context, collectionName string, filters *vectordb.FilterSet) (uint64, error) {
	if collectionName == "" {
		return 0, fmt.Errorf("collection name cannot be empty")
	}
	if filters.IsEmpty() {
		return 0, fmt.Errorf("filters cannot be empty, deleting a whole collection requires an explicit drop")
	}

	filter := convertFilterSet(filters)

	exact := true
	count, err := a.client.api.Count(ctx, &qdrant.CountPoints{
		CollectionName: collectionName,
		Filter:         filter,
		Exact:          &exact,
	})
	if err != nil {
		return 0, fmt.Errorf("[Qdrant] count failed: %w", err)
	}

	if count == 0 {
		return 0, nil
	}

	wait := true
	req := &qdrant.DeletePoints{
		CollectionName: collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{Filter: filter},
		},
		Wait: &wait,
	}

	resp, err := a.client.api.Delete(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("[Qdrant] delete by filter failed: %w", err)
	}

	log.Printf("[Qdrant] DeleteByFilter removed %d points (status=%s, collection=%s)",
		count, resp.Status.String(), collectionName)
	return count, nil
}

// GetCollection retrieves metadata about a specific collection.
//
// The returned Collection struct intentionally hides the SDK internals
// (qdrant.CollectionInfo) so the application layer remains independent of
// Qdrant's client library.
func (a *Adapter) GetCollection(ctx context.Context, name string) (*vectordb.Collection, error) {
	if name == "" {
		return nil, fmt.Errorf("collection name cannot be empty")
	}

	info, err := a.client.api.GetCollectionInfo(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] failed to get collection '%s': %w", name, err)
	}

	size, distance := extractVectorDetails(info)

	return &vectordb.Collection{
		Name:       name,
		Status:     info.Status.String(),
		VectorSize: size,
		Distance:   distance,
		PointCount: derefUint64(info.PointsCount),
	}, nil
}

// ListCollections retrieves the names of all existing collections.
func (a *Adapter) ListCollections(ctx context.Context) ([]string, error) {
	names, err := a.client.api.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] failed to list collections: %w", err)
	}

	log.Printf("[Qdrant] Found %d collections", len(names))
	return names, nil
}
