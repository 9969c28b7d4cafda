package cellstore

import (
	"context"
	"testing"

	"github.com/cytosearch/cytosearch/v1/features"
	"github.com/cytosearch/cytosearch/v1/vectordb"
)

// fakeVectorDB records inserts and serves canned search results so the
// store logic can be tested without a running database.
type fakeVectorDB struct {
	points      map[string]vectordb.EmbeddingInput
	collections map[string]uint64
	lastSearch  vectordb.SearchRequest
}

func newFakeVectorDB() *fakeVectorDB {
	return &fakeVectorDB{
		points:      make(map[string]vectordb.EmbeddingInput),
		collections: make(map[string]uint64),
	}
}

func (f *fakeVectorDB) Insert(_ context.Context, _ string, inputs []vectordb.EmbeddingInput) error {
	for _, in := range inputs {
		f.points[in.ID] = in
	}
	return nil
}

func (f *fakeVectorDB) Search(_ context.Context, requests ...vectordb.SearchRequest) ([][]vectordb.SearchResult, error) {
	f.lastSearch = requests[0]
	out := make([][]vectordb.SearchResult, len(requests))
	for i := range requests {
		var results []vectordb.SearchResult
		for id, p := range f.points {
			results = append(results, vectordb.SearchResult{
				ID:      id,
				Score:   0.9,
				Payload: p.Payload,
				Vector:  p.Vector,
			})
		}
		out[i] = results
	}
	return out, nil
}

func (f *fakeVectorDB) Fetch(_ context.Context, _ string, ids []string, withVector bool) ([]vectordb.SearchResult, error) {
	var results []vectordb.SearchResult
	for _, id := range ids {
		p, ok := f.points[id]
		if !ok {
			continue
		}
		r := vectordb.SearchResult{ID: id, Payload: p.Payload}
		if withVector {
			r.Vector = p.Vector
		}
		results = append(results, r)
	}
	return results, nil
}

func (f *fakeVectorDB) Delete(_ context.Context, _ string, ids []string) error {
	for _, id := range ids {
		delete(f.points, id)
	}
	return nil
}

func (f *fakeVectorDB) DeleteByFilter(_ context.Context, _ string, filters *vectordb.FilterSet) (uint64, error) {
	appID := ""
	if filters != nil && filters.Must != nil {
		if m, ok := filters.Must.Conditions[0].(*vectordb.MatchCondition); ok {
			appID, _ = m.Value.(string)
		}
	}
	var removed uint64
	for id, p := range f.points {
		if applicationOf(p.Payload) == appID {
			delete(f.points, id)
			removed++
		}
	}
	return removed, nil
}

func (f *fakeVectorDB) EnsureCollection(_ context.Context, name string, vectorSize uint64) error {
	f.collections[name] = vectorSize
	return nil
}

func (f *fakeVectorDB) GetCollection(_ context.Context, name string) (*vectordb.Collection, error) {
	return &vectordb.Collection{Name: name}, nil
}

func (f *fakeVectorDB) ListCollections(_ context.Context) ([]string, error) {
	var names []string
	for name := range f.collections {
		names = append(names, name)
	}
	return names, nil
}

func sampleRecord(uuid string, embedding []float32) *features.CellRecord {
	circ := 0.85
	dist := 1.2
	return &features.CellRecord{
		UUID:               uuid,
		ImageID:            "img-1",
		Label:              3,
		Area:               100,
		Perimeter:          36,
		EquivalentDiameter: 11.28,
		BBoxWidth:          10,
		BBoxHeight:         10,
		Circularity:        &circ,
		Eccentricity:       0.1,
		Solidity:           1.0,
		Intensities: map[string]*features.ChannelIntensity{
			"Fluorescence_488_nm_Ex": {Mean: 42.5, Top10Mean: 120.0},
		},
		Spatial: &features.Spatial{
			StageXMm:                 14.4,
			StageYMm:                 11.2,
			Well:                     "C4",
			DistanceFromWellCenterMm: &dist,
		},
		Embedding:    embedding,
		ThumbnailPNG: []byte{0x89, 0x50, 0x4e, 0x47},
	}
}

func TestInsertBatch_SkipsRecordsWithoutEmbedding(t *testing.T) {
	db := newFakeVectorDB()
	store := NewStore(db, Config{Collection: "cells"})

	records := []*features.CellRecord{
		sampleRecord("cell-1", []float32{0.1, 0.2}),
		sampleRecord("cell-2", nil),
		sampleRecord("cell-3", []float32{0.3, 0.4}),
	}

	stored, skipped, err := store.InsertBatch(context.Background(), "exp-042", records)
	if err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}
	if stored != 2 {
		t.Errorf("expected 2 stored, got %d", stored)
	}
	if skipped != 1 {
		t.Errorf("expected 1 skipped, got %d", skipped)
	}
	if _, ok := db.points["cell-2"]; ok {
		t.Error("record without embedding must not be inserted")
	}
}

func TestInsertBatch_RequiresApplicationID(t *testing.T) {
	store := NewStore(newFakeVectorDB(), Config{})
	if _, _, err := store.InsertBatch(context.Background(), "", nil); err == nil {
		t.Error("expected error for empty application id")
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	original := sampleRecord("cell-1", []float32{0.1, 0.2})
	payload := recordToPayload("exp-042", original)

	if applicationOf(payload) != "exp-042" {
		t.Errorf("application_id: got %v", payload[fieldApplicationID])
	}

	restored, err := recordFromPayload("cell-1", payload, []float32{0.1, 0.2})
	if err != nil {
		t.Fatalf("recordFromPayload failed: %v", err)
	}

	if restored.UUID != original.UUID ||
		restored.ImageID != original.ImageID ||
		restored.Label != original.Label ||
		restored.Area != original.Area ||
		restored.BBoxWidth != original.BBoxWidth {
		t.Errorf("scalar mismatch: %+v", restored)
	}
	if restored.Circularity == nil || *restored.Circularity != *original.Circularity {
		t.Errorf("circularity mismatch: %v", restored.Circularity)
	}
	if restored.AspectRatio != nil {
		t.Errorf("aspect ratio should stay nil, got %v", *restored.AspectRatio)
	}
	ci := restored.Intensities["Fluorescence_488_nm_Ex"]
	if ci == nil || ci.Mean != 42.5 || ci.Top10Mean != 120.0 {
		t.Errorf("intensity mismatch: %+v", ci)
	}
	if restored.Spatial == nil || restored.Spatial.Well != "C4" {
		t.Errorf("spatial mismatch: %+v", restored.Spatial)
	}
	if restored.Spatial.DistanceFromWellCenterMm == nil || *restored.Spatial.DistanceFromWellCenterMm != 1.2 {
		t.Errorf("distance mismatch: %v", restored.Spatial.DistanceFromWellCenterMm)
	}
	if string(restored.ThumbnailPNG) != string(original.ThumbnailPNG) {
		t.Errorf("thumbnail mismatch")
	}
	if len(restored.Embedding) != 2 {
		t.Errorf("embedding mismatch: %v", restored.Embedding)
	}
}

func TestFetchByIDs(t *testing.T) {
	db := newFakeVectorDB()
	store := NewStore(db, Config{Collection: "cells"})
	ctx := context.Background()

	records := []*features.CellRecord{
		sampleRecord("cell-1", []float32{0.1}),
		sampleRecord("cell-2", []float32{0.2}),
	}
	if _, _, err := store.InsertBatch(ctx, "exp-042", records); err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	got, err := store.FetchByIDs(ctx, []string{"cell-1", "missing", "cell-2"})
	if err != nil {
		t.Fatalf("FetchByIDs failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	for _, r := range got {
		if len(r.Embedding) == 0 {
			t.Errorf("record %s missing embedding", r.UUID)
		}
	}
}

func TestSimilaritySearch_FiltersByApplication(t *testing.T) {
	db := newFakeVectorDB()
	store := NewStore(db, Config{Collection: "cells"})
	ctx := context.Background()

	if _, _, err := store.InsertBatch(ctx, "exp-042", []*features.CellRecord{
		sampleRecord("cell-1", []float32{0.1, 0.2}),
	}); err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	hits, err := store.SimilaritySearch(ctx, []float32{0.1, 0.2}, 10, "exp-042")
	if err != nil {
		t.Fatalf("SimilaritySearch failed: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].Score != 0.9 {
		t.Errorf("unexpected score: %v", hits[0].Score)
	}

	// The application filter must reach the database as a Must condition.
	filters := db.lastSearch.Filters
	if filters == nil || filters.Must == nil || len(filters.Must.Conditions) != 1 {
		t.Fatalf("expected one Must condition, got %+v", filters)
	}
	m, ok := filters.Must.Conditions[0].(*vectordb.MatchCondition)
	if !ok || m.Field != fieldApplicationID || m.Value != "exp-042" {
		t.Errorf("unexpected filter condition: %+v", filters.Must.Conditions[0])
	}
}

func TestDeleteApplication(t *testing.T) {
	db := newFakeVectorDB()
	store := NewStore(db, Config{Collection: "cells"})
	ctx := context.Background()

	if _, _, err := store.InsertBatch(ctx, "exp-042", []*features.CellRecord{
		sampleRecord("cell-1", []float32{0.1}),
		sampleRecord("cell-2", []float32{0.2}),
	}); err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}
	if _, _, err := store.InsertBatch(ctx, "exp-043", []*features.CellRecord{
		sampleRecord("cell-3", []float32{0.3}),
	}); err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	removed, err := store.DeleteApplication(ctx, "exp-042")
	if err != nil {
		t.Fatalf("DeleteApplication failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if _, ok := db.points["cell-3"]; !ok {
		t.Error("other application's records must survive")
	}
}
