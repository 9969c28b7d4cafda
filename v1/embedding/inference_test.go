package embedding

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEmbeddingClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(&Config{Endpoint: srv.URL, ServiceToken: "tok", HTTPTimeoutS: 5})
	require.NoError(t, err)
	return client
}

func TestEmbedBatch_RoundTrip(t *testing.T) {
	var gotAuth string
	client := newTestEmbeddingClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/v1/embeddings/images", r.URL.Path)

		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Images, 2)
		assert.Equal(t, []string{"clip", "dino"}, req.EmbeddingTypes)

		// Images travel base64 encoded.
		decoded, err := base64.StdEncoding.DecodeString(req.Images[0])
		require.NoError(t, err)
		assert.Equal(t, []byte("png-one"), decoded)

		// Second image failed on the model side: null entry, order kept.
		_ = json.NewEncoder(w).Encode(embedResponse{
			Embeddings: []*Result{
				{CLIP: []float32{1, 2, 3}, DINO: []float32{4, 5}},
				nil,
			},
		})
	})

	results, err := client.EmbedBatch(context.Background(),
		[][]byte{[]byte("png-one"), []byte("png-two")},
		[]Type{TypeCLIP, TypeDINO})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)

	require.Len(t, results, 2)
	assert.Equal(t, []float32{1, 2, 3}, results[0].Vector(TypeCLIP))
	assert.Equal(t, []float32{4, 5}, results[0].Vector(TypeDINO))
	assert.Nil(t, results[1].Vector(TypeCLIP))
}

func TestEmbedBatch_EmptyInput(t *testing.T) {
	client := newTestEmbeddingClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("service must not be called for an empty batch")
	})

	results, err := client.EmbedBatch(context.Background(), nil, []Type{TypeCLIP})
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestEmbedBatch_NoTypes(t *testing.T) {
	client := newTestEmbeddingClient(t, func(w http.ResponseWriter, r *http.Request) {})
	_, err := client.EmbedBatch(context.Background(), [][]byte{[]byte("x")}, nil)
	require.Error(t, err)
}

func TestEmbedBatch_ServiceError(t *testing.T) {
	client := newTestEmbeddingClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	})

	_, err := client.EmbedBatch(context.Background(), [][]byte{[]byte("x")}, []Type{TypeCLIP})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestResultVector_NilReceiver(t *testing.T) {
	var r *Result
	assert.Nil(t, r.Vector(TypeCLIP))
}

func TestNewClient_RequiresEndpoint(t *testing.T) {
	_, err := NewClient(&Config{})
	require.Error(t, err)
}
