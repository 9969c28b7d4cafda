package embedding

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type inferenceProvider struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func newInferenceProvider(cfg *Config) (*inferenceProvider, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("inference: missing EMBEDDING_ENDPOINT")
	}

	return &inferenceProvider{
		baseURL:    strings.TrimRight(cfg.Endpoint, "/"),
		token:      cfg.ServiceToken,
		httpClient: &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutS) * time.Second},
	}, nil
}

type embedRequest struct {
	Images         []string `json:"images"`
	EmbeddingTypes []string `json:"embedding_types"`
}

type embedResponse struct {
	Embeddings []*Result `json:"embeddings"`
}

// EmbedBatch posts the whole batch in one request against
// /v1/embeddings/images. Images travel base64 encoded; the response carries
// one entry per input in order, null entries for images the model rejected.
func (p *inferenceProvider) EmbedBatch(ctx context.Context, images [][]byte, types []Type) ([]*Result, error) {
	if len(images) == 0 {
		return nil, nil
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("inference: no embedding types requested")
	}

	req := embedRequest{
		Images:         make([]string, len(images)),
		EmbeddingTypes: make([]string, len(types)),
	}
	for i, img := range images {
		req.Images[i] = base64.StdEncoding.EncodeToString(img)
	}
	for i, t := range types {
		req.EmbeddingTypes[i] = string(t)
	}

	var parsed embedResponse
	if err := p.postJSON(ctx, p.baseURL+"/v1/embeddings/images", req, &parsed); err != nil {
		return nil, err
	}

	return parsed.Embeddings, nil
}

func (p *inferenceProvider) postJSON(ctx context.Context, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("inference: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("inference: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("inference: embedding service not available: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("inference: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference: embedding service returned %d: %s", resp.StatusCode, truncate(raw, 256))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("inference: decode response: %w", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
