package embedding

import (
	"context"
	"fmt"
)

// Client is the public entrypoint for computing crop embeddings.
//
// It hides all provider details (inference endpoints, HTTP, etc.) from the
// application layer. Application code should depend on *Client, not on
// Provider or the inference provider.
type Client struct {
	provider Provider
}

// NewClient constructs a Client from Config. It validates the config and
// internally constructs the HTTP inference provider.
func NewClient(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("embedding: invalid config: %w", err)
	}

	p, err := newInferenceProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("embedding: failed to create provider: %w", err)
	}

	return &Client{provider: p}, nil
}

// NewClientWithProvider wires a custom provider, used by tests.
func NewClientWithProvider(p Provider) *Client {
	return &Client{provider: p}
}

// EmbedBatch computes the requested embedding types for a batch of PNG
// crops in one service round trip. The result preserves input order and may
// contain nil entries for images the service failed on.
func (c *Client) EmbedBatch(ctx context.Context, images [][]byte, types []Type) ([]*Result, error) {
	return c.provider.EmbedBatch(ctx, images, types)
}

// Close releases any internal resources held by the provider.
func (c *Client) Close() error {
	if closer, ok := c.provider.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
