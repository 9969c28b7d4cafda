// Package embedding provides the client for the external image-embedding
// service (CLIP and DINOv2 models).
//
// The service is an external collaborator: this package owns a Provider
// contract (batch of PNG crops in, order-preserving list of vector results
// out, entries nilable for failed images) and an HTTP inference provider
// implementing it. Application code depends on *Client, which hides the
// provider details, and selects which embedding types to request per batch.
//
//	client, _ := embedding.NewClient(embedding.NewConfig())
//	results, err := client.EmbedBatch(ctx, crops, []embedding.Type{embedding.TypeCLIP})
//
// A failed batch or a short result list is the caller's problem to degrade
// gracefully; the client never invents entries.
package embedding
