package minio

import (
	"bytes"
	"context"
	"fmt"
)

// ArtifactStore persists cell crop artifacts under a fixed key layout,
// namespaced by application so a whole experiment can be purged with a
// single prefix removal.
type ArtifactStore struct {
	client Client
}

// NewArtifactStore wraps an object storage client as an artifact store.
func NewArtifactStore(client Client) *ArtifactStore {
	return &ArtifactStore{client: client}
}

// CropKey returns the object key for a cell's full-size crop.
func CropKey(applicationID, cellUUID string) string {
	return fmt.Sprintf("applications/%s/cells/%s/crop.png", applicationID, cellUUID)
}

// ThumbnailKey returns the object key for a cell's thumbnail.
func ThumbnailKey(applicationID, cellUUID string) string {
	return fmt.Sprintf("applications/%s/cells/%s/thumbnail.png", applicationID, cellUUID)
}

// ApplicationPrefix returns the key prefix covering every artifact of an
// application.
func ApplicationPrefix(applicationID string) string {
	return fmt.Sprintf("applications/%s/", applicationID)
}

// SaveCrop uploads a cell's crop and thumbnail PNGs. The thumbnail may be
// nil when only the full crop is wanted.
func (s *ArtifactStore) SaveCrop(ctx context.Context, applicationID, cellUUID string, cropPNG, thumbnailPNG []byte) error {
	if applicationID == "" || cellUUID == "" {
		return fmt.Errorf("application id and cell uuid are required")
	}
	if len(cropPNG) == 0 {
		return fmt.Errorf("crop is empty")
	}

	key := CropKey(applicationID, cellUUID)
	if err := s.client.Put(ctx, key, bytes.NewReader(cropPNG), int64(len(cropPNG))); err != nil {
		return fmt.Errorf("failed to save crop for cell %s: %w", cellUUID, err)
	}

	if len(thumbnailPNG) > 0 {
		key = ThumbnailKey(applicationID, cellUUID)
		if err := s.client.Put(ctx, key, bytes.NewReader(thumbnailPNG), int64(len(thumbnailPNG))); err != nil {
			return fmt.Errorf("failed to save thumbnail for cell %s: %w", cellUUID, err)
		}
	}

	return nil
}

// LoadCrop retrieves a cell's full-size crop PNG.
func (s *ArtifactStore) LoadCrop(ctx context.Context, applicationID, cellUUID string) ([]byte, error) {
	return s.client.Get(ctx, CropKey(applicationID, cellUUID))
}

// LoadThumbnail retrieves a cell's thumbnail PNG.
func (s *ArtifactStore) LoadThumbnail(ctx context.Context, applicationID, cellUUID string) ([]byte, error) {
	return s.client.Get(ctx, ThumbnailKey(applicationID, cellUUID))
}

// ThumbnailURL generates a presigned GET URL for serving a thumbnail.
func (s *ArtifactStore) ThumbnailURL(ctx context.Context, applicationID, cellUUID string) (string, error) {
	return s.client.PreSignedGet(ctx, ThumbnailKey(applicationID, cellUUID))
}

// DeleteApplication removes every artifact stored for an application and
// reports how many objects were removed.
func (s *ArtifactStore) DeleteApplication(ctx context.Context, applicationID string) (int, error) {
	if applicationID == "" {
		return 0, fmt.Errorf("application id is required")
	}
	return s.client.DeleteByPrefix(ctx, ApplicationPrefix(applicationID))
}
