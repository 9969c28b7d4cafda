package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
)

// fakeClient is an in-memory object store used to exercise the artifact
// store without a running MinIO.
type fakeClient struct {
	objects map[string][]byte
}

func newFakeClient() *fakeClient {
	return &fakeClient{objects: make(map[string][]byte)}
}

func (f *fakeClient) Put(_ context.Context, key string, r io.Reader, _ int64) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	f.objects[key] = buf.Bytes()
	return nil
}

func (f *fakeClient) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("object '%s' not found", key)
	}
	return data, nil
}

func (f *fakeClient) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeClient) DeleteByPrefix(_ context.Context, prefix string) (int, error) {
	removed := 0
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			delete(f.objects, key)
			removed++
		}
	}
	return removed, nil
}

func (f *fakeClient) PreSignedGet(_ context.Context, key string) (string, error) {
	if _, ok := f.objects[key]; !ok {
		return "", fmt.Errorf("object '%s' not found", key)
	}
	return "https://example.test/" + key, nil
}

func TestArtifactKeys(t *testing.T) {
	key := CropKey("exp-042", "abc-123")
	if key != "applications/exp-042/cells/abc-123/crop.png" {
		t.Errorf("unexpected crop key: %s", key)
	}
	key = ThumbnailKey("exp-042", "abc-123")
	if key != "applications/exp-042/cells/abc-123/thumbnail.png" {
		t.Errorf("unexpected thumbnail key: %s", key)
	}
	if !strings.HasPrefix(key, ApplicationPrefix("exp-042")) {
		t.Errorf("thumbnail key not under application prefix")
	}
}

func TestArtifactStore_SaveAndLoad(t *testing.T) {
	fc := newFakeClient()
	store := NewArtifactStore(fc)
	ctx := context.Background()

	crop := []byte("crop-png")
	thumb := []byte("thumb-png")
	if err := store.SaveCrop(ctx, "exp-042", "cell-1", crop, thumb); err != nil {
		t.Fatalf("SaveCrop failed: %v", err)
	}

	got, err := store.LoadCrop(ctx, "exp-042", "cell-1")
	if err != nil {
		t.Fatalf("LoadCrop failed: %v", err)
	}
	if !bytes.Equal(got, crop) {
		t.Errorf("crop mismatch: %q", got)
	}

	got, err = store.LoadThumbnail(ctx, "exp-042", "cell-1")
	if err != nil {
		t.Fatalf("LoadThumbnail failed: %v", err)
	}
	if !bytes.Equal(got, thumb) {
		t.Errorf("thumbnail mismatch: %q", got)
	}
}

func TestArtifactStore_SaveCropWithoutThumbnail(t *testing.T) {
	fc := newFakeClient()
	store := NewArtifactStore(fc)

	if err := store.SaveCrop(context.Background(), "exp-042", "cell-1", []byte("crop"), nil); err != nil {
		t.Fatalf("SaveCrop failed: %v", err)
	}
	if len(fc.objects) != 1 {
		t.Errorf("expected 1 object, got %d", len(fc.objects))
	}
}

func TestArtifactStore_SaveCropValidation(t *testing.T) {
	store := NewArtifactStore(newFakeClient())
	ctx := context.Background()

	if err := store.SaveCrop(ctx, "", "cell-1", []byte("crop"), nil); err == nil {
		t.Error("expected error for empty application id")
	}
	if err := store.SaveCrop(ctx, "exp-042", "cell-1", nil, nil); err == nil {
		t.Error("expected error for empty crop")
	}
}

func TestArtifactStore_DeleteApplication(t *testing.T) {
	fc := newFakeClient()
	store := NewArtifactStore(fc)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		uuid := fmt.Sprintf("cell-%d", i)
		if err := store.SaveCrop(ctx, "exp-042", uuid, []byte("crop"), []byte("thumb")); err != nil {
			t.Fatalf("SaveCrop failed: %v", err)
		}
	}
	if err := store.SaveCrop(ctx, "exp-043", "cell-x", []byte("crop"), nil); err != nil {
		t.Fatalf("SaveCrop failed: %v", err)
	}

	removed, err := store.DeleteApplication(ctx, "exp-042")
	if err != nil {
		t.Fatalf("DeleteApplication failed: %v", err)
	}
	if removed != 6 {
		t.Errorf("expected 6 objects removed, got %d", removed)
	}
	if len(fc.objects) != 1 {
		t.Errorf("expected 1 surviving object, got %d", len(fc.objects))
	}
}

func TestArtifactStore_ThumbnailURL(t *testing.T) {
	fc := newFakeClient()
	store := NewArtifactStore(fc)
	ctx := context.Background()

	if err := store.SaveCrop(ctx, "exp-042", "cell-1", []byte("crop"), []byte("thumb")); err != nil {
		t.Fatalf("SaveCrop failed: %v", err)
	}

	url, err := store.ThumbnailURL(ctx, "exp-042", "cell-1")
	if err != nil {
		t.Fatalf("ThumbnailURL failed: %v", err)
	}
	if !strings.Contains(url, "thumbnail.png") {
		t.Errorf("unexpected url: %s", url)
	}
}
