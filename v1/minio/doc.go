// Package minio provides the blob artifact store for cell crop images.
//
// It wraps the official MinIO Go SDK with a small client focused on what
// the analysis pipeline needs: uploading PNG crops and thumbnails,
// fetching them back, deleting whole applications worth of artifacts,
// and generating presigned GET URLs for serving thumbnails to browsers.
//
// Object keys follow a fixed layout:
//
//	applications/<application_id>/cells/<cell_uuid>/crop.png
//	applications/<application_id>/cells/<cell_uuid>/thumbnail.png
//
// so an application purge is a single prefix removal.
//
// Example:
//
//	client, err := minio.NewClient(cfg)
//	if err != nil {
//	    return err
//	}
//	store := minio.NewArtifactStore(client)
//	err = store.SaveCrop(ctx, "exp-042", cellUUID, cropPNG, thumbPNG)
package minio
