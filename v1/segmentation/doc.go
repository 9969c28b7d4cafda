// Package segmentation provides the client for the external cell
// segmentation service.
//
// The model itself is out of scope: the contract is grayscale image in,
// integer label mask out. The HTTP client downsamples the brightfield plane
// by an integer factor before the call (the model runs on reduced
// resolution) and upsamples the returned mask back to full resolution with
// nearest-neighbor interpolation, which preserves label integrity.
//
// Connection failures surface to the caller as explicit errors; a pipeline
// stage records them per job instead of crashing its worker loop.
package segmentation
