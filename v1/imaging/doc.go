// Package imaging holds the raw image-domain types and the cell crop
// compositor for the cytosearch backend.
//
// A Plane is a single-channel 2-D float image; a Stack is a sparse list of
// Planes, one per acquisition channel, where a nil entry means the channel
// was not acquired. A LabelMask is an integer segmentation mask sharing the
// Stack's dimensions, 0 = background, each positive value one cell.
//
// The Compositor turns one cell (label + bounding box) into a fixed-size,
// channel-colorized RGB crop: brightfield is percentile normalized and
// background-filled, fluorescence channels are background subtracted and
// masked to black, all present channels are additively blended, and the
// result is resized-and-padded to a uniform square. Two PNG encodings are
// produced: the full-size crop used as embedding-model input and a small
// thumbnail persisted with the cell record.
package imaging
