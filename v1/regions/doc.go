// Package regions derives per-label geometric summaries from an integer
// segmentation mask.
//
// ComputeDescriptors performs one batch pass over the mask and produces a
// Descriptor per positive label: area, bounding box, centroid, axis lengths,
// eccentricity, perimeter, crofton perimeter, solidity and equivalent
// diameter. Descriptors are computed exactly once per image and reused by
// every downstream feature computation; nothing in the pipeline rebuilds a
// single-cell mask to recompute them.
//
// ComputeBackground produces the per-channel background reference (median of
// all label-0 pixels), shared read-only across cell workers.
package regions
