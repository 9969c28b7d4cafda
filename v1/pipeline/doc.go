// Package pipeline orchestrates per-image cell analysis.
//
// Processor fans the per-cell work (feature extraction + crop compositing)
// out over a bounded worker pool and reassembles the results in label
// order. Builder drives the whole single-image path: process all cells,
// embed every crop in one batch call, splice the vectors back onto their
// records, persist eligible records to the vector and artifact stores,
// and return memory-trimmed records.
//
// Failure isolation is per cell: a skipped or panicking cell drops only
// itself from the output. A failed embedding batch leaves records without
// vectors; those are returned but never stored.
package pipeline
