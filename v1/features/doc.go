// Package features computes per-cell morphological, intensity, and spatial
// descriptors and defines the CellRecord, the unit the rest of the backend
// stores and serves.
//
// ExtractRecord is a pure function over one precomputed region descriptor,
// the shared image/mask/background data, and optional acquisition metadata.
// Field-level failures (zero denominators) degrade the single field to nil;
// a zero-area region yields ErrEmptyRegion and the cell is skipped, which
// callers treat as attrition rather than a pipeline failure.
package features
