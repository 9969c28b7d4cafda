package features

// ChannelIntensity holds the background-corrected intensity statistics of
// one fluorescence channel over a cell's pixels.
type ChannelIntensity struct {
	// Mean is the average of max(0, pixel - background) over cell pixels.
	Mean float64 `json:"mean_intensity"`

	// Top10Mean is the mean of the brightest 10% of background-corrected
	// cell pixels (at least one pixel). It approximates nuclear signal.
	Top10Mean float64 `json:"top10_mean_intensity"`
}

// Spatial carries the physically-resolved position of a cell. It is only
// attached when the acquisition metadata was complete.
type Spatial struct {
	// Absolute stage coordinates of the cell centroid, millimeters.
	StageXMm float64 `json:"stage_x_mm"`
	StageYMm float64 `json:"stage_y_mm"`

	// Well is the plate well the image was taken in, when known.
	Well string `json:"well,omitempty"`

	// DistanceFromWellCenterMm is nil when the well center is unknown.
	DistanceFromWellCenterMm *float64 `json:"distance_from_well_center_mm,omitempty"`
}

// CellRecord is the pipeline output for one segmented cell.
//
// Optional geometry fields are pointers: a nil value means the formula was
// undefined for this cell (zero perimeter, zero minor axis), not zero.
// Intensities is keyed by canonical channel name; channels that were absent
// or carried no signal have no entry at all.
//
// Embedding and ThumbnailPNG are transient: they are populated between
// extraction and persistence and cleared by Trim once the record is safely
// stored, bounding the memory held per cell.
type CellRecord struct {
	UUID    string `json:"uuid"`
	ImageID string `json:"image_id"`
	Label   int32  `json:"label"`

	Area               float64 `json:"area"`
	Perimeter          float64 `json:"perimeter"`
	EquivalentDiameter float64 `json:"equivalent_diameter"`
	BBoxWidth          int     `json:"bbox_width"`
	BBoxHeight         int     `json:"bbox_height"`

	AspectRatio *float64 `json:"aspect_ratio"`
	Circularity *float64 `json:"circularity"`
	Convexity   *float64 `json:"convexity"`

	Eccentricity float64 `json:"eccentricity"`
	Solidity     float64 `json:"solidity"`

	Intensities map[string]*ChannelIntensity `json:"intensities,omitempty"`

	Spatial *Spatial `json:"spatial,omitempty"`

	Embedding    []float32 `json:"-"`
	ThumbnailPNG []byte    `json:"-"`
}

// Trim drops the bulky transient fields after persistence. The UUID remains
// as the handle for later retrieval from the stores.
func (r *CellRecord) Trim() {
	r.Embedding = nil
	r.ThumbnailPNG = nil
}
