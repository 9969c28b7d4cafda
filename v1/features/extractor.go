package features

import (
	"errors"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/cytosearch/cytosearch/v1/acquisition"
	"github.com/cytosearch/cytosearch/v1/imaging"
	"github.com/cytosearch/cytosearch/v1/regions"
)

// ErrEmptyRegion signals that a region has zero area and produces no record.
// Callers drop the cell and continue; this is attrition, not failure.
var ErrEmptyRegion = errors.New("features: region has zero area")

// ExtractRecord computes the geometry, intensity and spatial fields of a
// CellRecord from one precomputed region descriptor. It is pure over its
// inputs; img, mask and bg are shared read-only across concurrent calls.
//
// Geometry formulas:
//
//	circularity  = 4*pi*area / perimeter^2        (nil if perimeter <= 0)
//	aspect_ratio = major_axis / minor_axis        (nil if minor axis == 0)
//	convexity    = crofton_perimeter / perimeter  (nil if perimeter <= 0)
//
// Spatial fields require status with a pixel size; distance from well center
// additionally requires the well center. Missing metadata leaves the
// dependent fields unset rather than zero.
func ExtractRecord(
	img *imaging.Stack,
	mask *imaging.LabelMask,
	desc regions.Descriptor,
	bg imaging.BackgroundValues,
	status *acquisition.MicroscopeStatus,
	imageID string,
) (*CellRecord, error) {
	if desc.Area <= 0 {
		return nil, ErrEmptyRegion
	}

	rec := &CellRecord{
		UUID:               uuid.NewString(),
		ImageID:            imageID,
		Label:              desc.Label,
		Area:               desc.Area,
		Perimeter:          desc.Perimeter,
		EquivalentDiameter: desc.EquivalentDiameter,
		BBoxWidth:          desc.BBox.Width(),
		BBoxHeight:         desc.BBox.Height(),
		Eccentricity:       desc.Eccentricity,
		Solidity:           desc.Solidity,
	}

	if desc.Perimeter > 0 {
		circ := 4 * math.Pi * desc.Area / (desc.Perimeter * desc.Perimeter)
		rec.Circularity = &circ
		conv := desc.CroftonPerimeter / desc.Perimeter
		rec.Convexity = &conv
	}
	if desc.MinorAxisLength > 0 {
		ar := desc.MajorAxisLength / desc.MinorAxisLength
		rec.AspectRatio = &ar
	}

	rec.Intensities = extractIntensities(img, mask, desc, bg)

	if status != nil {
		rec.Spatial = extractSpatial(img, desc, status)
	}

	return rec, nil
}

// extractIntensities computes background-corrected statistics for every
// fluorescence channel that is present and carries signal. Channels without
// signal get no entry, making "channel absent means field absent" structural.
func extractIntensities(
	img *imaging.Stack,
	mask *imaging.LabelMask,
	desc regions.Descriptor,
	bg imaging.BackgroundValues,
) map[string]*ChannelIntensity {
	out := make(map[string]*ChannelIntensity)

	for ch := imaging.Channel(0); ch < imaging.NumChannels; ch++ {
		if !ch.IsFluorescence() || !bg.HasSignal[ch] {
			continue
		}
		plane := img.Plane(ch)
		if plane == nil {
			continue
		}

		corrected := make([]float64, 0, int(desc.Area))
		sum := 0.0
		for r := desc.BBox.MinRow; r < desc.BBox.MaxRow; r++ {
			for c := desc.BBox.MinCol; c < desc.BBox.MaxCol; c++ {
				if mask.At(r, c) != desc.Label {
					continue
				}
				v := float64(plane.At(r, c)) - bg.Median[ch]
				if v < 0 {
					v = 0
				}
				corrected = append(corrected, v)
				sum += v
			}
		}
		if len(corrected) == 0 {
			continue
		}

		sort.Sort(sort.Reverse(sort.Float64Slice(corrected)))
		topN := len(corrected) / 10
		if topN < 1 {
			topN = 1
		}
		topSum := 0.0
		for _, v := range corrected[:topN] {
			topSum += v
		}

		out[ch.String()] = &ChannelIntensity{
			Mean:      sum / float64(len(corrected)),
			Top10Mean: topSum / float64(topN),
		}
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
