package features

import (
	"math"

	"github.com/cytosearch/cytosearch/v1/acquisition"
	"github.com/cytosearch/cytosearch/v1/imaging"
	"github.com/cytosearch/cytosearch/v1/regions"
)

// extractSpatial converts the cell centroid's pixel offset from the image
// center into physical units and resolves it against the stage position.
// It returns nil unless the status carries a pixel size; the distance from
// the well center is only filled when the well center itself is known.
func extractSpatial(img *imaging.Stack, desc regions.Descriptor, status *acquisition.MicroscopeStatus) *Spatial {
	if status.PixelSizeUm == nil {
		return nil
	}
	pxMm := *status.PixelSizeUm / 1000

	dxPx := desc.CentroidCol - float64(img.W)/2
	dyPx := desc.CentroidRow - float64(img.H)/2

	sp := &Spatial{
		StageXMm: status.XMm + dxPx*pxMm,
		StageYMm: status.YMm + dyPx*pxMm,
		Well:     status.Well,
	}

	if status.WellCenter != nil {
		d := math.Hypot(sp.StageXMm-status.WellCenter.XMm, sp.StageYMm-status.WellCenter.YMm)
		sp.DistanceFromWellCenterMm = &d
	}
	return sp
}
