package regions

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/cytosearch/cytosearch/v1/imaging"
)

// ErrNoBackground is returned when the mask labels every pixel as cell.
// Background reference values cannot be derived then, which is a structural
// failure of the input rather than per-cell attrition.
var ErrNoBackground = errors.New("regions: mask has no background pixels")

// ComputeBackground derives the per-channel background reference: the median
// intensity over all background (label 0) pixels of each channel that is
// present and carries signal. It runs once per image; the result is shared
// read-only by every cell worker.
func ComputeBackground(img *imaging.Stack, mask *imaging.LabelMask) (imaging.BackgroundValues, error) {
	var bg imaging.BackgroundValues

	if img.H != mask.H || img.W != mask.W {
		return bg, errors.New("regions: image and mask dimensions differ")
	}

	bgCount := 0
	for _, lab := range mask.Lab {
		if lab == 0 {
			bgCount++
		}
	}
	if bgCount == 0 {
		return bg, ErrNoBackground
	}

	for ch := imaging.Channel(0); ch < imaging.NumChannels; ch++ {
		plane := img.Plane(ch)
		if plane == nil || !plane.HasSignal() {
			continue
		}
		bg.HasSignal[ch] = true

		vals := make([]float64, 0, bgCount)
		for i, lab := range mask.Lab {
			if lab == 0 {
				vals = append(vals, float64(plane.Pix[i]))
			}
		}
		sort.Float64s(vals)
		bg.Median[ch] = stat.Quantile(0.5, stat.Empirical, vals, nil)
	}

	return bg, nil
}
