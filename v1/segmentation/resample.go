package segmentation

import "github.com/cytosearch/cytosearch/v1/imaging"

// downsamplePlane keeps every factor-th pixel in both axes. Nearest-neighbor
// decimation is sufficient for the segmentation model's reduced-resolution
// input; smoothing the plane first would blur cell boundaries.
func downsamplePlane(p *imaging.Plane, factor int) *imaging.Plane {
	if factor <= 1 {
		return p
	}
	h := (p.H + factor - 1) / factor
	w := (p.W + factor - 1) / factor
	out := imaging.NewPlane(h, w)
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			out.Set(r, c, p.At(r*factor, c*factor))
		}
	}
	return out
}

// upsampleMask blows a reduced-resolution label mask back up to h-by-w with
// nearest-neighbor interpolation. Nearest-neighbor is mandatory here:
// anything interpolating would invent fractional labels.
func upsampleMask(small *imaging.LabelMask, h, w, factor int) *imaging.LabelMask {
	if factor <= 1 && small.H == h && small.W == w {
		return small
	}
	out := imaging.NewLabelMask(h, w)
	for r := 0; r < h; r++ {
		sr := r / factor
		if sr >= small.H {
			sr = small.H - 1
		}
		for c := 0; c < w; c++ {
			sc := c / factor
			if sc >= small.W {
				sc = small.W - 1
			}
			out.Set(r, c, small.At(sr, sc))
		}
	}
	return out
}
