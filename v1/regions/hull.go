package regions

import (
	"sort"

	"github.com/cytosearch/cytosearch/v1/imaging"
)

type point struct {
	r, c float64
}

func cross(o, a, b point) float64 {
	return (a.c-o.c)*(b.r-o.r) - (a.r-o.r)*(b.c-o.c)
}

// convexHull computes the convex hull of pts with the Andrew monotone chain,
// returned in counter-clockwise order without the closing point.
func convexHull(pts []point) []point {
	if len(pts) < 3 {
		return pts
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].c != pts[j].c {
			return pts[i].c < pts[j].c
		}
		return pts[i].r < pts[j].r
	})

	var lower, upper []point
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// convexHullArea returns the pixel area of the rasterized convex hull of a
// label: the number of pixel centers inside or on the hull polygon. Using
// rasterized area rather than the polygon's shoelace area keeps solidity of
// a convex region at exactly 1.0, the regionprops convention.
func convexHullArea(mask *imaging.LabelMask, label int32, bbox imaging.BBox) float64 {
	// Boundary pixels suffice as hull candidates.
	var pts []point
	for r := bbox.MinRow; r < bbox.MaxRow; r++ {
		for c := bbox.MinCol; c < bbox.MaxCol; c++ {
			if mask.At(r, c) != label {
				continue
			}
			if !isLabel(mask, label, r-1, c) || !isLabel(mask, label, r+1, c) ||
				!isLabel(mask, label, r, c-1) || !isLabel(mask, label, r, c+1) {
				pts = append(pts, point{r: float64(r), c: float64(c)})
			}
		}
	}
	if len(pts) == 0 {
		return 0
	}

	hull := convexHull(pts)
	if len(hull) < 3 {
		return float64(len(pts))
	}

	count := 0
	for r := bbox.MinRow; r < bbox.MaxRow; r++ {
		for c := bbox.MinCol; c < bbox.MaxCol; c++ {
			if insideHull(hull, point{r: float64(r), c: float64(c)}) {
				count++
			}
		}
	}
	return float64(count)
}

// insideHull reports whether p lies inside or on the counter-clockwise hull.
func insideHull(hull []point, p point) bool {
	const eps = 1e-9
	for i := range hull {
		a := hull[i]
		b := hull[(i+1)%len(hull)]
		if cross(a, b, p) < -eps {
			return false
		}
	}
	return true
}
