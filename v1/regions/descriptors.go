package regions

import (
	"math"
	"sort"

	"github.com/cytosearch/cytosearch/v1/imaging"
)

// Descriptor is the precomputed geometric summary of one connected mask
// label. All lengths are in pixels, areas in square pixels.
type Descriptor struct {
	Label int32

	Area               float64
	Perimeter          float64
	CroftonPerimeter   float64
	EquivalentDiameter float64

	// BBox is the tight bounding box, max bounds exclusive.
	BBox imaging.BBox

	CentroidRow, CentroidCol float64

	MajorAxisLength float64
	MinorAxisLength float64
	Eccentricity    float64

	// Solidity is area divided by the area of the rasterized convex hull.
	Solidity float64
}

type accum struct {
	label                  int32
	n                      int
	minR, minC, maxR, maxC int
	sumR, sumC             float64
	sumRR, sumCC, sumRC    float64
}

// ComputeDescriptors summarizes every positive label in the mask in a single
// batch pass, returning descriptors sorted by ascending label value. That
// order is the canonical "label order" the rest of the pipeline preserves.
func ComputeDescriptors(mask *imaging.LabelMask) []Descriptor {
	byLabel := make(map[int32]*accum)

	for r := 0; r < mask.H; r++ {
		for c := 0; c < mask.W; c++ {
			lab := mask.At(r, c)
			if lab == 0 {
				continue
			}
			a, ok := byLabel[lab]
			if !ok {
				a = &accum{label: lab, minR: r, minC: c, maxR: r, maxC: c}
				byLabel[lab] = a
			}
			a.n++
			if r < a.minR {
				a.minR = r
			}
			if r > a.maxR {
				a.maxR = r
			}
			if c < a.minC {
				a.minC = c
			}
			if c > a.maxC {
				a.maxC = c
			}
			fr, fc := float64(r), float64(c)
			a.sumR += fr
			a.sumC += fc
			a.sumRR += fr * fr
			a.sumCC += fc * fc
			a.sumRC += fr * fc
		}
	}

	labels := make([]int32, 0, len(byLabel))
	for lab := range byLabel {
		labels = append(labels, lab)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })

	out := make([]Descriptor, 0, len(labels))
	for _, lab := range labels {
		out = append(out, finishDescriptor(mask, byLabel[lab]))
	}
	return out
}

func finishDescriptor(mask *imaging.LabelMask, a *accum) Descriptor {
	n := float64(a.n)
	cr := a.sumR / n
	cc := a.sumC / n

	// Central second moments and their eigenvalues give the lengths of the
	// axes of the equivalent-inertia ellipse (4*sqrt(lambda), the regionprops
	// convention).
	covRR := a.sumRR/n - cr*cr
	covCC := a.sumCC/n - cc*cc
	covRC := a.sumRC/n - cr*cc

	mean := (covRR + covCC) / 2
	diff := math.Hypot((covRR-covCC)/2, covRC)
	l1 := math.Max(mean+diff, 0)
	l2 := math.Max(mean-diff, 0)

	major := 4 * math.Sqrt(l1)
	minor := 4 * math.Sqrt(l2)
	ecc := 0.0
	if l1 > 0 {
		ecc = math.Sqrt(1 - l2/l1)
	}

	bbox := imaging.BBox{
		MinRow: a.minR, MinCol: a.minC,
		MaxRow: a.maxR + 1, MaxCol: a.maxC + 1,
	}

	d := Descriptor{
		Label:              a.label,
		Area:               n,
		EquivalentDiameter: math.Sqrt(4 * n / math.Pi),
		BBox:               bbox,
		CentroidRow:        cr,
		CentroidCol:        cc,
		MajorAxisLength:    major,
		MinorAxisLength:    minor,
		Eccentricity:       ecc,
	}

	d.Perimeter = contourPerimeter(mask, a.label, bbox)
	d.CroftonPerimeter = croftonPerimeter(mask, a.label, bbox)

	hullArea := convexHullArea(mask, a.label, bbox)
	if hullArea < n {
		hullArea = n
	}
	d.Solidity = n / hullArea

	return d
}
