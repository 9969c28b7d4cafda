package regions

import (
	"math"

	"github.com/cytosearch/cytosearch/v1/imaging"
)

func isLabel(mask *imaging.LabelMask, label int32, r, c int) bool {
	if r < 0 || c < 0 || r >= mask.H || c >= mask.W {
		return false
	}
	return mask.At(r, c) == label
}

// mooreOffsets enumerates the 8-neighborhood clockwise starting west.
var mooreOffsets = [8][2]int{
	{0, -1}, {-1, -1}, {-1, 0}, {-1, 1},
	{0, 1}, {1, 1}, {1, 0}, {1, -1},
}

// contourPerimeter measures the length of the outer contour of a label via
// Moore-neighbor tracing with a radial sweep: orthogonal steps between
// successive boundary pixels count 1, diagonal steps sqrt(2). A single-pixel
// region has perimeter 0, matching the boundary-pixel-center convention
// regionprops uses (a 10x10 square measures 36, not 40).
func contourPerimeter(mask *imaging.LabelMask, label int32, bbox imaging.BBox) float64 {
	// Start at the topmost-leftmost pixel of the label; its west neighbor is
	// guaranteed outside the region by scan order.
	startR, startC := -1, -1
	for r := bbox.MinRow; r < bbox.MaxRow && startR < 0; r++ {
		for c := bbox.MinCol; c < bbox.MaxCol; c++ {
			if mask.At(r, c) == label {
				startR, startC = r, c
				break
			}
		}
	}
	if startR < 0 {
		return 0
	}

	hasNeighbor := false
	for _, off := range mooreOffsets {
		if isLabel(mask, label, startR+off[0], startC+off[1]) {
			hasNeighbor = true
			break
		}
	}
	if !hasNeighbor {
		return 0
	}

	perimeter := 0.0
	curR, curC := startR, startC
	dirToPrev := 0 // pretend we entered the start pixel from the west

	maxSteps := 8 * (bbox.Height()*bbox.Width() + 1)
	for step := 0; step < maxSteps; step++ {
		moved := false
		for i := 1; i <= 8; i++ {
			idx := (dirToPrev + i) % 8
			nr := curR + mooreOffsets[idx][0]
			nc := curC + mooreOffsets[idx][1]
			if !isLabel(mask, label, nr, nc) {
				continue
			}
			if mooreOffsets[idx][0] != 0 && mooreOffsets[idx][1] != 0 {
				perimeter += math.Sqrt2
			} else {
				perimeter++
			}
			curR, curC = nr, nc
			dirToPrev = (idx + 4) % 8
			moved = true
			break
		}
		if !moved || (curR == startR && curC == startC) {
			return perimeter
		}
	}
	return perimeter
}

// croftonPerimeter estimates the perimeter with the Cauchy-Crofton formula
// over four scan directions (horizontal, vertical, both diagonals):
//
//	P = pi * (Th + Tv + (Td1 + Td2)/sqrt(2)) / 8
//
// where T* counts label boundary transitions along lines of each direction.
// For a digital disk of diameter d this converges to pi*d.
func croftonPerimeter(mask *imaging.LabelMask, label int32, bbox imaging.BBox) float64 {
	in := func(r, c int) bool { return isLabel(mask, label, r, c) }

	var th, tv, td1, td2 int

	// Scan one pixel beyond the bbox so entering and leaving the region
	// both count as transitions.
	for r := bbox.MinRow; r < bbox.MaxRow; r++ {
		for c := bbox.MinCol - 1; c < bbox.MaxCol; c++ {
			if in(r, c) != in(r, c+1) {
				th++
			}
		}
	}
	for c := bbox.MinCol; c < bbox.MaxCol; c++ {
		for r := bbox.MinRow - 1; r < bbox.MaxRow; r++ {
			if in(r, c) != in(r+1, c) {
				tv++
			}
		}
	}
	for r := bbox.MinRow - 1; r < bbox.MaxRow; r++ {
		for c := bbox.MinCol - 1; c < bbox.MaxCol; c++ {
			if in(r, c) != in(r+1, c+1) {
				td1++
			}
			if in(r+1, c) != in(r, c+1) {
				td2++
			}
		}
	}

	return math.Pi * (float64(th) + float64(tv) + (float64(td1)+float64(td2))/math.Sqrt2) / 8
}
