package regions

import (
	"errors"
	"math"
	"testing"

	"github.com/cytosearch/cytosearch/v1/imaging"
)

// squareMask labels a 10x10 square at (5,5)..(15,15) as 1 and a 4x8 rectangle
// at (20,10)..(24,18) as 3 inside a 32x32 mask.
func squareMask() *imaging.LabelMask {
	mask := imaging.NewLabelMask(32, 32)
	for r := 5; r < 15; r++ {
		for c := 5; c < 15; c++ {
			mask.Set(r, c, 1)
		}
	}
	for r := 20; r < 24; r++ {
		for c := 10; c < 18; c++ {
			mask.Set(r, c, 3)
		}
	}
	return mask
}

func TestComputeDescriptors_SquareAndRectangle(t *testing.T) {
	descriptors := ComputeDescriptors(squareMask())
	if len(descriptors) != 2 {
		t.Fatalf("got %d descriptors, want 2", len(descriptors))
	}

	sq := descriptors[0]
	if sq.Label != 1 {
		t.Fatalf("first label: got %d, want 1", sq.Label)
	}
	if sq.Area != 100 {
		t.Errorf("square area: got %v, want 100", sq.Area)
	}
	if sq.BBox != (imaging.BBox{MinRow: 5, MinCol: 5, MaxRow: 15, MaxCol: 15}) {
		t.Errorf("square bbox: got %+v", sq.BBox)
	}
	if math.Abs(sq.CentroidRow-9.5) > 1e-9 || math.Abs(sq.CentroidCol-9.5) > 1e-9 {
		t.Errorf("square centroid: got (%v, %v), want (9.5, 9.5)", sq.CentroidRow, sq.CentroidCol)
	}
	if want := math.Sqrt(400 / math.Pi); math.Abs(sq.EquivalentDiameter-want) > 1e-9 {
		t.Errorf("equivalent diameter: got %v, want %v", sq.EquivalentDiameter, want)
	}
	// A square has equal axes and zero eccentricity.
	if math.Abs(sq.MajorAxisLength-sq.MinorAxisLength) > 1e-9 {
		t.Errorf("square axes differ: %v vs %v", sq.MajorAxisLength, sq.MinorAxisLength)
	}
	if sq.Eccentricity > 1e-9 {
		t.Errorf("square eccentricity: got %v, want 0", sq.Eccentricity)
	}
	// A filled convex region is its own hull.
	if math.Abs(sq.Solidity-1) > 0.05 {
		t.Errorf("square solidity: got %v, want near 1", sq.Solidity)
	}
	if sq.Perimeter <= 0 || sq.CroftonPerimeter <= 0 {
		t.Errorf("perimeters must be positive: %v, %v", sq.Perimeter, sq.CroftonPerimeter)
	}

	rect := descriptors[1]
	if rect.Label != 3 {
		t.Fatalf("second label: got %d, want 3", rect.Label)
	}
	if rect.Area != 32 {
		t.Errorf("rectangle area: got %v, want 32", rect.Area)
	}
	// The elongated region must report an elongated ellipse.
	if rect.MajorAxisLength <= rect.MinorAxisLength {
		t.Errorf("rectangle axes not elongated: %v vs %v", rect.MajorAxisLength, rect.MinorAxisLength)
	}
	if rect.Eccentricity <= 0.5 {
		t.Errorf("rectangle eccentricity: got %v, want > 0.5", rect.Eccentricity)
	}
}

func TestComputeDescriptors_EmptyMask(t *testing.T) {
	if got := ComputeDescriptors(imaging.NewLabelMask(8, 8)); len(got) != 0 {
		t.Fatalf("empty mask produced %d descriptors", len(got))
	}
}

func TestComputeDescriptors_LabelOrder(t *testing.T) {
	mask := imaging.NewLabelMask(4, 12)
	// Labels appear out of order in scan order.
	mask.Set(0, 0, 7)
	mask.Set(0, 4, 2)
	mask.Set(0, 8, 5)

	descriptors := ComputeDescriptors(mask)
	if len(descriptors) != 3 {
		t.Fatalf("got %d descriptors", len(descriptors))
	}
	for i, want := range []int32{2, 5, 7} {
		if descriptors[i].Label != want {
			t.Errorf("descriptor %d: got label %d, want %d", i, descriptors[i].Label, want)
		}
	}
}

func TestComputeBackground(t *testing.T) {
	plane := imaging.NewPlane(8, 8)
	mask := imaging.NewLabelMask(8, 8)
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			plane.Set(r, c, 10)
		}
	}
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			plane.Set(r, c, 200)
			mask.Set(r, c, 1)
		}
	}

	bg, err := ComputeBackground(imaging.NewSingleChannelStack(imaging.BrightField, plane), mask)
	if err != nil {
		t.Fatalf("ComputeBackground failed: %v", err)
	}
	if !bg.HasSignal[imaging.BrightField] {
		t.Fatal("brightfield signal not detected")
	}
	if bg.Median[imaging.BrightField] != 10 {
		t.Errorf("background median: got %v, want 10", bg.Median[imaging.BrightField])
	}
	if bg.HasSignal[imaging.Fluorescence488] {
		t.Error("absent channel reported signal")
	}
}

func TestComputeBackground_NoBackgroundPixels(t *testing.T) {
	plane := imaging.NewPlane(4, 4)
	mask := imaging.NewLabelMask(4, 4)
	for i := range mask.Lab {
		mask.Lab[i] = 1
	}

	_, err := ComputeBackground(imaging.NewSingleChannelStack(imaging.BrightField, plane), mask)
	if !errors.Is(err, ErrNoBackground) {
		t.Fatalf("expected ErrNoBackground, got %v", err)
	}
}

func TestComputeBackground_DimensionMismatch(t *testing.T) {
	plane := imaging.NewPlane(4, 4)
	if _, err := ComputeBackground(imaging.NewSingleChannelStack(imaging.BrightField, plane), imaging.NewLabelMask(8, 8)); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}
