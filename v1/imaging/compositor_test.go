package imaging

import (
	"bytes"
	"errors"
	"image/png"
	"math"
	"testing"
)

// cellScene builds a 40x40 brightfield plane with a bright 10x10 cell at
// (10,10)..(20,20) labeled 1 over a dim background.
func cellScene() (*Stack, *LabelMask, BackgroundValues) {
	plane := NewPlane(40, 40)
	mask := NewLabelMask(40, 40)
	for r := 0; r < 40; r++ {
		for c := 0; c < 40; c++ {
			plane.Set(r, c, 30)
		}
	}
	for r := 10; r < 20; r++ {
		for c := 10; c < 20; c++ {
			plane.Set(r, c, 220)
			mask.Set(r, c, 1)
		}
	}
	var bg BackgroundValues
	bg.Median[BrightField] = 30
	bg.HasSignal[BrightField] = true
	return NewSingleChannelStack(BrightField, plane), mask, bg
}

func TestCompose_ProducesSquarePNGs(t *testing.T) {
	img, mask, bg := cellScene()
	comp := NewCompositor(CropSpec{ExpandFactor: 1.3, TargetSize: 64, ThumbnailSize: 16})

	crop, err := comp.Compose(img, mask, 1, BBox{MinRow: 10, MinCol: 10, MaxRow: 20, MaxCol: 20}, bg)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(crop.PNG))
	if err != nil {
		t.Fatalf("crop is not valid PNG: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Errorf("crop size: got %dx%d, want 64x64", b.Dx(), b.Dy())
	}
	thumb, err := png.Decode(bytes.NewReader(crop.Thumbnail))
	if err != nil {
		t.Fatalf("thumbnail is not valid PNG: %v", err)
	}
	if b := thumb.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Errorf("thumbnail size: got %dx%d, want 16x16", b.Dx(), b.Dy())
	}
}

func TestCompose_FillsBackgroundWithStretchedMedian(t *testing.T) {
	img, mask, bg := cellScene()
	plane := img.Plane(BrightField)
	// A few pixels darker than the background median keep the 1st
	// percentile below it, so the stretched median lands above zero.
	for c := 10; c < 15; c++ {
		plane.Set(9, c, 5)
	}

	comp := NewCompositor(CropSpec{ExpandFactor: 1.3, TargetSize: 64, ThumbnailSize: 16})
	tight := BBox{MinRow: 10, MinCol: 10, MaxRow: 20, MaxCol: 20}
	crop, err := comp.Compose(img, mask, 1, tight, bg)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(crop.PNG))
	if err != nil {
		t.Fatalf("crop is not valid PNG: %v", err)
	}

	// Recompute the stretch over the same expanded box to know the
	// expected fill value.
	box := tight.Expand(1.3, img.H, img.W)
	vals := make([]float32, 0, box.Height()*box.Width())
	for r := box.MinRow; r < box.MaxRow; r++ {
		for c := box.MinCol; c < box.MaxCol; c++ {
			vals = append(vals, plane.At(r, c))
		}
	}
	want := PercentileStretch(vals)(bg.Median[BrightField])
	if want <= 0 {
		t.Fatalf("fixture broken: stretched median %v must be positive", want)
	}

	// The corner lies outside the cell, so it must carry the tinted
	// background fill rather than black.
	r16, g16, b16, _ := decoded.At(0, 0).RGBA()
	r, g, b := float64(r16>>8), float64(g16>>8), float64(b16>>8)
	if r != g || g != b {
		t.Errorf("background fill not gray: %v %v %v", r, g, b)
	}
	if r == 0 {
		t.Error("background fill is black, want the stretched background median")
	}
	if math.Abs(r-want) > 2 {
		t.Errorf("background fill: got %v, want near %v", r, want)
	}
}

func TestCompose_NoSignal(t *testing.T) {
	img, mask, _ := cellScene()
	comp := NewCompositor(DefaultCropSpec())

	// Background values report no usable channels.
	_, err := comp.Compose(img, mask, 1, BBox{MinRow: 10, MinCol: 10, MaxRow: 20, MaxCol: 20}, BackgroundValues{})
	if !errors.Is(err, ErrNoSignal) {
		t.Fatalf("expected ErrNoSignal, got %v", err)
	}
}

func TestCompose_DimensionMismatch(t *testing.T) {
	img, _, bg := cellScene()
	comp := NewCompositor(DefaultCropSpec())

	if _, err := comp.Compose(img, NewLabelMask(10, 10), 1, BBox{MaxRow: 5, MaxCol: 5}, bg); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestBBoxExpand_ClipsToImage(t *testing.T) {
	b := BBox{MinRow: 0, MinCol: 0, MaxRow: 10, MaxCol: 10}
	out := b.Expand(2.0, 15, 15)
	if out.MinRow < 0 || out.MinCol < 0 || out.MaxRow > 15 || out.MaxCol > 15 {
		t.Errorf("expanded box escapes image: %+v", out)
	}
	if out.Width() <= b.Width() || out.Height() <= b.Height() {
		t.Errorf("expansion did not grow the box: %+v", out)
	}
}

func TestPercentileStretch(t *testing.T) {
	vals := make([]float32, 100)
	for i := range vals {
		vals[i] = float32(i)
	}
	stretch := PercentileStretch(vals)
	if got := stretch(-1000); got != 0 {
		t.Errorf("low clip: got %v", got)
	}
	if got := stretch(1000); got != 255 {
		t.Errorf("high clip: got %v", got)
	}
	mid := stretch(49.5)
	if mid < 120 || mid > 135 {
		t.Errorf("midpoint maps to %v, want near 127.5", mid)
	}

	flat := PercentileStretch([]float32{7, 7, 7})
	if got := flat(7); got != 127.5 {
		t.Errorf("flat stretch: got %v, want 127.5", got)
	}
	// Fractional uniform values leave rounding noise in the percentile
	// span and must still be treated as flat.
	flatFrac := PercentileStretch([]float32{7.3, 7.3, 7.3, 7.3})
	if got := flatFrac(7.3); got != 127.5 {
		t.Errorf("flat fractional stretch: got %v, want 127.5", got)
	}
}

func TestChannelRoundTrip(t *testing.T) {
	for _, name := range ChannelNames() {
		ch, err := ChannelFromName(name)
		if err != nil {
			t.Fatalf("ChannelFromName(%q): %v", name, err)
		}
		if ch.String() != name {
			t.Errorf("channel %q round trips to %q", name, ch.String())
		}
	}
	if _, err := ChannelFromName("nope"); err == nil {
		t.Error("expected error for unknown channel name")
	}
	if BrightField.IsFluorescence() {
		t.Error("brightfield must not be fluorescence")
	}
	if !Fluorescence488.IsFluorescence() {
		t.Error("488 nm must be fluorescence")
	}
}

func TestNewStack_RejectsMismatchedPlanes(t *testing.T) {
	var planes [NumChannels]*Plane
	planes[BrightField] = NewPlane(10, 10)
	planes[Fluorescence488] = NewPlane(10, 12)
	if _, err := NewStack(planes); err == nil {
		t.Fatal("expected mismatch error")
	}

	if _, err := NewStack([NumChannels]*Plane{}); err == nil {
		t.Fatal("expected error for empty stack")
	}
}
