package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

// ErrNoSignal is returned when no channel carries any signal inside a cell's
// crop. There is nothing meaningful to embed or store, so the cell is dropped.
var ErrNoSignal = errors.New("imaging: no channel carries signal for cell")

// BBox is a pixel bounding box, MaxRow/MaxCol exclusive.
type BBox struct {
	MinRow, MinCol, MaxRow, MaxCol int
}

// Width returns the box width in pixels.
func (b BBox) Width() int { return b.MaxCol - b.MinCol }

// Height returns the box height in pixels.
func (b BBox) Height() int { return b.MaxRow - b.MinRow }

// Expand scales the box by factor about its center and clips it to h×w.
// Every cell gets the same relative context margin this way, so crop
// tightness does not vary with cell shape.
func (b BBox) Expand(factor float64, h, w int) BBox {
	cr := float64(b.MinRow+b.MaxRow) / 2
	cc := float64(b.MinCol+b.MaxCol) / 2
	hh := float64(b.Height()) / 2 * factor
	hw := float64(b.Width()) / 2 * factor

	out := BBox{
		MinRow: int(cr - hh),
		MaxRow: int(cr + hh + 0.5),
		MinCol: int(cc - hw),
		MaxCol: int(cc + hw + 0.5),
	}
	if out.MinRow < 0 {
		out.MinRow = 0
	}
	if out.MinCol < 0 {
		out.MinCol = 0
	}
	if out.MaxRow > h {
		out.MaxRow = h
	}
	if out.MaxCol > w {
		out.MaxCol = w
	}
	if out.MaxRow <= out.MinRow {
		out.MaxRow = out.MinRow + 1
	}
	if out.MaxCol <= out.MinCol {
		out.MaxCol = out.MinCol + 1
	}
	return out
}

// CropSpec fixes the geometry of composited cell crops.
type CropSpec struct {
	// ExpandFactor scales the tight bounding box before cropping.
	ExpandFactor float64

	// TargetSize is the side of the square crop fed to the embedding model.
	TargetSize int

	// ThumbnailSize is the side of the small persisted thumbnail.
	ThumbnailSize int
}

// DefaultCropSpec returns the production crop geometry.
func DefaultCropSpec() CropSpec {
	return CropSpec{
		ExpandFactor:  1.3,
		TargetSize:    224,
		ThumbnailSize: 50,
	}
}

// Crop is the visual output for one cell.
type Crop struct {
	// PNG is the TargetSize square composite, used transiently as
	// embedding-model input.
	PNG []byte

	// Thumbnail is the small square PNG persisted with the record.
	Thumbnail []byte
}

// Compositor builds fixed-size colorized crops of single cells.
// It is stateless and safe for concurrent use.
type Compositor struct {
	spec CropSpec
}

// NewCompositor returns a compositor with the given geometry.
func NewCompositor(spec CropSpec) *Compositor {
	if spec.ExpandFactor <= 0 {
		spec.ExpandFactor = 1.3
	}
	if spec.TargetSize <= 0 {
		spec.TargetSize = 224
	}
	if spec.ThumbnailSize <= 0 {
		spec.ThumbnailSize = 50
	}
	return &Compositor{spec: spec}
}

// Compose renders the cell identified by label inside the expanded bounding
// box into a square RGB composite.
//
// Per channel with signal:
//   - brightfield is 1st/99th-percentile stretched to 0..255, tinted, and
//     background pixels are filled with the stretched background median
//     rather than black, so a dark frame never dominates the composite;
//   - fluorescence is background subtracted (floored at 0), tinted, and
//     background pixels are left black.
//
// Channels blend additively, clipped to 255 per component. The blended crop
// is resized preserving aspect ratio and padded to TargetSize with the
// background-bright value.
func (c *Compositor) Compose(img *Stack, mask *LabelMask, label int32, tight BBox, bg BackgroundValues) (*Crop, error) {
	if img.H != mask.H || img.W != mask.W {
		return nil, fmt.Errorf("imaging: image %dx%d and mask %dx%d differ", img.H, img.W, mask.H, mask.W)
	}

	box := tight.Expand(c.spec.ExpandFactor, img.H, img.W)
	ch, cw := box.Height(), box.Width()

	accum := make([]float64, ch*cw*3)
	channels := 0

	// Pad value defaults to black and is replaced by the stretched
	// brightfield background when brightfield carries signal.
	var padValue float64

	for chIdx := Channel(0); chIdx < NumChannels; chIdx++ {
		plane := img.Plane(chIdx)
		if plane == nil || !bg.HasSignal[chIdx] {
			continue
		}
		channels++

		tint := chIdx.Tint()
		tr, tg, tb := float64(tint.R)/255, float64(tint.G)/255, float64(tint.B)/255

		if chIdx == BrightField {
			cropVals := make([]float32, 0, ch*cw)
			for r := box.MinRow; r < box.MaxRow; r++ {
				for col := box.MinCol; col < box.MaxCol; col++ {
					cropVals = append(cropVals, plane.At(r, col))
				}
			}
			stretch := PercentileStretch(cropVals)
			bright := stretch(bg.Median[BrightField])
			padValue = bright

			i := 0
			for r := box.MinRow; r < box.MaxRow; r++ {
				for col := box.MinCol; col < box.MaxCol; col++ {
					v := bright
					if mask.At(r, col) == label {
						v = stretch(float64(plane.At(r, col)))
					}
					accum[i*3] += v * tr
					accum[i*3+1] += v * tg
					accum[i*3+2] += v * tb
					i++
				}
			}
			continue
		}

		// Fluorescence: background-corrected cell pixels, black elsewhere.
		// A range guard rescales >8-bit cameras into the displayable range.
		var maxCorrected float64
		corrected := make([]float64, ch*cw)
		i := 0
		for r := box.MinRow; r < box.MaxRow; r++ {
			for col := box.MinCol; col < box.MaxCol; col++ {
				if mask.At(r, col) == label {
					v := backgroundSubtract(plane.At(r, col), bg.Median[chIdx])
					corrected[i] = v
					if v > maxCorrected {
						maxCorrected = v
					}
				}
				i++
			}
		}
		scale := 1.0
		if maxCorrected > 255 {
			scale = 255 / maxCorrected
		}
		for i, v := range corrected {
			accum[i*3] += v * scale * tr
			accum[i*3+1] += v * scale * tg
			accum[i*3+2] += v * scale * tb
		}
	}

	if channels == 0 {
		return nil, ErrNoSignal
	}

	composite := image.NewRGBA(image.Rect(0, 0, cw, ch))
	for i := 0; i < ch*cw; i++ {
		composite.SetRGBA(i%cw, i/cw, color.RGBA{
			R: clip255(accum[i*3]),
			G: clip255(accum[i*3+1]),
			B: clip255(accum[i*3+2]),
			A: 255,
		})
	}

	square := resizeAndPad(composite, c.spec.TargetSize, clip255(padValue))
	thumb := resizeAndPad(square, c.spec.ThumbnailSize, clip255(padValue))

	pngBytes, err := encodePNG(square)
	if err != nil {
		return nil, fmt.Errorf("imaging: encode crop: %w", err)
	}
	thumbBytes, err := encodePNG(thumb)
	if err != nil {
		return nil, fmt.Errorf("imaging: encode thumbnail: %w", err)
	}

	return &Crop{PNG: pngBytes, Thumbnail: thumbBytes}, nil
}

// resizeAndPad scales src to fit inside a size×size square preserving aspect
// ratio, centering it over a uniform gray pad.
func resizeAndPad(src *image.RGBA, size int, pad uint8) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	bgCol := color.RGBA{pad, pad, pad, 255}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dst.SetRGBA(x, y, bgCol)
		}
	}

	sw := src.Bounds().Dx()
	sh := src.Bounds().Dy()
	if sw == 0 || sh == 0 {
		return dst
	}

	var dw, dh int
	if sw >= sh {
		dw = size
		dh = sh * size / sw
		if dh == 0 {
			dh = 1
		}
	} else {
		dh = size
		dw = sw * size / sh
		if dw == 0 {
			dw = 1
		}
	}
	x0 := (size - dw) / 2
	y0 := (size - dh) / 2

	xdraw.ApproxBiLinear.Scale(dst, image.Rect(x0, y0, x0+dw, y0+dh), src, src.Bounds(), xdraw.Over, nil)
	return dst
}

func clip255(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
