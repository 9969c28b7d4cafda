package imaging

import "fmt"

// Plane is a single-channel 2-D image stored row-major as float32.
// Pixel values keep whatever range the camera produced; nothing in this
// package assumes 8-bit input.
type Plane struct {
	H, W int
	Pix  []float32
}

// NewPlane allocates a zeroed H×W plane.
func NewPlane(h, w int) *Plane {
	return &Plane{H: h, W: w, Pix: make([]float32, h*w)}
}

// At returns the pixel at row r, column c.
func (p *Plane) At(r, c int) float32 {
	return p.Pix[r*p.W+c]
}

// Set writes the pixel at row r, column c.
func (p *Plane) Set(r, c int, v float32) {
	p.Pix[r*p.W+c] = v
}

// Max returns the maximum pixel value, or 0 for an empty plane.
func (p *Plane) Max() float32 {
	var max float32
	for _, v := range p.Pix {
		if v > max {
			max = v
		}
	}
	return max
}

// HasSignal reports whether any pixel is positive. An all-zero plane is
// treated exactly like an absent one throughout the pipeline.
func (p *Plane) HasSignal() bool {
	if p == nil {
		return false
	}
	for _, v := range p.Pix {
		if v > 0 {
			return true
		}
	}
	return false
}

// Stack is a sparse multi-channel image: Planes is indexed by Channel and a
// nil entry means the channel was not acquired. All present planes share the
// same H×W.
type Stack struct {
	H, W   int
	Planes [NumChannels]*Plane
}

// NewStack builds a Stack from the given planes, validating that every
// present plane shares the same dimensions.
func NewStack(planes [NumChannels]*Plane) (*Stack, error) {
	s := &Stack{Planes: planes}
	for ch, p := range planes {
		if p == nil {
			continue
		}
		if s.H == 0 {
			s.H, s.W = p.H, p.W
			continue
		}
		if p.H != s.H || p.W != s.W {
			return nil, fmt.Errorf("imaging: channel %s is %dx%d, want %dx%d",
				Channel(ch), p.H, p.W, s.H, s.W)
		}
	}
	if s.H == 0 {
		return nil, fmt.Errorf("imaging: stack has no channels")
	}
	return s, nil
}

// NewSingleChannelStack wraps one plane as a stack on the given channel.
func NewSingleChannelStack(ch Channel, p *Plane) *Stack {
	var planes [NumChannels]*Plane
	planes[ch] = p
	return &Stack{H: p.H, W: p.W, Planes: planes}
}

// Plane returns the plane for a channel, nil when absent.
func (s *Stack) Plane(ch Channel) *Plane {
	if ch < 0 || ch >= NumChannels {
		return nil
	}
	return s.Planes[ch]
}

// LabelMask is an integer segmentation mask. 0 is background; each positive
// value labels exactly one connected cell region.
type LabelMask struct {
	H, W int
	Lab  []int32
}

// NewLabelMask allocates a zeroed H×W mask.
func NewLabelMask(h, w int) *LabelMask {
	return &LabelMask{H: h, W: w, Lab: make([]int32, h*w)}
}

// At returns the label at row r, column c.
func (m *LabelMask) At(r, c int) int32 {
	return m.Lab[r*m.W+c]
}

// Set writes the label at row r, column c.
func (m *LabelMask) Set(r, c int, v int32) {
	m.Lab[r*m.W+c] = v
}

// BackgroundValues carries the per-channel background reference: the median
// intensity of all background (label 0) pixels, computed once per image and
// shared read-only across cell workers. HasSignal mirrors the plane's signal
// state so that consumers can skip absent and all-zero channels alike.
type BackgroundValues struct {
	Median    [NumChannels]float64
	HasSignal [NumChannels]bool
}
