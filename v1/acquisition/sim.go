package acquisition

import (
	"context"
	"math/rand"
	"sync"

	"github.com/cytosearch/cytosearch/v1/imaging"
)

// Simulator is a deterministic in-memory Service used in tests and for
// developing the snap pipeline without hardware attached. It renders a few
// bright blobs per snap so that downstream segmentation has something to
// find.
type Simulator struct {
	mu      sync.Mutex
	pos     Position
	rng     *rand.Rand
	H, W    int
	Plate   PlateFormat
	PixelUm float64
}

// NewSimulator returns a simulator producing h-by-w frames on a 96-well
// plate with 0.9 um pixels.
func NewSimulator(h, w int, seed int64) *Simulator {
	return &Simulator{
		rng:     rand.New(rand.NewSource(seed)),
		H:       h,
		W:       w,
		Plate:   Plate96,
		PixelUm: 0.9,
	}
}

// MoveTo records the new stage position.
func (s *Simulator) MoveTo(_ context.Context, pos Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pos = pos
	return nil
}

// Autofocus is a no-op for the simulator.
func (s *Simulator) Autofocus(context.Context) error { return nil }

// Snap renders a frame with a handful of gaussian-ish blobs over a flat
// background, brighter for fluorescence channels.
func (s *Simulator) Snap(_ context.Context, setting ChannelSetting) (*imaging.Plane, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := float32(20)
	if setting.Channel == imaging.BrightField {
		base = 128
	}

	p := imaging.NewPlane(s.H, s.W)
	for i := range p.Pix {
		p.Pix[i] = base + float32(s.rng.Intn(5))
	}

	blobs := 3 + s.rng.Intn(3)
	for b := 0; b < blobs; b++ {
		cr := s.rng.Intn(s.H)
		cc := s.rng.Intn(s.W)
		rad := 4 + s.rng.Intn(6)
		for r := cr - rad; r <= cr+rad; r++ {
			for c := cc - rad; c <= cc+rad; c++ {
				if r < 0 || c < 0 || r >= s.H || c >= s.W {
					continue
				}
				dr, dc := r-cr, c-cc
				if dr*dr+dc*dc <= rad*rad {
					p.Set(r, c, base+120)
				}
			}
		}
	}
	return p, nil
}

// GetStatus reports the simulated stage position with full well metadata.
func (s *Simulator) GetStatus(context.Context) (*MicroscopeStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := &MicroscopeStatus{
		XMm:         s.pos.XMm,
		YMm:         s.pos.YMm,
		ZMm:         s.pos.ZMm,
		PixelSizeUm: &s.PixelUm,
		Objective:   "20x",
	}
	if well, err := s.Plate.WellAt(s.pos); err == nil {
		status.Well = well
		if center, err := s.Plate.WellCenter(well); err == nil {
			status.WellCenter = &center
		}
	}
	return status, nil
}
