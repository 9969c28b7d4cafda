package acquisition

import (
	"context"

	"github.com/cytosearch/cytosearch/v1/imaging"
)

// ChannelSetting selects one channel to acquire and its illumination.
type ChannelSetting struct {
	Channel             imaging.Channel `yaml:"channel"`
	ExposureMs          float64         `yaml:"exposure_ms"`
	IlluminationPct     float64         `yaml:"illumination_pct"`
	ZOffsetUm           float64         `yaml:"z_offset_um"`
	AutofocusBeforehand bool            `yaml:"autofocus"`
}

// Position is an absolute stage target in millimeters.
type Position struct {
	XMm float64 `yaml:"x_mm"`
	YMm float64 `yaml:"y_mm"`
	ZMm float64 `yaml:"z_mm"`
}

// MicroscopeStatus is the acquisition metadata snapshot attached to a
// captured image. Optional fields are pointers: a nil pointer means the
// hardware service did not report that value, and dependent record fields
// stay unset downstream.
type MicroscopeStatus struct {
	// Stage position at capture time, millimeters.
	XMm float64 `json:"x_mm"`
	YMm float64 `json:"y_mm"`
	ZMm float64 `json:"z_mm"`

	// PixelSizeUm is the physical size of one image pixel in micrometers.
	// Nil when the objective/binning combination is unknown.
	PixelSizeUm *float64 `json:"pixel_size_um,omitempty"`

	Objective string `json:"objective,omitempty"`

	// Well identifies the plate well under the objective, e.g. "C4".
	Well string `json:"well,omitempty"`

	// WellCenter is the absolute center of that well when known.
	WellCenter *Position `json:"well_center,omitempty"`
}

// Service is the microscope hardware collaborator used by the snap stage.
// All calls block until the hardware settles and honor ctx cancellation.
type Service interface {
	// MoveTo drives the stage to an absolute position.
	MoveTo(ctx context.Context, pos Position) error

	// Autofocus runs the hardware autofocus routine at the current position.
	Autofocus(ctx context.Context) error

	// Snap captures one plane with the given channel settings.
	Snap(ctx context.Context, setting ChannelSetting) (*imaging.Plane, error)

	// GetStatus reports the current stage position and well metadata.
	GetStatus(ctx context.Context) (*MicroscopeStatus, error)
}
