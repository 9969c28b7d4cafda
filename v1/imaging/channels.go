package imaging

import "fmt"

// Channel identifies one acquisition channel of the microscope.
// Channel 0 is brightfield; the remaining channels are the fixed
// fluorescence excitation wavelengths the acquisition software exposes.
type Channel int

const (
	BrightField Channel = iota
	Fluorescence405
	Fluorescence488
	Fluorescence561
	Fluorescence638
	Fluorescence730

	NumChannels
)

var channelNames = [NumChannels]string{
	"BF_LED_matrix_full",
	"Fluorescence_405_nm_Ex",
	"Fluorescence_488_nm_Ex",
	"Fluorescence_561_nm_Ex",
	"Fluorescence_638_nm_Ex",
	"Fluorescence_730_nm_Ex",
}

// RGB is an 8-bit display color.
type RGB struct {
	R, G, B uint8
}

// channelTints assigns each channel its display color for compositing.
// Brightfield renders as neutral gray; fluorescence colors approximate the
// emission appearance of common dyes at each excitation wavelength.
var channelTints = [NumChannels]RGB{
	{255, 255, 255}, // brightfield
	{60, 60, 255},   // 405 nm, DAPI-like blue
	{0, 255, 0},     // 488 nm, GFP-like green
	{255, 200, 0},   // 561 nm, RFP-like amber
	{255, 0, 0},     // 638 nm, far red
	{255, 0, 255},   // 730 nm, near infrared rendered magenta
}

// String returns the canonical channel name used in acquisition configs and
// record field names.
func (c Channel) String() string {
	if c < 0 || c >= NumChannels {
		return fmt.Sprintf("Channel(%d)", int(c))
	}
	return channelNames[c]
}

// Tint returns the display color used when compositing this channel.
func (c Channel) Tint() RGB {
	if c < 0 || c >= NumChannels {
		return RGB{}
	}
	return channelTints[c]
}

// IsFluorescence reports whether the channel is a fluorescence channel.
func (c Channel) IsFluorescence() bool {
	return c > BrightField && c < NumChannels
}

// ChannelFromName resolves a canonical channel name.
func ChannelFromName(name string) (Channel, error) {
	for i, n := range channelNames {
		if n == name {
			return Channel(i), nil
		}
	}
	return 0, fmt.Errorf("imaging: unknown channel %q", name)
}

// ChannelNames returns the full ordered channel vocabulary.
func ChannelNames() []string {
	out := make([]string, NumChannels)
	copy(out, channelNames[:])
	return out
}
