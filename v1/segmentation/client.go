package segmentation

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cytosearch/cytosearch/v1/imaging"
)

// Segmenter is the contract the pipeline depends on: grayscale plane in,
// full-resolution integer label mask out.
type Segmenter interface {
	Segment(ctx context.Context, plane *imaging.Plane, scale int) (*imaging.LabelMask, error)
}

// Client calls the external segmentation service over HTTP.
type Client struct {
	cfg        *Config
	httpClient *http.Client
}

// NewClient validates the configuration and returns a ready client.
func NewClient(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutS) * time.Second},
	}, nil
}

type segmentRequest struct {
	Image string `json:"image"` // base64 16-bit grayscale PNG
}

type segmentResponse struct {
	Height int    `json:"height"`
	Width  int    `json:"width"`
	Labels string `json:"labels"` // base64 little-endian int32, row-major
}

// Segment downsamples the plane by scale, sends it to the service, and
// upsamples the returned mask back to the plane's resolution.
func (c *Client) Segment(ctx context.Context, plane *imaging.Plane, scale int) (*imaging.LabelMask, error) {
	if scale < 1 {
		scale = c.cfg.DefaultScale
	}

	small := downsamplePlane(plane, scale)
	encoded, err := encodeGray16PNG(small)
	if err != nil {
		return nil, fmt.Errorf("segmentation: encode input: %w", err)
	}

	reqBody, err := json.Marshal(segmentRequest{
		Image: base64.StdEncoding.EncodeToString(encoded),
	})
	if err != nil {
		return nil, fmt.Errorf("segmentation: marshal request: %w", err)
	}

	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/v1/segment"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("segmentation: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("segmentation: service not available: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("segmentation: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("segmentation: service returned %d", resp.StatusCode)
	}

	var parsed segmentResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("segmentation: decode response: %w", err)
	}

	small2, err := decodeMask(parsed)
	if err != nil {
		return nil, err
	}

	return upsampleMask(small2, plane.H, plane.W, scale), nil
}

// encodeGray16PNG maps the plane onto the full 16-bit range with a linear
// min/max stretch and encodes it as grayscale PNG. The model normalizes its
// input anyway, so only relative intensities matter.
func encodeGray16PNG(p *imaging.Plane) ([]byte, error) {
	min, max := p.Pix[0], p.Pix[0]
	for _, v := range p.Pix {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	span := float64(max - min)
	if span <= 0 {
		span = 1
	}

	img := image.NewGray16(image.Rect(0, 0, p.W, p.H))
	for r := 0; r < p.H; r++ {
		for c := 0; c < p.W; c++ {
			v := uint16(float64(p.At(r, c)-min) / span * 65535)
			img.SetGray16(c, r, color.Gray16{Y: v})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeMask(resp segmentResponse) (*imaging.LabelMask, error) {
	if resp.Height <= 0 || resp.Width <= 0 {
		return nil, fmt.Errorf("segmentation: bad mask dimensions %dx%d", resp.Height, resp.Width)
	}
	raw, err := base64.StdEncoding.DecodeString(resp.Labels)
	if err != nil {
		return nil, fmt.Errorf("segmentation: decode labels: %w", err)
	}
	want := resp.Height * resp.Width * 4
	if len(raw) != want {
		return nil, fmt.Errorf("segmentation: labels payload is %d bytes, want %d", len(raw), want)
	}

	mask := imaging.NewLabelMask(resp.Height, resp.Width)
	for i := range mask.Lab {
		mask.Lab[i] = int32(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return mask, nil
}
