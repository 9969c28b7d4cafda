package cellstore

import (
	"encoding/base64"
	"fmt"

	"github.com/cytosearch/cytosearch/v1/features"
)

// Payload field names. Flat scalars live at the top level so they can be
// filtered on; intensities and spatial data are nested maps.
const (
	fieldApplicationID = "application_id"
	fieldImageID       = "image_id"
	fieldLabel         = "label"
	fieldWell          = "well"
)

// recordToPayload flattens a cell record into a vector point payload.
func recordToPayload(applicationID string, r *features.CellRecord) map[string]any {
	payload := map[string]any{
		fieldApplicationID:    applicationID,
		fieldImageID:          r.ImageID,
		fieldLabel:            int64(r.Label),
		"area":                r.Area,
		"perimeter":           r.Perimeter,
		"equivalent_diameter": r.EquivalentDiameter,
		"bbox_width":          int64(r.BBoxWidth),
		"bbox_height":         int64(r.BBoxHeight),
		"eccentricity":        r.Eccentricity,
		"solidity":            r.Solidity,
	}

	if r.AspectRatio != nil {
		payload["aspect_ratio"] = *r.AspectRatio
	}
	if r.Circularity != nil {
		payload["circularity"] = *r.Circularity
	}
	if r.Convexity != nil {
		payload["convexity"] = *r.Convexity
	}

	if len(r.Intensities) > 0 {
		intensities := make(map[string]any, len(r.Intensities))
		for channel, ci := range r.Intensities {
			intensities[channel] = map[string]any{
				"mean_intensity":       ci.Mean,
				"top10_mean_intensity": ci.Top10Mean,
			}
		}
		payload["intensities"] = intensities
	}

	if r.Spatial != nil {
		payload["stage_x_mm"] = r.Spatial.StageXMm
		payload["stage_y_mm"] = r.Spatial.StageYMm
		if r.Spatial.Well != "" {
			payload[fieldWell] = r.Spatial.Well
		}
		if r.Spatial.DistanceFromWellCenterMm != nil {
			payload["distance_from_well_center_mm"] = *r.Spatial.DistanceFromWellCenterMm
		}
	}

	if len(r.ThumbnailPNG) > 0 {
		payload["thumbnail_png"] = base64.StdEncoding.EncodeToString(r.ThumbnailPNG)
	}

	return payload
}

// recordFromPayload rebuilds a cell record from a stored point payload.
// The UUID comes from the point ID, the vector from the point itself.
func recordFromPayload(id string, payload map[string]any, vector []float32) (*features.CellRecord, error) {
	if payload == nil {
		return nil, fmt.Errorf("point '%s' has no payload", id)
	}

	r := &features.CellRecord{
		UUID:               id,
		ImageID:            asString(payload[fieldImageID]),
		Label:              int32(asInt64(payload[fieldLabel])),
		Area:               asFloat64(payload["area"]),
		Perimeter:          asFloat64(payload["perimeter"]),
		EquivalentDiameter: asFloat64(payload["equivalent_diameter"]),
		BBoxWidth:          int(asInt64(payload["bbox_width"])),
		BBoxHeight:         int(asInt64(payload["bbox_height"])),
		Eccentricity:       asFloat64(payload["eccentricity"]),
		Solidity:           asFloat64(payload["solidity"]),
		Embedding:          vector,
	}

	r.AspectRatio = asOptionalFloat64(payload["aspect_ratio"])
	r.Circularity = asOptionalFloat64(payload["circularity"])
	r.Convexity = asOptionalFloat64(payload["convexity"])

	if raw, ok := payload["intensities"].(map[string]any); ok && len(raw) > 0 {
		r.Intensities = make(map[string]*features.ChannelIntensity, len(raw))
		for channel, v := range raw {
			entry, ok := v.(map[string]any)
			if !ok {
				continue
			}
			r.Intensities[channel] = &features.ChannelIntensity{
				Mean:      asFloat64(entry["mean_intensity"]),
				Top10Mean: asFloat64(entry["top10_mean_intensity"]),
			}
		}
	}

	if _, ok := payload["stage_x_mm"]; ok {
		r.Spatial = &features.Spatial{
			StageXMm:                 asFloat64(payload["stage_x_mm"]),
			StageYMm:                 asFloat64(payload["stage_y_mm"]),
			Well:                     asString(payload[fieldWell]),
			DistanceFromWellCenterMm: asOptionalFloat64(payload["distance_from_well_center_mm"]),
		}
	}

	if encoded := asString(payload["thumbnail_png"]); encoded != "" {
		png, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("point '%s' has corrupt thumbnail: %w", id, err)
		}
		r.ThumbnailPNG = png
	}

	return r, nil
}

// applicationOf reads the application namespace out of a payload.
func applicationOf(payload map[string]any) string {
	return asString(payload[fieldApplicationID])
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func asFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}

func asOptionalFloat64(v any) *float64 {
	if v == nil {
		return nil
	}
	f := asFloat64(v)
	return &f
}
