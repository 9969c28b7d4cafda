package acquisition

import (
	"fmt"
	"strconv"
)

// PlateFormat describes the geometry of a standard well plate (ANSI/SLAS
// dimensions): the offset of well A1's center from the plate origin and the
// center-to-center well spacing, all in millimeters.
type PlateFormat struct {
	Rows, Cols     int
	A1XMm, A1YMm   float64
	SpacingMm      float64
	WellDiameterMm float64
}

// Standard plate formats.
var (
	Plate96 = PlateFormat{
		Rows: 8, Cols: 12,
		A1XMm: 14.38, A1YMm: 11.24,
		SpacingMm:      9.0,
		WellDiameterMm: 6.21,
	}

	Plate384 = PlateFormat{
		Rows: 16, Cols: 24,
		A1XMm: 12.13, A1YMm: 8.99,
		SpacingMm:      4.5,
		WellDiameterMm: 3.3,
	}
)

// WellCenter resolves the absolute center of a well name like "C4".
func (p PlateFormat) WellCenter(well string) (Position, error) {
	row, col, err := parseWell(well)
	if err != nil {
		return Position{}, err
	}
	if row >= p.Rows || col >= p.Cols {
		return Position{}, fmt.Errorf("acquisition: well %q outside %dx%d plate", well, p.Rows, p.Cols)
	}
	return Position{
		XMm: p.A1XMm + float64(col)*p.SpacingMm,
		YMm: p.A1YMm + float64(row)*p.SpacingMm,
	}, nil
}

// WellAt maps a stage position to the nearest well name, or an error when
// the position falls outside the plate grid.
func (p PlateFormat) WellAt(pos Position) (string, error) {
	col := int((pos.XMm-p.A1XMm)/p.SpacingMm + 0.5)
	row := int((pos.YMm-p.A1YMm)/p.SpacingMm + 0.5)
	if row < 0 || col < 0 || row >= p.Rows || col >= p.Cols {
		return "", fmt.Errorf("acquisition: position (%.2f, %.2f) outside plate", pos.XMm, pos.YMm)
	}
	return wellName(row, col), nil
}

func parseWell(well string) (row, col int, err error) {
	if len(well) < 2 {
		return 0, 0, fmt.Errorf("acquisition: malformed well %q", well)
	}
	r := well[0]
	if r < 'A' || r > 'Z' {
		return 0, 0, fmt.Errorf("acquisition: malformed well %q", well)
	}
	c, err := strconv.Atoi(well[1:])
	if err != nil || c < 1 {
		return 0, 0, fmt.Errorf("acquisition: malformed well %q", well)
	}
	return int(r - 'A'), c - 1, nil
}

func wellName(row, col int) string {
	return fmt.Sprintf("%c%d", 'A'+row, col+1)
}
