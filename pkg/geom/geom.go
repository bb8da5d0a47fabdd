// Package geom converts physical measurements into pixel counts and holds
// the measurement specs shared by the layout planner and the renderer.
package geom

import (
	"errors"
	"fmt"
	"image/color"
	"math"
)

var ErrInvalidMeasurement = errors.New("invalid measurement")

const mmPerInch = 25.4

// MMToPixels converts a length in millimeters to a pixel count at the given
// resolution, rounding to the nearest pixel. Every measurement in one run
// must go through this with the same dpi so that a ruler held against the
// printed sheet matches the configuration.
func MMToPixels(mm, dpi float64) (int, error) {
	if mm < 0 {
		return 0, fmt.Errorf("%w: %gmm is negative", ErrInvalidMeasurement, mm)
	}
	if dpi <= 0 {
		return 0, fmt.Errorf("%w: dpi must be positive, got %g", ErrInvalidMeasurement, dpi)
	}
	return int(math.Round(mm * dpi / mmPerInch)), nil
}

// MMToPoints converts millimeters to PDF points (1/72 inch).
func MMToPoints(mm float64) float64 {
	return mm * 72 / mmPerInch
}

type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// PageSpec describes the physical paper.
type PageSpec struct {
	WidthMM     float64
	HeightMM    float64
	DPI         float64
	Orientation Orientation
}

// Oriented returns the spec with width and height swapped if needed so that
// landscape paper is wider than tall and portrait paper taller than wide.
func (p PageSpec) Oriented() PageSpec {
	switch p.Orientation {
	case Portrait:
		if p.WidthMM > p.HeightMM {
			p.WidthMM, p.HeightMM = p.HeightMM, p.WidthMM
		}
	default: // landscape
		if p.WidthMM < p.HeightMM {
			p.WidthMM, p.HeightMM = p.HeightMM, p.WidthMM
		}
	}
	return p
}

// CardSpec describes one card and how cards tile on a page.
type CardSpec struct {
	WidthMM  float64
	HeightMM float64
	Columns  int
	Rows     int
	GapMM    float64
	MarginMM float64
}

// MarkSpec describes the corner cut marks drawn around each placed card.
// GapMM is the distance between the card edge and the mark, so that cutting
// along the mark trims at the card boundary plus gap.
type MarkSpec struct {
	GapMM    float64
	LengthMM float64
	WidthPx  int
	Color    color.RGBA
}

// GuideSpec describes the optional full-page lines at grid boundaries.
type GuideSpec struct {
	Enabled bool
	WidthPx int
	Color   color.RGBA
}
