package canvas

import (
	"fmt"
	"image/color"
)

// Hex parses a "#rrggbb" or "#rgb" color string.
func Hex(hex string) (color.RGBA, error) {
	c := color.RGBA{A: 0xff}
	var err error
	switch len(hex) {
	case 7:
		_, err = fmt.Sscanf(hex, "#%02x%02x%02x", &c.R, &c.G, &c.B)
	case 4:
		_, err = fmt.Sscanf(hex, "#%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R *= 17
		c.G *= 17
		c.B *= 17
	default:
		err = fmt.Errorf("length must be 7 or 4")
	}
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return c, nil
}
