package imaging

import (
	"image"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// ColorResult contains a color as hex and as 8-bit components.
type ColorResult struct {
	Hex string   `json:"hex"` // Hex format "#rrggbb" (no alpha)
	RGB RGBColor `json:"rgb"`
}

// MeanColor averages every pixel of img per channel, ignoring alpha.
//
// It is reported alongside synthesis results as a quick check that the
// output keeps the overall tone of the sample. An empty image yields black.
func MeanColor(img image.Image) ColorResult {
	bounds := img.Bounds()
	n := bounds.Dx() * bounds.Dy()
	if n == 0 {
		return colorResult(colorful.Color{})
	}

	var sr, sg, sb float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			sr += float64(r >> 8)
			sg += float64(g >> 8)
			sb += float64(b >> 8)
		}
	}

	total := float64(n) * 255
	return colorResult(colorful.Color{R: sr / total, G: sg / total, B: sb / total})
}

func colorResult(c colorful.Color) ColorResult {
	r, g, b := c.Clamped().RGB255()
	return ColorResult{
		Hex: c.Clamped().Hex(),
		RGB: RGBColor{R: r, G: g, B: b},
	}
}
