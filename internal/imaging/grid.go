package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// PatchGridOverlay draws the quilting grid over a synthesized image.
//
// Lines are drawn every step pixels starting at step, which is where each
// new patch's overlap band begins (patch size minus overlap). Seams lie
// within overlap pixels to the right of or below each line. The input is not
// modified.
//
// gridColorHex is "#rrggbb"; an unparsable color falls back to red.
func PatchGridOverlay(img image.Image, step int, gridColorHex string) (*image.RGBA, error) {
	if step <= 0 {
		return nil, fmt.Errorf("grid step %d must be positive", step)
	}

	gridColor, err := parseHexColor(gridColorHex)
	if err != nil {
		gridColor = color.RGBA{255, 0, 0, 255}
	}

	bounds := img.Bounds()
	result := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(result, result.Bounds(), img, bounds.Min, draw.Src)

	width, height := result.Bounds().Dx(), result.Bounds().Dy()
	for x := step; x < width; x += step {
		for y := 0; y < height; y++ {
			result.SetRGBA(x, y, gridColor)
		}
	}
	for y := step; y < height; y += step {
		for x := 0; x < width; x++ {
			result.SetRGBA(x, y, gridColor)
		}
	}

	return result, nil
}

// parseHexColor parses "#rrggbb" (the leading # is optional).
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] != '#' {
		hex = "#" + hex
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}
