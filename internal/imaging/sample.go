package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// Region represents a rectangular region within an image.
//
// (X1, Y1) is the top-left corner (inclusive) and (X2, Y2) the bottom-right
// corner (exclusive), relative to the image's top-left pixel.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// SampleRegion cuts the synthesis sample out of img.
//
// A nil region selects the whole image. The returned image is a copy whose
// bounds start at (0,0).
func SampleRegion(img image.Image, region *Region) (image.Image, error) {
	bounds := img.Bounds()
	if region == nil {
		return imaging.Clone(img), nil
	}

	r := region
	if r.X1 < 0 || r.Y1 < 0 || r.X2 > bounds.Dx() || r.Y2 > bounds.Dy() {
		return nil, fmt.Errorf("sample region (%d,%d)-(%d,%d) outside image bounds %dx%d",
			r.X1, r.Y1, r.X2, r.Y2, bounds.Dx(), bounds.Dy())
	}
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return nil, fmt.Errorf("invalid sample region: x1 must be < x2, y1 must be < y2")
	}

	rect := image.Rect(r.X1, r.Y1, r.X2, r.Y2).Add(bounds.Min)
	return imaging.Crop(img, rect), nil
}

// ImageResult is a synthesized or cropped image ready to be returned to an
// MCP client.
type ImageResult struct {
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	ImageBase64 string      `json:"image_base64"`
	MimeType    string      `json:"mime_type"`
	MeanColor   ColorResult `json:"mean_color"`
}

// EncodeResult encodes img as a base64 PNG result.
//
// A scale other than 1 resizes the image with nearest-neighbour filtering,
// which keeps the hard pixel edges of small textures visible. Zero leaves
// the image unscaled; a negative scale is an error.
func EncodeResult(img image.Image, scale float64) (*ImageResult, error) {
	if scale < 0 {
		return nil, fmt.Errorf("scale %v must not be negative", scale)
	}
	if scale != 1.0 && scale > 0 {
		w := int(float64(img.Bounds().Dx()) * scale)
		h := int(float64(img.Bounds().Dy()) * scale)
		if w < 1 || h < 1 {
			return nil, fmt.Errorf("scale %v reduces the image to nothing", scale)
		}
		img = imaging.Resize(img, w, h, imaging.NearestNeighbor)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &ImageResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		MeanColor:   MeanColor(img),
	}, nil
}
