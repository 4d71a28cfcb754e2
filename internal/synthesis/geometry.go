package synthesis

import (
	"fmt"
	"image"
)

// Patch is a square region of the source image.
type Patch struct {
	X, Y int // top-left corner in the source
	Size int // side length in pixels
}

// Rect returns the region covered by the patch.
func (p Patch) Rect() Rect {
	return Rect{X: p.X, Y: p.Y, Width: p.Size, Height: p.Size}
}

// Rect is a rectangular region used for blitting.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Bounds converts r to an image.Rectangle.
func (r Rect) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// BlitRect copies every pixel of src inside r into dst, with r's top-left
// corner landing on dstOrigin. Existing destination pixels are overwritten.
//
// Both the source region and the destination region must lie inside their
// images. Violating this is a programming error and panics.
func BlitRect(dst, src *image.NRGBA, r Rect, dstOrigin image.Point) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	from := r.Bounds()
	to := from.Sub(from.Min).Add(dstOrigin)
	if !from.In(src.Bounds()) {
		panic(fmt.Sprintf("synthesis: blit source %v outside %v", from, src.Bounds()))
	}
	if !to.In(dst.Bounds()) {
		panic(fmt.Sprintf("synthesis: blit destination %v outside %v", to, dst.Bounds()))
	}

	n := 4 * r.Width
	for y := 0; y < r.Height; y++ {
		so := src.PixOffset(from.Min.X, from.Min.Y+y)
		do := dst.PixOffset(to.Min.X, to.Min.Y+y)
		copy(dst.Pix[do:do+n], src.Pix[so:so+n])
	}
}
