package synthesis

import (
	"image"
	"image/color"
	"math"
	"math/rand"
	"testing"
)

// solidImage creates an in-memory image filled with one colour.
func solidImage(width, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// noiseImage creates an opaque image of random colours.
func noiseImage(width, height int, seed int64) *image.NRGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 255})
		}
	}
	return img
}

// stripeImage creates vertical stripes alternating between two colours.
func stripeImage(width, height, stripe int, a, b color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x/stripe)%2 == 0 {
				img.SetNRGBA(x, y, a)
			} else {
				img.SetNRGBA(x, y, b)
			}
		}
	}
	return img
}

func mustQuilterParams(t *testing.T, size image.Point, patchSize, overlap int, seed *image.Point, chance *float64, dist DistanceFunc) QuilterParams {
	t.Helper()
	params, err := NewQuilterParams(size, patchSize, overlap, seed, chance, dist)
	if err != nil {
		t.Fatalf("NewQuilterParams failed: %v", err)
	}
	return params
}

func sameImage(a, b *image.NRGBA) bool {
	if a.Bounds() != b.Bounds() {
		return false
	}
	for y := a.Rect.Min.Y; y < a.Rect.Max.Y; y++ {
		for x := a.Rect.Min.X; x < a.Rect.Max.X; x++ {
			if a.NRGBAAt(x, y) != b.NRGBAAt(x, y) {
				return false
			}
		}
	}
	return true
}

func ptr[T any](v T) *T {
	return &v
}

func posInf() float64 {
	return math.Inf(1)
}
