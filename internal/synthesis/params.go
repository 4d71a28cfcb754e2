package synthesis

import (
	"fmt"
	"image"
)

// QuilterParams configures a Quilter. Values are validated by
// NewQuilterParams and cannot be changed afterwards.
type QuilterParams struct {
	size            image.Point
	patchSize       int
	overlap         int
	seed            *image.Point
	selectionChance *float64
	distance        DistanceFunc
}

// NewQuilterParams validates and returns quilting parameters.
//
// Parameters:
//   - size: output width and height, both > 0.
//   - patchSize: side of the square patches copied from the source.
//   - overlap: width of the band shared by neighbouring patches, > 0 and at
//     most patchSize/2.
//   - seed: optional source origin of the first patch. When nil a random
//     origin is used.
//   - selectionChance: optional probabilistic search rate in (0,1). Each
//     search pass skips a source patch with this probability. When nil every
//     source patch is evaluated.
//   - distance: pixel metric used for overlap errors.
//
// All failures wrap ErrInvalidArguments.
func NewQuilterParams(size image.Point, patchSize, overlap int, seed *image.Point, selectionChance *float64, distance DistanceFunc) (QuilterParams, error) {
	if size.X <= 0 || size.Y <= 0 {
		return QuilterParams{}, fmt.Errorf("%w: output size %dx%d must be positive", ErrInvalidArguments, size.X, size.Y)
	}
	if overlap <= 0 {
		return QuilterParams{}, fmt.Errorf("%w: overlap %d must be positive", ErrInvalidArguments, overlap)
	}
	if patchSize < 2*overlap {
		return QuilterParams{}, fmt.Errorf("%w: patch size %d must be at least twice the overlap %d", ErrInvalidArguments, patchSize, overlap)
	}
	if selectionChance != nil {
		if p := *selectionChance; !(p > 0 && p < 1) {
			return QuilterParams{}, fmt.Errorf("%w: selection chance %v must be in (0,1)", ErrInvalidArguments, p)
		}
	}
	if distance == nil {
		return QuilterParams{}, fmt.Errorf("%w: distance function is nil", ErrInvalidArguments)
	}

	params := QuilterParams{
		size:      size,
		patchSize: patchSize,
		overlap:   overlap,
		distance:  distance,
	}
	if seed != nil {
		s := *seed
		params.seed = &s
	}
	if selectionChance != nil {
		c := *selectionChance
		params.selectionChance = &c
	}
	return params, nil
}

// Size returns the requested output dimensions.
func (p QuilterParams) Size() image.Point { return p.size }

// PatchSize returns the side of a patch.
func (p QuilterParams) PatchSize() int { return p.patchSize }

// Overlap returns the overlap band width.
func (p QuilterParams) Overlap() int { return p.overlap }

// Step is the distance between the corners of neighbouring patches.
func (p QuilterParams) Step() int { return p.patchSize - p.overlap }

// PixelSearchParams configures a PixelSearch.
type PixelSearchParams struct {
	size       image.Point
	windowSize int
	seed       *image.Point
}

// NewPixelSearchParams validates and returns pixel growth parameters.
//
// windowSize is the side of the square neighbourhood compared for every
// pixel and must be odd and at least 3. size must be at least 3x3 so the seed block fits.
// seed, when not nil, is the top-left corner of the 3x3 source block copied
// into the centre of the output.
func NewPixelSearchParams(size image.Point, windowSize int, seed *image.Point) (PixelSearchParams, error) {
	if windowSize%2 == 0 {
		return PixelSearchParams{}, fmt.Errorf("%w: window size %d must be odd", ErrInvalidArguments, windowSize)
	}
	if windowSize < 3 {
		return PixelSearchParams{}, fmt.Errorf("%w: window size %d leaves no neighbourhood to compare", ErrInvalidArguments, windowSize)
	}
	if size.X < seedBlock || size.Y < seedBlock {
		return PixelSearchParams{}, fmt.Errorf("%w: output size %dx%d is smaller than the %dx%d seed block",
			ErrInvalidArguments, size.X, size.Y, seedBlock, seedBlock)
	}

	params := PixelSearchParams{size: size, windowSize: windowSize}
	if seed != nil {
		s := *seed
		params.seed = &s
	}
	return params, nil
}

// Size returns the requested output dimensions.
func (p PixelSearchParams) Size() image.Point { return p.size }

// WindowSize returns the neighbourhood side length.
func (p PixelSearchParams) WindowSize() int { return p.windowSize }
