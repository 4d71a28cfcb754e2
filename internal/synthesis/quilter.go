package synthesis

import (
	"fmt"
	"image"
	"math/rand"

	"github.com/disintegration/imaging"
)

// OverlapArea names the band(s) a patch shares with patches already placed.
type OverlapArea int

const (
	// OverlapTop: the patch only overlaps the patch above it.
	OverlapTop OverlapArea = iota
	// OverlapLeft: the patch only overlaps the patch to its left.
	OverlapLeft
	// OverlapTopLeft: the patch overlaps both.
	OverlapTopLeft
)

func (a OverlapArea) String() string {
	switch a {
	case OverlapTop:
		return "top"
	case OverlapLeft:
		return "left"
	case OverlapTopLeft:
		return "top-left"
	default:
		return fmt.Sprintf("OverlapArea(%d)", int(a))
	}
}

// overlapAreaAt derives the overlap area of the grid cell (col,row). The
// origin cell holds the seed patch and has none.
func overlapAreaAt(col, row int) (OverlapArea, bool) {
	switch {
	case col == 0 && row == 0:
		return 0, false
	case col == 0:
		return OverlapTop, true
	case row == 0:
		return OverlapLeft, true
	default:
		return OverlapTopLeft, true
	}
}

// bands returns the patch-local rectangles covered by an overlap area. The
// top band spans the full patch width; for OverlapTopLeft the left band
// starts below it so the shared corner is only covered once.
func bands(area OverlapArea, patchSize, overlap int) []image.Rectangle {
	top := image.Rect(0, 0, patchSize, overlap)
	switch area {
	case OverlapTop:
		return []image.Rectangle{top}
	case OverlapLeft:
		return []image.Rectangle{image.Rect(0, 0, overlap, patchSize)}
	default:
		return []image.Rectangle{top, image.Rect(0, overlap, overlap, patchSize)}
	}
}

// Quilter synthesizes texture by stitching overlapping source patches.
type Quilter struct {
	source *image.NRGBA
	params QuilterParams
	rng    *rand.Rand

	// buf only exists while QuiltImage runs.
	buf *image.NRGBA
}

// NewQuilter creates a quilter over source. The source is copied, so later
// changes to it do not affect the quilter.
func NewQuilter(source image.Image, params QuilterParams) *Quilter {
	return &Quilter{
		source: normalize(source),
		params: params,
		rng:    newRand(),
	}
}

// SetRandomSeed makes subsequent runs reproducible.
func (q *Quilter) SetRandomSeed(seed int64) {
	q.rng = rand.New(rand.NewSource(seed))
}

// QuiltImage runs one full synthesis and returns an image of exactly the
// requested size.
//
// # Algorithm
//
//  1. Patches are placed on a grid with step PatchSize-Overlap, so the grid
//     has ceil(size/step) cells per axis. The working buffer is one patch
//     larger than the output on both axes and is cropped at the end.
//  2. The seed patch goes to the buffer origin.
//  3. Every other cell, in row-major order, receives a source patch picked
//     at random among those whose overlap error is within 10% of the best,
//     cut along minimum-error seams through the overlap bands.
//
// # Errors
//
//   - ErrInvalidArguments if the patch does not fit the source or the seed
//     leaves no room for a full patch.
//   - ErrSynthesisFailed if no candidate patch could be found.
func (q *Quilter) QuiltImage() (*image.NRGBA, error) {
	p := q.params.patchSize
	size := q.params.size
	sb := q.source.Bounds()

	if p > sb.Dx() || p > sb.Dy() {
		return nil, fmt.Errorf("%w: patch size %d does not fit source %dx%d", ErrInvalidArguments, p, sb.Dx(), sb.Dy())
	}
	origin := image.Point{}
	if s := q.params.seed; s != nil {
		if !(Patch{X: s.X, Y: s.Y, Size: p}).Rect().Bounds().In(sb) {
			return nil, fmt.Errorf("%w: seed patch at (%d,%d) with size %d exceeds source %dx%d",
				ErrInvalidArguments, s.X, s.Y, p, sb.Dx(), sb.Dy())
		}
		origin = *s
	} else {
		origin = image.Pt(q.rng.Intn(sb.Dx()-p+1), q.rng.Intn(sb.Dy()-p+1))
	}

	step := q.params.Step()
	cols := ceilDiv(size.X, step)
	rows := ceilDiv(size.Y, step)

	q.buf = image.NewNRGBA(image.Rect(0, 0, size.X+p, size.Y+p))
	defer func() { q.buf = nil }()

	BlitRect(q.buf, q.source, Patch{X: origin.X, Y: origin.Y, Size: p}.Rect(), image.Point{})

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			area, ok := overlapAreaAt(col, row)
			if !ok {
				continue
			}
			at := image.Pt(col*step, row*step)

			cand, err := q.selectCandidate(at, area)
			if err != nil {
				return nil, fmt.Errorf("cell (%d,%d): %w", col, row, err)
			}
			surface := q.patchErrorSurface(cand, at, area)
			q.cutAndBlitPatch(cand, at, area, surface)
		}
	}

	return imaging.Crop(q.buf, image.Rect(0, 0, size.X, size.Y)), nil
}
