package synthesis

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand"

	"github.com/anthonynsimon/bild/parallel"
)

// seedBlock is the side of the source block copied into the output centre
// before growth starts.
const seedBlock = 3

// PixelSearch synthesizes texture by growing the output one pixel at a time
// from a seed block in its centre.
type PixelSearch struct {
	source *image.NRGBA
	params PixelSearchParams
	rng    *rand.Rand

	// Run state, reset by begin.
	out       *image.NRGBA
	mask      []bool
	remaining int
}

// NewPixelSearch creates a pixel grower over source.
//
// The source must hold at least a 3x3 block, and the seed block (if given)
// must lie inside it. Failures wrap ErrInvalidArguments.
func NewPixelSearch(source image.Image, params PixelSearchParams) (*PixelSearch, error) {
	src := normalize(source)
	b := src.Bounds()
	if b.Dx() < seedBlock || b.Dy() < seedBlock {
		return nil, fmt.Errorf("%w: source %dx%d is smaller than the %dx%d seed block",
			ErrInvalidArguments, b.Dx(), b.Dy(), seedBlock, seedBlock)
	}
	if s := params.seed; s != nil {
		if !(Patch{X: s.X, Y: s.Y, Size: seedBlock}).Rect().Bounds().In(b) {
			return nil, fmt.Errorf("%w: seed block at (%d,%d) exceeds source %dx%d",
				ErrInvalidArguments, s.X, s.Y, b.Dx(), b.Dy())
		}
	}

	return &PixelSearch{
		source: src,
		params: params,
		rng:    newRand(),
	}, nil
}

// SetRandomSeed makes subsequent runs reproducible.
func (ps *PixelSearch) SetRandomSeed(seed int64) {
	ps.rng = rand.New(rand.NewSource(seed))
}

// Synthesize grows a complete output image.
//
// Each iteration picks the frontier pixel with the most synthesized
// neighbours, scores every source location by the mean L2 distance of the
// overlapping synthesized neighbourhood, and copies the colour of a random
// location within 10% of the best score. Exactly one pixel is filled per
// iteration, so the loop ends after width*height-9 iterations.
//
// The error return is only non-nil when an internal invariant breaks; it
// wraps ErrSynthesisFailed.
func (ps *PixelSearch) Synthesize() (*image.NRGBA, error) {
	ps.begin()
	defer func() {
		ps.out = nil
		ps.mask = nil
	}()

	for ps.remaining > 0 {
		if _, err := ps.step(); err != nil {
			return nil, err
		}
	}
	return ps.out, nil
}

// begin allocates the run state and places the seed block.
func (ps *PixelSearch) begin() {
	size := ps.params.size
	sb := ps.source.Bounds()

	ps.out = image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
	ps.mask = make([]bool, size.X*size.Y)

	seed := image.Pt(ps.rng.Intn(sb.Dx()-seedBlock+1), ps.rng.Intn(sb.Dy()-seedBlock+1))
	if ps.params.seed != nil {
		seed = *ps.params.seed
	}

	centre := image.Pt(size.X/2-1, size.Y/2-1)
	BlitRect(ps.out, ps.source, Patch{X: seed.X, Y: seed.Y, Size: seedBlock}.Rect(), centre)
	for y := centre.Y; y < centre.Y+seedBlock; y++ {
		for x := centre.X; x < centre.X+seedBlock; x++ {
			ps.mask[y*size.X+x] = true
		}
	}
	ps.remaining = size.X*size.Y - seedBlock*seedBlock
}

// step fills one pixel and returns its position.
func (ps *PixelSearch) step() (image.Point, error) {
	target, ok := ps.nextTarget()
	if !ok {
		return image.Point{}, fmt.Errorf("%w: no frontier pixel with %d pixels left", ErrSynthesisFailed, ps.remaining)
	}
	c, err := ps.bestMatch(target)
	if err != nil {
		return image.Point{}, err
	}

	ps.out.SetNRGBA(target.X, target.Y, c)
	ps.mask[target.Y*ps.params.size.X+target.X] = true
	ps.remaining--
	return target, nil
}

func (ps *PixelSearch) radius() int {
	return (ps.params.windowSize - 1) / 2
}

func (ps *PixelSearch) isSet(x, y int) bool {
	size := ps.params.size
	if x < 0 || y < 0 || x >= size.X || y >= size.Y {
		return false
	}
	return ps.mask[y*size.X+x]
}

// isEdge reports whether (x,y) is unset and 4-adjacent to a set pixel.
func (ps *PixelSearch) isEdge(x, y int) bool {
	if ps.isSet(x, y) {
		return false
	}
	return ps.isSet(x-1, y) || ps.isSet(x+1, y) || ps.isSet(x, y-1) || ps.isSet(x, y+1)
}

// setNeighbours counts set pixels inside the window around (x,y).
func (ps *PixelSearch) setNeighbours(x, y int) int {
	size := ps.params.size
	r := ps.radius()
	n := 0
	for yy := max(0, y-r); yy <= min(size.Y-1, y+r); yy++ {
		for xx := max(0, x-r); xx <= min(size.X-1, x+r); xx++ {
			if ps.mask[yy*size.X+xx] {
				n++
			}
		}
	}
	return n
}

// nextTarget returns the frontier pixel with the most set neighbours. Ties
// go to the first pixel in row-major order.
func (ps *PixelSearch) nextTarget() (image.Point, bool) {
	size := ps.params.size

	type rowBest struct {
		x, count int
	}
	best := make([]rowBest, size.Y)
	parallel.Line(size.Y, func(start, end int) {
		for y := start; y < end; y++ {
			rb := rowBest{x: -1}
			for x := 0; x < size.X; x++ {
				if !ps.isEdge(x, y) {
					continue
				}
				if n := ps.setNeighbours(x, y); n > rb.count || rb.x < 0 {
					rb = rowBest{x: x, count: n}
				}
			}
			best[y] = rb
		}
	})

	target, count := image.Point{}, -1
	for y, rb := range best {
		if rb.x >= 0 && rb.count > count {
			target, count = image.Pt(rb.x, y), rb.count
		}
	}
	return target, count >= 0
}

// neighbourhoodError is the mean L2 distance between the window around
// source location s and the window around output location t, over offsets
// that fall inside both images and are set in the mask. The window radius
// is clamped separately against each edge of both images. +Inf means no
// offset qualified.
func (ps *PixelSearch) neighbourhoodError(s, t image.Point) float64 {
	sb := ps.source.Bounds()
	size := ps.params.size
	r := ps.radius()

	left := min(r, s.X, t.X)
	right := min(r, sb.Dx()-1-s.X, size.X-1-t.X)
	up := min(r, s.Y, t.Y)
	down := min(r, sb.Dy()-1-s.Y, size.Y-1-t.Y)

	var sum float64
	n := 0
	for dy := -up; dy <= down; dy++ {
		for dx := -left; dx <= right; dx++ {
			if !ps.mask[(t.Y+dy)*size.X+t.X+dx] {
				continue
			}
			sum += L2(ps.source.NRGBAAt(s.X+dx, s.Y+dy), ps.out.NRGBAAt(t.X+dx, t.Y+dy))
			n++
		}
	}
	if n == 0 {
		return math.Inf(1)
	}
	return sum / float64(n)
}

// bestMatch scores every source location against target and returns the
// colour of a random near-optimal one.
func (ps *PixelSearch) bestMatch(target image.Point) (color.NRGBA, error) {
	sb := ps.source.Bounds()
	w, h := sb.Dx(), sb.Dy()

	errs := make([]float64, w*h)
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				errs[y*w+x] = ps.neighbourhoodError(image.Pt(x, y), target)
			}
		}
	})

	accepted := nearOptimal(errs)
	if len(accepted) == 0 {
		return color.NRGBA{}, fmt.Errorf("%w: no source neighbourhood matches (%d,%d)", ErrSynthesisFailed, target.X, target.Y)
	}
	i := pickOne(ps.rng, accepted)
	return ps.source.NRGBAAt(i%w, i/w), nil
}
