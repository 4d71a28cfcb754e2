package synthesis

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/parallel"
)

// selectCandidate picks the source origin of the patch placed at buffer
// position at.
//
// All origins are scored in parallel first, then filtered against the
// global minimum, so the accepted set does not depend on scan order.
func (q *Quilter) selectCandidate(at image.Point, area OverlapArea) (image.Point, error) {
	var origins []image.Point
	if q.params.selectionChance != nil {
		origins = q.sampleOrigins(*q.params.selectionChance)
	} else {
		origins = q.allOrigins()
	}

	errs := make([]float64, len(origins))
	parallel.Line(len(origins), func(start, end int) {
		for i := start; i < end; i++ {
			errs[i] = q.overlapError(origins[i], at, area)
		}
	})

	accepted := nearOptimal(errs)
	if len(accepted) == 0 {
		return image.Point{}, fmt.Errorf("%w: no candidate patch among %d origins", ErrSynthesisFailed, len(origins))
	}
	return origins[pickOne(q.rng, accepted)], nil
}

// allOrigins lists every source origin a full patch fits at.
func (q *Quilter) allOrigins() []image.Point {
	maxX, maxY := q.maxOrigin()
	origins := make([]image.Point, 0, (maxX+1)*(maxY+1))
	for y := 0; y <= maxY; y++ {
		for x := 0; x <= maxX; x++ {
			origins = append(origins, image.Pt(x, y))
		}
	}
	return origins
}

// sampleOrigins keeps each source origin with probability 1-chance,
// repeating the pass until at least one origin survives.
func (q *Quilter) sampleOrigins(chance float64) []image.Point {
	maxX, maxY := q.maxOrigin()
	for {
		var origins []image.Point
		for y := 0; y <= maxY; y++ {
			for x := 0; x <= maxX; x++ {
				if q.rng.Float64() >= chance {
					origins = append(origins, image.Pt(x, y))
				}
			}
		}
		if len(origins) > 0 {
			return origins
		}
	}
}

func (q *Quilter) maxOrigin() (int, int) {
	b := q.source.Bounds()
	return b.Dx() - q.params.patchSize, b.Dy() - q.params.patchSize
}

// overlapError sums the distance between the candidate patch at origin and
// the buffer content under the overlap band(s) of the patch placed at at.
func (q *Quilter) overlapError(origin, at image.Point, area OverlapArea) float64 {
	dist := q.params.distance
	var sum float64
	for _, band := range bands(area, q.params.patchSize, q.params.overlap) {
		for y := band.Min.Y; y < band.Max.Y; y++ {
			for x := band.Min.X; x < band.Max.X; x++ {
				sum += dist(q.source.NRGBAAt(origin.X+x, origin.Y+y), q.buf.NRGBAAt(at.X+x, at.Y+y))
			}
		}
	}
	return sum
}
