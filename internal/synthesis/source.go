package synthesis

import (
	"image"
	"math"
	"math/rand"
	"time"

	"github.com/disintegration/imaging"
)

// tolerance is how far above the best error a candidate may score and
// still be picked.
const tolerance = 0.1

// normalize returns a straight-alpha copy of img anchored at (0,0), so the
// distance functions see colour channels unscaled by alpha.
func normalize(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// nearOptimal returns the indices of every finite error within tolerance
// of the smallest finite error. +Inf marks an excluded candidate.
func nearOptimal(errs []float64) []int {
	best := math.Inf(1)
	for _, e := range errs {
		if math.IsNaN(e) {
			panic("synthesis: distance produced NaN")
		}
		if e < best {
			best = e
		}
	}
	if math.IsInf(best, 1) {
		return nil
	}

	limit := best * (1 + tolerance)
	var keep []int
	for i, e := range errs {
		if e <= limit {
			keep = append(keep, i)
		}
	}
	return keep
}

// pickOne shuffles the candidate indices and returns the first one.
func pickOne(rng *rand.Rand, candidates []int) int {
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	return candidates[0]
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
