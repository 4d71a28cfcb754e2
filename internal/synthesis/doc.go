// Package synthesis generates texture from a small sample image.
//
// Two synthesizers are provided, both driven by the same pixel distance
// abstraction (DistanceFunc):
//
//   - Quilter tiles overlapping square patches taken from the sample
//     (image quilting). Each new patch is chosen among the source patches
//     whose overlap error is close to the best one, and the overlap is cut
//     along a minimum-error seam so that neighbouring patches blend.
//   - PixelSearch grows the output one pixel at a time outward from a 3x3
//     seed block, choosing each pixel by matching its already synthesized
//     neighbourhood against every neighbourhood of the sample.
//
// # Coordinate System
//
// All images handled by this package are *image.NRGBA values whose bounds
// start at (0,0). Sources of any image.Image type are normalised on
// construction, so a cropped sub-image can be passed directly. X increases
// rightward and Y increases downward.
//
// # Randomness
//
// Candidate selection is randomised to avoid visible repetition. Each
// synthesizer owns its own *rand.Rand seeded from the clock; call
// SetRandomSeed before a run to make it reproducible.
//
// # Concurrency
//
// A synthesizer is not safe for concurrent use, but a single run fans the
// expensive candidate scoring out over all CPUs. The outer placement loops
// are sequential: every step depends on everything written before it.
//
// # Error Handling
//
// Parameter problems are reported as errors wrapping ErrInvalidArguments,
// always before any synthesis work starts. ErrSynthesisFailed is reserved
// for internal invariant violations such as an empty candidate set. A run
// never returns a partial image.
package synthesis
