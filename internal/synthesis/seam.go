package synthesis

import (
	"image"
)

// ErrorSurface holds the per-pixel distance between a candidate patch and
// the content already in the buffer. Only cells inside the overlap bands
// are populated; the rest stay zero.
type ErrorSurface struct {
	Size   int
	Area   OverlapArea
	values []float64
	inBand []bool
}

func newErrorSurface(size int, area OverlapArea) *ErrorSurface {
	return &ErrorSurface{
		Size:   size,
		Area:   area,
		values: make([]float64, size*size),
		inBand: make([]bool, size*size),
	}
}

// At returns the error at patch-local (x,y).
func (s *ErrorSurface) At(x, y int) float64 {
	return s.values[y*s.Size+x]
}

// Populated reports whether (x,y) lies in an overlap band.
func (s *ErrorSurface) Populated(x, y int) bool {
	return s.inBand[y*s.Size+x]
}

func (s *ErrorSurface) set(x, y int, v float64) {
	i := y*s.Size + x
	s.values[i] = v
	s.inBand[i] = true
}

// patchErrorSurface computes the error surface of the candidate patch at
// origin placed at buffer position at.
func (q *Quilter) patchErrorSurface(origin, at image.Point, area OverlapArea) *ErrorSurface {
	dist := q.params.distance
	s := newErrorSurface(q.params.patchSize, area)
	for _, band := range bands(area, q.params.patchSize, q.params.overlap) {
		for y := band.Min.Y; y < band.Max.Y; y++ {
			for x := band.Min.X; x < band.Max.X; x++ {
				s.set(x, y, dist(q.source.NRGBAAt(origin.X+x, origin.Y+y), q.buf.NRGBAAt(at.X+x, at.Y+y)))
			}
		}
	}
	return s
}

// verticalSeam finds the minimum-error cut through the left overlap band.
// The result holds one column in [0,overlap) per patch row.
func verticalSeam(s *ErrorSurface, overlap int) []int {
	return minCostPath(s.Size, overlap, func(along, across int) float64 {
		return s.At(across, along)
	})
}

// horizontalSeam finds the minimum-error cut through the top overlap band.
// The result holds one row in [0,overlap) per patch column.
func horizontalSeam(s *ErrorSurface, overlap int) []int {
	return minCostPath(s.Size, overlap, func(along, across int) float64 {
		return s.At(along, across)
	})
}

// minCostPath runs the seam dynamic programme over a band that is length
// cells long and width cells across. Each step of the path may move at most
// one cell across. The cost table is dense and filled step by step.
func minCostPath(length, width int, errAt func(along, across int) float64) []int {
	cost := make([]float64, length*width)
	for c := 0; c < width; c++ {
		cost[c] = errAt(0, c)
	}
	for a := 1; a < length; a++ {
		prev := cost[(a-1)*width : a*width]
		for c := 0; c < width; c++ {
			best := prev[c]
			if c > 0 && prev[c-1] < best {
				best = prev[c-1]
			}
			if c < width-1 && prev[c+1] < best {
				best = prev[c+1]
			}
			cost[a*width+c] = errAt(a, c) + best
		}
	}

	path := make([]int, length)
	last := cost[(length-1)*width : length*width]
	for c := 1; c < width; c++ {
		if last[c] < last[path[length-1]] {
			path[length-1] = c
		}
	}
	for a := length - 2; a >= 0; a-- {
		row := cost[a*width : (a+1)*width]
		next := path[a+1]
		pick := next
		if next > 0 && row[next-1] < row[pick] {
			pick = next - 1
		}
		if next < width-1 && row[next+1] < row[pick] {
			pick = next + 1
		}
		path[a] = pick
	}
	return path
}

// cutAndBlitPatch composites the candidate patch at origin into the buffer
// at position at. Inside the overlap bands a pixel takes the candidate's
// value only past the seam; the rest of the patch is copied verbatim.
func (q *Quilter) cutAndBlitPatch(origin, at image.Point, area OverlapArea, s *ErrorSurface) {
	p := q.params.patchSize
	o := q.params.overlap

	take := func(x, y int) {
		q.buf.SetNRGBA(at.X+x, at.Y+y, q.source.NRGBAAt(origin.X+x, origin.Y+y))
	}

	switch area {
	case OverlapLeft:
		seam := verticalSeam(s, o)
		for y := 0; y < p; y++ {
			for x := seam[y]; x < o; x++ {
				take(x, y)
			}
		}
		BlitRect(q.buf, q.source, Rect{X: origin.X + o, Y: origin.Y, Width: p - o, Height: p}, at.Add(image.Pt(o, 0)))

	case OverlapTop:
		seam := horizontalSeam(s, o)
		for x := 0; x < p; x++ {
			for y := seam[x]; y < o; y++ {
				take(x, y)
			}
		}
		BlitRect(q.buf, q.source, Rect{X: origin.X, Y: origin.Y + o, Width: p, Height: p - o}, at.Add(image.Pt(0, o)))

	case OverlapTopLeft:
		vseam := verticalSeam(s, o)
		hseam := horizontalSeam(s, o)

		// Corner: past both seams.
		for y := 0; y < o; y++ {
			for x := 0; x < o; x++ {
				if x >= vseam[y] && y >= hseam[x] {
					take(x, y)
				}
			}
		}
		// Left band below the corner.
		for y := o; y < p; y++ {
			for x := vseam[y]; x < o; x++ {
				take(x, y)
			}
		}
		// Top band right of the corner.
		for x := o; x < p; x++ {
			for y := hseam[x]; y < o; y++ {
				take(x, y)
			}
		}
		BlitRect(q.buf, q.source, Rect{X: origin.X + o, Y: origin.Y + o, Width: p - o, Height: p - o}, at.Add(image.Pt(o, o)))
	}
}
