package synthesis

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// DistanceFunc measures how different two colors are.
//
// Implementations must be total, non-negative, symmetric and return zero for
// equal inputs. The alpha channel is ignored.
type DistanceFunc func(a, b color.NRGBA) float64

// L1 returns the sum of the per-channel absolute differences.
func L1(a, b color.NRGBA) float64 {
	return absDiff(a.R, b.R) + absDiff(a.G, b.G) + absDiff(a.B, b.B)
}

// L2 returns the Euclidean norm of the per-channel differences.
func L2(a, b color.NRGBA) float64 {
	dr := absDiff(a.R, b.R)
	dg := absDiff(a.G, b.G)
	db := absDiff(a.B, b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// DistanceByName resolves a distance function from its name ("l1" or "l2",
// case-insensitive). An empty name selects L2.
func DistanceByName(name string) (DistanceFunc, error) {
	switch strings.ToLower(name) {
	case "l1":
		return L1, nil
	case "l2", "":
		return L2, nil
	default:
		return nil, fmt.Errorf("%w: unknown distance %q (want l1 or l2)", ErrInvalidArguments, name)
	}
}

func absDiff(a, b uint8) float64 {
	if a > b {
		return float64(a - b)
	}
	return float64(b - a)
}
