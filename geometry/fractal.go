package geometry

import (
	"math"

	"github.com/gogpu/hyper4d/hypermath"
)

// attractorCount is the number of IFS contraction centers: the vertices of
// a regular 5-cell.
const attractorCount = 5

// attractorVertex returns one of the 5-cell vertices used as IFS attractors.
func attractorVertex(index int) hypermath.Vec4 {
	invSqrt2 := float32(1 / math.Sqrt2)
	switch index {
	case 0:
		return hypermath.Vec4{1, 1, 1, -invSqrt2}
	case 1:
		return hypermath.Vec4{1, -1, -1, -invSqrt2}
	case 2:
		return hypermath.Vec4{-1, 1, -1, -invSqrt2}
	case 3:
		return hypermath.Vec4{-1, -1, 1, -invSqrt2}
	case 4:
		return hypermath.Vec4{0, 0, 0, 4 * invSqrt2}
	default:
		return hypermath.Vec4{}
	}
}

// hashStep is a deterministic xorshift step for reproducible pseudo-random
// attractor selection. The same seed always yields the same fractal.
func hashStep(seed uint32) uint32 {
	seed ^= seed << 13
	seed ^= seed >> 17
	seed ^= seed << 5
	return seed
}

// generateFractal runs the chaos game over the 5-cell attractors: from a
// seed point, repeatedly pick an attractor and move halfway toward it.
// 64 warm-up iterations are discarded while the trajectory converges onto
// the attractor set, then resolution^2 points are emitted.
func generateFractal(resolution int) []hypermath.Vec4 {
	if resolution < 4 {
		resolution = 4
	}
	numPoints := resolution * resolution
	const warmUp = 64
	const contraction = 0.5

	out := make([]hypermath.Vec4, 0, numPoints)
	current := hypermath.Vec4{}
	seed := uint32(0xDEADBEEF)

	for i := 0; i < warmUp; i++ {
		seed = hashStep(seed)
		current = hypermath.Lerp(current, attractorVertex(int(seed%attractorCount)), contraction)
	}
	for i := 0; i < numPoints; i++ {
		seed = hashStep(seed)
		current = hypermath.Lerp(current, attractorVertex(int(seed%attractorCount)), contraction)
		out = append(out, current)
	}
	return out
}

// GenerateFractalSubdivision builds the same attractor fractal
// deterministically: seed with the 5-cell vertices and subdivide midpoints
// recursively. Each level multiplies the point count by 5; depth is capped
// at 6 to bound memory.
func GenerateFractalSubdivision(depth int) []hypermath.Vec4 {
	if depth < 0 {
		depth = 0
	}
	if depth > 6 {
		depth = 6
	}

	current := make([]hypermath.Vec4, 0, attractorCount)
	for i := 0; i < attractorCount; i++ {
		current = append(current, attractorVertex(i))
	}

	for d := 0; d < depth; d++ {
		next := make([]hypermath.Vec4, 0, len(current)*attractorCount)
		for _, p := range current {
			for a := 0; a < attractorCount; a++ {
				next = append(next, hypermath.Lerp(p, attractorVertex(a), 0.5))
			}
		}
		current = next
	}
	return current
}
