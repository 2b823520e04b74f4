package geometry

import (
	"math"

	"github.com/gogpu/hyper4d/hypermath"
)

// WarpHypersphereVertex projects a 4D point onto the 3-sphere of the given
// radius. A degenerate point at the origin maps to (radius, 0, 0, 0).
func WarpHypersphereVertex(p hypermath.Vec4, radius float32) hypermath.Vec4 {
	length := p.Len()
	if length < 1e-8 {
		return hypermath.Vec4{radius, 0, 0, 0}
	}
	return p.Mul(radius / length)
}

// pentatopeVertex returns one of the 5 vertices of a regular 5-cell with
// all pairwise distances equal.
func pentatopeVertex(index int) hypermath.Vec4 {
	t := float32(math.Sqrt(2.0 / 3.0))
	u := float32(1 / math.Sqrt(3.0))
	v := float32(1 / math.Sqrt(15.0))

	switch index {
	case 0:
		return hypermath.Vec4{t, 0, 0, -v}
	case 1:
		return hypermath.Vec4{-u, u, 0, -v}
	case 2:
		return hypermath.Vec4{-u, -u, 0, -v}
	case 3:
		return hypermath.Vec4{0, 0, t, -v}
	case 4:
		return hypermath.Vec4{0, 0, 0, 4 * v}
	default:
		return hypermath.Vec4{}
	}
}

// WarpHypertetraVertex pulls a point toward the nearest 5-cell vertex,
// with strength 1/(1+2d) for distance d, producing a tetrahedral
// clustering of the base shape.
func WarpHypertetraVertex(p hypermath.Vec4) hypermath.Vec4 {
	nearestIdx := 0
	nearestDistSq := hypermath.DistanceSq(p, pentatopeVertex(0))
	for i := 1; i < 5; i++ {
		if d := hypermath.DistanceSq(p, pentatopeVertex(i)); d < nearestDistSq {
			nearestDistSq = d
			nearestIdx = i
		}
	}

	dist := float32(math.Sqrt(float64(nearestDistSq)))
	strength := 1 / (1 + dist*2)
	return hypermath.Lerp(p, pentatopeVertex(nearestIdx), strength)
}

// WarpToPentatopeEdges projects a point onto the nearest of the 10 edges of
// the regular 5-cell, producing a skeletal wireframe (exported for
// collaborators; not addressable through the 24-variant index).
func WarpToPentatopeEdges(p hypermath.Vec4) hypermath.Vec4 {
	edgePairs := [10][2]int{
		{0, 1}, {0, 2}, {0, 3}, {0, 4},
		{1, 2}, {1, 3}, {1, 4},
		{2, 3}, {2, 4},
		{3, 4},
	}

	best := p
	bestDist := float32(math.MaxFloat32)

	for _, pair := range edgePairs {
		a := pentatopeVertex(pair[0])
		b := pentatopeVertex(pair[1])
		e := b.Sub(a)

		lenSq := e.Dot(e)
		if lenSq < 1e-10 {
			continue
		}
		t := p.Sub(a).Dot(e) / lenSq
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}

		proj := hypermath.Lerp(a, b, t)
		if d := hypermath.DistanceSq(p, proj); d < bestDist {
			bestDist = d
			best = proj
		}
	}
	return best
}

// InverseStereographic maps a 3D point (x,y,z of p; w ignored) onto the
// unit 3-sphere via inverse stereographic projection from the north pole.
func InverseStereographic(p hypermath.Vec4) hypermath.Vec4 {
	r2 := p.X()*p.X() + p.Y()*p.Y() + p.Z()*p.Z()
	denom := 1 + r2
	return hypermath.Vec4{
		2 * p.X() / denom,
		2 * p.Y() / denom,
		2 * p.Z() / denom,
		(r2 - 1) / denom,
	}
}

// HopfProject maps a point on S3 to its Hopf base point on S2 (x,y,z) plus
// the fiber angle (w).
func HopfProject(p hypermath.Vec4) hypermath.Vec4 {
	n := p.Normalize()
	return hypermath.Vec4{
		2 * (n.X()*n.Z() + n.Y()*n.W()),
		2 * (n.Y()*n.Z() - n.X()*n.W()),
		n.X()*n.X() + n.Y()*n.Y() - n.Z()*n.Z() - n.W()*n.W(),
		float32(math.Atan2(float64(n.Y()), float64(n.X())) - math.Atan2(float64(n.W()), float64(n.Z()))),
	}
}

// applyWarp maps every vertex of a base point set through the given core
// warp, in place.
func applyWarp(warp CoreWarp, verts []hypermath.Vec4) []hypermath.Vec4 {
	switch warp {
	case WarpHypersphere:
		for i, v := range verts {
			verts[i] = WarpHypersphereVertex(v, 1)
		}
	case WarpHypertetra:
		for i, v := range verts {
			verts[i] = WarpHypertetraVertex(v)
		}
	}
	return verts
}
