package geometry

import (
	"math"

	"github.com/gogpu/hyper4d/hypermath"
)

// edge is a pair of indices into a vertex slice.
type edge struct{ a, b int }

// subdivideEdges interpolates resolution points along every edge, producing
// a wireframe point set.
func subdivideEdges(verts []hypermath.Vec4, edges []edge, resolution int) []hypermath.Vec4 {
	out := make([]hypermath.Vec4, 0, len(edges)*resolution)
	for _, e := range edges {
		a, b := verts[e.a], verts[e.b]
		for i := 0; i < resolution; i++ {
			t := float32(i) / float32(resolution-1)
			out = append(out, hypermath.Lerp(a, b, t))
		}
	}
	return out
}

// tetrahedronVertices returns the 4 vertices of a regular tetrahedron
// centered at the origin, embedded in the w=0 hyperplane.
func tetrahedronVertices() []hypermath.Vec4 {
	h := float32(math.Sqrt(2.0 / 3.0))
	r := float32(1.0 / math.Sqrt(3.0))
	yOff := -h / 4

	s3 := float32(math.Sqrt(3)) / 2
	return []hypermath.Vec4{
		{0, 3*h/4 + yOff, 0, 0},
		{0, yOff, r, 0},
		{-r * s3, yOff, -r / 2, 0},
		{r * s3, yOff, -r / 2, 0},
	}
}

// generateTetrahedron subdivides the 6 edges of a regular tetrahedron.
func generateTetrahedron(resolution int) []hypermath.Vec4 {
	edges := []edge{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	return subdivideEdges(tetrahedronVertices(), edges, resolution)
}

// hypercubeVertices returns the 16 vertices of a tesseract, at every
// combination of (+-1, +-1, +-1, +-1).
func hypercubeVertices() []hypermath.Vec4 {
	verts := make([]hypermath.Vec4, 0, 16)
	for i := 0; i < 16; i++ {
		v := hypermath.Vec4{-1, -1, -1, -1}
		for bit := 0; bit < 4; bit++ {
			if i&(1<<bit) != 0 {
				v[bit] = 1
			}
		}
		verts = append(verts, v)
	}
	return verts
}

// hypercubeEdges returns the 32 edges of a tesseract. Two vertices share an
// edge iff they differ in exactly one coordinate.
func hypercubeEdges() []edge {
	edges := make([]edge, 0, 32)
	for i := 0; i < 16; i++ {
		for bit := 0; bit < 4; bit++ {
			if j := i ^ (1 << bit); j > i {
				edges = append(edges, edge{i, j})
			}
		}
	}
	return edges
}

// generateHypercube subdivides the 32 edges of a tesseract.
func generateHypercube(resolution int) []hypermath.Vec4 {
	return subdivideEdges(hypercubeVertices(), hypercubeEdges(), resolution)
}

// crossPolytopeVertices returns the 8 vertices of the 16-cell: the
// axis-aligned unit positions and their negations.
func crossPolytopeVertices() []hypermath.Vec4 {
	verts := make([]hypermath.Vec4, 0, 8)
	for axis := 0; axis < 4; axis++ {
		var plus, minus hypermath.Vec4
		plus[axis] = 1
		minus[axis] = -1
		verts = append(verts, plus, minus)
	}
	return verts
}

// generateCrystal builds the 16-cell wireframe (24 edges: every pair of
// non-antipodal vertices) plus the 16 dual-lattice vertices at
// (+-0.5, +-0.5, +-0.5, +-0.5).
func generateCrystal(resolution int) []hypermath.Vec4 {
	verts := crossPolytopeVertices()

	edges := make([]edge, 0, 24)
	for i := 0; i < 8; i++ {
		for j := i + 1; j < 8; j++ {
			// Antipodal pairs (+e, -e on the same axis) are adjacent in the
			// vertex list and share no edge.
			if j == i+1 && i%2 == 0 {
				continue
			}
			edges = append(edges, edge{i, j})
		}
	}

	out := subdivideEdges(verts, edges, resolution)

	for i := 0; i < 16; i++ {
		v := hypermath.Vec4{-0.5, -0.5, -0.5, -0.5}
		for bit := 0; bit < 4; bit++ {
			if i&(1<<bit) != 0 {
				v[bit] = 0.5
			}
		}
		out = append(out, v)
	}
	return out
}
