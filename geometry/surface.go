package geometry

import (
	"math"

	"github.com/gogpu/hyper4d/hypermath"
)

const twoPi = 2 * math.Pi

// generateSphere samples the unit 3-sphere on a Hopf-coordinate grid:
//
//	x = cos(psi) cos(theta)
//	y = cos(psi) sin(theta)
//	z = sin(psi) cos(phi)
//	w = sin(psi) sin(phi)
//
// with psi in [0, pi/2], theta and phi in [0, 2pi).
func generateSphere(resolution int) []hypermath.Vec4 {
	if resolution < 4 {
		resolution = 4
	}
	psiSteps := resolution / 2
	if psiSteps < 2 {
		psiSteps = 2
	}

	out := make([]hypermath.Vec4, 0, psiSteps*resolution*resolution)
	for ip := 0; ip < psiSteps; ip++ {
		psi := (math.Pi / 2) * float64(ip) / float64(psiSteps-1)
		cosPsi, sinPsi := math.Cos(psi), math.Sin(psi)

		for it := 0; it < resolution; it++ {
			theta := twoPi * float64(it) / float64(resolution)
			cosTheta, sinTheta := math.Cos(theta), math.Sin(theta)

			for iphi := 0; iphi < resolution; iphi++ {
				phi := twoPi * float64(iphi) / float64(resolution)
				out = append(out, hypermath.Vec4{
					float32(cosPsi * cosTheta),
					float32(cosPsi * sinTheta),
					float32(sinPsi * math.Cos(phi)),
					float32(sinPsi * math.Sin(phi)),
				})
			}
		}
	}
	return out
}

// generateTorus samples the Clifford torus S1 x S1 with equal radii
// 1/sqrt(2), which places it on the unit 3-sphere.
func generateTorus(resolution int) []hypermath.Vec4 {
	if resolution < 4 {
		resolution = 4
	}
	r := float32(1 / math.Sqrt2)

	out := make([]hypermath.Vec4, 0, resolution*resolution)
	for iu := 0; iu < resolution; iu++ {
		u := twoPi * float64(iu) / float64(resolution)
		cosU, sinU := float32(math.Cos(u)), float32(math.Sin(u))

		for iv := 0; iv < resolution; iv++ {
			v := twoPi * float64(iv) / float64(resolution)
			out = append(out, hypermath.Vec4{
				r * cosU,
				r * sinU,
				r * float32(math.Cos(v)),
				r * float32(math.Sin(v)),
			})
		}
	}
	return out
}

// generateKleinBottle samples the figure-eight Klein bottle immersion
// lifted into R4, where it embeds without self-intersection:
//
//	x = (a + b cos v) cos u
//	y = (a + b cos v) sin u
//	z = b sin v cos(u/2)
//	w = b sin v sin(u/2)
func generateKleinBottle(resolution int) []hypermath.Vec4 {
	if resolution < 4 {
		resolution = 4
	}
	const a, b = 2.0, 1.0

	out := make([]hypermath.Vec4, 0, resolution*resolution)
	for iu := 0; iu < resolution; iu++ {
		u := twoPi * float64(iu) / float64(resolution)
		cosU, sinU := math.Cos(u), math.Sin(u)
		cosHalfU, sinHalfU := math.Cos(u/2), math.Sin(u/2)

		for iv := 0; iv < resolution; iv++ {
			v := twoPi * float64(iv) / float64(resolution)
			cosV, sinV := math.Cos(v), math.Sin(v)
			r := a + b*cosV

			out = append(out, hypermath.Vec4{
				float32(r * cosU),
				float32(r * sinU),
				float32(b * sinV * cosHalfU),
				float32(b * sinV * sinHalfU),
			})
		}
	}
	return out
}

// GenerateHopfFibration samples the 3-sphere along Hopf fibers: a spiral of
// base points on S2, each traced along its great-circle fiber. Useful for
// visualizing the toroidal structure of S3 (not addressable through the
// 24-variant index; exported for collaborators).
func GenerateHopfFibration(numFibers, pointsPerFiber int) []hypermath.Vec4 {
	if numFibers < 4 {
		numFibers = 4
	}
	if pointsPerFiber < 8 {
		pointsPerFiber = 8
	}

	sqrtFibers := int(math.Sqrt(float64(numFibers)))
	if sqrtFibers < 2 {
		sqrtFibers = 2
	}

	out := make([]hypermath.Vec4, 0, sqrtFibers*sqrtFibers*pointsPerFiber)
	for fi := 0; fi < sqrtFibers; fi++ {
		baseTheta := math.Pi * float64(fi) / float64(sqrtFibers-1)
		cosHalf, sinHalf := math.Cos(baseTheta/2), math.Sin(baseTheta/2)

		for fj := 0; fj < sqrtFibers; fj++ {
			basePhi := twoPi * float64(fj) / float64(sqrtFibers)

			for p := 0; p < pointsPerFiber; p++ {
				t := twoPi * float64(p) / float64(pointsPerFiber)
				out = append(out, hypermath.Vec4{
					float32(cosHalf * math.Cos(t)),
					float32(cosHalf * math.Sin(t)),
					float32(sinHalf * math.Cos(basePhi+t)),
					float32(sinHalf * math.Sin(basePhi+t)),
				})
			}
		}
	}
	return out
}
