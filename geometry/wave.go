package geometry

import (
	"math"

	"github.com/gogpu/hyper4d/hypermath"
)

// waveSource is one component of the interference field.
type waveSource struct {
	freq   float64
	ampY   float64
	ampW   float64
	phaseX float64
	phaseZ float64
}

// waveSources are the three interference components: a primary wave and
// two higher-frequency overtones at offset phases.
var waveSources = [3]waveSource{
	{1.0, 0.5, 0.3, 0, 0},
	{2.3, 0.25, 0.15, math.Pi * 0.5, math.Pi * 0.25},
	{3.7, 0.125, 0.1, math.Pi * 0.75, math.Pi * 0.6},
}

// generateWave builds a resolution x resolution grid in the XZ plane,
// centered at the origin, with Y displaced by the sum of the wave sources
// and W by their cross-interference pattern.
func generateWave(resolution int) []hypermath.Vec4 {
	if resolution < 4 {
		resolution = 4
	}
	const gridExtent = 2.0
	step := (2 * gridExtent) / float64(resolution-1)

	out := make([]hypermath.Vec4, 0, resolution*resolution)
	for ix := 0; ix < resolution; ix++ {
		x := -gridExtent + float64(ix)*step

		for iz := 0; iz < resolution; iz++ {
			z := -gridExtent + float64(iz)*step

			var y, w float64
			for _, ws := range waveSources {
				phX := ws.freq*x*math.Pi + ws.phaseX
				phZ := ws.freq*z*math.Pi + ws.phaseZ
				y += ws.ampY * math.Sin(phX) * math.Cos(phZ)
				w += ws.ampW * math.Cos(phX+phZ)
			}

			out = append(out, hypermath.Vec4{float32(x), float32(y), float32(z), float32(w)})
		}
	}
	return out
}
