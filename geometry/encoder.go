package geometry

import (
	"sync"

	"github.com/gogpu/hyper4d/hypermath"
)

const (
	// MinResolution and MaxResolution bound the tessellation density a
	// caller may request. Out-of-range values clamp, they do not error.
	MinResolution = 2
	MaxResolution = 256

	// DefaultResolution is used when a caller passes zero.
	DefaultResolution = 32
)

// Buffers holds the generated point set for one geometry variant at one
// resolution. The positions are raw 4D model-space coordinates; rotation
// and projection happen downstream.
type Buffers struct {
	Descriptor Descriptor
	Resolution int
	Positions  []hypermath.Vec4

	floats []float32
}

// VertexCount returns the number of 4D points in the buffer.
func (b *Buffers) VertexCount() int { return len(b.Positions) }

// Floats returns the positions flattened to xyzw float32 quads, suitable
// for vertex buffer upload. The slice is built lazily and cached; callers
// must not mutate it.
func (b *Buffers) Floats() []float32 {
	if b.floats == nil {
		b.floats = make([]float32, 0, len(b.Positions)*4)
		for _, p := range b.Positions {
			b.floats = append(b.floats, p[0], p[1], p[2], p[3])
		}
	}
	return b.floats
}

type cacheKey struct {
	index      int
	resolution int
}

// Encoder resolves 24-variant geometry indices into generated point sets,
// memoizing the result per (index, resolution) pair. It is safe for
// concurrent use.
type Encoder struct {
	mu    sync.Mutex
	cache map[cacheKey]*Buffers
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{cache: make(map[cacheKey]*Buffers)}
}

// ClampResolution maps an arbitrary requested resolution into the
// supported range. Zero selects DefaultResolution.
func ClampResolution(resolution int) int {
	if resolution == 0 {
		return DefaultResolution
	}
	if resolution < MinResolution {
		return MinResolution
	}
	if resolution > MaxResolution {
		return MaxResolution
	}
	return resolution
}

// Resolve returns the point set for the given geometry index at the given
// resolution, generating it on first use. An out-of-range index returns
// ErrInvalidGeometryIndex and leaves the cache untouched.
func (e *Encoder) Resolve(index, resolution int) (*Buffers, error) {
	desc, err := Decode(index)
	if err != nil {
		return nil, err
	}
	resolution = ClampResolution(resolution)

	key := cacheKey{index: index, resolution: resolution}

	e.mu.Lock()
	defer e.mu.Unlock()

	if buf, ok := e.cache[key]; ok {
		return buf, nil
	}

	buf := &Buffers{
		Descriptor: desc,
		Resolution: resolution,
		Positions:  generate(desc, resolution),
	}
	e.cache[key] = buf
	return buf, nil
}

// Invalidate drops any cached buffers for the given index, across all
// resolutions. Unknown indices are a no-op.
func (e *Encoder) Invalidate(index int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for key := range e.cache {
		if key.index == index {
			delete(e.cache, key)
		}
	}
}

// Reset clears the whole cache.
func (e *Encoder) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache = make(map[cacheKey]*Buffers)
}

// CachedCount reports how many buffers are currently memoized.
func (e *Encoder) CachedCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.cache)
}

// generate builds the base point set and applies the descriptor's warp.
func generate(desc Descriptor, resolution int) []hypermath.Vec4 {
	var verts []hypermath.Vec4
	switch desc.Base {
	case BaseTetrahedron:
		verts = generateTetrahedron(resolution)
	case BaseHypercube:
		verts = generateHypercube(resolution)
	case BaseSphere:
		verts = generateSphere(resolution)
	case BaseTorus:
		verts = generateTorus(resolution)
	case BaseKleinBottle:
		verts = generateKleinBottle(resolution)
	case BaseFractal:
		verts = generateFractal(resolution)
	case BaseWave:
		verts = generateWave(resolution)
	case BaseCrystal:
		verts = generateCrystal(resolution)
	}
	return applyWarp(desc.Warp, verts)
}

// Generate is the cache-free entry point: it resolves an index and
// resolution to a fresh point set each call.
func Generate(index, resolution int) (*Buffers, error) {
	desc, err := Decode(index)
	if err != nil {
		return nil, err
	}
	resolution = ClampResolution(resolution)
	return &Buffers{
		Descriptor: desc,
		Resolution: resolution,
		Positions:  generate(desc, resolution),
	}, nil
}
