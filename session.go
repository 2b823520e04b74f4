// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package hyper4d

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/gogpu/hyper4d/geometry"
	"github.com/gogpu/hyper4d/hypermath"
	"github.com/gogpu/hyper4d/render"
	"github.com/gogpu/hyper4d/uniform"
)

// Session errors.
var (
	// ErrSessionClosed is returned by every operation after Close.
	ErrSessionClosed = errors.New("hyper4d: session closed")

	// ErrProjectionNotSet is returned by RenderFrame before the first
	// SetProjection call. There is no implicit projection distance.
	ErrProjectionNotSet = errors.New("hyper4d: projection not configured")

	// ErrNoGeometry is returned by RenderFrame before the first
	// successful SetGeometryIndex call.
	ErrNoGeometry = errors.New("hyper4d: no geometry selected")

	// ErrNoBackend is returned when no rendering backend could be
	// initialized.
	ErrNoBackend = errors.New("hyper4d: no rendering backend available")

	// ErrParameterVetoed is returned by SetParameter when an
	// interceptor rejects the value.
	ErrParameterVetoed = errors.New("hyper4d: parameter vetoed")
)

// renormalizeInterval is the frame count between rotor renormalizations.
const renormalizeInterval = 256

// ParameterInterceptor inspects a parameter write before it reaches the
// uniform frame. It may rewrite the value by returning a different
// slice, or veto the write by returning an error. Interceptors run in
// registration order; the first error aborts the write.
type ParameterInterceptor func(name string, value []float32) ([]float32, error)

// Option configures a session at construction time.
type Option func(*RenderSession)

// WithResolution sets the geometry tessellation resolution. Values are
// clamped to the supported range; zero selects the default.
func WithResolution(res int) Option {
	return func(s *RenderSession) { s.resolution = geometry.ClampResolution(res) }
}

// WithPointSize sets the splat size in pixels (default 2).
func WithPointSize(size float32) Option {
	return func(s *RenderSession) { s.pointSize = size }
}

// WithFallbackHandler registers a callback invoked at most once per
// session when the preferred backend fails and the session switches to
// the fallback.
func WithFallbackHandler(fn func(render.BackendFallbackEvent)) Option {
	return func(s *RenderSession) { s.onFallback = fn }
}

// RenderSession owns one rendering surface and everything needed to
// draw frames onto it: the uniform frame, the geometry cache, the
// backend executor and the accumulated orientation.
//
// A session is not safe for concurrent use.
type RenderSession struct {
	width, height int
	resolution    int
	pointSize     float32
	onFallback    func(render.BackendFallbackEvent)

	frame   *uniform.Frame
	encoder *geometry.Encoder

	target   *render.PixmapTarget
	selector *render.Selector
	executor render.Executor

	interceptors []ParameterInterceptor
	telemetry    render.Telemetry

	// Geometry binding. A failed SetGeometryIndex leaves these intact.
	geometryIndex  int
	geometryBufs   *geometry.Buffers
	geometryHandle render.Handle
	haveGeometry   bool

	// orientation accumulates the frame-to-frame rotation so sequential
	// application never re-derives from raw angles; drift is corrected
	// every renormalizeInterval frames.
	orientation hypermath.Rotor
	lastAngles  hypermath.Angles
	frameCount  int

	projectionSet bool
	closed        bool

	cmdBuf *render.CommandBuffer
}

// NewSession creates a session rendering at the given pixel size and
// selects the best available backend.
func NewSession(width, height int, opts ...Option) (*RenderSession, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("hyper4d: invalid dimensions %dx%d", width, height)
	}

	s := &RenderSession{
		width:       width,
		height:      height,
		resolution:  geometry.DefaultResolution,
		pointSize:   2,
		frame:       uniform.NewFrame(),
		encoder:     geometry.NewEncoder(),
		target:      render.NewPixmapTarget(width, height),
		orientation: hypermath.RotorIdentity(),
		cmdBuf:      render.NewCommandBuffer(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.selector = render.NewSelector(func(ev render.BackendFallbackEvent) {
		s.telemetry.RecordFallback()
		if s.onFallback != nil {
			s.onFallback(ev)
		}
	})
	s.executor = s.selector.Select(s.target)
	if s.executor == nil {
		return nil, ErrNoBackend
	}

	s.applyDefaults()
	return s, nil
}

// applyDefaults seeds the frame with usable values: full intensity,
// pass-through layers, unit multipliers.
func (s *RenderSession) applyDefaults() {
	s.frame.SetResolution(float32(s.width), float32(s.height))
	_ = s.frame.Set("intensity", 1)
	_ = s.frame.Set("saturation", 0.8)
	_ = s.frame.Set("speed", 1)
	_ = s.frame.Set("speedMult", 1)
	_ = s.frame.Set("densityMult", 1)
	_ = s.frame.Set("gridDensity", 8)
	for layer := 0; layer < uniform.LayerCount; layer++ {
		_ = s.frame.SetLayer(layer, 1, 1, [3]float32{1, 1, 1}, float32(render.BlendNormal))
	}
}

// Backend returns the active backend name.
func (s *RenderSession) Backend() string {
	if s.executor == nil {
		return ""
	}
	return s.executor.Name()
}

// DetectBackends returns the registered backend names in priority
// order, without initializing any of them.
func DetectBackends() []string {
	return render.AvailableBackends()
}

// RegisterParameterInterceptor appends an interceptor to the chain.
func (s *RenderSession) RegisterParameterInterceptor(fn ParameterInterceptor) {
	s.interceptors = append(s.interceptors, fn)
}

// SetParameter validates a named parameter against the uniform schema
// and stores it. Interceptors run first and may rewrite or veto the
// value. Unknown names and non-finite values are rejected.
func (s *RenderSession) SetParameter(name string, value ...float32) error {
	if s.closed {
		return ErrSessionClosed
	}
	v := value
	for _, fn := range s.interceptors {
		rewritten, err := fn(name, v)
		if err != nil {
			return fmt.Errorf("%w: %q: %w", ErrParameterVetoed, name, err)
		}
		if rewritten != nil {
			v = rewritten
		}
	}
	return s.frame.Set(name, v...)
}

// Parameter reads a named parameter's current components.
func (s *RenderSession) Parameter(name string) ([]float32, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	return s.frame.Get(name)
}

// SetProjection selects the projection mode and viewer distance. The
// distance flows through the uniform frame on every subsequent frame.
func (s *RenderSession) SetProjection(mode hypermath.ProjectionMode, distance float32) error {
	if s.closed {
		return ErrSessionClosed
	}
	if err := s.frame.Set("projectionMode", float32(mode)); err != nil {
		return err
	}
	if err := s.frame.Set("projectionDistance", distance); err != nil {
		return err
	}
	s.projectionSet = true
	return nil
}

// SetGeometryIndex resolves one of the 24 geometry variants and binds
// it for rendering. An invalid index returns ErrInvalidGeometryIndex
// and leaves the previous binding untouched.
func (s *RenderSession) SetGeometryIndex(index int) error {
	if s.closed {
		return ErrSessionClosed
	}
	bufs, err := s.encoder.Resolve(index, s.resolution)
	if err != nil {
		return err
	}

	reg := s.executor.Registry()
	handle := reg.Register(render.ResourceGeometry, bufs.Descriptor.Name(), bufs, bufs,
		bufs.VertexCount()*16)
	if s.haveGeometry {
		if err := reg.Release(s.geometryHandle); err != nil {
			Logger().Warn("hyper4d: release previous geometry", "err", err)
		}
	}

	s.geometryIndex = index
	s.geometryBufs = bufs
	s.geometryHandle = handle
	s.haveGeometry = true
	return nil
}

// GeometryIndex returns the currently bound variant index.
func (s *RenderSession) GeometryIndex() int { return s.geometryIndex }

// Orientation returns the accumulated rotation rotor.
func (s *RenderSession) Orientation() hypermath.Rotor { return s.orientation }

// RenderFrame advances the clock by deltaTime seconds and renders one
// full frame, or returns a documented error leaving the last valid
// frame intact. Angle changes since the previous frame are composed
// into the session orientation incrementally.
func (s *RenderSession) RenderFrame(deltaTime float32) error {
	if s.closed {
		return ErrSessionClosed
	}
	if !s.projectionSet {
		return ErrProjectionNotSet
	}
	if !s.haveGeometry {
		return ErrNoGeometry
	}

	start := time.Now()
	if err := s.renderFrame(deltaTime); err != nil {
		s.telemetry.RecordFailedFrame()
		return err
	}
	s.telemetry.RecordFrame(time.Since(start))
	s.telemetry.SetResourceBytes(s.executor.Registry().Stats().Total())
	return nil
}

func (s *RenderSession) renderFrame(deltaTime float32) error {
	// Advance the animation clock.
	speed := s.frame.Float("speed") * s.frame.Float("speedMult")
	if err := s.frame.Set("time", s.frame.Float("time")+deltaTime*speed); err != nil {
		return err
	}

	// Fold the angle delta since the last frame into the accumulated
	// orientation.
	angles := hypermath.Angles(s.frame.Rotation())
	var delta hypermath.Angles
	for i := range delta {
		delta[i] = angles[i] - s.lastAngles[i]
	}
	step, err := hypermath.RotorFromAngles(delta)
	if err != nil {
		return err
	}
	s.orientation = step.Mul(s.orientation)
	s.lastAngles = angles

	s.frameCount++
	if s.frameCount%renormalizeInterval == 0 {
		s.orientation = s.orientation.Normalized()
	}

	if err := s.recordCommands(); err != nil {
		return err
	}

	submitStart := time.Now()
	if err := s.executor.Submit(s.cmdBuf); err != nil {
		if !s.failover(err) {
			return err
		}
		if err := s.recordCommands(); err != nil {
			return err
		}
		if err := s.executor.Submit(s.cmdBuf); err != nil {
			return err
		}
	}
	s.telemetry.RecordSubmit(time.Since(submitStart))
	return nil
}

func (s *RenderSession) recordCommands() error {
	s.cmdBuf.Reset()
	if err := s.cmdBuf.Record(render.UploadUniformsCmd{
		Flat:   s.frame.PackFlat(),
		Std140: s.frame.PackStd140(),
	}); err != nil {
		return err
	}
	if err := s.cmdBuf.Record(render.SetLayerTargetCmd{Layer: render.LayerContent}); err != nil {
		return err
	}
	if err := s.cmdBuf.Record(render.ClearCmd{Color: color.RGBA{A: 255}}); err != nil {
		return err
	}
	if err := s.cmdBuf.Record(render.BindGeometryCmd{
		Handle:      s.geometryHandle,
		VertexCount: s.geometryBufs.VertexCount(),
	}); err != nil {
		return err
	}
	pointSize := s.pointSize * s.frame.Float("densityMult")
	return s.cmdBuf.Record(render.DrawPointsCmd{PointSize: pointSize})
}

// failover retires the active executor after a runtime failure and
// switches to the next backend in the chain, rebinding the geometry in
// the replacement's registry. Lifecycle errors do not trigger a switch.
func (s *RenderSession) failover(cause error) bool {
	if errors.Is(cause, render.ErrExecutorSuspended) ||
		errors.Is(cause, render.ErrExecutorDisposed) ||
		errors.Is(cause, render.ErrNotInitialized) {
		return false
	}

	s.selector.MarkFailed(s.executor.Name(), cause)
	s.executor.Dispose()

	next := s.selector.Select(s.target)
	if next == nil {
		return false
	}
	s.executor = next

	bufs := s.geometryBufs
	s.geometryHandle = next.Registry().Register(render.ResourceGeometry,
		bufs.Descriptor.Name(), bufs, bufs, bufs.VertexCount()*16)
	return true
}

// LastFrame returns the target image holding the most recent
// successfully rendered frame.
func (s *RenderSession) LastFrame() *image.RGBA { return s.target.Image() }

// Snapshot captures the full parameter state plus the geometry index as
// YAML. Restoring it with ApplySnapshot reproduces the frame values
// bit for bit.
func (s *RenderSession) Snapshot() ([]byte, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	return uniform.TakeSnapshot(s.frame, s.geometryIndex).Encode()
}

// ApplySnapshot restores a snapshot produced by Snapshot, including the
// geometry selection.
func (s *RenderSession) ApplySnapshot(data []byte) error {
	if s.closed {
		return ErrSessionClosed
	}
	snap, err := uniform.DecodeSnapshot(data)
	if err != nil {
		return err
	}
	if err := snap.Apply(s.frame); err != nil {
		return err
	}
	if err := s.SetGeometryIndex(snap.GeometryIndex); err != nil {
		return err
	}
	// The restored angles are an absolute state, not a delta to fold in.
	s.lastAngles = hypermath.Angles(s.frame.Rotation())
	s.projectionSet = true
	return nil
}

// Suspend reacts to context loss: backend resources are marked stale
// and frames are refused until Resume. The last rendered frame remains
// readable.
func (s *RenderSession) Suspend() error {
	if s.closed {
		return ErrSessionClosed
	}
	return s.executor.Suspend()
}

// Resume rebuilds backend resources after context loss.
func (s *RenderSession) Resume() error {
	if s.closed {
		return ErrSessionClosed
	}
	return s.executor.Resume()
}

// Telemetry returns a copy of the session counters.
func (s *RenderSession) Telemetry() render.TelemetrySnapshot {
	return s.telemetry.Snapshot()
}

// Close disposes the executor and releases all resources. Idempotent.
func (s *RenderSession) Close() {
	if s.closed {
		return
	}
	s.executor.Dispose()
	s.closed = true
}
