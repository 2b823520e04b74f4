// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package softraster is the CPU rendering backend. It executes command
// buffers by rotating and projecting the bound 4D geometry on the CPU,
// splatting the projected points into compositor layers with additive
// accumulation, and flattening the layers into the target pixmap.
//
// It registers itself as the "softraster" backend and serves as the
// fallback when the GPU backend cannot initialize.
package softraster

import (
	"fmt"
	"math"

	"github.com/gogpu/hyper4d/geometry"
	"github.com/gogpu/hyper4d/hypermath"
	"github.com/gogpu/hyper4d/render"
	"github.com/gogpu/hyper4d/uniform"
)

func init() {
	render.RegisterBackend(render.BackendSoftraster, func() render.Executor {
		return New()
	})
}

// Executor is the CPU command-buffer executor.
type Executor struct {
	render.StateMachine

	target     *render.PixmapTarget
	compositor *render.LayerCompositor
	registry   *render.ResourceRegistry

	// Per-frame state, reset on each Submit.
	frame     *uniform.Frame
	geometry  *geometry.Buffers
	layer     render.LayerID
	projected []hypermath.Vec3
	haveFrame bool
}

// New returns an uninitialized software executor.
func New() *Executor {
	return &Executor{
		registry: render.NewResourceRegistry(),
		frame:    uniform.NewFrame(),
	}
}

// Name returns "softraster".
func (e *Executor) Name() string { return render.BackendSoftraster }

// Init binds the executor to a CPU-accessible target.
func (e *Executor) Init(target render.RenderTarget) error {
	if err := e.CheckInit(); err != nil {
		return err
	}
	pt, ok := target.(*render.PixmapTarget)
	if !ok {
		return fmt.Errorf("%w: softraster requires a CPU pixmap target, got %T",
			render.ErrBackendInit, target)
	}
	e.target = pt
	e.compositor = render.NewLayerCompositor(pt.Width(), pt.Height())
	e.SetState(render.StateInitialized)
	return nil
}

// Registry exposes the executor's resource registry.
func (e *Executor) Registry() *render.ResourceRegistry { return e.registry }

// Submit executes one frame's commands and flattens the result into the
// target.
func (e *Executor) Submit(cb *render.CommandBuffer) error {
	if err := e.CheckSubmit(); err != nil {
		return err
	}
	e.SetState(render.StateActive)
	defer e.SetState(render.StateInitialized)

	e.geometry = nil
	e.layer = render.LayerContent
	e.haveFrame = false

	for _, cmd := range cb.Commands() {
		if err := e.execute(cmd); err != nil {
			return err
		}
	}

	if e.haveFrame {
		e.applyLayerParams()
	}
	out := e.compositor.Composite()
	copy(e.target.Pixels(), out.Pix)
	return nil
}

func (e *Executor) execute(cmd render.Command) error {
	switch c := cmd.(type) {
	case render.UploadUniformsCmd:
		if err := e.frame.UnpackFlat(c.Flat); err != nil {
			return err
		}
		e.haveFrame = true
	case render.BindGeometryCmd:
		native := e.registry.Native(c.Handle)
		buf, ok := native.(*geometry.Buffers)
		if !ok {
			return fmt.Errorf("softraster: handle %s is not geometry", c.Handle)
		}
		e.geometry = buf
	case render.SetLayerTargetCmd:
		e.layer = c.Layer
	case render.ClearCmd:
		e.compositor.ClearLayer(e.layer)
		if c.Color.A != 0 {
			img := e.compositor.Layer(e.layer)
			for i := 0; i < len(img.Pix); i += 4 {
				img.Pix[i+0] = c.Color.R
				img.Pix[i+1] = c.Color.G
				img.Pix[i+2] = c.Color.B
				img.Pix[i+3] = c.Color.A
			}
		}
	case render.DrawPointsCmd:
		return e.drawPoints(c)
	default:
		return fmt.Errorf("softraster: unhandled command %v", cmd.Type())
	}
	return nil
}

// applyLayerParams pushes the frame's per-layer fields into the
// compositor.
func (e *Executor) applyLayerParams() {
	for i := 0; i < uniform.LayerCount && i < int(render.CompositorLayerCount); i++ {
		tint, err := e.frame.Get(uniform.LayerField(i, "colorTint"))
		if err != nil {
			continue
		}
		e.compositor.SetParams(render.LayerID(i), render.LayerParams{
			Scale:   e.frame.Float(uniform.LayerField(i, "scale")),
			Opacity: e.frame.Float(uniform.LayerField(i, "opacity")),
			Tint:    [3]float32{tint[0], tint[1], tint[2]},
			Blend:   render.BlendMode(e.frame.Float(uniform.LayerField(i, "blendMode"))),
		})
	}
}

// drawPoints rotates, projects and splats the bound geometry.
func (e *Executor) drawPoints(cmd render.DrawPointsCmd) error {
	if e.geometry == nil || !e.haveFrame {
		return fmt.Errorf("softraster: draw without bound geometry or uniforms")
	}

	rotor, err := hypermath.RotorFromAngles(hypermath.Angles(e.frame.Rotation()))
	if err != nil {
		return err
	}

	mode := hypermath.ProjectionMode(e.frame.Float("projectionMode"))
	distance := e.frame.Float("projectionDistance")

	positions := e.geometry.Positions
	if cap(e.projected) < len(positions) {
		e.projected = make([]hypermath.Vec3, 0, len(positions))
	}
	rotated := make([]hypermath.Vec4, len(positions))
	for i, p := range positions {
		rotated[i] = rotor.Apply(p)
	}
	e.projected = hypermath.ProjectBatch(e.projected[:0], rotated, mode, distance)

	img := e.compositor.Layer(e.layer)
	if img == nil {
		return fmt.Errorf("softraster: invalid layer %d", e.layer)
	}

	w, h := e.target.Width(), e.target.Height()
	half := float32(math.Min(float64(w), float64(h))) / 2
	cx, cy := float32(w)/2, float32(h)/2
	viewScale := half * 0.7

	r8, g8, b8 := pointColor(e.frame)
	size := int(cmd.PointSize)
	if size < 1 {
		size = 1
	}

	for _, p := range e.projected {
		sx := int(cx + p.X()*viewScale)
		sy := int(cy - p.Y()*viewScale)
		splat(img.Pix, w, h, sx, sy, size, r8, g8, b8)
	}
	return nil
}

// pointColor derives the splat color from the frame's hue, saturation
// and intensity fields.
func pointColor(f *uniform.Frame) (uint8, uint8, uint8) {
	r, g, b := hsvToRGB(f.Float("hue"), f.Float("saturation"), f.Float("intensity"))
	return floatByte(r), floatByte(g), floatByte(b)
}

func floatByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// hsvToRGB converts hue in [0,1) turns, saturation and value in [0,1].
func hsvToRGB(h, s, v float32) (float32, float32, float32) {
	h = h - float32(math.Floor(float64(h)))
	i := int(h * 6)
	f := h*6 - float32(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)
	switch i % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

// splat accumulates a size x size additive square at (sx, sy), clipped
// to the image bounds.
func splat(pix []byte, w, h, sx, sy, size int, r, g, b uint8) {
	r0 := sy - size/2
	c0 := sx - size/2
	for y := r0; y < r0+size; y++ {
		if y < 0 || y >= h {
			continue
		}
		for x := c0; x < c0+size; x++ {
			if x < 0 || x >= w {
				continue
			}
			i := (y*w + x) * 4
			pix[i+0] = addByte(pix[i+0], r)
			pix[i+1] = addByte(pix[i+1], g)
			pix[i+2] = addByte(pix[i+2], b)
			pix[i+3] = 255
		}
	}
}

func addByte(a, b uint8) uint8 {
	s := int(a) + int(b)
	if s > 255 {
		return 255
	}
	return uint8(s)
}

// Suspend marks the registry stale. The pixmap survives, so the last
// composite remains readable while suspended.
func (e *Executor) Suspend() error {
	if err := e.CheckSuspend(); err != nil {
		return err
	}
	e.registry.MarkAllStale()
	e.SetState(render.StateSuspended)
	return nil
}

// Resume restores the registry. CPU geometry descriptors are the native
// objects themselves, so rebuilding is a pass-through.
func (e *Executor) Resume() error {
	if err := e.CheckResume(); err != nil {
		return err
	}
	if err := e.registry.RebuildStale(func(desc any) (any, error) {
		return desc, nil
	}); err != nil {
		return err
	}
	e.SetState(render.StateInitialized)
	return nil
}

// Dispose releases everything. Idempotent.
func (e *Executor) Dispose() {
	if e.State() == render.StateDisposed {
		return
	}
	e.registry.DisposeAll()
	e.target = nil
	e.compositor = nil
	e.SetState(render.StateDisposed)
}
