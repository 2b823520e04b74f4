// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/hyper4d/geometry"
	"github.com/gogpu/hyper4d/render"
	"github.com/gogpu/hyper4d/uniform"
)

// drawParamsSize is the byte size of the per-draw uniform block, padded
// to 16 bytes.
const drawParamsSize = 16

// gpuWaitTimeout bounds the completion poll after submit.
const gpuWaitTimeout = 5 * time.Second

// copyPitchAlignment is the BytesPerRow alignment WebGPU (and DX12)
// require for texture-to-buffer copies.
const copyPitchAlignment = 256

// readbackPlan describes one frame's texture-to-staging copy: the
// aligned row pitch, the staging size it implies, and the barrier pair
// bracketing the copy.
type readbackPlan struct {
	bytesPerRow        uint32
	alignedBytesPerRow uint32
	stagingSize        uint64
	preCopy            hal.TextureUsageTransition
	postCopy           hal.TextureUsageTransition
}

func newReadbackPlan(width, height uint32) readbackPlan {
	bytesPerRow := width * 4
	aligned := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	return readbackPlan{
		bytesPerRow:        bytesPerRow,
		alignedBytesPerRow: aligned,
		stagingSize:        uint64(aligned) * uint64(height),
		preCopy: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
		postCopy: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}
}

// stripRows copies the image out of the aligned staging layout into the
// tightly packed destination, dropping per-row padding.
func (p readbackPlan) stripRows(dst, src []byte, height uint32) {
	if p.alignedBytesPerRow == p.bytesPerRow {
		copy(dst, src)
		return
	}
	for row := uint32(0); row < height; row++ {
		srcOff := int(row) * int(p.alignedBytesPerRow)
		dstOff := int(row) * int(p.bytesPerRow)
		copy(dst[dstOff:dstOff+int(p.bytesPerRow)], src[srcOff:srcOff+int(p.bytesPerRow)])
	}
}

// quadCorners expands one point into two triangles. The corner doubles
// as the sprite-space coordinate the fragment shader tests against the
// unit disc.
var quadCorners = [6][2]float32{
	{-1, -1}, {1, -1}, {1, 1},
	{-1, -1}, {1, 1}, {-1, 1},
}

// vertexStride is 4 position floats plus 2 corner floats.
const vertexStride = 6 * 4

// halProvider is the shape a DeviceHandle must satisfy to expose raw
// HAL objects.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// vertexBufferEntry is one expanded, uploaded geometry.
type vertexBufferEntry struct {
	buf         hal.Buffer
	vertexCount uint32
}

// Executor is the wgpu command-buffer executor.
type Executor struct {
	render.StateMachine

	device   hal.Device
	queue    hal.Queue
	registry *render.ResourceRegistry

	target *render.PixmapTarget
	width  uint32
	height uint32

	shader        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipeline      hal.RenderPipeline

	uniformBuf hal.Buffer
	drawBuf    hal.Buffer
	bindGroup  hal.BindGroup

	colorTex  hal.Texture
	colorView hal.TextureView

	// vertexBufs caches expanded quad buffers per geometry handle.
	// Dropped wholesale on Suspend; rebuilt lazily from registry
	// descriptors after Resume.
	vertexBufs map[render.Handle]vertexBufferEntry
}

// New returns an uninitialized GPU executor.
func New() *Executor {
	return &Executor{
		registry:   render.NewResourceRegistry(),
		vertexBufs: make(map[render.Handle]vertexBufferEntry),
	}
}

// Name returns "gpu".
func (e *Executor) Name() string { return render.BackendGPU }

// Registry exposes the executor's resource registry.
func (e *Executor) Registry() *render.ResourceRegistry { return e.registry }

// Init acquires the host device, compiles the shader and builds the
// pipeline. Any failure wraps ErrBackendInit so the session can fall
// back to the software backend.
func (e *Executor) Init(target render.RenderTarget) error {
	if err := e.CheckInit(); err != nil {
		return err
	}
	if err := e.initOnce(target); err != nil {
		return fmt.Errorf("%w: %w", render.ErrBackendInit, err)
	}
	e.SetState(render.StateInitialized)
	return nil
}

func (e *Executor) initOnce(target render.RenderTarget) error {
	p := currentProvider()
	if p == nil {
		return fmt.Errorf("gpu: no device provider configured")
	}
	hp, ok := p.(halProvider)
	if !ok {
		return fmt.Errorf("gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("gpu: provider HalQueue is not hal.Queue")
	}
	e.device = device
	e.queue = queue

	pt, ok := target.(*render.PixmapTarget)
	if !ok {
		return fmt.Errorf("gpu: unsupported target %T", target)
	}
	e.target = pt
	e.width = uint32(pt.Width())
	e.height = uint32(pt.Height())

	if err := e.createPipeline(); err != nil {
		return err
	}
	if err := e.createFrameResources(); err != nil {
		return err
	}
	return nil
}

// createPipeline compiles the schema-derived shader and builds the
// render pipeline with premultiplied alpha blending.
func (e *Executor) createPipeline() error {
	source := BuildWGSL(uniform.Default())

	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return fmt.Errorf("compile shader: %w", err)
	}
	spirv := make([]uint32, len(spirvBytes)/4)
	for i := range spirv {
		spirv[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}

	shader, err := e.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "hyper4d_points",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	e.shader = shader

	uniformLayout, err := e.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "hyper4d_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	e.uniformLayout = uniformLayout

	pipeLayout, err := e.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "hyper4d_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{e.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	e.pipeLayout = pipeLayout

	premul := gputypes.BlendStatePremultiplied()
	pipeline, err := e.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "hyper4d_points_pipeline",
		Layout: e.pipeLayout,
		Vertex: hal.VertexState{
			Module:     e.shader,
			EntryPoint: "vs_main",
			Buffers: []gputypes.VertexBufferLayout{
				{
					ArrayStride: vertexStride,
					StepMode:    gputypes.VertexStepModeVertex,
					Attributes: []gputypes.VertexAttribute{
						{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},
						{Format: gputypes.VertexFormatFloat32x2, Offset: 16, ShaderLocation: 1},
					},
				},
			},
		},
		Fragment: &hal.FragmentState{
			Module:     e.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatRGBA8Unorm,
					Blend:     &premul,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}
	e.pipeline = pipeline
	return nil
}

// createFrameResources builds the uniform buffers, bind group and the
// offscreen color texture.
func (e *Executor) createFrameResources() error {
	uniformSize := uint64(uniform.Default().Std140Size())
	uniformBuf, err := e.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "hyper4d_uniforms",
		Size:  uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	e.uniformBuf = uniformBuf

	drawBuf, err := e.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "hyper4d_draw_params",
		Size:  drawParamsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create draw params buffer: %w", err)
	}
	e.drawBuf = drawBuf

	bindGroup, err := e.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "hyper4d_bind",
		Layout: e.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: e.uniformBuf.NativeHandle(), Offset: 0, Size: uniformSize,
			}},
			{Binding: 1, Resource: gputypes.BufferBinding{
				Buffer: e.drawBuf.NativeHandle(), Offset: 0, Size: drawParamsSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	e.bindGroup = bindGroup

	colorTex, err := e.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "hyper4d_color",
		Size:          hal.Extent3D{Width: e.width, Height: e.height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create color texture: %w", err)
	}
	e.colorTex = colorTex

	colorView, err := e.device.CreateTextureView(colorTex, &hal.TextureViewDescriptor{
		Label:  "hyper4d_color_view",
		Format: gputypes.TextureFormatRGBA8Unorm,
	})
	if err != nil {
		return fmt.Errorf("create color view: %w", err)
	}
	e.colorView = colorView
	return nil
}

// expandQuads builds the interleaved position+corner vertex stream from
// a 4D point set.
func expandQuads(positions []float32) []byte {
	pointCount := len(positions) / 4
	out := make([]byte, pointCount*6*vertexStride)
	o := 0
	put := func(v float32) {
		binary.LittleEndian.PutUint32(out[o:], math.Float32bits(v))
		o += 4
	}
	for i := 0; i < pointCount; i++ {
		p := positions[i*4 : i*4+4]
		for _, c := range quadCorners {
			put(p[0])
			put(p[1])
			put(p[2])
			put(p[3])
			put(c[0])
			put(c[1])
		}
	}
	return out
}

// vertexBufferFor returns the uploaded quad buffer for a geometry
// handle, creating it from the registry descriptor on first use.
func (e *Executor) vertexBufferFor(h render.Handle) (vertexBufferEntry, error) {
	if entry, ok := e.vertexBufs[h]; ok {
		return entry, nil
	}
	native := e.registry.Native(h)
	buf, ok := native.(*geometry.Buffers)
	if !ok {
		return vertexBufferEntry{}, fmt.Errorf("gpu: handle %s is not geometry", h)
	}

	data := expandQuads(buf.Floats())
	vb, err := e.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "hyper4d_verts_" + buf.Descriptor.Name(),
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return vertexBufferEntry{}, fmt.Errorf("create vertex buffer: %w", err)
	}
	e.queue.WriteBuffer(vb, 0, data)

	entry := vertexBufferEntry{buf: vb, vertexCount: uint32(buf.VertexCount() * 6)}
	e.vertexBufs[h] = entry
	return entry, nil
}

// Submit executes one frame's commands: uniform upload, a render pass
// accumulating every draw into the color texture, then readback into
// the pixmap target.
func (e *Executor) Submit(cb *render.CommandBuffer) error {
	if err := e.CheckSubmit(); err != nil {
		return err
	}
	e.SetState(render.StateActive)
	defer e.SetState(render.StateInitialized)

	type draw struct {
		verts vertexBufferEntry
		size  float32
	}
	var (
		draws      []draw
		bound      vertexBufferEntry
		haveBound  bool
		clearColor gputypes.Color
	)

	for _, cmd := range cb.Commands() {
		switch c := cmd.(type) {
		case render.UploadUniformsCmd:
			e.queue.WriteBuffer(e.uniformBuf, 0, c.Std140)
		case render.BindGeometryCmd:
			entry, err := e.vertexBufferFor(c.Handle)
			if err != nil {
				return err
			}
			bound = entry
			haveBound = true
		case render.SetLayerTargetCmd:
			// Layers accumulate in a single pass; draw order already
			// follows layer z order in the recorded stream.
		case render.ClearCmd:
			clearColor = gputypes.Color{
				R: float64(c.Color.R) / 255,
				G: float64(c.Color.G) / 255,
				B: float64(c.Color.B) / 255,
				A: float64(c.Color.A) / 255,
			}
		case render.DrawPointsCmd:
			if !haveBound {
				return fmt.Errorf("gpu: draw without bound geometry")
			}
			draws = append(draws, draw{verts: bound, size: c.PointSize})
		}
	}

	if len(draws) > 0 {
		// One DrawParams block per frame; all draws in a frame share
		// the point size of the first.
		params := make([]byte, drawParamsSize)
		binary.LittleEndian.PutUint32(params, math.Float32bits(draws[0].size))
		e.queue.WriteBuffer(e.drawBuf, 0, params)
	}

	encoder, err := e.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "hyper4d_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("hyper4d_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "hyper4d_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       e.colorView,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: clearColor,
			},
		},
	})
	rp.SetPipeline(e.pipeline)
	rp.SetBindGroup(0, e.bindGroup, nil)
	for _, d := range draws {
		rp.SetVertexBuffer(0, d.verts.buf, 0)
		rp.Draw(d.verts.vertexCount, 1, 0, 0)
	}
	rp.End()

	// CopyTextureToBuffer requires the color texture in CopySrc state.
	plan := newReadbackPlan(e.width, e.height)
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: e.colorTex,
		Usage:   plan.preCopy,
	}})

	staging, err := e.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "hyper4d_staging",
		Size:  plan.stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer e.device.DestroyBuffer(staging)

	encoder.CopyTextureToBuffer(e.colorTex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: plan.alignedBytesPerRow, RowsPerImage: e.height},
		TextureBase:  hal.ImageCopyTexture{Texture: e.colorTex, MipLevel: 0},
		Size:         hal.Extent3D{Width: e.width, Height: e.height, DepthOrArrayLayers: 1},
	}})

	// Return the texture to RenderAttachment so the next frame's pass
	// and pre-copy barrier start from the state they declare.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: e.colorTex,
		Usage:   plan.postCopy,
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer e.device.FreeCommandBuffer(cmdBuf)

	subIdx, err := e.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if err := e.waitSubmission(subIdx); err != nil {
		return err
	}

	mapping, err := e.device.MapBuffer(staging, 0, plan.stagingSize)
	if err != nil {
		return fmt.Errorf("map staging buffer: %w", err)
	}
	src := unsafe.Slice((*byte)(mapping.Ptr), plan.stagingSize)
	plan.stripRows(e.target.Pixels(), src, e.height)
	if err := e.device.UnmapBuffer(staging); err != nil {
		return fmt.Errorf("unmap staging buffer: %w", err)
	}
	return nil
}

// waitSubmission blocks until the queue reports the submission index
// complete, bounded by gpuWaitTimeout.
func (e *Executor) waitSubmission(subIdx uint64) error {
	if err := e.device.WaitIdle(); err != nil {
		return fmt.Errorf("wait idle: %w", err)
	}
	deadline := time.Now().Add(gpuWaitTimeout)
	for e.queue.PollCompleted() < subIdx {
		if time.Now().After(deadline) {
			return fmt.Errorf("gpu: submission %d incomplete after %s", subIdx, gpuWaitTimeout)
		}
		time.Sleep(time.Millisecond)
	}
	return nil
}

// Suspend drops the native objects lost with the context and marks the
// registry stale.
func (e *Executor) Suspend() error {
	if err := e.CheckSuspend(); err != nil {
		return err
	}
	e.registry.MarkAllStale()
	e.vertexBufs = make(map[render.Handle]vertexBufferEntry)
	e.SetState(render.StateSuspended)
	return nil
}

// Resume rebuilds the pipeline and frame resources; vertex buffers are
// rebuilt lazily from registry descriptors on their next bind.
func (e *Executor) Resume() error {
	if err := e.CheckResume(); err != nil {
		return err
	}
	if err := e.createPipeline(); err != nil {
		return fmt.Errorf("%w: %w", render.ErrBackendInit, err)
	}
	if err := e.createFrameResources(); err != nil {
		return fmt.Errorf("%w: %w", render.ErrBackendInit, err)
	}
	if err := e.registry.RebuildStale(func(desc any) (any, error) {
		return desc, nil
	}); err != nil {
		return err
	}
	e.SetState(render.StateInitialized)
	return nil
}

// Dispose destroys all GPU objects. Idempotent.
func (e *Executor) Dispose() {
	if e.State() == render.StateDisposed {
		return
	}
	if e.device != nil {
		for _, entry := range e.vertexBufs {
			e.device.DestroyBuffer(entry.buf)
		}
		if e.bindGroup != nil {
			e.device.DestroyBindGroup(e.bindGroup)
		}
		if e.uniformBuf != nil {
			e.device.DestroyBuffer(e.uniformBuf)
		}
		if e.drawBuf != nil {
			e.device.DestroyBuffer(e.drawBuf)
		}
		if e.colorView != nil {
			e.device.DestroyTextureView(e.colorView)
		}
		if e.colorTex != nil {
			e.device.DestroyTexture(e.colorTex)
		}
	}
	e.vertexBufs = nil
	e.registry.DisposeAll()
	e.SetState(render.StateDisposed)
}
