// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// LayerID identifies one of the five fixed compositor layers, in
// back-to-front z order.
type LayerID uint8

const (
	LayerBackground LayerID = iota
	LayerShadow
	LayerContent
	LayerHighlight
	LayerAccent

	// CompositorLayerCount is the fixed number of layers.
	CompositorLayerCount
)

var layerNames = [...]string{
	LayerBackground: "background",
	LayerShadow:     "shadow",
	LayerContent:    "content",
	LayerHighlight:  "highlight",
	LayerAccent:     "accent",
}

// String returns the layer name.
func (l LayerID) String() string {
	if int(l) < len(layerNames) {
		return layerNames[l]
	}
	return "unknown"
}

// BlendMode selects how a layer combines with the pixels beneath it.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota
	BlendAdditive
	BlendMultiply
	BlendScreen

	blendModeCount
)

var blendModeNames = [...]string{
	BlendNormal:   "normal",
	BlendAdditive: "additive",
	BlendMultiply: "multiply",
	BlendScreen:   "screen",
}

// String returns the blend mode name.
func (m BlendMode) String() string {
	if int(m) < len(blendModeNames) {
		return blendModeNames[m]
	}
	return "unknown"
}

// LayerParams controls one layer's contribution to the composite.
type LayerParams struct {
	// Scale resamples the layer before blending; 1 is no-op. Values
	// are clamped to [0.25, 4].
	Scale float32

	// Opacity multiplies the layer's alpha; clamped to [0, 1].
	Opacity float32

	// Tint multiplies the layer's RGB channels; each clamped to [0, 1].
	Tint [3]float32

	// Blend selects the compositing operator.
	Blend BlendMode
}

// DefaultLayerParams returns a pass-through configuration.
func DefaultLayerParams() LayerParams {
	return LayerParams{Scale: 1, Opacity: 1, Tint: [3]float32{1, 1, 1}, Blend: BlendNormal}
}

// LayerCompositor owns the five layer surfaces and flattens them into a
// single RGBA output in fixed z order. When a frame fails, the output of
// the last successful Composite is retained so the caller always has a
// valid image.
type LayerCompositor struct {
	width, height int
	layers        [CompositorLayerCount]*image.RGBA
	params        [CompositorLayerCount]LayerParams
	output        *image.RGBA
	lastValid     *image.RGBA
	scaleBuf      *image.RGBA
}

// NewLayerCompositor creates a compositor with all layers sized to the
// given dimensions and pass-through parameters.
func NewLayerCompositor(width, height int) *LayerCompositor {
	c := &LayerCompositor{
		width:  width,
		height: height,
		output: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
	for i := range c.layers {
		c.layers[i] = image.NewRGBA(image.Rect(0, 0, width, height))
		c.params[i] = DefaultLayerParams()
	}
	return c
}

// Layer returns the drawing surface for the given layer.
func (c *LayerCompositor) Layer(id LayerID) *image.RGBA {
	if int(id) >= len(c.layers) {
		return nil
	}
	return c.layers[id]
}

// SetParams updates one layer's compositing parameters.
func (c *LayerCompositor) SetParams(id LayerID, p LayerParams) {
	if int(id) >= len(c.params) {
		return
	}
	c.params[id] = p
}

// ClearLayer zeroes one layer's pixels.
func (c *LayerCompositor) ClearLayer(id LayerID) {
	if img := c.Layer(id); img != nil {
		for i := range img.Pix {
			img.Pix[i] = 0
		}
	}
}

// Composite flattens the layers back-to-front into the output image and
// records it as the last valid frame.
func (c *LayerCompositor) Composite() *image.RGBA {
	for i := range c.output.Pix {
		c.output.Pix[i] = 0
	}
	for id := LayerID(0); id < CompositorLayerCount; id++ {
		c.blendLayer(id)
	}

	if c.lastValid == nil {
		c.lastValid = image.NewRGBA(c.output.Rect)
	}
	copy(c.lastValid.Pix, c.output.Pix)
	return c.output
}

// LastValid returns the output of the most recent successful Composite,
// or nil if none has completed yet.
func (c *LayerCompositor) LastValid() *image.RGBA { return c.lastValid }

func clampF(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// blendLayer applies scale, tint, opacity and the blend operator for one
// layer onto the output.
func (c *LayerCompositor) blendLayer(id LayerID) {
	src := c.layers[id]
	p := c.params[id]

	opacity := clampF(p.Opacity, 0, 1)
	if opacity == 0 {
		return
	}
	scale := clampF(p.Scale, 0.25, 4)
	if scale != 1 {
		src = c.scaled(src, scale)
	}

	tintR := clampF(p.Tint[0], 0, 1)
	tintG := clampF(p.Tint[1], 0, 1)
	tintB := clampF(p.Tint[2], 0, 1)

	dst := c.output.Pix
	for i := 0; i < len(dst); i += 4 {
		sr := float32(src.Pix[i+0]) * tintR
		sg := float32(src.Pix[i+1]) * tintG
		sb := float32(src.Pix[i+2]) * tintB
		sa := float32(src.Pix[i+3]) * opacity
		if sa == 0 && p.Blend != BlendMultiply {
			continue
		}

		dr := float32(dst[i+0])
		dg := float32(dst[i+1])
		db := float32(dst[i+2])
		da := float32(dst[i+3])

		var r, g, b, a float32
		switch p.Blend {
		case BlendAdditive:
			r, g, b = dr+sr*opacity, dg+sg*opacity, db+sb*opacity
			a = da + sa
		case BlendMultiply:
			// Multiply against white where the layer is transparent so
			// empty regions leave the destination unchanged.
			fa := sa / 255
			r = dr * ((1-fa)*255 + fa*sr) / 255
			g = dg * ((1-fa)*255 + fa*sg) / 255
			b = db * ((1-fa)*255 + fa*sb) / 255
			a = da
		case BlendScreen:
			fa := sa / 255
			r = 255 - (255-dr)*(255-sr*fa)/255
			g = 255 - (255-dg)*(255-sg*fa)/255
			b = 255 - (255-db)*(255-sb*fa)/255
			a = da + sa - da*sa/255
		default: // BlendNormal, source-over
			fa := sa / 255
			r = sr*fa + dr*(1-fa)
			g = sg*fa + dg*(1-fa)
			b = sb*fa + db*(1-fa)
			a = sa + da*(1-fa)
		}

		dst[i+0] = clampByte(r)
		dst[i+1] = clampByte(g)
		dst[i+2] = clampByte(b)
		dst[i+3] = clampByte(a)
	}
}

func clampByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// scaled resamples the layer about its center by the given factor,
// returning a full-size surface. Bilinear filtering keeps point sprites
// smooth at fractional scales.
func (c *LayerCompositor) scaled(src *image.RGBA, scale float32) *image.RGBA {
	if c.scaleBuf == nil {
		c.scaleBuf = image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	}
	for i := range c.scaleBuf.Pix {
		c.scaleBuf.Pix[i] = 0
	}

	sw := float32(c.width) * scale
	sh := float32(c.height) * scale
	x0 := (float32(c.width) - sw) / 2
	y0 := (float32(c.height) - sh) / 2
	dstRect := image.Rect(int(x0), int(y0), int(x0+sw), int(y0+sh))

	xdraw.BiLinear.Scale(c.scaleBuf, dstRect, src, src.Rect, xdraw.Over, nil)
	return c.scaleBuf
}
