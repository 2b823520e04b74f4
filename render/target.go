// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
)

// RenderTarget defines where rendering output goes.
//
// Targets may support CPU access (Pixels), GPU access, or both; a backend
// chooses the access method it needs and errors on targets it cannot serve.
type RenderTarget interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the pixel format of the target.
	Format() gputypes.TextureFormat

	// Pixels returns direct access to pixel data, or nil for GPU-only
	// targets. For RGBA format, each pixel is 4 bytes: R, G, B, A.
	Pixels() []byte

	// Stride returns the number of bytes per row.
	Stride() int
}

// PixmapTarget is a CPU-backed render target over *image.RGBA. It is the
// target the software backend writes to and the compositor reads from.
type PixmapTarget struct {
	img *image.RGBA
}

// NewPixmapTarget creates a new CPU-backed render target.
func NewPixmapTarget(width, height int) *PixmapTarget {
	return &PixmapTarget{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// NewPixmapTargetFromImage wraps an existing *image.RGBA without copying.
func NewPixmapTargetFromImage(img *image.RGBA) *PixmapTarget {
	return &PixmapTarget{img: img}
}

// Width returns the target width in pixels.
func (t *PixmapTarget) Width() int { return t.img.Bounds().Dx() }

// Height returns the target height in pixels.
func (t *PixmapTarget) Height() int { return t.img.Bounds().Dy() }

// Format returns the pixel format (RGBA8).
func (t *PixmapTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Pixels returns the raw RGBA pixel data.
func (t *PixmapTarget) Pixels() []byte { return t.img.Pix }

// Stride returns the number of bytes per row.
func (t *PixmapTarget) Stride() int { return t.img.Stride }

// Image returns the underlying image.
func (t *PixmapTarget) Image() *image.RGBA { return t.img }

// Clear fills the whole target with the given color.
func (t *PixmapTarget) Clear(c color.RGBA) {
	pix := t.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i+0] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
}
