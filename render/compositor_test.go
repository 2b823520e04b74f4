// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image/color"
	"testing"
	"time"
)

func setPixel(c *LayerCompositor, id LayerID, x, y int, col color.RGBA) {
	c.Layer(id).SetRGBA(x, y, col)
}

func TestCompositorNormalBlendZOrder(t *testing.T) {
	c := NewLayerCompositor(4, 4)
	setPixel(c, LayerBackground, 1, 1, color.RGBA{255, 0, 0, 255})
	setPixel(c, LayerContent, 1, 1, color.RGBA{0, 255, 0, 255})

	out := c.Composite()
	got := out.RGBAAt(1, 1)
	// Content sits above background, so an opaque content pixel wins.
	if got.G != 255 || got.R != 0 {
		t.Errorf("pixel = %v, want opaque green", got)
	}
}

func TestCompositorOpacity(t *testing.T) {
	c := NewLayerCompositor(2, 2)
	setPixel(c, LayerContent, 0, 0, color.RGBA{255, 255, 255, 255})
	c.SetParams(LayerContent, LayerParams{Scale: 1, Opacity: 0.5, Tint: [3]float32{1, 1, 1}, Blend: BlendNormal})

	out := c.Composite()
	got := out.RGBAAt(0, 0)
	if got.R < 120 || got.R > 135 {
		t.Errorf("half-opacity white R = %d, want about 128", got.R)
	}
}

func TestCompositorTint(t *testing.T) {
	c := NewLayerCompositor(2, 2)
	setPixel(c, LayerContent, 0, 0, color.RGBA{255, 255, 255, 255})
	c.SetParams(LayerContent, LayerParams{Scale: 1, Opacity: 1, Tint: [3]float32{1, 0, 0}, Blend: BlendNormal})

	out := c.Composite()
	got := out.RGBAAt(0, 0)
	if got.R != 255 || got.G != 0 || got.B != 0 {
		t.Errorf("red-tinted white = %v, want pure red", got)
	}
}

func TestCompositorAdditive(t *testing.T) {
	c := NewLayerCompositor(2, 2)
	setPixel(c, LayerBackground, 0, 0, color.RGBA{100, 0, 0, 255})
	setPixel(c, LayerContent, 0, 0, color.RGBA{100, 0, 0, 255})
	c.SetParams(LayerContent, LayerParams{Scale: 1, Opacity: 1, Tint: [3]float32{1, 1, 1}, Blend: BlendAdditive})

	out := c.Composite()
	if got := out.RGBAAt(0, 0).R; got != 200 {
		t.Errorf("additive R = %d, want 200", got)
	}
}

func TestCompositorAdditiveSaturates(t *testing.T) {
	c := NewLayerCompositor(2, 2)
	setPixel(c, LayerBackground, 0, 0, color.RGBA{200, 0, 0, 255})
	setPixel(c, LayerContent, 0, 0, color.RGBA{200, 0, 0, 255})
	c.SetParams(LayerContent, LayerParams{Scale: 1, Opacity: 1, Tint: [3]float32{1, 1, 1}, Blend: BlendAdditive})

	out := c.Composite()
	if got := out.RGBAAt(0, 0).R; got != 255 {
		t.Errorf("saturated additive R = %d, want 255", got)
	}
}

func TestCompositorMultiplyLeavesTransparentRegions(t *testing.T) {
	c := NewLayerCompositor(2, 2)
	setPixel(c, LayerBackground, 0, 0, color.RGBA{200, 100, 50, 255})
	c.SetParams(LayerShadow, LayerParams{Scale: 1, Opacity: 1, Tint: [3]float32{1, 1, 1}, Blend: BlendMultiply})

	out := c.Composite()
	got := out.RGBAAt(0, 0)
	if got.R != 200 || got.G != 100 || got.B != 50 {
		t.Errorf("multiply over empty shadow = %v, want background unchanged", got)
	}
}

func TestCompositorScreen(t *testing.T) {
	c := NewLayerCompositor(2, 2)
	setPixel(c, LayerBackground, 0, 0, color.RGBA{128, 128, 128, 255})
	setPixel(c, LayerHighlight, 0, 0, color.RGBA{128, 128, 128, 255})
	c.SetParams(LayerHighlight, LayerParams{Scale: 1, Opacity: 1, Tint: [3]float32{1, 1, 1}, Blend: BlendScreen})

	out := c.Composite()
	got := out.RGBAAt(0, 0).R
	// screen(128,128) = 255 - 127*127/255 = 192
	if got < 190 || got > 194 {
		t.Errorf("screen R = %d, want about 192", got)
	}
}

func TestCompositorLastValidRetained(t *testing.T) {
	c := NewLayerCompositor(2, 2)
	if c.LastValid() != nil {
		t.Fatal("LastValid before first composite: want nil")
	}
	setPixel(c, LayerContent, 0, 0, color.RGBA{0, 0, 255, 255})
	c.Composite()

	last := c.LastValid()
	if last == nil {
		t.Fatal("LastValid after composite: want image")
	}
	if got := last.RGBAAt(0, 0); got.B != 255 {
		t.Errorf("retained pixel = %v, want blue", got)
	}

	// Mutating the live output must not corrupt the retained copy.
	c.Layer(LayerContent).SetRGBA(0, 0, color.RGBA{})
	if got := last.RGBAAt(0, 0); got.B != 255 {
		t.Errorf("retained pixel after layer mutation = %v, want blue", got)
	}
}

func TestCompositorClearLayer(t *testing.T) {
	c := NewLayerCompositor(2, 2)
	setPixel(c, LayerAccent, 1, 1, color.RGBA{255, 255, 255, 255})
	c.ClearLayer(LayerAccent)
	out := c.Composite()
	if got := out.RGBAAt(1, 1); got.A != 0 {
		t.Errorf("cleared layer pixel = %v, want transparent", got)
	}
}

func TestLayerAndBlendNames(t *testing.T) {
	if got := LayerContent.String(); got != "content" {
		t.Errorf("LayerContent = %q", got)
	}
	if got := BlendScreen.String(); got != "screen" {
		t.Errorf("BlendScreen = %q", got)
	}
	if got := LayerID(9).String(); got != "unknown" {
		t.Errorf("LayerID(9) = %q", got)
	}
}

func TestTelemetryCounters(t *testing.T) {
	var tel Telemetry
	tel.RecordFrame(10 * time.Millisecond)
	tel.RecordFrame(20 * time.Millisecond)
	tel.RecordSubmit(5 * time.Millisecond)
	tel.RecordFailedFrame()
	tel.RecordFallback()
	tel.SetResourceBytes(4096)

	s := tel.Snapshot()
	if s.Frames != 2 || s.FailedFrames != 1 || s.Fallbacks != 1 {
		t.Errorf("counters = %+v", s)
	}
	if s.AvgFrameTime() != 15*time.Millisecond {
		t.Errorf("avg frame time = %v, want 15ms", s.AvgFrameTime())
	}
	if s.ResourceBytes != 4096 {
		t.Errorf("resource bytes = %d, want 4096", s.ResourceBytes)
	}
}
