// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package uniform

import (
	"fmt"
	"math"
)

// Frame is one complete parameter block, stored as the flat float32
// layout described by its schema. The zero value is not usable; call
// NewFrame.
type Frame struct {
	schema *Schema
	data   []float32
}

// NewFrame returns a zeroed frame over the default schema.
func NewFrame() *Frame {
	return NewFrameWithSchema(Default())
}

// NewFrameWithSchema returns a zeroed frame over the given schema.
func NewFrameWithSchema(s *Schema) *Frame {
	return &Frame{schema: s, data: make([]float32, s.FlatLen())}
}

// Schema returns the schema the frame was built against.
func (f *Frame) Schema() *Schema { return f.schema }

// Clone returns an independent copy of the frame.
func (f *Frame) Clone() *Frame {
	out := &Frame{schema: f.schema, data: make([]float32, len(f.data))}
	copy(out.data, f.data)
	return out
}

// Set writes a field by name. The value slice length must match the
// field's component count; NaN or Inf components are rejected.
func (f *Frame) Set(name string, value ...float32) error {
	field, ok := f.schema.Lookup(name)
	if !ok {
		return fmt.Errorf("uniform: unknown field %q", name)
	}
	if len(value) != field.Kind.Components() {
		return fmt.Errorf("uniform: field %q takes %d components, got %d",
			name, field.Kind.Components(), len(value))
	}
	for _, v := range value {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return fmt.Errorf("uniform: field %q: non-finite component %v", name, v)
		}
	}
	copy(f.data[field.flatOffset:], value)
	return nil
}

// Get reads a field by name, returning its components.
func (f *Frame) Get(name string) ([]float32, error) {
	field, ok := f.schema.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("uniform: unknown field %q", name)
	}
	n := field.Kind.Components()
	out := make([]float32, n)
	copy(out, f.data[field.flatOffset:field.flatOffset+n])
	return out, nil
}

// Float reads a single-component field; it panics on unknown names, for
// use with schema constants known at compile time.
func (f *Frame) Float(name string) float32 {
	field, ok := f.schema.Lookup(name)
	if !ok {
		panic("uniform: unknown field " + name)
	}
	return f.data[field.flatOffset]
}

// SetTime stores the animation clock in seconds.
func (f *Frame) SetTime(t float32) { _ = f.Set("time", t) }

// SetResolution stores the output surface size in pixels.
func (f *Frame) SetResolution(w, h float32) { _ = f.Set("resolution", w, h) }

// SetRotation stores the six rotation-plane angles in radians, in the
// order XY, XZ, YZ, XW, YW, ZW.
func (f *Frame) SetRotation(angles [6]float32) error {
	names := [6]string{"rotXY", "rotXZ", "rotYZ", "rotXW", "rotYW", "rotZW"}
	for i, name := range names {
		if err := f.Set(name, angles[i]); err != nil {
			return err
		}
	}
	return nil
}

// Rotation reads the six rotation-plane angles.
func (f *Frame) Rotation() [6]float32 {
	return [6]float32{
		f.Float("rotXY"), f.Float("rotXZ"), f.Float("rotYZ"),
		f.Float("rotXW"), f.Float("rotYW"), f.Float("rotZW"),
	}
}

// SetLayer stores one compositor layer's parameters.
func (f *Frame) SetLayer(layer int, scale, opacity float32, tint [3]float32, blendMode float32) error {
	if layer < 0 || layer >= LayerCount {
		return fmt.Errorf("uniform: layer %d out of range [0,%d)", layer, LayerCount)
	}
	if err := f.Set(LayerField(layer, "scale"), scale); err != nil {
		return err
	}
	if err := f.Set(LayerField(layer, "opacity"), opacity); err != nil {
		return err
	}
	if err := f.Set(LayerField(layer, "colorTint"), tint[0], tint[1], tint[2]); err != nil {
		return err
	}
	return f.Set(LayerField(layer, "blendMode"), blendMode)
}
