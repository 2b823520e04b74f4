// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package uniform

import (
	"encoding/binary"
	"fmt"
	"math"
)

func errFlatLength(got, want int) error {
	return fmt.Errorf("uniform: flat data has %d components, schema wants %d", got, want)
}

// PackFlat serializes the frame as its tightly packed float32 layout,
// one component after another with no padding. This is the layout the
// software backend reads directly.
func (f *Frame) PackFlat() []float32 {
	out := make([]float32, len(f.data))
	copy(out, f.data)
	return out
}

// PackStd140 serializes the frame as a std140 uniform block, little
// endian, padded per the WGSL/std140 alignment rules: scalars on 4
// bytes, vec2 on 8, vec3 and vec4 on 16, with the whole block rounded
// up to 16 bytes. The result matches WGSLStruct field for field.
func (f *Frame) PackStd140() []byte {
	out := make([]byte, f.schema.Std140Size())
	offset := 0
	for _, field := range f.schema.Fields() {
		offset = alignUp(offset, field.Kind.std140Align())
		n := field.Kind.Components()
		for c := 0; c < n; c++ {
			binary.LittleEndian.PutUint32(out[offset:],
				math.Float32bits(f.data[field.flatOffset+c]))
			offset += 4
		}
	}
	return out
}

// UnpackFlat restores a frame from a PackFlat slice. The length must
// match the schema exactly.
func (f *Frame) UnpackFlat(data []float32) error {
	if len(data) != len(f.data) {
		return errFlatLength(len(data), len(f.data))
	}
	copy(f.data, data)
	return nil
}
