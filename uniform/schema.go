// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package uniform defines the shared parameter block consumed by every
// render backend. A single Schema describes the fields once; the flat
// packer, the std140 packer, and the WGSL struct generator are all
// derived from it, so the CPU and GPU views can never drift apart.
package uniform

import "fmt"

// Kind is the scalar/vector class of a schema field.
type Kind uint8

const (
	KindFloat Kind = iota
	KindVec2
	KindVec3
	KindVec4
)

var kindNames = [...]string{
	KindFloat: "f32",
	KindVec2:  "vec2<f32>",
	KindVec3:  "vec3<f32>",
	KindVec4:  "vec4<f32>",
}

// WGSL returns the WGSL type name for the kind.
func (k Kind) WGSL() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Components returns the number of float32 components the kind spans.
func (k Kind) Components() int {
	switch k {
	case KindVec2:
		return 2
	case KindVec3:
		return 3
	case KindVec4:
		return 4
	default:
		return 1
	}
}

// std140Align returns the byte alignment std140 imposes on the kind.
// vec3 aligns like vec4.
func (k Kind) std140Align() int {
	switch k {
	case KindVec2:
		return 8
	case KindVec3, KindVec4:
		return 16
	default:
		return 4
	}
}

// Field is one entry of the uniform block.
type Field struct {
	Name string
	Kind Kind

	// flatOffset is the field's position, in float32 components, within
	// the tightly packed layout. Assigned by newSchema.
	flatOffset int
}

// LayerCount is the number of compositor layers carried in the block.
const LayerCount = 5

// LayerField returns the schema name of a per-layer field, e.g.
// LayerField(2, "opacity") == "layer2Opacity".
func LayerField(layer int, suffix string) string {
	return fmt.Sprintf("layer%d%s%s", layer, string(suffix[0]-'a'+'A'), suffix[1:])
}

// Schema is an ordered, immutable field list. Use Default for the
// canonical block shared by all backends.
type Schema struct {
	fields  []Field
	byName  map[string]int
	flatLen int
}

// newSchema assigns flat offsets in declaration order.
func newSchema(fields []Field) *Schema {
	s := &Schema{
		fields: fields,
		byName: make(map[string]int, len(fields)),
	}
	offset := 0
	for i := range s.fields {
		s.fields[i].flatOffset = offset
		s.byName[s.fields[i].Name] = i
		offset += s.fields[i].Kind.Components()
	}
	s.flatLen = offset
	return s
}

var defaultSchema = newSchema(buildDefaultFields())

func buildDefaultFields() []Field {
	fields := []Field{
		{Name: "time", Kind: KindFloat},
		{Name: "resolution", Kind: KindVec2},
		{Name: "rotXY", Kind: KindFloat},
		{Name: "rotXZ", Kind: KindFloat},
		{Name: "rotYZ", Kind: KindFloat},
		{Name: "rotXW", Kind: KindFloat},
		{Name: "rotYW", Kind: KindFloat},
		{Name: "rotZW", Kind: KindFloat},
		{Name: "projectionDistance", Kind: KindFloat},
		{Name: "projectionMode", Kind: KindFloat},
		{Name: "gridDensity", Kind: KindFloat},
		{Name: "morphFactor", Kind: KindFloat},
		{Name: "chaos", Kind: KindFloat},
		{Name: "speed", Kind: KindFloat},
		{Name: "hue", Kind: KindFloat},
		{Name: "intensity", Kind: KindFloat},
		{Name: "saturation", Kind: KindFloat},
		{Name: "mouse", Kind: KindVec2},
		{Name: "clickIntensity", Kind: KindFloat},
		{Name: "audioBass", Kind: KindFloat},
		{Name: "audioMid", Kind: KindFloat},
		{Name: "audioHigh", Kind: KindFloat},
	}
	for layer := 0; layer < LayerCount; layer++ {
		fields = append(fields,
			Field{Name: LayerField(layer, "scale"), Kind: KindFloat},
			Field{Name: LayerField(layer, "opacity"), Kind: KindFloat},
			Field{Name: LayerField(layer, "colorTint"), Kind: KindVec3},
			Field{Name: LayerField(layer, "blendMode"), Kind: KindFloat},
		)
	}
	fields = append(fields,
		Field{Name: "densityMult", Kind: KindFloat},
		Field{Name: "speedMult", Kind: KindFloat},
	)
	return fields
}

// Default returns the canonical schema. The returned value is shared;
// callers must not mutate it.
func Default() *Schema { return defaultSchema }

// Fields returns the ordered field list.
func (s *Schema) Fields() []Field { return s.fields }

// Lookup returns the field with the given name.
func (s *Schema) Lookup(name string) (Field, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// FlatLen is the total component count of the tightly packed layout.
func (s *Schema) FlatLen() int { return s.flatLen }

// Std140Size returns the byte size of the std140 layout, including the
// trailing padding that rounds the block to a 16-byte boundary.
func (s *Schema) Std140Size() int {
	offset := 0
	for _, f := range s.fields {
		offset = alignUp(offset, f.Kind.std140Align())
		offset += f.Kind.Components() * 4
	}
	return alignUp(offset, 16)
}

func alignUp(n, align int) int {
	return (n + align - 1) / align * align
}
