// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package uniform

import "strings"

// WGSLStruct renders the schema as a WGSL struct declaration with the
// given type name. WGSL's default uniform layout applies the same
// alignment rules PackStd140 emits, so a buffer written by PackStd140
// binds against this struct without explicit @align attributes.
func (s *Schema) WGSLStruct(name string) string {
	var b strings.Builder
	b.WriteString("struct ")
	b.WriteString(name)
	b.WriteString(" {\n")
	for _, f := range s.fields {
		b.WriteString("    ")
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Kind.WGSL())
		b.WriteString(",\n")
	}
	b.WriteString("}\n")
	return b.String()
}
