// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package uniform

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Snapshot is a serializable capture of a frame plus the geometry
// selection that accompanies it. Fields are keyed by schema name so a
// snapshot survives schema reordering; unknown keys are rejected on
// restore rather than silently dropped.
type Snapshot struct {
	GeometryIndex int                  `yaml:"geometryIndex"`
	Fields        map[string][]float32 `yaml:"fields"`
}

// TakeSnapshot captures the frame's current field values.
func TakeSnapshot(f *Frame, geometryIndex int) *Snapshot {
	snap := &Snapshot{
		GeometryIndex: geometryIndex,
		Fields:        make(map[string][]float32, len(f.schema.Fields())),
	}
	for _, field := range f.schema.Fields() {
		v, _ := f.Get(field.Name)
		snap.Fields[field.Name] = v
	}
	return snap
}

// Apply restores the snapshot's field values into the frame. Every key
// must name a schema field with a matching component count.
func (s *Snapshot) Apply(f *Frame) error {
	for name, value := range s.Fields {
		if err := f.Set(name, value...); err != nil {
			return err
		}
	}
	return nil
}

// Encode serializes the snapshot to YAML.
func (s *Snapshot) Encode() ([]byte, error) {
	return yaml.Marshal(s)
}

// DecodeSnapshot parses a YAML snapshot.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("uniform: decode snapshot: %w", err)
	}
	return &snap, nil
}
