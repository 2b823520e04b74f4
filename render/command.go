// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"image/color"
)

// CommandType identifies the type of a command.
type CommandType uint8

const (
	CmdUploadUniforms CommandType = iota // Upload the frame's uniform block
	CmdBindGeometry                      // Bind a geometry vertex buffer
	CmdSetLayerTarget                    // Direct following draws to a layer
	CmdClear                             // Clear the current layer
	CmdDrawPoints                        // Draw the bound geometry as points
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdUploadUniforms: "UploadUniforms",
	CmdBindGeometry:   "BindGeometry",
	CmdSetLayerTarget: "SetLayerTarget",
	CmdClear:          "Clear",
	CmdDrawPoints:     "DrawPoints",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all command types.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
}

// UploadUniformsCmd carries one packed uniform block. Backends choose
// the representation they consume: Flat for CPU execution, Std140 for
// GPU buffer upload. Both encode the same frame.
type UploadUniformsCmd struct {
	Flat   []float32
	Std140 []byte
}

func (UploadUniformsCmd) Type() CommandType { return CmdUploadUniforms }

// BindGeometryCmd selects the vertex data for subsequent draws.
type BindGeometryCmd struct {
	Handle      Handle
	VertexCount int
}

func (BindGeometryCmd) Type() CommandType { return CmdBindGeometry }

// SetLayerTargetCmd directs subsequent Clear and DrawPoints commands to
// one compositor layer.
type SetLayerTargetCmd struct {
	Layer LayerID
}

func (SetLayerTargetCmd) Type() CommandType { return CmdSetLayerTarget }

// ClearCmd clears the current layer to a solid color.
type ClearCmd struct {
	Color color.RGBA
}

func (ClearCmd) Type() CommandType { return CmdClear }

// DrawPointsCmd rasterizes the bound geometry with the uploaded
// uniforms. PointSize is in device pixels.
type DrawPointsCmd struct {
	PointSize float32
}

func (DrawPointsCmd) Type() CommandType { return CmdDrawPoints }

// Command-ordering errors.
var (
	// ErrDrawBeforeUniforms is returned when a draw is recorded before
	// any uniform upload.
	ErrDrawBeforeUniforms = errors.New("render: draw recorded before uniforms")

	// ErrDrawBeforeGeometry is returned when a draw is recorded before
	// any geometry bind.
	ErrDrawBeforeGeometry = errors.New("render: draw recorded before geometry bind")
)

// CommandBuffer is an ordered list of commands recorded once per frame.
// Recorded order is execution order. Record enforces that every draw is
// preceded by a uniform upload and a geometry bind, so a backend never
// sees a draw with undefined inputs.
type CommandBuffer struct {
	commands []Command

	haveUniforms bool
	haveGeometry bool
}

// NewCommandBuffer returns an empty buffer with typical frame capacity.
func NewCommandBuffer() *CommandBuffer {
	return &CommandBuffer{commands: make([]Command, 0, 16)}
}

// Record appends a command, validating ordering constraints.
func (cb *CommandBuffer) Record(cmd Command) error {
	switch cmd.Type() {
	case CmdUploadUniforms:
		cb.haveUniforms = true
	case CmdBindGeometry:
		cb.haveGeometry = true
	case CmdDrawPoints:
		if !cb.haveUniforms {
			return ErrDrawBeforeUniforms
		}
		if !cb.haveGeometry {
			return ErrDrawBeforeGeometry
		}
	}
	cb.commands = append(cb.commands, cmd)
	return nil
}

// MustRecord appends a command and panics on ordering violations; for
// use where the caller has already established the preconditions.
func (cb *CommandBuffer) MustRecord(cmd Command) {
	if err := cb.Record(cmd); err != nil {
		panic(fmt.Sprintf("render: %v", err))
	}
}

// Commands returns the recorded commands in execution order. The slice
// is owned by the buffer; callers must not mutate it.
func (cb *CommandBuffer) Commands() []Command { return cb.commands }

// Len returns the number of recorded commands.
func (cb *CommandBuffer) Len() int { return len(cb.commands) }

// Reset clears the buffer for reuse, keeping the backing array.
func (cb *CommandBuffer) Reset() {
	cb.commands = cb.commands[:0]
	cb.haveUniforms = false
	cb.haveGeometry = false
}
