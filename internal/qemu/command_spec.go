// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"fmt"
	"strings"
)

// DefaultExecutable is the QEMU binary used if none is given.
const DefaultExecutable = "qemu-system-x86_64"

// serialFileSuffix is appended to the image path for the serial output file.
const serialFileSuffix = "-output.txt"

// DebugExit is the I/O port configuration of the isa-debug-exit device.
type DebugExit struct {
	IOBase uint16
	IOSize uint16
}

// DefaultDebugExit is the isa-debug-exit configuration test kernels expect.
var DefaultDebugExit = DebugExit{IOBase: 0xf4, IOSize: 0x04}

// String returns the device value for the QEMU "-device" argument.
func (d DebugExit) String() string {
	return fmt.Sprintf("isa-debug-exit,iobase=0x%x,iosize=0x%02x", d.IOBase, d.IOSize)
}

// CommandSpec defines the parameters for a [Command] that boots a disk image.
type CommandSpec struct {
	// Path to the qemu-system binary.
	Executable string

	// Path to the raw disk image to boot from.
	Image string

	// Path to the file the first serial port is written to. If empty,
	// [SerialFilePath] of the image is used.
	SerialFile string

	// DebugExit configures the isa-debug-exit device. If zero,
	// [DefaultDebugExit] is used.
	DebugExit DebugExit

	// ExtraArgs are extra arguments that are passed to the QEMU command.
	// They must not interfere with the essential arguments set by the spec
	// itself or an error will be returned by [NewCommand].
	ExtraArgs []Argument
}

// SerialFilePath returns the path of the file the serial output of the given
// image is written to.
func SerialFilePath(image string) string {
	return image + serialFileSuffix
}

// AddDefaults sets default values for all fields that are not set yet.
func (s *CommandSpec) AddDefaults() {
	if s.Executable == "" {
		s.Executable = DefaultExecutable
	}

	if s.SerialFile == "" {
		s.SerialFile = SerialFilePath(s.Image)
	}

	if s.DebugExit == (DebugExit{}) {
		s.DebugExit = DefaultDebugExit
	}
}

// Validate checks that all required fields are set.
func (s *CommandSpec) Validate() error {
	if s.Executable == "" {
		return ErrNoExecutable
	}

	if s.Image == "" {
		return &ArgumentError{"no image given"}
	}

	if s.SerialFile == "" {
		return &ArgumentError{"no serial file given"}
	}

	return nil
}

// arguments compiles the argument list for the QEMU command.
func (s *CommandSpec) arguments() []Argument {
	args := []Argument{
		UniqueArg("drive", "format=raw", "file="+escapeOptionValue(s.Image)),
		RepeatableArg("device", s.DebugExit.String()),
		// Disable video output.
		UniqueArg("display", "none"),
		UniqueArg("serial", "file:"+s.SerialFile),
	}

	return append(args, s.ExtraArgs...)
}

// escapeOptionValue escapes commas in values of QEMU option lists.
func escapeOptionValue(value string) string {
	return strings.ReplaceAll(value, ",", ",,")
}
