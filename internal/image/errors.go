// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package image

import (
	"errors"
	"fmt"
)

var (
	// ErrSizeOverflow is returned if a size does not fit into the 32 bit
	// fields of the [InfoBlock]. The BIOS stage of the bootloader can not load
	// anything larger.
	ErrSizeOverflow = errors.New("size exceeds 32 bit")

	// ErrSizeMismatch is returned if the number of bytes copied from a
	// [Segment] differs from its declared size.
	ErrSizeMismatch = errors.New("copied size does not match declared size")

	// ErrOutputIsSource is returned if the output path refers to the kernel
	// or the package.
	ErrOutputIsSource = errors.New("output is a source file")

	// ErrNotRegularFile is returned if a source for an image segment is not a
	// regular file.
	ErrNotRegularFile = errors.New("not a regular file")
)

// Stage identifies the step of the image creation an [Error] occurred in.
type Stage string

// Stages of [Create].
const (
	StageOpenKernel      Stage = "open kernel"
	StageOpenPackage     Stage = "open package"
	StageArchivePackage  Stage = "archive package"
	StageCreateOutput    Stage = "create output"
	StageWriteBootloader Stage = "write bootloader"
	StageWriteInfoBlock  Stage = "write info block"
	StageWriteSegment    Stage = "write segment"
	StageResize          Stage = "resize"
)

// Error wraps any error that occurs during image creation with the [Stage] it
// occurred in.
type Error struct {
	Stage Stage
	Err   error
}

// Error implements the [error] interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// Is implements the [errors.Is] interface.
func (*Error) Is(other error) bool {
	_, ok := other.(*Error)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *Error) Unwrap() error {
	return e.Err
}
