// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package image

import (
	"encoding/binary"
	"fmt"
	"math"
)

// BlockSize is the size of a disk sector. Segments of an image are aligned to
// it.
const BlockSize = 512

const (
	kernelSizeOffset  = 0
	packageSizeOffset = 8
)

// InfoBlock tells the bootloader the size of the kernel and the optional
// package that follow it.
//
// It is written right after the bootloader code. All bytes except the size
// fields are zero.
type InfoBlock [BlockSize]byte

// NewInfoBlock creates a new [InfoBlock] with the given sizes. The package
// size is 0 if there is no package.
//
// It returns [ErrSizeOverflow] if any of the sizes does not fit into 32 bit.
func NewInfoBlock(kernelSize, packageSize uint64) (InfoBlock, error) {
	var block InfoBlock

	if kernelSize > math.MaxUint32 {
		return block, fmt.Errorf("kernel: %w: %d", ErrSizeOverflow, kernelSize)
	}

	if packageSize > math.MaxUint32 {
		return block, fmt.Errorf("package: %w: %d", ErrSizeOverflow, packageSize)
	}

	binary.LittleEndian.PutUint32(block[kernelSizeOffset:], uint32(kernelSize))
	binary.LittleEndian.PutUint32(block[packageSizeOffset:], uint32(packageSize))

	return block, nil
}

// KernelSize returns the kernel size field.
func (b *InfoBlock) KernelSize() uint32 {
	return binary.LittleEndian.Uint32(b[kernelSizeOffset:])
}

// PackageSize returns the package size field.
func (b *InfoBlock) PackageSize() uint32 {
	return binary.LittleEndian.Uint32(b[packageSizeOffset:])
}
