// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package image

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/sys/unix"
)

const copyBufferSize = 32 * 1024

// Segment is a variable sized part of an image, like the kernel.
type Segment struct {
	// Name of the segment used in error messages.
	Name string

	// Reader the content is read from.
	Reader io.Reader

	// Size is the number of bytes Reader is expected to provide.
	Size int64
}

// Write writes the bootloader, the info block and the segments into the given
// writer. Each segment is followed by zero padding up to the next multiple of
// [BlockSize].
//
// It returns the number of bytes written.
func Write(
	dst io.Writer,
	bootloader []byte,
	info InfoBlock,
	segments ...Segment,
) (int64, error) {
	var written int64

	n, err := dst.Write(bootloader)
	written += int64(n)

	if err != nil {
		return written, &Error{Stage: StageWriteBootloader, Err: err}
	}

	n, err = dst.Write(info[:])
	written += int64(n)

	if err != nil {
		return written, &Error{Stage: StageWriteInfoBlock, Err: err}
	}

	for _, segment := range segments {
		n, err := writeSegment(dst, segment)
		written += n

		if err != nil {
			return written, &Error{
				Stage: StageWriteSegment,
				Err:   fmt.Errorf("%s: %w", segment.Name, err),
			}
		}
	}

	return written, nil
}

func writeSegment(dst io.Writer, segment Segment) (int64, error) {
	copied, err := copyRetryInterrupted(dst, segment.Reader)
	if err != nil {
		return copied, err
	}

	if copied != segment.Size {
		return copied, fmt.Errorf(
			"%w: %d != %d",
			ErrSizeMismatch,
			copied,
			segment.Size,
		)
	}

	padded, err := dst.Write(padding(copied))

	return copied + int64(padded), err //nolint:wrapcheck
}

// copyRetryInterrupted copies like [io.Copy], except that reads that are
// interrupted by a signal are retried.
func copyRetryInterrupted(dst io.Writer, src io.Reader) (int64, error) {
	var (
		buf     = make([]byte, copyBufferSize)
		written int64
	)

	for {
		n, err := src.Read(buf)
		if n > 0 {
			w, werr := dst.Write(buf[:n])
			written += int64(w)

			if werr != nil {
				return written, fmt.Errorf("write: %w", werr)
			}
		}

		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return written, nil
		case errors.Is(err, unix.EINTR):
			continue
		default:
			return written, fmt.Errorf("read: %w", err)
		}
	}
}

// padding returns the zero bytes required to align the given size to
// [BlockSize].
func padding(size int64) []byte {
	return make([]byte, (BlockSize-size%BlockSize)%BlockSize)
}
