// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
)

var (
	// ErrNoBootloader is returned if no bootloader is configured.
	ErrNoBootloader = errors.New("no bootloader given")

	// ErrOutputMultipleKernels is returned if an output path is given for
	// more than one kernel.
	ErrOutputMultipleKernels = errors.New("output path can only be used with a single kernel")

	// ErrDuplicateImage is returned if multiple kernels result in the same
	// image path.
	ErrDuplicateImage = errors.New("kernels share the same image path")

	// ErrTestsFailed is returned if any test did not succeed.
	ErrTestsFailed = errors.New("tests failed")
)

// ParseArgsError wraps errors that occur during argument parsing.
type ParseArgsError struct {
	err error
	msg string
}

func (e *ParseArgsError) Error() string {
	if e.err == nil {
		return e.msg
	}

	return fmt.Sprintf("%s: %v", e.msg, e.err)
}

func (e *ParseArgsError) Is(other error) bool {
	_, ok := other.(*ParseArgsError)
	return ok
}

func (e *ParseArgsError) Unwrap() error {
	return e.err
}
