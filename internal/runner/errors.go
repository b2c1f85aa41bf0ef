// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package runner

import "errors"

// ErrNoTargets is returned if no test targets are found.
var ErrNoTargets = errors.New("no test targets found")

// TargetError wraps errors that prevented a [Target] from being run or its
// output from being read.
type TargetError struct {
	Target string
	Err    error
}

// Error implements the [error] interface.
func (e *TargetError) Error() string {
	return "target " + e.Target + ": " + e.Err.Error()
}

// Is implements the [errors.Is] interface.
func (*TargetError) Is(other error) bool {
	_, ok := other.(*TargetError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *TargetError) Unwrap() error {
	return e.Err
}
