// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package exitcode

import (
	"strconv"
	"strings"
)

// Exit codes of the emulator as set by the isa-debug-exit device.
const (
	// CodeSuccess is the exit code for status value 0.
	CodeSuccess = 0<<1 | 1

	// CodeComplete is the exit code for status value 2. The kernel ran to
	// completion and writes no markers.
	CodeComplete = 2<<1 | 1

	// CodeFailure is the exit code for status value 3.
	CodeFailure = 3<<1 | 1

	// None is used if the process did not provide an exit code, as it was
	// terminated by a signal.
	None = -1
)

// Markers written by test kernels to the serial line.
const (
	MarkerOK     = "ok\n"
	MarkerFailed = "failed\n"
)

// Decode classifies a test run by the exit code of the emulator and the
// output the kernel wrote to its serial line. Name is the name of the test
// target. It is used as output if a failure has no output.
func Decode(code int, output, name string) Result {
	switch code {
	case None:
		return Result{
			Verdict: Invalid,
			Reason:  "no exit code",
			Output:  output,
		}
	case CodeSuccess:
		switch {
		case strings.HasPrefix(output, MarkerOK):
			return Result{Verdict: Ok}
		case strings.HasPrefix(output, MarkerFailed):
			return Result{
				Verdict: Failed,
				Output:  strings.TrimPrefix(output, MarkerFailed),
			}
		default:
			return Result{
				Verdict: Invalid,
				Reason:  "invalid output",
				Output:  output,
			}
		}
	case CodeComplete:
		return Result{Verdict: Ok}
	case CodeFailure:
		_, after, found := strings.Cut(output, MarkerFailed)
		if !found {
			// Marker lost, e.g. the kernel panicked before writing it.
			after = name
		}

		return Result{Verdict: Failed, Output: after}
	default:
		return Result{
			Verdict: Invalid,
			Reason:  "invalid exit code " + strconv.Itoa(code),
			Output:  output,
		}
	}
}
