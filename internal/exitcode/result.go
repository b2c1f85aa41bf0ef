// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package exitcode

import "strconv"

// Verdict is the terminal state of a test run.
type Verdict int

const (
	Ok Verdict = iota
	Failed
	TimedOut
	Invalid
)

var verdictNames = map[Verdict]string{
	Ok:       "Ok",
	Failed:   "Failed",
	TimedOut: "TimedOut",
	Invalid:  "Invalid",
}

func (v Verdict) String() string {
	name, exists := verdictNames[v]
	if !exists {
		return "Verdict(" + strconv.Itoa(int(v)) + ")"
	}

	return name
}

// Result is the outcome of a test run.
type Result struct {
	Verdict Verdict

	// Reason describes why the run is [Invalid].
	Reason string

	// Output is the diagnostic text. For [Failed] runs it is the output
	// following the failure marker.
	Output string
}

// TimedOutResult returns the [Result] for a run that exceeded its time limit.
func TimedOutResult(output string) Result {
	return Result{
		Verdict: TimedOut,
		Reason:  "timed out",
		Output:  output,
	}
}

// Summary returns a single line describing the result.
func (r Result) Summary() string {
	if r.Reason == "" {
		return r.Verdict.String()
	}

	return r.Verdict.String() + " (" + r.Reason + ")"
}
