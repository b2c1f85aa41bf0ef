// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package runner

import "github.com/aibor/bootimage/internal/exitcode"

// Target is a single test disk image.
type Target struct {
	// Name of the test, usually the name of the kernel executable.
	Name string

	// Image is the path to the disk image.
	Image string
}

// Outcome is the result of a single [Target].
type Outcome struct {
	Target Target
	Result exitcode.Result
}

// Report holds the outcomes of all targets of a run in the order the targets
// were given.
type Report []Outcome

// Successful returns true if all outcomes are [exitcode.Ok].
func (r Report) Successful() bool {
	for _, outcome := range r {
		if outcome.Result.Verdict != exitcode.Ok {
			return false
		}
	}

	return true
}

// Failures returns all outcomes that are not [exitcode.Ok].
func (r Report) Failures() Report {
	var failures Report

	for _, outcome := range r {
		if outcome.Result.Verdict != exitcode.Ok {
			failures = append(failures, outcome)
		}
	}

	return failures
}

// Count returns the number of outcomes with the given verdict.
func (r Report) Count(verdict exitcode.Verdict) int {
	var count int

	for _, outcome := range r {
		if outcome.Result.Verdict == verdict {
			count++
		}
	}

	return count
}
