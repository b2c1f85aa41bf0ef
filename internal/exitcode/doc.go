// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package exitcode decodes the outcome of a test kernel run.
//
// Test kernels report their status by writing a value n to the QEMU
// isa-debug-exit device. QEMU then exits with (n << 1) | 1. Together with the
// markers the kernel writes to its serial line, the exit code determines the
// [Verdict] of a run.
//
// Only the codes for n = 0, 2 and 3 are defined. All others are unrecognized.
package exitcode
