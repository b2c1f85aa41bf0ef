// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package runner boots test disk images in QEMU concurrently and classifies
// each run.
//
// Each [Target] is run in its own QEMU process with its own time limit. A
// failing, hanging or invalid run does not affect other runs. All results are
// collected into a [Report] once every run terminated.
package runner
