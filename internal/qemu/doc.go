// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package qemu provides utilities for composing and running QEMU system
// emulation commands for booting disk images. It expects the required QEMU
// binary to be present on the system.
//
// The guest is expected to write its output to the first serial port, which
// is redirected into a file, and to report its status via the isa-debug-exit
// device, which sets the exit code of QEMU.
package qemu
