// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package sys provides helpers for dealing with host files, mostly the ELF
// executables bootimage consumes.
package sys
