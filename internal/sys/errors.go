// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import "errors"

var (
	// ErrNotELFFile is returned if the file does not have an ELF magic number.
	ErrNotELFFile = errors.New("is not an ELF file")

	// ErrInvalidELF is returned if an ELF file fails the structural sanity
	// check.
	ErrInvalidELF = errors.New("invalid ELF file")

	// ErrSectionNotFound is returned if the requested section is not present
	// in the ELF file.
	ErrSectionNotFound = errors.New("section not found")

	// ErrSectionNoData is returned if the requested section does not occupy
	// any space in the file, like .bss.
	ErrSectionNoData = errors.New("section has no data in file")

	// ErrEmptyPath is returned if an empty path is given.
	ErrEmptyPath = errors.New("path must not be empty")

	// ErrNotRegularFile is returned if a path exists but is not a regular
	// file.
	ErrNotRegularFile = errors.New("not a regular file")
)
