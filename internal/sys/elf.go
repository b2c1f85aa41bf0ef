// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"bytes"
	"debug/elf"
	"fmt"
	"os"
	"strings"
)

// BootloaderSection is the name of the section that contains the bootable
// machine code of a bootloader executable.
const BootloaderSection = ".bootloader"

// ReadBootloader reads the bootloader executable at the given path and returns
// the raw content of its [BootloaderSection].
func ReadBootloader(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bootloader: %w", err)
	}

	section, err := ReadSection(data, BootloaderSection)
	if err != nil {
		return nil, fmt.Errorf("bootloader %s: %w", path, err)
	}

	return section, nil
}

// ReadSection returns a copy of the raw file content of the section with the
// given name.
//
// The data must be a complete ELF file. Only the section content as stored in
// the file is returned. Compressed sections are not decompressed.
func ReadSection(data []byte, name string) ([]byte, error) {
	elfFile, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		if strings.Contains(err.Error(), "bad magic number") {
			return nil, fmt.Errorf("%w: %w", ErrInvalidELF, ErrNotELFFile)
		}

		return nil, fmt.Errorf("%w: %w", ErrInvalidELF, err)
	}
	defer elfFile.Close()

	err = sanityCheck(elfFile.FileHeader)
	if err != nil {
		return nil, err
	}

	section := elfFile.Section(name)
	if section == nil {
		return nil, fmt.Errorf("%w: %s", ErrSectionNotFound, name)
	}

	if section.Type == elf.SHT_NOBITS {
		return nil, fmt.Errorf("%w: %s", ErrSectionNoData, name)
	}

	// Use file size, since the section might be compressed.
	start, size := section.Offset, section.FileSize
	if start > uint64(len(data)) || size > uint64(len(data))-start {
		return nil, fmt.Errorf(
			"%w: section %s exceeds file bounds",
			ErrInvalidELF,
			name,
		)
	}

	return bytes.Clone(data[start : start+size]), nil
}

// sanityCheck validates the basic header fields of an ELF file.
func sanityCheck(hdr elf.FileHeader) error {
	switch {
	case hdr.Class != elf.ELFCLASS32 && hdr.Class != elf.ELFCLASS64:
		return fmt.Errorf("%w: class %s", ErrInvalidELF, hdr.Class)
	case hdr.Data != elf.ELFDATA2LSB && hdr.Data != elf.ELFDATA2MSB:
		return fmt.Errorf("%w: data encoding %s", ErrInvalidELF, hdr.Data)
	case hdr.Version != elf.EV_CURRENT:
		return fmt.Errorf("%w: version %s", ErrInvalidELF, hdr.Version)
	case hdr.Type == elf.ET_NONE:
		return fmt.Errorf("%w: type %s", ErrInvalidELF, hdr.Type)
	}

	return nil
}
