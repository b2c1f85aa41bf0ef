// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"testing"
)

// ELFSection is a section written by [BuildELF].
type ELFSection struct {
	Name string
	Type elf.SectionType
	Data []byte
}

// BuildELF creates a minimal little-endian ELF64 executable with the given
// sections. A section header string table is appended as last section.
func BuildELF(tb testing.TB, sections ...ELFSection) []byte {
	tb.Helper()

	const (
		headerSize  = 64
		sectionSize = 64
	)

	var (
		body    bytes.Buffer
		strtab  = []byte{0}
		headers = []elf.Section64{{}} // Null section.
	)

	addSection := func(name string, typ elf.SectionType, data []byte) {
		header := elf.Section64{
			Name:      uint32(len(strtab)),
			Type:      uint32(typ),
			Off:       uint64(headerSize + body.Len()),
			Size:      uint64(len(data)),
			Addralign: 1,
		}
		strtab = append(strtab, name...)
		strtab = append(strtab, 0)

		if typ != elf.SHT_NOBITS {
			body.Write(data)
		}

		headers = append(headers, header)
	}

	for _, section := range sections {
		typ := section.Type
		if typ == elf.SHT_NULL {
			typ = elf.SHT_PROGBITS
		}

		addSection(section.Name, typ, section.Data)
	}

	// The string table contains its own name, so add the name before the
	// data is written.
	shstrtabName := uint32(len(strtab))
	strtab = append(strtab, ".shstrtab"...)
	strtab = append(strtab, 0)
	headers = append(headers, elf.Section64{
		Name:      shstrtabName,
		Type:      uint32(elf.SHT_STRTAB),
		Off:       uint64(headerSize + body.Len()),
		Size:      uint64(len(strtab)),
		Addralign: 1,
	})
	body.Write(strtab)

	// Align section header table.
	for body.Len()%8 != 0 {
		body.WriteByte(0)
	}

	fileHeader := elf.Header64{
		Type:      uint16(elf.ET_EXEC),
		Machine:   uint16(elf.EM_X86_64),
		Version:   uint32(elf.EV_CURRENT),
		Shoff:     uint64(headerSize + body.Len()),
		Ehsize:    headerSize,
		Shentsize: sectionSize,
		Shnum:     uint16(len(headers)),
		Shstrndx:  uint16(len(headers) - 1),
	}
	copy(fileHeader.Ident[:], elf.ELFMAG)
	fileHeader.Ident[elf.EI_CLASS] = byte(elf.ELFCLASS64)
	fileHeader.Ident[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	fileHeader.Ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)

	var file bytes.Buffer

	mustWrite := func(data any) {
		err := binary.Write(&file, binary.LittleEndian, data)
		if err != nil {
			tb.Fatalf("write ELF: %v", err)
		}
	}

	mustWrite(fileHeader)
	file.Write(body.Bytes())

	for _, header := range headers {
		mustWrite(header)
	}

	return file.Bytes()
}
