// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package image assembles bootable raw disk images.
//
// An image is the raw bootloader code followed by a [InfoBlock] and the kernel
// executable. An optional package may follow the kernel. The kernel and the
// package are each padded with zeros to a multiple of [BlockSize], so the
// bootloader can load them by whole disk sectors:
//
//	[bootloader][info block][kernel][padding][package][padding]
//
// The image may be extended with zeros to a minimum size afterwards.
package image
