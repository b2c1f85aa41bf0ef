// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config provides the project configuration read from a YAML file.
//
// Example:
//
//	bootloader: target/bootloader/release/bootloader
//	minimum-image-size: 1048576
//	run-command: ["qemu-system-x86_64", "-drive", "format=raw,file={}"]
//	run-args: ["-serial", "stdio"]
//	test-timeout: 120
package config
