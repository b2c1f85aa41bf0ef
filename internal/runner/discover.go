// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TargetPrefix is the file name prefix of test kernel executables.
const TargetPrefix = "test-"

// DiscoverKernels returns the paths of the test kernels for the given paths.
//
// Directories are searched non-recursively for executable regular files with
// names starting with [TargetPrefix]. Files are used as they are. The order of
// the given paths is kept and directory entries are sorted by name.
func DiscoverKernels(paths []string) ([]string, error) {
	var kernels []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		if !info.IsDir() {
			kernels = append(kernels, path)
			continue
		}

		found, err := discoverDir(path)
		if err != nil {
			return nil, err
		}

		kernels = append(kernels, found...)
	}

	if len(kernels) == 0 {
		return nil, ErrNoTargets
	}

	return kernels, nil
}

func discoverDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var kernels []string

	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.HasPrefix(entry.Name(), TargetPrefix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("read info: %w", err)
		}

		if info.Mode().Perm()&0o111 == 0 {
			continue
		}

		kernels = append(kernels, filepath.Join(dir, entry.Name()))
	}

	return kernels, nil
}
