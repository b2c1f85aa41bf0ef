// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"log/slog"

	"github.com/aibor/bootimage/internal/config"
	"github.com/aibor/bootimage/internal/image"
	"github.com/aibor/bootimage/internal/sys"
	"github.com/spf13/cobra"
)

func newBuildCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "build kernel...",
		Short: "Create a disk image for each given kernel executable",
		Args:  argsValidator(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			paths, err := buildImages(cfg, args)
			if err != nil {
				return err
			}

			for idx, path := range paths {
				fmt.Fprintf(cmd.OutOrStdout(),
					"Created bootimage for `%s` at `%s`\n", args[idx], path)
			}

			return nil
		},
	}
}

// buildImages creates a disk image for each of the given kernels and returns
// their paths in the same order. The bootloader is read only once.
//
// Kernels that would end up at the same image path are rejected before any
// image is written.
func buildImages(cfg config.Config, kernels []string) ([]string, error) {
	if cfg.Bootloader == "" {
		return nil, ErrNoBootloader
	}

	if cfg.Output != "" && len(kernels) > 1 {
		return nil, ErrOutputMultipleKernels
	}

	specs, err := imageSpecs(cfg, kernels)
	if err != nil {
		return nil, err
	}

	err = sys.ValidateFilePath(cfg.Bootloader)
	if err != nil {
		return nil, fmt.Errorf("bootloader: %w", err)
	}

	bootloader, err := sys.ReadBootloader(cfg.Bootloader)
	if err != nil {
		return nil, fmt.Errorf("read bootloader %s: %w", cfg.Bootloader, err)
	}

	paths := make([]string, 0, len(specs))

	for _, spec := range specs {
		spec.Bootloader = bootloader

		path, err := image.Create(spec)
		if err != nil {
			return nil, fmt.Errorf("create image for %s: %w", spec.Kernel, err)
		}

		slog.Debug("Created disk image",
			slog.String("kernel", spec.Kernel),
			slog.String("path", path))

		paths = append(paths, path)
	}

	return paths, nil
}

// imageSpecs returns an [image.Spec] without bootloader for each kernel.
func imageSpecs(cfg config.Config, kernels []string) ([]image.Spec, error) {
	specs := make([]image.Spec, 0, len(kernels))
	owners := make(map[string]string, len(kernels))

	for _, kernelPath := range kernels {
		kernel, err := sys.AbsolutePath(kernelPath)
		if err != nil {
			return nil, fmt.Errorf("kernel: %w", err)
		}

		spec := image.Spec{
			Kernel:      kernel,
			Package:     cfg.Package,
			Output:      cfg.Output,
			MinimumSize: cfg.MinimumImageSize,
		}

		output := spec.OutputPath()
		if owner, exists := owners[output]; exists {
			return nil, fmt.Errorf("%w: %s and %s both use %s",
				ErrDuplicateImage, owner, kernel, output)
		}

		owners[output] = kernel
		specs = append(specs, spec)
	}

	return specs, nil
}
