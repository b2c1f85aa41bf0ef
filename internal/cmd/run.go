// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"

	"github.com/aibor/bootimage/internal/exitcode"
	"github.com/aibor/bootimage/internal/qemu"
	"github.com/spf13/cobra"
)

func newRunCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run kernel [args...]",
		Short: "Create a disk image for the given kernel and run it",
		Long: "Create a disk image for the given kernel and run it with the " +
			"configured run command. Every \"{}\" in the run command is " +
			"replaced with the image path. The configured run args and all " +
			"additional arguments are appended.",
		Args: argsValidator(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			err = cfg.Validate()
			if err != nil {
				return err //nolint:wrapcheck
			}

			paths, err := buildImages(cfg, args[:1])
			if err != nil {
				return err
			}

			command := cfg.RunCommandFor(paths[0], args[1:]...)

			runCmd, err := qemu.NewRawCommand(command[0], command[1:]...)
			if err != nil {
				return fmt.Errorf("run command: %w", err)
			}

			code, err := runCmd.Run(
				cmd.Context(),
				cmd.InOrStdin(),
				cmd.OutOrStdout(),
				cmd.ErrOrStderr(),
			)
			if err != nil {
				return fmt.Errorf("run: %w", err)
			}

			if code != 0 {
				return exitcode.Error(code)
			}

			return nil
		},
	}

	// All arguments following the kernel are passed to the run command.
	cmd.Flags().SetInterspersed(false)

	return cmd
}
