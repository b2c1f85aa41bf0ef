// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aibor/bootimage/internal/config"
	"github.com/spf13/cobra"
)

const programName = "bootimage"

// IO provides input and output details for the command.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// options are the flags shared by all sub commands.
type options struct {
	configFile  string
	debug       bool
	bootloader  string
	output      string
	minimumSize uint64
	pkg         string
}

// loadConfig reads the config file and applies all flags that are set
// explicitly.
func (o *options) loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()

	// Only a config file that is requested explicitly must exist.
	if flags.Changed("config") {
		_, err := os.Stat(o.configFile)
		if err != nil {
			return config.Config{}, fmt.Errorf("config file: %w", err)
		}
	}

	cfg, err := config.LoadFile(o.configFile)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}

	if flags.Changed("bootloader") {
		cfg.Bootloader = o.bootloader
	}

	if flags.Changed("output") {
		cfg.Output = o.output
	}

	if flags.Changed("minimum-size") {
		cfg.MinimumImageSize = o.minimumSize
	}

	if flags.Changed("package") {
		cfg.Package = o.pkg
	}

	slog.Debug("Config loaded",
		slog.String("file", o.configFile),
		slog.String("bootloader", cfg.Bootloader),
		slog.String("output", cfg.Output),
		slog.Uint64("minimum_size", cfg.MinimumImageSize),
		slog.String("package", cfg.Package))

	return cfg, nil
}

func newRootCommand(cfg IO, levelVar *slog.LevelVar) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   programName,
		Short: "Create bootable disk images for bare metal kernels and run them in QEMU",
		PersistentPreRun: func(*cobra.Command, []string) {
			levelVar.Set(logLevel(opts.debug))
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.SetIn(cfg.Stdin)
	root.SetOut(cfg.Stdout)
	root.SetErr(cfg.Stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ParseArgsError{msg: "parse flags", err: err}
	})

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", config.DefaultFile,
		"path to the config file")
	flags.BoolVar(&opts.debug, "debug", false,
		"enable debug output")
	flags.StringVar(&opts.bootloader, "bootloader", "",
		"path to the bootloader executable")
	flags.StringVarP(&opts.output, "output", "o", "",
		"path of the image, only for a single kernel")
	flags.Uint64Var(&opts.minimumSize, "minimum-size", 0,
		"minimum size of the image in bytes")
	flags.StringVar(&opts.pkg, "package", "",
		"file or directory appended to the kernel")

	root.AddCommand(
		newBuildCommand(opts),
		newRunCommand(opts),
		newTestCommand(opts),
	)

	return root
}

// argsValidator wraps the given [cobra.PositionalArgs] so errors are returned
// as [ParseArgsError].
func argsValidator(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		err := validate(cmd, args)
		if err != nil {
			return &ParseArgsError{msg: "parse args", err: err}
		}

		return nil
	}
}
