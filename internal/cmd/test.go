// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/aibor/bootimage/internal/exitcode"
	"github.com/aibor/bootimage/internal/qemu"
	"github.com/aibor/bootimage/internal/runner"
	"github.com/spf13/cobra"
)

type testOptions struct {
	qemu     string
	timeout  uint64
	parallel int
}

func newTestCommand(opts *options) *cobra.Command {
	var testOpts testOptions

	cmd := &cobra.Command{
		Use:   "test [path...]",
		Short: "Create disk images for test kernels and run them in QEMU",
		Long: "Create disk images for test kernels and run them concurrently " +
			"in QEMU. Paths may be test kernel executables or directories " +
			"that are searched for executables named \"" +
			runner.TargetPrefix + "*\". Default is the current directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("qemu") {
				cfg.Qemu = testOpts.qemu
			}

			if flags.Changed("timeout") {
				cfg.TestTimeout = testOpts.timeout
			}

			if flags.Changed("parallel") {
				cfg.TestParallelism = testOpts.parallel
			}

			err = cfg.Validate()
			if err != nil {
				return err //nolint:wrapcheck
			}

			if len(args) == 0 {
				args = []string{"."}
			}

			kernels, err := runner.DiscoverKernels(args)
			if err != nil {
				return fmt.Errorf("discover tests: %w", err)
			}

			// Each test gets its own image at the default path.
			if cfg.Output != "" {
				slog.Debug("Ignoring output path for tests",
					slog.String("output", cfg.Output))

				cfg.Output = ""
			}

			images, err := buildImages(cfg, kernels)
			if err != nil {
				return err
			}

			extraArgs, err := qemu.ParseArguments(cfg.TestArgs)
			if err != nil {
				return fmt.Errorf("test args: %w", err)
			}

			targets := make([]runner.Target, len(kernels))
			for idx, kernel := range kernels {
				targets[idx] = runner.Target{
					Name:  filepath.Base(kernel),
					Image: images[idx],
				}
			}

			testRunner := runner.Runner{
				Executable:  cfg.Qemu,
				Timeout:     cfg.TestTimeoutDuration(),
				Parallelism: cfg.TestParallelism,
				ExtraArgs:   extraArgs,
			}

			report, err := testRunner.Run(cmd.Context(), targets)
			if err != nil {
				return fmt.Errorf("run tests: %w", err)
			}

			printReport(cmd.OutOrStdout(), cmd.ErrOrStderr(), report)

			if !report.Successful() {
				return ErrTestsFailed
			}

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&testOpts.qemu, "qemu", qemu.DefaultExecutable,
		"QEMU binary to use")
	flags.Uint64Var(&testOpts.timeout, "timeout", uint64(runner.DefaultTimeout/time.Second),
		"time limit for each test in seconds")
	flags.IntVar(&testOpts.parallel, "parallel", 0,
		"maximum number of concurrent tests, 0 for number of CPUs")

	return cmd
}

// printReport writes the outcome of every test followed by a summary. Details
// of failed tests are written into stderr.
func printReport(stdout, stderr io.Writer, report runner.Report) {
	for _, outcome := range report {
		name := outcome.Target.Name

		if outcome.Result.Verdict == exitcode.Ok {
			fmt.Fprintf(stdout, "OK: %s\n", name)
			continue
		}

		fmt.Fprintf(stderr, "FAIL: %s: %s\n", name, outcome.Result.Summary())

		for line := range strings.Lines(outcome.Result.Output) {
			fmt.Fprintf(stderr, "    %s", line)

			if !strings.HasSuffix(line, "\n") {
				fmt.Fprintln(stderr)
			}
		}
	}

	fmt.Fprintln(stdout)

	if report.Successful() {
		fmt.Fprintln(stdout, "All tests succeeded.")
		return
	}

	fmt.Fprintln(stderr, "The following tests failed:")

	for _, outcome := range report.Failures() {
		fmt.Fprintf(stderr, "    %s: %s\n", outcome.Target.Name, outcome.Result.Verdict)
	}
}
