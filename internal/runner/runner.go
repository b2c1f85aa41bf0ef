// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/aibor/bootimage/internal/exitcode"
	"github.com/aibor/bootimage/internal/qemu"
	"golang.org/x/sync/errgroup"
)

// DefaultTimeout is the time limit for a single test run.
const DefaultTimeout = 60 * time.Second

// Runner runs test disk images in QEMU.
type Runner struct {
	// Executable is the QEMU binary. If empty, [qemu.DefaultExecutable] is
	// used.
	Executable string

	// Timeout is the time limit for each run. If zero, [DefaultTimeout] is
	// used.
	Timeout time.Duration

	// Parallelism is the maximum number of concurrently running QEMU
	// processes. If zero or negative, the number of CPUs is used.
	Parallelism int

	// ExtraArgs are passed to every QEMU command.
	ExtraArgs []qemu.Argument
}

func (r *Runner) timeout() time.Duration {
	if r.Timeout <= 0 {
		return DefaultTimeout
	}

	return r.Timeout
}

func (r *Runner) parallelism() int {
	if r.Parallelism <= 0 {
		return runtime.NumCPU()
	}

	return r.Parallelism
}

// Run runs all given targets and returns their outcomes in the same order.
//
// A run that fails, times out or produces invalid output is reported in the
// [Report] and does not affect other runs. An error is returned only if a
// target could not be run at all or the given context is done. In this case
// all other runs are stopped.
func (r *Runner) Run(ctx context.Context, targets []Target) (Report, error) {
	report := make(Report, len(targets))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(r.parallelism())

	for idx, target := range targets {
		eg.Go(func() error {
			result, err := r.runTarget(egCtx, target)
			if err != nil {
				return &TargetError{Target: target.Name, Err: err}
			}

			slog.Debug("Test finished",
				slog.String("target", target.Name),
				slog.String("verdict", result.Verdict.String()))

			report[idx] = Outcome{Target: target, Result: result}

			return nil
		})
	}

	err := eg.Wait()
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return report, nil
}

func (r *Runner) runTarget(ctx context.Context, target Target) (exitcode.Result, error) {
	spec := qemu.CommandSpec{
		Executable: r.Executable,
		Image:      target.Image,
		ExtraArgs:  r.ExtraArgs,
	}

	cmd, err := qemu.NewCommand(spec)
	if err != nil {
		return exitcode.Result{}, err //nolint:wrapcheck
	}

	serialFile := qemu.SerialFilePath(target.Image)

	// Output of a previous run must not be mistaken for the current one.
	err = os.Remove(serialFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return exitcode.Result{}, fmt.Errorf("remove stale serial file: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()

	slog.Debug("Running test",
		slog.String("target", target.Name),
		slog.String("command", cmd.String()))

	code, runErr := cmd.Run(runCtx, nil, nil, nil)

	timedOut := errors.Is(runErr, context.DeadlineExceeded) && ctx.Err() == nil
	if runErr != nil && !timedOut {
		return exitcode.Result{}, runErr //nolint:wrapcheck
	}

	output, err := readSerialFile(serialFile)
	if err != nil {
		return exitcode.Result{}, err
	}

	if timedOut {
		return exitcode.TimedOutResult(output), nil
	}

	return exitcode.Decode(code, output, target.Name), nil
}

// readSerialFile reads the serial output of a run. A missing file is treated
// as empty output, as the guest might not have written anything.
func readSerialFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("read serial file: %w", err)
	}

	return string(data), nil
}
