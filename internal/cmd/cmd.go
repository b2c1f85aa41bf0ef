// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aibor/bootimage/internal/exitcode"
)

// exitCodeTestsFailed is returned if any test did not succeed.
const exitCodeTestsFailed = 1

func handleRunError(err error) int {
	if err == nil {
		return 0
	}

	// The report has been printed already.
	if errors.Is(err, ErrTestsFailed) {
		return exitCodeTestsFailed
	}

	// The run command ran and its output speaks for itself.
	exitCode, isExitErr := exitcode.From(err)
	if isExitErr {
		slog.Debug("Run command failed", slog.Int("exit_code", exitCode))
		return exitCode
	}

	slog.Error(err.Error())

	return exitCode
}

// Run is the main entry point for the CLI command.
func Run(ctx context.Context, args []string, cfg IO) int {
	var levelVar slog.LevelVar

	levelVar.Set(logLevel(false))
	setupLogging(cfg.Stderr, &levelVar)

	root := newRootCommand(cfg, &levelVar)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)

	return handleRunError(err)
}
