// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"io"
	"log/slog"
)

// setupLogging sets the default logger to a text logger writing into the
// given writer. The level can be changed later with the given [slog.LevelVar].
func setupLogging(writer io.Writer, level *slog.LevelVar) {
	slog.SetDefault(slog.New(slog.NewTextHandler(
		writer,
		&slog.HandlerOptions{
			Level: level,
		},
	)))
}

func logLevel(debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}

	return slog.LevelWarn
}
