// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/aibor/bootimage/internal/exitcode"
	"golang.org/x/sys/unix"
)

// waitDelay is the time to wait for the I/O of a killed process to be
// closed.
const waitDelay = time.Second

// Command is a single external command that can be run, usually QEMU.
type Command struct {
	name string
	args []string

	// processGroup runs the command in its own process group, so it can be
	// killed along with all its children. Such a command can not use the
	// controlling terminal.
	processGroup bool
}

// NewCommand compiles the given [CommandSpec] into a [Command]. Defaults are
// set for all fields that are not set.
//
// It returns an error if the [CommandSpec] is invalid or arguments collide.
func NewCommand(spec CommandSpec) (*Command, error) {
	spec.AddDefaults()

	err := spec.Validate()
	if err != nil {
		return nil, err
	}

	args, err := BuildArgumentStrings(spec.arguments())
	if err != nil {
		return nil, err
	}

	return &Command{
		name:         spec.Executable,
		args:         args,
		processGroup: true,
	}, nil
}

// NewRawCommand creates a [Command] for the given executable and arguments as
// they are. It runs in the process group of the caller, so it may interact
// with the terminal.
func NewRawCommand(executable string, args ...string) (*Command, error) {
	if executable == "" {
		return nil, ErrNoExecutable
	}

	return &Command{
		name: executable,
		args: args,
	}, nil
}

// Name returns the executable of the command.
func (c *Command) Name() string {
	return c.name
}

// Args returns the arguments of the command.
func (c *Command) Args() []string {
	return c.args
}

// String returns the full command line.
func (c *Command) String() string {
	return strings.Join(append([]string{c.name}, c.args...), " ")
}

// Run runs the command and waits for it to terminate. Input is read from the
// given reader and output is written into the given writers. If any of them is
// nil, the null device is used.
//
// If the given context is done before the command terminates, the command is
// killed and reaped. A [Command] created by [NewCommand] runs in its own
// process group, which is killed as a whole.
//
// It returns the exit code of the command, which is [exitcode.None] if it was
// terminated by a signal. Any other error is returned as [CommandError].
func (c *Command) Run(
	ctx context.Context,
	stdin io.Reader,
	stdout, stderr io.Writer,
) (int, error) {
	cmd := c.execCommand(ctx)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	slog.Debug("Running command", slog.String("command", cmd.String()))

	err := cmd.Run()

	// A context error takes precedence over the exit code of a killed
	// process.
	if ctxErr := ctx.Err(); ctxErr != nil && err != nil {
		return exitcode.None, &CommandError{Err: ctxErr}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	if err != nil {
		return exitcode.None, &CommandError{Err: err}
	}

	return cmd.ProcessState.ExitCode(), nil
}

func (c *Command) execCommand(ctx context.Context) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.name, c.args...)
	cmd.WaitDelay = waitDelay

	if c.processGroup {
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
		cmd.Cancel = func() error {
			return killProcessGroup(cmd.Process.Pid)
		}
	}

	return cmd
}

// killProcessGroup kills all processes of the group led by the given pid.
func killProcessGroup(pid int) error {
	err := unix.Kill(-pid, unix.SIGKILL)
	if errors.Is(err, unix.ESRCH) {
		return os.ErrProcessDone
	}

	return err //nolint:wrapcheck
}
