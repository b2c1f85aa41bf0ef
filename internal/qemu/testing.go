// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmulatorScript behaves like QEMU booting a test kernel. The outcome is
// chosen by the file name of the image.
const fakeEmulatorScript = `#!/bin/sh
image=""
serial=""
while [ $# -gt 0 ]; do
	case "$1" in
	-drive) image="${2#format=raw,file=}"; shift ;;
	-serial) serial="${2#file:}"; shift ;;
	esac
	shift
done
case "$(basename "$image")" in
*timeout*) sleep 30; exit 1 ;;
*signal*) kill -9 $$ ;;
*complete*) exit 5 ;;
*panic*) printf 'panicked\n' > "$serial"; exit 7 ;;
*fail*) printf 'failed\nboom\n' > "$serial"; exit 1 ;;
*garbage*) printf 'garbage\n' > "$serial"; exit 1 ;;
*) printf 'ok\n' > "$serial"; exit 1 ;;
esac
`

// WriteFakeEmulator writes an executable shell script into a temporary
// directory that can be used in place of QEMU and returns its path.
//
// Depending on the file name of the image, it behaves like a test kernel that
// hangs ("timeout"), is killed ("signal"), completes without markers
// ("complete"), fails without marker ("panic"), fails ("fail"), writes
// unexpected output ("garbage") or succeeds (any other name).
func WriteFakeEmulator(tb testing.TB) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "qemu-fake")
	err := os.WriteFile(path, []byte(fakeEmulatorScript), 0o755) //nolint:gosec
	require.NoError(tb, err)

	return path
}

// ArgumentValueAssertionFunc returns an [assert.ComparisonAssertionFunc] that
// can be used to assert the value of the Argument with the given name.
func ArgumentValueAssertionFunc(
	name string,
	assertion assert.ComparisonAssertionFunc,
) assert.ComparisonAssertionFunc {
	return func(t assert.TestingT, arg1, arg2 any, arg3 ...any) bool {
		args, ok := arg1.([]Argument)
		if !assert.True(t, ok, "first argument should be []Argument") {
			return false
		}

		for _, arg := range args {
			if name != arg.name {
				continue
			}

			return assertion(t, arg.value, arg2, arg3...)
		}

		return assert.Fail(t, "Argument not found")
	}
}
