// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand_ExecCommand(t *testing.T) {
	t.Run("qemu command has own process group", func(t *testing.T) {
		cmd, err := NewCommand(CommandSpec{Image: "disk.bin"})
		require.NoError(t, err)

		execCmd := cmd.execCommand(t.Context())

		require.NotNil(t, execCmd.SysProcAttr)
		assert.True(t, execCmd.SysProcAttr.Setpgid)
		assert.NotNil(t, execCmd.Cancel)
	})

	t.Run("raw command stays in caller process group", func(t *testing.T) {
		cmd, err := NewRawCommand("qemu-system-x86_64", "-serial", "stdio")
		require.NoError(t, err)

		execCmd := cmd.execCommand(t.Context())

		assert.Nil(t, execCmd.SysProcAttr)
	})
}
