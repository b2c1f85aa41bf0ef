// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/aibor/bootimage/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("BOOTIMAGE_TEST_DIR", "/srv/kernel")

	tests := []struct {
		name        string
		content     string
		expected    func(cfg *config.Config)
		expectedErr error
	}{
		{
			name:     "empty",
			content:  "",
			expected: func(*config.Config) {},
		},
		{
			name: "full",
			content: `
bootloader: bootloader/target/bootloader
output: disk.img
minimum-image-size: 1048576
package: assets
run-command: ["qemu-system-i386", "-hda", "{}"]
run-args: ["-serial", "stdio"]
test-args: ["-m", "512"]
test-timeout: 300
test-parallelism: 2
qemu: qemu-system-i386
`,
			expected: func(cfg *config.Config) {
				cfg.Bootloader = "bootloader/target/bootloader"
				cfg.Output = "disk.img"
				cfg.MinimumImageSize = 1 << 20
				cfg.Package = "assets"
				cfg.RunCommand = []string{"qemu-system-i386", "-hda", "{}"}
				cfg.RunArgs = []string{"-serial", "stdio"}
				cfg.TestArgs = []string{"-m", "512"}
				cfg.TestTimeout = 300
				cfg.TestParallelism = 2
				cfg.Qemu = "qemu-system-i386"
			},
		},
		{
			name:    "partial keeps defaults",
			content: "run-args: [\"-s\"]\n",
			expected: func(cfg *config.Config) {
				cfg.RunArgs = []string{"-s"}
			},
		},
		{
			name:    "environment expansion",
			content: "bootloader: ${BOOTIMAGE_TEST_DIR}/bootloader\n",
			expected: func(cfg *config.Config) {
				cfg.Bootloader = "/srv/kernel/bootloader"
			},
		},
		{
			name:    "unset variables are kept",
			content: "run-command: [\"/bin/sh\", \"-c\", \"echo \\\"$@\\\" $BOOTIMAGE_TEST_UNSET\"]\n",
			expected: func(cfg *config.Config) {
				cfg.RunCommand = []string{"/bin/sh", "-c", `echo "$@" $BOOTIMAGE_TEST_UNSET`}
			},
		},
		{
			name:    "unset braced variables are kept",
			content: "run-command: [\"/bin/sh\", \"-c\", \"echo ${BOOTIMAGE_TEST_UNSET}bar $$ $1\"]\n",
			expected: func(cfg *config.Config) {
				cfg.RunCommand = []string{"/bin/sh", "-c", `echo ${BOOTIMAGE_TEST_UNSET}bar $$ $1`}
			},
		},
		{
			name:    "braced variable followed by text",
			content: "package: ${BOOTIMAGE_TEST_DIR}pkg\n",
			expected: func(cfg *config.Config) {
				cfg.Package = "/srv/kernelpkg"
			},
		},
		{
			name:        "unknown field",
			content:     "bootloder: typo\n",
			expectedErr: config.ErrDecode,
		},
		{
			name:        "wrong type",
			content:     "test-timeout: soon\n",
			expectedErr: config.ErrDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{
				config.DefaultFile: &fstest.MapFile{Data: []byte(tt.content)},
			}

			actual, err := config.Load(fsys, config.DefaultFile)
			require.ErrorIs(t, err, tt.expectedErr)

			if tt.expectedErr != nil {
				return
			}

			expected := config.Default()
			tt.expected(&expected)
			assert.Equal(t, expected, actual)
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	actual, err := config.Load(fstest.MapFS{}, config.DefaultFile)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), actual)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.DefaultFile)
	content := "bootloader: boot/loader\npackage: /abs/package\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	actual, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "boot/loader"), actual.Bootloader)
	assert.Equal(t, "/abs/package", actual.Package)
	assert.Empty(t, actual.Output)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(cfg *config.Config)
		expectedErr error
	}{
		{
			name:   "default",
			modify: func(*config.Config) {},
		},
		{
			name:        "empty run command",
			modify:      func(cfg *config.Config) { cfg.RunCommand = nil },
			expectedErr: config.ErrInvalid,
		},
		{
			name:        "zero timeout",
			modify:      func(cfg *config.Config) { cfg.TestTimeout = 0 },
			expectedErr: config.ErrInvalid,
		},
		{
			name:        "negative parallelism",
			modify:      func(cfg *config.Config) { cfg.TestParallelism = -1 },
			expectedErr: config.ErrInvalid,
		},
		{
			name:        "empty qemu",
			modify:      func(cfg *config.Config) { cfg.Qemu = "" },
			expectedErr: config.ErrInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.modify(&cfg)

			require.ErrorIs(t, cfg.Validate(), tt.expectedErr)
		})
	}
}

func TestConfig_TestTimeoutDuration(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, 60*time.Second, cfg.TestTimeoutDuration())
}

func TestConfig_RunCommandFor(t *testing.T) {
	cfg := config.Default()
	cfg.RunArgs = []string{"-serial", "stdio"}

	expected := []string{
		"qemu-system-x86_64",
		"-drive", "format=raw,file=/tmp/bootimage-kernel.bin",
		"-serial", "stdio",
		"-s",
	}
	assert.Equal(t, expected, cfg.RunCommandFor("/tmp/bootimage-kernel.bin", "-s"))
	assert.Equal(t, "format=raw,file={}", cfg.RunCommand[2], "template must not be modified")
}
