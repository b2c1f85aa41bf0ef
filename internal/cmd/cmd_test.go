// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aibor/bootimage/internal/cmd"
	"github.com/aibor/bootimage/internal/image"
	"github.com/aibor/bootimage/internal/qemu"
	"github.com/aibor/bootimage/internal/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var bootCode = []byte{0xfa, 0x31, 0xc0, 0x8e, 0xd8, 0x55, 0xaa}

type project struct {
	dir        string
	config     string
	bootloader string
}

// newProject creates a directory with a bootloader, a config file and the
// given kernel executables.
func newProject(t *testing.T, config string, kernels ...string) project {
	t.Helper()

	dir := t.TempDir()
	p := project{
		dir:        dir,
		config:     filepath.Join(dir, "bootimage.yaml"),
		bootloader: filepath.Join(dir, "bootloader"),
	}

	elfData := sys.BuildELF(t, sys.ELFSection{Name: sys.BootloaderSection, Data: bootCode})
	require.NoError(t, os.WriteFile(p.bootloader, elfData, 0o644))

	config = strings.ReplaceAll(config, "$BOOTLOADER", p.bootloader)
	require.NoError(t, os.WriteFile(p.config, []byte(config), 0o644))

	for _, kernel := range kernels {
		path := filepath.Join(dir, kernel)
		require.NoError(t, os.WriteFile(path, []byte("kernel "+kernel), 0o755))
	}

	return p
}

func (p project) path(name string) string {
	return filepath.Join(p.dir, name)
}

type result struct {
	exitCode int
	stdout   string
	stderr   string
}

func run(t *testing.T, args ...string) result {
	t.Helper()

	var stdout, stderr bytes.Buffer

	exitCode := cmd.Run(t.Context(), args, cmd.IO{
		Stdin:  strings.NewReader(""),
		Stdout: &stdout,
		Stderr: &stderr,
	})

	return result{
		exitCode: exitCode,
		stdout:   stdout.String(),
		stderr:   stderr.String(),
	}
}

func TestRun_Build(t *testing.T) {
	p := newProject(t, "bootloader: $BOOTLOADER\n", "kernel")

	res := run(t, "build", "--config", p.config, p.path("kernel"))
	require.Equal(t, 0, res.exitCode, res.stderr)

	imagePath := p.path("bootimage-kernel.bin")
	assert.Contains(t, res.stdout, "Created bootimage for `"+p.path("kernel")+"` at `"+imagePath+"`")

	data, err := os.ReadFile(imagePath)
	require.NoError(t, err)
	require.Len(t, data, len(bootCode)+2*image.BlockSize)
	assert.Equal(t, bootCode, data[:len(bootCode)])
}

func TestRun_BuildFlags(t *testing.T) {
	p := newProject(t, "minimum-image-size: 4096\n", "kernel")
	output := p.path("disk.img")

	res := run(t, "build",
		"--config", p.config,
		"--bootloader", p.bootloader,
		"--output", output,
		p.path("kernel"),
	)
	require.Equal(t, 0, res.exitCode, res.stderr)

	info, err := os.Stat(output)
	require.NoError(t, err)
	assert.EqualValues(t, 4096, info.Size())
}

func TestRun_BuildErrors(t *testing.T) {
	tests := []struct {
		name          string
		config        string
		args          func(p project) []string
		expectedError string
	}{
		{
			name:   "no bootloader",
			config: "",
			args: func(p project) []string {
				return []string{p.path("kernel")}
			},
			expectedError: "no bootloader given",
		},
		{
			name:   "output with multiple kernels",
			config: "bootloader: $BOOTLOADER\noutput: disk.img\n",
			args: func(p project) []string {
				return []string{p.path("kernel"), p.path("other")}
			},
			expectedError: "output path can only be used with a single kernel",
		},
		{
			name:   "same kernel twice",
			config: "bootloader: $BOOTLOADER\n",
			args: func(p project) []string {
				return []string{p.path("kernel"), p.path("kernel")}
			},
			expectedError: "kernels share the same image path",
		},
		{
			name:   "missing kernel",
			config: "bootloader: $BOOTLOADER\n",
			args: func(p project) []string {
				return []string{p.path("missing")}
			},
			expectedError: "open kernel",
		},
		{
			name:   "bootloader without section",
			config: "bootloader: kernel\n",
			args: func(p project) []string {
				return []string{p.path("other")}
			},
			expectedError: "read bootloader",
		},
		{
			name:   "invalid config",
			config: "bootloder: typo\n",
			args: func(p project) []string {
				return []string{p.path("kernel")}
			},
			expectedError: "load config",
		},
		{
			name:   "no kernel",
			config: "bootloader: $BOOTLOADER\n",
			args: func(project) []string {
				return nil
			},
			expectedError: "parse args",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProject(t, tt.config, "kernel", "other")
			args := append([]string{"build", "--config", p.config}, tt.args(p)...)

			res := run(t, args...)
			assert.Equal(t, -1, res.exitCode)
			assert.Contains(t, res.stderr, tt.expectedError)
		})
	}
}

func TestRun_MissingConfigFile(t *testing.T) {
	p := newProject(t, "", "kernel")

	res := run(t, "build", "--config", p.path("missing.yaml"), p.path("kernel"))
	assert.Equal(t, -1, res.exitCode)
	assert.Contains(t, res.stderr, "config file")
}

func TestRun_Run(t *testing.T) {
	config := `bootloader: $BOOTLOADER
run-command: ["/bin/sh", "-c", "test -s {} && echo \"$@\" && exit 3", "sh"]
run-args: ["-serial", "stdio"]
`
	p := newProject(t, config, "kernel")

	res := run(t, "run", "--config", p.config, p.path("kernel"), "-s", "extra")
	assert.Equal(t, 3, res.exitCode, res.stderr)
	assert.Equal(t, "-serial stdio -s extra\n", res.stdout)
}

func TestRun_RunSuccess(t *testing.T) {
	config := `bootloader: $BOOTLOADER
run-command: ["/bin/sh", "-c", "test -s {}"]
`
	p := newProject(t, config, "kernel")

	res := run(t, "run", "--config", p.config, p.path("kernel"))
	assert.Equal(t, 0, res.exitCode, res.stderr)
}

func TestRun_Test(t *testing.T) {
	emulator := qemu.WriteFakeEmulator(t)
	config := "bootloader: $BOOTLOADER\nqemu: " + emulator + "\n"

	t.Run("all succeed", func(t *testing.T) {
		p := newProject(t, config, "test-a", "test-b", "kernel")

		res := run(t, "test", "--config", p.config, p.dir)
		require.Equal(t, 0, res.exitCode, res.stderr)

		assert.Equal(t, "OK: test-a\nOK: test-b\n\nAll tests succeeded.\n", res.stdout)
		assert.NoFileExists(t, p.path("bootimage-kernel.bin"))
		assert.FileExists(t, p.path("bootimage-test-a.bin"))
		assert.FileExists(t, p.path("bootimage-test-a.bin-output.txt"))
	})

	t.Run("failures", func(t *testing.T) {
		p := newProject(t, config, "test-ok", "test-fail", "test-timeout")

		res := run(t, "test", "--config", p.config, "--timeout", "1", p.dir)
		require.Equal(t, 1, res.exitCode, res.stderr)

		assert.Contains(t, res.stdout, "OK: test-ok\n")
		assert.Contains(t, res.stderr, "FAIL: test-fail: Failed\n    boom\n")
		assert.Contains(t, res.stderr, "FAIL: test-timeout: TimedOut (timed out)\n")
		assert.True(t, strings.HasSuffix(res.stderr,
			"The following tests failed:\n"+
				"    test-fail: Failed\n"+
				"    test-timeout: TimedOut\n",
		), res.stderr)
	})

	t.Run("explicit kernel", func(t *testing.T) {
		p := newProject(t, config, "test-a", "test-garbage")

		res := run(t, "test", "--config", p.config, p.path("test-garbage"))
		require.Equal(t, 1, res.exitCode, res.stderr)

		assert.Equal(t, "\n", res.stdout)
		assert.Contains(t, res.stderr, "    test-garbage: Invalid\n")
	})

	t.Run("no tests", func(t *testing.T) {
		p := newProject(t, config, "kernel")

		res := run(t, "test", "--config", p.config, p.dir)
		assert.Equal(t, -1, res.exitCode)
		assert.Contains(t, res.stderr, "no test targets found")
	})

	t.Run("same image path", func(t *testing.T) {
		p := newProject(t, config, "test-a", "test-a.elf")

		res := run(t, "test", "--config", p.config, p.dir)
		assert.Equal(t, -1, res.exitCode)
		assert.Contains(t, res.stderr, "kernels share the same image path")
		assert.NoFileExists(t, p.path("bootimage-test-a.bin"))
		assert.NoFileExists(t, p.path("bootimage-test-a.bin-output.txt"))
	})

	t.Run("missing emulator", func(t *testing.T) {
		p := newProject(t, config, "test-a")

		res := run(t, "test",
			"--config", p.config,
			"--qemu", p.path("missing"),
			p.dir,
		)
		assert.Equal(t, -1, res.exitCode)
		assert.Contains(t, res.stderr, "target test-a")
	})
}

func TestRun_Flags(t *testing.T) {
	t.Run("help", func(t *testing.T) {
		res := run(t, "--help")
		assert.Equal(t, 0, res.exitCode)
		assert.Contains(t, res.stdout, "bootimage")
	})

	t.Run("unknown flag", func(t *testing.T) {
		res := run(t, "build", "--unknown")
		assert.Equal(t, -1, res.exitCode)
		assert.Contains(t, res.stderr, "parse flags")
	})
}
