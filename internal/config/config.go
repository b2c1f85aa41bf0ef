// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aibor/bootimage/internal/qemu"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the name of the config file looked up in the working
// directory.
const DefaultFile = "bootimage.yaml"

// ImagePlaceholder is replaced with the image path in the run command.
const ImagePlaceholder = "{}"

// DefaultTestTimeout is the default time limit for a test run in seconds.
const DefaultTestTimeout = 60

// Config is the project configuration.
type Config struct {
	// Bootloader is the path to the bootloader executable.
	Bootloader string `yaml:"bootloader"`

	// Output overrides the default image path.
	Output string `yaml:"output"`

	// MinimumImageSize is the minimum size of the image in bytes.
	MinimumImageSize uint64 `yaml:"minimum-image-size"`

	// Package is the optional path to a file or directory appended to the
	// kernel.
	Package string `yaml:"package"`

	// RunCommand is the command used to run an image. Every [ImagePlaceholder]
	// is replaced with the path to the image.
	RunCommand []string `yaml:"run-command"`

	// RunArgs are appended to the RunCommand.
	RunArgs []string `yaml:"run-args"`

	// TestArgs are additional QEMU arguments for test runs.
	TestArgs []string `yaml:"test-args"`

	// TestTimeout is the time limit for each test run in seconds.
	TestTimeout uint64 `yaml:"test-timeout"`

	// TestParallelism is the maximum number of concurrent test runs. Zero
	// means number of CPUs.
	TestParallelism int `yaml:"test-parallelism"`

	// Qemu is the QEMU binary used for test runs.
	Qemu string `yaml:"qemu"`
}

// Default returns the default [Config].
func Default() Config {
	return Config{
		RunCommand: []string{
			qemu.DefaultExecutable,
			"-drive",
			"format=raw,file=" + ImagePlaceholder,
		},
		TestTimeout: DefaultTestTimeout,
		Qemu:        qemu.DefaultExecutable,
	}
}

// Load reads the config file with the given name from the given file system.
// Fields that are not present keep their default value. If the file does not
// exist, the default config is returned.
//
// Environment variables in the file are expanded. References to variables
// that are not set are kept as they are, so shell scripts in commands work.
func Load(fsys fs.FS, name string) (Config, error) {
	cfg := Default()

	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}

		return cfg, fmt.Errorf("read file: %w", err)
	}

	decoder := yaml.NewDecoder(strings.NewReader(expandEnv(string(data))))
	decoder.KnownFields(true)

	err = decoder.Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("%w %s: %w", ErrDecode, name, err)
	}

	return cfg, nil
}

// envReference matches $NAME and ${NAME}.
var envReference = regexp.MustCompile(`\$(?:\{([A-Za-z_][A-Za-z0-9_]*)\}|([A-Za-z_][A-Za-z0-9_]*))`)

// expandEnv replaces references to set environment variables with their
// values. All other references are kept exactly as written.
func expandEnv(s string) string {
	return envReference.ReplaceAllStringFunc(s, func(ref string) string {
		match := envReference.FindStringSubmatch(ref)

		name := match[1]
		if name == "" {
			name = match[2]
		}

		value, exists := os.LookupEnv(name)
		if !exists {
			return ref
		}

		return value
	})
}

// LoadFile reads the config file at the given path. Relative paths in the
// config are resolved relative to the directory of the file.
func LoadFile(path string) (Config, error) {
	dir := filepath.Dir(path)

	cfg, err := Load(os.DirFS(dir), filepath.Base(path))
	if err != nil {
		return cfg, err
	}

	cfg.ResolvePaths(dir)

	return cfg, nil
}

// ResolvePaths makes relative file paths absolute by joining them with the
// given directory.
func (c *Config) ResolvePaths(dir string) {
	for _, path := range []*string{&c.Bootloader, &c.Output, &c.Package} {
		if *path != "" && !filepath.IsAbs(*path) {
			*path = filepath.Join(dir, *path)
		}
	}
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if len(c.RunCommand) == 0 || c.RunCommand[0] == "" {
		return fmt.Errorf("%w: empty run-command", ErrInvalid)
	}

	if c.TestTimeout == 0 {
		return fmt.Errorf("%w: test-timeout must be positive", ErrInvalid)
	}

	if c.TestParallelism < 0 {
		return fmt.Errorf("%w: test-parallelism must not be negative", ErrInvalid)
	}

	if c.Qemu == "" {
		return fmt.Errorf("%w: empty qemu", ErrInvalid)
	}

	return nil
}

// TestTimeoutDuration returns the test timeout as [time.Duration].
func (c *Config) TestTimeoutDuration() time.Duration {
	return time.Duration(c.TestTimeout) * time.Second
}

// RunCommandFor returns the run command for the given image path followed by
// the run args and the given extra args.
func (c *Config) RunCommandFor(image string, extraArgs ...string) []string {
	command := make([]string, 0, len(c.RunCommand)+len(c.RunArgs)+len(extraArgs))

	for _, arg := range c.RunCommand {
		command = append(command, strings.ReplaceAll(arg, ImagePlaceholder, image))
	}

	command = append(command, c.RunArgs...)

	return append(command, extraArgs...)
}
