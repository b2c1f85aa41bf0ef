// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package image

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aibor/bootimage/internal/sys"
)

// Spec describes a single image build.
type Spec struct {
	// Bootloader is the raw bootloader code.
	Bootloader []byte

	// Kernel is the path to the kernel executable.
	Kernel string

	// Package is the optional path to a file or directory that is appended to
	// the kernel. A directory is added as CPIO archive.
	Package string

	// Output is the optional path of the image. If empty, [DefaultPath] is
	// used.
	Output string

	// MinimumSize is the minimum size in bytes of the image. Zero disables it.
	MinimumSize uint64
}

// DefaultPath returns the default image path for the given kernel executable.
// It is located in the same directory as the kernel.
func DefaultPath(kernel string) string {
	name := "bootimage-" + sys.FileStem(kernel) + ".bin"
	return filepath.Join(filepath.Dir(kernel), name)
}

// OutputPath returns the path the image is written to.
func (s *Spec) OutputPath() string {
	if s.Output != "" {
		return s.Output
	}

	return DefaultPath(s.Kernel)
}

// Create builds the image described by the given [Spec] and returns the path
// it was written to. An existing file is overwritten.
//
// Any error is returned as [Error] with the [Stage] it occurred in.
func Create(spec Spec) (string, error) {
	outputPath := spec.OutputPath()

	kernel, kernelSize, err := openSegmentSource(spec.Kernel)
	if err != nil {
		return "", &Error{Stage: StageOpenKernel, Err: err}
	}
	defer kernel.Close()

	sources := []*os.File{kernel}

	segments := []Segment{
		{Name: "kernel", Reader: kernel, Size: kernelSize},
	}

	var packageSize int64

	if spec.Package != "" {
		pkg, size, err := openPackage(spec.Package)
		if err != nil {
			return "", err
		}
		defer pkg.Close()

		packageSize = size
		sources = append(sources, pkg.File)
		segments = append(segments, Segment{
			Name:   "package",
			Reader: pkg,
			Size:   size,
		})
	}

	info, err := NewInfoBlock(uint64(kernelSize), uint64(packageSize))
	if err != nil {
		return "", &Error{Stage: StageWriteInfoBlock, Err: err}
	}

	slog.Debug("Creating disk image",
		slog.String("path", outputPath),
		slog.Int64("kernel_size", kernelSize),
		slog.Int64("package_size", packageSize))

	err = checkOutputPath(outputPath, sources...)
	if err != nil {
		return "", &Error{Stage: StageCreateOutput, Err: err}
	}

	output, err := os.Create(outputPath)
	if err != nil {
		return "", &Error{Stage: StageCreateOutput, Err: err}
	}
	defer output.Close()

	written, err := Write(output, spec.Bootloader, info, segments...)
	if err != nil {
		return "", err
	}

	err = ensureMinimumSize(output, written, spec.MinimumSize)
	if err != nil {
		return "", &Error{Stage: StageResize, Err: err}
	}

	err = output.Close()
	if err != nil {
		return "", &Error{Stage: StageCreateOutput, Err: err}
	}

	return outputPath, nil
}

// checkOutputPath returns an error if the file at the given path is one of the
// given source files. A non-existing path is fine.
func checkOutputPath(path string, sources ...*os.File) error {
	outputInfo, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	for _, source := range sources {
		sourceInfo, err := source.Stat()
		if err != nil {
			return fmt.Errorf("stat: %w", err)
		}

		if os.SameFile(outputInfo, sourceInfo) {
			return fmt.Errorf("%w: %s", ErrOutputIsSource, path)
		}
	}

	return nil
}

// ensureMinimumSize extends the file with zeros if it is smaller than the
// given minimum size. It never shrinks the file.
func ensureMinimumSize(file *os.File, written int64, minSize uint64) error {
	if minSize == 0 || uint64(written) >= minSize {
		return nil
	}

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	if uint64(info.Size()) >= minSize {
		return nil
	}

	err = file.Truncate(int64(minSize))
	if err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	return nil
}

// openSegmentSource opens the regular file at the given path and returns it
// with its size.
func openSegmentSource(path string) (*os.File, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, err //nolint:wrapcheck
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, 0, fmt.Errorf("stat: %w", err)
	}

	if !info.Mode().IsRegular() {
		_ = file.Close()
		return nil, 0, fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}

	return file, info.Size(), nil
}

// openPackage opens the package at the given path. Directories are written
// into a temporary CPIO archive first. The returned file removes a temporary
// archive on close.
func openPackage(path string) (*packageFile, int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, &Error{Stage: StageOpenPackage, Err: err}
	}

	if !info.IsDir() {
		file, size, err := openSegmentSource(path)
		if err != nil {
			return nil, 0, &Error{Stage: StageOpenPackage, Err: err}
		}

		return &packageFile{File: file}, size, nil
	}

	archivePath, err := CreateArchiveFile(path)
	if err != nil {
		return nil, 0, &Error{Stage: StageArchivePackage, Err: err}
	}

	file, size, err := openSegmentSource(archivePath)
	if err != nil {
		_ = os.Remove(archivePath)
		return nil, 0, &Error{Stage: StageOpenPackage, Err: err}
	}

	return &packageFile{File: file, temporary: true}, size, nil
}

type packageFile struct {
	*os.File
	temporary bool
}

// Close closes the file and removes it, if it is a temporary file.
func (f *packageFile) Close() error {
	err := f.File.Close()

	if f.temporary {
		err = errors.Join(err, os.Remove(f.Name()))
	}

	return err //nolint:wrapcheck
}
