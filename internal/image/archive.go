// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: MIT

package image

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cavaliergopher/cpio"
)

const numLinks = 2

// CPIOWriter writes package archives in the CPIO "newc" format.
type CPIOWriter struct {
	cpioWriter *cpio.Writer
}

// NewCPIOWriter creates a new archive writer.
func NewCPIOWriter(w io.Writer) *CPIOWriter {
	return &CPIOWriter{cpio.NewWriter(w)}
}

// Close writes the trailer and flushes the archive.
func (w *CPIOWriter) Close() error {
	err := w.cpioWriter.Close()
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return nil
}

func (w *CPIOWriter) writeHeader(hdr *cpio.Header) error {
	err := w.cpioWriter.WriteHeader(hdr)
	if err != nil {
		return fmt.Errorf("write header for %s: %w", hdr.Name, err)
	}

	return nil
}

// WriteDirectory adds a directory entry for the given path.
func (w *CPIOWriter) WriteDirectory(path string, mode fs.FileMode) error {
	return w.writeHeader(&cpio.Header{
		Name:  path,
		Mode:  cpio.TypeDir | cpio.FileMode(mode.Perm()),
		Links: numLinks,
	})
}

// WriteLink adds a symbolic link for the given path pointing to the given
// target.
func (w *CPIOWriter) WriteLink(path, target string) error {
	err := w.writeHeader(&cpio.Header{
		Name: path,
		Mode: cpio.TypeSymlink | cpio.ModePerm,
		Size: int64(len(target)),
	})
	if err != nil {
		return err
	}

	// Body of a link is the path of the target file.
	_, err = w.cpioWriter.Write([]byte(target))
	if err != nil {
		return fmt.Errorf("write body for %s: %w", path, err)
	}

	return nil
}

// WriteRegular copies the content of source into the archive.
func (w *CPIOWriter) WriteRegular(path string, source fs.File) error {
	info, err := source.Stat()
	if err != nil {
		return fmt.Errorf("read info: %w", err)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}

	err = w.writeHeader(&cpio.Header{
		Name:  path,
		Mode:  cpio.TypeReg | cpio.FileMode(info.Mode().Perm()),
		Size:  info.Size(),
		Links: 1,
	})
	if err != nil {
		return err
	}

	_, err = io.Copy(w.cpioWriter, source)
	if err != nil {
		return fmt.Errorf("write body for %s: %w", path, err)
	}

	return nil
}

// WriteArchive writes the directory tree rooted at dir as CPIO archive into
// the given writer. Paths in the archive are relative to dir. Symbolic links
// are not followed.
func WriteArchive(dst io.Writer, dir string) error {
	writer := NewCPIOWriter(dst)

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name, err := filepath.Rel(dir, path)
		if err != nil {
			return fmt.Errorf("relative path: %w", err)
		}

		// The root itself is implicit.
		if name == "." {
			return nil
		}

		name = filepath.ToSlash(name)

		switch entry.Type() {
		case fs.ModeDir:
			info, err := entry.Info()
			if err != nil {
				return fmt.Errorf("read info: %w", err)
			}

			return writer.WriteDirectory(name, info.Mode())
		case fs.ModeSymlink:
			target, err := os.Readlink(path)
			if err != nil {
				return fmt.Errorf("read link: %w", err)
			}

			return writer.WriteLink(name, target)
		case 0:
			file, err := os.Open(path)
			if err != nil {
				return err //nolint:wrapcheck
			}
			defer file.Close()

			return writer.WriteRegular(name, file)
		default:
			return fmt.Errorf("%w: %s", ErrNotRegularFile, path)
		}
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", dir, err)
	}

	return writer.Close()
}

// CreateArchiveFile writes the directory tree rooted at dir as CPIO archive
// into a new temporary file and returns its path. The caller is responsible
// for removing the file.
func CreateArchiveFile(dir string) (string, error) {
	file, err := os.CreateTemp("", "bootimage-package-*.cpio")
	if err != nil {
		return "", fmt.Errorf("create archive file: %w", err)
	}

	err = WriteArchive(file, dir)
	if err != nil {
		_ = file.Close()
		_ = os.Remove(file.Name())

		return "", err
	}

	err = file.Close()
	if err != nil {
		_ = os.Remove(file.Name())
		return "", fmt.Errorf("close archive file: %w", err)
	}

	return file.Name(), nil
}
