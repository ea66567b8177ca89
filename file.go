package dotedit

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bodgit/dotedit/bitmap"
	"github.com/bodgit/dotedit/canvas"
	"github.com/bodgit/dotedit/palette"
)

// Load reads an image file.
func Load(path string) (*canvas.Canvas, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	c, err := bitmap.Decode(bufio.NewReader(f))
	if err != nil {
		if errors.Is(err, ErrInvalidFormat) {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}

	return c, nil
}

// Save writes an image file. The image is written to a temporary file in
// the same directory which then replaces path, so a failed save never
// leaves a truncated file behind.
func Save(path string, c *canvas.Canvas) error {
	return writeFile(path, func(w io.Writer) error {
		return bitmap.Encode(w, c)
	})
}

// ReadPalette reads a palette text file. Entries not present in the file
// keep the value from base.
func ReadPalette(path string, base palette.Palette) (palette.Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return base, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	p, err := palette.ReadHex(f, base)
	if err != nil {
		if errors.Is(err, ErrInvalidPalette) || errors.Is(err, palette.ErrInvalidHex) {
			return base, fmt.Errorf("%s: %w", path, err)
		}
		return base, &IOError{Op: "read", Path: path, Err: err}
	}

	return p, nil
}

// WritePalette writes a palette text file.
func WritePalette(path string, p palette.Palette) error {
	return writeFile(path, func(w io.Writer) error {
		return palette.WriteHex(w, p)
	})
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := fn(f); err != nil {
		f.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		return &IOError{Op: "chmod", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}

	if err := os.Rename(tmp, path); err != nil {
		return &IOError{Op: "rename", Path: path, Err: err}
	}

	return nil
}
