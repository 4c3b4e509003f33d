package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Errors reported by Prepare. Check with errors.Is.
var (
	ErrInputMissing = errors.New("input file does not exist")
	ErrOutputLocked = errors.New("output file is locked by another program")
)

// Prepare validates c and readies the filesystem for a run: the input must
// exist, the output must be writable, and the output directory is created if
// missing. Paths in the returned Config are absolute.
func Prepare(c Config) (Config, error) {
	if err := c.Validate(); err != nil {
		return c, err
	}

	var err error
	if c.InputPath, err = filepath.Abs(c.InputPath); err != nil {
		return c, err
	}
	if c.OutputPath, err = filepath.Abs(c.OutputPath); err != nil {
		return c, err
	}

	if err := CheckInput(c.InputPath); err != nil {
		return c, err
	}
	if !c.Force {
		if err := CheckWriteLock(c.OutputPath); err != nil {
			return c, err
		}
	}
	if err := EnsureDir(c.OutputPath); err != nil {
		return c, err
	}
	return c, nil
}

// CheckInput verifies path names an existing regular file.
func CheckInput(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrInputMissing, path)
	}
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrInputMissing, path)
	}
	return nil
}

// CheckWriteLock fails if an existing file at path cannot be opened for
// writing, typically because a spreadsheet program holds it open.
func CheckWriteLock(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrOutputLocked, path, err)
	}
	return f.Close()
}

// EnsureDir creates the parent directory of path.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	return nil
}
