package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrTargetExists reports that a rename was refused because the destination exists.
var ErrTargetExists = fmt.Errorf("rename target exists: %w", fs.ErrExist)

// Exists reports whether path names an existing entry without following symlinks.
func Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// RenameNoReplace moves from to to, failing with ErrTargetExists instead of
// replacing an existing destination.
func RenameNoReplace(from, to string) error {
	exists, err := Exists(to)
	if err != nil {
		return fmt.Errorf("stat %s: %w", to, err)
	}
	if exists {
		return fmt.Errorf("%s: %w", to, ErrTargetExists)
	}
	return renameNoReplace(from, to)
}
