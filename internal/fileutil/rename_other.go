//go:build !linux

package fileutil

import "os"

func renameNoReplace(from, to string) error {
	return os.Rename(from, to)
}
