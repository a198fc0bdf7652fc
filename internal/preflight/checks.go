package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"mediamend/internal/config"
	"mediamend/internal/deps"
	"mediamend/internal/exiftool"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckDirectoryReadable verifies that the directory exists and can be listed.
func CheckDirectoryReadable(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "read ok")
}

func checkDirectory(name, path string, mode uint32, okDetail string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "path not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}

// CheckWritableParent verifies that a file at path could be created. Missing
// parent directories are fine as long as the nearest existing ancestor is
// writable, since writers create them on demand.
func CheckWritableParent(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "path not configured"}
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	dir := filepath.Dir(path)
	for {
		info, err := os.Stat(dir)
		if err == nil {
			if !info.IsDir() {
				return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s is not a directory)", path, dir)}
			}
			if err := unix.Access(dir, unix.W_OK|unix.X_OK); err != nil {
				return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s not writable: %v)", path, dir, err)}
			}
			return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (writable)", path)}
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat %s: %v)", path, dir, err)}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: no existing ancestor)", path)}
		}
		dir = parent
	}
}

// CheckSystemDeps evaluates the external binaries required by cfg.
// Both the run preflight and the status command use this list. ExifTool is
// reported as optional when the run will not embed.
func CheckSystemDeps(cfg *config.Config, needsExiftool bool) []deps.Status {
	exiftoolReq := deps.Requirement{
		Name:        "ExifTool",
		Command:     cfg.ExiftoolBinary(),
		Description: "Required for metadata embedding",
		VersionArgs: []string{"-ver"},
	}
	if !needsExiftool {
		exiftoolReq.Description = "Metadata embedding (not used by this run)"
		exiftoolReq.Optional = true
	}
	requirements := []deps.Requirement{exiftoolReq}
	fileReq := deps.Requirement{
		Name:        "file",
		Command:     cfg.FileBinary(),
		Description: "Content sniffing with the libmagic backend",
		VersionArgs: []string{"--version"},
		Optional:    true,
	}
	if cfg.Sniffer.Backend == config.SnifferFile {
		fileReq.Description = "Required for content sniffing (sniffer.backend = file)"
		fileReq.Optional = false
	}
	requirements = append(requirements, fileReq)
	return deps.CheckBinaries(requirements)
}

// CheckExiftool starts a stay-open exiftool session to prove the configured
// binary is a working exiftool rather than merely present on PATH.
func CheckExiftool(binary string) Result {
	const name = "ExifTool session"
	if err := exiftool.Handshake(binary); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: "stay_open handshake ok"}
}

// FromStatus converts a dependency status into a check result. Missing optional
// binaries pass with an "optional" detail.
func FromStatus(status deps.Status) Result {
	name := status.Name
	if status.Available {
		detail := status.Command
		if status.Version != "" {
			detail = fmt.Sprintf("%s (version %s)", status.Command, status.Version)
		}
		return Result{Name: name, Passed: true, Detail: detail}
	}
	if status.Optional {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("optional, %s", status.Detail)}
	}
	return Result{Name: name, Detail: status.Detail}
}
