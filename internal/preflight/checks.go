package preflight

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"mediameta/internal/config"
	"mediameta/internal/deps"
	"mediameta/internal/geocode"
	"mediameta/internal/media/ffprobe"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
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
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckGazetteer verifies the cities file for precision is present and
// readable. Missing admin tables are not reported; the index loads without
// them.
func CheckGazetteer(dir string, precision int) Result {
	const name = "Gazetteer"

	path, err := geocode.LocateGazetteer(dir, precision)
	if err != nil {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("%v (place names disabled)", err)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Optional: true, Detail: filepath.Base(path)}
}

// CheckSystemDeps evaluates the executables mediameta shells out to. A
// present ffprobe is also asked for its version so a broken install is
// caught before the first probe.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []Result {
	requirements := []deps.Requirement{
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Required for video container inspection",
		},
	}

	var results []Result
	for _, status := range deps.CheckBinaries(requirements) {
		result := Result{Name: status.Name, Optional: status.Optional, Detail: status.Detail}
		if status.Available {
			result.Passed, result.Detail = checkFFprobeVersion(ctx, status.Path)
		}
		results = append(results, result)
	}
	return results
}

func checkFFprobeVersion(ctx context.Context, path string) (bool, string) {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	version, err := ffprobe.Version(checkCtx, path)
	if err != nil {
		return false, fmt.Sprintf("%s (error: %v)", path, err)
	}
	if version = strings.TrimSpace(version); version == "" {
		return true, path
	}
	return true, fmt.Sprintf("%s (%s)", path, version)
}
