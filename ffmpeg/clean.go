// Package ffmpeg provides functionality for detecting and working with FFmpeg.
package ffmpeg

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/torre76/framedump/logger"
)

// Private functions (alphabetical)

// framePaths lists the PNG files sitting directly inside dir. Nested
// directories are never descended into and never match themselves.
func framePaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, FormatError("error listing %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".png" {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}

// pruneFramesDir removes dir when it carries the conventional frames name
// and nothing is left inside it. Removal failures are logged, not returned,
// since the cleanup itself already succeeded.
func pruneFramesDir(dir string) {
	if !strings.EqualFold(filepath.Base(dir), FramesDirName) {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return
	}

	if err := os.RemoveAll(dir); err != nil {
		logger.Log.Warnf("Could not remove empty directory %s: %v", dir, err)
		return
	}
	logger.Log.Infof("Removed empty frames directory: %s", dir)
}

// Public functions (alphabetical)

// DeleteFrames removes extracted .png frames below targetPath and returns
// how many files were deleted. The directory to clean is the target itself
// when it is named "frames" (case-insensitively), its "frames" child when
// one exists, and the target itself otherwise. A missing target is a no-op,
// a per-file deletion failure is logged and skipped, and an emptied
// directory named "frames" is removed afterwards.
func DeleteFrames(targetPath string) (int, error) {
	info, err := os.Stat(targetPath)
	if os.IsNotExist(err) {
		logger.Log.Warnf("Path does not exist: %s, nothing to delete", targetPath)
		return 0, nil
	}
	if err != nil {
		return 0, FormatError("error inspecting %s: %w", targetPath, err)
	}

	framesDir := targetPath
	if info.IsDir() && !strings.EqualFold(filepath.Base(targetPath), FramesDirName) {
		child := filepath.Join(targetPath, FramesDirName)
		if childInfo, err := os.Stat(child); err == nil && childInfo.IsDir() {
			framesDir = child
		} else {
			logger.Log.Warnf("No %q subdirectory in %s, deleting PNG files from it directly",
				FramesDirName, targetPath)
		}
	}

	if framesDir == targetPath && !info.IsDir() {
		return 0, FormatError("resolved path is not a directory: %s: %w", framesDir, ErrInvalidInput)
	}

	paths, err := framePaths(framesDir)
	if err != nil {
		return 0, err
	}
	if len(paths) == 0 {
		logger.Log.Infof("No .png files found in %s", framesDir)
		return 0, nil
	}

	logger.Log.Infof("Deleting %d .png files from %s", len(paths), framesDir)
	deleted := 0
	for _, path := range paths {
		if err := os.Remove(path); err != nil {
			logger.Log.Errorf("Error deleting file %s: %v, skipping", path, err)
			continue
		}
		deleted++
	}

	pruneFramesDir(framesDir)
	return deleted, nil
}
