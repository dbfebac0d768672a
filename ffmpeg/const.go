// Package ffmpeg provides functionality for detecting and working with FFmpeg.
// It includes tools for probing video metadata, extracting still frames at a
// computed sampling rate, and cleaning up extracted frame directories.
package ffmpeg

import (
	"fmt"
	"time"
)

// Private constants (alphabetical)
const (
	// defaultTimeout is the standard timeout for FFmpeg housekeeping calls
	// such as version detection. Probing and extraction run without one.
	defaultTimeout = 30 * time.Second

	// errorPrefix is used as a prefix for all error messages from this package.
	// This ensures consistent error formatting across the package.
	errorPrefix = "ffmpeg: "

	// framePattern is the zero-padded file name pattern handed to FFmpeg
	// for numbered frame images.
	framePattern = "frame_%04d.png"
)

// Public constants (alphabetical)
const (
	// FallbackFrameRate is the sampling rate used when a frame count was
	// requested but the source duration is unknown or non-positive. One
	// frame per second materially changes the number of extracted frames,
	// so its use is always accompanied by a warning log.
	FallbackFrameRate = 1.0

	// FramesDirName is the conventional name of the directory that holds
	// extracted frames, both as the default output location next to a
	// video and as the cleanup target resolved inside a parent directory.
	FramesDirName = "frames"
)

// Public functions (alphabetical)

// FormatError creates a standardized error message with the package prefix.
// It ensures all errors from this package have a consistent format and can be
// easily identified as originating from the ffmpeg package.
func FormatError(format string, args ...interface{}) error {
	return fmt.Errorf(errorPrefix+format, args...)
}

// GetDefaultTimeout returns the standard timeout duration for FFmpeg
// housekeeping operations.
func GetDefaultTimeout() time.Duration {
	return defaultTimeout
}
