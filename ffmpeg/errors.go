// Package ffmpeg provides functionality for detecting and working with FFmpeg.
package ffmpeg

import (
	"errors"
	"fmt"
	"strings"
)

// Public variables (alphabetical)

// ErrInvalidInput reports bad parameters or malformed input data, such as a
// non-positive sampling interval, a stream without dimensions, or a cleanup
// target that is not a directory.
var ErrInvalidInput = errors.New("invalid input")

// ErrNotFound reports a file or directory that does not exist.
var ErrNotFound = errors.New("not found")

// Public types (alphabetical)

// ExternalToolError reports a failed ffmpeg or ffprobe invocation together
// with the output captured from the subprocess, so callers can log the
// tool's own diagnostics.
type ExternalToolError struct {
	// Tool is the name of the executable that failed.
	Tool string

	// Err is the underlying process error.
	Err error

	// Stdout holds the captured standard output of the subprocess.
	Stdout string

	// Stderr holds the captured standard error of the subprocess.
	Stderr string
}

// Type methods (alphabetical)

// Error renders the failure with the tool's trailing stderr line, which is
// where FFmpeg reports the actual cause.
func (e *ExternalToolError) Error() string {
	msg := fmt.Sprintf("%s%s failed: %v", errorPrefix, e.Tool, e.Err)
	if detail := lastLine(e.Stderr); detail != "" {
		msg += ": " + detail
	}
	return msg
}

// Unwrap exposes the underlying process error for errors.Is and errors.As.
func (e *ExternalToolError) Unwrap() error {
	return e.Err
}

// Private functions (alphabetical)

// lastLine returns the final non-empty line of s.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
