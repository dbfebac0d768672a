// Package ffmpeg provides functionality for detecting and working with FFmpeg.
package ffmpeg

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/torre76/framedump/logger"
)

// Private functions (alphabetical)

// decodeVideoMetadata parses raw ffprobe JSON into the metadata the rate
// planner consumes. The source path only feeds error and log messages.
func decodeVideoMetadata(raw []byte, source string) (*VideoMetadata, error) {
	var probe probeOutput
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, FormatError("error parsing ffprobe output for %s: %w", source, err)
	}

	stream := probe.videoStream()
	if stream == nil {
		return nil, FormatError("no video stream found in %s: %w", source, ErrInvalidInput)
	}
	if stream.Width <= 0 || stream.Height <= 0 {
		return nil, FormatError("video stream in %s has no dimensions: %w", source, ErrInvalidInput)
	}

	metadata := &VideoMetadata{
		Duration:  probeDuration(stream, probe.Format),
		Width:     stream.Width,
		Height:    stream.Height,
		FrameRate: probeFrameRate(stream),
	}

	if metadata.Duration <= 0 || metadata.FrameRate <= 0 {
		logger.Log.Warnf("Invalid video metadata for %s: duration=%.3fs fps=%.3f",
			source, metadata.Duration, metadata.FrameRate)
	}

	return metadata, nil
}

// parseFrameRate parses an ffprobe rate expression, either a "num/den"
// rational or a plain decimal. It reports false for absent or malformed
// values and for rationals with a zero denominator.
func parseFrameRate(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}

	if num, den, found := strings.Cut(raw, "/"); found {
		n, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, false
		}
		d, err := strconv.ParseFloat(den, 64)
		if err != nil || d == 0 {
			return 0, false
		}
		return n / d, true
	}

	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return rate, true
}

// probeDuration picks the stream duration when present, the container
// duration otherwise, and zero when neither is usable.
func probeDuration(stream *probeStream, format probeFormat) float64 {
	for _, raw := range []string{stream.Duration, format.Duration} {
		if raw == "" {
			continue
		}
		if seconds, err := strconv.ParseFloat(raw, 64); err == nil {
			return seconds
		}
	}
	return 0
}

// probeFrameRate derives the stream frame rate from an ordered list of
// candidate probe fields. Each candidate is parsed in turn and the first
// positive rate wins; an absent, unparsable, or non-positive rate falls
// through to the next candidate, and zero means all of them were unusable.
func probeFrameRate(stream *probeStream) float64 {
	sources := []struct {
		name string
		raw  string
	}{
		{"avg_frame_rate", stream.AvgFrameRate},
		{"r_frame_rate", stream.RFrameRate},
	}

	for _, source := range sources {
		rate, ok := parseFrameRate(source.raw)
		if ok && rate > 0 {
			logger.Log.Debugf("Frame rate %.3f taken from %s", rate, source.name)
			return rate
		}
	}
	return 0
}

// Public methods (alphabetical)

// GetVideoMetadata runs ffprobe on the given file and returns the duration,
// dimensions, and frame rate of its first video stream. Metadata with a
// non-positive duration or frame rate is returned rather than rejected; a
// warning is logged and the caller decides how to proceed.
func (p *Prober) GetVideoMetadata(filePath string) (*VideoMetadata, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, FormatError("error resolving path %s: %w", filePath, err)
	}
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return nil, FormatError("video file not found: %s: %w", absPath, ErrNotFound)
	}

	cmd := exec.Command(p.FFprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		absPath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, &ExternalToolError{
			Tool:   "ffprobe",
			Err:    err,
			Stdout: stdout.String(),
			Stderr: stderr.String(),
		}
	}

	return decodeVideoMetadata(stdout.Bytes(), absPath)
}

// Public functions (alphabetical)

// NewProber creates a new Prober instance from a located toolchain.
func NewProber(ffmpegInfo *FFmpegInfo) (*Prober, error) {
	if ffmpegInfo == nil || !ffmpegInfo.Installed {
		return nil, FormatError("FFmpeg is not installed")
	}

	probePath := ffmpegInfo.ProbePath
	if probePath == "" {
		// ffprobe ships in the same directory as ffmpeg
		probePath = filepath.Join(filepath.Dir(ffmpegInfo.Path), executableName("ffprobe"))
	}

	return &Prober{FFprobePath: probePath}, nil
}
