// Package ffmpeg provides functionality for detecting and working with FFmpeg.
package ffmpeg

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	ffmpeggo "github.com/u2takey/ffmpeg-go"

	"github.com/torre76/framedump/logger"
)

// Private functions (alphabetical)

// extractArgs composes the FFmpeg argument list for one extraction: the
// input, an fps sampling filter at the target rate, passthrough vsync so
// every sampled frame is written out, and an overwriting numbered output
// pattern. Only the argv is taken from the expression builder; the caller
// runs it with an explicitly resolved executable.
func extractArgs(videoPath, outputPattern string, targetRate float64) []string {
	rate := strconv.FormatFloat(targetRate, 'f', -1, 64)

	return ffmpeggo.Input(videoPath).
		Filter("fps", ffmpeggo.Args{rate}).
		Output(outputPattern, ffmpeggo.KwArgs{"vsync": "0"}).
		OverWriteOutput().
		GetArgs()
}

// targetFrameRate plans the sampling rate for one request. A frame count is
// spread across the probed duration, an interval is inverted, and requesting
// neither is a contract violation. An unknown duration in frame count mode
// degrades to FallbackFrameRate with a warning instead of failing.
func targetFrameRate(metadata *VideoMetadata, req ExtractionRequest) (float64, error) {
	switch {
	case req.FrameCount != 0:
		if metadata.Duration <= 0 {
			logger.Log.Warnf("Video duration is zero or less, defaulting to %.0f frame/sec for %s",
				FallbackFrameRate, req.VideoPath)
			return FallbackFrameRate, nil
		}
		return float64(req.FrameCount) / metadata.Duration, nil
	case req.IntervalSec != 0:
		if req.IntervalSec <= 0 {
			return 0, FormatError("interval seconds must be greater than 0: %w", ErrInvalidInput)
		}
		return 1.0 / req.IntervalSec, nil
	default:
		return 0, FormatError("either a frame count or an interval must be specified: %w", ErrInvalidInput)
	}
}

// Public methods (alphabetical)

// ExtractFrames probes the requested video, plans the sampling rate, and
// runs FFmpeg to write numbered PNG frames into the request's output
// directory. The call blocks until FFmpeg exits; a non-zero exit becomes an
// ExternalToolError carrying the captured stdout and stderr. A failed run
// leaves any partially written frames in place.
func (e *Extractor) ExtractFrames(req ExtractionRequest) error {
	info, err := os.Stat(req.VideoPath)
	if os.IsNotExist(err) {
		return FormatError("video file not found: %s: %w", req.VideoPath, ErrNotFound)
	}
	if err != nil {
		return FormatError("error inspecting %s: %w", req.VideoPath, err)
	}
	if info.IsDir() {
		return FormatError("provided path is not a file: %s: %w", req.VideoPath, ErrInvalidInput)
	}

	metadata, err := e.prober.GetVideoMetadata(req.VideoPath)
	if err != nil {
		return err
	}

	targetRate, err := targetFrameRate(metadata, req)
	if err != nil {
		return err
	}
	if targetRate <= 0 {
		logger.Log.Errorf("Invalid target frame rate %.3f for %s, frame extraction aborted",
			targetRate, req.VideoPath)
		return nil
	}

	if err := os.MkdirAll(req.OutputDir, 0755); err != nil {
		return FormatError("error creating output directory %s: %w", req.OutputDir, err)
	}

	outputPattern := filepath.Join(req.OutputDir, framePattern)
	args := extractArgs(req.VideoPath, outputPattern, targetRate)
	logger.Log.Infof("FFmpeg command for %s: %s %s",
		filepath.Base(req.VideoPath), e.FFmpegPath, strings.Join(args, " "))

	cmd := exec.Command(e.FFmpegPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return &ExternalToolError{
			Tool:   "ffmpeg",
			Err:    err,
			Stdout: stdout.String(),
			Stderr: stderr.String(),
		}
	}

	logger.Log.Infof("Frames extracted to: %s", req.OutputDir)
	return nil
}

// Public functions (alphabetical)

// NewExtractor creates a new Extractor instance from a located toolchain.
func NewExtractor(ffmpegInfo *FFmpegInfo) (*Extractor, error) {
	if ffmpegInfo == nil || !ffmpegInfo.Installed {
		return nil, FormatError("FFmpeg is not installed")
	}

	prober, err := NewProber(ffmpegInfo)
	if err != nil {
		return nil, err
	}

	return &Extractor{
		FFmpegPath: ffmpegInfo.Path,
		prober:     prober,
	}, nil
}
