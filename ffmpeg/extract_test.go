package ffmpeg

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ExtractorTestSuite defines a test suite for the frame extraction
// functionality: sampling rate planning, FFmpeg argument composition, and
// the ExtractFrames workflow.
type ExtractorTestSuite struct {
	suite.Suite
	tempDir string // Temporary directory for test files
}

// SetupSuite prepares the test environment by creating a temporary directory.
func (s *ExtractorTestSuite) SetupSuite() {
	// Create a temporary directory for test files
	tempDir, err := os.MkdirTemp("", "framedump-extract-test")
	require.NoError(s.T(), err)
	s.tempDir = tempDir
}

// TearDownSuite cleans up the test environment by removing the temporary directory.
func (s *ExtractorTestSuite) TearDownSuite() {
	// Clean up temporary directory
	os.RemoveAll(s.tempDir)
}

// TestNewExtractor tests the NewExtractor function to ensure it rejects a
// missing toolchain and wires the resolved executable paths.
func (s *ExtractorTestSuite) TestNewExtractor() {
	s.Run("nil_info", func() {
		extractor, err := NewExtractor(nil)
		assert.Error(s.T(), err)
		assert.Nil(s.T(), extractor)
	})

	s.Run("not_installed", func() {
		extractor, err := NewExtractor(&FFmpegInfo{Installed: false})
		assert.Error(s.T(), err)
		assert.Nil(s.T(), extractor)
	})

	s.Run("installed", func() {
		info := &FFmpegInfo{
			Installed: true,
			Path:      filepath.Join("/usr/bin", executableName("ffmpeg")),
			ProbePath: filepath.Join("/usr/bin", executableName("ffprobe")),
			Version:   "6.1.1",
		}
		extractor, err := NewExtractor(info)
		require.NoError(s.T(), err)

		assert.Equal(s.T(), info.Path, extractor.FFmpegPath)
		require.NotNil(s.T(), extractor.prober)
		assert.Equal(s.T(), info.ProbePath, extractor.prober.FFprobePath)
	})
}

// TestTargetFrameRate tests the targetFrameRate function across both
// sampling modes and their degenerate inputs.
func (s *ExtractorTestSuite) TestTargetFrameRate() {
	testCases := []struct {
		name        string
		metadata    *VideoMetadata
		req         ExtractionRequest
		expected    float64
		expectedErr error
	}{
		{
			name:     "frame_count_spread_over_duration",
			metadata: &VideoMetadata{Duration: 40.0},
			req:      ExtractionRequest{FrameCount: 100},
			expected: 2.5,
		},
		{
			name:     "interval_inverted",
			metadata: &VideoMetadata{Duration: 40.0},
			req:      ExtractionRequest{IntervalSec: 0.5},
			expected: 2.0,
		},
		{
			name:     "unknown_duration_falls_back",
			metadata: &VideoMetadata{Duration: 0.0},
			req:      ExtractionRequest{FrameCount: 10},
			expected: FallbackFrameRate,
		},
		{
			name:     "negative_frame_count_plans_negative_rate",
			metadata: &VideoMetadata{Duration: 10.0},
			req:      ExtractionRequest{FrameCount: -10},
			expected: -1.0,
		},
		{
			name:        "negative_interval",
			metadata:    &VideoMetadata{Duration: 40.0},
			req:         ExtractionRequest{IntervalSec: -1.0},
			expectedErr: ErrInvalidInput,
		},
		{
			name:        "no_mode_selected",
			metadata:    &VideoMetadata{Duration: 40.0},
			req:         ExtractionRequest{},
			expectedErr: ErrInvalidInput,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			rate, err := targetFrameRate(tc.metadata, tc.req)
			if tc.expectedErr != nil {
				assert.ErrorIs(s.T(), err, tc.expectedErr)
				return
			}
			require.NoError(s.T(), err)
			assert.InDelta(s.T(), tc.expected, rate, 0.0001)
		})
	}
}

// TestExtractArgs tests the extractArgs function to ensure the composed
// FFmpeg command line carries the input, the fps filter, passthrough vsync,
// the overwrite flag, and the numbered output pattern.
func (s *ExtractorTestSuite) TestExtractArgs() {
	pattern := filepath.Join("out", framePattern)
	args := extractArgs("in.mp4", pattern, 2.5)
	joined := strings.Join(args, " ")

	assert.Contains(s.T(), args, "-i")
	assert.Contains(s.T(), args, "in.mp4")
	assert.Contains(s.T(), args, "-y")
	assert.Contains(s.T(), args, "-vsync")
	assert.Contains(s.T(), args, pattern)
	assert.Contains(s.T(), joined, "fps=2.5")
}

// TestExtractArgsRateFormatting tests that the planned rate reaches the fps
// filter without scientific notation or trailing zeros.
func (s *ExtractorTestSuite) TestExtractArgsRateFormatting() {
	testCases := []struct {
		name     string
		rate     float64
		expected string
	}{
		{
			name:     "integer_rate",
			rate:     2.0,
			expected: "fps=2",
		},
		{
			name:     "fractional_rate",
			rate:     0.25,
			expected: "fps=0.25",
		},
		{
			name:     "repeating_rate",
			rate:     1.0 / 3.0,
			expected: "fps=0.3333333333333333",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			joined := strings.Join(extractArgs("in.mp4", "frame_%04d.png", tc.rate), " ")
			assert.Contains(s.T(), joined, tc.expected)
		})
	}
}

// TestExtractFrames tests the full ExtractFrames workflow against fake
// ffmpeg and ffprobe executables so the tests run without a real FFmpeg
// installation.
func (s *ExtractorTestSuite) TestExtractFrames() {
	if runtime.GOOS == "windows" {
		s.T().Skip("Skipping shell script based test on Windows")
	}

	videoPath := filepath.Join(s.tempDir, "clip.mp4")
	require.NoError(s.T(), os.WriteFile(videoPath, []byte("not a real video"), 0644))

	probeScript := "#!/bin/sh\ncat <<'EOF'\n" + validProbeJSON + "\nEOF\n"
	ffprobePath := writeFakeTool(s.T(), s.tempDir, "fake-ffprobe", probeScript)
	ffmpegPath := writeFakeTool(s.T(), s.tempDir, "fake-ffmpeg", "#!/bin/sh\nexit 0\n")

	extractor := &Extractor{
		FFmpegPath: ffmpegPath,
		prober:     &Prober{FFprobePath: ffprobePath},
	}

	s.Run("success_creates_output_dir", func() {
		outputDir := filepath.Join(s.tempDir, "success", "frames")
		err := extractor.ExtractFrames(ExtractionRequest{
			VideoPath:  videoPath,
			OutputDir:  outputDir,
			FrameCount: 10,
		})
		require.NoError(s.T(), err)

		info, err := os.Stat(outputDir)
		require.NoError(s.T(), err, "output directory should be created before FFmpeg runs")
		assert.True(s.T(), info.IsDir())
	})

	s.Run("ffmpeg_failure", func() {
		failing := writeFakeTool(s.T(), s.tempDir, "failing-ffmpeg",
			"#!/bin/sh\necho \"conversion failed\" 1>&2\nexit 1\n")
		brokenExtractor := &Extractor{FFmpegPath: failing, prober: extractor.prober}

		err := brokenExtractor.ExtractFrames(ExtractionRequest{
			VideoPath:  videoPath,
			OutputDir:  filepath.Join(s.tempDir, "failure", "frames"),
			FrameCount: 10,
		})

		var toolErr *ExternalToolError
		require.ErrorAs(s.T(), err, &toolErr)
		assert.Equal(s.T(), "ffmpeg", toolErr.Tool)
		assert.Contains(s.T(), toolErr.Stderr, "conversion failed")
	})

	s.Run("missing_video", func() {
		err := extractor.ExtractFrames(ExtractionRequest{
			VideoPath:  filepath.Join(s.tempDir, "absent.mp4"),
			OutputDir:  filepath.Join(s.tempDir, "missing", "frames"),
			FrameCount: 10,
		})
		assert.ErrorIs(s.T(), err, ErrNotFound)
	})

	s.Run("directory_as_video", func() {
		err := extractor.ExtractFrames(ExtractionRequest{
			VideoPath:  s.tempDir,
			OutputDir:  filepath.Join(s.tempDir, "dir", "frames"),
			FrameCount: 10,
		})
		assert.ErrorIs(s.T(), err, ErrInvalidInput)
	})

	s.Run("negative_rate_aborts_without_output", func() {
		outputDir := filepath.Join(s.tempDir, "aborted", "frames")
		err := extractor.ExtractFrames(ExtractionRequest{
			VideoPath:  videoPath,
			OutputDir:  outputDir,
			FrameCount: -10,
		})
		require.NoError(s.T(), err)

		_, err = os.Stat(outputDir)
		assert.True(s.T(), os.IsNotExist(err), "aborted extraction must not create the output directory")
	})
}

// TestExtractorTestSuite runs the test suite.
func TestExtractorTestSuite(t *testing.T) {
	suite.Run(t, new(ExtractorTestSuite))
}
