// Package ffmpeg provides functionality for detecting and working with FFmpeg.
package ffmpeg

// Private types (alphabetical)

// probeFormat mirrors the container-level section of ffprobe's JSON output.
// Numeric values arrive as strings and are parsed on demand.
type probeFormat struct {
	Duration string `json:"duration"`
	Filename string `json:"filename"`
}

// probeOutput mirrors the top-level JSON document produced by
// "ffprobe -print_format json -show_format -show_streams".
type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

// probeStream mirrors a single entry of the streams list. Only the fields
// the planner needs are decoded.
type probeStream struct {
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Duration     string `json:"duration"`
	AvgFrameRate string `json:"avg_frame_rate"`
	RFrameRate   string `json:"r_frame_rate"`
}

// Public types (alphabetical)

// ExtractionRequest describes one frame extraction job. Exactly one of
// FrameCount and IntervalSec selects the sampling mode; the zero value of a
// field means that mode is not requested.
type ExtractionRequest struct {
	// VideoPath is the video file to sample.
	VideoPath string

	// OutputDir is the directory that receives the numbered frame images.
	// It is created, including parents, when missing.
	OutputDir string

	// FrameCount requests a total number of frames spread evenly across
	// the whole video.
	FrameCount int

	// IntervalSec requests one frame every IntervalSec seconds.
	IntervalSec float64
}

// Extractor runs FFmpeg to sample still frames out of a video at a computed
// rate. It holds the resolved executable path so that invocations do not
// depend on the process search path.
type Extractor struct {
	// FFmpegPath is the path to the FFmpeg executable.
	FFmpegPath string

	// prober supplies the metadata the rate planner needs.
	prober *Prober
}

// FFmpegInfo represents the FFmpeg toolchain located on the system.
// It is produced once by FindFFmpeg and threaded into every component
// that shells out to the tools.
type FFmpegInfo struct {
	// Installed indicates whether a usable toolchain was located.
	Installed bool

	// Path is the resolved location of the ffmpeg executable.
	Path string

	// ProbePath is the resolved location of the ffprobe executable.
	ProbePath string

	// Version is the detected FFmpeg version string.
	Version string
}

// Prober extracts video metadata by running FFprobe against media files.
type Prober struct {
	// FFprobePath is the path to the FFprobe executable.
	FFprobePath string
}

// VideoMetadata holds the probed facts about a video stream that the rate
// planner consumes. It is produced once per video and read-only afterward.
type VideoMetadata struct {
	// Duration is the playable length of the video in seconds.
	Duration float64

	// Width is the horizontal resolution in pixels.
	Width int

	// Height is the vertical resolution in pixels.
	Height int

	// FrameRate is the native frame rate in frames per second. Zero means
	// the rate could not be determined from the probe output.
	FrameRate float64
}

// Private methods (alphabetical)

// videoStream returns the first stream carrying video, or nil when the
// container has none.
func (p *probeOutput) videoStream() *probeStream {
	for i := range p.Streams {
		if p.Streams[i].CodecType == "video" {
			return &p.Streams[i]
		}
	}
	return nil
}
