// Package main provides the entry point for the framedump application.
// It extracts still frames from video files at a computed sampling rate,
// either for a single video or for a batch manifest, and cleans up the
// frame directories it produced.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/fatih/color"
	"github.com/gertd/go-pluralize"
	"github.com/urfave/cli/v2"

	"github.com/torre76/framedump/ffmpeg"
	"github.com/torre76/framedump/logger"
)

// Private constants (alphabetical)
// None currently defined

// Public constants (alphabetical)
// None currently defined

// Private types (alphabetical)

// appConfig holds the process-level settings read from the environment.
// The executable overrides implement explicit toolchain configuration in
// place of search-path manipulation.
type appConfig struct {
	// FFmpegPath optionally pins the ffmpeg executable location.
	FFmpegPath string `env:"FRAMEDUMP_FFMPEG"`

	// FFprobePath optionally pins the ffprobe executable location.
	FFprobePath string `env:"FRAMEDUMP_FFPROBE"`

	// LogLevel names the log level used for diagnostics.
	LogLevel string `env:"FRAMEDUMP_LOG_LEVEL" envDefault:"info"`
}

// Public variables (alphabetical)

// BuildDate contains the date when the binary was built.
// This value is set during build using ldflags.
var BuildDate = "unknown"

// Commit contains the git commit hash that the binary was built from.
// This value is set during build using ldflags.
var Commit = "unknown"

// Version contains the current version of the application.
// This value can be overridden during build using ldflags:
// go build -ldflags="-X 'github.com/torre76/framedump.Version=v1.0.0'"
var Version = "Development Version"

// Private functions (alphabetical)

// findToolchain locates FFmpeg using the configured overrides. A missing
// toolchain is an error, so commands fail fast instead of failing once per
// video further down the line.
func findToolchain(cfg appConfig) (*ffmpeg.FFmpegInfo, error) {
	info, err := ffmpeg.FindFFmpeg(cfg.FFmpegPath, cfg.FFprobePath)
	if err != nil {
		return nil, fmt.Errorf("error locating FFmpeg: %w", err)
	}
	if !info.Installed {
		return nil, errors.New("FFmpeg was not found on this system (set FRAMEDUMP_FFMPEG to point at the executable)")
	}

	logger.Log.Infof("Using FFmpeg %s at %s", info.Version, info.Path)
	logger.Log.Debugf("Using FFprobe at %s", info.ProbePath)
	return info, nil
}

// formatSeconds renders a duration in seconds in a human friendly form,
// such as "12.480 seconds" or "1h2m13s".
func formatSeconds(seconds float64) string {
	if seconds < 60 {
		return fmt.Sprintf("%.3f seconds", seconds)
	}
	return time.Duration(seconds * float64(time.Second)).Round(time.Second).String()
}

// loadConfig reads the process configuration from the environment.
func loadConfig() (appConfig, error) {
	var cfg appConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("error reading environment configuration: %w", err)
	}
	return cfg, nil
}

// loadManifest reads a batch manifest file and returns its video paths in
// listed order. The manifest must be a JSON object with a "videos" key
// holding a list of path strings; any other shape is an error.
func loadManifest(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading batch file %s: %w", path, err)
	}

	var manifest struct {
		Videos *[]string `json:"videos"`
	}
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("error parsing batch file %s: %w", path, err)
	}
	if manifest.Videos == nil {
		return nil, fmt.Errorf("batch file %s must have a \"videos\" key with a list of file paths", path)
	}

	return *manifest.Videos, nil
}

// outputDirFor derives the frames directory for one video. A custom
// directory is honored only when a single video is processed; batch runs
// always use the conventional directory next to each video.
func outputDirFor(videoPath, customDir string, videoCount int) string {
	if customDir != "" && videoCount == 1 {
		return customDir
	}
	return filepath.Join(filepath.Dir(videoPath), ffmpeg.FramesDirName)
}

// printVideoSummary prints a colored overview of the probed metadata that
// extraction planning would work from.
func printVideoSummary(videoPath string, metadata *ffmpeg.VideoMetadata) {
	summaryStyle := color.New(color.FgCyan, color.Bold)
	valueStyle := color.New(color.Bold)
	regularStyle := color.New(color.Reset)

	pluralizeClient := pluralize.NewClient()

	summaryStyle.Println("🎞️ VIDEO SUMMARY")
	regularStyle.Println("----------------")
	regularStyle.Printf("🎬 File: ")
	valueStyle.Printf("%s\n", filepath.Base(videoPath))
	regularStyle.Printf("⏱️ Duration: ")
	valueStyle.Printf("%s\n", formatSeconds(metadata.Duration))
	regularStyle.Printf("📐 Resolution: ")
	valueStyle.Printf("%dx%d pixels\n", metadata.Width, metadata.Height)
	regularStyle.Printf("🎯 Frame rate: ")
	valueStyle.Printf("%.3f fps\n", metadata.FrameRate)

	if estimated := int(metadata.Duration * metadata.FrameRate); estimated > 0 {
		regularStyle.Printf("🖼️ Roughly ")
		valueStyle.Printf("%s", pluralizeClient.Pluralize("frame", estimated, true))
		regularStyle.Println(" in the source")
	}
}

// resolveVideos expands the input path into the ordered list of videos to
// process: a .json path is loaded as a batch manifest, anything else is a
// single video. The input path itself must exist.
func resolveVideos(inputPath string) ([]string, error) {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("input path does not exist: %s", inputPath)
	}

	if strings.EqualFold(filepath.Ext(inputPath), ".json") {
		logger.Log.Infof("Detected JSON file for batch processing: %s", inputPath)
		return loadManifest(inputPath)
	}

	return []string{inputPath}, nil
}

// runExtract processes the resolved videos strictly in order, deriving each
// video's output directory and tolerating per-video failures. It returns
// the number of videos that could not be processed.
func runExtract(videos []string, customDir string, frameCount int, intervalSec float64, extractor *ffmpeg.Extractor) int {
	if customDir != "" && len(videos) > 1 {
		logger.Log.Warn("Ignoring --output_dir for batch processing")
	}

	failures := 0
	for _, videoPath := range videos {
		req := ffmpeg.ExtractionRequest{
			VideoPath:   videoPath,
			OutputDir:   outputDirFor(videoPath, customDir, len(videos)),
			FrameCount:  frameCount,
			IntervalSec: intervalSec,
		}
		if err := extractor.ExtractFrames(req); err != nil {
			logger.Log.Errorf("Could not process %s: %v. Continuing to next video.",
				filepath.Base(videoPath), err)
			failures++
		}
	}
	return failures
}

// validateSamplingFlags enforces that exactly one sampling mode was chosen
// on the command line.
func validateSamplingFlags(frameCountSet, intervalSet bool) error {
	if frameCountSet == intervalSet {
		return errors.New("exactly one of --num_frames and --interval_sec must be specified")
	}
	return nil
}

func versionPrinter(_ *cli.Context) {
	summaryStyle := color.New(color.FgCyan, color.Bold)
	valueStyle := color.New(color.Bold)
	regularStyle := color.New(color.Reset)

	summaryStyle.Printf("🎞️ FrameDump %s\n", Version)
	regularStyle.Printf("  🛠️ Build date: ")
	valueStyle.Printf("%s\n", BuildDate)
	regularStyle.Printf("  🔍 Commit: ")
	valueStyle.Printf("%s\n", Commit)
}

// Public functions (alphabetical)

// deleteCommand implements the delete operation, which removes previously
// extracted frames below the target path. Unlike extract it is
// all-or-nothing: any error aborts the invocation with a non-zero status.
func deleteCommand(c *cli.Context) error {
	deleted, err := ffmpeg.DeleteFrames(c.String("target_path"))
	if err != nil {
		return fmt.Errorf("delete operation failed: %w", err)
	}

	if deleted > 0 {
		successStyle := color.New(color.FgGreen)
		pluralizeClient := pluralize.NewClient()
		successStyle.Printf("✅ Removed %s\n", pluralizeClient.Pluralize("frame image", deleted, true))
	}
	return nil
}

// extractCommand implements the extract operation. It resolves the input
// into one or more videos, locates the FFmpeg toolchain once, and processes
// the videos sequentially, tolerating per-video failures.
func extractCommand(c *cli.Context, cfg appConfig) error {
	if err := validateSamplingFlags(c.IsSet("num_frames"), c.IsSet("interval_sec")); err != nil {
		return err
	}

	videos, err := resolveVideos(c.String("path"))
	if err != nil {
		return err
	}

	pluralizeClient := pluralize.NewClient()
	logger.Log.Infof("Found %s to process", pluralizeClient.Pluralize("video", len(videos), true))
	if len(videos) == 0 {
		return nil
	}

	info, err := findToolchain(cfg)
	if err != nil {
		return err
	}
	extractor, err := ffmpeg.NewExtractor(info)
	if err != nil {
		return err
	}

	failures := runExtract(videos, c.String("output_dir"), c.Int("num_frames"), c.Float64("interval_sec"), extractor)

	successStyle := color.New(color.FgGreen)
	successStyle.Printf("✅ Processed %d of %s\n",
		len(videos)-failures, pluralizeClient.Pluralize("video", len(videos), true))
	if failures > 0 {
		warningStyle := color.New(color.FgYellow)
		warningStyle.Printf("⚠️ %s could not be processed, see the log above\n",
			pluralizeClient.Pluralize("video", failures, true))
	}
	return nil
}

// probeCommand implements the probe operation, which prints the metadata
// that extraction planning would use for a single video.
func probeCommand(c *cli.Context, cfg appConfig) error {
	if c.NArg() < 1 {
		errorStyle := color.New(color.FgRed)
		regularStyle := color.New(color.Reset)
		errorStyle.Printf("❌ Error: missing required argument: VIDEO_FILE\n\n")
		regularStyle.Printf("Usage: %s probe VIDEO_FILE\n", c.App.Name)
		return errors.New("missing required argument: VIDEO_FILE")
	}
	videoPath := c.Args().Get(0)

	info, err := findToolchain(cfg)
	if err != nil {
		return err
	}
	prober, err := ffmpeg.NewProber(info)
	if err != nil {
		return err
	}

	metadata, err := prober.GetVideoMetadata(videoPath)
	if err != nil {
		return err
	}

	printVideoSummary(videoPath, metadata)
	return nil
}

// main is the entry point of the application. It wires configuration,
// logging, and the CLI commands, and maps any fatal error to a non-zero
// exit status.
func main() {
	// Override the default version printer
	cli.VersionPrinter = versionPrinter

	errorStyle := color.New(color.FgRed)

	cfg, err := loadConfig()
	if err != nil {
		errorStyle.Fprintf(os.Stderr, "⚠️ Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		errorStyle.Fprintf(os.Stderr, "⚠️ Error: %v\n", err)
		os.Exit(1)
	}

	app := &cli.App{
		Name:  "framedump",
		Usage: "A tool for extracting still frames from video files",
		Description: "FrameDump samples still frames out of video files at a computed rate, " +
			"either for a single video or for a whole batch manifest, and cleans up " +
			"the frame directories it produced.",
		Authors: []*cli.Author{
			{
				Name: "Gian Luca Dalla Torre",
			},
		},
		Version: Version,
		Commands: []*cli.Command{
			{
				Name:  "extract",
				Usage: "Extract frames from a video or from a batch manifest",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "path",
						Aliases:  []string{"p"},
						Usage:    "Path to a single video or to a batch .json manifest",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output_dir",
						Aliases: []string{"o"},
						Usage:   "Custom output directory, honored only for a single video",
					},
					&cli.IntFlag{
						Name:    "num_frames",
						Aliases: []string{"n"},
						Usage:   "Total number of frames to extract per video",
					},
					&cli.Float64Flag{
						Name:    "interval_sec",
						Aliases: []string{"i"},
						Usage:   "Interval in seconds between extracted frames",
					},
				},
				Action: func(c *cli.Context) error {
					return extractCommand(c, cfg)
				},
			},
			{
				Name:  "delete",
				Usage: "Delete extracted .png frames from a directory",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "target_path",
						Aliases:  []string{"t"},
						Usage:    "Path to the video's parent directory or to the frames directory itself",
						Required: true,
					},
				},
				Action: deleteCommand,
			},
			{
				Name:      "probe",
				Usage:     "Show the metadata used to plan an extraction",
				ArgsUsage: "VIDEO_FILE",
				Action: func(c *cli.Context) error {
					return probeCommand(c, cfg)
				},
			},
		},
	}

	// Run the application
	if err := app.Run(os.Args); err != nil {
		errorStyle.Fprintf(os.Stderr, "⚠️ Error: %v\n", err)
		os.Exit(1)
	}
}
