// Package ffmpeg provides functionality for detecting and working with FFmpeg.
// It includes capabilities for locating the ffmpeg and ffprobe executables and
// identifying the installed version before any media work starts.
package ffmpeg

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/torre76/framedump/logger"
)

// Private variables (alphabetical)

// ffmpegVersionRegex extracts the numeric version (e.g. 6.1.1) from FFmpeg's
// banner line, tolerating the "n" prefix used by git-tagged builds.
var ffmpegVersionRegex = regexp.MustCompile(`(?i)\bversion\s+n?(\d+\.\d+(?:\.\d+)*)`)

// Private functions (alphabetical)

// commonInstallPaths returns well-known install locations for the named
// executable on the current operating system.
func commonInstallPaths(name string) []string {
	execName := executableName(name)

	switch runtime.GOOS {
	case "windows":
		paths := []string{
			filepath.Join(`C:\Program Files\FFmpeg\bin`, execName),
			filepath.Join(`C:\Program Files (x86)\FFmpeg\bin`, execName),
			filepath.Join(`C:\FFmpeg\bin`, execName),
		}
		if programFiles := os.Getenv("ProgramFiles"); programFiles != "" {
			paths = append(paths, filepath.Join(programFiles, "FFmpeg", "bin", execName))
		}
		return paths
	case "darwin":
		return []string{
			filepath.Join("/usr/local/bin", execName),
			filepath.Join("/opt/local/bin", execName),
			filepath.Join("/opt/homebrew/bin", execName),
		}
	default:
		return []string{
			filepath.Join("/usr/bin", execName),
			filepath.Join("/usr/local/bin", execName),
			filepath.Join("/opt/ffmpeg/bin", execName),
		}
	}
}

// executableName appends the platform executable suffix to a tool name.
func executableName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

// localToolDir returns the bin directory next to the running executable,
// where a bundled FFmpeg build would be shipped alongside the application.
func localToolDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Join(filepath.Dir(exe), "bin")
}

// parseVersionBanner extracts a version token such as "6.1.1" from FFmpeg's
// banner output. Git snapshot builds without a numeric version keep their raw
// token; an unrecognizable banner yields "unknown".
func parseVersionBanner(banner string) string {
	if matches := ffmpegVersionRegex.FindStringSubmatch(banner); len(matches) >= 2 {
		return matches[1]
	}

	fields := strings.Fields(banner)
	for i, field := range fields {
		if strings.EqualFold(field, "version") && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	return "unknown"
}

// resolveExecutable locates the named tool. An explicit override wins and is
// never silently replaced: a configured path that does not exist is a miss.
// Without an override the bundled bin directory, the search path, and the
// platform's common install locations are tried in that order.
func resolveExecutable(name, override string) (string, bool) {
	if override != "" {
		if _, err := os.Stat(override); err == nil {
			return override, true
		}
		logger.Log.Warnf("Configured %s path does not exist: %s", name, override)
		return "", false
	}

	if dir := localToolDir(); dir != "" {
		bundled := filepath.Join(dir, executableName(name))
		if _, err := os.Stat(bundled); err == nil {
			return bundled, true
		}
	}

	if path, err := exec.LookPath(name); err == nil {
		return path, true
	}

	for _, path := range commonInstallPaths(name) {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}

	return "", false
}

// resolveProbe locates ffprobe, preferring an explicit override, then the
// sibling of the resolved ffmpeg executable, then the usual search places.
func resolveProbe(ffmpegPath, override string) (string, bool) {
	if override != "" {
		return resolveExecutable("ffprobe", override)
	}

	sibling := filepath.Join(filepath.Dir(ffmpegPath), executableName("ffprobe"))
	if _, err := os.Stat(sibling); err == nil {
		return sibling, true
	}

	return resolveExecutable("ffprobe", "")
}

// toolVersion runs "<ffmpeg> -version" and extracts the version token from
// the banner line. The call carries the package default timeout since it is
// a quick sanity check that runs before any real work.
func toolVersion(ffmpegPath string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), GetDefaultTimeout())
	defer cancel()

	output, err := exec.CommandContext(ctx, ffmpegPath, "-version").Output()
	if err != nil {
		return "", FormatError("error getting FFmpeg version: %w", err)
	}

	return parseVersionBanner(string(output)), nil
}

// Public functions (alphabetical)

// FindFFmpeg locates the FFmpeg toolchain and identifies its version.
// Explicit override paths for either executable take precedence over
// discovery. When the toolchain cannot be located, the returned FFmpegInfo
// has Installed set to false and no error; callers decide whether absence is
// fatal for their operation.
func FindFFmpeg(ffmpegOverride, ffprobeOverride string) (*FFmpegInfo, error) {
	ffmpegPath, found := resolveExecutable("ffmpeg", ffmpegOverride)
	if !found {
		return &FFmpegInfo{Installed: false}, nil
	}

	probePath, found := resolveProbe(ffmpegPath, ffprobeOverride)
	if !found {
		return &FFmpegInfo{Installed: false, Path: ffmpegPath}, nil
	}

	version, err := toolVersion(ffmpegPath)
	if err != nil {
		return &FFmpegInfo{Installed: false, Path: ffmpegPath}, err
	}

	return &FFmpegInfo{
		Installed: true,
		Path:      ffmpegPath,
		ProbePath: probePath,
		Version:   version,
	}, nil
}
