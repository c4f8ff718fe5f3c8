package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/vertcut/vertcut/internal/ports"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

// ProcessError reports a nonzero exit from an external invocation with
// the captured diagnostic output. Transcoder failures are assumed
// deterministic, so callers must not retry.
type ProcessError struct {
	Op     string
	Stderr string
	Err    error
}

func (e *ProcessError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if len(msg) > 2048 {
		msg = msg[len(msg)-2048:]
	}
	return fmt.Sprintf("ffmpeg %s: %v\n%s", e.Op, e.Err, msg)
}

func (e *ProcessError) Unwrap() error { return e.Err }

func (a *Adapter) run(ctx context.Context, op string, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return &ProcessError{Op: op, Stderr: stderr.String(), Err: err}
	}
	return nil
}

// Probe reads the dimensions, frame rate, frame count and duration of
// the first video stream.
func (a *Adapter) Probe(ctx context.Context, path string) (ports.MediaInfo, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate,nb_frames",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return ports.MediaInfo{}, &ProcessError{Op: "probe", Stderr: string(b), Err: err}
	}
	info, err := parseProbeOutput(string(b))
	if err != nil {
		return ports.MediaInfo{}, fmt.Errorf("probe %s: %w", path, err)
	}
	return info, nil
}

func parseProbeOutput(out string) (ports.MediaInfo, error) {
	var info ports.MediaInfo
	for _, line := range strings.Split(out, "\n") {
		key, val, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok || val == "N/A" {
			continue
		}
		switch key {
		case "width":
			info.Width, _ = strconv.Atoi(val)
		case "height":
			info.Height, _ = strconv.Atoi(val)
		case "r_frame_rate":
			info.FPS = parseRate(val)
		case "nb_frames":
			info.Frames, _ = strconv.ParseInt(val, 10, 64)
		case "duration":
			info.Duration, _ = strconv.ParseFloat(val, 64)
		}
	}
	if info.Width <= 0 || info.Height <= 0 {
		return info, fmt.Errorf("no video stream dimensions in probe output")
	}
	// Some containers omit nb_frames; estimate from duration.
	if info.Frames == 0 && info.FPS > 0 && info.Duration > 0 {
		info.Frames = int64(info.Duration * info.FPS)
	}
	return info, nil
}

func parseRate(v string) float64 {
	num, den, ok := strings.Cut(v, "/")
	if !ok {
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	n, _ := strconv.ParseFloat(num, 64)
	d, _ := strconv.ParseFloat(den, 64)
	if d == 0 {
		return 0
	}
	return n / d
}

// CutSegment re-encodes the [startSec, endSec] range of in as an
// H.264/AAC clip. Accurate (output-side) seeking keeps subtitle
// alignment exact at the cost of decode speed.
func (a *Adapter) CutSegment(ctx context.Context, in string, startSec, endSec float64, out string) error {
	return a.run(ctx, "cut",
		"-y",
		"-i", in,
		"-ss", fmtSeconds(startSec),
		"-to", fmtSeconds(endSec),
		"-c:v", "libx264",
		"-c:a", "aac",
		"-b:a", "192k",
		out,
	)
}

// Mux combines the cropped silent video with the audio track of
// audioSource, optionally burning subtitlePath into the frame.
// -shortest truncates to the shorter input so a crop pass that
// dropped frames never leaves trailing frozen video.
func (a *Adapter) Mux(ctx context.Context, video, audioSource, subtitlePath, out string) error {
	args := []string{
		"-y",
		"-i", video,
		"-i", audioSource,
	}
	if subtitlePath != "" {
		args = append(args, "-vf", "subtitles="+escapeFilterPath(subtitlePath))
	}
	args = append(args,
		"-c:v", "libx264",
		"-c:a", "aac",
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-shortest",
		out,
	)
	return a.run(ctx, "mux", args...)
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

// escapeFilterPath escapes a path for use inside an ffmpeg filter
// argument. Colons separate filter options and would otherwise
// truncate the path.
func escapeFilterPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "\\\\")
	p = strings.ReplaceAll(p, ":", "\\:")
	p = strings.ReplaceAll(p, "'", "\\'")
	return p
}

var _ ports.VideoTool = (*Adapter)(nil)

// statSource surfaces missing inputs before ffmpeg does, preserving
// fs.ErrNotExist for callers that inspect open failures.
func statSource(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("open source %s: %w", path, err)
	}
	return nil
}
