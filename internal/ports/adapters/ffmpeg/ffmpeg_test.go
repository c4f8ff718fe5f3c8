package ffmpeg

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestParseProbeOutput(t *testing.T) {
	t.Parallel()

	out := "width=1920\nheight=1080\nr_frame_rate=30000/1001\nnb_frames=900\nduration=30.030000\n"
	info, err := parseProbeOutput(out)
	if err != nil {
		t.Fatalf("parseProbeOutput: %v", err)
	}
	if info.Width != 1920 || info.Height != 1080 {
		t.Fatalf("dims %dx%d", info.Width, info.Height)
	}
	if info.Frames != 900 {
		t.Fatalf("frames %d", info.Frames)
	}
	if info.FPS < 29.96 || info.FPS > 29.98 {
		t.Fatalf("fps %v", info.FPS)
	}
	if info.Duration != 30.03 {
		t.Fatalf("duration %v", info.Duration)
	}
}

func TestParseProbeOutput_EstimatesFrames(t *testing.T) {
	t.Parallel()

	out := "width=640\nheight=480\nr_frame_rate=25/1\nnb_frames=N/A\nduration=10.0\n"
	info, err := parseProbeOutput(out)
	if err != nil {
		t.Fatalf("parseProbeOutput: %v", err)
	}
	if info.Frames != 250 {
		t.Fatalf("want 250 estimated frames, got %d", info.Frames)
	}
}

func TestParseProbeOutput_NoVideoStream(t *testing.T) {
	t.Parallel()

	if _, err := parseProbeOutput("duration=3.5\n"); err == nil {
		t.Fatal("want error without stream dimensions")
	}
}

func TestParseRate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want float64
	}{
		{"30/1", 30},
		{"25", 25},
		{"0/0", 0},
		{"bogus", 0},
	}
	for _, c := range cases {
		if got := parseRate(c.in); got != c.want {
			t.Errorf("parseRate(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestFmtSeconds(t *testing.T) {
	t.Parallel()

	if got := fmtSeconds(12.5); got != "12.500" {
		t.Fatalf("fmtSeconds(12.5) = %q", got)
	}
	if got := fmtSeconds(0); got != "0.000" {
		t.Fatalf("fmtSeconds(0) = %q", got)
	}
}

func TestEscapeFilterPath(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"/tmp/subs.srt", "/tmp/subs.srt"},
		{`C:\clips\s.srt`, `C\:\\clips\\s.srt`},
		{"/tmp/it's.srt", `/tmp/it\'s.srt`},
	}
	for _, c := range cases {
		if got := escapeFilterPath(c.in); got != c.want {
			t.Errorf("escapeFilterPath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestProcessError(t *testing.T) {
	t.Parallel()

	base := errors.New("exit status 1")
	err := &ProcessError{Op: "mux", Stderr: "  something broke  ", Err: base}
	if !errors.Is(err, base) {
		t.Fatal("ProcessError must unwrap to the exec error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "ffmpeg mux") || !strings.Contains(msg, "something broke") {
		t.Fatalf("unexpected message %q", msg)
	}

	long := strings.Repeat("x", 5000) + "TAIL"
	err = &ProcessError{Op: "encode", Stderr: long, Err: base}
	msg = err.Error()
	if !strings.Contains(msg, "TAIL") {
		t.Fatal("truncation must keep the stderr tail")
	}
	if len(msg) > 2200 {
		t.Fatalf("message not truncated, %d bytes", len(msg))
	}
}

func TestOpenFrameSource_MissingFile(t *testing.T) {
	t.Parallel()

	a := New("", "")
	_, err := a.OpenFrameSource(context.Background(), "/nonexistent/video.mp4")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("want fs.ErrNotExist, got %v", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	a := New("", "")
	if a.ffmpeg != "ffmpeg" || a.ffprobe != "ffprobe" {
		t.Fatalf("unexpected defaults: %+v", a)
	}
	a = New("/opt/ffmpeg", "/opt/ffprobe")
	if a.ffmpeg != "/opt/ffmpeg" || a.ffprobe != "/opt/ffprobe" {
		t.Fatalf("explicit paths not kept: %+v", a)
	}
}
