package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vertcut/vertcut/internal/ports/adapters/ffmpeg"
	"github.com/vertcut/vertcut/internal/ports/adapters/pigo"
	"github.com/vertcut/vertcut/internal/reframe"
)

type ReframeConfig struct {
	// Inputs are local video files, processed independently; each one
	// gets a fresh tracker so no smoothing state leaks between them.
	Inputs []string
	// SubtitlePath is optional and applies to every input.
	SubtitlePath string
	OutDir       string

	Smoothing float64

	FFmpegPath  string
	FFprobePath string
	CascadePath string

	Logf     func(format string, args ...any)
	Progress func(done, total int64)
}

func (c ReframeConfig) Validate() error {
	if len(c.Inputs) == 0 {
		return errors.New("no input files")
	}
	if c.OutDir == "" {
		return errors.New("out dir is empty")
	}
	if c.Smoothing < 0 || c.Smoothing > 1 {
		return fmt.Errorf("smoothing must be in [0,1], got %v", c.Smoothing)
	}
	if c.SubtitlePath != "" {
		if _, err := os.Stat(c.SubtitlePath); err != nil {
			return fmt.Errorf("stat subtitles: %w", err)
		}
	}
	return nil
}

// ReframeFiles runs the face-tracked crop on already-cut local clips,
// batch style: a failure on one input aborts the batch so errors are
// never masked.
func ReframeFiles(ctx context.Context, cfg ReframeConfig) error {
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	detector, err := pigo.New(cfg.CascadePath)
	if err != nil {
		return err
	}
	video := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath)

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return err
	}

	proc := &reframe.Processor{
		Video:     video,
		Detector:  detector,
		Smoothing: cfg.Smoothing,
		Progress:  cfg.Progress,
		Logf:      logf,
	}

	for _, in := range cfg.Inputs {
		base := filepath.Base(in)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		out := filepath.Join(cfg.OutDir, stem+"_short.mp4")
		logf("reframing %s -> %s", in, out)
		if err := proc.Render(ctx, in, cfg.SubtitlePath, out); err != nil {
			return fmt.Errorf("reframe %s: %w", in, err)
		}
	}
	return nil
}
