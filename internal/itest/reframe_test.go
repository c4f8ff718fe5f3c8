//go:build integration

package itest

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vertcut/vertcut/internal/pipeline"
)

// TestReframeFiles renders a vertical crop of a synthetic clip through
// the real ffmpeg decode/encode pipes and checks the output geometry.
// The synthetic pattern contains no face, so the crop stays pinned to
// the frame center the whole way.
func TestReframeFiles(t *testing.T) {
	cascade := cascadePath(t)

	tmp := t.TempDir()
	in := makeFixture(t, tmp, 4)
	outDir := filepath.Join(tmp, "out")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg := pipeline.ReframeConfig{
		Inputs:      []string{in},
		OutDir:      outDir,
		Smoothing:   0.8,
		CascadePath: cascade,
		Logf:        t.Logf,
	}
	if err := pipeline.ReframeFiles(ctx, cfg); err != nil {
		t.Fatalf("ReframeFiles: %v", err)
	}

	out := filepath.Join(outDir, "fixture_short.mp4")
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("missing output: %v", err)
	}

	w, h, err := probeDimensions(out)
	if err != nil {
		t.Fatalf("probe output: %v", err)
	}
	// 640x480 source, 9:16 target: the full 480-pixel height binds.
	if w != 270 || h != 480 {
		t.Fatalf("output is %dx%d, want 270x480", w, h)
	}

	inDur, err := probeDurationSeconds(in)
	if err != nil {
		t.Fatalf("probe input: %v", err)
	}
	outDur, err := probeDurationSeconds(out)
	if err != nil {
		t.Fatalf("probe output: %v", err)
	}
	if math.Abs(inDur-outDur) > 0.5 {
		t.Fatalf("duration drifted: in %.2fs, out %.2fs", inDur, outDur)
	}
}

// TestReframeFiles_WithSubtitles burns a caption into the output; a
// successful mux is all that is asserted, the pixels are not inspected.
func TestReframeFiles_WithSubtitles(t *testing.T) {
	cascade := cascadePath(t)

	tmp := t.TempDir()
	in := makeFixture(t, tmp, 3)
	srt := filepath.Join(tmp, "subs.srt")
	body := "1\n00:00:00,000 --> 00:00:03,000\nhello from the test\n"
	if err := os.WriteFile(srt, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(tmp, "out")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg := pipeline.ReframeConfig{
		Inputs:       []string{in},
		SubtitlePath: srt,
		OutDir:       outDir,
		Smoothing:    0.8,
		CascadePath:  cascade,
		Logf:         t.Logf,
	}
	if err := pipeline.ReframeFiles(ctx, cfg); err != nil {
		t.Fatalf("ReframeFiles: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "fixture_short.mp4")); err != nil {
		t.Fatalf("missing output: %v", err)
	}
}
