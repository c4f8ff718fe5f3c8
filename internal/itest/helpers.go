//go:build integration

package itest

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func findRepoRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 10; i++ {
		if _, err := os.Stat(filepath.Join(wd, "go.mod")); err == nil {
			return wd, nil
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			break
		}
		wd = parent
	}
	return "", errors.New("could not locate go.mod")
}

func mustRepoRoot(t *testing.T) string {
	t.Helper()
	repoRoot, err := findRepoRoot()
	if err != nil {
		t.Fatalf("repo root: %v", err)
	}
	return repoRoot
}

// cascadePath resolves the pigo face cascade used by integration runs:
// VERTCUT_CASCADE wins, then a facefinder file at the repo root.
func cascadePath(t *testing.T) string {
	t.Helper()
	if p := os.Getenv("VERTCUT_CASCADE"); p != "" {
		return p
	}
	p := filepath.Join(mustRepoRoot(t), "facefinder")
	if _, err := os.Stat(p); err != nil {
		t.Skipf("no face cascade available (set VERTCUT_CASCADE or place facefinder at the repo root)")
	}
	return p
}

// makeFixture renders a small test clip with ffmpeg. 640x480 keeps the
// 9:16 crop on even dimensions, which libx264 requires for yuv420p.
func makeFixture(t *testing.T, dir string, seconds int) string {
	t.Helper()
	out := filepath.Join(dir, "fixture.mp4")
	cmd := exec.Command("ffmpeg",
		"-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("testsrc2=size=640x480:rate=25:duration=%d", seconds),
		"-f", "lavfi",
		"-i", fmt.Sprintf("sine=frequency=440:duration=%d", seconds),
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-shortest",
		out,
	)
	if b, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("ffmpeg fixture failed: %v\n%s", err, string(b))
	}
	return out
}

func probeDurationSeconds(mp4Path string) (float64, error) {
	out, err := probeValue(mp4Path, "format=duration")
	if err != nil {
		return 0, err
	}
	sec, err := strconv.ParseFloat(out, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", out, err)
	}
	return sec, nil
}

func probeDimensions(mp4Path string) (int, int, error) {
	out, err := probeValue(mp4Path, "stream=width,height")
	if err != nil {
		return 0, 0, err
	}
	var w, h int
	for _, line := range strings.Split(out, "\n") {
		n, _ := strconv.Atoi(strings.TrimSpace(line))
		if w == 0 {
			w = n
		} else if h == 0 {
			h = n
		}
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("no dimensions in %q", out)
	}
	return w, h, nil
}

func probeValue(mp4Path, entries string) (string, error) {
	cmd := exec.Command("ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", entries,
		"-of", "default=noprint_wrappers=1:nokey=1",
		mp4Path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("ffprobe: %w\n%s", err, string(b))
	}
	return strings.TrimSpace(string(b)), nil
}
