// Package ytdlp fetches source videos and auto-generated transcripts
// with the yt-dlp command-line tool.
package ytdlp

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/vertcut/vertcut/internal/domain/subtitles"
	"github.com/vertcut/vertcut/internal/types"
)

type Adapter struct {
	bin     string
	subLang string
	// maxHeight caps the download resolution; zero means best.
	maxHeight int
}

func New(bin string, maxHeight int) *Adapter {
	if bin == "" {
		bin = "yt-dlp"
	}
	return &Adapter{bin: bin, subLang: "en", maxHeight: maxHeight}
}

func watchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

func (a *Adapter) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, a.bin, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("yt-dlp: %w\n%s", err, string(b))
	}
	return string(b), nil
}

// DownloadVideo fetches the best muxable video+audio as MP4 at
// destPath.
func (a *Adapter) DownloadVideo(ctx context.Context, videoID, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	format := "bv*+ba/b"
	if a.maxHeight > 0 {
		format = fmt.Sprintf("bv*[height<=%d]+ba/b[height<=%d]", a.maxHeight, a.maxHeight)
	}
	_, err := a.run(ctx,
		"-f", format,
		"--merge-output-format", "mp4",
		"--no-warnings",
		"-o", destPath,
		watchURL(videoID),
	)
	return err
}

// FetchTranscript downloads the auto-generated subtitles and parses
// them into transcript entries.
func (a *Adapter) FetchTranscript(ctx context.Context, videoID string) (types.Transcript, error) {
	dir, err := os.MkdirTemp("", "vertcut-subs-")
	if err != nil {
		return types.Transcript{}, err
	}
	defer os.RemoveAll(dir)

	template := filepath.Join(dir, videoID)
	if _, err := a.run(ctx,
		"--write-auto-sub",
		"--sub-lang", a.subLang,
		"--sub-format", "srt",
		"--skip-download",
		"--no-warnings",
		"-o", template,
		watchURL(videoID),
	); err != nil {
		return types.Transcript{}, err
	}

	subPath, err := findSubtitleFile(dir, videoID)
	if err != nil {
		return types.Transcript{}, err
	}
	f, err := os.Open(subPath)
	if err != nil {
		return types.Transcript{}, err
	}
	defer f.Close()

	entries, err := subtitles.ParseSRT(f)
	if err != nil {
		return types.Transcript{}, fmt.Errorf("parse subtitles %s: %w", subPath, err)
	}
	return types.Transcript{VideoID: videoID, Entries: entries}, nil
}

// Title returns the video title.
func (a *Adapter) Title(ctx context.Context, videoID string) (string, error) {
	out, err := a.run(ctx, "--get-title", "--no-warnings", watchURL(videoID))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// findSubtitleFile locates whichever subtitle file yt-dlp produced;
// the language tag it inserts between name and extension varies.
func findSubtitleFile(dir, videoID string) (string, error) {
	matches, _ := filepath.Glob(filepath.Join(dir, videoID+"*"))
	for _, m := range matches {
		switch filepath.Ext(m) {
		case ".srt", ".vtt":
			return m, nil
		}
	}
	return "", fmt.Errorf("no subtitle file produced for %s", videoID)
}
