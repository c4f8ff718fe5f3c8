package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/gofrs/flock"

	"github.com/vertcut/vertcut/internal/domain/transcript"
	"github.com/vertcut/vertcut/internal/ports"
	"github.com/vertcut/vertcut/internal/ports/adapters/ffmpeg"
	"github.com/vertcut/vertcut/internal/ports/adapters/openaillm"
	"github.com/vertcut/vertcut/internal/ports/adapters/pigo"
	"github.com/vertcut/vertcut/internal/ports/adapters/ytdlp"
	"github.com/vertcut/vertcut/internal/reframe"
	"github.com/vertcut/vertcut/internal/types"
	"github.com/vertcut/vertcut/internal/usecase"
)

type Config struct {
	// VideoID selects the remote source video to download and
	// transcribe.
	VideoID string

	WorkDir string
	OutDir  string

	Smoothing float64

	FFmpegPath  string
	FFprobePath string
	YtdlpPath   string
	CascadePath string
	MaxHeight   int

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	Logf     func(format string, args ...any)
	Progress func(done, total int64)
}

func (c Config) Validate() error {
	if c.VideoID == "" {
		return errors.New("video id is empty")
	}
	if c.WorkDir == "" {
		return errors.New("work dir is empty")
	}
	if c.OutDir == "" {
		return errors.New("out dir is empty")
	}
	if c.Smoothing < 0 || c.Smoothing > 1 {
		return fmt.Errorf("smoothing must be in [0,1], got %v", c.Smoothing)
	}
	if c.OpenAIAPIKey == "" {
		return errors.New("OPENAI_API_KEY is required")
	}
	return nil
}

// Run executes the whole pipeline for one video: fetch transcript and
// source, propose segments, cut, reframe, and write the manifest. The
// produced manifest is returned for display.
func Run(ctx context.Context, cfg Config) (types.Manifest, error) {
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	if err := os.MkdirAll(cfg.WorkDir, 0o755); err != nil {
		return types.Manifest{}, err
	}
	// One run at a time per work dir: concurrent runs would race on
	// downloads and scratch artifacts.
	lock := flock.New(filepath.Join(cfg.WorkDir, "vertcut.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return types.Manifest{}, fmt.Errorf("lock work dir: %w", err)
	}
	if !locked {
		return types.Manifest{}, fmt.Errorf("work dir %s is in use by another run", cfg.WorkDir)
	}
	defer lock.Unlock()

	video := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath)
	detector, err := pigo.New(cfg.CascadePath)
	if err != nil {
		return types.Manifest{}, err
	}
	proposer := openaillm.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	media := ytdlp.New(cfg.YtdlpPath, cfg.MaxHeight)

	tr, err := loadTranscript(ctx, cfg, media, logf)
	if err != nil {
		return types.Manifest{}, err
	}

	srcPath := filepath.Join(cfg.WorkDir, "downloads", cfg.VideoID+".mp4")
	if _, err := os.Stat(srcPath); err != nil {
		logf("downloading %s", cfg.VideoID)
		if err := media.DownloadVideo(ctx, cfg.VideoID, srcPath); err != nil {
			return types.Manifest{}, fmt.Errorf("download video: %w", err)
		}
	} else {
		logf("reusing cached download: %s", srcPath)
	}

	title, err := media.Title(ctx, cfg.VideoID)
	if err != nil || strings.TrimSpace(title) == "" {
		title = cfg.VideoID
	}

	runOutDir := buildRunOutDir(cfg.OutDir, title, time.Now().UTC())
	for _, sub := range []string{"clips", "subtitles", "shorts"} {
		if err := os.MkdirAll(filepath.Join(runOutDir, sub), 0o755); err != nil {
			return types.Manifest{}, err
		}
	}
	logf("output run dir: %s", runOutDir)

	scratch := filepath.Join(cfg.WorkDir, "scratch")
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return types.Manifest{}, err
	}

	uc := usecase.New(usecase.Deps{
		Video:    video,
		Proposer: proposer,
		Reframer: &reframe.Processor{
			Video:      video,
			Detector:   detector,
			Smoothing:  cfg.Smoothing,
			ScratchDir: scratch,
			Progress:   cfg.Progress,
			Logf:       logf,
		},
	})

	res, err := uc.Run(ctx, usecase.Input{
		SourcePath: srcPath,
		Transcript: tr,
		OutDir:     runOutDir,
		Logf:       logf,
	})
	if err != nil {
		return types.Manifest{}, err
	}

	b, err := json.MarshalIndent(res.Manifest, "", "  ")
	if err != nil {
		return types.Manifest{}, fmt.Errorf("marshal manifest: %w", err)
	}
	manifestPath := filepath.Join(runOutDir, "manifest.json")
	if err := os.WriteFile(manifestPath, b, 0o644); err != nil {
		return types.Manifest{}, err
	}
	logf("manifest written (%d clips): %s", len(res.Manifest.Clips), manifestPath)
	return res.Manifest, nil
}

// loadTranscript prefers the cached JSON transcript and falls back to
// fetching and persisting a fresh one.
func loadTranscript(ctx context.Context, cfg Config, media ports.MediaSource, logf func(string, ...any)) (types.Transcript, error) {
	store := transcript.NewStore(filepath.Join(cfg.WorkDir, "transcripts"))
	if store.Exists(cfg.VideoID) {
		logf("transcript loaded from cache")
		return store.Load(cfg.VideoID)
	}
	tr, err := media.FetchTranscript(ctx, cfg.VideoID)
	if err != nil {
		return types.Transcript{}, fmt.Errorf("fetch transcript: %w", err)
	}
	path, err := store.Save(tr)
	if err != nil {
		return types.Transcript{}, fmt.Errorf("save transcript: %w", err)
	}
	logf("transcript saved to %s (%d entries)", path, len(tr.Entries))
	return tr, nil
}

func buildRunOutDir(outRoot, title string, now time.Time) string {
	name := normalizePathSegment(title)
	if name == "" {
		name = "video"
	}
	ts := now.UTC().Format("20060102-150405Z")
	seed := fmt.Sprintf("%s|%d", title, now.UTC().UnixNano())
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, hash(seed)[:6]))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.VideoTool = (*ffmpeg.Adapter)(nil)
var _ ports.Detector = (*pigo.Adapter)(nil)
var _ ports.SegmentProposer = (*openaillm.Adapter)(nil)
var _ ports.MediaSource = (*ytdlp.Adapter)(nil)
