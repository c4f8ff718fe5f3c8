package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vertcut/vertcut/internal/domain/subtitles"
	"github.com/vertcut/vertcut/internal/domain/transcript"
	"github.com/vertcut/vertcut/internal/fileutil"
	"github.com/vertcut/vertcut/internal/ports"
	"github.com/vertcut/vertcut/internal/types"
)

// Reframer produces the face-tracked vertical render of one clip.
type Reframer interface {
	Render(ctx context.Context, srcPath, subtitlePath, outPath string) error
}

type Deps struct {
	Video    ports.VideoTool
	Proposer ports.SegmentProposer
	Reframer Reframer
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	SourcePath string
	Transcript types.Transcript
	OutDir     string
	Logf       func(format string, args ...any)
}

type Result struct {
	Manifest types.Manifest
	Segments []types.SegmentWithSubtitles
}

// Run turns one source video into vertical shorts: propose segments
// from the transcript, then per segment cut the clip, render its
// subtitles, and reframe to 9:16 with audio and burned-in captions.
//
// A failed segment aborts the run: component failures surface to the
// caller unmasked and are never retried.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	logf := in.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	segs, err := u.d.Proposer.Propose(ctx, transcript.JoinText(in.Transcript))
	if err != nil {
		return Result{}, fmt.Errorf("propose segments: %w", err)
	}
	if len(segs) == 0 {
		return Result{}, errors.New("no segments proposed")
	}
	logf("%d segments proposed", len(segs))

	merged := transcript.MergeSegments(segs, in.Transcript)
	if err := writeJSON(filepath.Join(in.OutDir, "segments.json"), merged); err != nil {
		return Result{}, err
	}

	m := types.Manifest{Input: in.SourcePath}
	var labels []string
	for i, seg := range merged {
		id := fmt.Sprintf("%03d", i+1)
		name := fileutil.Safe(seg.Title)
		if name == "" {
			name = id
		}

		clipPath := filepath.Join(in.OutDir, "clips", name+".mp4")
		srtPath := filepath.Join(in.OutDir, "subtitles", name+".srt")
		shortPath := filepath.Join(in.OutDir, "shorts", name+".mp4")

		logf("segment %s: %q [%.1fs - %.1fs]", id, seg.Title, seg.StartTime, seg.EndTime)
		if err := u.d.Video.CutSegment(ctx, in.SourcePath, seg.StartTime, seg.EndTime, clipPath); err != nil {
			return Result{}, fmt.Errorf("cut segment %s: %w", id, err)
		}
		if err := os.WriteFile(srtPath, []byte(subtitles.RenderSRT(seg)), 0o644); err != nil {
			return Result{}, err
		}
		if err := u.d.Reframer.Render(ctx, clipPath, srtPath, shortPath); err != nil {
			return Result{}, fmt.Errorf("reframe segment %s: %w", id, err)
		}

		m.Clips = append(m.Clips, types.ManifestClip{
			ID:          id,
			StartSec:    seg.StartTime,
			EndSec:      seg.EndTime,
			Title:       seg.Title,
			Description: seg.Description,
			Clip:        filepath.ToSlash(filepath.Join("clips", name+".mp4")),
			Short:       filepath.ToSlash(filepath.Join("shorts", name+".mp4")),
			Subtitles:   filepath.ToSlash(filepath.Join("subtitles", name+".srt")),
		})
		labels = append(labels, fmt.Sprintf("Sub-Topic %d: %s, Duration: %ds\nDescription: %s\n",
			i+1, seg.Title, seg.Duration, seg.Description))
	}

	if err := writeLines(filepath.Join(in.OutDir, "segment_labels.txt"), labels); err != nil {
		return Result{}, err
	}
	return Result{Manifest: m, Segments: merged}, nil
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, b, 0o644)
}

func writeLines(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, l := range lines {
		if _, err := fmt.Fprintln(f, l); err != nil {
			return err
		}
	}
	return f.Close()
}
