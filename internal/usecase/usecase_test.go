package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vertcut/vertcut/internal/ports"
	"github.com/vertcut/vertcut/internal/types"
)

type fakeProposer struct {
	segs []types.Segment
	err  error
	got  string
}

func (p *fakeProposer) Propose(_ context.Context, text string) ([]types.Segment, error) {
	p.got = text
	return p.segs, p.err
}

type cutCall struct {
	in         string
	start, end float64
	out        string
}

type fakeVideo struct {
	cuts   []cutCall
	cutErr error
}

func (v *fakeVideo) Probe(context.Context, string) (ports.MediaInfo, error) {
	return ports.MediaInfo{}, nil
}

func (v *fakeVideo) CutSegment(_ context.Context, in string, start, end float64, out string) error {
	v.cuts = append(v.cuts, cutCall{in, start, end, out})
	if v.cutErr != nil {
		return v.cutErr
	}
	return os.WriteFile(out, []byte("clip"), 0o644)
}

func (v *fakeVideo) Mux(context.Context, string, string, string, string) error { return nil }

func (v *fakeVideo) OpenFrameSource(context.Context, string) (ports.FrameSource, error) {
	return nil, errors.New("not implemented")
}

func (v *fakeVideo) NewFrameSink(context.Context, string, int, int, float64) (ports.FrameSink, error) {
	return nil, errors.New("not implemented")
}

type renderCall struct{ src, subs, out string }

type fakeReframer struct {
	calls []renderCall
	err   error
}

func (r *fakeReframer) Render(_ context.Context, src, subs, out string) error {
	r.calls = append(r.calls, renderCall{src, subs, out})
	if r.err != nil {
		return r.err
	}
	return os.WriteFile(out, []byte("short"), 0o644)
}

func outDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, sub := range []string{"clips", "subtitles", "shorts"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func sampleInput(dir string) Input {
	return Input{
		SourcePath: "/videos/source.mp4",
		OutDir:     dir,
		Transcript: types.Transcript{
			VideoID: "vid",
			Entries: []types.Entry{
				{Start: 0, Duration: 5, Text: "intro words"},
				{Start: 10, Duration: 5, Text: "main point"},
				{Start: 20, Duration: 5, Text: "closing words"},
			},
		},
	}
}

func TestRun(t *testing.T) {
	t.Parallel()

	dir := outDir(t)
	proposer := &fakeProposer{segs: []types.Segment{
		{StartTime: 0, EndTime: 15, Title: "The Intro", Description: "opening", Duration: 15},
		{StartTime: 15, EndTime: 25, Title: "Big: Finish?", Description: "ending", Duration: 10},
	}}
	video := &fakeVideo{}
	reframer := &fakeReframer{}

	u := New(Deps{Video: video, Proposer: proposer, Reframer: reframer})
	res, err := u.Run(context.Background(), sampleInput(dir))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.Contains(proposer.got, "[10.00] main point") {
		t.Fatalf("proposer did not receive joined transcript: %q", proposer.got)
	}

	if len(video.cuts) != 2 {
		t.Fatalf("want 2 cuts, got %+v", video.cuts)
	}
	if c := video.cuts[0]; c.in != "/videos/source.mp4" || c.start != 0 || c.end != 15 {
		t.Fatalf("unexpected first cut: %+v", c)
	}
	if got := filepath.Base(video.cuts[1].out); got != "Big_ Finish_.mp4" {
		t.Fatalf("title not sanitized for file name: %q", got)
	}

	if len(reframer.calls) != 2 {
		t.Fatalf("want 2 renders, got %+v", reframer.calls)
	}
	if rc := reframer.calls[0]; rc.src != video.cuts[0].out {
		t.Fatalf("reframe should consume the cut clip: %+v", rc)
	}

	if len(res.Manifest.Clips) != 2 {
		t.Fatalf("manifest clips: %+v", res.Manifest.Clips)
	}
	mc := res.Manifest.Clips[0]
	if mc.ID != "001" || mc.Clip != "clips/The Intro.mp4" || mc.Short != "shorts/The Intro.mp4" || mc.Subtitles != "subtitles/The Intro.srt" {
		t.Fatalf("unexpected manifest clip: %+v", mc)
	}

	srt, err := os.ReadFile(filepath.Join(dir, "subtitles", "The Intro.srt"))
	if err != nil {
		t.Fatalf("subtitle file: %v", err)
	}
	if !strings.Contains(string(srt), "intro words") {
		t.Fatalf("subtitle content missing transcript text:\n%s", srt)
	}

	var merged []types.SegmentWithSubtitles
	b, err := os.ReadFile(filepath.Join(dir, "segments.json"))
	if err != nil {
		t.Fatalf("segments.json: %v", err)
	}
	if err := json.Unmarshal(b, &merged); err != nil {
		t.Fatalf("segments.json parse: %v", err)
	}
	if len(merged) != 2 || merged[0].Title != "The Intro" {
		t.Fatalf("unexpected segments.json: %+v", merged)
	}

	labels, err := os.ReadFile(filepath.Join(dir, "segment_labels.txt"))
	if err != nil {
		t.Fatalf("segment_labels.txt: %v", err)
	}
	if !strings.Contains(string(labels), "Sub-Topic 1: The Intro, Duration: 15s") {
		t.Fatalf("unexpected labels:\n%s", labels)
	}
}

func TestRun_NoSegments(t *testing.T) {
	t.Parallel()

	u := New(Deps{Video: &fakeVideo{}, Proposer: &fakeProposer{}, Reframer: &fakeReframer{}})
	if _, err := u.Run(context.Background(), sampleInput(outDir(t))); err == nil {
		t.Fatal("want error when nothing is proposed")
	}
}

func TestRun_ProposerError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("llm down")
	u := New(Deps{Video: &fakeVideo{}, Proposer: &fakeProposer{err: wantErr}, Reframer: &fakeReframer{}})
	_, err := u.Run(context.Background(), sampleInput(outDir(t)))
	if !errors.Is(err, wantErr) {
		t.Fatalf("want wrapped proposer error, got %v", err)
	}
}

func TestRun_CutFailureAborts(t *testing.T) {
	t.Parallel()

	proposer := &fakeProposer{segs: []types.Segment{
		{StartTime: 0, EndTime: 10, Title: "a", Duration: 10},
		{StartTime: 10, EndTime: 20, Title: "b", Duration: 10},
	}}
	video := &fakeVideo{cutErr: errors.New("ffmpeg exited 1")}
	reframer := &fakeReframer{}
	u := New(Deps{Video: video, Proposer: proposer, Reframer: reframer})

	_, err := u.Run(context.Background(), sampleInput(outDir(t)))
	if err == nil || !strings.Contains(err.Error(), "cut segment 001") {
		t.Fatalf("want cut error for first segment, got %v", err)
	}
	if len(video.cuts) != 1 {
		t.Fatalf("failure must abort the run, got %d cuts", len(video.cuts))
	}
	if len(reframer.calls) != 0 {
		t.Fatal("reframe must not run after a failed cut")
	}
}

func TestRun_ReframeFailureAborts(t *testing.T) {
	t.Parallel()

	proposer := &fakeProposer{segs: []types.Segment{
		{StartTime: 0, EndTime: 10, Title: "a", Duration: 10},
		{StartTime: 10, EndTime: 20, Title: "b", Duration: 10},
	}}
	reframer := &fakeReframer{err: errors.New("no frames")}
	u := New(Deps{Video: &fakeVideo{}, Proposer: proposer, Reframer: reframer})

	_, err := u.Run(context.Background(), sampleInput(outDir(t)))
	if err == nil || !strings.Contains(err.Error(), "reframe segment 001") {
		t.Fatalf("want reframe error, got %v", err)
	}
	if len(reframer.calls) != 1 {
		t.Fatalf("failure must abort the run, got %d renders", len(reframer.calls))
	}
}

func TestRun_UntitledSegmentUsesID(t *testing.T) {
	t.Parallel()

	proposer := &fakeProposer{segs: []types.Segment{
		{StartTime: 0, EndTime: 10, Title: "", Duration: 10},
	}}
	video := &fakeVideo{}
	u := New(Deps{Video: video, Proposer: proposer, Reframer: &fakeReframer{}})

	res, err := u.Run(context.Background(), sampleInput(outDir(t)))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := filepath.Base(video.cuts[0].out); got != "001.mp4" {
		t.Fatalf("untitled segment should use its ID, got %q", got)
	}
	if res.Manifest.Clips[0].Clip != "clips/001.mp4" {
		t.Fatalf("unexpected manifest path: %+v", res.Manifest.Clips[0])
	}
}
