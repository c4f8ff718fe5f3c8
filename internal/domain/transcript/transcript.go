package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vertcut/vertcut/internal/types"
)

// Store persists transcripts as JSON files, one per video ID.
type Store struct {
	dir string
}

func NewStore(dir string) *Store { return &Store{dir: dir} }

func (s *Store) path(videoID string) string {
	return filepath.Join(s.dir, videoID+"_transcript.json")
}

// Save writes the transcript and returns the file path.
func (s *Store) Save(tr types.Transcript) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}
	b, err := json.MarshalIndent(tr.Entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal transcript: %w", err)
	}
	p := s.path(tr.VideoID)
	if err := os.WriteFile(p, b, 0o644); err != nil {
		return "", err
	}
	return p, nil
}

// Load reads a previously saved transcript.
func (s *Store) Load(videoID string) (types.Transcript, error) {
	b, err := os.ReadFile(s.path(videoID))
	if err != nil {
		return types.Transcript{}, err
	}
	var entries []types.Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		return types.Transcript{}, fmt.Errorf("parse transcript %s: %w", videoID, err)
	}
	return types.Transcript{VideoID: videoID, Entries: entries}, nil
}

// Exists reports whether a transcript is cached for the video.
func (s *Store) Exists(videoID string) bool {
	_, err := os.Stat(s.path(videoID))
	return err == nil
}

// TextAt returns the transcript line covering the given timestamp, or
// the empty string when nothing covers it.
func TextAt(tr types.Transcript, sec float64) string {
	for _, e := range tr.Entries {
		if e.Start <= sec && sec < e.End() {
			return e.Text
		}
	}
	return ""
}

// InRange returns every entry overlapping [start, end).
func InRange(tr types.Transcript, start, end float64) []types.Entry {
	var out []types.Entry
	for _, e := range tr.Entries {
		if e.Start < end && e.End() > start {
			out = append(out, e)
		}
	}
	return out
}

// Search returns every entry whose text contains term.
func Search(tr types.Transcript, term string, caseSensitive bool) []types.Entry {
	if !caseSensitive {
		term = strings.ToLower(term)
	}
	var out []types.Entry
	for _, e := range tr.Entries {
		text := e.Text
		if !caseSensitive {
			text = strings.ToLower(text)
		}
		if strings.Contains(text, term) {
			out = append(out, e)
		}
	}
	return out
}

// JoinText flattens the transcript into one prompt-ready string.
func JoinText(tr types.Transcript) string {
	parts := make([]string, 0, len(tr.Entries))
	for _, e := range tr.Entries {
		parts = append(parts, fmt.Sprintf("[%.2f] %s", e.Start, e.Text))
	}
	return strings.Join(parts, "\n")
}

// MergeSegments attaches to each proposed segment the transcript lines
// inside its time range, re-based to the segment-local timeline. The
// relative start may be slightly negative when a line begins before
// the segment; SRT rendering clamps it to zero.
func MergeSegments(segs []types.Segment, tr types.Transcript) []types.SegmentWithSubtitles {
	out := make([]types.SegmentWithSubtitles, 0, len(segs))
	for _, seg := range segs {
		merged := types.SegmentWithSubtitles{Segment: seg}
		for _, e := range InRange(tr, seg.StartTime, seg.EndTime) {
			merged.Subtitles = append(merged.Subtitles, types.Subtitle{
				Start: e.Start - seg.StartTime,
				Text:  e.Text,
			})
		}
		out = append(out, merged)
	}
	return out
}
