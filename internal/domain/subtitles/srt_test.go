package subtitles

import (
	"strings"
	"testing"

	"github.com/vertcut/vertcut/internal/types"
)

func TestRenderSRT(t *testing.T) {
	t.Parallel()

	seg := types.SegmentWithSubtitles{
		Segment: types.Segment{Duration: 30},
		Subtitles: []types.Subtitle{
			{Start: 0, Text: "first line"},
			{Start: 4.5, Text: "second line"},
			{Start: 12, Text: "third line"},
		},
	}

	got := RenderSRT(seg)
	want := "1\n00:00:00,000 --> 00:00:04,500\nfirst line\n" +
		"\n2\n00:00:04,500 --> 00:00:12,000\nsecond line\n" +
		"\n3\n00:00:12,000 --> 00:00:30,000\nthird line\n"
	if got != want {
		t.Fatalf("unexpected SRT:\n%q\nwant:\n%q", got, want)
	}
}

func TestRenderSRT_ClampsNegativeStarts(t *testing.T) {
	t.Parallel()

	seg := types.SegmentWithSubtitles{
		Segment: types.Segment{Duration: 10},
		Subtitles: []types.Subtitle{
			{Start: -2.5, Text: "leading"},
			{Start: 3, Text: "trailing"},
		},
	}
	got := RenderSRT(seg)
	if !strings.Contains(got, "00:00:00,000 --> 00:00:03,000") {
		t.Fatalf("negative start not clamped:\n%s", got)
	}
	if !strings.Contains(got, "00:00:03,000 --> 00:00:10,000") {
		t.Fatalf("last entry should end at segment duration:\n%s", got)
	}
}

func TestRenderSRT_Empty(t *testing.T) {
	t.Parallel()

	if got := RenderSRT(types.SegmentWithSubtitles{Segment: types.Segment{Duration: 5}}); got != "" {
		t.Fatalf("want empty output, got %q", got)
	}
}

func TestTimestamp(t *testing.T) {
	t.Parallel()

	cases := []struct {
		sec  float64
		want string
	}{
		{0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{61.25, "00:01:01,250"},
		{3601.5, "01:00:01,500"},
		{-3, "00:00:00,000"},
	}
	for _, c := range cases {
		if got := Timestamp(c.sec); got != c.want {
			t.Errorf("Timestamp(%v) = %q, want %q", c.sec, got, c.want)
		}
	}
}

func TestParseSRT(t *testing.T) {
	t.Parallel()

	src := `1
00:00:01,000 --> 00:00:03,500
hello there

2
00:00:03,500 --> 00:00:06,000
split over
two lines

3
00:01:00,000 --> 00:01:02,000
last one
`
	entries, err := ParseSRT(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseSRT: %v", err)
	}
	want := []types.Entry{
		{Start: 1, Duration: 2.5, Text: "hello there"},
		{Start: 3.5, Duration: 2.5, Text: "split over two lines"},
		{Start: 60, Duration: 2, Text: "last one"},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d: %+v", len(entries), len(want), entries)
	}
	for i, w := range want {
		if entries[i] != w {
			t.Errorf("entry %d = %+v, want %+v", i, entries[i], w)
		}
	}
}

func TestParseSRT_VTTDotTimestamps(t *testing.T) {
	t.Parallel()

	src := "00:00:00.500 --> 00:00:02.000\ncue text\n"
	entries, err := ParseSRT(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseSRT: %v", err)
	}
	if len(entries) != 1 || entries[0].Start != 0.5 || entries[0].Duration != 1.5 {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestParseSRT_SkipsBareIndexAndBlank(t *testing.T) {
	t.Parallel()

	src := "42\n\n\n7\n00:00:01,000 --> 00:00:02,000\ntext\n\n"
	entries, err := ParseSRT(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseSRT: %v", err)
	}
	if len(entries) != 1 || entries[0].Text != "text" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}
