package subtitles

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/vertcut/vertcut/internal/types"
)

// RenderSRT renders a segment's subtitles as a SubRip file with
// clip-local timestamps, suitable for burning into a clip that starts
// at zero seconds.
//
// Each entry ends where the next one begins; the last entry ends at
// the segment duration. Starts that fall before the clip (negative
// after re-basing) are clamped to zero.
func RenderSRT(seg types.SegmentWithSubtitles) string {
	var blocks []string
	subs := seg.Subtitles
	for i, sub := range subs {
		start := sub.Start
		if start < 0 {
			start = 0
		}
		var end float64
		if i < len(subs)-1 {
			end = subs[i+1].Start
			if end < 0 {
				end = 0
			}
		} else {
			end = float64(seg.Duration)
		}
		blocks = append(blocks, fmt.Sprintf("%d\n%s --> %s\n%s\n",
			i+1, Timestamp(start), Timestamp(end), sub.Text))
	}
	return strings.Join(blocks, "\n")
}

// Timestamp formats seconds as an SRT timing value (HH:MM:SS,mmm).
func Timestamp(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	whole := int(sec)
	h := whole / 3600
	m := (whole % 3600) / 60
	s := whole % 60
	ms := int((sec - float64(whole)) * 1000)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

var reTiming = regexp.MustCompile(`(\d\d:\d\d:\d\d[,.]\d\d\d) --> (\d\d:\d\d:\d\d[,.]\d\d\d)`)

// ParseSRT reads SubRip (or VTT-flavored) cue blocks into transcript
// entries with absolute start/duration seconds. Sequence numbers are
// skipped, multi-line cue text is joined with spaces.
func ParseSRT(r io.Reader) ([]types.Entry, error) {
	var (
		out        []types.Entry
		cur        types.Entry
		haveTiming bool
		textLines  []string
	)

	flush := func() {
		if haveTiming && len(textLines) > 0 {
			cur.Text = strings.Join(textLines, " ")
			out = append(out, cur)
		}
		haveTiming = false
		textLines = nil
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			flush()
			continue
		}
		if m := reTiming.FindStringSubmatch(line); len(m) == 3 {
			flush()
			start := parseTimestamp(m[1])
			end := parseTimestamp(m[2])
			cur = types.Entry{Start: start, Duration: end - start}
			haveTiming = true
			continue
		}
		if isIndex(line) && !haveTiming {
			continue
		}
		if haveTiming {
			textLines = append(textLines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()
	return out, nil
}

func parseTimestamp(ts string) float64 {
	ts = strings.Replace(ts, ",", ".", 1)
	var h, m int
	var s float64
	if _, err := fmt.Sscanf(ts, "%d:%d:%f", &h, &m, &s); err != nil {
		return 0
	}
	return float64(h)*3600 + float64(m)*60 + s
}

func isIndex(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
