package types

// Entry is one time-aligned transcript line as stored on disk.
type Entry struct {
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
}

// End returns the absolute end time of the entry in seconds.
func (e Entry) End() float64 { return e.Start + e.Duration }

// Transcript is the ordered sequence of entries for one source video.
type Transcript struct {
	VideoID string  `json:"video_id,omitempty"`
	Entries []Entry `json:"entries"`
}

// Segment is one LLM-proposed sub-topic of the source video.
type Segment struct {
	StartTime   float64 `json:"start_time"`
	EndTime     float64 `json:"end_time"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Duration    int     `json:"duration"`
}

// Subtitle is a transcript line re-based to a segment-local timeline.
type Subtitle struct {
	Start float64 `json:"start"`
	Text  string  `json:"text"`
}

// SegmentWithSubtitles pairs a proposed segment with the transcript
// lines that fall inside its time range.
type SegmentWithSubtitles struct {
	Segment
	Subtitles []Subtitle `json:"subtitles"`
}

type Manifest struct {
	Input string         `json:"input"`
	Clips []ManifestClip `json:"clips"`
}

type ManifestClip struct {
	ID          string  `json:"id"`
	StartSec    float64 `json:"start_sec"`
	EndSec      float64 `json:"end_sec"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Clip        string  `json:"clip"`
	Short       string  `json:"short"`
	Subtitles   string  `json:"subtitles"`
}
