package ports

import (
	"context"

	"github.com/vertcut/vertcut/internal/types"
)

// MediaInfo describes a probed video stream.
type MediaInfo struct {
	Width    int
	Height   int
	FPS      float64
	Frames   int64
	Duration float64
}

// Frame is one decoded video frame as packed row-major RGB24 pixels.
type Frame struct {
	Pix    []byte
	Width  int
	Height int
}

// Box is a face bounding box in relative [0,1] frame coordinates.
type Box struct {
	XMin   float64
	YMin   float64
	Width  float64
	Height float64
}

// Detector reports zero or more face boxes for a frame. The first box
// is treated as the primary subject.
type Detector interface {
	Detect(f Frame) ([]Box, error)
}

// FrameSource yields frames in strict source order.
type FrameSource interface {
	// Next fills dst with the next frame. It returns false at the
	// normal end of the stream.
	Next(dst *Frame) (bool, error)
	Info() MediaInfo
	Close() error
}

// FrameSink accepts cropped frames for the intermediate silent video.
type FrameSink interface {
	Write(f Frame) error
	Close() error
}

type VideoTool interface {
	Probe(ctx context.Context, path string) (MediaInfo, error)
	CutSegment(ctx context.Context, in string, startSec, endSec float64, out string) error
	// Mux combines the cropped silent video, the audio track of
	// audioSource and an optional burned-in subtitle file into out.
	Mux(ctx context.Context, video, audioSource, subtitlePath, out string) error
	OpenFrameSource(ctx context.Context, path string) (FrameSource, error)
	NewFrameSink(ctx context.Context, path string, width, height int, fps float64) (FrameSink, error)
}

type SegmentProposer interface {
	Propose(ctx context.Context, transcriptText string) ([]types.Segment, error)
}

// MediaSource fetches the source video and its transcript.
type MediaSource interface {
	DownloadVideo(ctx context.Context, videoID, destPath string) error
	FetchTranscript(ctx context.Context, videoID string) (types.Transcript, error)
	Title(ctx context.Context, videoID string) (string, error)
}
