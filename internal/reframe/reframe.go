// Package reframe turns a landscape clip into a face-tracked vertical
// video: a per-frame crop window follows a smoothed face center, the
// cropped stream goes to a temporary silent artifact, and a final mux
// reattaches the original audio with burned-in subtitles.
package reframe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/vertcut/vertcut/internal/domain/crop"
	"github.com/vertcut/vertcut/internal/domain/track"
	"github.com/vertcut/vertcut/internal/ports"
)

// ErrEmptySource means the stream opened but yielded zero frames.
var ErrEmptySource = errors.New("source video contains no frames")

const defaultProgressEvery = 50

type Processor struct {
	Video    ports.VideoTool
	Detector ports.Detector

	// Aspect is the crop width:height ratio; zero means 9:16.
	Aspect float64
	// Smoothing is the tracker inertia; zero means track.DefaultSmoothing.
	Smoothing float64

	// ScratchDir receives the intermediate silent artifact; empty
	// means the system temp directory.
	ScratchDir string

	// Progress, when set, is called every ProgressEvery frames with
	// (frames done, frames total). Advisory only.
	Progress      func(done, total int64)
	ProgressEvery int64

	Logf func(format string, args ...any)
}

func (p *Processor) aspect() float64 {
	if p.Aspect > 0 {
		return p.Aspect
	}
	return crop.PortraitAspect
}

func (p *Processor) smoothing() float64 {
	if p.Smoothing > 0 {
		return p.Smoothing
	}
	return track.DefaultSmoothing
}

func (p *Processor) logf(format string, args ...any) {
	if p.Logf != nil {
		p.Logf(format, args...)
	}
}

// Render produces the final vertical video at outPath: crop pass into
// a scratch artifact, then one mux combining that artifact with the
// audio of srcPath and an optional subtitle file.
//
// The scratch artifact is deleted on every exit path, mux failures
// included; outPath is only ever written by a successful mux, so a
// partial final output is never left behind.
func (p *Processor) Render(ctx context.Context, srcPath, subtitlePath, outPath string) error {
	scratch := p.ScratchDir
	if scratch == "" {
		scratch = os.TempDir()
	}
	temp := filepath.Join(scratch, "reframe-"+uuid.NewString()+".mp4")
	defer os.Remove(temp)

	if err := p.cropPass(ctx, srcPath, temp); err != nil {
		return err
	}
	if err := p.Video.Mux(ctx, temp, srcPath, subtitlePath, outPath); err != nil {
		return fmt.Errorf("mux %s: %w", outPath, err)
	}
	return nil
}

// cropPass streams srcPath frame by frame, following the face with a
// fresh tracker, and writes the cropped stream to tempPath.
func (p *Processor) cropPass(ctx context.Context, srcPath, tempPath string) (err error) {
	src, err := p.Video.OpenFrameSource(ctx, srcPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	info := src.Info()
	aspect := p.aspect()

	// The crop window's position moves per frame but its size is a
	// function of the source dimensions alone, so the output
	// resolution is fixed before the first frame.
	fixed := crop.Plan(info.Width, info.Height, info.Width/2, info.Height/2, aspect)
	ow, oh := fixed.Width(), fixed.Height()
	p.logf("reframe %s: %dx%d -> %dx%d, %d frames at %.2f fps",
		filepath.Base(srcPath), info.Width, info.Height, ow, oh, info.Frames, info.FPS)

	sink, err := p.Video.NewFrameSink(ctx, tempPath, ow, oh, info.FPS)
	if err != nil {
		return err
	}
	sinkOpen := true
	defer func() {
		if sinkOpen {
			if cerr := sink.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
	}()

	// Fresh tracker per video: stale smoothing state from another
	// clip would bias the first frames.
	tracker := track.New(p.Detector, p.smoothing())

	every := p.ProgressEvery
	if every <= 0 {
		every = defaultProgressEvery
	}

	var frame ports.Frame
	out := ports.Frame{Pix: make([]byte, ow*oh*bytesPerPixel), Width: ow, Height: oh}
	var done int64
	for {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		ok, rerr := src.Next(&frame)
		if rerr != nil {
			return rerr
		}
		if !ok {
			break
		}

		cx, cy := tracker.Locate(frame)
		r := crop.Plan(frame.Width, frame.Height, cx, cy, aspect)
		r = fitRect(r, ow, oh, frame.Width, frame.Height)
		copyRegion(frame, r, &out)
		if werr := sink.Write(out); werr != nil {
			return werr
		}

		done++
		if p.Progress != nil && done%every == 0 {
			p.Progress(done, info.Frames)
		}
	}
	if done == 0 {
		return fmt.Errorf("%s: %w", srcPath, ErrEmptySource)
	}
	if p.Progress != nil {
		p.Progress(done, info.Frames)
	}

	// Close the sink here so an encoder failure surfaces as the
	// pass's error rather than being lost in a deferred cleanup.
	sinkOpen = false
	return sink.Close()
}

const bytesPerPixel = 3

// fitRect pins the rectangle to the fixed output dimensions. Rounding
// cannot drift while the source dimensions are constant; this guards
// the degenerate case of a mid-stream dimension change.
func fitRect(r crop.Rect, ow, oh, w, h int) crop.Rect {
	if r.Width() == ow && r.Height() == oh {
		return r
	}
	if r.X1+ow > w {
		r.X1 = w - ow
	}
	if r.Y1+oh > h {
		r.Y1 = h - oh
	}
	if r.X1 < 0 {
		r.X1 = 0
	}
	if r.Y1 < 0 {
		r.Y1 = 0
	}
	r.X2 = r.X1 + ow
	r.Y2 = r.Y1 + oh
	return r
}

func copyRegion(src ports.Frame, r crop.Rect, dst *ports.Frame) {
	rowLen := r.Width() * bytesPerPixel
	for y := r.Y1; y < r.Y2; y++ {
		off := (y*src.Width + r.X1) * bytesPerPixel
		copy(dst.Pix[(y-r.Y1)*rowLen:], src.Pix[off:off+rowLen])
	}
}
