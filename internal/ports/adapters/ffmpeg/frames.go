package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"

	"github.com/vertcut/vertcut/internal/ports"
)

const bytesPerPixel = 3 // packed RGB24

// OpenFrameSource starts a decoder process that emits the video as
// raw RGB24 frames on a pipe. Frames arrive in strict source order.
func (a *Adapter) OpenFrameSource(ctx context.Context, path string) (ports.FrameSource, error) {
	if err := statSource(path); err != nil {
		return nil, err
	}
	info, err := a.Probe(ctx, path)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-v", "error",
		"-i", path,
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"pipe:1",
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("decoder stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start decoder: %w", err)
	}

	return &frameSource{
		cmd:    cmd,
		out:    stdout,
		reader: bufio.NewReaderSize(stdout, 1<<20),
		stderr: &stderr,
		info:   info,
	}, nil
}

type frameSource struct {
	cmd    *exec.Cmd
	out    io.ReadCloser
	reader *bufio.Reader
	stderr *bytes.Buffer
	info   ports.MediaInfo
	closed bool
}

func (s *frameSource) Info() ports.MediaInfo { return s.info }

func (s *frameSource) Next(dst *ports.Frame) (bool, error) {
	size := s.info.Width * s.info.Height * bytesPerPixel
	if cap(dst.Pix) < size {
		dst.Pix = make([]byte, size)
	}
	dst.Pix = dst.Pix[:size]
	dst.Width = s.info.Width
	dst.Height = s.info.Height

	_, err := io.ReadFull(s.reader, dst.Pix)
	if err == nil {
		return true, nil
	}
	// EOF is the normal end-of-stream signal; a truncated tail frame
	// is dropped rather than surfaced.
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return false, nil
	}
	return false, fmt.Errorf("read frame: %w", err)
}

func (s *frameSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.out.Close()
	// The decoder may still be mid-stream when the pipe closes; its
	// exit status is uninteresting on the close path.
	_ = s.cmd.Wait()
	return nil
}

// NewFrameSink starts an encoder process that consumes raw RGB24
// frames on stdin and writes a silent H.264 video. Audio is attached
// later by Mux from the original source, avoiding a second audio
// transcode.
func (a *Adapter) NewFrameSink(ctx context.Context, path string, width, height int, fps float64) (ports.FrameSink, error) {
	if fps <= 0 {
		fps = 30
	}
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-v", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", strconv.FormatFloat(fps, 'f', -1, 64),
		"-i", "pipe:0",
		"-an",
		// libx264 with yuv420p rejects odd dimensions and the crop
		// width is free to be odd; round down to the nearest even.
		"-vf", "scale=trunc(iw/2)*2:trunc(ih/2)*2",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		path,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("encoder stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start encoder: %w", err)
	}

	return &frameSink{
		cmd:       cmd,
		in:        stdin,
		writer:    bufio.NewWriterSize(stdin, 1<<20),
		stderr:    &stderr,
		frameSize: width * height * bytesPerPixel,
	}, nil
}

type frameSink struct {
	cmd       *exec.Cmd
	in        io.WriteCloser
	writer    *bufio.Writer
	stderr    *bytes.Buffer
	frameSize int
	closed    bool
}

func (s *frameSink) Write(f ports.Frame) error {
	if len(f.Pix) != s.frameSize {
		return fmt.Errorf("frame size %d does not match sink size %d", len(f.Pix), s.frameSize)
	}
	if _, err := s.writer.Write(f.Pix); err != nil {
		return &ProcessError{Op: "encode", Stderr: s.stderr.String(), Err: err}
	}
	return nil
}

func (s *frameSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	flushErr := s.writer.Flush()
	s.in.Close()
	if err := s.cmd.Wait(); err != nil {
		return &ProcessError{Op: "encode", Stderr: s.stderr.String(), Err: err}
	}
	return flushErr
}
