package track

import (
	"github.com/vertcut/vertcut/internal/ports"
)

// DefaultSmoothing favors stability over responsiveness: a first-order
// low-pass with high inertia suppresses frame-to-frame detection
// jitter at the cost of slower reaction to real motion.
const DefaultSmoothing = 0.8

// Tracker locates the primary face in a frame sequence and smooths the
// center estimate over time. One Tracker serves exactly one video; it
// carries state from frame to frame, so frames must arrive in strict
// source order and the tracker must not be reused across videos.
type Tracker struct {
	det       ports.Detector
	smoothing float64

	hasLast      bool
	lastX, lastY int
}

// New builds a tracker around the given detector. Smoothing values
// outside [0,1] fall back to DefaultSmoothing.
func New(det ports.Detector, smoothing float64) *Tracker {
	if smoothing < 0 || smoothing > 1 {
		smoothing = DefaultSmoothing
	}
	return &Tracker{det: det, smoothing: smoothing}
}

// Locate returns the tracked face center for f in pixel coordinates.
//
// A missing face is a steady-state condition, not an error: with no
// detection this frame the last known center is reused, and with no
// history at all the frame's geometric center is returned. Detector
// backend failures degrade the same way.
func (t *Tracker) Locate(f ports.Frame) (int, int) {
	boxes, err := t.det.Detect(f)
	if err != nil || len(boxes) == 0 {
		if t.hasLast {
			return t.lastX, t.lastY
		}
		return f.Width / 2, f.Height / 2
	}

	// First detection wins: single primary subject assumption.
	b := boxes[0]
	cx := int((b.XMin + b.Width/2) * float64(f.Width))
	cy := int((b.YMin + b.Height/2) * float64(f.Height))

	if t.hasLast {
		cx = int(t.smoothing*float64(t.lastX) + (1-t.smoothing)*float64(cx))
		cy = int(t.smoothing*float64(t.lastY) + (1-t.smoothing)*float64(cy))
	}

	t.lastX, t.lastY = cx, cy
	t.hasLast = true
	return cx, cy
}
