package crop

// PortraitAspect is the width:height ratio of a vertical short.
const PortraitAspect = 9.0 / 16.0

// Rect is a crop window in pixel coordinates, x1/y1 inclusive,
// x2/y2 exclusive.
type Rect struct {
	X1, Y1, X2, Y2 int
}

func (r Rect) Width() int  { return r.X2 - r.X1 }
func (r Rect) Height() int { return r.Y2 - r.Y1 }

// Plan returns the largest aspect-matching rectangle that fits inside
// a w×h frame, centered on (cx, cy) and clamped to the frame bounds.
// The crop never letterboxes and never reads out of bounds: when the
// requested center is too close to an edge the window slides inward
// instead of shrinking.
//
// Dimensions use integer truncation (int(w/aspect), int(h*aspect)),
// so the returned ratio may be off by at most one pixel per axis.
func Plan(w, h, cx, cy int, aspect float64) Rect {
	var cw, ch int
	if float64(w)/float64(h) < aspect {
		// Width is the binding constraint.
		cw = w
		ch = int(float64(w) / aspect)
	} else {
		// Height is the binding constraint.
		ch = h
		cw = int(float64(h) * aspect)
	}

	x1 := clamp(cx-cw/2, 0, w-cw)
	y1 := clamp(cy-ch/2, 0, h-ch)
	return Rect{X1: x1, Y1: y1, X2: x1 + cw, Y2: y1 + ch}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
