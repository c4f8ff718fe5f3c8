// Package pigo adapts the pure-Go pigo cascade classifier to the
// detector port. Boxes come back in relative [0,1] coordinates,
// strongest detection first.
package pigo

import (
	"fmt"
	"os"
	"sort"

	pigo "github.com/esimov/pigo/core"

	"github.com/vertcut/vertcut/internal/ports"
)

const (
	minFaceSize      = 20
	maxFaceSize      = 1000
	shiftFactor      = 0.1
	scaleFactor      = 1.1
	iouThreshold     = 0.2
	qualityThreshold = 5.0
)

type Adapter struct {
	classifier *pigo.Pigo
}

// New loads the binary cascade file and unpacks the classifier. Each
// adapter owns its classifier; there is no package-level state.
func New(cascadePath string) (*Adapter, error) {
	cascade, err := os.ReadFile(cascadePath)
	if err != nil {
		return nil, fmt.Errorf("read cascade %s: %w", cascadePath, err)
	}
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("unpack cascade: %w", err)
	}
	return &Adapter{classifier: classifier}, nil
}

func (a *Adapter) Detect(f ports.Frame) ([]ports.Box, error) {
	if f.Width <= 0 || f.Height <= 0 || len(f.Pix) < f.Width*f.Height*3 {
		return nil, fmt.Errorf("malformed frame %dx%d", f.Width, f.Height)
	}

	params := pigo.CascadeParams{
		MinSize:     minFaceSize,
		MaxSize:     maxFaceSize,
		ShiftFactor: shiftFactor,
		ScaleFactor: scaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: grayscale(f),
			Rows:   f.Height,
			Cols:   f.Width,
			Dim:    f.Width,
		},
	}

	dets := a.classifier.RunCascade(params, 0.0)
	dets = a.classifier.ClusterDetections(dets, iouThreshold)

	var boxes []ports.Box
	type scored struct {
		box ports.Box
		q   float32
	}
	var kept []scored
	for _, d := range dets {
		if d.Q < qualityThreshold {
			continue
		}
		size := float64(d.Scale)
		kept = append(kept, scored{
			box: ports.Box{
				XMin:   (float64(d.Col) - size/2) / float64(f.Width),
				YMin:   (float64(d.Row) - size/2) / float64(f.Height),
				Width:  size / float64(f.Width),
				Height: size / float64(f.Height),
			},
			q: d.Q,
		})
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].q > kept[j].q })
	for _, s := range kept {
		boxes = append(boxes, s.box)
	}
	return boxes, nil
}

// grayscale flattens packed RGB24 pixels with the standard luma
// weights pigo expects.
func grayscale(f ports.Frame) []uint8 {
	gray := make([]uint8, f.Width*f.Height)
	for i := range gray {
		r := uint32(f.Pix[i*3])
		g := uint32(f.Pix[i*3+1])
		b := uint32(f.Pix[i*3+2])
		gray[i] = uint8((r*299 + g*587 + b*114) / 1000)
	}
	return gray
}
