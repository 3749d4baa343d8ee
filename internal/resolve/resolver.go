// File: internal/resolve/resolver.go

// Package resolve maps suppression survivors out of model space: first back
// into capture-pixel space by inverting the letterbox transform, then into
// absolute device coordinates by applying the display origin and the device
// pixel ratio. It also hosts the semantic target matcher.
package resolve

import (
	"go.uber.org/zap"

	"github.com/Svel26/VIO/api/schemas"
	"github.com/Svel26/VIO/internal/perception"
)

// Resolver converts between the pipeline's coordinate spaces.
type Resolver struct {
	logger *zap.Logger
}

// New creates a Resolver.
func New(logger *zap.Logger) *Resolver {
	return &Resolver{logger: logger.Named("resolver")}
}

// ToCapture inverts the letterbox transform for a single model-space rect,
// producing bounds in capture-pixel space clamped to [0,W]x[0,H].
func ToCapture(box schemas.Rect, pre *perception.PreprocessResult) schemas.Rect {
	r := schemas.Rect{
		X1: (box.X1 - pre.PadX) / pre.Scale,
		Y1: (box.Y1 - pre.PadY) / pre.Scale,
		X2: (box.X2 - pre.PadX) / pre.Scale,
		Y2: (box.Y2 - pre.PadY) / pre.Scale,
	}
	r.X1 = clamp(r.X1, 0, float64(pre.CaptureW))
	r.X2 = clamp(r.X2, 0, float64(pre.CaptureW))
	r.Y1 = clamp(r.Y1, 0, float64(pre.CaptureH))
	r.Y2 = clamp(r.Y2, 0, float64(pre.CaptureH))
	return r
}

// Elements builds the observation's element list from NMS survivors. IDs are
// assigned sequentially from zero in survivor (descending-confidence) order
// and are valid for this cycle only.
func (r *Resolver) Elements(survivors []schemas.Candidate, pre *perception.PreprocessResult, labels perception.LabelTable) []schemas.DetectedElement {
	if len(survivors) == 0 || pre == nil {
		return nil
	}
	elements := make([]schemas.DetectedElement, 0, len(survivors))
	for i, cand := range survivors {
		bounds := ToCapture(cand.Box, pre)
		elements = append(elements, schemas.DetectedElement{
			ID:         i,
			Type:       labels.Label(cand.ClassID),
			Bounds:     bounds,
			Center:     bounds.Center(),
			Confidence: cand.Confidence,
		})
	}
	return elements
}

// ToDevice maps a capture-space point to absolute device coordinates for the
// pointer-injection layer. The caller-supplied offset is authored by the
// reasoning layer in screenshot-pixel terms, so it is added before the DPR
// multiplication; the display origin translates into virtual-desktop space
// and DPR corrects for OS scaling between screenshot pixels and the pointer
// grid. A dpr of zero or below means the platform query failed and is treated
// as 1.0.
func (r *Resolver) ToDevice(p schemas.Point, display schemas.DisplayInfo, dpr float64, offset schemas.Point) schemas.Point {
	if dpr <= 0 {
		dpr = 1.0
	}
	return schemas.Point{
		X: (p.X + offset.X + float64(display.Left)) * dpr,
		Y: (p.Y + offset.Y + float64(display.Top)) * dpr,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
