// File: internal/perception/decode.go
package perception

import (
	"errors"
	"fmt"

	"github.com/Svel26/VIO/api/schemas"
)

// ErrShapeMismatch signals that the raw output tensor does not have the
// [1, 4+C, A] layout the decoder expects. This is a model/pipeline contract
// violation and must surface to the caller, never be swallowed.
var ErrShapeMismatch = errors.New("raw tensor shape does not match decoder contract")

// Decode converts a raw detection tensor of shape [1, 4+C, A] into
// confidence-filtered candidate boxes in model-input space. The first four
// rows are (cx, cy, w, h); the remaining C rows are per-class scores. For
// each anchor the best-scoring class is taken, and the anchor is kept only if
// that score exceeds confThreshold. Candidates are emitted in anchor-index
// order with no further ordering guarantee.
func Decode(raw *Tensor, confThreshold float64) ([]schemas.Candidate, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: nil tensor", ErrShapeMismatch)
	}
	if raw.Rank() != 3 || raw.Dim(0) != 1 || raw.Dim(1) < 5 {
		return nil, fmt.Errorf("%w: got shape %v, want [1, 4+C, A] with C >= 1", ErrShapeMismatch, raw.Shape())
	}

	classes := raw.Dim(1) - 4
	anchors := raw.Dim(2)

	var out []schemas.Candidate
	for i := 0; i < anchors; i++ {
		classID := 0
		maxConf := float64(raw.At(0, 4, i))
		for c := 1; c < classes; c++ {
			if score := float64(raw.At(0, 4+c, i)); score > maxConf {
				maxConf = score
				classID = c
			}
		}
		if maxConf <= confThreshold {
			continue
		}

		cx := float64(raw.At(0, 0, i))
		cy := float64(raw.At(0, 1, i))
		w := float64(raw.At(0, 2, i))
		h := float64(raw.At(0, 3, i))

		out = append(out, schemas.Candidate{
			Box: schemas.Rect{
				X1: cx - w/2,
				Y1: cy - h/2,
				X2: cx + w/2,
				Y2: cy + h/2,
			},
			ClassID:    classID,
			Confidence: maxConf,
			Anchor:     i,
		})
	}
	return out, nil
}
