// File: internal/perception/nms.go
package perception

import (
	"sort"

	"github.com/Svel26/VIO/api/schemas"
)

// IoU returns the intersection-over-union of two boxes. Whenever the union
// area is not positive (degenerate or zero-area boxes) the result is defined
// as 0, which guarantees a degenerate box can never be suppressed by overlap.
func IoU(a, b schemas.Rect) float64 {
	ix1 := max(a.X1, b.X1)
	iy1 := max(a.Y1, b.Y1)
	ix2 := min(a.X2, b.X2)
	iy2 := min(a.Y2, b.Y2)

	var inter float64
	if ix2 > ix1 && iy2 > iy1 {
		inter = (ix2 - ix1) * (iy2 - iy1)
	}
	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// Suppress performs greedy non-maximum suppression over candidates and
// returns the survivors, still in model-input space, ordered by descending
// confidence (selection order). The input slice is never mutated.
//
// Candidates are considered in descending-confidence order with ties broken
// by ascending anchor index, so the result is deterministic for any input
// permutation. A candidate survives iff its IoU with every already-selected
// survivor is at or below iouThreshold. When classAware is false (the
// observed detector behavior, and the default) suppression compares boxes
// across all classes; when true, only same-class pairs can suppress each
// other.
func Suppress(candidates []schemas.Candidate, iouThreshold float64, classAware bool) []schemas.Candidate {
	if len(candidates) == 0 {
		return nil
	}

	order := append([]schemas.Candidate(nil), candidates...)
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].Confidence != order[j].Confidence {
			return order[i].Confidence > order[j].Confidence
		}
		return order[i].Anchor < order[j].Anchor
	})

	survivors := make([]schemas.Candidate, 0, len(order))
	for _, cand := range order {
		keep := true
		for _, kept := range survivors {
			if classAware && kept.ClassID != cand.ClassID {
				continue
			}
			if IoU(kept.Box, cand.Box) > iouThreshold {
				keep = false
				break
			}
		}
		if keep {
			survivors = append(survivors, cand)
		}
	}
	return survivors
}
