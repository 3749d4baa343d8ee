// File: api/schemas/detection.go
package schemas

// Candidate is a single confidence-filtered detection in model-input space,
// produced by the decoder before deduplication. Anchor preserves the anchor
// index the candidate was decoded from and is used as a deterministic
// tie-breaker when confidences are equal.
type Candidate struct {
	Box        Rect    `json:"box"`
	ClassID    int     `json:"class_id"`
	Confidence float64 `json:"confidence"`
	Anchor     int     `json:"anchor"`
}

// DetectedElement is a deduplicated UI element in capture space. IDs are
// sequential from zero in descending-confidence order among the suppression
// survivors and are recomputed fresh every cycle; an ID never identifies the
// same element across cycles.
type DetectedElement struct {
	ID         int     `json:"id"`
	Type       string  `json:"type"`
	Bounds     Rect    `json:"bounds"`
	Center     Point   `json:"center"`
	Confidence float64 `json:"confidence"`
	Text       string  `json:"text,omitempty"`
}

// TargetRequest asks the pipeline to resolve a semantic description of a UI
// element into a concrete on-screen location. Both filters are optional; an
// empty request matches the first element unconditionally. OffsetX/OffsetY
// are authored in screenshot-pixel terms by the reasoning layer and are
// applied before any device-pixel-ratio scaling.
type TargetRequest struct {
	Text    string  `json:"text,omitempty"`
	Type    string  `json:"type,omitempty"`
	OffsetX float64 `json:"offset_x,omitempty"`
	OffsetY float64 `json:"offset_y,omitempty"`
}
