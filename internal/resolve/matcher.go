// File: internal/resolve/matcher.go
package resolve

import (
	"strings"

	"github.com/Svel26/VIO/api/schemas"
)

// Match resolves a semantic target request against the current observation's
// element list, which is already in survivor/id order. It returns the first
// element whose text case-insensitively contains the requested text (when
// given) and whose type case-insensitively equals the requested type (when
// given). With no filters it returns the first element unconditionally.
//
// A false return is a normal, recoverable outcome, not a fault: the caller
// chooses whether to re-observe, broaden the query, or escalate. There is
// deliberately no relevance scoring among multiple qualifying elements;
// survivor order (confidence-derived) wins.
func Match(elements []schemas.DetectedElement, req schemas.TargetRequest) (schemas.DetectedElement, bool) {
	wantText := strings.ToLower(req.Text)
	wantType := strings.ToLower(req.Type)

	for _, el := range elements {
		if wantText != "" && !strings.Contains(strings.ToLower(el.Text), wantText) {
			continue
		}
		if wantType != "" && !strings.EqualFold(el.Type, req.Type) {
			continue
		}
		return el, true
	}
	return schemas.DetectedElement{}, false
}
