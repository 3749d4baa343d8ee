// File: internal/history/signature.go
package history

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/Svel26/VIO/api/schemas"
)

// canonical marshals with sorted map keys so that two parameter maps with the
// same contents always produce the same bytes regardless of insertion order.
var canonical = jsoniter.Config{SortMapKeys: true}.Froze()

// Signature derives the behavioral fingerprint of a record: the tool name
// plus a canonical rendering of its parameters. Two records with the same
// signature represent the agent attempting the same thing.
//
// If the parameters cannot be serialized the signature degrades to tool+"?"
// rather than propagating the error; a lossy fingerprint is still useful and
// loop detection must never take the agent down.
func Signature(r schemas.ActionRecord) string {
	if len(r.Params) == 0 {
		return r.Tool + "()"
	}
	b, err := canonical.Marshal(r.Params)
	if err != nil {
		return r.Tool + "?"
	}
	return r.Tool + "(" + string(b) + ")"
}
