// File: api/schemas/history.go
package schemas

import "time"

// Outcome classifies how a recorded action ended.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeError   Outcome = "error"
)

// ActionRecord is one entry in the append-only action history. Records are
// immutable once appended and live for the whole agent run.
type ActionRecord struct {
	Step       int                    `json:"step"`
	Tool       string                 `json:"tool"`
	Params     map[string]interface{} `json:"params,omitempty"`
	Outcome    Outcome                `json:"outcome"`
	Result     string                 `json:"result,omitempty"`
	Error      string                 `json:"error,omitempty"`
	DurationMs int64                  `json:"duration_ms"`
	Timestamp  time.Time              `json:"timestamp"`
}

// StagnationVerdict is a derived classification of the recent action history.
// It is computed on demand from the history tail and never stored.
type StagnationVerdict struct {
	IsStagnating bool   `json:"is_stagnating"`
	IsThrashing  bool   `json:"is_thrashing"`
	Message      string `json:"message,omitempty"`
}

// Healthy reports whether the verdict flags no behavioral loop.
func (v StagnationVerdict) Healthy() bool { return !v.IsStagnating && !v.IsThrashing }
