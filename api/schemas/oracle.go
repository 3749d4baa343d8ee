// File: api/schemas/oracle.go
package schemas

import "time"

// NextAction is the single step returned by the external reasoning oracle for
// one observation. The oracle is a black box; this struct is only the wire
// contract between it and the agent loop.
type NextAction struct {
	ID     string                 `json:"id"`
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params,omitempty"`

	// Thought carries the oracle's chain of reasoning for this step. Kept for
	// transcripts and debugging only; never parsed.
	Thought   string    `json:"thought,omitempty"`
	Rationale string    `json:"rationale,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Observation is what the agent hands the oracle after each cycle: the
// deduplicated element list plus the bounded history transcript. Raw pixel
// buffers are deliberately excluded from this structure.
type Observation struct {
	CycleID    string            `json:"cycle_id"`
	DisplayID  string            `json:"display_id,omitempty"`
	Elements   []DetectedElement `json:"elements"`
	Transcript string            `json:"transcript,omitempty"`
	Verdict    StagnationVerdict `json:"verdict"`
	Timestamp  time.Time         `json:"timestamp"`
}
