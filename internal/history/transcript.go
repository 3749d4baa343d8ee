// File: internal/history/transcript.go
package history

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Svel26/VIO/api/schemas"
)

const (
	paramPreviewLen  = 120
	resultPreviewLen = 200
)

// toolStats aggregates the compressed portion of the transcript.
type toolStats struct {
	calls  int
	failed int
}

// Format renders a bounded-size transcript of the history: the most recent
// recentCount records in full, older records compressed into per-tool
// aggregate counts. The output never embeds raw pixel or binary payloads;
// parameter and result previews are truncated.
func (l *Log) Format(recentCount int) string {
	if len(l.records) == 0 {
		return "(no actions recorded)"
	}
	if recentCount <= 0 {
		recentCount = 5
	}

	var sb strings.Builder

	cut := len(l.records) - recentCount
	if cut > 0 {
		stats := make(map[string]*toolStats)
		for _, r := range l.records[:cut] {
			s, ok := stats[r.Tool]
			if !ok {
				s = &toolStats{}
				stats[r.Tool] = s
			}
			s.calls++
			if r.Outcome != schemas.OutcomeSuccess {
				s.failed++
			}
		}

		tools := make([]string, 0, len(stats))
		for tool := range stats {
			tools = append(tools, tool)
		}
		sort.Strings(tools)

		sb.WriteString(fmt.Sprintf("Earlier activity (%d actions):\n", cut))
		for _, tool := range tools {
			s := stats[tool]
			sb.WriteString(fmt.Sprintf("  %s: %d calls, %d failed\n", tool, s.calls, s.failed))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Recent actions:\n")
	for _, r := range l.Tail(recentCount) {
		sb.WriteString(fmt.Sprintf("  [%d] %s", r.Step, r.Tool))
		if len(r.Params) > 0 {
			if b, err := canonical.Marshal(r.Params); err == nil {
				sb.WriteString(fmt.Sprintf(" %s", truncate(string(b), paramPreviewLen)))
			}
		}
		sb.WriteString(fmt.Sprintf(" -> %s (%dms)", r.Outcome, r.DurationMs))
		switch {
		case r.Error != "":
			sb.WriteString(fmt.Sprintf(": %s", truncate(r.Error, resultPreviewLen)))
		case r.Result != "":
			sb.WriteString(fmt.Sprintf(": %s", truncate(r.Result, resultPreviewLen)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
