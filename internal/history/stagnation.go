// File: internal/history/stagnation.go
package history

import (
	"fmt"

	"github.com/Svel26/VIO/api/schemas"
)

// thrashWindow is the number of trailing records examined for the A,B,A,B
// oscillation pattern.
const thrashWindow = 4

// Detect classifies the recent action history. It is a pure read over the
// log.
//
// Stagnating: the K most recent records share an identical signature, where K
// is the configured stagnation threshold, regardless of outcomes. The agent
// keeps doing the same thing.
//
// Thrashing (checked independently): the last four signatures strictly
// alternate between exactly two distinct values and none of the four outcomes
// is success. The agent bounces between two failing actions.
//
// Anything else, including a history shorter than K, is healthy.
func (l *Log) Detect() schemas.StagnationVerdict {
	if stagnant, sig := l.detectStagnation(); stagnant {
		return schemas.StagnationVerdict{
			IsStagnating: true,
			IsThrashing:  l.detectThrashing(),
			Message:      fmt.Sprintf("last %d actions are identical: %s", l.stagnationThreshold, sig),
		}
	}
	if l.detectThrashing() {
		return schemas.StagnationVerdict{
			IsThrashing: true,
			Message:     "alternating between two failing actions without progress",
		}
	}
	return schemas.StagnationVerdict{}
}

func (l *Log) detectStagnation() (bool, string) {
	tail := l.Tail(l.stagnationThreshold)
	if len(tail) < l.stagnationThreshold {
		return false, ""
	}
	sig := Signature(tail[0])
	for _, r := range tail[1:] {
		if Signature(r) != sig {
			return false, ""
		}
	}
	return true, sig
}

func (l *Log) detectThrashing() bool {
	tail := l.Tail(thrashWindow)
	if len(tail) < thrashWindow {
		return false
	}
	for _, r := range tail {
		if r.Outcome == schemas.OutcomeSuccess {
			return false
		}
	}
	a, b := Signature(tail[0]), Signature(tail[1])
	if a == b {
		return false
	}
	return Signature(tail[2]) == a && Signature(tail[3]) == b
}
