// File: internal/inference/session.go
package inference

import (
	"context"
	"errors"

	"github.com/Svel26/VIO/internal/perception"
)

// ErrUnavailable is returned when no inference backend is configured or the
// backend has become unreachable. Callers treat this as "detector disabled"
// and degrade to an empty element list rather than failing the agent.
var ErrUnavailable = errors.New("inference backend unavailable")

// Session runs the detection model. Input is the [1,3,S,S] tensor produced by
// the preprocessor; output is the raw [1,4+C,A] detection tensor. The session
// blocks until the backend answers or ctx is done; there is no streamed or
// partial result.
type Session interface {
	Run(ctx context.Context, input *perception.Tensor) (*perception.Tensor, error)
}
