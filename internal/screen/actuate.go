// File: internal/screen/actuate.go
package screen

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-vgo/robotgo"
	"go.uber.org/zap"

	"github.com/Svel26/VIO/api/schemas"
)

// ActuationSink injects pointer and keyboard events for decided actions. It
// satisfies the agent's Sink interface and is deliberately dumb: targeting
// already happened in the pipeline, so this layer only fires the OS events.
type ActuationSink struct {
	logger *zap.Logger
}

// NewActuationSink creates the production sink.
func NewActuationSink(logger *zap.Logger) *ActuationSink {
	return &ActuationSink{logger: logger.Named("actuation")}
}

// Perform executes one action. Actions that need a coordinate fail when the
// pipeline could not resolve one.
func (s *ActuationSink) Perform(ctx context.Context, action *schemas.NextAction, target *schemas.Point) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch action.Tool {
	case "click", "double_click", "right_click":
		if target == nil {
			return "", fmt.Errorf("%s requires a resolved target", action.Tool)
		}
		x, y := int(math.Round(target.X)), int(math.Round(target.Y))
		switch action.Tool {
		case "double_click":
			robotgo.MoveClick(x, y, "left", true)
		case "right_click":
			robotgo.MoveClick(x, y, "right")
		default:
			robotgo.MoveClick(x, y)
		}
		s.logger.Debug("Pointer event dispatched.", zap.String("tool", action.Tool), zap.Int("x", x), zap.Int("y", y))
		return fmt.Sprintf("%s at (%d, %d)", action.Tool, x, y), nil

	case "type":
		text, _ := action.Params["value"].(string)
		if text == "" {
			return "", fmt.Errorf("type requires a non-empty value")
		}
		robotgo.TypeStr(text)
		return fmt.Sprintf("typed %d characters", len(text)), nil

	case "key":
		key, _ := action.Params["key"].(string)
		if key == "" {
			return "", fmt.Errorf("key requires a key name")
		}
		if err := robotgo.KeyTap(key); err != nil {
			return "", fmt.Errorf("key tap %q: %w", key, err)
		}
		return fmt.Sprintf("pressed %s", key), nil

	case "scroll":
		dx, _ := action.Params["dx"].(float64)
		dy, _ := action.Params["dy"].(float64)
		robotgo.Scroll(int(dx), int(dy))
		return fmt.Sprintf("scrolled (%d, %d)", int(dx), int(dy)), nil

	case "wait":
		ms, _ := action.Params["ms"].(float64)
		if ms <= 0 {
			ms = 500
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(ms) * time.Millisecond):
		}
		return fmt.Sprintf("waited %dms", int(ms)), nil

	default:
		return "", fmt.Errorf("unknown tool %q", action.Tool)
	}
}
