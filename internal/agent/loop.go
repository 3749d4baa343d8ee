// File: internal/agent/loop.go
package agent

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Svel26/VIO/api/schemas"
)

// ToolConclude ends the run; the oracle emits it when the objective is done
// or unreachable.
const ToolConclude = "conclude"

// Decider is the external reasoning oracle: one observation in, one next
// action out.
type Decider interface {
	Decide(ctx context.Context, obs *schemas.Observation) (*schemas.NextAction, error)
}

// Sink performs the decided action. Pointer and keyboard injection live
// outside this core; the engine only hands over the action and, when the
// action carried a resolvable target, the absolute device coordinate.
type Sink interface {
	Perform(ctx context.Context, action *schemas.NextAction, target *schemas.Point) (result string, err error)
}

// Run executes the observe/decide/act loop until the oracle concludes, the
// step budget is exhausted, or ctx is done. Every acted step lands in the
// session history, so the stagnation monitor sees the complete record.
func (e *Engine) Run(ctx context.Context, decider Decider, sink Sink) error {
	for step := 0; step < e.cfg.Agent.MaxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		obs, err := e.Observe(ctx)
		if err != nil {
			return fmt.Errorf("observation cycle failed: %w", err)
		}
		if !obs.Verdict.Healthy() {
			e.logger.Warn("Behavioral loop detected.",
				zap.Bool("stagnating", obs.Verdict.IsStagnating),
				zap.Bool("thrashing", obs.Verdict.IsThrashing),
				zap.String("detail", obs.Verdict.Message),
			)
		}

		action, err := decider.Decide(ctx, obs)
		if err != nil {
			return fmt.Errorf("oracle decision failed: %w", err)
		}
		if action.Tool == ToolConclude {
			e.logger.Info("Oracle concluded the run.", zap.Int("steps", step), zap.String("rationale", action.Rationale))
			return nil
		}

		e.act(ctx, sink, action)
	}
	e.logger.Warn("Step budget exhausted before the oracle concluded.", zap.Int("max_steps", e.cfg.Agent.MaxSteps))
	return nil
}

// act resolves the action's target (when it names one) and dispatches it to
// the sink, recording the outcome either way.
func (e *Engine) act(ctx context.Context, sink Sink, action *schemas.NextAction) {
	started := time.Now()
	record := schemas.ActionRecord{
		Tool:      action.Tool,
		Params:    action.Params,
		Timestamp: started,
	}

	var target *schemas.Point
	if req, ok := targetFromParams(action.Params); ok {
		p, found := e.Resolve(ctx, req)
		if !found {
			// Recoverable: the oracle sees the failure next cycle and picks a
			// fallback strategy.
			record.Outcome = schemas.OutcomeFailure
			record.Error = "no element matched the target request"
			record.DurationMs = time.Since(started).Milliseconds()
			e.log.Record(record)
			return
		}
		target = &p
	}

	result, err := sink.Perform(ctx, action, target)
	record.DurationMs = time.Since(started).Milliseconds()
	if err != nil {
		record.Outcome = schemas.OutcomeError
		record.Error = err.Error()
	} else {
		record.Outcome = schemas.OutcomeSuccess
		record.Result = result
	}
	e.log.Record(record)
}

// targetFromParams extracts a target request from the oracle's loosely typed
// parameters. An action with neither text nor type filter is not a targeting
// action.
func targetFromParams(params map[string]interface{}) (schemas.TargetRequest, bool) {
	var req schemas.TargetRequest
	if s, ok := params["text"].(string); ok {
		req.Text = s
	}
	if s, ok := params["type"].(string); ok {
		req.Type = s
	}
	if f, ok := params["offset_x"].(float64); ok {
		req.OffsetX = f
	}
	if f, ok := params["offset_y"].(float64); ok {
		req.OffsetY = f
	}
	return req, req.Text != "" || req.Type != ""
}
