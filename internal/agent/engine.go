// File: internal/agent/engine.go

// Package agent owns the observation cycle: capture, preprocess, infer,
// decode, dedup, resolve, strictly in that order, with no overlap between
// cycles. One Engine serves one agent session; a service hosting many
// sessions creates one Engine each and may run them fully in parallel, since
// engines share no state.
package agent

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/Svel26/VIO/api/schemas"
	"github.com/Svel26/VIO/internal/config"
	"github.com/Svel26/VIO/internal/history"
	"github.com/Svel26/VIO/internal/perception"
	"github.com/Svel26/VIO/internal/resolve"
)

// ErrCycleInProgress is returned when a second observation is requested while
// one is still running for the same session. Cycles within a session are
// strictly serialized; there is no cancellation mid-pipeline.
var ErrCycleInProgress = errors.New("observation cycle already in progress")

// Screen is the display/capture surface the engine depends on.
type Screen interface {
	CaptureScreenshot(displayID string) (*schemas.Capture, bool)
	SelectDisplay(displayID string) (schemas.DisplayInfo, bool)
	DPR(display schemas.DisplayInfo) float64
}

// Detector is the perception stage the engine depends on.
type Detector interface {
	Detect(ctx context.Context, capture *schemas.Capture) ([]schemas.Candidate, *perception.PreprocessResult, error)
}

// observationState is the frozen result of the last completed cycle, kept so
// target requests resolve against exactly what was observed.
type observationState struct {
	elements []schemas.DetectedElement
	pre      *perception.PreprocessResult
	display  schemas.DisplayInfo
	dpr      float64
}

// Engine drives one session's perception pipeline.
type Engine struct {
	sessionID string
	screen    Screen
	detector  Detector
	resolver  *resolve.Resolver
	labels    perception.LabelTable
	log       *history.Log
	cfg       *config.Config
	logger    *zap.Logger

	// sem serializes cycles within this session; limiter spaces them out.
	sem     *semaphore.Weighted
	limiter *rate.Limiter

	last observationState
}

// NewEngine assembles an engine for a single session.
func NewEngine(cfg *config.Config, scr Screen, det Detector, logger *zap.Logger) *Engine {
	sessionID := uuid.New().String()[:8]
	interval := cfg.Agent.CycleInterval
	limiter := rate.NewLimiter(rate.Inf, 1)
	if interval > 0 {
		limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	return &Engine{
		sessionID: sessionID,
		screen:    scr,
		detector:  det,
		resolver:  resolve.New(logger),
		labels:    perception.NewLabelTable(cfg.Perception.Labels),
		log:       history.NewLog(cfg.History.StagnationThreshold),
		cfg:       cfg,
		logger:    logger.Named("engine").With(zap.String("session_id", sessionID)),
		sem:       semaphore.NewWeighted(1),
		limiter:   limiter,
	}
}

// SessionID returns this engine's session identifier.
func (e *Engine) SessionID() string { return e.sessionID }

// History exposes the session's append-only action log.
func (e *Engine) History() *history.Log { return e.log }

// Observe runs one full observation cycle and returns what the oracle should
// see. Any stage failure collapses the cycle to an empty element list rather
// than a partial one, with a single exception: a decode shape mismatch is a
// model/pipeline contract violation and is returned as an error.
func (e *Engine) Observe(ctx context.Context) (*schemas.Observation, error) {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer e.sem.Release(1)

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	display, elements, pre, err := e.runPipeline(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dpr := 1.0
	if display.ID != "" {
		dpr = e.screen.DPR(display)
	}
	e.last = observationState{elements: elements, pre: pre, display: display, dpr: dpr}

	return &schemas.Observation{
		CycleID:    uuid.New().String(),
		DisplayID:  display.ID,
		Elements:   elements,
		Transcript: e.log.Format(e.cfg.History.RecentCount),
		Verdict:    e.log.Detect(),
		Timestamp:  time.Now(),
	}, nil
}

// runPipeline executes capture through resolve and fails closed: any soft
// failure returns an empty element list and a nil error. The one hard error
// is the decode contract violation, which must reach the caller.
func (e *Engine) runPipeline(ctx context.Context) (schemas.DisplayInfo, []schemas.DetectedElement, *perception.PreprocessResult, error) {
	capture, ok := e.screen.CaptureScreenshot(e.cfg.Capture.Display)
	if !ok {
		e.logger.Warn("Capture failed; observation degrades to zero elements.")
		return schemas.DisplayInfo{}, nil, nil, nil
	}
	display, _ := e.screen.SelectDisplay(e.cfg.Capture.Display)

	survivors, pre, err := e.detector.Detect(ctx, capture)
	if err != nil {
		if errors.Is(err, perception.ErrShapeMismatch) {
			return display, nil, nil, err
		}
		e.logger.Warn("Detection failed; observation degrades to zero elements.", zap.Error(err))
		return display, nil, nil, nil
	}

	return display, e.resolver.Elements(survivors, pre, e.labels), pre, nil
}

// Resolve maps a semantic target request onto the last observation and
// returns the absolute device coordinate the actuation sink should use. The
// false return covers both "no observation yet" and "no element matched";
// both are recoverable, and the caller picks a fallback strategy.
func (e *Engine) Resolve(ctx context.Context, req schemas.TargetRequest) (schemas.Point, bool) {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return schemas.Point{}, false
	}
	defer e.sem.Release(1)

	el, ok := resolve.Match(e.last.elements, req)
	if !ok {
		return schemas.Point{}, false
	}
	offset := schemas.Point{X: req.OffsetX, Y: req.OffsetY}
	return e.resolver.ToDevice(el.Center, e.last.display, e.last.dpr, offset), true
}
