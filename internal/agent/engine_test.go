// File: internal/agent/engine_test.go
package agent_test

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Svel26/VIO/api/schemas"
	"github.com/Svel26/VIO/internal/agent"
	"github.com/Svel26/VIO/internal/config"
	"github.com/Svel26/VIO/internal/perception"
)

// fakeScreen serves a single scripted display. captureOK toggles capture
// failure.
type fakeScreen struct {
	display   schemas.DisplayInfo
	captureOK bool
	dpr       float64
}

func (f *fakeScreen) CaptureScreenshot(displayID string) (*schemas.Capture, bool) {
	if !f.captureOK {
		return nil, false
	}
	return &schemas.Capture{
		Img:       image.NewRGBA(image.Rect(0, 0, f.display.Width, f.display.Height)),
		Width:     f.display.Width,
		Height:    f.display.Height,
		DisplayID: f.display.ID,
	}, true
}

func (f *fakeScreen) SelectDisplay(displayID string) (schemas.DisplayInfo, bool) {
	return f.display, true
}

func (f *fakeScreen) DPR(display schemas.DisplayInfo) float64 { return f.dpr }

// fakeDetector returns scripted candidates or a scripted error.
type fakeDetector struct {
	candidates []schemas.Candidate
	pre        *perception.PreprocessResult
	err        error
}

func (f *fakeDetector) Detect(ctx context.Context, capture *schemas.Capture) ([]schemas.Candidate, *perception.PreprocessResult, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.candidates, f.pre, nil
}

func testConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.Agent.CycleInterval = 0 // no pacing in tests
	return cfg
}

func primaryScreen() *fakeScreen {
	return &fakeScreen{
		display: schemas.DisplayInfo{
			ID: "display-0", Name: "Display 1",
			Width: 1920, Height: 1080,
		},
		captureOK: true,
		dpr:       1.0,
	}
}

func pre1920() *perception.PreprocessResult {
	return &perception.PreprocessResult{
		Scale:    640.0 / 1920.0,
		PadX:     0,
		PadY:     140,
		CaptureW: 1920,
		CaptureH: 1080,
	}
}

func TestObserve_HappyPath(t *testing.T) {
	det := &fakeDetector{
		candidates: []schemas.Candidate{
			{Box: schemas.Rect{X1: 100, Y1: 150, X2: 200, Y2: 250}, ClassID: 0, Confidence: 0.9, Anchor: 0},
		},
		pre: pre1920(),
	}
	e := agent.NewEngine(testConfig(), primaryScreen(), det, zap.NewNop())

	obs, err := e.Observe(context.Background())
	require.NoError(t, err)
	require.NotNil(t, obs)
	assert.Equal(t, "display-0", obs.DisplayID)
	require.Len(t, obs.Elements, 1)
	assert.Equal(t, 0, obs.Elements[0].ID)
	assert.Equal(t, "button", obs.Elements[0].Type)
	assert.NotEmpty(t, obs.CycleID)
	assert.True(t, obs.Verdict.Healthy())
}

func TestObserve_CaptureFailureDegrades(t *testing.T) {
	scr := primaryScreen()
	scr.captureOK = false
	e := agent.NewEngine(testConfig(), scr, &fakeDetector{}, zap.NewNop())

	obs, err := e.Observe(context.Background())
	require.NoError(t, err, "capture failure is soft")
	require.NotNil(t, obs)
	assert.Empty(t, obs.Elements)
}

func TestObserve_DetectorErrorDegrades(t *testing.T) {
	det := &fakeDetector{err: errors.New("inference backend down")}
	e := agent.NewEngine(testConfig(), primaryScreen(), det, zap.NewNop())

	obs, err := e.Observe(context.Background())
	require.NoError(t, err)
	assert.Empty(t, obs.Elements)
}

func TestObserve_ShapeMismatchSurfaces(t *testing.T) {
	det := &fakeDetector{err: perception.ErrShapeMismatch}
	e := agent.NewEngine(testConfig(), primaryScreen(), det, zap.NewNop())

	obs, err := e.Observe(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, perception.ErrShapeMismatch)
	assert.Nil(t, obs)
}

func TestObserve_CancelledContext(t *testing.T) {
	e := agent.NewEngine(testConfig(), primaryScreen(), &fakeDetector{pre: pre1920()}, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Observe(ctx)
	assert.Error(t, err)
}

func TestResolve_BeforeAnyObservation(t *testing.T) {
	e := agent.NewEngine(testConfig(), primaryScreen(), &fakeDetector{}, zap.NewNop())
	_, ok := e.Resolve(context.Background(), schemas.TargetRequest{Type: "button"})
	assert.False(t, ok)
}

func TestResolve_AfterObservation(t *testing.T) {
	scr := primaryScreen()
	scr.dpr = 2.0
	det := &fakeDetector{
		candidates: []schemas.Candidate{
			{Box: schemas.Rect{X1: 100, Y1: 150, X2: 200, Y2: 250}, ClassID: 0, Confidence: 0.9, Anchor: 0},
		},
		pre: pre1920(),
	}
	e := agent.NewEngine(testConfig(), scr, det, zap.NewNop())

	_, err := e.Observe(context.Background())
	require.NoError(t, err)

	p, ok := e.Resolve(context.Background(), schemas.TargetRequest{Type: "button"})
	require.True(t, ok)

	// The model box (100,150)-(200,250) maps back through the inverse
	// letterbox: x' = x/scale = x*3, y' = (y-140)/scale. Center of that
	// capture-space box is (450, 180), doubled by the scripted DPR.
	assert.InDelta(t, 900.0, p.X, 1.0)
	assert.InDelta(t, 360.0, p.Y, 1.0)
}

func TestResolve_NoMatchIsRecoverable(t *testing.T) {
	det := &fakeDetector{
		candidates: []schemas.Candidate{
			{Box: schemas.Rect{X1: 10, Y1: 150, X2: 20, Y2: 160}, ClassID: 0, Confidence: 0.9, Anchor: 0},
		},
		pre: pre1920(),
	}
	e := agent.NewEngine(testConfig(), primaryScreen(), det, zap.NewNop())

	_, err := e.Observe(context.Background())
	require.NoError(t, err)

	_, ok := e.Resolve(context.Background(), schemas.TargetRequest{Type: "dialog"})
	assert.False(t, ok)
}

func TestSessionID_Stable(t *testing.T) {
	e := agent.NewEngine(testConfig(), primaryScreen(), &fakeDetector{}, zap.NewNop())
	assert.NotEmpty(t, e.SessionID())
	assert.Equal(t, e.SessionID(), e.SessionID())
}
