// File: internal/service/manager_test.go
package service_test

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
	"github.com/Svel26/VIO/internal/service"
)

// stubScreen satisfies the engine's display dependency with a single fixed
// display.
type stubScreen struct{}

func (stubScreen) CaptureScreenshot(displayID string) (*schemas.Capture, bool) {
	return &schemas.Capture{
		Img:       image.NewRGBA(image.Rect(0, 0, 640, 480)),
		Width:     640,
		Height:    480,
		DisplayID: "display-0",
	}, true
}

func (stubScreen) SelectDisplay(displayID string) (schemas.DisplayInfo, bool) {
	return schemas.DisplayInfo{ID: "display-0", Name: "Display 1", Width: 640, Height: 480}, true
}

func (stubScreen) DPR(display schemas.DisplayInfo) float64 { return 1.0 }

// stubDetector reports an empty screen.
type stubDetector struct{}

func (stubDetector) Detect(ctx context.Context, capture *schemas.Capture) ([]schemas.Candidate, *perception.PreprocessResult, error) {
	return nil, nil, nil
}

// concludeDecider ends every run on its first decision.
type concludeDecider struct{}

func (concludeDecider) Decide(ctx context.Context, obs *schemas.Observation) (*schemas.NextAction, error) {
	return &schemas.NextAction{Tool: agent.ToolConclude}, nil
}

// noopSink accepts every action.
type noopSink struct{}

func (noopSink) Perform(ctx context.Context, action *schemas.NextAction, target *schemas.Point) (string, error) {
	return "", nil
}

// fakeFactory builds sessions from the stubs above. withDecider controls
// whether sessions get an oracle.
type fakeFactory struct {
	withDecider bool
	err         error
}

func (f *fakeFactory) Create(cfg *config.Config, logger *zap.Logger) (*service.Components, error) {
	if f.err != nil {
		return nil, f.err
	}
	comps := &service.Components{
		Engine: agent.NewEngine(cfg, stubScreen{}, stubDetector{}, logger),
		Sink:   noopSink{},
	}
	if f.withDecider {
		comps.Decider = concludeDecider{}
	}
	return comps, nil
}

func testConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.Agent.CycleInterval = 0
	return cfg
}

func TestStartSession_RegistersComponents(t *testing.T) {
	m := service.NewManager(testConfig(), &fakeFactory{withDecider: true}, zap.NewNop())

	id, comps, err := m.StartSession()
	require.NoError(t, err)
	require.NotNil(t, comps)
	assert.NotEmpty(t, id)

	got, ok := m.Get(id)
	require.True(t, ok)
	assert.Same(t, comps, got)
}

func TestStartSession_FactoryError(t *testing.T) {
	m := service.NewManager(testConfig(), &fakeFactory{err: errors.New("no platform")}, zap.NewNop())
	_, _, err := m.StartSession()
	assert.Error(t, err)
}

func TestClose_RemovesSession(t *testing.T) {
	m := service.NewManager(testConfig(), &fakeFactory{withDecider: true}, zap.NewNop())
	id, _, err := m.StartSession()
	require.NoError(t, err)

	m.Close(id)
	_, ok := m.Get(id)
	assert.False(t, ok)
}

func TestRunAll_RunsEverySession(t *testing.T) {
	m := service.NewManager(testConfig(), &fakeFactory{withDecider: true}, zap.NewNop())
	for i := 0; i < 3; i++ {
		_, _, err := m.StartSession()
		require.NoError(t, err)
	}

	errs := m.RunAll(context.Background())
	assert.Empty(t, errs)
}

func TestRunAll_MissingOracle(t *testing.T) {
	m := service.NewManager(testConfig(), &fakeFactory{}, zap.NewNop())
	_, _, err := m.StartSession()
	require.NoError(t, err)

	errs := m.RunAll(context.Background())
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "no oracle configured")
}

func TestRunAll_NoSessions(t *testing.T) {
	m := service.NewManager(testConfig(), &fakeFactory{}, zap.NewNop())
	assert.Empty(t, m.RunAll(context.Background()))
}
