// File: internal/service/components.go

// Package service assembles the perception pipeline into runnable agent
// sessions. Each session owns a full component stack and shares nothing with
// other sessions, so sessions run fully in parallel while cycles within a
// session stay strictly serialized.
package service

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Svel26/VIO/internal/agent"
	"github.com/Svel26/VIO/internal/config"
	"github.com/Svel26/VIO/internal/inference"
	"github.com/Svel26/VIO/internal/oracle"
	"github.com/Svel26/VIO/internal/perception"
	"github.com/Svel26/VIO/internal/screen"
)

// Components holds one session's initialized stack.
type Components struct {
	Screen   *screen.Service
	Detector *perception.Detector
	Engine   *agent.Engine
	Decider  agent.Decider
	Sink     agent.Sink
}

// ComponentFactory builds session component stacks. The indirection keeps the
// CLI commands testable with fake components.
type ComponentFactory interface {
	Create(cfg *config.Config, logger *zap.Logger) (*Components, error)
}

type concreteFactory struct {
	platform screen.Platform
}

// NewComponentFactory creates the production factory.
func NewComponentFactory() ComponentFactory {
	return &concreteFactory{platform: screen.NewPlatform()}
}

// Create wires one session's components from configuration. A missing
// inference endpoint produces a disabled detector, not an error. Decider is
// nil when no oracle key is configured; only the full agent loop needs it,
// and commands that merely observe should still work.
func (f *concreteFactory) Create(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	scr := screen.NewService(f.platform, logger)

	var session inference.Session
	if cfg.Inference.Endpoint != "" {
		remote, err := inference.NewRemoteSession(cfg.Inference, logger)
		if err != nil {
			return nil, fmt.Errorf("inference session: %w", err)
		}
		session = remote
	}
	detector := perception.NewDetector(session, cfg.Perception, logger)

	var decider agent.Decider
	if cfg.Oracle.APIKey != "" {
		client, err := oracle.NewClient(cfg.Oracle, logger)
		if err != nil {
			return nil, fmt.Errorf("oracle client: %w", err)
		}
		decider = client
	}

	return &Components{
		Screen:   scr,
		Detector: detector,
		Engine:   agent.NewEngine(cfg, scr, detector, logger),
		Decider:  decider,
		Sink:     screen.NewActuationSink(logger),
	}, nil
}
