// File: internal/perception/detector.go
package perception

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Svel26/VIO/api/schemas"
	"github.com/Svel26/VIO/internal/config"
	"github.com/Svel26/VIO/internal/inference"
)

// Detector runs the model half of the pipeline: letterbox, inference, decode,
// suppression. Its output is still in model-input space; the coordinate
// resolver maps survivors back to capture and device space.
//
// A Detector with no session is permanently disabled and yields an empty
// survivor list every cycle. This is the mandated degradation for a missing
// model, not an error.
type Detector struct {
	session inference.Session
	cfg     config.PerceptionConfig
	logger  *zap.Logger

	disabledOnce sync.Once
}

// NewDetector creates a detector. session may be nil for disabled mode.
func NewDetector(session inference.Session, cfg config.PerceptionConfig, logger *zap.Logger) *Detector {
	return &Detector{
		session: session,
		cfg:     cfg,
		logger:  logger.Named("detector"),
	}
}

// Enabled reports whether an inference session is attached.
func (d *Detector) Enabled() bool { return d.session != nil }

// Detect performs one observation's worth of detection over a capture and
// returns the deduplicated survivors in model-input space along with the
// letterbox geometry needed to invert them.
//
// A disabled or unreachable backend yields (nil, nil, nil). A raw-tensor
// shape mismatch is returned as an error wrapping ErrShapeMismatch and must
// surface: it means the model and decoder disagree on layout.
func (d *Detector) Detect(ctx context.Context, capture *schemas.Capture) ([]schemas.Candidate, *PreprocessResult, error) {
	if d.session == nil {
		d.disabledOnce.Do(func() {
			d.logger.Warn("No inference session configured; detector is disabled and will report zero elements.")
		})
		return nil, nil, nil
	}
	if capture == nil || capture.Img == nil {
		return nil, nil, fmt.Errorf("detect: nil capture")
	}

	pre, err := Letterbox(capture.Img, d.cfg.ModelInputSize)
	if err != nil {
		return nil, nil, fmt.Errorf("detect: %w", err)
	}

	raw, err := d.session.Run(ctx, pre.Tensor)
	if err != nil {
		// An unavailable backend degrades to an empty cycle; everything else
		// propagates so the caller can fail the cycle closed.
		if ctx.Err() == nil && errors.Is(err, inference.ErrUnavailable) {
			d.logger.Warn("Inference backend unavailable; reporting zero elements for this cycle.", zap.Error(err))
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("detect: inference: %w", err)
	}

	candidates, err := Decode(raw, d.cfg.ConfidenceThreshold)
	if err != nil {
		return nil, nil, err
	}

	survivors := Suppress(candidates, d.cfg.IOUThreshold, d.cfg.ClassAwareNMS)
	d.logger.Debug("Detection cycle complete.",
		zap.Int("candidates", len(candidates)),
		zap.Int("survivors", len(survivors)),
	)
	return survivors, pre, nil
}
