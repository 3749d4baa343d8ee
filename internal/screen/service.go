// File: internal/screen/service.go

// Package screen enumerates connected displays and grabs their pixel content.
// All failures here are soft: a machine with no capturable display yields an
// empty enumeration and absent captures, and the pipeline degrades to empty
// observations rather than crashing.
package screen

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Svel26/VIO/api/schemas"
)

// Service wraps a Platform with the selection and fallback rules the
// pipeline needs.
type Service struct {
	platform Platform
	logger   *zap.Logger
}

// NewService creates a screen service over the given platform.
func NewService(platform Platform, logger *zap.Logger) *Service {
	return &Service{platform: platform, logger: logger.Named("screen")}
}

// ListDisplays returns a snapshot of all connected monitors in enumeration
// order. On platform failure it returns an empty slice; callers must tolerate
// zero displays.
func (s *Service) ListDisplays() []schemas.DisplayInfo {
	n := s.platform.NumDisplays()
	if n <= 0 {
		s.logger.Warn("Display enumeration found no displays.")
		return nil
	}
	displays := make([]schemas.DisplayInfo, 0, n)
	for i := 0; i < n; i++ {
		x, y, w, h := s.platform.Bounds(i)
		displays = append(displays, schemas.DisplayInfo{
			ID:     fmt.Sprintf("display-%d", i),
			Name:   fmt.Sprintf("Display %d", i+1),
			Width:  w,
			Height: h,
			Left:   x,
			Top:    y,
		})
	}
	return displays
}

// SelectDisplay picks the display to observe. A non-empty id matches by
// DisplayInfo id or name, case-insensitively. An empty id selects the display
// whose origin is (0,0) (the conventional primary), falling back to the first
// enumerated. The bool result is false when nothing matches.
func (s *Service) SelectDisplay(id string) (schemas.DisplayInfo, bool) {
	displays := s.ListDisplays()
	if len(displays) == 0 {
		return schemas.DisplayInfo{}, false
	}
	if id != "" {
		for _, d := range displays {
			if strings.EqualFold(d.ID, id) || strings.EqualFold(d.Name, id) {
				return d, true
			}
		}
		s.logger.Warn("Requested display not found.", zap.String("display", id))
		return schemas.DisplayInfo{}, false
	}
	for _, d := range displays {
		if d.IsPrimary() {
			return d, true
		}
	}
	return displays[0], true
}

// CaptureScreenshot grabs the selected display. The bool result is false on
// any failure; this function never panics and never returns a partial
// capture.
func (s *Service) CaptureScreenshot(displayID string) (*schemas.Capture, bool) {
	display, ok := s.SelectDisplay(displayID)
	if !ok {
		return nil, false
	}

	// The display index is encoded in the id assigned by ListDisplays.
	var idx int
	if _, err := fmt.Sscanf(display.ID, "display-%d", &idx); err != nil {
		s.logger.Warn("Malformed display id.", zap.String("id", display.ID))
		return nil, false
	}

	img, err := s.platform.Capture(idx)
	if err != nil {
		s.logger.Warn("Screen capture failed.", zap.String("display", display.ID), zap.Error(err))
		return nil, false
	}
	bounds := img.Bounds()
	return &schemas.Capture{
		Img:       img,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		DisplayID: display.ID,
	}, true
}

// DPR returns the device pixel ratio for a display, defaulting to 1.0
// whenever the platform query fails. A missing scale factor must never be a
// hard failure.
func (s *Service) DPR(display schemas.DisplayInfo) float64 {
	var idx int
	if _, err := fmt.Sscanf(display.ID, "display-%d", &idx); err != nil {
		return 1.0
	}
	if f := s.platform.ScaleFactor(idx); f > 0 {
		return f
	}
	return 1.0
}
