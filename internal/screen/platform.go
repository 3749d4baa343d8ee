// File: internal/screen/platform.go
package screen

import (
	"fmt"
	"image"

	"github.com/go-vgo/robotgo"
	"github.com/vova616/screenshot"
)

// Platform is the narrow OS surface the screen service depends on. Tests
// substitute a fake; production uses the robotgo-backed implementation.
type Platform interface {
	// NumDisplays returns the number of connected displays, zero on failure.
	NumDisplays() int
	// Bounds returns the virtual-desktop origin and size of display i.
	Bounds(i int) (x, y, w, h int)
	// Capture grabs the pixel content of display i.
	Capture(i int) (image.Image, error)
	// ScaleFactor returns the OS-reported device pixel ratio of display i.
	// Implementations return 0 on failure; callers default that to 1.0.
	ScaleFactor(i int) float64
}

// robotgoPlatform implements Platform on top of robotgo, with a plain
// screenshot fallback when robotgo's capture path yields nothing.
type robotgoPlatform struct{}

// NewPlatform returns the production Platform.
func NewPlatform() Platform { return robotgoPlatform{} }

func (robotgoPlatform) NumDisplays() int { return robotgo.DisplaysNum() }

func (robotgoPlatform) Bounds(i int) (int, int, int, int) {
	return robotgo.GetDisplayBounds(i)
}

func (p robotgoPlatform) Capture(i int) (image.Image, error) {
	x, y, w, h := robotgo.GetDisplayBounds(i)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("display %d has empty bounds", i)
	}
	if img := robotgo.CaptureImg(x, y, w, h); img != nil {
		return img, nil
	}
	// Secondary path for X11 setups where robotgo's capture comes back empty.
	img, err := screenshot.CaptureRect(image.Rect(x, y, x+w, y+h))
	if err != nil {
		return nil, fmt.Errorf("capture display %d: %w", i, err)
	}
	return img, nil
}

func (robotgoPlatform) ScaleFactor(i int) float64 {
	return robotgo.ScaleF(i)
}
