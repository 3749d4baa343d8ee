// File: internal/screen/service_test.go
package screen_test

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Svel26/VIO/internal/screen"
)

// fakePlatform is a scripted Platform for tests. Displays are described by
// their bounds; capture and scale behavior is overridable per test.
type fakePlatform struct {
	bounds     [][4]int // x, y, w, h per display
	captureErr error
	scale      float64
}

func (f *fakePlatform) NumDisplays() int { return len(f.bounds) }

func (f *fakePlatform) Bounds(i int) (x, y, w, h int) {
	b := f.bounds[i]
	return b[0], b[1], b[2], b[3]
}

func (f *fakePlatform) Capture(i int) (image.Image, error) {
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	b := f.bounds[i]
	return image.NewRGBA(image.Rect(0, 0, b[2], b[3])), nil
}

func (f *fakePlatform) ScaleFactor(i int) float64 { return f.scale }

func dualMonitor() *fakePlatform {
	return &fakePlatform{
		bounds: [][4]int{
			{-1920, 0, 1920, 1080}, // secondary to the left
			{0, 0, 2560, 1440},     // primary at origin
		},
		scale: 1.0,
	}
}

func TestListDisplays(t *testing.T) {
	svc := screen.NewService(dualMonitor(), zap.NewNop())
	displays := svc.ListDisplays()
	require.Len(t, displays, 2)

	assert.Equal(t, "display-0", displays[0].ID)
	assert.Equal(t, "Display 1", displays[0].Name)
	assert.Equal(t, -1920, displays[0].Left)
	assert.False(t, displays[0].IsPrimary())

	assert.Equal(t, "display-1", displays[1].ID)
	assert.Equal(t, 2560, displays[1].Width)
	assert.True(t, displays[1].IsPrimary())
}

func TestListDisplays_NoneAttached(t *testing.T) {
	svc := screen.NewService(&fakePlatform{}, zap.NewNop())
	assert.Empty(t, svc.ListDisplays())
}

func TestSelectDisplay_ByID(t *testing.T) {
	svc := screen.NewService(dualMonitor(), zap.NewNop())
	d, ok := svc.SelectDisplay("display-0")
	require.True(t, ok)
	assert.Equal(t, "display-0", d.ID)
}

func TestSelectDisplay_ByNameCaseInsensitive(t *testing.T) {
	svc := screen.NewService(dualMonitor(), zap.NewNop())
	d, ok := svc.SelectDisplay("display 2")
	require.True(t, ok)
	assert.Equal(t, "display-1", d.ID)
}

func TestSelectDisplay_EmptyPrefersPrimary(t *testing.T) {
	svc := screen.NewService(dualMonitor(), zap.NewNop())
	d, ok := svc.SelectDisplay("")
	require.True(t, ok)
	assert.Equal(t, "display-1", d.ID, "the display at (0,0) wins")
}

func TestSelectDisplay_EmptyFallsBackToFirst(t *testing.T) {
	platform := &fakePlatform{
		bounds: [][4]int{{100, 50, 1920, 1080}}, // nothing at the origin
		scale:  1.0,
	}
	svc := screen.NewService(platform, zap.NewNop())
	d, ok := svc.SelectDisplay("")
	require.True(t, ok)
	assert.Equal(t, "display-0", d.ID)
}

func TestSelectDisplay_UnknownID(t *testing.T) {
	svc := screen.NewService(dualMonitor(), zap.NewNop())
	_, ok := svc.SelectDisplay("display-9")
	assert.False(t, ok)
}

func TestSelectDisplay_NoDisplays(t *testing.T) {
	svc := screen.NewService(&fakePlatform{}, zap.NewNop())
	_, ok := svc.SelectDisplay("")
	assert.False(t, ok)
}

func TestCaptureScreenshot(t *testing.T) {
	svc := screen.NewService(dualMonitor(), zap.NewNop())
	cap, ok := svc.CaptureScreenshot("display-1")
	require.True(t, ok)
	require.NotNil(t, cap)
	assert.Equal(t, 2560, cap.Width)
	assert.Equal(t, 1440, cap.Height)
	assert.Equal(t, "display-1", cap.DisplayID)
	assert.NotNil(t, cap.Img)
}

func TestCaptureScreenshot_PlatformFailure(t *testing.T) {
	platform := dualMonitor()
	platform.captureErr = errors.New("grab failed")
	svc := screen.NewService(platform, zap.NewNop())

	cap, ok := svc.CaptureScreenshot("")
	assert.False(t, ok)
	assert.Nil(t, cap)
}

func TestCaptureScreenshot_UnknownDisplay(t *testing.T) {
	svc := screen.NewService(dualMonitor(), zap.NewNop())
	cap, ok := svc.CaptureScreenshot("no-such-display")
	assert.False(t, ok)
	assert.Nil(t, cap)
}

func TestDPR(t *testing.T) {
	platform := dualMonitor()
	platform.scale = 2.0
	svc := screen.NewService(platform, zap.NewNop())

	d, ok := svc.SelectDisplay("display-1")
	require.True(t, ok)
	assert.InDelta(t, 2.0, svc.DPR(d), 1e-9)
}

func TestDPR_FallsBackToOne(t *testing.T) {
	platform := dualMonitor()
	platform.scale = 0 // platform could not report a factor
	svc := screen.NewService(platform, zap.NewNop())

	d, ok := svc.SelectDisplay("")
	require.True(t, ok)
	assert.InDelta(t, 1.0, svc.DPR(d), 1e-9)
}
