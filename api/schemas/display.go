// File: api/schemas/display.go
package schemas

import "image"

// DisplayInfo is an immutable snapshot of one connected monitor. Left and Top
// are the monitor's origin in virtual-desktop space and may be negative on
// multi-monitor setups where a secondary display sits left of or above the
// primary. Snapshots are recreated on every enumeration and carry no
// cross-enumeration identity.
type DisplayInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Left   int    `json:"left"`
	Top    int    `json:"top"`
}

// IsPrimary reports whether this display owns the virtual-desktop origin,
// which is the conventional OS notion of the primary monitor.
func (d DisplayInfo) IsPrimary() bool { return d.Left == 0 && d.Top == 0 }

// Capture is a raw screen grab for a single display. It lives for one
// observation cycle and is never persisted or embedded in transcripts.
type Capture struct {
	Img       image.Image
	Width     int
	Height    int
	DisplayID string
}
