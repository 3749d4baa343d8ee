// File: internal/perception/preprocess.go
package perception

import (
	"fmt"
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"
)

// letterboxFill is the neutral gray used for the padded borders, matching the
// fill the detector was trained with.
var letterboxFill = color.RGBA{R: 114, G: 114, B: 114, A: 255}

// PreprocessResult carries the normalized model input together with the
// letterbox geometry that produced it. Scale, PadX and PadY must travel with
// the tensor through inference: the coordinate resolver needs them to invert
// the mapping.
type PreprocessResult struct {
	Tensor *Tensor
	Scale  float64
	PadX   float64
	PadY   float64

	// Original capture dimensions, kept for the inverse mapping.
	CaptureW int
	CaptureH int
}

// Letterbox resizes img into a size x size square with uniform scale and
// centered gray padding, then converts the canvas to a channel-planar
// [1,3,size,size] tensor with values normalized to [0,1]. Alpha is dropped.
func Letterbox(img image.Image, size int) (*PreprocessResult, error) {
	if img == nil {
		return nil, fmt.Errorf("letterbox: nil image")
	}
	if size <= 0 {
		return nil, fmt.Errorf("letterbox: non-positive target size %d", size)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("letterbox: empty capture %dx%d", w, h)
	}

	scale := float64(size) / float64(max(w, h))
	scaledW := int(math.Round(float64(w) * scale))
	scaledH := int(math.Round(float64(h) * scale))
	padX := float64(size-scaledW) / 2
	padY := float64(size-scaledH) / 2

	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.Draw(canvas, canvas.Bounds(), image.NewUniform(letterboxFill), image.Point{}, xdraw.Src)

	dst := image.Rect(
		int(math.Round(padX)),
		int(math.Round(padY)),
		int(math.Round(padX))+scaledW,
		int(math.Round(padY))+scaledH,
	)
	xdraw.ApproxBiLinear.Scale(canvas, dst, img, bounds, xdraw.Src, nil)

	tensor := NewTensor("images", 1, 3, size, size)
	data := tensor.Data()
	plane := size * size
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := canvas.RGBAAt(x, y)
			i := y*size + x
			data[i] = float32(c.R) / 255
			data[plane+i] = float32(c.G) / 255
			data[2*plane+i] = float32(c.B) / 255
		}
	}

	return &PreprocessResult{
		Tensor:   tensor,
		Scale:    scale,
		PadX:     padX,
		PadY:     padY,
		CaptureW: w,
		CaptureH: h,
	}, nil
}
