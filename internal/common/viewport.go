package common

import (
	"math"
)

// Viewport maps plane coordinates onto a screen of a given pixel size,
// preserving aspect ratio and keeping a fixed padding around the points.
type Viewport struct {
	Width   int
	Height  int
	Padding float64

	scale   float64
	offsetX float64
	offsetY float64
}

// NewViewport creates a viewport for a width x height screen.
func NewViewport(width, height int, padding float64) *Viewport {
	v := &Viewport{Width: width, Height: height, Padding: padding}
	v.Fit(nil)
	return v
}

// Resize changes the screen size. Call Fit afterwards to recompute the transform.
func (v *Viewport) Resize(width, height int) {
	v.Width = width
	v.Height = height
}

// Fit determines the scaling and offset so that every point lands on screen.
// Points with fewer than two coordinates are ignored.
func (v *Viewport) Fit(groups ...[]Vector) {
	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64

	for _, points := range groups {
		for _, p := range points {
			if len(p) < 2 {
				continue
			}
			minX = math.Min(minX, p[0])
			maxX = math.Max(maxX, p[0])
			minY = math.Min(minY, p[1])
			maxY = math.Max(maxY, p[1])
		}
	}

	if minX == math.MaxFloat64 { // No valid points found
		v.scale = 1.0
		v.offsetX = float64(v.Width) / 2.0
		v.offsetY = float64(v.Height) / 2.0
		return
	}

	worldWidth := maxX - minX
	worldHeight := maxY - minY

	if worldWidth == 0 && worldHeight == 0 {
		v.scale = 1.0
		v.offsetX = float64(v.Width)/2.0 - minX*v.scale
		v.offsetY = float64(v.Height)/2.0 - minY*v.scale
		return
	}

	if worldWidth == 0 {
		worldWidth = 1
	}
	if worldHeight == 0 {
		worldHeight = 1
	}

	scaleX := (float64(v.Width) - 2*v.Padding) / worldWidth
	scaleY := (float64(v.Height) - 2*v.Padding) / worldHeight
	v.scale = math.Min(scaleX, scaleY)

	if v.scale <= 0 || math.IsNaN(v.scale) || math.IsInf(v.scale, 0) {
		v.scale = 1.0
	}

	centerX := (minX + maxX) / 2.0
	centerY := (minY + maxY) / 2.0
	v.offsetX = float64(v.Width)/2.0 - centerX*v.scale
	v.offsetY = float64(v.Height)/2.0 - centerY*v.scale
}

// ToScreen converts plane coordinates to screen coordinates.
// Screen Y grows downwards, so plane Y is flipped to keep "up" up.
func (v *Viewport) ToScreen(p Vector) (float32, float32) {
	if len(p) < 2 {
		return float32(v.offsetX), float32(v.offsetY)
	}
	screenX := p[0]*v.scale + v.offsetX
	screenY := float64(v.Height) - (p[1]*v.scale + v.offsetY)
	return float32(screenX), float32(screenY)
}
