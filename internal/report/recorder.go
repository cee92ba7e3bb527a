package report

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	"epidemic-sim/internal/common"
	"epidemic-sim/internal/simulation"

	"github.com/icza/mjpeg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	framePadding = 30.0
	pointHalf    = 1 // Points are drawn as (2*pointHalf+1)^2 squares
)

var frameBackground = color.RGBA{255, 255, 255, 255}

// Recorder writes every observed snapshot as one frame of an MJPEG AVI file.
type Recorder struct {
	path     string
	width    int
	height   int
	viewport *common.Viewport
	writer   mjpeg.AviWriter
	frames   int
}

// NewRecorder creates the video file at path.
func NewRecorder(path string, width, height, fps int) (*Recorder, error) {
	if width <= 0 || height <= 0 || fps <= 0 {
		return nil, fmt.Errorf("invalid video geometry %dx%d at %d fps", width, height, fps)
	}
	aw, err := mjpeg.New(path, int32(width), int32(height), int32(fps))
	if err != nil {
		return nil, fmt.Errorf("failed to create video %s: %w", path, err)
	}
	return &Recorder{
		path:     path,
		width:    width,
		height:   height,
		viewport: common.NewViewport(width, height, framePadding),
		writer:   aw,
	}, nil
}

// Observe draws the snapshot and appends it as a frame.
func (r *Recorder) Observe(snap simulation.Snapshot) error {
	img := RenderFrame(snap, r.viewport)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("failed to encode frame for round %d: %w", snap.Round, err)
	}
	if err := r.writer.AddFrame(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to add frame for round %d: %w", snap.Round, err)
	}
	r.frames++
	return nil
}

// Frames returns the number of frames written so far.
func (r *Recorder) Frames() int {
	return r.frames
}

// Close finalizes the AVI index. The recorder must not be used afterwards.
func (r *Recorder) Close() error {
	if err := r.writer.Close(); err != nil {
		return fmt.Errorf("failed to close video %s: %w", r.path, err)
	}
	return nil
}

// RenderFrame draws a snapshot onto a new image sized to the viewport,
// refitting the viewport to the snapshot first.
func RenderFrame(snap simulation.Snapshot, vp *common.Viewport) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, vp.Width, vp.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: frameBackground}, image.Point{}, draw.Src)

	vp.Fit(snap.Healthy, snap.Infected, snap.Confirmed)
	plotPoints(img, vp, snap.Healthy, healthyColor)
	plotPoints(img, vp, snap.Infected, infectedColor)
	plotPoints(img, vp, snap.Confirmed, confirmedColor)

	addLabel(img, 10, 20, snap.Caption())
	return img
}

func plotPoints(img *image.RGBA, vp *common.Viewport, points []common.Vector, c color.RGBA) {
	for _, p := range points {
		x, y := vp.ToScreen(p)
		cx, cy := int(x), int(y)
		for dx := -pointHalf; dx <= pointHalf; dx++ {
			for dy := -pointHalf; dy <= pointHalf; dy++ {
				img.SetRGBA(cx+dx, cy+dy, c) // no-op outside bounds
			}
		}
	}
}

func addLabel(img *image.RGBA, x, y int, label string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(label)
}
