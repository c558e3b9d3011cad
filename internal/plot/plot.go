// Package plot renders a replayed session as an image: the raw and smoothed
// cursor paths, a mode strip along the top and a marker for every action edge.
// It is meant for tuning the cursor filter against recorded landmarks.
package plot

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/pipeline"
)

// ErrNoSamples is returned when no result carries a cursor position.
var ErrNoSamples = errors.New("no cursor samples to plot")

const (
	stripHeight = 12
	markerSize  = 6
)

var (
	background = color.RGBA{R: 24, G: 24, B: 24, A: 0}
	rawColor   = color.RGBA{R: 110, G: 110, B: 110, A: 0}
	textColor  = color.RGBA{R: 230, G: 230, B: 230, A: 0}
)

// Options controls the output image.
type Options struct {
	Width, Height int // image size in pixels

	// ScreenWidth and ScreenHeight are the coordinate space of the results.
	ScreenWidth, ScreenHeight int

	// Labels prints the action name next to each edge marker.
	Labels bool
}

// DefaultOptions returns Options for a 1920x1080 screen plotted at half size.
func DefaultOptions() Options {
	return Options{
		Width:        960,
		Height:       540,
		ScreenWidth:  1920,
		ScreenHeight: 1080,
		Labels:       true,
	}
}

func (o Options) validate() error {
	if o.Width <= 0 || o.Height <= stripHeight {
		return fmt.Errorf("invalid image size %dx%d", o.Width, o.Height)
	}
	if o.ScreenWidth <= 0 || o.ScreenHeight <= 0 {
		return fmt.Errorf("invalid screen size %dx%d", o.ScreenWidth, o.ScreenHeight)
	}
	return nil
}

// scale maps a screen position into the plotting area below the mode strip.
func (o Options) scale(p pipeline.Point) image.Point {
	h := o.Height - stripHeight
	x := p.X / float64(o.ScreenWidth) * float64(o.Width-1)
	y := p.Y/float64(o.ScreenHeight)*float64(h-1) + stripHeight
	return image.Pt(clamp(int(x+0.5), 0, o.Width-1), clamp(int(y+0.5), stripHeight, o.Height-1))
}

// Marker is an action edge placed on the plot.
type Marker struct {
	At     image.Point
	Action dispatch.Token
	Color  color.RGBA
}

// Trace is the plot geometry extracted from a run of results.
type Trace struct {
	Raw      []image.Point
	Smoothed []image.Point
	Colors   []color.RGBA // per smoothed point, from the mode
	Markers  []Marker
	Bands    []Band
}

// Band is a run of frames spent in one mode, as a span of the image width.
type Band struct {
	From, To int
	Color    color.RGBA
}

// Build extracts the plot geometry from results.
func Build(results []pipeline.Result, opts Options) (Trace, error) {
	if err := opts.validate(); err != nil {
		return Trace{}, err
	}

	var tr Trace
	for _, r := range results {
		if r.Raw != nil {
			tr.Raw = append(tr.Raw, opts.scale(*r.Raw))
		}
		if r.Smoothed != nil {
			tr.Smoothed = append(tr.Smoothed, opts.scale(*r.Smoothed))
			tr.Colors = append(tr.Colors, modeColor(r))
		}
		if r.Edge && r.Action != dispatch.None && r.Smoothed != nil {
			tr.Markers = append(tr.Markers, Marker{
				At:     opts.scale(*r.Smoothed),
				Action: r.Action,
				Color:  modeColor(r),
			})
		}
	}
	if len(tr.Smoothed) == 0 {
		return Trace{}, ErrNoSamples
	}

	tr.Bands = bands(results, opts.Width)
	return tr, nil
}

// bands splits the image width over the result timeline by mode.
func bands(results []pipeline.Result, width int) []Band {
	n := len(results)
	if n == 0 {
		return nil
	}
	var out []Band
	start := 0
	for i := 1; i <= n; i++ {
		if i < n && results[i].Mode == results[start].Mode {
			continue
		}
		out = append(out, Band{
			From:  start * width / n,
			To:    i * width / n,
			Color: modeColor(results[start]),
		})
		start = i
	}
	return out
}

// Render draws results into a new image. The caller must Close the Mat.
func Render(results []pipeline.Result, opts Options) (gocv.Mat, error) {
	tr, err := Build(results, opts)
	if err != nil {
		return gocv.NewMat(), err
	}

	img := gocv.NewMatWithSizeFromScalar(scalar(background), opts.Height, opts.Width, gocv.MatTypeCV8UC3)

	for _, b := range tr.Bands {
		gocv.Rectangle(&img, image.Rect(b.From, 0, b.To, stripHeight), b.Color, -1)
	}
	for i := 1; i < len(tr.Raw); i++ {
		gocv.Line(&img, tr.Raw[i-1], tr.Raw[i], rawColor, 1)
	}
	for i := 1; i < len(tr.Smoothed); i++ {
		gocv.Line(&img, tr.Smoothed[i-1], tr.Smoothed[i], tr.Colors[i], 2)
	}
	for _, m := range tr.Markers {
		gocv.Circle(&img, m.At, markerSize, m.Color, 2)
		if opts.Labels {
			gocv.PutText(&img, m.Action.String(), m.At.Add(image.Pt(markerSize+2, -markerSize)),
				gocv.FontHersheySimplex, 0.4, textColor, 1)
		}
	}
	return img, nil
}

// Save renders results and writes the image to path. The format follows
// the file extension.
func Save(path string, results []pipeline.Result, opts Options) error {
	img, err := Render(results, opts)
	defer img.Close()
	if err != nil {
		return err
	}
	if ok := gocv.IMWrite(path, img); !ok {
		return fmt.Errorf("write plot %s", path)
	}
	return nil
}

func modeColor(r pipeline.Result) color.RGBA {
	c, err := parseHex(r.Mode.Info().Color)
	if err != nil {
		return textColor
	}
	return c
}

// parseHex reads a "#RRGGBB" colour.
func parseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("bad colour %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

func scalar(c color.RGBA) gocv.Scalar {
	return gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), 0)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
