// Package chart lays out a pool's day of readings as SVG geometry: the
// template in internal/views only draws what this package computes.
package chart

import (
	"fmt"
	"math"
	"strings"
	"time"

	"pooltemps/internal/readings"
)

const (
	DefaultWidth  = 640
	DefaultHeight = 240

	marginLeft   = 48
	marginRight  = 16
	marginTop    = 16
	marginBottom = 32

	maxXTicks = 8
	yTicks    = 5
	// yPad keeps the line off the frame edges, in degrees.
	yPad = 1.0
)

type Tick struct {
	Pos   float64
	Label string
}

type Marker struct {
	X, Y  float64
	Title string
}

// Chart is a renderable time series of one pool over [Start, End].
type Chart struct {
	Pool          string
	Width, Height int
	// Plot area.
	Left, Top, Right, Bottom float64

	Start, End time.Time
	Ideal      float64
	IdealY     float64
	Line       string
	Markers    []Marker
	XTicks     []Tick
	YTicks     []Tick
	Empty      bool
}

// Build computes the chart for points over the local day containing now.
// Points outside the window are clamped to its edges. It never fails.
func Build(pool string, points []readings.Point, ideal float64, now time.Time, loc *time.Location) Chart {
	if loc == nil {
		loc = time.UTC
	}
	start := readings.StartOfDay(now, loc)
	end := now.UTC()
	if end.Sub(start) < time.Hour {
		end = start.Add(time.Hour)
	}

	c := Chart{
		Pool:   pool,
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Left:   marginLeft,
		Top:    marginTop,
		Right:  DefaultWidth - marginRight,
		Bottom: DefaultHeight - marginBottom,
		Start:  start,
		End:    end,
		Ideal:  ideal,
		Empty:  len(points) == 0,
	}

	lo, hi := yRange(points, ideal)
	xOf := func(t time.Time) float64 {
		frac := float64(t.Sub(start)) / float64(end.Sub(start))
		frac = math.Max(0, math.Min(1, frac))
		return round(c.Left + frac*(c.Right-c.Left))
	}
	yOf := func(v float64) float64 {
		frac := (v - lo) / (hi - lo)
		return round(c.Bottom - frac*(c.Bottom-c.Top))
	}

	c.IdealY = yOf(ideal)

	coords := make([]string, 0, len(points))
	for _, p := range points {
		x, y := xOf(p.Time), yOf(p.Temperature)
		coords = append(coords, fmt.Sprintf("%g,%g", x, y))
		c.Markers = append(c.Markers, Marker{
			X:     x,
			Y:     y,
			Title: fmt.Sprintf("%s %.1f°F", p.Time.In(loc).Format("15:04"), p.Temperature),
		})
	}
	c.Line = strings.Join(coords, " ")

	c.XTicks = timeTicks(start, end, loc, xOf)
	for i := 0; i < yTicks; i++ {
		v := lo + (hi-lo)*float64(i)/float64(yTicks-1)
		c.YTicks = append(c.YTicks, Tick{Pos: yOf(v), Label: fmt.Sprintf("%.1f", v)})
	}
	return c
}

func yRange(points []readings.Point, ideal float64) (lo, hi float64) {
	lo, hi = ideal, ideal
	for _, p := range points {
		lo = math.Min(lo, p.Temperature)
		hi = math.Max(hi, p.Temperature)
	}
	return lo - yPad, hi + yPad
}

// timeTicks places ticks on whole local hours, labeled HH:MM in loc.
func timeTicks(start, end time.Time, loc *time.Location, xOf func(time.Time) float64) []Tick {
	hours := int(math.Ceil(end.Sub(start).Hours()))
	step := max(1, int(math.Ceil(float64(hours)/maxXTicks)))

	var ticks []Tick
	for t := start; !t.After(end); t = t.Add(time.Duration(step) * time.Hour) {
		ticks = append(ticks, Tick{Pos: xOf(t), Label: t.In(loc).Format("15:04")})
	}
	return ticks
}

func round(v float64) float64 {
	return math.Round(v*10) / 10
}

func (c Chart) PlotWidth() float64  { return c.Right - c.Left }
func (c Chart) PlotHeight() float64 { return c.Bottom - c.Top }
func (c Chart) CenterX() float64    { return (c.Left + c.Right) / 2 }
func (c Chart) CenterY() float64    { return (c.Top + c.Bottom) / 2 }
