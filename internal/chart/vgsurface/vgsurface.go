// Package vgsurface implements chart.Surface on top of gonum's vg canvases
// and encodes charts as SVG or PNG.
package vgsurface

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"

	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/font/liberation"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"

	"portfolio-dashboard/internal/chart"
)

type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

var ErrUnknownFormat = errors.New("unknown image format")

// ParseFormat accepts "svg" and "png" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case SVG, PNG:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) ContentType() string {
	if f == PNG {
		return "image/png"
	}
	return "image/svg+xml"
}

var (
	fonts    = font.NewCache(liberation.Collection())
	sansFont = font.Font{Typeface: "Liberation", Variant: "Sans"}
)

// Surface draws in pixel space: one pixel is one vg point, and the y axis is
// flipped so callers work top-down.
type Surface struct {
	c      vg.Canvas
	height float64
}

var _ chart.Surface = (*Surface)(nil)

func New(c vg.Canvas, height float64) *Surface {
	return &Surface{c: c, height: height}
}

func (s *Surface) Fill(p chart.Path, c color.Color) {
	s.c.SetColor(c)
	s.c.Fill(s.path(p))
}

func (s *Surface) Stroke(p chart.Path, c color.Color, width float64, dashes []float64) {
	s.c.SetColor(c)
	s.c.SetLineWidth(vg.Length(width))
	pattern := make([]vg.Length, len(dashes))
	for i, d := range dashes {
		pattern[i] = vg.Length(d)
	}
	s.c.SetLineDash(pattern, 0)
	s.c.Stroke(s.path(p))
}

func (s *Surface) FillText(text string, x, y, size float64, align chart.Align, c color.Color) {
	face := fonts.Lookup(sansFont, vg.Length(size))
	if align == chart.AlignCenter {
		x -= float64(face.Width(text)) / 2
	}
	s.c.SetColor(c)
	s.c.FillString(face, s.pt(x, y), text)
}

func (s *Surface) pt(x, y float64) vg.Point {
	return vg.Point{X: vg.Length(x), Y: vg.Length(s.height - y)}
}

// path converts a top-down path. Flipping y mirrors angles, so clockwise
// screen arcs become negative sweeps in vg space.
func (s *Surface) path(p chart.Path) vg.Path {
	var out vg.Path
	for _, op := range p {
		switch op.Kind {
		case chart.OpMove:
			out.Move(s.pt(op.X, op.Y))
		case chart.OpLine:
			out.Line(s.pt(op.X, op.Y))
		case chart.OpArc:
			out.Arc(s.pt(op.X, op.Y), vg.Length(op.R), -op.Start, -op.Sweep)
		case chart.OpClose:
			out.Close()
		}
	}
	return out
}

// Encode draws c on a fresh canvas of the chart's size and writes it to w.
func Encode(w io.Writer, c chart.Chart, f Format) error {
	width, height := c.Size()
	switch f {
	case SVG:
		cv := vgsvg.New(vg.Length(width), vg.Length(height))
		c.Draw(New(cv, height))
		if _, err := cv.WriteTo(w); err != nil {
			return fmt.Errorf("write svg %s: %w", c.ID(), err)
		}
		return nil
	case PNG:
		cv := vgimg.NewWith(
			vgimg.UseWH(vg.Length(width), vg.Length(height)),
			vgimg.UseDPI(72),
			vgimg.UseBackgroundColor(color.White),
		)
		c.Draw(New(cv, height))
		if _, err := (vgimg.PngCanvas{Canvas: cv}).WriteTo(w); err != nil {
			return fmt.Errorf("write png %s: %w", c.ID(), err)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}
