// Package chart renders the dashboard's pie, line and bar charts onto an
// abstract drawing surface using pixel coordinates with the origin in the
// top-left corner and y growing downwards.
package chart

import "image/color"

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// Surface is a fixed-size 2D drawing target.
type Surface interface {
	Fill(p Path, c color.Color)
	// Stroke draws the outline of p. A nil dashes slice draws a solid line.
	Stroke(p Path, c color.Color, width float64, dashes []float64)
	// FillText draws s with its baseline at y. Align selects whether x is the
	// left edge or the centre of the text.
	FillText(s string, x, y, size float64, align Align, c color.Color)
}

type OpKind int

const (
	OpMove OpKind = iota
	OpLine
	OpArc
	OpClose
)

// PathOp is one path segment. Arc ops use X,Y as centre; Start and Sweep are
// radians measured clockwise on screen from the positive x axis.
type PathOp struct {
	Kind         OpKind
	X, Y         float64
	R            float64
	Start, Sweep float64
}

type Path []PathOp

func (p *Path) MoveTo(x, y float64) { *p = append(*p, PathOp{Kind: OpMove, X: x, Y: y}) }

func (p *Path) LineTo(x, y float64) { *p = append(*p, PathOp{Kind: OpLine, X: x, Y: y}) }

// Arc appends a circular arc. Like a 2D canvas, the current point is joined
// to the start of the arc by a straight line.
func (p *Path) Arc(cx, cy, r, start, sweep float64) {
	*p = append(*p, PathOp{Kind: OpArc, X: cx, Y: cy, R: r, Start: start, Sweep: sweep})
}

func (p *Path) Close() { *p = append(*p, PathOp{Kind: OpClose}) }

// Rect is the closed outline of an axis-aligned rectangle.
func Rect(x, y, w, h float64) Path {
	var p Path
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
	return p
}

// Circle is a full closed circle.
func Circle(cx, cy, r float64) Path {
	var p Path
	p.Arc(cx, cy, r, 0, fullTurn)
	p.Close()
	return p
}
