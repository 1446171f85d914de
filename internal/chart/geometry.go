package chart

import "math"

const (
	fullTurn = 2 * math.Pi
	// pieStart points the first slice straight up.
	pieStart = -math.Pi / 2
)

// Slice is the geometry of one pie wedge.
type Slice struct {
	Index  int
	Value  float64
	Start  float64 // radians, clockwise from 3 o'clock
	Sweep  float64
	LabelX float64
	LabelY float64
}

func (s Slice) Mid() float64 { return s.Start + s.Sweep/2 }

// PieSlices lays values out clockwise from 12 o'clock. Each label sits on the
// slice's mid-angle at labelRadius from the centre. A non-positive total
// yields no slices.
func PieSlices(values []float64, cx, cy, labelRadius float64) []Slice {
	var total float64
	for _, v := range values {
		total += v
	}
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return nil
	}

	slices := make([]Slice, 0, len(values))
	angle := pieStart
	for i, v := range values {
		s := Slice{Index: i, Value: v, Start: angle, Sweep: v / total * fullTurn}
		mid := s.Mid()
		s.LabelX = cx + math.Cos(mid)*labelRadius
		s.LabelY = cy + math.Sin(mid)*labelRadius
		slices = append(slices, s)
		angle += s.Sweep
	}
	return slices
}

// Degrees converts radians.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Scale maps a value domain onto a vertical pixel range.
type Scale struct {
	Min, Max float64
}

// PaddedScale spans every value of every series, widened by pad on both
// sides. ok is false when there are no values at all.
func PaddedScale(pad float64, series ...[]float64) (s Scale, ok bool) {
	s = Scale{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, vs := range series {
		for _, v := range vs {
			s.Min = math.Min(s.Min, v)
			s.Max = math.Max(s.Max, v)
			ok = true
		}
	}
	if !ok {
		return Scale{}, false
	}
	s.Min -= pad
	s.Max += pad
	return s, true
}

func (s Scale) Contains(v float64) bool { return v >= s.Min && v <= s.Max }

// Y maps v into [top, top+height] with Min at the bottom edge.
func (s Scale) Y(v, top, height float64) float64 {
	span := s.Max - s.Min
	if span == 0 {
		return top + height/2
	}
	return top + height - (v-s.Min)/span*height
}

// XAt spaces n categories evenly across [left, left+width], first and last
// on the edges. A single category is centred.
func XAt(i, n int, left, width float64) float64 {
	if n <= 1 {
		return left + width/2
	}
	return left + float64(i)/float64(n-1)*width
}

// Bar is the geometry of one column.
type Bar struct {
	Index     int
	Value     float64
	X, Y      float64
	Width     float64
	Height    float64
	LabelX    float64 // centre of the bar
	LabelY    float64 // just above the bar
	CategoryX float64
}

// BarHeadroom is the fraction of the plot height the tallest bar fills.
const BarHeadroom = 0.8

// BarLayout places one bar per value inside the plot rectangle. Bars are
// half a category wide, and the maximum value reaches BarHeadroom of the
// height. Negative values hang below the baseline at the same scale; a
// non-positive maximum gives zero-height bars.
func BarLayout(values []float64, left, top, width, height float64) []Bar {
	n := len(values)
	if n == 0 {
		return nil
	}
	maxV := math.Inf(-1)
	for _, v := range values {
		maxV = math.Max(maxV, v)
	}

	slot := width / float64(n)
	barWidth := width / float64(n*2)
	bars := make([]Bar, n)
	for i, v := range values {
		h := 0.0
		if maxV > 0 {
			h = v / maxV * height * BarHeadroom
		}
		x := left + float64(i)*slot + barWidth/2
		y := top + height - math.Max(h, 0)
		h = math.Abs(h)
		bars[i] = Bar{
			Index:     i,
			Value:     v,
			X:         x,
			Y:         y,
			Width:     barWidth,
			Height:    h,
			LabelX:    x + barWidth/2,
			LabelY:    y - 5,
			CategoryX: left + float64(i)*slot + barWidth,
		}
	}
	return bars
}
