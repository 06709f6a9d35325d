package render

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/yigit/examcraft/internal/app/models"
	"github.com/yigit/examcraft/internal/pdf/layout"
)

// Grid pitches in mm
const (
	squarePitch = 5.0
	dotPitch    = 5.0
	isoPitch    = 10.0
)

var (
	gridStroke  = layout.Stroke{Width: 0.1, Color: layout.LightGray}
	majorStroke = layout.Stroke{Width: 0.25, Color: layout.Gray}
	amber       = layout.Color{R: 245, G: 158, B: 11}
)

func (r *Renderer) geometry(p *pass, b *block, g *models.GeometryComponent) {
	r.badgeLine(p, b, g)
	if g.Instructions != "" {
		r.text(b, 0, r.width, g.Instructions, italicStyle)
		b.y += 1
	}

	w := min(g.Width, r.width)
	h := g.Height
	if w <= 0 || h <= 0 {
		w, h = min(160, r.width), 100
	}
	x0 := (r.width - w) / 2
	y0 := b.y

	for _, op := range gridPattern(g.GridType, w, h) {
		switch v := op.(type) {
		case layout.LineOp:
			v.X1, v.X2 = v.X1+x0, v.X2+x0
			v.Y1, v.Y2 = v.Y1+y0, v.Y2+y0
			b.add(v)
		case layout.CircleOp:
			v.X += x0
			v.Y += y0
			b.add(v)
		}
	}

	border := layout.Stroke{Width: 0.5, Color: layout.Black}
	b.add(layout.RectOp{X: x0, Y: y0, W: w, H: h, Stroke: &border})
	b.y = y0 + h + 2
}

// gridPattern returns the tiling of a w x h box, relative to its top left
// corner. Every op stays inside the box.
func gridPattern(kind string, w, h float64) []layout.Op {
	var ops []layout.Op
	hline := func(y float64, s layout.Stroke) {
		ops = append(ops, layout.LineOp{X1: 0, Y1: y, X2: w, Y2: y, Stroke: s})
	}
	vline := func(x float64, s layout.Stroke) {
		ops = append(ops, layout.LineOp{X1: x, Y1: 0, X2: x, Y2: h, Stroke: s})
	}

	switch kind {
	case models.GridMillimeter:
		for i := 1; float64(i) < w; i++ {
			s := gridStroke
			if i%10 == 0 {
				s = majorStroke
			}
			vline(float64(i), s)
		}
		for i := 1; float64(i) < h; i++ {
			s := gridStroke
			if i%10 == 0 {
				s = majorStroke
			}
			hline(float64(i), s)
		}

	case models.GridDots:
		dot := layout.Gray
		for y := dotPitch; y < h; y += dotPitch {
			for x := dotPitch; x < w; x += dotPitch {
				ops = append(ops, layout.CircleOp{X: x, Y: y, R: 0.3, Fill: &dot})
			}
		}

	case models.GridIsometric:
		rowH := isoPitch * math.Sqrt(3) / 2
		for y := rowH; y < h; y += rowH {
			hline(y, gridStroke)
		}
		// two diagonal families at +60 and -60 degrees
		run := h / math.Tan(math.Pi/3)
		for c := -run; c < w+run; c += isoPitch {
			for _, dx := range []float64{run, -run} {
				if x1, y1, x2, y2, ok := clipLine(c, 0, c+dx, h, w, h); ok {
					ops = append(ops, layout.LineOp{X1: x1, Y1: y1, X2: x2, Y2: y2, Stroke: gridStroke})
				}
			}
		}

	default:
		for x := squarePitch; x < w; x += squarePitch {
			vline(x, gridStroke)
		}
		for y := squarePitch; y < h; y += squarePitch {
			hline(y, gridStroke)
		}
	}
	return ops
}

// clipLine clips the segment to the box [0,w]x[0,h] (Liang-Barsky)
func clipLine(x1, y1, x2, y2, w, h float64) (float64, float64, float64, float64, bool) {
	dx, dy := x2-x1, y2-y1
	t0, t1 := 0.0, 1.0
	for _, e := range [4][2]float64{
		{-dx, x1},
		{dx, w - x1},
		{-dy, y1},
		{dy, h - y1},
	} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, t)
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, t)
		}
	}
	if t1-t0 < 1e-9 {
		return 0, 0, 0, 0, false
	}
	return x1 + t0*dx, y1 + t0*dy, x1 + t1*dx, y1 + t1*dy, true
}

var leadingInt = regexp.MustCompile(`^\s*[+-]?\d+`)

// eventYear reads the leading integer of a date ("1789", "1914-1918").
// Dates without one fall back to start.
func eventYear(date string, start int) int {
	m := leadingInt.FindString(date)
	if m == "" {
		return start
	}
	year, err := strconv.Atoi(strings.TrimSpace(m))
	if err != nil {
		return start
	}
	return year
}

// EventPosition returns where an event sits on the axis, in percent of its
// length. It is clamped to 5..95 so end labels stay on the page.
func EventPosition(date string, start, end int) float64 {
	if end == start {
		return 50
	}
	pct := float64(eventYear(date, start)-start) / float64(end-start) * 100
	return min(95, max(5, pct))
}

// maskedEvent returns the date and label as printed. A hidden value is always
// replaced by its mask, even when the value itself is empty.
func maskedEvent(ev models.TimelineEvent) (string, string) {
	date, label := ev.Date, ev.Label
	if !ev.ShowDate {
		date = DateMask
	}
	if !ev.ShowLabel {
		label = LabelMask
	}
	return date, label
}

func (r *Renderer) timeline(p *pass, b *block, t *models.TimelineComponent) {
	r.badgeLine(p, b, t)
	if t.Title != "" {
		r.text(b, 0, r.width, t.Title, boldStyle)
	}

	small := layout.Style{Size: 9, Color: layout.Black}
	dateStyle := layout.Style{Size: 9, Bold: true, Color: layout.Black}
	axis := b.y + 16
	axisStroke := layout.Stroke{Width: 0.8, Color: amber}
	b.add(layout.LineOp{X1: 0, Y1: axis, X2: r.width, Y2: axis, Stroke: axisStroke})

	for i, ev := range t.Events {
		x := EventPosition(ev.Date, t.StartYear, t.EndYear) / 100 * r.width
		fill := amber
		b.add(layout.CircleOp{X: x, Y: axis, R: 1.5, Fill: &fill})

		date, label := maskedEvent(ev)
		dateY, labelY := axis+6, axis+10.5
		if i%2 == 0 {
			dateY, labelY = axis-8, axis-3.5
		}
		if date != "" {
			b.add(layout.TextOp{X: x, Y: dateY, Text: date, Style: dateStyle, Align: layout.AlignCenter})
		}
		if label != "" {
			b.add(layout.TextOp{X: x, Y: labelY, Text: label, Style: small, Align: layout.AlignCenter})
		}
	}

	ends := layout.Style{Size: 8, Color: layout.Gray}
	b.add(layout.TextOp{X: 0, Y: axis + 15, Text: strconv.Itoa(t.StartYear), Style: ends})
	b.add(layout.TextOp{X: r.width, Y: axis + 15, Text: strconv.Itoa(t.EndYear), Style: ends, Align: layout.AlignRight})
	b.y = axis + 17
}
