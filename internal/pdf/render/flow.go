package render

import (
	"strings"

	"github.com/yigit/examcraft/internal/pdf/layout"
	"github.com/yigit/examcraft/internal/pdf/typeset"
)

// baselineRatio places the baseline inside a line box
const baselineRatio = 0.72

// block accumulates the ops of one component. y is the running cursor.
type block struct {
	ops []layout.Op
	y   float64
}

func (b *block) add(op layout.Op) { b.ops = append(b.ops, op) }

// lineWriter flows styled runs into wrapped lines. Consecutive text in the
// same style on the same line becomes a single TextOp.
type lineWriter struct {
	m      layout.Measurer
	b      *block
	x0     float64
	width  float64
	lh     float64
	cx     float64
	top    float64
	run    strings.Builder
	runX   float64
	style  layout.Style
	center bool
}

func newLineWriter(m layout.Measurer, b *block, x, width, lineHeight float64) *lineWriter {
	return &lineWriter{m: m, b: b, x0: x, width: width, lh: lineHeight, cx: x, top: b.y}
}

func (w *lineWriter) flush() {
	text := strings.TrimRight(w.run.String(), " ")
	w.run.Reset()
	if text == "" {
		return
	}
	op := layout.TextOp{X: w.runX, Y: w.top + w.lh*baselineRatio, Text: text, Style: w.style}
	if w.center {
		op.X = w.x0 + w.width/2
		op.Align = layout.AlignCenter
	}
	w.b.add(op)
}

func (w *lineWriter) newline() {
	w.flush()
	w.top += w.lh
	w.cx = w.x0
}

func (w *lineWriter) appendText(s string) {
	if w.run.Len() == 0 {
		w.runX = w.cx
	}
	w.run.WriteString(s)
	w.cx += w.m.TextWidth(s, w.style)
}

func (w *lineWriter) write(text string, style layout.Style) {
	if style != w.style {
		w.flush()
		w.style = style
	}
	for _, tok := range strings.SplitAfter(text, " ") {
		if tok == "" {
			continue
		}
		word := strings.TrimRight(tok, " ")
		ww := w.m.TextWidth(word, style)

		if w.cx+ww > w.x0+w.width+1e-6 && w.cx > w.x0 {
			w.newline()
		}
		if ww > w.width {
			pieces := layout.Wrap(w.m, word, style, w.width)
			for i, p := range pieces {
				if i > 0 {
					w.newline()
				}
				w.appendText(p)
			}
			if len(word) < len(tok) {
				w.appendText(" ")
			}
			continue
		}
		if w.cx == w.x0 && word == "" {
			continue
		}
		w.appendText(tok)
	}
}

// close ends the paragraph and moves the block cursor below it
func (w *lineWriter) close() {
	w.flush()
	w.top += w.lh
	w.b.y = w.top
}

func segmentStyle(kind typeset.Kind, base layout.Style) layout.Style {
	switch kind {
	case typeset.InlineMath, typeset.DisplayMath:
		s := base
		s.Italic = true
		return s
	case typeset.Error:
		s := base
		s.Color = layout.Red
		return s
	}
	return base
}

// flow lays a typeset field out at x within width and advances b.y.
// lineGap scales the line height (fill-in-the-blank text uses 2).
func (r *Renderer) flow(b *block, x, width float64, res typeset.Result, base layout.Style, lineGap float64) {
	r.flowAligned(b, x, width, res, base, lineGap, false)
}

// centered flows a plain string with every line centred in width
func (r *Renderer) centered(b *block, x, width float64, s string, style layout.Style) {
	r.flowAligned(b, x, width, typeset.Literal(s), style, 1, true)
}

func (r *Renderer) flowAligned(b *block, x, width float64, res typeset.Result, base layout.Style, lineGap float64, center bool) {
	lh := base.LineHeight() * lineGap
	lines := res.Lines()
	if len(lines) == 0 {
		lines = [][]typeset.Segment{nil}
	}

	w := newLineWriter(r.m, b, x, width, lh)
	w.style = base
	for i, line := range lines {
		if i > 0 {
			w.newline()
		}
		display := len(line) == 1 && line[0].Kind == typeset.DisplayMath
		w.center = center || display
		for _, seg := range line {
			w.write(seg.Text, segmentStyle(seg.Kind, base))
		}
		if display {
			w.flush()
			w.center = center
		}
	}
	w.close()
}

// text is flow for a plain single-style string
func (r *Renderer) text(b *block, x, width float64, s string, style layout.Style) {
	r.flow(b, x, width, typeset.Literal(s), style, 1)
}

// field typesets s when latex is set, otherwise keeps it literal
func field(s string, latex bool) typeset.Result {
	if latex {
		return typeset.Typeset(s)
	}
	return typeset.Literal(s)
}
