package surface

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"

	"github.com/yigit/examcraft/internal/pdf/layout"
	"github.com/yigit/examcraft/internal/pdf/typeset"
)

const fontFamily = "Go"

// goFont answers glyph coverage questions for the embedded fonts. The four
// Go variants share one character set.
var goFont = sync.OnceValues(func() (*sfnt.Font, error) {
	return sfnt.Parse(goregular.TTF)
})

// Printable rewrites the runes of text the embedded fonts have no glyph for.
// Math symbols go back to their source spelling, unknown combining marks are
// dropped and anything else becomes '?'.
func Printable(text string) string {
	f, err := goFont()
	if err != nil {
		return text
	}
	var buf sfnt.Buffer
	var out strings.Builder
	for _, r := range text {
		if r < 0x80 {
			out.WriteRune(r)
			continue
		}
		if idx, err := f.GlyphIndex(&buf, r); err == nil && idx != 0 {
			out.WriteRune(r)
			continue
		}
		switch spelled, ok := typeset.Spell(r); {
		case ok:
			out.WriteString(spelled)
		case unicode.Is(unicode.Mn, r):
		default:
			out.WriteByte('?')
		}
	}
	return out.String()
}

// PDF is a Surface backed by an fpdf document with embedded UTF-8 Go fonts
type PDF struct {
	doc    *fpdf.Fpdf
	images map[string]struct{}
}

// NewPDF creates an empty A4 portrait document titled title
func NewPDF(title string) *PDF {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetTitle(title, true)
	doc.SetCreator("examcraft", true)

	doc.AddUTF8FontFromBytes(fontFamily, "", goregular.TTF)
	doc.AddUTF8FontFromBytes(fontFamily, "B", gobold.TTF)
	doc.AddUTF8FontFromBytes(fontFamily, "I", goitalic.TTF)
	doc.AddUTF8FontFromBytes(fontFamily, "BI", gobolditalic.TTF)
	doc.SetFont(fontFamily, "", 11)

	return &PDF{doc: doc, images: make(map[string]struct{})}
}

// AddPage implements Surface
func (p *PDF) AddPage() { p.doc.AddPage() }

// PageCount implements Surface
func (p *PDF) PageCount() int { return p.doc.PageCount() }

// SetPage implements Surface
func (p *PDF) SetPage(n int) { p.doc.SetPage(n) }

// ClipRect implements Surface
func (p *PDF) ClipRect(x, y, w, h float64) { p.doc.ClipRect(x, y, w, h, false) }

// ClipEnd implements Surface
func (p *PDF) ClipEnd() { p.doc.ClipEnd() }

// Err implements Surface
func (p *PDF) Err() error { return p.doc.Error() }

// Output implements Surface
func (p *PDF) Output(w io.Writer) error {
	if err := p.doc.Error(); err != nil {
		return err
	}
	return p.doc.Output(w)
}

// TextWidth implements layout.Measurer
func (p *PDF) TextWidth(text string, style layout.Style) float64 {
	p.setFont(style)
	return p.doc.GetStringWidth(Printable(text))
}

func (p *PDF) setFont(style layout.Style) {
	var variant strings.Builder
	if style.Bold {
		variant.WriteString("B")
	}
	if style.Italic {
		variant.WriteString("I")
	}
	size := style.Size
	if size <= 0 {
		size = 11
	}
	p.doc.SetFont(fontFamily, variant.String(), size)
}

func (p *PDF) setStroke(s layout.Stroke) {
	p.doc.SetDrawColor(s.Color.R, s.Color.G, s.Color.B)
	w := s.Width
	if w <= 0 {
		w = 0.2
	}
	p.doc.SetLineWidth(w)
	if s.Dashed {
		p.doc.SetDashPattern([]float64{1, 1}, 0)
	} else {
		p.doc.SetDashPattern(nil, 0)
	}
}

func (p *PDF) withAlpha(alpha float64, draw func()) {
	if alpha <= 0 || alpha >= 1 {
		draw()
		return
	}
	p.doc.SetAlpha(alpha, "Normal")
	draw()
	p.doc.SetAlpha(1, "Normal")
}

// paintStyle returns the fpdf style string and sets colors for a shape
func (p *PDF) paintStyle(stroke *layout.Stroke, fill *layout.Color) string {
	style := ""
	if fill != nil {
		p.doc.SetFillColor(fill.R, fill.G, fill.B)
		style += "F"
	}
	if stroke != nil {
		p.setStroke(*stroke)
		style += "D"
	}
	return style
}

// Draw implements Surface
func (p *PDF) Draw(op layout.Op, dx, dy float64) {
	switch o := op.(type) {
	case layout.TextOp:
		p.setFont(o.Style)
		p.doc.SetTextColor(o.Style.Color.R, o.Style.Color.G, o.Style.Color.B)
		x, y := o.X+dx, o.Y+dy
		text := Printable(o.Text)
		w := p.doc.GetStringWidth(text)
		startX := x
		switch o.Align {
		case layout.AlignCenter:
			startX = x - w/2
		case layout.AlignRight:
			startX = x - w
		}
		p.withAlpha(o.Style.Alpha, func() {
			if o.Angle != 0 {
				p.doc.TransformBegin()
				p.doc.TransformRotate(o.Angle, x, y)
				p.doc.Text(startX, y, text)
				p.doc.TransformEnd()
				return
			}
			p.doc.Text(startX, y, text)
		})
	case layout.LineOp:
		p.setStroke(o.Stroke)
		p.doc.Line(o.X1+dx, o.Y1+dy, o.X2+dx, o.Y2+dy)
	case layout.RectOp:
		if style := p.paintStyle(o.Stroke, o.Fill); style != "" {
			p.doc.Rect(o.X+dx, o.Y+dy, o.W, o.H, style)
		}
	case layout.CircleOp:
		if style := p.paintStyle(o.Stroke, o.Fill); style != "" {
			p.doc.Circle(o.X+dx, o.Y+dy, o.R, style)
		}
	case layout.ImageOp:
		if _, ok := p.images[o.Name]; !ok {
			opts := fpdf.ImageOptions{ImageType: o.Format, ReadDpi: false}
			p.doc.RegisterImageOptionsReader(o.Name, opts, bytes.NewReader(o.Data))
			p.images[o.Name] = struct{}{}
		}
		p.doc.ImageOptions(o.Name, o.X+dx, o.Y+dy, o.W, o.H, false, fpdf.ImageOptions{ImageType: o.Format}, 0, "")
	default:
		p.doc.SetError(fmt.Errorf("unsupported drawing op %T", op))
	}
}
