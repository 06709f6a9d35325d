package render

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"slices"

	"github.com/yigit/examcraft/internal/app/models"
	"github.com/yigit/examcraft/internal/pdf/images"
	"github.com/yigit/examcraft/internal/pdf/layout"
	"github.com/yigit/examcraft/internal/pdf/typeset"
)

// Fixed layout constants
const (
	// Blank replaces every [token] of a fill-in-the-blanks text
	Blank = "___________"
	// StudentBlank follows each student identification label
	StudentBlank = "_____________"
	// WritingLineHeight is the height of one writing area line in mm
	WritingLineHeight = 8.0
	// DateMask and LabelMask hide timeline values the student must find
	DateMask  = "____"
	LabelMask = "________"

	logoMaxSize = 100 / layout.UnitsPerMM
	checkbox    = 4.0
	cellPad     = 2.0
)

var blankPattern = regexp.MustCompile(`\[([^\]]+)\]`)

// FillBlanks replaces every [token] with the fixed blank
func FillBlanks(content string) string {
	return blankPattern.ReplaceAllString(content, Blank)
}

// OptionLetter returns the A, B, C... label of the i-th option
func OptionLetter(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprintf("%s%d", OptionLetter(i%26), i/26)
}

func imageName(src string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(src))
	return fmt.Sprintf("img-%x", h.Sum64())
}

func (r *Renderer) header(p *pass, b *block, h *models.HeaderComponent) {
	top := b.y
	logoBottom := top
	textX, textW := 0.0, r.width

	if h.Logo != "" {
		if img, ok := r.images.Get(h.Logo); ok {
			w, hh := fitBox(img, logoMaxSize, logoMaxSize)
			b.add(layout.ImageOp{Name: imageName(img.Source), Format: img.Format, Data: img.Data, X: 0, Y: top, W: w, H: hh})
			logoBottom = top + hh
			textX = w + 5
			textW = r.width - 2*textX
		}
	}

	title := h.ExamTitle
	if title == "" {
		title = p.title
	}
	r.centered(b, textX, textW, title, titleStyle)
	b.y += 1
	for _, line := range [][2]string{
		{"Academic Year", h.AcademicYear},
		{"Semester", h.Semester},
		{"Duration", h.Duration},
	} {
		r.centered(b, textX, textW, line[0]+": "+line[1], bodyStyle)
	}
	b.y = max(b.y, logoBottom) + 3

	var fields []string
	if h.StudentFields.Name {
		fields = append(fields, "Nom: "+StudentBlank)
	}
	if h.StudentFields.FirstName {
		fields = append(fields, "Prénom: "+StudentBlank)
	}
	if h.StudentFields.ClassGroup {
		fields = append(fields, "Classe: "+StudentBlank)
	}
	if len(fields) > 0 {
		colW := r.width / float64(len(fields))
		baseline := b.y + bodyStyle.LineHeight()*baselineRatio
		for i, f := range fields {
			b.add(layout.TextOp{X: float64(i) * colW, Y: baseline, Text: f, Style: bodyStyle})
		}
		b.y += bodyStyle.LineHeight() + 2
	}

	b.add(layout.LineOp{X1: 0, Y1: b.y, X2: r.width, Y2: b.y, Stroke: layout.Stroke{Width: 0.6, Color: layout.Black}})
	b.y += 2
}

func (r *Renderer) textComponent(p *pass, b *block, t *models.TextComponent, label string) {
	x, width := r.heading(b, label, badgeText(p, t))
	r.flow(b, x, width, field(t.Content, t.Latex), bodyStyle, 1)
}

// badgeLine draws a lone points badge above a full width body
func (r *Renderer) badgeLine(p *pass, b *block, c models.Component) {
	if badge := badgeText(p, c); badge != "" {
		r.heading(b, "", badge)
		b.y += bodyStyle.LineHeight()
	}
}

type cell struct {
	res    typeset.Result
	style  layout.Style
	center bool
}

func plainCell(s string, style layout.Style) cell {
	return cell{res: typeset.Literal(s), style: style}
}

// tableRow draws one bordered row. Empty cells keep one line of height.
func (r *Renderer) tableRow(b *block, widths []float64, cells []cell, fill *layout.Color) (float64, float64) {
	top := b.y
	height := 0.0
	var text []layout.Op

	x := 0.0
	for i, w := range widths {
		c := plainCell("", bodyStyle)
		if i < len(cells) {
			c = cells[i]
		}
		tmp := &block{y: top + cellPad}
		r.flowAligned(tmp, x+cellPad, w-2*cellPad, c.res, c.style, 1, c.center)
		height = max(height, tmp.y-top+cellPad)
		text = append(text, tmp.ops...)
		x += w
	}

	x = 0
	stroke := thinStroke
	for _, w := range widths {
		b.add(layout.RectOp{X: x, Y: top, W: w, H: height, Stroke: &stroke, Fill: fill})
		x += w
	}
	b.ops = append(b.ops, text...)
	b.y = top + height
	return top, height
}

func (r *Renderer) evenWidths(n int) []float64 {
	n = max(n, 1)
	widths := make([]float64, n)
	for i := range widths {
		widths[i] = r.width / float64(n)
	}
	return widths
}

func (r *Renderer) table(p *pass, b *block, t *models.TableComponent) {
	r.badgeLine(p, b, t)

	cols := t.Columns
	if cols < 1 {
		cols = len(t.Headers)
		for _, row := range t.Data {
			cols = max(cols, len(row))
		}
	}
	widths := r.evenWidths(cols)

	if len(t.Headers) > 0 {
		cells := make([]cell, len(t.Headers))
		for i, h := range t.Headers {
			cells[i] = plainCell(h, boldStyle)
		}
		fill := layout.PaleGray
		r.tableRow(b, widths, cells, &fill)
	}
	for _, row := range t.Data {
		cells := make([]cell, len(row))
		for i, v := range row {
			cells[i] = plainCell(v, bodyStyle)
		}
		r.tableRow(b, widths, cells, nil)
	}
}

func (r *Renderer) qcm(p *pass, b *block, q *models.QCMComponent, label string) {
	x, width := r.heading(b, label, badgeText(p, q))
	r.flow(b, x, width, field(q.Question, q.Latex), boldStyle, 1)
	b.y += 2

	cols := 1
	if q.Columns == 2 {
		cols = 2
	}
	colW := (r.width - x) / float64(cols)
	stroke := thinStroke

	for i := 0; i < len(q.Options); i += cols {
		rowTop := b.y
		rowBottom := rowTop
		for j := 0; j < cols && i+j < len(q.Options); j++ {
			idx := i + j
			opt := q.Options[idx]
			ox := x + float64(j)*colW

			b.add(layout.RectOp{X: ox, Y: rowTop + 0.8, W: checkbox, H: checkbox, Stroke: &stroke})

			res := field(opt.Text, opt.Latex)
			res.Segments = append([]typeset.Segment{{Kind: typeset.Text, Text: OptionLetter(idx) + ". "}}, res.Segments...)
			b.y = rowTop
			r.flow(b, ox+checkbox+2, colW-checkbox-4, res, bodyStyle, 1)
			rowBottom = max(rowBottom, b.y)
		}
		b.y = rowBottom + 1.5
	}
}

// fitBox scales img to its natural size at 96 dpi, shrunk to fit maxW x maxH
func fitBox(img *images.Image, maxW, maxH float64) (float64, float64) {
	w := float64(img.Width) / layout.UnitsPerMM
	h := float64(img.Height) / layout.UnitsPerMM
	if w <= 0 || h <= 0 {
		return maxW, maxH
	}
	scale := min(1, maxW/w, maxH/h)
	return w * scale, h * scale
}

// imageSize applies the component width/height (layout units) the way the
// editor does: width wins and height follows the aspect ratio.
func (r *Renderer) imageSize(img *images.Image, wantW, wantH float64) (float64, float64) {
	natW := float64(img.Width) / layout.UnitsPerMM
	natH := float64(img.Height) / layout.UnitsPerMM
	if natW <= 0 || natH <= 0 {
		natW, natH = r.width, r.width/2
	}

	w, h := natW, natH
	switch {
	case wantW > 0:
		w = wantW / layout.UnitsPerMM
		h = w * natH / natW
	case wantH > 0:
		h = wantH / layout.UnitsPerMM
		w = h * natW / natH
	}
	if w > r.width {
		h *= r.width / w
		w = r.width
	}
	return w, h
}

func (r *Renderer) image(b *block, im *models.ImageComponent) {
	if img, ok := r.images.Get(im.ImageURL); ok {
		w, h := r.imageSize(img, im.Width, im.Height)
		b.add(layout.ImageOp{Name: imageName(img.Source), Format: img.Format, Data: img.Data, X: (r.width - w) / 2, Y: b.y, W: w, H: h})
		b.y += h
	} else {
		w, h := 60.0, 30.0
		stroke := layout.Stroke{Width: 0.3, Color: layout.Gray, Dashed: true}
		b.add(layout.RectOp{X: (r.width - w) / 2, Y: b.y, W: w, H: h, Stroke: &stroke})
		b.add(layout.TextOp{
			X: r.width / 2, Y: b.y + h/2 + 1, Text: "Image unavailable",
			Style: layout.Style{Size: 9, Color: layout.Gray}, Align: layout.AlignCenter,
		})
		b.y += h
	}
	if im.Caption != "" {
		b.y += 1
		r.centered(b, 0, r.width, im.Caption, italicStyle)
	}
}

func (r *Renderer) trueFalse(p *pass, b *block, t *models.TrueFalseComponent, label string) {
	x, width := r.heading(b, label, badgeText(p, t))
	r.text(b, x, width, "Vrai ou Faux", boldStyle)
	b.y += 2

	widths := []float64{r.width * 0.7, r.width * 0.15, r.width * 0.15}
	trueHead, falseHead := "Vrai", "Faux"
	if t.DisplayStyle == models.DisplayLetters {
		trueHead, falseHead = "V", "F"
	}
	fill := layout.PaleGray
	r.tableRow(b, widths, []cell{
		plainCell("Énoncé", boldStyle),
		{res: typeset.Literal(trueHead), style: boldStyle, center: true},
		{res: typeset.Literal(falseHead), style: boldStyle, center: true},
	}, &fill)

	letter := layout.Style{Size: 14, Bold: true, Color: layout.Black}
	stroke := layout.Stroke{Width: 0.3, Color: layout.Black}
	for _, st := range t.Statements {
		cells := []cell{{res: field(st.Text, st.Latex), style: bodyStyle}}
		if t.DisplayStyle == models.DisplayLetters {
			cells = append(cells,
				cell{res: typeset.Literal("V"), style: letter, center: true},
				cell{res: typeset.Literal("F"), style: letter, center: true},
			)
		}
		top, h := r.tableRow(b, widths, cells, nil)
		if t.DisplayStyle != models.DisplayLetters {
			cx := widths[0] + widths[1]/2
			b.add(layout.CircleOp{X: cx, Y: top + h/2, R: 2, Stroke: &stroke})
			b.add(layout.CircleOp{X: cx + widths[1], Y: top + h/2, R: 2, Stroke: &stroke})
		}
	}
}

func (r *Renderer) fillInBlanks(p *pass, b *block, f *models.FillInBlanksComponent, label string) {
	x, width := r.heading(b, label, badgeText(p, f))
	r.flow(b, x, width, field(FillBlanks(f.Content), f.Latex), bodyStyle, 2)
}

func (r *Renderer) writingArea(p *pass, b *block, a *models.WritingAreaComponent) {
	r.badgeLine(p, b, a)
	b.y += 2

	lines := max(a.LineCount, 1)
	top := b.y
	h := float64(lines) * WritingLineHeight
	guide := layout.Stroke{Width: 0.1, Color: layout.LightGray}

	if a.LineStyle == models.LineGrid {
		const step = 5.0
		for y := top + step; y < top+h-1e-6; y += step {
			b.add(layout.LineOp{X1: 0, Y1: y, X2: r.width, Y2: y, Stroke: guide})
		}
		for x := step; x < r.width-1e-6; x += step {
			b.add(layout.LineOp{X1: x, Y1: top, X2: x, Y2: top + h, Stroke: guide})
		}
	} else {
		for i := 1; i < lines; i++ {
			y := top + float64(i)*WritingLineHeight
			b.add(layout.LineOp{X1: 0, Y1: y, X2: r.width, Y2: y, Stroke: guide})
		}
	}

	border := layout.Stroke{Width: 0.5, Color: layout.Gray}
	b.add(layout.RectOp{X: 0, Y: top, W: r.width, H: h, Stroke: &border})
	b.y = top + h + 2
}

func (r *Renderer) exerciseHeader(p *pass, b *block, e *models.ExerciseHeaderComponent) {
	b.y += 3
	top := b.y

	text := fmt.Sprintf("Exercice %d", e.ExerciseNumber)
	if e.Title != "" {
		text += " : " + e.Title
	}

	badge := ""
	badgeW := 0.0
	if !p.opts.HidePoints {
		badge = fmt.Sprintf("/ %s pts", FormatPoints(e.Points))
		badgeW = r.m.TextWidth(badge, badgeStyle) + 6
	}

	tmp := &block{y: top + 2}
	r.text(tmp, 4, r.width-8-badgeW-4, text, exerciseFont)
	h := max(12, tmp.y-top+2)

	frame := layout.Stroke{Width: 0.5, Color: layout.Indigo}
	fill := layout.Lavender
	b.add(layout.RectOp{X: 0, Y: top, W: r.width, H: h, Stroke: &frame, Fill: &fill})
	b.ops = append(b.ops, tmp.ops...)

	if badge != "" {
		indigo := layout.Indigo
		bx := r.width - 4 - badgeW
		b.add(layout.RectOp{X: bx, Y: top + h/2 - 4, W: badgeW, H: 8, Fill: &indigo})
		white := badgeStyle
		white.Color = layout.White
		b.add(layout.TextOp{X: bx + badgeW/2, Y: top + h/2 + 1.3, Text: badge, Style: white, Align: layout.AlignCenter})
	}
	b.y = top + h + 2
}

func (r *Renderer) matching(p *pass, b *block, m *models.MatchingComponent) {
	r.badgeLine(p, b, m)
	if m.Title != "" {
		r.text(b, 0, r.width, m.Title, boldStyle)
	}
	if m.Instructions != "" {
		r.text(b, 0, r.width, m.Instructions, italicStyle)
	}
	b.y += 2

	right := slices.Clone(m.RightColumn)
	if m.ShuffleRight {
		rng := p.shuffler(m.ID)
		rng.Shuffle(len(right), func(i, j int) { right[i], right[j] = right[j], right[i] })
	}

	widths := []float64{r.width * 0.45, r.width * 0.10, r.width * 0.45}
	rows := max(len(m.LeftColumn), len(right))
	for i := 0; i < rows; i++ {
		cells := []cell{plainCell("", bodyStyle), plainCell("", bodyStyle), plainCell("", bodyStyle)}
		if i < len(m.LeftColumn) {
			cells[0] = plainCell(fmt.Sprintf("%d. %s", i+1, m.LeftColumn[i].Text), bodyStyle)
		}
		if i < len(right) {
			cells[2] = plainCell(fmt.Sprintf("%s. %s", OptionLetter(i), right[i].Text), bodyStyle)
		}
		r.tableRow(b, widths, cells, nil)
	}
}
