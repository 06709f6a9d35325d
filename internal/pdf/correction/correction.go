// Package correction builds the scoring sheet that accompanies an exam. It
// draws straight onto a surface, without going through the layout pipeline.
package correction

import (
	"fmt"
	"strings"

	"github.com/yigit/examcraft/internal/app/models"
	"github.com/yigit/examcraft/internal/pdf/layout"
	"github.com/yigit/examcraft/internal/pdf/render"
	"github.com/yigit/examcraft/internal/pdf/surface"
	"github.com/yigit/examcraft/internal/pkg/apperrors"
)

// Sheet geometry in mm
const (
	margin    = 20.0
	top       = 20.0
	right     = layout.PageWidth - margin
	rowHeight = 10.0
	// rows start on a new page once the cursor passes this line
	bottomLimit = layout.PageHeight - 30

	colPoints  = margin + 100
	colScore   = margin + 140
	colComment = margin + 155

	ScoreBlank = "_____"
)

// Row is one scored entry of the grid
type Row struct {
	ComponentID string
	Label       string
	Points      float64
}

// Grid is the content of a correction sheet
type Grid struct {
	Title string
	Rows  []Row
	Total float64
}

// Build lists every component carrying non-zero points, in array order.
// Labels come from a counter bumped for every row: Q<n>, or Ex<number> for
// exercise headers (which still consume a number).
func Build(title string, cs []models.Component) Grid {
	g := Grid{Title: title}
	n := 1
	for _, c := range cs {
		if c == nil {
			continue
		}
		pts, ok := models.Points(c)
		if !ok || pts == 0 {
			continue
		}
		label := fmt.Sprintf("Q%d", n)
		if ex, isEx := c.(*models.ExerciseHeaderComponent); isEx {
			label = fmt.Sprintf("Ex%d", ex.ExerciseNumber)
		}
		g.Rows = append(g.Rows, Row{ComponentID: c.Base().ID, Label: label, Points: pts})
		g.Total += pts
		n++
	}
	return g
}

var (
	titleStyle  = layout.Style{Size: 18, Bold: true, Color: layout.Black}
	fieldStyle  = layout.Style{Size: 12, Color: layout.Black}
	headStyle   = layout.Style{Size: 10, Bold: true, Color: layout.Black}
	cellStyle   = layout.Style{Size: 10, Color: layout.Black}
	ruleStroke  = layout.Stroke{Width: 0.3, Color: layout.Black}
	blankStroke = layout.Stroke{Width: 0.2, Color: layout.Gray}
)

type sheet struct {
	s surface.Surface
	y float64
}

func (sh *sheet) text(x float64, text string, style layout.Style) {
	sh.s.Draw(layout.TextOp{X: x, Y: sh.y, Text: text, Style: style}, 0, 0)
}

func (sh *sheet) rule(x1, x2, y float64, stroke layout.Stroke) {
	sh.s.Draw(layout.LineOp{X1: x1, Y1: y, X2: x2, Y2: y, Stroke: stroke}, 0, 0)
}

// Draw writes g onto s starting on a new page and returns the number of pages
// it used.
func Draw(g Grid, s surface.Surface) (int, error) {
	start := s.PageCount()
	s.AddPage()
	sh := &sheet{s: s, y: top}

	sh.text(margin, "Correction Grid: "+g.Title, titleStyle)
	sh.y += 15
	sh.text(margin, "Student Name: "+strings.Repeat("_", 31), fieldStyle)
	sh.y += 10
	sh.text(margin, "Date: "+strings.Repeat("_", 13), fieldStyle)
	sh.y += 15

	sh.text(margin, "Question", headStyle)
	sh.text(colPoints, "Max Points", headStyle)
	sh.text(colScore, "Score", headStyle)
	sh.text(colComment, "Comments", headStyle)
	sh.y += 5
	sh.rule(margin, right, sh.y, ruleStroke)
	sh.y += 8

	for _, row := range g.Rows {
		if sh.y > bottomLimit {
			s.AddPage()
			sh.y = top
		}
		sh.text(margin, row.Label, cellStyle)
		sh.text(colPoints, render.FormatPoints(row.Points), cellStyle)
		sh.text(colScore, ScoreBlank, cellStyle)
		sh.rule(colComment, right, sh.y-2, blankStroke)
		sh.y += rowHeight
	}

	sh.y += 5
	sh.rule(margin, right, sh.y, ruleStroke)
	sh.y += 8
	total := headStyle
	total.Size = 11
	sh.text(margin, "TOTAL", total)
	sh.text(colPoints, render.FormatPoints(g.Total), total)
	sh.text(colScore, ScoreBlank, total)

	if err := s.Err(); err != nil {
		return 0, fmt.Errorf("%w: correction grid: %w", apperrors.ErrRenderFailed, err)
	}
	return s.PageCount() - start, nil
}
