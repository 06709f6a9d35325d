package render

import (
	"slices"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/examcraft/internal/app/models"
	"github.com/yigit/examcraft/internal/pdf/images"
	"github.com/yigit/examcraft/internal/pdf/layout"
)

func newRenderer(imgs images.Set) *Renderer {
	return New(layout.FixedMeasurer{}, imgs, zerolog.Nop())
}

func blockTexts(b *layout.Block) []string {
	var out []string
	for _, op := range b.Ops {
		if t, ok := op.(layout.TextOp); ok {
			out = append(out, t.Text)
		}
	}
	return out
}

func docTexts(doc *layout.Document) []string {
	var out []string
	for _, b := range doc.Blocks() {
		out = append(out, blockTexts(b)...)
	}
	return out
}

func blockByID(t *testing.T, doc *layout.Document, id string) *layout.Block {
	t.Helper()
	for _, b := range doc.Blocks() {
		if b.ComponentID == id {
			return b
		}
	}
	t.Fatalf("no block for %s", id)
	return nil
}

func qcm(id string, pts float64) *models.QCMComponent {
	return &models.QCMComponent{
		BaseComponent: models.BaseComponent{ID: id, Type: models.ComponentQCM},
		Question:      "Capital of France?",
		Options: []models.QCMOption{
			{ID: "a", Text: "Paris", IsCorrect: true},
			{ID: "b", Text: "Lyon"},
			{ID: "c", Text: "Nice"},
			{ID: "d", Text: "Lille"},
		},
		Points: models.Float(pts),
	}
}

func text(id, content string, pts *float64) *models.TextComponent {
	return &models.TextComponent{
		BaseComponent: models.BaseComponent{ID: id, Type: models.ComponentText},
		Content:       content,
		Points:        pts,
	}
}

func TestRenderScenarioNumbersScoredQuestions(t *testing.T) {
	cs := []models.Component{
		&models.HeaderComponent{BaseComponent: models.BaseComponent{ID: "h"}, ExamTitle: "Final"},
		qcm("q", 2),
		&models.PageBreakComponent{BaseComponent: models.BaseComponent{ID: "pb"}},
		text("t", "Explain.", models.Float(3)),
	}

	doc := newRenderer(nil).Render("Final", cs, Options{AutoNumbering: true})

	require.Len(t, doc.Nodes, 4)
	assert.IsType(t, &layout.HardBreak{}, doc.Nodes[2])
	assert.Contains(t, blockTexts(blockByID(t, doc, "q")), "Q1.")
	assert.Contains(t, blockTexts(blockByID(t, doc, "t")), "Q2.")
	assert.Contains(t, blockTexts(blockByID(t, doc, "q")), "[2 pts]")
	assert.Contains(t, blockTexts(blockByID(t, doc, "t")), "[3 pts]")
	assert.NotContains(t, blockTexts(blockByID(t, doc, "h")), "Q1.")
}

func TestRenderNumberingSkipsIneligibleComponents(t *testing.T) {
	cs := []models.Component{
		text("intro", "Read carefully.", nil),
		&models.ExerciseHeaderComponent{BaseComponent: models.BaseComponent{ID: "ex"}, ExerciseNumber: 1, Points: 10},
		qcm("q1", 2),
		text("zero", "Not scored.", models.Float(0)),
		&models.WritingAreaComponent{BaseComponent: models.BaseComponent{ID: "wa"}, LineCount: 3, Points: models.Float(4)},
		&models.ExerciseHeaderComponent{BaseComponent: models.BaseComponent{ID: "ex2"}, ExerciseNumber: 2, Points: 5},
		&models.FillInBlanksComponent{BaseComponent: models.BaseComponent{ID: "fb"}, Content: "A [b] c", Points: models.Float(1)},
	}

	doc := newRenderer(nil).Render("", cs, Options{AutoNumbering: true})

	var labels []string
	for _, s := range docTexts(doc) {
		if strings.HasPrefix(s, "Q") && strings.HasSuffix(s, ".") {
			labels = append(labels, s)
		}
	}
	assert.Equal(t, []string{"Q1.", "Q2."}, labels)
	assert.Contains(t, blockTexts(blockByID(t, doc, "fb")), "Q2.")
	assert.Contains(t, blockTexts(blockByID(t, doc, "wa")), "[4 pts]")
}

func TestRenderWithoutAutoNumbering(t *testing.T) {
	doc := newRenderer(nil).Render("", []models.Component{qcm("q", 2)}, Options{})
	for _, s := range docTexts(doc) {
		assert.NotEqual(t, "Q1.", s)
	}
}

func TestRenderHidePoints(t *testing.T) {
	cs := []models.Component{
		qcm("q", 2),
		&models.ExerciseHeaderComponent{BaseComponent: models.BaseComponent{ID: "ex"}, ExerciseNumber: 1, Title: "Algebra", Points: 4},
	}

	shown := docTexts(newRenderer(nil).Render("", cs, Options{}))
	assert.Contains(t, shown, "[2 pts]")
	assert.Contains(t, shown, "/ 4 pts")
	assert.Contains(t, shown, "Exercice 1 : Algebra")

	hidden := docTexts(newRenderer(nil).Render("", cs, Options{HidePoints: true}))
	for _, s := range hidden {
		assert.NotContains(t, s, "pts")
	}
	assert.Contains(t, hidden, "Exercice 1 : Algebra")
}

func TestRenderKeepsListOrderAndSkipsUnknown(t *testing.T) {
	cs := []models.Component{
		text("b", "second by order", nil),
		&models.UnknownComponent{BaseComponent: models.BaseComponent{ID: "x", Type: "chart"}},
		nil,
		text("a", "first by order", nil),
	}
	cs[0].Base().Order = 5
	cs[3].Base().Order = 1

	doc := newRenderer(nil).Render("", cs, Options{})

	ids := make([]string, 0, len(doc.Nodes))
	for _, b := range doc.Blocks() {
		ids = append(ids, b.ComponentID)
	}
	assert.Equal(t, []string{"b", "a"}, ids)
}

func TestRenderEveryDefaultComponent(t *testing.T) {
	r := newRenderer(nil)
	for i, typ := range models.ComponentTypes {
		c := models.NewDefault(typ, i)
		doc := r.Render("Exam", []models.Component{c}, Options{AutoNumbering: true})
		require.Len(t, doc.Nodes, 1, typ)

		if typ == models.ComponentPageBreak {
			assert.IsType(t, &layout.HardBreak{}, doc.Nodes[0])
			continue
		}
		b, ok := doc.Nodes[0].(*layout.Block)
		require.True(t, ok, typ)
		assert.Equal(t, string(typ), b.Kind)
		assert.Greater(t, b.Height, blockGap, typ)
		assert.NotEmpty(t, b.Ops, typ)
	}
}

func TestRenderBlockOpsStayInContentWidth(t *testing.T) {
	long := strings.Repeat("word ", 200)
	cs := []models.Component{
		text("t", long, models.Float(1)),
		&models.GeometryComponent{BaseComponent: models.BaseComponent{ID: "g"}, GridType: models.GridIsometric, Width: 400, Height: 50},
	}
	doc := newRenderer(nil).Render("", cs, Options{})

	for _, b := range doc.Blocks() {
		for _, op := range b.Ops {
			if l, ok := op.(layout.LineOp); ok {
				assert.GreaterOrEqual(t, min(l.X1, l.X2), -1e-6)
				assert.LessOrEqual(t, max(l.X1, l.X2), layout.ContentWidth+1e-6)
			}
		}
	}
	assert.Greater(t, len(blockTexts(blockByID(t, doc, "t"))), 5)
}

func TestFillInBlanksDiscardsBracketContent(t *testing.T) {
	c := &models.FillInBlanksComponent{
		BaseComponent: models.BaseComponent{ID: "fb"},
		Content:       "The capital is [Paris] and [Rome] is not.",
	}
	joined := strings.Join(docTexts(newRenderer(nil).Render("", []models.Component{c}, Options{})), " ")

	assert.NotContains(t, joined, "Paris")
	assert.NotContains(t, joined, "Rome")
	assert.NotContains(t, joined, "[")
	assert.Equal(t, 2, strings.Count(joined, Blank))
}

func TestFillBlanks(t *testing.T) {
	assert.Equal(t, "a "+Blank+" b", FillBlanks("a [x y] b"))
	assert.Equal(t, "no blanks []", FillBlanks("no blanks []"))
}

func TestQCMLettersAndColumns(t *testing.T) {
	q := qcm("q", 1)
	q.Columns = 2
	b := blockByID(t, newRenderer(nil).Render("", []models.Component{q}, Options{}), "q")

	pos := map[string]layout.TextOp{}
	for _, op := range b.Ops {
		if txt, ok := op.(layout.TextOp); ok {
			pos[txt.Text] = txt
		}
	}
	require.Contains(t, pos, "A. Paris")
	require.Contains(t, pos, "B. Lyon")
	require.Contains(t, pos, "C. Nice")
	assert.Equal(t, pos["A. Paris"].Y, pos["B. Lyon"].Y)
	assert.Less(t, pos["A. Paris"].X, pos["B. Lyon"].X)
	assert.Greater(t, pos["C. Nice"].Y, pos["A. Paris"].Y)

	checkboxes := 0
	for _, op := range b.Ops {
		if _, ok := op.(layout.RectOp); ok {
			checkboxes++
		}
	}
	assert.Equal(t, 4, checkboxes)
}

func TestLatexFieldsAreTypeset(t *testing.T) {
	c := &models.TextComponent{
		BaseComponent: models.BaseComponent{ID: "t"},
		Content:       `Compute $\alpha^2$ and $\frac{1`,
		Latex:         true,
	}
	texts := docTexts(newRenderer(nil).Render("", []models.Component{c}, Options{}))
	joined := strings.Join(texts, "")
	assert.Contains(t, joined, "α²")

	plain := docTexts(newRenderer(nil).Render("", []models.Component{text("p", `$\alpha$`, nil)}, Options{}))
	assert.Equal(t, []string{`$\alpha$`}, plain)
}

func TestTimelineMasking(t *testing.T) {
	c := &models.TimelineComponent{
		BaseComponent: models.BaseComponent{ID: "tl"},
		StartYear:     1700,
		EndYear:       1900,
		Events: []models.TimelineEvent{
			{ID: "e1", Date: "1789", Label: "Revolution", ShowDate: false, ShowLabel: true},
			{ID: "e2", Date: "1815", Label: "", ShowDate: true, ShowLabel: false},
			{ID: "e3", Date: "", Label: "Unknown", ShowDate: false, ShowLabel: false},
		},
	}
	texts := docTexts(newRenderer(nil).Render("", []models.Component{c}, Options{}))

	assert.NotContains(t, texts, "1789")
	assert.Contains(t, texts, "Revolution")
	assert.Contains(t, texts, "1815")
	assert.NotContains(t, texts, "Unknown")

	count := func(s string) int {
		n := 0
		for _, v := range texts {
			if v == s {
				n++
			}
		}
		return n
	}
	assert.Equal(t, 2, count(DateMask))
	assert.Equal(t, 2, count(LabelMask))
}

func TestEventPosition(t *testing.T) {
	assert.InDelta(t, 50, EventPosition("1800", 1700, 1900), 1e-9)
	assert.InDelta(t, 5, EventPosition("1700", 1700, 1900), 1e-9)
	assert.InDelta(t, 95, EventPosition("2500", 1700, 1900), 1e-9)
	assert.InDelta(t, 25, EventPosition(" 1750 av.", 1700, 1900), 1e-9)
	assert.InDelta(t, 5, EventPosition("circa", 1700, 1900), 1e-9)
	assert.InDelta(t, 50, EventPosition("1800", 1800, 1800), 1e-9)
}

func matchingRows(b *layout.Block) (left, right []string) {
	for _, s := range blockTexts(b) {
		switch {
		case len(s) > 3 && s[0] >= '1' && s[0] <= '9':
			left = append(left, s)
		case len(s) > 3 && s[0] >= 'A' && s[0] <= 'Z' && s[1] == '.':
			right = append(right, s)
		}
	}
	return left, right
}

func TestMatchingShufflesRightColumnOnly(t *testing.T) {
	m := &models.MatchingComponent{
		BaseComponent: models.BaseComponent{ID: "m"},
		LeftColumn:    []models.MatchingItem{{ID: "l1", Text: "a"}, {ID: "l2", Text: "b"}, {ID: "l3", Text: "c"}},
		RightColumn:   []models.MatchingItem{{ID: "r1", Text: "X"}, {ID: "r2", Text: "Y"}, {ID: "r3", Text: "Z"}},
		ShuffleRight:  true,
	}
	doc := newRenderer(nil).Render("", []models.Component{m}, Options{})
	left, right := matchingRows(blockByID(t, doc, "m"))

	assert.Equal(t, []string{"1. a", "2. b", "3. c"}, left)
	require.Len(t, right, 3)
	var items []string
	for i, s := range right {
		assert.Equal(t, OptionLetter(i)+". ", s[:3])
		items = append(items, s[3:])
	}
	slices.Sort(items)
	assert.Equal(t, []string{"X", "Y", "Z"}, items)

	// the component itself is never reordered
	assert.Equal(t, "X", m.RightColumn[0].Text)
	assert.Equal(t, "Z", m.RightColumn[2].Text)
}

func TestMatchingSeedIsReproducible(t *testing.T) {
	items := make([]models.MatchingItem, 10)
	for i := range items {
		items[i] = models.MatchingItem{ID: OptionLetter(i), Text: OptionLetter(i) + "x"}
	}
	m := &models.MatchingComponent{
		BaseComponent: models.BaseComponent{ID: "m"},
		LeftColumn:    items,
		RightColumn:   items,
		ShuffleRight:  true,
	}
	render := func(opts Options) []string {
		_, right := matchingRows(blockByID(t, newRenderer(nil).Render("", []models.Component{m}, opts), "m"))
		return right
	}

	assert.Equal(t, render(Options{SeedByComponentID: true}), render(Options{SeedByComponentID: true}))
	assert.Equal(t, render(Options{Seed: 42}), render(Options{Seed: 42}))

	m.ShuffleRight = false
	right := render(Options{})
	assert.Equal(t, "A. Ax", right[0])
	assert.Equal(t, "J. Jx", right[9])
}

func TestTrueFalseStyles(t *testing.T) {
	tf := &models.TrueFalseComponent{
		BaseComponent: models.BaseComponent{ID: "tf"},
		Statements:    []models.TrueFalseStatement{{ID: "s1", Text: "Water boils at 100C"}, {ID: "s2", Text: "The moon is cheese"}},
		DisplayStyle:  models.DisplayCircles,
	}
	circles := 0
	b := blockByID(t, newRenderer(nil).Render("", []models.Component{tf}, Options{}), "tf")
	for _, op := range b.Ops {
		if _, ok := op.(layout.CircleOp); ok {
			circles++
		}
	}
	assert.Equal(t, 4, circles)
	assert.Contains(t, blockTexts(b), "Vrai")

	tf.DisplayStyle = models.DisplayLetters
	b = blockByID(t, newRenderer(nil).Render("", []models.Component{tf}, Options{}), "tf")
	texts := blockTexts(b)
	assert.Contains(t, texts, "V")
	assert.Contains(t, texts, "F")
}

func TestWritingAreaHeightFollowsLineCount(t *testing.T) {
	area := func(n int, style string) *layout.Block {
		c := &models.WritingAreaComponent{BaseComponent: models.BaseComponent{ID: "w"}, LineCount: n, LineStyle: style}
		return blockByID(t, newRenderer(nil).Render("", []models.Component{c}, Options{}), "w")
	}
	assert.InDelta(t, 5*WritingLineHeight, area(10, models.LineRuled).Height-area(5, models.LineRuled).Height, 1e-9)
	assert.InDelta(t, area(4, models.LineRuled).Height, area(4, models.LineGrid).Height, 1e-9)
}

func TestImagePlacement(t *testing.T) {
	imgs := images.Set{"big.png": {Source: "big.png", Format: "png", Data: []byte{1}, Width: 1000, Height: 500}}
	cs := []models.Component{
		&models.ImageComponent{BaseComponent: models.BaseComponent{ID: "big"}, ImageURL: "big.png", Caption: "Figure 1"},
		&models.ImageComponent{BaseComponent: models.BaseComponent{ID: "gone"}, ImageURL: "missing.png"},
	}
	doc := newRenderer(imgs).Render("", cs, Options{})

	var placed *layout.ImageOp
	for _, op := range blockByID(t, doc, "big").Ops {
		if im, ok := op.(layout.ImageOp); ok {
			placed = &im
		}
	}
	require.NotNil(t, placed)
	assert.InDelta(t, layout.ContentWidth, placed.W, 1e-9)
	assert.InDelta(t, layout.ContentWidth/2, placed.H, 1e-9)
	assert.Contains(t, blockTexts(blockByID(t, doc, "big")), "Figure 1")
	assert.Contains(t, blockTexts(blockByID(t, doc, "gone")), "Image unavailable")
}

func TestTableRendersEveryCell(t *testing.T) {
	c := &models.TableComponent{
		BaseComponent: models.BaseComponent{ID: "tb"},
		Rows:          2,
		Columns:       2,
		Headers:       []string{"Name", "Age"},
		Data:          [][]string{{"Ada", "36"}, {"", ""}},
	}
	b := blockByID(t, newRenderer(nil).Render("", []models.Component{c}, Options{}), "tb")
	assert.Equal(t, []string{"Name", "Age", "Ada", "36"}, blockTexts(b))

	rects := 0
	for _, op := range b.Ops {
		if _, ok := op.(layout.RectOp); ok {
			rects++
		}
	}
	assert.Equal(t, 6, rects)
}

func TestClipLine(t *testing.T) {
	x1, y1, x2, y2, ok := clipLine(-10, 5, 30, 5, 20, 10)
	require.True(t, ok)
	assert.Equal(t, []float64{0, 5, 20, 5}, []float64{x1, y1, x2, y2})

	_, _, _, _, ok = clipLine(-10, -5, -1, -1, 20, 10)
	assert.False(t, ok)
}

func TestGridPatternsStayInsideBox(t *testing.T) {
	for _, kind := range []string{models.GridMillimeter, models.GridDots, models.GridSquares, models.GridIsometric} {
		ops := gridPattern(kind, 50, 30)
		assert.NotEmpty(t, ops, kind)
		for _, op := range ops {
			switch v := op.(type) {
			case layout.LineOp:
				for _, x := range []float64{v.X1, v.X2} {
					assert.True(t, x >= -1e-6 && x <= 50+1e-6, kind)
				}
				for _, y := range []float64{v.Y1, v.Y2} {
					assert.True(t, y >= -1e-6 && y <= 30+1e-6, kind)
				}
			case layout.CircleOp:
				assert.True(t, v.X > 0 && v.X < 50 && v.Y > 0 && v.Y < 30, kind)
			}
		}
	}
}

func TestOptionLetter(t *testing.T) {
	assert.Equal(t, "A", OptionLetter(0))
	assert.Equal(t, "Z", OptionLetter(25))
	assert.Equal(t, "A1", OptionLetter(26))
}

func TestFormatPoints(t *testing.T) {
	assert.Equal(t, "2", FormatPoints(2))
	assert.Equal(t, "1.5", FormatPoints(1.5))
}
