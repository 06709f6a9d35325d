package surface

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/examcraft/internal/pdf/layout"
)

func TestPrintableKeepsCoveredText(t *testing.T) {
	for _, s := range []string{"", "Exercice 1 : dérivée", "x ≤ y ≠ z", "Σ π ∞"} {
		assert.Equal(t, s, Printable(s))
	}
}

func TestPrintableSpellsMissingSymbols(t *testing.T) {
	got := Printable("∀x, x > 0")
	assert.Equal(t, `\forallx, x > 0`, got)
}

func TestPDFDrawsUncoveredSymbols(t *testing.T) {
	pdf := NewPDF("Symbols")
	pdf.AddPage()
	pdf.Draw(layout.TextOp{X: 10, Y: 10, Text: "∀ε > 0, ∃δ"}, 0, 0)

	w := pdf.TextWidth("∀", layout.Style{Size: 11})
	assert.Greater(t, w, pdf.TextWidth("x", layout.Style{Size: 11}))

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
