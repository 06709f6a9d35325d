package layout

import (
	"strings"
	"unicode/utf8"
)

// Measurer reports the advance width of text in millimetres
type Measurer interface {
	TextWidth(text string, style Style) float64
}

// FixedMeasurer gives every rune the same advance, half the font size.
// It keeps layout tests independent from font files.
type FixedMeasurer struct{}

// TextWidth implements Measurer
func (FixedMeasurer) TextWidth(text string, style Style) float64 {
	return float64(utf8.RuneCountInString(text)) * style.Size * PointToMM * 0.5
}

// Wrap breaks text into lines no wider than width, splitting on spaces.
// A single word wider than width is broken between runes.
func Wrap(m Measurer, text string, style Style, width float64) []string {
	if text == "" {
		return []string{""}
	}

	var lines []string
	var current string
	for _, word := range strings.Split(text, " ") {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if m.TextWidth(candidate, style) <= width {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		current = word
		for m.TextWidth(current, style) > width && utf8.RuneCountInString(current) > 1 {
			head, rest := splitToWidth(m, current, style, width)
			lines = append(lines, head)
			current = rest
		}
	}
	return append(lines, current)
}

func splitToWidth(m Measurer, word string, style Style, width float64) (string, string) {
	runes := []rune(word)
	n := 1
	for n < len(runes) && m.TextWidth(string(runes[:n+1]), style) <= width {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}
