// Package typeset turns text fields with embedded $...$ and $$...$$ math
// into runs the renderer can draw. Math is rewritten to plain Unicode.
package typeset

import (
	"regexp"
	"strings"
)

// Kind classifies a Segment
type Kind int

const (
	Text Kind = iota
	InlineMath
	DisplayMath
	Error
	LineBreak
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case InlineMath:
		return "inline"
	case DisplayMath:
		return "display"
	case Error:
		return "error"
	case LineBreak:
		return "break"
	}
	return "unknown"
}

// Segment is one run of a typeset field. For Error segments Text holds the
// offending source including its delimiters.
type Segment struct {
	Kind Kind
	Text string
}

// Result is the ordered output of Typeset
type Result struct {
	Segments []Segment
}

var (
	displayMath = regexp.MustCompile(`(?s)\$\$(.+?)\$\$`)
	inlineMath  = regexp.MustCompile(`\$([^$\n]+?)\$`)
)

// Typeset processes display math first, then inline math on what is left,
// then splits the remaining prose on newlines. A malformed expression turns
// into an Error segment and the rest of the field is still processed.
// Typeset must be applied once per raw field: its output is not valid input.
func Typeset(text string) Result {
	var r Result
	last := 0
	for _, m := range displayMath.FindAllStringSubmatchIndex(text, -1) {
		r.addInline(text[last:m[0]])
		r.addMath(DisplayMath, text[m[0]:m[1]], text[m[2]:m[3]])
		last = m[1]
	}
	r.addInline(text[last:])
	return r
}

// Literal splits text on newlines without interpreting any math markup
func Literal(text string) Result {
	var r Result
	r.addProse(text)
	return r
}

func (r *Result) addInline(text string) {
	last := 0
	for _, m := range inlineMath.FindAllStringSubmatchIndex(text, -1) {
		r.addProse(text[last:m[0]])
		r.addMath(InlineMath, text[m[0]:m[1]], text[m[2]:m[3]])
		last = m[1]
	}
	r.addProse(text[last:])
}

func (r *Result) addMath(kind Kind, raw, body string) {
	out, err := Convert(body)
	if err != nil {
		r.Segments = append(r.Segments, Segment{Kind: Error, Text: raw})
		return
	}
	r.Segments = append(r.Segments, Segment{Kind: kind, Text: out})
}

func (r *Result) addProse(text string) {
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			r.Segments = append(r.Segments, Segment{Kind: LineBreak})
		}
		if line != "" {
			r.Segments = append(r.Segments, Segment{Kind: Text, Text: line})
		}
	}
}

// HasErrors reports whether any expression failed to convert
func (r Result) HasErrors() bool {
	for _, s := range r.Segments {
		if s.Kind == Error {
			return true
		}
	}
	return false
}

// Lines groups segments into visual lines. Display math always sits on a
// line of its own.
func (r Result) Lines() [][]Segment {
	lines := [][]Segment{nil}
	newLine := func() {
		if len(lines[len(lines)-1]) > 0 {
			lines = append(lines, nil)
		}
	}
	afterDisplay := false
	for _, s := range r.Segments {
		wasDisplay := afterDisplay
		afterDisplay = s.Kind == DisplayMath
		switch s.Kind {
		case LineBreak:
			if !wasDisplay {
				lines = append(lines, nil)
			}
		case DisplayMath:
			newLine()
			for i, part := range strings.Split(s.Text, "\n") {
				if i > 0 {
					lines = append(lines, nil)
				}
				lines[len(lines)-1] = append(lines[len(lines)-1], Segment{Kind: DisplayMath, Text: part})
			}
			lines = append(lines, nil)
		default:
			lines[len(lines)-1] = append(lines[len(lines)-1], s)
		}
	}
	if len(lines) > 1 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// String flattens the result to plain text
func (r Result) String() string {
	var b strings.Builder
	for _, s := range r.Segments {
		switch s.Kind {
		case LineBreak:
			b.WriteByte('\n')
		case Error:
			b.WriteString("[error: ")
			b.WriteString(s.Text)
			b.WriteString("]")
		default:
			b.WriteString(s.Text)
		}
	}
	return b.String()
}
