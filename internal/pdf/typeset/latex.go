package typeset

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrMalformed is wrapped by every Convert failure
var ErrMalformed = errors.New("malformed math expression")

// Convert rewrites a LaTeX math body into Unicode text.
// It fails on unbalanced braces, unknown commands, dangling ^ or _ and
// empty bodies.
func Convert(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", fmt.Errorf("%w: empty expression", ErrMalformed)
	}
	p := &parser{src: []rune(body)}
	out, err := p.sequence(false)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

type parser struct {
	src []rune
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) fail(format string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d", ErrMalformed, fmt.Sprintf(format, args...), p.pos)
}

func (p *parser) skipSpaces() {
	for !p.eof() && unicode.IsSpace(p.src[p.pos]) {
		p.pos++
	}
}

// sequence reads until end of input, or until the closing brace of the
// current group when inGroup is set.
func (p *parser) sequence(inGroup bool) (string, error) {
	var b strings.Builder
	for !p.eof() {
		r := p.src[p.pos]
		switch {
		case r == '}':
			if !inGroup {
				return "", p.fail("unexpected }")
			}
			p.pos++
			return b.String(), nil
		case r == '{':
			p.pos++
			s, err := p.sequence(true)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		case r == '^' || r == '_':
			p.pos++
			arg, err := p.argument()
			if err != nil {
				return "", p.fail("dangling %c", r)
			}
			b.WriteString(script(arg, r == '^'))
		case r == '\\':
			s, err := p.command()
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		case unicode.IsSpace(r):
			p.skipSpaces()
			if b.Len() > 0 && !strings.HasSuffix(b.String(), " ") {
				b.WriteByte(' ')
			}
		case r == '&':
			p.pos++
			b.WriteByte(' ')
		default:
			p.pos++
			b.WriteString(plainChar(r))
		}
	}
	if inGroup {
		return "", p.fail("missing }")
	}
	return b.String(), nil
}

// argument reads one macro argument: a group, a command or a single char
func (p *parser) argument() (string, error) {
	p.skipSpaces()
	if p.eof() {
		return "", p.fail("missing argument")
	}
	switch r := p.src[p.pos]; r {
	case '{':
		p.pos++
		return p.sequence(true)
	case '\\':
		return p.command()
	case '}', '^', '_':
		return "", p.fail("missing argument before %c", r)
	default:
		p.pos++
		return plainChar(r), nil
	}
}

// rawGroup reads a brace group verbatim, used for \text and environments
func (p *parser) rawGroup() (string, error) {
	p.skipSpaces()
	if p.eof() || p.src[p.pos] != '{' {
		return "", p.fail("expected {")
	}
	depth := 0
	start := p.pos + 1
	for ; !p.eof(); p.pos++ {
		switch p.src[p.pos] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				s := string(p.src[start:p.pos])
				p.pos++
				return s, nil
			}
		}
	}
	return "", p.fail("missing }")
}

// optional reads a [..] argument when present
func (p *parser) optional() (string, bool, error) {
	p.skipSpaces()
	if p.eof() || p.src[p.pos] != '[' {
		return "", false, nil
	}
	p.pos++
	start := p.pos
	for !p.eof() && p.src[p.pos] != ']' {
		p.pos++
	}
	if p.eof() {
		return "", false, p.fail("missing ]")
	}
	inner := &parser{src: p.src[start:p.pos]}
	p.pos++
	s, err := inner.sequence(false)
	return s, true, err
}

func (p *parser) command() (string, error) {
	p.pos++
	if p.eof() {
		return "", p.fail("dangling \\")
	}

	r := p.src[p.pos]
	if !unicode.IsLetter(r) {
		p.pos++
		switch r {
		case ',', ':', ';', ' ':
			return " ", nil
		case '!':
			return "", nil
		case '\\':
			return "\n", nil
		case '{', '}', '%', '$', '&', '#', '_':
			return string(r), nil
		case '|':
			return "‖", nil
		}
		return "", p.fail("unknown command \\%c", r)
	}

	start := p.pos
	for !p.eof() && unicode.IsLetter(p.src[p.pos]) {
		p.pos++
	}
	name := string(p.src[start:p.pos])

	switch name {
	case "frac", "dfrac", "tfrac":
		num, err := p.argument()
		if err != nil {
			return "", err
		}
		den, err := p.argument()
		if err != nil {
			return "", err
		}
		return wrap(num) + "/" + wrap(den), nil
	case "sqrt":
		index, ok, err := p.optional()
		if err != nil {
			return "", err
		}
		arg, err := p.argument()
		if err != nil {
			return "", err
		}
		root := "√"
		if ok {
			switch strings.TrimSpace(index) {
			case "3":
				root = "∛"
			case "4":
				root = "∜"
			default:
				root = script(index, true) + "√"
			}
		}
		return root + wrap(arg), nil
	case "text", "textrm", "textit", "textbf", "mbox":
		return p.rawGroup()
	case "mathrm", "mathit", "mathbf", "mathsf", "mathcal", "boldsymbol", "operatorname":
		return p.argument()
	case "mathbb":
		arg, err := p.argument()
		if err != nil {
			return "", err
		}
		return mapRunes(arg, blackboard), nil
	case "left", "right", "bigl", "bigr", "Bigl", "Bigr", "big", "Big":
		p.skipSpaces()
		if !p.eof() && p.src[p.pos] == '.' {
			p.pos++
		}
		return "", nil
	case "begin", "end":
		_, err := p.rawGroup()
		return "", err
	case "vec", "hat", "bar", "overline", "dot", "ddot", "tilde", "underline":
		arg, err := p.argument()
		if err != nil {
			return "", err
		}
		return arg + accents[name], nil
	}

	if s, ok := symbols[name]; ok {
		return s, nil
	}
	if functions[name] {
		return name, nil
	}
	return "", p.fail("unknown command \\%s", name)
}

func plainChar(r rune) string {
	switch r {
	case '-':
		return "−"
	case '*':
		return "∗"
	case '\'':
		return "′"
	}
	return string(r)
}

// wrap parenthesises compound operands of a fraction or root
func wrap(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= 1 {
		return s
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' {
			return "(" + s + ")"
		}
	}
	return s
}

// script renders a super or subscript with Unicode forms when every rune
// has one, otherwise with ^(..) or _(..)
func script(s string, sup bool) string {
	table, mark := subscripts, "_"
	if sup {
		table, mark = superscripts, "^"
	}
	s = strings.TrimSpace(s)
	var b strings.Builder
	for _, r := range s {
		m, ok := table[r]
		if !ok {
			if utf8.RuneCountInString(s) == 1 {
				return mark + s
			}
			return mark + "(" + s + ")"
		}
		b.WriteRune(m)
	}
	return b.String()
}

func mapRunes(s string, table map[rune]rune) string {
	var b strings.Builder
	for _, r := range s {
		if m, ok := table[r]; ok {
			b.WriteRune(m)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
