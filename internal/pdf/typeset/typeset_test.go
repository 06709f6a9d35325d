package typeset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(r Result) []Kind {
	out := make([]Kind, len(r.Segments))
	for i, s := range r.Segments {
		out[i] = s.Kind
	}
	return out
}

func TestTypesetIsIdentityOnPlainProse(t *testing.T) {
	inputs := []string{
		"",
		"The capital of France is Paris.",
		"line one\nline two\n\nline four",
		"trailing newline\n",
		"a single $ sign costs nothing",
		"brackets [x] {y} and backslash \\alpha stay literal",
	}
	for _, in := range inputs {
		r := Typeset(in)
		assert.Equal(t, in, r.String(), "input %q", in)
		for _, s := range r.Segments {
			assert.Contains(t, []Kind{Text, LineBreak}, s.Kind)
		}
	}
}

func TestTypesetPlainLinesProduceOneTextSegmentEach(t *testing.T) {
	r := Typeset("a\nb")
	assert.Equal(t, []Kind{Text, LineBreak, Text}, kinds(r))
}

func TestTypesetInlineMath(t *testing.T) {
	r := Typeset(`Let $\alpha^2 + \beta_1$ be given`)
	require.Equal(t, []Kind{Text, InlineMath, Text}, kinds(r))
	assert.Equal(t, "Let ", r.Segments[0].Text)
	assert.Equal(t, "α² + β₁", r.Segments[1].Text)
	assert.Equal(t, " be given", r.Segments[2].Text)
}

func TestTypesetDisplayMathFirst(t *testing.T) {
	r := Typeset("Solve $$x = \\frac{1}{2}$$ now")
	require.Equal(t, []Kind{Text, DisplayMath, Text}, kinds(r))
	assert.Equal(t, "x = 1/2", r.Segments[1].Text)
}

func TestTypesetDisplayMathSpansLines(t *testing.T) {
	r := Typeset("$$a\n+ b$$")
	require.Equal(t, []Kind{DisplayMath}, kinds(r))
	assert.Equal(t, "a + b", r.Segments[0].Text)
}

func TestTypesetInlineMathDoesNotSpanLines(t *testing.T) {
	in := "cost $5\nand 6$"
	assert.Equal(t, in, Typeset(in).String())
}

func TestTypesetMalformedExpressionIsLocal(t *testing.T) {
	r := Typeset(`ok $x^2$ bad $\frac{1}{$ then $\pi$`)
	require.Equal(t, []Kind{Text, InlineMath, Text, Error, Text, InlineMath}, kinds(r))
	assert.Equal(t, `$\frac{1}{$`, r.Segments[3].Text)
	assert.Equal(t, "π", r.Segments[5].Text)
	assert.True(t, r.HasErrors())
	assert.Contains(t, r.String(), `[error: $\frac{1}{$]`)
}

func TestConvertFailures(t *testing.T) {
	bad := []string{
		"   ",
		`\unknowncommand`,
		`x^`,
		`{a`,
		`a}`,
		`x_{}^`,
		`\`,
	}
	for _, in := range bad {
		_, err := Convert(in)
		assert.ErrorIs(t, err, ErrMalformed, "input %q", in)
	}
}

func TestConvert(t *testing.T) {
	cases := map[string]string{
		`\sqrt{2}`:            "√2",
		`\sqrt[3]{x+1}`:       "∛(x+1)",
		`\frac{a+b}{2}`:       "(a+b)/2",
		`x^{10}`:              "x¹⁰",
		`e^{i\pi}`:            "e^(iπ)",
		`a_{ij}`:              "aᵢⱼ",
		`x^{\alpha}`:          "x^α",
		`\text{if } x \leq 0`: "if x ≤ 0",
		`\sin x \to 0`:        "sin x → 0",
		`\mathbb{R}`:          "ℝ",
		`\left( a \right)`:    "( a )",
		`\vec{v}`:             "v⃗",
		`1 - 2`:               "1 − 2",
		`a \\ b`:              "a \n b",
	}
	for in, want := range cases {
		got, err := Convert(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	got, err := Convert(`\begin{cases} 1 \end{cases}`)
	require.NoError(t, err)
	assert.Equal(t, "1", got)
}

func TestLiteralIgnoresMath(t *testing.T) {
	r := Literal("$x$\nnext")
	assert.Equal(t, []Kind{Text, LineBreak, Text}, kinds(r))
	assert.Equal(t, "$x$", r.Segments[0].Text)
}

func TestLinesPutDisplayMathOnItsOwnLine(t *testing.T) {
	lines := Typeset("before $$x$$ after\nlast").Lines()
	require.Len(t, lines, 4)
	assert.Equal(t, "before ", lines[0][0].Text)
	assert.Equal(t, DisplayMath, lines[1][0].Kind)
	assert.Equal(t, " after", lines[2][0].Text)
	assert.Equal(t, "last", lines[3][0].Text)
}

func TestSpellMapsSymbolsBackToSource(t *testing.T) {
	for r, want := range map[rune]string{
		'∀': `\forall`,
		'∈': `\in`,
		'≤': `\le`,
		'²': "^2",
		'ₙ': "_n",
		'ℝ': `\mathbb{R}`,
	} {
		got, ok := Spell(r)
		assert.True(t, ok, string(r))
		assert.Equal(t, want, got)
	}
	_, ok := Spell('x')
	assert.False(t, ok)
}
