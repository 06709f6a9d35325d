package surface

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yigit/examcraft/internal/pdf/layout"
)

// Clip is a clipping rectangle in page coordinates
type Clip struct {
	X, Y, W, H float64
}

// Placed is an op drawn on a page, with its translation and active clip
type Placed struct {
	Op     layout.Op
	DX, DY float64
	Clip   *Clip
}

// Page is the recorded content of one page
type Page struct {
	Ops []Placed
}

// Texts returns the strings of every text op on the page, in draw order
func (p *Page) Texts() []string {
	var out []string
	for _, placed := range p.Ops {
		if t, ok := placed.Op.(layout.TextOp); ok {
			out = append(out, t.Text)
		}
	}
	return out
}

// Recorder is an in-memory Surface. It measures text with a FixedMeasurer
// and writes a plain text dump on Output.
type Recorder struct {
	layout.FixedMeasurer

	Pages   []*Page
	current int
	clip    *Clip
	err     error
	// FailAfter makes the n-th Draw call fail when positive
	FailAfter int
	draws     int
}

// NewRecorder returns an empty recorder
func NewRecorder() *Recorder { return &Recorder{} }

// AddPage implements Surface
func (r *Recorder) AddPage() {
	r.Pages = append(r.Pages, &Page{})
	r.current = len(r.Pages)
}

// PageCount implements Surface
func (r *Recorder) PageCount() int { return len(r.Pages) }

// SetPage implements Surface
func (r *Recorder) SetPage(n int) {
	if n < 1 || n > len(r.Pages) {
		r.setErr(fmt.Errorf("page %d out of range", n))
		return
	}
	r.current = n
}

// ClipRect implements Surface
func (r *Recorder) ClipRect(x, y, w, h float64) { r.clip = &Clip{X: x, Y: y, W: w, H: h} }

// ClipEnd implements Surface
func (r *Recorder) ClipEnd() { r.clip = nil }

// Draw implements Surface
func (r *Recorder) Draw(op layout.Op, dx, dy float64) {
	if r.current == 0 {
		r.setErr(errors.New("draw before first page"))
		return
	}
	r.draws++
	if r.FailAfter > 0 && r.draws >= r.FailAfter {
		r.setErr(errors.New("simulated drawing failure"))
		return
	}
	page := r.Pages[r.current-1]
	page.Ops = append(page.Ops, Placed{Op: op, DX: dx, DY: dy, Clip: r.clip})
}

// Err implements Surface
func (r *Recorder) Err() error { return r.err }

func (r *Recorder) setErr(err error) {
	if r.err == nil {
		r.err = err
	}
}

// Output implements Surface. It writes one "--- page N" header per page
// followed by the page texts.
func (r *Recorder) Output(w io.Writer) error {
	if r.err != nil {
		return r.err
	}
	var b strings.Builder
	for i, p := range r.Pages {
		fmt.Fprintf(&b, "--- page %d\n", i+1)
		for _, t := range p.Texts() {
			b.WriteString(t)
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// AllTexts returns the texts of every page, in page order
func (r *Recorder) AllTexts() []string {
	var out []string
	for _, p := range r.Pages {
		out = append(out, p.Texts()...)
	}
	return out
}
