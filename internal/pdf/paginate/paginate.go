// Package paginate composes a flat layout document onto fixed size pages.
//
// The document is split at every hard break into fragments. Each fragment
// starts on a fresh page and is drawn as one tall strip. A strip taller than
// the page content area is cut into consecutive page high bands: every band
// redraws the blocks it overlaps with a negative vertical offset, clipped to
// the content area.
package paginate

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/yigit/examcraft/internal/pdf/layout"
	"github.com/yigit/examcraft/internal/pdf/surface"
	"github.com/yigit/examcraft/internal/pkg/apperrors"
)

// epsilon absorbs float noise when a fragment is an exact multiple of a page
const epsilon = 1e-6

// Options positions the content area on the page
type Options struct {
	MarginX float64
	MarginY float64
	Log     zerolog.Logger
}

func (o Options) withDefaults() Options {
	if o.MarginX <= 0 {
		o.MarginX = layout.MarginX
	}
	if o.MarginY <= 0 {
		o.MarginY = layout.MarginY
	}
	return o
}

// ContentHeight is the height of one band
func (o Options) ContentHeight() float64 {
	return layout.PageHeight - 2*o.withDefaults().MarginY
}

// ContentWidth is the width blocks must be laid out to
func (o Options) ContentWidth() float64 {
	return layout.PageWidth - 2*o.withDefaults().MarginX
}

// Slice is one output page: the band of a fragment starting at Offset
type Slice struct {
	Fragment int
	Band     int
	Offset   float64
}

// PagesFor returns how many pages a fragment of the given height takes.
// An empty fragment still takes one page, a fragment exactly k pages tall
// takes k pages.
func PagesFor(height, pageHeight float64) int {
	if height <= epsilon {
		return 1
	}
	return max(1, int(math.Ceil(height/pageHeight-epsilon)))
}

// Plan lists the pages Compose will produce for doc, in order
func Plan(doc *layout.Document, pageHeight float64) []Slice {
	var out []Slice
	for fi, frag := range doc.Fragments() {
		n := PagesFor(frag.Height(), pageHeight)
		for k := 0; k < n; k++ {
			out = append(out, Slice{Fragment: fi, Band: k, Offset: float64(k) * pageHeight})
		}
	}
	return out
}

// Compose draws doc onto s, appending pages, and returns how many pages it
// added. Any drawing error aborts the composition with ErrRenderFailed.
func Compose(doc *layout.Document, s surface.Surface, opts Options) (int, error) {
	opts = opts.withDefaults()
	pageH := opts.ContentHeight()
	width := opts.ContentWidth()
	frags := doc.Fragments()
	start := s.PageCount()

	for _, sl := range Plan(doc, pageH) {
		s.AddPage()
		s.ClipRect(opts.MarginX, opts.MarginY, width, pageH)

		y := 0.0
		for _, b := range frags[sl.Fragment].Blocks {
			if y+b.Height > sl.Offset && y < sl.Offset+pageH {
				for _, op := range b.Ops {
					s.Draw(op, opts.MarginX, opts.MarginY+y-sl.Offset)
				}
			}
			y += b.Height
		}
		s.ClipEnd()

		if err := s.Err(); err != nil {
			return 0, fmt.Errorf("%w: fragment %d, band %d: %w", apperrors.ErrRenderFailed, sl.Fragment+1, sl.Band+1, err)
		}
	}

	added := s.PageCount() - start
	opts.Log.Debug().
		Int("fragments", len(frags)).
		Int("pages", added).
		Msg("Document composed")
	return added, nil
}
