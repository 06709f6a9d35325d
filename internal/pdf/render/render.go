// Package render maps an ordered component list onto a flat layout
// document, one block per component.
package render

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/yigit/examcraft/internal/app/models"
	"github.com/yigit/examcraft/internal/pdf/images"
	"github.com/yigit/examcraft/internal/pdf/layout"
)

// Spacing below every block
const blockGap = 5.0

// Base styles
var (
	bodyStyle    = layout.Style{Size: 11, Color: layout.Black}
	boldStyle    = layout.Style{Size: 11, Bold: true, Color: layout.Black}
	italicStyle  = layout.Style{Size: 10, Italic: true, Color: layout.Black}
	badgeStyle   = layout.Style{Size: 10, Bold: true, Color: layout.Black}
	titleStyle   = layout.Style{Size: 18, Bold: true, Color: layout.Black}
	exerciseFont = layout.Style{Size: 14, Bold: true, Color: layout.Black}
	thinStroke   = layout.Stroke{Width: 0.2, Color: layout.Black}
)

// Options controls a single render pass
type Options struct {
	HidePoints    bool
	AutoNumbering bool
	// Watermark is carried for the composer; the renderer ignores it
	Watermark string
	// SeedByComponentID makes matching shuffles reproducible per component.
	// Otherwise Seed drives them, and a zero Seed picks a random one.
	SeedByComponentID bool
	Seed              uint64
}

// Renderer turns components into layout blocks
type Renderer struct {
	m      layout.Measurer
	images images.Set
	log    zerolog.Logger
	width  float64
}

// New returns a Renderer measuring text with m. imgs holds the prefetched
// pictures and may be nil.
func New(m layout.Measurer, imgs images.Set, log zerolog.Logger) *Renderer {
	if imgs == nil {
		imgs = images.Set{}
	}
	return &Renderer{m: m, images: imgs, log: log, width: layout.ContentWidth}
}

// WithWidth lays blocks out to a content width other than the A4 default
func (r *Renderer) WithWidth(width float64) *Renderer {
	if width > 0 {
		r.width = width
	}
	return r
}

// pass is the per-call state of Render
type pass struct {
	opts    Options
	title   string
	counter int
	rng     *rand.Rand
}

// Render walks cs in list order, it never re-sorts them. Unknown components
// are skipped with a warning.
func (r *Renderer) Render(title string, cs []models.Component, opts Options) *layout.Document {
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	p := &pass{opts: opts, title: title, rng: rand.New(rand.NewPCG(seed, seed>>1|1))}

	doc := &layout.Document{Title: title}
	for _, c := range cs {
		if c == nil {
			r.log.Warn().Msg("Skipping null component")
			continue
		}
		if _, ok := c.(*models.PageBreakComponent); ok {
			doc.Nodes = append(doc.Nodes, &layout.HardBreak{ComponentID: c.Base().ID})
			continue
		}

		label := ""
		if opts.AutoNumbering && models.IsNumberingEligible(c) {
			p.counter++
			label = fmt.Sprintf("Q%d.", p.counter)
		}

		b := &block{}
		if !r.component(p, b, c, label) {
			r.log.Warn().
				Str("componentId", c.Base().ID).
				Str("componentType", string(c.Kind())).
				Msg("Skipping component of unknown type")
			continue
		}
		doc.Nodes = append(doc.Nodes, &layout.Block{
			ComponentID: c.Base().ID,
			Kind:        string(c.Kind()),
			Height:      b.y + blockGap,
			Ops:         b.ops,
		})
	}
	return doc
}

// component dispatches on the variant. It reports false for unknown types.
func (r *Renderer) component(p *pass, b *block, c models.Component, label string) bool {
	switch v := c.(type) {
	case *models.HeaderComponent:
		r.header(p, b, v)
	case *models.TextComponent:
		r.textComponent(p, b, v, label)
	case *models.TableComponent:
		r.table(p, b, v)
	case *models.QCMComponent:
		r.qcm(p, b, v, label)
	case *models.ImageComponent:
		r.image(b, v)
	case *models.TrueFalseComponent:
		r.trueFalse(p, b, v, label)
	case *models.FillInBlanksComponent:
		r.fillInBlanks(p, b, v, label)
	case *models.WritingAreaComponent:
		r.writingArea(p, b, v)
	case *models.ExerciseHeaderComponent:
		r.exerciseHeader(p, b, v)
	case *models.GeometryComponent:
		r.geometry(p, b, v)
	case *models.TimelineComponent:
		r.timeline(p, b, v)
	case *models.MatchingComponent:
		r.matching(p, b, v)
	default:
		return false
	}
	return true
}

// shuffler returns the random source for a matching component
func (p *pass) shuffler(componentID string) *rand.Rand {
	if !p.opts.SeedByComponentID {
		return p.rng
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(componentID))
	sum := h.Sum64()
	return rand.New(rand.NewPCG(sum, sum>>1|1))
}

// FormatPoints prints points the way the editor shows them (2, 1.5)
func FormatPoints(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// badgeText returns the "[n pts]" badge of c, or "" when none is shown
func badgeText(p *pass, c models.Component) string {
	if p.opts.HidePoints {
		return ""
	}
	pts, ok := models.Points(c)
	if !ok || pts <= 0 {
		return ""
	}
	return fmt.Sprintf("[%s pts]", FormatPoints(pts))
}

// heading draws the optional Q label and badge on the first line of a block
// and returns the x offset and width left for the body.
func (r *Renderer) heading(b *block, label, badge string) (float64, float64) {
	x, width := 0.0, r.width
	baseline := b.y + bodyStyle.LineHeight()*baselineRatio
	if badge != "" {
		b.add(layout.TextOp{X: r.width, Y: baseline, Text: badge, Style: badgeStyle, Align: layout.AlignRight})
		width -= r.m.TextWidth(badge, badgeStyle) + 3
	}
	if label != "" {
		b.add(layout.TextOp{X: 0, Y: baseline, Text: label, Style: boldStyle})
		offset := r.m.TextWidth(label, boldStyle) + 2
		x += offset
		width -= offset
	}
	return x, width
}
