// Package layout holds the backend independent page model produced by the
// renderer and consumed by the paginator. All distances are millimetres.
package layout

// A4 portrait geometry
const (
	PageWidth     = 210.0
	PageHeight    = 297.0
	MarginX       = 20.0
	MarginY       = 15.0
	ContentWidth  = PageWidth - 2*MarginX
	ContentHeight = PageHeight - 2*MarginY

	// UnitsPerMM converts editor layout units (CSS pixels) to millimetres
	UnitsPerMM = 3.78
	// PointToMM converts font points to millimetres
	PointToMM = 25.4 / 72
)

// Color is an RGB triple
type Color struct {
	R, G, B int
}

// Common colors
var (
	Black     = Color{0, 0, 0}
	Gray      = Color{156, 163, 175}
	LightGray = Color{209, 213, 219}
	PaleGray  = Color{240, 240, 240}
	Red       = Color{220, 38, 38}
	Indigo    = Color{79, 70, 229}
	Lavender  = Color{224, 231, 255}
	White     = Color{255, 255, 255}
)

// Align is the horizontal anchor of a TextOp
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Style describes how text is drawn
type Style struct {
	Size   float64 // points
	Bold   bool
	Italic bool
	Color  Color
	Alpha  float64 // 0 means opaque
}

// LineHeight is the vertical advance of one line of text in style s
func (s Style) LineHeight() float64 {
	return s.Size * PointToMM * 1.4
}

// Stroke describes a line
type Stroke struct {
	Width  float64
	Color  Color
	Dashed bool
}

// Op is one drawing primitive positioned relative to its block origin
type Op interface {
	isOp()
}

// TextOp draws a single line of text. Y is the baseline. Angle rotates the
// text counter-clockwise about (X, Y) in degrees.
type TextOp struct {
	X, Y  float64
	Text  string
	Style Style
	Align Align
	Angle float64
}

// LineOp draws a straight segment
type LineOp struct {
	X1, Y1, X2, Y2 float64
	Stroke         Stroke
}

// RectOp draws a rectangle, Stroke and Fill are optional
type RectOp struct {
	X, Y, W, H float64
	Stroke     *Stroke
	Fill       *Color
}

// CircleOp draws a circle centred on (X, Y)
type CircleOp struct {
	X, Y, R float64
	Stroke  *Stroke
	Fill    *Color
}

// ImageOp draws a decoded image registered under Name
type ImageOp struct {
	Name       string
	Format     string // png, jpg or gif
	Data       []byte
	X, Y, W, H float64
}

func (TextOp) isOp()   {}
func (LineOp) isOp()   {}
func (RectOp) isOp()   {}
func (CircleOp) isOp() {}
func (ImageOp) isOp()  {}

// Node is an element of the flat document: a Block or a HardBreak
type Node interface {
	isNode()
}

// Block is the rendered form of one component. Height includes the spacing
// that separates it from the next block.
type Block struct {
	ComponentID string
	Kind        string
	Height      float64
	Ops         []Op
}

// HardBreak forces the following blocks onto a fresh page
type HardBreak struct {
	ComponentID string
}

func (*Block) isNode()     {}
func (*HardBreak) isNode() {}

// Document is the flat layout of an exam
type Document struct {
	Title string
	Nodes []Node
}

// Blocks returns the blocks of d in order, skipping breaks
func (d *Document) Blocks() []*Block {
	var out []*Block
	for _, n := range d.Nodes {
		if b, ok := n.(*Block); ok {
			out = append(out, b)
		}
	}
	return out
}

// Fragment is a run of blocks between two hard breaks
type Fragment struct {
	Blocks []*Block
}

// Height is the stacked height of the fragment
func (f Fragment) Height() float64 {
	var h float64
	for _, b := range f.Blocks {
		h += b.Height
	}
	return h
}

// Fragments splits d at every HardBreak. n breaks always yield n+1
// fragments, some of which may be empty.
func (d *Document) Fragments() []Fragment {
	frags := []Fragment{{}}
	for _, n := range d.Nodes {
		switch v := n.(type) {
		case *HardBreak:
			frags = append(frags, Fragment{})
		case *Block:
			last := &frags[len(frags)-1]
			last.Blocks = append(last.Blocks, v)
		}
	}
	return frags
}
