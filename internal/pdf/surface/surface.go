// Package surface abstracts the page canvas the paginator, the watermark and
// the correction grid draw on.
package surface

import (
	"io"

	"github.com/yigit/examcraft/internal/pdf/layout"
)

// Surface is a multi-page canvas. Pages are numbered from 1. Drawing goes to
// the current page, which AddPage and SetPage select.
type Surface interface {
	layout.Measurer

	AddPage()
	PageCount() int
	SetPage(n int)

	// ClipRect restricts drawing to the rectangle until ClipEnd
	ClipRect(x, y, w, h float64)
	ClipEnd()

	// Draw renders op translated by (dx, dy)
	Draw(op layout.Op, dx, dy float64)

	// Err returns the first drawing error, if any
	Err() error
	Output(w io.Writer) error
}
