// Package watermark stamps a rotated, translucent text on every page.
package watermark

import (
	"fmt"
	"strings"

	"github.com/yigit/examcraft/internal/pdf/layout"
	"github.com/yigit/examcraft/internal/pdf/surface"
	"github.com/yigit/examcraft/internal/pkg/apperrors"
)

// Stamp appearance
const (
	FontSize = 60.0
	Angle    = 45.0
	Alpha    = 0.2
)

// Op returns the stamp drawn on each page, centred on the page
func Op(text string) layout.TextOp {
	style := layout.Style{Size: FontSize, Bold: true, Color: layout.LightGray, Alpha: Alpha}
	return layout.TextOp{
		X:     layout.PageWidth / 2,
		Y:     layout.PageHeight/2 + FontSize*layout.PointToMM*0.35,
		Text:  text,
		Style: style,
		Align: layout.AlignCenter,
		Angle: Angle,
	}
}

// Apply draws text over every page of s, after the page content. Blank text
// leaves the document untouched.
func Apply(s surface.Surface, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	op := Op(text)
	for n := 1; n <= s.PageCount(); n++ {
		s.SetPage(n)
		s.Draw(op, 0, 0)
	}
	if err := s.Err(); err != nil {
		return fmt.Errorf("%w: watermark: %w", apperrors.ErrRenderFailed, err)
	}
	return nil
}
