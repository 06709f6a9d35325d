package models

import (
	"sort"

	"github.com/samber/lo"
)

// Points returns the points value of c when its variant defines one
func Points(c Component) (float64, bool) {
	var p *float64
	switch v := c.(type) {
	case *ExerciseHeaderComponent:
		return v.Points, true
	case *TextComponent:
		p = v.Points
	case *TableComponent:
		p = v.Points
	case *QCMComponent:
		p = v.Points
	case *TrueFalseComponent:
		p = v.Points
	case *FillInBlanksComponent:
		p = v.Points
	case *WritingAreaComponent:
		p = v.Points
	case *GeometryComponent:
		p = v.Points
	case *TimelineComponent:
		p = v.Points
	case *MatchingComponent:
		p = v.Points
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// IsScored reports whether c carries a non-zero points value
func IsScored(c Component) bool {
	p, ok := Points(c)
	return ok && p != 0
}

// IsNumberingEligible reports whether c takes a Q<N> label when numbering is on
func IsNumberingEligible(c Component) bool {
	switch c.Kind() {
	case ComponentText, ComponentQCM, ComponentTrueFalse, ComponentFillInBlanks:
		return IsScored(c)
	}
	return false
}

// TotalPoints sums points over every component that defines them
func TotalPoints(cs []Component) float64 {
	return lo.SumBy(cs, func(c Component) float64 {
		p, _ := Points(c)
		return p
	})
}

// SortByOrder stable-sorts cs by their order key in place
func SortByOrder(cs []Component) {
	sort.SliceStable(cs, func(i, j int) bool {
		return cs[i].Base().Order < cs[j].Base().Order
	})
}

// Sorted returns a copy of cs ordered by their order key, leaving cs as is
func Sorted(cs []Component) []Component {
	out := append([]Component(nil), cs...)
	SortByOrder(out)
	return out
}
