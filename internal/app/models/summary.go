package models

import "github.com/samber/lo"

// TypeBreakdown aggregates one component type inside a Summary
type TypeBreakdown struct {
	Type   ComponentType `json:"type"`
	Count  int           `json:"count"`
	Points float64       `json:"points"`
}

// Summary is the at-a-glance view of an exam body
type Summary struct {
	TotalPoints    float64         `json:"totalPoints"`
	ComponentCount int             `json:"componentCount"`
	QuestionCount  int             `json:"questionCount"`
	ExerciseCount  int             `json:"exerciseCount"`
	PageBreaks     int             `json:"pageBreaks"`
	Breakdown      []TypeBreakdown `json:"breakdown"`
}

// Summarize computes totals and a per-type breakdown in palette order.
// Types absent from cs are left out of the breakdown.
func Summarize(cs []Component) Summary {
	groups := lo.GroupBy(cs, func(c Component) ComponentType { return c.Kind() })

	breakdown := make([]TypeBreakdown, 0, len(groups))
	for _, t := range ComponentTypes {
		group, ok := groups[t]
		if !ok {
			continue
		}
		breakdown = append(breakdown, TypeBreakdown{Type: t, Count: len(group), Points: TotalPoints(group)})
	}

	return Summary{
		TotalPoints:    TotalPoints(cs),
		ComponentCount: len(cs),
		QuestionCount:  lo.CountBy(cs, IsNumberingEligible),
		ExerciseCount:  len(groups[ComponentExerciseHeader]),
		PageBreaks:     len(groups[ComponentPageBreak]),
		Breakdown:      breakdown,
	}
}
