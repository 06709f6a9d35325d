package models

import (
	"fmt"

	"github.com/google/uuid"
)

// NewComponentID returns a fresh id in the editor's "<type>-<suffix>" shape
func NewComponentID(t ComponentType) string {
	return fmt.Sprintf("%s-%s", t, uuid.NewString())
}

// NewDefault builds the component the editor inserts when a palette entry
// is clicked. It returns nil for unknown types.
func NewDefault(t ComponentType, order int) Component {
	base := BaseComponent{ID: NewComponentID(t), Type: t, Order: order}

	switch t {
	case ComponentHeader:
		return &HeaderComponent{
			BaseComponent: base,
			StudentFields: StudentFields{Name: true, FirstName: true, ClassGroup: true},
		}
	case ComponentText:
		return &TextComponent{BaseComponent: base, Points: Float(0)}
	case ComponentTable:
		return &TableComponent{
			BaseComponent: base,
			Rows:          3,
			Columns:       3,
			Headers:       []string{"Column 1", "Column 2", "Column 3"},
			Data:          [][]string{{"", "", ""}, {"", "", ""}, {"", "", ""}},
			Points:        Float(0),
		}
	case ComponentQCM:
		return &QCMComponent{
			BaseComponent: base,
			Options: []QCMOption{
				{ID: "opt-1"}, {ID: "opt-2"}, {ID: "opt-3"}, {ID: "opt-4"},
			},
			Points:  Float(0),
			Columns: 1,
		}
	case ComponentImage:
		return &ImageComponent{BaseComponent: base}
	case ComponentTrueFalse:
		return &TrueFalseComponent{
			BaseComponent: base,
			Statements: []TrueFalseStatement{
				{ID: "stmt-1"}, {ID: "stmt-2"}, {ID: "stmt-3"},
			},
			DisplayStyle: DisplayCircles,
			Points:       Float(0),
		}
	case ComponentFillInBlanks:
		return &FillInBlanksComponent{BaseComponent: base, Points: Float(0)}
	case ComponentWritingArea:
		return &WritingAreaComponent{BaseComponent: base, LineCount: 10, LineStyle: LineRuled, Points: Float(0)}
	case ComponentExerciseHeader:
		return &ExerciseHeaderComponent{BaseComponent: base, ExerciseNumber: 1}
	case ComponentPageBreak:
		return &PageBreakComponent{BaseComponent: base}
	case ComponentGeometry:
		return &GeometryComponent{BaseComponent: base, GridType: GridSquares, Width: 160, Height: 100}
	case ComponentTimeline:
		return &TimelineComponent{
			BaseComponent: base,
			StartYear:     1900,
			EndYear:       2000,
			Events: []TimelineEvent{
				{ID: "evt-1", Date: "1900", ShowDate: true, ShowLabel: true},
			},
		}
	case ComponentMatching:
		return &MatchingComponent{
			BaseComponent: base,
			LeftColumn:    []MatchingItem{{ID: "left-1"}, {ID: "left-2"}, {ID: "left-3"}},
			RightColumn:   []MatchingItem{{ID: "right-1"}, {ID: "right-2"}, {ID: "right-3"}},
			ShuffleRight:  true,
		}
	}
	return nil
}

// Duplicate deep-copies c under a new id placed at order
func Duplicate(c Component, order int) (Component, error) {
	data, err := EncodeComponent(c)
	if err != nil {
		return nil, err
	}
	dup, err := DecodeComponent(data)
	if err != nil {
		return nil, err
	}
	dup.Base().ID = NewComponentID(c.Kind())
	dup.Base().Order = order
	return dup, nil
}
