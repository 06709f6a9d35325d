package models

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// DefaultGeneratedPoints is used when a generated question carries no usable points
const DefaultGeneratedPoints = 2

// GeneratedQuestion is the shape returned by the question generator.
// Points arrives as a number or a numeric string depending on the model.
type GeneratedQuestion struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"min=2,max=26"`
	CorrectAnswer string   `json:"correctAnswer" validate:"required"`
	Points        any      `json:"points,omitempty"`
}

// FromGenerated converts a generated question into a qcm component.
// The correct answer is a letter ("A" for the first option).
func FromGenerated(q GeneratedQuestion, order int) (*QCMComponent, error) {
	if err := componentValidator.Struct(q); err != nil {
		return nil, fmt.Errorf("%w: generated question: %v", ErrInvalidComponents, err)
	}

	answer := strings.ToUpper(strings.TrimSpace(q.CorrectAnswer))
	if len(answer) != 1 {
		return nil, fmt.Errorf("%w: correct answer %q is not a single letter", ErrInvalidComponents, q.CorrectAnswer)
	}
	correct := int(answer[0] - 'A')
	if correct < 0 || correct >= len(q.Options) {
		return nil, fmt.Errorf("%w: correct answer %q is out of range", ErrInvalidComponents, q.CorrectAnswer)
	}

	points := cast.ToFloat64(q.Points)
	if points == 0 {
		points = DefaultGeneratedPoints
	}

	options := make([]QCMOption, len(q.Options))
	for i, text := range q.Options {
		options[i] = QCMOption{
			ID:        fmt.Sprintf("opt-%d", i+1),
			Text:      text,
			IsCorrect: i == correct,
		}
	}

	return &QCMComponent{
		BaseComponent: BaseComponent{ID: NewComponentID(ComponentQCM), Type: ComponentQCM, Order: order},
		Question:      q.Question,
		Options:       options,
		Points:        Float(points),
		Columns:       1,
	}, nil
}
