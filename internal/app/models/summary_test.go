package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	cs := []Component{
		&HeaderComponent{},
		&ExerciseHeaderComponent{Points: 5},
		&QCMComponent{Points: Float(2)},
		&TextComponent{Points: Float(3)},
		&PageBreakComponent{},
		&ExerciseHeaderComponent{Points: 4},
		&TextComponent{},
	}
	s := Summarize(cs)

	assert.Equal(t, 14.0, s.TotalPoints)
	assert.Equal(t, 7, s.ComponentCount)
	assert.Equal(t, 2, s.QuestionCount)
	assert.Equal(t, 2, s.ExerciseCount)
	assert.Equal(t, 1, s.PageBreaks)

	require.Len(t, s.Breakdown, 5)
	assert.Equal(t, ComponentHeader, s.Breakdown[0].Type)
	text := s.Breakdown[1]
	assert.Equal(t, ComponentText, text.Type)
	assert.Equal(t, 2, text.Count)
	assert.Equal(t, 3.0, text.Points)
}

func TestExamNormalize(t *testing.T) {
	e := &Exam{Title: "  ", Components: Components{&TextComponent{Points: Float(2)}}}
	e.Normalize()
	assert.Equal(t, DefaultExamTitle, e.Title)
	assert.Equal(t, 2.0, e.TotalPoints)
	assert.NotNil(t, e.Tags)
}

func TestFromGenerated(t *testing.T) {
	q := GeneratedQuestion{
		Question:      "Capital of Italy?",
		Options:       []string{"Paris", "Rome", "Madrid", "Berlin"},
		CorrectAnswer: "b",
		Points:        "3",
	}
	c, err := FromGenerated(q, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Order)
	require.NotNil(t, c.Points)
	assert.Equal(t, 3.0, *c.Points)
	require.Len(t, c.Options, 4)
	assert.True(t, c.Options[1].IsCorrect)
	assert.False(t, c.Options[0].IsCorrect)
	assert.NoError(t, Validate([]Component{c}))
}

func TestFromGeneratedDefaultsPoints(t *testing.T) {
	c, err := FromGenerated(GeneratedQuestion{
		Question: "?", Options: []string{"x", "y"}, CorrectAnswer: "A",
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, float64(DefaultGeneratedPoints), *c.Points)
}

func TestFromGeneratedRejectsBadAnswer(t *testing.T) {
	_, err := FromGenerated(GeneratedQuestion{
		Question: "?", Options: []string{"x", "y"}, CorrectAnswer: "D",
	}, 0)
	assert.ErrorIs(t, err, ErrInvalidComponents)

	_, err = FromGenerated(GeneratedQuestion{
		Question: "?", Options: []string{"x", "y"}, CorrectAnswer: "AB",
	}, 0)
	assert.ErrorIs(t, err, ErrInvalidComponents)
}
