package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validQCM(id string) *QCMComponent {
	return &QCMComponent{
		BaseComponent: BaseComponent{ID: id, Type: ComponentQCM},
		Options:       []QCMOption{{ID: "a", IsCorrect: true}, {ID: "b"}},
	}
}

func issueFields(t *testing.T, err error) []string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	fields := make([]string, 0, len(verr.Issues))
	for _, is := range verr.Issues {
		fields = append(fields, is.Field)
	}
	return fields
}

func TestValidateAcceptsWellFormedBody(t *testing.T) {
	cs := []Component{
		validQCM("q1"),
		&TableComponent{
			BaseComponent: BaseComponent{ID: "t1"},
			Rows:          2, Columns: 2,
			Headers: []string{"a", "b"},
			Data:    [][]string{{"", ""}, {"", ""}},
		},
		&MatchingComponent{
			BaseComponent: BaseComponent{ID: "m1"},
			LeftColumn:    []MatchingItem{{ID: "l1"}},
			RightColumn:   []MatchingItem{{ID: "r1"}},
		},
		&PageBreakComponent{BaseComponent: BaseComponent{ID: "pb"}},
	}
	assert.NoError(t, Validate(cs))
}

func TestValidateRejectsDuplicateIDs(t *testing.T) {
	err := Validate([]Component{validQCM("same"), validQCM("same")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidComponents)
	assert.Contains(t, issueFields(t, err), "id")
}

func TestValidateQCMRules(t *testing.T) {
	noneCorrect := validQCM("q")
	noneCorrect.Options[0].IsCorrect = false
	assert.Contains(t, issueFields(t, Validate([]Component{noneCorrect})), "options")

	multi := validQCM("q")
	multi.Options[1].IsCorrect = true
	assert.Error(t, Validate([]Component{multi}))
	multi.MultipleAnswers = true
	assert.NoError(t, Validate([]Component{multi}))

	single := validQCM("q")
	single.Options = single.Options[:1]
	assert.Contains(t, issueFields(t, Validate([]Component{single})), "Options")

	cols := validQCM("q")
	cols.Columns = 3
	assert.Contains(t, issueFields(t, Validate([]Component{cols})), "Columns")
}

func TestValidateMatchingColumnsHaveEqualLength(t *testing.T) {
	m := &MatchingComponent{
		BaseComponent: BaseComponent{ID: "m"},
		LeftColumn:    []MatchingItem{{ID: "l1"}, {ID: "l2"}},
		RightColumn:   []MatchingItem{{ID: "r1"}},
	}
	assert.Contains(t, issueFields(t, Validate([]Component{m})), "rightColumn")
}

func TestValidateTableShape(t *testing.T) {
	tbl := &TableComponent{
		BaseComponent: BaseComponent{ID: "t"},
		Rows:          2, Columns: 2,
		Data: [][]string{{"", ""}},
	}
	assert.Contains(t, issueFields(t, Validate([]Component{tbl})), "data")
}

func TestValidateEnums(t *testing.T) {
	tf := &TrueFalseComponent{BaseComponent: BaseComponent{ID: "tf"}, DisplayStyle: "stars"}
	assert.Contains(t, issueFields(t, Validate([]Component{tf})), "DisplayStyle")

	geo := &GeometryComponent{BaseComponent: BaseComponent{ID: "g"}, GridType: "hex", Width: 10, Height: 10}
	assert.Contains(t, issueFields(t, Validate([]Component{geo})), "GridType")
}

func TestValidateIdentityToleratesDrafts(t *testing.T) {
	draft := NewDefault(ComponentQCM, 0)
	assert.Error(t, Validate([]Component{draft}))
	assert.NoError(t, ValidateIdentity([]Component{draft}))

	assert.Error(t, ValidateIdentity([]Component{&TextComponent{}}))
}
