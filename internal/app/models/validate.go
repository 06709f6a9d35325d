package models

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var componentValidator = validator.New(validator.WithRequiredStructEnabled())

// ErrInvalidComponents is returned (wrapped) by Validate
var ErrInvalidComponents = errors.New("invalid components")

// ComponentIssue describes one violated rule
type ComponentIssue struct {
	ComponentID string `json:"componentId"`
	Field       string `json:"field,omitempty"`
	Message     string `json:"message"`
}

// ValidationError lists every issue found in a component list
type ValidationError struct {
	Issues []ComponentIssue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return ErrInvalidComponents.Error()
	}
	first := e.Issues[0]
	if len(e.Issues) == 1 {
		return fmt.Sprintf("%s: %s: %s", ErrInvalidComponents, first.ComponentID, first.Message)
	}
	return fmt.Sprintf("%s: %s: %s (and %d more)", ErrInvalidComponents, first.ComponentID, first.Message, len(e.Issues)-1)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidComponents }

// Validate checks the structural invariants of an exam body: unique ids,
// field ranges, and the per-variant shape rules.
func Validate(cs []Component) error {
	var issues []ComponentIssue
	add := func(id, field, msg string) {
		issues = append(issues, ComponentIssue{ComponentID: id, Field: field, Message: msg})
	}

	seen := make(map[string]struct{}, len(cs))
	for i, c := range cs {
		if c == nil {
			add(fmt.Sprintf("#%d", i), "", "component is null")
			continue
		}
		id := c.Base().ID
		if id != "" {
			if _, dup := seen[id]; dup {
				add(id, "id", "duplicate component id")
			}
			seen[id] = struct{}{}
		}

		if err := componentValidator.Struct(c); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				for _, fe := range verrs {
					add(id, fe.Field(), fmt.Sprintf("failed %q rule", fe.Tag()))
				}
			} else {
				add(id, "", err.Error())
			}
		}

		switch v := c.(type) {
		case *QCMComponent:
			if !v.MultipleAnswers {
				correct := 0
				for _, o := range v.Options {
					if o.IsCorrect {
						correct++
					}
				}
				if correct != 1 {
					add(id, "options", "exactly one option must be correct")
				}
			}
		case *MatchingComponent:
			if len(v.LeftColumn) != len(v.RightColumn) {
				add(id, "rightColumn", "columns must have the same length")
			}
		case *TableComponent:
			if len(v.Data) != v.Rows {
				add(id, "data", "row count does not match rows")
			}
			for r, row := range v.Data {
				if len(row) != v.Columns {
					add(id, "data", fmt.Sprintf("row %d does not have %d cells", r, v.Columns))
				}
			}
			if len(v.Headers) != 0 && len(v.Headers) != v.Columns {
				add(id, "headers", "header count does not match columns")
			}
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// ValidateIdentity only checks that every component has a unique, non-empty
// id. Saved drafts are held to this weaker rule since the editor persists
// half-filled components.
func ValidateIdentity(cs []Component) error {
	var issues []ComponentIssue
	seen := make(map[string]struct{}, len(cs))
	for i, c := range cs {
		if c == nil || c.Base().ID == "" {
			issues = append(issues, ComponentIssue{ComponentID: fmt.Sprintf("#%d", i), Field: "id", Message: "missing component id"})
			continue
		}
		id := c.Base().ID
		if _, dup := seen[id]; dup {
			issues = append(issues, ComponentIssue{ComponentID: id, Field: "id", Message: "duplicate component id"})
		}
		seen[id] = struct{}{}
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
