package apperrors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomErrorUnwraps(t *testing.T) {
	err := NewCustomError(ErrExamNotFound, "exam 42 is gone").WithCode("RES_001")

	assert.Equal(t, "exam 42 is gone", err.Error())
	assert.ErrorIs(t, err, ErrExamNotFound)
	assert.Equal(t, "RES_001", err.Code)

	wrapped := fmt.Errorf("load: %w", err)
	assert.True(t, Is(wrapped, ErrTemplateNotFound, ErrExamNotFound))
	assert.False(t, Is(wrapped, ErrTemplateNotFound))
}

func TestCustomErrorFallsBackToCause(t *testing.T) {
	assert.Equal(t, ErrRenderFailed.Error(), (&CustomError{Err: ErrRenderFailed}).Error())
	assert.Equal(t, "unknown error", (&CustomError{}).Error())
}

func TestConstructors(t *testing.T) {
	assert.ErrorIs(t, NewBadRequestError("bad"), ErrBadRequest)
	assert.ErrorIs(t, NewForbiddenError("nope"), ErrPermissionDenied)
	assert.ErrorIs(t, NewConflictError("dup"), ErrConflict)
	assert.ErrorIs(t, NewResourceNotFoundError("missing"), ErrResourceNotFound)
}
