package foundations

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidationError_Error_SingleError(t *testing.T) {
	ve := &ValidationError{
		FieldErrors: []FieldError{
			{FieldPath: "logger", Code: ErrCodeRequired, Message: "logger is required"},
		},
	}

	assert.Equal(t, "builder validation failed: 1 error\n  - logger: required (logger is required)", ve.Error())
}

func TestValidationError_Error_MultipleErrors(t *testing.T) {
	ve := &ValidationError{
		FieldErrors: []FieldError{
			{FieldPath: "logger", Code: ErrCodeRequired, Message: "logger is required"},
			{FieldPath: "file", Code: ErrCodeRequired, Message: "file path is required"},
			{FieldPath: "defaults[0]", Code: ErrCodeInvalidLocator, Message: "bad locator"},
		},
	}

	got := ve.Error()
	assert.True(t, strings.HasPrefix(got, "builder validation failed: 3 errors\n"), got)
	assert.Contains(t, got, "  - logger: required (logger is required)")
	assert.Contains(t, got, "  - file: required (file path is required)")
	assert.Contains(t, got, "  - defaults[0]: invalid_locator (bad locator)")
	assert.False(t, strings.HasSuffix(got, "\n"))
}

func TestValidationError_Error_NoErrors(t *testing.T) {
	assert.Equal(t, "builder validation failed: no errors", (&ValidationError{}).Error())
}

func TestLoadErrors_Unwrap(t *testing.T) {
	id := uuid.New()
	cause := errors.New("disk on fire")

	tests := []struct {
		err  error
		want string
	}{
		{&SourceError{ConfigID: id, Source: "env:APP_", Err: cause}, "source env:APP_"},
		{&BaseLoadError{ConfigID: id, Path: "global.yaml", Err: cause}, "load global.yaml"},
		{&SaveError{ConfigID: id, Path: "global.yaml", Err: cause}, "save global.yaml"},
	}

	for _, tt := range tests {
		assert.ErrorIs(t, tt.err, cause)
		assert.Contains(t, tt.err.Error(), id.String())
		assert.Contains(t, tt.err.Error(), tt.want)
		assert.Contains(t, tt.err.Error(), "disk on fire")
	}
}
