package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeLookup(t *testing.T) {
	tests := []struct {
		code   int
		status int
	}{
		{ErrTranslateEmptyInput, http.StatusBadRequest},
		{ErrTranslateFileTooLarge, http.StatusRequestEntityTooLarge},
		{ErrTranslateOperationNotFound, http.StatusNotFound},
		{ErrMediaTranscribeFailed, http.StatusBadGateway},
		{ErrShareNotFound, http.StatusNotFound},
		{99999, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("code_%d", tt.code), func(t *testing.T) {
			assert.Equal(t, tt.status, GetHTTPStatus(tt.code))
		})
	}

	assert.True(t, IsClientError(ErrTranslateInvalidLanguage))
	assert.True(t, IsServerError(ErrTranslateFailed))
	assert.Equal(t, "Invalid language code: xx", FormatError(ErrTranslateInvalidLanguage, "xx"))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrTranslateFailed))

	cause := errors.New("upstream timeout")
	err := Wrap(cause, ErrTranslateFailed, "chunk 2")

	assert.Equal(t, ErrTranslateFailed, err.Code)
	assert.True(t, errors.Is(err, cause))
	assert.True(t, Is(err, ErrTranslateFailed))
	assert.Equal(t, ErrTranslateFailed, ExtractCode(fmt.Errorf("outer: %w", err)))
	assert.Equal(t, "chunk 2", GetDetails(err))

	again := Wrap(err, ErrInternalServer)
	assert.Equal(t, ErrTranslateFailed, again.Code, "existing AppError keeps its code")
}

func TestConstructors(t *testing.T) {
	err := NewInvalidLanguageError("xx")
	assert.Equal(t, ErrTranslateInvalidLanguage, err.Code)
	assert.Contains(t, err.Error(), `"xx"`)

	err = NewFileTooLargeError(ErrMediaFileTooLarge, 20, 10)
	assert.Equal(t, http.StatusRequestEntityTooLarge, err.HTTPStatus())
	assert.Equal(t, ErrInternalServer, ExtractCode(errors.New("plain")))
	assert.Equal(t, "plain", GetDetails(errors.New("plain")))
}
