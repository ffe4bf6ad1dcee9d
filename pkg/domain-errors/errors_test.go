package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	cause := errors.New("connection refused")

	t.Run("direct code", func(t *testing.T) {
		err := New(CodeBadRequest, "bad")
		assert.True(t, HasCode(err, CodeBadRequest))
		assert.False(t, HasCode(err, CodeInternal))
	})

	t.Run("wrapped by fmt", func(t *testing.T) {
		err := fmt.Errorf("load: %w", Wrap(cause, CodeInternal, "failed"))
		assert.True(t, HasCode(err, CodeInternal))
		assert.ErrorIs(t, err, cause)
	})

	t.Run("inner code of nested domain errors", func(t *testing.T) {
		inner := New(CodeTimeout, "deadline")
		outer := Wrap(inner, CodeInternal, "apply edits")
		assert.True(t, HasCode(outer, CodeTimeout))
		assert.Equal(t, CodeInternal, CodeOf(outer))
	})

	t.Run("plain error has no code", func(t *testing.T) {
		assert.False(t, HasCode(cause, CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(cause))
		assert.Equal(t, "internal error", MessageOf(cause))
	})

	t.Run("wrap nil is nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "x"))
	})
}

func TestHTTPStatus(t *testing.T) {
	tests := map[Code]int{
		CodeBadRequest:   http.StatusBadRequest,
		CodeInvalidInput: http.StatusBadRequest,
		CodeUnauthorized: http.StatusUnauthorized,
		CodeForbidden:    http.StatusForbidden,
		CodeNotFound:     http.StatusNotFound,
		CodeConflict:     http.StatusConflict,
		CodeTimeout:      http.StatusGatewayTimeout,
		CodeInternal:     http.StatusInternalServerError,
		Code("unknown"):  http.StatusInternalServerError,
	}
	for code, want := range tests {
		assert.Equal(t, want, HTTPStatus(code), "code %s", code)
	}
}
