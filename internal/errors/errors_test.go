package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		err    *Error
		status int
	}{
		{ValidationError("bad"), http.StatusBadRequest},
		{NotFoundError("missing"), http.StatusNotFound},
		{ConflictError("again"), http.StatusConflict},
		{RateLimitedError("slow down"), http.StatusTooManyRequests},
		{InternalError("boom", nil), http.StatusInternalServerError},
		{ExternalError("upstream", nil), http.StatusBadGateway},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.HTTPStatus(), "type %s", tt.err.Type)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := InternalError("wrapper", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "root cause")
}

func TestWithFieldChainable(t *testing.T) {
	err := ValidationError("bad mood").
		WithField("mood", "melancholic").
		WithField("session_id", "abc")

	assert.Equal(t, "melancholic", err.Context["mood"])
	assert.Equal(t, "abc", err.Context["session_id"])
}

func TestAsStructuredError(t *testing.T) {
	structured := NotFoundError("gone")
	assert.Same(t, structured, AsStructuredError(structured))

	plain := errors.New("plain")
	wrapped := AsStructuredError(plain)
	require.NotNil(t, wrapped)
	assert.Equal(t, TypeInternal, wrapped.Type)
	assert.ErrorIs(t, wrapped, plain)

	assert.Nil(t, AsStructuredError(nil))
}

func TestToResponseOmitsEmptyContext(t *testing.T) {
	resp := ValidationError("bad").ToResponse()
	assert.Equal(t, "bad", resp.Error)
	assert.Equal(t, TypeValidation, resp.Type)
}
