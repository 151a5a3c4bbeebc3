package goerror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/shandysiswandi/gocrm/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fieldErr []goerror.FieldError

func (f fieldErr) Error() string                     { return "fields" }
func (f fieldErr) FieldErrors() []goerror.FieldError { return f }

func asError(t *testing.T, err error) *goerror.Error {
	t.Helper()

	var ge *goerror.Error
	require.ErrorAs(t, err, &ge)
	return ge
}

func TestNewFieldViolations(t *testing.T) {
	t.Parallel()

	ge := asError(t, goerror.NewFieldViolations(
		goerror.FieldError{Field: "AccountName", Message: "This field is required."},
		goerror.FieldError{Field: "email", Message: "Please enter a valid email address."},
	))

	assert.Equal(t, "Validation failed", ge.Msg())
	assert.Equal(t, goerror.TypeValidation, ge.Type())
	assert.Equal(t, http.StatusBadRequest, ge.StatusCode())
	require.Len(t, ge.Fields(), 2)
	assert.Equal(t, "AccountName", ge.Fields()[0].Field)
	assert.Equal(t, "email", ge.Fields()[1].Field)
	assert.Empty(t, ge.Detail())
}

func TestNewInvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		kv         []string
		wantMsg    string
		wantFields []goerror.FieldError
		wantDetail string
	}{
		{
			name:       "field bearing error",
			err:        fieldErr{{Field: "contact_phone", Message: "Phone number is too short"}},
			wantMsg:    "Validation failed",
			wantFields: []goerror.FieldError{{Field: "contact_phone", Message: "Phone number is too short"}},
		},
		{
			name:       "wrapped field bearing error",
			err:        fmt.Errorf("decode: %w", fieldErr{{Field: "kind", Message: "bad"}}),
			wantMsg:    "Validation failed",
			wantFields: []goerror.FieldError{{Field: "kind", Message: "bad"}},
		},
		{
			name:       "plain error",
			err:        errors.New("unsupported value type bool"),
			wantMsg:    "Validation error",
			wantDetail: "unsupported value type bool",
		},
		{
			name:       "key value pairs keep order",
			kv:         []string{"state_id", "Unknown state", "account_type", "Unknown account type"},
			wantMsg:    "Validation failed",
			wantFields: []goerror.FieldError{{Field: "state_id", Message: "Unknown state"}, {Field: "account_type", Message: "Unknown account type"}},
		},
		{
			name:       "odd key value pairs",
			kv:         []string{"state_id"},
			wantMsg:    "Validation error",
			wantDetail: "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ge := asError(t, goerror.NewInvalidInput(tt.err, tt.kv...))
			assert.Equal(t, tt.wantMsg, ge.Msg())
			assert.Equal(t, tt.wantFields, ge.Fields())
			assert.Equal(t, tt.wantDetail, ge.Detail())
			assert.Equal(t, http.StatusBadRequest, ge.StatusCode())
		})
	}
}

func TestNewInvalidFormat(t *testing.T) {
	t.Parallel()

	ge := asError(t, goerror.NewInvalidFormat("unexpected EOF"))
	assert.Equal(t, "Validation error", ge.Msg())
	assert.Equal(t, "unexpected EOF", ge.Detail())
	assert.Equal(t, goerror.CodeInvalidFormat, ge.Code())

	ge = asError(t, goerror.NewInvalidFormat())
	assert.Equal(t, "Invalid request body", ge.Detail())
}

func TestError_StatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code goerror.Code
		want int
	}{
		{code: goerror.CodeNotFound, want: http.StatusNotFound},
		{code: goerror.CodeConflict, want: http.StatusConflict},
		{code: goerror.CodeUnauthorized, want: http.StatusUnauthorized},
		{code: goerror.CodeForbidden, want: http.StatusForbidden},
		{code: goerror.CodeTooManyRequest, want: http.StatusTooManyRequests},
		{code: goerror.CodeTimeout, want: http.StatusRequestTimeout},
		{code: goerror.CodeInternal, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, asError(t, goerror.NewBusiness("x", tt.code)).StatusCode())
		})
	}
}

func TestNewServer(t *testing.T) {
	t.Parallel()

	cause := errors.New("db down")
	err := goerror.NewServer(cause)

	require.ErrorIs(t, err, cause)
	ge := asError(t, err)
	assert.Equal(t, "Internal server error", ge.Msg())
	assert.Equal(t, goerror.TypeServer, ge.Type())
	assert.Contains(t, ge.String(), "ERROR_TYPE_SERVER")
}
