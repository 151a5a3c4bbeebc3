package validator_test

import (
	"testing"

	"github.com/shandysiswandi/gocrm/internal/pkg/goerror"
	"github.com/shandysiswandi/gocrm/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type activityInput struct {
	Kind         string `validate:"required,oneof_ci=call email meeting note"`
	Subject      string `validate:"required,max=200"`
	ContactEmail string `validate:"omitempty,crm_email"`
	ContactPhone string `validate:"omitempty,crm_phone"`
}

func newValidator(t *testing.T) *validator.V10Validator {
	t.Helper()

	v, err := validator.NewV10Validator()
	require.NoError(t, err)
	return v
}

func TestV10Validator_Validate(t *testing.T) {
	t.Parallel()

	v := newValidator(t)

	tests := []struct {
		name string
		in   activityInput
		want []goerror.FieldError
	}{
		{
			name: "valid",
			in:   activityInput{Kind: "Call", Subject: "Intro", ContactEmail: "a@b.co", ContactPhone: "+1 (555) 123-4567"},
		},
		{
			name: "optional contacts omitted",
			in:   activityInput{Kind: "note", Subject: "Memo"},
		},
		{
			name: "every field fails in declaration order",
			in:   activityInput{Kind: "fax", ContactEmail: "bad", ContactPhone: "12"},
			want: []goerror.FieldError{
				{Field: "kind", Message: "kind must be one of [call email meeting note]"},
				{Field: "subject", Message: "Subject is a required field"},
				{Field: "contact_email", Message: "Please enter a valid email address."},
				{Field: "contact_phone", Message: "Phone number is too short"},
			},
		},
		{
			name: "phone characters",
			in:   activityInput{Kind: "call", Subject: "x", ContactPhone: "555-CALL"},
			want: []goerror.FieldError{
				{Field: "contact_phone", Message: "Phone can contain only numbers and + - ( ) spaces"},
			},
		},
		{
			name: "phone too long",
			in:   activityInput{Kind: "call", Subject: "x", ContactPhone: "12345678901234567"},
			want: []goerror.FieldError{
				{Field: "contact_phone", Message: "Phone number is too long"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := v.Validate(tt.in)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}

			var ve validator.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.want, ve.FieldErrors())
		})
	}
}

func TestV10Validator_FeedsGoerror(t *testing.T) {
	t.Parallel()

	err := newValidator(t).Validate(activityInput{Kind: "call"})
	require.Error(t, err)

	var ge *goerror.Error
	require.ErrorAs(t, goerror.NewInvalidInput(err), &ge)
	assert.Equal(t, "Validation failed", ge.Msg())
	assert.Equal(t, []goerror.FieldError{{Field: "subject", Message: "Subject is a required field"}}, ge.Fields())
}

func TestV10Validator_NotAStruct(t *testing.T) {
	t.Parallel()

	err := newValidator(t).Validate("plain")
	require.Error(t, err)

	var ve validator.ValidationError
	assert.NotErrorAs(t, err, &ve)
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "validation error", validator.ValidationError(nil).Error())
	assert.Equal(t, "a: x; b: y", validator.ValidationError{{Field: "a", Message: "x"}, {Field: "b", Message: "y"}}.Error())
}
