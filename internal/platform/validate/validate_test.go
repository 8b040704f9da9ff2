// Copyright (c) 2026 Minbar. All rights reserved.

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minbarhq/minbar/internal/platform/apperr"
	"github.com/minbarhq/minbar/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		hasError bool
	}{
		{"valid_string", "Is zakat due on savings?", false},
		{"empty_string", "", true},
		{"whitespace_only", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required("question", tt.value)

			if !tt.hasError {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
				return
			}

			ae := apperr.As(v.Err())
			require.NotNil(t, ae)
			assert.Equal(t, apperr.CodeValidation, ae.Code)
			assert.Equal(t, "question", ae.Details[0].Field)
		})
	}
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	err := (&validate.Validator{}).
		Required("username", "").
		MinLen("username", "a", 3).
		Email("email", "not-an-email").
		URL("avatar_url", "ftp://example.com/a.png").
		OneOf("role", "admin", "community", "imam", "chief-imam").
		Err()

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 5)
}

/*
TestValidator_UUID accepts v4/v7 forms in either case.
*/
func TestValidator_UUID(t *testing.T) {
	assert.True(t, validate.IsUUID("0190f3c4-8d2e-7b1a-9c3d-5e6f7a8b9c0d"))
	assert.True(t, validate.IsUUID("0190F3C4-8D2E-7B1A-9C3D-5E6F7A8B9C0D"))
	assert.False(t, validate.IsUUID("how-to-pray-tahajjud"))
}

type askInput struct {
	Category string `json:"questionCategory" validate:"required,max=50"`
	Question string `json:"question" validate:"notblank,max=5000"`
	Contact  string `json:"contact,omitempty" validate:"omitempty,email"`
}

/*
TestStruct_Tags checks tag-driven validation reports JSON field names.
*/
func TestStruct_Tags(t *testing.T) {
	require.NoError(t, validate.Struct(&askInput{Category: "fiqh", Question: "When is Laylat al-Qadr?"}))

	err := validate.Struct(&askInput{Category: "", Question: "   ", Contact: "nope"})
	ae := apperr.As(err)
	require.NotNil(t, ae)

	fields := make([]string, 0, len(ae.Details))
	for _, detail := range ae.Details {
		fields = append(fields, detail.Field)
	}
	assert.ElementsMatch(t, []string{"questionCategory", "question", "contact"}, fields)
}
