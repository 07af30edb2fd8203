package handler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatValidationError_UsesJSONNames(t *testing.T) {
	req := struct {
		DisplayName string `json:"displayName,omitempty" validate:"max=3"`
		Material    string `json:"material" validate:"required,material"`
		Internal    string `validate:"required"`
	}{DisplayName: "toolong", Material: "Madera"}

	fields := FormatValidationError(GetValidator().ValidateStruct(req))

	assert.Equal(t, map[string]string{
		"displayName": "Must be at most 3",
		"material":    "Unknown material",
		"Internal":    "This field is required",
	}, fields)
}

func TestFormatValidationError_NonValidationError(t *testing.T) {
	assert.Nil(t, FormatValidationError(nil))
	assert.Equal(t, map[string]string{"error": "Invalid request format"}, FormatValidationError(errors.New("boom")))
}

func TestValidateMaterial_CaseInsensitive(t *testing.T) {
	req := struct {
		Material string `json:"material" validate:"material"`
	}{Material: "VIDRIO"}

	assert.NoError(t, GetValidator().ValidateStruct(req))
}
