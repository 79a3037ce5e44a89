package global

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bearh/internal/common"
)

type sampleInput struct {
	Name    string `form:"name" validate:"required,no_xss"`
	Email   string `json:"email" validate:"omitempty,email"`
	Time    string `form:"executionTime" validate:"omitempty,hhmm"`
	User    string `form:"user" validate:"omitempty,objectid"`
	Quality string `form:"type" validate:"omitempty,oneof=Positive Negative"`
}

func TestValidateStruct_FieldMessages(t *testing.T) {
	InitValidator()

	err := ValidateStruct(sampleInput{
		Name:    "<script>alert(1)</script>",
		Email:   "pas-un-email",
		Time:    "25:00",
		User:    "123",
		Quality: "Neutral",
	})
	require.Error(t, err)

	var verr *common.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Contenu non autorisé", verr.Fields["name"])
	assert.Equal(t, "Adresse email invalide", verr.Fields["email"])
	assert.Equal(t, "Format HH:MM attendu", verr.Fields["executionTime"])
	assert.Equal(t, "Identifiant invalide", verr.Fields["user"])
	assert.Contains(t, verr.Fields["type"], "Positive Negative")
}

func TestValidateStruct_OK(t *testing.T) {
	InitValidator()
	err := ValidateStruct(sampleInput{Name: "Marie", Time: "18:00", User: "64b7f0c2a1b2c3d4e5f60718"})
	assert.NoError(t, err)
}

func TestValidateStruct_Required(t *testing.T) {
	InitValidator()
	err := ValidateStruct(sampleInput{})
	var verr *common.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Ce champ est obligatoire", verr.Fields["name"])
}
