package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleForm struct {
	Title    string `form:"title" validate:"required,max=10"`
	Email    string `form:"email" validate:"omitempty,email"`
	Category string `form:"category" validate:"required,category"`
	Username string `form:"username" validate:"omitempty,username"`
}

func TestGetValidator_Singleton(t *testing.T) {
	assert.Same(t, GetValidator(), GetValidator())
}

func TestValidateStruct_Valid(t *testing.T) {
	err := ValidateStruct(&sampleForm{Title: "ok", Email: "a@b.com", Category: "OTHER", Username: "joe.doe+1"})
	assert.NoError(t, err)
}

func TestValidateStruct_Errors(t *testing.T) {
	err := ValidateStruct(&sampleForm{
		Title:    strings.Repeat("x", 11),
		Email:    "nope",
		Category: "HORROR",
		Username: "bad name",
	})
	require.Error(t, err)

	var verr *RequestValidationError
	require.True(t, errors.As(err, &verr))

	msgs := verr.Messages()
	assert.Contains(t, msgs["title"], "10")
	assert.Contains(t, msgs, "email")
	assert.Equal(t, "Escolha uma categoria válida.", msgs["category"])
	assert.Contains(t, msgs, "username")
	assert.Len(t, verr.Fields, 4)
}

func TestValidateStruct_Required(t *testing.T) {
	err := ValidateStruct(&sampleForm{})

	var verr *RequestValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Este campo é obrigatório.", verr.Messages()["title"])
}

func TestNewError(t *testing.T) {
	err := NewError("email", "taken")
	assert.Equal(t, "taken", err.Error())
	assert.Equal(t, map[string]string{"email": "taken"}, err.Messages())
}
