package bind_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/forkful/pkg/bind"
)

type signUpBody struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestJSONValid(t *testing.T) {
	r := httptest.NewRequest("POST", "/auth/signup",
		strings.NewReader(`{"name":"Jane","email":"jane@example.com","password":"secret123"}`))

	var body signUpBody
	errs, err := bind.JSON(r, &body)

	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, "Jane", body.Name)
	assert.Equal(t, "jane@example.com", body.Email)
}

func TestJSONValidationErrors(t *testing.T) {
	r := httptest.NewRequest("POST", "/auth/signup",
		strings.NewReader(`{"name":"J","email":"nope","password":"short"}`))

	var body signUpBody
	errs, err := bind.JSON(r, &body)

	require.NoError(t, err)
	assert.Len(t, errs, 3)
	assert.Contains(t, errs["email"], "email")
}

func TestJSONMalformed(t *testing.T) {
	r := httptest.NewRequest("POST", "/auth/signup", strings.NewReader(`{"name":`))

	var body signUpBody
	errs, err := bind.JSON(r, &body)

	require.Error(t, err)
	assert.Nil(t, errs)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestJSONBodyTooLarge(t *testing.T) {
	t.Setenv("MAX_BODY_BYTES", "16")
	r := httptest.NewRequest("POST", "/auth/signup",
		strings.NewReader(`{"name":"Jane","email":"jane@example.com","password":"secret123"}`))

	var body signUpBody
	_, err := bind.JSON(r, &body)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "request body too large")
}
