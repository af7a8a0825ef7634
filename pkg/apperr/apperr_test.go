package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsCarryStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, BadRequest("x").Status)
	assert.Equal(t, http.StatusUnauthorized, Unauthorized("x").Status)
	assert.Equal(t, http.StatusForbidden, Forbidden("x").Status)
	assert.Equal(t, http.StatusNotFound, NotFound("x").Status)
	assert.Equal(t, http.StatusConflict, Conflict("x").Status)
	assert.Equal(t, http.StatusInternalServerError, Internal(errors.New("x")).Status)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusOf(NotFound("Meal not found")))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("driver exploded")))

	wrapped := fmt.Errorf("handler: %w", Forbidden("nope"))
	assert.Equal(t, http.StatusForbidden, StatusOf(wrapped))
}

func TestMessageOfNeverLeaksInternals(t *testing.T) {
	assert.Equal(t, "Meal not found", MessageOf(NotFound("Meal not found")))
	assert.Equal(t, "Internal Server Error", MessageOf(errors.New("dsn=secret://user:pass")))
	assert.Equal(t, "Internal Server Error", MessageOf(Internal(errors.New("dsn=secret"))))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("disk gone")
	err := Wrap(http.StatusInternalServerError, "storage failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "storage failed: disk gone", err.Error())
}
