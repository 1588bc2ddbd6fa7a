package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	t.Run("Should keep domain errors as they are", func(t *testing.T) {
		err := NewForbidden("request is not pending")
		de := ToDomainError(fmt.Errorf("wrapped: %w", err))
		assert.Equal(t, CodeForbidden, de.Code)
		assert.Equal(t, http.StatusForbidden, de.HTTPStatus)
	})

	t.Run("Should map no rows to not found", func(t *testing.T) {
		de := ToDomainError(fmt.Errorf("get: %w", pgx.ErrNoRows))
		assert.Equal(t, CodeNotFound, de.Code)
		assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
		assert.Equal(t, "resource not found", de.Message)
	})

	t.Run("Should map unique violations to conflict", func(t *testing.T) {
		de := ToDomainError(&pgconn.PgError{Code: "23505"})
		assert.Equal(t, CodeConflict, de.Code)
		assert.Equal(t, http.StatusConflict, de.HTTPStatus)
	})

	t.Run("Should hide unexpected errors behind an opaque message", func(t *testing.T) {
		de := ToDomainError(errors.New("connection reset by peer"))
		assert.Equal(t, CodeInternal, de.Code)
		assert.Equal(t, "internal server error", de.Message)
		assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	})

	t.Run("Should return nil for nil", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
	})
}

func TestHasCode(t *testing.T) {
	assert.True(t, HasCode(NewValidationError("bad", nil), CodeValidation))
	assert.False(t, HasCode(NewValidationError("bad", nil), CodeNotFound))
	assert.False(t, HasCode(errors.New("plain"), CodeValidation))
}
