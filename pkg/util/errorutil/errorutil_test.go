package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorKeepsClassifiedErrors(t *testing.T) {
	wrapped := fmt.Errorf("login: %w", NewEmailNotVerified())

	de := ToDomainError(wrapped)
	require.NotNil(t, de)
	assert.Equal(t, CodeEmailNotVerified, de.Code)
	assert.Equal(t, http.StatusUnauthorized, de.HTTPStatus)
}

func TestToDomainErrorHidesUnknownErrors(t *testing.T) {
	cause := errors.New("mongo: connection refused")

	de := ToDomainError(cause)
	require.NotNil(t, de)
	assert.Equal(t, CodeInternal, de.Code)
	assert.Equal(t, "internal server error", de.Message)
	assert.ErrorIs(t, de, cause)
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}

func TestStatusesForTaxonomy(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
	}{
		CodeValidation:          {NewValidationError("bad", nil), http.StatusBadRequest},
		CodeDuplicateEmail:      {NewDuplicateEmail(), http.StatusBadRequest},
		CodeDuplicateNationalID: {NewDuplicateNationalID(), http.StatusBadRequest},
		CodeNotFound:            {NewNotFound("account", nil), http.StatusNotFound},
		CodeInvalidCode:         {NewInvalidCode(), http.StatusBadRequest},
		CodeAlreadyVerified:     {NewAlreadyVerified("done"), http.StatusBadRequest},
		CodeEmailNotVerified:    {NewEmailNotVerified(), http.StatusUnauthorized},
		CodeInvalidCredentials:  {NewInvalidCredentials(), http.StatusUnauthorized},
		CodeForbidden:           {NewForbidden("no"), http.StatusForbidden},
	}
	for code, tc := range cases {
		t.Run(code, func(t *testing.T) {
			de := ToDomainError(tc.err)
			assert.Equal(t, code, de.Code)
			assert.Equal(t, tc.status, de.HTTPStatus)
			assert.True(t, HasCode(tc.err, code))
		})
	}
}

func TestHasCodeOnPlainError(t *testing.T) {
	assert.False(t, HasCode(errors.New("boom"), CodeInternal))
}
