package validation

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/psw4/psw-backend/internal/api/request"
	"github.com/psw4/psw-backend/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateISIN(t *testing.T) {
	tests := []struct {
		name    string
		isin    string
		wantErr bool
	}{
		{"swedish", "SE0000108656", false},
		{"us", "US0378331005", false},
		{"lowercase", "se0000108656", true},
		{"too short", "SE000010865", true},
		{"letter check digit", "SE000010865X", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateISIN(tt.isin)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidISIN)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNormalizeISIN(t *testing.T) {
	assert.Equal(t, "SE0000108656", NormalizeISIN("  se0000108656\n"))
}

func TestValidateUUID(t *testing.T) {
	assert.NoError(t, ValidateUUID(uuid.New().String()))
	assert.Error(t, ValidateUUID("not-a-uuid"))
}

func TestValidateLogin(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateLogin(request.LoginRequest{Username: "anna", Password: "secret"}))
	})

	t.Run("missing both", func(t *testing.T) {
		err := ValidateLogin(request.LoginRequest{Username: "  "})
		require.Error(t, err)

		var verr *Error
		require.True(t, errors.As(err, &verr))
		assert.Len(t, verr.Fields, 2)
		assert.Equal(t, "password: password is required; username: username is required", err.Error())
	})
}
