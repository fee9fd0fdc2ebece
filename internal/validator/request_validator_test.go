package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending shipped"`
}

func TestRequestValidator_Validate(t *testing.T) {
	v := NewRequestValidator()

	tests := []struct {
		name    string
		in      any
		wantMsg string
	}{
		{name: "ok", in: &loginRequest{Email: "a@example.com", Password: "longenough"}},
		{name: "missing email", in: &loginRequest{Password: "longenough"}, wantMsg: "email is required"},
		{name: "bad email", in: &loginRequest{Email: "nope", Password: "longenough"}, wantMsg: "Invalid email format"},
		{name: "short password", in: &loginRequest{Email: "a@example.com", Password: "short"}, wantMsg: "password must be at least 8"},
		{name: "oneof", in: &statusRequest{Status: "lost"}, wantMsg: "status must be one of: pending shipped"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.in)
			if tt.wantMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}
