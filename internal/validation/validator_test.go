package validation_test

import (
	"testing"

	"github.com/dom/spark/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerPayload struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Gender          string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name       string
		payload    registerPayload
		wantFields []string
		wantMsg    string
	}{
		{
			name:    "valid",
			payload: registerPayload{Email: "a@b.co", Password: "secret1", ConfirmPassword: "secret1"},
		},
		{
			name:       "missing email",
			payload:    registerPayload{Password: "secret1", ConfirmPassword: "secret1"},
			wantFields: []string{"email"},
			wantMsg:    "email is required",
		},
		{
			name:       "bad gender and short password",
			payload:    registerPayload{Email: "a@b.co", Password: "x", ConfirmPassword: "x", Gender: "Robot"},
			wantFields: []string{"password", "gender"},
		},
		{
			name:       "password mismatch",
			payload:    registerPayload{Email: "a@b.co", Password: "secret1", ConfirmPassword: "secret2"},
			wantFields: []string{"confirmPassword"},
			wantMsg:    "confirmPassword must match Password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := validation.ValidateStruct(&tt.payload)
			if len(tt.wantFields) == 0 {
				assert.Nil(t, verr)
				return
			}

			require.NotNil(t, verr)
			got := make([]string, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				got = append(got, f.Field)
			}
			assert.Equal(t, tt.wantFields, got)
			if tt.wantMsg != "" {
				assert.Contains(t, verr.Error(), tt.wantMsg)
			}
		})
	}
}
