package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int64
		wantErr bool
	}{
		{"valid id", "42", 42, false},
		{"non-numeric", "abc", 0, true},
		{"negative", "-5", 0, true},
		{"zero", "0", 0, true},
		{"empty", "", 0, true},
		{"float", "3.5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validateID(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, validateAmount(8000))
	assert.NoError(t, validateAmount(0.01))
	assert.Error(t, validateAmount(0))
	assert.Error(t, validateAmount(-100))
	assert.Error(t, validateAmount(200_000_000))
}

func TestGenerateJWTCarriesRoleClaim(t *testing.T) {
	token, err := generateJWT(7, "agent")
	require.NoError(t, err)
	require.NotEmpty(t, token)
}
