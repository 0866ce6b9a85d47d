package utils

import (
	"testing"

	"github.com/ktuacm/clubportal-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNumericCode(t *testing.T) {
	for _, length := range []int{4, 6, 8} {
		code, err := GenerateNumericCode(length)
		require.NoError(t, err)
		require.Len(t, code, length)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "code %q contains non-digit %q", code, r)
		}
	}

	_, err := GenerateNumericCode(0)
	assert.Error(t, err)
	_, err = GenerateNumericCode(-1)
	assert.Error(t, err)
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"deniz@ktu.edu.tr", "d***@ktu.edu.tr"},
		{"a@b.co", "a***@b.co"},
		{"long.local.part@example.com", "l***@example.com"},
		{"not-an-email", "***"},
		{"@nolocal.com", "***"},
		{"", "***"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, MaskEmail(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeIdentity(t *testing.T) {
	assert.Equal(t, "20210101", NormalizeIdentity("  20210101 "))
	assert.Equal(t, "deniz@ktu.edu.tr", NormalizeIdentity("DENIZ@KTU.edu.tr"))
	assert.Equal(t, "", NormalizeIdentity("   "))
}

func TestJWTRoundTrip(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret", ExpiresIn: 3600}}

	token, err := GenerateJWT("user-1", "admin", cfg)
	require.NoError(t, err)

	claims, err := ValidateJWT(token, cfg)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "admin", claims["role"])

	// A token signed with a different secret does not validate.
	other := &config.Config{JWT: config.JWTConfig{Secret: "other-secret", ExpiresIn: 3600}}
	_, err = ValidateJWT(token, other)
	assert.Error(t, err)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret", ExpiresIn: 3600}}
	_, err := ValidateJWT("not.a.token", cfg)
	assert.Error(t, err)
}
