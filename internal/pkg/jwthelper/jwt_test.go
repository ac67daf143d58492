package jwthelper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("a-very-long-signing-key")

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(testKey, 42, "curl/8.0", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(testKey, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "curl/8.0", claims.UserAgent)
}

func TestParseToken_Invalid(t *testing.T) {
	valid, err := GenerateToken(testKey, 42, "", time.Hour)
	require.NoError(t, err)

	expired, err := GenerateToken(testKey, 42, "", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name  string
		key   []byte
		token string
	}{
		{name: "wrong key", key: []byte("another-signing-key-123"), token: valid},
		{name: "expired", key: testKey, token: expired},
		{name: "garbage", key: testKey, token: "not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.key, tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
