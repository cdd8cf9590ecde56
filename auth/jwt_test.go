package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateJWT(42, 3)
	require.NoError(t, err)

	parsed, err := VerifyJWT(token)
	require.NoError(t, err)

	id, version, err := GetDataFromToken(parsed)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
	assert.Equal(t, 3, version)
}

func TestVerifyJWT_Rejects(t *testing.T) {
	SetSecret("test-secret")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	expiredStr, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 1}).
		SignedString([]byte("other-secret"))
	require.NoError(t, err)

	for name, tok := range map[string]string{"expired": expiredStr, "forged": forged, "garbage": "abc.def"} {
		t.Run(name, func(t *testing.T) {
			_, err := VerifyJWT(tok)
			assert.Error(t, err)
		})
	}
}
