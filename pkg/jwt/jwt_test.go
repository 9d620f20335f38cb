package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	secret := SecretKey("s3cret")
	token, err := GenerateToken(secret, "actor-1", "Kitchen Lead", []string{"ledger:commit"}, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "actor-1", claims.ActorID)
	assert.Equal(t, []string{"ledger:commit"}, claims.Privileges)
}

func TestValidateRejectsBadTokens(t *testing.T) {
	secret := SecretKey("s3cret")

	expired, err := GenerateToken(secret, "actor-1", "x", nil, -time.Minute)
	require.NoError(t, err)
	_, err = ValidateToken(secret, expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, err := GenerateToken(SecretKey("other"), "actor-1", "x", nil, time.Hour)
	require.NoError(t, err)
	_, err = ValidateToken(secret, other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ValidateToken(secret, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSecretKeyFallsBack(t *testing.T) {
	assert.Equal(t, []byte(DefaultSecret), SecretKey(""))
}
