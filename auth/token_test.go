package auth

import (
	"testing"
	"time"

	"dm-relay/errors"

	"github.com/stretchr/testify/require"
)

func TestToken_Round_Trip(t *testing.T) {
	req := require.New(t)
	SetSecret("unit-test-secret")

	// Given a freshly issued token
	token, err := GenerateToken("alice", time.Hour)
	req.NoError(err)
	req.NotEmpty(token)

	// When it is validated
	claims, err := ValidateToken(token)

	// Then the identity is recovered
	req.NoError(err)
	req.Equal("alice", claims.Identity)
}

func TestToken_Rejects_Garbage(t *testing.T) {
	req := require.New(t)
	SetSecret("unit-test-secret")

	_, err := ValidateToken("not.a.token")
	req.ErrorIs(err, errors.ErrInvalidToken)
}

func TestToken_Rejects_Wrong_Secret(t *testing.T) {
	req := require.New(t)

	SetSecret("first-secret")
	token, err := GenerateToken("alice", time.Hour)
	req.NoError(err)

	// When the signing secret rotates
	SetSecret("second-secret")

	_, err = ValidateToken(token)
	req.ErrorIs(err, errors.ErrInvalidToken)
}

func TestToken_Rejects_Expired(t *testing.T) {
	req := require.New(t)
	SetSecret("unit-test-secret")

	token, err := GenerateToken("alice", -time.Minute)
	req.NoError(err)

	_, err = ValidateToken(token)
	req.ErrorIs(err, errors.ErrInvalidToken)
}
