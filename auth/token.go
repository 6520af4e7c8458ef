package auth

import (
	"fmt"
	"time"

	"dm-relay/errors"

	"github.com/golang-jwt/jwt/v5"
)

// jwtKey is the secret used to sign tokens, injected from configuration at
// boot (AUTH_SECRET).
var jwtKey []byte

// SetSecret installs the signing secret. Must be called once before any
// token is generated or validated.
func SetSecret(secret string) {
	jwtKey = []byte(secret)
}

// Claims defines the structure of the data stored inside the JWT.
type Claims struct {
	Identity string `json:"identity"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT binding a session to an identity.
func GenerateToken(identity string, ttl time.Duration) (string, error) {
	claims := &Claims{
		Identity: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "dm-relay",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// ValidateToken parses and validates the signature and expiration of a JWT
// string, returning the embedded identity claims.
func ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.ErrInvalidToken
}
