package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/authkeeper/internal/common"
)

// TokenCodec signs and verifies compact bearer tokens (JWT, HS256). Claims
// carry the subject user ID plus issued-at and expiry timestamps at seconds
// resolution. The codec holds the process-wide secret by reference and never
// mutates or logs it.
type TokenCodec struct {
	secret   []byte
	validity time.Duration
}

func NewTokenCodec(secret []byte, validity time.Duration) *TokenCodec {
	return &TokenCodec{secret: secret, validity: validity}
}

// Validity returns the configured token lifetime.
func (c *TokenCodec) Validity() time.Duration {
	return c.validity
}

// Issue creates a signed token for the given user ID, valid from now for the
// configured duration.
func (c *TokenCodec) Issue(userID string) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.validity)),
	})

	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}

	return tokenString, nil
}

// Verify parses tokenString, checks the signature and expiry, and returns the
// subject user ID. Expired-but-authentic tokens yield common.ErrTokenExpired;
// everything else (malformed, wrong key, tampered, wrong algorithm) yields
// common.ErrInvalidToken. The signature is checked before any claim, so the
// two failure kinds are not distinguishable by which check runs.
func (c *TokenCodec) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
