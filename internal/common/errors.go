// Package common defines shared constants and sentinel errors used across
// client and server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound           = errors.New("not found")
	ErrorEmailAlreadyExists = errors.New("email already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Credential errors. The same value covers "email not found" and
	// "password mismatch" so callers cannot tell which half failed.
	ErrorInvalidCredentials = errors.New("invalid email or password")

	// Password digest errors (corrupted or foreign digest in storage).
	ErrorInvalidDigest = errors.New("invalid password digest")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
