// Package common contains shared constants and sentinel errors used across
// AuthKeeper components.
package common

// AuthHeaderName is the HTTP header carrying the bearer token on
// protected requests.
const AuthHeaderName = "Authorization"

// BearerPrefix is the literal scheme prefix expected in the Authorization
// header. The match is case-sensitive and includes the single space.
const BearerPrefix = "Bearer "
