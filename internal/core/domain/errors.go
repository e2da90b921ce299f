package domain

import "errors"

// Common domain errors
var (
	ErrInvalidCredentials = errors.New("invalid account or password")
	ErrExpired            = errors.New("credential outside its validity window")
	ErrInvalidCriteria    = errors.New("invalid recommendation criteria")
	ErrNotFound           = errors.New("policy not found")
	ErrInvalidRecord      = errors.New("invalid policy record")
	ErrPersistence        = errors.New("failed to persist policy data")
)

// Token errors
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)
