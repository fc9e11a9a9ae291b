package domain

import "errors"

// Domain errors
var (
	ErrInvalidToken = errors.New("invalid token")
)
