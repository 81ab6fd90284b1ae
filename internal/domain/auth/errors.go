package auth

import "errors"

var (
	ErrInvalidToken          = errors.New("invalid token")
	ErrTokenExpired          = errors.New("token expired")
	ErrManagerAccessRequired = errors.New("manager or owner access required")
)
