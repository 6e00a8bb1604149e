package auth

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("username or email already registered")
	ErrFieldsRequired     = errors.New("required fields are missing")
	ErrAvatarRequired     = errors.New("avatar is required")

	// Session rotation failures, from least to most specific check.
	ErrMissingRefreshToken = errors.New("refresh token missing")
	ErrInvalidRefreshToken = errors.New("refresh token invalid")
	ErrStaleRefreshToken   = errors.New("refresh token superseded")
)
