package user

import "errors"

var (
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrActorRequired           = errors.New("authenticated user id is required")
)
