package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserHasSchedules   = errors.New("user still owns schedules")
	ErrCannotDeleteSelf   = errors.New("cannot delete own account")
	ErrDuplicateEmail     = errors.New("email already registered")
)
