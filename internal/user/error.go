package user

import (
	"errors"

	"ordering-be/internal/apperr"
)

var (
	ErrEmailExists = errors.New("email already exists")
	ErrInvalidUser = errors.New("invalid user")
)

func errUserNotFound(field string, value any) error {
	return apperr.NotFound("User", field, value)
}

func errEmailExists(email string) error {
	return apperr.BusinessWrap(ErrEmailExists, "User with email %s already exists", email)
}
