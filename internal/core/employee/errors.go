package employee

import "errors"

var (
	ErrInvalidID             = errors.New("employee: invalid id")
	ErrInvalidFullName       = errors.New("employee: invalid full name")
	ErrInvalidEmail          = errors.New("employee: invalid email")
	ErrInvalidBaseRate       = errors.New("employee: invalid base rate")
	ErrInvalidInput          = errors.New("employee: invalid input")
	ErrEmployeeNotFound      = errors.New("employee: not found")
	ErrFullNameAlreadyExists = errors.New("employee: full name already exists")
)
