package repository

import "errors"

var (
	// ErrNotFound indicates no record exists under the requested key.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a conditional create lost to an existing key.
	ErrAlreadyExists = errors.New("record already exists")
)
