package models

import "errors"

var (
	// ErrKeyNotFound is returned by storage backends when a key is absent or expired.
	ErrKeyNotFound = errors.New("key not found")

	// ErrUsernameTaken is returned when a username is already claimed by a different address.
	ErrUsernameTaken = errors.New("username is already taken")

	// ErrNotFound is returned by repositories when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidRecord is returned when a stored payload fails validation.
	ErrInvalidRecord = errors.New("invalid stored record")
)
