package repository

import "errors"

// Sentinel kinds for task store errors.
var (
	ErrNotFound      = errors.New("task not found")
	ErrAlreadyExists = errors.New("task already exists")
	ErrInvalidLimit  = errors.New("invalid recent limit")
)
