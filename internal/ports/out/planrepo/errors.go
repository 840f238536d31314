package planrepo

import "errors"

var (
	ErrNotFound        = errors.New("plan not found")
	ErrAlreadyExists   = errors.New("plan already exists")
	ErrVersionConflict = errors.New("plan version conflict")
)
