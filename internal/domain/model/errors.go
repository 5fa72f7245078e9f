package model

import "errors"

var (
	ErrDeviceNotFound     = errors.New("device not found")
	ErrInvalidDeviceID    = errors.New("invalid device ID")
	ErrMissingActor       = errors.New("an actor is required to lock a device")
	ErrDatabaseConnection = errors.New("database connection error")
	ErrDatabaseQuery      = errors.New("database query error")
)
