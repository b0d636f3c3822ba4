package common

import "errors"

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrCorruptRecord    = errors.New("corrupt record")
	ErrStorageFailure   = errors.New("storage failure")
	ErrInvalidNamespace = errors.New("invalid namespace")
	// ErrConflict is returned when a customer folder already belongs to another user.
	ErrConflict = errors.New("conflict")
	// ErrBackupDisabled is returned when no object storage is configured.
	ErrBackupDisabled = errors.New("backup storage not configured")
)
