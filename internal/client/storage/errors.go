package storage

import "errors"

// Common client storage errors
var (
	// ErrTreeNotFound indicates that the tree is not in the local cache
	ErrTreeNotFound = errors.New("tree not found in local cache")

	// ErrSpeciesNotFound indicates that the species is not in the local cache
	ErrSpeciesNotFound = errors.New("species not found in local cache")

	// ErrRegistrationNotFound indicates that no pending registration exists
	ErrRegistrationNotFound = errors.New("pending registration not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
