package repository

import "errors"

var (
	// ErrCorruptCollection is returned when the stored collection cannot be decoded
	ErrCorruptCollection = errors.New("corrupt project collection")
)
