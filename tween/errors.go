package tween

import "errors"

var (
	// ErrInvalidLife is returned by NewClip for a zero or negative life.
	ErrInvalidLife = errors.New("tween: clip life must be positive")
	// ErrNegativeDelay is returned by NewClip for a negative delay.
	ErrNegativeDelay = errors.New("tween: clip delay must not be negative")
)
