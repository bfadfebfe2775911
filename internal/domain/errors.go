package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the service layer wraps one of these so
// the transport can pick a status code with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrGeneration   = errors.New("generation failed")
)

// Credential errors
var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid token", ErrUnauthorized)
	ErrAccountDisabled    = fmt.Errorf("%w: account is not active", ErrUnauthorized)
	ErrPasswordMismatch   = fmt.Errorf("%w: passwords do not match", ErrValidation)
	ErrEmailTaken         = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrUsernameTaken      = fmt.Errorf("%w: username already taken", ErrConflict)
	ErrUsernameGeneration = fmt.Errorf("%w: could not generate a free username", ErrGeneration)
)

// Profile errors
var (
	ErrUserNotFound        = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrInvalidGender       = fmt.Errorf("%w: invalid gender", ErrValidation)
	ErrInvalidInterestedIn = fmt.Errorf("%w: invalid interestedIn", ErrValidation)
	ErrInvalidDateOfBirth  = fmt.Errorf("%w: dateOfBirth must be YYYY-MM-DD", ErrValidation)
)

// Swipe and match errors
var (
	ErrInvalidDirection  = fmt.Errorf("%w: direction must be left or right", ErrValidation)
	ErrSelfSwipe         = fmt.Errorf("%w: cannot swipe on yourself", ErrValidation)
	ErrSwipeLimitReached = fmt.Errorf("%w: swipe limit reached", ErrValidation)
	ErrSpinLimitReached  = fmt.Errorf("%w: spin limit reached", ErrValidation)
	ErrNotMatched        = fmt.Errorf("%w: user is not one of your matches", ErrValidation)
)

// Chat errors
var (
	ErrChatNotFound   = fmt.Errorf("%w: chat not found", ErrNotFound)
	ErrInvalidTarget  = fmt.Errorf("%w: invalid target user", ErrValidation)
	ErrEmptyMessage   = fmt.Errorf("%w: message content is required", ErrValidation)
	ErrMessageTooLong = fmt.Errorf("%w: message content is too long", ErrValidation)
)

// Media errors
var (
	ErrInvalidImage  = fmt.Errorf("%w: unsupported image type", ErrValidation)
	ErrImageTooLarge = fmt.Errorf("%w: image is too large", ErrValidation)
)
