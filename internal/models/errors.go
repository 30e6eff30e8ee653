package models

import "errors"

// Common errors shared by services and handlers.
var (
	ErrAuthRequired       = errors.New("authentication required")
	ErrNotFound           = errors.New("not found")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidInput       = errors.New("invalid input")
	ErrSigningOut         = errors.New("sign-out in progress")
	ErrAlreadyReviewed    = errors.New("product already reviewed")
	ErrReviewNotFound     = errors.New("review not found")
	ErrInvalidReview      = errors.New("rating must be between 1 and 5 and experience text is required")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrNotConfigured      = errors.New("backend not configured")
	ErrWriteConflict      = errors.New("too many concurrent updates, try again")
)
