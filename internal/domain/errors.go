package domain

import "errors"

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrEntryNotFound       = errors.New("entry not found")
	ErrInstallmentNotFound = errors.New("installment purchase not found")
	ErrGoalNotFound        = errors.New("savings goal not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name exceeds maximum length")
	ErrTagTooLong          = errors.New("tag exceeds maximum length")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidCategory     = errors.New("invalid category")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidMethod       = errors.New("invalid payment method")
	ErrInvalidMonth        = errors.New("invalid month, expected YYYY-MM")
	ErrInvalidYear         = errors.New("invalid year, expected YYYY")
	ErrInvalidInstallments = errors.New("installment count must be at least 1")
)

// Validation constants
const (
	MaxEntryNameLength = 255
	MaxTagLength       = 255
)
