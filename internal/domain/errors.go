package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Account errors
	ErrMsgAccountNotFound     = "account not found"
	ErrMsgDuplicateUsername   = "username already taken"
	ErrMsgDuplicateEmail      = "email already registered"
	ErrMsgInvalidCredentials  = "invalid credentials"
	ErrMsgAccountBanned       = "account is banned"
	ErrMsgAccountNotLinked    = "account is not linked"
	ErrMsgDuplicateLinkCode   = "link code already assigned"
	ErrMsgDuplicateExternalID = "discord account already linked to another account"

	// Linking errors
	ErrMsgInvalidFormat       = "invalid link code format"
	ErrMsgCodeNotFound        = "link code not found"
	ErrMsgCodeExpired         = "link code no longer valid"
	ErrMsgAlreadyLinked       = "account already linked"
	ErrMsgGenerationExhausted = "could not generate a unique link code"

	// Database/System errors
	ErrMsgStoreUnavailable = "store unavailable"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Validation
	ErrInvalidFormat = errors.New(ErrMsgInvalidFormat)
	ErrInvalidInput  = errors.New(ErrMsgInvalidInput)

	// Conflicts
	ErrDuplicateUsername   = errors.New(ErrMsgDuplicateUsername)
	ErrDuplicateEmail      = errors.New(ErrMsgDuplicateEmail)
	ErrDuplicateLinkCode   = errors.New(ErrMsgDuplicateLinkCode)
	ErrDuplicateExternalID = errors.New(ErrMsgDuplicateExternalID)
	ErrAlreadyLinked       = errors.New(ErrMsgAlreadyLinked)
	ErrCodeNotFound        = errors.New(ErrMsgCodeNotFound)
	ErrCodeExpired         = errors.New(ErrMsgCodeExpired)

	// Account state
	ErrAccountNotFound    = errors.New(ErrMsgAccountNotFound)
	ErrInvalidCredentials = errors.New(ErrMsgInvalidCredentials)
	ErrAccountBanned      = errors.New(ErrMsgAccountBanned)
	ErrAccountNotLinked   = errors.New(ErrMsgAccountNotLinked)

	// Infrastructure
	ErrGenerationExhausted = errors.New(ErrMsgGenerationExhausted)
	ErrStoreUnavailable    = errors.New(ErrMsgStoreUnavailable)
)
