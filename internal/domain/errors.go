package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// User errors
	ErrMsgUserNotFound = "user not found"

	// Mission errors
	ErrMsgMissionNotFound         = "mission not found"
	ErrMsgMissionAlreadyCompleted = "mission already completed"

	// Recycling errors
	ErrMsgInvalidMaterial = "invalid material"

	// Classifier errors
	ErrMsgInvalidResponse = "invalid response"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrUserNotFound = errors.New(ErrMsgUserNotFound)

	ErrMissionNotFound         = errors.New(ErrMsgMissionNotFound)
	ErrMissionAlreadyCompleted = errors.New(ErrMsgMissionAlreadyCompleted)

	ErrInvalidMaterial = errors.New(ErrMsgInvalidMaterial)
	ErrInvalidResponse = errors.New(ErrMsgInvalidResponse)
	ErrInvalidInput    = errors.New(ErrMsgInvalidInput)
)
