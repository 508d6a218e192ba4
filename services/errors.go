package services

import "errors"

// Failure conditions the handlers translate into distinct HTTP statuses.
// Callers should test with errors.Is since services wrap these with context.
var (
	ErrInvalidQuestion  = errors.New("question failed validation")
	ErrQuestionNotFound = errors.New("question not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionCompleted = errors.New("session already completed")
	ErrQuotaExceeded    = errors.New("daily free session limit reached")
	ErrUserNotFound     = errors.New("user not found")
)
