package errors

import "fmt"

var (
	ErrWorkerPanic       = fmt.Errorf("worker panic")
	ErrEmptyMessageField = fmt.Errorf("sender, recipient and body must not be empty")
	ErrUserNotFound      = fmt.Errorf("user not found")
	ErrMissingIdentity   = fmt.Errorf("identity is required")
	ErrInvalidToken      = fmt.Errorf("invalid token")
)
