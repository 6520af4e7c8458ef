package domain

import "time"

// User is a registered identity. Identity is the sole routing key;
// DisplayName and Email are informational.
type User struct {
	Identity    string
	Email       string
	DisplayName string
	CreatedAt   time.Time
}
