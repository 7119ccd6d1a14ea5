package domain

import "time"

// User is an authenticated account. The ID is the token subject; Email is
// optional and only used for mailed notifications.
type User struct {
	ID        string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
