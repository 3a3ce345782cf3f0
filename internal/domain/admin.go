package domain

import "time"

// Admin manages candidates and accounts.
type Admin struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
