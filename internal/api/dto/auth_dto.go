package dto

import "time"

// LoginRequest payload for admin and voter login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// VoterLoginResponse tells the client whether to show the ballot or the receipt.
type VoterLoginResponse struct {
	Voter AccountResponse `json:"voter"`
	Auth  AuthResponse    `json:"auth"`
}
