package domain

import "time"

// SubjectType differentiates admin vs voter tokens.
type SubjectType string

const (
	SubjectTypeAdmin SubjectType = "ADMIN"
	SubjectTypeVoter SubjectType = "VOTER"
)

// Token represents issued authentication token metadata.
type Token struct {
	SubjectID string
	Subject   SubjectType
	ExpiresAt time.Time
	IssuedAt  time.Time
}
