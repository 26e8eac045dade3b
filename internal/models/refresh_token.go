package models

import "time"

// RefreshToken is a persisted single-use credential bound to the access token
// it was issued alongside via JwtID. Rows are never deleted: redemption flips
// IsUsed, administrative revocation flips IsRevoked.
type RefreshToken struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Token       string    `json:"token"`
	JwtID       string    `json:"jwt_id"`
	IsUsed      bool      `json:"is_used"`
	IsRevoked   bool      `json:"is_revoked"`
	AddedDate   time.Time `json:"added_date"`
	ExpiredDate time.Time `json:"expired_date"`
}
