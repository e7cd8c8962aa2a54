package model

import "time"

// TokenKeyLength is the length of the hex-encoded token key.
const TokenKeyLength = 40

// Token is an opaque bearer credential bound to exactly one user. It carries
// no expiry and stays valid until revoked.
type Token struct {
	Key       string    `json:"-" db:"key"`
	UserID    int64     `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
