package models

import "time"

// User is identified only by a one-way hash of the username.
type User struct {
	ID           int64     `json:"id"`
	IdentityHash string    `json:"username_hash"`
	CreatedAt    time.Time `json:"created_at"`
}
