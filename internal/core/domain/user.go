package domain

import "time"

// User is a registered account as persisted by the user store.
// PasswordHash is part of the persisted record; HTTP responses use their own
// DTOs so the hash only leaves the process through the user listing.
type User struct {
	ID           int64     `json:"id" bson:"_id"`
	Username     string    `json:"username" bson:"username"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"passwordHash" bson:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
}

// Identity is the caller identity carried by a verified token.
type Identity struct {
	UserID   int64
	Username string
	Email    string
}
