package domain

import "time"

// Claims is the decoded payload of a bearer token.
type Claims struct {
	UserID    int64
	Username  string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Identity returns the caller identity embedded in the claims.
func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Username: c.Username, Email: c.Email}
}
