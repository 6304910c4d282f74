package domain

import "time"

// User represents a known account. Records are fixed at process start.
type User struct {
	ID       int64
	Username string
	Password string
}

// Credentials are supplied by a caller at login and never stored.
type Credentials struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// TokenClaims is the identity carried inside a signed token.
type TokenClaims struct {
	Subject   int64
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

// SeedUsers returns the built-in account list.
func SeedUsers() []User {
	return []User{
		{ID: 1, Username: "alice", Password: "123456"},
		{ID: 2, Username: "bob", Password: "password"},
	}
}
