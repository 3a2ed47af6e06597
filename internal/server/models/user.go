// Package models defines the server-side domain types shared by services,
// repositories and the HTTP layer.
package models

import "time"

// User is an account that can receive anonymous messages.
//
// Password always holds a bcrypt hash. VerifyCode/VerifyCodeExpiry are only
// meaningful while IsVerified is false.
type User struct {
	ID                  string
	Username            string
	Email               string
	Password            string
	DOB                 time.Time
	IsVerified          bool
	VerifyCode          string
	VerifyCodeExpiry    time.Time
	IsAcceptingMessages bool
	Messages            []Message
	CreatedAt           time.Time
}

// Identity returns the minimal projection carried by session tokens.
func (u *User) Identity() *Identity {
	return &Identity{ID: u.ID, Email: u.Email, Username: u.Username}
}

// PublicUser is what /api/users exposes about other accounts.
type PublicUser struct {
	ID                  string `json:"id"`
	Username            string `json:"username"`
	IsVerified          bool   `json:"isVerified"`
	IsAcceptingMessages bool   `json:"isAcceptingMessages"`
	MessageCount        int    `json:"messageCount"`
}

// Public strips credentials, verification data and message contents.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:                  u.ID,
		Username:            u.Username,
		IsVerified:          u.IsVerified,
		IsAcceptingMessages: u.IsAcceptingMessages,
		MessageCount:        len(u.Messages),
	}
}
