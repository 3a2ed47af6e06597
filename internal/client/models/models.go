// Package models holds the client-side view of API payloads.
package models

import "time"

// Identity is the signed-in account as reported by the server.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Message is an anonymous message in the owner's inbox.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Profile is the public page of a user that others can write to.
type Profile struct {
	Username            string `json:"username"`
	IsAcceptingMessages bool   `json:"isAcceptingMessages"`
	ProfileURL          string `json:"profileUrl"`
}

// PublicUser is a directory entry returned by /api/users.
type PublicUser struct {
	ID                  string `json:"id"`
	Username            string `json:"username"`
	IsVerified          bool   `json:"isVerified"`
	IsAcceptingMessages bool   `json:"isAcceptingMessages"`
	MessageCount        int    `json:"messageCount"`
}

// SignUp carries the registration form.
type SignUp struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	DOB      string `json:"dob"`
}

// Suggestions are ready-made questions offered to anonymous senders.
// Fallback is set when the server could not reach its language model.
type Suggestions struct {
	Items    []string
	Fallback bool
}
