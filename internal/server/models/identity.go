package models

// Identity is the authenticated caller as established by a session token.
// It is the only shape of "current user" used past the HTTP boundary.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}
