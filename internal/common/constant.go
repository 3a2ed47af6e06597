// Package common contains shared constants and sentinel errors used across
// Mystery Message components.
package common

// SessionCookieName is the cookie that carries the signed session token
// issued by /api/sign-in.
const SessionCookieName = "session-token"

// AuthorizationHeaderName carries "Bearer <token>" for non-browser clients.
const AuthorizationHeaderName = "Authorization"

// SuggestionSeparator splits the prompt suggestions returned by
// /api/suggest-messages.
const SuggestionSeparator = "||"
