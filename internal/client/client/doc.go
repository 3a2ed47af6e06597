// Package client talks to the Mystery Message JSON API.
//
// # Overview
//
// Client is the transport-agnostic contract used by the CLI; HTTPClient is
// its net/http implementation. After SignIn the session token is held in
// memory and sent as "Authorization: Bearer <token>" on every call.
//
// # Error Handling
//
// Non-2xx responses become *APIError carrying the server's "message" field.
// APIError unwraps to ErrUnauthorized for 401 responses, so callers can match
// with errors.Is. Transport failures are wrapped in ErrUnavailable.
package client
