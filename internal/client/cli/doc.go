// Package cli provides the interactive Mystery Message terminal client.
//
// It wires configuration and the API client into a REPL. Anyone can send an
// anonymous message or browse suggestions; after login the owner can read and
// delete their inbox, toggle whether new messages are accepted, share their
// profile link and download an export of all messages.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
