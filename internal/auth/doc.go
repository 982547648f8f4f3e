// Package auth protects the control API with HS256 bearer tokens.
//
// Tokens carry a subject and a list of scopes. Control routes require the
// control scope and the event stream requires the events scope. A middleware
// without a verifier lets every request through.
package auth
