// Package exports holds the legacy functions a resource exposes to other
// scripts.
//
// Functions are registered by name in a Registry and invoked through Call,
// which wraps every invocation in a trace span. BindLua makes the same
// registry reachable from Lua as exports.<resource>.<Name>(...).
package exports
